package network

import (
	"maps"
	"slices"

	"github.com/matzehuels/railpath/pkg/errors"
)

// Built-in network names.
const (
	NameChina   = "china"
	NameCompact = "compact"
)

// DefaultName is the network used when none is configured.
const DefaultName = NameChina

var builtins = map[string]func() Network{
	NameChina:   China,
	NameCompact: Compact,
}

// Names returns the built-in network names in lexical order.
func Names() []string {
	return slices.Sorted(maps.Keys(builtins))
}

// Builtin returns a freshly allocated copy of the named built-in network.
func Builtin(name string) (Network, error) {
	build, ok := builtins[name]
	if !ok {
		return Network{}, errors.New(errors.ErrCodeUnknownNetwork, "unknown network %q (available: %v)", name, Names())
	}
	return build(), nil
}

// China returns the 23-city national rail network.
// Coordinates are a simplified projection of the real geography onto a
// 700x600 canvas.
func China() Network {
	return Network{
		Name:  NameChina,
		Title: "China rail network",
		Coords: map[string]Point{
			"北京":  {400, 150},
			"天津":  {430, 170},
			"西安":  {300, 320},
			"武汉":  {430, 350},
			"上海":  {550, 300},
			"杭州":  {520, 330},
			"南京":  {480, 280},
			"广州":  {400, 500},
			"深圳":  {420, 530},
			"成都":  {200, 400},
			"重庆":  {250, 380},
			"长沙":  {400, 400},
			"郑州":  {380, 280},
			"济南":  {420, 200},
			"合肥":  {450, 300},
			"南昌":  {450, 380},
			"福州":  {500, 420},
			"厦门":  {480, 450},
			"昆明":  {200, 480},
			"贵阳":  {280, 440},
			"哈尔滨": {500, 50},
			"长春":  {480, 80},
			"沈阳":  {460, 120},
		},
		Graph: Graph{
			"北京":  {"天津": 120, "西安": 1200, "济南": 400, "沈阳": 700},
			"天津":  {"北京": 120, "济南": 300, "沈阳": 600},
			"西安":  {"北京": 1200, "成都": 700, "武汉": 800, "郑州": 500, "重庆": 700},
			"成都":  {"西安": 700, "重庆": 300, "昆明": 600, "贵阳": 700},
			"重庆":  {"成都": 300, "西安": 700, "贵阳": 400, "长沙": 900},
			"武汉":  {"西安": 800, "郑州": 500, "长沙": 350, "南昌": 400, "合肥": 400},
			"郑州":  {"西安": 500, "武汉": 500, "济南": 400, "合肥": 500},
			"济南":  {"北京": 400, "天津": 300, "郑州": 400, "合肥": 600},
			"上海":  {"南京": 300, "杭州": 200, "合肥": 400},
			"南京":  {"上海": 300, "合肥": 300, "杭州": 300},
			"杭州":  {"上海": 200, "南京": 300, "南昌": 500, "福州": 600},
			"合肥":  {"南京": 300, "上海": 400, "武汉": 400, "郑州": 500, "济南": 600},
			"长沙":  {"武汉": 350, "南昌": 400, "广州": 600, "贵阳": 600, "重庆": 900},
			"南昌":  {"武汉": 400, "长沙": 400, "杭州": 500, "福州": 600},
			"广州":  {"长沙": 600, "深圳": 150, "南昌": 800, "贵阳": 800},
			"深圳":  {"广州": 150, "厦门": 500},
			"福州":  {"杭州": 600, "南昌": 600, "厦门": 300},
			"厦门":  {"福州": 300, "深圳": 500},
			"昆明":  {"成都": 600, "贵阳": 400},
			"贵阳":  {"昆明": 400, "成都": 700, "重庆": 400, "长沙": 600, "广州": 800},
			"哈尔滨": {"长春": 300},
			"长春":  {"哈尔滨": 300, "沈阳": 300},
			"沈阳":  {"长春": 300, "北京": 700, "天津": 600},
		},
	}
}

// Compact returns an 8-city network along the Beijing-Guangzhou corridor.
func Compact() Network {
	return Network{
		Name:  NameCompact,
		Title: "Beijing-Guangzhou corridor",
		Coords: map[string]Point{
			"北京": {400, 150},
			"天津": {430, 170},
			"郑州": {380, 280},
			"西安": {300, 320},
			"武汉": {430, 350},
			"长沙": {400, 400},
			"广州": {400, 500},
			"深圳": {420, 530},
		},
		Graph: Graph{
			"北京": {"天津": 120, "郑州": 700, "武汉": 1200},
			"天津": {"北京": 120, "郑州": 800},
			"郑州": {"北京": 700, "天津": 800, "西安": 500, "武汉": 600},
			"西安": {"郑州": 500, "武汉": 800},
			"武汉": {"北京": 1200, "郑州": 600, "西安": 800, "长沙": 350, "广州": 1000},
			"长沙": {"武汉": 350, "广州": 700},
			"广州": {"武汉": 1000, "长沙": 700, "深圳": 150},
			"深圳": {"广州": 150},
		},
	}
}
