package nodelink

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/matzehuels/railpath/pkg/cache"
	"github.com/matzehuels/railpath/pkg/network"
	"github.com/matzehuels/railpath/pkg/pathfind"
	"github.com/matzehuels/railpath/pkg/render"
	"github.com/matzehuels/railpath/pkg/replay"
)

func replayed(t *testing.T, n network.Network, from, to string, steps int) *Frame {
	t.Helper()
	res, err := pathfind.FindShortestPath(n.Graph, from, to)
	if err != nil {
		t.Fatalf("FindShortestPath: %v", err)
	}
	if steps < 0 || steps > len(res.Trace) {
		steps = len(res.Trace)
	}
	f := NewFrame()
	for _, ev := range res.Trace[:steps] {
		replay.Apply(f, ev)
	}
	return f
}

func TestKey(t *testing.T) {
	if Key("b", "a") != Key("a", "b") {
		t.Error("Key should not depend on direction")
	}
	if k := Key("b", "a"); k.A != "a" || k.B != "b" {
		t.Errorf("Key(b, a) = %+v, want {a b}", k)
	}
}

func TestFrame_Partial(t *testing.T) {
	f := replayed(t, network.Compact(), "北京", "深圳", 4)

	// N北京, E北京天津, E北京武汉, E北京郑州
	if got := f.Node("北京"); got != Visited {
		t.Errorf("Node(北京) = %v, want visited", got)
	}
	if got := f.Node("天津"); got != None {
		t.Errorf("Node(天津) = %v, want none", got)
	}
	if got := f.Edge("武汉", "北京"); got != Visited {
		t.Errorf("Edge(武汉, 北京) = %v, want visited", got)
	}
	if got := f.Edge("天津", "郑州"); got != None {
		t.Errorf("Edge(天津, 郑州) = %v, want none", got)
	}
	if f.Summary() != "" {
		t.Errorf("Summary() = %q before path_found", f.Summary())
	}
	if f.Steps() != 4 {
		t.Errorf("Steps() = %d, want 4", f.Steps())
	}
}

func TestFrame_Final(t *testing.T) {
	f := replayed(t, network.Compact(), "北京", "深圳", -1)

	for _, id := range []string{"北京", "武汉", "广州", "深圳"} {
		if got := f.Node(id); got != OnPath {
			t.Errorf("Node(%s) = %v, want path", id, got)
		}
	}
	if got := f.Node("郑州"); got != Visited {
		t.Errorf("Node(郑州) = %v, want visited", got)
	}
	if got := f.Edge("广州", "武汉"); got != OnPath {
		t.Errorf("Edge(广州, 武汉) = %v, want path", got)
	}
	if got := f.Edge("北京", "郑州"); got != Visited {
		t.Errorf("Edge(北京, 郑州) = %v, want visited", got)
	}
	if got, want := f.Summary(), "2350 km: 北京 → 武汉 → 广州 → 深圳"; got != want {
		t.Errorf("Summary() = %q, want %q", got, want)
	}

	f.HighlightNode("北京")
	if got := f.Node("北京"); got != OnPath {
		t.Errorf("visit after path downgraded 北京 to %v", got)
	}

	f.Reset()
	if f.Node("北京") != None || f.Edge("广州", "深圳") != None || f.Summary() != "" || f.Steps() != 0 {
		t.Error("Reset() should clear every highlight")
	}
}

func TestToDOT(t *testing.T) {
	n := network.Compact()
	f := replayed(t, n, "北京", "深圳", -1)
	dot := ToDOT(n, f, Options{})

	if !strings.HasPrefix(dot, `graph "compact" {`) {
		t.Errorf("ToDOT() should start with the undirected graph header, got %q", strings.SplitN(dot, "\n", 2)[0])
	}
	if !strings.HasSuffix(strings.TrimSpace(dot), "}") {
		t.Error("ToDOT() should end with '}'")
	}

	expected := []string{
		"layout=neato",
		`"北京" [label="北京", pos="400,380!", fillcolor="blue", fontcolor=white];`,
		`"深圳" [label="深圳", pos="420,0!", fillcolor="blue", fontcolor=white];`,
		`"郑州" [label="郑州", pos=`,
		`fillcolor="yellow"`,
		`"北京" -- "郑州" [label="700", color="red", penwidth=2];`,
		`"广州" -- "深圳" [label="150", color="blue", penwidth=3];`,
		`label="2350 km: 北京 → 武汉 → 广州 → 深圳";`,
	}
	for _, exp := range expected {
		if !strings.Contains(dot, exp) {
			t.Errorf("ToDOT() missing %q\n%s", exp, dot)
		}
	}
	if strings.Contains(dot, "->") {
		t.Error("ToDOT() should not contain directed edges")
	}
	if got := strings.Count(dot, " -- "); got != n.Graph.EdgeCount() {
		t.Errorf("ToDOT() has %d edges, want %d", got, n.Graph.EdgeCount())
	}
}

func TestToDOT_Options(t *testing.T) {
	n := network.Compact()
	f := replayed(t, n, "北京", "深圳", 3)
	dot := ToDOT(n, f, Options{
		Colors:      Colors{VisitEdge: "orange"},
		Scale:       2,
		HideWeights: true,
	})

	if !strings.Contains(dot, `"北京" -- "天津" [color="orange", penwidth=2];`) {
		t.Errorf("custom edge color not applied:\n%s", dot)
	}
	if !strings.Contains(dot, `fillcolor="yellow"`) {
		t.Error("empty color fields should fall back to defaults")
	}
	if !strings.Contains(dot, `pos="800,760!"`) {
		t.Error("Scale should multiply coordinates")
	}
	if strings.Contains(dot, `label="120"`) {
		t.Error("HideWeights should drop edge labels")
	}
}

func TestToDOT_NilFrame(t *testing.T) {
	n := network.Network{Name: "tiny", Graph: network.Graph{"a": {"b": 3}, "b": {"a": 3}}}
	dot := ToDOT(n, nil, Options{})
	if !strings.Contains(dot, `"a" -- "b" [label="3"];`) {
		t.Errorf("ToDOT(nil frame) missing plain edge:\n%s", dot)
	}
	if strings.Contains(dot, "pos=") {
		t.Error("cities without coordinates should not be pinned")
	}
}

func TestRender(t *testing.T) {
	ctx := context.Background()
	dot := ToDOT(network.Compact(), nil, Options{})

	src, err := Render(ctx, dot, render.FormatDOT)
	if err != nil {
		t.Fatalf("Render(dot): %v", err)
	}
	if string(src) != dot {
		t.Error("Render(dot) should return the source unchanged")
	}

	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		t.Fatalf("RenderSVG: %v", err)
	}
	if !bytes.Contains(svg, []byte("<svg")) {
		t.Error("RenderSVG() output is not SVG")
	}

	if _, err := Render(ctx, dot, render.Format("pdf")); err == nil {
		t.Error("Render(pdf) should fail")
	}
}

func TestRenderCached(t *testing.T) {
	ctx := context.Background()
	dot := ToDOT(network.Compact(), replayed(t, network.Compact(), "北京", "深圳", 5), Options{})
	c := cache.NewMemory(8)

	first, hit, err := RenderCached(ctx, c, dot, render.FormatSVG, 0)
	if err != nil {
		t.Fatalf("RenderCached: %v", err)
	}
	if hit {
		t.Error("first render should miss")
	}
	second, hit, err := RenderCached(ctx, c, dot, render.FormatSVG, 0)
	if err != nil {
		t.Fatalf("RenderCached: %v", err)
	}
	if !hit {
		t.Error("second render should hit")
	}
	if !bytes.Equal(first, second) {
		t.Error("cached bytes differ from the rendered ones")
	}

	src, hit, err := RenderCached(ctx, c, dot, render.FormatDOT, 0)
	if err != nil || hit || string(src) != dot {
		t.Errorf("DOT should bypass the cache: hit = %v, err = %v", hit, err)
	}
	if c.Len() != 1 {
		t.Errorf("cache has %d entries, want 1", c.Len())
	}

	for i := 0; i < 2; i++ {
		data, hit, err := RenderCached(ctx, cache.NewNullCache(), dot, render.FormatSVG, 0)
		if err != nil || hit || !bytes.Equal(data, first) {
			t.Errorf("NullCache render %d: hit = %v, err = %v", i, hit, err)
		}
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="10pt" height="20pt" viewBox="0.00 0.00 10.00 20.00" xmlns="http://www.w3.org/2000/svg"><g/></svg>`)
	out := string(normalizeViewBox(in))
	want := `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 10.00 20.00" width="10" height="20"><g/></svg>`
	if out != want {
		t.Errorf("normalizeViewBox() = %s, want %s", out, want)
	}
}
