package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/railpath/pkg/errors"
	"github.com/matzehuels/railpath/pkg/render/nodelink"
	"github.com/matzehuels/railpath/pkg/replay"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
	statusErrorStyle  = lipgloss.NewStyle().Foreground(colorRed)
	panelStyle        = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorDim).Padding(0, 1)
)

// =============================================================================
// ReplayModel - interactive city selection and animation
// =============================================================================

// replayKeys are the key bindings of the replay UI.
type replayKeys struct {
	Up     key.Binding
	Down   key.Binding
	Switch key.Binding
	Select key.Binding
	Filter key.Binding
	Reset  key.Binding
	Help   key.Binding
	Quit   key.Binding
}

func defaultReplayKeys() replayKeys {
	return replayKeys{
		Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Switch: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "switch")),
		Select: key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("⏎", "select")),
		Filter: key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "filter")),
		Reset:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reset")),
		Help:   key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c", "esc"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k replayKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Select, k.Switch, k.Filter, k.Reset, k.Quit, k.Help}
}

// FullHelp implements help.KeyMap.
func (k replayKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Filter},
		{k.Select, k.Switch, k.Reset},
		{k.Help, k.Quit},
	}
}

// Selection focus.
const (
	focusFrom = iota
	focusTo
)

// tickMsg advances the replay by one event. Ticks carry the generation of
// the replay that scheduled them; a reset or a new search makes older ticks
// stale.
type tickMsg struct{ gen int }

// ReplayModel is the bubbletea model for the replay command. The user picks
// a start and a destination; the search trace is then applied to a frame
// one event per tick and drawn on a character map.
type ReplayModel struct {
	ctx      context.Context
	session  *replay.Session
	frame    *nodelink.Frame
	cmap     charMap
	interval time.Duration

	keys   replayKeys
	help   help.Model
	filter textinput.Model

	// filtering is set while the filter input has focus.
	filtering bool
	allCities []string

	// Cities are the cities shown in the list, narrowed by the filter.
	Cities []string
	Cursor int
	Offset int
	Height int
	From   string
	To     string
	focus  int

	status string
	err    error

	// gen identifies the current tick chain.
	gen int
}

// NewReplayModel creates a replay model over the session's network.
// from and to may be preset; when both are, the search starts on Init.
func NewReplayModel(ctx context.Context, s *replay.Session, interval time.Duration, from, to string) ReplayModel {
	n := s.Network()
	filter := textinput.New()
	filter.Prompt = "/ "
	filter.Placeholder = "filter cities"
	filter.CharLimit = 32

	cities := n.Cities()
	m := ReplayModel{
		ctx:       ctx,
		session:   s,
		frame:     nodelink.NewFrame(),
		cmap:      newCharMap(n, 64, 22),
		interval:  interval,
		keys:      defaultReplayKeys(),
		help:      help.New(),
		filter:    filter,
		allCities: cities,
		Cities:    cities,
		Height:    18,
		From:      from,
		To:        to,
	}
	if from != "" {
		m.focus = focusTo
	}
	return m
}

func (m ReplayModel) Init() tea.Cmd {
	if m.From != "" && m.To != "" {
		return func() tea.Msg { return startMsg{} }
	}
	return nil
}

// startMsg requests a search with the current selection.
type startMsg struct{}

func (m ReplayModel) tick() tea.Cmd {
	gen := m.gen
	return tea.Tick(m.interval, func(time.Time) tea.Msg { return tickMsg{gen: gen} })
}

func (m ReplayModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case startMsg:
		return m.start()
	case tickMsg:
		if msg.gen != m.gen {
			return m, nil
		}
		if m.session.Step(m.ctx, m.frame) && m.session.Busy() {
			return m, m.tick()
		}
		if res := m.session.Result(); res != nil {
			m.status = res.Summary().String()
		}
		return m, nil
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-6, 5)
		m.help.Width = msg.Width
	}
	return m, nil
}

func (m ReplayModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.filtering {
		return m.handleFilterKey(msg)
	}
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Up):
		if m.Cursor > 0 {
			m.Cursor--
			if m.Cursor < m.Offset {
				m.Offset = m.Cursor
			}
		}
	case key.Matches(msg, m.keys.Down):
		if m.Cursor < len(m.Cities)-1 {
			m.Cursor++
			if m.Cursor >= m.Offset+m.Height {
				m.Offset = m.Cursor - m.Height + 1
			}
		}
	case key.Matches(msg, m.keys.Switch):
		m.focus = 1 - m.focus
	case key.Matches(msg, m.keys.Filter):
		m.filtering = true
		return m, m.filter.Focus()
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keys.Select):
		if len(m.Cities) == 0 {
			return m, nil
		}
		city := m.Cities[m.Cursor]
		if m.focus == focusFrom {
			m.From = city
			m.focus = focusTo
			return m, nil
		}
		m.To = city
		return m.start()
	case key.Matches(msg, m.keys.Reset):
		m.session.Reset(m.frame)
		m.gen++
		m.From, m.To = "", ""
		m.focus = focusFrom
		m.status, m.err = "", nil
		m.filter.SetValue("")
		m.applyFilter()
	}
	return m, nil
}

// handleFilterKey feeds keys to the filter input. Enter keeps the filter,
// esc clears it; both return to the list.
func (m ReplayModel) handleFilterKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		m.filtering = false
		m.filter.Blur()
		return m, nil
	case tea.KeyEsc:
		m.filtering = false
		m.filter.Blur()
		m.filter.SetValue("")
		m.applyFilter()
		return m, nil
	case tea.KeyCtrlC:
		return m, tea.Quit
	}
	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	m.applyFilter()
	return m, cmd
}

// applyFilter narrows Cities to names containing the filter text and
// returns the cursor to the top.
func (m *ReplayModel) applyFilter() {
	q := strings.TrimSpace(m.filter.Value())
	if q == "" {
		m.Cities = m.allCities
	} else {
		m.Cities = make([]string, 0, len(m.allCities))
		for _, c := range m.allCities {
			if strings.Contains(c, q) {
				m.Cities = append(m.Cities, c)
			}
		}
	}
	m.Cursor, m.Offset = 0, 0
}

// start runs the search and schedules the first tick.
func (m ReplayModel) start() (tea.Model, tea.Cmd) {
	res, err := m.session.Search(m.ctx, m.From, m.To)
	if err != nil {
		m.err = err
		m.status = errors.UserMessage(err)
		return m, nil
	}
	m.err = nil
	m.gen++
	m.frame.Reset()
	m.status = fmt.Sprintf("searching %s %s %s (%d steps)", res.Start, iconArrow, res.End, len(res.Trace))
	return m, m.tick()
}

func (m ReplayModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Railpath · " + m.session.Network().Title))
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	b.WriteString("\n\n")

	left := panelStyle.Render(m.cmap.Render(m.frame))
	right := panelStyle.Render(m.cityList())
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, left, " ", right))
	b.WriteString("\n")

	b.WriteString(m.selectionLine())
	b.WriteString("\n")
	b.WriteString(m.statusLine())
	return b.String()
}

func (m ReplayModel) cityList() string {
	var b strings.Builder
	if m.filtering || m.filter.Value() != "" {
		b.WriteString(m.filter.View())
		b.WriteString("\n")
	}
	if len(m.Cities) == 0 {
		b.WriteString(listDimStyle.Render("  no matching cities"))
		return b.String()
	}
	end := min(m.Offset+m.Height, len(m.Cities))
	for i := m.Offset; i < end; i++ {
		id := m.Cities[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		marker := " "
		switch m.frame.Node(id) {
		case nodelink.Visited:
			marker = styleVisited.Render(iconCity)
		case nodelink.OnPath:
			marker = stylePath.Render(iconCity)
		}
		line := cursor + marker + " " + id
		switch {
		case i == m.Cursor:
			b.WriteString(listSelectedStyle.Render(line))
		case id == m.From || id == m.To:
			b.WriteString(StyleHighlight.Render(line))
		default:
			b.WriteString(listNormalStyle.Render(line))
		}
		b.WriteString("\n")
	}
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Cities))))
	return b.String()
}

func (m ReplayModel) selectionLine() string {
	field := func(label, value string, focused bool) string {
		if value == "" {
			value = "—"
		}
		s := label + ": " + value
		if focused {
			return listSelectedStyle.Render("[" + s + "]")
		}
		return listNormalStyle.Render(" " + s + " ")
	}
	return field("from", m.From, m.focus == focusFrom) + "  " + field("to", m.To, m.focus == focusTo)
}

func (m ReplayModel) statusLine() string {
	if m.err != nil {
		return statusErrorStyle.Render(iconError + " " + m.status)
	}
	pos, total := m.session.Progress()
	if total == 0 {
		return listDimStyle.Render(m.status)
	}
	progress := listDimStyle.Render(fmt.Sprintf("[%d/%d] ", pos, total))
	if s := m.frame.Summary(); s != "" {
		return progress + stylePath.Render(s)
	}
	return progress + m.status
}
