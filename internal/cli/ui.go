package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/railpath/pkg/network"
	"github.com/matzehuels/railpath/pkg/pathfind"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // Teal - primary actions
	colorGreen  = lipgloss.Color("35")  // Green - success
	colorYellow = lipgloss.Color("220") // Amber - settled cities, warnings
	colorRed    = lipgloss.Color("167") // Soft red - examined edges, errors
	colorBlue   = lipgloss.Color("75")  // Light blue - the final path
	colorWhite  = lipgloss.Color("255") // Bright white - values
	colorGray   = lipgloss.Color("245") // Gray - secondary text
	colorDim    = lipgloss.Color("240") // Dim gray - muted text
)

// =============================================================================
// Public Styles
// =============================================================================

var (
	// StyleTitle for main headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

	// StyleHighlight for emphasized values.
	StyleHighlight = lipgloss.NewStyle().Foreground(colorCyan)

	// StyleDim for secondary/muted text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue for data values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	// StyleNumber for numeric values.
	StyleNumber = lipgloss.NewStyle().Foreground(colorCyan)

	// StyleSuccess for success messages.
	StyleSuccess = lipgloss.NewStyle().Foreground(colorGreen)

	// StyleWarning for warning messages.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)
)

// =============================================================================
// Internal Styles
// =============================================================================

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)

	styleVisited  = lipgloss.NewStyle().Foreground(colorYellow)
	styleExamined = lipgloss.NewStyle().Foreground(colorRed)
	stylePath     = lipgloss.NewStyle().Foreground(colorBlue).Bold(true)

	styleCommand = lipgloss.NewStyle().Foreground(colorBlue)
)

// =============================================================================
// Icons
// =============================================================================

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
	iconCity    = "●"
	iconEdge    = "─"
)

// =============================================================================
// Status Output
// =============================================================================

// printSuccess prints a success message.
func printSuccess(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconSuccess.Render(iconSuccess) + " " + msg)
}

// printError prints an error message.
func printError(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconError.Render(iconError) + " " + msg)
}

// printInfo prints an info/status message.
func printInfo(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconInfo.Render(iconInfo) + " " + msg)
}

// printDetail prints a detail line (indented).
func printDetail(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println("  " + StyleDim.Render(msg))
}

// printFile prints a file output line.
func printFile(path string) {
	fmt.Println("  " + StyleDim.Render(iconArrow) + " " + StyleValue.Render(path))
}

// printNextStep prints a suggested next command.
func printNextStep(description, cmd string) {
	fmt.Println(StyleDim.Render(description+":") + " " + styleCommand.Render(cmd))
}

// =============================================================================
// Routes
// =============================================================================

// formatPath joins a path with styled arrows.
func formatPath(path []string) string {
	return strings.Join(path, " "+StyleDim.Render(iconArrow)+" ")
}

// printRoute writes the outcome of a search: distance and path, or "no path".
func printRoute(w io.Writer, res *pathfind.Result) {
	if !res.Reachable() {
		fmt.Fprintf(w, "%s %s %s %s: %s\n",
			styleIconWarning.Render(iconWarning),
			StyleValue.Render(res.Start), StyleDim.Render(iconArrow), StyleValue.Render(res.End),
			StyleWarning.Render("no path"))
		return
	}
	fmt.Fprintf(w, "%s %s km  %s\n",
		styleIconSuccess.Render(iconSuccess),
		StyleNumber.Render(res.Distance.String()),
		stylePath.Render(formatPath(res.Path)))
	fmt.Fprintln(w, "  "+StyleDim.Render(fmt.Sprintf("%d stops · %d settled · %d trace events",
		len(res.Path)-1, len(res.Visited()), len(res.Trace))))
}

// formatEvent renders one trace event as a single styled line.
func formatEvent(i int, ev pathfind.Event) string {
	num := StyleDim.Render(fmt.Sprintf("%3d", i+1))
	switch ev.Kind {
	case pathfind.KindVisitNode:
		return num + " " + styleVisited.Render(iconCity+" "+ev.Node)
	case pathfind.KindVisitEdge:
		return num + "   " + styleExamined.Render(ev.From+" "+iconEdge+" "+ev.To)
	case pathfind.KindPathFound:
		return num + " " + stylePath.Render(pathfind.SummaryOf(ev).String())
	default:
		return num + " " + ev.String()
	}
}

// =============================================================================
// Tables
// =============================================================================

// citiesTable renders the cities of n with coordinates and connections.
func citiesTable(n network.Network) string {
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	rows := make([][]string, 0, n.Graph.NodeCount())
	for _, id := range n.Cities() {
		x, y := "—", "—"
		if p, ok := n.Coords[id]; ok {
			x, y = strconv.Itoa(p.X), strconv.Itoa(p.Y)
		}
		var links []string
		for _, e := range n.Graph.Neighbors(id) {
			links = append(links, fmt.Sprintf("%s %d", e.To, e.Weight))
		}
		rows = append(rows, []string{id, x, y, strconv.Itoa(n.Graph.Degree(id)), strings.Join(links, ", ")})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("City", "X", "Y", "Links", "Neighbors (km)").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			switch col {
			case 0:
				return lipgloss.NewStyle().Foreground(colorCyan)
			case 4:
				return lipgloss.NewStyle().Foreground(colorGray)
			}
			return lipgloss.NewStyle()
		})

	return t.Render()
}
