package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/isofar/wayfinder/pkg/planner"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // Teal - primary actions
	colorGreen  = lipgloss.Color("35")  // Green - success
	colorYellow = lipgloss.Color("220") // Amber - warnings
	colorRed    = lipgloss.Color("167") // Soft red - errors
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

	styleHeader = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	styleBorder = lipgloss.NewStyle().Foreground(colorDim)
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

// printWarning prints a warning message.
func printWarning(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconWarning.Render(iconWarning) + " " + StyleWarning.Render(msg))
}

// printInfo prints an info/status message.
func printInfo(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconInfo.Render(iconInfo) + " " + msg)
}

// printFile prints a file output line.
func printFile(path string) {
	fmt.Println("  " + StyleDim.Render(iconArrow) + " " + StyleValue.Render(path))
}

// printKeyValue prints a labeled value.
func printKeyValue(key, value string) {
	keyStyle := lipgloss.NewStyle().Foreground(colorGray).Width(12)
	fmt.Println(keyStyle.Render(key) + " " + StyleValue.Render(value))
}

// =============================================================================
// Route Display
// =============================================================================

// formatRoute renders a planned route as a bordered table with one row
// per stop and a total line.
func formatRoute(route *planner.Route) string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Route from " + route.Start))
	b.WriteString("\n")

	if len(route.AtStart) > 0 {
		b.WriteString(StyleDim.Render("already at start: " + strings.Join(route.AtStart, ", ")))
		b.WriteString("\n")
	}

	if len(route.Stops) > 0 {
		rows := make([][]string, 0, len(route.Stops))
		running := 0
		for i, stop := range route.Stops {
			running += stop.Hops
			rows = append(rows, []string{
				fmt.Sprintf("%d", i+1),
				stop.Node,
				strings.Join(stop.Items, ", "),
				fmt.Sprintf("%d", stop.Hops),
				fmt.Sprintf("%d", running),
			})
		}
		t := table.New().
			Border(lipgloss.RoundedBorder()).
			BorderStyle(styleBorder).
			Headers("#", "Stop", "Collect", "Hops", "Total").
			Rows(rows...).
			StyleFunc(func(row, col int) lipgloss.Style {
				if row == -1 {
					return styleHeader
				}
				return StyleValue
			})
		b.WriteString(t.Render())
		b.WriteString("\n")
	}

	b.WriteString(StyleDim.Render(fmt.Sprintf("total: %d hops, %.0f px", route.TotalHops, route.TotalLength)))
	b.WriteString("\n")
	return b.String()
}

// printRouteWarnings surfaces unplannable materials without failing.
func printRouteWarnings(route *planner.Route) {
	for _, material := range route.NoSource {
		printWarning("no known source for %s", material)
	}
	for _, material := range route.Unreachable {
		printWarning("no reachable source for %s under current unlocks", material)
	}
}
