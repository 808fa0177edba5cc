package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/msaflow/pkg/assign"
	"github.com/matzehuels/msaflow/pkg/pipeline"
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

	// StyleDim for secondary/muted text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue for data values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	// StyleNumber for numeric values.
	StyleNumber = lipgloss.NewStyle().Foreground(colorCyan)
)

// =============================================================================
// Internal Styles
// =============================================================================

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)

	styleCached   = lipgloss.NewStyle().Foreground(colorGreen)
	styleComputed = lipgloss.NewStyle().Foreground(colorGray)

	styleTableHeader = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	styleDeviating   = lipgloss.NewStyle().Foreground(colorYellow)
)

// =============================================================================
// Icons
// =============================================================================

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconInfo    = "›"
	iconArrow   = "→"
	iconCached  = "cached"
	iconFresh   = "fresh"
)

// =============================================================================
// Status Output
// =============================================================================

func printSuccess(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconSuccess.Render(iconSuccess) + " " + msg)
}

func printError(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconError.Render(iconError) + " " + msg)
}

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
func printFile(w io.Writer, path string) {
	fmt.Fprintln(w, "  "+StyleDim.Render(iconArrow)+" "+StyleValue.Render(path))
}

// printKeyValue prints a labeled value.
func printKeyValue(w io.Writer, key, value string) {
	keyStyle := lipgloss.NewStyle().Foreground(colorGray).Width(12)
	fmt.Fprintln(w, keyStyle.Render(key)+" "+StyleValue.Render(value))
}

// =============================================================================
// Result Display
// =============================================================================

// printResult prints the equilibrium measures, the route table and a stats
// line for a finished run.
func printResult(w io.Writer, r *pipeline.Result) {
	s := r.Summary
	fmt.Fprintln(w, StyleTitle.Render(s.Network))
	printKeyValue(w, "Iterations", strconv.Itoa(s.Iterations))
	printKeyValue(w, "UE", StyleNumber.Render(fmt.Sprintf("%.2f min", s.UE)))
	printKeyValue(w, "AEC", StyleNumber.Render(fmt.Sprintf("%.10f", s.AEC)))
	printKeyValue(w, "Deviating", fmt.Sprintf("%.2f of %.2f", s.DeviatingFlow, s.TotalDemand))
	fmt.Fprintln(w, routeTable(s))
	printStats(w, r.Stats, r.CacheInfo.AssignHit)
}

// routeTable renders one row per tracked route. Deviating routes are
// highlighted.
func routeTable(s *assign.Summary) string {
	var rows [][]string
	var deviating []bool
	for _, p := range s.Pairs {
		for _, rt := range p.Routes {
			rows = append(rows, []string{
				p.OD,
				rt.Route,
				strconv.FormatFloat(rt.Flow, 'f', 2, 64),
				strconv.FormatFloat(rt.Cost, 'f', 2, 64),
			})
			deviating = append(deviating, rt.Deviating)
		}
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("OD", "Route", "Flow", "Time").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			base := lipgloss.NewStyle().Padding(0, 1)
			if row == -1 {
				return styleTableHeader.Padding(0, 1)
			}
			if row >= 0 && row < len(deviating) && deviating[row] {
				return base.Inherit(styleDeviating)
			}
			return base
		})
	return t.Render()
}

// printStats prints network statistics on a single line.
func printStats(w io.Writer, st pipeline.Stats, cached bool) {
	parts := []string{
		fmt.Sprintf("%d nodes", st.NodeCount),
		fmt.Sprintf("%d edges", st.EdgeCount),
		fmt.Sprintf("%d routes", st.RouteCount),
	}

	status := iconFresh
	statusStyle := styleComputed
	if cached {
		status = iconCached
		statusStyle = styleCached
	}

	line := "  "
	for i, part := range parts {
		if i > 0 {
			line += StyleDim.Render(" · ")
		}
		line += StyleDim.Render(part)
	}
	line += StyleDim.Render(" · ") + statusStyle.Render(status)
	fmt.Fprintln(w, line)
}
