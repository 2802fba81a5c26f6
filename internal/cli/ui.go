package cli

import (
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/scatter/pkg/layout"
	"github.com/matzehuels/scatter/pkg/sceneio"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // Teal - primary actions
	colorGreen  = lipgloss.Color("35")  // Green - success
	colorYellow = lipgloss.Color("220") // Amber - warnings
	colorRed    = lipgloss.Color("167") // Soft red - errors
	colorBlue   = lipgloss.Color("75")  // Light blue - commands
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

	styleCached   = lipgloss.NewStyle().Foreground(colorGreen)
	styleComputed = lipgloss.NewStyle().Foreground(colorGray)

	styleCommand = lipgloss.NewStyle().Foreground(colorBlue)

	styleTableHeader = lipgloss.NewStyle().Bold(true).Foreground(colorCyan).Padding(0, 1)
	styleTableCell   = lipgloss.NewStyle().Foreground(colorWhite).Padding(0, 1)
	styleTableBest   = lipgloss.NewStyle().Foreground(colorGreen).Padding(0, 1)
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
	iconCached  = "cached"
	iconFresh   = "fresh"
)

// =============================================================================
// Status Output
// =============================================================================

func printSuccess(format string, args ...any) {
	fmt.Println(styleIconSuccess.Render(iconSuccess) + " " + fmt.Sprintf(format, args...))
}

func printError(format string, args ...any) {
	fmt.Println(styleIconError.Render(iconError) + " " + fmt.Sprintf(format, args...))
}

func printWarning(format string, args ...any) {
	fmt.Println(styleIconWarning.Render(iconWarning) + " " + StyleWarning.Render(fmt.Sprintf(format, args...)))
}

func printInfo(format string, args ...any) {
	fmt.Println(styleIconInfo.Render(iconInfo) + " " + fmt.Sprintf(format, args...))
}

// printDetail prints a detail line (indented).
func printDetail(format string, args ...any) {
	fmt.Println("  " + StyleDim.Render(fmt.Sprintf(format, args...)))
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

// printNextStep prints a suggested next command.
func printNextStep(description, cmd string) {
	fmt.Println(StyleDim.Render(description+":") + " " + styleCommand.Render(cmd))
}

func printNewline() {
	fmt.Println()
}

// =============================================================================
// Scene Display
// =============================================================================

// printSceneStats prints one line per site with its object count and the
// cache status of the run.
func printSceneStats(w io.Writer, doc sceneio.Document, attempts int, cached bool) {
	for _, s := range doc.Sites() {
		fmt.Fprintf(w, "  %s %s %s\n",
			StyleValue.Render(fmt.Sprintf("%-16s", s.Name)),
			StyleNumber.Render(fmt.Sprintf("%4d", len(s.Objects))),
			StyleDim.Render("objects · "+s.Kind))
	}

	status, statusStyle := iconFresh, styleComputed
	if cached {
		status, statusStyle = iconCached, styleCached
	}
	parts := fmt.Sprintf("seed %d · %d objects", doc.Seed, doc.Count())
	if attempts > 0 {
		parts += fmt.Sprintf(" · %d attempts", attempts)
	}
	fmt.Fprintln(w, "  "+StyleDim.Render(parts+" · ")+statusStyle.Render(status))
}

// =============================================================================
// Layout Display
// =============================================================================

// tileTable renders tiles as a bordered table.
func tileTable(tiles []layout.Tile) string {
	rows := make([][]string, len(tiles))
	for i, t := range tiles {
		rows[i] = []string{
			strconv.Itoa(i),
			fmt.Sprintf("(%s, %s)", num(t.TopLeft.X), num(t.TopLeft.Y)),
			fmt.Sprintf("(%s, %s)", num(t.BottomRight.X), num(t.BottomRight.Y)),
			num(t.Width()),
			num(t.Height()),
		}
	}
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(StyleDim).
		Headers("#", "TOP LEFT", "BOTTOM RIGHT", "WIDTH", "HEIGHT").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return styleTableHeader
			}
			return styleTableCell
		}).
		Render()
}

// candidateTable renders the four candidate tilings, highlighting best.
func candidateTable(cands []layout.Candidate, best layout.Candidate) string {
	bestRow := -1
	rows := make([][]string, len(cands))
	for i, c := range cands {
		div := "∞"
		if !math.IsInf(c.Divergence, 0) {
			div = num(c.Divergence)
		}
		rows[i] = []string{string(c.Mode), strconv.Itoa(c.Count), div}
		if bestRow < 0 && c.Mode == best.Mode && c.Count == best.Count {
			bestRow = i
		}
	}
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(StyleDim).
		Headers("MODE", "COUNT", "DIVERGENCE").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch row {
			case table.HeaderRow:
				return styleTableHeader
			case bestRow:
				return styleTableBest
			}
			return styleTableCell
		}).
		Render()
}

func num(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }
