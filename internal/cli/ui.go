package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/factionmap/pkg/core/family"
)

// =============================================================================
// Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // titles, current year
	colorGreen  = lipgloss.Color("35")  // success
	colorYellow = lipgloss.Color("220") // warnings
	colorRed    = lipgloss.Color("167") // errors
	colorBlue   = lipgloss.Color("75")  // suggested commands
	colorWhite  = lipgloss.Color("255") // values
	colorGray   = lipgloss.Color("245") // labels
	colorDim    = lipgloss.Color("240") // muted text
)

// groupColors follow the social map: gold Ghibellines, red Guelfs, the two
// Guelf parties in white and black, exiles in gray.
var groupColors = map[family.VisualGroup]lipgloss.Color{
	family.GroupExile:      colorGray,
	family.GroupGhibelline: colorYellow,
	family.GroupWhite:      colorWhite,
	family.GroupGuelf:      colorRed,
	family.GroupBlack:      colorDim,
}

var (
	StyleTitle     = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	StyleHighlight = lipgloss.NewStyle().Foreground(colorCyan)
	StyleDim       = lipgloss.NewStyle().Foreground(colorDim)
	StyleValue     = lipgloss.NewStyle().Foreground(colorWhite)
	StyleNumber    = lipgloss.NewStyle().Foreground(colorCyan)
	StyleWarning   = lipgloss.NewStyle().Foreground(colorYellow)

	styleLabel   = lipgloss.NewStyle().Foreground(colorGray).Width(12)
	styleCommand = lipgloss.NewStyle().Foreground(colorBlue)
	styleCached  = lipgloss.NewStyle().Foreground(colorGreen)
)

// StyleGroup renders text in the color of a visual group.
func StyleGroup(g family.VisualGroup) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(groupColors[g])
}

// =============================================================================
// Status lines
// =============================================================================

type status struct {
	icon  string
	style lipgloss.Style
}

var (
	statusSuccess = status{"✓", lipgloss.NewStyle().Foreground(colorGreen)}
	statusError   = status{"✗", lipgloss.NewStyle().Foreground(colorRed)}
	statusWarning = status{"!", lipgloss.NewStyle().Foreground(colorYellow)}
	statusInfo    = status{"›", lipgloss.NewStyle().Foreground(colorGray)}
	statusSpinner = lipgloss.NewStyle().Foreground(colorCyan)
)

func (s status) print(msg string) {
	fmt.Println(s.style.Render(s.icon) + " " + msg)
}

func printSuccess(format string, args ...any) { statusSuccess.print(fmt.Sprintf(format, args...)) }
func printError(format string, args ...any)   { statusError.print(fmt.Sprintf(format, args...)) }
func printInfo(format string, args ...any)    { statusInfo.print(fmt.Sprintf(format, args...)) }

func printWarning(format string, args ...any) {
	statusWarning.print(StyleWarning.Render(fmt.Sprintf(format, args...)))
}

// printDetail prints an indented muted line.
func printDetail(format string, args ...any) {
	fmt.Println("  " + StyleDim.Render(fmt.Sprintf(format, args...)))
}

func printFile(path string) {
	fmt.Println("  " + StyleDim.Render("→") + " " + StyleValue.Render(path))
}

func printKeyValue(key, value string) {
	fmt.Println(styleLabel.Render(key) + " " + StyleValue.Render(value))
}

func printNextStep(description, cmd string) {
	fmt.Println(StyleDim.Render(description+":") + " " + styleCommand.Render(cmd))
}

func printNewline() { fmt.Println() }

// =============================================================================
// Layout summaries
// =============================================================================

// printStats prints how many families were placed out of the dataset and
// whether the layout came from the cache.
func printStats(placed, total int, cached bool) {
	var parts []string
	if placed > 0 {
		parts = append(parts, StyleDim.Render(fmt.Sprintf("%d placed", placed)))
	}
	if total > 0 {
		parts = append(parts, StyleDim.Render(fmt.Sprintf("%d families", total)))
	}
	if cached {
		parts = append(parts, styleCached.Render("cached"))
	} else {
		parts = append(parts, StyleDim.Render("fresh"))
	}
	fmt.Println("  " + joinDim(parts))
}

// printGroups prints the family count of every visual group in canvas
// order, skipping empty groups.
func printGroups(counts map[family.VisualGroup]int) {
	fmt.Println("  " + groupSummary(counts))
}

func groupSummary(counts map[family.VisualGroup]int) string {
	var parts []string
	for _, g := range family.Groups {
		if n := counts[g]; n > 0 {
			parts = append(parts, StyleGroup(g).Render(string(g))+" "+StyleNumber.Render(fmt.Sprint(n)))
		}
	}
	if len(parts) == 0 {
		return StyleDim.Render("no families")
	}
	return joinDim(parts)
}

// joinDim joins already styled parts with a dim middle dot.
func joinDim(parts []string) string {
	return strings.Join(parts, StyleDim.Render(" · "))
}
