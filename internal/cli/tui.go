package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/charmbracelet/log"

	"github.com/matzehuels/factionmap/pkg/core/family"
	"github.com/matzehuels/factionmap/pkg/core/render/social/layout"
	"github.com/matzehuels/factionmap/pkg/core/timeline"
	"github.com/matzehuels/factionmap/pkg/pipeline"
)

// Timeline styles
var (
	timelineYearStyle  = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	timelineDimStyle   = lipgloss.NewStyle().Foreground(colorDim)
	timelineEventStyle = lipgloss.NewStyle().Bold(true).Foreground(colorWhite)
	timelinePlayStyle  = lipgloss.NewStyle().Foreground(colorGreen)
)

// barWidth is the widest group bar in cells.
const barWidth = 30

// =============================================================================
// TimelineModel - Interactive year scrubber
// =============================================================================

// tickMsg advances a playing timeline by one year.
type tickMsg time.Time

// TimelineModel is the bubbletea model for the interactive timeline. Every
// year change recomputes the social-map layout and shows how many families
// fall in each group.
type TimelineModel struct {
	Clock    timeline.Clock
	Dataset  pipeline.Dataset
	Interval time.Duration
	Passes   int

	layout  layout.Layout
	ticking bool
	logger  *log.Logger
}

// NewTimelineModel creates a timeline positioned at clock.Year.
func NewTimelineModel(ds pipeline.Dataset, clock timeline.Clock, interval time.Duration, passes int) TimelineModel {
	m := TimelineModel{
		Clock:    clock,
		Dataset:  ds,
		Interval: interval,
		Passes:   passes,
		logger:   log.New(io.Discard),
	}
	m.relayout()
	return m
}

// Layout returns the layout for the current year.
func (m TimelineModel) Layout() layout.Layout { return m.layout }

func (m *TimelineModel) relayout() {
	passes := m.Passes
	m.layout = pipeline.GenerateLayout(m.Dataset, pipeline.Options{
		Year:        m.Clock.Year,
		RelaxPasses: &passes,
		Logger:      m.logger,
	})
}

func (m TimelineModel) tick() tea.Cmd {
	return tea.Tick(m.Interval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m TimelineModel) Init() tea.Cmd {
	return nil
}

func (m TimelineModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	year := m.Clock.Year
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "left", "h":
			m.Clock.Step(-1)
		case "right", "l":
			m.Clock.Step(1)
		case "shift+left", "[":
			m.Clock.Jump(m.Dataset.Events, timeline.Prev)
		case "shift+right", "]":
			m.Clock.Jump(m.Dataset.Events, timeline.Next)
		case "home":
			m.Clock.Set(m.Clock.Min)
		case "end":
			m.Clock.Set(m.Clock.Max)
		case " ":
			if !m.Clock.Playing && m.Clock.Year >= m.Clock.Max {
				m.Clock.Set(m.Clock.Min)
			}
			m.Clock.Toggle()
			if m.Clock.Playing && !m.ticking {
				m.ticking = true
				cmd = m.tick()
			}
		}
	case tickMsg:
		m.ticking = false
		m.Clock.Tick()
		if m.Clock.Playing {
			m.ticking = true
			cmd = m.tick()
		}
	}

	if m.Clock.Year != year {
		m.relayout()
	}
	return m, cmd
}

func (m TimelineModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Florence"))
	b.WriteString(" ")
	b.WriteString(timelineYearStyle.Render(strconv.Itoa(m.Clock.Year)))
	if m.Clock.Playing {
		b.WriteString("  " + timelinePlayStyle.Render("▶ playing"))
	}
	b.WriteString("\n")
	b.WriteString(m.scale())
	b.WriteString("\n\n")

	b.WriteString(m.groupTable())
	b.WriteString("\n\n")

	if ev, ok := timeline.Latest(m.Dataset.Events, m.Clock.Year); ok {
		b.WriteString(timelineEventStyle.Render(fmt.Sprintf("%d  %s", ev.Year, ev.Title)))
		b.WriteString("\n")
		if ev.ShortDescription != "" {
			b.WriteString(timelineDimStyle.Render(ev.ShortDescription))
			b.WriteString("\n")
		}
	} else {
		b.WriteString(timelineDimStyle.Render("No chronicle entry yet"))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(timelineDimStyle.Render("←/→ year  shift+←/→ event  space play  q quit"))
	return b.String()
}

// scale draws the year range with the current year and event years marked.
func (m TimelineModel) scale() string {
	span := m.Clock.Max - m.Clock.Min
	if span <= 0 {
		return ""
	}
	const width = 60
	cells := []rune(strings.Repeat("─", width+1))
	pos := func(y int) int { return (y - m.Clock.Min) * width / span }
	for _, ev := range m.Dataset.Events {
		if ev.Year >= m.Clock.Min && ev.Year <= m.Clock.Max {
			cells[pos(ev.Year)] = '┼'
		}
	}
	if m.Clock.Year >= m.Clock.Min && m.Clock.Year <= m.Clock.Max {
		cells[pos(m.Clock.Year)] = '●'
	}
	return timelineDimStyle.Render(fmt.Sprintf("%d ", m.Clock.Min)) +
		string(cells) +
		timelineDimStyle.Render(fmt.Sprintf(" %d", m.Clock.Max))
}

// groupTable lists the family count per visual group with a bar.
func (m TimelineModel) groupTable() string {
	counts := m.layout.GroupCounts()
	most := 0
	for _, n := range counts {
		most = max(most, n)
	}

	rows := make([][]string, 0, len(family.Groups))
	for _, g := range family.Groups {
		n := counts[g]
		bar := ""
		if most > 0 {
			bar = strings.Repeat("█", (n*barWidth+most-1)/most)
		}
		rows = append(rows, []string{string(g), strconv.Itoa(n), bar})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Group", "Families", "").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			base := lipgloss.NewStyle().Padding(0, 1)
			if col == 1 {
				return base.Align(lipgloss.Right)
			}
			if row >= 0 && row < len(family.Groups) {
				return base.Inherit(StyleGroup(family.Groups[row]))
			}
			return base
		})
	return t.Render()
}
