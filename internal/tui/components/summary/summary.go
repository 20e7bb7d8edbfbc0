// Package summary renders one category over the selected window.
package summary

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/wellday/internal/aggregate"
	"github.com/julianstephens/wellday/internal/constants"
	"github.com/julianstephens/wellday/internal/daterange"
	"github.com/julianstephens/wellday/internal/utils"
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true)

	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))

	todayStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Bold(true)

	barStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("62"))

	goalMetStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))

	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))

	dropletStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
)

// Row is one bar of the chart: a day, or a month in the year window.
type Row struct {
	Label  string
	Total  float64
	Today  bool
	Logged bool
}

// Snapshot is everything the view shows for a category.
type Snapshot struct {
	Category   constants.Category
	Window     daterange.Window
	Start, End string
	Rows       []Row
	Today      float64
	Goal       float64
	Total      float64
	Average    float64
	ActiveDays int
	Days       int
	Loading    bool
	Err        string
	// Extra holds category-specific lines shown under the totals.
	Extra []string
}

type Model struct {
	snap   Snapshot
	width  int
	height int
}

func New() Model {
	return Model{}
}

func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m *Model) SetSnapshot(s Snapshot) {
	m.snap = s
}

func (m Model) Snapshot() Snapshot {
	return m.snap
}

func (m Model) View() string {
	s := m.snap
	var b strings.Builder

	b.WriteString(titleStyle.Render(fmt.Sprintf("%s · %s", s.Category.Title(), s.Window)))
	b.WriteString(mutedStyle.Render(fmt.Sprintf("  %s → %s", s.Start, s.End)))
	b.WriteString("\n\n")

	if s.Err != "" {
		b.WriteString(errorStyle.Render("⚠ " + s.Err))
		b.WriteString("\n\n")
	}

	b.WriteString(m.todayLine())
	b.WriteString("\n")
	if s.Category == constants.CategoryWater {
		b.WriteString(Droplets(s.Today))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	barWidth := m.barWidth()
	peak := s.Goal
	for _, r := range s.Rows {
		peak = math.Max(peak, r.Total)
	}
	for _, r := range s.Rows {
		label := fmt.Sprintf("%-10s", r.Label)
		if r.Today {
			label = todayStyle.Render(label)
		} else {
			label = mutedStyle.Render(label)
		}
		if !r.Logged {
			b.WriteString(fmt.Sprintf("%s %s\n", label, mutedStyle.Render("—")))
			continue
		}
		bar := strings.Repeat("▇", scaled(r.Total, peak, barWidth))
		style := barStyle
		if s.Goal > 0 && r.Total >= s.Goal {
			style = goalMetStyle
		}
		b.WriteString(fmt.Sprintf("%s %s %s\n", label, style.Render(bar), utils.FormatMetric(s.Category, r.Total)))
	}

	b.WriteString("\n")
	b.WriteString(mutedStyle.Render(fmt.Sprintf("Total %s · avg %s/day · %d of %d days logged",
		utils.FormatMetric(s.Category, s.Total), utils.FormatMetric(s.Category, s.Average), s.ActiveDays, s.Days)))
	for _, line := range s.Extra {
		b.WriteString("\n")
		b.WriteString(line)
	}
	return b.String()
}

func (m Model) todayLine() string {
	s := m.snap
	line := "Today " + utils.FormatMetric(s.Category, s.Today)
	if s.Goal > 0 {
		p := aggregate.Progress(s.Today, s.Goal)
		line += fmt.Sprintf(" of %s  %s %d%%", utils.FormatMetric(s.Category, s.Goal), utils.ProgressBar(p, 20), int(math.Round(p*100)))
	}
	return todayStyle.Render(line)
}

func (m Model) barWidth() int {
	w := m.width - 30
	if w < 10 {
		return 10
	}
	if w > 50 {
		return 50
	}
	return w
}

// scaled maps v onto [1, width] relative to peak. Logged rows always get a
// visible bar.
func scaled(v, peak float64, width int) int {
	if peak <= 0 {
		return 1
	}
	n := int(math.Round(v / peak * float64(width)))
	if n < 1 {
		return 1
	}
	if n > width {
		return width
	}
	return n
}

// Droplets renders a water total as a colored row of droplets.
func Droplets(totalOz float64) string {
	full, half := aggregate.Droplets(totalOz, constants.OuncesPerDroplet, constants.DropletsPerRow)
	n := full
	out := strings.Repeat("●", full)
	if half {
		out += "◐"
		n++
	}
	return dropletStyle.Render(out) + mutedStyle.Render(strings.Repeat("○", constants.DropletsPerRow-n))
}
