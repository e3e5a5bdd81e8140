package chart

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"loghealth/internal/analyzer"
)

// Terminal palette
var (
	ColorInfo  = lipgloss.Color("#06B6D4") // Cyan
	ColorWarn  = lipgloss.Color("#F59E0B") // Amber
	ColorError = lipgloss.Color("#EF4444") // Red
	ColorGreen = lipgloss.Color("#10B981") // Emerald
	ColorMuted = lipgloss.Color("#6B7280") // Gray
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true)

	labelStyle = lipgloss.NewStyle().
			Width(6)

	countStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	levelColors = map[string]lipgloss.Color{
		string(analyzer.SeverityInfo):  ColorInfo,
		string(analyzer.SeverityWarn):  ColorWarn,
		string(analyzer.SeverityError): ColorError,
	}
)

const barRune = "█"

// RenderText draws series as horizontal bars for a terminal. width is the
// length of the longest bar in cells.
func RenderText(series analyzer.ChartSeries, width int) string {
	if width <= 0 {
		width = 40
	}
	max := maxValue(series.Values)

	var b strings.Builder
	b.WriteString(titleStyle.Render(Title))
	b.WriteString("\n")

	for i, label := range series.Labels {
		v := 0
		if i < len(series.Values) {
			v = series.Values[i]
		}
		n := 0
		if max > 0 {
			n = v * width / max
		}
		if v > 0 && n == 0 {
			n = 1
		}

		bar := lipgloss.NewStyle().
			Foreground(levelColor(label)).
			Render(strings.Repeat(barRune, n))

		b.WriteString(labelStyle.Render(label))
		b.WriteString(" ")
		b.WriteString(bar)
		b.WriteString(" ")
		b.WriteString(countStyle.Render(fmt.Sprintf("%d", v)))
		b.WriteString("\n")
	}
	return b.String()
}

// HealthStyle returns the terminal style for a health status.
func HealthStyle(status analyzer.HealthStatus) lipgloss.Style {
	color := ColorGreen
	switch status {
	case analyzer.StatusAmber:
		color = ColorWarn
	case analyzer.StatusRed:
		color = ColorError
	}
	return lipgloss.NewStyle().
		Bold(true).
		Foreground(color)
}

func levelColor(label string) lipgloss.Color {
	if c, ok := levelColors[label]; ok {
		return c
	}
	return ColorMuted
}
