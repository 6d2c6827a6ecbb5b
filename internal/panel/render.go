// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package panel

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/garcessebastian/camila-tui/internal/model"
)

// =============================================================================
// TERMINAL CHART RENDERER
// =============================================================================

var (
	chartTitleStyle = lipgloss.NewStyle().Bold(true)
	chartBarStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	chartDimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// sparkRunes grade a value into an eighth-block, lowest to highest.
var sparkRunes = []rune("▁▂▃▄▅▆▇█")

// RenderChart draws a chart config as fixed-width terminal text. Bar
// and donut kinds render as horizontal bars with counts; line kinds
// render as a sparkline over the label axis.
func RenderChart(chart model.ChartData, width int) string {
	if width < 20 {
		width = 20
	}
	if len(chart.Labels) == 0 || len(chart.Datasets) == 0 {
		return chartTitleStyle.Render(chart.Title) + "\n" + chartDimStyle.Render("Sin datos")
	}

	var b strings.Builder
	b.WriteString(chartTitleStyle.Render(chart.Title))
	b.WriteString("\n")

	switch chart.Kind {
	case model.ChartLine:
		renderSparkline(&b, chart, width)
	default:
		renderBars(&b, chart, width)
	}
	return strings.TrimRight(b.String(), "\n")
}

func renderBars(b *strings.Builder, chart model.ChartData, width int) {
	values := chart.Datasets[0].Values

	labelWidth := 0
	max := 0.0
	for i, label := range chart.Labels {
		if w := runewidth.StringWidth(label); w > labelWidth {
			labelWidth = w
		}
		if i < len(values) && values[i] > max {
			max = values[i]
		}
	}
	if labelWidth > width/2 {
		labelWidth = width / 2
	}

	// label + space + bar + space + count
	barWidth := width - labelWidth - 8
	if barWidth < 4 {
		barWidth = 4
	}

	for i, label := range chart.Labels {
		if i >= len(values) {
			break
		}
		v := values[i]
		filled := 0
		if max > 0 {
			filled = int(v / max * float64(barWidth))
		}
		if v > 0 && filled == 0 {
			filled = 1
		}

		b.WriteString(runewidth.FillRight(runewidth.Truncate(label, labelWidth, "…"), labelWidth))
		b.WriteString(" ")
		b.WriteString(chartBarStyle.Render(strings.Repeat("█", filled)))
		b.WriteString(chartDimStyle.Render(strings.Repeat("░", barWidth-filled)))
		b.WriteString(fmt.Sprintf(" %d\n", int(v)))
	}
}

func renderSparkline(b *strings.Builder, chart model.ChartData, width int) {
	values := chart.Datasets[0].Values
	if len(values) > width {
		values = values[len(values)-width:]
	}

	max := 0.0
	for _, v := range values {
		if v > max {
			max = v
		}
	}

	runes := make([]rune, 0, len(values))
	for _, v := range values {
		idx := 0
		if max > 0 {
			idx = int(v / max * float64(len(sparkRunes)-1))
		}
		runes = append(runes, sparkRunes[idx])
	}
	b.WriteString(chartBarStyle.Render(string(runes)))
	b.WriteString("\n")

	if n := len(chart.Labels); n > 0 {
		first, last := chart.Labels[0], chart.Labels[n-1]
		gap := len(runes) - runewidth.StringWidth(first) - runewidth.StringWidth(last)
		if gap < 1 {
			gap = 1
		}
		b.WriteString(chartDimStyle.Render(first + strings.Repeat(" ", gap) + last))
		b.WriteString("\n")
	}
}
