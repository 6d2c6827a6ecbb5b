// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package panel

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/garcessebastian/camila-tui/internal/api"
	"github.com/garcessebastian/camila-tui/internal/model"
)

// =============================================================================
// CHART AGGREGATIONS
// =============================================================================

// riskOrder fixes the band order charts and legends render in.
var riskOrder = []model.RiskLevel{
	model.RiskMinimo,
	model.RiskBajo,
	model.RiskMedio,
	model.RiskAlto,
	model.RiskCritico,
}

// RiskDistributionChart turns a risk histogram into a donut config. All
// five bands appear even when empty so the legend stays stable.
func RiskDistributionChart(dist map[model.RiskLevel]int) model.ChartData {
	labels := make([]string, 0, len(riskOrder))
	values := make([]float64, 0, len(riskOrder))
	for _, level := range riskOrder {
		labels = append(labels, level.DisplayName())
		values = append(values, float64(dist[level]))
	}
	return model.ChartData{
		Kind:     model.ChartDonut,
		Title:    "Distribución de riesgo",
		Labels:   labels,
		Datasets: []model.Dataset{{Label: "Usuarios", Values: values}},
	}
}

// SessionsPerDayChart turns the per-day series into a line config,
// preserving the server's day order.
func SessionsPerDayChart(days []api.DayCount) model.ChartData {
	labels := make([]string, 0, len(days))
	values := make([]float64, 0, len(days))
	for _, d := range days {
		labels = append(labels, d.Date)
		values = append(values, float64(d.Count))
	}
	return model.ChartData{
		Kind:     model.ChartLine,
		Title:    "Sesiones por día",
		Labels:   labels,
		Datasets: []model.Dataset{{Label: "Sesiones", Values: values}},
	}
}

// SegmentChart counts patients per segment value (program, grade or
// department, per the schema) as a bar config. Patients without a
// segment are grouped under "Sin asignar". Labels sort with Spanish
// collation so "Ágora" files before "Biología".
func SegmentChart(schema Schema, patients []model.PatientRecord) model.ChartData {
	counts := make(map[string]int)
	for i := range patients {
		segment := schema.SegmentOf(&patients[i])
		if segment == "" {
			segment = "Sin asignar"
		}
		counts[segment]++
	}

	labels := make([]string, 0, len(counts))
	for label := range counts {
		labels = append(labels, label)
	}
	spanishSortStrings(labels)

	values := make([]float64, 0, len(labels))
	for _, label := range labels {
		values = append(values, float64(counts[label]))
	}
	return model.ChartData{
		Kind:     model.ChartBar,
		Title:    schema.SegmentChartTitle,
		Labels:   labels,
		Datasets: []model.Dataset{{Label: "Usuarios", Values: values}},
	}
}

// =============================================================================
// SPANISH ORDERING
// =============================================================================

// spanishSortStrings sorts in place with Spanish collation. A Collator
// is not safe for concurrent use, so each sort builds its own.
func spanishSortStrings(s []string) {
	c := collate.New(language.Spanish)
	c.SortStrings(s)
}

// SortPatients orders records highest risk first, then by name with
// Spanish collation for stable tables.
func SortPatients(patients []model.PatientRecord) {
	c := collate.New(language.Spanish)
	sort.SliceStable(patients, func(i, j int) bool {
		ri, rj := patients[i].RiskLevel.Rank(), patients[j].RiskLevel.Rank()
		if ri != rj {
			return ri > rj
		}
		return c.CompareString(patients[i].Name, patients[j].Name) < 0
	})
}

// SortInstitutions orders institutions by name with Spanish collation.
func SortInstitutions(institutions []model.Institution) {
	c := collate.New(language.Spanish)
	sort.SliceStable(institutions, func(i, j int) bool {
		return c.CompareString(institutions[i].Name, institutions[j].Name) < 0
	})
}
