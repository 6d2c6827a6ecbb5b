// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package panel

import (
	"context"

	"github.com/garcessebastian/camila-tui/internal/api"
	"github.com/garcessebastian/camila-tui/internal/model"
)

// =============================================================================
// EXPERT DASHBOARD
// =============================================================================

// ExpertDashboard is the assembled data behind the expert panel.
type ExpertDashboard struct {
	Institution *api.ExpertInstitution
	Schema      Schema
	Stats       *api.ExpertStats
	Patients    []model.PatientRecord
	Charts      []model.ChartData
}

// LoadExpertDashboard fetches stats, institution structure and the
// patient list, then derives the chart configs. The structure call is
// best-effort: when it fails the panel falls back to a segment-less
// schema instead of going dark.
func LoadExpertDashboard(ctx context.Context, client *api.Client, institutionID string, days int) (*ExpertDashboard, error) {
	stats, err := client.ExpertDashboardStats(ctx, days)
	if err != nil {
		return nil, err
	}

	schema := SchemaFor("")
	var institution *api.ExpertInstitution
	if institutionID != "" {
		if inst, err := client.ExpertInstitutionStructure(ctx, institutionID); err == nil {
			institution = inst
			schema = SchemaFor(inst.Type)
		}
	}

	patients, err := client.ExpertPatients(ctx, nil)
	if err != nil {
		return nil, err
	}
	SortPatients(patients)

	return &ExpertDashboard{
		Institution: institution,
		Schema:      schema,
		Stats:       stats,
		Patients:    patients,
		Charts: []model.ChartData{
			RiskDistributionChart(stats.RiskDistribution),
			SessionsPerDayChart(stats.SessionsPerDay),
			SegmentChart(schema, patients),
		},
	}, nil
}

// FilterPatients re-fetches the patient list with the set's query.
func FilterPatients(ctx context.Context, client *api.Client, filters *FilterSet) ([]model.PatientRecord, error) {
	patients, err := client.ExpertPatients(ctx, filters.BuildQuery())
	if err != nil {
		return nil, err
	}
	SortPatients(patients)
	return patients, nil
}

// =============================================================================
// ADMIN DASHBOARD
// =============================================================================

// AdminDashboard is the superadmin overview.
type AdminDashboard struct {
	Stats        *model.PlatformStats
	Institutions []model.Institution
	Experts      []*model.Account
	Charts       []model.ChartData
}

// LoadAdminDashboard fetches the platform totals, institution roster
// and expert roster.
func LoadAdminDashboard(ctx context.Context, client *api.Client) (*AdminDashboard, error) {
	stats, err := client.PlatformStats(ctx)
	if err != nil {
		return nil, err
	}
	institutions, err := client.Institutions(ctx)
	if err != nil {
		return nil, err
	}
	SortInstitutions(institutions)

	experts, err := client.AdminExperts(ctx)
	if err != nil {
		return nil, err
	}

	return &AdminDashboard{
		Stats:        stats,
		Institutions: institutions,
		Experts:      experts,
		Charts: []model.ChartData{
			institutionTypeChart(institutions),
			institutionSizeChart(institutions),
		},
	}, nil
}

// institutionTypeChart counts enrolled institutions per type.
func institutionTypeChart(institutions []model.Institution) model.ChartData {
	order := []model.InstitutionType{
		model.InstitutionUniversity,
		model.InstitutionSchool,
		model.InstitutionCompany,
		model.InstitutionHealthCenter,
	}
	labels := map[model.InstitutionType]string{
		model.InstitutionUniversity:   "Universidades",
		model.InstitutionSchool:       "Colegios",
		model.InstitutionCompany:      "Empresas",
		model.InstitutionHealthCenter: "Centros de salud",
	}

	counts := make(map[model.InstitutionType]int)
	for _, inst := range institutions {
		counts[inst.Type]++
	}

	chart := model.ChartData{
		Kind:  model.ChartDonut,
		Title: "Instituciones por tipo",
	}
	values := make([]float64, 0, len(order))
	for _, t := range order {
		chart.Labels = append(chart.Labels, labels[t])
		values = append(values, float64(counts[t]))
	}
	chart.Datasets = []model.Dataset{{Label: "Instituciones", Values: values}}
	return chart
}

// institutionSizeChart ranks institutions by user count.
func institutionSizeChart(institutions []model.Institution) model.ChartData {
	chart := model.ChartData{
		Kind:  model.ChartBar,
		Title: "Usuarios por institución",
	}
	values := make([]float64, 0, len(institutions))
	for _, inst := range institutions {
		chart.Labels = append(chart.Labels, inst.Name)
		values = append(values, float64(inst.UserCount))
	}
	chart.Datasets = []model.Dataset{{Label: "Usuarios", Values: values}}
	return chart
}

// =============================================================================
// INSTITUTIONAL DASHBOARD
// =============================================================================

// InstitutionalDashboard is the institutional admin's report view.
type InstitutionalDashboard struct {
	Report *api.InstitutionalReport
	Schema Schema
	Charts []model.ChartData
}

// LoadInstitutionalDashboard fetches the institution's own report.
func LoadInstitutionalDashboard(ctx context.Context, client *api.Client) (*InstitutionalDashboard, error) {
	report, err := client.InstitutionalReportData(ctx)
	if err != nil {
		return nil, err
	}

	risk := report.RiskTotals
	if len(risk) == 0 {
		risk = report.Stats.RiskDistribution
	}

	return &InstitutionalDashboard{
		Report: report,
		Schema: SchemaFor(report.Institution.Type),
		Charts: []model.ChartData{
			RiskDistributionChart(risk),
			SessionsPerDayChart(report.Stats.SessionsPerDay),
		},
	}, nil
}
