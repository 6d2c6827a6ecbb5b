// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import "time"

// =============================================================================
// RISK LEVEL TYPE
// =============================================================================

// RiskLevel is the assessed risk band of a monitored patient.
type RiskLevel string

const (
	RiskMinimo  RiskLevel = "minimo"
	RiskBajo    RiskLevel = "bajo"
	RiskMedio   RiskLevel = "medio"
	RiskAlto    RiskLevel = "alto"
	RiskCritico RiskLevel = "critico"
)

// Valid reports whether the level is a known band.
func (r RiskLevel) Valid() bool {
	switch r {
	case RiskMinimo, RiskBajo, RiskMedio, RiskAlto, RiskCritico:
		return true
	}
	return false
}

// Rank orders bands from lowest (0) to highest risk. Unknown levels rank
// below minimo so they sink in descending sorts.
func (r RiskLevel) Rank() int {
	switch r {
	case RiskMinimo:
		return 1
	case RiskBajo:
		return 2
	case RiskMedio:
		return 3
	case RiskAlto:
		return 4
	case RiskCritico:
		return 5
	default:
		return 0
	}
}

// DisplayName returns the Spanish label shown in panel views.
func (r RiskLevel) DisplayName() string {
	switch r {
	case RiskMinimo:
		return "Mínimo"
	case RiskBajo:
		return "Bajo"
	case RiskMedio:
		return "Medio"
	case RiskAlto:
		return "Alto"
	case RiskCritico:
		return "Crítico"
	default:
		return string(r)
	}
}

// =============================================================================
// INSTITUTION TYPES
// =============================================================================

// InstitutionType determines which filters an expert panel offers.
type InstitutionType string

const (
	InstitutionUniversity   InstitutionType = "university"
	InstitutionSchool       InstitutionType = "school"
	InstitutionCompany      InstitutionType = "company"
	InstitutionHealthCenter InstitutionType = "health_center"
)

// Institution is an organization enrolled on the platform.
type Institution struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Type      InstitutionType `json:"type"`
	UserCount int             `json:"userCount"`
	CreatedAt time.Time       `json:"createdAt,omitempty"`
}

// =============================================================================
// PATIENT RECORDS
// =============================================================================

// PatientRecord is a monitored user as listed in the expert panel. The
// segment fields (Program, Grade, Department) are populated according to
// the institution type; the rest stay empty.
type PatientRecord struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	RiskLevel    RiskLevel `json:"riskLevel"`
	Status       string    `json:"status"`
	Program      string    `json:"program,omitempty"`
	Grade        string    `json:"grade,omitempty"`
	Department   string    `json:"department,omitempty"`
	SessionCount int       `json:"sessionCount"`
	LastActivity time.Time `json:"lastActivity,omitempty"`
}

// Alert is a risk notification raised for a patient.
type Alert struct {
	ID        string    `json:"id"`
	PatientID string    `json:"patientId"`
	Patient   string    `json:"patient"`
	Level     RiskLevel `json:"level"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
	Read      bool      `json:"read"`
}

// =============================================================================
// CHART DATA
// =============================================================================

// ChartKind is the shape of a dashboard chart.
type ChartKind string

const (
	ChartBar   ChartKind = "bar"
	ChartLine  ChartKind = "line"
	ChartDonut ChartKind = "donut"
)

// Dataset is one labeled series inside a chart.
type Dataset struct {
	Label  string    `json:"label"`
	Values []float64 `json:"values"`
}

// ChartData is a renderer-agnostic chart description produced by the
// panel aggregations and drawn by the terminal views.
type ChartData struct {
	Kind     ChartKind `json:"kind"`
	Title    string    `json:"title"`
	Labels   []string  `json:"labels"`
	Datasets []Dataset `json:"datasets"`
}

// PlatformStats is the superadmin overview block.
type PlatformStats struct {
	TotalUsers        int `json:"totalUsers"`
	TotalInstitutions int `json:"totalInstitutions"`
	TotalChats        int `json:"totalChats"`
	ActiveToday       int `json:"activeToday"`
	AlertsOpen        int `json:"alertsOpen"`
}
