// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package panel

import (
	"net/url"
	"strings"

	"github.com/garcessebastian/camila-tui/internal/model"
)

// =============================================================================
// FILTER SCHEMA
// =============================================================================

// FilterAll is the "any value" sentinel shown as the first option of
// every filter. It is never sent to the server.
const FilterAll = "all"

// Common filter keys shared by every institution type.
const (
	KeyRiskLevel = "riskLevel"
	KeyStatus    = "status"
	KeySearch    = "search"
)

// Schema declares the panel surface for one institution type: the
// segment filter it offers, the patient-table columns, and the segment
// chart title.
type Schema struct {
	Type model.InstitutionType

	// SegmentKey is the query parameter for the type's segment filter
	// (programId, grade or department). Empty means no segment filter.
	SegmentKey   string
	SegmentLabel string

	// Columns are the patient-table headers, in render order.
	Columns []string

	// SegmentChartTitle heads the per-segment distribution chart.
	SegmentChartTitle string
}

// Schemas maps each institution type to its panel surface.
var Schemas = map[model.InstitutionType]Schema{
	model.InstitutionUniversity: {
		Type:              model.InstitutionUniversity,
		SegmentKey:        "programId",
		SegmentLabel:      "Programa",
		Columns:           []string{"Nombre", "Programa", "Riesgo", "Estado", "Sesiones", "Última actividad"},
		SegmentChartTitle: "Estudiantes por programa",
	},
	model.InstitutionSchool: {
		Type:              model.InstitutionSchool,
		SegmentKey:        "grade",
		SegmentLabel:      "Grado",
		Columns:           []string{"Nombre", "Grado", "Riesgo", "Estado", "Sesiones", "Última actividad"},
		SegmentChartTitle: "Estudiantes por grado",
	},
	model.InstitutionCompany: {
		Type:              model.InstitutionCompany,
		SegmentKey:        "department",
		SegmentLabel:      "Departamento",
		Columns:           []string{"Nombre", "Departamento", "Riesgo", "Estado", "Sesiones", "Última actividad"},
		SegmentChartTitle: "Empleados por departamento",
	},
	model.InstitutionHealthCenter: {
		Type:              model.InstitutionHealthCenter,
		SegmentKey:        "department",
		SegmentLabel:      "Departamento",
		Columns:           []string{"Nombre", "Departamento", "Riesgo", "Estado", "Sesiones", "Última actividad"},
		SegmentChartTitle: "Pacientes por departamento",
	},
}

// SchemaFor returns the schema for an institution type. Unknown types
// get a segment-less schema so the panel still renders.
func SchemaFor(t model.InstitutionType) Schema {
	if s, ok := Schemas[t]; ok {
		return s
	}
	return Schema{
		Type:              t,
		Columns:           []string{"Nombre", "Riesgo", "Estado", "Sesiones", "Última actividad"},
		SegmentChartTitle: "Usuarios monitoreados",
	}
}

// SegmentOf extracts the schema's segment value from a patient record.
func (s Schema) SegmentOf(p *model.PatientRecord) string {
	switch s.SegmentKey {
	case "programId":
		return p.Program
	case "grade":
		return p.Grade
	case "department":
		return p.Department
	}
	return ""
}

// =============================================================================
// FILTER SET
// =============================================================================

// FilterSet holds the active filter selections for one schema. It only
// accepts keys the schema declares, so values chosen under a previous
// institution type cannot leak into the query after a switch.
type FilterSet struct {
	schema Schema
	values map[string]string
}

// NewFilterSet builds an empty filter set for a schema.
func NewFilterSet(schema Schema) *FilterSet {
	return &FilterSet{schema: schema, values: make(map[string]string)}
}

// Schema returns the schema this set was built from.
func (f *FilterSet) Schema() Schema {
	return f.schema
}

// Keys lists the filter keys this set accepts, in render order.
func (f *FilterSet) Keys() []string {
	keys := make([]string, 0, 4)
	if f.schema.SegmentKey != "" {
		keys = append(keys, f.schema.SegmentKey)
	}
	return append(keys, KeyRiskLevel, KeyStatus, KeySearch)
}

// Set records a selection. Unknown keys are rejected so stale state
// from another schema is dropped rather than carried along.
func (f *FilterSet) Set(key, value string) bool {
	for _, k := range f.Keys() {
		if k == key {
			f.values[key] = strings.TrimSpace(value)
			return true
		}
	}
	return false
}

// Get returns the current selection for a key, or FilterAll.
func (f *FilterSet) Get(key string) string {
	if v, ok := f.values[key]; ok && v != "" {
		return v
	}
	return FilterAll
}

// Reset clears every selection.
func (f *FilterSet) Reset() {
	f.values = make(map[string]string)
}

// BuildQuery encodes the selections as request parameters. Empty values
// and the FilterAll sentinel are omitted.
func (f *FilterSet) BuildQuery() url.Values {
	query := url.Values{}
	for _, key := range f.Keys() {
		v := f.values[key]
		if v == "" || v == FilterAll {
			continue
		}
		query.Set(key, v)
	}
	return query
}
