// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"net/url"
	"strconv"
	"time"

	"github.com/garcessebastian/camila-tui/internal/model"
)

// =============================================================================
// PATIENT ANALYSIS
// =============================================================================

// PatientAnalysis is the server-side evaluation of one patient's
// conversation history.
type PatientAnalysis struct {
	PatientID    string
	RiskLevel    model.RiskLevel
	Summary      string
	Symptoms     []string
	Distribution map[model.RiskLevel]int
	GeneratedAt  time.Time
}

// PatientAnalysis fetches the risk evaluation for one patient.
func (c *Client) PatientAnalysis(ctx context.Context, patientID string) (*PatientAnalysis, error) {
	var resp struct {
		PatientID    string                  `json:"patientId"`
		RiskLevel    model.RiskLevel         `json:"riskLevel"`
		Summary      string                  `json:"summary"`
		Symptoms     []string                `json:"symptoms"`
		Distribution map[model.RiskLevel]int `json:"distribution"`
		GeneratedAt  flexTime                `json:"generatedAt"`
	}
	if err := c.get(ctx, "/api/expert/patients/analysis/"+url.PathEscape(patientID), &resp); err != nil {
		return nil, err
	}
	return &PatientAnalysis{
		PatientID:    firstNonEmpty(resp.PatientID, patientID),
		RiskLevel:    resp.RiskLevel,
		Summary:      resp.Summary,
		Symptoms:     resp.Symptoms,
		Distribution: resp.Distribution,
		GeneratedAt:  resp.GeneratedAt.Time,
	}, nil
}

// RiskPoint is one step of a patient's risk trajectory.
type RiskPoint struct {
	Level model.RiskLevel
	At    time.Time
}

// PatientRiskHistory fetches the recorded risk trajectory for a patient,
// oldest first.
func (c *Client) PatientRiskHistory(ctx context.Context, patientID string) ([]RiskPoint, error) {
	var resp struct {
		History []struct {
			Level model.RiskLevel `json:"level"`
			Date  flexTime        `json:"date"`
		} `json:"history"`
	}
	if err := c.get(ctx, "/api/expert/patients/"+url.PathEscape(patientID)+"/risk-history", &resp); err != nil {
		return nil, err
	}

	points := make([]RiskPoint, 0, len(resp.History))
	for _, h := range resp.History {
		points = append(points, RiskPoint{Level: h.Level, At: h.Date.Time})
	}
	return points, nil
}

// =============================================================================
// DETECTION KEYWORDS
// =============================================================================

// Keyword is one expert-curated detection term with its symptom bucket.
type Keyword struct {
	ID       string `json:"id"`
	Word     string `json:"word"`
	Symptom  string `json:"symptom"`
	Weight   int    `json:"weight"`
	Language string `json:"language,omitempty"`
}

// Keywords lists the expert's detection terms, optionally limited to one
// symptom bucket.
func (c *Client) Keywords(ctx context.Context, symptom string) ([]Keyword, error) {
	path := "/api/expert/keywords"
	if symptom != "" {
		path += "?symptom=" + url.QueryEscape(symptom)
	}
	var resp struct {
		Keywords []Keyword `json:"keywords"`
	}
	if err := c.get(ctx, path, &resp); err != nil {
		return nil, err
	}
	return resp.Keywords, nil
}

// AddKeyword registers a new detection term.
func (c *Client) AddKeyword(ctx context.Context, kw Keyword) (*Keyword, error) {
	var resp struct {
		Keyword Keyword `json:"keyword"`
	}
	if err := c.post(ctx, "/api/expert/keywords", kw, &resp); err != nil {
		return nil, err
	}
	return &resp.Keyword, nil
}

// UpdateKeyword changes an existing detection term.
func (c *Client) UpdateKeyword(ctx context.Context, id string, kw Keyword) error {
	return c.put(ctx, "/api/expert/keywords/"+url.PathEscape(id), kw, nil)
}

// DeleteKeyword removes a detection term.
func (c *Client) DeleteKeyword(ctx context.Context, id string) error {
	return c.delete(ctx, "/api/expert/keywords/"+url.PathEscape(id))
}

// KeywordStats summarizes how often the expert's terms have matched.
type KeywordStats struct {
	Total     int            `json:"total"`
	BySymptom map[string]int `json:"bySymptom"`
	Matches   int            `json:"matches"`
}

// KeywordStats fetches match counts for the expert's detection terms.
func (c *Client) KeywordStats(ctx context.Context) (*KeywordStats, error) {
	var stats KeywordStats
	if err := c.get(ctx, "/api/expert/keywords/stats", &stats); err != nil {
		return nil, err
	}
	if stats.BySymptom == nil {
		stats.BySymptom = make(map[string]int)
	}
	return &stats, nil
}

// TestKeyword runs a sample text against the detection terms and reports
// which ones fire.
func (c *Client) TestKeyword(ctx context.Context, text string) ([]Keyword, error) {
	body := map[string]string{"text": text}
	var resp struct {
		Matches []Keyword `json:"matches"`
	}
	if err := c.post(ctx, "/api/expert/keywords/test", body, &resp); err != nil {
		return nil, err
	}
	return resp.Matches, nil
}

// =============================================================================
// SUPPORT DOCUMENTS
// =============================================================================

// Document is an expert-uploaded support resource offered to patients.
type Document struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Category string `json:"category"`
	Content  string `json:"content,omitempty"`
	URL      string `json:"url,omitempty"`
}

// Documents lists the expert's support resources, optionally by category.
func (c *Client) Documents(ctx context.Context, category string) ([]Document, error) {
	path := "/api/expert/documents"
	if category != "" {
		path += "?category=" + url.QueryEscape(category)
	}
	var resp struct {
		Documents []Document `json:"documents"`
	}
	if err := c.get(ctx, path, &resp); err != nil {
		return nil, err
	}
	return resp.Documents, nil
}

// UploadDocument registers a new support resource.
func (c *Client) UploadDocument(ctx context.Context, doc Document) (*Document, error) {
	var resp struct {
		Document Document `json:"document"`
	}
	if err := c.post(ctx, "/api/expert/documents", doc, &resp); err != nil {
		return nil, err
	}
	return &resp.Document, nil
}

// DeleteDocument removes a support resource.
func (c *Client) DeleteDocument(ctx context.Context, id string) error {
	return c.delete(ctx, "/api/expert/documents/"+url.PathEscape(id))
}

// =============================================================================
// RECOMMENDATIONS
// =============================================================================

// Recommendation is guidance an expert assigns to a patient, with a list
// of concrete actions the patient checks off.
type Recommendation struct {
	ID        string    `json:"id"`
	PatientID string    `json:"patientId"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	Actions   []string  `json:"actions"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

// CreateRecommendation assigns guidance to a patient.
func (c *Client) CreateRecommendation(ctx context.Context, rec Recommendation) (*Recommendation, error) {
	var resp struct {
		Recommendation Recommendation `json:"recommendation"`
	}
	if err := c.post(ctx, "/api/expert/recommendations", rec, &resp); err != nil {
		return nil, err
	}
	return &resp.Recommendation, nil
}

// ExpertRecommendations lists guidance the expert has issued. patientID
// narrows to one patient; empty lists everything.
func (c *Client) ExpertRecommendations(ctx context.Context, patientID string) ([]Recommendation, error) {
	path := "/api/expert/recommendations"
	if patientID != "" {
		path += "?patientId=" + url.QueryEscape(patientID)
	}
	var resp struct {
		Recommendations []Recommendation `json:"recommendations"`
	}
	if err := c.get(ctx, path, &resp); err != nil {
		return nil, err
	}
	return resp.Recommendations, nil
}

// DeleteRecommendation withdraws issued guidance.
func (c *Client) DeleteRecommendation(ctx context.Context, id string) error {
	return c.delete(ctx, "/api/expert/recommendations/"+url.PathEscape(id))
}

// =============================================================================
// WEEKLY REPORTS
// =============================================================================

// WeeklyReport is one patient's week in aggregate.
type WeeklyReport struct {
	PatientID    string
	Patient      string
	WeekStart    time.Time
	Sessions     int
	RiskLevel    model.RiskLevel
	Observations string
}

// WeeklyPatientReports fetches per-patient weekly summaries for the last
// `weeks` weeks.
func (c *Client) WeeklyPatientReports(ctx context.Context, weeks int) ([]WeeklyReport, error) {
	if weeks <= 0 {
		weeks = 4
	}
	var resp struct {
		Reports []struct {
			PatientID    string          `json:"patientId"`
			Patient      string          `json:"patient"`
			WeekStart    flexTime        `json:"weekStart"`
			Sessions     int             `json:"sessions"`
			RiskLevel    model.RiskLevel `json:"riskLevel"`
			Observations string          `json:"observations"`
		} `json:"reports"`
	}
	if err := c.get(ctx, "/api/expert/reports/weekly?weeks="+strconv.Itoa(weeks), &resp); err != nil {
		return nil, err
	}

	reports := make([]WeeklyReport, 0, len(resp.Reports))
	for _, r := range resp.Reports {
		reports = append(reports, WeeklyReport{
			PatientID:    r.PatientID,
			Patient:      r.Patient,
			WeekStart:    r.WeekStart.Time,
			Sessions:     r.Sessions,
			RiskLevel:    r.RiskLevel,
			Observations: r.Observations,
		})
	}
	return reports, nil
}

// =============================================================================
// ACADEMIC STRUCTURE
// =============================================================================

// NamedItem is a generic id/name pair used by the structure vocabularies.
type NamedItem struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Programs lists the academic programs the expert can segment by.
func (c *Client) Programs(ctx context.Context) ([]NamedItem, error) {
	var resp struct {
		Programs []NamedItem `json:"programs"`
	}
	if err := c.get(ctx, "/api/expert/programs", &resp); err != nil {
		return nil, err
	}
	return resp.Programs, nil
}

// Faculties lists the faculties of the expert's institution.
func (c *Client) Faculties(ctx context.Context) ([]NamedItem, error) {
	var resp struct {
		Faculties []NamedItem `json:"faculties"`
	}
	if err := c.get(ctx, "/api/expert/faculties", &resp); err != nil {
		return nil, err
	}
	return resp.Faculties, nil
}

// Careers lists the institution-wide career catalog.
func (c *Client) Careers(ctx context.Context) ([]NamedItem, error) {
	var resp struct {
		Careers []NamedItem `json:"careers"`
	}
	if err := c.get(ctx, "/api/institution/careers", &resp); err != nil {
		return nil, err
	}
	return resp.Careers, nil
}
