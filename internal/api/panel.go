// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/garcessebastian/camila-tui/internal/model"
)

// =============================================================================
// EXPERT ENDPOINTS
// =============================================================================

// ExpertStats is the aggregate block backing the expert dashboard charts.
type ExpertStats struct {
	TotalPatients    int                     `json:"totalPatients"`
	ActivePatients   int                     `json:"activePatients"`
	SessionsToday    int                     `json:"sessionsToday"`
	RiskDistribution map[model.RiskLevel]int `json:"riskDistribution"`
	SessionsPerDay   []DayCount              `json:"sessionsPerDay"`
}

// DayCount is one point of a per-day series.
type DayCount struct {
	Date  string `json:"date"` // YYYY-MM-DD
	Count int    `json:"count"`
}

// ExpertDashboardStats fetches aggregates for the last `days` days.
func (c *Client) ExpertDashboardStats(ctx context.Context, days int) (*ExpertStats, error) {
	if days <= 0 {
		days = 7
	}
	var stats ExpertStats
	if err := c.get(ctx, "/api/expert/dashboard/stats?days="+strconv.Itoa(days), &stats); err != nil {
		return nil, err
	}
	if stats.RiskDistribution == nil {
		stats.RiskDistribution = make(map[model.RiskLevel]int)
	}
	return &stats, nil
}

// ExpertInstitution describes the expert's institution, which decides
// the filter schema the panel renders.
type ExpertInstitution struct {
	ID   string                `json:"id"`
	Name string                `json:"name"`
	Type model.InstitutionType `json:"type"`

	// Segment vocabularies for the dynamic filters
	Programs    []string `json:"programs,omitempty"`
	Grades      []string `json:"grades,omitempty"`
	Departments []string `json:"departments,omitempty"`
}

// ExpertInstitutionStructure fetches the institution profile and its
// segment vocabularies.
func (c *Client) ExpertInstitutionStructure(ctx context.Context, institutionID string) (*ExpertInstitution, error) {
	var resp ExpertInstitution
	if err := c.get(ctx, "/api/expert/institution/structure/"+url.PathEscape(institutionID), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ExpertPatients fetches the monitored patient list. query holds the
// already-built filter parameters; nil means unfiltered.
func (c *Client) ExpertPatients(ctx context.Context, query url.Values) ([]model.PatientRecord, error) {
	path := "/api/expert/patients"
	if encoded := query.Encode(); encoded != "" {
		path += "?" + encoded
	}

	var resp struct {
		Patients []wirePatient `json:"patients"`
	}
	if err := c.get(ctx, path, &resp); err != nil {
		return nil, err
	}
	return normalizePatients(resp.Patients), nil
}

// UpdateBatch is an incremental delta from the live-updates endpoint.
type UpdateBatch struct {
	Patients  []model.PatientRecord
	Alerts    []model.Alert
	Timestamp time.Time
}

// ExpertUpdates fetches changes since lastCheck. A zero lastCheck asks
// for everything recent; the server decides the window.
func (c *Client) ExpertUpdates(ctx context.Context, lastCheck time.Time) (*UpdateBatch, error) {
	path := "/api/expert/updates/real-time"
	if !lastCheck.IsZero() {
		path += "?lastCheck=" + url.QueryEscape(lastCheck.UTC().Format(time.RFC3339))
	}

	var resp struct {
		Patients  []wirePatient `json:"patients"`
		NewUsers  []wirePatient `json:"newUsers"`
		Alerts    []model.Alert `json:"alerts"`
		Timestamp flexTime      `json:"timestamp"`
	}
	if err := c.get(ctx, path, &resp); err != nil {
		return nil, err
	}

	batch := &UpdateBatch{
		Patients:  normalizePatients(append(resp.Patients, resp.NewUsers...)),
		Alerts:    resp.Alerts,
		Timestamp: resp.Timestamp.Time,
	}
	if batch.Timestamp.IsZero() {
		batch.Timestamp = time.Now()
	}
	return batch, nil
}

// =============================================================================
// ADMIN ENDPOINTS
// =============================================================================

// PlatformStats fetches the superadmin overview numbers.
func (c *Client) PlatformStats(ctx context.Context) (*model.PlatformStats, error) {
	var stats model.PlatformStats
	if err := c.get(ctx, "/api/admin/stats", &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// AdminUsers lists platform accounts, optionally filtered by role.
func (c *Client) AdminUsers(ctx context.Context, role model.AccountRole) ([]*model.Account, error) {
	path := "/api/admin/users"
	if role != "" {
		path += "?role=" + url.QueryEscape(string(role))
	}

	var resp struct {
		Users []wireAccount `json:"users"`
	}
	if err := c.get(ctx, path, &resp); err != nil {
		return nil, err
	}

	accounts := make([]*model.Account, 0, len(resp.Users))
	for i := range resp.Users {
		acc := normalizeAccount(&resp.Users[i])
		if acc.ID == "" {
			continue
		}
		accounts = append(accounts, acc)
	}
	return accounts, nil
}

// AdminExperts lists expert accounts.
func (c *Client) AdminExperts(ctx context.Context) ([]*model.Account, error) {
	var resp struct {
		Experts []wireAccount `json:"experts"`
	}
	if err := c.get(ctx, "/api/admin/experts", &resp); err != nil {
		return nil, err
	}

	accounts := make([]*model.Account, 0, len(resp.Experts))
	for i := range resp.Experts {
		acc := normalizeAccount(&resp.Experts[i])
		if acc.ID == "" {
			continue
		}
		acc.Role = model.AccountRoleExpert
		accounts = append(accounts, acc)
	}
	return accounts, nil
}

// =============================================================================
// INSTITUTION ENDPOINTS
// =============================================================================

type wireInstitution struct {
	ID        string   `json:"id"`
	AltID     string   `json:"_id"`
	Name      string   `json:"name"`
	Type      string   `json:"type"`
	UserCount int      `json:"userCount"`
	CreatedAt flexTime `json:"createdAt"`
}

// Institutions lists enrolled organizations.
func (c *Client) Institutions(ctx context.Context) ([]model.Institution, error) {
	var resp struct {
		Institutions []wireInstitution `json:"institutions"`
	}
	if err := c.get(ctx, "/api/institution/institutions", &resp); err != nil {
		return nil, err
	}

	institutions := make([]model.Institution, 0, len(resp.Institutions))
	for _, w := range resp.Institutions {
		id := firstNonEmpty(w.ID, w.AltID)
		if id == "" {
			continue
		}
		institutions = append(institutions, model.Institution{
			ID:        id,
			Name:      w.Name,
			Type:      model.InstitutionType(strings.ToLower(w.Type)),
			UserCount: w.UserCount,
			CreatedAt: w.CreatedAt.Time,
		})
	}
	return institutions, nil
}

// CreateInstitution enrolls a new organization.
func (c *Client) CreateInstitution(ctx context.Context, name string, kind model.InstitutionType) (*model.Institution, error) {
	body := map[string]string{"name": name, "type": string(kind)}

	var resp struct {
		Institution wireInstitution `json:"institution"`
	}
	if err := c.post(ctx, "/api/institution/institutions", body, &resp); err != nil {
		return nil, err
	}
	return &model.Institution{
		ID:   firstNonEmpty(resp.Institution.ID, resp.Institution.AltID),
		Name: resp.Institution.Name,
		Type: model.InstitutionType(strings.ToLower(resp.Institution.Type)),
	}, nil
}

// InstitutionalReport is the institutional admin's aggregate view.
type InstitutionalReport struct {
	Institution model.Institution       `json:"institution"`
	Stats       ExpertStats             `json:"stats"`
	RiskTotals  map[model.RiskLevel]int `json:"riskTotals"`
}

// InstitutionalReportData fetches the report for the admin's own
// institution.
func (c *Client) InstitutionalReportData(ctx context.Context) (*InstitutionalReport, error) {
	var report InstitutionalReport
	if err := c.get(ctx, "/api/admin/reports/institutional", &report); err != nil {
		return nil, err
	}
	if report.RiskTotals == nil {
		report.RiskTotals = make(map[model.RiskLevel]int)
	}
	return &report, nil
}
