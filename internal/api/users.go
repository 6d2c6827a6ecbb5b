// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"net/url"
	"strconv"

	"github.com/garcessebastian/camila-tui/internal/model"
)

// =============================================================================
// USER-FACING ENDPOINTS
// =============================================================================

// AnxietyMetrics is the signed-in user's own progress view.
type AnxietyMetrics struct {
	TotalSessions int        `json:"totalSessions"`
	AverageLevel  float64    `json:"averageLevel"`
	Trend         string     `json:"trend"`
	PerDay        []DayCount `json:"perDay"`
}

// AnxietyMetrics fetches the user's own anxiety tracking numbers.
func (c *Client) AnxietyMetrics(ctx context.Context) (*AnxietyMetrics, error) {
	var metrics AnxietyMetrics
	if err := c.get(ctx, "/api/chat/metrics", &metrics); err != nil {
		return nil, err
	}
	return &metrics, nil
}

// UserRecommendations lists guidance assigned to the signed-in user.
// status narrows by state; empty lists everything.
func (c *Client) UserRecommendations(ctx context.Context, status string) ([]Recommendation, error) {
	path := "/api/users/recommendations"
	if status != "" {
		path += "?status=" + url.QueryEscape(status)
	}
	var resp struct {
		Recommendations []Recommendation `json:"recommendations"`
	}
	if err := c.get(ctx, path, &resp); err != nil {
		return nil, err
	}
	return resp.Recommendations, nil
}

// RecommendationStats summarizes the user's assigned guidance.
type RecommendationStats struct {
	Total     int `json:"total"`
	Pending   int `json:"pending"`
	Completed int `json:"completed"`
}

// UserRecommendationStats fetches completion counts for the user's
// assigned guidance.
func (c *Client) UserRecommendationStats(ctx context.Context) (*RecommendationStats, error) {
	var stats RecommendationStats
	if err := c.get(ctx, "/api/users/recommendations/stats", &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// UpdateRecommendationStatus moves an assigned recommendation to a new
// state (pending, in_progress, completed).
func (c *Client) UpdateRecommendationStatus(ctx context.Context, id, status string) error {
	body := map[string]string{"status": status}
	return c.put(ctx, "/api/users/recommendations/"+url.PathEscape(id)+"/status", body, nil)
}

// CompleteRecommendationAction checks off one action of an assigned
// recommendation by its position.
func (c *Client) CompleteRecommendationAction(ctx context.Context, id string, actionIndex int) error {
	path := "/api/users/recommendations/" + url.PathEscape(id) +
		"/actions/" + strconv.Itoa(actionIndex) + "/complete"
	return c.put(ctx, path, nil, nil)
}

// =============================================================================
// ADMIN USER ANALYSIS
// =============================================================================

// UserAnalysis is the admin's detailed view of one account's activity.
type UserAnalysis struct {
	UserID        string                  `json:"userId"`
	Conversations int                     `json:"conversations"`
	Messages      int                     `json:"messages"`
	RiskLevels    map[model.RiskLevel]int `json:"riskLevels"`
	PerDay        []DayCount              `json:"perDay"`
}

// AdminUserAnalysis fetches an account's activity breakdown. The date
// bounds are optional YYYY-MM-DD strings; both or neither.
func (c *Client) AdminUserAnalysis(ctx context.Context, userID, startDate, endDate string) (*UserAnalysis, error) {
	path := "/api/admin/users/" + url.PathEscape(userID) + "/analysis"
	if startDate != "" && endDate != "" {
		path += "?startDate=" + url.QueryEscape(startDate) + "&endDate=" + url.QueryEscape(endDate)
	}

	var analysis UserAnalysis
	if err := c.get(ctx, path, &analysis); err != nil {
		return nil, err
	}
	analysis.UserID = firstNonEmpty(analysis.UserID, userID)
	return &analysis, nil
}

// AdminAddRecommendation assigns guidance to any account.
func (c *Client) AdminAddRecommendation(ctx context.Context, rec Recommendation) error {
	return c.post(ctx, "/api/admin/recommendations", rec, nil)
}
