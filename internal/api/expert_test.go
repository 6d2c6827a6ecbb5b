// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"net/http"
	"testing"

	"github.com/garcessebastian/camila-tui/internal/model"
)

// =============================================================================
// KEYWORD TESTS
// =============================================================================

func TestKeywords_SymptomFilter(t *testing.T) {
	var gotPath string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.RequestURI()
		w.Write([]byte(`{"keywords":[{"id":"k1","word":"insomnio","symptom":"ansiedad","weight":3}]}`))
	})

	kws, err := client.Keywords(context.Background(), "ansiedad")
	if err != nil {
		t.Fatalf("Keywords: %v", err)
	}
	if gotPath != "/api/expert/keywords?symptom=ansiedad" {
		t.Errorf("path = %q", gotPath)
	}
	if len(kws) != 1 || kws[0].Word != "insomnio" {
		t.Errorf("keywords = %+v", kws)
	}
}

func TestTestKeyword_PostsSample(t *testing.T) {
	var gotMethod, gotPath string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod, gotPath = r.Method, r.URL.Path
		w.Write([]byte(`{"matches":[{"word":"solo","symptom":"aislamiento"}]}`))
	})

	matches, err := client.TestKeyword(context.Background(), "me siento solo")
	if err != nil {
		t.Fatalf("TestKeyword: %v", err)
	}
	if gotMethod != http.MethodPost || gotPath != "/api/expert/keywords/test" {
		t.Errorf("request = %s %s", gotMethod, gotPath)
	}
	if len(matches) != 1 || matches[0].Symptom != "aislamiento" {
		t.Errorf("matches = %+v", matches)
	}
}

// =============================================================================
// PATIENT HISTORY TESTS
// =============================================================================

func TestPatientRiskHistory_NormalizesDates(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/expert/patients/p1/risk-history" {
			t.Errorf("path = %q", r.URL.Path)
		}
		// Mixed date formats, as the backend actually emits
		w.Write([]byte(`{"history":[
			{"level":"bajo","date":"2025-03-01T10:00:00Z"},
			{"level":"alto","date":1741082400000}
		]}`))
	})

	points, err := client.PatientRiskHistory(context.Background(), "p1")
	if err != nil {
		t.Fatalf("PatientRiskHistory: %v", err)
	}
	if len(points) != 2 {
		t.Fatalf("got %d points", len(points))
	}
	if points[0].Level != model.RiskBajo || points[0].At.IsZero() {
		t.Errorf("point 0 = %+v", points[0])
	}
	if points[1].Level != model.RiskAlto || points[1].At.IsZero() {
		t.Errorf("point 1 = %+v", points[1])
	}
}

// =============================================================================
// RECOMMENDATION TESTS
// =============================================================================

func TestUpdateRecommendationStatus_PutsToStatusPath(t *testing.T) {
	var gotMethod, gotPath string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod, gotPath = r.Method, r.URL.Path
		w.Write([]byte(`{}`))
	})

	if err := client.UpdateRecommendationStatus(context.Background(), "r9", "completed"); err != nil {
		t.Fatalf("UpdateRecommendationStatus: %v", err)
	}
	if gotMethod != http.MethodPut || gotPath != "/api/users/recommendations/r9/status" {
		t.Errorf("request = %s %s", gotMethod, gotPath)
	}
}

func TestCompleteRecommendationAction_IndexInPath(t *testing.T) {
	var gotPath string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write([]byte(`{}`))
	})

	if err := client.CompleteRecommendationAction(context.Background(), "r9", 2); err != nil {
		t.Fatalf("CompleteRecommendationAction: %v", err)
	}
	if gotPath != "/api/users/recommendations/r9/actions/2/complete" {
		t.Errorf("path = %q", gotPath)
	}
}

// =============================================================================
// ADMIN REGISTRATION TESTS
// =============================================================================

func TestRegisterInstitutionalAdmin(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/auth/register-institutional-admin" {
			t.Errorf("path = %q", r.URL.Path)
		}
		w.Write([]byte(`{"user":{"id":"a1","name":"Marta","email":"marta@uni.edu","role":"institutional_admin"}}`))
	})

	acc, err := client.RegisterInstitutionalAdmin(context.Background(), "Marta", "marta@uni.edu", "secreta1", "i1")
	if err != nil {
		t.Fatalf("RegisterInstitutionalAdmin: %v", err)
	}
	if acc.Role != model.AccountRoleInstitutional {
		t.Errorf("role = %q", acc.Role)
	}
	if acc.Role.Destination() != model.DestInstitutionalPanel {
		t.Errorf("destination = %v", acc.Role.Destination())
	}
}
