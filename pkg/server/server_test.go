package server

import (
	"bytes"
	"io"
	nethttp "net/http"
	"net/http/httptest"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/sirupsen/logrus"

	"github.com/kvanderzwet/fieldwork/internal/store"
	"github.com/kvanderzwet/fieldwork/pkg/config"
	"github.com/kvanderzwet/fieldwork/pkg/model"
	"github.com/kvanderzwet/fieldwork/pkg/scaffold"
)

func newTestServer(t *testing.T, mutate func(*config.Config)) (*Server, *store.Store) {
	t.Helper()
	st := &store.Store{Root: t.TempDir()}
	cfg := config.DefaultConfig()
	if mutate != nil {
		mutate(&cfg)
	}
	log := logrus.New()
	log.SetOutput(io.Discard)
	return New(cfg, st, log), st
}

func do(t *testing.T, s *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	s.srv.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decoding response %q: %v", rec.Body.String(), err)
	}
	return v
}

func mustCreateProject(t *testing.T, st *store.Store, name string) model.Project {
	t.Helper()
	p, err := scaffold.CreateProject(st, scaffold.Options{Name: name, Type: model.TypeInterview})
	if err != nil {
		t.Fatalf("CreateProject: %v", err)
	}
	return p
}

func TestProjectListingExcludesArchived(t *testing.T) {
	s, st := newTestServer(t, nil)
	mustCreateProject(t, st, "Pilot A")
	mustCreateProject(t, st, "Pilot B")

	// Archive Pilot B through the API.
	rec := do(t, s, "PUT", "/api/projects/pilot-b", map[string]string{"status": "archived"})
	if rec.Code != nethttp.StatusOK {
		t.Fatalf("archive: code = %d body = %s", rec.Code, rec.Body.String())
	}

	rec = do(t, s, "GET", "/api/projects", nil)
	if rec.Code != nethttp.StatusOK {
		t.Fatalf("list: code = %d", rec.Code)
	}
	projects := decode[[]model.Project](t, rec)
	if len(projects) != 1 || projects[0].Slug != "pilot-a" {
		t.Fatalf("default listing = %+v, want only pilot-a", projects)
	}

	rec = do(t, s, "GET", "/api/projects?archived=true", nil)
	if got := len(decode[[]model.Project](t, rec)); got != 2 {
		t.Errorf("archived listing length = %d, want 2", got)
	}

	// Unarchive restores the project in the default listing.
	rec = do(t, s, "PUT", "/api/projects/pilot-b", map[string]string{"status": "active"})
	if rec.Code != nethttp.StatusOK {
		t.Fatalf("unarchive: code = %d", rec.Code)
	}
	rec = do(t, s, "GET", "/api/projects", nil)
	if got := len(decode[[]model.Project](t, rec)); got != 2 {
		t.Errorf("listing after unarchive length = %d, want 2", got)
	}
}

func TestProjectNotFound(t *testing.T) {
	s, _ := newTestServer(t, nil)
	rec := do(t, s, "GET", "/api/projects/nope", nil)
	if rec.Code != nethttp.StatusNotFound {
		t.Fatalf("code = %d, want 404", rec.Code)
	}
	body := decode[map[string]string](t, rec)
	if body["error"] == "" {
		t.Error("missing error field")
	}
}

func TestUnmatchedAPIRouteReturnsJSON404(t *testing.T) {
	s, _ := newTestServer(t, nil)
	rec := do(t, s, "GET", "/api/no-such-route", nil)
	if rec.Code != nethttp.StatusNotFound {
		t.Fatalf("code = %d, want 404", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json; charset=utf-8" {
		t.Errorf("Content-Type = %q", ct)
	}
}

func TestRateInsightRecomputesMetrics(t *testing.T) {
	s, st := newTestServer(t, nil)
	p := mustCreateProject(t, st, "Pilot A")
	ins := model.Insight{ID: "ins-1", Title: "Slow search", Category: "Performance", ImpactLevel: model.ImpactHigh}
	if err := st.WriteInsights(p.Slug, []model.Insight{ins}); err != nil {
		t.Fatalf("WriteInsights: %v", err)
	}

	rate := func(user string, overall float64) {
		rec := do(t, s, "POST", "/api/insights/ins-1/rate", rateRequest{
			UserID: user, OverallRating: overall,
			EvidenceStrength: overall, Actionability: overall, Clarity: overall,
		})
		if rec.Code != nethttp.StatusOK {
			t.Fatalf("rate: code = %d body = %s", rec.Code, rec.Body.String())
		}
	}
	rate("u1", 4)
	rate("u2", 2)
	rate("u1", 5) // re-rating overwrites, count stays 2

	insights, err := st.ReadInsights(p.Slug)
	if err != nil {
		t.Fatalf("ReadInsights: %v", err)
	}
	qm := insights[0].QualityMetrics
	if qm == nil {
		t.Fatal("QualityMetrics is nil")
	}
	if qm.RatingCount != 2 {
		t.Errorf("RatingCount = %d, want 2", qm.RatingCount)
	}
	if qm.AverageRating != 3.5 {
		t.Errorf("AverageRating = %v, want 3.5", qm.AverageRating)
	}
}

func TestVoteToggleInvariant(t *testing.T) {
	s, st := newTestServer(t, nil)
	sg := model.Suggestion{ID: "sug-1", Title: "Pricing interviews", Status: model.SuggestionProposed, Voters: []string{}}
	if err := st.Write(store.SuggestionsPath, []model.Suggestion{sg}); err != nil {
		t.Fatalf("seeding suggestions: %v", err)
	}

	for _, user := range []string{"u1", "u2", "u1", "u3"} {
		rec := do(t, s, "PUT", "/api/research-suggestions/sug-1/vote", map[string]string{"userId": user})
		if rec.Code != nethttp.StatusOK {
			t.Fatalf("vote: code = %d body = %s", rec.Code, rec.Body.String())
		}
		got := decode[model.Suggestion](t, rec)
		if got.Votes != len(got.Voters) {
			t.Fatalf("votes = %d, voters = %d", got.Votes, len(got.Voters))
		}
	}

	var suggestions []model.Suggestion
	if _, err := st.Read(store.SuggestionsPath, &suggestions); err != nil {
		t.Fatalf("Read: %v", err)
	}
	// u1 toggled twice: off again. u2 and u3 remain.
	if suggestions[0].Votes != 2 {
		t.Errorf("final votes = %d, want 2", suggestions[0].Votes)
	}
}

func TestSuggestionStatusValidation(t *testing.T) {
	s, st := newTestServer(t, nil)
	sg := model.Suggestion{ID: "sug-1", Title: "T", Status: model.SuggestionProposed}
	if err := st.Write(store.SuggestionsPath, []model.Suggestion{sg}); err != nil {
		t.Fatalf("seed: %v", err)
	}
	rec := do(t, s, "PUT", "/api/research-suggestions/sug-1/status", map[string]string{"status": "bogus"})
	if rec.Code != nethttp.StatusBadRequest {
		t.Errorf("code = %d, want 400", rec.Code)
	}
	rec = do(t, s, "PUT", "/api/research-suggestions/sug-1/status", map[string]string{"status": "planned"})
	if rec.Code != nethttp.StatusOK {
		t.Errorf("code = %d, want 200", rec.Code)
	}
}

func TestCSATSubmitAndAggregate(t *testing.T) {
	s, _ := newTestServer(t, nil)

	submit := func(overall float64) {
		rec := do(t, s, "POST", "/api/csat/submit", map[string]any{
			"userId":  "u1",
			"scores":  map[string]float64{"overallSatisfaction": overall},
			"context": map[string]string{"project": "pilot-a", "role": "researcher"},
		})
		if rec.Code != nethttp.StatusCreated {
			t.Fatalf("submit: code = %d body = %s", rec.Code, rec.Body.String())
		}
	}
	submit(4)
	submit(5)

	rec := do(t, s, "GET", "/api/admin/csat/aggregates", nil)
	if rec.Code != nethttp.StatusOK {
		t.Fatalf("aggregates: code = %d", rec.Code)
	}
	agg := decode[map[string]any](t, rec)
	if agg["averageCSAT"] != 4.5 {
		t.Errorf("averageCSAT = %v, want 4.5", agg["averageCSAT"])
	}
	if agg["npsScore"] != float64(0) {
		t.Errorf("npsScore = %v, want 0", agg["npsScore"])
	}
}

func TestCSATEligibilityRequiresUserID(t *testing.T) {
	s, _ := newTestServer(t, nil)
	rec := do(t, s, "GET", "/api/csat/eligibility", nil)
	if rec.Code != nethttp.StatusBadRequest {
		t.Errorf("code = %d, want 400", rec.Code)
	}
	rec = do(t, s, "GET", "/api/csat/eligibility?userId=u1&project=pilot-a", nil)
	if rec.Code != nethttp.StatusOK {
		t.Fatalf("code = %d", rec.Code)
	}
	elig := decode[map[string]any](t, rec)
	if elig["show"] != true {
		t.Errorf("show = %v, want true for fresh user", elig["show"])
	}
}

func TestAuthRoles(t *testing.T) {
	s, _ := newTestServer(t, func(c *config.Config) {
		c.Server.Auth = true
		c.AdminToken = "admin-secret"
		c.ViewerToken = "viewer-secret"
	})

	// Missing token.
	rec := do(t, s, "GET", "/api/projects", nil)
	if rec.Code != nethttp.StatusUnauthorized {
		t.Errorf("no token: code = %d, want 401", rec.Code)
	}

	// Unknown token.
	rec = do(t, s, "GET", "/api/projects?token=wrong", nil)
	if rec.Code != nethttp.StatusForbidden {
		t.Errorf("bad token: code = %d, want 403", rec.Code)
	}

	// Viewer can read but not write.
	rec = do(t, s, "GET", "/api/projects?token=viewer-secret", nil)
	if rec.Code != nethttp.StatusOK {
		t.Errorf("viewer read: code = %d, want 200", rec.Code)
	}
	rec = do(t, s, "PUT", "/api/projects/x?token=viewer-secret", map[string]string{"name": "X"})
	if rec.Code != nethttp.StatusForbidden {
		t.Errorf("viewer write: code = %d, want 403", rec.Code)
	}

	// Bearer header resolution.
	req := httptest.NewRequest("GET", "/api/auth/role", nil)
	req.Header.Set("Authorization", "Bearer admin-secret")
	recorder := httptest.NewRecorder()
	s.srv.ServeHTTP(recorder, req)
	if recorder.Code != nethttp.StatusOK {
		t.Fatalf("bearer: code = %d", recorder.Code)
	}
	role := decode[map[string]any](t, recorder)
	if role["role"] != "admin" {
		t.Errorf("role = %v, want admin", role["role"])
	}
}

func TestAuthDisabledIsAdmin(t *testing.T) {
	s, _ := newTestServer(t, nil)
	rec := do(t, s, "GET", "/api/auth/role", nil)
	if rec.Code != nethttp.StatusOK {
		t.Fatalf("code = %d", rec.Code)
	}
	role := decode[map[string]any](t, rec)
	if role["role"] != "admin" {
		t.Errorf("role = %v, want admin with auth disabled", role["role"])
	}
}

func TestROITrackUpsert(t *testing.T) {
	s, st := newTestServer(t, func(c *config.Config) { c.Organization = "retail" })

	csatQ4, npsQ4 := 3.9, 21.0
	csatQ1, npsQ1 := 4.2, 30.0
	metricsDoc := model.QuarterlyMetrics{Periods: map[string]map[string]model.QuarterMetrics{
		"2025-Q4": {"bankwide": {CSAT: &csatQ4, NPS: &npsQ4}},
		"2026-Q1": {"retail": {CSAT: &csatQ1, NPS: &npsQ1}},
	}}
	if err := st.Write(store.QuarterlyMetricsPath, metricsDoc); err != nil {
		t.Fatalf("seeding metrics: %v", err)
	}

	track := func() *httptest.ResponseRecorder {
		return do(t, s, "POST", "/api/roi/track", trackROIRequest{
			ActionID: "act-1", Project: "pilot-a", Period: "2026-Q1",
		})
	}
	if rec := track(); rec.Code != nethttp.StatusOK {
		t.Fatalf("track: code = %d body = %s", rec.Code, rec.Body.String())
	}
	if rec := track(); rec.Code != nethttp.StatusOK {
		t.Fatalf("re-track: code = %d", rec.Code)
	}

	var tracking model.ROITracking
	if _, err := st.Read(store.ROITrackingPath, &tracking); err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(tracking.TrackedActions) != 1 {
		t.Fatalf("entries = %d, want 1 after re-track", len(tracking.TrackedActions))
	}
	entry := tracking.TrackedActions[0]
	if entry.PreviousPeriod != "2025-Q4" {
		t.Errorf("PreviousPeriod = %q, want 2025-Q4", entry.PreviousPeriod)
	}
	if entry.Metrics.CSAT.Delta == nil || *entry.Metrics.CSAT.Delta != 0.3 {
		t.Errorf("CSAT delta = %v, want 0.3", entry.Metrics.CSAT.Delta)
	}

	rec := do(t, s, "DELETE", "/api/roi/act-1", nil)
	if rec.Code != nethttp.StatusOK {
		t.Fatalf("delete: code = %d", rec.Code)
	}
	rec = do(t, s, "DELETE", "/api/roi/act-1", nil)
	if rec.Code != nethttp.StatusNotFound {
		t.Errorf("second delete: code = %d, want 404", rec.Code)
	}
}

func TestFeedbackLifecycle(t *testing.T) {
	s, st := newTestServer(t, nil)
	mustCreateProject(t, st, "Pilot A")

	rec := do(t, s, "POST", "/api/feedback?project=pilot-a", map[string]string{"title": "Broken filter"})
	if rec.Code != nethttp.StatusCreated {
		t.Fatalf("create: code = %d body = %s", rec.Code, rec.Body.String())
	}
	created := decode[model.Feedback](t, rec)
	if created.Status != "open" {
		t.Errorf("Status = %q, want open", created.Status)
	}

	rec = do(t, s, "POST", "/api/feedback/"+created.ID+"/responses?project=pilot-a",
		map[string]string{"author": "u1", "content": "Fixed in next release"})
	if rec.Code != nethttp.StatusCreated {
		t.Fatalf("respond: code = %d body = %s", rec.Code, rec.Body.String())
	}

	rec = do(t, s, "DELETE", "/api/feedback/"+created.ID+"?project=pilot-a", nil)
	if rec.Code != nethttp.StatusOK {
		t.Fatalf("delete: code = %d", rec.Code)
	}
	items, err := st.ReadFeedback("pilot-a")
	if err != nil {
		t.Fatalf("ReadFeedback: %v", err)
	}
	if len(items) != 0 {
		t.Errorf("items = %d, want 0 after hard delete", len(items))
	}

	// Missing project parameter.
	rec = do(t, s, "GET", "/api/feedback", nil)
	if rec.Code != nethttp.StatusBadRequest {
		t.Errorf("no project: code = %d, want 400", rec.Code)
	}
}

func TestProjectStatsEndToEnd(t *testing.T) {
	s, st := newTestServer(t, nil)
	p := mustCreateProject(t, st, "Pilot A")
	if p.Slug != "pilot-a" {
		t.Fatalf("slug = %q", p.Slug)
	}
	ins := model.Insight{ID: "i1", Title: "T", Category: "Usability", ImpactLevel: model.ImpactHigh}
	if err := st.WriteInsights(p.Slug, []model.Insight{ins}); err != nil {
		t.Fatalf("WriteInsights: %v", err)
	}

	rec := do(t, s, "GET", "/api/projects/pilot-a/stats", nil)
	if rec.Code != nethttp.StatusOK {
		t.Fatalf("stats: code = %d", rec.Code)
	}
	stats := decode[map[string]any](t, rec)
	if stats["totalInsights"] != float64(1) {
		t.Errorf("totalInsights = %v, want 1", stats["totalInsights"])
	}
	byCat, _ := stats["insightsByCategory"].(map[string]any)
	if byCat["Usability"] != float64(1) {
		t.Errorf("insightsByCategory = %v", byCat)
	}
}

func TestEventHubBroadcast(t *testing.T) {
	hub := newEventHub()
	ch := hub.subscribe()
	defer hub.unsubscribe(ch)

	hub.broadcast("shared/personas.json")
	select {
	case rel := <-ch:
		if rel != "shared/personas.json" {
			t.Errorf("rel = %q", rel)
		}
	case <-time.After(time.Second):
		t.Fatal("no event delivered")
	}
}
