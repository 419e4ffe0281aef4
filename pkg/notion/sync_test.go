package notion

import (
	"context"
	"net/http"
	"sync/atomic"
	"testing"

	"github.com/goccy/go-json"

	"github.com/kvanderzwet/fieldwork/pkg/config"
	"github.com/kvanderzwet/fieldwork/pkg/model"
)

func testSyncer(t *testing.T, handler http.HandlerFunc) *Syncer {
	t.Helper()
	c := testClient(t, handler)
	cfg := config.NotionConfig{InsightsDatabase: "db-ins", ActionsDatabase: "db-act"}
	return NewSyncer(c, cfg, discardLog())
}

func TestPushInsightsCountsFailures(t *testing.T) {
	var calls atomic.Int64
	s := testSyncer(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 2 {
			// Reject exactly one record; the batch must continue.
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(apiError{Code: "validation_error", Message: "nope"})
			return
		}
		json.NewEncoder(w).Encode(Page{ID: "page"})
	})

	insights := []model.Insight{
		{ID: "i1", Title: "One", Category: "Usability"},
		{ID: "i2", Title: "Two", Category: "Usability"},
		{ID: "i3", Title: "Three", Category: "Usability"},
	}
	result := s.PushInsights(context.Background(), insights)
	if result.Pushed != 2 || result.Failed != 1 {
		t.Errorf("result = %+v, want 2 pushed 1 failed", result)
	}
}

func TestPushDryRunSkipsEverything(t *testing.T) {
	s := testSyncer(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("dry run made a request")
	})
	s.DryRun = true
	result := s.PushActions(context.Background(), []model.Action{{ID: "a1", Title: "Fix"}})
	if result.Skipped != 1 || result.Pushed != 0 {
		t.Errorf("result = %+v", result)
	}
}

func TestPullInsightsMapsProperties(t *testing.T) {
	s := testSyncer(t, func(w http.ResponseWriter, r *http.Request) {
		page := Page{ID: "notion-1", Properties: map[string]Property{
			"Name":        {Title: Text("Exports are trusted")},
			"FieldworkID": {RichText: Text("ins-7")},
			"Category":    {Select: &Select{Name: "Workflow"}},
			"Impact":      {Select: &Select{Name: "High"}},
		}}
		untitled := Page{ID: "notion-2", Properties: map[string]Property{}}
		json.NewEncoder(w).Encode(map[string]any{
			"results":  []Page{page, untitled},
			"has_more": false,
		})
	})

	insights, result, err := s.PullInsights(context.Background())
	if err != nil {
		t.Fatalf("PullInsights: %v", err)
	}
	if result.Pulled != 1 || result.Skipped != 1 {
		t.Errorf("result = %+v", result)
	}
	ins := insights[0]
	if ins.ID != "ins-7" || ins.Title != "Exports are trusted" {
		t.Errorf("insight = %+v", ins)
	}
	if ins.Category != "Workflow" || ins.ImpactLevel != model.ImpactHigh {
		t.Errorf("mapped fields = %q, %q", ins.Category, ins.ImpactLevel)
	}
}

func TestPullInsightsAssignsIDWhenMissing(t *testing.T) {
	s := testSyncer(t, func(w http.ResponseWriter, r *http.Request) {
		page := Page{ID: "notion-1", Properties: map[string]Property{
			"Name": {Title: Text("No tracked ID yet")},
		}}
		json.NewEncoder(w).Encode(map[string]any{"results": []Page{page}, "has_more": false})
	})

	insights, _, err := s.PullInsights(context.Background())
	if err != nil {
		t.Fatalf("PullInsights: %v", err)
	}
	if insights[0].ID == "" {
		t.Error("pulled insight has no ID")
	}
}
