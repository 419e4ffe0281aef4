package main

import (
	"testing"

	"github.com/kvanderzwet/fieldwork/pkg/notion"
)

func TestPullSummaryReportsCounts(t *testing.T) {
	got := pullSummary(notion.SyncResult{Pulled: 3, Failed: 1})
	want := "✓ pulled 3 insights (1 failed)"
	if got != want {
		t.Errorf("pullSummary = %q, want %q", got, want)
	}
}

func TestPushSummaryReportsCounts(t *testing.T) {
	tests := []struct {
		label  string
		result notion.SyncResult
		want   string
	}{
		{"insights:", notion.SyncResult{Pushed: 2, Failed: 1}, "insights: 2 pushed, 1 failed"},
		{"actions: ", notion.SyncResult{Pushed: 5}, "actions:  5 pushed, 0 failed"},
	}
	for _, tt := range tests {
		if got := pushSummary(tt.label, tt.result); got != tt.want {
			t.Errorf("pushSummary(%q) = %q, want %q", tt.label, got, tt.want)
		}
	}
}
