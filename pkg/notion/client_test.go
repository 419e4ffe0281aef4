package notion

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/sirupsen/logrus"
)

func discardLog() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c := NewClient("secret-token", discardLog())
	c.SetBaseURL(srv.URL)
	return c
}

func TestCreatePageSendsAuthAndVersionHeaders(t *testing.T) {
	var gotAuth, gotVersion, gotPath string
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotVersion = r.Header.Get("Notion-Version")
		gotPath = r.URL.Path

		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if parent, ok := body["parent"].(map[string]any); !ok || parent["database_id"] != "db-1" {
			t.Errorf("parent = %v", body["parent"])
		}
		json.NewEncoder(w).Encode(Page{ID: "page-1"})
	})

	page, err := c.CreatePage(context.Background(), "db-1", map[string]Property{
		"Name": {Title: Text("Users skip onboarding")},
	})
	if err != nil {
		t.Fatalf("CreatePage: %v", err)
	}
	if page.ID != "page-1" {
		t.Errorf("page ID = %q", page.ID)
	}
	if gotAuth != "Bearer secret-token" {
		t.Errorf("Authorization = %q", gotAuth)
	}
	if gotVersion != APIVersion {
		t.Errorf("Notion-Version = %q", gotVersion)
	}
	if gotPath != "/pages" {
		t.Errorf("path = %q", gotPath)
	}
}

func TestAPIErrorSurfacesCodeAndMessage(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(apiError{Code: "validation_error", Message: "Name is required"})
	})

	_, err := c.CreatePage(context.Background(), "db-1", nil)
	if err == nil {
		t.Fatal("expected error")
	}
	for _, want := range []string{"validation_error", "Name is required"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q missing %q", err, want)
		}
	}
}

func TestQueryDatabaseFollowsCursor(t *testing.T) {
	calls := 0
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		var body map[string]any
		json.NewDecoder(r.Body).Decode(&body)

		switch calls {
		case 1:
			if _, ok := body["start_cursor"]; ok {
				t.Error("first request carried a cursor")
			}
			json.NewEncoder(w).Encode(map[string]any{
				"results":     []Page{{ID: "p1"}, {ID: "p2"}},
				"has_more":    true,
				"next_cursor": "cur-2",
			})
		case 2:
			if body["start_cursor"] != "cur-2" {
				t.Errorf("cursor = %v", body["start_cursor"])
			}
			json.NewEncoder(w).Encode(map[string]any{
				"results":  []Page{{ID: "p3"}},
				"has_more": false,
			})
		default:
			t.Errorf("unexpected call %d", calls)
		}
	})

	pages, err := c.QueryDatabase(context.Background(), "db-1")
	if err != nil {
		t.Fatalf("QueryDatabase: %v", err)
	}
	if len(pages) != 3 || pages[2].ID != "p3" {
		t.Errorf("pages = %+v", pages)
	}
}

func TestPlainPrefersPlainText(t *testing.T) {
	rt := Text("fallback")
	if got := Plain(rt); got != "fallback" {
		t.Errorf("Plain = %q", got)
	}
	rt[0].PlainText = "rendered"
	if got := Plain(rt); got != "rendered" {
		t.Errorf("Plain = %q", got)
	}
}
