// Package notion is a thin REST wrapper around the Notion API, plus the
// bulk push/pull sync used by fw sync. Only the handful of endpoints the
// sync needs are wrapped; this is deliberately not a general SDK.
package notion

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/kvanderzwet/fieldwork/pkg/metrics"
)

// BaseURL is the Notion REST endpoint root.
const BaseURL = "https://api.notion.com/v1"

// APIVersion is the Notion-Version header value this client speaks.
const APIVersion = "2022-06-28"

// requestsPerSecond stays under Notion's documented 3 req/s budget.
const requestsPerSecond = 3

// Client is a rate-limited Notion API client.
type Client struct {
	token   string
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
	log     *logrus.Logger
}

// NewClient builds a client for the given integration token.
func NewClient(token string, log *logrus.Logger) *Client {
	if log == nil {
		log = logrus.New()
		log.SetOutput(io.Discard)
	}
	return &Client{
		token:   token,
		baseURL: BaseURL,
		http:    &http.Client{Timeout: 30 * time.Second},
		limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), 1),
		log:     log,
	}
}

// SetBaseURL overrides the endpoint root; used by tests.
func (c *Client) SetBaseURL(u string) { c.baseURL = u }

// apiError is Notion's error body shape.
type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}
	defer metrics.Timer(metrics.NotionRequest)()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Notion-Version", APIVersion)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("notion %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("notion %s %s: reading response: %w", method, path, err)
	}
	if resp.StatusCode >= 400 {
		var ae apiError
		if json.Unmarshal(data, &ae) == nil && ae.Message != "" {
			return fmt.Errorf("notion %s %s: %s (%s)", method, path, ae.Message, ae.Code)
		}
		return fmt.Errorf("notion %s %s: status %d", method, path, resp.StatusCode)
	}
	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("notion %s %s: parsing response: %w", method, path, err)
		}
	}
	return nil
}

// Page is the subset of a Notion page this client reads back.
type Page struct {
	ID         string              `json:"id"`
	Properties map[string]Property `json:"properties"`
}

// Property is a loose union of the Notion property payloads the sync maps.
type Property struct {
	Title    []RichText `json:"title,omitempty"`
	RichText []RichText `json:"rich_text,omitempty"`
	Select   *Select    `json:"select,omitempty"`
}

// RichText is a single Notion rich-text fragment.
type RichText struct {
	Text struct {
		Content string `json:"content"`
	} `json:"text"`
	PlainText string `json:"plain_text,omitempty"`
}

// Select is a Notion select value.
type Select struct {
	Name string `json:"name"`
}

// Text builds a one-fragment rich-text list.
func Text(s string) []RichText {
	var rt RichText
	rt.Text.Content = s
	return []RichText{rt}
}

// Plain flattens a rich-text list to its concatenated content.
func Plain(rts []RichText) string {
	var out string
	for _, rt := range rts {
		if rt.PlainText != "" {
			out += rt.PlainText
		} else {
			out += rt.Text.Content
		}
	}
	return out
}

// CreatePage creates a page in a database.
func (c *Client) CreatePage(ctx context.Context, databaseID string, properties map[string]Property) (Page, error) {
	body := map[string]any{
		"parent":     map[string]string{"database_id": databaseID},
		"properties": properties,
	}
	var page Page
	err := c.do(ctx, http.MethodPost, "/pages", body, &page)
	return page, err
}

// UpdatePage patches an existing page's properties.
func (c *Client) UpdatePage(ctx context.Context, pageID string, properties map[string]Property) error {
	body := map[string]any{"properties": properties}
	return c.do(ctx, http.MethodPatch, "/pages/"+pageID, body, nil)
}

// QueryDatabase pages through every row of a database.
func (c *Client) QueryDatabase(ctx context.Context, databaseID string) ([]Page, error) {
	var pages []Page
	cursor := ""
	for {
		body := map[string]any{}
		if cursor != "" {
			body["start_cursor"] = cursor
		}
		var resp struct {
			Results    []Page `json:"results"`
			HasMore    bool   `json:"has_more"`
			NextCursor string `json:"next_cursor"`
		}
		if err := c.do(ctx, http.MethodPost, "/databases/"+databaseID+"/query", body, &resp); err != nil {
			return nil, err
		}
		pages = append(pages, resp.Results...)
		if !resp.HasMore {
			return pages, nil
		}
		cursor = resp.NextCursor
	}
}
