package notion

import (
	"context"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/kvanderzwet/fieldwork/pkg/config"
	"github.com/kvanderzwet/fieldwork/pkg/model"
)

// pushConcurrency bounds in-flight page writes; the client's rate limiter
// still serializes actual requests to Notion's budget.
const pushConcurrency = 4

// SyncResult summarizes a push or pull batch.
type SyncResult struct {
	Pushed  int `json:"pushed"`
	Pulled  int `json:"pulled"`
	Skipped int `json:"skipped"`
	Failed  int `json:"failed"`
}

// Syncer pushes and pulls project records against the configured Notion
// databases. Failures are per-record: a failed row is logged and skipped
// while the batch continues. There is no checkpoint; a rerun reprocesses
// every record.
type Syncer struct {
	client *Client
	cfg    config.NotionConfig
	log    *logrus.Logger
	DryRun bool
}

// NewSyncer builds a Syncer over an authenticated client.
func NewSyncer(client *Client, cfg config.NotionConfig, log *logrus.Logger) *Syncer {
	return &Syncer{client: client, cfg: cfg, log: log}
}

func insightProperties(ins model.Insight) map[string]Property {
	props := map[string]Property{
		"Name":        {Title: Text(ins.Title)},
		"Category":    {Select: &Select{Name: ins.Category}},
		"Impact":      {Select: &Select{Name: string(ins.ImpactLevel)}},
		"FieldworkID": {RichText: Text(ins.ID)},
	}
	if ins.ProductArea != "" {
		props["Product Area"] = Property{RichText: Text(ins.ProductArea)}
	}
	return props
}

func actionProperties(a model.Action) map[string]Property {
	props := map[string]Property{
		"Name":        {Title: Text(a.Title)},
		"Priority":    {Select: &Select{Name: string(a.Priority)}},
		"Status":      {Select: &Select{Name: a.Status}},
		"FieldworkID": {RichText: Text(a.ID)},
	}
	if a.Owner != "" {
		props["Owner"] = Property{RichText: Text(a.Owner)}
	}
	return props
}

// PushInsights writes every insight as a page in the insights database.
func (s *Syncer) PushInsights(ctx context.Context, insights []model.Insight) SyncResult {
	return s.push(ctx, s.cfg.InsightsDatabase, len(insights), func(i int) (string, map[string]Property) {
		return insights[i].ID, insightProperties(insights[i])
	})
}

// PushActions writes every action as a page in the actions database.
func (s *Syncer) PushActions(ctx context.Context, actions []model.Action) SyncResult {
	return s.push(ctx, s.cfg.ActionsDatabase, len(actions), func(i int) (string, map[string]Property) {
		return actions[i].ID, actionProperties(actions[i])
	})
}

func (s *Syncer) push(ctx context.Context, databaseID string, n int, row func(int) (string, map[string]Property)) SyncResult {
	var result SyncResult
	if s.DryRun {
		result.Skipped = n
		return result
	}

	type outcome struct{ failed bool }
	outcomes := make([]outcome, n)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(pushConcurrency)
	for i := 0; i < n; i++ {
		g.Go(func() error {
			id, props := row(i)
			if _, err := s.client.CreatePage(ctx, databaseID, props); err != nil {
				// Per-record tolerance: log, mark, continue the batch.
				s.log.WithError(err).WithField("record", id).Warn("notion push failed, skipping")
				outcomes[i].failed = true
			}
			return nil
		})
	}
	_ = g.Wait() // workers never return errors; failures are per-record

	for _, o := range outcomes {
		if o.failed {
			result.Failed++
		} else {
			result.Pushed++
		}
	}
	return result
}

// PullInsights reads the insights database back into insight records.
// Rows without a Name title are skipped.
func (s *Syncer) PullInsights(ctx context.Context) ([]model.Insight, SyncResult, error) {
	var result SyncResult
	if s.DryRun {
		return nil, result, nil
	}
	pages, err := s.client.QueryDatabase(ctx, s.cfg.InsightsDatabase)
	if err != nil {
		return nil, result, err
	}
	var insights []model.Insight
	for _, p := range pages {
		title := Plain(p.Properties["Name"].Title)
		if title == "" {
			s.log.WithField("page", p.ID).Warn("notion pull: page has no title, skipping")
			result.Skipped++
			continue
		}
		ins := model.Insight{
			ID:    Plain(p.Properties["FieldworkID"].RichText),
			Title: title,
		}
		if ins.ID == "" {
			ins.ID = model.NewID()
		}
		if sel := p.Properties["Category"].Select; sel != nil {
			ins.Category = sel.Name
		}
		if sel := p.Properties["Impact"].Select; sel != nil {
			ins.ImpactLevel = model.ImpactLevel(sel.Name)
		}
		ins.ProductArea = Plain(p.Properties["Product Area"].RichText)
		insights = append(insights, ins)
		result.Pulled++
	}
	return insights, result, nil
}
