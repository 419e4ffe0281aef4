package export

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/kvanderzwet/fieldwork/pkg/version"
)

// SchemaVersion tracks the snapshot schema for downstream consumers.
const SchemaVersion = 1

// SQLiteExporter writes the record corpus to a SQLite database so BI tools
// can query it without parsing the JSON store.
type SQLiteExporter struct {
	Corpus Corpus
}

// NewSQLiteExporter creates an exporter over a corpus.
func NewSQLiteExporter(c Corpus) *SQLiteExporter {
	return &SQLiteExporter{Corpus: c}
}

// Export writes fieldwork.sqlite3 into outputDir, replacing any existing
// snapshot.
func (e *SQLiteExporter) Export(outputDir string) error {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	dbPath := filepath.Join(outputDir, "fieldwork.sqlite3")
	if err := os.Remove(dbPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove existing database: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	if err := createSchema(db); err != nil {
		return err
	}
	if err := e.insertRows(db); err != nil {
		return err
	}
	return nil
}

func createSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS projects (
			slug TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			type TEXT,
			status TEXT NOT NULL,
			organization TEXT,
			created_at TEXT,
			updated_at TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS insights (
			id TEXT PRIMARY KEY,
			project TEXT NOT NULL,
			title TEXT NOT NULL,
			category TEXT,
			impact TEXT,
			confidence TEXT,
			product_area TEXT,
			rating_avg REAL,
			rating_count INTEGER
		)`,
		`CREATE TABLE IF NOT EXISTS actions (
			id TEXT PRIMARY KEY,
			project TEXT NOT NULL,
			title TEXT NOT NULL,
			priority TEXT,
			status TEXT,
			owner TEXT,
			source_insight TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS csat_responses (
			id TEXT PRIMARY KEY,
			user_id TEXT,
			overall_satisfaction REAL,
			nps INTEGER,
			project TEXT,
			role TEXT,
			submitted_at TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS roi_entries (
			action_id TEXT NOT NULL,
			project TEXT NOT NULL,
			implemented_period TEXT,
			previous_period TEXT,
			csat_delta REAL,
			nps_delta REAL,
			tracked_at TEXT,
			PRIMARY KEY (action_id, project)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_insights_project ON insights(project)`,
		`CREATE INDEX IF NOT EXISTS idx_actions_project ON actions(project)`,
		`CREATE TABLE IF NOT EXISTS meta (key TEXT PRIMARY KEY, value TEXT)`,
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
	}
	return nil
}

func (e *SQLiteExporter) insertRows(db *sql.DB) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	for _, p := range e.Corpus.Projects {
		if _, err := tx.Exec(
			`INSERT INTO projects (slug, name, type, status, organization, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
			p.Slug, p.Name, string(p.Type), string(p.Status), p.Organization,
			p.CreatedAt.Format(time.RFC3339), p.UpdatedAt.Format(time.RFC3339),
		); err != nil {
			return fmt.Errorf("insert project %s: %w", p.Slug, err)
		}
	}

	for slug, insights := range e.Corpus.Insights {
		for _, ins := range insights {
			var avg sql.NullFloat64
			var count sql.NullInt64
			if qm := ins.QualityMetrics; qm != nil {
				avg = sql.NullFloat64{Float64: qm.AverageRating, Valid: true}
				count = sql.NullInt64{Int64: int64(qm.RatingCount), Valid: true}
			}
			if _, err := tx.Exec(
				`INSERT INTO insights (id, project, title, category, impact, confidence, product_area, rating_avg, rating_count) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				ins.ID, slug, ins.Title, ins.Category, string(ins.ImpactLevel),
				ins.ConfidenceLevel, ins.ProductArea, avg, count,
			); err != nil {
				return fmt.Errorf("insert insight %s: %w", ins.ID, err)
			}
		}
	}

	for slug, actions := range e.Corpus.Actions {
		for _, a := range actions {
			if _, err := tx.Exec(
				`INSERT INTO actions (id, project, title, priority, status, owner, source_insight) VALUES (?, ?, ?, ?, ?, ?, ?)`,
				a.ID, slug, a.Title, string(a.Priority), a.Status, a.Owner, a.SourceInsight,
			); err != nil {
				return fmt.Errorf("insert action %s: %w", a.ID, err)
			}
		}
	}

	for _, r := range e.Corpus.Responses {
		var overall sql.NullFloat64
		if r.Scores.OverallSatisfaction != nil {
			overall = sql.NullFloat64{Float64: *r.Scores.OverallSatisfaction, Valid: true}
		}
		var nps sql.NullInt64
		if r.NPSScore != nil {
			nps = sql.NullInt64{Int64: int64(*r.NPSScore), Valid: true}
		}
		if _, err := tx.Exec(
			`INSERT INTO csat_responses (id, user_id, overall_satisfaction, nps, project, role, submitted_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
			r.ID, r.UserID, overall, nps, r.Context.Project, r.Context.Role,
			r.SubmittedAt.Format(time.RFC3339),
		); err != nil {
			return fmt.Errorf("insert response %s: %w", r.ID, err)
		}
	}

	for _, entry := range e.Corpus.ROI.TrackedActions {
		var csatDelta, npsDelta sql.NullFloat64
		if entry.Metrics.CSAT.Delta != nil {
			csatDelta = sql.NullFloat64{Float64: *entry.Metrics.CSAT.Delta, Valid: true}
		}
		if entry.Metrics.NPS.Delta != nil {
			npsDelta = sql.NullFloat64{Float64: *entry.Metrics.NPS.Delta, Valid: true}
		}
		if _, err := tx.Exec(
			`INSERT INTO roi_entries (action_id, project, implemented_period, previous_period, csat_delta, nps_delta, tracked_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
			entry.ActionID, entry.Project, entry.ImplementedPeriod, entry.PreviousPeriod,
			csatDelta, npsDelta, entry.TrackedAt.Format(time.RFC3339),
		); err != nil {
			return fmt.Errorf("insert roi entry %s/%s: %w", entry.ActionID, entry.Project, err)
		}
	}

	meta := map[string]string{
		"schema_version": fmt.Sprint(SchemaVersion),
		"fw_version":     version.Version,
		"exported_at":    time.Now().UTC().Format(time.RFC3339),
	}
	for k, v := range meta {
		if _, err := tx.Exec(`INSERT INTO meta (key, value) VALUES (?, ?)`, k, v); err != nil {
			return fmt.Errorf("insert meta %s: %w", k, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
