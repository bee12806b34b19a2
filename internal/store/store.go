// Package store persists estimation runs to a local SQLite database so
// estimates can be listed and reopened after the fact. The full estimate is
// kept as a JSON payload alongside the queryable summary columns.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/sells-group/takeoff-cli/internal/model"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id           TEXT PRIMARY KEY,
	created_at   TEXT NOT NULL,
	project_name TEXT NOT NULL DEFAULT '',
	project_type TEXT NOT NULL DEFAULT '',
	location     TEXT NOT NULL DEFAULT '',
	currency     TEXT NOT NULL DEFAULT '',
	grand_total  REAL NOT NULL DEFAULT 0,
	confidence   TEXT NOT NULL DEFAULT '',
	provenance   TEXT NOT NULL DEFAULT '',
	payload      BLOB NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_runs_created_at ON runs (created_at DESC);
`

// RunSummary is one row of the run listing.
type RunSummary struct {
	ID          string    `json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	ProjectName string    `json:"project_name"`
	ProjectType string    `json:"project_type"`
	Location    string    `json:"location"`
	Currency    string    `json:"currency"`
	GrandTotal  float64   `json:"grand_total"`
	Confidence  string    `json:"confidence"`
	Provenance  string    `json:"provenance"`
}

// Store reads and writes estimation runs.
type Store interface {
	SaveRun(ctx context.Context, est *model.Estimate) error
	ListRuns(ctx context.Context, limit int) ([]RunSummary, error)
	GetRun(ctx context.Context, id string) (*model.Estimate, error)
	Close() error
}

type sqliteStore struct {
	db *sql.DB
}

// Open opens (creating if needed) the run database at path.
func Open(path string) (Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, eris.Wrap(err, "store: open database")
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, eris.Wrap(err, "store: apply schema")
	}
	return &sqliteStore{db: db}, nil
}

func (s *sqliteStore) SaveRun(ctx context.Context, est *model.Estimate) error {
	payload, err := json.Marshal(est)
	if err != nil {
		return eris.Wrap(err, "store: marshal estimate")
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO runs
			(id, created_at, project_name, project_type, location, currency, grand_total, confidence, provenance, payload)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		est.ID,
		est.CreatedAt.UTC().Format(time.RFC3339),
		est.Summary.ProjectName,
		string(est.Summary.ProjectType),
		est.Summary.Location,
		est.Summary.Currency,
		est.Summary.GrandTotal,
		string(est.Summary.ConfidenceLevel),
		string(est.Summary.Provenance),
		payload,
	)
	if err != nil {
		return eris.Wrap(err, "store: insert run")
	}
	return nil
}

func (s *sqliteStore) ListRuns(ctx context.Context, limit int) ([]RunSummary, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, created_at, project_name, project_type, location, currency, grand_total, confidence, provenance
		FROM runs ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, eris.Wrap(err, "store: list runs")
	}
	defer rows.Close()

	var out []RunSummary
	for rows.Next() {
		var r RunSummary
		var createdAt string
		if err := rows.Scan(&r.ID, &createdAt, &r.ProjectName, &r.ProjectType, &r.Location, &r.Currency, &r.GrandTotal, &r.Confidence, &r.Provenance); err != nil {
			return nil, eris.Wrap(err, "store: scan run")
		}
		if ts, err := time.Parse(time.RFC3339, createdAt); err == nil {
			r.CreatedAt = ts
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "store: iterate runs")
	}
	return out, nil
}

// ErrRunNotFound indicates the requested run ID does not exist.
var ErrRunNotFound = eris.New("store: run not found")

func (s *sqliteStore) GetRun(ctx context.Context, id string) (*model.Estimate, error) {
	var payload []byte
	err := s.db.QueryRowContext(ctx, `SELECT payload FROM runs WHERE id = ?`, id).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, ErrRunNotFound
	}
	if err != nil {
		return nil, eris.Wrap(err, "store: get run")
	}

	var est model.Estimate
	if err := json.Unmarshal(payload, &est); err != nil {
		return nil, eris.Wrap(err, "store: unmarshal estimate")
	}
	return &est, nil
}

func (s *sqliteStore) Close() error {
	return s.db.Close()
}
