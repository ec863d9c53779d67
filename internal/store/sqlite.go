package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/claimsight/compare-cli/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS runs (
	id              TEXT PRIMARY KEY,
	test_path       TEXT NOT NULL,
	gold_path       TEXT NOT NULL,
	threshold       REAL NOT NULL,
	row_pairs       INTEGER NOT NULL,
	anomalies       INTEGER NOT NULL,
	overall_valid   INTEGER NOT NULL,
	overall_total   INTEGER NOT NULL,
	overall_percent REAL,
	accuracy        TEXT NOT NULL,
	created_at      DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_runs_created_at ON runs(created_at);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// SaveRun inserts a run summary, assigning an id and timestamp when unset.
func (s *SQLiteStore) SaveRun(ctx context.Context, run *model.RunSummary) error {
	if run.ID == "" {
		run.ID = uuid.New().String()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}

	accuracyJSON, err := json.Marshal(run.Accuracy)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal accuracy")
	}

	var percent any
	if run.Overall.Defined {
		percent = run.Overall.Percent
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO runs
			(id, test_path, gold_path, threshold, row_pairs, anomalies,
			 overall_valid, overall_total, overall_percent, accuracy, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.TestPath, run.GoldPath, run.Threshold, run.RowPairs,
		run.Anomalies, run.Overall.Valid, run.Overall.Total, percent,
		string(accuracyJSON), run.CreatedAt,
	)
	return eris.Wrap(err, "sqlite: insert run")
}

func (s *SQLiteStore) GetRun(ctx context.Context, id string) (*model.RunSummary, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, test_path, gold_path, threshold, row_pairs, anomalies,
		        overall_valid, overall_total, overall_percent, accuracy, created_at
		 FROM runs WHERE id = ?`, id,
	)
	run, err := scanRun(row)
	if err != nil {
		if eris.Is(err, sql.ErrNoRows) {
			return nil, eris.Wrapf(ErrRunNotFound, "id %s", id)
		}
		return nil, eris.Wrapf(err, "sqlite: get run %s", id)
	}
	return run, nil
}

func (s *SQLiteStore) ListRuns(ctx context.Context, limit int) ([]model.RunSummary, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, test_path, gold_path, threshold, row_pairs, anomalies,
		        overall_valid, overall_total, overall_percent, accuracy, created_at
		 FROM runs ORDER BY created_at DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list runs")
	}
	defer rows.Close()

	var runs []model.RunSummary
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, eris.Wrap(err, "sqlite: scan run")
		}
		runs = append(runs, *run)
	}
	return runs, eris.Wrap(rows.Err(), "sqlite: iterate runs")
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(sc scanner) (*model.RunSummary, error) {
	var (
		run          model.RunSummary
		percent      sql.NullFloat64
		accuracyJSON string
	)
	err := sc.Scan(
		&run.ID, &run.TestPath, &run.GoldPath, &run.Threshold, &run.RowPairs,
		&run.Anomalies, &run.Overall.Valid, &run.Overall.Total, &percent,
		&accuracyJSON, &run.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	run.Overall.Field = "overall"
	if percent.Valid {
		run.Overall.Defined = true
		run.Overall.Percent = percent.Float64
	}
	if err := json.Unmarshal([]byte(accuracyJSON), &run.Accuracy); err != nil {
		return nil, eris.Wrap(err, "unmarshal accuracy")
	}
	return &run, nil
}
