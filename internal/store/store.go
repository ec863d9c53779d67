// Package store persists comparison run history.
package store

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/claimsight/compare-cli/internal/model"
)

// ErrRunNotFound is returned when a run id does not exist.
var ErrRunNotFound = eris.New("store: run not found")

// Store defines persistence operations for comparison run history.
type Store interface {
	Migrate(ctx context.Context) error
	SaveRun(ctx context.Context, run *model.RunSummary) error
	GetRun(ctx context.Context, id string) (*model.RunSummary, error)
	ListRuns(ctx context.Context, limit int) ([]model.RunSummary, error)
	Close() error
}
