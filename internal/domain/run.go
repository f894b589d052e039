package domain

import (
	"context"
	"time"
)

//go:generate mockgen -source=run.go -destination=mock_run_store.go -package=domain

// RunStatus is the lifecycle state of a background run.
type RunStatus string

// Run states.
const (
	RunRunning   RunStatus = "running"
	RunCompleted RunStatus = "completed"
	RunCancelled RunStatus = "cancelled"
)

// IsFinal reports whether the run can no longer change.
func (s RunStatus) IsFinal() bool {
	return s == RunCompleted || s == RunCancelled
}

// Progress reports how many of the planned lookups have started.
type Progress struct {
	Current int `json:"current"`
	Total   int `json:"total"`
}

// Run is the persisted state of one batch run.
type Run struct {
	ID         string                `json:"id"`
	Status     RunStatus             `json:"status"`
	Request    FlexibleSearchRequest `json:"request"`
	Estimate   Estimate              `json:"estimate"`
	Progress   Progress              `json:"progress"`
	Items      []BatchItem           `json:"items,omitempty"`
	Aggregate  *Aggregate            `json:"aggregate,omitempty"`
	CreatedAt  time.Time             `json:"createdAt"`
	UpdatedAt  time.Time             `json:"updatedAt"`
	FinishedAt *time.Time            `json:"finishedAt,omitempty"`
}

// RunStore persists runs by ID.
type RunStore interface {
	// Save inserts or replaces the run.
	Save(ctx context.Context, run *Run) error

	// Get returns the run or an error wrapping ErrRunNotFound.
	Get(ctx context.Context, id string) (*Run, error)
}
