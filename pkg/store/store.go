// Package store persists assignment runs submitted through the HTTP API.
//
// [MemoryStore] keeps runs in process and is the default for `msaflow
// serve`. [MongoStore] persists them in MongoDB so runs survive restarts and
// are shared between replicas.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/msaflow/pkg/assign"
)

// ErrNotFound is returned when no run has the requested ID.
var ErrNotFound = errors.New("run not found")

// ErrDuplicateID is returned when saving a run whose ID is already taken.
var ErrDuplicateID = errors.New("duplicate run id")

// Run is one stored assignment.
type Run struct {
	ID          string                  `json:"id" bson:"_id"`
	Name        string                  `json:"name" bson:"name"`
	Iterations  int                     `json:"iterations" bson:"iterations"`
	CreatedAt   time.Time               `json:"created_at" bson:"created_at"`
	NetworkHash string                  `json:"network_hash" bson:"network_hash"`
	Summary     *assign.Summary         `json:"summary" bson:"summary"`
	Trace       []assign.IterationStats `json:"trace,omitempty" bson:"trace,omitempty"`

	// Rendered artifacts, served by their own endpoints.
	Report string `json:"-" bson:"report"`
	DOT    string `json:"-" bson:"dot"`
}

// RunStore saves and loads runs.
type RunStore interface {
	Save(ctx context.Context, run *Run) error
	Get(ctx context.Context, id string) (*Run, error)
	// List returns up to limit runs, newest first.
	List(ctx context.Context, limit int) ([]*Run, error)
	Close(ctx context.Context) error
}

// NewID returns a fresh random run ID.
func NewID() string {
	return uuid.NewString()
}
