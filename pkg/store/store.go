// Package store persists finished-match replays.
//
// Four backends implement the same [Store] interface:
//   - memory: in-process map, for tests and single-run tools
//   - file: one JSON document per replay under a directory, for the CLI
//   - redis: keyed JSON values plus a time-ordered index, for services
//   - mongo: a replays collection, for services that want queryability
//
// Records are identified by UUIDs; Save assigns one when the caller left
// the ID empty.
package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/samithreddychinni/greedytangle/pkg/replay"
)

// Record is a stored replay with its match metadata.
type Record struct {
	ID         string        `json:"id" bson:"_id"`
	Strategy   string        `json:"strategy" bson:"strategy"`
	Difficulty string        `json:"difficulty,omitempty" bson:"difficulty,omitempty"`
	Winner     string        `json:"winner,omitempty" bson:"winner,omitempty"`
	CreatedAt  time.Time     `json:"created_at" bson:"created_at"`
	Replay     replay.Export `json:"replay" bson:"replay"`
}

// Store is the interface replay backends implement.
type Store interface {
	// Save persists the record, assigning a UUID and creation time when
	// they are unset.
	Save(ctx context.Context, rec *Record) error

	// Get retrieves a record by ID. A missing record yields an error with
	// code ErrCodeReplayNotFound.
	Get(ctx context.Context, id string) (*Record, error)

	// List returns up to limit records, newest first. limit <= 0 means all.
	List(ctx context.Context, limit int) ([]Record, error)

	// Delete removes a record. Deleting a missing record is not an error.
	Delete(ctx context.Context, id string) error

	// Close releases backend resources.
	Close(ctx context.Context) error
}

// stamp fills in ID and CreatedAt for records the caller left blank.
func stamp(rec *Record) {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
}
