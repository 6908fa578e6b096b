// Package store implements the device-local record store: one keyed table
// per entity type with point lookup, filtered scan, bulk writes and the
// unsynced-discovery queries the sync driver depends on.
package store

import (
	"context"
	"errors"

	"github.com/Clar17y/Football-Events-sub005/internal/client/models"
)

var (
	// ErrNotFound is returned when no record exists for the requested id.
	ErrNotFound = errors.New("record not found")
	// ErrUnknownEntity is returned for entity types outside the registry.
	ErrUnknownEntity = errors.New("unknown entity type")
)

// Store describes per-entity-type keyed persistence. Implementations are
// backed by a local SQLite database.
type Store interface {
	// Get returns the record with the given id, or ErrNotFound.
	Get(ctx context.Context, entity models.EntityType, id string) (*models.Record, error)

	// Put upserts a record by id.
	Put(ctx context.Context, entity models.EntityType, rec models.Record) error

	// BulkPut upserts records in a single transaction. A failure on any
	// record aborts and reports the whole batch; there are no silent
	// per-record drops.
	BulkPut(ctx context.Context, entity models.EntityType, recs []models.Record) error

	// Delete removes the record with the given id, if present.
	Delete(ctx context.Context, entity models.EntityType, id string) error

	// BulkDelete removes all listed ids in a single transaction.
	BulkDelete(ctx context.Context, entity models.EntityType, ids []string) error

	// All returns every record in the entity's table.
	All(ctx context.Context, entity models.EntityType) ([]models.Record, error)

	// Filter returns every record matching the predicate.
	Filter(ctx context.Context, entity models.EntityType, keep func(models.Record) bool) ([]models.Record, error)

	// GetUnsynced returns the complete set of records with synced=false.
	GetUnsynced(ctx context.Context, entity models.EntityType) ([]models.Record, error)

	// MarkSynced flips a record to synced with a fresh sync timestamp,
	// preserving every other field. Idempotent; returns ErrNotFound for a
	// missing id.
	MarkSynced(ctx context.Context, entity models.EntityType, id string) error

	// Close releases the underlying database handle.
	Close() error
}
