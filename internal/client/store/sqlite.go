package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/pressly/goose/v3"

	"github.com/Clar17y/Football-Events-sub005/internal/client/migrations"
	"github.com/Clar17y/Football-Events-sub005/internal/client/models"
	"github.com/Clar17y/Football-Events-sub005/internal/dbx"
)

const recordColumns = `id, payload, created_at, updated_at, created_by_user_id,
	is_deleted, deleted_at, deleted_by_user_id, synced, synced_at`

// SQLiteStore implements Store on a local SQLite database.
type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time
}

// RunMigrations applies the embedded goose migrations.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		log.Fatal("failed to set goose dialect:", err)
	}

	return goose.UpContext(ctx, db, ".")
}

// Open opens (creating if needed) the cache database at dsn, applies
// migrations and returns the store.
func Open(ctx context.Context, dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open cache db: %w", err)
	}
	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate cache db: %w", err)
	}
	return NewSQLiteStore(db), nil
}

// NewSQLiteStore wraps an already-open (and migrated) database handle.
func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db, now: time.Now}
}

// DB exposes the underlying handle for collaborators sharing the database
// file (e.g. the session metadata table).
func (s *SQLiteStore) DB() *sql.DB { return s.db }

func (s *SQLiteStore) Close() error { return s.db.Close() }

func tableFor(entity models.EntityType) (string, error) {
	if !entity.Known() {
		return "", fmt.Errorf("%w: %q", ErrUnknownEntity, entity)
	}
	return entity.Table(), nil
}

func scanRecord(row interface{ Scan(...any) error }) (models.Record, error) {
	var rec models.Record
	var payload string
	var isDeleted, synced int
	err := row.Scan(&rec.ID, &payload, &rec.CreatedAt, &rec.UpdatedAt,
		&rec.CreatedByUserID, &isDeleted, &rec.DeletedAt, &rec.DeletedByUserID,
		&synced, &rec.SyncedAt)
	if err != nil {
		return models.Record{}, err
	}
	rec.Payload = []byte(payload)
	rec.IsDeleted = isDeleted != 0
	rec.Synced = synced != 0
	return rec, nil
}

func (s *SQLiteStore) Get(ctx context.Context, entity models.EntityType, id string) (*models.Record, error) {
	table, err := tableFor(entity)
	if err != nil {
		return nil, err
	}
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id=?`, recordColumns, table)
	rec, err := scanRecord(s.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get %s %s: %w", entity, id, err)
	}
	return &rec, nil
}

func putRecord(ctx context.Context, db dbx.DBTX, table string, rec models.Record) error {
	query := fmt.Sprintf(`INSERT INTO %s (%s)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			payload = excluded.payload,
			created_at = excluded.created_at,
			updated_at = excluded.updated_at,
			created_by_user_id = excluded.created_by_user_id,
			is_deleted = excluded.is_deleted,
			deleted_at = excluded.deleted_at,
			deleted_by_user_id = excluded.deleted_by_user_id,
			synced = excluded.synced,
			synced_at = excluded.synced_at
	`, table, recordColumns)
	_, err := db.ExecContext(ctx, query,
		rec.ID, string(rec.Payload), rec.CreatedAt, rec.UpdatedAt,
		rec.CreatedByUserID, boolToInt(rec.IsDeleted), rec.DeletedAt,
		rec.DeletedByUserID, boolToInt(rec.Synced), rec.SyncedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert record %s: %w", rec.ID, err)
	}
	return nil
}

func (s *SQLiteStore) Put(ctx context.Context, entity models.EntityType, rec models.Record) error {
	table, err := tableFor(entity)
	if err != nil {
		return err
	}
	if rec.ID == "" {
		return models.ErrMissingID
	}
	return putRecord(ctx, s.db, table, rec)
}

func (s *SQLiteStore) BulkPut(ctx context.Context, entity models.EntityType, recs []models.Record) error {
	table, err := tableFor(entity)
	if err != nil {
		return err
	}
	if len(recs) == 0 {
		return nil
	}
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		for _, rec := range recs {
			if rec.ID == "" {
				return models.ErrMissingID
			}
			if err := putRecord(ctx, tx, table, rec); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *SQLiteStore) Delete(ctx context.Context, entity models.EntityType, id string) error {
	table, err := tableFor(entity)
	if err != nil {
		return err
	}
	query := fmt.Sprintf(`DELETE FROM %s WHERE id=?`, table)
	if _, err := s.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("failed to delete record %s: %w", id, err)
	}
	return nil
}

func (s *SQLiteStore) BulkDelete(ctx context.Context, entity models.EntityType, ids []string) error {
	table, err := tableFor(entity)
	if err != nil {
		return err
	}
	if len(ids) == 0 {
		return nil
	}
	query := fmt.Sprintf(`DELETE FROM %s WHERE id=?`, table)
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		for _, id := range ids {
			if _, err := tx.ExecContext(ctx, query, id); err != nil {
				return fmt.Errorf("failed to delete record %s: %w", id, err)
			}
		}
		return nil
	})
}

func (s *SQLiteStore) selectRecords(ctx context.Context, entity models.EntityType, where string, args ...any) ([]models.Record, error) {
	table, err := tableFor(entity)
	if err != nil {
		return nil, err
	}
	query := fmt.Sprintf(`SELECT %s FROM %s %s`, recordColumns, table, where)
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select %s records: %w", entity, err)
	}
	defer rows.Close()

	var result []models.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (s *SQLiteStore) All(ctx context.Context, entity models.EntityType) ([]models.Record, error) {
	return s.selectRecords(ctx, entity, "")
}

// Filter scans the full table and applies keep in memory. Tables hold at
// most a few thousand rows, so an unindexed predicate is fine here.
func (s *SQLiteStore) Filter(ctx context.Context, entity models.EntityType, keep func(models.Record) bool) ([]models.Record, error) {
	recs, err := s.All(ctx, entity)
	if err != nil {
		return nil, err
	}
	var result []models.Record
	for _, rec := range recs {
		if keep(rec) {
			result = append(result, rec)
		}
	}
	return result, nil
}

func (s *SQLiteStore) GetUnsynced(ctx context.Context, entity models.EntityType) ([]models.Record, error) {
	return s.selectRecords(ctx, entity, "WHERE synced=0")
}

func (s *SQLiteStore) MarkSynced(ctx context.Context, entity models.EntityType, id string) error {
	table, err := tableFor(entity)
	if err != nil {
		return err
	}
	query := fmt.Sprintf(`UPDATE %s SET synced=1, synced_at=? WHERE id=?`, table)
	res, err := s.db.ExecContext(ctx, query, models.FormatTime(s.now()), id)
	if err != nil {
		return fmt.Errorf("failed to mark %s %s synced: %w", entity, id, err)
	}
	ra, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if ra == 0 {
		return ErrNotFound
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

var _ Store = (*SQLiteStore)(nil)
