package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"loyalty_club_backend/internal/models"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq" // For pq.Error
)

// SQLRecordStore keeps records in the storage_records table. It works on any
// sqlx connection whose driver supports INSERT ... ON CONFLICT (PostgreSQL, SQLite).
type SQLRecordStore struct {
	db *sqlx.DB
}

// NewSQLRecordStore wraps an open, migrated connection.
func NewSQLRecordStore(db *sqlx.DB) *SQLRecordStore {
	return &SQLRecordStore{db: db}
}

func (s *SQLRecordStore) Get(ctx context.Context, key string) ([]byte, error) {
	var value string
	query := s.db.Rebind(`SELECT record_value FROM storage_records WHERE record_key = ?`)
	if err := s.db.GetContext(ctx, &value, query, key); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRecordNotFound
		}
		return nil, fmt.Errorf("%w: reading record %q: %v", ErrDatabaseError, key, err)
	}
	return []byte(value), nil
}

func (s *SQLRecordStore) Put(ctx context.Context, key string, value []byte) error {
	query := `INSERT INTO storage_records (record_key, record_value, updated_at)
	          VALUES (:record_key, :record_value, :updated_at)
	          ON CONFLICT (record_key) DO UPDATE SET record_value = excluded.record_value, updated_at = excluded.updated_at`

	rec := models.StoredRecord{Key: key, Value: string(value), UpdatedAt: time.Now().UTC()}
	_, err := s.db.NamedExecContext(ctx, query, rec)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) {
			return fmt.Errorf("%w: writing record %q: %s (code: %s)", ErrDatabaseError, key, pqErr.Message, pqErr.Code)
		}
		return fmt.Errorf("%w: writing record %q: %v", ErrDatabaseError, key, err)
	}
	return nil
}

func (s *SQLRecordStore) Close() error {
	return s.db.Close()
}
