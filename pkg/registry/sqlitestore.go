package registry

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/predictia/predictia-go/pkg/models"
)

// SQLiteStore provides SQLite-based persistence for model records.
// Each record is stored as a JSON document alongside the columns the
// store queries on.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite-based registry instance
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	// Open database with connection pooling parameters
	// Format: file:path?param=value
	dsn := fmt.Sprintf("file:%s?_busy_timeout=10000&_journal_mode=WAL&_synchronous=NORMAL", dbPath)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite serializes writes anyway, keep the pool small
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	store := &SQLiteStore{db: db}

	if err := store.initSchema(); err != nil {
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// retryOnBusy retries a database operation if it fails due to SQLITE_BUSY.
// This provides an additional safety net on top of the busy_timeout pragma.
func (s *SQLiteStore) retryOnBusy(operation func() error, maxRetries int) error {
	var err error
	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if err.Error() == "database is locked (5) (SQLITE_BUSY)" {
			// Exponential backoff: 10ms, 20ms, 40ms, 80ms, 160ms
			backoff := time.Duration(10*(1<<uint(i))) * time.Millisecond
			time.Sleep(backoff)
			continue
		}

		return err
	}
	return fmt.Errorf("operation failed after %d retries: %w", maxRetries, err)
}

// initSchema creates the database schema if it doesn't exist
func (s *SQLiteStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS model_records (
		id TEXT PRIMARY KEY,
		status TEXT NOT NULL,
		kind TEXT,
		target_col TEXT,
		updated_at DATETIME NOT NULL,
		data TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_model_records_status ON model_records(status);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Get retrieves a model record by ID
func (s *SQLiteStore) Get(id string) (*models.ModelRecord, error) {
	var data string
	err := s.db.QueryRow("SELECT data FROM model_records WHERE id = ?", id).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s", models.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query model record: %w", err)
	}

	var record models.ModelRecord
	if err := json.Unmarshal([]byte(data), &record); err != nil {
		return nil, fmt.Errorf("failed to unmarshal model record: %w", err)
	}

	return &record, nil
}

// Upsert creates or replaces a model record
func (s *SQLiteStore) Upsert(record *models.ModelRecord) error {
	record.Touch()

	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal model record: %w", err)
	}

	return s.retryOnBusy(func() error {
		_, err := s.db.Exec(`
			INSERT INTO model_records (id, status, kind, target_col, updated_at, data)
			VALUES (?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				status = excluded.status,
				kind = excluded.kind,
				target_col = excluded.target_col,
				updated_at = excluded.updated_at,
				data = excluded.data`,
			record.ID, string(record.Status), string(record.Kind),
			record.TargetColumn, record.UpdatedAt, data)
		return err
	}, 5)
}

// UpdateStatus transitions a record to the given status inside a single
// transaction, creating the entry if it does not exist yet. The
// read-modify-write runs as one critical section so concurrent writers
// to different identifiers cannot corrupt each other's entries.
func (s *SQLiteStore) UpdateStatus(id string, status models.ModelStatus) error {
	if !status.Valid() {
		return fmt.Errorf("invalid model status: %s", status)
	}

	return s.retryOnBusy(func() error {
		tx, err := s.db.Begin()
		if err != nil {
			return fmt.Errorf("failed to begin transaction: %w", err)
		}
		defer tx.Rollback()

		record := &models.ModelRecord{ID: id}
		var data string
		err = tx.QueryRow("SELECT data FROM model_records WHERE id = ?", id).Scan(&data)
		if err != nil && err != sql.ErrNoRows {
			return fmt.Errorf("failed to query model record: %w", err)
		}
		if err == nil {
			if err := json.Unmarshal([]byte(data), record); err != nil {
				return fmt.Errorf("failed to unmarshal model record: %w", err)
			}
		}

		if err := record.SetStatus(status); err != nil {
			return err
		}

		updated, err := json.Marshal(record)
		if err != nil {
			return fmt.Errorf("failed to marshal model record: %w", err)
		}

		_, err = tx.Exec(`
			INSERT INTO model_records (id, status, kind, target_col, updated_at, data)
			VALUES (?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				status = excluded.status,
				kind = excluded.kind,
				target_col = excluded.target_col,
				updated_at = excluded.updated_at,
				data = excluded.data`,
			record.ID, string(record.Status), string(record.Kind),
			record.TargetColumn, record.UpdatedAt, updated)
		if err != nil {
			return fmt.Errorf("failed to write model record: %w", err)
		}

		return tx.Commit()
	}, 5)
}

// Delete removes a model record. Deleting an absent identifier reports
// ErrNotFound rather than silently succeeding.
func (s *SQLiteStore) Delete(id string) error {
	return s.retryOnBusy(func() error {
		result, err := s.db.Exec("DELETE FROM model_records WHERE id = ?", id)
		if err != nil {
			return fmt.Errorf("failed to delete model record: %w", err)
		}

		affected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to check delete result: %w", err)
		}
		if affected == 0 {
			return fmt.Errorf("%w: %s", models.ErrNotFound, id)
		}

		return nil
	}, 5)
}

// List returns all model records ordered by identifier
func (s *SQLiteStore) List() ([]*models.ModelRecord, error) {
	rows, err := s.db.Query("SELECT data FROM model_records ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("failed to list model records: %w", err)
	}
	defer rows.Close()

	records := make([]*models.ModelRecord, 0)
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("failed to scan model record: %w", err)
		}

		var record models.ModelRecord
		if err := json.Unmarshal([]byte(data), &record); err != nil {
			return nil, fmt.Errorf("failed to unmarshal model record: %w", err)
		}
		records = append(records, &record)
	}

	return records, rows.Err()
}
