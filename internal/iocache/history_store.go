package iocache

import (
	"database/sql"
	"errors"
	"fmt"
	"io"

	"github.com/huangsam/storecast/internal/contract"
	"github.com/huangsam/storecast/schema"
)

// submissionsTable holds one row per form submission.
const submissionsTable = "storecast_submissions"

// HistoryStoreImpl implements the HistoryStore interface.
type HistoryStoreImpl struct {
	db      *sql.DB
	backend schema.DatabaseBackend
}

var _ contract.HistoryStore = &HistoryStoreImpl{} // Compile-time check

// NewHistoryStore creates a new HistoryStore with the specified backend.
// The schema is migrated to the latest version before the store is returned.
func NewHistoryStore(backend schema.DatabaseBackend, connStr string) (contract.HistoryStore, error) {
	switch backend {
	case schema.NoneBackend:
		// Return a no-op store for disabled tracking
		return &HistoryStoreImpl{backend: backend}, nil
	case schema.SQLiteBackend:
		if connStr == ":memory:" {
			return nil, errors.New("in-memory SQLite is not supported for history storage")
		}
	case schema.MySQLBackend, schema.PostgreSQLBackend:
	default:
		return nil, fmt.Errorf("unsupported backend: %s", backend)
	}

	if err := MigrateHistory(backend, connStr, -1, io.Discard); err != nil {
		return nil, fmt.Errorf("failed to prepare history tables: %w", err)
	}

	db, err := openDB(backend, connStr, GetHistoryDBFilePath())
	if err != nil {
		return nil, err
	}
	return &HistoryStoreImpl{db: db, backend: backend}, nil
}

// RecordSubmission stores one completed submission and returns its ID.
func (hs *HistoryStoreImpl) RecordSubmission(sub schema.Submission) (int64, error) {
	// Skip for NoneBackend
	if hs.backend == schema.NoneBackend || hs.db == nil {
		return 0, nil
	}

	var reason any
	if sub.Reason != "" {
		reason = sub.Reason
	}
	args := []any{
		string(sub.Form), sub.RequestKey, string(sub.Status), reason,
		sub.Duration.Milliseconds(), sub.Cached, formatTime(sub.CreatedAt, hs.backend),
	}

	quotedTableName := quoteTableName(submissionsTable, hs.backend)
	columns := "form, request_key, status, reason, duration_ms, cached, created_at"

	var id int64
	switch hs.backend {
	case schema.PostgreSQLBackend:
		query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING submission_id`, quotedTableName, columns)
		if err := hs.db.QueryRow(query, args...).Scan(&id); err != nil {
			return 0, fmt.Errorf("failed to insert submission: %w", err)
		}
	default: // SQLite and MySQL
		query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES (?, ?, ?, ?, ?, ?, ?)`, quotedTableName, columns)
		result, err := hs.db.Exec(query, args...)
		if err != nil {
			return 0, fmt.Errorf("failed to insert submission: %w", err)
		}
		if id, err = result.LastInsertId(); err != nil {
			return 0, fmt.Errorf("failed to read submission id: %w", err)
		}
	}
	return id, nil
}

// ListSubmissions returns the most recent submissions, newest first.
// A limit of 0 or less returns every submission.
func (hs *HistoryStoreImpl) ListSubmissions(limit int) ([]schema.SubmissionRecord, error) {
	// Skip for NoneBackend
	if hs.backend == schema.NoneBackend || hs.db == nil {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT submission_id, form, request_key, status, reason, duration_ms, cached, created_at
		FROM %s ORDER BY submission_id DESC`, quoteTableName(submissionsTable, hs.backend))
	var args []any
	if limit > 0 {
		query += " LIMIT " + placeholder(hs.backend, 1)
		args = append(args, limit)
	}

	rows, err := hs.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query submissions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.SubmissionRecord
	for rows.Next() {
		var record schema.SubmissionRecord
		var form string
		var reason sql.NullString
		var createdAt timeScanner
		if err := rows.Scan(&record.SubmissionID, &form, &record.RequestKey, &record.Status, &reason,
			&record.DurationMs, &record.Cached, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan submission: %w", err)
		}
		record.Form = schema.FormKind(form)
		if reason.Valid {
			record.Reason = &reason.String
		}
		record.CreatedAt = createdAt.Time
		results = append(results, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating submissions: %w", err)
	}
	return results, nil
}

// Close closes the underlying connection.
func (hs *HistoryStoreImpl) Close() error {
	if hs.db != nil {
		return hs.db.Close()
	}
	return nil
}

// GetStatus returns status information about the history store.
func (hs *HistoryStoreImpl) GetStatus() (schema.HistoryStatus, error) {
	status := schema.HistoryStatus{
		Backend:    string(hs.backend),
		Connected:  hs.db != nil,
		ByForm:     make(map[schema.FormKind]int),
		TableSizes: make(map[string]int64),
	}
	if hs.backend == schema.NoneBackend || hs.db == nil {
		return status, nil
	}

	quotedTableName := quoteTableName(submissionsTable, hs.backend)

	row := hs.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", quotedTableName))
	if err := row.Scan(&status.TotalSubmissions); err != nil {
		return status, fmt.Errorf("failed to get total submissions: %w", err)
	}
	status.TableSizes[submissionsTable] = int64(status.TotalSubmissions)
	if status.TotalSubmissions == 0 {
		return status, nil
	}

	failedQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE status = %s", quotedTableName, placeholder(hs.backend, 1))
	if err := hs.db.QueryRow(failedQuery, string(schema.SubmissionFailed)).Scan(&status.FailedSubmissions); err != nil {
		return status, fmt.Errorf("failed to get failed submissions: %w", err)
	}

	var last, oldest timeScanner
	lastQuery := fmt.Sprintf("SELECT submission_id, created_at FROM %s ORDER BY submission_id DESC LIMIT 1", quotedTableName)
	if err := hs.db.QueryRow(lastQuery).Scan(&status.LastSubmissionID, &last); err != nil {
		return status, fmt.Errorf("failed to get last submission: %w", err)
	}
	status.LastSubmission = last.Time

	oldestQuery := fmt.Sprintf("SELECT created_at FROM %s ORDER BY submission_id ASC LIMIT 1", quotedTableName)
	if err := hs.db.QueryRow(oldestQuery).Scan(&oldest); err != nil {
		return status, fmt.Errorf("failed to get oldest submission: %w", err)
	}
	status.OldestSubmission = oldest.Time

	rows, err := hs.db.Query(fmt.Sprintf("SELECT form, COUNT(*) FROM %s GROUP BY form", quotedTableName))
	if err != nil {
		return status, fmt.Errorf("failed to count submissions by form: %w", err)
	}
	defer func() { _ = rows.Close() }()
	for rows.Next() {
		var form string
		var count int
		if err := rows.Scan(&form, &count); err != nil {
			return status, fmt.Errorf("failed to scan form count: %w", err)
		}
		status.ByForm[schema.FormKind(form)] = count
	}
	if err := rows.Err(); err != nil {
		return status, fmt.Errorf("error iterating form counts: %w", err)
	}

	return status, nil
}
