package repository

import (
	"context"
	"database/sql"
	"time"
)

// DefaultBatchSize is the number of rows written per multi-row INSERT.
const DefaultBatchSize = 1000

// MaxSQLVariables is SQLite's default limit of bound parameters per
// statement.
const MaxSQLVariables = 32766

// clampBatchSize keeps batchSize*columns within MaxSQLVariables. A value
// below 1 falls back to DefaultBatchSize.
func clampBatchSize(batchSize, columns int) int {
	if batchSize < 1 {
		batchSize = DefaultBatchSize
	}
	if limit := MaxSQLVariables / columns; batchSize > limit {
		batchSize = limit
	}
	return batchSize
}

// DBTX is satisfied by both *sql.DB and *sql.Tx, so repositories can run
// inside or outside a transaction.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

func toMillis(t time.Time) int64 {
	return t.UnixMilli()
}

func fromMillis(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}

func nullMillis(t *time.Time) sql.NullInt64 {
	if t == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: t.UnixMilli(), Valid: true}
}

func timePtr(ms sql.NullInt64) *time.Time {
	if !ms.Valid {
		return nil
	}
	t := fromMillis(ms.Int64)
	return &t
}

// placeholders returns "(?, ?, ?), (?, ?, ?)" for rows rows of cols columns.
func placeholders(rows, cols int) string {
	row := make([]byte, 0, cols*3+1)
	row = append(row, '(')
	for i := 0; i < cols; i++ {
		if i > 0 {
			row = append(row, ", "...)
		}
		row = append(row, '?')
	}
	row = append(row, ')')

	out := make([]byte, 0, rows*(len(row)+2))
	for i := 0; i < rows; i++ {
		if i > 0 {
			out = append(out, ", "...)
		}
		out = append(out, row...)
	}
	return string(out)
}
