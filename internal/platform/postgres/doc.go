// Package postgres implements the internal/store interfaces on PostgreSQL.
// Each store takes a store.DBTX, so the same implementation serves both
// pooled reads and the row-locked grading transaction. Schema lives in the
// top-level migrations directory.
package postgres
