package storage

import (
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"

	"recruit-api/internal/common"
)

// SQLSTATE codes the store reacts to.
const (
	stateUniqueViolation      = "23505"
	stateForeignKeyViolation  = "23503"
	stateSerializationFailure = "40001"
	stateDeadlockDetected     = "40P01"
)

// sqlState extracts the SQLSTATE from either driver's error type.
func sqlState(err error) string {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// classify converts a driver error into a coded error. what names the
// missing record for sql.ErrNoRows.
func classify(err error, what string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return common.NewError(common.CodeNotFound, what+" not found", err)
	}
	switch sqlState(err) {
	case stateUniqueViolation:
		return common.NewError(common.CodeConflict, what+" already exists", err)
	case stateForeignKeyViolation:
		return common.NewError(common.CodeNotFound, "referenced record not found", err)
	case stateSerializationFailure, stateDeadlockDetected:
		return common.NewError(common.CodeConflict, "concurrent update, please retry", err)
	}
	return common.NewError(common.CodeInternal, what+": database error", err)
}
