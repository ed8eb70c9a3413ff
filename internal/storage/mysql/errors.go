package mysql

import (
	"database/sql"
	"errors"

	drv "github.com/go-sql-driver/mysql"

	"hotel_saas/internal/domain"
)

// MySQL server error numbers surfaced as constraint violations.
const (
	erDupEntry           = 1062
	erRowIsReferenced    = 1451
	erNoReferencedRow    = 1452
	erRowIsReferenced2   = 1217
	erNoReferencedRowAlt = 1216
)

// classify maps a raw driver error onto the domain error taxonomy. Errors that
// already belong to it pass through unchanged.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrNotFound
	}
	if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrValidation) || errors.Is(err, domain.ErrConstraint) {
		return err
	}
	var se *domain.StoreError
	if errors.As(err, &se) {
		return err
	}
	var me *drv.MySQLError
	if errors.As(err, &me) {
		switch me.Number {
		case erDupEntry:
			return &domain.ConstraintError{Constraint: "unique", Err: err}
		case erRowIsReferenced, erNoReferencedRow, erRowIsReferenced2, erNoReferencedRowAlt:
			return &domain.ConstraintError{Constraint: "foreign_key", Err: err}
		}
	}
	return &domain.StoreError{Op: op, Err: err}
}
