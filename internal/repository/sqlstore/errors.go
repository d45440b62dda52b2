package sqlstore

import (
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"

	"github.com/jwalitptl/hospital-admin/internal/schema"
	apperrors "github.com/jwalitptl/hospital-admin/pkg/errors"
)

type violation int

const (
	noViolation violation = iota
	uniqueViolation
	foreignKeyViolation
)

func classify(err error) violation {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case "23505":
			return uniqueViolation
		case "23503":
			return foreignKeyViolation
		}
		return noViolation
	}

	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		switch myErr.Number {
		case 1062:
			return uniqueViolation
		case 1451, 1452:
			return foreignKeyViolation
		}
		return noViolation
	}

	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		switch liteErr.ExtendedCode {
		case sqlite3.ErrConstraintPrimaryKey, sqlite3.ErrConstraintUnique:
			return uniqueViolation
		case sqlite3.ErrConstraintForeignKey:
			return foreignKeyViolation
		}
	}
	return noViolation
}

var verbs = map[string]string{
	opList:   "loading",
	opSearch: "searching",
	opExists: "checking",
	opCreate: "adding",
	opUpdate: "updating",
	opDelete: "deleting",
}

// storeError turns a driver error into the AppError the panels report.
// The driver text is kept as the wrapped cause.
func storeError(e *schema.Entity, op string, err error) error {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return err
	}

	switch classify(err) {
	case uniqueViolation:
		return apperrors.Duplicate(e.Key().Field().Label, err)
	case foreignKeyViolation:
		return apperrors.Constraint(fmt.Sprintf("error %s %s", verbs[op], e.Noun), err)
	}
	return apperrors.Store(fmt.Sprintf("error %s %s", verbs[op], e.Noun), err)
}
