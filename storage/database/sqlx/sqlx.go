package sqlxrepos

import (
	"database/sql"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/trezcool/watas/core"
)

const uniqueViolation = "23505"

// trapNoRowsErr maps sql.ErrNoRows to notFoundErr and wraps everything else.
// A closed pool cannot recover, so it becomes a shutdown error.
func trapNoRowsErr(err, notFoundErr error, msg string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, sql.ErrNoRows):
		return notFoundErr
	case errors.Is(err, sql.ErrConnDone):
		return core.NewShutdownError(msg + ": " + err.Error())
	}
	return errors.Wrap(err, msg)
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}

// checkAffected returns notFoundErr when no row was touched.
func checkAffected(res sql.Result, notFoundErr error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "reading affected rows")
	}
	if n == 0 {
		return notFoundErr
	}
	return nil
}

// validID rejects ids Postgres would refuse to cast to uuid, so they read as "not found".
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func newID() string { return uuid.NewString() }
