package sqlxrepos

import (
	"database/sql"
	"errors"
	"testing"

	"github.com/lib/pq"
	pkgerrors "github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	"github.com/trezcool/watas/core"
)

var errTestNotFound = errors.New("thing not found")

func TestTrapNoRowsErr(t *testing.T) {
	assert.Nil(t, trapNoRowsErr(nil, errTestNotFound, "getting thing"))
	assert.Equal(t, errTestNotFound, trapNoRowsErr(sql.ErrNoRows, errTestNotFound, "getting thing"))
	assert.Equal(t, errTestNotFound, trapNoRowsErr(pkgerrors.Wrap(sql.ErrNoRows, "scan"), errTestNotFound, "getting thing"))

	err := trapNoRowsErr(sql.ErrTxDone, errTestNotFound, "getting thing")
	assert.EqualError(t, err, "getting thing: "+sql.ErrTxDone.Error())
	assert.Equal(t, sql.ErrTxDone, pkgerrors.Cause(err))

	err = trapNoRowsErr(pkgerrors.Wrap(sql.ErrConnDone, "query"), errTestNotFound, "getting thing")
	assert.True(t, core.IsShutdown(err))
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, isUniqueViolation(&pq.Error{Code: "23505"}))
	assert.True(t, isUniqueViolation(pkgerrors.Wrap(&pq.Error{Code: "23505"}, "insert")))
	assert.False(t, isUniqueViolation(&pq.Error{Code: "23503"}))
	assert.False(t, isUniqueViolation(errors.New("23505")))
}

func TestValidID(t *testing.T) {
	assert.True(t, validID("7b0e3c52-5f0e-4c44-9d0c-1f1c6f4f0b11"))
	assert.False(t, validID("missing"))
	assert.False(t, validID(""))
}
