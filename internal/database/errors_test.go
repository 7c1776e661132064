package database

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify_PgError(t *testing.T) {
	pgErr := &pgconn.PgError{
		Code:    "23503",
		Message: `update or delete on table "product" violates foreign key constraint`,
	}

	err := Classify(fmt.Errorf("failed to delete product: %w", pgErr))

	rejected, ok := AsRejected(err)
	require.True(t, ok)
	assert.Equal(t, "23503", rejected.Code)
	assert.Equal(t, pgErr.Message, rejected.Error())

	var unwrapped *pgconn.PgError
	require.True(t, errors.As(err, &unwrapped))
	assert.Same(t, pgErr, unwrapped)
}

func TestClassify_PassThrough(t *testing.T) {
	plain := errors.New("connection refused")

	assert.Nil(t, Classify(nil))
	assert.Same(t, plain, Classify(plain))

	_, ok := AsRejected(plain)
	assert.False(t, ok)
}

func TestClassify_AlreadyRejected(t *testing.T) {
	rejected := &RejectedError{Code: "P0001", Message: "Insufficient stock for product 7"}

	err := Classify(rejected)

	assert.Same(t, rejected, err)
}
