package database

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// RejectedError é uma recusa do banco (constraint, FK, regra de estoque, exceção de função).
// Message traz o texto do PostgreSQL sem alterações.
type RejectedError struct {
	Code    string
	Message string
	err     error
}

func (e *RejectedError) Error() string {
	return e.Message
}

func (e *RejectedError) Unwrap() error {
	return e.err
}

// Classify converte *pgconn.PgError em *RejectedError. Outros erros passam sem alteração.
func Classify(err error) error {
	if err == nil {
		return nil
	}

	var rejected *RejectedError
	if errors.As(err, &rejected) {
		return err
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return &RejectedError{Code: pgErr.Code, Message: pgErr.Message, err: err}
	}
	return err
}

// AsRejected reports whether err carries a database rejection and returns it.
func AsRejected(err error) (*RejectedError, bool) {
	var rejected *RejectedError
	if errors.As(err, &rejected) {
		return rejected, true
	}
	return nil, false
}
