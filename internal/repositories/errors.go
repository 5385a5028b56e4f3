package repositories

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// ErrNotFound is returned when a row does not exist or belongs to another seller
var ErrNotFound = errors.New("not found")

// ErrOperationReused is returned when a payment operation id was already spent on another order
var ErrOperationReused = errors.New("operation id was already used for a different order")

const pgForeignKeyViolation = "23503"

func notFound(err error, what string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s %w", what, ErrNotFound)
	}
	return err
}

func checkAffected(tag pgconn.CommandTag, what string) error {
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s %w", what, ErrNotFound)
	}
	return nil
}

// IsForeignKeyViolation reports whether err is a referential-integrity rejection.
// The raw PostgreSQL message is kept for the caller to show.
func IsForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation
}
