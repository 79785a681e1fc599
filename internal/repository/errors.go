package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrOrderNotFound    = errors.New("order not found")
	ErrCartItemNotFound = errors.New("cart item not found")
	ErrProductNotFound  = errors.New("product not found")
	ErrImageNotFound    = errors.New("image not found")
	ErrCategoryNotFound = errors.New("category not found")
	ErrUserNotFound     = errors.New("user not found")
	ErrAddressNotFound  = errors.New("address not found")

	ErrDuplicate = errors.New("duplicate record")

	// ErrStatusConflict signals a conditional status write that found the
	// order in a disallowed state.
	ErrStatusConflict = errors.New("status conflict")
)

const uniqueViolationCode = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}
