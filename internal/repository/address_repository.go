package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/abdulrehan17773/am-backend/internal/domain"
	"github.com/abdulrehan17773/am-backend/internal/port"
)

type addressRepository struct {
	db DB
}

func NewAddress(pool *pgxpool.Pool) port.AddressRepository {
	return &addressRepository{db: pool}
}

const addressColumns = "id, user_id, line1, line2, city, state, postal_code, country, created_at, updated_at"

func (r *addressRepository) GetAddressByUser(ctx context.Context, userID uuid.UUID) (domain.Address, error) {
	var a domain.Address

	row := r.db.QueryRow(ctx, fmt.Sprintf(
		"SELECT %s FROM addresses WHERE user_id = $1 AND deleted_at IS NULL", addressColumns),
		userID)

	address, err := scanAddress(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return a, fmt.Errorf("scanAddress: %w", ErrAddressNotFound)
		}
		return a, fmt.Errorf("scanAddress: %w", err)
	}

	return address, nil
}

func (r *addressRepository) InsertAddress(ctx context.Context, address domain.Address) (domain.Address, error) {
	var a domain.Address

	row := r.db.QueryRow(ctx, `
		INSERT INTO addresses (user_id, line1, line2, city, state, postal_code, country)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at`,
		address.UserID, address.Line1, address.Line2, address.City,
		address.State, address.PostalCode, address.Country)

	stored := address
	if err := row.Scan(&stored.ID, &stored.CreatedAt, &stored.UpdatedAt); err != nil {
		// one active address per user
		if isUniqueViolation(err) {
			return a, fmt.Errorf("addresses insert: %w", ErrDuplicate)
		}
		return a, fmt.Errorf("addresses insert: %w", err)
	}

	return stored, nil
}

func (r *addressRepository) UpdateAddress(ctx context.Context, address domain.Address) (domain.Address, error) {
	var a domain.Address

	row := r.db.QueryRow(ctx, fmt.Sprintf(`
		UPDATE addresses
		SET line1 = $2, line2 = $3, city = $4, state = $5, postal_code = $6, country = $7, updated_at = now()
		WHERE user_id = $1 AND deleted_at IS NULL
		RETURNING %s`, addressColumns),
		address.UserID, address.Line1, address.Line2, address.City,
		address.State, address.PostalCode, address.Country)

	stored, err := scanAddress(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return a, fmt.Errorf("addresses update: %w", ErrAddressNotFound)
		}
		return a, fmt.Errorf("addresses update: %w", err)
	}

	return stored, nil
}

func scanAddress(row pgx.Row) (domain.Address, error) {
	var a domain.Address

	err := row.Scan(
		&a.ID, &a.UserID, &a.Line1, &a.Line2, &a.City, &a.State,
		&a.PostalCode, &a.Country, &a.CreatedAt, &a.UpdatedAt,
	)

	return a, err
}
