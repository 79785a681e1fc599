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

type cartRepository struct {
	db DB
}

func NewCart(pool *pgxpool.Pool) port.CartRepository {
	return &cartRepository{db: pool}
}

func NewCartWithTx(tx pgx.Tx) port.CartRepository {
	return &cartRepository{db: tx}
}

const cartColumns = "id, user_id, product_id, size, color, qty, created_at, updated_at"

func (r *cartRepository) GetActiveItems(ctx context.Context, userID uuid.UUID) ([]domain.CartItem, error) {
	// created_at, id ordering keeps line order stable for a cart snapshot.
	rows, err := r.db.Query(ctx, fmt.Sprintf(`
		SELECT %s FROM cart_items
		WHERE user_id = $1 AND deleted_at IS NULL
		ORDER BY created_at, id`, cartColumns), userID)
	if err != nil {
		return nil, fmt.Errorf("cart_items query: %w", err)
	}
	defer rows.Close()

	var items []domain.CartItem
	for rows.Next() {
		item, err := scanCartItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scanCartItem: %w", err)
		}
		items = append(items, item)
	}

	return items, rows.Err()
}

func (r *cartRepository) GetItem(ctx context.Context, itemID, userID uuid.UUID) (domain.CartItem, error) {
	row := r.db.QueryRow(ctx, fmt.Sprintf(`
		SELECT %s FROM cart_items
		WHERE id = $1 AND user_id = $2 AND deleted_at IS NULL`, cartColumns),
		itemID, userID)

	item, err := scanCartItem(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return item, fmt.Errorf("scanCartItem: %w", ErrCartItemNotFound)
		}
		return item, fmt.Errorf("scanCartItem: %w", err)
	}

	return item, nil
}

func (r *cartRepository) FindItem(ctx context.Context, userID, productID uuid.UUID, variant domain.Variant) (domain.CartItem, error) {
	row := r.db.QueryRow(ctx, fmt.Sprintf(`
		SELECT %s FROM cart_items
		WHERE user_id = $1 AND product_id = $2 AND size = $3 AND color = $4 AND deleted_at IS NULL`, cartColumns),
		userID, productID, variant.Size, variant.Color)

	item, err := scanCartItem(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return item, fmt.Errorf("scanCartItem: %w", ErrCartItemNotFound)
		}
		return item, fmt.Errorf("scanCartItem: %w", err)
	}

	return item, nil
}

func (r *cartRepository) InsertItem(ctx context.Context, item domain.CartItem) (domain.CartItem, error) {
	var c domain.CartItem

	row := r.db.QueryRow(ctx, `
		INSERT INTO cart_items (user_id, product_id, size, color, qty)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at`,
		item.UserID, item.ProductID, item.Variant.Size, item.Variant.Color, item.Qty)

	stored := item
	if err := row.Scan(&stored.ID, &stored.CreatedAt, &stored.UpdatedAt); err != nil {
		if isUniqueViolation(err) {
			return c, fmt.Errorf("cart_items insert: %w", ErrDuplicate)
		}
		return c, fmt.Errorf("cart_items insert: %w", err)
	}

	return stored, nil
}

func (r *cartRepository) UpdateQty(ctx context.Context, itemID uuid.UUID, qty int32) error {
	if qty < 1 {
		return fmt.Errorf("qty must be positive")
	}

	cmdTag, err := r.db.Exec(ctx,
		"UPDATE cart_items SET qty = $2, updated_at = now() WHERE id = $1 AND deleted_at IS NULL",
		itemID, qty)
	if err != nil {
		return fmt.Errorf("cart_items update: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return ErrCartItemNotFound
	}

	return nil
}

func (r *cartRepository) SoftDeleteItem(ctx context.Context, itemID uuid.UUID) error {
	cmdTag, err := r.db.Exec(ctx,
		"UPDATE cart_items SET deleted_at = now(), updated_at = now() WHERE id = $1 AND deleted_at IS NULL",
		itemID)
	if err != nil {
		return fmt.Errorf("cart_items update: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return ErrCartItemNotFound
	}

	return nil
}

func (r *cartRepository) ClearCart(ctx context.Context, userID uuid.UUID) (int64, error) {
	return clearCartItems(ctx, r.db, userID)
}

// clearCartItems is shared with the order placement transaction.
func clearCartItems(ctx context.Context, db DB, userID uuid.UUID) (int64, error) {
	cmdTag, err := db.Exec(ctx,
		"UPDATE cart_items SET deleted_at = now(), updated_at = now() WHERE user_id = $1 AND deleted_at IS NULL",
		userID)
	if err != nil {
		return 0, fmt.Errorf("cart_items update: %w", err)
	}

	return cmdTag.RowsAffected(), nil
}

func scanCartItem(row pgx.Row) (domain.CartItem, error) {
	var item domain.CartItem

	err := row.Scan(
		&item.ID, &item.UserID, &item.ProductID,
		&item.Variant.Size, &item.Variant.Color, &item.Qty,
		&item.CreatedAt, &item.UpdatedAt,
	)

	return item, err
}
