package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/samber/lo"

	"github.com/abdulrehan17773/am-backend/internal/domain"
	"github.com/abdulrehan17773/am-backend/internal/port"
)

type orderRepository struct {
	db DB
}

func NewOrder(pool *pgxpool.Pool) port.OrderRepository {
	return &orderRepository{db: pool}
}

func NewOrderWithTx(tx pgx.Tx) port.OrderRepository {
	return &orderRepository{db: tx}
}

const orderColumns = `id, order_id, user_id,
	subtotal::text, delivery_fee::text, total_amount::text, currency,
	status, payment_status, payment_method, reject_reason, idempotency_key,
	addr_fullname, addr_phone, addr_line1, addr_line2, addr_city, addr_state, addr_postal, addr_country,
	created_at, updated_at`

func (r *orderRepository) PlaceOrder(ctx context.Context, order domain.Order) (domain.Order, error) {
	var o domain.Order

	if order.UserID == uuid.Nil {
		return o, fmt.Errorf("userID is empty")
	}
	if len(order.Items) == 0 {
		return o, errors.New("no items in order")
	}

	if order.OrderID == "" {
		order.OrderID = domain.NewPublicOrderID()
	}

	// Order insert and cart clearing commit or roll back together.
	placed, err := withTx(ctx, r.db, func(tx pgx.Tx) (domain.Order, error) {
		stored, err := insertOrder(ctx, tx, order)
		if err != nil {
			return o, fmt.Errorf("insertOrder: %w", err)
		}

		if _, err := clearCartItems(ctx, tx, order.UserID); err != nil {
			return o, fmt.Errorf("clearCartItems: %w", err)
		}

		return stored, nil
	})
	if err != nil {
		return o, fmt.Errorf("withTx: %w", err)
	}

	return placed, nil
}

func insertOrder(ctx context.Context, db DB, order domain.Order) (domain.Order, error) {
	var o domain.Order

	row := db.QueryRow(ctx, `
		INSERT INTO orders (order_id, user_id, subtotal, delivery_fee, total_amount, currency,
			status, payment_status, payment_method, idempotency_key,
			addr_fullname, addr_phone, addr_line1, addr_line2, addr_city, addr_state, addr_postal, addr_country)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
		RETURNING id, created_at, updated_at`,
		order.OrderID,
		order.UserID,
		order.Subtotal.Amount.String(),
		order.DeliveryFee.Amount.String(),
		order.Total.Amount.String(),
		order.Subtotal.Currency.String(),
		string(order.Status),
		string(order.PaymentStatus),
		string(order.PaymentMethod),
		order.IdempotencyKey,
		order.Address.FullName,
		order.Address.Phone,
		order.Address.Line1,
		order.Address.Line2,
		order.Address.City,
		order.Address.State,
		order.Address.PostalCode,
		order.Address.Country,
	)

	stored := order
	if err := row.Scan(&stored.ID, &stored.CreatedAt, &stored.UpdatedAt); err != nil {
		if isUniqueViolation(err) {
			return o, fmt.Errorf("orders insert: %w", ErrDuplicate)
		}
		return o, fmt.Errorf("orders insert: %w", err)
	}

	// TODO: batch the item inserts once pgx CopyFrom is worth the setup.
	for i, item := range order.Items {
		if _, err := db.Exec(ctx, `
			INSERT INTO order_items (order_id, product_id, size, color, qty, price_amount, price_currency, position)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			stored.ID,
			item.ProductID,
			item.Variant.Size,
			item.Variant.Color,
			item.Qty,
			item.Price.Amount.String(),
			item.Price.Currency.String(),
			i,
		); err != nil {
			return o, fmt.Errorf("order_items insert: %w", err)
		}
	}

	return stored, nil
}

func (r *orderRepository) GetOrder(ctx context.Context, orderID uuid.UUID) (domain.Order, error) {
	return r.getOrderWhere(ctx, "id = $1", orderID)
}

func (r *orderRepository) GetOrderByPublicID(ctx context.Context, publicID string) (domain.Order, error) {
	return r.getOrderWhere(ctx, "order_id = $1", publicID)
}

func (r *orderRepository) GetOrderByIdempotencyKey(ctx context.Context, userID uuid.UUID, key string) (domain.Order, error) {
	return r.getOrderWhere(ctx, "user_id = $1 AND idempotency_key = $2", userID, key)
}

func (r *orderRepository) getOrderWhere(ctx context.Context, cond string, args ...any) (domain.Order, error) {
	var o domain.Order

	row := r.db.QueryRow(ctx,
		fmt.Sprintf("SELECT %s FROM orders WHERE %s AND deleted_at IS NULL", orderColumns, cond),
		args...)

	order, err := scanOrder(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return o, fmt.Errorf("scanOrder: %w", ErrOrderNotFound)
		}
		return o, fmt.Errorf("scanOrder: %w", err)
	}

	items, err := r.getOrderItems(ctx, order.ID)
	if err != nil {
		return o, fmt.Errorf("getOrderItems: %w", err)
	}
	order.Items = items

	return order, nil
}

func (r *orderRepository) getOrderItems(ctx context.Context, orderID uuid.UUID) ([]domain.OrderItem, error) {
	rows, err := r.db.Query(ctx, `
		SELECT product_id, size, color, qty, price_amount::text, price_currency, created_at
		FROM order_items
		WHERE order_id = $1 AND deleted_at IS NULL
		ORDER BY position`, orderID)
	if err != nil {
		return nil, fmt.Errorf("order_items query: %w", err)
	}
	defer rows.Close()

	var items []domain.OrderItem
	for rows.Next() {
		var (
			item         domain.OrderItem
			amount, code string
		)
		if err := rows.Scan(
			&item.ProductID, &item.Variant.Size, &item.Variant.Color, &item.Qty,
			&amount, &code, &item.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("order_items scan: %w", err)
		}

		item.Price, err = parseMoney(amount, code)
		if err != nil {
			return nil, fmt.Errorf("parseMoney: %w", err)
		}

		items = append(items, item)
	}

	return items, rows.Err()
}

func (r *orderRepository) SearchOrders(ctx context.Context, filter domain.OrderFilter, page domain.Page) ([]domain.Order, int64, error) {
	conds := []string{"deleted_at IS NULL"}
	var args []any

	if filter.UserID != nil {
		args = append(args, *filter.UserID)
		conds = append(conds, fmt.Sprintf("user_id = $%d", len(args)))
	}
	if len(filter.Statuses) > 0 {
		statuses := lo.Map(filter.Statuses, func(s domain.OrderStatus, _ int) string { return string(s) })
		args = append(args, statuses)
		conds = append(conds, fmt.Sprintf("status = ANY($%d)", len(args)))
	}
	if len(filter.PaymentStatuses) > 0 {
		statuses := lo.Map(filter.PaymentStatuses, func(s domain.PaymentStatus, _ int) string { return string(s) })
		args = append(args, statuses)
		conds = append(conds, fmt.Sprintf("payment_status = ANY($%d)", len(args)))
	}
	if filter.Search != "" {
		args = append(args, likePattern(filter.Search))
		conds = append(conds, fmt.Sprintf("order_id ILIKE $%d", len(args)))
	}

	where := strings.Join(conds, " AND ")

	var total int64
	if err := r.db.QueryRow(ctx,
		fmt.Sprintf("SELECT count(*) FROM orders WHERE %s", where), args...,
	).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("orders count: %w", err)
	}

	page = page.Normalize()
	args = append(args, page.Limit, page.Offset())
	query := fmt.Sprintf(
		"SELECT %s FROM orders WHERE %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d",
		orderColumns, where, len(args)-1, len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("orders query: %w", err)
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scanOrder: %w", err)
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("rows.Err: %w", err)
	}

	if err := r.attachItems(ctx, orders); err != nil {
		return nil, 0, fmt.Errorf("attachItems: %w", err)
	}

	return orders, total, nil
}

// attachItems batch-loads line items for the given orders.
func (r *orderRepository) attachItems(ctx context.Context, orders []domain.Order) error {
	if len(orders) == 0 {
		return nil
	}

	ids := lo.Map(orders, func(o domain.Order, _ int) uuid.UUID { return o.ID })

	rows, err := r.db.Query(ctx, `
		SELECT order_id, product_id, size, color, qty, price_amount::text, price_currency, created_at
		FROM order_items
		WHERE order_id = ANY($1) AND deleted_at IS NULL
		ORDER BY order_id, position`, ids)
	if err != nil {
		return fmt.Errorf("order_items query: %w", err)
	}
	defer rows.Close()

	itemsByOrder := make(map[uuid.UUID][]domain.OrderItem)
	for rows.Next() {
		var (
			orderID      uuid.UUID
			item         domain.OrderItem
			amount, code string
		)
		if err := rows.Scan(
			&orderID, &item.ProductID, &item.Variant.Size, &item.Variant.Color, &item.Qty,
			&amount, &code, &item.CreatedAt,
		); err != nil {
			return fmt.Errorf("order_items scan: %w", err)
		}

		item.Price, err = parseMoney(amount, code)
		if err != nil {
			return fmt.Errorf("parseMoney: %w", err)
		}

		itemsByOrder[orderID] = append(itemsByOrder[orderID], item)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("rows.Err: %w", err)
	}

	for i := range orders {
		orders[i].Items = itemsByOrder[orders[i].ID]
	}

	return nil
}

func (r *orderRepository) UpdateOrderStatus(ctx context.Context, orderID uuid.UUID, target domain.OrderStatus, allowedFrom []domain.OrderStatus) error {
	if orderID == uuid.Nil {
		return fmt.Errorf("orderID is empty")
	}
	if target == "" {
		return fmt.Errorf("status is empty")
	}

	return r.conditionalUpdate(ctx, orderID, allowedFrom,
		"UPDATE orders SET status = $2, updated_at = now() WHERE id = $1 AND deleted_at IS NULL",
		string(target))
}

func (r *orderRepository) RejectOrder(ctx context.Context, orderID uuid.UUID, reason string, allowedFrom []domain.OrderStatus) error {
	if orderID == uuid.Nil {
		return fmt.Errorf("orderID is empty")
	}
	if reason == "" {
		return fmt.Errorf("reason is empty")
	}

	return r.conditionalUpdate(ctx, orderID, allowedFrom,
		"UPDATE orders SET status = 'rejected', reject_reason = $2, updated_at = now() WHERE id = $1 AND deleted_at IS NULL",
		reason)
}

// conditionalUpdate appends a status guard to query so concurrent
// transitions cannot produce lost updates. A zero-row result is
// disambiguated into not-found vs conflict.
func (r *orderRepository) conditionalUpdate(ctx context.Context, orderID uuid.UUID, allowedFrom []domain.OrderStatus, query string, extra any) error {
	args := []any{orderID, extra}

	if len(allowedFrom) > 0 {
		statuses := lo.Map(allowedFrom, func(s domain.OrderStatus, _ int) string { return string(s) })
		args = append(args, statuses)
		query += fmt.Sprintf(" AND status = ANY($%d)", len(args))
	}

	cmdTag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("orders update: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		var current string
		err := r.db.QueryRow(ctx,
			"SELECT status FROM orders WHERE id = $1 AND deleted_at IS NULL", orderID,
		).Scan(&current)
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrOrderNotFound
		}
		if err != nil {
			return fmt.Errorf("orders select status: %w", err)
		}
		return fmt.Errorf("current status %s: %w", current, ErrStatusConflict)
	}

	return nil
}

func (r *orderRepository) UpdatePaymentStatus(ctx context.Context, orderID uuid.UUID, target domain.PaymentStatus) error {
	if orderID == uuid.Nil {
		return fmt.Errorf("orderID is empty")
	}
	if target == "" {
		return fmt.Errorf("payment status is empty")
	}

	cmdTag, err := r.db.Exec(ctx,
		"UPDATE orders SET payment_status = $2, updated_at = now() WHERE id = $1 AND deleted_at IS NULL",
		orderID, string(target))
	if err != nil {
		return fmt.Errorf("orders update: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return ErrOrderNotFound
	}

	return nil
}

func (r *orderRepository) SoftDeleteOrder(ctx context.Context, orderID uuid.UUID) error {
	if orderID == uuid.Nil {
		return fmt.Errorf("orderID is empty")
	}

	cmdTag, err := r.db.Exec(ctx,
		"UPDATE orders SET deleted_at = now(), updated_at = now() WHERE id = $1 AND deleted_at IS NULL",
		orderID)
	if err != nil {
		return fmt.Errorf("orders update: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return ErrOrderNotFound
	}

	return nil
}

// scanOrder maps one orders row (orderColumns order) to the domain type.
func scanOrder(row pgx.Row) (domain.Order, error) {
	var (
		o                                  domain.Order
		subtotal, deliveryFee, total, code string
		status, payStatus, payMethod       string
	)

	if err := row.Scan(
		&o.ID, &o.OrderID, &o.UserID,
		&subtotal, &deliveryFee, &total, &code,
		&status, &payStatus, &payMethod, &o.RejectReason, &o.IdempotencyKey,
		&o.Address.FullName, &o.Address.Phone, &o.Address.Line1, &o.Address.Line2,
		&o.Address.City, &o.Address.State, &o.Address.PostalCode, &o.Address.Country,
		&o.CreatedAt, &o.UpdatedAt,
	); err != nil {
		return o, err
	}

	var err error
	if o.Subtotal, err = parseMoney(subtotal, code); err != nil {
		return o, fmt.Errorf("parseMoney subtotal: %w", err)
	}
	if o.DeliveryFee, err = parseMoney(deliveryFee, code); err != nil {
		return o, fmt.Errorf("parseMoney deliveryFee: %w", err)
	}
	if o.Total, err = parseMoney(total, code); err != nil {
		return o, fmt.Errorf("parseMoney total: %w", err)
	}

	if o.Status, err = domain.ToOrderStatus(status); err != nil {
		return o, fmt.Errorf("domain.ToOrderStatus[%s]: %w", status, err)
	}
	if o.PaymentStatus, err = domain.ToPaymentStatus(payStatus); err != nil {
		return o, fmt.Errorf("domain.ToPaymentStatus[%s]: %w", payStatus, err)
	}
	if o.PaymentMethod, err = domain.ToPaymentMethod(payMethod); err != nil {
		return o, fmt.Errorf("domain.ToPaymentMethod[%s]: %w", payMethod, err)
	}

	return o, nil
}
