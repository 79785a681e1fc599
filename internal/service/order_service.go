package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/abdulrehan17773/am-backend/internal/apperror"
	"github.com/abdulrehan17773/am-backend/internal/domain"
	"github.com/abdulrehan17773/am-backend/internal/port"
	"github.com/abdulrehan17773/am-backend/internal/repository"
)

const defaultResolveConcurrency = 10

// OrderService converts carts into immutable-priced orders and advances
// them through the status lifecycle.
type OrderService struct {
	orders    port.OrderRepository
	carts     port.CartRepository
	products  port.ProductRepository
	users     port.UserRepository
	addresses port.AddressRepository

	maxConcurrent int
}

func NewOrderService(
	orders port.OrderRepository,
	carts port.CartRepository,
	products port.ProductRepository,
	users port.UserRepository,
	addresses port.AddressRepository,
) *OrderService {
	return &OrderService{
		orders:        orders,
		carts:         carts,
		products:      products,
		users:         users,
		addresses:     addresses,
		maxConcurrent: defaultResolveConcurrency,
	}
}

type PlaceOrderInput struct {
	// Address overrides the saved address when present.
	Address        *domain.OrderAddress
	DeliveryFee    decimal.Decimal
	PaymentMethod  string
	IdempotencyKey string
}

// PlaceOrder snapshots the user's active cart into a new order. The cart
// read joins the live catalog; prices are frozen from that point on.
// Order insert and cart clearing commit atomically in the repository.
func (s *OrderService) PlaceOrder(ctx context.Context, user domain.User, in PlaceOrderInput) (domain.Order, error) {
	var o domain.Order

	if in.DeliveryFee.IsNegative() {
		return o, apperror.Validation("delivery fee cannot be negative")
	}

	method := domain.PaymentMethodCash
	if in.PaymentMethod != "" {
		var err error
		if method, err = domain.ToPaymentMethod(in.PaymentMethod); err != nil {
			return o, apperror.Validation("invalid payment method: %s", in.PaymentMethod)
		}
	}

	address, err := s.resolveAddress(ctx, user, in.Address)
	if err != nil {
		return o, err
	}

	// Replays with the same key return the already-placed order.
	if in.IdempotencyKey != "" {
		existing, err := s.orders.GetOrderByIdempotencyKey(ctx, user.ID, in.IdempotencyKey)
		if err == nil {
			return existing, nil
		}
		if !errors.Is(err, repository.ErrOrderNotFound) {
			return o, fmt.Errorf("orders.GetOrderByIdempotencyKey: %w", err)
		}
	}

	cartItems, err := s.carts.GetActiveItems(ctx, user.ID)
	if err != nil {
		return o, fmt.Errorf("carts.GetActiveItems: %w", err)
	}
	if len(cartItems) == 0 {
		return o, apperror.Validation("cart is empty")
	}

	lines, err := s.snapshotLines(ctx, cartItems)
	if err != nil {
		return o, err
	}

	currencyUnit := lines[0].Price.Currency

	order := domain.Order{
		OrderID:        domain.NewPublicOrderID(),
		UserID:         user.ID,
		Items:          lines,
		Subtotal:       domain.Money{Amount: decimal.Zero, Currency: currencyUnit},
		DeliveryFee:    domain.Money{Amount: in.DeliveryFee, Currency: currencyUnit},
		Status:         domain.OrderStatusPending,
		PaymentStatus:  domain.PaymentStatusPending,
		PaymentMethod:  method,
		Address:        address,
		IdempotencyKey: in.IdempotencyKey,
	}
	order.Recompute()

	placed, err := s.orders.PlaceOrder(ctx, order)
	if err != nil {
		// A concurrent replay may have won the idempotency race.
		if errors.Is(err, repository.ErrDuplicate) && in.IdempotencyKey != "" {
			existing, raceErr := s.orders.GetOrderByIdempotencyKey(ctx, user.ID, in.IdempotencyKey)
			if raceErr == nil {
				return existing, nil
			}
		}
		return o, fmt.Errorf("orders.PlaceOrder: %w", err)
	}

	return placed, nil
}

// snapshotLines resolves every cart line against the live catalog and
// freezes unit prices. Any vanished product or variant aborts the whole
// placement.
func (s *OrderService) snapshotLines(ctx context.Context, cartItems []domain.CartItem) ([]domain.OrderItem, error) {
	lines := make([]domain.OrderItem, len(cartItems))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.maxConcurrent)

	for idx := range cartItems {
		g.Go(func() error {
			item := cartItems[idx]

			product, err := s.products.GetProduct(gctx, item.ProductID)
			if err != nil {
				if errors.Is(err, repository.ErrProductNotFound) {
					return apperror.NotFound("product %s is no longer available", item.ProductID)
				}
				return fmt.Errorf("products.GetProduct: %w", err)
			}

			if !product.Sellable() {
				return apperror.NotFound("product %s is no longer available", product.Name)
			}

			if _, ok := product.FindVariant(item.Variant); !ok {
				return apperror.NotFound("variant %s/%s of product %s is no longer available",
					item.Variant.Size, item.Variant.Color, product.Name)
			}

			lines[idx] = domain.OrderItem{
				ProductID: item.ProductID,
				Variant:   item.Variant,
				Qty:       item.Qty,
				Price:     product.FinalPrice(),
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return lines, nil
}

func (s *OrderService) resolveAddress(ctx context.Context, user domain.User, override *domain.OrderAddress) (domain.OrderAddress, error) {
	var a domain.OrderAddress

	if override != nil {
		if err := override.Validate(); err != nil {
			return a, apperror.Validation("invalid address: %v", err)
		}
		return *override, nil
	}

	saved, err := s.addresses.GetAddressByUser(ctx, user.ID)
	if err != nil {
		if errors.Is(err, repository.ErrAddressNotFound) {
			return a, apperror.Validation("shipping address is required")
		}
		return a, fmt.Errorf("addresses.GetAddressByUser: %w", err)
	}

	return domain.OrderAddress{
		FullName:   user.FullName,
		Phone:      user.Phone,
		Line1:      saved.Line1,
		Line2:      saved.Line2,
		City:       saved.City,
		State:      saved.State,
		PostalCode: saved.PostalCode,
		Country:    saved.Country,
	}, nil
}

// CancelOrder lets the owning user cancel while the order is still
// pending or preparing. The repository write re-checks the guard, so a
// racing admin transition cannot be overwritten.
func (s *OrderService) CancelOrder(ctx context.Context, user domain.User, publicID string) (domain.Order, error) {
	var o domain.Order

	order, err := s.getOwnedOrder(ctx, user, publicID)
	if err != nil {
		return o, err
	}

	if !order.Status.CancellableByOwner() {
		return o, apperror.Conflict("order cannot be cancelled in %s status", order.Status)
	}

	err = s.orders.UpdateOrderStatus(ctx, order.ID, domain.OrderStatusCancelled, domain.CancellableStatuses())
	if err != nil {
		if errors.Is(err, repository.ErrStatusConflict) {
			current, getErr := s.orders.GetOrder(ctx, order.ID)
			if getErr == nil {
				return o, apperror.Conflict("order cannot be cancelled in %s status", current.Status)
			}
		}
		if errors.Is(err, repository.ErrOrderNotFound) {
			return o, apperror.NotFound("order not found")
		}
		return o, fmt.Errorf("orders.UpdateOrderStatus: %w", err)
	}

	return s.refreshOrder(ctx, order.ID)
}

type ListOrdersInput struct {
	Status        string
	PaymentStatus string
	Search        string
	Page          domain.Page
}

// ListOrders returns the user's own orders, newest first.
func (s *OrderService) ListOrders(ctx context.Context, user domain.User, in ListOrdersInput) ([]domain.Order, int64, error) {
	filter := domain.OrderFilter{
		UserID: &user.ID,
		Search: strings.TrimSpace(in.Search),
	}

	if in.Status != "" {
		status, err := domain.ToOrderStatus(in.Status)
		if err != nil {
			return nil, 0, apperror.Validation("invalid order status: %s", in.Status)
		}
		filter.Statuses = []domain.OrderStatus{status}
	}

	orders, total, err := s.orders.SearchOrders(ctx, filter, in.Page)
	if err != nil {
		return nil, 0, fmt.Errorf("orders.SearchOrders: %w", err)
	}

	return orders, total, nil
}

// GetOrderDetail resolves the line items' products to display fields at
// read time, so catalog renames show up while prices stay frozen.
func (s *OrderService) GetOrderDetail(ctx context.Context, user domain.User, publicID string) (domain.OrderDetail, error) {
	var d domain.OrderDetail

	order, err := s.getOwnedOrder(ctx, user, publicID)
	if err != nil {
		return d, err
	}

	return s.toDetail(ctx, order, false)
}

// AdminListOrders additionally filters by payment status and attaches
// lightweight user info.
func (s *OrderService) AdminListOrders(ctx context.Context, in ListOrdersInput) ([]domain.OrderDetail, int64, error) {
	filter := domain.OrderFilter{
		Search: strings.TrimSpace(in.Search),
	}

	if in.Status != "" {
		status, err := domain.ToOrderStatus(in.Status)
		if err != nil {
			return nil, 0, apperror.Validation("invalid order status: %s", in.Status)
		}
		filter.Statuses = []domain.OrderStatus{status}
	}
	if in.PaymentStatus != "" {
		status, err := domain.ToPaymentStatus(in.PaymentStatus)
		if err != nil {
			return nil, 0, apperror.Validation("invalid payment status: %s", in.PaymentStatus)
		}
		filter.PaymentStatuses = []domain.PaymentStatus{status}
	}

	orders, total, err := s.orders.SearchOrders(ctx, filter, in.Page)
	if err != nil {
		return nil, 0, fmt.Errorf("orders.SearchOrders: %w", err)
	}

	userIDs := lo.Uniq(lo.Map(orders, func(o domain.Order, _ int) uuid.UUID { return o.UserID }))
	users, err := s.users.GetUsers(ctx, userIDs)
	if err != nil {
		return nil, 0, fmt.Errorf("users.GetUsers: %w", err)
	}

	details := make([]domain.OrderDetail, 0, len(orders))
	for _, order := range orders {
		detail := domain.OrderDetail{Order: order}
		if u, ok := users[order.UserID]; ok {
			summary := domain.SummarizeUser(u)
			detail.User = &summary
		}
		details = append(details, detail)
	}

	return details, total, nil
}

func (s *OrderService) AdminGetOrder(ctx context.Context, publicID string) (domain.OrderDetail, error) {
	var d domain.OrderDetail

	order, err := s.getOrderByPublicID(ctx, publicID)
	if err != nil {
		return d, err
	}

	return s.toDetail(ctx, order, true)
}

// RejectOrder moves any non-terminal order to rejected, persisting the
// trimmed reason verbatim.
func (s *OrderService) RejectOrder(ctx context.Context, publicID, reason string) (domain.Order, error) {
	var o domain.Order

	reason = strings.TrimSpace(reason)
	if reason == "" {
		return o, apperror.Validation("reject reason is required")
	}

	order, err := s.getOrderByPublicID(ctx, publicID)
	if err != nil {
		return o, err
	}

	if order.Status.Terminal() {
		return o, apperror.Conflict("order cannot be rejected in %s status", order.Status)
	}

	err = s.orders.RejectOrder(ctx, order.ID, reason, domain.RejectableStatuses())
	if err != nil {
		if errors.Is(err, repository.ErrStatusConflict) {
			current, getErr := s.orders.GetOrder(ctx, order.ID)
			if getErr == nil {
				return o, apperror.Conflict("order cannot be rejected in %s status", current.Status)
			}
		}
		if errors.Is(err, repository.ErrOrderNotFound) {
			return o, apperror.NotFound("order not found")
		}
		return o, fmt.Errorf("orders.RejectOrder: %w", err)
	}

	return s.refreshOrder(ctx, order.ID)
}

// UpdatePaymentStatus mutates the payment axis independently of the
// order status.
func (s *OrderService) UpdatePaymentStatus(ctx context.Context, publicID, target string) (domain.Order, error) {
	var o domain.Order

	status, err := domain.ToPaymentStatus(target)
	if err != nil {
		return o, apperror.Validation("invalid payment status: %s", target)
	}

	order, err := s.getOrderByPublicID(ctx, publicID)
	if err != nil {
		return o, err
	}

	if err := s.orders.UpdatePaymentStatus(ctx, order.ID, status); err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return o, apperror.NotFound("order not found")
		}
		return o, fmt.Errorf("orders.UpdatePaymentStatus: %w", err)
	}

	return s.refreshOrder(ctx, order.ID)
}

// UpdateStatus is the admin override: any target from the allow-list,
// no adjacency rule. Rejection goes through RejectOrder instead since
// it requires a reason.
func (s *OrderService) UpdateStatus(ctx context.Context, publicID, target string) (domain.Order, error) {
	var o domain.Order

	status, err := domain.ToAdminStatusTarget(target)
	if err != nil {
		return o, apperror.Validation("invalid order status: %s", target)
	}

	order, err := s.getOrderByPublicID(ctx, publicID)
	if err != nil {
		return o, err
	}

	if err := s.orders.UpdateOrderStatus(ctx, order.ID, status, nil); err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return o, apperror.NotFound("order not found")
		}
		return o, fmt.Errorf("orders.UpdateOrderStatus: %w", err)
	}

	return s.refreshOrder(ctx, order.ID)
}

// AdminDeleteOrder hides an order from every listing. The row and its
// items stay behind for audit.
func (s *OrderService) AdminDeleteOrder(ctx context.Context, publicID string) error {
	order, err := s.getOrderByPublicID(ctx, publicID)
	if err != nil {
		return err
	}

	if err := s.orders.SoftDeleteOrder(ctx, order.ID); err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return apperror.NotFound("order not found")
		}
		return fmt.Errorf("orders.SoftDeleteOrder: %w", err)
	}

	return nil
}

func (s *OrderService) getOwnedOrder(ctx context.Context, user domain.User, publicID string) (domain.Order, error) {
	order, err := s.getOrderByPublicID(ctx, publicID)
	if err != nil {
		return order, err
	}

	// Other users' orders look absent, not forbidden.
	if order.UserID != user.ID {
		return domain.Order{}, apperror.NotFound("order not found")
	}

	return order, nil
}

func (s *OrderService) getOrderByPublicID(ctx context.Context, publicID string) (domain.Order, error) {
	var o domain.Order

	if strings.TrimSpace(publicID) == "" {
		return o, apperror.Validation("order id is required")
	}

	order, err := s.orders.GetOrderByPublicID(ctx, publicID)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return o, apperror.NotFound("order not found")
		}
		return o, fmt.Errorf("orders.GetOrderByPublicID: %w", err)
	}

	return order, nil
}

func (s *OrderService) refreshOrder(ctx context.Context, orderID uuid.UUID) (domain.Order, error) {
	order, err := s.orders.GetOrder(ctx, orderID)
	if err != nil {
		return order, fmt.Errorf("orders.GetOrder: %w", err)
	}
	return order, nil
}

// toDetail joins line items with live products; historical orders whose
// products vanished keep empty display fields.
func (s *OrderService) toDetail(ctx context.Context, order domain.Order, withUser bool) (domain.OrderDetail, error) {
	var d domain.OrderDetail

	productIDs := lo.Uniq(lo.Map(order.Items, func(i domain.OrderItem, _ int) uuid.UUID { return i.ProductID }))

	products, err := s.products.GetProducts(ctx, productIDs)
	if err != nil {
		return d, fmt.Errorf("products.GetProducts: %w", err)
	}

	items := make([]domain.OrderItemDetail, 0, len(order.Items))
	for _, item := range order.Items {
		detail := domain.OrderItemDetail{OrderItem: item}
		if p, ok := products[item.ProductID]; ok {
			detail.ProductName = p.Name
			detail.ProductImage = p.FirstImageURL()
		}
		items = append(items, detail)
	}

	d = domain.OrderDetail{Order: order, Items: items}

	if withUser {
		u, err := s.users.GetUser(ctx, order.UserID)
		if err == nil {
			summary := domain.SummarizeUser(u)
			d.User = &summary
		} else if !errors.Is(err, repository.ErrUserNotFound) {
			return d, fmt.Errorf("users.GetUser: %w", err)
		}
	}

	return d, nil
}
