package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/currency"

	"github.com/abdulrehan17773/am-backend/internal/apperror"
	"github.com/abdulrehan17773/am-backend/internal/domain"
)

type orderFixture struct {
	svc      *OrderService
	orders   *fakeOrderRepo
	carts    *fakeCartRepo
	products *fakeProductRepo
	users    *fakeUserRepo

	user    domain.User
	address domain.OrderAddress
}

func newOrderFixture(t *testing.T, products ...domain.Product) *orderFixture {
	t.Helper()

	carts := &fakeCartRepo{}
	orders := newFakeOrderRepo(carts)
	productRepo := newFakeProductRepo(products...)
	users := newFakeUserRepo(domain.User{
		ID:       uuid.New(),
		UID:      "u1a2b3c4d5e6",
		FullName: "Jordan Smith",
		Email:    "jordan@example.com",
		Phone:    "+447911123456",
		Role:     domain.RoleUser,
		Currency: currency.USD,
	})
	addresses := newFakeAddressRepo()

	var user domain.User
	for _, u := range users.users {
		user = u
	}

	return &orderFixture{
		svc:      NewOrderService(orders, carts, productRepo, users, addresses),
		orders:   orders,
		carts:    carts,
		products: productRepo,
		users:    users,
		user:     user,
		address: domain.OrderAddress{
			FullName: "Jordan Smith",
			Phone:    "+447911123456",
			Line1:    "12 High Street",
			City:     "London",
			State:    "Greater London",
			Country:  "GB",
		},
	}
}

func sellableProduct(price string, discount int32, stock int32) domain.Product {
	return domain.Product{
		ID:       uuid.New(),
		Name:     "tee",
		Price:    domain.Money{Amount: decimal.RequireFromString(price), Currency: currency.USD},
		Discount: discount,
		Variants: []domain.ProductVariant{
			{Variant: domain.Variant{Size: "M", Color: "black"}, Stock: stock},
		},
		TotalStock: stock,
		IsActive:   true,
	}
}

func (f *orderFixture) addCartLine(t *testing.T, product domain.Product, qty int32) {
	t.Helper()

	_, err := f.carts.InsertItem(context.Background(), domain.CartItem{
		UserID:    f.user.ID,
		ProductID: product.ID,
		Variant:   domain.Variant{Size: "M", Color: "black"},
		Qty:       qty,
	})
	require.NoError(t, err)
}

func TestOrderService_PlaceOrder(t *testing.T) {
	ctx := context.Background()

	p1 := sellableProduct("100.00", 10, 5) // final 90.00
	p2 := sellableProduct("25.00", 0, 5)

	f := newOrderFixture(t, p1, p2)
	f.addCartLine(t, p1, 2)
	f.addCartLine(t, p2, 1)

	order, err := f.svc.PlaceOrder(ctx, f.user, PlaceOrderInput{
		Address:     &f.address,
		DeliveryFee: decimal.NewFromInt(10),
	})
	require.NoError(t, err)

	// 2 × 90 + 25 = 205, + 10 delivery = 215
	assert.True(t, order.Subtotal.Amount.Equal(decimal.NewFromInt(205)), order.Subtotal.Amount.String())
	assert.True(t, order.Total.Amount.Equal(decimal.NewFromInt(215)), order.Total.Amount.String())
	assert.Equal(t, domain.OrderStatusPending, order.Status)
	assert.Equal(t, domain.PaymentStatusPending, order.PaymentStatus)
	assert.Equal(t, domain.PaymentMethodCash, order.PaymentMethod)
	assert.Contains(t, order.OrderID, "ORD-")
	assert.Len(t, order.Items, 2)

	// cart is emptied atomically with the insert
	remaining, err := f.carts.GetActiveItems(ctx, f.user.ID)
	require.NoError(t, err)
	assert.Empty(t, remaining)
}

func TestOrderService_PlaceOrder_EmptyCart(t *testing.T) {
	f := newOrderFixture(t)

	_, err := f.svc.PlaceOrder(context.Background(), f.user, PlaceOrderInput{Address: &f.address})

	require.Error(t, err)
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
}

func TestOrderService_PlaceOrder_VanishedProduct(t *testing.T) {
	ctx := context.Background()

	p1 := sellableProduct("100.00", 0, 5)
	p2 := sellableProduct("25.00", 0, 5)

	f := newOrderFixture(t, p1, p2)
	f.addCartLine(t, p1, 1)
	f.addCartLine(t, p2, 1)

	require.NoError(t, f.products.SoftDeleteProduct(ctx, p2.ID))

	_, err := f.svc.PlaceOrder(ctx, f.user, PlaceOrderInput{Address: &f.address})

	// all-or-nothing: no order created, cart untouched
	require.Error(t, err)
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
	assert.Empty(t, f.orders.orders)

	remaining, err := f.carts.GetActiveItems(ctx, f.user.ID)
	require.NoError(t, err)
	assert.Len(t, remaining, 2)
}

func TestOrderService_PlaceOrder_IdempotencyReplay(t *testing.T) {
	ctx := context.Background()

	p := sellableProduct("50.00", 0, 5)
	f := newOrderFixture(t, p)
	f.addCartLine(t, p, 1)

	in := PlaceOrderInput{Address: &f.address, IdempotencyKey: "key-1"}

	first, err := f.svc.PlaceOrder(ctx, f.user, in)
	require.NoError(t, err)

	second, err := f.svc.PlaceOrder(ctx, f.user, in)
	require.NoError(t, err)

	assert.Equal(t, first.OrderID, second.OrderID)
	assert.Equal(t, 1, f.orders.placeCalls)
}

func TestOrderService_PlaceOrder_SavedAddressFallback(t *testing.T) {
	ctx := context.Background()

	p := sellableProduct("50.00", 0, 5)
	f := newOrderFixture(t, p)
	f.addCartLine(t, p, 1)

	// no saved address and no override
	_, err := f.svc.PlaceOrder(ctx, f.user, PlaceOrderInput{})
	require.Error(t, err)
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))

	_, err = f.svc.addresses.(*fakeAddressRepo).InsertAddress(ctx, domain.Address{
		UserID:  f.user.ID,
		Line1:   "12 High Street",
		City:    "London",
		State:   "Greater London",
		Country: "GB",
	})
	require.NoError(t, err)

	order, err := f.svc.PlaceOrder(ctx, f.user, PlaceOrderInput{})
	require.NoError(t, err)

	// snapshot picks up the user's contact fields
	assert.Equal(t, f.user.FullName, order.Address.FullName)
	assert.Equal(t, f.user.Phone, order.Address.Phone)
	assert.Equal(t, "12 High Street", order.Address.Line1)
}

func TestOrderService_CancelOrder(t *testing.T) {
	ctx := context.Background()

	p := sellableProduct("50.00", 0, 5)
	f := newOrderFixture(t, p)
	f.addCartLine(t, p, 1)

	placed, err := f.svc.PlaceOrder(ctx, f.user, PlaceOrderInput{Address: &f.address})
	require.NoError(t, err)

	cancelled, err := f.svc.CancelOrder(ctx, f.user, placed.OrderID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusCancelled, cancelled.Status)
}

func TestOrderService_CancelOrder_Guards(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		status   domain.OrderStatus
		wantKind apperror.Kind
	}{
		{status: domain.OrderStatusShipped, wantKind: apperror.KindConflict},
		{status: domain.OrderStatusDelivered, wantKind: apperror.KindConflict},
		{status: domain.OrderStatusCancelled, wantKind: apperror.KindConflict},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			p := sellableProduct("50.00", 0, 5)
			f := newOrderFixture(t, p)
			f.addCartLine(t, p, 1)

			placed, err := f.svc.PlaceOrder(ctx, f.user, PlaceOrderInput{Address: &f.address})
			require.NoError(t, err)
			require.NoError(t, f.orders.UpdateOrderStatus(ctx, placed.ID, tt.status, nil))

			_, err = f.svc.CancelOrder(ctx, f.user, placed.OrderID)
			require.Error(t, err)
			assert.Equal(t, tt.wantKind, apperror.KindOf(err))
			// message names the blocking status
			assert.Contains(t, err.Error(), string(tt.status))
		})
	}
}

func TestOrderService_CancelOrder_NotOwner(t *testing.T) {
	ctx := context.Background()

	p := sellableProduct("50.00", 0, 5)
	f := newOrderFixture(t, p)
	f.addCartLine(t, p, 1)

	placed, err := f.svc.PlaceOrder(ctx, f.user, PlaceOrderInput{Address: &f.address})
	require.NoError(t, err)

	stranger := domain.User{ID: uuid.New()}
	_, err = f.svc.CancelOrder(ctx, stranger, placed.OrderID)

	// hidden, not forbidden
	require.Error(t, err)
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
}

func TestOrderService_RejectOrder(t *testing.T) {
	ctx := context.Background()

	p := sellableProduct("50.00", 0, 5)
	f := newOrderFixture(t, p)
	f.addCartLine(t, p, 1)

	placed, err := f.svc.PlaceOrder(ctx, f.user, PlaceOrderInput{Address: &f.address})
	require.NoError(t, err)

	_, err = f.svc.RejectOrder(ctx, placed.OrderID, "   ")
	require.Error(t, err)
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))

	rejected, err := f.svc.RejectOrder(ctx, placed.OrderID, "  out of stock  ")
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusRejected, rejected.Status)
	assert.Equal(t, "out of stock", rejected.RejectReason)

	// terminal now, cannot reject twice
	_, err = f.svc.RejectOrder(ctx, placed.OrderID, "again")
	require.Error(t, err)
	assert.Equal(t, apperror.KindConflict, apperror.KindOf(err))
}

func TestOrderService_UpdateStatus(t *testing.T) {
	ctx := context.Background()

	p := sellableProduct("50.00", 0, 5)
	f := newOrderFixture(t, p)
	f.addCartLine(t, p, 1)

	placed, err := f.svc.PlaceOrder(ctx, f.user, PlaceOrderInput{Address: &f.address})
	require.NoError(t, err)

	// admin may jump straight to delivered
	updated, err := f.svc.UpdateStatus(ctx, placed.OrderID, "delivered")
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusDelivered, updated.Status)

	// rejected is not a valid target here
	_, err = f.svc.UpdateStatus(ctx, placed.OrderID, "rejected")
	require.Error(t, err)
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
}

func TestOrderService_UpdatePaymentStatus(t *testing.T) {
	ctx := context.Background()

	p := sellableProduct("50.00", 0, 5)
	f := newOrderFixture(t, p)
	f.addCartLine(t, p, 1)

	placed, err := f.svc.PlaceOrder(ctx, f.user, PlaceOrderInput{Address: &f.address})
	require.NoError(t, err)

	updated, err := f.svc.UpdatePaymentStatus(ctx, placed.OrderID, "completed")
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentStatusCompleted, updated.PaymentStatus)
	// order status axis is untouched
	assert.Equal(t, domain.OrderStatusPending, updated.Status)

	_, err = f.svc.UpdatePaymentStatus(ctx, placed.OrderID, "paid")
	require.Error(t, err)
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
}

func TestOrderService_GetOrderDetail(t *testing.T) {
	ctx := context.Background()

	p := sellableProduct("50.00", 0, 5)
	p.Name = "summer tee"
	p.Images = []domain.ProductImage{{ID: uuid.New(), URL: "https://cdn.example.com/tee.jpg"}}

	f := newOrderFixture(t, p)
	f.addCartLine(t, p, 1)

	placed, err := f.svc.PlaceOrder(ctx, f.user, PlaceOrderInput{Address: &f.address})
	require.NoError(t, err)

	detail, err := f.svc.GetOrderDetail(ctx, f.user, placed.OrderID)
	require.NoError(t, err)
	require.Len(t, detail.Items, 1)
	assert.Equal(t, "summer tee", detail.Items[0].ProductName)
	assert.Equal(t, "https://cdn.example.com/tee.jpg", detail.Items[0].ProductImage)

	// frozen price survives a product deletion; display fields go empty
	require.NoError(t, f.products.SoftDeleteProduct(ctx, p.ID))

	detail, err = f.svc.GetOrderDetail(ctx, f.user, placed.OrderID)
	require.NoError(t, err)
	require.Len(t, detail.Items, 1)
	assert.Empty(t, detail.Items[0].ProductName)
	assert.True(t, detail.Items[0].Price.Amount.Equal(decimal.NewFromInt(50)))
}

func TestOrderService_AdminListOrders(t *testing.T) {
	ctx := context.Background()

	p := sellableProduct("50.00", 0, 5)
	f := newOrderFixture(t, p)
	f.addCartLine(t, p, 1)

	_, err := f.svc.PlaceOrder(ctx, f.user, PlaceOrderInput{Address: &f.address})
	require.NoError(t, err)

	details, total, err := f.svc.AdminListOrders(ctx, ListOrdersInput{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, details, 1)

	require.NotNil(t, details[0].User)
	assert.Equal(t, f.user.UID, details[0].User.UID)
	assert.Equal(t, f.user.Email, details[0].User.Email)
}
