package domain

import "errors"

type OrderStatus string

// remember to add new statuses to the validOrderStatuses map
const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusPreparing OrderStatus = "preparing"
	OrderStatusRejected  OrderStatus = "rejected"
	OrderStatusCancelled OrderStatus = "cancelled"
	OrderStatusShipped   OrderStatus = "shipped"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusRefunded  OrderStatus = "refunded"
)

var validOrderStatuses = map[OrderStatus]struct{}{
	OrderStatusPending:   {},
	OrderStatusPreparing: {},
	OrderStatusRejected:  {},
	OrderStatusCancelled: {},
	OrderStatusShipped:   {},
	OrderStatusDelivered: {},
	OrderStatusRefunded:  {},
}

func ToOrderStatus(s string) (OrderStatus, error) {
	status := OrderStatus(s)
	if _, ok := validOrderStatuses[status]; ok {
		return status, nil
	}

	return "", errors.New("invalid order status")
}

// Terminal statuses admit no further transition via the normal API.
func (s OrderStatus) Terminal() bool {
	switch s {
	case OrderStatusRejected, OrderStatusCancelled, OrderStatusDelivered, OrderStatusRefunded:
		return true
	}
	return false
}

// CancellableByOwner reports whether the owning user may still cancel.
func (s OrderStatus) CancellableByOwner() bool {
	return s == OrderStatusPending || s == OrderStatusPreparing
}

// CancellableStatuses lists the source states an owner cancel accepts.
func CancellableStatuses() []OrderStatus {
	return []OrderStatus{OrderStatusPending, OrderStatusPreparing}
}

// RejectableStatuses lists the source states an admin reject accepts:
// every status that is not already terminal.
func RejectableStatuses() []OrderStatus {
	return []OrderStatus{OrderStatusPending, OrderStatusPreparing, OrderStatusShipped}
}

// adminStatusTargets is the allow-list for the admin status update.
// Rejection is excluded: it has its own operation carrying a reason.
var adminStatusTargets = map[OrderStatus]struct{}{
	OrderStatusPending:   {},
	OrderStatusPreparing: {},
	OrderStatusCancelled: {},
	OrderStatusShipped:   {},
	OrderStatusDelivered: {},
	OrderStatusRefunded:  {},
}

func ToAdminStatusTarget(s string) (OrderStatus, error) {
	status := OrderStatus(s)
	if _, ok := adminStatusTargets[status]; ok {
		return status, nil
	}

	return "", errors.New("invalid order status")
}

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusFailed    PaymentStatus = "failed"
	PaymentStatusRefunded  PaymentStatus = "refunded"
)

var validPaymentStatuses = map[PaymentStatus]struct{}{
	PaymentStatusPending:   {},
	PaymentStatusCompleted: {},
	PaymentStatusFailed:    {},
	PaymentStatusRefunded:  {},
}

func ToPaymentStatus(s string) (PaymentStatus, error) {
	status := PaymentStatus(s)
	if _, ok := validPaymentStatuses[status]; ok {
		return status, nil
	}

	return "", errors.New("invalid payment status")
}

type PaymentMethod string

const (
	PaymentMethodCard   PaymentMethod = "card"
	PaymentMethodBank   PaymentMethod = "bank"
	PaymentMethodPaypal PaymentMethod = "paypal"
	PaymentMethodCash   PaymentMethod = "cash"
	PaymentMethodOther  PaymentMethod = "other"
)

var validPaymentMethods = map[PaymentMethod]struct{}{
	PaymentMethodCard:   {},
	PaymentMethodBank:   {},
	PaymentMethodPaypal: {},
	PaymentMethodCash:   {},
	PaymentMethodOther:  {},
}

func ToPaymentMethod(s string) (PaymentMethod, error) {
	method := PaymentMethod(s)
	if _, ok := validPaymentMethods[method]; ok {
		return method, nil
	}

	return "", errors.New("invalid payment method")
}
