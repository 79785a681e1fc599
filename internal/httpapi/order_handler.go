package httpapi

import (
	"net/http"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/abdulrehan17773/am-backend/internal/apperror"
	"github.com/abdulrehan17773/am-backend/internal/domain"
	"github.com/abdulrehan17773/am-backend/internal/service"
)

type placeOrderRequest struct {
	DeliveryFee   string           `json:"deliveryFee"`
	PaymentMethod string           `json:"paymentMethod"`
	Address       *orderAddressDTO `json:"address"`
}

func (a *API) handlePlaceOrder(w http.ResponseWriter, r *http.Request) {
	var req placeOrderRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, a.logger, err)
		return
	}

	fee := decimal.Zero
	if req.DeliveryFee != "" {
		var err error
		if fee, err = decimal.NewFromString(req.DeliveryFee); err != nil {
			writeError(w, a.logger, apperror.Validation("invalid deliveryFee"))
			return
		}
	}

	in := service.PlaceOrderInput{
		DeliveryFee:    fee,
		PaymentMethod:  req.PaymentMethod,
		IdempotencyKey: r.Header.Get("Idempotency-Key"),
	}

	if req.Address != nil {
		in.Address = &domain.OrderAddress{
			FullName:   req.Address.FullName,
			Phone:      req.Address.Phone,
			Line1:      req.Address.Line1,
			Line2:      req.Address.Line2,
			City:       req.Address.City,
			State:      req.Address.State,
			PostalCode: req.Address.PostalCode,
			Country:    req.Address.Country,
		}
	}

	order, err := a.orders.PlaceOrder(r.Context(), mustUser(r), in)
	if err != nil {
		writeError(w, a.logger, err)
		return
	}

	writeSuccess(w, http.StatusCreated, toOrderDTO(order), "order placed")
}

func (a *API) handleCancelOrder(w http.ResponseWriter, r *http.Request) {
	order, err := a.orders.CancelOrder(r.Context(), mustUser(r), r.PathValue("orderId"))
	if err != nil {
		writeError(w, a.logger, err)
		return
	}

	writeSuccess(w, http.StatusOK, toOrderDTO(order), "order cancelled")
}

func (a *API) handleListOrders(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	in := service.ListOrdersInput{
		Status: q.Get("status"),
		Search: q.Get("search"),
		Page:   parsePage(r),
	}

	orders, total, err := a.orders.ListOrders(r.Context(), mustUser(r), in)
	if err != nil {
		writeError(w, a.logger, err)
		return
	}

	items := lo.Map(orders, func(o domain.Order, _ int) orderDTO { return toOrderDTO(o) })
	writeSuccess(w, http.StatusOK, toPageDTO(items, total, in.Page), "orders")
}

func (a *API) handleGetOrder(w http.ResponseWriter, r *http.Request) {
	detail, err := a.orders.GetOrderDetail(r.Context(), mustUser(r), r.PathValue("orderId"))
	if err != nil {
		writeError(w, a.logger, err)
		return
	}

	writeSuccess(w, http.StatusOK, toOrderDetailDTO(detail), "order details")
}

// admin

func (a *API) handleAdminListOrders(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	in := service.ListOrdersInput{
		Status:        q.Get("status"),
		PaymentStatus: q.Get("paymentStatus"),
		Search:        q.Get("search"),
		Page:          parsePage(r),
	}

	details, total, err := a.orders.AdminListOrders(r.Context(), in)
	if err != nil {
		writeError(w, a.logger, err)
		return
	}

	items := lo.Map(details, func(d domain.OrderDetail, _ int) orderDTO { return toOrderDetailDTO(d) })
	writeSuccess(w, http.StatusOK, toPageDTO(items, total, in.Page), "orders")
}

func (a *API) handleAdminGetOrder(w http.ResponseWriter, r *http.Request) {
	detail, err := a.orders.AdminGetOrder(r.Context(), r.PathValue("orderId"))
	if err != nil {
		writeError(w, a.logger, err)
		return
	}

	writeSuccess(w, http.StatusOK, toOrderDetailDTO(detail), "order details")
}

type rejectOrderRequest struct {
	RejectReason string `json:"rejectReason"`
}

func (a *API) handleRejectOrder(w http.ResponseWriter, r *http.Request) {
	var req rejectOrderRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, a.logger, err)
		return
	}

	order, err := a.orders.RejectOrder(r.Context(), r.PathValue("orderId"), req.RejectReason)
	if err != nil {
		writeError(w, a.logger, err)
		return
	}

	writeSuccess(w, http.StatusOK, toOrderDTO(order), "order rejected")
}

type updatePaymentRequest struct {
	PaymentStatus string `json:"paymentStatus"`
}

func (a *API) handleUpdatePayment(w http.ResponseWriter, r *http.Request) {
	var req updatePaymentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, a.logger, err)
		return
	}

	order, err := a.orders.UpdatePaymentStatus(r.Context(), r.PathValue("orderId"), req.PaymentStatus)
	if err != nil {
		writeError(w, a.logger, err)
		return
	}

	writeSuccess(w, http.StatusOK, toOrderDTO(order), "payment status updated")
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

func (a *API) handleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req updateStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, a.logger, err)
		return
	}

	order, err := a.orders.UpdateStatus(r.Context(), r.PathValue("orderId"), req.Status)
	if err != nil {
		writeError(w, a.logger, err)
		return
	}

	writeSuccess(w, http.StatusOK, toOrderDTO(order), "order status updated")
}

func (a *API) handleAdminDeleteOrder(w http.ResponseWriter, r *http.Request) {
	if err := a.orders.AdminDeleteOrder(r.Context(), r.PathValue("orderId")); err != nil {
		writeError(w, a.logger, err)
		return
	}

	writeSuccess(w, http.StatusOK, nil, "order deleted")
}
