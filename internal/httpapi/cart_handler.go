package httpapi

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/abdulrehan17773/am-backend/internal/apperror"
	"github.com/abdulrehan17773/am-backend/internal/domain"
)

func (a *API) handleGetCart(w http.ResponseWriter, r *http.Request) {
	lines, err := a.cart.GetCart(r.Context(), mustUser(r).ID)
	if err != nil {
		writeError(w, a.logger, err)
		return
	}

	writeSuccess(w, http.StatusOK, lo.Map(lines, func(l domain.CartLine, _ int) cartLineDTO {
		return toCartLineDTO(l)
	}), "cart items")
}

type addToCartRequest struct {
	ProductID string `json:"productId"`
	Size      string `json:"size"`
	Color     string `json:"color"`
	Qty       int32  `json:"qty"`
}

func (a *API) handleAddToCart(w http.ResponseWriter, r *http.Request) {
	var req addToCartRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, a.logger, err)
		return
	}

	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		writeError(w, a.logger, apperror.Validation("invalid productId"))
		return
	}

	item, err := a.cart.AddItem(r.Context(), mustUser(r).ID, productID,
		domain.Variant{Size: req.Size, Color: req.Color}, req.Qty)
	if err != nil {
		writeError(w, a.logger, err)
		return
	}

	writeSuccess(w, http.StatusCreated, toCartItemDTO(item), "item added to cart")
}

type updateCartRequest struct {
	Qty int32 `json:"qty"`
}

func (a *API) handleUpdateCartItem(w http.ResponseWriter, r *http.Request) {
	itemID, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, a.logger, err)
		return
	}

	var req updateCartRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, a.logger, err)
		return
	}

	item, err := a.cart.UpdateQty(r.Context(), mustUser(r).ID, itemID, req.Qty)
	if err != nil {
		writeError(w, a.logger, err)
		return
	}

	message := "cart item updated"
	if item.Qty == 0 {
		message = "cart item removed"
	}

	writeSuccess(w, http.StatusOK, toCartItemDTO(item), message)
}

func (a *API) handleRemoveCartItem(w http.ResponseWriter, r *http.Request) {
	itemID, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, a.logger, err)
		return
	}

	if err := a.cart.RemoveItem(r.Context(), mustUser(r).ID, itemID); err != nil {
		writeError(w, a.logger, err)
		return
	}

	writeSuccess(w, http.StatusOK, nil, "cart item removed")
}

func (a *API) handleClearCart(w http.ResponseWriter, r *http.Request) {
	cleared, err := a.cart.ClearCart(r.Context(), mustUser(r).ID)
	if err != nil {
		writeError(w, a.logger, err)
		return
	}

	writeSuccess(w, http.StatusOK, map[string]int64{"removed": cleared}, "cart cleared")
}
