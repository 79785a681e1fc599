// Package httpapi exposes the storefront and admin operations over
// JSON HTTP with a uniform response envelope.
package httpapi

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/abdulrehan17773/am-backend/internal/apperror"
	"github.com/abdulrehan17773/am-backend/internal/domain"
	"github.com/abdulrehan17773/am-backend/internal/service"
	"github.com/abdulrehan17773/am-backend/pkg/metrics"
)

type API struct {
	auth       *service.AuthService
	users      *service.UserService
	catalog    *service.CatalogService
	categories *service.CategoryService
	cart       *service.CartService
	addresses  *service.AddressService
	orders     *service.OrderService

	logger  *slog.Logger
	metrics *metrics.ServerMetrics
}

type Deps struct {
	Auth       *service.AuthService
	Users      *service.UserService
	Catalog    *service.CatalogService
	Categories *service.CategoryService
	Cart       *service.CartService
	Addresses  *service.AddressService
	Orders     *service.OrderService

	Logger  *slog.Logger
	Metrics *metrics.ServerMetrics
}

func New(deps Deps) *API {
	return &API{
		auth:       deps.Auth,
		users:      deps.Users,
		catalog:    deps.Catalog,
		categories: deps.Categories,
		cart:       deps.Cart,
		addresses:  deps.Addresses,
		orders:     deps.Orders,
		logger:     deps.Logger,
		metrics:    deps.Metrics,
	}
}

func (a *API) Handler() http.Handler {
	mux := http.NewServeMux()

	// auth
	mux.HandleFunc("POST /api/v1/users/register", a.handleRegister)
	mux.HandleFunc("POST /api/v1/users/login", a.handleLogin)
	mux.HandleFunc("POST /api/v1/users/logout", a.requireAuth(a.handleLogout))
	mux.HandleFunc("GET /api/v1/users/me", a.requireAuth(a.handleMe))

	// public catalog
	mux.HandleFunc("GET /api/v1/pro/featured", a.handleFeatured)
	mux.HandleFunc("GET /api/v1/pro/getall", a.handleListProducts)
	mux.HandleFunc("GET /api/v1/pro/details/{id}", a.handleProductDetails)
	mux.HandleFunc("GET /api/v1/cat/getall", a.handleListCategories)

	// cart
	mux.HandleFunc("GET /api/v1/cart/getall", a.requireAuth(a.handleGetCart))
	mux.HandleFunc("POST /api/v1/cart/add", a.requireAuth(a.handleAddToCart))
	mux.HandleFunc("PUT /api/v1/cart/update/{id}", a.requireAuth(a.handleUpdateCartItem))
	mux.HandleFunc("DELETE /api/v1/cart/remove/{id}", a.requireAuth(a.handleRemoveCartItem))
	mux.HandleFunc("DELETE /api/v1/cart/clear", a.requireAuth(a.handleClearCart))

	// address
	mux.HandleFunc("GET /api/v1/address/get", a.requireAuth(a.handleGetAddress))
	mux.HandleFunc("POST /api/v1/address/add", a.requireAuth(a.handleAddAddress))
	mux.HandleFunc("PUT /api/v1/address/update", a.requireAuth(a.handleUpdateAddress))

	// orders
	mux.HandleFunc("POST /api/v1/orders/place", a.requireAuth(a.handlePlaceOrder))
	mux.HandleFunc("PUT /api/v1/orders/cancel/{orderId}", a.requireAuth(a.handleCancelOrder))
	mux.HandleFunc("GET /api/v1/orders/getall", a.requireAuth(a.handleListOrders))
	mux.HandleFunc("GET /api/v1/orders/order/{orderId}", a.requireAuth(a.handleGetOrder))

	// admin: orders
	mux.HandleFunc("GET /api/v1/admin/orders/getall", a.requireAdmin(a.handleAdminListOrders))
	mux.HandleFunc("GET /api/v1/admin/orders/get/{orderId}", a.requireAdmin(a.handleAdminGetOrder))
	mux.HandleFunc("PATCH /api/v1/admin/orders/reject/{orderId}", a.requireAdmin(a.handleRejectOrder))
	mux.HandleFunc("PATCH /api/v1/admin/orders/update-payment/{orderId}", a.requireAdmin(a.handleUpdatePayment))
	mux.HandleFunc("PATCH /api/v1/admin/orders/update-status/{orderId}", a.requireAdmin(a.handleUpdateStatus))
	mux.HandleFunc("DELETE /api/v1/admin/orders/delete/{orderId}", a.requireAdmin(a.handleAdminDeleteOrder))

	// admin: users
	mux.HandleFunc("GET /api/v1/admin/users/getall", a.requireAdmin(a.handleAdminListUsers))
	mux.HandleFunc("POST /api/v1/admin/users/create", a.requireAdmin(a.handleAdminCreateUser))
	mux.HandleFunc("PUT /api/v1/admin/users/update/{id}", a.requireAdmin(a.handleAdminUpdateUser))
	mux.HandleFunc("DELETE /api/v1/admin/users/delete/{id}", a.requireAdmin(a.handleAdminDeleteUser))

	// admin: categories
	mux.HandleFunc("GET /api/v1/admin/cat/getall", a.requireAdmin(a.handleAdminListCategories))
	mux.HandleFunc("POST /api/v1/admin/cat/create", a.requireAdmin(a.handleAdminCreateCategory))
	mux.HandleFunc("PUT /api/v1/admin/cat/update/{id}", a.requireAdmin(a.handleAdminRenameCategory))
	mux.HandleFunc("DELETE /api/v1/admin/cat/delete/{id}", a.requireAdmin(a.handleAdminDeleteCategory))

	// admin: products
	mux.HandleFunc("GET /api/v1/admin/pro/getall", a.requireAdmin(a.handleAdminListProducts))
	mux.HandleFunc("GET /api/v1/admin/pro/get/{id}", a.requireAdmin(a.handleAdminGetProduct))
	mux.HandleFunc("POST /api/v1/admin/pro/create", a.requireAdmin(a.handleAdminCreateProduct))
	mux.HandleFunc("PUT /api/v1/admin/pro/update/{id}", a.requireAdmin(a.handleAdminUpdateProduct))
	mux.HandleFunc("PUT /api/v1/admin/pro/toggle-active/{id}", a.requireAdmin(a.handleToggleActive))
	mux.HandleFunc("PUT /api/v1/admin/pro/toggle-featured/{id}", a.requireAdmin(a.handleToggleFeatured))
	mux.HandleFunc("PUT /api/v1/admin/pro/update-variants/{id}", a.requireAdmin(a.handleUpdateVariants))
	mux.HandleFunc("POST /api/v1/admin/pro/add-image/{id}", a.requireAdmin(a.handleAddImage))
	mux.HandleFunc("DELETE /api/v1/admin/pro/remove-image/{id}", a.requireAdmin(a.handleRemoveImage))
	mux.HandleFunc("DELETE /api/v1/admin/pro/delete/{id}", a.requireAdmin(a.handleAdminDeleteProduct))

	// ops
	mux.HandleFunc("GET /health", a.handleHealth)
	mux.Handle("GET /metrics", metrics.Handler())

	return a.instrument(mux)
}

func (a *API) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeSuccess(w, http.StatusOK, map[string]string{"status": "ok"}, "healthy")
}

// mustUser is only called behind requireAuth.
func mustUser(r *http.Request) domain.User {
	user, _ := UserFromContext(r.Context())
	return user
}

func parsePage(r *http.Request) domain.Page {
	q := r.URL.Query()

	page, _ := strconv.Atoi(q.Get("page"))
	limit, _ := strconv.Atoi(q.Get("limit"))

	return domain.Page{Number: page, Limit: limit}.Normalize()
}

func pathUUID(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(r.PathValue(name))
	if err != nil {
		return uuid.Nil, apperror.Validation("invalid %s", name)
	}
	return id, nil
}
