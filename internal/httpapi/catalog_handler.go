package httpapi

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/abdulrehan17773/am-backend/internal/apperror"
	"github.com/abdulrehan17773/am-backend/internal/domain"
	"github.com/abdulrehan17773/am-backend/internal/service"
)

func (a *API) handleFeatured(w http.ResponseWriter, r *http.Request) {
	cards, err := a.catalog.Featured(r.Context())
	if err != nil {
		writeError(w, a.logger, err)
		return
	}

	writeSuccess(w, http.StatusOK, toProductCardDTOs(cards), "featured products")
}

func (a *API) handleListProducts(w http.ResponseWriter, r *http.Request) {
	in, err := listProductsInput(r)
	if err != nil {
		writeError(w, a.logger, err)
		return
	}

	cards, total, err := a.catalog.ListProducts(r.Context(), in)
	if err != nil {
		writeError(w, a.logger, err)
		return
	}

	writeSuccess(w, http.StatusOK, toPageDTO(toProductCardDTOs(cards), total, in.Page), "products")
}

func (a *API) handleProductDetails(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, a.logger, err)
		return
	}

	card, err := a.catalog.ProductDetails(r.Context(), id)
	if err != nil {
		writeError(w, a.logger, err)
		return
	}

	writeSuccess(w, http.StatusOK, toProductDTO(card.Product, card.CategoryName), "product details")
}

func (a *API) handleListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := a.categories.List(r.Context())
	if err != nil {
		writeError(w, a.logger, err)
		return
	}

	writeSuccess(w, http.StatusOK, lo.Map(categories, func(c domain.Category, _ int) categoryDTO {
		return toCategoryDTO(c)
	}), "categories")
}

func listProductsInput(r *http.Request) (service.ListProductsInput, error) {
	q := r.URL.Query()

	in := service.ListProductsInput{
		Search:   q.Get("search"),
		Category: q.Get("category"),
		Page:     parsePage(r),
	}

	if raw := q.Get("minPrice"); raw != "" {
		price, err := decimal.NewFromString(raw)
		if err != nil {
			return in, apperror.Validation("invalid minPrice")
		}
		in.MinPrice = &price
	}
	if raw := q.Get("maxPrice"); raw != "" {
		price, err := decimal.NewFromString(raw)
		if err != nil {
			return in, apperror.Validation("invalid maxPrice")
		}
		in.MaxPrice = &price
	}

	return in, nil
}

// admin: products

type createProductRequest struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       string  `json:"price"`
	Discount    int32   `json:"discount"`
	CategoryID  string  `json:"categoryId"`
	IsActive    *bool   `json:"isActive"`
	IsFeatured  bool    `json:"isFeatured"`

	Images   []addImageRequest `json:"images"`
	Variants []variantDTO      `json:"variants"`
}

func (a *API) handleAdminCreateProduct(w http.ResponseWriter, r *http.Request) {
	var req createProductRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, a.logger, err)
		return
	}

	price, err := decimal.NewFromString(req.Price)
	if err != nil {
		writeError(w, a.logger, apperror.Validation("invalid price"))
		return
	}

	categoryID, err := uuid.Parse(req.CategoryID)
	if err != nil {
		writeError(w, a.logger, apperror.Validation("invalid categoryId"))
		return
	}

	// New products default to active unless explicitly disabled.
	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}

	in := service.CreateProductInput{
		Name:        req.Name,
		Description: req.Description,
		Price:       price,
		Discount:    req.Discount,
		CategoryID:  categoryID,
		IsActive:    active,
		IsFeatured:  req.IsFeatured,
		Images: lo.Map(req.Images, func(i addImageRequest, _ int) domain.ProductImage {
			return domain.ProductImage{URL: i.URL, Alt: i.Alt}
		}),
		Variants: lo.Map(req.Variants, func(v variantDTO, _ int) domain.ProductVariant {
			return domain.ProductVariant{
				Variant: domain.Variant{Size: v.Size, Color: v.Color},
				Stock:   v.Stock,
			}
		}),
	}

	product, err := a.catalog.CreateProduct(r.Context(), in)
	if err != nil {
		writeError(w, a.logger, err)
		return
	}

	writeSuccess(w, http.StatusCreated, toProductDTO(product, ""), "product created")
}

type updateProductRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Price       *string `json:"price"`
	Discount    *int32  `json:"discount"`
	CategoryID  *string `json:"categoryId"`
}

func (a *API) handleAdminUpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, a.logger, err)
		return
	}

	var req updateProductRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, a.logger, err)
		return
	}

	in := service.UpdateProductInput{
		Name:        req.Name,
		Description: req.Description,
		Discount:    req.Discount,
	}

	if req.Price != nil {
		price, err := decimal.NewFromString(*req.Price)
		if err != nil {
			writeError(w, a.logger, apperror.Validation("invalid price"))
			return
		}
		in.Price = &price
	}
	if req.CategoryID != nil {
		categoryID, err := uuid.Parse(*req.CategoryID)
		if err != nil {
			writeError(w, a.logger, apperror.Validation("invalid categoryId"))
			return
		}
		in.CategoryID = &categoryID
	}

	product, err := a.catalog.UpdateProduct(r.Context(), id, in)
	if err != nil {
		writeError(w, a.logger, err)
		return
	}

	writeSuccess(w, http.StatusOK, toProductDTO(product, ""), "product updated")
}

func (a *API) handleToggleActive(w http.ResponseWriter, r *http.Request) {
	a.toggleProductFlag(w, r, a.catalog.ToggleActive, "product active flag toggled")
}

func (a *API) handleToggleFeatured(w http.ResponseWriter, r *http.Request) {
	a.toggleProductFlag(w, r, a.catalog.ToggleFeatured, "product featured flag toggled")
}

func (a *API) toggleProductFlag(w http.ResponseWriter, r *http.Request,
	toggle func(ctx context.Context, id uuid.UUID) (domain.Product, error), message string,
) {
	id, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, a.logger, err)
		return
	}

	product, err := toggle(r.Context(), id)
	if err != nil {
		writeError(w, a.logger, err)
		return
	}

	writeSuccess(w, http.StatusOK, toProductDTO(product, ""), message)
}

type updateVariantsRequest struct {
	Variants []variantDTO `json:"variants"`
}

func (a *API) handleUpdateVariants(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, a.logger, err)
		return
	}

	var req updateVariantsRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, a.logger, err)
		return
	}

	variants := lo.Map(req.Variants, func(v variantDTO, _ int) domain.ProductVariant {
		return domain.ProductVariant{
			Variant: domain.Variant{Size: v.Size, Color: v.Color},
			Stock:   v.Stock,
		}
	})

	product, err := a.catalog.UpdateVariants(r.Context(), id, variants)
	if err != nil {
		writeError(w, a.logger, err)
		return
	}

	writeSuccess(w, http.StatusOK, toProductDTO(product, ""), "product variants updated")
}

type addImageRequest struct {
	URL string `json:"url"`
	Alt string `json:"alt"`
}

func (a *API) handleAddImage(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, a.logger, err)
		return
	}

	var req addImageRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, a.logger, err)
		return
	}

	product, err := a.catalog.AddImage(r.Context(), id, req.URL, req.Alt)
	if err != nil {
		writeError(w, a.logger, err)
		return
	}

	writeSuccess(w, http.StatusOK, toProductDTO(product, ""), "image added")
}

type removeImageRequest struct {
	ImageID string `json:"imageId"`
}

func (a *API) handleRemoveImage(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, a.logger, err)
		return
	}

	var req removeImageRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, a.logger, err)
		return
	}

	imageID, err := uuid.Parse(req.ImageID)
	if err != nil {
		writeError(w, a.logger, apperror.Validation("invalid imageId"))
		return
	}

	product, err := a.catalog.RemoveImage(r.Context(), id, imageID)
	if err != nil {
		writeError(w, a.logger, err)
		return
	}

	writeSuccess(w, http.StatusOK, toProductDTO(product, ""), "image removed")
}

func (a *API) handleAdminDeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, a.logger, err)
		return
	}

	if err := a.catalog.DeleteProduct(r.Context(), id); err != nil {
		writeError(w, a.logger, err)
		return
	}

	writeSuccess(w, http.StatusOK, nil, "product deleted")
}

func (a *API) handleAdminListProducts(w http.ResponseWriter, r *http.Request) {
	in, err := listProductsInput(r)
	if err != nil {
		writeError(w, a.logger, err)
		return
	}

	cards, total, err := a.catalog.AdminListProducts(r.Context(), in)
	if err != nil {
		writeError(w, a.logger, err)
		return
	}

	writeSuccess(w, http.StatusOK, toPageDTO(toProductCardDTOs(cards), total, in.Page), "products")
}

func (a *API) handleAdminGetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, a.logger, err)
		return
	}

	card, err := a.catalog.AdminGetProduct(r.Context(), id)
	if err != nil {
		writeError(w, a.logger, err)
		return
	}

	writeSuccess(w, http.StatusOK, toProductDTO(card.Product, card.CategoryName), "product")
}

// admin: categories

func (a *API) handleAdminListCategories(w http.ResponseWriter, r *http.Request) {
	page := parsePage(r)

	categories, total, err := a.categories.Search(r.Context(), r.URL.Query().Get("search"), page)
	if err != nil {
		writeError(w, a.logger, err)
		return
	}

	items := lo.Map(categories, func(c domain.Category, _ int) categoryDTO { return toCategoryDTO(c) })
	writeSuccess(w, http.StatusOK, toPageDTO(items, total, page), "categories")
}

type categoryRequest struct {
	Name string `json:"name"`
}

func (a *API) handleAdminCreateCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, a.logger, err)
		return
	}

	category, err := a.categories.Create(r.Context(), req.Name)
	if err != nil {
		writeError(w, a.logger, err)
		return
	}

	writeSuccess(w, http.StatusCreated, toCategoryDTO(category), "category created")
}

func (a *API) handleAdminRenameCategory(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, a.logger, err)
		return
	}

	var req categoryRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, a.logger, err)
		return
	}

	category, err := a.categories.Rename(r.Context(), id, req.Name)
	if err != nil {
		writeError(w, a.logger, err)
		return
	}

	writeSuccess(w, http.StatusOK, toCategoryDTO(category), "category updated")
}

func (a *API) handleAdminDeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, a.logger, err)
		return
	}

	if err := a.categories.Delete(r.Context(), id); err != nil {
		writeError(w, a.logger, err)
		return
	}

	writeSuccess(w, http.StatusOK, nil, "category deleted")
}
