package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"

	"github.com/abdulrehan17773/am-backend/internal/apperror"
	"github.com/abdulrehan17773/am-backend/internal/domain"
	"github.com/abdulrehan17773/am-backend/internal/port"
	"github.com/abdulrehan17773/am-backend/internal/repository"
)

const featuredPageSize = 12

// CatalogService serves the public storefront views and the admin
// product management operations.
type CatalogService struct {
	products   port.ProductRepository
	categories port.CategoryRepository

	currency currency.Unit
}

func NewCatalogService(products port.ProductRepository, categories port.CategoryRepository, cur currency.Unit) *CatalogService {
	return &CatalogService{products: products, categories: categories, currency: cur}
}

// Featured returns active, in-stock featured products for the landing
// page.
func (s *CatalogService) Featured(ctx context.Context) ([]domain.ProductCard, error) {
	filter := domain.ProductFilter{
		OnlyActive:   true,
		OnlyFeatured: true,
		OnlyInStock:  true,
	}

	products, _, err := s.products.SearchProducts(ctx, filter, domain.Page{Number: 1, Limit: featuredPageSize})
	if err != nil {
		return nil, fmt.Errorf("products.SearchProducts: %w", err)
	}

	return s.toCards(ctx, products)
}

type ListProductsInput struct {
	Search   string
	Category string
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal
	Page     domain.Page
}

// ListProducts is the public listing: active products only, filtered by
// name search, price bounds and category. An unknown category name is
// ignored rather than rejected.
func (s *CatalogService) ListProducts(ctx context.Context, in ListProductsInput) ([]domain.ProductCard, int64, error) {
	filter := domain.ProductFilter{
		Search:     strings.TrimSpace(in.Search),
		MinPrice:   in.MinPrice,
		MaxPrice:   in.MaxPrice,
		OnlyActive: true,
	}

	if cat := strings.TrimSpace(in.Category); cat != "" {
		categoryID, err := s.resolveCategory(ctx, cat)
		if err != nil {
			return nil, 0, err
		}
		filter.CategoryID = categoryID
	}

	products, total, err := s.products.SearchProducts(ctx, filter, in.Page)
	if err != nil {
		return nil, 0, fmt.Errorf("products.SearchProducts: %w", err)
	}

	cards, err := s.toCards(ctx, products)
	if err != nil {
		return nil, 0, err
	}

	return cards, total, nil
}

// ProductDetails returns one active product with its category name.
func (s *CatalogService) ProductDetails(ctx context.Context, productID uuid.UUID) (domain.ProductCard, error) {
	var card domain.ProductCard

	product, err := s.getProduct(ctx, productID)
	if err != nil {
		return card, err
	}
	if !product.IsActive {
		return card, apperror.NotFound("product not found")
	}

	cards, err := s.toCards(ctx, []domain.Product{product})
	if err != nil {
		return card, err
	}

	return cards[0], nil
}

type CreateProductInput struct {
	Name        string
	Description string
	Price       decimal.Decimal
	Discount    int32
	CategoryID  uuid.UUID
	Images      []domain.ProductImage
	Variants    []domain.ProductVariant
	IsActive    bool
	IsFeatured  bool
}

func (s *CatalogService) CreateProduct(ctx context.Context, in CreateProductInput) (domain.Product, error) {
	var p domain.Product

	if strings.TrimSpace(in.Name) == "" {
		return p, apperror.Validation("product name is required")
	}
	if in.Price.IsNegative() {
		return p, apperror.Validation("price cannot be negative")
	}
	if in.Discount < 0 || in.Discount > 100 {
		return p, apperror.Validation("discount must be between 0 and 100")
	}
	if err := validateVariants(in.Variants); err != nil {
		return p, err
	}

	if _, err := s.categories.GetCategory(ctx, in.CategoryID); err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			return p, apperror.NotFound("category not found")
		}
		return p, fmt.Errorf("categories.GetCategory: %w", err)
	}

	product := domain.Product{
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		Price:       domain.Money{Amount: in.Price, Currency: s.currency},
		Discount:    in.Discount,
		CategoryID:  in.CategoryID,
		Images:      in.Images,
		Variants:    in.Variants,
		IsActive:    in.IsActive,
		IsFeatured:  in.IsFeatured,
	}

	stored, err := s.products.InsertProduct(ctx, product)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return p, apperror.Conflict("product with this name already exists")
		}
		return p, fmt.Errorf("products.InsertProduct: %w", err)
	}

	return stored, nil
}

type UpdateProductInput struct {
	Name        *string
	Description *string
	Price       *decimal.Decimal
	Discount    *int32
	CategoryID  *uuid.UUID
}

func (s *CatalogService) UpdateProduct(ctx context.Context, productID uuid.UUID, in UpdateProductInput) (domain.Product, error) {
	var p domain.Product

	product, err := s.getProduct(ctx, productID)
	if err != nil {
		return p, err
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return p, apperror.Validation("product name cannot be empty")
		}
		product.Name = name
	}
	if in.Description != nil {
		product.Description = *in.Description
	}
	if in.Price != nil {
		if in.Price.IsNegative() {
			return p, apperror.Validation("price cannot be negative")
		}
		product.Price = domain.Money{Amount: *in.Price, Currency: product.Price.Currency}
	}
	if in.Discount != nil {
		if *in.Discount < 0 || *in.Discount > 100 {
			return p, apperror.Validation("discount must be between 0 and 100")
		}
		product.Discount = *in.Discount
	}
	if in.CategoryID != nil {
		if _, err := s.categories.GetCategory(ctx, *in.CategoryID); err != nil {
			if errors.Is(err, repository.ErrCategoryNotFound) {
				return p, apperror.NotFound("category not found")
			}
			return p, fmt.Errorf("categories.GetCategory: %w", err)
		}
		product.CategoryID = *in.CategoryID
	}

	stored, err := s.products.UpdateProduct(ctx, product)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return p, apperror.NotFound("product not found")
		}
		if errors.Is(err, repository.ErrDuplicate) {
			return p, apperror.Conflict("product with this name already exists")
		}
		return p, fmt.Errorf("products.UpdateProduct: %w", err)
	}

	return stored, nil
}

func (s *CatalogService) ToggleActive(ctx context.Context, productID uuid.UUID) (domain.Product, error) {
	return s.toggleFlag(ctx, productID, s.products.SetActive, func(p domain.Product) bool { return p.IsActive })
}

func (s *CatalogService) ToggleFeatured(ctx context.Context, productID uuid.UUID) (domain.Product, error) {
	return s.toggleFlag(ctx, productID, s.products.SetFeatured, func(p domain.Product) bool { return p.IsFeatured })
}

func (s *CatalogService) toggleFlag(ctx context.Context, productID uuid.UUID,
	set func(context.Context, uuid.UUID, bool) error, get func(domain.Product) bool,
) (domain.Product, error) {
	var p domain.Product

	product, err := s.getProduct(ctx, productID)
	if err != nil {
		return p, err
	}

	if err := set(ctx, productID, !get(product)); err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return p, apperror.NotFound("product not found")
		}
		return p, fmt.Errorf("products set flag: %w", err)
	}

	return s.getProduct(ctx, productID)
}

// UpdateVariants replaces the whole variant set and recomputes total
// stock in one transaction.
func (s *CatalogService) UpdateVariants(ctx context.Context, productID uuid.UUID, variants []domain.ProductVariant) (domain.Product, error) {
	var p domain.Product

	if err := validateVariants(variants); err != nil {
		return p, err
	}

	if err := s.products.ReplaceVariants(ctx, productID, variants); err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return p, apperror.NotFound("product not found")
		}
		return p, fmt.Errorf("products.ReplaceVariants: %w", err)
	}

	return s.getProduct(ctx, productID)
}

func (s *CatalogService) AddImage(ctx context.Context, productID uuid.UUID, url, alt string) (domain.Product, error) {
	var p domain.Product

	if strings.TrimSpace(url) == "" {
		return p, apperror.Validation("image url is required")
	}

	if _, err := s.getProduct(ctx, productID); err != nil {
		return p, err
	}

	if _, err := s.products.AddImage(ctx, productID, domain.ProductImage{URL: url, Alt: alt}); err != nil {
		return p, fmt.Errorf("products.AddImage: %w", err)
	}

	return s.getProduct(ctx, productID)
}

func (s *CatalogService) RemoveImage(ctx context.Context, productID, imageID uuid.UUID) (domain.Product, error) {
	var p domain.Product

	if _, err := s.getProduct(ctx, productID); err != nil {
		return p, err
	}

	if err := s.products.RemoveImage(ctx, productID, imageID); err != nil {
		if errors.Is(err, repository.ErrImageNotFound) {
			return p, apperror.NotFound("image not found")
		}
		return p, fmt.Errorf("products.RemoveImage: %w", err)
	}

	return s.getProduct(ctx, productID)
}

func (s *CatalogService) DeleteProduct(ctx context.Context, productID uuid.UUID) error {
	if err := s.products.SoftDeleteProduct(ctx, productID); err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return apperror.NotFound("product not found")
		}
		return fmt.Errorf("products.SoftDeleteProduct: %w", err)
	}
	return nil
}

// AdminListProducts sees inactive products too.
func (s *CatalogService) AdminListProducts(ctx context.Context, in ListProductsInput) ([]domain.ProductCard, int64, error) {
	filter := domain.ProductFilter{
		Search:   strings.TrimSpace(in.Search),
		MinPrice: in.MinPrice,
		MaxPrice: in.MaxPrice,
	}

	if cat := strings.TrimSpace(in.Category); cat != "" {
		categoryID, err := s.resolveCategory(ctx, cat)
		if err != nil {
			return nil, 0, err
		}
		filter.CategoryID = categoryID
	}

	products, total, err := s.products.SearchProducts(ctx, filter, in.Page)
	if err != nil {
		return nil, 0, fmt.Errorf("products.SearchProducts: %w", err)
	}

	cards, err := s.toCards(ctx, products)
	if err != nil {
		return nil, 0, err
	}

	return cards, total, nil
}

func (s *CatalogService) AdminGetProduct(ctx context.Context, productID uuid.UUID) (domain.ProductCard, error) {
	var card domain.ProductCard

	product, err := s.getProduct(ctx, productID)
	if err != nil {
		return card, err
	}

	cards, err := s.toCards(ctx, []domain.Product{product})
	if err != nil {
		return card, err
	}

	return cards[0], nil
}

func (s *CatalogService) getProduct(ctx context.Context, productID uuid.UUID) (domain.Product, error) {
	product, err := s.products.GetProduct(ctx, productID)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return product, apperror.NotFound("product not found")
		}
		return product, fmt.Errorf("products.GetProduct: %w", err)
	}
	return product, nil
}

// resolveCategory accepts either a category id or a category name.
// Unknown values resolve to no filter at all.
func (s *CatalogService) resolveCategory(ctx context.Context, value string) (*uuid.UUID, error) {
	if id, err := uuid.Parse(value); err == nil {
		return &id, nil
	}

	category, err := s.categories.GetCategoryByName(ctx, value)
	if err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("categories.GetCategoryByName: %w", err)
	}

	return &category.ID, nil
}

func (s *CatalogService) toCards(ctx context.Context, products []domain.Product) ([]domain.ProductCard, error) {
	categoryIDs := lo.Uniq(lo.Map(products, func(p domain.Product, _ int) uuid.UUID { return p.CategoryID }))

	names := make(map[uuid.UUID]string, len(categoryIDs))
	for _, id := range categoryIDs {
		category, err := s.categories.GetCategory(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrCategoryNotFound) {
				continue
			}
			return nil, fmt.Errorf("categories.GetCategory: %w", err)
		}
		names[id] = category.Name
	}

	cards := make([]domain.ProductCard, 0, len(products))
	for _, p := range products {
		cards = append(cards, domain.ProductCard{Product: p, CategoryName: names[p.CategoryID]})
	}

	return cards, nil
}

func validateVariants(variants []domain.ProductVariant) error {
	seen := make(map[domain.Variant]struct{}, len(variants))

	for _, v := range variants {
		if err := v.Variant.Validate(); err != nil {
			return apperror.Validation("invalid variant: %v", err)
		}
		if v.Stock < 0 {
			return apperror.Validation("variant stock cannot be negative")
		}
		if _, ok := seen[v.Variant]; ok {
			return apperror.Validation("duplicate variant %s/%s", v.Size, v.Color)
		}
		seen[v.Variant] = struct{}{}
	}

	return nil
}
