package port

import (
	"context"

	"github.com/google/uuid"

	"github.com/abdulrehan17773/am-backend/internal/domain"
)

type ProductRepository interface {
	GetProduct(ctx context.Context, productID uuid.UUID) (domain.Product, error)
	GetProducts(ctx context.Context, productIDs []uuid.UUID) (map[uuid.UUID]domain.Product, error)

	SearchProducts(ctx context.Context, filter domain.ProductFilter, page domain.Page) ([]domain.Product, int64, error)

	InsertProduct(ctx context.Context, product domain.Product) (domain.Product, error)
	UpdateProduct(ctx context.Context, product domain.Product) (domain.Product, error)

	SetActive(ctx context.Context, productID uuid.UUID, active bool) error
	SetFeatured(ctx context.Context, productID uuid.UUID, featured bool) error

	// ReplaceVariants swaps the variant set and refreshes total_stock.
	ReplaceVariants(ctx context.Context, productID uuid.UUID, variants []domain.ProductVariant) error

	AddImage(ctx context.Context, productID uuid.UUID, image domain.ProductImage) (domain.ProductImage, error)
	RemoveImage(ctx context.Context, productID, imageID uuid.UUID) error

	SoftDeleteProduct(ctx context.Context, productID uuid.UUID) error
}

type CategoryRepository interface {
	ListCategories(ctx context.Context) ([]domain.Category, error)
	SearchCategories(ctx context.Context, name string, page domain.Page) ([]domain.Category, int64, error)

	GetCategory(ctx context.Context, categoryID uuid.UUID) (domain.Category, error)
	GetCategoryByName(ctx context.Context, name string) (domain.Category, error)

	InsertCategory(ctx context.Context, name string) (domain.Category, error)
	RenameCategory(ctx context.Context, categoryID uuid.UUID, name string) (domain.Category, error)

	SoftDeleteCategory(ctx context.Context, categoryID uuid.UUID) error
}
