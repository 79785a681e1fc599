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

type productRepository struct {
	db DB
}

func NewProduct(pool *pgxpool.Pool) port.ProductRepository {
	return &productRepository{db: pool}
}

func NewProductWithTx(tx pgx.Tx) port.ProductRepository {
	return &productRepository{db: tx}
}

const productColumns = `id, name, description, price_amount::text, price_currency, discount,
	category_id, total_stock, is_active, is_featured, created_at, updated_at`

func (r *productRepository) GetProduct(ctx context.Context, productID uuid.UUID) (domain.Product, error) {
	var p domain.Product

	row := r.db.QueryRow(ctx,
		fmt.Sprintf("SELECT %s FROM products WHERE id = $1 AND deleted_at IS NULL", productColumns),
		productID)

	product, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return p, fmt.Errorf("scanProduct: %w", ErrProductNotFound)
		}
		return p, fmt.Errorf("scanProduct: %w", err)
	}

	products := []domain.Product{product}
	if err := r.attachRelations(ctx, products); err != nil {
		return p, fmt.Errorf("attachRelations: %w", err)
	}

	return products[0], nil
}

func (r *productRepository) GetProducts(ctx context.Context, productIDs []uuid.UUID) (map[uuid.UUID]domain.Product, error) {
	if len(productIDs) == 0 {
		return map[uuid.UUID]domain.Product{}, nil
	}

	rows, err := r.db.Query(ctx,
		fmt.Sprintf("SELECT %s FROM products WHERE id = ANY($1) AND deleted_at IS NULL", productColumns),
		productIDs)
	if err != nil {
		return nil, fmt.Errorf("products query: %w", err)
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scanProduct: %w", err)
		}
		products = append(products, product)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows.Err: %w", err)
	}

	if err := r.attachRelations(ctx, products); err != nil {
		return nil, fmt.Errorf("attachRelations: %w", err)
	}

	return lo.SliceToMap(products, func(p domain.Product) (uuid.UUID, domain.Product) {
		return p.ID, p
	}), nil
}

func (r *productRepository) SearchProducts(ctx context.Context, filter domain.ProductFilter, page domain.Page) ([]domain.Product, int64, error) {
	conds := []string{"deleted_at IS NULL"}
	var args []any

	if filter.OnlyActive {
		conds = append(conds, "is_active")
	}
	if filter.OnlyFeatured {
		conds = append(conds, "is_featured")
	}
	if filter.OnlyInStock {
		conds = append(conds, "total_stock > 0")
	}
	if filter.Search != "" {
		args = append(args, likePattern(filter.Search))
		conds = append(conds, fmt.Sprintf("name ILIKE $%d", len(args)))
	}
	if filter.MinPrice != nil {
		args = append(args, filter.MinPrice.String())
		conds = append(conds, fmt.Sprintf("price_amount >= $%d::numeric", len(args)))
	}
	if filter.MaxPrice != nil {
		args = append(args, filter.MaxPrice.String())
		conds = append(conds, fmt.Sprintf("price_amount <= $%d::numeric", len(args)))
	}
	if filter.CategoryID != nil {
		args = append(args, *filter.CategoryID)
		conds = append(conds, fmt.Sprintf("category_id = $%d", len(args)))
	}

	where := strings.Join(conds, " AND ")

	var total int64
	if err := r.db.QueryRow(ctx,
		fmt.Sprintf("SELECT count(*) FROM products WHERE %s", where), args...,
	).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("products count: %w", err)
	}

	page = page.Normalize()
	args = append(args, page.Limit, page.Offset())
	query := fmt.Sprintf(
		"SELECT %s FROM products WHERE %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d",
		productColumns, where, len(args)-1, len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("products query: %w", err)
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scanProduct: %w", err)
		}
		products = append(products, product)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("rows.Err: %w", err)
	}

	if err := r.attachRelations(ctx, products); err != nil {
		return nil, 0, fmt.Errorf("attachRelations: %w", err)
	}

	return products, total, nil
}

func (r *productRepository) InsertProduct(ctx context.Context, product domain.Product) (domain.Product, error) {
	var p domain.Product

	if product.Name == "" {
		return p, errors.New("name is empty")
	}

	stored, err := withTx(ctx, r.db, func(tx pgx.Tx) (domain.Product, error) {
		product.TotalStock = product.ComputeTotalStock()

		row := tx.QueryRow(ctx, `
			INSERT INTO products (name, description, price_amount, price_currency, discount, category_id, total_stock, is_active, is_featured)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			RETURNING id, created_at, updated_at`,
			product.Name, product.Description,
			product.Price.Amount.String(), product.Price.Currency.String(),
			product.Discount, product.CategoryID, product.TotalStock,
			product.IsActive, product.IsFeatured)

		stored := product
		if err := row.Scan(&stored.ID, &stored.CreatedAt, &stored.UpdatedAt); err != nil {
			if isUniqueViolation(err) {
				return p, fmt.Errorf("products insert: %w", ErrDuplicate)
			}
			return p, fmt.Errorf("products insert: %w", err)
		}

		for i, img := range product.Images {
			if err := insertImage(ctx, tx, stored.ID, img, i); err != nil {
				return p, fmt.Errorf("insertImage: %w", err)
			}
		}

		for _, v := range product.Variants {
			if err := insertVariant(ctx, tx, stored.ID, v); err != nil {
				return p, fmt.Errorf("insertVariant: %w", err)
			}
		}

		return stored, nil
	})
	if err != nil {
		return p, fmt.Errorf("withTx: %w", err)
	}

	return r.GetProduct(ctx, stored.ID)
}

func (r *productRepository) UpdateProduct(ctx context.Context, product domain.Product) (domain.Product, error) {
	var p domain.Product

	cmdTag, err := r.db.Exec(ctx, `
		UPDATE products
		SET name = $2, description = $3, price_amount = $4, discount = $5, category_id = $6, updated_at = now()
		WHERE id = $1 AND deleted_at IS NULL`,
		product.ID, product.Name, product.Description,
		product.Price.Amount.String(), product.Discount, product.CategoryID)
	if err != nil {
		if isUniqueViolation(err) {
			return p, fmt.Errorf("products update: %w", ErrDuplicate)
		}
		return p, fmt.Errorf("products update: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return p, ErrProductNotFound
	}

	return r.GetProduct(ctx, product.ID)
}

func (r *productRepository) SetActive(ctx context.Context, productID uuid.UUID, active bool) error {
	return r.setFlag(ctx, productID, "is_active", active)
}

func (r *productRepository) SetFeatured(ctx context.Context, productID uuid.UUID, featured bool) error {
	return r.setFlag(ctx, productID, "is_featured", featured)
}

func (r *productRepository) setFlag(ctx context.Context, productID uuid.UUID, column string, value bool) error {
	cmdTag, err := r.db.Exec(ctx,
		fmt.Sprintf("UPDATE products SET %s = $2, updated_at = now() WHERE id = $1 AND deleted_at IS NULL", column),
		productID, value)
	if err != nil {
		return fmt.Errorf("products update: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return ErrProductNotFound
	}

	return nil
}

func (r *productRepository) ReplaceVariants(ctx context.Context, productID uuid.UUID, variants []domain.ProductVariant) error {
	if _, err := withTx(ctx, r.db, func(tx pgx.Tx) (struct{}, error) {
		var zero struct{}

		if _, err := tx.Exec(ctx, "DELETE FROM product_variants WHERE product_id = $1", productID); err != nil {
			return zero, fmt.Errorf("product_variants delete: %w", err)
		}

		var totalStock int32
		for _, v := range variants {
			if err := insertVariant(ctx, tx, productID, v); err != nil {
				return zero, fmt.Errorf("insertVariant: %w", err)
			}
			totalStock += v.Stock
		}

		cmdTag, err := tx.Exec(ctx,
			"UPDATE products SET total_stock = $2, updated_at = now() WHERE id = $1 AND deleted_at IS NULL",
			productID, totalStock)
		if err != nil {
			return zero, fmt.Errorf("products update: %w", err)
		}
		if cmdTag.RowsAffected() == 0 {
			return zero, ErrProductNotFound
		}

		return zero, nil
	}); err != nil {
		return fmt.Errorf("withTx: %w", err)
	}

	return nil
}

func (r *productRepository) AddImage(ctx context.Context, productID uuid.UUID, image domain.ProductImage) (domain.ProductImage, error) {
	var img domain.ProductImage

	row := r.db.QueryRow(ctx, `
		INSERT INTO product_images (product_id, url, alt, position)
		SELECT $1, $2, $3, COALESCE(MAX(position) + 1, 0)
		FROM product_images WHERE product_id = $1
		RETURNING id`,
		productID, image.URL, image.Alt)

	stored := image
	if err := row.Scan(&stored.ID); err != nil {
		return img, fmt.Errorf("product_images insert: %w", err)
	}

	return stored, nil
}

func (r *productRepository) RemoveImage(ctx context.Context, productID, imageID uuid.UUID) error {
	cmdTag, err := r.db.Exec(ctx,
		"DELETE FROM product_images WHERE id = $1 AND product_id = $2",
		imageID, productID)
	if err != nil {
		return fmt.Errorf("product_images delete: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return ErrImageNotFound
	}

	return nil
}

func (r *productRepository) SoftDeleteProduct(ctx context.Context, productID uuid.UUID) error {
	if productID == uuid.Nil {
		return fmt.Errorf("productID is empty")
	}

	cmdTag, err := r.db.Exec(ctx,
		"UPDATE products SET deleted_at = now(), updated_at = now() WHERE id = $1 AND deleted_at IS NULL",
		productID)
	if err != nil {
		return fmt.Errorf("products update: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return ErrProductNotFound
	}

	return nil
}

func insertImage(ctx context.Context, db DB, productID uuid.UUID, image domain.ProductImage, position int) error {
	_, err := db.Exec(ctx,
		"INSERT INTO product_images (product_id, url, alt, position) VALUES ($1, $2, $3, $4)",
		productID, image.URL, image.Alt, position)
	return err
}

func insertVariant(ctx context.Context, db DB, productID uuid.UUID, v domain.ProductVariant) error {
	_, err := db.Exec(ctx,
		"INSERT INTO product_variants (product_id, size, color, stock) VALUES ($1, $2, $3, $4)",
		productID, v.Size, v.Color, v.Stock)
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	return err
}

// attachRelations batch-loads images and variants for the given products.
func (r *productRepository) attachRelations(ctx context.Context, products []domain.Product) error {
	if len(products) == 0 {
		return nil
	}

	ids := lo.Map(products, func(p domain.Product, _ int) uuid.UUID { return p.ID })

	images, err := r.loadImages(ctx, ids)
	if err != nil {
		return fmt.Errorf("loadImages: %w", err)
	}

	variants, err := r.loadVariants(ctx, ids)
	if err != nil {
		return fmt.Errorf("loadVariants: %w", err)
	}

	for i := range products {
		products[i].Images = images[products[i].ID]
		products[i].Variants = variants[products[i].ID]
	}

	return nil
}

func (r *productRepository) loadImages(ctx context.Context, productIDs []uuid.UUID) (map[uuid.UUID][]domain.ProductImage, error) {
	rows, err := r.db.Query(ctx, `
		SELECT product_id, id, url, alt
		FROM product_images
		WHERE product_id = ANY($1)
		ORDER BY product_id, position`, productIDs)
	if err != nil {
		return nil, fmt.Errorf("product_images query: %w", err)
	}
	defer rows.Close()

	result := make(map[uuid.UUID][]domain.ProductImage)
	for rows.Next() {
		var (
			productID uuid.UUID
			img       domain.ProductImage
		)
		if err := rows.Scan(&productID, &img.ID, &img.URL, &img.Alt); err != nil {
			return nil, fmt.Errorf("product_images scan: %w", err)
		}
		result[productID] = append(result[productID], img)
	}

	return result, rows.Err()
}

func (r *productRepository) loadVariants(ctx context.Context, productIDs []uuid.UUID) (map[uuid.UUID][]domain.ProductVariant, error) {
	rows, err := r.db.Query(ctx, `
		SELECT product_id, size, color, stock
		FROM product_variants
		WHERE product_id = ANY($1)
		ORDER BY product_id, size, color`, productIDs)
	if err != nil {
		return nil, fmt.Errorf("product_variants query: %w", err)
	}
	defer rows.Close()

	result := make(map[uuid.UUID][]domain.ProductVariant)
	for rows.Next() {
		var (
			productID uuid.UUID
			v         domain.ProductVariant
		)
		if err := rows.Scan(&productID, &v.Size, &v.Color, &v.Stock); err != nil {
			return nil, fmt.Errorf("product_variants scan: %w", err)
		}
		result[productID] = append(result[productID], v)
	}

	return result, rows.Err()
}

func scanProduct(row pgx.Row) (domain.Product, error) {
	var (
		p            domain.Product
		amount, code string
	)

	if err := row.Scan(
		&p.ID, &p.Name, &p.Description, &amount, &code, &p.Discount,
		&p.CategoryID, &p.TotalStock, &p.IsActive, &p.IsFeatured,
		&p.CreatedAt, &p.UpdatedAt,
	); err != nil {
		return p, err
	}

	price, err := parseMoney(amount, code)
	if err != nil {
		return p, fmt.Errorf("parseMoney: %w", err)
	}
	p.Price = price

	return p, nil
}
