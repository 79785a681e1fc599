package httpapi

import (
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/abdulrehan17773/am-backend/internal/domain"
)

// Wire DTOs. Money travels as a fixed two-decimal string next to its
// ISO currency code.

type pageDTO struct {
	Items      any   `json:"items"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int64 `json:"totalPages"`
}

func toPageDTO(items any, total int64, page domain.Page) pageDTO {
	page = page.Normalize()
	return pageDTO{
		Items:      items,
		Total:      total,
		Page:       page.Number,
		Limit:      page.Limit,
		TotalPages: page.TotalPages(total),
	}
}

type userDTO struct {
	ID        string    `json:"id"`
	UID       string    `json:"uid"`
	FullName  string    `json:"fullname"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	Avatar    string    `json:"avatar,omitempty"`
	Verified  bool      `json:"verified"`
	Role      string    `json:"role"`
	Currency  string    `json:"currency"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func toUserDTO(u domain.User) userDTO {
	return userDTO{
		ID:        u.ID.String(),
		UID:       u.UID,
		FullName:  u.FullName,
		Email:     u.Email,
		Phone:     u.Phone,
		Avatar:    u.Avatar,
		Verified:  u.Verified,
		Role:      string(u.Role),
		Currency:  u.Currency.String(),
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

type userSummaryDTO struct {
	UID      string `json:"uid"`
	FullName string `json:"fullname"`
	Email    string `json:"email"`
}

type categoryDTO struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func toCategoryDTO(c domain.Category) categoryDTO {
	return categoryDTO{
		ID:        c.ID.String(),
		Name:      c.Name,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

type imageDTO struct {
	ID  string `json:"id"`
	URL string `json:"url"`
	Alt string `json:"alt,omitempty"`
}

type variantDTO struct {
	Size  string `json:"size"`
	Color string `json:"color"`
	Stock int32  `json:"stock"`
}

type productDTO struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Description  string       `json:"description,omitempty"`
	Price        string       `json:"price"`
	Discount     int32        `json:"discount"`
	FinalPrice   string       `json:"finalPrice"`
	Currency     string       `json:"currency"`
	CategoryID   string       `json:"categoryId"`
	CategoryName string       `json:"categoryName,omitempty"`
	Images       []imageDTO   `json:"images"`
	Variants     []variantDTO `json:"variants"`
	TotalStock   int32        `json:"totalStock"`
	IsActive     bool         `json:"isActive"`
	IsFeatured   bool         `json:"isFeatured"`
	CreatedAt    time.Time    `json:"createdAt"`
	UpdatedAt    time.Time    `json:"updatedAt"`
}

func toProductDTO(p domain.Product, categoryName string) productDTO {
	return productDTO{
		ID:           p.ID.String(),
		Name:         p.Name,
		Description:  p.Description,
		Price:        p.Price.Amount.StringFixed(2),
		Discount:     p.Discount,
		FinalPrice:   p.FinalPrice().Amount.StringFixed(2),
		Currency:     p.Price.Currency.String(),
		CategoryID:   p.CategoryID.String(),
		CategoryName: categoryName,
		Images: lo.Map(p.Images, func(i domain.ProductImage, _ int) imageDTO {
			return imageDTO{ID: i.ID.String(), URL: i.URL, Alt: i.Alt}
		}),
		Variants: lo.Map(p.Variants, func(v domain.ProductVariant, _ int) variantDTO {
			return variantDTO{Size: v.Size, Color: v.Color, Stock: v.Stock}
		}),
		TotalStock: p.TotalStock,
		IsActive:   p.IsActive,
		IsFeatured: p.IsFeatured,
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
	}
}

func toProductCardDTOs(cards []domain.ProductCard) []productDTO {
	return lo.Map(cards, func(c domain.ProductCard, _ int) productDTO {
		return toProductDTO(c.Product, c.CategoryName)
	})
}

type cartLineDTO struct {
	ID          string `json:"id"`
	ProductID   string `json:"productId"`
	ProductName string `json:"productName"`
	Image       string `json:"image,omitempty"`
	Size        string `json:"size"`
	Color       string `json:"color"`
	Qty         int32  `json:"qty"`
	UnitPrice   string `json:"unitPrice"`
	LineTotal   string `json:"lineTotal"`
	Currency    string `json:"currency"`
	Stock       int32  `json:"stock"`
}

func toCartLineDTO(l domain.CartLine) cartLineDTO {
	price := l.Product.FinalPrice()

	var stock int32
	if pv, ok := l.Product.FindVariant(l.Variant); ok {
		stock = pv.Stock
	}

	return cartLineDTO{
		ID:          l.ID.String(),
		ProductID:   l.ProductID.String(),
		ProductName: l.Product.Name,
		Image:       l.Product.FirstImageURL(),
		Size:        l.Variant.Size,
		Color:       l.Variant.Color,
		Qty:         l.Qty,
		UnitPrice:   price.Amount.StringFixed(2),
		LineTotal:   price.Mul(decimal.NewFromInt32(l.Qty)).Amount.StringFixed(2),
		Currency:    price.Currency.String(),
		Stock:       stock,
	}
}

type cartItemDTO struct {
	ID        string `json:"id"`
	ProductID string `json:"productId"`
	Size      string `json:"size"`
	Color     string `json:"color"`
	Qty       int32  `json:"qty"`
}

func toCartItemDTO(i domain.CartItem) cartItemDTO {
	return cartItemDTO{
		ID:        i.ID.String(),
		ProductID: i.ProductID.String(),
		Size:      i.Variant.Size,
		Color:     i.Variant.Color,
		Qty:       i.Qty,
	}
}

type addressDTO struct {
	ID         string    `json:"id"`
	Line1      string    `json:"line1"`
	Line2      string    `json:"line2,omitempty"`
	City       string    `json:"city"`
	State      string    `json:"state"`
	PostalCode string    `json:"postalCode,omitempty"`
	Country    string    `json:"country"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

func toAddressDTO(a domain.Address) addressDTO {
	return addressDTO{
		ID:         a.ID.String(),
		Line1:      a.Line1,
		Line2:      a.Line2,
		City:       a.City,
		State:      a.State,
		PostalCode: a.PostalCode,
		Country:    a.Country,
		CreatedAt:  a.CreatedAt,
		UpdatedAt:  a.UpdatedAt,
	}
}

type orderAddressDTO struct {
	FullName   string `json:"fullName"`
	Phone      string `json:"phone"`
	Line1      string `json:"line1"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postalCode,omitempty"`
	Country    string `json:"country"`
}

type orderItemDTO struct {
	ProductID    string `json:"productId"`
	ProductName  string `json:"productName,omitempty"`
	ProductImage string `json:"productImage,omitempty"`
	Size         string `json:"size"`
	Color        string `json:"color"`
	Qty          int32  `json:"qty"`
	UnitPrice    string `json:"unitPrice"`
	LineTotal    string `json:"lineTotal"`
}

type orderDTO struct {
	OrderID       string          `json:"orderId"`
	Status        string          `json:"status"`
	PaymentStatus string          `json:"paymentStatus"`
	PaymentMethod string          `json:"paymentMethod"`
	RejectReason  string          `json:"rejectReason,omitempty"`
	Items         []orderItemDTO  `json:"items"`
	Subtotal      string          `json:"subtotal"`
	DeliveryFee   string          `json:"deliveryFee"`
	TotalAmount   string          `json:"totalAmount"`
	Currency      string          `json:"currency"`
	Address       orderAddressDTO `json:"address"`
	User          *userSummaryDTO `json:"user,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

func toOrderDTO(o domain.Order) orderDTO {
	return orderDTO{
		OrderID:       o.OrderID,
		Status:        string(o.Status),
		PaymentStatus: string(o.PaymentStatus),
		PaymentMethod: string(o.PaymentMethod),
		RejectReason:  o.RejectReason,
		Items: lo.Map(o.Items, func(i domain.OrderItem, _ int) orderItemDTO {
			return toOrderItemDTO(i, "", "")
		}),
		Subtotal:    o.Subtotal.Amount.StringFixed(2),
		DeliveryFee: o.DeliveryFee.Amount.StringFixed(2),
		TotalAmount: o.Total.Amount.StringFixed(2),
		Currency:    o.Total.Currency.String(),
		Address: orderAddressDTO{
			FullName:   o.Address.FullName,
			Phone:      o.Address.Phone,
			Line1:      o.Address.Line1,
			Line2:      o.Address.Line2,
			City:       o.Address.City,
			State:      o.Address.State,
			PostalCode: o.Address.PostalCode,
			Country:    o.Address.Country,
		},
		CreatedAt: o.CreatedAt,
		UpdatedAt: o.UpdatedAt,
	}
}

func toOrderDetailDTO(d domain.OrderDetail) orderDTO {
	dto := toOrderDTO(d.Order)

	if len(d.Items) > 0 {
		dto.Items = lo.Map(d.Items, func(i domain.OrderItemDetail, _ int) orderItemDTO {
			return toOrderItemDTO(i.OrderItem, i.ProductName, i.ProductImage)
		})
	}

	if d.User != nil {
		dto.User = &userSummaryDTO{
			UID:      d.User.UID,
			FullName: d.User.FullName,
			Email:    d.User.Email,
		}
	}

	return dto
}

func toOrderItemDTO(i domain.OrderItem, name, image string) orderItemDTO {
	return orderItemDTO{
		ProductID:    i.ProductID.String(),
		ProductName:  name,
		ProductImage: image,
		Size:         i.Variant.Size,
		Color:        i.Variant.Color,
		Qty:          i.Qty,
		UnitPrice:    i.Price.Amount.StringFixed(2),
		LineTotal:    i.LineTotal().StringFixed(2),
	}
}
