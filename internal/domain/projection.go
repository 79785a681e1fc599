package domain

// Read-side projections: related documents are joined at read time into
// dedicated display types, separate from the persisted entities. Prices
// stay frozen on the order while names and images reflect the live
// catalog.

// OrderItemDetail decorates a frozen line item with display fields.
type OrderItemDetail struct {
	OrderItem
	ProductName  string
	ProductImage string
}

// OrderDetail is the full display shape of one order.
type OrderDetail struct {
	Order
	Items []OrderItemDetail
	User  *UserSummary // resolved for admin views only
}

// UserSummary is the lightweight user info attached to admin listings.
type UserSummary struct {
	UID      string
	FullName string
	Email    string
}

func SummarizeUser(u User) UserSummary {
	return UserSummary{
		UID:      u.UID,
		FullName: u.FullName,
		Email:    u.Email,
	}
}

// ProductCard is the lightweight catalog listing shape.
type ProductCard struct {
	Product
	CategoryName string
}

// CartLine joins a cart item with its live product for display.
type CartLine struct {
	CartItem
	Product Product
}
