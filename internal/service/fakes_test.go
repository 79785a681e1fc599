package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/abdulrehan17773/am-backend/internal/domain"
	"github.com/abdulrehan17773/am-backend/internal/repository"
)

// In-memory fakes over the repository ports. They honor the same
// sentinel errors the real implementations return.

type fakeCartRepo struct {
	items []domain.CartItem
}

func (f *fakeCartRepo) GetActiveItems(_ context.Context, userID uuid.UUID) ([]domain.CartItem, error) {
	var out []domain.CartItem
	for _, item := range f.items {
		if item.UserID == userID && item.DeletedAt == nil {
			out = append(out, item)
		}
	}
	return out, nil
}

func (f *fakeCartRepo) GetItem(_ context.Context, itemID, userID uuid.UUID) (domain.CartItem, error) {
	for _, item := range f.items {
		if item.ID == itemID && item.UserID == userID && item.DeletedAt == nil {
			return item, nil
		}
	}
	return domain.CartItem{}, repository.ErrCartItemNotFound
}

func (f *fakeCartRepo) FindItem(_ context.Context, userID, productID uuid.UUID, variant domain.Variant) (domain.CartItem, error) {
	for _, item := range f.items {
		if item.UserID == userID && item.ProductID == productID && item.Variant == variant && item.DeletedAt == nil {
			return item, nil
		}
	}
	return domain.CartItem{}, repository.ErrCartItemNotFound
}

func (f *fakeCartRepo) InsertItem(_ context.Context, item domain.CartItem) (domain.CartItem, error) {
	item.ID = uuid.New()
	item.CreatedAt = time.Now()
	f.items = append(f.items, item)
	return item, nil
}

func (f *fakeCartRepo) UpdateQty(_ context.Context, itemID uuid.UUID, qty int32) error {
	for i := range f.items {
		if f.items[i].ID == itemID && f.items[i].DeletedAt == nil {
			f.items[i].Qty = qty
			return nil
		}
	}
	return repository.ErrCartItemNotFound
}

func (f *fakeCartRepo) SoftDeleteItem(_ context.Context, itemID uuid.UUID) error {
	for i := range f.items {
		if f.items[i].ID == itemID && f.items[i].DeletedAt == nil {
			now := time.Now()
			f.items[i].DeletedAt = &now
			return nil
		}
	}
	return repository.ErrCartItemNotFound
}

func (f *fakeCartRepo) ClearCart(_ context.Context, userID uuid.UUID) (int64, error) {
	var cleared int64
	now := time.Now()
	for i := range f.items {
		if f.items[i].UserID == userID && f.items[i].DeletedAt == nil {
			f.items[i].DeletedAt = &now
			cleared++
		}
	}
	return cleared, nil
}

type fakeProductRepo struct {
	products map[uuid.UUID]domain.Product
}

func newFakeProductRepo(products ...domain.Product) *fakeProductRepo {
	f := &fakeProductRepo{products: map[uuid.UUID]domain.Product{}}
	for _, p := range products {
		f.products[p.ID] = p
	}
	return f
}

func (f *fakeProductRepo) GetProduct(_ context.Context, productID uuid.UUID) (domain.Product, error) {
	p, ok := f.products[productID]
	if !ok || p.DeletedAt != nil {
		return domain.Product{}, repository.ErrProductNotFound
	}
	return p, nil
}

func (f *fakeProductRepo) GetProducts(_ context.Context, productIDs []uuid.UUID) (map[uuid.UUID]domain.Product, error) {
	out := map[uuid.UUID]domain.Product{}
	for _, id := range productIDs {
		if p, ok := f.products[id]; ok && p.DeletedAt == nil {
			out[id] = p
		}
	}
	return out, nil
}

func (f *fakeProductRepo) SearchProducts(_ context.Context, filter domain.ProductFilter, page domain.Page) ([]domain.Product, int64, error) {
	var out []domain.Product
	for _, p := range f.products {
		if p.DeletedAt != nil {
			continue
		}
		if filter.OnlyActive && !p.IsActive {
			continue
		}
		if filter.OnlyFeatured && !p.IsFeatured {
			continue
		}
		if filter.OnlyInStock && p.TotalStock <= 0 {
			continue
		}
		if filter.Search != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(filter.Search)) {
			continue
		}
		if filter.CategoryID != nil && p.CategoryID != *filter.CategoryID {
			continue
		}
		out = append(out, p)
	}
	return out, int64(len(out)), nil
}

func (f *fakeProductRepo) InsertProduct(_ context.Context, product domain.Product) (domain.Product, error) {
	product.ID = uuid.New()
	product.TotalStock = product.ComputeTotalStock()
	f.products[product.ID] = product
	return product, nil
}

func (f *fakeProductRepo) UpdateProduct(_ context.Context, product domain.Product) (domain.Product, error) {
	stored, ok := f.products[product.ID]
	if !ok || stored.DeletedAt != nil {
		return domain.Product{}, repository.ErrProductNotFound
	}
	f.products[product.ID] = product
	return product, nil
}

func (f *fakeProductRepo) SetActive(_ context.Context, productID uuid.UUID, active bool) error {
	p, ok := f.products[productID]
	if !ok {
		return repository.ErrProductNotFound
	}
	p.IsActive = active
	f.products[productID] = p
	return nil
}

func (f *fakeProductRepo) SetFeatured(_ context.Context, productID uuid.UUID, featured bool) error {
	p, ok := f.products[productID]
	if !ok {
		return repository.ErrProductNotFound
	}
	p.IsFeatured = featured
	f.products[productID] = p
	return nil
}

func (f *fakeProductRepo) ReplaceVariants(_ context.Context, productID uuid.UUID, variants []domain.ProductVariant) error {
	p, ok := f.products[productID]
	if !ok {
		return repository.ErrProductNotFound
	}
	p.Variants = variants
	p.TotalStock = p.ComputeTotalStock()
	f.products[productID] = p
	return nil
}

func (f *fakeProductRepo) AddImage(_ context.Context, productID uuid.UUID, image domain.ProductImage) (domain.ProductImage, error) {
	p, ok := f.products[productID]
	if !ok {
		return domain.ProductImage{}, repository.ErrProductNotFound
	}
	image.ID = uuid.New()
	p.Images = append(p.Images, image)
	f.products[productID] = p
	return image, nil
}

func (f *fakeProductRepo) RemoveImage(_ context.Context, productID, imageID uuid.UUID) error {
	p, ok := f.products[productID]
	if !ok {
		return repository.ErrProductNotFound
	}
	for i, img := range p.Images {
		if img.ID == imageID {
			p.Images = append(p.Images[:i], p.Images[i+1:]...)
			f.products[productID] = p
			return nil
		}
	}
	return repository.ErrImageNotFound
}

func (f *fakeProductRepo) SoftDeleteProduct(_ context.Context, productID uuid.UUID) error {
	p, ok := f.products[productID]
	if !ok || p.DeletedAt != nil {
		return repository.ErrProductNotFound
	}
	now := time.Now()
	p.DeletedAt = &now
	f.products[productID] = p
	return nil
}

type fakeOrderRepo struct {
	orders map[uuid.UUID]domain.Order
	// carts, when set, gets cleared inside PlaceOrder to mimic the
	// transactional contract.
	carts *fakeCartRepo

	placeCalls int
}

func newFakeOrderRepo(carts *fakeCartRepo) *fakeOrderRepo {
	return &fakeOrderRepo{orders: map[uuid.UUID]domain.Order{}, carts: carts}
}

func (f *fakeOrderRepo) PlaceOrder(ctx context.Context, order domain.Order) (domain.Order, error) {
	f.placeCalls++

	if order.IdempotencyKey != "" {
		for _, existing := range f.orders {
			if existing.UserID == order.UserID && existing.IdempotencyKey == order.IdempotencyKey {
				return domain.Order{}, repository.ErrDuplicate
			}
		}
	}

	order.ID = uuid.New()
	order.CreatedAt = time.Now()
	order.UpdatedAt = order.CreatedAt
	f.orders[order.ID] = order

	if f.carts != nil {
		if _, err := f.carts.ClearCart(ctx, order.UserID); err != nil {
			return domain.Order{}, err
		}
	}

	return order, nil
}

func (f *fakeOrderRepo) GetOrder(_ context.Context, orderID uuid.UUID) (domain.Order, error) {
	o, ok := f.orders[orderID]
	if !ok || o.DeletedAt != nil {
		return domain.Order{}, repository.ErrOrderNotFound
	}
	return o, nil
}

func (f *fakeOrderRepo) GetOrderByPublicID(_ context.Context, publicID string) (domain.Order, error) {
	for _, o := range f.orders {
		if o.OrderID == publicID && o.DeletedAt == nil {
			return o, nil
		}
	}
	return domain.Order{}, repository.ErrOrderNotFound
}

func (f *fakeOrderRepo) GetOrderByIdempotencyKey(_ context.Context, userID uuid.UUID, key string) (domain.Order, error) {
	for _, o := range f.orders {
		if o.UserID == userID && o.IdempotencyKey == key && o.DeletedAt == nil {
			return o, nil
		}
	}
	return domain.Order{}, repository.ErrOrderNotFound
}

func (f *fakeOrderRepo) SearchOrders(_ context.Context, filter domain.OrderFilter, page domain.Page) ([]domain.Order, int64, error) {
	var out []domain.Order
	for _, o := range f.orders {
		if o.DeletedAt != nil {
			continue
		}
		if filter.UserID != nil && o.UserID != *filter.UserID {
			continue
		}
		if len(filter.Statuses) > 0 && !containsStatus(filter.Statuses, o.Status) {
			continue
		}
		if len(filter.PaymentStatuses) > 0 && !containsPaymentStatus(filter.PaymentStatuses, o.PaymentStatus) {
			continue
		}
		if filter.Search != "" && !strings.Contains(strings.ToLower(o.OrderID), strings.ToLower(filter.Search)) {
			continue
		}
		out = append(out, o)
	}
	return out, int64(len(out)), nil
}

func (f *fakeOrderRepo) UpdateOrderStatus(_ context.Context, orderID uuid.UUID, target domain.OrderStatus, allowedFrom []domain.OrderStatus) error {
	o, ok := f.orders[orderID]
	if !ok || o.DeletedAt != nil {
		return repository.ErrOrderNotFound
	}
	if len(allowedFrom) > 0 && !containsStatus(allowedFrom, o.Status) {
		return repository.ErrStatusConflict
	}
	o.Status = target
	o.UpdatedAt = time.Now()
	f.orders[orderID] = o
	return nil
}

func (f *fakeOrderRepo) RejectOrder(_ context.Context, orderID uuid.UUID, reason string, allowedFrom []domain.OrderStatus) error {
	o, ok := f.orders[orderID]
	if !ok || o.DeletedAt != nil {
		return repository.ErrOrderNotFound
	}
	if len(allowedFrom) > 0 && !containsStatus(allowedFrom, o.Status) {
		return repository.ErrStatusConflict
	}
	o.Status = domain.OrderStatusRejected
	o.RejectReason = reason
	o.UpdatedAt = time.Now()
	f.orders[orderID] = o
	return nil
}

func (f *fakeOrderRepo) UpdatePaymentStatus(_ context.Context, orderID uuid.UUID, target domain.PaymentStatus) error {
	o, ok := f.orders[orderID]
	if !ok || o.DeletedAt != nil {
		return repository.ErrOrderNotFound
	}
	o.PaymentStatus = target
	f.orders[orderID] = o
	return nil
}

func (f *fakeOrderRepo) SoftDeleteOrder(_ context.Context, orderID uuid.UUID) error {
	o, ok := f.orders[orderID]
	if !ok || o.DeletedAt != nil {
		return repository.ErrOrderNotFound
	}
	now := time.Now()
	o.DeletedAt = &now
	f.orders[orderID] = o
	return nil
}

func containsStatus(statuses []domain.OrderStatus, s domain.OrderStatus) bool {
	for _, candidate := range statuses {
		if candidate == s {
			return true
		}
	}
	return false
}

func containsPaymentStatus(statuses []domain.PaymentStatus, s domain.PaymentStatus) bool {
	for _, candidate := range statuses {
		if candidate == s {
			return true
		}
	}
	return false
}

type fakeCategoryRepo struct {
	categories map[uuid.UUID]domain.Category
}

func newFakeCategoryRepo(categories ...domain.Category) *fakeCategoryRepo {
	f := &fakeCategoryRepo{categories: map[uuid.UUID]domain.Category{}}
	for _, c := range categories {
		f.categories[c.ID] = c
	}
	return f
}

func (f *fakeCategoryRepo) ListCategories(_ context.Context) ([]domain.Category, error) {
	var out []domain.Category
	for _, c := range f.categories {
		out = append(out, c)
	}
	return out, nil
}

func (f *fakeCategoryRepo) SearchCategories(_ context.Context, name string, page domain.Page) ([]domain.Category, int64, error) {
	var out []domain.Category
	for _, c := range f.categories {
		if name != "" && !strings.Contains(strings.ToLower(c.Name), strings.ToLower(name)) {
			continue
		}
		out = append(out, c)
	}
	return out, int64(len(out)), nil
}

func (f *fakeCategoryRepo) GetCategory(_ context.Context, categoryID uuid.UUID) (domain.Category, error) {
	c, ok := f.categories[categoryID]
	if !ok {
		return domain.Category{}, repository.ErrCategoryNotFound
	}
	return c, nil
}

func (f *fakeCategoryRepo) GetCategoryByName(_ context.Context, name string) (domain.Category, error) {
	for _, c := range f.categories {
		if strings.EqualFold(c.Name, name) {
			return c, nil
		}
	}
	return domain.Category{}, repository.ErrCategoryNotFound
}

func (f *fakeCategoryRepo) InsertCategory(_ context.Context, name string) (domain.Category, error) {
	for _, c := range f.categories {
		if strings.EqualFold(c.Name, name) {
			return domain.Category{}, repository.ErrDuplicate
		}
	}
	c := domain.Category{ID: uuid.New(), Name: name, CreatedAt: time.Now()}
	f.categories[c.ID] = c
	return c, nil
}

func (f *fakeCategoryRepo) RenameCategory(_ context.Context, categoryID uuid.UUID, name string) (domain.Category, error) {
	c, ok := f.categories[categoryID]
	if !ok {
		return domain.Category{}, repository.ErrCategoryNotFound
	}
	for id, other := range f.categories {
		if id != categoryID && strings.EqualFold(other.Name, name) {
			return domain.Category{}, repository.ErrDuplicate
		}
	}
	c.Name = name
	f.categories[categoryID] = c
	return c, nil
}

func (f *fakeCategoryRepo) SoftDeleteCategory(_ context.Context, categoryID uuid.UUID) error {
	if _, ok := f.categories[categoryID]; !ok {
		return repository.ErrCategoryNotFound
	}
	delete(f.categories, categoryID)
	return nil
}

type fakeUserRepo struct {
	users map[uuid.UUID]domain.User
}

func newFakeUserRepo(users ...domain.User) *fakeUserRepo {
	f := &fakeUserRepo{users: map[uuid.UUID]domain.User{}}
	for _, u := range users {
		f.users[u.ID] = u
	}
	return f
}

func (f *fakeUserRepo) GetUser(_ context.Context, userID uuid.UUID) (domain.User, error) {
	u, ok := f.users[userID]
	if !ok {
		return domain.User{}, repository.ErrUserNotFound
	}
	return u, nil
}

func (f *fakeUserRepo) GetUserByUID(_ context.Context, uid string) (domain.User, error) {
	for _, u := range f.users {
		if u.UID == uid {
			return u, nil
		}
	}
	return domain.User{}, repository.ErrUserNotFound
}

func (f *fakeUserRepo) GetUserByEmail(_ context.Context, email string) (domain.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return domain.User{}, repository.ErrUserNotFound
}

func (f *fakeUserRepo) GetUsers(_ context.Context, userIDs []uuid.UUID) (map[uuid.UUID]domain.User, error) {
	out := map[uuid.UUID]domain.User{}
	for _, id := range userIDs {
		if u, ok := f.users[id]; ok {
			out[id] = u
		}
	}
	return out, nil
}

func (f *fakeUserRepo) SearchUsers(_ context.Context, search string, page domain.Page) ([]domain.User, int64, error) {
	var out []domain.User
	for _, u := range f.users {
		if search != "" && !strings.Contains(strings.ToLower(u.FullName), strings.ToLower(search)) &&
			!strings.Contains(strings.ToLower(u.Email), strings.ToLower(search)) {
			continue
		}
		out = append(out, u)
	}
	return out, int64(len(out)), nil
}

func (f *fakeUserRepo) InsertUser(_ context.Context, user domain.User) (domain.User, error) {
	for _, existing := range f.users {
		if existing.Email == user.Email {
			return domain.User{}, repository.ErrDuplicate
		}
	}
	user.ID = uuid.New()
	user.CreatedAt = time.Now()
	f.users[user.ID] = user
	return user, nil
}

func (f *fakeUserRepo) UpdateUser(_ context.Context, user domain.User) (domain.User, error) {
	if _, ok := f.users[user.ID]; !ok {
		return domain.User{}, repository.ErrUserNotFound
	}
	f.users[user.ID] = user
	return user, nil
}

func (f *fakeUserRepo) SoftDeleteUser(_ context.Context, userID uuid.UUID) error {
	if _, ok := f.users[userID]; !ok {
		return repository.ErrUserNotFound
	}
	delete(f.users, userID)
	return nil
}

type fakeAddressRepo struct {
	byUser map[uuid.UUID]domain.Address
}

func newFakeAddressRepo() *fakeAddressRepo {
	return &fakeAddressRepo{byUser: map[uuid.UUID]domain.Address{}}
}

func (f *fakeAddressRepo) GetAddressByUser(_ context.Context, userID uuid.UUID) (domain.Address, error) {
	a, ok := f.byUser[userID]
	if !ok {
		return domain.Address{}, repository.ErrAddressNotFound
	}
	return a, nil
}

func (f *fakeAddressRepo) InsertAddress(_ context.Context, address domain.Address) (domain.Address, error) {
	if _, ok := f.byUser[address.UserID]; ok {
		return domain.Address{}, repository.ErrDuplicate
	}
	address.ID = uuid.New()
	f.byUser[address.UserID] = address
	return address, nil
}

func (f *fakeAddressRepo) UpdateAddress(_ context.Context, address domain.Address) (domain.Address, error) {
	if _, ok := f.byUser[address.UserID]; !ok {
		return domain.Address{}, repository.ErrAddressNotFound
	}
	f.byUser[address.UserID] = address
	return address, nil
}
