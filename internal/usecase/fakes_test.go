package usecase

import (
	"context"
	"sort"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/kashvicrafts/storefront-api/internal/model"
	"github.com/kashvicrafts/storefront-api/internal/repository"
)

// In-memory fakes for the store interfaces. Errors are injectable per call
// site so the compensation paths can be driven deterministically.

type fakeUserRepo struct {
	users     map[bson.ObjectID]*model.User
	createErr error
	resetErr  error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[bson.ObjectID]*model.User)}
}

// add seeds a live user with an explicit creation time.
func (r *fakeUserRepo) add(fullName, email, mobile string, createdAt time.Time) bson.ObjectID {
	id := bson.NewObjectID()
	r.users[id] = &model.User{
		ID:         id,
		FullName:   fullName,
		Email:      email,
		Mobile:     mobile,
		CreatedAt:  createdAt,
		ModifiedAt: createdAt,
	}
	return id
}

func (r *fakeUserRepo) Create(_ context.Context, user *model.User) (*model.User, error) {
	if r.createErr != nil {
		return nil, r.createErr
	}
	stored := *user
	stored.ID = bson.NewObjectID()
	now := time.Now()
	stored.CreatedAt = now
	stored.ModifiedAt = now
	r.users[stored.ID] = &stored
	out := stored
	return &out, nil
}

func (r *fakeUserRepo) Get(_ context.Context, id bson.ObjectID) (*model.User, error) {
	user, ok := r.users[id]
	if !ok || user.DeletedAt != nil {
		return nil, mongo.ErrNoDocuments
	}
	out := *user
	return &out, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, user := range r.users {
		if user.DeletedAt == nil && user.Email == email {
			out := *user
			return &out, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (r *fakeUserRepo) GetByMobile(_ context.Context, mobile string) (*model.User, error) {
	for _, user := range r.users {
		if user.DeletedAt == nil && user.Mobile == mobile {
			out := *user
			return &out, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (r *fakeUserRepo) GetByResetToken(_ context.Context, token string) (*model.User, error) {
	for _, user := range r.users {
		if user.DeletedAt == nil && user.ResetToken != nil && *user.ResetToken == token {
			out := *user
			return &out, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (r *fakeUserRepo) List(_ context.Context, filter repository.FilterUsersParams, opts model.PageOptions) (*model.Page[model.User], error) {
	opts = opts.Normalized()
	var out []model.User
	for _, user := range r.users {
		if user.DeletedAt != nil {
			continue
		}
		if filter.Email != nil && user.Email != *filter.Email {
			continue
		}
		if filter.Mobile != nil && user.Mobile != *filter.Mobile {
			continue
		}
		if filter.FullName != nil && user.FullName != *filter.FullName {
			continue
		}
		copied := *user
		copied.Password = ""
		out = append(out, copied)
	}

	// Like the real store: count first, then sort by creation time and
	// apply the page window.
	total := int64(len(out))
	sort.Slice(out, func(i, j int) bool {
		if opts.SortOrder == model.SortDescending {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return &model.Page[model.User]{
		Data:       pageWindow(out, opts),
		Pagination: model.NewPagination(opts, total),
	}, nil
}

// pageWindow slices one page out of the sorted result set.
func pageWindow[T any](data []T, opts model.PageOptions) []T {
	skip := int(opts.Skip())
	if skip >= len(data) {
		return []T{}
	}
	end := skip + int(opts.Limit)
	if end > len(data) {
		end = len(data)
	}
	return data[skip:end]
}

func (r *fakeUserRepo) Update(_ context.Context, id bson.ObjectID, params repository.UpdateUserParams) (*model.User, error) {
	user, ok := r.users[id]
	if !ok || user.DeletedAt != nil {
		return nil, mongo.ErrNoDocuments
	}
	if params.FullName != nil {
		user.FullName = *params.FullName
	}
	if params.Email != nil {
		user.Email = *params.Email
	}
	if params.Mobile != nil {
		user.Mobile = *params.Mobile
	}
	if params.Password != nil {
		user.Password = *params.Password
	}
	user.ModifiedAt = time.Now()
	out := *user
	return &out, nil
}

func (r *fakeUserRepo) UpdateResetToken(_ context.Context, email string, token *string, expiresAt *time.Time) error {
	if r.resetErr != nil {
		return r.resetErr
	}
	for _, user := range r.users {
		if user.DeletedAt == nil && user.Email == email {
			user.ResetToken = token
			user.ResetTokenExpires = expiresAt
			return nil
		}
	}
	return mongo.ErrNoDocuments
}

func (r *fakeUserRepo) UpdatePasswordAndClearResetToken(_ context.Context, id bson.ObjectID, passwordHash string) error {
	user, ok := r.users[id]
	if !ok || user.DeletedAt != nil {
		return mongo.ErrNoDocuments
	}
	user.Password = passwordHash
	user.ResetToken = nil
	user.ResetTokenExpires = nil
	return nil
}

func (r *fakeUserRepo) SoftDelete(_ context.Context, id bson.ObjectID) (repository.DeleteResult, error) {
	user, ok := r.users[id]
	if !ok || user.DeletedAt != nil {
		return repository.DeleteResult{}, nil
	}
	now := time.Now()
	user.DeletedAt = &now
	return repository.DeleteResult{Matched: 1, Modified: 1}, nil
}

func (r *fakeUserRepo) Delete(_ context.Context, id bson.ObjectID) error {
	delete(r.users, id)
	return nil
}

type fakeAddressRepo struct {
	addresses map[bson.ObjectID]*model.Address
	createErr error
}

func newFakeAddressRepo() *fakeAddressRepo {
	return &fakeAddressRepo{addresses: make(map[bson.ObjectID]*model.Address)}
}

func (r *fakeAddressRepo) Create(_ context.Context, address *model.Address) (*model.Address, error) {
	if r.createErr != nil {
		return nil, r.createErr
	}
	stored := *address
	stored.ID = bson.NewObjectID()
	now := time.Now()
	stored.CreatedAt = now
	stored.ModifiedAt = now
	r.addresses[stored.ID] = &stored
	out := stored
	return &out, nil
}

func (r *fakeAddressRepo) Get(_ context.Context, id bson.ObjectID) (*model.Address, error) {
	address, ok := r.addresses[id]
	if !ok || address.DeletedAt != nil {
		return nil, mongo.ErrNoDocuments
	}
	out := *address
	return &out, nil
}

func (r *fakeAddressRepo) ListByUser(_ context.Context, userID bson.ObjectID) ([]model.Address, error) {
	var out []model.Address
	for _, address := range r.addresses {
		if address.DeletedAt == nil && address.UserID == userID {
			out = append(out, *address)
		}
	}
	return out, nil
}

func (r *fakeAddressRepo) CountLiveByUser(ctx context.Context, userID bson.ObjectID) (int64, error) {
	live, err := r.ListByUser(ctx, userID)
	if err != nil {
		return 0, err
	}
	return int64(len(live)), nil
}

func (r *fakeAddressRepo) List(_ context.Context, filter repository.FilterAddressesParams, opts model.PageOptions) (*model.Page[model.Address], error) {
	opts = opts.Normalized()
	var out []model.Address
	for _, address := range r.addresses {
		if address.DeletedAt != nil {
			continue
		}
		if filter.UserID != nil && address.UserID != *filter.UserID {
			continue
		}
		if filter.City != nil && address.City != *filter.City {
			continue
		}
		out = append(out, *address)
	}
	return &model.Page[model.Address]{
		Data:       out,
		Pagination: model.NewPagination(opts, int64(len(out))),
	}, nil
}

func (r *fakeAddressRepo) Update(_ context.Context, id bson.ObjectID, params repository.UpdateAddressParams) (*model.Address, error) {
	address, ok := r.addresses[id]
	if !ok || address.DeletedAt != nil {
		return nil, mongo.ErrNoDocuments
	}
	if params.City != nil {
		address.City = *params.City
	}
	if params.State != nil {
		address.State = *params.State
	}
	if params.Pincode != nil {
		address.Pincode = *params.Pincode
	}
	address.ModifiedAt = time.Now()
	out := *address
	return &out, nil
}

func (r *fakeAddressRepo) SoftDelete(_ context.Context, id bson.ObjectID) (repository.DeleteResult, error) {
	address, ok := r.addresses[id]
	if !ok || address.DeletedAt != nil {
		return repository.DeleteResult{}, nil
	}
	now := time.Now()
	address.DeletedAt = &now
	return repository.DeleteResult{Matched: 1, Modified: 1}, nil
}

func (r *fakeAddressRepo) SoftDeleteByUser(_ context.Context, userID bson.ObjectID) (repository.DeleteResult, error) {
	var result repository.DeleteResult
	now := time.Now()
	for _, address := range r.addresses {
		if address.DeletedAt == nil && address.UserID == userID {
			address.DeletedAt = &now
			result.Matched++
			result.Modified++
		}
	}
	return result, nil
}

func (r *fakeAddressRepo) DeleteByUser(_ context.Context, userID bson.ObjectID) error {
	for id, address := range r.addresses {
		if address.UserID == userID {
			delete(r.addresses, id)
		}
	}
	return nil
}

type fakeProductRepo struct {
	products map[bson.ObjectID]*model.Product
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{products: make(map[bson.ObjectID]*model.Product)}
}

func (r *fakeProductRepo) add(name, category string) bson.ObjectID {
	id := bson.NewObjectID()
	r.products[id] = &model.Product{ID: id, Name: name, Category: category}
	return id
}

func (r *fakeProductRepo) Create(_ context.Context, product *model.Product) (*model.Product, error) {
	stored := *product
	stored.ID = bson.NewObjectID()
	r.products[stored.ID] = &stored
	out := stored
	return &out, nil
}

func (r *fakeProductRepo) Get(_ context.Context, id bson.ObjectID) (*model.Product, error) {
	product, ok := r.products[id]
	if !ok || product.DeletedAt != nil {
		return nil, mongo.ErrNoDocuments
	}
	out := *product
	return &out, nil
}

func (r *fakeProductRepo) ListByIDs(_ context.Context, ids []bson.ObjectID) ([]model.Product, error) {
	var out []model.Product
	for _, id := range ids {
		if product, ok := r.products[id]; ok && product.DeletedAt == nil {
			out = append(out, *product)
		}
	}
	return out, nil
}

func (r *fakeProductRepo) List(_ context.Context, filter repository.FilterProductsParams, opts model.PageOptions) (*model.Page[model.Product], error) {
	opts = opts.Normalized()
	var out []model.Product
	for _, product := range r.products {
		if product.DeletedAt != nil {
			continue
		}
		if filter.Name != nil && !strings.EqualFold(product.Name, *filter.Name) {
			continue
		}
		if filter.Category != nil && product.Category != *filter.Category {
			continue
		}
		out = append(out, *product)
	}
	return &model.Page[model.Product]{
		Data:       out,
		Pagination: model.NewPagination(opts, int64(len(out))),
	}, nil
}

func (r *fakeProductRepo) Categories(_ context.Context) ([]model.CategorySummary, error) {
	counts := make(map[string]int64)
	for _, product := range r.products {
		if product.DeletedAt == nil {
			counts[product.Category]++
		}
	}
	var out []model.CategorySummary
	for category, count := range counts {
		out = append(out, model.CategorySummary{Category: category, ProductCount: count})
	}
	return out, nil
}

func (r *fakeProductRepo) Update(_ context.Context, id bson.ObjectID, params repository.UpdateProductParams) (*model.Product, error) {
	product, ok := r.products[id]
	if !ok || product.DeletedAt != nil {
		return nil, mongo.ErrNoDocuments
	}
	if params.Name != nil {
		product.Name = *params.Name
	}
	out := *product
	return &out, nil
}

func (r *fakeProductRepo) SoftDelete(_ context.Context, id bson.ObjectID) (repository.DeleteResult, error) {
	product, ok := r.products[id]
	if !ok || product.DeletedAt != nil {
		return repository.DeleteResult{}, nil
	}
	now := time.Now()
	product.DeletedAt = &now
	return repository.DeleteResult{Matched: 1, Modified: 1}, nil
}

type fakeOrderRepo struct {
	orders    map[bson.ObjectID]*model.Order
	createErr error
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: make(map[bson.ObjectID]*model.Order)}
}

func (r *fakeOrderRepo) Create(_ context.Context, order *model.Order) (*model.Order, error) {
	if r.createErr != nil {
		return nil, r.createErr
	}
	stored := *order
	stored.ID = bson.NewObjectID()
	if stored.Status == "" {
		stored.Status = model.OrderStatusPending
	}
	now := time.Now()
	stored.CreatedAt = now
	stored.ModifiedAt = now
	r.orders[stored.ID] = &stored
	out := stored
	return &out, nil
}

func (r *fakeOrderRepo) Get(_ context.Context, id bson.ObjectID) (*model.Order, error) {
	order, ok := r.orders[id]
	if !ok || order.DeletedAt != nil {
		return nil, mongo.ErrNoDocuments
	}
	out := *order
	return &out, nil
}

func (r *fakeOrderRepo) List(_ context.Context, filter repository.FilterOrdersParams, opts model.PageOptions) (*model.Page[model.Order], error) {
	opts = opts.Normalized()
	var out []model.Order
	for _, order := range r.orders {
		if order.DeletedAt != nil {
			continue
		}
		if filter.UserID != nil && order.UserID != *filter.UserID {
			continue
		}
		if filter.Status != nil && order.Status != *filter.Status {
			continue
		}
		out = append(out, *order)
	}
	return &model.Page[model.Order]{
		Data:       out,
		Pagination: model.NewPagination(opts, int64(len(out))),
	}, nil
}

func (r *fakeOrderRepo) ListBetween(_ context.Context, start, end time.Time) ([]model.Order, error) {
	var out []model.Order
	for _, order := range r.orders {
		if order.DeletedAt != nil {
			continue
		}
		if order.CreatedAt.Before(start) || order.CreatedAt.After(end) {
			continue
		}
		out = append(out, *order)
	}
	return out, nil
}

func (r *fakeOrderRepo) Update(_ context.Context, id bson.ObjectID, params repository.UpdateOrderParams) (*model.Order, error) {
	order, ok := r.orders[id]
	if !ok || order.DeletedAt != nil {
		return nil, mongo.ErrNoDocuments
	}
	if params.TotalPrice != nil {
		order.TotalPrice = *params.TotalPrice
	}
	if params.Status != nil {
		order.Status = *params.Status
	}
	out := *order
	return &out, nil
}

func (r *fakeOrderRepo) SoftDelete(_ context.Context, id bson.ObjectID) (repository.DeleteResult, error) {
	order, ok := r.orders[id]
	if !ok || order.DeletedAt != nil {
		return repository.DeleteResult{}, nil
	}
	now := time.Now()
	order.DeletedAt = &now
	return repository.DeleteResult{Matched: 1, Modified: 1}, nil
}

func (r *fakeOrderRepo) Delete(_ context.Context, id bson.ObjectID) error {
	delete(r.orders, id)
	return nil
}

type fakeOrderItemRepo struct {
	items         map[bson.ObjectID]*model.OrderItem
	createManyErr error
}

func newFakeOrderItemRepo() *fakeOrderItemRepo {
	return &fakeOrderItemRepo{items: make(map[bson.ObjectID]*model.OrderItem)}
}

func (r *fakeOrderItemRepo) CreateMany(_ context.Context, items []model.OrderItem) ([]model.OrderItem, error) {
	if r.createManyErr != nil {
		return nil, r.createManyErr
	}
	out := make([]model.OrderItem, len(items))
	now := time.Now()
	for i, item := range items {
		item.ID = bson.NewObjectID()
		item.CreatedAt = now
		item.ModifiedAt = now
		stored := item
		r.items[item.ID] = &stored
		out[i] = item
	}
	return out, nil
}

func (r *fakeOrderItemRepo) Get(_ context.Context, id bson.ObjectID) (*model.OrderItem, error) {
	item, ok := r.items[id]
	if !ok || item.DeletedAt != nil {
		return nil, mongo.ErrNoDocuments
	}
	out := *item
	return &out, nil
}

func (r *fakeOrderItemRepo) ListByOrder(_ context.Context, orderID bson.ObjectID) ([]model.OrderItem, error) {
	var out []model.OrderItem
	for _, item := range r.items {
		if item.DeletedAt == nil && item.OrderID == orderID {
			out = append(out, *item)
		}
	}
	return out, nil
}

func (r *fakeOrderItemRepo) ListByOrders(ctx context.Context, orderIDs []bson.ObjectID) ([]model.OrderItem, error) {
	var out []model.OrderItem
	for _, id := range orderIDs {
		items, err := r.ListByOrder(ctx, id)
		if err != nil {
			return nil, err
		}
		out = append(out, items...)
	}
	return out, nil
}

func (r *fakeOrderItemRepo) List(_ context.Context, filter repository.FilterOrderItemsParams, opts model.PageOptions) (*model.Page[model.OrderItem], error) {
	opts = opts.Normalized()
	var out []model.OrderItem
	for _, item := range r.items {
		if item.DeletedAt != nil {
			continue
		}
		if filter.OrderID != nil && item.OrderID != *filter.OrderID {
			continue
		}
		if filter.ProductID != nil && item.ProductID != *filter.ProductID {
			continue
		}
		out = append(out, *item)
	}
	return &model.Page[model.OrderItem]{
		Data:       out,
		Pagination: model.NewPagination(opts, int64(len(out))),
	}, nil
}

func (r *fakeOrderItemRepo) Update(_ context.Context, id bson.ObjectID, params repository.UpdateOrderItemParams) (*model.OrderItem, error) {
	item, ok := r.items[id]
	if !ok || item.DeletedAt != nil {
		return nil, mongo.ErrNoDocuments
	}
	if params.Quantity != nil {
		item.Quantity = *params.Quantity
	}
	if params.Price != nil {
		item.Price = *params.Price
	}
	out := *item
	return &out, nil
}

func (r *fakeOrderItemRepo) SoftDelete(_ context.Context, id bson.ObjectID) (repository.DeleteResult, error) {
	item, ok := r.items[id]
	if !ok || item.DeletedAt != nil {
		return repository.DeleteResult{}, nil
	}
	now := time.Now()
	item.DeletedAt = &now
	return repository.DeleteResult{Matched: 1, Modified: 1}, nil
}

// fakeNotifier records every dispatch.
type fakeNotifier struct {
	confirmations []confirmationCall
	resetEmails   []resetCall
}

type confirmationCall struct {
	user      *model.User
	order     *model.Order
	items     []model.OrderItem
	address   *model.Address
	resetLink string
}

type resetCall struct {
	email string
	link  string
}

func (n *fakeNotifier) SendUserOrderConfirmation(
	_ context.Context,
	user *model.User,
	order *model.Order,
	items []model.OrderItem,
	address *model.Address,
	passwordResetLink string,
) {
	n.confirmations = append(n.confirmations, confirmationCall{
		user:      user,
		order:     order,
		items:     items,
		address:   address,
		resetLink: passwordResetLink,
	})
}

func (n *fakeNotifier) SendPasswordResetEmail(_ context.Context, email, resetLink string) {
	n.resetEmails = append(n.resetEmails, resetCall{email: email, link: resetLink})
}
