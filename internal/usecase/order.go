package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/kashvicrafts/storefront-api/internal/model"
	"github.com/kashvicrafts/storefront-api/internal/repository"
)

// OrderUsecase implements the order saga and the order read paths.
type OrderUsecase interface {
	// CreateOrder persists an order header and its line items as one logical
	// unit. If the line items fail to persist, the header is deleted again
	// and the whole call fails with ErrOrderCreationFailed; a partial order
	// is never observable as committed.
	CreateOrder(ctx context.Context, userID bson.ObjectID, params CreateOrderParams, notify bool) (*model.Order, error)
	FetchOrderDetails(ctx context.Context, id bson.ObjectID) (*model.OrderDetails, error)
	FetchAllOrders(ctx context.Context, filter repository.FilterOrdersParams, opts model.PageOptions) (*model.Page[model.Order], error)
	// ListOrders is the reporting export: orders in the date range fanned
	// out through items, products, user and address, PII decrypted.
	ListOrders(ctx context.Context, start, end time.Time) ([]model.OrderReportRow, error)
	UpdateOrder(ctx context.Context, id bson.ObjectID, params repository.UpdateOrderParams) (*model.Order, error)
	DeleteOrder(ctx context.Context, id bson.ObjectID) error
}

// CreateOrderParams defines an order with its line items.
type CreateOrderParams struct {
	TotalPrice float64
	Status     model.OrderStatus
	Items      []OrderItemParams
}

// OrderItemParams is one requested line. Price is the point-in-time price
// the caller agreed to, copied onto the stored item.
type OrderItemParams struct {
	ProductID bson.ObjectID
	Quantity  int
	Price     float64
}

type orderUsecase struct {
	orders    repository.OrderRepository
	items     repository.OrderItemRepository
	products  repository.ProductRepository
	users     repository.UserRepository
	addresses repository.AddressRepository
	notifier  Notifier
	logger    *zerolog.Logger
}

func NewOrderUsecase(
	orders repository.OrderRepository,
	items repository.OrderItemRepository,
	products repository.ProductRepository,
	users repository.UserRepository,
	addresses repository.AddressRepository,
	notifier Notifier,
	logger *zerolog.Logger,
) OrderUsecase {
	return &orderUsecase{
		orders:    orders,
		items:     items,
		products:  products,
		users:     users,
		addresses: addresses,
		notifier:  notifier,
		logger:    logger,
	}
}

func (u *orderUsecase) CreateOrder(
	ctx context.Context,
	userID bson.ObjectID,
	params CreateOrderParams,
	notify bool,
) (*model.Order, error) {
	user, err := u.users.Get(ctx, userID)
	if err != nil {
		return nil, mapNotFound(err, ErrUserNotFound)
	}

	comp := newCompensationStack(u.logger)

	order, err := u.orders.Create(ctx, &model.Order{
		UserID:     user.ID,
		TotalPrice: params.TotalPrice,
		Status:     params.Status,
	})
	if err != nil {
		return nil, err
	}
	comp.push("order header", func(ctx context.Context) error {
		return u.orders.Delete(ctx, order.ID)
	})

	var items []model.OrderItem
	if len(params.Items) > 0 {
		items = make([]model.OrderItem, len(params.Items))
		for i, item := range params.Items {
			items[i] = model.OrderItem{
				OrderID:   order.ID,
				ProductID: item.ProductID,
				Quantity:  item.Quantity,
				Price:     item.Price,
			}
		}

		items, err = u.items.CreateMany(ctx, items)
		if err != nil {
			return nil, comp.unwind(ctx, ErrOrderCreationFailed, err)
		}
	}

	if notify {
		u.notify(ctx, user, order, items)
	}

	return order, nil
}

// notify dispatches the confirmation with the user's first live address, if
// any. Dispatch is best effort and never affects the committed order.
func (u *orderUsecase) notify(ctx context.Context, user *model.User, order *model.Order, items []model.OrderItem) {
	var address *model.Address
	addresses, err := u.addresses.ListByUser(ctx, user.ID)
	if err != nil {
		u.logger.Error().Err(err).Str("user_id", user.ID.Hex()).
			Msg("failed to load address for order confirmation")
	} else if len(addresses) > 0 {
		address = &addresses[0]
	}

	u.notifier.SendUserOrderConfirmation(ctx, user, order, items, address, "")
}

func (u *orderUsecase) FetchOrderDetails(ctx context.Context, id bson.ObjectID) (*model.OrderDetails, error) {
	order, err := u.orders.Get(ctx, id)
	if err != nil {
		return nil, mapNotFound(err, ErrOrderNotFound)
	}

	items, err := u.items.ListByOrder(ctx, order.ID)
	if err != nil {
		return nil, err
	}

	names, err := u.productNames(ctx, items)
	if err != nil {
		return nil, err
	}

	details := &model.OrderDetails{Order: *order}
	for _, item := range items {
		details.Items = append(details.Items, model.OrderItemDetails{
			OrderItem:   item,
			ProductName: names[item.ProductID],
		})
	}

	return details, nil
}

func (u *orderUsecase) FetchAllOrders(
	ctx context.Context,
	filter repository.FilterOrdersParams,
	opts model.PageOptions,
) (*model.Page[model.Order], error) {
	return u.orders.List(ctx, filter, opts)
}

func (u *orderUsecase) ListOrders(ctx context.Context, start, end time.Time) ([]model.OrderReportRow, error) {
	orders, err := u.orders.ListBetween(ctx, start, end)
	if err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return []model.OrderReportRow{}, nil
	}

	orderIDs := make([]bson.ObjectID, len(orders))
	for i, order := range orders {
		orderIDs[i] = order.ID
	}

	items, err := u.items.ListByOrders(ctx, orderIDs)
	if err != nil {
		return nil, err
	}
	itemsByOrder := make(map[bson.ObjectID][]model.OrderItem)
	for _, item := range items {
		itemsByOrder[item.OrderID] = append(itemsByOrder[item.OrderID], item)
	}

	names, err := u.productNames(ctx, items)
	if err != nil {
		return nil, err
	}

	// The user and address stores decrypt PII on read, so the report rows
	// carry plaintext.
	users := make(map[bson.ObjectID]*model.User)
	addresses := make(map[bson.ObjectID][]model.Address)

	rows := make([]model.OrderReportRow, 0, len(orders))
	for _, order := range orders {
		user, ok := users[order.UserID]
		if !ok {
			user, err = u.users.Get(ctx, order.UserID)
			switch {
			case err == nil:
			case errors.Is(err, mongo.ErrNoDocuments):
				// The owning user was deleted after the order was placed;
				// report the order without PII.
				user = nil
			default:
				return nil, err
			}
			users[order.UserID] = user

			if user != nil {
				userAddresses, err := u.addresses.ListByUser(ctx, user.ID)
				if err != nil {
					return nil, err
				}
				addresses[order.UserID] = userAddresses
			}
		}

		row := model.OrderReportRow{
			OrderDetails: model.OrderDetails{Order: order},
			Addresses:    addresses[order.UserID],
		}
		for _, item := range itemsByOrder[order.ID] {
			row.Items = append(row.Items, model.OrderItemDetails{
				OrderItem:   item,
				ProductName: names[item.ProductID],
			})
		}
		if user != nil {
			row.FullName = user.FullName
			row.Email = user.Email
			row.Mobile = user.Mobile
		}

		rows = append(rows, row)
	}

	return rows, nil
}

func (u *orderUsecase) UpdateOrder(
	ctx context.Context,
	id bson.ObjectID,
	params repository.UpdateOrderParams,
) (*model.Order, error) {
	order, err := u.orders.Update(ctx, id, params)
	if err != nil {
		return nil, mapNotFound(err, ErrOrderNotFound)
	}
	return order, nil
}

func (u *orderUsecase) DeleteOrder(ctx context.Context, id bson.ObjectID) error {
	result, err := u.orders.SoftDelete(ctx, id)
	if err != nil {
		return err
	}
	return mapDeleteResult(u.logger, result, "order", ErrOrderNotFound)
}

func (u *orderUsecase) productNames(ctx context.Context, items []model.OrderItem) (map[bson.ObjectID]string, error) {
	ids := make([]bson.ObjectID, 0, len(items))
	seen := make(map[bson.ObjectID]bool, len(items))
	for _, item := range items {
		if !seen[item.ProductID] {
			seen[item.ProductID] = true
			ids = append(ids, item.ProductID)
		}
	}

	products, err := u.products.ListByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	names := make(map[bson.ObjectID]string, len(products))
	for _, product := range products {
		names[product.ID] = product.Name
	}

	return names, nil
}
