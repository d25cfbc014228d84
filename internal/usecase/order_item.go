package usecase

import (
	"context"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/kashvicrafts/storefront-api/internal/model"
	"github.com/kashvicrafts/storefront-api/internal/repository"
)

// OrderItemUsecase exposes line items outside the order saga.
type OrderItemUsecase interface {
	FetchOrderItemDetails(ctx context.Context, id bson.ObjectID) (*model.OrderItem, error)
	FetchAllOrderItems(ctx context.Context, filter repository.FilterOrderItemsParams, opts model.PageOptions) (*model.Page[model.OrderItem], error)
	UpdateOrderItem(ctx context.Context, id bson.ObjectID, params repository.UpdateOrderItemParams) (*model.OrderItem, error)
	DeleteOrderItem(ctx context.Context, id bson.ObjectID) error
}

type orderItemUsecase struct {
	items  repository.OrderItemRepository
	logger *zerolog.Logger
}

func NewOrderItemUsecase(items repository.OrderItemRepository, logger *zerolog.Logger) OrderItemUsecase {
	return &orderItemUsecase{items: items, logger: logger}
}

func (u *orderItemUsecase) FetchOrderItemDetails(ctx context.Context, id bson.ObjectID) (*model.OrderItem, error) {
	item, err := u.items.Get(ctx, id)
	if err != nil {
		return nil, mapNotFound(err, ErrOrderItemNotFound)
	}
	return item, nil
}

func (u *orderItemUsecase) FetchAllOrderItems(
	ctx context.Context,
	filter repository.FilterOrderItemsParams,
	opts model.PageOptions,
) (*model.Page[model.OrderItem], error) {
	return u.items.List(ctx, filter, opts)
}

func (u *orderItemUsecase) UpdateOrderItem(
	ctx context.Context,
	id bson.ObjectID,
	params repository.UpdateOrderItemParams,
) (*model.OrderItem, error) {
	item, err := u.items.Update(ctx, id, params)
	if err != nil {
		return nil, mapNotFound(err, ErrOrderItemNotFound)
	}
	return item, nil
}

func (u *orderItemUsecase) DeleteOrderItem(ctx context.Context, id bson.ObjectID) error {
	result, err := u.items.SoftDelete(ctx, id)
	if err != nil {
		return err
	}
	return mapDeleteResult(u.logger, result, "order item", ErrOrderItemNotFound)
}
