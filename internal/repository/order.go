package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/kashvicrafts/storefront-api/internal/model"
)

// OrderRepository defines the order header store.
type OrderRepository interface {
	Create(ctx context.Context, order *model.Order) (*model.Order, error)
	Get(ctx context.Context, id bson.ObjectID) (*model.Order, error)
	List(ctx context.Context, filter FilterOrdersParams, opts model.PageOptions) (*model.Page[model.Order], error)
	ListBetween(ctx context.Context, start, end time.Time) ([]model.Order, error)
	Update(ctx context.Context, id bson.ObjectID, params UpdateOrderParams) (*model.Order, error)
	SoftDelete(ctx context.Context, id bson.ObjectID) (DeleteResult, error)
	// Delete physically removes an order header; saga compensation only.
	Delete(ctx context.Context, id bson.ObjectID) error
}

// FilterOrdersParams are optional equality matches for listing orders.
type FilterOrdersParams struct {
	UserID *bson.ObjectID
	Status *model.OrderStatus
}

// UpdateOrderParams defines the optional fields of a partial order update.
type UpdateOrderParams struct {
	TotalPrice *float64
	Status     *model.OrderStatus
}

const orderCollection = "orders"

type orderMongoRepository struct {
	coll *mongo.Collection
}

func NewOrderMongoRepository(db *mongo.Database) OrderRepository {
	return &orderMongoRepository{coll: db.Collection(orderCollection)}
}

func (r *orderMongoRepository) Create(ctx context.Context, order *model.Order) (*model.Order, error) {
	now := time.Now().UTC()
	order.CreatedAt = now
	order.ModifiedAt = now
	order.DeletedAt = nil
	if order.Status == "" {
		order.Status = model.OrderStatusPending
	}

	result, err := r.coll.InsertOne(ctx, order)
	if err != nil {
		return nil, translateErr(err)
	}

	if objectID, ok := result.InsertedID.(bson.ObjectID); ok {
		order.ID = objectID
	}

	return order, nil
}

func (r *orderMongoRepository) Get(ctx context.Context, id bson.ObjectID) (*model.Order, error) {
	result := r.coll.FindOne(ctx, liveFilter(bson.M{"_id": id}))
	if result.Err() != nil {
		return nil, translateErr(result.Err())
	}

	var order model.Order
	if err := result.Decode(&order); err != nil {
		return nil, err
	}

	return &order, nil
}

func (r *orderMongoRepository) List(
	ctx context.Context,
	filter FilterOrdersParams,
	opts model.PageOptions,
) (*model.Page[model.Order], error) {
	query := liveFilter(bson.M{})
	if filter.UserID != nil {
		query["user_id"] = *filter.UserID
	}
	if filter.Status != nil {
		query["status"] = *filter.Status
	}

	opts = opts.Normalized()

	totalRecords, err := r.coll.CountDocuments(ctx, query)
	if err != nil {
		return nil, translateErr(err)
	}

	cursor, err := r.coll.Find(ctx, query, pageFindOptions(opts))
	if err != nil {
		return nil, translateErr(err)
	}
	defer cursor.Close(ctx)

	orders := []model.Order{}
	for cursor.Next(ctx) {
		var order model.Order
		if err := cursor.Decode(&order); err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	if err := cursor.Err(); err != nil {
		return nil, translateErr(err)
	}

	return &model.Page[model.Order]{
		Data:       orders,
		Pagination: model.NewPagination(opts, totalRecords),
	}, nil
}

// ListBetween returns live orders created inside [start, end], oldest first.
func (r *orderMongoRepository) ListBetween(ctx context.Context, start, end time.Time) ([]model.Order, error) {
	query := liveFilter(bson.M{
		"created_dt": bson.M{"$gte": start, "$lte": end},
	})

	cursor, err := r.coll.Find(ctx, query, options.Find().SetSort(bson.D{{Key: "created_dt", Value: 1}}))
	if err != nil {
		return nil, translateErr(err)
	}
	defer cursor.Close(ctx)

	orders := []model.Order{}
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, translateErr(err)
	}

	return orders, nil
}

func (r *orderMongoRepository) Update(
	ctx context.Context,
	id bson.ObjectID,
	params UpdateOrderParams,
) (*model.Order, error) {
	set := bson.M{}
	if params.TotalPrice != nil {
		set["total_price"] = *params.TotalPrice
	}
	if params.Status != nil {
		set["status"] = *params.Status
	}
	set["modified_dt"] = time.Now().UTC()

	result := r.coll.FindOneAndUpdate(
		ctx,
		liveFilter(bson.M{"_id": id}),
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)
	if result.Err() != nil {
		return nil, translateErr(result.Err())
	}

	var order model.Order
	if err := result.Decode(&order); err != nil {
		return nil, err
	}

	return &order, nil
}

func (r *orderMongoRepository) SoftDelete(ctx context.Context, id bson.ObjectID) (DeleteResult, error) {
	return softDelete(ctx, r.coll, bson.M{"_id": id})
}

func (r *orderMongoRepository) Delete(ctx context.Context, id bson.ObjectID) error {
	_, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	return translateErr(err)
}
