package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/kashvicrafts/storefront-api/internal/model"
)

// OrderItemRepository defines the order line-item store.
type OrderItemRepository interface {
	CreateMany(ctx context.Context, items []model.OrderItem) ([]model.OrderItem, error)
	Get(ctx context.Context, id bson.ObjectID) (*model.OrderItem, error)
	ListByOrder(ctx context.Context, orderID bson.ObjectID) ([]model.OrderItem, error)
	ListByOrders(ctx context.Context, orderIDs []bson.ObjectID) ([]model.OrderItem, error)
	List(ctx context.Context, filter FilterOrderItemsParams, opts model.PageOptions) (*model.Page[model.OrderItem], error)
	Update(ctx context.Context, id bson.ObjectID, params UpdateOrderItemParams) (*model.OrderItem, error)
	SoftDelete(ctx context.Context, id bson.ObjectID) (DeleteResult, error)
}

// FilterOrderItemsParams are optional equality matches for listing items.
type FilterOrderItemsParams struct {
	OrderID   *bson.ObjectID
	ProductID *bson.ObjectID
}

// UpdateOrderItemParams defines the optional fields of a partial item update.
type UpdateOrderItemParams struct {
	Quantity *int
	Price    *float64
}

const orderItemCollection = "order-items"

type orderItemMongoRepository struct {
	coll *mongo.Collection
}

func NewOrderItemMongoRepository(db *mongo.Database) OrderItemRepository {
	return &orderItemMongoRepository{coll: db.Collection(orderItemCollection)}
}

// CreateMany inserts all items as one batch.
func (r *orderItemMongoRepository) CreateMany(ctx context.Context, items []model.OrderItem) ([]model.OrderItem, error) {
	if len(items) == 0 {
		return nil, nil
	}

	now := time.Now().UTC()
	docs := make([]any, len(items))
	for i := range items {
		items[i].CreatedAt = now
		items[i].ModifiedAt = now
		items[i].DeletedAt = nil
		docs[i] = &items[i]
	}

	result, err := r.coll.InsertMany(ctx, docs)
	if err != nil {
		return nil, translateErr(err)
	}

	for i, insertedID := range result.InsertedIDs {
		if objectID, ok := insertedID.(bson.ObjectID); ok {
			items[i].ID = objectID
		}
	}

	return items, nil
}

func (r *orderItemMongoRepository) Get(ctx context.Context, id bson.ObjectID) (*model.OrderItem, error) {
	result := r.coll.FindOne(ctx, liveFilter(bson.M{"_id": id}))
	if result.Err() != nil {
		return nil, translateErr(result.Err())
	}

	var item model.OrderItem
	if err := result.Decode(&item); err != nil {
		return nil, err
	}

	return &item, nil
}

func (r *orderItemMongoRepository) ListByOrder(ctx context.Context, orderID bson.ObjectID) ([]model.OrderItem, error) {
	return r.findAll(ctx, liveFilter(bson.M{"order_id": orderID}))
}

func (r *orderItemMongoRepository) ListByOrders(ctx context.Context, orderIDs []bson.ObjectID) ([]model.OrderItem, error) {
	if len(orderIDs) == 0 {
		return nil, nil
	}
	return r.findAll(ctx, liveFilter(bson.M{"order_id": bson.M{"$in": orderIDs}}))
}

func (r *orderItemMongoRepository) List(
	ctx context.Context,
	filter FilterOrderItemsParams,
	opts model.PageOptions,
) (*model.Page[model.OrderItem], error) {
	query := liveFilter(bson.M{})
	if filter.OrderID != nil {
		query["order_id"] = *filter.OrderID
	}
	if filter.ProductID != nil {
		query["product_id"] = *filter.ProductID
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

	items := []model.OrderItem{}
	if err := cursor.All(ctx, &items); err != nil {
		return nil, translateErr(err)
	}

	return &model.Page[model.OrderItem]{
		Data:       items,
		Pagination: model.NewPagination(opts, totalRecords),
	}, nil
}

func (r *orderItemMongoRepository) Update(
	ctx context.Context,
	id bson.ObjectID,
	params UpdateOrderItemParams,
) (*model.OrderItem, error) {
	set := bson.M{}
	if params.Quantity != nil {
		set["quantity"] = *params.Quantity
	}
	if params.Price != nil {
		set["price"] = *params.Price
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

	var item model.OrderItem
	if err := result.Decode(&item); err != nil {
		return nil, err
	}

	return &item, nil
}

func (r *orderItemMongoRepository) SoftDelete(ctx context.Context, id bson.ObjectID) (DeleteResult, error) {
	return softDelete(ctx, r.coll, bson.M{"_id": id})
}

func (r *orderItemMongoRepository) findAll(ctx context.Context, filter bson.M) ([]model.OrderItem, error) {
	cursor, err := r.coll.Find(ctx, filter)
	if err != nil {
		return nil, translateErr(err)
	}
	defer cursor.Close(ctx)

	items := []model.OrderItem{}
	if err := cursor.All(ctx, &items); err != nil {
		return nil, translateErr(err)
	}

	return items, nil
}
