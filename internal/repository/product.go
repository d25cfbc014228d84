package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/kashvicrafts/storefront-api/internal/model"
)

// ProductRepository defines the product catalogue store.
type ProductRepository interface {
	Create(ctx context.Context, product *model.Product) (*model.Product, error)
	Get(ctx context.Context, id bson.ObjectID) (*model.Product, error)
	ListByIDs(ctx context.Context, ids []bson.ObjectID) ([]model.Product, error)
	List(ctx context.Context, filter FilterProductsParams, opts model.PageOptions) (*model.Page[model.Product], error)
	Categories(ctx context.Context) ([]model.CategorySummary, error)
	Update(ctx context.Context, id bson.ObjectID, params UpdateProductParams) (*model.Product, error)
	SoftDelete(ctx context.Context, id bson.ObjectID) (DeleteResult, error)
}

// FilterProductsParams are optional equality matches for listing products.
type FilterProductsParams struct {
	IDs          []bson.ObjectID
	Name         *string
	Category     *string
	RateInRs     *float64
	UnitType     *model.UnitType
	DisplayPrice *float64
}

// UpdateProductParams defines the optional fields of a partial product
// update. Only the fields that are not nil are written.
type UpdateProductParams struct {
	SerialNumber     *int
	Name             *string
	Category         *string
	RateInRs         *float64
	Per              *float64
	UnitType         *model.UnitType
	UnitPrice        *float64
	ProfitPercentage *float64
	DisplayPrice     *float64
	UnitOfSale       *string
	Description      *string
	Image            *string
}

const productCollection = "products"

type productMongoRepository struct {
	coll *mongo.Collection
}

func NewProductMongoRepository(db *mongo.Database) ProductRepository {
	return &productMongoRepository{coll: db.Collection(productCollection)}
}

func (r *productMongoRepository) Create(ctx context.Context, product *model.Product) (*model.Product, error) {
	now := time.Now().UTC()
	product.CreatedAt = now
	product.ModifiedAt = now
	product.DeletedAt = nil

	result, err := r.coll.InsertOne(ctx, product)
	if err != nil {
		return nil, translateErr(err)
	}

	if objectID, ok := result.InsertedID.(bson.ObjectID); ok {
		product.ID = objectID
	}

	return product, nil
}

func (r *productMongoRepository) Get(ctx context.Context, id bson.ObjectID) (*model.Product, error) {
	result := r.coll.FindOne(ctx, liveFilter(bson.M{"_id": id}))
	if result.Err() != nil {
		return nil, translateErr(result.Err())
	}

	var product model.Product
	if err := result.Decode(&product); err != nil {
		return nil, err
	}

	return &product, nil
}

func (r *productMongoRepository) ListByIDs(ctx context.Context, ids []bson.ObjectID) ([]model.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	cursor, err := r.coll.Find(ctx, liveFilter(bson.M{"_id": bson.M{"$in": ids}}))
	if err != nil {
		return nil, translateErr(err)
	}
	defer cursor.Close(ctx)

	return decodeProducts(ctx, cursor)
}

func (r *productMongoRepository) List(
	ctx context.Context,
	filter FilterProductsParams,
	opts model.PageOptions,
) (*model.Page[model.Product], error) {
	query := liveFilter(bson.M{})
	if len(filter.IDs) > 0 {
		query["_id"] = bson.M{"$in": filter.IDs}
	}
	if filter.Name != nil {
		query["name"] = *filter.Name
	}
	if filter.Category != nil {
		query["category"] = *filter.Category
	}
	if filter.RateInRs != nil {
		query["rate_in_rs"] = *filter.RateInRs
	}
	if filter.UnitType != nil {
		query["unit_type"] = *filter.UnitType
	}
	if filter.DisplayPrice != nil {
		query["display_price"] = *filter.DisplayPrice
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

	products, err := decodeProducts(ctx, cursor)
	if err != nil {
		return nil, err
	}

	return &model.Page[model.Product]{
		Data:       products,
		Pagination: model.NewPagination(opts, totalRecords),
	}, nil
}

// Categories groups live products by category and counts them.
func (r *productMongoRepository) Categories(ctx context.Context) ([]model.CategorySummary, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"deleted_dt": nil}}},
		{{Key: "$group", Value: bson.M{
			"_id":          "$category",
			"productCount": bson.M{"$sum": 1},
		}}},
		{{Key: "$project", Value: bson.M{
			"_id":              0,
			"product_category": "$_id",
			"productCount":     1,
		}}},
		{{Key: "$sort", Value: bson.M{"product_category": 1}}},
	}

	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, translateErr(err)
	}
	defer cursor.Close(ctx)

	summaries := []model.CategorySummary{}
	if err := cursor.All(ctx, &summaries); err != nil {
		return nil, translateErr(err)
	}

	return summaries, nil
}

func (r *productMongoRepository) Update(
	ctx context.Context,
	id bson.ObjectID,
	params UpdateProductParams,
) (*model.Product, error) {
	set := bson.M{}
	if params.SerialNumber != nil {
		set["serial_number"] = *params.SerialNumber
	}
	if params.Name != nil {
		set["name"] = *params.Name
	}
	if params.Category != nil {
		set["category"] = *params.Category
	}
	if params.RateInRs != nil {
		set["rate_in_rs"] = *params.RateInRs
	}
	if params.Per != nil {
		set["per"] = *params.Per
	}
	if params.UnitType != nil {
		set["unit_type"] = *params.UnitType
	}
	if params.UnitPrice != nil {
		set["unit_price"] = *params.UnitPrice
	}
	if params.ProfitPercentage != nil {
		set["profit_percentage"] = *params.ProfitPercentage
	}
	if params.DisplayPrice != nil {
		set["display_price"] = *params.DisplayPrice
	}
	if params.UnitOfSale != nil {
		set["unit_of_sale"] = *params.UnitOfSale
	}
	if params.Description != nil {
		set["description"] = *params.Description
	}
	if params.Image != nil {
		set["image"] = *params.Image
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

	var product model.Product
	if err := result.Decode(&product); err != nil {
		return nil, err
	}

	return &product, nil
}

func (r *productMongoRepository) SoftDelete(ctx context.Context, id bson.ObjectID) (DeleteResult, error) {
	return softDelete(ctx, r.coll, bson.M{"_id": id})
}

func decodeProducts(ctx context.Context, cursor *mongo.Cursor) ([]model.Product, error) {
	products := []model.Product{}
	for cursor.Next(ctx) {
		var product model.Product
		if err := cursor.Decode(&product); err != nil {
			return nil, err
		}
		products = append(products, product)
	}
	if err := cursor.Err(); err != nil {
		return nil, translateErr(err)
	}

	return products, nil
}
