package usecase

import (
	"context"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/kashvicrafts/storefront-api/internal/model"
	"github.com/kashvicrafts/storefront-api/internal/repository"
)

// ProductUsecase is the catalog surface.
type ProductUsecase interface {
	CreateProduct(ctx context.Context, product *model.Product) (*model.Product, error)
	FetchProductDetails(ctx context.Context, id bson.ObjectID) (*model.Product, error)
	FetchAllProducts(ctx context.Context, filter repository.FilterProductsParams, opts model.PageOptions) (*model.Page[model.Product], error)
	FetchProductCategories(ctx context.Context) ([]model.CategorySummary, error)
	UpdateProduct(ctx context.Context, id bson.ObjectID, params repository.UpdateProductParams) (*model.Product, error)
	DeleteProduct(ctx context.Context, id bson.ObjectID) error
}

type productUsecase struct {
	products repository.ProductRepository
	logger   *zerolog.Logger
}

func NewProductUsecase(products repository.ProductRepository, logger *zerolog.Logger) ProductUsecase {
	return &productUsecase{products: products, logger: logger}
}

func (u *productUsecase) CreateProduct(ctx context.Context, product *model.Product) (*model.Product, error) {
	created, err := u.products.Create(ctx, product)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrConflict
		}
		return nil, err
	}
	return created, nil
}

func (u *productUsecase) FetchProductDetails(ctx context.Context, id bson.ObjectID) (*model.Product, error) {
	product, err := u.products.Get(ctx, id)
	if err != nil {
		return nil, mapNotFound(err, ErrProductNotFound)
	}
	return product, nil
}

func (u *productUsecase) FetchAllProducts(
	ctx context.Context,
	filter repository.FilterProductsParams,
	opts model.PageOptions,
) (*model.Page[model.Product], error) {
	return u.products.List(ctx, filter, opts)
}

func (u *productUsecase) FetchProductCategories(ctx context.Context) ([]model.CategorySummary, error) {
	return u.products.Categories(ctx)
}

func (u *productUsecase) UpdateProduct(
	ctx context.Context,
	id bson.ObjectID,
	params repository.UpdateProductParams,
) (*model.Product, error) {
	product, err := u.products.Update(ctx, id, params)
	if err != nil {
		return nil, mapNotFound(err, ErrProductNotFound)
	}
	return product, nil
}

func (u *productUsecase) DeleteProduct(ctx context.Context, id bson.ObjectID) error {
	result, err := u.products.SoftDelete(ctx, id)
	if err != nil {
		return err
	}
	return mapDeleteResult(u.logger, result, "product", ErrProductNotFound)
}
