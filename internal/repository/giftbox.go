package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/kashvicrafts/storefront-api/internal/model"
)

// GiftBoxRepository is the read-only gift box lookup.
type GiftBoxRepository interface {
	GetByName(ctx context.Context, name string) (*model.GiftBox, error)
}

const giftBoxCollection = "giftboxes"

type giftBoxMongoRepository struct {
	coll *mongo.Collection
}

func NewGiftBoxMongoRepository(db *mongo.Database) GiftBoxRepository {
	return &giftBoxMongoRepository{coll: db.Collection(giftBoxCollection)}
}

func (r *giftBoxMongoRepository) GetByName(ctx context.Context, name string) (*model.GiftBox, error) {
	result := r.coll.FindOne(ctx, liveFilter(bson.M{"name": name}))
	if result.Err() != nil {
		return nil, translateErr(result.Err())
	}

	var box model.GiftBox
	if err := result.Decode(&box); err != nil {
		return nil, err
	}

	return &box, nil
}
