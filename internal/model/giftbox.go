package model

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// GiftBox is a curated bundle looked up by name.
type GiftBox struct {
	ID         bson.ObjectID `bson:"_id,omitempty" json:"id"`
	Name       string        `bson:"name"          json:"name"`
	CreatedAt  time.Time     `bson:"created_dt"            json:"created_dt"`
	ModifiedAt time.Time     `bson:"modified_dt"           json:"modified_dt"`
	DeletedAt  *time.Time    `bson:"deleted_dt"            json:"-"`
}
