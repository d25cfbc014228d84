package model

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// OrderItem is one line of an order. Price is a point-in-time copy of the
// product price, not a live reference.
type OrderItem struct {
	ID         bson.ObjectID `bson:"_id,omitempty" json:"id"`
	OrderID    bson.ObjectID `bson:"order_id"      json:"order_id"`
	ProductID  bson.ObjectID `bson:"product_id"    json:"product_id"`
	Quantity   int           `bson:"quantity"      json:"quantity"`
	Price      float64       `bson:"price"         json:"price"`
	CreatedAt  time.Time     `bson:"created_dt"            json:"created_dt"`
	ModifiedAt time.Time     `bson:"modified_dt"           json:"modified_dt"`
	DeletedAt  *time.Time    `bson:"deleted_dt"            json:"-"`
}
