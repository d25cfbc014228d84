package model

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Address is a shipping address. A user may have zero or more addresses;
// user_id is a weak reference, not ownership. Every text field is PII and is
// stored encrypted.
type Address struct {
	ID           bson.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID       bson.ObjectID `bson:"user_id"       json:"user_id"`
	City         string        `bson:"city"          json:"city"`
	State        string        `bson:"state"         json:"state"`
	Pincode      string        `bson:"pincode"       json:"pincode"`
	AddressLine1 string        `bson:"addressLine1"  json:"addressLine1"`
	AddressLine2 string        `bson:"addressLine2,omitempty" json:"addressLine2,omitempty"`
	Landmark     string        `bson:"landmark,omitempty"     json:"landmark,omitempty"`
	CreatedAt    time.Time     `bson:"created_dt"            json:"created_dt"`
	ModifiedAt   time.Time     `bson:"modified_dt"           json:"modified_dt"`
	DeletedAt    *time.Time    `bson:"deleted_dt"            json:"-"`
}
