package model

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// User represents a platform customer. The full name, email and mobile
// fields are PII and are stored encrypted; the repository layer is the only
// place that sees ciphertext.
type User struct {
	ID                bson.ObjectID `bson:"_id,omitempty"       json:"id"`
	FullName          string        `bson:"full_name"           json:"full_name"`
	Email             string        `bson:"email"               json:"email"`
	Password          string        `bson:"password,omitempty"  json:"-"`
	Mobile            string        `bson:"mobile"              json:"mobile"`
	ResetToken        *string       `bson:"resetToken,omitempty"        json:"-"`
	ResetTokenExpires *time.Time    `bson:"resetTokenExpires,omitempty" json:"-"`
	CreatedAt         time.Time     `bson:"created_dt"            json:"created_dt"`
	ModifiedAt        time.Time     `bson:"modified_dt"           json:"modified_dt"`
	DeletedAt         *time.Time    `bson:"deleted_dt"            json:"-"`
}

// UserDetails is a User joined with its live addresses.
type UserDetails struct {
	User      `bson:",inline"`
	Addresses []Address `bson:"user_address" json:"user_address"`
}
