package model

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// UnitType classifies how a product is measured for pricing.
type UnitType string

const (
	UnitTypePiece UnitType = "PIECE"
	UnitTypeSet   UnitType = "SET"
	UnitTypeKg    UnitType = "KG"
	UnitTypeDozen UnitType = "DOZEN"
)

// Product is a catalogue entry. Order items reference products by id and
// copy the price at order time.
type Product struct {
	ID               bson.ObjectID `bson:"_id,omitempty"     json:"id"`
	SerialNumber     int           `bson:"serial_number"     json:"serial_number"`
	Name             string        `bson:"name"              json:"name"`
	Category         string        `bson:"category"          json:"category"`
	RateInRs         float64       `bson:"rate_in_rs"        json:"rate_in_rs"`
	Per              float64       `bson:"per"               json:"per"`
	UnitType         UnitType      `bson:"unit_type"         json:"unit_type"`
	UnitPrice        float64       `bson:"unit_price"        json:"unit_price"`
	ProfitPercentage float64       `bson:"profit_percentage" json:"profit_percentage"`
	DisplayPrice     float64       `bson:"display_price"     json:"display_price"`
	UnitOfSale       string        `bson:"unit_of_sale"      json:"unit_of_sale"`
	Description      string        `bson:"description,omitempty" json:"description,omitempty"`
	Image            string        `bson:"image,omitempty"       json:"image,omitempty"`
	CreatedAt        time.Time     `bson:"created_dt"            json:"created_dt"`
	ModifiedAt       time.Time     `bson:"modified_dt"           json:"modified_dt"`
	DeletedAt        *time.Time    `bson:"deleted_dt"            json:"-"`
}

// CategorySummary is one row of the product category aggregation.
type CategorySummary struct {
	Category     string `bson:"product_category" json:"product_category"`
	ProductCount int64  `bson:"productCount"     json:"productCount"`
}
