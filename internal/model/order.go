package model

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "PENDING"
	OrderStatusConfirmed OrderStatus = "CONFIRMED"
	OrderStatusShipped   OrderStatus = "SHIPPED"
	OrderStatusDelivered OrderStatus = "DELIVERED"
	OrderStatusCancelled OrderStatus = "CANCELLED"
)

// Order is an order header. Line items live in their own collection and are
// joined by order_id.
type Order struct {
	ID         bson.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID     bson.ObjectID `bson:"user_id"       json:"user_id"`
	TotalPrice float64       `bson:"total_price"   json:"total_price"`
	Status     OrderStatus   `bson:"status"        json:"status"`
	CreatedAt  time.Time     `bson:"created_dt"            json:"created_dt"`
	ModifiedAt time.Time     `bson:"modified_dt"           json:"modified_dt"`
	DeletedAt  *time.Time    `bson:"deleted_dt"            json:"-"`
}

// OrderItemDetails is an order item with its product name inlined.
type OrderItemDetails struct {
	OrderItem   `bson:",inline"`
	ProductName string `bson:"productName" json:"productName"`
}

// OrderDetails is the denormalized view of an order with its live line
// items and their product names.
type OrderDetails struct {
	Order `bson:",inline"`
	Items []OrderItemDetails `bson:"orderItems" json:"orderItems"`
}

// OrderReportRow is one row of the reporting export: an order fanned out
// through its user and shipping address, PII decrypted.
type OrderReportRow struct {
	OrderDetails `bson:",inline"`
	FullName     string    `bson:"full_name" json:"full_name"`
	Email        string    `bson:"email"     json:"email"`
	Mobile       string    `bson:"mobile"    json:"mobile"`
	Addresses    []Address `bson:"user_address" json:"user_address"`
}
