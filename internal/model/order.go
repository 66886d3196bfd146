package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

type Order struct {
	BaseModel
	UserID          *string         `db:"user_id" json:"user_id"`
	Status          OrderStatus     `db:"status" json:"status"`
	Email           string          `db:"email" json:"email"`
	Phone           string          `db:"phone" json:"phone"`
	ShippingAddress Address         `db:"shipping_address" json:"shipping_address"`
	Items           OrderItems      `db:"items" json:"items"`
	Subtotal        decimal.Decimal `db:"subtotal" json:"subtotal"`
	Shipping        decimal.Decimal `db:"shipping" json:"shipping"`
	Tax             decimal.Decimal `db:"tax" json:"tax"`
	Total           decimal.Decimal `db:"total" json:"total"`
	PaymentMethod   string          `db:"payment_method" json:"payment_method"`
}

type OrderItem struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	ImageURL  string          `json:"image"`
	Size      string          `json:"size"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

// OrderItems is stored as a jsonb column.
type OrderItems []OrderItem

func (o OrderItems) Value() (driver.Value, error) {
	return json.Marshal(o)
}

func (o *OrderItems) Scan(src interface{}) error {
	return scanJSON(src, o)
}

type Address struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Street    string `json:"street"`
	City      string `json:"city"`
	State     string `json:"state"`
	Zip       string `json:"zip"`
}

func (a Address) Value() (driver.Value, error) {
	return json.Marshal(a)
}

func (a *Address) Scan(src interface{}) error {
	return scanJSON(src, a)
}

func scanJSON(src interface{}, dest interface{}) error {
	switch v := src.(type) {
	case nil:
		return nil
	case []byte:
		return json.Unmarshal(v, dest)
	case string:
		return json.Unmarshal([]byte(v), dest)
	default:
		return errors.New("unsupported jsonb source type")
	}
}
