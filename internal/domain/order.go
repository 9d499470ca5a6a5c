package domain

import (
	"slices"
	"time"

	"gorm.io/gorm"
)

type OrderType string

const (
	OrderTypePickup   OrderType = "pickup"
	OrderTypeDelivery OrderType = "delivery"
)

type OrderStatus string

const (
	OrderPending        OrderStatus = "pending"
	OrderConfirmed      OrderStatus = "confirmed"
	OrderPreparing      OrderStatus = "preparing"
	OrderReady          OrderStatus = "ready"
	OrderOutForDelivery OrderStatus = "out_for_delivery"
	OrderDelivered      OrderStatus = "delivered"
	OrderCancelled      OrderStatus = "cancelled"
)

var OrderStatuses = []OrderStatus{
	OrderPending, OrderConfirmed, OrderPreparing, OrderReady,
	OrderOutForDelivery, OrderDelivered, OrderCancelled,
}

// NotifiableStatuses are the transitions a customer hears about.
var NotifiableStatuses = []OrderStatus{
	OrderConfirmed, OrderPreparing, OrderReady, OrderOutForDelivery, OrderDelivered,
}

func IsValidOrderStatus(status string) bool {
	return slices.Contains(OrderStatuses, OrderStatus(status))
}

func (s OrderStatus) Notifies() bool {
	return slices.Contains(NotifiableStatuses, s)
}

type PaymentMethod string

const (
	PaymentCard   PaymentMethod = "card"
	PaymentCash   PaymentMethod = "cash"
	PaymentWallet PaymentMethod = "wallet"
)

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentFailed   PaymentStatus = "failed"
	PaymentRefunded PaymentStatus = "refunded"
)

type Order struct {
	Base
	TenantOwned
	OrderNumber string          `gorm:"type:text;not null;uniqueIndex" json:"order_number"`
	CustomerID  string          `gorm:"type:uuid;not null;index" json:"customer_id"`
	Customer    *Customer       `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	Items       []OrderItem     `gorm:"type:jsonb;serializer:json" json:"items"`
	Type        OrderType       `gorm:"type:text;not null" json:"type"`
	Delivery    *DeliveryInfo   `gorm:"type:jsonb;serializer:json" json:"delivery,omitempty"`
	Pickup      *PickupInfo     `gorm:"type:jsonb;serializer:json" json:"pickup,omitempty"`
	Payment     Payment         `gorm:"type:jsonb;serializer:json" json:"payment"`
	Pricing     Pricing         `gorm:"type:jsonb;serializer:json" json:"pricing"`
	Status      OrderStatus     `gorm:"type:text;not null;index" json:"status"`
	Timeline    []TimelineEntry `gorm:"type:jsonb;serializer:json" json:"timeline"`
	Notes       string          `gorm:"type:text" json:"notes,omitempty"`
}

func (Order) TableName() string {
	return "orders"
}

type OrderItem struct {
	ProductID       string           `json:"product_id"`
	ProductName     string           `json:"product_name"`
	Quantity        int              `json:"quantity"`
	UnitPrice       float64          `json:"unit_price"`
	SelectedOptions []SelectedOption `json:"selected_options,omitempty"`
	Subtotal        float64          `json:"subtotal"`
}

type SelectedOption struct {
	OptionName string  `json:"option_name"`
	ChoiceName string  `json:"choice_name"`
	Price      float64 `json:"price"`
}

type DeliveryAddress struct {
	Street       string       `json:"street"`
	City         string       `json:"city"`
	PostalCode   string       `json:"postal_code,omitempty"`
	Coordinates  *Coordinates `json:"coordinates,omitempty"`
	Instructions string       `json:"instructions,omitempty"`
}

type DeliveryInfo struct {
	Address       DeliveryAddress `json:"address"`
	Fee           float64         `json:"fee"`
	EstimatedTime int             `json:"estimated_time,omitempty"`
}

type PickupInfo struct {
	ScheduledTime *time.Time `json:"scheduled_time,omitempty"`
	EstimatedTime int        `json:"estimated_time,omitempty"`
}

type Payment struct {
	Method                PaymentMethod `json:"method"`
	Status                PaymentStatus `json:"status"`
	StripePaymentIntentID string        `json:"stripe_payment_intent_id,omitempty"`
	Amount                float64       `json:"amount"`
}

type Pricing struct {
	Subtotal    float64 `json:"subtotal"`
	DeliveryFee float64 `json:"delivery_fee"`
	Tax         float64 `json:"tax"`
	Discount    float64 `json:"discount"`
	Total       float64 `json:"total"`
}

type TimelineEntry struct {
	Status    OrderStatus `json:"status"`
	Timestamp time.Time   `json:"timestamp"`
	Note      string      `json:"note,omitempty"`
}

var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderPending:        {OrderConfirmed, OrderCancelled},
	OrderConfirmed:      {OrderPreparing, OrderCancelled},
	OrderPreparing:      {OrderReady, OrderCancelled},
	OrderReady:          {OrderOutForDelivery, OrderDelivered},
	OrderOutForDelivery: {OrderDelivered},
}

// CanTransition checks the order lifecycle. A pickup order never goes out for
// delivery and a delivery order is only delivered once it left the kitchen.
func (o *Order) CanTransition(next OrderStatus) bool {
	if !slices.Contains(orderTransitions[o.Status], next) {
		return false
	}
	if o.Status == OrderReady {
		switch o.Type {
		case OrderTypePickup:
			return next == OrderDelivered
		case OrderTypeDelivery:
			return next == OrderOutForDelivery
		}
	}
	return true
}

// AppendTimeline records a status change. Earlier entries are never touched.
func (o *Order) AppendTimeline(status OrderStatus, note string, at time.Time) {
	o.Status = status
	o.Timeline = append(o.Timeline, TimelineEntry{Status: status, Timestamp: at, Note: note})
}

type OrderFilter struct {
	Status     OrderStatus
	CustomerID string
	Type       OrderType
	From       time.Time
	To         time.Time
}

func (f OrderFilter) Apply(tx *gorm.DB) *gorm.DB {
	if f.Status != "" {
		tx = tx.Where("status = ?", f.Status)
	}
	if f.CustomerID != "" {
		tx = tx.Where("customer_id = ?", f.CustomerID)
	}
	if f.Type != "" {
		tx = tx.Where("type = ?", f.Type)
	}
	if !f.From.IsZero() {
		tx = tx.Where("created_at >= ?", f.From)
	}
	if !f.To.IsZero() {
		tx = tx.Where("created_at <= ?", f.To)
	}
	return tx
}

// OrderStats is one row of the per-status aggregate.
type OrderStats struct {
	Status  OrderStatus `json:"status"`
	Count   int64       `json:"count"`
	Revenue float64     `json:"revenue"`
}
