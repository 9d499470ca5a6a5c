package domain

import "time"

// OrderNotification is the self-contained order snapshot the notifier renders.
// It carries names and prices so the worker never reads the catalog.
type OrderNotification struct {
	OrderID     string                 `json:"order_id,omitempty"`
	OrderNumber string                 `json:"order_number"`
	Restaurant  NotificationRestaurant `json:"restaurant"`
	Customer    NotificationCustomer   `json:"customer"`
	Type        OrderType              `json:"type"`
	Items       []NotificationItem     `json:"items"`
	Pricing     Pricing                `json:"pricing"`
	Delivery    *NotificationDelivery  `json:"delivery,omitempty"`
	Notes       string                 `json:"notes,omitempty"`
	CreatedAt   time.Time              `json:"created_at"`
}

type NotificationRestaurant struct {
	Name    string `json:"name"`
	Address string `json:"address,omitempty"`
}

type NotificationCustomer struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

type NotificationItem struct {
	ProductName string  `json:"product_name"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
}

type NotificationDelivery struct {
	Street        string `json:"street,omitempty"`
	City          string `json:"city,omitempty"`
	Instructions  string `json:"instructions,omitempty"`
	EstimatedTime int    `json:"estimated_time,omitempty"`
}

// NewOrderNotification flattens an order with its customer for the notifier.
func NewOrderNotification(order *Order, tenant *Tenant) *OrderNotification {
	n := &OrderNotification{
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		Type:        order.Type,
		Pricing:     order.Pricing,
		Notes:       order.Notes,
		CreatedAt:   order.CreatedAt,
		Items:       make([]NotificationItem, 0, len(order.Items)),
	}
	if tenant != nil {
		n.Restaurant = NotificationRestaurant{Name: tenant.Name, Address: tenant.Settings.Contact.Address}
	}
	if order.Customer != nil {
		n.Customer = NotificationCustomer{Name: order.Customer.Name, Phone: order.Customer.Phone}
	}
	for _, item := range order.Items {
		n.Items = append(n.Items, NotificationItem{
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
		})
	}
	if order.Delivery != nil {
		n.Delivery = &NotificationDelivery{
			Street:        order.Delivery.Address.Street,
			City:          order.Delivery.Address.City,
			Instructions:  order.Delivery.Address.Instructions,
			EstimatedTime: order.Delivery.EstimatedTime,
		}
	}
	return n
}

// OrderEvent is pushed to the live order board of a tenant.
type OrderEvent struct {
	TenantID    string      `json:"tenant_id"`
	OrderID     string      `json:"order_id"`
	OrderNumber string      `json:"order_number"`
	Status      OrderStatus `json:"status"`
	Type        OrderType   `json:"type"`
	Total       float64     `json:"total"`
	At          time.Time   `json:"at"`
}

func NewOrderEvent(order *Order) *OrderEvent {
	return &OrderEvent{
		TenantID:    order.TenantID,
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		Status:      order.Status,
		Type:        order.Type,
		Total:       order.Pricing.Total,
		At:          order.UpdatedAt,
	}
}
