package whatsapp

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
	"time"
	_ "time/tzdata"

	"github.com/kingrain94/restaurant-saas/internal/domain"
)

const orderCreatedText = `🍕 *{{.RestaurantName}} - New order!*

*Order #{{.OrderNumber}}*
*Customer:* {{.Customer.Name}}
*Phone:* {{.Customer.Phone}}
*Type:* {{if .IsDelivery}}🚚 Delivery{{else}}🏪 Pickup{{end}}

*Items:*
{{range .Items}}• {{.Quantity}}x {{.ProductName}} - {{money .UnitPrice}}
{{end}}
*Subtotal:* {{money .Pricing.Subtotal}}
{{- if gt .Pricing.DeliveryFee 0.0}}
*Delivery fee:* {{money .Pricing.DeliveryFee}}
{{- end}}
*Total:* {{money .Pricing.Total}}

{{if .IsDelivery -}}
*Delivery address:*
{{with .Delivery}}{{.Street}}
{{.City}}
{{- if .Instructions}}
*Instructions:* {{.Instructions}}
{{- end}}{{end}}
{{- else -}}
*Pickup at the restaurant*
{{- end}}
{{if .Notes}}
*Special notes:* {{.Notes}}
{{end}}
*Ordered at:* {{localTime .CreatedAt}}

Thank you for your order! 🙏`

const statusUpdateText = `📦 *Order update*

*Order #{{.OrderNumber}}*
{{.Headline}}

{{.ETA}}
{{if .ShowAddress}}
📍 *Restaurant address:*
{{.Address}}
{{end}}
Thank you for your trust! 🙏`

var statusHeadlines = map[domain.OrderStatus]string{
	domain.OrderConfirmed:      "✅ *Order confirmed* - We are preparing your order",
	domain.OrderPreparing:      "👨‍🍳 *Preparing* - Your order is being prepared",
	domain.OrderReady:          "🍽️ *Order ready* - Your order is ready!",
	domain.OrderOutForDelivery: "🚚 *On the way* - The driver has left with your order",
	domain.OrderDelivered:      "🎉 *Delivered* - Your order has been delivered!",
}

const (
	defaultRestaurantName  = "Restaurant"
	defaultAddress         = "See the app for the address"
	defaultDeliveryMinutes = 15
)

// Templates renders customer messages. Prices carry the configured currency
// and times are shown in the restaurant's zone.
type Templates struct {
	created  *template.Template
	status   *template.Template
	location *time.Location
	currency string
}

func NewTemplates(currency, timeZone string) (*Templates, error) {
	location, err := time.LoadLocation(timeZone)
	if err != nil {
		return nil, fmt.Errorf("failed to load time zone %q: %w", timeZone, err)
	}

	t := &Templates{location: location, currency: currency}
	funcs := template.FuncMap{
		"money":     t.money,
		"localTime": t.localTime,
	}
	t.created = template.Must(template.New("order_created").Funcs(funcs).Parse(orderCreatedText))
	t.status = template.Must(template.New("status_update").Funcs(funcs).Parse(statusUpdateText))
	return t, nil
}

type orderView struct {
	*domain.OrderNotification
	RestaurantName string
	IsDelivery     bool
}

// OrderCreated renders the summary sent when an order is placed.
func (t *Templates) OrderCreated(order *domain.OrderNotification) (string, error) {
	view := orderView{
		OrderNotification: order,
		RestaurantName:    order.Restaurant.Name,
		IsDelivery:        order.Type == domain.OrderTypeDelivery && order.Delivery != nil,
	}
	if view.RestaurantName == "" {
		view.RestaurantName = defaultRestaurantName
	}

	var buf bytes.Buffer
	if err := t.created.Execute(&buf, view); err != nil {
		return "", fmt.Errorf("failed to render order message: %w", err)
	}
	return buf.String(), nil
}

type statusView struct {
	OrderNumber string
	Headline    string
	ETA         string
	ShowAddress bool
	Address     string
}

// StatusUpdate renders the message for one of the notifying statuses.
func (t *Templates) StatusUpdate(order *domain.OrderNotification, status domain.OrderStatus) (string, error) {
	headline, ok := statusHeadlines[status]
	if !ok {
		return "", ErrInvalidStatus
	}

	view := statusView{
		OrderNumber: order.OrderNumber,
		Headline:    headline,
		ETA:         eta(order, status),
		ShowAddress: status == domain.OrderReady && order.Type == domain.OrderTypePickup,
		Address:     order.Restaurant.Address,
	}
	if view.Address == "" {
		view.Address = defaultAddress
	}

	var buf bytes.Buffer
	if err := t.status.Execute(&buf, view); err != nil {
		return "", fmt.Errorf("failed to render status message: %w", err)
	}
	return buf.String(), nil
}

func eta(order *domain.OrderNotification, status domain.OrderStatus) string {
	delivery := order.Type == domain.OrderTypeDelivery
	switch status {
	case domain.OrderConfirmed:
		if delivery {
			return "⏱️ Estimated time: 30-45 minutes"
		}
		return "⏱️ Estimated time: 15-20 minutes"
	case domain.OrderPreparing:
		return "⏱️ Almost ready..."
	case domain.OrderReady:
		if order.Type == domain.OrderTypePickup {
			return "📍 You can come and collect your order"
		}
		return "🚚 The driver will leave shortly"
	case domain.OrderOutForDelivery:
		minutes := defaultDeliveryMinutes
		if order.Delivery != nil && order.Delivery.EstimatedTime > 0 {
			minutes = order.Delivery.EstimatedTime
		}
		return fmt.Sprintf("⏱️ Estimated arrival: %d minutes", minutes)
	case domain.OrderDelivered:
		return "✨ Enjoy your meal!"
	}
	return ""
}

func (t *Templates) money(amount float64) string {
	s := strings.TrimSuffix(strings.TrimRight(fmt.Sprintf("%.2f", amount), "0"), ".")
	return s + " " + t.currency
}

func (t *Templates) localTime(at time.Time) string {
	return at.In(t.location).Format("02/01/2006 15:04")
}
