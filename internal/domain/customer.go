package domain

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

type AddressType string

const (
	AddressHome  AddressType = "home"
	AddressWork  AddressType = "work"
	AddressOther AddressType = "other"
)

const DefaultCountry = "UAE"

type Customer struct {
	Base
	TenantOwned
	Email       string              `gorm:"type:text;index" json:"email,omitempty"`
	Phone       string              `gorm:"type:text;index" json:"phone,omitempty"`
	Name        string              `gorm:"type:text;not null" json:"name"`
	Addresses   []CustomerAddress   `gorm:"type:jsonb;serializer:json" json:"addresses"`
	Preferences CustomerPreferences `gorm:"type:jsonb;serializer:json" json:"preferences"`
	TotalOrders int                 `gorm:"not null;default:0" json:"total_orders"`
	TotalSpent  float64             `gorm:"not null;default:0" json:"total_spent"`
	LastOrderAt *time.Time          `json:"last_order_at,omitempty"`
}

func (Customer) TableName() string {
	return "customers"
}

type CustomerAddress struct {
	Type         AddressType  `json:"type"`
	Street       string       `json:"street"`
	City         string       `json:"city"`
	PostalCode   string       `json:"postal_code,omitempty"`
	Country      string       `json:"country"`
	Coordinates  *Coordinates `json:"coordinates,omitempty"`
	Instructions string       `json:"instructions,omitempty"`
}

type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type CustomerPreferences struct {
	Newsletter bool `json:"newsletter"`
	SMS        bool `json:"sms"`
	WhatsApp   bool `json:"whatsapp"`
}

// DefaultPreferences opts a new customer into transactional messages only.
func DefaultPreferences() CustomerPreferences {
	return CustomerPreferences{Newsletter: false, SMS: true, WhatsApp: true}
}

func (c *Customer) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return NewValidationError("customer name is required")
	}
	for _, a := range c.Addresses {
		switch a.Type {
		case AddressHome, AddressWork, AddressOther:
		default:
			return NewValidationError("address type must be home, work or other")
		}
	}
	return nil
}

func (c *Customer) ApplyDefaults() {
	if c.Addresses == nil {
		c.Addresses = []CustomerAddress{}
	}
	for i := range c.Addresses {
		if c.Addresses[i].Type == "" {
			c.Addresses[i].Type = AddressHome
		}
		if c.Addresses[i].Country == "" {
			c.Addresses[i].Country = DefaultCountry
		}
	}
}

type CustomerFilter struct {
	Phone  string
	Email  string
	Search string
}

func (f CustomerFilter) Apply(tx *gorm.DB) *gorm.DB {
	if f.Phone != "" {
		tx = tx.Where("phone = ?", f.Phone)
	}
	if f.Email != "" {
		tx = tx.Where("email = ?", strings.ToLower(f.Email))
	}
	if f.Search != "" {
		like := "%" + strings.ToLower(f.Search) + "%"
		tx = tx.Where("(LOWER(name) LIKE ? OR phone LIKE ?)", like, like)
	}
	return tx
}
