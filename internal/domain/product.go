package domain

import (
	"strings"

	"gorm.io/gorm"
)

type OptionType string

const (
	OptionSingle   OptionType = "single"
	OptionMultiple OptionType = "multiple"
)

const DefaultLowStockAlert = 5

type Product struct {
	Base
	TenantOwned
	Name         string          `gorm:"type:text;not null" json:"name"`
	Description  string          `gorm:"type:text" json:"description,omitempty"`
	Price        float64         `gorm:"not null" json:"price"`
	Images       []string        `gorm:"type:jsonb;serializer:json" json:"images"`
	CategoryID   string          `gorm:"type:uuid;not null;index" json:"category_id"`
	Category     *Category       `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Inventory    Inventory       `gorm:"type:jsonb;serializer:json" json:"inventory"`
	Availability Availability    `gorm:"type:jsonb;serializer:json" json:"availability"`
	Options      []ProductOption `gorm:"type:jsonb;serializer:json" json:"options"`
	Nutritional  NutritionalInfo `gorm:"type:jsonb;serializer:json" json:"nutritional"`
	SEO          SEO             `gorm:"type:jsonb;serializer:json" json:"seo"`
	SortOrder    int             `gorm:"not null" json:"sort_order"`
	IsActive     bool            `gorm:"not null" json:"is_active"`
}

func (Product) TableName() string {
	return "products"
}

type Inventory struct {
	TrackStock    bool `json:"track_stock"`
	StockQuantity int  `json:"stock_quantity"`
	LowStockAlert int  `json:"low_stock_alert"`
}

type Availability struct {
	IsAvailable    bool       `json:"is_available"`
	AvailableDays  []string   `json:"available_days,omitempty"`
	AvailableHours *TimeRange `json:"available_hours,omitempty"`
}

type TimeRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type ProductOption struct {
	Name     string         `json:"name"`
	Type     OptionType     `json:"type"`
	Required bool           `json:"required"`
	Choices  []OptionChoice `json:"choices"`
}

type OptionChoice struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

type NutritionalInfo struct {
	Calories  int      `json:"calories,omitempty"`
	Allergens []string `json:"allergens,omitempty"`
	Dietary   []string `json:"dietary,omitempty"`
}

type SEO struct {
	Slug            string `json:"slug,omitempty"`
	MetaTitle       string `json:"meta_title,omitempty"`
	MetaDescription string `json:"meta_description,omitempty"`
}

func (p *Product) Validate() error {
	if strings.TrimSpace(p.Name) == "" || p.CategoryID == "" {
		return NewValidationError("Name, price and category are required")
	}
	if p.Price < 0 {
		return NewValidationError("price must not be negative")
	}
	for _, opt := range p.Options {
		if opt.Type != OptionSingle && opt.Type != OptionMultiple {
			return NewValidationError("option type must be single or multiple")
		}
		for _, choice := range opt.Choices {
			if choice.Price < 0 {
				return NewValidationError("option choice price must not be negative")
			}
		}
	}
	if p.Inventory.StockQuantity < 0 {
		return NewValidationError("stock quantity must not be negative")
	}
	return nil
}

func (p *Product) ApplyDefaults() {
	if p.Inventory.LowStockAlert == 0 {
		p.Inventory.LowStockAlert = DefaultLowStockAlert
	}
	if p.Images == nil {
		p.Images = []string{}
	}
	if p.Options == nil {
		p.Options = []ProductOption{}
	}
}

// CanOrder reports whether quantity units can be sold right now.
func (p *Product) CanOrder(quantity int) bool {
	if !p.IsActive || !p.Availability.IsAvailable {
		return false
	}
	return !p.Inventory.TrackStock || p.Inventory.StockQuantity >= quantity
}

// LowStock is true once a tracked product falls to its alert threshold.
func (p *Product) LowStock() bool {
	return p.Inventory.TrackStock && p.Inventory.StockQuantity <= p.Inventory.LowStockAlert
}

// FindChoice looks up an option choice by name.
func (p *Product) FindChoice(optionName, choiceName string) (*OptionChoice, bool) {
	for _, opt := range p.Options {
		if opt.Name != optionName {
			continue
		}
		for i := range opt.Choices {
			if opt.Choices[i].Name == choiceName {
				return &opt.Choices[i], true
			}
		}
	}
	return nil, false
}

type ProductFilter struct {
	CategoryID string
	Active     *bool
	IDs        []string
}

func (f ProductFilter) Apply(tx *gorm.DB) *gorm.DB {
	if f.CategoryID != "" {
		tx = tx.Where("category_id = ?", f.CategoryID)
	}
	if f.Active != nil {
		tx = tx.Where("is_active = ?", *f.Active)
	}
	if f.IDs != nil {
		tx = tx.Where("id IN ?", f.IDs)
	}
	return tx
}

// ProductSearch is a full-text catalog query.
type ProductSearch struct {
	Query      string
	CategoryID string
	Active     *bool
	Page       Page
}
