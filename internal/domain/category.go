package domain

import (
	"strings"

	"gorm.io/gorm"
)

type Category struct {
	Base
	TenantOwned
	Name        string `gorm:"type:text;not null" json:"name"`
	Description string `gorm:"type:text" json:"description,omitempty"`
	Image       string `gorm:"type:text" json:"image,omitempty"`
	SortOrder   int    `gorm:"not null" json:"sort_order"`
	IsActive    bool   `gorm:"not null" json:"is_active"`
}

func (Category) TableName() string {
	return "categories"
}

func (c *Category) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return NewValidationError("Name is required")
	}
	return nil
}

// CatalogOrder sorts categories and products the way menus are displayed.
const CatalogOrder = "sort_order ASC, created_at DESC"

type CategoryFilter struct {
	Active *bool
}

func (f CategoryFilter) Apply(tx *gorm.DB) *gorm.DB {
	if f.Active != nil {
		tx = tx.Where("is_active = ?", *f.Active)
	}
	return tx
}
