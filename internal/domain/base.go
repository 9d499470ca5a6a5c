package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base carries the identity and timestamps shared by every persisted entity.
type Base struct {
	ID        string    `gorm:"primaryKey;type:uuid" json:"id"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (b *Base) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.New().String()
	}
	return nil
}

// TenantOwned marks an entity as living inside exactly one tenant.
type TenantOwned struct {
	TenantID string `gorm:"type:uuid;not null;index" json:"tenant_id"`
}

func (t *TenantOwned) SetTenantID(tenantID string) {
	t.TenantID = tenantID
}

func (t TenantOwned) GetTenantID() string {
	return t.TenantID
}
