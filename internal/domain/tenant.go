package domain

import (
	"strings"
	"time"
)

type SubscriptionStatus string

const (
	SubscriptionActive    SubscriptionStatus = "active"
	SubscriptionInactive  SubscriptionStatus = "inactive"
	SubscriptionSuspended SubscriptionStatus = "suspended"
)

type SubscriptionPlan string

const (
	PlanBasic   SubscriptionPlan = "basic"
	PlanPremium SubscriptionPlan = "premium"
)

const DefaultPrimaryColor = "#3B82F6"

type Tenant struct {
	Base
	Name         string             `gorm:"type:text;not null" json:"name"`
	Subdomain    string             `gorm:"type:text;not null;uniqueIndex" json:"subdomain"`
	Domain       *string            `gorm:"type:text;uniqueIndex" json:"domain,omitempty"`
	Settings     TenantSettings     `gorm:"type:jsonb;serializer:json" json:"settings"`
	Subscription TenantSubscription `gorm:"type:jsonb;serializer:json" json:"subscription"`
}

func (Tenant) TableName() string {
	return "tenants"
}

type TenantSettings struct {
	Branding Branding        `json:"branding"`
	Contact  Contact         `json:"contact"`
	Business BusinessProfile `json:"business"`
}

type Branding struct {
	PrimaryColor string `json:"primary_color"`
	Logo         string `json:"logo,omitempty"`
	Favicon      string `json:"favicon,omitempty"`
}

type Contact struct {
	Phone   string `json:"phone,omitempty"`
	Email   string `json:"email,omitempty"`
	Address string `json:"address,omitempty"`
}

type BusinessProfile struct {
	Cuisine     string            `json:"cuisine"`
	Description string            `json:"description,omitempty"`
	Hours       map[string]string `json:"hours,omitempty"`
}

type TenantSubscription struct {
	Status               SubscriptionStatus `json:"status"`
	Plan                 SubscriptionPlan   `json:"plan"`
	StripeCustomerID     string             `json:"stripe_customer_id,omitempty"`
	StripeSubscriptionID string             `json:"stripe_subscription_id,omitempty"`
	ExpiresAt            *time.Time         `json:"expires_at,omitempty"`
}

// ApplyDefaults fills the values a new tenant gets when the caller omits them.
func (t *Tenant) ApplyDefaults() {
	t.Subdomain = strings.ToLower(strings.TrimSpace(t.Subdomain))
	if t.Settings.Branding.PrimaryColor == "" {
		t.Settings.Branding.PrimaryColor = DefaultPrimaryColor
	}
	if t.Subscription.Status == "" {
		t.Subscription.Status = SubscriptionActive
	}
	if t.Subscription.Plan == "" {
		t.Subscription.Plan = PlanBasic
	}
}

func (t *Tenant) Validate() error {
	if strings.TrimSpace(t.Name) == "" {
		return NewValidationError("name is required")
	}
	if !IsValidSubdomain(t.Subdomain) {
		return NewValidationError("subdomain must be a lowercase DNS label")
	}
	if strings.TrimSpace(t.Settings.Business.Cuisine) == "" {
		return NewValidationError("settings.business.cuisine is required")
	}
	switch t.Subscription.Status {
	case SubscriptionActive, SubscriptionInactive, SubscriptionSuspended:
	default:
		return NewValidationError("invalid subscription status")
	}
	switch t.Subscription.Plan {
	case PlanBasic, PlanPremium:
	default:
		return NewValidationError("invalid subscription plan")
	}
	return nil
}

// IsActive is false for suspended or inactive subscriptions.
func (t *Tenant) IsActive() bool {
	return t.Subscription.Status == SubscriptionActive
}

// IsValidSubdomain accepts a single lowercase DNS label.
func IsValidSubdomain(label string) bool {
	if label == "" || len(label) > 63 {
		return false
	}
	for i, r := range label {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
		case r == '-' && i > 0 && i < len(label)-1:
		default:
			return false
		}
	}
	return true
}
