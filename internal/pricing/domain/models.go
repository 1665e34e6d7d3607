package domain

import (
	"time"
)

// PurchaseConfig is the custom token-purchase ledger: global purchase
// bounds, the base per-token price, and the ordered discount tiers.
// Saves replace the whole config in one transaction.
type PurchaseConfig struct {
	ID        int64     `json:"id" gorm:"primaryKey"`
	Enabled   bool      `json:"enabled" gorm:"not null;default:true"`
	MinTokens int64     `json:"min_tokens" gorm:"not null"`
	MaxTokens int64     `json:"max_tokens" gorm:"not null"`
	BasePrice int64     `json:"base_price" gorm:"not null"`
	CreatedAt time.Time `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`

	Tiers []PricingTier `json:"tiers" gorm:"-"`
}

func (PurchaseConfig) TableName() string { return "purchase_configs" }

// PricingTier covers a contiguous token-quantity range with one discount.
// ToQty nil marks the unbounded final tier. EffectivePrice is derived from
// the config base price and never set independently.
type PricingTier struct {
	ID              int64     `json:"id" gorm:"primaryKey"`
	ConfigID        int64     `json:"config_id" gorm:"column:config_id;not null;index"`
	Position        int       `json:"position" gorm:"not null"`
	FromQty         int64     `json:"from" gorm:"column:from_qty;not null"`
	ToQty           *int64    `json:"to,omitempty" gorm:"column:to_qty"`
	DiscountPercent int       `json:"discount_percent" gorm:"not null"`
	EffectivePrice  int64     `json:"effective_price" gorm:"not null"`
	CreatedAt       time.Time `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt       time.Time `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (PricingTier) TableName() string { return "pricing_tiers" }

// Bounded reports whether the tier has an upper quantity bound.
func (t PricingTier) Bounded() bool { return t.ToQty != nil }
