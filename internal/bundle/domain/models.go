package domain

import "time"

const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

// BundlePackage is a flat-price, fixed-quantity token package. Bundles are
// never deleted, only deactivated, so historical transactions keep a valid
// reference.
type BundlePackage struct {
	ID            int64     `json:"id" gorm:"primaryKey"`
	Name          string    `json:"name" gorm:"type:text;not null;uniqueIndex"`
	Tokens        int64     `json:"tokens" gorm:"not null"`
	Price         int64     `json:"price" gorm:"not null"`
	PricePerToken int64     `json:"price_per_token" gorm:"not null"`
	Label         *string   `json:"label,omitempty" gorm:"type:text"`
	DisplayOrder  int       `json:"display_order" gorm:"not null;default:0"`
	Status        string    `json:"status" gorm:"type:text;not null;default:'active'"`
	CreatedAt     time.Time `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt     time.Time `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (BundlePackage) TableName() string { return "bundle_packages" }

func (b BundlePackage) Active() bool { return b.Status == StatusActive }
