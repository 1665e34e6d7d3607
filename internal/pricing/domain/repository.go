package domain

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	// Get loads the singleton config with its tiers ordered by position.
	Get(ctx context.Context, db *gorm.DB) (*PurchaseConfig, error)
	// Replace atomically swaps the stored config and its whole tier set.
	Replace(ctx context.Context, db *gorm.DB, cfg *PurchaseConfig) error
}
