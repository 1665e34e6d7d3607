package repository

import (
	"context"

	pricingdomain "github.com/rextra/rextra/internal/pricing/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() pricingdomain.Repository {
	return &repo{}
}

func (r *repo) Get(ctx context.Context, db *gorm.DB) (*pricingdomain.PurchaseConfig, error) {
	var cfg pricingdomain.PurchaseConfig
	err := db.WithContext(ctx).Raw(
		`SELECT id, enabled, min_tokens, max_tokens, base_price, created_at, updated_at
		 FROM purchase_configs ORDER BY id ASC LIMIT 1`,
	).Scan(&cfg).Error
	if err != nil {
		return nil, err
	}
	if cfg.ID == 0 {
		return nil, nil
	}

	err = db.WithContext(ctx).Raw(
		`SELECT id, config_id, position, from_qty, to_qty, discount_percent, effective_price, created_at, updated_at
		 FROM pricing_tiers WHERE config_id = ? ORDER BY position ASC`,
		cfg.ID,
	).Scan(&cfg.Tiers).Error
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (r *repo) Replace(ctx context.Context, db *gorm.DB, cfg *pricingdomain.PurchaseConfig) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Exec(
			`DELETE FROM pricing_tiers WHERE config_id = ?`, cfg.ID,
		).Error
		if err != nil {
			return err
		}

		err = tx.Exec(
			`UPDATE purchase_configs
			 SET enabled = ?, min_tokens = ?, max_tokens = ?, base_price = ?, updated_at = ?
			 WHERE id = ?`,
			cfg.Enabled, cfg.MinTokens, cfg.MaxTokens, cfg.BasePrice, cfg.UpdatedAt, cfg.ID,
		).Error
		if err != nil {
			return err
		}
		if tx.RowsAffected == 0 {
			err = tx.Exec(
				`INSERT INTO purchase_configs (id, enabled, min_tokens, max_tokens, base_price, created_at, updated_at)
				 VALUES (?, ?, ?, ?, ?, ?, ?)`,
				cfg.ID, cfg.Enabled, cfg.MinTokens, cfg.MaxTokens, cfg.BasePrice, cfg.CreatedAt, cfg.UpdatedAt,
			).Error
			if err != nil {
				return err
			}
		}

		for _, tier := range cfg.Tiers {
			err = tx.Exec(
				`INSERT INTO pricing_tiers (id, config_id, position, from_qty, to_qty, discount_percent, effective_price, created_at, updated_at)
				 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				tier.ID, cfg.ID, tier.Position, tier.FromQty, tier.ToQty,
				tier.DiscountPercent, tier.EffectivePrice, tier.CreatedAt, tier.UpdatedAt,
			).Error
			if err != nil {
				return err
			}
		}
		return nil
	})
}
