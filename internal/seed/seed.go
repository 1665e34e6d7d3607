package seed

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	bundledomain "github.com/rextra/rextra/internal/bundle/domain"
	feedbackdomain "github.com/rextra/rextra/internal/feedback/domain"
	memberdomain "github.com/rextra/rextra/internal/member/domain"
	pricingdomain "github.com/rextra/rextra/internal/pricing/domain"
	professiondomain "github.com/rextra/rextra/internal/profession/domain"
	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

func intPtr(v int64) *int64 { return &v }
func strPtr(v string) *string { return &v }

// EnsurePricingConfig seeds the singleton purchase config with a sane
// three-tier ledger when none exists yet. Existing configs are never
// touched.
func EnsurePricingConfig(db *gorm.DB) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		return err
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing pricingdomain.PurchaseConfig
		err := tx.First(&existing).Error
		if err == nil {
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		now := time.Now().UTC()
		cfg := pricingdomain.PurchaseConfig{
			ID:        node.Generate().Int64(),
			Enabled:   true,
			MinTokens: 10,
			MaxTokens: 10_000,
			BasePrice: 1000,
			CreatedAt: now,
			UpdatedAt: now,
			Tiers: []pricingdomain.PricingTier{
				{FromQty: 10, ToQty: intPtr(100), DiscountPercent: 0},
				{FromQty: 101, ToQty: intPtr(500), DiscountPercent: 5},
				{FromQty: 501, ToQty: nil, DiscountPercent: 10},
			},
		}
		pricingdomain.Recalculate(&cfg)

		if err := tx.Create(&cfg).Error; err != nil {
			return err
		}
		for i := range cfg.Tiers {
			cfg.Tiers[i].ID = node.Generate().Int64()
			cfg.Tiers[i].ConfigID = cfg.ID
			cfg.Tiers[i].CreatedAt = now
			cfg.Tiers[i].UpdatedAt = now
			if err := tx.Create(&cfg.Tiers[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// EnsureDemoData seeds starter bundles, a few career-dictionary entries,
// sample members, and feedback for local development. Idempotent: skips
// any table that already has rows.
func EnsureDemoData(db *gorm.DB) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		return err
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		members, err := ensureMembers(tx, node)
		if err != nil {
			return err
		}
		if err := ensureBundles(tx, node); err != nil {
			return err
		}
		if err := ensureProfessions(tx, node); err != nil {
			return err
		}
		return ensureFeedback(tx, node, members)
	})
}

func ensureBundles(tx *gorm.DB, node *snowflake.Node) error {
	var count int64
	if err := tx.Model(&bundledomain.BundlePackage{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	now := time.Now().UTC()
	bundles := []bundledomain.BundlePackage{
		{Name: "Starter", Tokens: 50, Price: 50_000, DisplayOrder: 1, Status: bundledomain.StatusActive},
		{Name: "Bundle Hemat", Tokens: 250, Price: 225_000, Label: strPtr("Best value"), DisplayOrder: 2, Status: bundledomain.StatusActive},
		{Name: "Pro", Tokens: 1000, Price: 850_000, DisplayOrder: 3, Status: bundledomain.StatusActive},
	}
	for i := range bundles {
		bundles[i].ID = node.Generate().Int64()
		bundles[i].PricePerToken = bundledomain.PricePerToken(bundles[i].Price, bundles[i].Tokens)
		bundles[i].CreatedAt = now
		bundles[i].UpdatedAt = now
		if err := tx.Create(&bundles[i]).Error; err != nil {
			return err
		}
	}
	return nil
}

func ensureProfessions(tx *gorm.DB, node *snowflake.Node) error {
	var count int64
	if err := tx.Model(&professiondomain.Profession{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	now := time.Now().UTC()
	entries := []professiondomain.Profession{
		{Name: "Data Engineer", Category: "Technology", Summary: "Builds and operates data pipelines.", Status: professiondomain.StatusPublished},
		{Name: "UX Researcher", Category: "Design", Summary: "Studies how people use products.", Status: professiondomain.StatusPublished},
		{Name: "Clinical Psychologist", Category: "Healthcare", Summary: "Assesses and treats mental health.", Status: professiondomain.StatusDraft},
	}
	for i := range entries {
		entries[i].ID = node.Generate().Int64()
		entries[i].Slug = slug.Make(entries[i].Name)
		entries[i].CreatedAt = now
		entries[i].UpdatedAt = now
		if err := tx.Create(&entries[i]).Error; err != nil {
			return err
		}
	}
	return nil
}

func ensureMembers(tx *gorm.DB, node *snowflake.Node) ([]memberdomain.Member, error) {
	var existing []memberdomain.Member
	if err := tx.Find(&existing).Error; err != nil {
		return nil, err
	}
	if len(existing) > 0 {
		return existing, nil
	}

	now := time.Now().UTC()
	members := []memberdomain.Member{
		{Email: "andi@example.com", FullName: "Andi Pratama", MembershipTier: memberdomain.TierPremium, TokenBalance: 120},
		{Email: "sari@example.com", FullName: "Sari Wulandari", MembershipTier: memberdomain.TierBasic, TokenBalance: 30},
	}
	for i := range members {
		members[i].ID = node.Generate().Int64()
		members[i].Status = memberdomain.StatusActive
		members[i].JoinedAt = now
		members[i].CreatedAt = now
		members[i].UpdatedAt = now
		if err := tx.Create(&members[i]).Error; err != nil {
			return nil, err
		}
	}
	return members, nil
}

func ensureFeedback(tx *gorm.DB, node *snowflake.Node, members []memberdomain.Member) error {
	if len(members) == 0 {
		return nil
	}

	var count int64
	if err := tx.Model(&feedbackdomain.Feedback{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	now := time.Now().UTC()
	entry := feedbackdomain.Feedback{
		ID:        node.Generate().Int64(),
		MemberID:  members[0].ID,
		Topic:     "Token pricing",
		Body:      "The bulk discount made larger purchases worthwhile.",
		Rating:    4,
		Status:    feedbackdomain.StatusNew,
		CreatedAt: now,
		UpdatedAt: now,
	}
	return tx.Create(&entry).Error
}
