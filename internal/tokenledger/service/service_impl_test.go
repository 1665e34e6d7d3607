package service

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	bundledomain "github.com/rextra/rextra/internal/bundle/domain"
	bundlerepository "github.com/rextra/rextra/internal/bundle/repository"
	"github.com/rextra/rextra/internal/clock"
	"github.com/rextra/rextra/internal/config"
	memberdomain "github.com/rextra/rextra/internal/member/domain"
	memberrepository "github.com/rextra/rextra/internal/member/repository"
	pricingdomain "github.com/rextra/rextra/internal/pricing/domain"
	pricingrepository "github.com/rextra/rextra/internal/pricing/repository"
	pricingservice "github.com/rextra/rextra/internal/pricing/service"
	tokenledgerdomain "github.com/rextra/rextra/internal/tokenledger/domain"
	"github.com/rextra/rextra/internal/tokenledger/repository"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func intPtr(v int64) *int64 { return &v }

type ledgerFixture struct {
	svc      tokenledgerdomain.Service
	db       *gorm.DB
	member   memberdomain.Member
	bundle   bundledomain.BundlePackage
	inactive bundledomain.BundlePackage
}

func setupLedger(t *testing.T) *ledgerFixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	assert.NoError(t, err)
	assert.NoError(t, db.AutoMigrate(
		&pricingdomain.PurchaseConfig{},
		&pricingdomain.PricingTier{},
		&bundledomain.BundlePackage{},
		&memberdomain.Member{},
		&tokenledgerdomain.TokenTransaction{},
	))

	node, _ := snowflake.NewNode(1)
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	cfg := pricingdomain.PurchaseConfig{
		ID:        node.Generate().Int64(),
		Enabled:   true,
		MinTokens: 10,
		MaxTokens: 10_000,
		BasePrice: 1000,
	}
	assert.NoError(t, db.Create(&cfg).Error)
	seeded := pricingdomain.PurchaseConfig{
		BasePrice: 1000,
		Tiers: []pricingdomain.PricingTier{
			{FromQty: 10, ToQty: intPtr(100), DiscountPercent: 0},
			{FromQty: 101, ToQty: intPtr(500), DiscountPercent: 5},
			{FromQty: 501, ToQty: nil, DiscountPercent: 10},
		},
	}
	pricingdomain.Recalculate(&seeded)
	for i := range seeded.Tiers {
		seeded.Tiers[i].ID = node.Generate().Int64()
		seeded.Tiers[i].ConfigID = cfg.ID
		assert.NoError(t, db.Create(&seeded.Tiers[i]).Error)
	}

	member := memberdomain.Member{
		ID:             node.Generate().Int64(),
		Email:          "andi@example.com",
		FullName:       "Andi Pratama",
		MembershipTier: memberdomain.TierBasic,
		Status:         memberdomain.StatusActive,
		TokenBalance:   5,
		JoinedAt:       now,
	}
	assert.NoError(t, db.Create(&member).Error)

	bundle := bundledomain.BundlePackage{
		ID:            node.Generate().Int64(),
		Name:          "Bundle Hemat",
		Tokens:        250,
		Price:         225_000,
		PricePerToken: 900,
		DisplayOrder:  1,
		Status:        bundledomain.StatusActive,
	}
	assert.NoError(t, db.Create(&bundle).Error)

	inactive := bundledomain.BundlePackage{
		ID:            node.Generate().Int64(),
		Name:          "Retired",
		Tokens:        100,
		Price:         100_000,
		PricePerToken: 1000,
		DisplayOrder:  2,
		Status:        bundledomain.StatusInactive,
	}
	assert.NoError(t, db.Create(&inactive).Error)

	pricingSvc := pricingservice.New(pricingservice.Params{
		DB:    db,
		Log:   zap.NewNop(),
		GenID: node,
		Repo:  pricingrepository.Provide(),
		Policy: config.NewStaticPricingPolicyHolder(config.PricingPolicy{
			GuardrailFloorPercent: 90,
			MaxTiers:              10,
			MinPurchasableTokens:  1,
			MaxPurchasableTokens:  1_000_000,
		}),
	})

	svc := New(Params{
		DB:         db,
		Log:        zap.NewNop(),
		GenID:      node,
		Clock:      clock.NewFakeClock(now),
		Repo:       repository.Provide(),
		Pricing:    pricingSvc,
		BundleRepo: bundlerepository.Provide(),
		MemberRepo: memberrepository.Provide(),
	})

	return &ledgerFixture{svc: svc, db: db, member: member, bundle: bundle, inactive: inactive}
}

func (f *ledgerFixture) memberID() string { return strconv.FormatInt(f.member.ID, 10) }

func TestLedger_RecordCustomPurchase(t *testing.T) {
	f := setupLedger(t)

	result, err := f.svc.RecordCustomPurchase(context.Background(), tokenledgerdomain.CustomPurchaseRequest{
		MemberID: f.memberID(),
		Quantity: 750,
	})
	assert.NoError(t, err)

	assert.Equal(t, tokenledgerdomain.KindCustomPurchase, result.Transaction.Kind)
	assert.Equal(t, int64(750), result.Transaction.Tokens)
	assert.Equal(t, int64(704_100), result.Transaction.Amount)
	assert.Equal(t, int64(939), result.Transaction.AverageUnitPrice)
	assert.NotNil(t, result.Breakdown)
	assert.Contains(t, string(result.Transaction.Breakdown), `"total":704100`)

	var balance memberdomain.Member
	assert.NoError(t, f.db.First(&balance, f.member.ID).Error)
	assert.Equal(t, int64(755), balance.TokenBalance)
}

func TestLedger_CustomPurchaseDisabledConfig(t *testing.T) {
	f := setupLedger(t)

	assert.NoError(t, f.db.Exec(`UPDATE purchase_configs SET enabled = ?`, false).Error)

	_, err := f.svc.RecordCustomPurchase(context.Background(), tokenledgerdomain.CustomPurchaseRequest{
		MemberID: f.memberID(),
		Quantity: 100,
	})
	assert.ErrorIs(t, err, pricingdomain.ErrPurchaseDisabled)
}

func TestLedger_CustomPurchaseQuantityBounds(t *testing.T) {
	f := setupLedger(t)
	ctx := context.Background()

	_, err := f.svc.RecordCustomPurchase(ctx, tokenledgerdomain.CustomPurchaseRequest{
		MemberID: f.memberID(),
		Quantity: 5,
	})
	assert.ErrorIs(t, err, pricingdomain.ErrBelowMinimum)

	_, err = f.svc.RecordCustomPurchase(ctx, tokenledgerdomain.CustomPurchaseRequest{
		MemberID: f.memberID(),
		Quantity: 20_000,
	})
	assert.ErrorIs(t, err, pricingdomain.ErrAboveMaximum)
}

func TestLedger_RecordBundlePurchase(t *testing.T) {
	f := setupLedger(t)

	result, err := f.svc.RecordBundlePurchase(context.Background(), tokenledgerdomain.BundlePurchaseRequest{
		MemberID: f.memberID(),
		BundleID: strconv.FormatInt(f.bundle.ID, 10),
	})
	assert.NoError(t, err)

	assert.Equal(t, tokenledgerdomain.KindBundlePurchase, result.Transaction.Kind)
	assert.Equal(t, int64(250), result.Transaction.Tokens)
	assert.Equal(t, int64(225_000), result.Transaction.Amount)

	var balance memberdomain.Member
	assert.NoError(t, f.db.First(&balance, f.member.ID).Error)
	assert.Equal(t, int64(255), balance.TokenBalance)
}

func TestLedger_BundlePurchaseInactive(t *testing.T) {
	f := setupLedger(t)

	_, err := f.svc.RecordBundlePurchase(context.Background(), tokenledgerdomain.BundlePurchaseRequest{
		MemberID: f.memberID(),
		BundleID: strconv.FormatInt(f.inactive.ID, 10),
	})
	assert.ErrorIs(t, err, tokenledgerdomain.ErrBundleInactive)
}

func TestLedger_BundlePurchaseUnknownBundle(t *testing.T) {
	f := setupLedger(t)

	_, err := f.svc.RecordBundlePurchase(context.Background(), tokenledgerdomain.BundlePurchaseRequest{
		MemberID: f.memberID(),
		BundleID: "999999",
	})
	assert.ErrorIs(t, err, tokenledgerdomain.ErrBundleNotFound)
}

func TestLedger_AdjustmentSpendAndGrant(t *testing.T) {
	f := setupLedger(t)
	ctx := context.Background()

	tx, err := f.svc.RecordAdjustment(ctx, tokenledgerdomain.AdjustmentRequest{
		MemberID: f.memberID(),
		Kind:     tokenledgerdomain.KindGrant,
		Tokens:   100,
	})
	assert.NoError(t, err)
	assert.Equal(t, int64(100), tx.Tokens)

	tx, err = f.svc.RecordAdjustment(ctx, tokenledgerdomain.AdjustmentRequest{
		MemberID:  f.memberID(),
		Kind:      tokenledgerdomain.KindSpend,
		Tokens:    30,
		Reference: "consultation",
	})
	assert.NoError(t, err)
	assert.Equal(t, int64(-30), tx.Tokens)

	// spending below zero is rejected and leaves no ledger row
	_, err = f.svc.RecordAdjustment(ctx, tokenledgerdomain.AdjustmentRequest{
		MemberID: f.memberID(),
		Kind:     tokenledgerdomain.KindSpend,
		Tokens:   1000,
	})
	assert.ErrorIs(t, err, tokenledgerdomain.ErrInsufficientFunds)

	var balance memberdomain.Member
	assert.NoError(t, f.db.First(&balance, f.member.ID).Error)
	assert.Equal(t, int64(75), balance.TokenBalance)
}

func TestLedger_UnknownMember(t *testing.T) {
	f := setupLedger(t)

	_, err := f.svc.RecordCustomPurchase(context.Background(), tokenledgerdomain.CustomPurchaseRequest{
		MemberID: "424242",
		Quantity: 100,
	})
	assert.ErrorIs(t, err, tokenledgerdomain.ErrMemberNotFound)
}

func TestLedger_ListAndSummary(t *testing.T) {
	f := setupLedger(t)
	ctx := context.Background()

	_, err := f.svc.RecordCustomPurchase(ctx, tokenledgerdomain.CustomPurchaseRequest{
		MemberID: f.memberID(),
		Quantity: 100,
	})
	assert.NoError(t, err)
	_, err = f.svc.RecordBundlePurchase(ctx, tokenledgerdomain.BundlePurchaseRequest{
		MemberID: f.memberID(),
		BundleID: strconv.FormatInt(f.bundle.ID, 10),
	})
	assert.NoError(t, err)

	list, err := f.svc.List(ctx, tokenledgerdomain.ListRequest{})
	assert.NoError(t, err)
	assert.Len(t, list.Transactions, 2)

	custom, err := f.svc.List(ctx, tokenledgerdomain.ListRequest{Kind: tokenledgerdomain.KindCustomPurchase})
	assert.NoError(t, err)
	assert.Len(t, custom.Transactions, 1)

	summary, err := f.svc.Summary(ctx)
	assert.NoError(t, err)
	assert.Len(t, summary.Kinds, 2)
	assert.Equal(t, int64(350), summary.TotalTokens)
}
