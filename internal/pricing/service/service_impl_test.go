package service

import (
	"context"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/rextra/rextra/internal/config"
	pricingdomain "github.com/rextra/rextra/internal/pricing/domain"
	"github.com/rextra/rextra/internal/pricing/repository"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func intPtr(v int64) *int64 { return &v }

func setupPricingService(t *testing.T) (pricingdomain.Service, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	assert.NoError(t, err)

	err = db.AutoMigrate(&pricingdomain.PurchaseConfig{}, &pricingdomain.PricingTier{})
	assert.NoError(t, err)

	node, _ := snowflake.NewNode(1)

	svc := New(Params{
		DB:     db,
		Log:    zap.NewNop(),
		GenID:  node,
		Repo:   repository.Provide(),
		Policy: config.NewStaticPricingPolicyHolder(config.PricingPolicy{
			GuardrailFloorPercent: 90,
			MaxTiers:              10,
			MinPurchasableTokens:  1,
			MaxPurchasableTokens:  1_000_000,
		}),
	})

	// seed the singleton config the way startup does
	cfg := pricingdomain.PurchaseConfig{
		ID:        node.Generate().Int64(),
		Enabled:   true,
		MinTokens: 10,
		MaxTokens: 10_000,
		BasePrice: 1000,
	}
	assert.NoError(t, db.Create(&cfg).Error)
	tiers := []pricingdomain.PricingTier{
		{FromQty: 10, ToQty: intPtr(100), DiscountPercent: 0},
		{FromQty: 101, ToQty: intPtr(500), DiscountPercent: 5},
		{FromQty: 501, ToQty: nil, DiscountPercent: 10},
	}
	seeded := pricingdomain.PurchaseConfig{BasePrice: 1000, Tiers: tiers}
	pricingdomain.Recalculate(&seeded)
	for i := range seeded.Tiers {
		seeded.Tiers[i].ID = node.Generate().Int64()
		seeded.Tiers[i].ConfigID = cfg.ID
		assert.NoError(t, db.Create(&seeded.Tiers[i]).Error)
	}

	return svc, db
}

func validSaveRequest() pricingdomain.SaveRequest {
	return pricingdomain.SaveRequest{
		Enabled:   true,
		MinTokens: 10,
		MaxTokens: 10_000,
		BasePrice: 1000,
		Tiers: []pricingdomain.TierInput{
			{From: 10, To: intPtr(100), DiscountPercent: 0},
			{From: 101, To: intPtr(500), DiscountPercent: 5},
			{From: 501, To: nil, DiscountPercent: 10},
		},
	}
}

func TestPricingService_Get(t *testing.T) {
	svc, _ := setupPricingService(t)

	resp, err := svc.Get(context.Background())
	assert.NoError(t, err)
	assert.True(t, resp.Enabled)
	assert.Len(t, resp.Tiers, 3)
	assert.Equal(t, int64(900), resp.Guardrail.Threshold)
	assert.Empty(t, resp.Guardrail.Violations)
}

func TestPricingService_SaveRoundtrip(t *testing.T) {
	svc, _ := setupPricingService(t)

	req := validSaveRequest()
	req.Tiers[1].DiscountPercent = 8

	resp, err := svc.Save(context.Background(), req)
	assert.NoError(t, err)
	assert.Equal(t, int64(920), resp.Tiers[1].EffectivePrice)

	reloaded, err := svc.Get(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, int64(920), reloaded.Tiers[1].EffectivePrice)
}

func TestPricingService_SaveRejectsInvalidLedger(t *testing.T) {
	svc, _ := setupPricingService(t)

	req := validSaveRequest()
	req.Tiers[1].From = 50 // overlaps tier 1

	_, err := svc.Save(context.Background(), req)

	var tierErr *pricingdomain.TierValidationError
	assert.ErrorAs(t, err, &tierErr)
	assert.Equal(t, pricingdomain.ViolationOverlap, tierErr.Violations[0].Kind)

	// stored config is untouched
	reloaded, err := svc.Get(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, int64(101), reloaded.Tiers[1].FromQty)
}

func TestPricingService_SaveGuardrailNeedsAcknowledgment(t *testing.T) {
	svc, _ := setupPricingService(t)

	req := validSaveRequest()
	req.Tiers[2].DiscountPercent = 15

	_, err := svc.Save(context.Background(), req)
	assert.ErrorIs(t, err, pricingdomain.ErrGuardrailNotAcknowledged)

	req.GuardrailAcknowledged = true
	resp, err := svc.Save(context.Background(), req)
	assert.NoError(t, err)
	assert.Equal(t, int64(850), resp.Tiers[2].EffectivePrice)
	assert.True(t, resp.Guardrail.Breached())
}

func TestPricingService_SaveInputValidation(t *testing.T) {
	svc, _ := setupPricingService(t)
	ctx := context.Background()

	req := validSaveRequest()
	req.BasePrice = 0
	_, err := svc.Save(ctx, req)
	assert.ErrorIs(t, err, pricingdomain.ErrInvalidBasePrice)

	req = validSaveRequest()
	req.Tiers = nil
	_, err = svc.Save(ctx, req)
	assert.ErrorIs(t, err, pricingdomain.ErrNoTiers)

	req = validSaveRequest()
	req.MaxTokens = 5
	_, err = svc.Save(ctx, req)
	assert.ErrorIs(t, err, pricingdomain.ErrInvalidBounds)

	req = validSaveRequest()
	tiers := make([]pricingdomain.TierInput, 11)
	from := int64(10)
	for i := range tiers {
		to := from + 9
		tiers[i] = pricingdomain.TierInput{From: from, To: &to}
		from = to + 1
	}
	req.Tiers = tiers
	_, err = svc.Save(ctx, req)
	assert.ErrorIs(t, err, pricingdomain.ErrTooManyTiers)
}

func TestPricingService_SaveCannotDisableImplicitly(t *testing.T) {
	svc, _ := setupPricingService(t)

	req := validSaveRequest()
	req.Enabled = false

	_, err := svc.Save(context.Background(), req)
	assert.ErrorIs(t, err, pricingdomain.ErrDisableNotConfirmed)
}

func TestPricingService_SetEnabled(t *testing.T) {
	svc, _ := setupPricingService(t)
	ctx := context.Background()

	// disabling demands confirmation
	_, err := svc.SetEnabled(ctx, pricingdomain.EnabledRequest{Enabled: false})
	assert.ErrorIs(t, err, pricingdomain.ErrDisableNotConfirmed)

	resp, err := svc.SetEnabled(ctx, pricingdomain.EnabledRequest{Enabled: false, Confirm: true})
	assert.NoError(t, err)
	assert.False(t, resp.Enabled)

	// config and tiers retained while disabled
	assert.Len(t, resp.Tiers, 3)

	// re-enabling needs no confirmation
	resp, err = svc.SetEnabled(ctx, pricingdomain.EnabledRequest{Enabled: true})
	assert.NoError(t, err)
	assert.True(t, resp.Enabled)
}

func TestPricingService_SimulateSavedAndDraft(t *testing.T) {
	svc, _ := setupPricingService(t)
	ctx := context.Background()

	saved, err := svc.Simulate(ctx, pricingdomain.SimulateRequest{Quantity: 750})
	assert.NoError(t, err)
	assert.Equal(t, int64(704_100), saved.Total)
	assert.Equal(t, int64(939), saved.AveragePricePerToken)

	draft := validSaveRequest()
	draft.Tiers[2].DiscountPercent = 20
	preview, err := svc.Simulate(ctx, pricingdomain.SimulateRequest{Quantity: 750, Draft: &draft})
	assert.NoError(t, err)
	assert.Less(t, preview.Total, saved.Total)

	// the draft preview must not touch the saved config
	reloaded, err := svc.Get(ctx)
	assert.NoError(t, err)
	assert.Equal(t, 10, reloaded.Tiers[2].DiscountPercent)
}
