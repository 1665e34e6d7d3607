package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func simConfig() PurchaseConfig {
	cfg := PurchaseConfig{
		Enabled:   true,
		MinTokens: 10,
		MaxTokens: 10_000,
		BasePrice: 1000,
		Tiers: []PricingTier{
			{FromQty: 10, ToQty: intPtr(100), DiscountPercent: 0},
			{FromQty: 101, ToQty: intPtr(500), DiscountPercent: 5},
			{FromQty: 501, ToQty: nil, DiscountPercent: 10},
		},
	}
	Recalculate(&cfg)
	return cfg
}

func TestSimulate_ThreeTierExample(t *testing.T) {
	breakdown, err := Simulate(simConfig(), 750)
	assert.NoError(t, err)

	// 91 @ 1000, 400 @ 950, 259 @ 900
	assert.Len(t, breakdown.Entries, 3)
	assert.Equal(t, int64(91), breakdown.Entries[0].Tokens)
	assert.Equal(t, int64(91_000), breakdown.Entries[0].Subtotal)
	assert.Equal(t, int64(400), breakdown.Entries[1].Tokens)
	assert.Equal(t, int64(380_000), breakdown.Entries[1].Subtotal)
	assert.Equal(t, int64(259), breakdown.Entries[2].Tokens)
	assert.Equal(t, int64(233_100), breakdown.Entries[2].Subtotal)

	assert.Equal(t, int64(704_100), breakdown.Total)
	assert.Equal(t, int64(939), breakdown.AveragePricePerToken)
}

func TestSimulate_SingleTierOnly(t *testing.T) {
	breakdown, err := Simulate(simConfig(), 50)
	assert.NoError(t, err)

	assert.Len(t, breakdown.Entries, 1)
	assert.Equal(t, 1, breakdown.Entries[0].TierIndex)
	assert.Equal(t, int64(50), breakdown.Entries[0].Tokens)
	assert.Equal(t, int64(50_000), breakdown.Total)
	assert.Equal(t, int64(1000), breakdown.AveragePricePerToken)
}

func TestSimulate_ExactTierBoundary(t *testing.T) {
	breakdown, err := Simulate(simConfig(), 100)
	assert.NoError(t, err)

	// 100 requested with tier 1 spanning 10..100: 91 fit, 9 spill into tier 2
	assert.Len(t, breakdown.Entries, 2)
	assert.Equal(t, int64(91), breakdown.Entries[0].Tokens)
	assert.Equal(t, int64(9), breakdown.Entries[1].Tokens)
}

func TestSimulate_TokenConservation(t *testing.T) {
	cfg := simConfig()
	for _, quantity := range []int64{10, 11, 99, 100, 101, 499, 500, 501, 750, 10_000} {
		breakdown, err := Simulate(cfg, quantity)
		assert.NoError(t, err)

		var consumed int64
		for _, entry := range breakdown.Entries {
			consumed += entry.Tokens
			assert.Positive(t, entry.Tokens)
		}
		assert.Equal(t, quantity, consumed, "quantity %d not conserved", quantity)
	}
}

func TestSimulate_MonotonicTotal(t *testing.T) {
	cfg := simConfig()
	var prevTotal int64
	for quantity := int64(10); quantity <= 1000; quantity += 7 {
		breakdown, err := Simulate(cfg, quantity)
		assert.NoError(t, err)
		assert.GreaterOrEqual(t, breakdown.Total, prevTotal)
		prevTotal = breakdown.Total
	}
}

func TestSimulate_InputErrors(t *testing.T) {
	cfg := simConfig()

	_, err := Simulate(cfg, 0)
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = Simulate(cfg, -5)
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = Simulate(cfg, 9)
	assert.ErrorIs(t, err, ErrBelowMinimum)

	_, err = Simulate(cfg, 10_001)
	assert.ErrorIs(t, err, ErrAboveMaximum)

	empty := cfg
	empty.Tiers = nil
	_, err = Simulate(empty, 50)
	assert.ErrorIs(t, err, ErrNoTiers)
}

func TestSimulate_DoesNotMutateConfig(t *testing.T) {
	cfg := simConfig()
	before := make([]PricingTier, len(cfg.Tiers))
	copy(before, cfg.Tiers)

	_, err := Simulate(cfg, 750)
	assert.NoError(t, err)
	assert.Equal(t, before, cfg.Tiers)
}
