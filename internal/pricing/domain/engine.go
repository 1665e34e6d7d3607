package domain

import "fmt"

// ViolationKind classifies a structural tier-ledger violation.
type ViolationKind string

const (
	ViolationOverlap          ViolationKind = "overlap"
	ViolationGap              ViolationKind = "gap"
	ViolationOutOfOrder       ViolationKind = "out_of_order"
	ViolationUnboundedNotLast ViolationKind = "unbounded_not_last"
	ViolationFirstTierStart   ViolationKind = "first_tier_start"
	ViolationInvalidDiscount  ViolationKind = "invalid_discount"
	ViolationInvalidRange     ViolationKind = "invalid_range"
)

// TierViolation points at the offending tier (and, for pair checks, its
// predecessor) by zero-based position.
type TierViolation struct {
	Kind      ViolationKind `json:"kind"`
	Index     int           `json:"index"`
	PrevIndex int           `json:"prev_index,omitempty"`
	Message   string        `json:"message"`
}

func (v TierViolation) String() string {
	return fmt.Sprintf("%s at tier %d: %s", v.Kind, v.Index, v.Message)
}

// ValidateTiers checks the structural invariants of an ordered tier ledger:
// tier 1 starts at minTokens, adjacent tiers are contiguous with no gap or
// overlap, only the last tier may be unbounded, and each tier's own range
// and discount are sane. The input is assumed sorted by the editor; being
// out of order is itself reported, not repaired. Pure and idempotent; an
// empty result means the ledger is savable.
func ValidateTiers(tiers []PricingTier, minTokens int64) []TierViolation {
	violations := []TierViolation{}

	for i, tier := range tiers {
		if tier.DiscountPercent < 0 || tier.DiscountPercent > 100 {
			violations = append(violations, TierViolation{
				Kind:    ViolationInvalidDiscount,
				Index:   i,
				Message: fmt.Sprintf("discount %d%% outside [0, 100]", tier.DiscountPercent),
			})
		}
		if tier.FromQty < 1 {
			violations = append(violations, TierViolation{
				Kind:    ViolationInvalidRange,
				Index:   i,
				Message: fmt.Sprintf("lower bound %d must be at least 1", tier.FromQty),
			})
		}
		if tier.ToQty != nil && *tier.ToQty < tier.FromQty {
			violations = append(violations, TierViolation{
				Kind:    ViolationInvalidRange,
				Index:   i,
				Message: fmt.Sprintf("upper bound %d below lower bound %d", *tier.ToQty, tier.FromQty),
			})
		}
	}

	if len(tiers) > 0 && tiers[0].FromQty != minTokens {
		violations = append(violations, TierViolation{
			Kind:    ViolationFirstTierStart,
			Index:   0,
			Message: fmt.Sprintf("tier 1 must start at the minimum purchasable quantity %d", minTokens),
		})
	}

	for i := 1; i < len(tiers); i++ {
		prev := tiers[i-1]
		cur := tiers[i]

		if cur.FromQty < prev.FromQty {
			violations = append(violations, TierViolation{
				Kind:      ViolationOutOfOrder,
				Index:     i,
				PrevIndex: i - 1,
				Message:   fmt.Sprintf("tier %d starts at %d, before tier %d", i+1, cur.FromQty, i),
			})
		}

		if prev.ToQty == nil {
			violations = append(violations, TierViolation{
				Kind:      ViolationUnboundedNotLast,
				Index:     i - 1,
				PrevIndex: i - 1,
				Message:   fmt.Sprintf("tier %d is unbounded but not the last tier", i),
			})
			continue
		}

		switch {
		case cur.FromQty <= *prev.ToQty:
			violations = append(violations, TierViolation{
				Kind:      ViolationOverlap,
				Index:     i,
				PrevIndex: i - 1,
				Message:   fmt.Sprintf("tier %d starts at %d, inside tier %d which ends at %d", i+1, cur.FromQty, i, *prev.ToQty),
			})
		case cur.FromQty > *prev.ToQty+1:
			violations = append(violations, TierViolation{
				Kind:      ViolationGap,
				Index:     i,
				PrevIndex: i - 1,
				Message:   fmt.Sprintf("gap between tier %d ending at %d and tier %d starting at %d", i, *prev.ToQty, i+1, cur.FromQty),
			})
		}
	}

	return violations
}

// EffectivePrice derives the per-token price after discount, rounded half
// up. Always non-negative and never above the base price for discounts in
// [0, 100].
func EffectivePrice(basePrice int64, discountPercent int) int64 {
	return roundDiv(basePrice*int64(100-discountPercent), 100)
}

// Recalculate re-derives every tier's effective price and position after a
// base-price or discount mutation.
func Recalculate(cfg *PurchaseConfig) {
	for i := range cfg.Tiers {
		cfg.Tiers[i].Position = i
		cfg.Tiers[i].EffectivePrice = EffectivePrice(cfg.BasePrice, cfg.Tiers[i].DiscountPercent)
	}
}

// GuardrailReport lists tiers priced below the organization floor together
// with the floor threshold used for display.
type GuardrailReport struct {
	Threshold  int64         `json:"threshold"`
	Violations []PricingTier `json:"violations"`
}

// Breached reports whether any tier sits below the floor.
func (r GuardrailReport) Breached() bool { return len(r.Violations) > 0 }

// AuditGuardrail flags tiers whose effective price falls below
// floorPercent of the base price. The surrounding save workflow demands an
// explicit operator acknowledgment whenever the report is non-empty.
func AuditGuardrail(tiers []PricingTier, basePrice int64, floorPercent int) GuardrailReport {
	threshold := roundDiv(basePrice*int64(floorPercent), 100)
	report := GuardrailReport{Threshold: threshold}
	for _, tier := range tiers {
		if tier.EffectivePrice < threshold {
			report.Violations = append(report.Violations, tier)
		}
	}
	return report
}

// roundDiv divides non-negative integers rounding half up.
func roundDiv(numerator, denominator int64) int64 {
	return (numerator + denominator/2) / denominator
}
