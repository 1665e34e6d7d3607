package domain

// SimulationEntry is one tier's slice of a simulated purchase.
type SimulationEntry struct {
	TierIndex       int   `json:"tier"`
	Tokens          int64 `json:"tokens"`
	DiscountPercent int   `json:"discount_percent"`
	UnitPrice       int64 `json:"unit_price"`
	Subtotal        int64 `json:"subtotal"`
}

// SimulationBreakdown is the full cost preview for a requested quantity.
type SimulationBreakdown struct {
	RequestedTokens      int64             `json:"requested_tokens"`
	Entries              []SimulationEntry `json:"breakdown"`
	Total                int64             `json:"total"`
	AveragePricePerToken int64             `json:"average_price_per_token"`
}

// Simulate prices a hypothetical purchase of requested tokens against the
// config's tier ledger, consuming tier capacity low to high the way
// progressive tax brackets do. The ledger may be an unsaved draft; the
// function never mutates it.
//
// The final tier absorbs whatever quantity remains: the request is already
// capped at MaxTokens here, so bounding the last bracket again could only
// lose tokens and break the conservation guarantee (the entry quantities
// always sum to the requested quantity exactly).
func Simulate(cfg PurchaseConfig, requested int64) (*SimulationBreakdown, error) {
	if requested <= 0 {
		return nil, ErrInvalidQuantity
	}
	if requested < cfg.MinTokens {
		return nil, ErrBelowMinimum
	}
	if requested > cfg.MaxTokens {
		return nil, ErrAboveMaximum
	}
	if len(cfg.Tiers) == 0 {
		return nil, ErrNoTiers
	}

	breakdown := &SimulationBreakdown{RequestedTokens: requested}
	remaining := requested

	for i, tier := range cfg.Tiers {
		capacity := remaining
		if i < len(cfg.Tiers)-1 && tier.ToQty != nil {
			capacity = *tier.ToQty - tier.FromQty + 1
		}

		consume := remaining
		if capacity < consume {
			consume = capacity
		}
		if consume <= 0 {
			continue
		}

		breakdown.Entries = append(breakdown.Entries, SimulationEntry{
			TierIndex:       i + 1,
			Tokens:          consume,
			DiscountPercent: tier.DiscountPercent,
			UnitPrice:       tier.EffectivePrice,
			Subtotal:        consume * tier.EffectivePrice,
		})
		breakdown.Total += consume * tier.EffectivePrice
		remaining -= consume
		if remaining == 0 {
			break
		}
	}

	breakdown.AveragePricePerToken = roundDiv(breakdown.Total, requested)
	return breakdown, nil
}
