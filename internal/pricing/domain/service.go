package domain

import (
	"context"
	"errors"
	"fmt"
	"time"
)

type Service interface {
	Get(ctx context.Context) (*ConfigResponse, error)
	Save(ctx context.Context, req SaveRequest) (*ConfigResponse, error)
	SetEnabled(ctx context.Context, req EnabledRequest) (*ConfigResponse, error)
	Simulate(ctx context.Context, req SimulateRequest) (*SimulationBreakdown, error)
}

// TierInput is an operator-edited tier row before derivation.
type TierInput struct {
	From            int64  `json:"from"`
	To              *int64 `json:"to"`
	DiscountPercent int    `json:"discount_percent"`
}

type SaveRequest struct {
	Enabled               bool        `json:"enabled"`
	MinTokens             int64       `json:"min_tokens"`
	MaxTokens             int64       `json:"max_tokens"`
	BasePrice             int64       `json:"base_price"`
	Tiers                 []TierInput `json:"tiers"`
	GuardrailAcknowledged bool        `json:"guardrail_acknowledged"`
}

type EnabledRequest struct {
	Enabled bool `json:"enabled"`
	Confirm bool `json:"confirm"`
}

// SimulateRequest previews the cost of a purchase quantity. When Draft is
// set the simulation runs against the unsaved ledger instead of the saved
// config, for live preview during editing.
type SimulateRequest struct {
	Quantity int64        `json:"quantity"`
	Draft    *SaveRequest `json:"draft,omitempty"`
}

type ConfigResponse struct {
	ID        string        `json:"id"`
	Enabled   bool          `json:"enabled"`
	MinTokens int64         `json:"min_tokens"`
	MaxTokens int64         `json:"max_tokens"`
	BasePrice int64         `json:"base_price"`
	Tiers     []PricingTier `json:"tiers"`
	Guardrail GuardrailReport `json:"guardrail"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

var (
	ErrNotFound                 = errors.New("not_found")
	ErrInvalidQuantity          = errors.New("invalid_quantity")
	ErrBelowMinimum             = errors.New("below_minimum")
	ErrAboveMaximum             = errors.New("above_maximum")
	ErrNoTiers                  = errors.New("no_tiers")
	ErrInvalidBounds            = errors.New("invalid_bounds")
	ErrInvalidBasePrice         = errors.New("invalid_base_price")
	ErrTooManyTiers             = errors.New("too_many_tiers")
	ErrGuardrailNotAcknowledged = errors.New("guardrail_not_acknowledged")
	ErrDisableNotConfirmed      = errors.New("disable_not_confirmed")
	ErrPurchaseDisabled         = errors.New("purchase_disabled")
)

// TierValidationError carries the structural violations that blocked a
// save, one per offending tier or pair.
type TierValidationError struct {
	Violations []TierViolation
}

func (e *TierValidationError) Error() string {
	return fmt.Sprintf("tier ledger invalid: %d violation(s)", len(e.Violations))
}
