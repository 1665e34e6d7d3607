package service

import (
	"context"
	"strconv"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/rextra/rextra/internal/config"
	obsmetrics "github.com/rextra/rextra/internal/observability/metrics"
	pricingdomain "github.com/rextra/rextra/internal/pricing/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB      *gorm.DB
	Log     *zap.Logger
	GenID   *snowflake.Node
	Repo    pricingdomain.Repository
	Policy  *config.PricingPolicyHolder
	Metrics *obsmetrics.Metrics `optional:"true"`
}

type Service struct {
	db      *gorm.DB
	log     *zap.Logger
	genID   *snowflake.Node
	repo    pricingdomain.Repository
	policy  *config.PricingPolicyHolder
	metrics *obsmetrics.Metrics
}

func New(p Params) pricingdomain.Service {
	return &Service{
		db:      p.DB,
		log:     p.Log.Named("pricing.service"),
		genID:   p.GenID,
		repo:    p.Repo,
		policy:  p.Policy,
		metrics: p.Metrics,
	}
}

func (s *Service) Get(ctx context.Context) (*pricingdomain.ConfigResponse, error) {
	cfg, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	return s.toResponse(cfg), nil
}

// Save runs the full save workflow: structural validation, guardrail audit
// against the policy floor, acknowledgment check, then an atomic
// whole-config replacement. Validation failures and unacknowledged
// guardrail breaches block the save without touching stored state.
func (s *Service) Save(ctx context.Context, req pricingdomain.SaveRequest) (*pricingdomain.ConfigResponse, error) {
	policy := s.policy.Get()

	if req.MinTokens < policy.MinPurchasableTokens ||
		req.MaxTokens > policy.MaxPurchasableTokens ||
		req.MaxTokens < req.MinTokens {
		return nil, pricingdomain.ErrInvalidBounds
	}
	if req.BasePrice <= 0 {
		return nil, pricingdomain.ErrInvalidBasePrice
	}
	if len(req.Tiers) == 0 {
		return nil, pricingdomain.ErrNoTiers
	}
	if len(req.Tiers) > policy.MaxTiers {
		return nil, pricingdomain.ErrTooManyTiers
	}

	current, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	draft := buildDraft(*current, req)

	if violations := pricingdomain.ValidateTiers(draft.Tiers, draft.MinTokens); len(violations) > 0 {
		return nil, &pricingdomain.TierValidationError{Violations: violations}
	}

	guardrail := pricingdomain.AuditGuardrail(draft.Tiers, draft.BasePrice, policy.GuardrailFloorPercent)
	if guardrail.Breached() {
		s.metrics.RecordGuardrailBreach(ctx, len(guardrail.Violations), req.GuardrailAcknowledged)
		if !req.GuardrailAcknowledged {
			return nil, pricingdomain.ErrGuardrailNotAcknowledged
		}
		s.log.Warn("guardrail violations acknowledged",
			zap.Int("violations", len(guardrail.Violations)),
			zap.Int64("threshold", guardrail.Threshold),
		)
	}

	if current.Enabled && !draft.Enabled {
		// The enabled gate has its own confirmation flow; flipping it off
		// inside a tier save would bypass that.
		return nil, pricingdomain.ErrDisableNotConfirmed
	}

	now := time.Now().UTC()
	draft.UpdatedAt = now
	for i := range draft.Tiers {
		draft.Tiers[i].ID = s.genID.Generate().Int64()
		draft.Tiers[i].ConfigID = draft.ID
		draft.Tiers[i].CreatedAt = now
		draft.Tiers[i].UpdatedAt = now
	}

	if err := s.repo.Replace(ctx, s.db, &draft); err != nil {
		return nil, err
	}

	s.log.Info("purchase config saved",
		zap.Int("tiers", len(draft.Tiers)),
		zap.Int64("base_price", draft.BasePrice),
	)
	return s.toResponse(&draft), nil
}

// SetEnabled flips the custom-purchase gate. Disabling a currently-enabled
// config requires an explicit confirmation; the config itself is retained
// either way.
func (s *Service) SetEnabled(ctx context.Context, req pricingdomain.EnabledRequest) (*pricingdomain.ConfigResponse, error) {
	cfg, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	if cfg.Enabled && !req.Enabled && !req.Confirm {
		return nil, pricingdomain.ErrDisableNotConfirmed
	}
	if cfg.Enabled == req.Enabled {
		return s.toResponse(cfg), nil
	}

	cfg.Enabled = req.Enabled
	cfg.UpdatedAt = time.Now().UTC()
	if err := s.repo.Replace(ctx, s.db, cfg); err != nil {
		return nil, err
	}

	s.log.Info("purchase config gate changed", zap.Bool("enabled", cfg.Enabled))
	return s.toResponse(cfg), nil
}

// Simulate previews the cost of a purchase quantity against the saved
// config, or against a caller-supplied draft ledger for live preview of
// unsaved edits.
func (s *Service) Simulate(ctx context.Context, req pricingdomain.SimulateRequest) (*pricingdomain.SimulationBreakdown, error) {
	var cfg pricingdomain.PurchaseConfig
	if req.Draft != nil {
		cfg = buildDraft(pricingdomain.PurchaseConfig{}, *req.Draft)
	} else {
		loaded, err := s.load(ctx)
		if err != nil {
			return nil, err
		}
		cfg = *loaded
	}

	breakdown, err := pricingdomain.Simulate(cfg, req.Quantity)
	if err != nil {
		return nil, err
	}

	s.metrics.RecordSimulation(ctx, req.Draft != nil)
	return breakdown, nil
}

func (s *Service) load(ctx context.Context) (*pricingdomain.PurchaseConfig, error) {
	cfg, err := s.repo.Get(ctx, s.db)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		return nil, pricingdomain.ErrNotFound
	}
	return cfg, nil
}

// buildDraft derives a full config from operator input: tiers get their
// positions and effective prices recomputed from the draft base price.
func buildDraft(current pricingdomain.PurchaseConfig, req pricingdomain.SaveRequest) pricingdomain.PurchaseConfig {
	draft := current
	draft.Enabled = req.Enabled
	draft.MinTokens = req.MinTokens
	draft.MaxTokens = req.MaxTokens
	draft.BasePrice = req.BasePrice
	draft.Tiers = make([]pricingdomain.PricingTier, 0, len(req.Tiers))
	for _, in := range req.Tiers {
		draft.Tiers = append(draft.Tiers, pricingdomain.PricingTier{
			FromQty:         in.From,
			ToQty:           in.To,
			DiscountPercent: in.DiscountPercent,
		})
	}
	pricingdomain.Recalculate(&draft)
	return draft
}

func (s *Service) toResponse(cfg *pricingdomain.PurchaseConfig) *pricingdomain.ConfigResponse {
	policy := s.policy.Get()
	return &pricingdomain.ConfigResponse{
		ID:        strconv.FormatInt(cfg.ID, 10),
		Enabled:   cfg.Enabled,
		MinTokens: cfg.MinTokens,
		MaxTokens: cfg.MaxTokens,
		BasePrice: cfg.BasePrice,
		Tiers:     cfg.Tiers,
		Guardrail: pricingdomain.AuditGuardrail(cfg.Tiers, cfg.BasePrice, policy.GuardrailFloorPercent),
		CreatedAt: cfg.CreatedAt,
		UpdatedAt: cfg.UpdatedAt,
	}
}
