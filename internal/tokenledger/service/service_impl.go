package service

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	bundledomain "github.com/rextra/rextra/internal/bundle/domain"
	"github.com/rextra/rextra/internal/cache"
	"github.com/rextra/rextra/internal/clock"
	memberdomain "github.com/rextra/rextra/internal/member/domain"
	obsmetrics "github.com/rextra/rextra/internal/observability/metrics"
	pricingdomain "github.com/rextra/rextra/internal/pricing/domain"
	tokenledgerdomain "github.com/rextra/rextra/internal/tokenledger/domain"
	"github.com/rextra/rextra/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const bundleCatalogTTL = 30 * time.Second

type Params struct {
	fx.In

	DB         *gorm.DB
	Log        *zap.Logger
	GenID      *snowflake.Node
	Clock      clock.Clock
	Repo       tokenledgerdomain.Repository
	Pricing    pricingdomain.Service
	BundleRepo bundledomain.Repository
	MemberRepo memberdomain.Repository
	Metrics    *obsmetrics.Metrics `optional:"true"`
}

type Service struct {
	db         *gorm.DB
	log        *zap.Logger
	genID      *snowflake.Node
	clock      clock.Clock
	repo       tokenledgerdomain.Repository
	pricing    pricingdomain.Service
	bundleRepo bundledomain.Repository
	memberRepo memberdomain.Repository
	metrics    *obsmetrics.Metrics

	// active bundle catalog, keyed by status
	bundles *cache.Cache[string, []bundledomain.BundlePackage]
}

func New(p Params) tokenledgerdomain.Service {
	return &Service{
		db:         p.DB,
		log:        p.Log.Named("tokenledger.service"),
		genID:      p.GenID,
		clock:      p.Clock,
		repo:       p.Repo,
		pricing:    p.Pricing,
		bundleRepo: p.BundleRepo,
		memberRepo: p.MemberRepo,
		metrics:    p.Metrics,
		bundles:    cache.New[string, []bundledomain.BundlePackage](bundleCatalogTTL),
	}
}

// RecordCustomPurchase prices a quantity through the tiered simulator and
// writes the ledger row plus the member balance in one transaction. A
// disabled purchase config rejects the purchase outright.
func (s *Service) RecordCustomPurchase(ctx context.Context, req tokenledgerdomain.CustomPurchaseRequest) (*tokenledgerdomain.PurchaseResult, error) {
	memberID, err := parseID(req.MemberID)
	if err != nil {
		return nil, err
	}

	cfg, err := s.pricing.Get(ctx)
	if err != nil {
		return nil, err
	}
	if !cfg.Enabled {
		return nil, pricingdomain.ErrPurchaseDisabled
	}

	breakdown, err := s.pricing.Simulate(ctx, pricingdomain.SimulateRequest{Quantity: req.Quantity})
	if err != nil {
		return nil, err
	}

	snapshot, err := json.Marshal(breakdown)
	if err != nil {
		return nil, err
	}

	tx := tokenledgerdomain.TokenTransaction{
		ID:               s.genID.Generate().Int64(),
		MemberID:         memberID,
		Kind:             tokenledgerdomain.KindCustomPurchase,
		Tokens:           breakdown.RequestedTokens,
		Amount:           breakdown.Total,
		AverageUnitPrice: breakdown.AveragePricePerToken,
		Breakdown:        datatypes.JSON(snapshot),
		CreatedAt:        s.clock.Now().UTC(),
	}

	if err := s.commit(ctx, &tx); err != nil {
		return nil, err
	}

	s.metrics.RecordPurchase(ctx, tx.Kind)
	s.log.Info("custom purchase recorded",
		zap.Int64("member_id", memberID),
		zap.Int64("tokens", tx.Tokens),
		zap.Int64("amount", tx.Amount),
	)
	return &tokenledgerdomain.PurchaseResult{Transaction: tx, Breakdown: breakdown}, nil
}

// RecordBundlePurchase credits a member with a bundle's tokens at its flat
// price. Only active bundles are purchasable; the catalog is read through
// a short-lived cache.
func (s *Service) RecordBundlePurchase(ctx context.Context, req tokenledgerdomain.BundlePurchaseRequest) (*tokenledgerdomain.PurchaseResult, error) {
	memberID, err := parseID(req.MemberID)
	if err != nil {
		return nil, err
	}
	bundleID, err := parseID(req.BundleID)
	if err != nil {
		return nil, err
	}

	bundle, err := s.findActiveBundle(ctx, bundleID)
	if err != nil {
		return nil, err
	}

	tx := tokenledgerdomain.TokenTransaction{
		ID:               s.genID.Generate().Int64(),
		MemberID:         memberID,
		Kind:             tokenledgerdomain.KindBundlePurchase,
		Tokens:           bundle.Tokens,
		Amount:           bundle.Price,
		AverageUnitPrice: bundle.PricePerToken,
		Reference:        strconv.FormatInt(bundle.ID, 10),
		CreatedAt:        s.clock.Now().UTC(),
	}

	if err := s.commit(ctx, &tx); err != nil {
		return nil, err
	}

	s.metrics.RecordPurchase(ctx, tx.Kind)
	s.log.Info("bundle purchase recorded",
		zap.Int64("member_id", memberID),
		zap.Int64("bundle_id", bundle.ID),
		zap.Int64("tokens", tx.Tokens),
	)
	return &tokenledgerdomain.PurchaseResult{Transaction: tx}, nil
}

// RecordAdjustment writes a manual grant or spend. Spends are stored with
// negative token counts and must not take the balance below zero.
func (s *Service) RecordAdjustment(ctx context.Context, req tokenledgerdomain.AdjustmentRequest) (*tokenledgerdomain.TokenTransaction, error) {
	memberID, err := parseID(req.MemberID)
	if err != nil {
		return nil, err
	}
	if req.Kind != tokenledgerdomain.KindGrant && req.Kind != tokenledgerdomain.KindSpend {
		return nil, tokenledgerdomain.ErrInvalidKind
	}
	if req.Tokens <= 0 {
		return nil, tokenledgerdomain.ErrInvalidTokens
	}

	tokens := req.Tokens
	if req.Kind == tokenledgerdomain.KindSpend {
		tokens = -tokens
	}

	tx := tokenledgerdomain.TokenTransaction{
		ID:        s.genID.Generate().Int64(),
		MemberID:  memberID,
		Kind:      req.Kind,
		Tokens:    tokens,
		Reference: strings.TrimSpace(req.Reference),
		CreatedAt: s.clock.Now().UTC(),
	}

	if err := s.commit(ctx, &tx); err != nil {
		return nil, err
	}

	s.metrics.RecordPurchase(ctx, tx.Kind)
	s.log.Info("token adjustment recorded",
		zap.Int64("member_id", memberID),
		zap.String("kind", tx.Kind),
		zap.Int64("tokens", tx.Tokens),
	)
	return &tx, nil
}

func (s *Service) List(ctx context.Context, req tokenledgerdomain.ListRequest) (*tokenledgerdomain.ListResponse, error) {
	if req.Kind != "" && !tokenledgerdomain.ValidKind(req.Kind) {
		return nil, tokenledgerdomain.ErrInvalidKind
	}
	if req.PageSize <= 0 {
		req.PageSize = 20
	}

	filter := tokenledgerdomain.ListFilter{
		Kind:  req.Kind,
		Limit: req.PageSize + 1,
	}
	if req.MemberID != "" {
		memberID, err := parseID(req.MemberID)
		if err != nil {
			return nil, err
		}
		filter.MemberID = memberID
	}
	if req.PageToken != "" {
		cursor, err := pagination.DecodeCursor(req.PageToken)
		if err != nil {
			return nil, err
		}
		if cursor.ID != "" {
			id, err := strconv.ParseInt(cursor.ID, 10, 64)
			if err != nil {
				return nil, err
			}
			filter.AfterID = id
		}
	}

	txs, err := s.repo.List(ctx, s.db, filter)
	if err != nil {
		return nil, err
	}

	txs, pageInfo := pagination.BuildCursorPageInfo(txs, req.PageSize, func(t tokenledgerdomain.TokenTransaction) string {
		token, _ := pagination.EncodeCursor(pagination.Cursor{ID: strconv.FormatInt(t.ID, 10)})
		return token
	})

	return &tokenledgerdomain.ListResponse{Transactions: txs, PageInfo: pageInfo}, nil
}

func (s *Service) Summary(ctx context.Context) (*tokenledgerdomain.SummaryResponse, error) {
	kinds, err := s.repo.SummarizeByKind(ctx, s.db)
	if err != nil {
		return nil, err
	}

	resp := &tokenledgerdomain.SummaryResponse{Kinds: kinds}
	for _, k := range kinds {
		resp.TotalTokens += k.Tokens
		resp.TotalAmount += k.Amount
	}
	return resp, nil
}

// commit writes the ledger row and applies its token delta to the member
// balance atomically.
func (s *Service) commit(ctx context.Context, tx *tokenledgerdomain.TokenTransaction) error {
	return s.db.WithContext(ctx).Transaction(func(dbtx *gorm.DB) error {
		member, err := s.memberRepo.Find(ctx, dbtx, tx.MemberID)
		if err != nil {
			return err
		}
		if member == nil {
			return tokenledgerdomain.ErrMemberNotFound
		}
		if member.TokenBalance+tx.Tokens < 0 {
			return tokenledgerdomain.ErrInsufficientFunds
		}

		if err := s.repo.Create(ctx, dbtx, tx); err != nil {
			return err
		}

		member.TokenBalance += tx.Tokens
		member.UpdatedAt = s.clock.Now().UTC()
		return s.memberRepo.Update(ctx, dbtx, member)
	})
}

func (s *Service) findActiveBundle(ctx context.Context, bundleID int64) (*bundledomain.BundlePackage, error) {
	catalog, ok := s.bundles.Get(bundledomain.StatusActive)
	if !ok {
		loaded, err := s.bundleRepo.List(ctx, s.db, bundledomain.StatusActive)
		if err != nil {
			return nil, err
		}
		s.bundles.Set(bundledomain.StatusActive, loaded)
		catalog = loaded
	}

	for i := range catalog {
		if catalog[i].ID == bundleID {
			return &catalog[i], nil
		}
	}

	// Cache miss can mean a freshly deactivated bundle; distinguish for the
	// error payload.
	bundle, err := s.bundleRepo.Find(ctx, s.db, bundleID)
	if err != nil {
		return nil, err
	}
	if bundle == nil {
		return nil, tokenledgerdomain.ErrBundleNotFound
	}
	return nil, tokenledgerdomain.ErrBundleInactive
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, tokenledgerdomain.ErrInvalidID
	}
	return id, nil
}
