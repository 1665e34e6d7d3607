package service

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	bundledomain "github.com/rextra/rextra/internal/bundle/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  bundledomain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	repo  bundledomain.Repository
}

func New(p Params) bundledomain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("bundle.service"),
		genID: p.GenID,
		repo:  p.Repo,
	}
}

func (s *Service) Create(ctx context.Context, req bundledomain.CreateRequest) (*bundledomain.BundlePackage, error) {
	existing, err := s.repo.List(ctx, s.db, "")
	if err != nil {
		return nil, err
	}
	if errs := bundledomain.ValidateForm(req.Form, existing, 0); errs != nil {
		return nil, errs
	}

	now := time.Now().UTC()
	pkg := fromForm(req.Form)
	pkg.ID = s.genID.Generate().Int64()
	pkg.CreatedAt = now
	pkg.UpdatedAt = now

	if err := s.repo.Create(ctx, s.db, &pkg); err != nil {
		return nil, err
	}

	s.log.Info("bundle created",
		zap.Int64("bundle_id", pkg.ID),
		zap.String("name", pkg.Name),
		zap.Int64("tokens", pkg.Tokens),
	)
	return &pkg, nil
}

// Update edits a bundle in place. Bundles are never deleted; moving an
// active bundle to inactive requires explicit confirmation so a catalog
// entry cannot vanish from the storefront by accident.
func (s *Service) Update(ctx context.Context, req bundledomain.UpdateRequest) (*bundledomain.BundlePackage, error) {
	id, err := parseID(req.ID)
	if err != nil {
		return nil, err
	}

	current, err := s.repo.Find(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, bundledomain.ErrNotFound
	}

	existing, err := s.repo.List(ctx, s.db, "")
	if err != nil {
		return nil, err
	}
	if errs := bundledomain.ValidateForm(req.Form, existing, id); errs != nil {
		return nil, errs
	}

	next := fromForm(req.Form)
	if current.Active() && !next.Active() && !req.ConfirmDeactivate {
		return nil, bundledomain.ErrDeactivateNotConfirmed
	}

	next.ID = current.ID
	next.CreatedAt = current.CreatedAt
	next.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, s.db, &next); err != nil {
		return nil, err
	}

	s.log.Info("bundle updated",
		zap.Int64("bundle_id", next.ID),
		zap.String("status", next.Status),
	)
	return &next, nil
}

func (s *Service) List(ctx context.Context, req bundledomain.ListRequest) ([]bundledomain.BundlePackage, error) {
	status := strings.TrimSpace(req.Status)
	if status != "" && status != bundledomain.StatusActive && status != bundledomain.StatusInactive {
		return nil, bundledomain.FieldErrors{"status": "status must be active or inactive"}
	}
	return s.repo.List(ctx, s.db, status)
}

func (s *Service) Get(ctx context.Context, rawID string) (*bundledomain.BundlePackage, error) {
	id, err := parseID(rawID)
	if err != nil {
		return nil, err
	}
	pkg, err := s.repo.Find(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if pkg == nil {
		return nil, bundledomain.ErrNotFound
	}
	return pkg, nil
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, bundledomain.ErrInvalidID
	}
	return id, nil
}

// fromForm normalizes a validated form into a package. PricePerToken is
// always re-derived; stale client values never survive a save.
func fromForm(form bundledomain.BundleForm) bundledomain.BundlePackage {
	status := form.Status
	if status == "" {
		status = bundledomain.StatusActive
	}
	var label *string
	if form.Label != nil {
		if trimmed := strings.TrimSpace(*form.Label); trimmed != "" {
			label = &trimmed
		}
	}
	return bundledomain.BundlePackage{
		Name:          strings.TrimSpace(form.Name),
		Tokens:        form.Tokens,
		Price:         form.Price,
		PricePerToken: bundledomain.PricePerToken(form.Price, form.Tokens),
		Label:         label,
		DisplayOrder:  *form.DisplayOrder,
		Status:        status,
	}
}
