package service

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gosimple/slug"
	professiondomain "github.com/rextra/rextra/internal/profession/domain"
	"github.com/rextra/rextra/pkg/db"
	"github.com/rextra/rextra/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  professiondomain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	repo  professiondomain.Repository
}

func New(p Params) professiondomain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("profession.service"),
		genID: p.GenID,
		repo:  p.Repo,
	}
}

func (s *Service) List(ctx context.Context, req professiondomain.ListRequest) (*professiondomain.ListResponse, error) {
	if req.Status != "" && !professiondomain.ValidStatus(req.Status) {
		return nil, professiondomain.ErrInvalidStatus
	}
	if req.PageSize <= 0 {
		req.PageSize = 20
	}

	filter := professiondomain.ListFilter{
		Search:   strings.TrimSpace(req.Search),
		Category: strings.TrimSpace(req.Category),
		Status:   req.Status,
		Limit:    req.PageSize + 1,
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

	professions, err := s.repo.List(ctx, s.db, filter)
	if err != nil {
		return nil, err
	}

	professions, pageInfo := pagination.BuildCursorPageInfo(professions, req.PageSize, func(p professiondomain.Profession) string {
		token, _ := pagination.EncodeCursor(pagination.Cursor{ID: strconv.FormatInt(p.ID, 10)})
		return token
	})

	return &professiondomain.ListResponse{Professions: professions, PageInfo: pageInfo}, nil
}

// Get resolves by numeric id first, then by slug, so both the admin table
// and public deep links can share one lookup.
func (s *Service) Get(ctx context.Context, idOrSlug string) (*professiondomain.Profession, error) {
	idOrSlug = strings.TrimSpace(idOrSlug)
	if idOrSlug == "" {
		return nil, professiondomain.ErrInvalidID
	}

	if id, err := strconv.ParseInt(idOrSlug, 10, 64); err == nil && id > 0 {
		p, err := s.repo.Find(ctx, s.db, id)
		if err != nil {
			return nil, err
		}
		if p != nil {
			return p, nil
		}
	}

	p, err := s.repo.FindBySlug(ctx, s.db, idOrSlug)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, professiondomain.ErrNotFound
	}
	return p, nil
}

func (s *Service) Create(ctx context.Context, req professiondomain.CreateRequest) (*professiondomain.Profession, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, professiondomain.ErrNameRequired
	}
	category := strings.TrimSpace(req.Category)
	if category == "" {
		return nil, professiondomain.ErrCategoryRequired
	}
	status := req.Status
	if status == "" {
		status = professiondomain.StatusDraft
	}
	if !professiondomain.ValidStatus(status) {
		return nil, professiondomain.ErrInvalidStatus
	}

	pSlug := slug.Make(name)
	if existing, err := s.repo.FindBySlug(ctx, s.db, pSlug); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, professiondomain.ErrSlugExists
	}

	now := time.Now().UTC()
	p := professiondomain.Profession{
		ID:        s.genID.Generate().Int64(),
		Name:      name,
		Slug:      pSlug,
		Category:  category,
		Summary:   strings.TrimSpace(req.Summary),
		Status:    status,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Create(ctx, s.db, &p); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return nil, professiondomain.ErrSlugExists
		}
		return nil, err
	}

	s.log.Info("profession created", zap.Int64("profession_id", p.ID), zap.String("slug", p.Slug))
	return &p, nil
}

func (s *Service) Update(ctx context.Context, req professiondomain.UpdateRequest) (*professiondomain.Profession, error) {
	id, err := parseID(req.ID)
	if err != nil {
		return nil, err
	}
	p, err := s.repo.Find(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, professiondomain.ErrNotFound
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, professiondomain.ErrNameRequired
		}
		if name != p.Name {
			newSlug := slug.Make(name)
			if newSlug != p.Slug {
				if existing, err := s.repo.FindBySlug(ctx, s.db, newSlug); err != nil {
					return nil, err
				} else if existing != nil && existing.ID != p.ID {
					return nil, professiondomain.ErrSlugExists
				}
				p.Slug = newSlug
			}
			p.Name = name
		}
	}
	if req.Category != nil {
		category := strings.TrimSpace(*req.Category)
		if category == "" {
			return nil, professiondomain.ErrCategoryRequired
		}
		p.Category = category
	}
	if req.Summary != nil {
		p.Summary = strings.TrimSpace(*req.Summary)
	}
	if req.Status != nil {
		if !professiondomain.ValidStatus(*req.Status) {
			return nil, professiondomain.ErrInvalidStatus
		}
		p.Status = *req.Status
	}

	p.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, s.db, p); err != nil {
		return nil, err
	}

	s.log.Info("profession updated", zap.Int64("profession_id", p.ID))
	return p, nil
}

func (s *Service) Archive(ctx context.Context, rawID string) (*professiondomain.Profession, error) {
	status := professiondomain.StatusArchived
	return s.Update(ctx, professiondomain.UpdateRequest{ID: rawID, Status: &status})
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, professiondomain.ErrInvalidID
	}
	return id, nil
}
