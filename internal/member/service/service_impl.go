package service

import (
	"context"
	"encoding/csv"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/rextra/rextra/internal/clock"
	memberdomain "github.com/rextra/rextra/internal/member/domain"
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
	Clock clock.Clock
	Repo  memberdomain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	clock clock.Clock
	repo  memberdomain.Repository
}

func New(p Params) memberdomain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("member.service"),
		genID: p.GenID,
		clock: p.Clock,
		repo:  p.Repo,
	}
}

func (s *Service) List(ctx context.Context, req memberdomain.ListRequest) (*memberdomain.ListResponse, error) {
	if req.PageSize <= 0 {
		req.PageSize = 20
	}

	filter, err := buildFilter(req)
	if err != nil {
		return nil, err
	}

	members, err := s.repo.List(ctx, s.db, filter)
	if err != nil {
		return nil, err
	}

	members, pageInfo := pagination.BuildCursorPageInfo(members, req.PageSize, func(m memberdomain.Member) string {
		token, _ := pagination.EncodeCursor(pagination.Cursor{ID: strconv.FormatInt(m.ID, 10)})
		return token
	})

	return &memberdomain.ListResponse{Members: members, PageInfo: pageInfo}, nil
}

func (s *Service) Get(ctx context.Context, rawID string) (*memberdomain.Member, error) {
	id, err := parseID(rawID)
	if err != nil {
		return nil, err
	}
	m, err := s.repo.Find(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, memberdomain.ErrNotFound
	}
	return m, nil
}

func (s *Service) Create(ctx context.Context, req memberdomain.CreateRequest) (*memberdomain.Member, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if !validEmail(email) {
		return nil, memberdomain.ErrInvalidEmail
	}
	name := strings.TrimSpace(req.FullName)
	if name == "" {
		return nil, memberdomain.ErrNameRequired
	}
	tier := req.MembershipTier
	if tier == "" {
		tier = memberdomain.TierBasic
	}
	if !memberdomain.ValidTier(tier) {
		return nil, memberdomain.ErrInvalidTier
	}

	if existing, err := s.repo.FindByEmail(ctx, s.db, email); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, memberdomain.ErrEmailExists
	}

	now := s.clock.Now().UTC()
	m := memberdomain.Member{
		ID:             s.genID.Generate().Int64(),
		Email:          email,
		FullName:       name,
		MembershipTier: tier,
		Status:         memberdomain.StatusActive,
		JoinedAt:       now,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.repo.Create(ctx, s.db, &m); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return nil, memberdomain.ErrEmailExists
		}
		return nil, err
	}

	s.log.Info("member created", zap.Int64("member_id", m.ID))
	return &m, nil
}

func (s *Service) Update(ctx context.Context, req memberdomain.UpdateRequest) (*memberdomain.Member, error) {
	id, err := parseID(req.ID)
	if err != nil {
		return nil, err
	}
	m, err := s.repo.Find(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, memberdomain.ErrNotFound
	}

	if req.FullName != nil {
		name := strings.TrimSpace(*req.FullName)
		if name == "" {
			return nil, memberdomain.ErrNameRequired
		}
		m.FullName = name
	}
	if req.MembershipTier != nil {
		if !memberdomain.ValidTier(*req.MembershipTier) {
			return nil, memberdomain.ErrInvalidTier
		}
		m.MembershipTier = *req.MembershipTier
	}
	if req.Status != nil {
		if !memberdomain.ValidStatus(*req.Status) {
			return nil, memberdomain.ErrInvalidStatus
		}
		m.Status = *req.Status
	}

	m.UpdatedAt = s.clock.Now().UTC()
	if err := s.repo.Update(ctx, s.db, m); err != nil {
		return nil, err
	}

	s.log.Info("member updated", zap.Int64("member_id", m.ID), zap.String("status", m.Status))
	return m, nil
}

// ExportCSV streams the filtered member list as CSV rows. The export walks
// cursor pages so a large membership never loads in one slice.
func (s *Service) ExportCSV(ctx context.Context, w io.Writer, req memberdomain.ListRequest) error {
	writer := csv.NewWriter(w)
	header := []string{"id", "email", "full_name", "membership_tier", "status", "token_balance", "joined_at"}
	if err := writer.Write(header); err != nil {
		return err
	}

	filter, err := buildFilter(req)
	if err != nil {
		return err
	}
	filter.AfterID = 0
	filter.Limit = 500

	for {
		members, err := s.repo.List(ctx, s.db, filter)
		if err != nil {
			return err
		}
		for _, m := range members {
			row := []string{
				strconv.FormatInt(m.ID, 10),
				m.Email,
				m.FullName,
				m.MembershipTier,
				m.Status,
				strconv.FormatInt(m.TokenBalance, 10),
				m.JoinedAt.UTC().Format(time.RFC3339),
			}
			if err := writer.Write(row); err != nil {
				return err
			}
		}
		if len(members) < filter.Limit {
			break
		}
		filter.AfterID = members[len(members)-1].ID
	}

	writer.Flush()
	return writer.Error()
}

func buildFilter(req memberdomain.ListRequest) (memberdomain.ListFilter, error) {
	filter := memberdomain.ListFilter{
		Search: strings.TrimSpace(req.Search),
		Status: req.Status,
		Tier:   req.Tier,
		Limit:  req.PageSize + 1,
	}
	if filter.Status != "" && !memberdomain.ValidStatus(filter.Status) {
		return filter, memberdomain.ErrInvalidStatus
	}
	if filter.Tier != "" && !memberdomain.ValidTier(filter.Tier) {
		return filter, memberdomain.ErrInvalidTier
	}
	if req.PageToken != "" {
		cursor, err := pagination.DecodeCursor(req.PageToken)
		if err != nil {
			return filter, err
		}
		if cursor.ID != "" {
			id, err := strconv.ParseInt(cursor.ID, 10, 64)
			if err != nil {
				return filter, err
			}
			filter.AfterID = id
		}
	}
	return filter, nil
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, memberdomain.ErrInvalidID
	}
	return id, nil
}

func validEmail(email string) bool {
	at := strings.IndexByte(email, '@')
	if at <= 0 || at == len(email)-1 {
		return false
	}
	return strings.IndexByte(email[at+1:], '.') > 0
}
