package service

import (
	"context"
	"strconv"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/rextra/rextra/internal/clock"
	feedbackdomain "github.com/rextra/rextra/internal/feedback/domain"
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
	Repo  feedbackdomain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	clock clock.Clock
	repo  feedbackdomain.Repository
}

func New(p Params) feedbackdomain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("feedback.service"),
		genID: p.GenID,
		clock: p.Clock,
		repo:  p.Repo,
	}
}

func (s *Service) List(ctx context.Context, req feedbackdomain.ListRequest) (*feedbackdomain.ListResponse, error) {
	if req.Status != "" && !feedbackdomain.ValidStatus(req.Status) {
		return nil, feedbackdomain.ErrInvalidStatus
	}
	if req.PageSize <= 0 {
		req.PageSize = 20
	}

	filter := feedbackdomain.ListFilter{
		Status: req.Status,
		Limit:  req.PageSize + 1,
	}
	if req.MemberID != "" {
		memberID, err := strconv.ParseInt(req.MemberID, 10, 64)
		if err != nil || memberID <= 0 {
			return nil, feedbackdomain.ErrInvalidID
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

	entries, err := s.repo.List(ctx, s.db, filter)
	if err != nil {
		return nil, err
	}

	entries, pageInfo := pagination.BuildCursorPageInfo(entries, req.PageSize, func(f feedbackdomain.Feedback) string {
		token, _ := pagination.EncodeCursor(pagination.Cursor{ID: strconv.FormatInt(f.ID, 10)})
		return token
	})

	return &feedbackdomain.ListResponse{Entries: entries, PageInfo: pageInfo}, nil
}

func (s *Service) Get(ctx context.Context, rawID string) (*feedbackdomain.Feedback, error) {
	id, err := parseID(rawID)
	if err != nil {
		return nil, err
	}
	f, err := s.repo.Find(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if f == nil {
		return nil, feedbackdomain.ErrNotFound
	}
	return f, nil
}

func (s *Service) Submit(ctx context.Context, req feedbackdomain.SubmitRequest) (*feedbackdomain.Feedback, error) {
	memberID, err := parseID(req.MemberID)
	if err != nil {
		return nil, err
	}
	topic := strings.TrimSpace(req.Topic)
	if topic == "" {
		return nil, feedbackdomain.ErrTopicRequired
	}
	body := strings.TrimSpace(req.Body)
	if body == "" {
		return nil, feedbackdomain.ErrBodyRequired
	}
	if req.Rating < 1 || req.Rating > 5 {
		return nil, feedbackdomain.ErrInvalidRating
	}

	now := s.clock.Now().UTC()
	f := feedbackdomain.Feedback{
		ID:        s.genID.Generate().Int64(),
		MemberID:  memberID,
		Topic:     topic,
		Body:      body,
		Rating:    req.Rating,
		Status:    feedbackdomain.StatusNew,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Create(ctx, s.db, &f); err != nil {
		return nil, err
	}

	s.log.Info("feedback submitted", zap.Int64("feedback_id", f.ID), zap.Int("rating", f.Rating))
	return &f, nil
}

// Review moves an entry forward in the review flow. Transitions only run
// toward resolution; a resolved entry is frozen.
func (s *Service) Review(ctx context.Context, req feedbackdomain.ReviewRequest) (*feedbackdomain.Feedback, error) {
	id, err := parseID(req.ID)
	if err != nil {
		return nil, err
	}
	if !feedbackdomain.ValidStatus(req.Status) {
		return nil, feedbackdomain.ErrInvalidStatus
	}

	f, err := s.repo.Find(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if f == nil {
		return nil, feedbackdomain.ErrNotFound
	}
	if !feedbackdomain.ValidTransition(f.Status, req.Status) {
		return nil, feedbackdomain.ErrInvalidTransition
	}

	now := s.clock.Now().UTC()
	f.Status = req.Status
	f.ReviewNotes = strings.TrimSpace(req.Notes)
	f.ReviewedAt = &now
	f.UpdatedAt = now

	if err := s.repo.Update(ctx, s.db, f); err != nil {
		return nil, err
	}

	s.log.Info("feedback reviewed",
		zap.Int64("feedback_id", f.ID),
		zap.String("status", f.Status),
	)
	return f, nil
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, feedbackdomain.ErrInvalidID
	}
	return id, nil
}
