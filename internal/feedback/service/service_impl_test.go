package service

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/rextra/rextra/internal/clock"
	feedbackdomain "github.com/rextra/rextra/internal/feedback/domain"
	"github.com/rextra/rextra/internal/feedback/repository"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setupFeedbackService(t *testing.T) feedbackdomain.Service {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	assert.NoError(t, err)
	assert.NoError(t, db.AutoMigrate(&feedbackdomain.Feedback{}))

	node, _ := snowflake.NewNode(1)

	return New(Params{
		DB:    db,
		Log:   zap.NewNop(),
		GenID: node,
		Clock: clock.NewFakeClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)),
		Repo:  repository.Provide(),
	})
}

func submit(t *testing.T, svc feedbackdomain.Service) *feedbackdomain.Feedback {
	t.Helper()
	f, err := svc.Submit(context.Background(), feedbackdomain.SubmitRequest{
		MemberID: "42",
		Topic:    "Token pricing",
		Body:     "The bulk discount is great.",
		Rating:   4,
	})
	assert.NoError(t, err)
	return f
}

func TestFeedbackService_SubmitValidation(t *testing.T) {
	svc := setupFeedbackService(t)
	ctx := context.Background()

	_, err := svc.Submit(ctx, feedbackdomain.SubmitRequest{MemberID: "42", Topic: "", Body: "x", Rating: 3})
	assert.ErrorIs(t, err, feedbackdomain.ErrTopicRequired)

	_, err = svc.Submit(ctx, feedbackdomain.SubmitRequest{MemberID: "42", Topic: "x", Body: "", Rating: 3})
	assert.ErrorIs(t, err, feedbackdomain.ErrBodyRequired)

	_, err = svc.Submit(ctx, feedbackdomain.SubmitRequest{MemberID: "42", Topic: "x", Body: "y", Rating: 6})
	assert.ErrorIs(t, err, feedbackdomain.ErrInvalidRating)
}

func TestFeedbackService_ReviewFlow(t *testing.T) {
	svc := setupFeedbackService(t)
	ctx := context.Background()
	f := submit(t, svc)

	reviewed, err := svc.Review(ctx, feedbackdomain.ReviewRequest{
		ID:     strconv.FormatInt(f.ID, 10),
		Status: feedbackdomain.StatusReviewed,
		Notes:  "forwarded to pricing team",
	})
	assert.NoError(t, err)
	assert.Equal(t, feedbackdomain.StatusReviewed, reviewed.Status)
	assert.NotNil(t, reviewed.ReviewedAt)

	resolved, err := svc.Review(ctx, feedbackdomain.ReviewRequest{
		ID:     strconv.FormatInt(f.ID, 10),
		Status: feedbackdomain.StatusResolved,
	})
	assert.NoError(t, err)
	assert.Equal(t, feedbackdomain.StatusResolved, resolved.Status)

	// resolved entries are frozen
	_, err = svc.Review(ctx, feedbackdomain.ReviewRequest{
		ID:     strconv.FormatInt(f.ID, 10),
		Status: feedbackdomain.StatusReviewed,
	})
	assert.ErrorIs(t, err, feedbackdomain.ErrInvalidTransition)
}

func TestFeedbackService_ListByStatus(t *testing.T) {
	svc := setupFeedbackService(t)
	ctx := context.Background()

	first := submit(t, svc)
	submit(t, svc)

	_, err := svc.Review(ctx, feedbackdomain.ReviewRequest{
		ID:     strconv.FormatInt(first.ID, 10),
		Status: feedbackdomain.StatusReviewed,
	})
	assert.NoError(t, err)

	fresh, err := svc.List(ctx, feedbackdomain.ListRequest{Status: feedbackdomain.StatusNew})
	assert.NoError(t, err)
	assert.Len(t, fresh.Entries, 1)

	all, err := svc.List(ctx, feedbackdomain.ListRequest{})
	assert.NoError(t, err)
	assert.Len(t, all.Entries, 2)
}
