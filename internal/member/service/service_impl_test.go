package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"strconv"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/rextra/rextra/internal/clock"
	memberdomain "github.com/rextra/rextra/internal/member/domain"
	"github.com/rextra/rextra/internal/member/repository"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setupMemberService(t *testing.T) memberdomain.Service {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	assert.NoError(t, err)
	assert.NoError(t, db.AutoMigrate(&memberdomain.Member{}))

	node, _ := snowflake.NewNode(1)

	return New(Params{
		DB:    db,
		Log:   zap.NewNop(),
		GenID: node,
		Clock: clock.NewFakeClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)),
		Repo:  repository.Provide(),
	})
}

func TestMemberService_CreateNormalizesEmail(t *testing.T) {
	svc := setupMemberService(t)

	m, err := svc.Create(context.Background(), memberdomain.CreateRequest{
		Email:    "  Andi@Example.COM ",
		FullName: "Andi Pratama",
	})
	assert.NoError(t, err)
	assert.Equal(t, "andi@example.com", m.Email)
	assert.Equal(t, memberdomain.TierBasic, m.MembershipTier)
	assert.Equal(t, memberdomain.StatusActive, m.Status)
}

func TestMemberService_CreateDuplicateEmail(t *testing.T) {
	svc := setupMemberService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, memberdomain.CreateRequest{Email: "andi@example.com", FullName: "Andi"})
	assert.NoError(t, err)

	_, err = svc.Create(ctx, memberdomain.CreateRequest{Email: "ANDI@example.com", FullName: "Andi Again"})
	assert.ErrorIs(t, err, memberdomain.ErrEmailExists)
}

func TestMemberService_CreateValidation(t *testing.T) {
	svc := setupMemberService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, memberdomain.CreateRequest{Email: "not-an-email", FullName: "x"})
	assert.ErrorIs(t, err, memberdomain.ErrInvalidEmail)

	_, err = svc.Create(ctx, memberdomain.CreateRequest{Email: "ok@example.com", FullName: "  "})
	assert.ErrorIs(t, err, memberdomain.ErrNameRequired)

	_, err = svc.Create(ctx, memberdomain.CreateRequest{Email: "ok@example.com", FullName: "x", MembershipTier: "gold"})
	assert.ErrorIs(t, err, memberdomain.ErrInvalidTier)
}

func TestMemberService_UpdateStatus(t *testing.T) {
	svc := setupMemberService(t)
	ctx := context.Background()

	m, err := svc.Create(ctx, memberdomain.CreateRequest{Email: "andi@example.com", FullName: "Andi"})
	assert.NoError(t, err)

	suspended := memberdomain.StatusSuspended
	updated, err := svc.Update(ctx, memberdomain.UpdateRequest{
		ID:     strconv.FormatInt(m.ID, 10),
		Status: &suspended,
	})
	assert.NoError(t, err)
	assert.Equal(t, memberdomain.StatusSuspended, updated.Status)

	bogus := "banned"
	_, err = svc.Update(ctx, memberdomain.UpdateRequest{
		ID:     strconv.FormatInt(m.ID, 10),
		Status: &bogus,
	})
	assert.ErrorIs(t, err, memberdomain.ErrInvalidStatus)
}

func TestMemberService_ListFiltersAndPagination(t *testing.T) {
	svc := setupMemberService(t)
	ctx := context.Background()

	for _, seedMember := range []memberdomain.CreateRequest{
		{Email: "a@example.com", FullName: "Alpha", MembershipTier: memberdomain.TierPremium},
		{Email: "b@example.com", FullName: "Beta"},
		{Email: "c@example.com", FullName: "Gamma"},
	} {
		_, err := svc.Create(ctx, seedMember)
		assert.NoError(t, err)
	}

	premium, err := svc.List(ctx, memberdomain.ListRequest{Tier: memberdomain.TierPremium})
	assert.NoError(t, err)
	assert.Len(t, premium.Members, 1)

	search, err := svc.List(ctx, memberdomain.ListRequest{Search: "beta"})
	assert.NoError(t, err)
	assert.Len(t, search.Members, 1)
	assert.Equal(t, "b@example.com", search.Members[0].Email)

	var req memberdomain.ListRequest
	req.PageSize = 2
	first, err := svc.List(ctx, req)
	assert.NoError(t, err)
	assert.Len(t, first.Members, 2)
	assert.True(t, first.PageInfo.HasMore)

	req.PageToken = first.PageInfo.NextPageToken
	second, err := svc.List(ctx, req)
	assert.NoError(t, err)
	assert.Len(t, second.Members, 1)
	assert.False(t, second.PageInfo.HasMore)
}

func TestMemberService_ExportCSV(t *testing.T) {
	svc := setupMemberService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, memberdomain.CreateRequest{Email: "andi@example.com", FullName: "Andi"})
	assert.NoError(t, err)
	_, err = svc.Create(ctx, memberdomain.CreateRequest{Email: "sari@example.com", FullName: "Sari"})
	assert.NoError(t, err)

	var buf bytes.Buffer
	assert.NoError(t, svc.ExportCSV(ctx, &buf, memberdomain.ListRequest{}))

	rows, err := csv.NewReader(&buf).ReadAll()
	assert.NoError(t, err)
	assert.Len(t, rows, 3)
	assert.Equal(t, []string{"id", "email", "full_name", "membership_tier", "status", "token_balance", "joined_at"}, rows[0])
	assert.Equal(t, "andi@example.com", rows[1][1])
}
