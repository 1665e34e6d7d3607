package service

import (
	"context"
	"strconv"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	bundledomain "github.com/rextra/rextra/internal/bundle/domain"
	"github.com/rextra/rextra/internal/bundle/repository"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func intRef(v int) *int { return &v }

func setupBundleService(t *testing.T) bundledomain.Service {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	assert.NoError(t, err)
	assert.NoError(t, db.AutoMigrate(&bundledomain.BundlePackage{}))

	node, _ := snowflake.NewNode(1)

	return New(Params{
		DB:    db,
		Log:   zap.NewNop(),
		GenID: node,
		Repo:  repository.Provide(),
	})
}

func createForm(name string) bundledomain.BundleForm {
	return bundledomain.BundleForm{
		Name:         name,
		Tokens:       250,
		Price:        225_000,
		DisplayOrder: intRef(1),
		Status:       bundledomain.StatusActive,
	}
}

func TestBundleService_CreateDerivesPricePerToken(t *testing.T) {
	svc := setupBundleService(t)

	pkg, err := svc.Create(context.Background(), bundledomain.CreateRequest{Form: createForm("Bundle Hemat")})
	assert.NoError(t, err)
	assert.Equal(t, int64(900), pkg.PricePerToken)
	assert.Equal(t, bundledomain.StatusActive, pkg.Status)
}

func TestBundleService_CreateDuplicateName(t *testing.T) {
	svc := setupBundleService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, bundledomain.CreateRequest{Form: createForm("Bundle Hemat")})
	assert.NoError(t, err)

	_, err = svc.Create(ctx, bundledomain.CreateRequest{Form: createForm("bundle hemat")})
	var fieldErrs bundledomain.FieldErrors
	assert.ErrorAs(t, err, &fieldErrs)
	assert.Contains(t, fieldErrs, "name")
}

func TestBundleService_UpdateRecomputesPricePerToken(t *testing.T) {
	svc := setupBundleService(t)
	ctx := context.Background()

	pkg, err := svc.Create(ctx, bundledomain.CreateRequest{Form: createForm("Starter")})
	assert.NoError(t, err)

	form := createForm("Starter")
	form.Tokens = 500
	updated, err := svc.Update(ctx, bundledomain.UpdateRequest{
		ID:   strconv.FormatInt(pkg.ID, 10),
		Form: form,
	})
	assert.NoError(t, err)
	assert.Equal(t, int64(450), updated.PricePerToken)
}

func TestBundleService_DeactivationNeedsConfirmation(t *testing.T) {
	svc := setupBundleService(t)
	ctx := context.Background()

	pkg, err := svc.Create(ctx, bundledomain.CreateRequest{Form: createForm("Starter")})
	assert.NoError(t, err)

	form := createForm("Starter")
	form.Status = bundledomain.StatusInactive

	_, err = svc.Update(ctx, bundledomain.UpdateRequest{
		ID:   strconv.FormatInt(pkg.ID, 10),
		Form: form,
	})
	assert.ErrorIs(t, err, bundledomain.ErrDeactivateNotConfirmed)

	updated, err := svc.Update(ctx, bundledomain.UpdateRequest{
		ID:                strconv.FormatInt(pkg.ID, 10),
		Form:              form,
		ConfirmDeactivate: true,
	})
	assert.NoError(t, err)
	assert.Equal(t, bundledomain.StatusInactive, updated.Status)

	// deactivated bundles stay in the catalog
	fetched, err := svc.Get(ctx, strconv.FormatInt(pkg.ID, 10))
	assert.NoError(t, err)
	assert.Equal(t, bundledomain.StatusInactive, fetched.Status)
}

func TestBundleService_ListFiltersByStatus(t *testing.T) {
	svc := setupBundleService(t)
	ctx := context.Background()

	active, err := svc.Create(ctx, bundledomain.CreateRequest{Form: createForm("Active One")})
	assert.NoError(t, err)

	inactiveForm := createForm("Inactive One")
	inactiveForm.Status = bundledomain.StatusInactive
	inactiveForm.DisplayOrder = intRef(2)
	_, err = svc.Create(ctx, bundledomain.CreateRequest{Form: inactiveForm})
	assert.NoError(t, err)

	all, err := svc.List(ctx, bundledomain.ListRequest{})
	assert.NoError(t, err)
	assert.Len(t, all, 2)

	actives, err := svc.List(ctx, bundledomain.ListRequest{Status: bundledomain.StatusActive})
	assert.NoError(t, err)
	assert.Len(t, actives, 1)
	assert.Equal(t, active.ID, actives[0].ID)

	_, err = svc.List(ctx, bundledomain.ListRequest{Status: "archived"})
	var fieldErrs bundledomain.FieldErrors
	assert.ErrorAs(t, err, &fieldErrs)
}

func TestBundleService_GetNotFound(t *testing.T) {
	svc := setupBundleService(t)

	_, err := svc.Get(context.Background(), "12345")
	assert.ErrorIs(t, err, bundledomain.ErrNotFound)

	_, err = svc.Get(context.Background(), "abc")
	assert.ErrorIs(t, err, bundledomain.ErrInvalidID)
}
