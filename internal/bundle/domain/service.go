package domain

import (
	"context"
	"errors"
)

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*BundlePackage, error)
	Update(ctx context.Context, req UpdateRequest) (*BundlePackage, error)
	List(ctx context.Context, req ListRequest) ([]BundlePackage, error)
	Get(ctx context.Context, id string) (*BundlePackage, error)
}

type CreateRequest struct {
	Form BundleForm `json:"form"`
}

// UpdateRequest edits an existing bundle. Deactivating a previously-active
// bundle requires ConfirmDeactivate, mirroring the pricing disable flow.
type UpdateRequest struct {
	ID                string     `json:"id"`
	Form              BundleForm `json:"form"`
	ConfirmDeactivate bool       `json:"confirm_deactivate"`
}

type ListRequest struct {
	Status string `form:"status"`
}

var (
	ErrNotFound              = errors.New("not_found")
	ErrInvalidID             = errors.New("invalid_id")
	ErrDeactivateNotConfirmed = errors.New("deactivate_not_confirmed")
)
