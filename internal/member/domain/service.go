package domain

import (
	"context"
	"errors"
	"io"

	"github.com/rextra/rextra/pkg/db/pagination"
)

type Service interface {
	List(ctx context.Context, req ListRequest) (*ListResponse, error)
	Get(ctx context.Context, id string) (*Member, error)
	Create(ctx context.Context, req CreateRequest) (*Member, error)
	Update(ctx context.Context, req UpdateRequest) (*Member, error)
	ExportCSV(ctx context.Context, w io.Writer, req ListRequest) error
}

type ListRequest struct {
	pagination.Pagination

	Search string `form:"q"`
	Status string `form:"status"`
	Tier   string `form:"tier"`
}

type ListResponse struct {
	Members  []Member             `json:"members"`
	PageInfo *pagination.PageInfo `json:"page_info"`
}

type CreateRequest struct {
	Email          string `json:"email"`
	FullName       string `json:"full_name"`
	MembershipTier string `json:"membership_tier"`
}

type UpdateRequest struct {
	ID             string  `json:"id"`
	FullName       *string `json:"full_name"`
	MembershipTier *string `json:"membership_tier"`
	Status         *string `json:"status"`
}

var (
	ErrNotFound       = errors.New("not_found")
	ErrInvalidID      = errors.New("invalid_id")
	ErrEmailExists    = errors.New("email_exists")
	ErrInvalidEmail   = errors.New("invalid_email")
	ErrInvalidTier    = errors.New("invalid_tier")
	ErrInvalidStatus  = errors.New("invalid_status")
	ErrNameRequired   = errors.New("name_required")
)
