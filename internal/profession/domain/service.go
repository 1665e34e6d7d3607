package domain

import (
	"context"
	"errors"

	"github.com/rextra/rextra/pkg/db/pagination"
)

type Service interface {
	List(ctx context.Context, req ListRequest) (*ListResponse, error)
	Get(ctx context.Context, idOrSlug string) (*Profession, error)
	Create(ctx context.Context, req CreateRequest) (*Profession, error)
	Update(ctx context.Context, req UpdateRequest) (*Profession, error)
	Archive(ctx context.Context, id string) (*Profession, error)
}

type ListRequest struct {
	pagination.Pagination

	Search   string `form:"q"`
	Category string `form:"category"`
	Status   string `form:"status"`
}

type ListResponse struct {
	Professions []Profession         `json:"professions"`
	PageInfo    *pagination.PageInfo `json:"page_info"`
}

type CreateRequest struct {
	Name     string `json:"name"`
	Category string `json:"category"`
	Summary  string `json:"summary"`
	Status   string `json:"status"`
}

type UpdateRequest struct {
	ID       string  `json:"id"`
	Name     *string `json:"name"`
	Category *string `json:"category"`
	Summary  *string `json:"summary"`
	Status   *string `json:"status"`
}

var (
	ErrNotFound         = errors.New("not_found")
	ErrInvalidID        = errors.New("invalid_id")
	ErrNameRequired     = errors.New("name_required")
	ErrCategoryRequired = errors.New("category_required")
	ErrInvalidStatus    = errors.New("invalid_status")
	ErrSlugExists       = errors.New("slug_exists")
)
