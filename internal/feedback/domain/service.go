package domain

import (
	"context"
	"errors"

	"github.com/rextra/rextra/pkg/db/pagination"
)

type Service interface {
	List(ctx context.Context, req ListRequest) (*ListResponse, error)
	Get(ctx context.Context, id string) (*Feedback, error)
	Submit(ctx context.Context, req SubmitRequest) (*Feedback, error)
	Review(ctx context.Context, req ReviewRequest) (*Feedback, error)
}

type ListRequest struct {
	pagination.Pagination

	Status   string `form:"status"`
	MemberID string `form:"member_id"`
}

type ListResponse struct {
	Entries  []Feedback           `json:"entries"`
	PageInfo *pagination.PageInfo `json:"page_info"`
}

type SubmitRequest struct {
	MemberID string `json:"member_id"`
	Topic    string `json:"topic"`
	Body     string `json:"body"`
	Rating   int    `json:"rating"`
}

type ReviewRequest struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Notes  string `json:"notes"`
}

var (
	ErrNotFound          = errors.New("not_found")
	ErrInvalidID         = errors.New("invalid_id")
	ErrInvalidRating     = errors.New("invalid_rating")
	ErrTopicRequired     = errors.New("topic_required")
	ErrBodyRequired      = errors.New("body_required")
	ErrInvalidStatus     = errors.New("invalid_status")
	ErrInvalidTransition = errors.New("invalid_transition")
)
