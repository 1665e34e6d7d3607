package domain

import (
	"context"
	"errors"

	pricingdomain "github.com/rextra/rextra/internal/pricing/domain"
	"github.com/rextra/rextra/pkg/db/pagination"
)

type Service interface {
	RecordCustomPurchase(ctx context.Context, req CustomPurchaseRequest) (*PurchaseResult, error)
	RecordBundlePurchase(ctx context.Context, req BundlePurchaseRequest) (*PurchaseResult, error)
	RecordAdjustment(ctx context.Context, req AdjustmentRequest) (*TokenTransaction, error)
	List(ctx context.Context, req ListRequest) (*ListResponse, error)
	Summary(ctx context.Context) (*SummaryResponse, error)
}

type CustomPurchaseRequest struct {
	MemberID string `json:"member_id"`
	Quantity int64  `json:"quantity"`
}

type BundlePurchaseRequest struct {
	MemberID string `json:"member_id"`
	BundleID string `json:"bundle_id"`
}

// AdjustmentRequest records a manual grant or spend from token oversight.
type AdjustmentRequest struct {
	MemberID  string `json:"member_id"`
	Kind      string `json:"kind"`
	Tokens    int64  `json:"tokens"`
	Reference string `json:"reference"`
}

type PurchaseResult struct {
	Transaction TokenTransaction                   `json:"transaction"`
	Breakdown   *pricingdomain.SimulationBreakdown `json:"breakdown,omitempty"`
}

type ListRequest struct {
	pagination.Pagination

	Kind     string `form:"kind"`
	MemberID string `form:"member_id"`
}

type ListResponse struct {
	Transactions []TokenTransaction   `json:"transactions"`
	PageInfo     *pagination.PageInfo `json:"page_info"`
}

type SummaryResponse struct {
	Kinds       []KindSummary `json:"kinds"`
	TotalTokens int64         `json:"total_tokens"`
	TotalAmount int64         `json:"total_amount"`
}

var (
	ErrInvalidID         = errors.New("invalid_id")
	ErrInvalidKind       = errors.New("invalid_kind")
	ErrInvalidTokens     = errors.New("invalid_tokens")
	ErrMemberNotFound    = errors.New("member_not_found")
	ErrBundleNotFound    = errors.New("bundle_not_found")
	ErrBundleInactive    = errors.New("bundle_inactive")
	ErrInsufficientFunds = errors.New("insufficient_tokens")
)
