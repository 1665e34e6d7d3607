package domain

import (
	"context"

	"gorm.io/gorm"
)

type ListFilter struct {
	Kind     string
	MemberID int64
	AfterID  int64
	Limit    int
}

type Repository interface {
	List(ctx context.Context, db *gorm.DB, filter ListFilter) ([]TokenTransaction, error)
	Create(ctx context.Context, db *gorm.DB, tx *TokenTransaction) error
	SummarizeByKind(ctx context.Context, db *gorm.DB) ([]KindSummary, error)
}
