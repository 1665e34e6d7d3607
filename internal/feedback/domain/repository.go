package domain

import (
	"context"

	"gorm.io/gorm"
)

type ListFilter struct {
	Status   string
	MemberID int64
	AfterID  int64
	Limit    int
}

type Repository interface {
	List(ctx context.Context, db *gorm.DB, filter ListFilter) ([]Feedback, error)
	Find(ctx context.Context, db *gorm.DB, id int64) (*Feedback, error)
	Create(ctx context.Context, db *gorm.DB, f *Feedback) error
	Update(ctx context.Context, db *gorm.DB, f *Feedback) error
}
