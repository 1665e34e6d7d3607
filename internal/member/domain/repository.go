package domain

import (
	"context"

	"gorm.io/gorm"
)

type ListFilter struct {
	Search   string
	Status   string
	Tier     string
	AfterID  int64
	Limit    int
}

type Repository interface {
	List(ctx context.Context, db *gorm.DB, filter ListFilter) ([]Member, error)
	Find(ctx context.Context, db *gorm.DB, id int64) (*Member, error)
	FindByEmail(ctx context.Context, db *gorm.DB, email string) (*Member, error)
	Create(ctx context.Context, db *gorm.DB, m *Member) error
	Update(ctx context.Context, db *gorm.DB, m *Member) error
}
