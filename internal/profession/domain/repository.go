package domain

import (
	"context"

	"gorm.io/gorm"
)

type ListFilter struct {
	Search   string
	Category string
	Status   string
	AfterID  int64
	Limit    int
}

type Repository interface {
	List(ctx context.Context, db *gorm.DB, filter ListFilter) ([]Profession, error)
	Find(ctx context.Context, db *gorm.DB, id int64) (*Profession, error)
	FindBySlug(ctx context.Context, db *gorm.DB, slug string) (*Profession, error)
	Create(ctx context.Context, db *gorm.DB, p *Profession) error
	Update(ctx context.Context, db *gorm.DB, p *Profession) error
}
