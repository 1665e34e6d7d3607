package domain

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	List(ctx context.Context, db *gorm.DB, status string) ([]BundlePackage, error)
	Find(ctx context.Context, db *gorm.DB, id int64) (*BundlePackage, error)
	Create(ctx context.Context, db *gorm.DB, pkg *BundlePackage) error
	Update(ctx context.Context, db *gorm.DB, pkg *BundlePackage) error
}
