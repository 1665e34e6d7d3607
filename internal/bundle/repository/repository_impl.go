package repository

import (
	"context"

	bundledomain "github.com/rextra/rextra/internal/bundle/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() bundledomain.Repository {
	return &repo{}
}

func (r *repo) List(ctx context.Context, db *gorm.DB, status string) ([]bundledomain.BundlePackage, error) {
	query := `SELECT id, name, tokens, price, price_per_token, label, display_order, status, created_at, updated_at
	 FROM bundle_packages`
	args := []interface{}{}
	if status != "" {
		query += ` WHERE status = ?`
		args = append(args, status)
	}
	query += ` ORDER BY display_order ASC, id ASC`

	var pkgs []bundledomain.BundlePackage
	err := db.WithContext(ctx).Raw(query, args...).Scan(&pkgs).Error
	if err != nil {
		return nil, err
	}
	return pkgs, nil
}

func (r *repo) Find(ctx context.Context, db *gorm.DB, id int64) (*bundledomain.BundlePackage, error) {
	var pkg bundledomain.BundlePackage
	err := db.WithContext(ctx).Raw(
		`SELECT id, name, tokens, price, price_per_token, label, display_order, status, created_at, updated_at
		 FROM bundle_packages WHERE id = ?`,
		id,
	).Scan(&pkg).Error
	if err != nil {
		return nil, err
	}
	if pkg.ID == 0 {
		return nil, nil
	}
	return &pkg, nil
}

func (r *repo) Create(ctx context.Context, db *gorm.DB, pkg *bundledomain.BundlePackage) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO bundle_packages (id, name, tokens, price, price_per_token, label, display_order, status, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		pkg.ID, pkg.Name, pkg.Tokens, pkg.Price, pkg.PricePerToken,
		pkg.Label, pkg.DisplayOrder, pkg.Status, pkg.CreatedAt, pkg.UpdatedAt,
	).Error
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, pkg *bundledomain.BundlePackage) error {
	return db.WithContext(ctx).Exec(
		`UPDATE bundle_packages
		 SET name = ?, tokens = ?, price = ?, price_per_token = ?, label = ?, display_order = ?, status = ?, updated_at = ?
		 WHERE id = ?`,
		pkg.Name, pkg.Tokens, pkg.Price, pkg.PricePerToken,
		pkg.Label, pkg.DisplayOrder, pkg.Status, pkg.UpdatedAt, pkg.ID,
	).Error
}
