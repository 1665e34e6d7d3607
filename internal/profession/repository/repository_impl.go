package repository

import (
	"context"
	"strings"

	professiondomain "github.com/rextra/rextra/internal/profession/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() professiondomain.Repository {
	return &repo{}
}

func (r *repo) List(ctx context.Context, db *gorm.DB, filter professiondomain.ListFilter) ([]professiondomain.Profession, error) {
	query := `SELECT id, name, slug, category, summary, status, created_at, updated_at
	 FROM professions WHERE 1=1`
	args := []interface{}{}

	if filter.Search != "" {
		pattern := "%" + strings.ToLower(filter.Search) + "%"
		query += ` AND (LOWER(name) LIKE ? OR LOWER(summary) LIKE ?)`
		args = append(args, pattern, pattern)
	}
	if filter.Category != "" {
		query += ` AND category = ?`
		args = append(args, filter.Category)
	}
	if filter.Status != "" {
		query += ` AND status = ?`
		args = append(args, filter.Status)
	}
	if filter.AfterID > 0 {
		query += ` AND id > ?`
		args = append(args, filter.AfterID)
	}

	query += ` ORDER BY id ASC`
	if filter.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, filter.Limit)
	}

	var professions []professiondomain.Profession
	err := db.WithContext(ctx).Raw(query, args...).Scan(&professions).Error
	if err != nil {
		return nil, err
	}
	return professions, nil
}

func (r *repo) Find(ctx context.Context, db *gorm.DB, id int64) (*professiondomain.Profession, error) {
	var p professiondomain.Profession
	err := db.WithContext(ctx).Raw(
		`SELECT id, name, slug, category, summary, status, created_at, updated_at
		 FROM professions WHERE id = ?`,
		id,
	).Scan(&p).Error
	if err != nil {
		return nil, err
	}
	if p.ID == 0 {
		return nil, nil
	}
	return &p, nil
}

func (r *repo) FindBySlug(ctx context.Context, db *gorm.DB, slug string) (*professiondomain.Profession, error) {
	var p professiondomain.Profession
	err := db.WithContext(ctx).Raw(
		`SELECT id, name, slug, category, summary, status, created_at, updated_at
		 FROM professions WHERE slug = ?`,
		slug,
	).Scan(&p).Error
	if err != nil {
		return nil, err
	}
	if p.ID == 0 {
		return nil, nil
	}
	return &p, nil
}

func (r *repo) Create(ctx context.Context, db *gorm.DB, p *professiondomain.Profession) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO professions (id, name, slug, category, summary, status, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Name, p.Slug, p.Category, p.Summary, p.Status, p.CreatedAt, p.UpdatedAt,
	).Error
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, p *professiondomain.Profession) error {
	return db.WithContext(ctx).Exec(
		`UPDATE professions
		 SET name = ?, slug = ?, category = ?, summary = ?, status = ?, updated_at = ?
		 WHERE id = ?`,
		p.Name, p.Slug, p.Category, p.Summary, p.Status, p.UpdatedAt, p.ID,
	).Error
}
