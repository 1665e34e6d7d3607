package repository

import (
	"context"
	"strings"

	memberdomain "github.com/rextra/rextra/internal/member/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() memberdomain.Repository {
	return &repo{}
}

func (r *repo) List(ctx context.Context, db *gorm.DB, filter memberdomain.ListFilter) ([]memberdomain.Member, error) {
	query := `SELECT id, email, full_name, membership_tier, status, token_balance, joined_at, created_at, updated_at
	 FROM members WHERE 1=1`
	args := []interface{}{}

	if filter.Search != "" {
		pattern := "%" + strings.ToLower(filter.Search) + "%"
		query += ` AND (LOWER(email) LIKE ? OR LOWER(full_name) LIKE ?)`
		args = append(args, pattern, pattern)
	}
	if filter.Status != "" {
		query += ` AND status = ?`
		args = append(args, filter.Status)
	}
	if filter.Tier != "" {
		query += ` AND membership_tier = ?`
		args = append(args, filter.Tier)
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

	var members []memberdomain.Member
	err := db.WithContext(ctx).Raw(query, args...).Scan(&members).Error
	if err != nil {
		return nil, err
	}
	return members, nil
}

func (r *repo) Find(ctx context.Context, db *gorm.DB, id int64) (*memberdomain.Member, error) {
	var m memberdomain.Member
	err := db.WithContext(ctx).Raw(
		`SELECT id, email, full_name, membership_tier, status, token_balance, joined_at, created_at, updated_at
		 FROM members WHERE id = ?`,
		id,
	).Scan(&m).Error
	if err != nil {
		return nil, err
	}
	if m.ID == 0 {
		return nil, nil
	}
	return &m, nil
}

func (r *repo) FindByEmail(ctx context.Context, db *gorm.DB, email string) (*memberdomain.Member, error) {
	var m memberdomain.Member
	err := db.WithContext(ctx).Raw(
		`SELECT id, email, full_name, membership_tier, status, token_balance, joined_at, created_at, updated_at
		 FROM members WHERE LOWER(email) = LOWER(?)`,
		email,
	).Scan(&m).Error
	if err != nil {
		return nil, err
	}
	if m.ID == 0 {
		return nil, nil
	}
	return &m, nil
}

func (r *repo) Create(ctx context.Context, db *gorm.DB, m *memberdomain.Member) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO members (id, email, full_name, membership_tier, status, token_balance, joined_at, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.ID, m.Email, m.FullName, m.MembershipTier, m.Status,
		m.TokenBalance, m.JoinedAt, m.CreatedAt, m.UpdatedAt,
	).Error
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, m *memberdomain.Member) error {
	return db.WithContext(ctx).Exec(
		`UPDATE members
		 SET full_name = ?, membership_tier = ?, status = ?, token_balance = ?, updated_at = ?
		 WHERE id = ?`,
		m.FullName, m.MembershipTier, m.Status, m.TokenBalance, m.UpdatedAt, m.ID,
	).Error
}
