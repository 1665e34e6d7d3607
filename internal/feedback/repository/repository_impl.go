package repository

import (
	"context"

	feedbackdomain "github.com/rextra/rextra/internal/feedback/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() feedbackdomain.Repository {
	return &repo{}
}

func (r *repo) List(ctx context.Context, db *gorm.DB, filter feedbackdomain.ListFilter) ([]feedbackdomain.Feedback, error) {
	query := `SELECT id, member_id, topic, body, rating, status, review_notes, reviewed_at, created_at, updated_at
	 FROM feedback_entries WHERE 1=1`
	args := []interface{}{}

	if filter.Status != "" {
		query += ` AND status = ?`
		args = append(args, filter.Status)
	}
	if filter.MemberID > 0 {
		query += ` AND member_id = ?`
		args = append(args, filter.MemberID)
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

	var entries []feedbackdomain.Feedback
	err := db.WithContext(ctx).Raw(query, args...).Scan(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *repo) Find(ctx context.Context, db *gorm.DB, id int64) (*feedbackdomain.Feedback, error) {
	var f feedbackdomain.Feedback
	err := db.WithContext(ctx).Raw(
		`SELECT id, member_id, topic, body, rating, status, review_notes, reviewed_at, created_at, updated_at
		 FROM feedback_entries WHERE id = ?`,
		id,
	).Scan(&f).Error
	if err != nil {
		return nil, err
	}
	if f.ID == 0 {
		return nil, nil
	}
	return &f, nil
}

func (r *repo) Create(ctx context.Context, db *gorm.DB, f *feedbackdomain.Feedback) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO feedback_entries (id, member_id, topic, body, rating, status, review_notes, reviewed_at, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		f.ID, f.MemberID, f.Topic, f.Body, f.Rating, f.Status,
		f.ReviewNotes, f.ReviewedAt, f.CreatedAt, f.UpdatedAt,
	).Error
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, f *feedbackdomain.Feedback) error {
	return db.WithContext(ctx).Exec(
		`UPDATE feedback_entries
		 SET status = ?, review_notes = ?, reviewed_at = ?, updated_at = ?
		 WHERE id = ?`,
		f.Status, f.ReviewNotes, f.ReviewedAt, f.UpdatedAt, f.ID,
	).Error
}
