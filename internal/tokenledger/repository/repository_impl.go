package repository

import (
	"context"

	tokenledgerdomain "github.com/rextra/rextra/internal/tokenledger/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() tokenledgerdomain.Repository {
	return &repo{}
}

func (r *repo) List(ctx context.Context, db *gorm.DB, filter tokenledgerdomain.ListFilter) ([]tokenledgerdomain.TokenTransaction, error) {
	query := `SELECT id, member_id, kind, tokens, amount, average_unit_price, reference, breakdown, created_at
	 FROM token_transactions WHERE 1=1`
	args := []interface{}{}

	if filter.Kind != "" {
		query += ` AND kind = ?`
		args = append(args, filter.Kind)
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

	var txs []tokenledgerdomain.TokenTransaction
	err := db.WithContext(ctx).Raw(query, args...).Scan(&txs).Error
	if err != nil {
		return nil, err
	}
	return txs, nil
}

func (r *repo) Create(ctx context.Context, db *gorm.DB, tx *tokenledgerdomain.TokenTransaction) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO token_transactions (id, member_id, kind, tokens, amount, average_unit_price, reference, breakdown, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		tx.ID, tx.MemberID, tx.Kind, tx.Tokens, tx.Amount,
		tx.AverageUnitPrice, tx.Reference, tx.Breakdown, tx.CreatedAt,
	).Error
}

func (r *repo) SummarizeByKind(ctx context.Context, db *gorm.DB) ([]tokenledgerdomain.KindSummary, error) {
	var rows []tokenledgerdomain.KindSummary
	err := db.WithContext(ctx).Raw(
		`SELECT kind, COUNT(*) AS count, COALESCE(SUM(tokens), 0) AS tokens, COALESCE(SUM(amount), 0) AS amount
		 FROM token_transactions GROUP BY kind ORDER BY kind ASC`,
	).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
