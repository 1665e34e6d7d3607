package domain

import (
	"time"

	"gorm.io/datatypes"
)

const (
	KindCustomPurchase = "custom_purchase"
	KindBundlePurchase = "bundle_purchase"
	KindSpend          = "spend"
	KindGrant          = "grant"
)

// TokenTransaction is one immutable ledger row. Tokens is positive for
// credits and negative for spends; Amount is the money side in the
// smallest currency unit.
type TokenTransaction struct {
	ID               int64     `json:"id" gorm:"primaryKey"`
	MemberID         int64     `json:"member_id" gorm:"not null;index"`
	Kind             string    `json:"kind" gorm:"type:text;not null;index"`
	Tokens           int64     `json:"tokens" gorm:"not null"`
	Amount           int64     `json:"amount" gorm:"not null"`
	AverageUnitPrice int64     `json:"average_unit_price" gorm:"not null"`
	Reference        string    `json:"reference" gorm:"type:text"`
	// Breakdown snapshots the per-tier pricing of a custom purchase at the
	// moment it happened; later tier edits cannot rewrite history.
	Breakdown datatypes.JSON `json:"breakdown,omitempty"`
	CreatedAt time.Time      `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (TokenTransaction) TableName() string { return "token_transactions" }

func ValidKind(kind string) bool {
	switch kind {
	case KindCustomPurchase, KindBundlePurchase, KindSpend, KindGrant:
		return true
	}
	return false
}

// KindSummary aggregates the ledger per transaction kind.
type KindSummary struct {
	Kind   string `json:"kind"`
	Count  int64  `json:"count"`
	Tokens int64  `json:"tokens"`
	Amount int64  `json:"amount"`
}
