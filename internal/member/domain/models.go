package domain

import "time"

const (
	TierBasic   = "basic"
	TierPremium = "premium"

	StatusActive    = "active"
	StatusSuspended = "suspended"
)

type Member struct {
	ID             int64     `json:"id" gorm:"primaryKey"`
	Email          string    `json:"email" gorm:"type:text;not null;uniqueIndex"`
	FullName       string    `json:"full_name" gorm:"type:text;not null"`
	MembershipTier string    `json:"membership_tier" gorm:"type:text;not null;default:'basic'"`
	Status         string    `json:"status" gorm:"type:text;not null;default:'active'"`
	TokenBalance   int64     `json:"token_balance" gorm:"not null;default:0"`
	JoinedAt       time.Time `json:"joined_at" gorm:"not null"`
	CreatedAt      time.Time `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt      time.Time `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Member) TableName() string { return "members" }

func ValidTier(tier string) bool {
	return tier == TierBasic || tier == TierPremium
}

func ValidStatus(status string) bool {
	return status == StatusActive || status == StatusSuspended
}
