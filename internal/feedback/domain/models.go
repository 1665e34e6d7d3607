package domain

import "time"

const (
	StatusNew      = "new"
	StatusReviewed = "reviewed"
	StatusResolved = "resolved"
)

type Feedback struct {
	ID          int64      `json:"id" gorm:"primaryKey"`
	MemberID    int64      `json:"member_id" gorm:"not null;index"`
	Topic       string     `json:"topic" gorm:"type:text;not null"`
	Body        string     `json:"body" gorm:"type:text;not null"`
	Rating      int        `json:"rating" gorm:"not null"`
	Status      string     `json:"status" gorm:"type:text;not null;default:'new'"`
	ReviewNotes string     `json:"review_notes" gorm:"type:text"`
	ReviewedAt  *time.Time `json:"reviewed_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt   time.Time  `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Feedback) TableName() string { return "feedback_entries" }

func ValidStatus(status string) bool {
	switch status {
	case StatusNew, StatusReviewed, StatusResolved:
		return true
	}
	return false
}

// ValidTransition allows only forward movement through the review flow.
func ValidTransition(from, to string) bool {
	switch from {
	case StatusNew:
		return to == StatusReviewed || to == StatusResolved
	case StatusReviewed:
		return to == StatusResolved
	}
	return false
}
