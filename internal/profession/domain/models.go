package domain

import "time"

const (
	StatusPublished = "published"
	StatusDraft     = "draft"
	StatusArchived  = "archived"
)

// Profession is one entry of the career dictionary. Slug is derived from
// the name and stays URL-safe and unique across the dictionary.
type Profession struct {
	ID        int64     `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"type:text;not null"`
	Slug      string    `json:"slug" gorm:"type:text;not null;uniqueIndex"`
	Category  string    `json:"category" gorm:"type:text;not null"`
	Summary   string    `json:"summary" gorm:"type:text"`
	Status    string    `json:"status" gorm:"type:text;not null;default:'draft'"`
	CreatedAt time.Time `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Profession) TableName() string { return "professions" }

func ValidStatus(status string) bool {
	switch status {
	case StatusPublished, StatusDraft, StatusArchived:
		return true
	}
	return false
}
