package models

import (
	"time"

	"github.com/google/uuid"
)

// FAQEntry is an admin-managed help article.
type FAQEntry struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Question  string    `gorm:"column:question;not null"`
	Answer    string    `gorm:"column:answer;not null"`
	Category  string    `gorm:"column:category;not null;index"`
	SortOrder int       `gorm:"column:sort_order;not null;default:0"`
	Published bool      `gorm:"column:published;not null;default:true"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
