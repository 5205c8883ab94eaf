package models

import (
	"time"

	"gorm.io/gorm"
)

// Comment is a free-text review with an integer rating, attached to a single
// campground. Like Campground it embeds an author snapshot for display
// without a join; the snapshot is not updated when the author renames.
type Comment struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	Text           string         `gorm:"type:text" json:"text"`
	Rating         int            `json:"rating"`
	AuthorID       uint           `gorm:"index" json:"author_id"`
	AuthorUsername string         `json:"author_username"`
	CampgroundID   uint           `gorm:"index;not null" json:"campground_id"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for GORM.
func (Comment) TableName() string {
	return "comments"
}
