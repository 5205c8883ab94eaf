// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"gorm.io/gorm"
)

// User represents a registered Trailhaven account. It is the identity root:
// campgrounds and comments keep a denormalized author snapshot (id + username)
// rather than a live reference, so username changes do not propagate to
// content created before the change.
type User struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Username  string         `gorm:"unique;not null" json:"username"`
	Password  string         `gorm:"not null" json:"-"`
	Email     string         `json:"email"`
	Phone     string         `json:"phone"`
	FullName  string         `json:"full_name"`
	Image     string         `json:"image"`
	ImageID   string         `json:"image_id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for GORM.
func (User) TableName() string {
	return "users"
}
