package models

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
)

// TagList is an ordered list of free-text tags stored as a single
// comma-separated column. Splitting preserves the submitted order and does
// not trim or deduplicate entries.
type TagList []string

// ParseTagList splits a comma-separated form value into a TagList.
func ParseTagList(s string) TagList {
	if s == "" {
		return nil
	}
	return TagList(strings.Split(s, ","))
}

// Value implements driver.Valuer.
func (t TagList) Value() (driver.Value, error) {
	return strings.Join(t, ","), nil
}

// Scan implements sql.Scanner.
func (t *TagList) Scan(value interface{}) error {
	if value == nil {
		*t = nil
		return nil
	}
	switch v := value.(type) {
	case string:
		*t = ParseTagList(v)
	case []byte:
		*t = ParseTagList(string(v))
	default:
		return fmt.Errorf("cannot scan %T into TagList", value)
	}
	return nil
}

// Campground is the primary listable resource: a place with a price, a
// geocoded location, an externally hosted image, and a booking date range.
//
// RateAvg and RateCount are caches over the comment set's rating values.
// They are recomputed and persisted on every show-page load and are not kept
// authoritative between writes from other paths.
type Campground struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	Name           string         `gorm:"not null" json:"name"`
	Description    string         `gorm:"type:text" json:"description"`
	Image          string         `json:"image"`
	ImageID        string         `json:"image_id"`
	Price          float64        `json:"price"`
	Location       string         `json:"location"`
	Lat            float64        `json:"lat"`
	Lng            float64        `json:"lng"`
	AuthorID       uint           `gorm:"index" json:"author_id"`
	AuthorUsername string         `json:"author_username"`
	Tags           TagList        `gorm:"type:text" json:"tags"`
	BookingStart   string         `json:"booking_start"`
	BookingEnd     string         `json:"booking_end"`
	RateAvg        float64        `json:"rate_avg"`
	RateCount      int            `json:"rate_count"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
	Comments       []Comment      `gorm:"foreignKey:CampgroundID" json:"comments,omitempty"`
}

// TableName specifies the table name for GORM.
func (Campground) TableName() string {
	return "campgrounds"
}

// RecomputeRating refreshes the cached RateAvg/RateCount from the loaded
// comment set. An empty comment set yields RateAvg 0.
func (c *Campground) RecomputeRating() {
	if len(c.Comments) == 0 {
		c.RateAvg = 0
		c.RateCount = 0
		return
	}
	total := 0
	for _, comment := range c.Comments {
		total += comment.Rating
	}
	c.RateAvg = float64(total) / float64(len(c.Comments))
	c.RateCount = len(c.Comments)
}
