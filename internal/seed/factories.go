// Package seed provides helpers to create demo data for development and
// testing.
package seed

import (
	"fmt"
	"math/rand"
	"time"

	"trailhaven/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	nameDescriptors = []string{
		"Crystal", "Silent", "Roaring", "Misty", "Golden", "Hidden", "Ancient",
		"Windy", "Mossy", "Sunny", "Shady", "Wild", "Lonely", "Granite",
	}
	nameFeatures = []string{
		"Creek", "Canyon", "Hollow", "Ridge", "Basin", "Meadow", "Springs",
		"Pines", "Falls", "Bluff", "Grove", "Bend", "Flats", "Lake",
	}
	tagPool = []string{
		"forest", "river", "lake", "mountain", "desert", "hiking", "fishing",
		"swimming", "pet-friendly", "rv", "tent-only", "remote", "family",
	}
)

// Factory builds domain entities and persists them to the database.
type Factory struct {
	db  *gorm.DB
	rng *rand.Rand
}

// NewFactory creates a Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB) *Factory {
	gofakeit.Seed(time.Now().UnixNano())
	return &Factory{
		db:  db,
		rng: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// CampgroundName produces names like "Misty Creek" or "Granite Basin".
func (f *Factory) CampgroundName() string {
	return nameDescriptors[f.rng.Intn(len(nameDescriptors))] + " " +
		nameFeatures[f.rng.Intn(len(nameFeatures))]
}

// BuildUser constructs an unsaved user. Every seeded account shares the
// password "password123" so any of them can be used to log in locally.
func (f *Factory) BuildUser(passwordHash string) *models.User {
	username := fmt.Sprintf("%s%d", gofakeit.Username(), f.rng.Intn(1000))
	return &models.User{
		Username: username,
		Password: passwordHash,
		Email:    fmt.Sprintf("%s@example.com", username),
		Phone:    gofakeit.Phone(),
		FullName: gofakeit.Name(),
		Image:    fmt.Sprintf("https://i.pravatar.cc/150?u=%s", username),
	}
}

// BuildCampground constructs an unsaved campground authored by user.
func (f *Factory) BuildCampground(user *models.User) *models.Campground {
	tags := make(models.TagList, 0, 3)
	for _, i := range f.rng.Perm(len(tagPool))[:f.rng.Intn(3)+1] {
		tags = append(tags, tagPool[i])
	}

	start := time.Now().AddDate(0, 0, f.rng.Intn(30))
	end := start.AddDate(0, f.rng.Intn(6)+1, 0)

	return &models.Campground{
		Name:        f.CampgroundName(),
		Description: gofakeit.Paragraph(1, 3, 8, " "),
		Image: fmt.Sprintf("https://picsum.photos/seed/%s/1500/1000",
			gofakeit.UUID()),
		Price:          float64(f.rng.Intn(8000)+500) / 100,
		Location:       fmt.Sprintf("%s, %s", gofakeit.City(), gofakeit.StateAbr()),
		Lat:            gofakeit.Latitude(),
		Lng:            gofakeit.Longitude(),
		AuthorID:       user.ID,
		AuthorUsername: user.Username,
		Tags:           tags,
		BookingStart:   start.Format("2006-01-02"),
		BookingEnd:     end.Format("2006-01-02"),
	}
}

// BuildComment constructs an unsaved review of campground by user.
func (f *Factory) BuildComment(user *models.User, campground *models.Campground) *models.Comment {
	return &models.Comment{
		Text:           gofakeit.Sentence(f.rng.Intn(12) + 4),
		Rating:         f.rng.Intn(5) + 1,
		AuthorID:       user.ID,
		AuthorUsername: user.Username,
		CampgroundID:   campground.ID,
	}
}

// HashSeedPassword hashes the shared development password once so user
// creation stays fast.
func HashSeedPassword() (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
