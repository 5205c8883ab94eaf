package seed

import (
	"fmt"
	"log"

	"trailhaven/internal/models"

	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumUsers       int
	NumCampgrounds int
	MaxComments    int
	ShouldClean    bool
}

// Seed populates the database with demo users, campgrounds, and reviews.
func Seed(db *gorm.DB, opts Options) error {
	log.Printf("Seeding %d users and %d campgrounds...",
		opts.NumUsers, opts.NumCampgrounds)

	if opts.ShouldClean {
		if err := clearData(db); err != nil {
			log.Println("Warning: could not clear existing data, continuing anyway")
		}
	}

	factory := NewFactory(db)

	hash, err := HashSeedPassword()
	if err != nil {
		return fmt.Errorf("failed to hash seed password: %w", err)
	}

	users := make([]*models.User, 0, opts.NumUsers)
	for i := 0; i < opts.NumUsers; i++ {
		user := factory.BuildUser(hash)
		if err := db.Create(user).Error; err != nil {
			return fmt.Errorf("failed to create user: %w", err)
		}
		users = append(users, user)
	}
	log.Printf("%d users created", len(users))

	campgrounds := make([]*models.Campground, 0, opts.NumCampgrounds)
	for i := 0; i < opts.NumCampgrounds; i++ {
		author := users[factory.rng.Intn(len(users))]
		campground := factory.BuildCampground(author)
		if err := db.Create(campground).Error; err != nil {
			return fmt.Errorf("failed to create campground: %w", err)
		}
		campgrounds = append(campgrounds, campground)
	}
	log.Printf("%d campgrounds created", len(campgrounds))

	comments := 0
	for _, campground := range campgrounds {
		for i := 0; i < factory.rng.Intn(opts.MaxComments+1); i++ {
			reviewer := users[factory.rng.Intn(len(users))]
			comment := factory.BuildComment(reviewer, campground)
			if err := db.Create(comment).Error; err != nil {
				return fmt.Errorf("failed to create comment: %w", err)
			}
			comments++
		}
		// Keep the cached rating consistent with the reviews just written.
		var loaded models.Campground
		if err := db.Preload("Comments").First(&loaded, campground.ID).Error; err != nil {
			continue
		}
		loaded.RecomputeRating()
		db.Model(&models.Campground{}).Where("id = ?", loaded.ID).
			Updates(map[string]interface{}{
				"rate_avg":   loaded.RateAvg,
				"rate_count": loaded.RateCount,
			})
	}
	log.Printf("%d reviews created", comments)

	log.Println("Database seeding completed")
	return nil
}

func clearData(db *gorm.DB) error {
	log.Println("Clearing existing data...")
	sql := `TRUNCATE TABLE comments, campgrounds, users RESTART IDENTITY CASCADE;`
	return db.Exec(sql).Error
}
