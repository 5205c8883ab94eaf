// Command main runs the database seeder for Trailhaven.
package main

import (
	"flag"
	"log"

	"trailhaven/internal/config"
	"trailhaven/internal/database"
	"trailhaven/internal/seed"
)

func main() {
	numUsers := flag.Int("users", 20, "Number of users to create")
	numCampgrounds := flag.Int("campgrounds", 40, "Number of campgrounds to create")
	maxComments := flag.Int("max-comments", 6, "Maximum reviews per campground")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	flag.Parse()

	log.Println("Trailhaven Database Seeder")
	log.Printf("Target: %d users, %d campgrounds, clean=%v",
		*numUsers, *numCampgrounds, *shouldClean)

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if _, err := database.Connect(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := seed.Seed(database.DB, seed.Options{
		NumUsers:       *numUsers,
		NumCampgrounds: *numCampgrounds,
		MaxComments:    *maxComments,
		ShouldClean:    *shouldClean,
	}); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}
}
