package main

import (
	"log"

	"golang.org/x/crypto/bcrypt"

	"gallery/internal/database"
	"gallery/internal/domain/auth"
	"gallery/internal/domain/image"
)

// Seeds a local development database with a demo user and a few image
// records pointing at placeholder assets. Not for production use.
func main() {
	db, err := database.Connect("gallery.db")
	if err != nil {
		log.Fatal("DB connection failed:", err)
	}

	log.Println("Running AutoMigrate...")
	if err := db.AutoMigrate(&auth.User{}, &image.Image{}); err != nil {
		log.Fatal("AutoMigrate failed:", err)
	}

	log.Println("Cleaning old data...")
	db.Exec("DELETE FROM images")
	db.Exec("DELETE FROM users")

	log.Println("Creating demo user...")
	hash, _ := bcrypt.GenerateFromPassword([]byte("demo123"), bcrypt.DefaultCost)
	user := auth.User{
		Username:     "demo",
		Email:        "demo@gallery.local",
		PasswordHash: string(hash),
		Role:         "user",
	}
	if err := db.Create(&user).Error; err != nil {
		log.Fatal("create user failed:", err)
	}

	log.Println("Creating demo images...")
	images := []image.Image{
		{
			Title:        "Sunset over the bay",
			Description:  "Demo record; asset not included",
			Filename:     "seed-sunset.jpg",
			URL:          "/images/seed-sunset.jpg",
			ThumbnailURL: "/thumbnails/seed-sunset.jpg",
			Tags:         []string{"sunset", "sea"},
			Size:         204800,
			Width:        1920,
			Height:       1080,
		},
		{
			Title:        "City lights",
			Description:  "Demo record; asset not included",
			Filename:     "seed-city.jpg",
			URL:          "/images/seed-city.jpg",
			ThumbnailURL: "/thumbnails/seed-city.jpg",
			Tags:         []string{"city", "night"},
			Size:         153600,
			Width:        1600,
			Height:       900,
		},
	}
	for i := range images {
		if err := db.Create(&images[i]).Error; err != nil {
			log.Fatal("create image failed:", err)
		}
	}

	log.Printf("Seed complete: 1 user, %d images", len(images))
	log.Println("Login with demo@gallery.local / demo123")
}
