package main

import (
	"errors"
	"log"
	"os"

	"github.com/sahilchouksey/course-platform-api/config"
	"github.com/sahilchouksey/course-platform-api/database"
	"github.com/sahilchouksey/course-platform-api/model"
	"github.com/sahilchouksey/course-platform-api/utils/auth"
)

// Seeds the singleton admin account from ADMIN_USERNAME, ADMIN_EMAIL and
// ADMIN_PASSWORD. A second run against a seeded database is a no-op.
func main() {
	if err := config.LoadENV(); err != nil {
		log.Println("No .env file loaded:", err)
	}

	username := os.Getenv("ADMIN_USERNAME")
	email := os.Getenv("ADMIN_EMAIL")
	password := os.Getenv("ADMIN_PASSWORD")
	if username == "" || email == "" || password == "" {
		log.Fatal("ADMIN_USERNAME, ADMIN_EMAIL and ADMIN_PASSWORD must be set")
	}

	store, err := database.StartGORM()
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer store.Close()

	if err := store.Init(); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		log.Fatal("Failed to hash admin password:", err)
	}

	admin := model.Admin{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
	}

	if err := store.DB().Create(&admin).Error; err != nil {
		if errors.Is(err, model.ErrAdminExists) {
			log.Println("Admin account already exists, nothing to do")
			return
		}
		log.Fatal("Failed to create admin:", err)
	}

	log.Printf("Admin account %q created", admin.Username)
}
