package main

import (
	"log"
	"os"

	"github.com/accounthub/backend/auth"
	"github.com/accounthub/backend/database"
	"github.com/accounthub/backend/models"
	"github.com/joho/godotenv"
)

// Seeds the default admin account if it does not exist yet.
func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Connect to database
	db, err := database.Connect()
	if err != nil {
		log.Fatalf("❌ Failed to connect to database: %v", err)
	}
	defer database.Close(db)

	email := os.Getenv("ADMIN_EMAIL")
	if email == "" {
		email = "admin@example.com"
	}
	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		log.Fatal("❌ ADMIN_PASSWORD environment variable is not set")
	}

	var count int64
	db.Model(&models.User{}).Where("email = ?", email).Count(&count)
	if count > 0 {
		log.Printf("✅ Admin user %s already exists", email)
		return
	}

	hashed, err := auth.HashPassword(password)
	if err != nil {
		log.Fatalf("❌ Failed to hash password: %v", err)
	}

	admin := models.User{
		Email:          email,
		HashedPassword: hashed,
		FullName:       "Administrator",
		Role:           models.RoleAdmin,
		IsActive:       true,
	}
	if err := db.Create(&admin).Error; err != nil {
		log.Fatalf("❌ Failed to create admin user: %v", err)
	}

	log.Printf("✅ Admin user %s seeded successfully", email)
}
