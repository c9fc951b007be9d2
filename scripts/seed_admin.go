package main

import (
	"fmt"
	"log"
	"os"

	"golang.org/x/crypto/bcrypt"

	"vehicle-inspection-server/models"
	"vehicle-inspection-server/storage"
)

// Creates the initial ADMIN account so the API is usable on a fresh
// database. Idempotent: an existing admin is left alone.
func main() {
	storage.InitializeDB()

	email := os.Getenv("ADMIN_EMAIL")
	password := os.Getenv("ADMIN_PASSWORD")
	if email == "" || password == "" {
		log.Fatal("ADMIN_EMAIL and ADMIN_PASSWORD must be set")
	}

	var count int64
	if err := storage.DB.Model(&models.User{}).Where("role = ?", models.RoleAdmin).Count(&count).Error; err != nil {
		log.Fatalf("Error checking for existing admins: %v", err)
	}
	if count > 0 {
		fmt.Println("An ADMIN account already exists, nothing to do")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Error hashing password: %v", err)
	}

	admin := models.User{
		FullName: "Administrator",
		Email:    email,
		Password: string(hash),
		Role:     models.RoleAdmin,
	}
	if err := storage.DB.Create(&admin).Error; err != nil {
		log.Fatalf("Error creating admin user: %v", err)
	}

	fmt.Println("Admin account created successfully!")
}
