// Package seeders fills the database with demo data for local
// development.
package seeders

import (
	"fmt"

	"github.com/shashiranjanraj/vampware/app/models"
	"github.com/shashiranjanraj/vampware/pkg/auth"
	"gorm.io/gorm"
)

// Run inserts the demo users, products, and orders. Seeding an already
// seeded database is skipped rather than duplicated.
func Run(db *gorm.DB) error {
	var userCount int64
	if err := db.Model(&models.User{}).Count(&userCount).Error; err != nil {
		return fmt.Errorf("seed: count users: %w", err)
	}
	if userCount > 0 {
		fmt.Println("Database already seeded, skipping.")
		return nil
	}

	hash, err := auth.HashPassword("password123")
	if err != nil {
		return fmt.Errorf("seed: hash password: %w", err)
	}

	users := []models.User{
		{Name: "Alice Johnson", Email: "alice@example.com", Password: hash},
		{Name: "Bob Smith", Email: "bob@example.com", Password: hash},
		{Name: "Carol White", Email: "carol@example.com", Password: hash},
	}
	if err := db.Create(&users).Error; err != nil {
		return fmt.Errorf("seed: users: %w", err)
	}

	products := []models.Product{
		{Name: "Laptop", Price: 1299.99},
		{Name: "Wireless Mouse", Price: 24.50},
		{Name: "Mechanical Keyboard", Price: 89.00},
		{Name: "USB-C Hub", Price: 45.75},
		{Name: "Monitor", Price: 329.00},
		{Name: "Headphones", Price: 149.99},
	}
	if err := db.Create(&products).Error; err != nil {
		return fmt.Errorf("seed: products: %w", err)
	}

	orders := []models.Order{
		{UserID: users[0].ID, Products: []models.Product{products[0], products[1]}},
		{UserID: users[0].ID, Products: []models.Product{products[4]}},
		{UserID: users[1].ID, Products: []models.Product{products[2], products[3], products[5]}},
	}
	if err := db.Create(&orders).Error; err != nil {
		return fmt.Errorf("seed: orders: %w", err)
	}

	fmt.Printf("Seeded %d users, %d products, %d orders.\n", len(users), len(products), len(orders))
	return nil
}
