// server/internal/database/seeder.go
package database

import (
	"context"
	"log"
	"time"

	"vetiver-carbon-api-server/internal/auth"
	"vetiver-carbon-api-server/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// Bộ terminal cố định của cảng. Chỉ Espigón có hệ thống vetiver.
var defaultTerminals = []models.Terminal{
	{TerminalID: "terminal-espigon", Name: "Terminal Espigón", HasCaptureSystem: true, Status: "ACTIVE"},
	{TerminalID: "terminal-norte", Name: "Terminal Norte", HasCaptureSystem: false, Status: "ACTIVE"},
	{TerminalID: "terminal-costanera", Name: "Terminal Costanera", HasCaptureSystem: false, Status: "ACTIVE"},
}

func SeedAdmin(db *mongo.Database) error {
	userCollection := db.Collection("users")
	adminEmail := "admin@puerto.example.com"

	// Kiểm tra xem admin đã tồn tại chưa
	count, err := userCollection.CountDocuments(context.Background(), bson.M{"email": adminEmail})
	if err != nil {
		return err
	}

	if count > 0 {
		log.Println("Admin already exists. Seeding skipped.")
		return nil
	}

	log.Println("Admin not found. Seeding...")
	hashedPassword, err := auth.HashPassword("adminpassword")
	if err != nil {
		return err
	}

	admin := models.User{
		Email:      adminEmail,
		Name:       "Administrador",
		Password:   hashedPassword,
		Role:       "admin",
		TerminalID: "system",
		Status:     "active",
	}

	_, err = userCollection.InsertOne(context.Background(), admin)
	if err != nil {
		return err
	}

	log.Println("Admin seeded successfully.")
	return nil
}

// SeedTerminals chèn bộ terminal mặc định nếu collection còn trống.
func SeedTerminals(db *mongo.Database) error {
	collection := db.Collection("terminals")

	count, err := collection.CountDocuments(context.Background(), bson.M{})
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	log.Println("Seeding default terminals...")
	now := time.Now()
	docs := make([]interface{}, 0, len(defaultTerminals))
	for _, t := range defaultTerminals {
		t.CreatedAt = now
		t.UpdatedAt = now
		docs = append(docs, t)
	}

	_, err = collection.InsertMany(context.Background(), docs)
	return err
}
