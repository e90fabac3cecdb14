// server/cmd/api/main.go
package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"vetiver-carbon-api-server/config"
	"vetiver-carbon-api-server/internal/ai"
	"vetiver-carbon-api-server/internal/ai/mistral"
	"vetiver-carbon-api-server/internal/api/routes"
	"vetiver-carbon-api-server/internal/auth"
	"vetiver-carbon-api-server/internal/database"
	"vetiver-carbon-api-server/internal/export"
	"vetiver-carbon-api-server/internal/models"
	"vetiver-carbon-api-server/internal/s3"
	"vetiver-carbon-api-server/internal/socket"
	"vetiver-carbon-api-server/internal/store"

	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/bson"
)

func main() {
	// .env chỉ dùng cho môi trường dev; bỏ qua nếu không có.
	_ = godotenv.Load()

	// 1. Load configuration
	cfg, err := config.LoadConfig("./config")
	if err != nil {
		log.Fatalf("Could not load config: %v", err)
	}
	auth.SetSecret(cfg.JWT.Secret)

	// 2. Kết nối MongoDB
	db, err := database.Connect(cfg.Mongo)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// 3. Seed + migrate một lần khi khởi động
	if err := database.SeedAdmin(db); err != nil {
		log.Fatalf("Failed to seed admin: %v", err)
	}
	if err := database.SeedTerminals(db); err != nil {
		log.Fatalf("Failed to seed terminals: %v", err)
	}
	if err := database.MigrateLegacyDailyRecords(db); err != nil {
		log.Fatalf("Failed to migrate legacy daily records: %v", err)
	}

	// 4. Khởi tạo WebSocket hub và record store
	wsHub := socket.NewHub()
	recordStore := store.NewMongoStore(db, wsHub)

	// 5. S3 uploader (tùy chọn)
	var s3Uploader *s3.Uploader
	if cfg.S3.Bucket != "" {
		s3Uploader, err = s3.NewUploader(cfg.S3)
		if err != nil {
			log.Fatalf("Failed to create S3 uploader: %v", err)
		}
	} else {
		log.Println("S3 is not configured, export upload disabled")
	}

	// 6. Trợ lý AI (tùy chọn)
	var assistant *ai.Assistant
	if cfg.Mistral.APIKey != "" {
		client, err := mistral.NewClient(cfg.Mistral)
		if err != nil {
			log.Fatalf("Failed to create Mistral client: %v", err)
		}
		assistant = &ai.Assistant{
			Client: client,
			Store:  recordStore,
			Capture: func(ctx context.Context, terminalID string) (bool, error) {
				var terminal models.Terminal
				err := db.Collection("terminals").FindOne(ctx, bson.M{"terminalID": terminalID}).Decode(&terminal)
				if err != nil {
					return false, err
				}
				return terminal.HasCaptureSystem, nil
			},
			Export: func(ctx context.Context) (string, error) {
				if s3Uploader == nil {
					return "", errors.New("S3 export is not configured")
				}
				records, err := recordStore.List(ctx)
				if err != nil {
					return "", err
				}
				data, err := export.WorkbookBytes(records)
				if err != nil {
					return "", err
				}
				objectKey := fmt.Sprintf("exports/registros-%s.xlsx", time.Now().Format("20060102-150405"))
				return s3Uploader.UploadReport(ctx, bytes.NewReader(data), objectKey)
			},
		}
	} else {
		log.Println("Mistral is not configured, assistant disabled")
	}

	// 7. Truyền tất cả các thành phần cần thiết vào router
	router := routes.SetupRouter(recordStore, db, s3Uploader, wsHub, assistant)

	// 8. Start server
	log.Printf("Starting API server on port %s", cfg.Server.Port)
	if err := router.Run(":" + cfg.Server.Port); err != nil {
		log.Fatalf("Failed to run server: %v", err)
	}
}
