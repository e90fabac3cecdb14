// server/internal/database/migration.go
package database

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"vetiver-carbon-api-server/internal/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const legacyMigrationName = "legacy-daily-records-v1"

// legacyDailyRecord là hình dạng cũ của bản ghi hàng ngày, với tên trường
// khác với Record hiện tại.
type legacyDailyRecord struct {
	DateObj   time.Time `bson:"dateObj"`
	DateStr   string    `bson:"dateStr"`
	Origin    string    `bson:"origin"`
	IsManual  bool      `bson:"isManual"`
	Emisiones float64   `bson:"emisiones"`
	Captura   float64   `bson:"captura"`
	Estado    string    `bson:"estado"`
}

// normalizeLegacy maps a legacy document onto the current Record shape.
// Documents missing a usable date or origin are dropped (false).
func normalizeLegacy(old legacyDailyRecord) (*models.Record, bool) {
	fecha := old.DateObj
	if fecha.IsZero() && old.DateStr != "" {
		parsed, err := time.Parse("2006-01-02", old.DateStr)
		if err != nil {
			return nil, false
		}
		fecha = parsed
	}
	if fecha.IsZero() || old.Origin == "" || old.Emisiones < 0 || old.Captura < 0 {
		return nil, false
	}

	estado := old.Estado
	if estado == "" {
		estado = models.StatusPending
	}

	return &models.Record{
		RecordID:  fmt.Sprintf("REG-%s", strings.ToUpper(uuid.New().String()[:8])),
		Fecha:     fecha,
		Origen:    old.Origin,
		Emisiones: old.Emisiones,
		Captura:   old.Captura,
		Estado:    estado,
		Datos:     models.OperationalData{Manual: old.IsManual},
		Version:   1,
		Timestamp: time.Now(),
	}, true
}

// MigrateLegacyDailyRecords chuyển các bản ghi hình dạng cũ trong
// "daily_records" sang collection "records", chạy đúng một lần. Corrupt
// legacy documents are skipped, not fatal.
func MigrateLegacyDailyRecords(db *mongo.Database) error {
	migrations := db.Collection("migrations")

	count, err := migrations.CountDocuments(context.Background(), bson.M{"name": legacyMigrationName})
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	legacy := db.Collection("daily_records")
	cursor, err := legacy.Find(context.Background(), bson.M{})
	if err != nil {
		return fmt.Errorf("failed to read legacy daily records: %w", err)
	}
	defer cursor.Close(context.Background())

	records := db.Collection("records")
	migrated, skipped := 0, 0

	for cursor.Next(context.Background()) {
		var old legacyDailyRecord
		if err := cursor.Decode(&old); err != nil {
			skipped++
			continue
		}

		record, ok := normalizeLegacy(old)
		if !ok {
			skipped++
			continue
		}

		if _, err := records.InsertOne(context.Background(), record); err != nil {
			return fmt.Errorf("failed to migrate legacy record: %w", err)
		}
		migrated++
	}
	if err := cursor.Err(); err != nil {
		return err
	}

	_, err = migrations.InsertOne(context.Background(), bson.M{
		"name":      legacyMigrationName,
		"appliedAt": time.Now(),
		"migrated":  migrated,
		"skipped":   skipped,
	})
	if err != nil {
		return err
	}

	if migrated > 0 || skipped > 0 {
		log.Printf("Legacy daily records migrated: %d (skipped %d)", migrated, skipped)
	}
	return nil
}
