// server/internal/store/mongo.go
package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"vetiver-carbon-api-server/internal/models"
	"vetiver-carbon-api-server/internal/socket"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const recordsCollection = "records"

// MongoStore là triển khai RecordStore trên MongoDB. Mỗi thao tác ghi chỉ
// đụng đến một document, thay cho kiểu đọc-sửa-ghi cả collection của bản cũ.
type MongoStore struct {
	DB       *mongo.Database
	Notifier Notifier
}

func NewMongoStore(db *mongo.Database, notifier Notifier) *MongoStore {
	return &MongoStore{DB: db, Notifier: notifier}
}

func (s *MongoStore) notify() {
	if s.Notifier != nil {
		s.Notifier.Broadcast(socket.EventDataChanged)
	}
}

// recordListSort orders newest first. ObjectIDs break ties between records
// created within the same millisecond, so the order is stable across reads.
var recordListSort = bson.D{
	{Key: "timestamp", Value: -1},
	{Key: "_id", Value: -1},
}

func (s *MongoStore) List(ctx context.Context) ([]models.Record, error) {
	collection := s.DB.Collection(recordsCollection)

	opts := options.Find().SetSort(recordListSort)
	cursor, err := collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query records: %w", err)
	}
	defer cursor.Close(ctx)

	var records []models.Record
	if err = cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("failed to decode records: %w", err)
	}

	if records == nil {
		records = []models.Record{}
	}

	return records, nil
}

func (s *MongoStore) Get(ctx context.Context, recordID string) (*models.Record, error) {
	collection := s.DB.Collection(recordsCollection)

	var record models.Record
	err := collection.FindOne(ctx, bson.M{"recordID": recordID}).Decode(&record)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrRecordNotFound
		}
		return nil, fmt.Errorf("failed to retrieve record: %w", err)
	}

	return &record, nil
}

func (s *MongoStore) Create(ctx context.Context, input RecordInput) (*models.Record, error) {
	if input.Emisiones < 0 || input.Captura < 0 {
		return nil, ErrNegativeAmount
	}

	newRecord := models.Record{
		RecordID:  fmt.Sprintf("REG-%s", strings.ToUpper(uuid.New().String()[:8])),
		Fecha:     input.Fecha,
		Origen:    input.Origen,
		Emisiones: input.Emisiones,
		Captura:   input.Captura,
		Estado:    models.StatusPending,
		Datos:     input.Datos,
		Version:   1,
		Timestamp: time.Now(),
	}

	collection := s.DB.Collection(recordsCollection)
	result, err := collection.InsertOne(ctx, newRecord)
	if err != nil {
		return nil, fmt.Errorf("failed to create record: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		newRecord.ID = oid
	}

	s.notify()
	return &newRecord, nil
}

func (s *MongoStore) UpdateFields(ctx context.Context, recordID string, partial FieldUpdate) error {
	if partial.Emisiones != nil && *partial.Emisiones < 0 {
		return ErrNegativeAmount
	}
	if partial.Captura != nil && *partial.Captura < 0 {
		return ErrNegativeAmount
	}

	set := bson.M{}
	if partial.Fecha != nil {
		set["fecha"] = *partial.Fecha
	}
	if partial.Origen != nil {
		set["origen"] = *partial.Origen
	}
	if partial.Emisiones != nil {
		set["emisiones"] = *partial.Emisiones
	}
	if partial.Captura != nil {
		set["captura"] = *partial.Captura
	}
	if partial.Datos != nil {
		set["datos"] = *partial.Datos
	}
	if len(set) == 0 {
		return nil
	}

	collection := s.DB.Collection(recordsCollection)
	result, err := collection.UpdateOne(ctx, bson.M{"recordID": recordID}, bson.M{
		"$set": set,
		"$inc": bson.M{"version": 1},
	})
	if err != nil {
		return fmt.Errorf("failed to update record: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrRecordNotFound
	}

	s.notify()
	return nil
}

func (s *MongoStore) SetStatus(ctx context.Context, recordID string, status string) error {
	current, err := s.Get(ctx, recordID)
	if err != nil {
		return err
	}

	if !models.ValidTransition(current.Estado, status) {
		return ErrInvalidTransition
	}
	if current.Estado == status {
		// Idempotent re-set; nothing to persist, nothing to announce.
		return nil
	}

	collection := s.DB.Collection(recordsCollection)
	// The estado filter guards against a concurrent writer resolving the
	// record between the read above and this update.
	result, err := collection.UpdateOne(ctx,
		bson.M{"recordID": recordID, "estado": current.Estado},
		bson.M{
			"$set": bson.M{"estado": status},
			"$inc": bson.M{"version": 1},
		})
	if err != nil {
		return fmt.Errorf("failed to update record status: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrInvalidTransition
	}

	s.notify()
	return nil
}

func (s *MongoStore) Delete(ctx context.Context, recordID string) error {
	collection := s.DB.Collection(recordsCollection)
	result, err := collection.DeleteOne(ctx, bson.M{"recordID": recordID})
	if err != nil {
		return fmt.Errorf("failed to delete record: %w", err)
	}
	if result.DeletedCount == 0 {
		return ErrRecordNotFound
	}

	s.notify()
	return nil
}
