// server/internal/store/store.go
package store

import (
	"context"
	"errors"
	"time"

	"vetiver-carbon-api-server/internal/models"
	"vetiver-carbon-api-server/internal/socket"
)

var (
	ErrRecordNotFound    = errors.New("record not found")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrNegativeAmount    = errors.New("emissions and capture must be non-negative")
)

// Notifier nhận tín hiệu "data changed" sau mỗi thao tác ghi thành công.
// The websocket hub satisfies this in production; tests plug in a recorder.
type Notifier interface {
	Broadcast(event socket.Event)
}

// RecordInput carries the caller-supplied fields of a new record. ID, estado
// and timestamp are assigned by the store.
type RecordInput struct {
	Fecha     time.Time
	Origen    string
	Emisiones float64
	Captura   float64
	Datos     models.OperationalData
}

// FieldUpdate is a partial update of a record. Nil fields are left untouched;
// estado is deliberately not updatable here, use SetStatus.
type FieldUpdate struct {
	Fecha     *time.Time
	Origen    *string
	Emisiones *float64
	Captura   *float64
	Datos     *models.OperationalData
}

// RecordStore là repository cho các bản ghi phát thải/hấp thụ.
type RecordStore interface {
	// List returns all records, newest first.
	List(ctx context.Context) ([]models.Record, error)
	Get(ctx context.Context, recordID string) (*models.Record, error)
	// Create persists a new pending record and returns exactly what was stored.
	Create(ctx context.Context, input RecordInput) (*models.Record, error)
	// UpdateFields merges partial into the record; ErrRecordNotFound on a miss.
	UpdateFields(ctx context.Context, recordID string, partial FieldUpdate) error
	// SetStatus applies a lifecycle transition. Re-setting the current status
	// is a no-op; anything but pending->approved/rejected is rejected.
	SetStatus(ctx context.Context, recordID string, status string) error
	Delete(ctx context.Context, recordID string) error
}
