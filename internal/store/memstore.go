// server/internal/store/memstore.go
package store

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"vetiver-carbon-api-server/internal/models"
	"vetiver-carbon-api-server/internal/socket"

	"github.com/google/uuid"
)

// MemStore giữ các bản ghi trong bộ nhớ với cùng ngữ nghĩa như MongoStore.
// It backs the unit tests and any tooling that runs without a database.
type MemStore struct {
	mu       sync.RWMutex
	records  []models.Record // newest first
	Notifier Notifier
}

func NewMemStore(notifier Notifier) *MemStore {
	return &MemStore{Notifier: notifier}
}

func (s *MemStore) notify() {
	if s.Notifier != nil {
		s.Notifier.Broadcast(socket.EventDataChanged)
	}
}

func (s *MemStore) List(ctx context.Context) ([]models.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Record, len(s.records))
	copy(out, s.records)
	return out, nil
}

func (s *MemStore) Get(ctx context.Context, recordID string) (*models.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := range s.records {
		if s.records[i].RecordID == recordID {
			r := s.records[i]
			return &r, nil
		}
	}
	return nil, ErrRecordNotFound
}

func (s *MemStore) Create(ctx context.Context, input RecordInput) (*models.Record, error) {
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

	s.mu.Lock()
	s.records = append([]models.Record{newRecord}, s.records...)
	s.mu.Unlock()

	s.notify()
	return &newRecord, nil
}

func (s *MemStore) UpdateFields(ctx context.Context, recordID string, partial FieldUpdate) error {
	if partial.Emisiones != nil && *partial.Emisiones < 0 {
		return ErrNegativeAmount
	}
	if partial.Captura != nil && *partial.Captura < 0 {
		return ErrNegativeAmount
	}

	s.mu.Lock()
	idx := -1
	for i := range s.records {
		if s.records[i].RecordID == recordID {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return ErrRecordNotFound
	}

	r := &s.records[idx]
	if partial.Fecha != nil {
		r.Fecha = *partial.Fecha
	}
	if partial.Origen != nil {
		r.Origen = *partial.Origen
	}
	if partial.Emisiones != nil {
		r.Emisiones = *partial.Emisiones
	}
	if partial.Captura != nil {
		r.Captura = *partial.Captura
	}
	if partial.Datos != nil {
		r.Datos = *partial.Datos
	}
	r.Version++
	s.mu.Unlock()

	s.notify()
	return nil
}

func (s *MemStore) SetStatus(ctx context.Context, recordID string, status string) error {
	s.mu.Lock()
	idx := -1
	for i := range s.records {
		if s.records[i].RecordID == recordID {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return ErrRecordNotFound
	}

	r := &s.records[idx]
	if !models.ValidTransition(r.Estado, status) {
		s.mu.Unlock()
		return ErrInvalidTransition
	}
	if r.Estado == status {
		s.mu.Unlock()
		return nil
	}

	r.Estado = status
	r.Version++
	s.mu.Unlock()

	s.notify()
	return nil
}

func (s *MemStore) Delete(ctx context.Context, recordID string) error {
	s.mu.Lock()
	idx := -1
	for i := range s.records {
		if s.records[i].RecordID == recordID {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return ErrRecordNotFound
	}

	s.records = append(s.records[:idx], s.records[idx+1:]...)
	s.mu.Unlock()

	s.notify()
	return nil
}
