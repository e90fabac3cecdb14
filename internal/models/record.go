// server/internal/models/record.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Estados del ciclo de vida de un registro.
const (
	StatusPending  = "EN_VALIDACION"
	StatusApproved = "APROBADO"
	StatusRejected = "RECHAZADO"
)

// ValidTransition reports whether a status change is allowed.
// Only pending records can be resolved; re-setting the same status is a no-op
// and therefore legal.
func ValidTransition(from, to string) bool {
	if from == to {
		return true
	}
	return from == StatusPending && (to == StatusApproved || to == StatusRejected)
}

// OperationalData giữ các số liệu vận hành thô đã tạo ra các con số dẫn xuất.
// Kept for audit/display, never recomputed from.
type OperationalData struct {
	Trucks         int        `bson:"trucks,omitempty" json:"trucks,omitempty"`
	Containers     int        `bson:"containers,omitempty" json:"containers,omitempty"`
	ElectricityKWh float64    `bson:"electricityKWh,omitempty" json:"electricityKWh,omitempty"`
	DieselLiters   float64    `bson:"dieselLiters,omitempty" json:"dieselLiters,omitempty"`
	PeriodStart    *time.Time `bson:"periodStart,omitempty" json:"periodStart,omitempty"`
	PeriodEnd      *time.Time `bson:"periodEnd,omitempty" json:"periodEnd,omitempty"`
	Manual         bool       `bson:"manual,omitempty" json:"manual,omitempty"`
}

// Record là một bản ghi phát thải/hấp thụ của một terminal.
type Record struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	RecordID  string             `bson:"recordID" json:"id"` // e.g. "REG-1A2B3C4D"
	Fecha     time.Time          `bson:"fecha" json:"fecha"` // reporting date; period end for ranges
	Origen    string             `bson:"origen" json:"origen"`
	Emisiones float64            `bson:"emisiones" json:"emisiones"` // tCO2e, >= 0
	Captura   float64            `bson:"captura" json:"captura"`     // tCO2e, >= 0
	Estado    string             `bson:"estado" json:"estado"`
	Datos     OperationalData    `bson:"datos" json:"datos"`
	Version   int64              `bson:"version" json:"version"`
	Timestamp time.Time          `bson:"timestamp" json:"timestamp"`
}
