// server/internal/models/terminal.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Terminal struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	TerminalID       string             `bson:"terminalID" json:"terminalID"` // User-friendly unique ID, e.g. "terminal-espigon"
	Name             string             `bson:"name" json:"name"`             // e.g. "Terminal Espigón"
	HasCaptureSystem bool               `bson:"hasCaptureSystem" json:"hasCaptureSystem"`
	Status           string             `bson:"status" json:"status"` // e.g. "ACTIVE", "INACTIVE"
	CreatedAt        time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt        time.Time          `bson:"updatedAt" json:"updatedAt"`
}
