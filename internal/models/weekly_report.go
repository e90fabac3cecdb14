// server/internal/models/weekly_report.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WeeklyReport tổng hợp bảy bản ghi hàng ngày (Thứ Hai - Chủ Nhật) thành một báo cáo.
// ReportID is stable per ISO week, so recomputing a week overwrites the prior report.
type WeeklyReport struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	ReportID    string             `bson:"reportID" json:"reportID"` // e.g. "REP-SEM-2024-09"
	WeekStart   time.Time          `bson:"weekStart" json:"weekStart"`
	WeekEnd     time.Time          `bson:"weekEnd" json:"weekEnd"`
	Emisiones   float64            `bson:"emisiones" json:"emisiones"`
	Captura     float64            `bson:"captura" json:"captura"`
	RecordIDs   []string           `bson:"recordIDs" json:"recordIDs"`
	GeneratedAt time.Time          `bson:"generatedAt" json:"generatedAt"`
}
