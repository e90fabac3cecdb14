// server/internal/api/handlers/report_handler.go
package handlers

import (
	"context"
	"net/http"
	"time"

	"vetiver-carbon-api-server/internal/emissions"
	"vetiver-carbon-api-server/internal/models"
	"vetiver-carbon-api-server/internal/store"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const weeklyReportsCollection = "weekly_reports"

type ReportHandler struct {
	Store store.RecordStore
	DB    *mongo.Database
}

type ComputeWeeklyReportRequest struct {
	// Any date inside the target week, YYYY-MM-DD.
	Week string `json:"week" binding:"required"`
}

// ComputeWeeklyReport tổng hợp bảy bản ghi hàng ngày của một tuần thành một
// báo cáo. Tính lại một tuần đã có sẽ ghi đè báo cáo cũ (upsert theo reportID).
func (h *ReportHandler) ComputeWeeklyReport(c *gin.Context) {
	var req ComputeWeeklyReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	day, err := time.Parse(dateLayout, req.Week)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid week, expected YYYY-MM-DD"})
		return
	}

	records, err := h.Store.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query records"})
		return
	}

	weekStart := emissions.WeekStart(day)
	report, ok := emissions.AggregateWeek(weekStart, records)
	if !ok {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":     "Week is incomplete, all seven daily records are required",
			"weekStart": weekStart.Format(dateLayout),
		})
		return
	}

	collection := h.DB.Collection(weeklyReportsCollection)
	opts := options.Replace().SetUpsert(true)
	if _, err := collection.ReplaceOne(context.Background(), bson.M{"reportID": report.ReportID}, report, opts); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save weekly report"})
		return
	}

	c.JSON(http.StatusOK, report)
}

// GetWeeklyReports lấy danh sách báo cáo tuần, tuần mới nhất trước.
func (h *ReportHandler) GetWeeklyReports(c *gin.Context) {
	collection := h.DB.Collection(weeklyReportsCollection)

	opts := options.Find().SetSort(bson.D{{Key: "weekStart", Value: -1}})
	cursor, err := collection.Find(context.Background(), bson.M{}, opts)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query weekly reports"})
		return
	}
	defer cursor.Close(context.Background())

	var reports []models.WeeklyReport
	if err = cursor.All(context.Background(), &reports); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode weekly reports"})
		return
	}

	if reports == nil {
		reports = []models.WeeklyReport{}
	}

	c.JSON(http.StatusOK, reports)
}
