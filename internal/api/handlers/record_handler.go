// server/internal/api/handlers/record_handler.go
package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"vetiver-carbon-api-server/internal/emissions"
	"vetiver-carbon-api-server/internal/models"
	"vetiver-carbon-api-server/internal/store"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const dateLayout = "2006-01-02"

type RecordHandler struct {
	Store store.RecordStore
	DB    *mongo.Database
}

// CreateRecordRequest là payload của form nhập liệu: số liệu vận hành thô,
// một ngày đơn lẻ hoặc một khoảng ngày.
type CreateRecordRequest struct {
	Origen         string  `json:"origen" binding:"required"`
	Fecha          string  `json:"fecha"`
	PeriodStart    string  `json:"periodStart"`
	PeriodEnd      string  `json:"periodEnd"`
	ElectricityKWh float64 `json:"electricityKWh" binding:"min=0"`
	DieselLiters   float64 `json:"dieselLiters" binding:"min=0"`
	Trucks         int     `json:"trucks" binding:"min=0"`
	Containers     int     `json:"containers" binding:"min=0"`
}

type UpdateRecordRequest struct {
	Fecha     *string  `json:"fecha"`
	Origen    *string  `json:"origen"`
	Emisiones *float64 `json:"emisiones" binding:"omitempty,min=0"`
	Captura   *float64 `json:"captura" binding:"omitempty,min=0"`
}

// terminalHasCapture tra cứu khả năng hấp thụ của terminal trong MongoDB.
func (h *RecordHandler) terminalHasCapture(ctx context.Context, terminalID string) (bool, error) {
	var terminal models.Terminal
	err := h.DB.Collection("terminals").FindOne(ctx, bson.M{"terminalID": terminalID}).Decode(&terminal)
	if err != nil {
		return false, err
	}
	return terminal.HasCaptureSystem, nil
}

// CreateRecord nhận số liệu thô, tính phát thải/hấp thụ và lưu bản ghi mới.
func (h *RecordHandler) CreateRecord(c *gin.Context) {
	var req CreateRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	isRange := req.PeriodStart != "" || req.PeriodEnd != ""
	if isRange && (req.PeriodStart == "" || req.PeriodEnd == "") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Both periodStart and periodEnd are required for a date range"})
		return
	}
	if !isRange && req.Fecha == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Either fecha or a date range is required"})
		return
	}

	// Dates are validated at the form boundary, before any lookup. An
	// inverted range never reaches the store.
	var start, end, fecha time.Time
	if isRange {
		var err error
		start, err = time.Parse(dateLayout, req.PeriodStart)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid periodStart, expected YYYY-MM-DD"})
			return
		}
		end, err = time.Parse(dateLayout, req.PeriodEnd)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid periodEnd, expected YYYY-MM-DD"})
			return
		}
		if _, err = emissions.PeriodDays(start, end); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	} else {
		var err error
		fecha, err = time.Parse(dateLayout, req.Fecha)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid fecha, expected YYYY-MM-DD"})
			return
		}
	}

	hasCapture, err := h.terminalHasCapture(c.Request.Context(), req.Origen)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown terminal"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error checking terminal"})
		}
		return
	}

	emitted, err := emissions.ComputeEmissions(req.ElectricityKWh, req.DieselLiters)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	input := store.RecordInput{
		Origen:    req.Origen,
		Emisiones: emitted,
		Fecha:     fecha,
		Datos: models.OperationalData{
			Trucks:         req.Trucks,
			Containers:     req.Containers,
			ElectricityKWh: req.ElectricityKWh,
			DieselLiters:   req.DieselLiters,
			Manual:         true,
		},
	}

	if isRange {
		captured, err := emissions.ComputeCapture(hasCapture, start, end)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		input.Fecha = end
		input.Captura = captured
		input.Datos.PeriodStart = &start
		input.Datos.PeriodEnd = &end
	}

	record, err := h.Store.Create(c.Request.Context(), input)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create record"})
		return
	}

	c.JSON(http.StatusCreated, record)
}

// GetAllRecords lấy danh sách tất cả bản ghi, mới nhất trước.
func (h *RecordHandler) GetAllRecords(c *gin.Context) {
	records, err := h.Store.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query records"})
		return
	}

	// Optional estado filter, e.g. ?estado=EN_VALIDACION
	if estado := c.Query("estado"); estado != "" {
		filtered := []models.Record{}
		for _, r := range records {
			if r.Estado == estado {
				filtered = append(filtered, r)
			}
		}
		records = filtered
	}

	c.JSON(http.StatusOK, records)
}

func (h *RecordHandler) GetRecordByID(c *gin.Context) {
	record, err := h.Store.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Record not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve record"})
		}
		return
	}

	c.JSON(http.StatusOK, record)
}

// UpdateRecord cập nhật một phần bản ghi. Trạng thái không đổi ở đây.
func (h *RecordHandler) UpdateRecord(c *gin.Context) {
	var req UpdateRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	partial := store.FieldUpdate{
		Origen:    req.Origen,
		Emisiones: req.Emisiones,
		Captura:   req.Captura,
	}
	if req.Fecha != nil {
		fecha, err := time.Parse(dateLayout, *req.Fecha)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid fecha, expected YYYY-MM-DD"})
			return
		}
		partial.Fecha = &fecha
	}

	if err := h.Store.UpdateFields(c.Request.Context(), c.Param("id"), partial); err != nil {
		switch {
		case errors.Is(err, store.ErrRecordNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Record not found"})
		case errors.Is(err, store.ErrNegativeAmount):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update record"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Record updated successfully"})
}

func (h *RecordHandler) ApproveRecord(c *gin.Context) {
	h.setStatus(c, models.StatusApproved)
}

func (h *RecordHandler) RejectRecord(c *gin.Context) {
	h.setStatus(c, models.StatusRejected)
}

func (h *RecordHandler) setStatus(c *gin.Context, status string) {
	if err := h.Store.SetStatus(c.Request.Context(), c.Param("id"), status); err != nil {
		switch {
		case errors.Is(err, store.ErrRecordNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Record not found"})
		case errors.Is(err, store.ErrInvalidTransition):
			c.JSON(http.StatusConflict, gin.H{"error": "Record is no longer pending validation"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update record status"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Record status updated successfully", "estado": status})
}

func (h *RecordHandler) DeleteRecord(c *gin.Context) {
	if err := h.Store.Delete(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Record not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete record"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Record deleted successfully"})
}
