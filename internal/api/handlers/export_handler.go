// server/internal/api/handlers/export_handler.go
package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"vetiver-carbon-api-server/internal/export"
	"vetiver-carbon-api-server/internal/s3"
	"vetiver-carbon-api-server/internal/store"

	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ExportHandler struct {
	Store    store.RecordStore
	Uploader *s3.Uploader
}

// DownloadExport trả về file xlsx chứa toàn bộ bản ghi.
func (h *ExportHandler) DownloadExport(c *gin.Context) {
	records, err := h.Store.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query records"})
		return
	}

	data, err := export.WorkbookBytes(records)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate export"})
		return
	}

	filename := fmt.Sprintf("registros-%s.xlsx", time.Now().Format("20060102-150405"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Data(http.StatusOK, xlsxContentType, data)
}

// UploadExport sinh file xlsx, đẩy lên S3 và trả về URL tải xuống.
func (h *ExportHandler) UploadExport(c *gin.Context) {
	if h.Uploader == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "S3 export is not configured"})
		return
	}

	records, err := h.Store.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query records"})
		return
	}

	data, err := export.WorkbookBytes(records)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate export"})
		return
	}

	objectKey := fmt.Sprintf("exports/registros-%s.xlsx", time.Now().Format("20060102-150405"))
	url, err := h.Uploader.UploadReport(c.Request.Context(), bytes.NewReader(data), objectKey)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to upload export"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": url})
}
