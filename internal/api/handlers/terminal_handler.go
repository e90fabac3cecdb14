// server/internal/api/handlers/terminal_handler.go
package handlers

import (
	"context"
	"net/http"
	"time"

	"vetiver-carbon-api-server/internal/models"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type TerminalHandler struct {
	DB *mongo.Database
}

type CreateTerminalRequest struct {
	TerminalID       string `json:"terminalID" binding:"required"`
	Name             string `json:"name" binding:"required"`
	HasCaptureSystem bool   `json:"hasCaptureSystem"`
}

// CreateTerminal tạo một terminal mới
func (h *TerminalHandler) CreateTerminal(c *gin.Context) {
	var req CreateTerminalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	collection := h.DB.Collection("terminals")

	// Kiểm tra xem terminalID đã tồn tại chưa
	count, err := collection.CountDocuments(context.Background(), bson.M{"terminalID": req.TerminalID})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error checking for terminal"})
		return
	}
	if count > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "Terminal with this ID already exists"})
		return
	}

	newTerminal := models.Terminal{
		TerminalID:       req.TerminalID,
		Name:             req.Name,
		HasCaptureSystem: req.HasCaptureSystem,
		Status:           "ACTIVE",
		CreatedAt:        time.Now(),
		UpdatedAt:        time.Now(),
	}

	result, err := collection.InsertOne(context.Background(), newTerminal)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create terminal"})
		return
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		newTerminal.ID = oid
	}

	c.JSON(http.StatusCreated, newTerminal)
}

// GetAllTerminals lấy danh sách tất cả các terminal
func (h *TerminalHandler) GetAllTerminals(c *gin.Context) {
	collection := h.DB.Collection("terminals")

	cursor, err := collection.Find(context.Background(), bson.M{})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query terminals"})
		return
	}
	defer cursor.Close(context.Background())

	var terminals []models.Terminal
	if err = cursor.All(context.Background(), &terminals); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode terminals"})
		return
	}

	if terminals == nil {
		terminals = []models.Terminal{}
	}

	c.JSON(http.StatusOK, terminals)
}

// GetTerminalByID lấy thông tin terminal theo terminalID
func (h *TerminalHandler) GetTerminalByID(c *gin.Context) {
	terminalID := c.Param("id")

	collection := h.DB.Collection("terminals")
	var terminal models.Terminal
	err := collection.FindOne(context.Background(), bson.M{"terminalID": terminalID}).Decode(&terminal)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "Terminal not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve terminal"})
		}
		return
	}

	c.JSON(http.StatusOK, terminal)
}

// UpdateTerminal cập nhật thông tin terminal theo terminalID
func (h *TerminalHandler) UpdateTerminal(c *gin.Context) {
	terminalID := c.Param("id")

	var req CreateTerminalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	collection := h.DB.Collection("terminals")

	_, err := collection.UpdateOne(context.Background(), bson.M{"terminalID": terminalID}, bson.M{"$set": bson.M{
		"name":             req.Name,
		"hasCaptureSystem": req.HasCaptureSystem,
		"updatedAt":        time.Now(),
	}})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update terminal"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Terminal updated successfully"})
}

// DeleteTerminal xóa một terminal theo terminalID
func (h *TerminalHandler) DeleteTerminal(c *gin.Context) {
	terminalID := c.Param("id")

	collection := h.DB.Collection("terminals")
	_, err := collection.DeleteOne(context.Background(), bson.M{"terminalID": terminalID})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete terminal"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Terminal deleted successfully"})
}
