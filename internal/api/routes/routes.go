// server/internal/api/routes/routes.go
package routes

import (
	"vetiver-carbon-api-server/internal/ai"
	"vetiver-carbon-api-server/internal/api/handlers"
	"vetiver-carbon-api-server/internal/api/middleware"
	"vetiver-carbon-api-server/internal/s3"
	"vetiver-carbon-api-server/internal/socket"
	"vetiver-carbon-api-server/internal/store"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"
)

// SetupRouter nhận vào các thành phần phụ thuộc và thiết lập các route
func SetupRouter(
	recordStore store.RecordStore,
	db *mongo.Database,
	s3Uploader *s3.Uploader,
	wsHub *socket.Hub,
	assistant *ai.Assistant,
) *gin.Engine {
	router := gin.Default()
	router.Use(gin.Recovery())
	router.Use(cors.Default())

	// Khởi tạo các handlers
	recordHandler := &handlers.RecordHandler{Store: recordStore, DB: db}
	reportHandler := &handlers.ReportHandler{Store: recordStore, DB: db}
	exportHandler := &handlers.ExportHandler{Store: recordStore, Uploader: s3Uploader}
	terminalHandler := &handlers.TerminalHandler{DB: db}
	assistantHandler := &handlers.AssistantHandler{Assistant: assistant}
	userHandler := &handlers.UserHandler{DB: db}
	webSocketHandler := &handlers.WebSocketHandler{Hub: wsHub}

	apiV1 := router.Group("/api/v1")
	{
		// Route cho WebSocket
		apiV1.GET("/ws", webSocketHandler.ServeWs)

		// === CÁC ROUTE KHÔNG YÊU CẦU XÁC THỰC ===
		auth := apiV1.Group("/auth")
		{
			auth.POST("/login", userHandler.Login)
		}

		// === CÁC ROUTE YÊU CẦU XÁC THỰC (PROTECTED) ===

		// Nhóm API quản trị, yêu cầu vai trò "admin"
		admin := apiV1.Group("/admin")
		admin.Use(middleware.Authenticate())
		admin.Use(middleware.Authorize("admin"))
		{
			// User management
			admin.POST("/users", userHandler.CreateUser)

			// Terminal management (CRUD)
			terminals := admin.Group("/terminals")
			{
				terminals.POST("/", terminalHandler.CreateTerminal)
				terminals.PUT("/:id", terminalHandler.UpdateTerminal)
				terminals.DELETE("/:id", terminalHandler.DeleteTerminal)
			}
		}

		// Nhóm các API nghiệp vụ chính, yêu cầu các vai trò cụ thể
		businessRoutes := apiV1.Group("/")
		businessRoutes.Use(middleware.Authenticate())
		businessRoutes.Use(middleware.Authorize("admin", "supervisor", "operador"))
		{
			// Record management
			records := businessRoutes.Group("/records")
			{
				records.GET("/", recordHandler.GetAllRecords)
				records.GET("/export", exportHandler.DownloadExport)
				records.POST("/export/s3", exportHandler.UploadExport)
				records.GET("/:id", recordHandler.GetRecordByID)
				records.POST("/", recordHandler.CreateRecord)
				records.PUT("/:id", recordHandler.UpdateRecord)
				records.DELETE("/:id", recordHandler.DeleteRecord)

				// Chỉ supervisor hoặc admin được duyệt/từ chối
				validationRoutes := records.Group("/")
				validationRoutes.Use(middleware.Authorize("admin", "supervisor"))
				{
					validationRoutes.POST("/:id/approve", recordHandler.ApproveRecord)
					validationRoutes.POST("/:id/reject", recordHandler.RejectRecord)
				}
			}

			// Weekly reports
			reports := businessRoutes.Group("/reports")
			{
				reports.GET("/weekly", reportHandler.GetWeeklyReports)
				reports.POST("/weekly/compute", reportHandler.ComputeWeeklyReport)
			}

			// Terminal read access
			terminals := businessRoutes.Group("/terminals")
			{
				terminals.GET("/", terminalHandler.GetAllTerminals)
				terminals.GET("/:id", terminalHandler.GetTerminalByID)
			}

			// AI assistant
			businessRoutes.POST("/assistant/chat", assistantHandler.Chat)
		}
	}

	return router
}
