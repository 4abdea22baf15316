// Package server wires services, handlers and middleware into the gin router.
package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "grantledger/internal/docs" // swagger docs
	"grantledger/internal/handlers"
	"grantledger/internal/middleware"
	"grantledger/internal/services"
)

// Services groups the service layer the router depends on.
type Services struct {
	Users       services.UserServicer
	Projects    services.ProjectServicer
	BudgetItems services.BudgetItemServicer
	Receipts    services.ReceiptServicer
	Reports     services.ReportServicer
}

// NewServices builds every ledger-backed service over l.
func NewServices(l *services.Ledger, users services.UserServicer) Services {
	return Services{
		Users:       users,
		Projects:    services.NewProjectService(l),
		BudgetItems: services.NewBudgetItemService(l),
		Receipts:    services.NewReceiptService(l),
		Reports:     services.NewReportService(l),
	}
}

// NewRouter returns the HTTP API.
func NewRouter(svc Services) *gin.Engine {
	authHandler := handlers.NewAuthHandler(svc.Users)
	projectHandler := handlers.NewProjectHandler(svc.Projects, svc.Reports)
	budgetItemHandler := handlers.NewBudgetItemHandler(svc.BudgetItems)
	receiptHandler := handlers.NewReceiptHandler(svc.Receipts)
	reportHandler := handlers.NewReportHandler(svc.Reports)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/api/v1")

	// Public routes
	v1.POST("/auth/login", authHandler.Login)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware(svc.Users))

	protected.GET("/profile", authHandler.GetProfile)

	projects := protected.Group("/projects")
	projects.GET("", projectHandler.GetProjects)
	projects.POST("", projectHandler.CreateProject)
	projects.GET("/:id", projectHandler.GetProject)
	projects.PUT("/:id", projectHandler.UpdateProject)
	projects.DELETE("/:id", projectHandler.DeleteProject)
	projects.GET("/:id/summary", projectHandler.GetProjectSummary)
	projects.GET("/:id/budget-items", budgetItemHandler.GetBudgetItems)
	projects.POST("/:id/budget-items", budgetItemHandler.CreateBudgetItem)
	projects.GET("/:id/receipts", receiptHandler.GetReceipts)
	projects.POST("/:id/receipts", receiptHandler.CreateReceipt)

	budgetItems := protected.Group("/budget-items")
	budgetItems.PUT("/:id", budgetItemHandler.UpdateBudgetItem)
	budgetItems.DELETE("/:id", budgetItemHandler.DeleteBudgetItem)
	budgetItems.GET("/:id/stats", budgetItemHandler.GetBudgetItemStats)

	receipts := protected.Group("/receipts")
	receipts.GET("/:id", receiptHandler.GetReceipt)
	receipts.PUT("/:id", receiptHandler.UpdateReceipt)
	receipts.DELETE("/:id", receiptHandler.DeleteReceipt)
	receipts.PUT("/:id/verification", receiptHandler.SetVerification)

	protected.GET("/overview", reportHandler.GetOverview)
	protected.GET("/reports/realization.xlsx", reportHandler.ExportRealizationXLSX)
	protected.GET("/reports/realization.csv", reportHandler.ExportRealizationCSV)

	return router
}
