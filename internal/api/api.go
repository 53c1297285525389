// internal/api/api.go
package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/Mathiyass/velora-pos-backend/internal/api/handlers"
	"github.com/Mathiyass/velora-pos-backend/internal/api/middleware"
	"github.com/Mathiyass/velora-pos-backend/internal/service"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type Services struct {
	FormulaService    *service.FormulaService
	ProductionService *service.ProductionService
	InventoryService  *service.InventoryService
}

func NewRouter(services *Services, allowedOrigins []string) *gin.Engine {
	router := gin.New()

	// Add middleware
	router.Use(middleware.Logger())
	router.Use(middleware.Recovery())
	defaultOrigins := []string{"http://localhost:3000", "http://127.0.0.1:3000"}
	corsConfig := cors.Config{
		AllowOrigins:     defaultOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(allowedOrigins) > 0 {
		normalizedOrigins, allowAll := normalizeAllowedOrigins(allowedOrigins)
		if allowAll {
			corsConfig.AllowOrigins = nil
			corsConfig.AllowOriginFunc = func(origin string) bool { return true }
		} else if len(normalizedOrigins) > 0 {
			corsConfig.AllowOrigins = normalizedOrigins
		}
	}
	router.Use(cors.New(corsConfig))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	apiGroup := router.Group("/api/v1")

	if services != nil {
		if services.FormulaService != nil {
			formulaHandler := handlers.NewFormulaHandler(services.FormulaService)
			formulaGroup := apiGroup.Group("/formulas")
			{
				formulaGroup.GET("", formulaHandler.ListFormulas)
				formulaGroup.POST("", formulaHandler.CreateFormula)
				formulaGroup.GET("/:id", formulaHandler.GetFormula)
				formulaGroup.DELETE("/:id", formulaHandler.DeleteFormula)
			}
		}

		if services.ProductionService != nil {
			productionHandler := handlers.NewProductionHandler(services.ProductionService)
			productionGroup := apiGroup.Group("/production")
			{
				productionGroup.GET("/orders", productionHandler.ListOrders)
				productionGroup.POST("/orders", productionHandler.CreateOrder)
				productionGroup.GET("/orders/:id", productionHandler.GetOrder)
				productionGroup.POST("/orders/:id/complete", productionHandler.CompleteOrder)
				productionGroup.GET("/plan", productionHandler.AutoPlan)
				productionGroup.GET("/preview", productionHandler.PreviewRequirements)
			}
		}

		if services.InventoryService != nil {
			inventoryHandler := handlers.NewInventoryHandler(services.InventoryService)
			inventoryGroup := apiGroup.Group("/inventory")
			{
				inventoryGroup.GET("/chemicals", inventoryHandler.ListChemicals)
				inventoryGroup.GET("/chemicals/:id/batches", inventoryHandler.ListBatches)
				inventoryGroup.GET("/products", inventoryHandler.ListProducts)
				inventoryGroup.GET("/low_stock", inventoryHandler.LowStock)
			}
			apiGroup.POST("/purchasing/receipts", inventoryHandler.ReceivePurchaseOrder)
		}
	}

	return router
}

func normalizeAllowedOrigins(origins []string) ([]string, bool) {
	var (
		parsed   []string
		allowAll bool
	)
	for _, origin := range origins {
		parts := strings.Split(origin, ",")
		for _, part := range parts {
			trimmed := strings.TrimSpace(part)
			if trimmed == "" {
				continue
			}
			if trimmed == "*" {
				allowAll = true
				continue
			}
			parsed = append(parsed, trimmed)
		}
	}
	return parsed, allowAll
}
