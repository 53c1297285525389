// internal/api/handlers/production_handler.go
package handlers

import (
	"net/http"
	"strconv"

	"github.com/Mathiyass/velora-pos-backend/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type ProductionHandler struct {
	productionService *service.ProductionService
}

func NewProductionHandler(productionService *service.ProductionService) *ProductionHandler {
	return &ProductionHandler{productionService: productionService}
}

type createOrderRequest struct {
	FormulaID       int64           `json:"formula_id" binding:"required"`
	QuantityPlanned decimal.Decimal `json:"quantity_planned" binding:"required"`
	BatchCode       string          `json:"batch_code"`
}

type completeOrderRequest struct {
	QuantityProduced *decimal.Decimal `json:"quantity_produced"`
}

// ListOrders returns all production orders, newest first
func (h *ProductionHandler) ListOrders(c *gin.Context) {
	orders, err := h.productionService.ListOrders(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, orders)
}

// GetOrder returns a single production order
func (h *ProductionHandler) GetOrder(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order id"})
		return
	}

	order, err := h.productionService.GetOrder(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, order)
}

// CreateOrder places a production order in the planned state. Feasibility is
// not checked here; the preview endpoint carries the advisory shortfall.
func (h *ProductionHandler) CreateOrder(c *gin.Context) {
	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	order, err := h.productionService.CreateOrder(c.Request.Context(), req.FormulaID, req.QuantityPlanned, req.BatchCode)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, order)
}

// CompleteOrder executes a planned order: consumes chemical batches FIFO and
// books the produced quantity into finished stock. The body may carry the
// measured yield; omitted, the planned quantity is booked.
func (h *ProductionHandler) CompleteOrder(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order id"})
		return
	}

	var req completeOrderRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
	}

	order, err := h.productionService.CompleteOrder(c.Request.Context(), id, req.QuantityProduced)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, order)
}

// PreviewRequirements scales a formula to a quantity and reports current
// availability without creating anything
func (h *ProductionHandler) PreviewRequirements(c *gin.Context) {
	formulaID, err := strconv.ParseInt(c.Query("formula_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid formula_id"})
		return
	}
	quantity, err := decimal.NewFromString(c.Query("quantity"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid quantity"})
		return
	}

	availability, err := h.productionService.PreviewRequirements(c.Request.Context(), formulaID, quantity)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, availability)
}

// AutoPlan returns ranked replenishment suggestions for understocked products
func (h *ProductionHandler) AutoPlan(c *gin.Context) {
	plan, err := h.productionService.AutoPlan(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, plan)
}
