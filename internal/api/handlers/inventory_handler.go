// internal/api/handlers/inventory_handler.go
package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/Mathiyass/velora-pos-backend/internal/domain"
	"github.com/Mathiyass/velora-pos-backend/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type InventoryHandler struct {
	inventoryService *service.InventoryService
}

func NewInventoryHandler(inventoryService *service.InventoryService) *InventoryHandler {
	return &InventoryHandler{inventoryService: inventoryService}
}

type receiptRequest struct {
	POID  string             `json:"po_id" binding:"required"`
	Items []receiptItemInput `json:"items" binding:"required"`
}

type receiptItemInput struct {
	ChemicalID int64           `json:"chemical_id" binding:"required"`
	Quantity   decimal.Decimal `json:"quantity" binding:"required"`
	LotCode    string          `json:"lot_code"`
	ExpiresAt  *time.Time      `json:"expires_at"`
}

// ListChemicals returns the raw-material catalog
func (h *InventoryHandler) ListChemicals(c *gin.Context) {
	chemicals, err := h.inventoryService.ListChemicals(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, chemicals)
}

// ListBatches returns a chemical's live batches, oldest first
func (h *InventoryHandler) ListBatches(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid chemical id"})
		return
	}

	batches, err := h.inventoryService.ListBatches(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, batches)
}

// ListProducts returns the finished-goods catalog
func (h *InventoryHandler) ListProducts(c *gin.Context) {
	products, err := h.inventoryService.ListProducts(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, products)
}

// LowStock returns chemicals at or below their reorder level
func (h *InventoryHandler) LowStock(c *gin.Context) {
	low, err := h.inventoryService.LowStockChemicals(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, low)
}

// ReceivePurchaseOrder books arrived purchase-order items as new batches
func (h *InventoryHandler) ReceivePurchaseOrder(c *gin.Context) {
	var req receiptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	receipt := domain.PurchaseReceipt{POID: req.POID}
	for _, item := range req.Items {
		receipt.Items = append(receipt.Items, domain.ReceiptItem{
			ChemicalID: item.ChemicalID,
			Quantity:   item.Quantity,
			LotCode:    item.LotCode,
			ExpiresAt:  item.ExpiresAt,
		})
	}

	batches, err := h.inventoryService.ReceivePurchaseOrder(c.Request.Context(), receipt)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, batches)
}
