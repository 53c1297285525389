// internal/api/handlers/formula_handler.go
package handlers

import (
	"net/http"
	"strconv"

	"github.com/Mathiyass/velora-pos-backend/internal/domain"
	"github.com/Mathiyass/velora-pos-backend/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type FormulaHandler struct {
	formulaService *service.FormulaService
}

func NewFormulaHandler(formulaService *service.FormulaService) *FormulaHandler {
	return &FormulaHandler{formulaService: formulaService}
}

type createFormulaRequest struct {
	Name          string                   `json:"name" binding:"required"`
	ProductID     *int64                   `json:"product_id"`
	StandardYield decimal.Decimal          `json:"standard_yield" binding:"required"`
	YieldUnit     string                   `json:"base_unit" binding:"required"`
	Ingredients   []formulaIngredientInput `json:"ingredients" binding:"required"`
}

type formulaIngredientInput struct {
	ChemicalID int64           `json:"chemical_id" binding:"required"`
	Quantity   decimal.Decimal `json:"quantity" binding:"required"`
}

// ListFormulas returns every recipe with its ingredient list
func (h *FormulaHandler) ListFormulas(c *gin.Context) {
	formulas, err := h.formulaService.ListFormulas(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, formulas)
}

// GetFormula returns a single recipe by id
func (h *FormulaHandler) GetFormula(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid formula id"})
		return
	}

	formula, err := h.formulaService.GetFormula(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, formula)
}

// CreateFormula validates and stores a new recipe
func (h *FormulaHandler) CreateFormula(c *gin.Context) {
	var req createFormulaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	formula := domain.Formula{
		Name:          req.Name,
		ProductID:     req.ProductID,
		StandardYield: req.StandardYield,
		YieldUnit:     req.YieldUnit,
	}
	for _, ing := range req.Ingredients {
		formula.Ingredients = append(formula.Ingredients, domain.Ingredient{
			ChemicalID: ing.ChemicalID,
			Quantity:   ing.Quantity,
		})
	}

	if err := h.formulaService.CreateFormula(c.Request.Context(), &formula); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, formula)
}

// DeleteFormula removes a recipe and its ingredient lines
func (h *FormulaHandler) DeleteFormula(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid formula id"})
		return
	}

	if err := h.formulaService.DeleteFormula(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": id})
}
