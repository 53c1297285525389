// internal/service/formula_service.go
package service

import (
	"context"
	"fmt"

	"github.com/Mathiyass/velora-pos-backend/internal/domain"
	"github.com/Mathiyass/velora-pos-backend/internal/repository"
	"github.com/shopspring/decimal"
)

type FormulaService struct {
	formulas  repository.FormulaRepository
	inventory repository.InventoryRepository
}

func NewFormulaService(formulas repository.FormulaRepository, inventory repository.InventoryRepository) *FormulaService {
	return &FormulaService{formulas: formulas, inventory: inventory}
}

func (s *FormulaService) ListFormulas(ctx context.Context) ([]domain.Formula, error) {
	return s.formulas.ListFormulas(ctx)
}

func (s *FormulaService) GetFormula(ctx context.Context, id int64) (*domain.Formula, error) {
	return s.formulas.GetFormula(ctx, id)
}

// CreateFormula validates and persists a new recipe. Validation is synchronous
// and rejects before any mutation: positive yield, a non-empty ingredient list
// with positive quantities, no chemical listed twice, and every referenced
// chemical known to the ledger.
func (s *FormulaService) CreateFormula(ctx context.Context, formula *domain.Formula) error {
	if formula.StandardYield.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("formula %q: %w", formula.Name, domain.ErrInvalidYield)
	}
	if len(formula.Ingredients) == 0 {
		return fmt.Errorf("formula %q: %w", formula.Name, domain.ErrEmptyFormula)
	}

	seen := make(map[int64]bool, len(formula.Ingredients))
	for _, ing := range formula.Ingredients {
		if ing.Quantity.LessThanOrEqual(decimal.Zero) {
			return fmt.Errorf("chemical %d in formula %q: %w", ing.ChemicalID, formula.Name, domain.ErrInvalidQuantity)
		}
		if seen[ing.ChemicalID] {
			return fmt.Errorf("chemical %d in formula %q: %w", ing.ChemicalID, formula.Name, domain.ErrDuplicateIngredient)
		}
		seen[ing.ChemicalID] = true

		if _, err := s.inventory.GetChemical(ctx, ing.ChemicalID); err != nil {
			return err
		}
	}

	if formula.ProductID != nil {
		if _, err := s.inventory.GetProduct(ctx, *formula.ProductID); err != nil {
			return err
		}
	}

	return s.formulas.CreateFormula(ctx, formula)
}

func (s *FormulaService) DeleteFormula(ctx context.Context, id int64) error {
	return s.formulas.DeleteFormula(ctx, id)
}
