// internal/planner/scale.go
package planner

import (
	"fmt"

	"github.com/Mathiyass/velora-pos-backend/internal/domain"
	"github.com/shopspring/decimal"
)

// ScalePrecision is the number of decimal places ingredient requirements are
// rounded to. Rounding is half up, so repeated scaling is deterministic and
// scaling by the standard yield itself reproduces the base quantities exactly.
const ScalePrecision = 3

// ScaleRequirements scales every ingredient of a formula to a planned
// production quantity: required = ingredient.Quantity * planned / standardYield.
// It is a pure computation; availability is filled in by CheckAvailability.
func ScaleRequirements(formula domain.Formula, quantityPlanned decimal.Decimal) ([]domain.Requirement, error) {
	if quantityPlanned.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("plan %s of formula %q: %w", quantityPlanned, formula.Name, domain.ErrInvalidQuantity)
	}
	if formula.StandardYield.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("formula %q: %w", formula.Name, domain.ErrInvalidYield)
	}

	ratio := quantityPlanned.Div(formula.StandardYield)

	requirements := make([]domain.Requirement, 0, len(formula.Ingredients))
	for _, ing := range formula.Ingredients {
		requirements = append(requirements, domain.Requirement{
			ChemicalID: ing.ChemicalID,
			Required:   ing.Quantity.Mul(ratio).Round(ScalePrecision),
		})
	}

	return requirements, nil
}

// CheckAvailability compares scaled requirements against on-hand batch stock.
// For each chemical it sums batch quantities, records the shortfall (floored
// at zero), and reports whether every requirement can be sourced. Batches are
// not mutated; the result is a snapshot and completion revalidates at write
// time.
func CheckAvailability(requirements []domain.Requirement, batches []domain.Batch) domain.Availability {
	available := make(map[int64]decimal.Decimal, len(requirements))
	for _, b := range batches {
		available[b.ChemicalID] = available[b.ChemicalID].Add(b.Quantity)
	}

	result := domain.Availability{
		Requirements: make([]domain.Requirement, 0, len(requirements)),
		Sufficient:   true,
	}

	for _, req := range requirements {
		req.Available = available[req.ChemicalID]
		shortfall := req.Required.Sub(req.Available)
		if shortfall.IsPositive() {
			req.Shortfall = shortfall
			result.Sufficient = false
		} else {
			req.Shortfall = decimal.Zero
		}
		result.Requirements = append(result.Requirements, req)
	}

	return result
}
