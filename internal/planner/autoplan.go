// internal/planner/autoplan.go
package planner

import (
	"sort"

	"github.com/Mathiyass/velora-pos-backend/internal/domain"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// AutoPlanner computes replenishment suggestions for understocked finished
// goods. It never persists anything; placing an order from a suggestion is a
// separate explicit call.
type AutoPlanner struct {
	// MinBatchSize raises suggested quantities to a floor when positive, for
	// shops whose mixers cannot run below a minimum volume.
	MinBatchSize decimal.Decimal
}

// ComputePlan scans every formula with a linked product and proposes
// production for products below their reorder level. Suggestions are ordered
// by decreasing deficit; a suggestion whose ingredients cannot be sourced is
// still returned, flagged infeasible, so the operator can raise purchase
// orders first.
func (p *AutoPlanner) ComputePlan(formulas []domain.Formula, products []domain.Product, batches []domain.Batch) []domain.Suggestion {
	productsByID := make(map[int64]domain.Product, len(products))
	for _, prod := range products {
		productsByID[prod.ID] = prod
	}

	suggestions := make([]domain.Suggestion, 0)
	for _, formula := range formulas {
		if formula.ProductID == nil {
			continue
		}
		product, ok := productsByID[*formula.ProductID]
		if !ok {
			log.Warn().
				Int64("formula_id", formula.ID).
				Int64("product_id", *formula.ProductID).
				Msg("auto plan: formula links to unknown product, skipping")
			continue
		}

		deficit := product.ReorderLevel.Sub(product.Stock)
		if !deficit.IsPositive() {
			continue
		}

		quantity := deficit
		if p.MinBatchSize.IsPositive() && quantity.LessThan(p.MinBatchSize) {
			quantity = p.MinBatchSize
		}

		requirements, err := ScaleRequirements(formula, quantity)
		if err != nil {
			log.Warn().Err(err).Int64("formula_id", formula.ID).Msg("auto plan: skipping unscalable formula")
			continue
		}
		availability := CheckAvailability(requirements, batches)

		suggestions = append(suggestions, domain.Suggestion{
			FormulaID:       formula.ID,
			FormulaName:     formula.Name,
			ProductID:       product.ID,
			ProductName:     product.Name,
			Stock:           product.Stock,
			ReorderLevel:    product.ReorderLevel,
			Deficit:         deficit,
			QuantityPlanned: quantity,
			Requirements:    availability.Requirements,
			Feasible:        availability.Sufficient,
		})
	}

	// Most understocked first; ties broken by product name for stable output.
	sort.SliceStable(suggestions, func(i, j int) bool {
		if !suggestions[i].Deficit.Equal(suggestions[j].Deficit) {
			return suggestions[i].Deficit.GreaterThan(suggestions[j].Deficit)
		}
		return suggestions[i].ProductName < suggestions[j].ProductName
	})

	return suggestions
}
