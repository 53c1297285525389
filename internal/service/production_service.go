// internal/service/production_service.go
package service

import (
	"context"
	"fmt"

	"github.com/Mathiyass/velora-pos-backend/internal/cache"
	"github.com/Mathiyass/velora-pos-backend/internal/domain"
	"github.com/Mathiyass/velora-pos-backend/internal/planner"
	"github.com/Mathiyass/velora-pos-backend/internal/repository"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// ProductionService drives the production order lifecycle and the auto
// production plan.
type ProductionService struct {
	orders    repository.OrderRepository
	formulas  repository.FormulaRepository
	inventory repository.InventoryRepository
	auto      *planner.AutoPlanner
	planCache cache.PlanCache
}

func NewProductionService(
	orders repository.OrderRepository,
	formulas repository.FormulaRepository,
	inventory repository.InventoryRepository,
	auto *planner.AutoPlanner,
	planCache cache.PlanCache,
) *ProductionService {
	if auto == nil {
		auto = &planner.AutoPlanner{}
	}
	if planCache == nil {
		planCache = cache.NewNoopPlanCache()
	}
	return &ProductionService{
		orders:    orders,
		formulas:  formulas,
		inventory: inventory,
		auto:      auto,
		planCache: planCache,
	}
}

func (s *ProductionService) ListOrders(ctx context.Context) ([]domain.ProductionOrder, error) {
	return s.orders.ListOrders(ctx)
}

func (s *ProductionService) GetOrder(ctx context.Context, id int64) (*domain.ProductionOrder, error) {
	return s.orders.GetOrder(ctx, id)
}

// CreateOrder places a production order in the planned state. Stock is neither
// reserved nor checked here: feasibility at creation is advisory only (see
// PreviewRequirements) and is enforced at completion time.
func (s *ProductionService) CreateOrder(ctx context.Context, formulaID int64, quantityPlanned decimal.Decimal, batchCode string) (*domain.ProductionOrder, error) {
	if quantityPlanned.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("plan %s for formula %d: %w", quantityPlanned, formulaID, domain.ErrInvalidQuantity)
	}
	if _, err := s.formulas.GetFormula(ctx, formulaID); err != nil {
		return nil, err
	}

	order := &domain.ProductionOrder{
		FormulaID:       formulaID,
		QuantityPlanned: quantityPlanned,
		BatchCode:       batchCode,
	}
	if err := s.orders.CreateOrder(ctx, order); err != nil {
		return nil, err
	}

	log.Info().
		Int64("order_id", order.ID).
		Int64("formula_id", formulaID).
		Str("quantity_planned", quantityPlanned.String()).
		Msg("production order created")

	return order, nil
}

// CompleteOrder executes a planned order. Requirements are re-scaled from the
// formula's current state rather than a snapshot taken at creation, then the
// repository applies batch consumption, product stock increment, and the
// status transition as one atomic unit. actualQuantity is the measured yield;
// nil defaults to the planned quantity.
func (s *ProductionService) CompleteOrder(ctx context.Context, orderID int64, actualQuantity *decimal.Decimal) (*domain.ProductionOrder, error) {
	order, err := s.orders.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	formula, err := s.formulas.GetFormula(ctx, order.FormulaID)
	if err != nil {
		return nil, err
	}

	requirements, err := planner.ScaleRequirements(*formula, order.QuantityPlanned)
	if err != nil {
		return nil, err
	}

	produced := order.QuantityPlanned
	if actualQuantity != nil {
		if actualQuantity.LessThanOrEqual(decimal.Zero) {
			return nil, fmt.Errorf("actual quantity %s: %w", actualQuantity, domain.ErrInvalidQuantity)
		}
		produced = *actualQuantity
	}

	completed, err := s.orders.CompleteOrder(ctx, orderID, requirements, formula.ProductID, produced)
	if err != nil {
		return nil, err
	}

	// Consumed batches and new product stock change the plan.
	if err := s.planCache.Invalidate(ctx); err != nil {
		log.Warn().Err(err).Msg("production: plan cache invalidation failed")
	}

	log.Info().
		Int64("order_id", orderID).
		Str("quantity_produced", produced.String()).
		Msg("production order completed")

	return completed, nil
}

// PreviewRequirements scales a formula to a quantity and checks current batch
// availability without mutating anything. The UI shows the shortfall as a
// warning; creation is never blocked on it.
func (s *ProductionService) PreviewRequirements(ctx context.Context, formulaID int64, quantityPlanned decimal.Decimal) (*domain.Availability, error) {
	formula, err := s.formulas.GetFormula(ctx, formulaID)
	if err != nil {
		return nil, err
	}

	requirements, err := planner.ScaleRequirements(*formula, quantityPlanned)
	if err != nil {
		return nil, err
	}

	batches, err := s.inventory.ListAllBatches(ctx)
	if err != nil {
		return nil, err
	}

	availability := planner.CheckAvailability(requirements, batches)
	return &availability, nil
}

// AutoPlan returns ranked replenishment suggestions for understocked finished
// goods, served from cache when fresh.
func (s *ProductionService) AutoPlan(ctx context.Context) ([]domain.Suggestion, error) {
	if plan, ok, err := s.planCache.GetPlan(ctx); err == nil && ok {
		return plan, nil
	} else if err != nil {
		log.Warn().Err(err).Msg("production: plan cache get failed")
	}

	formulas, err := s.formulas.ListFormulas(ctx)
	if err != nil {
		return nil, err
	}
	products, err := s.inventory.ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	batches, err := s.inventory.ListAllBatches(ctx)
	if err != nil {
		return nil, err
	}

	plan := s.auto.ComputePlan(formulas, products, batches)

	if err := s.planCache.SetPlan(ctx, plan); err != nil {
		log.Warn().Err(err).Msg("production: plan cache set failed")
	}

	return plan, nil
}
