// internal/service/inventory_service.go
package service

import (
	"context"
	"fmt"

	"github.com/Mathiyass/velora-pos-backend/internal/cache"
	"github.com/Mathiyass/velora-pos-backend/internal/domain"
	"github.com/Mathiyass/velora-pos-backend/internal/repository"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

type InventoryService struct {
	inventory repository.InventoryRepository
	planCache cache.PlanCache
}

func NewInventoryService(inventory repository.InventoryRepository, planCache cache.PlanCache) *InventoryService {
	if planCache == nil {
		planCache = cache.NewNoopPlanCache()
	}
	return &InventoryService{inventory: inventory, planCache: planCache}
}

func (s *InventoryService) ListChemicals(ctx context.Context) ([]domain.Chemical, error) {
	return s.inventory.ListChemicals(ctx)
}

func (s *InventoryService) ListBatches(ctx context.Context, chemicalID int64) ([]domain.Batch, error) {
	if _, err := s.inventory.GetChemical(ctx, chemicalID); err != nil {
		return nil, err
	}
	return s.inventory.ListBatches(ctx, chemicalID)
}

func (s *InventoryService) ListProducts(ctx context.Context) ([]domain.Product, error) {
	return s.inventory.ListProducts(ctx)
}

func (s *InventoryService) LowStockChemicals(ctx context.Context) ([]domain.LowStockChemical, error) {
	return s.inventory.LowStockChemicals(ctx)
}

// ReceivePurchaseOrder books arrived purchase-order items into the ledger, one
// new batch per item. Every item is validated before any batch is created.
func (s *InventoryService) ReceivePurchaseOrder(ctx context.Context, receipt domain.PurchaseReceipt) ([]domain.Batch, error) {
	for _, item := range receipt.Items {
		if item.Quantity.LessThanOrEqual(decimal.Zero) {
			return nil, fmt.Errorf("receipt %s, chemical %d: %w", receipt.POID, item.ChemicalID, domain.ErrInvalidQuantity)
		}
		if _, err := s.inventory.GetChemical(ctx, item.ChemicalID); err != nil {
			return nil, err
		}
	}

	batches, err := s.inventory.ReceivePurchase(ctx, receipt)
	if err != nil {
		return nil, err
	}

	// New stock changes plan feasibility.
	if err := s.planCache.Invalidate(ctx); err != nil {
		log.Warn().Err(err).Msg("inventory: plan cache invalidation failed")
	}

	log.Info().
		Str("po_id", receipt.POID).
		Int("batches", len(batches)).
		Msg("purchase order received")

	return batches, nil
}
