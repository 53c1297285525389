// internal/repository/repository.go
package repository

import (
	"context"

	"github.com/Mathiyass/velora-pos-backend/internal/domain"
	"github.com/shopspring/decimal"
)

// FormulaRepository persists recipes and their ingredient lists.
type FormulaRepository interface {
	ListFormulas(ctx context.Context) ([]domain.Formula, error)
	GetFormula(ctx context.Context, id int64) (*domain.Formula, error)
	CreateFormula(ctx context.Context, formula *domain.Formula) error
	DeleteFormula(ctx context.Context, id int64) error
}

// InventoryRepository persists chemicals, their batches, and finished products.
type InventoryRepository interface {
	ListChemicals(ctx context.Context) ([]domain.Chemical, error)
	GetChemical(ctx context.Context, id int64) (*domain.Chemical, error)
	// ListBatches returns batches for one chemical, oldest received first.
	ListBatches(ctx context.Context, chemicalID int64) ([]domain.Batch, error)
	// ListAllBatches returns every batch with stock on hand.
	ListAllBatches(ctx context.Context) ([]domain.Batch, error)
	ListProducts(ctx context.Context) ([]domain.Product, error)
	GetProduct(ctx context.Context, id int64) (*domain.Product, error)
	// ReceivePurchase creates one batch per receipt item and returns them.
	ReceivePurchase(ctx context.Context, receipt domain.PurchaseReceipt) ([]domain.Batch, error)
	// LowStockChemicals returns chemicals whose summed batch stock is at or
	// below their reorder level.
	LowStockChemicals(ctx context.Context) ([]domain.LowStockChemical, error)
}

// OrderRepository persists production orders and applies order completion as
// one atomic unit: all chemical deductions and the product stock increment
// happen, or none do.
type OrderRepository interface {
	ListOrders(ctx context.Context) ([]domain.ProductionOrder, error)
	GetOrder(ctx context.Context, id int64) (*domain.ProductionOrder, error)
	CreateOrder(ctx context.Context, order *domain.ProductionOrder) error
	// CompleteOrder consumes the given requirements from batches FIFO by
	// received date, increments the linked product's stock by quantityProduced,
	// and marks the order completed. It fails with domain.ErrOrderNotPlanned
	// if the order already completed, domain.ErrInsufficientStock if any
	// chemical cannot be fully sourced, and domain.ErrConcurrentModification
	// if a competing writer changed batch stock mid-flight. On any failure no
	// partial mutation survives.
	CompleteOrder(ctx context.Context, orderID int64, requirements []domain.Requirement, productID *int64, quantityProduced decimal.Decimal) (*domain.ProductionOrder, error)
}
