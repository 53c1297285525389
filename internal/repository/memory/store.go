// internal/repository/memory/store.go
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/Mathiyass/velora-pos-backend/internal/domain"
	"github.com/Mathiyass/velora-pos-backend/internal/repository"
	"github.com/shopspring/decimal"
)

// Store is an in-memory implementation of every repository interface. It backs
// the test suite and small single-process deployments; a single mutex gives it
// the same all-or-nothing completion semantics the postgres transaction does.
type Store struct {
	mu sync.Mutex

	chemicals map[int64]domain.Chemical
	batches   map[int64]domain.Batch
	products  map[int64]domain.Product
	formulas  map[int64]domain.Formula
	orders    map[int64]domain.ProductionOrder

	nextID int64
}

// Verify interface compliance
var (
	_ repository.FormulaRepository   = (*Store)(nil)
	_ repository.InventoryRepository = (*Store)(nil)
	_ repository.OrderRepository     = (*Store)(nil)
)

func NewStore() *Store {
	return &Store{
		chemicals: make(map[int64]domain.Chemical),
		batches:   make(map[int64]domain.Batch),
		products:  make(map[int64]domain.Product),
		formulas:  make(map[int64]domain.Formula),
		orders:    make(map[int64]domain.ProductionOrder),
	}
}

func (s *Store) nextSequence() int64 {
	s.nextID++
	return s.nextID
}

// AddChemical registers a chemical and returns it with an assigned id.
func (s *Store) AddChemical(chemical domain.Chemical) domain.Chemical {
	s.mu.Lock()
	defer s.mu.Unlock()

	if chemical.ID == 0 {
		chemical.ID = s.nextSequence()
	}
	s.chemicals[chemical.ID] = chemical
	return chemical
}

// AddBatch registers a batch and returns it with an assigned id.
func (s *Store) AddBatch(batch domain.Batch) domain.Batch {
	s.mu.Lock()
	defer s.mu.Unlock()

	if batch.ID == 0 {
		batch.ID = s.nextSequence()
	}
	s.batches[batch.ID] = batch
	return batch
}

// AddProduct registers a product and returns it with an assigned id.
func (s *Store) AddProduct(product domain.Product) domain.Product {
	s.mu.Lock()
	defer s.mu.Unlock()

	if product.ID == 0 {
		product.ID = s.nextSequence()
	}
	s.products[product.ID] = product
	return product
}

func (s *Store) ListChemicals(ctx context.Context) ([]domain.Chemical, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	chemicals := make([]domain.Chemical, 0, len(s.chemicals))
	for _, c := range s.chemicals {
		chemicals = append(chemicals, c)
	}
	sort.Slice(chemicals, func(i, j int) bool { return chemicals[i].Name < chemicals[j].Name })

	return chemicals, nil
}

func (s *Store) GetChemical(ctx context.Context, id int64) (*domain.Chemical, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	chemical, ok := s.chemicals[id]
	if !ok {
		return nil, fmt.Errorf("chemical %d: %w", id, domain.ErrNotFound)
	}
	return &chemical, nil
}

func (s *Store) ListBatches(ctx context.Context, chemicalID int64) ([]domain.Batch, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.batchesFIFO(chemicalID), nil
}

func (s *Store) ListAllBatches(ctx context.Context) ([]domain.Batch, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	batches := make([]domain.Batch, 0, len(s.batches))
	for _, b := range s.batches {
		if b.Quantity.IsPositive() {
			batches = append(batches, b)
		}
	}
	sort.Slice(batches, func(i, j int) bool {
		if batches[i].ChemicalID != batches[j].ChemicalID {
			return batches[i].ChemicalID < batches[j].ChemicalID
		}
		return batches[i].ID < batches[j].ID
	})

	return batches, nil
}

// batchesFIFO returns a chemical's live batches oldest received first.
// Caller must hold the lock.
func (s *Store) batchesFIFO(chemicalID int64) []domain.Batch {
	var batches []domain.Batch
	for _, b := range s.batches {
		if b.ChemicalID == chemicalID && b.Quantity.IsPositive() {
			batches = append(batches, b)
		}
	}
	sort.Slice(batches, func(i, j int) bool {
		if !batches[i].ReceivedAt.Equal(batches[j].ReceivedAt) {
			return batches[i].ReceivedAt.Before(batches[j].ReceivedAt)
		}
		return batches[i].ID < batches[j].ID
	})

	return batches
}

func (s *Store) ListProducts(ctx context.Context) ([]domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	products := make([]domain.Product, 0, len(s.products))
	for _, p := range s.products {
		products = append(products, p)
	}
	sort.Slice(products, func(i, j int) bool { return products[i].Name < products[j].Name })

	return products, nil
}

func (s *Store) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	product, ok := s.products[id]
	if !ok {
		return nil, fmt.Errorf("product %d: %w", id, domain.ErrNotFound)
	}
	return &product, nil
}

func (s *Store) ReceivePurchase(ctx context.Context, receipt domain.PurchaseReceipt) ([]domain.Batch, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	created := make([]domain.Batch, 0, len(receipt.Items))
	for _, item := range receipt.Items {
		if _, ok := s.chemicals[item.ChemicalID]; !ok {
			return nil, fmt.Errorf("chemical %d: %w", item.ChemicalID, domain.ErrNotFound)
		}

		batch := domain.Batch{
			ID:         s.nextSequence(),
			ChemicalID: item.ChemicalID,
			Quantity:   item.Quantity,
			LotCode:    item.LotCode,
			ReceivedAt: now,
			ExpiresAt:  item.ExpiresAt,
		}
		s.batches[batch.ID] = batch
		created = append(created, batch)
	}

	return created, nil
}

func (s *Store) LowStockChemicals(ctx context.Context) ([]domain.LowStockChemical, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	onHand := make(map[int64]decimal.Decimal, len(s.chemicals))
	for _, b := range s.batches {
		if b.Quantity.IsPositive() {
			onHand[b.ChemicalID] = onHand[b.ChemicalID].Add(b.Quantity)
		}
	}

	var results []domain.LowStockChemical
	for _, c := range s.chemicals {
		if onHand[c.ID].LessThanOrEqual(c.ReorderLevel) {
			results = append(results, domain.LowStockChemical{Chemical: c, OnHand: onHand[c.ID]})
		}
	}
	sort.Slice(results, func(i, j int) bool { return results[i].Chemical.Name < results[j].Chemical.Name })

	return results, nil
}

func (s *Store) ListFormulas(ctx context.Context) ([]domain.Formula, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	formulas := make([]domain.Formula, 0, len(s.formulas))
	for _, f := range s.formulas {
		formulas = append(formulas, f)
	}
	sort.Slice(formulas, func(i, j int) bool { return formulas[i].Name < formulas[j].Name })

	return formulas, nil
}

func (s *Store) GetFormula(ctx context.Context, id int64) (*domain.Formula, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	formula, ok := s.formulas[id]
	if !ok {
		return nil, fmt.Errorf("formula %d: %w", id, domain.ErrNotFound)
	}
	return &formula, nil
}

func (s *Store) CreateFormula(ctx context.Context, formula *domain.Formula) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	formula.ID = s.nextSequence()
	formula.CreatedAt = time.Now()
	s.formulas[formula.ID] = *formula

	return nil
}

func (s *Store) DeleteFormula(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.formulas[id]; !ok {
		return fmt.Errorf("formula %d: %w", id, domain.ErrNotFound)
	}
	delete(s.formulas, id)

	return nil
}

func (s *Store) ListOrders(ctx context.Context) ([]domain.ProductionOrder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	orders := make([]domain.ProductionOrder, 0, len(s.orders))
	for _, o := range s.orders {
		orders = append(orders, o)
	}
	sort.Slice(orders, func(i, j int) bool { return orders[i].ID > orders[j].ID })

	return orders, nil
}

func (s *Store) GetOrder(ctx context.Context, id int64) (*domain.ProductionOrder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	order, ok := s.orders[id]
	if !ok {
		return nil, fmt.Errorf("production order %d: %w", id, domain.ErrNotFound)
	}
	return &order, nil
}

func (s *Store) CreateOrder(ctx context.Context, order *domain.ProductionOrder) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	order.ID = s.nextSequence()
	order.Status = domain.OrderPlanned
	order.CreatedAt = time.Now()
	s.orders[order.ID] = *order

	return nil
}

// CompleteOrder mirrors the postgres implementation under one lock: FIFO
// deductions are planned against every chemical first, and nothing is written
// until all of them can be met.
func (s *Store) CompleteOrder(ctx context.Context, orderID int64, requirements []domain.Requirement, productID *int64, quantityProduced decimal.Decimal) (*domain.ProductionOrder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	order, ok := s.orders[orderID]
	if !ok {
		return nil, fmt.Errorf("production order %d: %w", orderID, domain.ErrNotFound)
	}
	if order.Status != domain.OrderPlanned {
		return nil, fmt.Errorf("production order %d is %s: %w", orderID, order.Status, domain.ErrOrderNotPlanned)
	}

	draws := make(map[int64]decimal.Decimal)
	for _, req := range requirements {
		remaining := req.Required
		for _, batch := range s.batchesFIFO(req.ChemicalID) {
			if !remaining.IsPositive() {
				break
			}
			take := decimal.Min(batch.Quantity, remaining)
			draws[batch.ID] = take
			remaining = remaining.Sub(take)
		}
		if remaining.IsPositive() {
			return nil, fmt.Errorf("chemical %d short by %s: %w", req.ChemicalID, remaining, domain.ErrInsufficientStock)
		}
	}

	if productID != nil {
		if _, ok := s.products[*productID]; !ok {
			return nil, fmt.Errorf("product %d: %w", *productID, domain.ErrNotFound)
		}
	}

	for batchID, take := range draws {
		batch := s.batches[batchID]
		batch.Quantity = batch.Quantity.Sub(take)
		s.batches[batchID] = batch
	}

	if productID != nil {
		product := s.products[*productID]
		product.Stock = product.Stock.Add(quantityProduced)
		product.UpdatedAt = time.Now()
		s.products[*productID] = product
	}

	now := time.Now()
	order.Status = domain.OrderCompleted
	order.QuantityProduced = &quantityProduced
	order.CompletedAt = &now
	s.orders[orderID] = order

	return &order, nil
}
