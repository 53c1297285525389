package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Mathiyass/velora-pos-backend/internal/domain"
	"github.com/Mathiyass/velora-pos-backend/internal/planner"
	"github.com/Mathiyass/velora-pos-backend/internal/repository/memory"
	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

type fixture struct {
	store      *memory.Store
	production *ProductionService
	inventory  *InventoryService
	formulas   *FormulaService

	chemA   domain.Chemical
	product domain.Product
	formula domain.Formula
}

// newFixture builds the Cleaner-X world: a formula yielding 10 L from 2 kg of
// ChemA, linked to a finished product.
func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := memory.NewStore()
	chemA := store.AddChemical(domain.Chemical{Name: "ChemA", Unit: "kg", ReorderLevel: dec("5")})
	product := store.AddProduct(domain.Product{SKU: "CLX-1", Name: "Cleaner-X", Stock: dec("0"), ReorderLevel: dec("10")})

	formula := domain.Formula{
		Name:          "Cleaner-X",
		ProductID:     &product.ID,
		StandardYield: dec("10"),
		YieldUnit:     "L",
		Ingredients:   []domain.Ingredient{{ChemicalID: chemA.ID, Quantity: dec("2")}},
	}

	formulas := NewFormulaService(store, store)
	if err := formulas.CreateFormula(context.Background(), &formula); err != nil {
		t.Fatalf("failed to create formula: %v", err)
	}

	return &fixture{
		store:      store,
		production: NewProductionService(store, store, store, nil, nil),
		inventory:  NewInventoryService(store, nil),
		formulas:   formulas,
		chemA:      chemA,
		product:    product,
		formula:    formula,
	}
}

func (f *fixture) chemABatches(t *testing.T) []domain.Batch {
	t.Helper()
	batches, err := f.store.ListBatches(context.Background(), f.chemA.ID)
	if err != nil {
		t.Fatalf("failed to list batches: %v", err)
	}
	return batches
}

func TestCreateOrder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	order, err := f.production.CreateOrder(ctx, f.formula.ID, dec("25"), "B-001")
	if err != nil {
		t.Fatalf("CreateOrder failed: %v", err)
	}

	if order.Status != domain.OrderPlanned {
		t.Errorf("expected planned status, got %s", order.Status)
	}
	if order.QuantityProduced != nil {
		t.Errorf("expected nil quantity produced, got %s", order.QuantityProduced)
	}

	// Creation never checks or reserves stock: no batches exist at all.
	if len(f.chemABatches(t)) != 0 {
		t.Error("expected no batches to exist")
	}
}

func TestCreateOrder_Validation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if _, err := f.production.CreateOrder(ctx, f.formula.ID, dec("0"), ""); !errors.Is(err, domain.ErrInvalidQuantity) {
		t.Errorf("zero quantity: expected ErrInvalidQuantity, got %v", err)
	}
	if _, err := f.production.CreateOrder(ctx, f.formula.ID, dec("-5"), ""); !errors.Is(err, domain.ErrInvalidQuantity) {
		t.Errorf("negative quantity: expected ErrInvalidQuantity, got %v", err)
	}
	if _, err := f.production.CreateOrder(ctx, 9999, dec("10"), ""); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("unknown formula: expected ErrNotFound, got %v", err)
	}
}

func TestCompleteOrder_InsufficientStock(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// 4 kg on hand; 25 L planned needs 5 kg.
	f.store.AddBatch(domain.Batch{ChemicalID: f.chemA.ID, Quantity: dec("4"), ReceivedAt: time.Now()})

	order, err := f.production.CreateOrder(ctx, f.formula.ID, dec("25"), "")
	if err != nil {
		t.Fatalf("CreateOrder failed: %v", err)
	}

	if _, err := f.production.CompleteOrder(ctx, order.ID, nil); !errors.Is(err, domain.ErrInsufficientStock) {
		t.Fatalf("expected ErrInsufficientStock, got %v", err)
	}

	// No partial mutation: batches untouched, order still planned.
	batches := f.chemABatches(t)
	if len(batches) != 1 || !batches[0].Quantity.Equal(dec("4")) {
		t.Errorf("expected batch unchanged at 4, got %v", batches)
	}
	reloaded, err := f.store.GetOrder(ctx, order.ID)
	if err != nil {
		t.Fatalf("GetOrder failed: %v", err)
	}
	if reloaded.Status != domain.OrderPlanned {
		t.Errorf("expected order still planned, got %s", reloaded.Status)
	}
}

func TestCompleteOrder_ConsumesBatchesFIFO(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	now := time.Now()
	oldest := f.store.AddBatch(domain.Batch{ChemicalID: f.chemA.ID, Quantity: dec("3"), ReceivedAt: now.Add(-72 * time.Hour)})
	newest := f.store.AddBatch(domain.Batch{ChemicalID: f.chemA.ID, Quantity: dec("3"), ReceivedAt: now})

	order, err := f.production.CreateOrder(ctx, f.formula.ID, dec("25"), "")
	if err != nil {
		t.Fatalf("CreateOrder failed: %v", err)
	}

	completed, err := f.production.CompleteOrder(ctx, order.ID, nil)
	if err != nil {
		t.Fatalf("CompleteOrder failed: %v", err)
	}

	if completed.Status != domain.OrderCompleted {
		t.Errorf("expected completed status, got %s", completed.Status)
	}
	if completed.QuantityProduced == nil || !completed.QuantityProduced.Equal(dec("25")) {
		t.Errorf("expected quantity produced 25, got %v", completed.QuantityProduced)
	}
	if completed.CompletedAt == nil {
		t.Error("expected completion timestamp")
	}

	// Oldest batch (3 kg) drained, then 2 kg from the newest, leaving 1 kg.
	batches := f.chemABatches(t)
	if len(batches) != 1 {
		t.Fatalf("expected 1 live batch, got %d", len(batches))
	}
	if batches[0].ID == oldest.ID {
		t.Errorf("expected oldest batch %d to be drained first", oldest.ID)
	}
	if batches[0].ID != newest.ID {
		t.Errorf("expected newest batch %d to survive, got %d", newest.ID, batches[0].ID)
	}
	if !batches[0].Quantity.Equal(dec("1")) {
		t.Errorf("expected 1 kg left in newest batch, got %s", batches[0].Quantity)
	}

	product, err := f.store.GetProduct(ctx, f.product.ID)
	if err != nil {
		t.Fatalf("GetProduct failed: %v", err)
	}
	if !product.Stock.Equal(dec("25")) {
		t.Errorf("expected product stock 25, got %s", product.Stock)
	}
}

func TestCompleteOrder_Twice(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.store.AddBatch(domain.Batch{ChemicalID: f.chemA.ID, Quantity: dec("10"), ReceivedAt: time.Now()})

	order, err := f.production.CreateOrder(ctx, f.formula.ID, dec("25"), "")
	if err != nil {
		t.Fatalf("CreateOrder failed: %v", err)
	}
	if _, err := f.production.CompleteOrder(ctx, order.ID, nil); err != nil {
		t.Fatalf("first completion failed: %v", err)
	}

	if _, err := f.production.CompleteOrder(ctx, order.ID, nil); !errors.Is(err, domain.ErrOrderNotPlanned) {
		t.Fatalf("expected ErrOrderNotPlanned, got %v", err)
	}

	// No double deduction: 10 - 5 = 5 remains, stock stays at 25.
	batches := f.chemABatches(t)
	if len(batches) != 1 || !batches[0].Quantity.Equal(dec("5")) {
		t.Errorf("expected 5 kg remaining, got %v", batches)
	}
	product, _ := f.store.GetProduct(ctx, f.product.ID)
	if !product.Stock.Equal(dec("25")) {
		t.Errorf("expected product stock 25, got %s", product.Stock)
	}
}

func TestCompleteOrder_ActualYield(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.store.AddBatch(domain.Batch{ChemicalID: f.chemA.ID, Quantity: dec("10"), ReceivedAt: time.Now()})

	order, err := f.production.CreateOrder(ctx, f.formula.ID, dec("25"), "")
	if err != nil {
		t.Fatalf("CreateOrder failed: %v", err)
	}

	actual := dec("23.5")
	completed, err := f.production.CompleteOrder(ctx, order.ID, &actual)
	if err != nil {
		t.Fatalf("CompleteOrder failed: %v", err)
	}

	if !completed.QuantityProduced.Equal(actual) {
		t.Errorf("expected quantity produced 23.5, got %s", completed.QuantityProduced)
	}
	product, _ := f.store.GetProduct(ctx, f.product.ID)
	if !product.Stock.Equal(actual) {
		t.Errorf("expected product stock 23.5, got %s", product.Stock)
	}

	bad := dec("0")
	if _, err := f.production.CompleteOrder(ctx, order.ID, &bad); !errors.Is(err, domain.ErrInvalidQuantity) {
		t.Errorf("zero actual yield: expected ErrInvalidQuantity, got %v", err)
	}
}

func TestCompleteOrder_UsesCurrentFormulaState(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.store.AddBatch(domain.Batch{ChemicalID: f.chemA.ID, Quantity: dec("10"), ReceivedAt: time.Now()})

	order, err := f.production.CreateOrder(ctx, f.formula.ID, dec("10"), "")
	if err != nil {
		t.Fatalf("CreateOrder failed: %v", err)
	}

	// Requirements scale from the formula as it is at completion time.
	formula, err := f.store.GetFormula(ctx, f.formula.ID)
	if err != nil {
		t.Fatalf("GetFormula failed: %v", err)
	}
	reqs, err := planner.ScaleRequirements(*formula, order.QuantityPlanned)
	if err != nil {
		t.Fatalf("ScaleRequirements failed: %v", err)
	}
	if !reqs[0].Required.Equal(dec("2")) {
		t.Fatalf("expected requirement 2 at standard yield, got %s", reqs[0].Required)
	}

	if _, err := f.production.CompleteOrder(ctx, order.ID, nil); err != nil {
		t.Fatalf("CompleteOrder failed: %v", err)
	}
	batches := f.chemABatches(t)
	if !batches[0].Quantity.Equal(dec("8")) {
		t.Errorf("expected 8 kg remaining, got %s", batches[0].Quantity)
	}
}

func TestPreviewRequirements(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.store.AddBatch(domain.Batch{ChemicalID: f.chemA.ID, Quantity: dec("4"), ReceivedAt: time.Now()})

	availability, err := f.production.PreviewRequirements(ctx, f.formula.ID, dec("25"))
	if err != nil {
		t.Fatalf("PreviewRequirements failed: %v", err)
	}

	if availability.Sufficient {
		t.Error("expected insufficient availability")
	}
	if !availability.Requirements[0].Shortfall.Equal(dec("1")) {
		t.Errorf("expected shortfall 1, got %s", availability.Requirements[0].Shortfall)
	}

	// Preview mutates nothing.
	batches := f.chemABatches(t)
	if !batches[0].Quantity.Equal(dec("4")) {
		t.Errorf("expected batch unchanged at 4, got %s", batches[0].Quantity)
	}
}

func TestAutoPlan(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// Product stock 0, reorder level 10: deficit 10 needs 2 kg of ChemA.
	f.store.AddBatch(domain.Batch{ChemicalID: f.chemA.ID, Quantity: dec("4"), ReceivedAt: time.Now()})

	plan, err := f.production.AutoPlan(ctx)
	if err != nil {
		t.Fatalf("AutoPlan failed: %v", err)
	}

	if len(plan) != 1 {
		t.Fatalf("expected 1 suggestion, got %d", len(plan))
	}
	if plan[0].FormulaID != f.formula.ID {
		t.Errorf("expected formula %d, got %d", f.formula.ID, plan[0].FormulaID)
	}
	if !plan[0].QuantityPlanned.Equal(dec("10")) {
		t.Errorf("expected planned quantity 10, got %s", plan[0].QuantityPlanned)
	}
	if !plan[0].Feasible {
		t.Error("expected feasible suggestion")
	}
}
