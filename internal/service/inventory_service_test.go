package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Mathiyass/velora-pos-backend/internal/domain"
	"github.com/Mathiyass/velora-pos-backend/internal/repository/memory"
)

func TestReceivePurchaseOrder(t *testing.T) {
	store := memory.NewStore()
	chemA := store.AddChemical(domain.Chemical{Name: "ChemA", Unit: "kg", ReorderLevel: dec("5")})
	chemB := store.AddChemical(domain.Chemical{Name: "ChemB", Unit: "L", ReorderLevel: dec("2")})
	svc := NewInventoryService(store, nil)
	ctx := context.Background()

	batches, err := svc.ReceivePurchaseOrder(ctx, domain.PurchaseReceipt{
		POID: "PO-1001",
		Items: []domain.ReceiptItem{
			{ChemicalID: chemA.ID, Quantity: dec("25"), LotCode: "LOT-A1"},
			{ChemicalID: chemB.ID, Quantity: dec("10"), LotCode: "LOT-B1"},
		},
	})
	if err != nil {
		t.Fatalf("ReceivePurchaseOrder failed: %v", err)
	}

	if len(batches) != 2 {
		t.Fatalf("expected 2 batches, got %d", len(batches))
	}
	if batches[0].ChemicalID != chemA.ID || !batches[0].Quantity.Equal(dec("25")) {
		t.Errorf("unexpected first batch: %+v", batches[0])
	}
	if batches[0].LotCode != "LOT-A1" {
		t.Errorf("expected lot code LOT-A1, got %s", batches[0].LotCode)
	}
}

func TestReceivePurchaseOrder_Validation(t *testing.T) {
	store := memory.NewStore()
	chemA := store.AddChemical(domain.Chemical{Name: "ChemA", Unit: "kg"})
	svc := NewInventoryService(store, nil)
	ctx := context.Background()

	_, err := svc.ReceivePurchaseOrder(ctx, domain.PurchaseReceipt{
		POID:  "PO-1002",
		Items: []domain.ReceiptItem{{ChemicalID: chemA.ID, Quantity: dec("0")}},
	})
	if !errors.Is(err, domain.ErrInvalidQuantity) {
		t.Errorf("zero quantity: expected ErrInvalidQuantity, got %v", err)
	}

	_, err = svc.ReceivePurchaseOrder(ctx, domain.PurchaseReceipt{
		POID:  "PO-1003",
		Items: []domain.ReceiptItem{{ChemicalID: 9999, Quantity: dec("5")}},
	})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("unknown chemical: expected ErrNotFound, got %v", err)
	}

	// Rejected receipts create nothing.
	all, err := store.ListAllBatches(ctx)
	if err != nil {
		t.Fatalf("ListAllBatches failed: %v", err)
	}
	if len(all) != 0 {
		t.Errorf("expected no batches after rejected receipts, got %d", len(all))
	}
}

func TestLowStockChemicals(t *testing.T) {
	store := memory.NewStore()
	chemA := store.AddChemical(domain.Chemical{Name: "ChemA", Unit: "kg", ReorderLevel: dec("5")})
	chemB := store.AddChemical(domain.Chemical{Name: "ChemB", Unit: "L", ReorderLevel: dec("2")})
	store.AddBatch(domain.Batch{ChemicalID: chemA.ID, Quantity: dec("3"), ReceivedAt: time.Now()})
	store.AddBatch(domain.Batch{ChemicalID: chemB.ID, Quantity: dec("9"), ReceivedAt: time.Now()})
	svc := NewInventoryService(store, nil)

	low, err := svc.LowStockChemicals(context.Background())
	if err != nil {
		t.Fatalf("LowStockChemicals failed: %v", err)
	}

	if len(low) != 1 {
		t.Fatalf("expected 1 low stock chemical, got %d", len(low))
	}
	if low[0].Chemical.ID != chemA.ID {
		t.Errorf("expected ChemA to be low, got %s", low[0].Chemical.Name)
	}
	if !low[0].OnHand.Equal(dec("3")) {
		t.Errorf("expected 3 on hand, got %s", low[0].OnHand)
	}
}
