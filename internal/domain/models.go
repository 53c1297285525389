// internal/domain/models.go
package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Chemical represents a raw material tracked by the inventory ledger
type Chemical struct {
	ID           int64           `json:"id" db:"id"`
	Name         string          `json:"name" db:"name"`
	Unit         string          `json:"unit" db:"unit"`
	ReorderLevel decimal.Decimal `json:"reorder_level" db:"reorder_level"`
	CreatedAt    time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at" db:"updated_at"`
}

// Batch is a discrete, dated quantity of a chemical. Batches of the same
// chemical are consumed oldest received date first.
type Batch struct {
	ID         int64           `json:"id" db:"id"`
	ChemicalID int64           `json:"chemical_id" db:"chemical_id"`
	Quantity   decimal.Decimal `json:"quantity" db:"quantity"`
	LotCode    string          `json:"lot_code" db:"lot_code"`
	ReceivedAt time.Time       `json:"received_at" db:"received_at"`
	ExpiresAt  *time.Time      `json:"expires_at,omitempty" db:"expires_at"`
}

// Product is a finished good whose stock is replenished by production orders
type Product struct {
	ID           int64           `json:"id" db:"id"`
	SKU          string          `json:"sku" db:"sku"`
	Name         string          `json:"name" db:"name"`
	Stock        decimal.Decimal `json:"stock" db:"stock"`
	ReorderLevel decimal.Decimal `json:"reorder_level" db:"reorder_level"`
	FormulaID    *int64          `json:"formula_id,omitempty" db:"formula_id"`
	CreatedAt    time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at" db:"updated_at"`
}

// Ingredient is one line of a formula: the quantity of a chemical needed to
// produce one standard-yield batch.
type Ingredient struct {
	ChemicalID   int64           `json:"chemical_id" db:"chemical_id"`
	ChemicalName string          `json:"chemical_name,omitempty" db:"chemical_name"`
	Unit         string          `json:"unit,omitempty" db:"unit"`
	Quantity     decimal.Decimal `json:"quantity" db:"quantity"`
}

// Formula is a recipe converting chemicals into a finished product at a
// defined standard yield.
type Formula struct {
	ID            int64           `json:"id" db:"id"`
	Name          string          `json:"name" db:"name"`
	ProductID     *int64          `json:"product_id,omitempty" db:"product_id"`
	StandardYield decimal.Decimal `json:"standard_yield" db:"standard_yield"`
	YieldUnit     string          `json:"yield_unit" db:"yield_unit"`
	Ingredients   []Ingredient    `json:"ingredients" db:"-"`
	CreatedAt     time.Time       `json:"created_at" db:"created_at"`
}

// ProductionOrder is a planned-then-executed request to convert ingredients
// into finished-product stock per a formula.
type ProductionOrder struct {
	ID               int64            `json:"id" db:"id"`
	FormulaID        int64            `json:"formula_id" db:"formula_id"`
	FormulaName      string           `json:"formula_name,omitempty" db:"formula_name"`
	QuantityPlanned  decimal.Decimal  `json:"quantity_planned" db:"quantity_planned"`
	QuantityProduced *decimal.Decimal `json:"quantity_produced,omitempty" db:"quantity_produced"`
	Status           OrderStatus      `json:"status" db:"status"`
	BatchCode        string           `json:"batch_code" db:"batch_code"`
	CreatedAt        time.Time        `json:"created_at" db:"created_at"`
	CompletedAt      *time.Time       `json:"completed_at,omitempty" db:"completed_at"`
}

// Requirement is a scaled ingredient demand for a single chemical
type Requirement struct {
	ChemicalID int64           `json:"chemical_id"`
	Required   decimal.Decimal `json:"required"`
	Available  decimal.Decimal `json:"available"`
	Shortfall  decimal.Decimal `json:"shortfall"`
}

// Availability is the result of checking scaled requirements against batch stock
type Availability struct {
	Requirements []Requirement `json:"requirements"`
	Sufficient   bool          `json:"sufficient"`
}

// Suggestion is one line of the auto production plan. Suggestions are never
// persisted; creating an order from one is a separate explicit call.
type Suggestion struct {
	FormulaID       int64           `json:"formula_id"`
	FormulaName     string          `json:"formula_name"`
	ProductID       int64           `json:"product_id"`
	ProductName     string          `json:"product_name"`
	Stock           decimal.Decimal `json:"stock"`
	ReorderLevel    decimal.Decimal `json:"reorder_level"`
	Deficit         decimal.Decimal `json:"deficit"`
	QuantityPlanned decimal.Decimal `json:"quantity_planned"`
	Requirements    []Requirement   `json:"requirements"`
	Feasible        bool            `json:"feasible"`
}

// ReceiptItem is a single line of a purchase-order receipt
type ReceiptItem struct {
	ChemicalID int64           `json:"chemical_id"`
	Quantity   decimal.Decimal `json:"quantity"`
	LotCode    string          `json:"lot_code"`
	ExpiresAt  *time.Time      `json:"expires_at,omitempty"`
}

// PurchaseReceipt records the arrival of purchased chemicals; each item
// becomes a new batch.
type PurchaseReceipt struct {
	POID  string        `json:"po_id"`
	Items []ReceiptItem `json:"items"`
}

// LowStockChemical pairs a chemical with its summed on-hand batch quantity,
// for chemicals at or below their reorder level.
type LowStockChemical struct {
	Chemical Chemical        `json:"chemical"`
	OnHand   decimal.Decimal `json:"on_hand"`
}
