// cmd/seed/demo.go
package main

import (
	"database/sql"
	"fmt"
	"log"

	"github.com/urfave/cli/v2"
)

// runDemoSeeder stocks each chemical with two dated batches and plans one
// order per formula, so a fresh install has something to complete.
func runDemoSeeder(c *cli.Context) error {
	db, ok := c.Context.Value(dbKey).(*sql.DB)
	if !ok {
		return fmt.Errorf("database connection missing from context")
	}
	ctx := c.Context

	batchResult, err := db.ExecContext(ctx, `
		INSERT INTO batches (chemical_id, quantity, lot_code, received_at, po_id)
		SELECT id, reorder_level * 2, 'DEMO-' || id || '-A', NOW() - INTERVAL '30 days', 'PO-DEMO'
		FROM chemicals
		UNION ALL
		SELECT id, reorder_level, 'DEMO-' || id || '-B', NOW(), 'PO-DEMO'
		FROM chemicals
	`)
	if err != nil {
		return fmt.Errorf("seeding demo batches: %w", err)
	}

	orderResult, err := db.ExecContext(ctx, `
		INSERT INTO production_orders (formula_id, quantity_planned, status, batch_code, created_at)
		SELECT id, standard_yield, 'planned', 'DEMO-' || name, NOW()
		FROM formulas
	`)
	if err != nil {
		return fmt.Errorf("seeding demo orders: %w", err)
	}

	batches, _ := batchResult.RowsAffected()
	orders, _ := orderResult.RowsAffected()
	log.Printf("seeded %d demo batches and %d planned orders", batches, orders)

	return nil
}
