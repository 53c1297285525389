// internal/repository/postgres/inventory_repository.go
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Mathiyass/velora-pos-backend/internal/domain"
	"github.com/jmoiron/sqlx"
)

type inventoryRepository struct {
	db *DB
}

func NewInventoryRepository(db *DB) *inventoryRepository {
	return &inventoryRepository{db: db}
}

func (r *inventoryRepository) ListChemicals(ctx context.Context) ([]domain.Chemical, error) {
	query := `
		SELECT id, name, unit, reorder_level, created_at, updated_at
		FROM chemicals
		ORDER BY name
	`

	var chemicals []domain.Chemical
	if err := sqlx.SelectContext(ctx, r.db, &chemicals, query); err != nil {
		return nil, fmt.Errorf("failed to list chemicals: %w", err)
	}

	return chemicals, nil
}

func (r *inventoryRepository) GetChemical(ctx context.Context, id int64) (*domain.Chemical, error) {
	query := `
		SELECT id, name, unit, reorder_level, created_at, updated_at
		FROM chemicals
		WHERE id = $1
	`

	var chemical domain.Chemical
	if err := sqlx.GetContext(ctx, r.db, &chemical, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("chemical %d: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get chemical %d: %w", id, err)
	}

	return &chemical, nil
}

func (r *inventoryRepository) ListBatches(ctx context.Context, chemicalID int64) ([]domain.Batch, error) {
	query := `
		SELECT id, chemical_id, quantity, lot_code, received_at, expires_at
		FROM batches
		WHERE chemical_id = $1 AND quantity > 0
		ORDER BY received_at, id
	`

	var batches []domain.Batch
	if err := sqlx.SelectContext(ctx, r.db, &batches, query, chemicalID); err != nil {
		return nil, fmt.Errorf("failed to list batches for chemical %d: %w", chemicalID, err)
	}

	return batches, nil
}

func (r *inventoryRepository) ListAllBatches(ctx context.Context) ([]domain.Batch, error) {
	query := `
		SELECT id, chemical_id, quantity, lot_code, received_at, expires_at
		FROM batches
		WHERE quantity > 0
		ORDER BY chemical_id, received_at, id
	`

	var batches []domain.Batch
	if err := sqlx.SelectContext(ctx, r.db, &batches, query); err != nil {
		return nil, fmt.Errorf("failed to list batches: %w", err)
	}

	return batches, nil
}

func (r *inventoryRepository) ListProducts(ctx context.Context) ([]domain.Product, error) {
	query := `
		SELECT id, sku, name, stock, reorder_level, formula_id, created_at, updated_at
		FROM products
		ORDER BY name
	`

	var products []domain.Product
	if err := sqlx.SelectContext(ctx, r.db, &products, query); err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	return products, nil
}

func (r *inventoryRepository) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	query := `
		SELECT id, sku, name, stock, reorder_level, formula_id, created_at, updated_at
		FROM products
		WHERE id = $1
	`

	var product domain.Product
	if err := sqlx.GetContext(ctx, r.db, &product, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("product %d: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get product %d: %w", id, err)
	}

	return &product, nil
}

func (r *inventoryRepository) ReceivePurchase(ctx context.Context, receipt domain.PurchaseReceipt) ([]domain.Batch, error) {
	batches := make([]domain.Batch, 0, len(receipt.Items))

	err := r.db.WithTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO batches (chemical_id, quantity, lot_code, received_at, expires_at, po_id)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id, received_at
		`)
		if err != nil {
			return fmt.Errorf("failed to prepare batch insert: %w", err)
		}
		defer stmt.Close()

		now := time.Now()
		for _, item := range receipt.Items {
			var expiresAt sql.NullTime
			if item.ExpiresAt != nil {
				expiresAt = sql.NullTime{Time: *item.ExpiresAt, Valid: true}
			}

			batch := domain.Batch{
				ChemicalID: item.ChemicalID,
				Quantity:   item.Quantity,
				LotCode:    item.LotCode,
				ExpiresAt:  item.ExpiresAt,
			}
			err := stmt.QueryRowContext(ctx,
				item.ChemicalID, item.Quantity, item.LotCode, now, expiresAt, receipt.POID,
			).Scan(&batch.ID, &batch.ReceivedAt)
			if err != nil {
				return fmt.Errorf("failed to insert batch for chemical %d: %w", item.ChemicalID, err)
			}

			batches = append(batches, batch)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return batches, nil
}

func (r *inventoryRepository) LowStockChemicals(ctx context.Context) ([]domain.LowStockChemical, error) {
	query := `
		SELECT
			c.id, c.name, c.unit, c.reorder_level, c.created_at, c.updated_at,
			COALESCE(SUM(b.quantity), 0) AS on_hand
		FROM chemicals c
		LEFT JOIN batches b ON b.chemical_id = c.id AND b.quantity > 0
		GROUP BY c.id
		HAVING COALESCE(SUM(b.quantity), 0) <= c.reorder_level
		ORDER BY COALESCE(SUM(b.quantity), 0) / NULLIF(c.reorder_level, 0) NULLS FIRST, c.name
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query low stock chemicals: %w", err)
	}
	defer rows.Close()

	var results []domain.LowStockChemical
	for rows.Next() {
		var entry domain.LowStockChemical
		err := rows.Scan(
			&entry.Chemical.ID, &entry.Chemical.Name, &entry.Chemical.Unit,
			&entry.Chemical.ReorderLevel, &entry.Chemical.CreatedAt, &entry.Chemical.UpdatedAt,
			&entry.OnHand,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan low stock row: %w", err)
		}
		results = append(results, entry)
	}

	return results, rows.Err()
}
