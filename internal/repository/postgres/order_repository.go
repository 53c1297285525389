// internal/repository/postgres/order_repository.go
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"

	"github.com/Mathiyass/velora-pos-backend/internal/domain"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

type orderRepository struct {
	db *DB
}

func NewOrderRepository(db *DB) *orderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) ListOrders(ctx context.Context) ([]domain.ProductionOrder, error) {
	query := `
		SELECT
			o.id, o.formula_id, f.name AS formula_name, o.quantity_planned,
			o.quantity_produced, o.status, o.batch_code, o.created_at, o.completed_at
		FROM production_orders o
		JOIN formulas f ON f.id = o.formula_id
		ORDER BY o.created_at DESC
	`

	var orders []domain.ProductionOrder
	if err := sqlx.SelectContext(ctx, r.db, &orders, query); err != nil {
		return nil, fmt.Errorf("failed to list production orders: %w", err)
	}

	return orders, nil
}

func (r *orderRepository) GetOrder(ctx context.Context, id int64) (*domain.ProductionOrder, error) {
	query := `
		SELECT
			o.id, o.formula_id, f.name AS formula_name, o.quantity_planned,
			o.quantity_produced, o.status, o.batch_code, o.created_at, o.completed_at
		FROM production_orders o
		JOIN formulas f ON f.id = o.formula_id
		WHERE o.id = $1
	`

	var order domain.ProductionOrder
	if err := sqlx.GetContext(ctx, r.db, &order, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("production order %d: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get production order %d: %w", id, err)
	}

	return &order, nil
}

func (r *orderRepository) CreateOrder(ctx context.Context, order *domain.ProductionOrder) error {
	query := `
		INSERT INTO production_orders (formula_id, quantity_planned, status, batch_code, created_at)
		VALUES ($1, $2, $3, $4, NOW())
		RETURNING id, created_at
	`

	err := r.db.QueryRowContext(ctx, query,
		order.FormulaID, order.QuantityPlanned, domain.OrderPlanned.String(), order.BatchCode,
	).Scan(&order.ID, &order.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert production order: %w", err)
	}

	order.Status = domain.OrderPlanned
	return nil
}

// batchDraw is one planned deduction from a specific batch.
type batchDraw struct {
	batchID  int64
	current  decimal.Decimal
	consumed decimal.Decimal
}

// CompleteOrder applies a completion as a single transaction. The order row is
// locked first so a second completion attempt observes the terminal state, then
// batch rows are locked per chemical in ascending chemical id order so two
// completions competing for the same chemicals cannot deadlock. Batch updates
// compare against the quantity read under lock; a mismatch means a writer
// outside this transaction touched the row and the whole completion rolls back.
func (r *orderRepository) CompleteOrder(ctx context.Context, orderID int64, requirements []domain.Requirement, productID *int64, quantityProduced decimal.Decimal) (*domain.ProductionOrder, error) {
	err := r.db.WithTx(ctx, func(tx *sql.Tx) error {
		var status string
		err := tx.QueryRowContext(ctx,
			`SELECT status FROM production_orders WHERE id = $1 FOR UPDATE`, orderID,
		).Scan(&status)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("production order %d: %w", orderID, domain.ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("failed to lock production order %d: %w", orderID, err)
		}
		if parsed, ok := domain.ParseOrderStatus(status); !ok || parsed != domain.OrderPlanned {
			return fmt.Errorf("production order %d is %s: %w", orderID, status, domain.ErrOrderNotPlanned)
		}

		sorted := make([]domain.Requirement, len(requirements))
		copy(sorted, requirements)
		sort.Slice(sorted, func(i, j int) bool { return sorted[i].ChemicalID < sorted[j].ChemicalID })

		var draws []batchDraw
		for _, req := range sorted {
			chemDraws, err := planDraws(ctx, tx, req)
			if err != nil {
				return err
			}
			draws = append(draws, chemDraws...)
		}

		for _, draw := range draws {
			remaining := draw.current.Sub(draw.consumed)
			result, err := tx.ExecContext(ctx,
				`UPDATE batches SET quantity = $1 WHERE id = $2 AND quantity = $3`,
				remaining, draw.batchID, draw.current,
			)
			if err != nil {
				return fmt.Errorf("failed to update batch %d: %w", draw.batchID, err)
			}
			affected, err := result.RowsAffected()
			if err != nil {
				return fmt.Errorf("failed to read batch update result: %w", err)
			}
			if affected != 1 {
				return fmt.Errorf("batch %d changed mid-completion: %w", draw.batchID, domain.ErrConcurrentModification)
			}
		}

		if productID != nil {
			result, err := tx.ExecContext(ctx,
				`UPDATE products SET stock = stock + $1, updated_at = NOW() WHERE id = $2`,
				quantityProduced, *productID,
			)
			if err != nil {
				return fmt.Errorf("failed to increment product %d stock: %w", *productID, err)
			}
			affected, err := result.RowsAffected()
			if err != nil {
				return fmt.Errorf("failed to read product update result: %w", err)
			}
			if affected != 1 {
				return fmt.Errorf("product %d: %w", *productID, domain.ErrNotFound)
			}
		}

		_, err = tx.ExecContext(ctx, `
			UPDATE production_orders
			SET status = $1, quantity_produced = $2, completed_at = NOW()
			WHERE id = $3
		`, domain.OrderCompleted.String(), quantityProduced, orderID)
		if err != nil {
			return fmt.Errorf("failed to mark order %d completed: %w", orderID, err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return r.GetOrder(ctx, orderID)
}

// planDraws locks a chemical's batches oldest first and plans FIFO deductions
// until the requirement is met. Exhausting the batches fails the completion.
func planDraws(ctx context.Context, tx *sql.Tx, req domain.Requirement) ([]batchDraw, error) {
	rows, err := tx.QueryContext(ctx, `
		SELECT id, quantity
		FROM batches
		WHERE chemical_id = $1 AND quantity > 0
		ORDER BY received_at, id
		FOR UPDATE
	`, req.ChemicalID)
	if err != nil {
		return nil, fmt.Errorf("failed to lock batches for chemical %d: %w", req.ChemicalID, err)
	}
	defer rows.Close()

	var draws []batchDraw
	remaining := req.Required
	for rows.Next() && remaining.IsPositive() {
		var draw batchDraw
		if err := rows.Scan(&draw.batchID, &draw.current); err != nil {
			return nil, fmt.Errorf("failed to scan batch row: %w", err)
		}

		draw.consumed = decimal.Min(draw.current, remaining)
		remaining = remaining.Sub(draw.consumed)
		draws = append(draws, draw)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate batches for chemical %d: %w", req.ChemicalID, err)
	}

	if remaining.IsPositive() {
		return nil, fmt.Errorf("chemical %d short by %s: %w", req.ChemicalID, remaining, domain.ErrInsufficientStock)
	}

	return draws, nil
}
