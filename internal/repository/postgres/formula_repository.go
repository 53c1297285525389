// internal/repository/postgres/formula_repository.go
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Mathiyass/velora-pos-backend/internal/domain"
	"github.com/jmoiron/sqlx"
)

type formulaRepository struct {
	db *DB
}

func NewFormulaRepository(db *DB) *formulaRepository {
	return &formulaRepository{db: db}
}

func (r *formulaRepository) ListFormulas(ctx context.Context) ([]domain.Formula, error) {
	query := `
		SELECT id, name, product_id, standard_yield, yield_unit, created_at
		FROM formulas
		ORDER BY name
	`

	var formulas []domain.Formula
	if err := sqlx.SelectContext(ctx, r.db, &formulas, query); err != nil {
		return nil, fmt.Errorf("failed to list formulas: %w", err)
	}

	for i := range formulas {
		ingredients, err := r.loadIngredients(ctx, formulas[i].ID)
		if err != nil {
			return nil, err
		}
		formulas[i].Ingredients = ingredients
	}

	return formulas, nil
}

func (r *formulaRepository) GetFormula(ctx context.Context, id int64) (*domain.Formula, error) {
	query := `
		SELECT id, name, product_id, standard_yield, yield_unit, created_at
		FROM formulas
		WHERE id = $1
	`

	var formula domain.Formula
	if err := sqlx.GetContext(ctx, r.db, &formula, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("formula %d: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get formula %d: %w", id, err)
	}

	ingredients, err := r.loadIngredients(ctx, id)
	if err != nil {
		return nil, err
	}
	formula.Ingredients = ingredients

	return &formula, nil
}

func (r *formulaRepository) loadIngredients(ctx context.Context, formulaID int64) ([]domain.Ingredient, error) {
	query := `
		SELECT i.chemical_id, c.name AS chemical_name, c.unit, i.quantity
		FROM formula_ingredients i
		JOIN chemicals c ON c.id = i.chemical_id
		WHERE i.formula_id = $1
		ORDER BY i.position
	`

	var ingredients []domain.Ingredient
	if err := sqlx.SelectContext(ctx, r.db, &ingredients, query, formulaID); err != nil {
		return nil, fmt.Errorf("failed to load ingredients for formula %d: %w", formulaID, err)
	}

	return ingredients, nil
}

func (r *formulaRepository) CreateFormula(ctx context.Context, formula *domain.Formula) error {
	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		query := `
			INSERT INTO formulas (name, product_id, standard_yield, yield_unit, created_at)
			VALUES ($1, $2, $3, $4, NOW())
			RETURNING id, created_at
		`

		var productID sql.NullInt64
		if formula.ProductID != nil {
			productID = sql.NullInt64{Int64: *formula.ProductID, Valid: true}
		}

		err := tx.QueryRowContext(ctx, query,
			formula.Name, productID, formula.StandardYield, formula.YieldUnit,
		).Scan(&formula.ID, &formula.CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to insert formula: %w", err)
		}

		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO formula_ingredients (formula_id, chemical_id, quantity, position)
			VALUES ($1, $2, $3, $4)
		`)
		if err != nil {
			return fmt.Errorf("failed to prepare ingredient insert: %w", err)
		}
		defer stmt.Close()

		for pos, ing := range formula.Ingredients {
			if _, err := stmt.ExecContext(ctx, formula.ID, ing.ChemicalID, ing.Quantity, pos); err != nil {
				return fmt.Errorf("failed to insert ingredient %d: %w", ing.ChemicalID, err)
			}
		}

		return nil
	})
}

func (r *formulaRepository) DeleteFormula(ctx context.Context, id int64) error {
	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM formula_ingredients WHERE formula_id = $1`, id); err != nil {
			return fmt.Errorf("failed to delete ingredients for formula %d: %w", id, err)
		}

		result, err := tx.ExecContext(ctx, `DELETE FROM formulas WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("failed to delete formula %d: %w", id, err)
		}

		affected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to read delete result: %w", err)
		}
		if affected == 0 {
			return fmt.Errorf("formula %d: %w", id, domain.ErrNotFound)
		}

		return nil
	})
}
