// cmd/seed/master.go
package main

import (
	"context"
	"database/sql"
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v2"
)

// runMasterSeeder loads chemicals.csv, products.csv, formulas.csv, and
// formula_ingredients.csv from the data directory. Rows are upserted by name
// or SKU so the seeder is safe to re-run.
func runMasterSeeder(c *cli.Context) error {
	db, ok := c.Context.Value(dbKey).(*sql.DB)
	if !ok {
		return fmt.Errorf("database connection missing from context")
	}

	dataDir := c.String("data-dir")
	ctx := c.Context

	if err := seedChemicals(ctx, db, filepath.Join(dataDir, "chemicals.csv")); err != nil {
		return fmt.Errorf("seeding chemicals: %w", err)
	}
	if err := seedProducts(ctx, db, filepath.Join(dataDir, "products.csv")); err != nil {
		return fmt.Errorf("seeding products: %w", err)
	}
	if err := seedFormulas(ctx, db, dataDir); err != nil {
		return fmt.Errorf("seeding formulas: %w", err)
	}

	log.Println("master data seeded")
	return nil
}

// readCSV reads a headered CSV file and returns its data rows.
func readCSV(path string) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	reader := csv.NewReader(file)
	if _, err := reader.Read(); err != nil { // header
		if err == io.EOF {
			return nil, nil
		}
		return nil, err
	}

	var rows [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		rows = append(rows, record)
	}

	return rows, nil
}

// seedChemicals expects columns: name, unit, reorder_level
func seedChemicals(ctx context.Context, db *sql.DB, path string) error {
	rows, err := readCSV(path)
	if err != nil {
		return err
	}

	for _, row := range rows {
		if len(row) < 3 {
			continue
		}
		_, err := db.ExecContext(ctx, `
			INSERT INTO chemicals (name, unit, reorder_level, created_at, updated_at)
			VALUES ($1, $2, $3, NOW(), NOW())
			ON CONFLICT (name) DO UPDATE SET
				unit = EXCLUDED.unit,
				reorder_level = EXCLUDED.reorder_level,
				updated_at = NOW()
		`, strings.TrimSpace(row[0]), strings.TrimSpace(row[1]), strings.TrimSpace(row[2]))
		if err != nil {
			return fmt.Errorf("upsert chemical %q: %w", row[0], err)
		}
	}

	log.Printf("seeded %d chemicals", len(rows))
	return nil
}

// seedProducts expects columns: sku, name, stock, reorder_level
func seedProducts(ctx context.Context, db *sql.DB, path string) error {
	rows, err := readCSV(path)
	if err != nil {
		return err
	}

	for _, row := range rows {
		if len(row) < 4 {
			continue
		}
		_, err := db.ExecContext(ctx, `
			INSERT INTO products (sku, name, stock, reorder_level, created_at, updated_at)
			VALUES ($1, $2, $3, $4, NOW(), NOW())
			ON CONFLICT (sku) DO UPDATE SET
				name = EXCLUDED.name,
				reorder_level = EXCLUDED.reorder_level,
				updated_at = NOW()
		`, strings.TrimSpace(row[0]), strings.TrimSpace(row[1]), strings.TrimSpace(row[2]), strings.TrimSpace(row[3]))
		if err != nil {
			return fmt.Errorf("upsert product %q: %w", row[0], err)
		}
	}

	log.Printf("seeded %d products", len(rows))
	return nil
}

// seedFormulas expects formulas.csv (name, product_sku, standard_yield,
// yield_unit) and formula_ingredients.csv (formula_name, chemical_name,
// quantity). Each formula's ingredient lines are replaced wholesale.
func seedFormulas(ctx context.Context, db *sql.DB, dataDir string) error {
	formulaRows, err := readCSV(filepath.Join(dataDir, "formulas.csv"))
	if err != nil {
		return err
	}

	for _, row := range formulaRows {
		if len(row) < 4 {
			continue
		}
		name := strings.TrimSpace(row[0])
		productSKU := strings.TrimSpace(row[1])

		var productID sql.NullInt64
		if productSKU != "" {
			if err := db.QueryRowContext(ctx,
				`SELECT id FROM products WHERE sku = $1`, productSKU,
			).Scan(&productID.Int64); err != nil {
				return fmt.Errorf("formula %q references unknown product sku %q: %w", name, productSKU, err)
			}
			productID.Valid = true
		}

		_, err := db.ExecContext(ctx, `
			INSERT INTO formulas (name, product_id, standard_yield, yield_unit, created_at)
			VALUES ($1, $2, $3, $4, NOW())
			ON CONFLICT (name) DO UPDATE SET
				product_id = EXCLUDED.product_id,
				standard_yield = EXCLUDED.standard_yield,
				yield_unit = EXCLUDED.yield_unit
		`, name, productID, strings.TrimSpace(row[2]), strings.TrimSpace(row[3]))
		if err != nil {
			return fmt.Errorf("upsert formula %q: %w", name, err)
		}
	}

	ingredientRows, err := readCSV(filepath.Join(dataDir, "formula_ingredients.csv"))
	if err != nil {
		return err
	}

	seen := make(map[string]int)
	for _, row := range ingredientRows {
		if len(row) < 3 {
			continue
		}
		formulaName := strings.TrimSpace(row[0])
		chemicalName := strings.TrimSpace(row[1])

		if _, done := seen[formulaName]; !done {
			_, err := db.ExecContext(ctx, `
				DELETE FROM formula_ingredients
				WHERE formula_id = (SELECT id FROM formulas WHERE name = $1)
			`, formulaName)
			if err != nil {
				return fmt.Errorf("clear ingredients for formula %q: %w", formulaName, err)
			}
		}

		position := seen[formulaName]
		seen[formulaName] = position + 1

		_, err := db.ExecContext(ctx, `
			INSERT INTO formula_ingredients (formula_id, chemical_id, quantity, position)
			SELECT f.id, c.id, $3, $4
			FROM formulas f, chemicals c
			WHERE f.name = $1 AND c.name = $2
		`, formulaName, chemicalName, strings.TrimSpace(row[2]), position)
		if err != nil {
			return fmt.Errorf("insert ingredient %q for formula %q: %w", chemicalName, formulaName, err)
		}
	}

	log.Printf("seeded %d formulas with %d ingredient lines", len(formulaRows), len(ingredientRows))
	return nil
}
