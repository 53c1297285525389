package planner

import (
	"errors"
	"testing"
	"time"

	"github.com/Mathiyass/velora-pos-backend/internal/domain"
	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func cleanerFormula() domain.Formula {
	return domain.Formula{
		ID:            1,
		Name:          "Cleaner-X",
		StandardYield: dec("10"),
		YieldUnit:     "L",
		Ingredients: []domain.Ingredient{
			{ChemicalID: 100, Quantity: dec("2")},
		},
	}
}

func TestScaleRequirements(t *testing.T) {
	formula := domain.Formula{
		Name:          "Satin White",
		StandardYield: dec("50"),
		YieldUnit:     "L",
		Ingredients: []domain.Ingredient{
			{ChemicalID: 1, Quantity: dec("12.5")},
			{ChemicalID: 2, Quantity: dec("3")},
			{ChemicalID: 3, Quantity: dec("0.4")},
		},
	}

	tests := []struct {
		name     string
		planned  decimal.Decimal
		expected []string
	}{
		{
			name:     "identity_at_standard_yield",
			planned:  dec("50"),
			expected: []string{"12.5", "3", "0.4"},
		},
		{
			name:     "scale_up",
			planned:  dec("125"),
			expected: []string{"31.25", "7.5", "1"},
		},
		{
			name:     "scale_down",
			planned:  dec("10"),
			expected: []string{"2.5", "0.6", "0.08"},
		},
		{
			name:     "rounding_half_up_to_three_places",
			planned:  dec("1"),
			expected: []string{"0.25", "0.06", "0.008"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reqs, err := ScaleRequirements(formula, tt.planned)
			if err != nil {
				t.Fatalf("ScaleRequirements failed: %v", err)
			}
			if len(reqs) != len(formula.Ingredients) {
				t.Fatalf("expected %d requirements, got %d", len(formula.Ingredients), len(reqs))
			}
			for i, want := range tt.expected {
				if !reqs[i].Required.Equal(dec(want)) {
					t.Errorf("ingredient %d: expected %s, got %s", i, want, reqs[i].Required)
				}
			}
		})
	}
}

func TestScaleRequirements_CleanerScenario(t *testing.T) {
	reqs, err := ScaleRequirements(cleanerFormula(), dec("25"))
	if err != nil {
		t.Fatalf("ScaleRequirements failed: %v", err)
	}
	if !reqs[0].Required.Equal(dec("5")) {
		t.Errorf("expected 5 kg of ChemA for 25 L, got %s", reqs[0].Required)
	}
}

func TestScaleRequirements_InvalidQuantity(t *testing.T) {
	for _, qty := range []string{"0", "-1", "-0.001"} {
		if _, err := ScaleRequirements(cleanerFormula(), dec(qty)); !errors.Is(err, domain.ErrInvalidQuantity) {
			t.Errorf("planned %s: expected ErrInvalidQuantity, got %v", qty, err)
		}
	}
}

func TestScaleRequirements_InvalidYield(t *testing.T) {
	formula := cleanerFormula()
	formula.StandardYield = decimal.Zero

	if _, err := ScaleRequirements(formula, dec("10")); !errors.Is(err, domain.ErrInvalidYield) {
		t.Errorf("expected ErrInvalidYield, got %v", err)
	}
}

func TestScaleRequirements_Deterministic(t *testing.T) {
	formula := domain.Formula{
		Name:          "Thirds",
		StandardYield: dec("3"),
		Ingredients:   []domain.Ingredient{{ChemicalID: 1, Quantity: dec("1")}},
	}

	first, err := ScaleRequirements(formula, dec("1"))
	if err != nil {
		t.Fatalf("ScaleRequirements failed: %v", err)
	}
	second, err := ScaleRequirements(formula, dec("1"))
	if err != nil {
		t.Fatalf("ScaleRequirements failed: %v", err)
	}
	if !first[0].Required.Equal(second[0].Required) {
		t.Errorf("repeated scaling differs: %s vs %s", first[0].Required, second[0].Required)
	}
	if !first[0].Required.Equal(dec("0.333")) {
		t.Errorf("expected 0.333 at three places, got %s", first[0].Required)
	}
}

func TestCheckAvailability(t *testing.T) {
	now := time.Now()
	batches := []domain.Batch{
		{ID: 1, ChemicalID: 100, Quantity: dec("3"), ReceivedAt: now.Add(-48 * time.Hour)},
		{ID: 2, ChemicalID: 100, Quantity: dec("1"), ReceivedAt: now},
		{ID: 3, ChemicalID: 200, Quantity: dec("8"), ReceivedAt: now},
	}

	tests := []struct {
		name           string
		requirements   []domain.Requirement
		wantSufficient bool
		wantShortfalls []string
	}{
		{
			name:           "fully_available",
			requirements:   []domain.Requirement{{ChemicalID: 100, Required: dec("4")}},
			wantSufficient: true,
			wantShortfalls: []string{"0"},
		},
		{
			name:           "shortfall_on_one_chemical",
			requirements:   []domain.Requirement{{ChemicalID: 100, Required: dec("5")}},
			wantSufficient: false,
			wantShortfalls: []string{"1"},
		},
		{
			name: "mixed_chemicals",
			requirements: []domain.Requirement{
				{ChemicalID: 100, Required: dec("2")},
				{ChemicalID: 200, Required: dec("10")},
			},
			wantSufficient: false,
			wantShortfalls: []string{"0", "2"},
		},
		{
			name:           "chemical_with_no_batches",
			requirements:   []domain.Requirement{{ChemicalID: 999, Required: dec("1")}},
			wantSufficient: false,
			wantShortfalls: []string{"1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CheckAvailability(tt.requirements, batches)
			if result.Sufficient != tt.wantSufficient {
				t.Errorf("expected sufficient=%v, got %v", tt.wantSufficient, result.Sufficient)
			}
			for i, want := range tt.wantShortfalls {
				if !result.Requirements[i].Shortfall.Equal(dec(want)) {
					t.Errorf("requirement %d: expected shortfall %s, got %s", i, want, result.Requirements[i].Shortfall)
				}
			}
		})
	}
}

func TestCheckAvailability_DoesNotMutateBatches(t *testing.T) {
	batches := []domain.Batch{{ID: 1, ChemicalID: 100, Quantity: dec("4")}}

	CheckAvailability([]domain.Requirement{{ChemicalID: 100, Required: dec("9")}}, batches)

	if !batches[0].Quantity.Equal(dec("4")) {
		t.Errorf("batch quantity mutated to %s", batches[0].Quantity)
	}
}
