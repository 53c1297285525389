package domain

import "errors"

// Error kinds surfaced across the production core. Callers match with
// errors.Is; repositories and services wrap these with context via %w.
var (
	// ErrInvalidQuantity rejects zero, negative, or non-numeric quantities.
	ErrInvalidQuantity = errors.New("quantity must be greater than zero")

	// ErrNotFound reports an unknown formula, order, chemical, or product id.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateIngredient rejects a formula listing the same chemical twice.
	ErrDuplicateIngredient = errors.New("duplicate chemical in formula")

	// ErrEmptyFormula rejects a formula with no ingredients.
	ErrEmptyFormula = errors.New("formula requires at least one ingredient")

	// ErrInvalidYield rejects a formula whose standard yield is not positive.
	ErrInvalidYield = errors.New("standard yield must be greater than zero")

	// ErrInsufficientStock means completion could not source a required
	// chemical quantity. No state is mutated.
	ErrInsufficientStock = errors.New("insufficient chemical stock")

	// ErrOrderNotPlanned means the order has already been completed; a second
	// completion never double-deducts stock.
	ErrOrderNotPlanned = errors.New("order is not in planned state")

	// ErrConcurrentModification means completion lost a race for batch stock
	// and was rolled back; the caller may retry.
	ErrConcurrentModification = errors.New("concurrent stock modification")

	// ErrUnknownStatus reports an unrecognized order status label.
	ErrUnknownStatus = errors.New("unknown order status")
)
