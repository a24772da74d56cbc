package calculation

import (
	"errors"
	"fmt"

	"github.com/wealthproj/projection-engine/internal/domain"
)

// Engine errors are local and recoverable: the caller can correct the
// configuration and retry. Nothing here terminates the process.
var (
	// ErrNoTaxRuleSet marks a request for a (country, holding type) pair
	// with no configured rules. The engine never defaults to zero tax.
	ErrNoTaxRuleSet = errors.New("no tax rule set configured")

	// ErrInvalidInput marks numeric preconditions rejected before any
	// computation (zero horizon, negative term, absent rates).
	ErrInvalidInput = errors.New("invalid projection input")
)

// MissingRuleSetError carries the lookup key that failed.
type MissingRuleSetError struct {
	Country     string
	HoldingType domain.HoldingType
}

func (e *MissingRuleSetError) Error() string {
	return fmt.Sprintf("no tax rule set configured for %s/%s", e.Country, e.HoldingType)
}

func (e *MissingRuleSetError) Unwrap() error { return ErrNoTaxRuleSet }

// inputErrorf wraps ErrInvalidInput with detail.
func inputErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}
