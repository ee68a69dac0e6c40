package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// MaxPrecision is the largest number of decimal places a quantity may carry.
const MaxPrecision = 18

// maxAmount bounds every amount below 2^62 - 1 so that sums of two valid
// amounts never overflow uint64.
const maxAmount = uint64(1)<<62 - 1

// Quantity is a fixed-precision unsigned decimal: Amount minimum units at
// Precision decimal places. Its decimal value is Amount / 10^Precision.
// Arithmetic is integer-only; there is no rounding anywhere in the ledger.
type Quantity struct {
	Amount    uint64 `json:"amount"`
	Precision uint8  `json:"precision"`
}

// One is the unit quantity for a single non-fungible item.
func One() Quantity {
	return Quantity{Amount: 1, Precision: 0}
}

// NewQuantity validates and constructs a quantity from raw parts.
func NewQuantity(amount uint64, precision uint8) (Quantity, error) {
	if precision > MaxPrecision {
		return Quantity{}, ErrPrecisionTooLarge
	}
	if amount == 0 {
		return Quantity{}, ErrZeroAmount
	}
	if amount >= maxAmount {
		return Quantity{}, ErrAmountTooLarge
	}
	return Quantity{Amount: amount, Precision: precision}, nil
}

// ParseQuantity parses a decimal string, inferring precision from the number
// of digits after the decimal point. "1.50" parses to amount 150 precision 2;
// "3" parses to amount 3 precision 0. A bare trailing decimal point is
// rejected, as is anything non-positive.
func ParseQuantity(s string) (Quantity, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Quantity{}, ErrZeroAmount
	}
	if s[0] == '-' {
		return Quantity{}, ErrNegativeAmount
	}

	dot := strings.IndexByte(s, '.')
	if dot == len(s)-1 {
		return Quantity{}, ErrMissingFraction
	}

	if dot < 0 {
		intPart, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return Quantity{}, fmt.Errorf("invalid amount %q: %w", s, err)
		}
		return NewQuantity(intPart, 0)
	}

	fracDigits := len(s) - 1 - dot
	if fracDigits > MaxPrecision {
		return Quantity{}, ErrPrecisionTooLarge
	}
	precision := uint8(fracDigits)

	intPart, err := strconv.ParseUint(s[:dot], 10, 64)
	if err != nil {
		return Quantity{}, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	fracPart, err := strconv.ParseUint(s[dot+1:], 10, 64)
	if err != nil {
		return Quantity{}, fmt.Errorf("invalid amount %q: %w", s, err)
	}

	amount, err := scaleAmount(intPart, fracPart, precision)
	if err != nil {
		return Quantity{}, err
	}
	return NewQuantity(amount, precision)
}

// ParseQuantityWithPrecision parses a decimal string against a declared target
// precision instead of inferring one. Fraction digits beyond the target are
// truncated; shorter fractions are scaled up. Unlike ParseQuantity, a trailing
// decimal point is tolerated ("1." reads as "1").
func ParseQuantityWithPrecision(s string, precision uint8) (Quantity, error) {
	if precision > MaxPrecision {
		return Quantity{}, ErrPrecisionTooLarge
	}

	s = strings.TrimSpace(s)
	if s == "" {
		return Quantity{}, ErrZeroAmount
	}
	if s[0] == '-' {
		return Quantity{}, ErrNegativeAmount
	}

	var intStr, fracStr string
	dot := strings.IndexByte(s, '.')
	switch {
	case dot < 0 || dot == len(s)-1:
		intStr = strings.TrimSuffix(s, ".")
	default:
		intStr = s[:dot]
		fracStr = s[dot+1:]
	}

	intPart, err := strconv.ParseUint(intStr, 10, 64)
	if err != nil {
		return Quantity{}, fmt.Errorf("invalid amount %q: %w", s, err)
	}

	if len(fracStr) > int(precision) {
		fracStr = fracStr[:precision]
	}
	var fracPart uint64
	if fracStr != "" {
		fracPart, err = strconv.ParseUint(fracStr, 10, 64)
		if err != nil {
			return Quantity{}, fmt.Errorf("invalid amount %q: %w", s, err)
		}
		fracPart *= pow10(precision - uint8(len(fracStr)))
	}

	amount, err := scaleAmount(intPart, fracPart, precision)
	if err != nil {
		return Quantity{}, err
	}
	return NewQuantity(amount, precision)
}

// ValidateForType applies the fungibility rules: fungible quantities must be
// positive at any valid precision, non-fungible quantities are whole-unit
// counts at precision 0.
func (q Quantity) ValidateForType(fungible bool) error {
	if q.Precision > MaxPrecision {
		return ErrPrecisionTooLarge
	}
	if !fungible && q.Precision != 0 {
		return ErrPrecisionMismatch
	}
	if q.Amount == 0 {
		return ErrZeroAmount
	}
	return nil
}

// SamePrecision reports whether two quantities are denominated alike.
func (q Quantity) SamePrecision(other Quantity) bool {
	return q.Precision == other.Precision
}

// Add returns q + other. Precisions must match and the result must stay in range.
func (q Quantity) Add(other Quantity) (Quantity, error) {
	if !q.SamePrecision(other) {
		return Quantity{}, ErrPrecisionMismatch
	}
	sum := q.Amount + other.Amount
	if sum >= maxAmount {
		return Quantity{}, ErrAmountTooLarge
	}
	return Quantity{Amount: sum, Precision: q.Precision}, nil
}

// Sub returns q - other, failing on precision mismatch or underflow.
func (q Quantity) Sub(other Quantity) (Quantity, error) {
	if !q.SamePrecision(other) {
		return Quantity{}, ErrPrecisionMismatch
	}
	if other.Amount > q.Amount {
		return Quantity{}, ErrInsufficientBalance
	}
	return Quantity{Amount: q.Amount - other.Amount, Precision: q.Precision}, nil
}

// IsZero reports whether the quantity has no amount.
func (q Quantity) IsZero() bool {
	return q.Amount == 0
}

// String renders the quantity as a decimal string, e.g. {150,2} -> "1.50".
func (q Quantity) String() string {
	if q.Precision == 0 {
		return strconv.FormatUint(q.Amount, 10)
	}
	p10 := pow10(q.Precision)
	intPart := q.Amount / p10
	fracPart := q.Amount % p10
	return fmt.Sprintf("%d.%0*d", intPart, q.Precision, fracPart)
}

// scaleAmount combines the integer and fraction digits into minimum units,
// rejecting integer parts that would wrap uint64 when scaled. The sum itself
// cannot wrap: intPart*10^p is bounded by maxAmount (< 2^62) and fracPart is
// below 10^p, so NewQuantity's range check sees the true value.
func scaleAmount(intPart, fracPart uint64, precision uint8) (uint64, error) {
	p10 := pow10(precision)
	if intPart > maxAmount/p10 {
		return 0, ErrAmountTooLarge
	}
	return intPart*p10 + fracPart, nil
}

func pow10(p uint8) uint64 {
	result := uint64(1)
	for ; p > 0; p-- {
		result *= 10
	}
	return result
}
