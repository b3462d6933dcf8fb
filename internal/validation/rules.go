package validation

import (
	"fmt"
	"net/mail"
	"regexp"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// Field length limits shared by every kind.
const (
	MaxDesignation = 200
	MaxAcronym     = 20
	MaxCode        = 20
	MaxOperation   = 200
	MaxDescription = 500
	MaxUsername    = 50
	MaxEmail       = 100
	MaxName        = 100
	MinBudgetYear  = 2000
	// QuantityScale and QuantityDigits match the NUMERIC(18, 3) quantity
	// columns: 3 decimals and 15 integer digits.
	QuantityScale  = 3
	QuantityDigits = 15
	// BudgetYearHorizon is how many years ahead of now a budget year may be.
	BudgetYearHorizon = 10
)

var budgetYearPattern = regexp.MustCompile(`^[0-9]{4}$`)

// BudgetYear checks the four digit format and the [2000, now+10] range.
func BudgetYear(entity, field, value string, now time.Time) error {
	if !budgetYearPattern.MatchString(value) {
		return &InvalidFormatError{Entity: entity, Field: field, Value: value, Reason: "must be exactly 4 digits"}
	}
	year, _ := strconv.Atoi(value)
	maxYear := now.Year() + BudgetYearHorizon
	if year < MinBudgetYear || year > maxYear {
		return &InvalidFormatError{
			Entity: entity,
			Field:  field,
			Value:  value,
			Reason: fmt.Sprintf("must be between %d and %d", MinBudgetYear, maxYear),
		}
	}
	return nil
}

// Positive requires value > 0.
func Positive(entity, field string, value decimal.Decimal) error {
	if !value.IsPositive() {
		return &InvalidFormatError{Entity: entity, Field: field, Value: value.String(), Reason: "must be positive"}
	}
	return nil
}

// NonNegative requires value >= 0.
func NonNegative(entity, field string, value decimal.Decimal) error {
	if value.IsNegative() {
		return &InvalidFormatError{Entity: entity, Field: field, Value: value.String(), Reason: "must not be negative"}
	}
	return nil
}

var maxQuantity = decimal.New(1, QuantityDigits)

// Quantity requires value to be stored without rounding: at most
// QuantityScale decimals and an absolute value below 10^QuantityDigits.
func Quantity(entity, field string, value decimal.Decimal) error {
	if !value.Equal(value.Truncate(QuantityScale)) {
		return &InvalidFormatError{
			Entity: entity, Field: field, Value: value.String(),
			Reason: fmt.Sprintf("must have at most %d decimal places", QuantityScale),
		}
	}
	if value.Abs().GreaterThanOrEqual(maxQuantity) {
		return &InvalidFormatError{
			Entity: entity, Field: field, Value: value.String(),
			Reason: fmt.Sprintf("must have at most %d integer digits", QuantityDigits),
		}
	}
	return nil
}

// Email requires a bare address, without display name.
func Email(entity, field, value string) error {
	addr, err := mail.ParseAddress(value)
	if err != nil || addr.Address != value {
		return &InvalidFormatError{Entity: entity, Field: field, Value: value, Reason: "must be a valid email address"}
	}
	return nil
}

// Date requires an ISO calendar date (YYYY-MM-DD).
func Date(entity, field, value string) (time.Time, error) {
	t, err := time.Parse(time.DateOnly, value)
	if err != nil {
		return time.Time{}, &InvalidFormatError{Entity: entity, Field: field, Value: value, Reason: "must be a date formatted YYYY-MM-DD"}
	}
	return t, nil
}
