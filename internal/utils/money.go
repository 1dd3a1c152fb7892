package utils

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// currencyExponents maps ISO currency codes to their minor-unit exponent.
// Amounts are stored as int64 minor units everywhere; decimal is only used
// at the display boundary so no float rounding can creep into the ledger.
var currencyExponents = map[string]int32{
	"EGP": 2,
	"USD": 2,
	"EUR": 2,
	"SAR": 2,
	"KWD": 3,
	"JPY": 0,
}

const defaultExponent = 2

// IsSupportedCurrency reports whether the currency code is one the platform
// knows the minor-unit exponent for.
func IsSupportedCurrency(code string) bool {
	_, ok := currencyExponents[code]
	return ok
}

// MinorUnitsToDecimal converts an amount in minor units to a decimal value in
// major units for the given currency. Example: 12345 EGP -> 123.45.
func MinorUnitsToDecimal(amount int64, currencyCode string) decimal.Decimal {
	exp, ok := currencyExponents[currencyCode]
	if !ok {
		exp = defaultExponent
	}
	return decimal.New(amount, -exp)
}

// FormatMinorUnits renders an amount in minor units as a display string in
// major units, e.g. FormatMinorUnits(12345, "EGP") == "123.45".
func FormatMinorUnits(amount int64, currencyCode string) string {
	exp, ok := currencyExponents[currencyCode]
	if !ok {
		exp = defaultExponent
	}
	return MinorUnitsToDecimal(amount, currencyCode).StringFixed(exp)
}

// DecimalToMinorUnits converts a major-unit decimal amount into minor units.
// It fails if the value has more precision than the currency supports, so a
// request for 1.005 USD cannot silently lose a tenth of a cent.
func DecimalToMinorUnits(amount decimal.Decimal, currencyCode string) (int64, error) {
	exp, ok := currencyExponents[currencyCode]
	if !ok {
		exp = defaultExponent
	}
	scaled := amount.Shift(exp)
	if !scaled.IsInteger() {
		return 0, fmt.Errorf("amount %s has more precision than %s supports", amount.String(), currencyCode)
	}
	return scaled.IntPart(), nil
}
