package utils

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFormatMinorUnits(t *testing.T) {
	tests := []struct {
		name     string
		amount   int64
		currency string
		want     string
	}{
		{"two decimal currency", 12345, "EGP", "123.45"},
		{"negative amount", -2500, "EGP", "-25.00"},
		{"zero", 0, "USD", "0.00"},
		{"three decimal currency", 12345, "KWD", "12.345"},
		{"zero decimal currency", 12345, "JPY", "12345"},
		{"unknown currency falls back to two decimals", 150, "XXX", "1.50"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatMinorUnits(tt.amount, tt.currency))
		})
	}
}

func TestDecimalToMinorUnits(t *testing.T) {
	tests := []struct {
		name     string
		amount   string
		currency string
		want     int64
		wantErr  bool
	}{
		{"exact cents", "123.45", "EGP", 12345, false},
		{"whole number", "100", "USD", 10000, false},
		{"three decimals allowed for KWD", "12.345", "KWD", 12345, false},
		{"JPY has no minor units", "500", "JPY", 500, false},
		{"excess precision rejected", "1.005", "EGP", 0, true},
		{"excess precision rejected for JPY", "500.5", "JPY", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := decimal.NewFromString(tt.amount)
			assert.NoError(t, err)

			got, err := DecimalToMinorUnits(d, tt.currency)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), "precision")
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestMinorUnitsRoundTrip(t *testing.T) {
	for _, currency := range []string{"EGP", "USD", "KWD", "JPY"} {
		amount := int64(987654)
		back, err := DecimalToMinorUnits(MinorUnitsToDecimal(amount, currency), currency)
		assert.NoError(t, err)
		assert.Equal(t, amount, back, "round trip for %s", currency)
	}
}

func TestIsSupportedCurrency(t *testing.T) {
	assert.True(t, IsSupportedCurrency("EGP"))
	assert.True(t, IsSupportedCurrency("KWD"))
	assert.False(t, IsSupportedCurrency("XXX"))
	assert.False(t, IsSupportedCurrency("egp"), "codes are case sensitive")
	assert.False(t, IsSupportedCurrency(""))
}
