package currency

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finopsia/finopsia/internal/common"
)

func TestConverter_ToSmallestUnit(t *testing.T) {
	converter := NewConverter()

	tests := []struct {
		name     string
		amount   string
		currency string
		want     int64
	}{
		{
			name:     "two decimal currency",
			amount:   "1000.50",
			currency: "NGN",
			want:     100050,
		},
		{
			name:     "rounds half away from zero",
			amount:   "10.005",
			currency: "USD",
			want:     1001,
		},
		{
			name:     "rounds negative half away from zero",
			amount:   "-10.005",
			currency: "USD",
			want:     -1001,
		},
		{
			name:     "zero decimal currency",
			amount:   "1500",
			currency: "JPY",
			want:     1500,
		},
		{
			name:     "zero decimal currency rounds fraction",
			amount:   "1500.4",
			currency: "JPY",
			want:     1500,
		},
		{
			name:     "zero amount",
			amount:   "0",
			currency: "EUR",
			want:     0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			amount := decimal.RequireFromString(tt.amount)
			got, err := converter.ToSmallestUnit(amount, tt.currency)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestConverter_UnsupportedCurrency(t *testing.T) {
	converter := NewConverter()

	_, err := converter.ToSmallestUnit(decimal.NewFromInt(10), "XXX")
	assert.True(t, errors.Is(err, common.ErrUnsupportedCurrency))

	_, err = converter.FromSmallestUnit(1000, "XXX")
	assert.True(t, errors.Is(err, common.ErrUnsupportedCurrency))
}

func TestConverter_RoundTrip(t *testing.T) {
	converter := NewConverter()

	amounts := []string{"0", "0.01", "1000.50", "-42.42", "99999999.99", "123456"}
	currencies := []string{"NGN", "USD", "EUR", "GBP", "KES", "JPY"}

	for _, code := range currencies {
		places, err := converter.Decimals(code)
		require.NoError(t, err)

		for _, raw := range amounts {
			// Only representable amounts participate in the law.
			amount := decimal.RequireFromString(raw).Round(places)

			smallest, err := converter.ToSmallestUnit(amount, code)
			require.NoError(t, err)

			back, err := converter.FromSmallestUnit(smallest, code)
			require.NoError(t, err)

			assert.True(t, amount.Equal(back),
				"round trip failed for %s %s: got %s", raw, code, back)
		}
	}
}

func TestConverter_CustomTable(t *testing.T) {
	converter := NewConverterWithTable(map[string]int32{"BHD": 3})

	smallest, err := converter.ToSmallestUnit(decimal.RequireFromString("1.234"), "BHD")
	require.NoError(t, err)
	assert.Equal(t, int64(1234), smallest)

	_, err = converter.ToSmallestUnit(decimal.NewFromInt(1), "USD")
	assert.True(t, errors.Is(err, common.ErrUnsupportedCurrency))
}
