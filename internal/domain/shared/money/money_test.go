package money

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewValidatesCurrency(t *testing.T) {
	m, err := New(1500, "usd")
	require.NoError(t, err)
	assert.Equal(t, "USD", m.Currency)

	_, err = New(100, "US")
	assert.ErrorIs(t, err, ErrInvalidCurrency)
}

func TestArithmetic(t *testing.T) {
	a := Must(10000, "USD")
	b := Must(2500, "USD")

	sum, err := a.Add(b)
	require.NoError(t, err)
	assert.Equal(t, int64(12500), sum.Amount)

	diff, err := a.Sub(b)
	require.NoError(t, err)
	assert.Equal(t, int64(7500), diff.Amount)

	_, err = a.Add(Must(100, "EUR"))
	assert.ErrorIs(t, err, ErrCurrencyMismatch)

	assert.Equal(t, int64(-10000), a.Neg().Amount)
	assert.Equal(t, int64(30000), a.Multiply(3).Amount)
}

func TestScaleRoundsToNearestCent(t *testing.T) {
	assert.Equal(t, int64(9100), Must(70000, "USD").Scale(13, 100).Amount)
	assert.Equal(t, int64(10179), Must(71253, "USD").Scale(1, 7).Amount)
	// 0.5 cents rounds away from zero
	assert.Equal(t, int64(1), Must(1, "USD").Scale(1, 2).Amount)
	assert.Equal(t, int64(-1), Must(-1, "USD").Scale(1, 2).Amount)
}

func TestString(t *testing.T) {
	assert.Equal(t, "101.79 USD", Must(10179, "USD").String())
	assert.Equal(t, "-0.05 USD", Must(-5, "USD").String())
}
