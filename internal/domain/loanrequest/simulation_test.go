package loanrequest

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loan-backoffice/internal/domain/apperror"
)

func TestSimulate_Quote(t *testing.T) {
	s, err := Simulate(150000, 8)
	require.NoError(t, err)

	assert.InDelta(t, 0.000636, s.EffectiveDailyRate, 0.000001)
	assert.Equal(t, int64(763), s.Interest)
	assert.Equal(t, int64(180000), s.TotalToPay)
	assert.Equal(t, int64(29237), s.Aval)
	assert.Equal(t, s.TotalToPay, s.Principal+s.Interest+s.Aval)
}

func TestSimulate_InterestIsWholePesos(t *testing.T) {
	rate := decimal.NewFromFloat(EffectiveDailyRate())
	for _, tc := range []struct {
		principal int64
		days      int
	}{{50000, 1}, {150000, 8}, {1000000, 15}, {2500000, 30}} {
		s, err := Simulate(tc.principal, tc.days)
		require.NoError(t, err)
		want := decimal.NewFromInt(tc.principal).Mul(rate).Mul(decimal.NewFromInt(int64(tc.days))).Round(0).IntPart()
		assert.Equal(t, want, s.Interest, "principal=%d days=%d", tc.principal, tc.days)
		assert.Equal(t, s.TotalToPay, s.Principal+s.Interest+s.Aval)
	}
}

func TestSimulate_Invalid(t *testing.T) {
	_, err := Simulate(0, 8)
	assert.True(t, errors.Is(err, apperror.ErrValidation))
	_, err = Simulate(150000, 0)
	assert.True(t, errors.Is(err, apperror.ErrValidation))
}
