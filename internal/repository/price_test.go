package repository

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizePrice(t *testing.T) {
	cases := []struct {
		in   any
		want float64
	}{
		{"1,234.50", 1234.5},
		{1234.50, 1234.5},
		{"1,200", 1200},
		{" 99 ", 99},
		{"0.5", 0.5},
		{int64(15), 15},
		{7, 7},
		{float32(2.5), 2.5},
	}
	for _, tc := range cases {
		got, err := NormalizePrice(tc.in)
		require.NoError(t, err, "%v", tc.in)
		assert.Equal(t, tc.want, got, "%v", tc.in)
	}
}

func TestNormalizePrice_Idempotent(t *testing.T) {
	for _, in := range []any{"1,234.50", 1234.5, "12", 0.01} {
		once, err := NormalizePrice(in)
		require.NoError(t, err)
		twice, err := NormalizePrice(once)
		require.NoError(t, err)
		assert.Equal(t, once, twice)
	}
}

func TestNormalizePrice_Rejects(t *testing.T) {
	for _, in := range []any{"", "abc", "12abc", "1.2.3", "NaN", "Inf", "0x1p4", "0X1P-2", "1_000", true, nil, []string{"1"}} {
		_, err := NormalizePrice(in)
		var ve *ValidationError
		require.True(t, errors.As(err, &ve), "%v", in)
		assert.Equal(t, "price", ve.Field)
		assert.Equal(t, ErrInvalidPriceFormat, ve.Message)
	}
}
