package lib

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseUnits(t *testing.T) {
	tests := []struct {
		in       string
		decimals int
		out      string
	}{
		{"10000", 18, "10000000000000000000000"},
		{"1.5", 18, "1500000000000000000"},
		{"0.000000000000000001", 18, "1"},
		{"42", 0, "42"},
	}
	for _, tt := range tests {
		n, err := ParseUnits(tt.in, tt.decimals)
		require.NoError(t, err, tt.in)
		require.Equal(t, tt.out, n.String(), tt.in)
	}
}

func TestParseUnitsInvalid(t *testing.T) {
	for _, in := range []string{"", "abc", "1.0000000000000000001", "1.2.3"} {
		_, err := ParseUnits(in, 18)
		require.ErrorIs(t, err, ErrInvalidAmount, in)
	}
}

func TestFormatUnits(t *testing.T) {
	require.Equal(t, "10000", FormatUnits(MustParseUnits("10000", 18), 18))
	require.Equal(t, "0.05", FormatUnits(MustParseUnits("0.05", 18), 18))
	require.Equal(t, "-1.5", FormatUnits(big.NewInt(-15), 1))
	require.Equal(t, "0", FormatUnits(nil, 18))
}
