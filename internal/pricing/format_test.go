package pricing

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatNumber(t *testing.T) {
	// summed at run time; the constant expression 0.1 + 0.2 is exactly 0.3
	a, b := 0.1, 0.2

	tests := []struct {
		in   float64
		want string
	}{
		{2, "2"},
		{0.5, "0.5"},
		{1004, "1004"},
		{a + b, "0.30000000000000004"},
		{123456789.125, "123456789.125"},
		{1e20, "100000000000000000000"},
		{1e21, "1e+21"},
		{1.5e22, "1.5e+22"},
		{0.000001, "0.000001"},
		{1.5e-7, "1.5e-7"},
		{-2.5e-10, "-2.5e-10"},
		{0, "0"},
		{math.Copysign(0, -1), "0"},
		{-3, "-3"},
		{math.Inf(1), "Infinity"},
		{math.Inf(-1), "-Infinity"},
		{math.NaN(), "NaN"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatNumber(tt.in))
		})
	}
}
