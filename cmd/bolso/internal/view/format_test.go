package view_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pvaz/bolso/cmd/bolso/internal/view"
)

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		cents int64
		want  string
	}{
		{0, "R$ 0,00"},
		{5, "R$ 0,05"},
		{100, "R$ 1,00"},
		{123456, "R$ 1.234,56"},
		{100000000, "R$ 1.000.000,00"},
		{-9950, "-R$ 99,50"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, view.FormatAmount(tt.cents))
	}
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in      string
		want    int64
		wantErr bool
	}{
		{"1234,56", 123456, false},
		{"1234.56", 123456, false},
		{" 10 ", 1000, false},
		{"0,05", 5, false},
		{"-3", 0, true},
		{"abc", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		got, err := view.ParseAmount(tt.in)
		if tt.wantErr {
			assert.Error(t, err, "input %q", tt.in)
			continue
		}

		require.NoError(t, err, "input %q", tt.in)
		assert.Equal(t, tt.want, got, "input %q", tt.in)
	}
}

func TestProgressBar(t *testing.T) {
	assert.Equal(t, "░░░░░░░░░░", view.ProgressBar(0, 10))
	assert.Equal(t, "█████░░░░░", view.ProgressBar(50, 10))
	assert.Equal(t, "██████████", view.ProgressBar(100, 10))
	// Percentages above 100 stay clamped to the bar width.
	assert.Equal(t, "██████████", view.ProgressBar(250, 10))
}
