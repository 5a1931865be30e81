package cronexpr_test

import (
	"testing"

	"github.com/hzerrad/cronloop/internal/cronexpr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_ValidExpressions(t *testing.T) {
	tests := []struct {
		name       string
		expression string
	}{
		{"every minute", "* * * * *"},
		{"hourly at zero", "0 * * * *"},
		{"step minute", "*/15 * * * *"},
		{"range hour", "0 9-17 * * *"},
		{"range with step", "0-59/5 * * * *"},
		{"list", "0 0,12 * * *"},
		{"dom only", "0 0 20 * *"},
		{"dow only", "0 9 * * 1-5"},
		{"dom and dow both restricted", "0 0 1 * 1"},
		{"weekday zero is sunday", "0 0 * * 0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := cronexpr.Parse(tt.expression)
			require.NoError(t, err)
		})
	}
}

func TestParse_InvalidExpressions(t *testing.T) {
	tests := []struct {
		name       string
		expression string
	}{
		{"too few fields", "0 * * *"},
		{"too many fields", "0 * * * * *"},
		{"empty", ""},
		{"whitespace only", "   "},
		{"weekday 7 not an alias", "0 0 * * 7"},
		{"month name rejected", "0 0 1 JAN *"},
		{"weekday name rejected", "0 0 * * MON"},
		{"descriptor rejected", "@daily"},
		{"step zero invalid", "*/0 * * * *"},
		{"reversed range", "0 0 20-10 * *"},
		{"out of range minute", "60 * * * *"},
		{"out of range hour", "0 24 * * *"},
		{"bare value with step", "5/10 * * * *"},
		{"non numeric literal", "x * * * *"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := cronexpr.Parse(tt.expression)
			assert.Error(t, err)
		})
	}
}

func TestParse_Deterministic(t *testing.T) {
	e1, err := cronexpr.Parse("*/5 9-17 * * 1-5")
	require.NoError(t, err)
	e2, err := cronexpr.Parse("*/5 9-17 * * 1-5")
	require.NoError(t, err)
	assert.Equal(t, e1.MinuteSet(5), e2.MinuteSet(5))
	assert.Equal(t, e1.HourSet(9), e2.HourSet(9))
}

func TestParse_RetainsSourceText(t *testing.T) {
	e, err := cronexpr.Parse("  */10 * * * *  ")
	require.NoError(t, err)
	assert.Equal(t, "*/10 * * * *", e.String())
}
