package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shopgrid/storefront-server/internal/models"
)

func TestFormat(t *testing.T) {
	dotRules := Rules{DecimalPlaces: 0, ThousandsSep: ".", DecimalSep: ","}
	usRules := Rules{DecimalPlaces: 2, ThousandsSep: ",", DecimalSep: "."}

	tests := []struct {
		name   string
		amount float64
		rules  Rules
		want   string
	}{
		{"millions with dot grouping", 1234567, dotRules, "$1.234.567"},
		{"two decimals comma grouping", 1234.5, usRules, "$1,234.50"},
		{"no grouping under a thousand", 999, dotRules, "$999"},
		{"exact group boundary", 1000, dotRules, "$1.000"},
		{"zero", 0, dotRules, "$0"},
		{"zero with decimals", 0, usRules, "$0.00"},
		{"rounding up", 9.999, usRules, "$10.00"},
		{"negative amount", -1234.5, usRules, "$-1,234.50"},
		{"seven digits two decimals", 1234567.891, usRules, "$1,234,567.89"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Format(tt.amount, tt.rules))
		})
	}
}

func TestFormatIsPure(t *testing.T) {
	rules := Rules{DecimalPlaces: 2, ThousandsSep: ",", DecimalSep: "."}
	first := Format(98765.4, rules)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, Format(98765.4, rules))
	}
}

func TestFormatAny(t *testing.T) {
	rules := Rules{DecimalPlaces: 2, ThousandsSep: ",", DecimalSep: "."}

	assert.Equal(t, "", FormatAny(nil, rules))
	assert.Equal(t, "", FormatAny("not a number", rules))
	assert.Equal(t, "", FormatAny((*float64)(nil), rules))
	assert.Equal(t, "$1,234.50", FormatAny("1234.5", rules))
	assert.Equal(t, "$1,234.50", FormatAny(1234.5, rules))
	assert.Equal(t, "$12.00", FormatAny(12, rules))
	assert.Equal(t, "", FormatAny(struct{}{}, rules))
}

func TestRulesFromTenant(t *testing.T) {
	assert.Equal(t, DefaultRules(), RulesFromTenant(nil))

	cfg := &models.TenantConfig{
		DecimalPlaces:      2,
		ThousandsSeparator: ",",
		DecimalSeparator:   ".",
	}
	assert.Equal(t, Rules{DecimalPlaces: 2, ThousandsSep: ",", DecimalSep: "."}, RulesFromTenant(cfg))

	// Unset fields fall back one by one.
	partial := &models.TenantConfig{DecimalPlaces: 3}
	got := RulesFromTenant(partial)
	assert.Equal(t, 3, got.DecimalPlaces)
	assert.Equal(t, ".", got.ThousandsSep)
	assert.Equal(t, ",", got.DecimalSep)
}
