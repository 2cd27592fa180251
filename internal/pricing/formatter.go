package pricing

import (
	"strconv"
	"strings"

	"github.com/shopgrid/storefront-server/internal/models"
)

// CurrencyGlyph prefixes every formatted amount
const CurrencyGlyph = "$"

// Rules are the per-tenant locale rules for monetary display
type Rules struct {
	DecimalPlaces int
	ThousandsSep  string
	DecimalSep    string
}

// DefaultRules returns the rules applied when a tenant leaves them unset
func DefaultRules() Rules {
	return Rules{DecimalPlaces: 0, ThousandsSep: ".", DecimalSep: ","}
}

// RulesFromTenant extracts display rules from a tenant config, falling back
// to defaults field by field
func RulesFromTenant(cfg *models.TenantConfig) Rules {
	r := DefaultRules()
	if cfg == nil {
		return r
	}
	if cfg.DecimalPlaces > 0 {
		r.DecimalPlaces = cfg.DecimalPlaces
	}
	if cfg.ThousandsSeparator != "" {
		r.ThousandsSep = cfg.ThousandsSeparator
	}
	if cfg.DecimalSeparator != "" {
		r.DecimalSep = cfg.DecimalSeparator
	}
	return r
}

// Format renders a numeric amount according to the rules. Pure: identical
// inputs always yield identical output, no locale globals involved.
func Format(amount float64, rules Rules) string {
	places := rules.DecimalPlaces
	if places < 0 {
		places = 0
	}

	fixed := strconv.FormatFloat(amount, 'f', places, 64)

	intPart := fixed
	fracPart := ""
	if idx := strings.IndexByte(fixed, '.'); idx != -1 {
		intPart = fixed[:idx]
		fracPart = fixed[idx+1:]
	}

	sign := ""
	if strings.HasPrefix(intPart, "-") {
		sign = "-"
		intPart = intPart[1:]
	}

	var b strings.Builder
	b.WriteString(CurrencyGlyph)
	b.WriteString(sign)
	b.WriteString(group(intPart, rules.ThousandsSep))
	if places > 0 {
		b.WriteString(rules.DecimalSep)
		b.WriteString(fracPart)
	}

	return b.String()
}

// FormatAny renders loosely typed upstream price fields. Nil and anything
// non-numeric format as the empty string; the display layer decides what to
// render in that case.
func FormatAny(amount interface{}, rules Rules) string {
	switch v := amount.(type) {
	case nil:
		return ""
	case float64:
		return Format(v, rules)
	case float32:
		return Format(float64(v), rules)
	case int:
		return Format(float64(v), rules)
	case int64:
		return Format(float64(v), rules)
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return ""
		}
		return Format(f, rules)
	case *float64:
		if v == nil {
			return ""
		}
		return Format(*v, rules)
	default:
		return ""
	}
}

// group inserts the separator in runs of 3 digits from the right
func group(digits, sep string) string {
	if sep == "" || len(digits) <= 3 {
		return digits
	}

	var b strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteString(sep)
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
