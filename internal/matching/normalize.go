// Package matching normalizes free-text product names so that prices
// recorded from different sources (receipts, manual entry, feeds) can be
// compared with a simple substring match.
package matching

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	punctRe      = regexp.MustCompile(`[^\p{L}\p{N}\s.%]`)
	whitespaceRe = regexp.MustCompile(`\s+`)
)

// RemoveDiacritics folds accented characters to their base form so that
// "café" and "cafe" compare equal.
func RemoveDiacritics(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return result
}

// NormalizeProductName lowercases a product name, folds diacritics, drops
// punctuation, and collapses whitespace. The result is what gets stored
// and what price lookups match against.
func NormalizeProductName(name string) string {
	s := RemoveDiacritics(name)
	s = strings.ToLower(s)
	s = punctRe.ReplaceAllString(s, " ")
	s = whitespaceRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// NormalizeUnit converts a unit label to canonical form, converting to
// base units where the quantity allows ("1000 ml" -> "1l").
func NormalizeUnit(unit, quantity string) string {
	u := strings.ToLower(strings.TrimSpace(unit))
	q := strings.TrimSpace(quantity)

	switch u {
	case "ltr", "lit", "liter", "litre":
		u = "l"
	case "gr", "gram", "grams":
		u = "g"
	case "pcs", "pc", "pack", "ct", "count":
		u = "ea"
	case "oz.":
		u = "oz"
	case "lbs":
		u = "lb"
	}

	if q != "" {
		if converted, ok := toBaseUnit(u, q); ok {
			return converted
		}
		return q + u
	}
	return u
}

func toBaseUnit(u, q string) (string, bool) {
	var base string
	switch u {
	case "ml":
		base = "l"
	case "g":
		base = "kg"
	default:
		return "", false
	}

	val, err := strconv.ParseFloat(q, 64)
	if err != nil || val < 1000 {
		return "", false
	}
	return strconv.FormatFloat(val/1000, 'f', -1, 64) + base, true
}
