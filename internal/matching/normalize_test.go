package matching

import (
	"testing"
)

func TestRemoveDiacritics(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"café", "cafe"},
		{"jalapeño", "jalapeno"},
		{"crème fraîche", "creme fraiche"},
		{"Müsli", "Musli"},
		{"plain text", "plain text"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result := RemoveDiacritics(tt.input)
			if result != tt.expected {
				t.Errorf("RemoveDiacritics(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestNormalizeProductName(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"Lowercases", "Whole Milk", "whole milk"},
		{"Folds diacritics", "Café au Lait", "cafe au lait"},
		{"Drops punctuation", "Ben & Jerry's Ice-Cream", "ben jerry s ice cream"},
		{"Keeps percent and dot", "Milk 3.2%", "milk 3.2%"},
		{"Collapses whitespace", "  organic   eggs  ", "organic eggs"},
		{"Empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := NormalizeProductName(tt.input)
			if result != tt.expected {
				t.Errorf("NormalizeProductName(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestNormalizeUnit(t *testing.T) {
	tests := []struct {
		name     string
		unit     string
		quantity string
		expected string
	}{
		{"Liter alias", "ltr", "", "l"},
		{"Pieces alias", "pcs", "", "ea"},
		{"Quantity prepended", "ml", "500", "500ml"},
		{"Milliliters to liters", "ml", "1000", "1l"},
		{"Grams to kilograms", "g", "1500", "1.5kg"},
		{"Below threshold stays", "g", "250", "250g"},
		{"Pounds alias", "lbs", "", "lb"},
		{"Unknown passthrough", "bunch", "", "bunch"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := NormalizeUnit(tt.unit, tt.quantity)
			if result != tt.expected {
				t.Errorf("NormalizeUnit(%q, %q) = %q, want %q", tt.unit, tt.quantity, result, tt.expected)
			}
		})
	}
}
