package ui

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestFormatPrice(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"0", "0 ₽"},
		{"100", "100 ₽"},
		{"1234", "1 234 ₽"},
		{"1234567", "1 234 567 ₽"},
		{"19.9", "19.90 ₽"},
		{"4999.99", "4 999.99 ₽"},
		{"-1500", "-1 500 ₽"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := FormatPrice(decimal.RequireFromString(tt.in)); got != tt.want {
				t.Errorf("FormatPrice(%s) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
