package models_test

import (
	"testing"

	"github.com/odiadev/odia-backend/pkg/models"
)

func TestIsNigerianPhone(t *testing.T) {
	cases := []struct {
		phone string
		want  bool
	}{
		{"+2348012345678", true},
		{"+2349098765432", true},
		{"+234801234567", false},   // nine digits after prefix
		{"+23480123456789", false}, // eleven digits after prefix
		{"08012345678", false},     // local format
		{"+15551234567", false},
		{"", false},
	}
	for _, tc := range cases {
		if got := models.IsNigerianPhone(tc.phone); got != tc.want {
			t.Errorf("IsNigerianPhone(%q) = %v, want %v", tc.phone, got, tc.want)
		}
	}
}

func TestFormatNaira(t *testing.T) {
	cases := []struct {
		amount int
		want   string
	}{
		{0, "₦0"},
		{500, "₦500"},
		{15000, "₦15,000"},
		{1250000, "₦1,250,000"},
		{-20000, "-₦20,000"},
	}
	for _, tc := range cases {
		if got := models.FormatNaira(tc.amount); got != tc.want {
			t.Errorf("FormatNaira(%d) = %q, want %q", tc.amount, got, tc.want)
		}
	}
}
