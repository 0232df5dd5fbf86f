package handlers

import "testing"

func TestIsHotOffer(t *testing.T) {
	cases := []struct {
		price    float64
		discount float64
		want     bool
	}{
		{100, 80, true},
		{100, 0, false},
		{100, 100, false},
		{100, 120, false},
		{100, -5, false},
	}
	for _, tc := range cases {
		if got := isHotOffer(tc.price, tc.discount); got != tc.want {
			t.Fatalf("isHotOffer(%v, %v) = %v, want %v", tc.price, tc.discount, got, tc.want)
		}
	}
}

func TestEffectiveUnitPriceUsesDiscountWhenHotOffer(t *testing.T) {
	if got := effectiveUnitPrice(100, 75); got != 75 {
		t.Fatalf("expected discount price 75, got %v", got)
	}
	if got := effectiveUnitPrice(100, 0); got != 100 {
		t.Fatalf("expected list price 100 without discount, got %v", got)
	}
	if got := effectiveUnitPrice(100, 150); got != 100 {
		t.Fatalf("expected list price 100 when discount exceeds price, got %v", got)
	}
}

func TestValidatePricingRejectsDiscountAtOrAbovePrice(t *testing.T) {
	for _, discount := range []float64{100, 120} {
		if err := validatePricing(100, discount); err == nil {
			t.Fatalf("expected validation error for discount=%v", discount)
		}
	}
	if err := validatePricing(100, 80); err != nil {
		t.Fatalf("expected discount below price to pass, got %v", err)
	}
	if err := validatePricing(0, 0); err == nil {
		t.Fatal("expected validation error for zero price")
	}
}

func TestMatchCategorySingularAndPrefix(t *testing.T) {
	cases := []struct {
		requested string
		stored    string
		want      bool
	}{
		{"toys", "toys", true},
		{"toy", "toys", true},
		{"Toy", "toys", true},
		{"book", "books", true},
		{"elec", "electronics", true},
		{"fashion", "books", false},
		{"", "books", true},
	}
	for _, tc := range cases {
		if got := matchCategory(tc.requested, tc.stored); got != tc.want {
			t.Fatalf("matchCategory(%q, %q) = %v, want %v", tc.requested, tc.stored, got, tc.want)
		}
	}
}
