package handlers

import (
	"fmt"
	"strings"
)

// isHotOffer reports whether a product qualifies as a hot offer: the
// discount price must be positive and strictly below the list price.
func isHotOffer(price, discount float64) bool {
	return discount > 0 && discount < price
}

// effectiveUnitPrice is the price a buyer actually pays right now.
func effectiveUnitPrice(price, discount float64) float64 {
	if isHotOffer(price, discount) {
		return discount
	}
	return price
}

func validatePricing(price, discount float64) error {
	if price <= 0 {
		return fmt.Errorf("price must be greater than 0")
	}
	if discount < 0 {
		return fmt.Errorf("discount cannot be negative")
	}
	if discount > 0 && discount >= price {
		return fmt.Errorf("discount must be less than price")
	}
	return nil
}

// matchCategory compares a requested category against a stored one with the
// loose matching the catalog uses: case-insensitive, singular-normalized
// (trailing "s" dropped), prefix match.
func matchCategory(requested, stored string) bool {
	req := normalizeCategoryTerm(requested)
	if req == "" {
		return true
	}
	return strings.HasPrefix(normalizeCategoryTerm(stored), req)
}

func normalizeCategoryTerm(value string) string {
	term := strings.ToLower(strings.TrimSpace(value))
	if len(term) > 1 && strings.HasSuffix(term, "s") {
		term = strings.TrimSuffix(term, "s")
	}
	return term
}
