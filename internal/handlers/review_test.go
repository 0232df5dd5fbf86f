package handlers

import (
	"testing"

	"marketplace/internal/models"
)

func TestAverageRating(t *testing.T) {
	reviews := []models.Review{
		{Rating: 5},
		{Rating: 4},
		{Rating: 3},
	}
	if got := averageRating(reviews); got != 4 {
		t.Fatalf("expected average 4, got %v", got)
	}
	if got := averageRating(nil); got != 0 {
		t.Fatalf("expected 0 for no reviews, got %v", got)
	}
}
