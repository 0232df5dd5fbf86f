package handlers

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"marketplace/internal/models"
)

func TestBuildCartViewRecomputesTotalsFromLiveProducts(t *testing.T) {
	p1 := primitive.NewObjectID()
	p2 := primitive.NewObjectID()

	items := []models.CartItem{
		{ProductID: p1, Quantity: 2},
		{ProductID: p2, Quantity: 3},
	}
	products := map[primitive.ObjectID]models.Product{
		p1: {ID: p1, Name: "Keyboard", Price: 50, Discount: 40, Stock: 10},
		p2: {ID: p2, Name: "Mouse", Price: 20, Discount: 0, Stock: 5},
	}

	view := buildCartView(items, products)

	if view.ItemCount != 5 {
		t.Fatalf("expected itemCount 5, got %d", view.ItemCount)
	}
	// 2*40 (discounted) + 3*20 = 140
	if view.SubTotal != 140 {
		t.Fatalf("expected subTotal 140, got %v", view.SubTotal)
	}
	if len(view.Items) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(view.Items))
	}
	if !view.Items[0].IsHotOffer || view.Items[0].UnitPrice != 40 {
		t.Fatalf("expected first line to use hot offer price 40, got %v", view.Items[0].UnitPrice)
	}
}

func TestBuildCartViewDropsMissingProducts(t *testing.T) {
	kept := primitive.NewObjectID()
	gone := primitive.NewObjectID()

	items := []models.CartItem{
		{ProductID: kept, Quantity: 1},
		{ProductID: gone, Quantity: 4},
	}
	products := map[primitive.ObjectID]models.Product{
		kept: {ID: kept, Name: "Lamp", Price: 30},
	}

	view := buildCartView(items, products)

	if len(view.Items) != 1 {
		t.Fatalf("expected deleted product line to be dropped, got %d lines", len(view.Items))
	}
	if view.ItemCount != 1 || view.SubTotal != 30 {
		t.Fatalf("expected totals from surviving line only, got count=%d subTotal=%v", view.ItemCount, view.SubTotal)
	}
}

func TestClampQuantity(t *testing.T) {
	if got := clampQuantity(0); got != 1 {
		t.Fatalf("expected clamp to 1, got %d", got)
	}
	if got := clampQuantity(-3); got != 1 {
		t.Fatalf("expected clamp to 1, got %d", got)
	}
	if got := clampQuantity(7); got != 7 {
		t.Fatalf("expected 7 to pass through, got %d", got)
	}
}

func TestExceedsStock(t *testing.T) {
	// buyer holds 3 of a stock-5 product and asks for 4 more
	if !exceedsStock(3, 4, 5) {
		t.Fatal("expected 3+4 to exceed stock 5")
	}
	if exceedsStock(3, 2, 5) {
		t.Fatal("expected 3+2 to fit stock 5")
	}
	if exceedsStock(0, 5, 5) {
		t.Fatal("expected exact stock to be allowed")
	}
}
