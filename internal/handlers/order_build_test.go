package handlers

import (
	"errors"
	"strings"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"marketplace/internal/models"
)

func TestGroupItemsBySellerOneOrderPerSeller(t *testing.T) {
	sellerA := primitive.NewObjectID()
	sellerB := primitive.NewObjectID()
	p1 := primitive.NewObjectID()
	p2 := primitive.NewObjectID()
	p3 := primitive.NewObjectID()

	products := map[primitive.ObjectID]models.Product{
		p1: {ID: p1, SellerID: sellerA, Name: "Desk", Price: 200, Discount: 150},
		p2: {ID: p2, SellerID: sellerA, Name: "Chair", Price: 80},
		p3: {ID: p3, SellerID: sellerB, Name: "Rug", Price: 40},
	}
	items := []checkoutItem{
		{ProductID: p1, Quantity: 1},
		{ProductID: p2, Quantity: 2},
		{ProductID: p3, Quantity: 3},
	}

	groups, err := groupItemsBySeller(items, products)
	if err != nil {
		t.Fatalf("groupItemsBySeller returned error: %v", err)
	}
	if len(groups) != 2 {
		t.Fatalf("expected 2 seller groups, got %d", len(groups))
	}

	totals := map[primitive.ObjectID]float64{}
	for _, group := range groups {
		totals[group.SellerID] = group.Total
	}
	// sellerA: 1*150 (hot offer) + 2*80 = 310
	if totals[sellerA] != 310 {
		t.Fatalf("expected sellerA total 310, got %v", totals[sellerA])
	}
	if totals[sellerB] != 120 {
		t.Fatalf("expected sellerB total 120, got %v", totals[sellerB])
	}
}

func TestGroupItemsBySellerFreezesEffectivePrice(t *testing.T) {
	seller := primitive.NewObjectID()
	p := primitive.NewObjectID()

	products := map[primitive.ObjectID]models.Product{
		p: {ID: p, SellerID: seller, Name: "Desk", Price: 200, Discount: 150},
	}

	groups, err := groupItemsBySeller([]checkoutItem{{ProductID: p, Quantity: 2}}, products)
	if err != nil {
		t.Fatalf("groupItemsBySeller returned error: %v", err)
	}
	line := groups[0].Items[0]
	if line.Price != 150 {
		t.Fatalf("expected frozen unit price 150, got %v", line.Price)
	}
	if line.Name != "Desk" {
		t.Fatalf("expected frozen product name, got %q", line.Name)
	}
	if groups[0].Total != 300 {
		t.Fatalf("expected total 300, got %v", groups[0].Total)
	}
}

func TestGroupItemsBySellerRejectsBadInput(t *testing.T) {
	seller := primitive.NewObjectID()
	p := primitive.NewObjectID()
	products := map[primitive.ObjectID]models.Product{
		p: {ID: p, SellerID: seller, Price: 10},
	}

	if _, err := groupItemsBySeller(nil, products); err == nil {
		t.Fatal("expected error for empty items")
	}

	if _, err := groupItemsBySeller([]checkoutItem{{ProductID: p, Quantity: 0}}, products); err == nil {
		t.Fatal("expected error for zero quantity")
	}

	missing := primitive.NewObjectID()
	_, err := groupItemsBySeller([]checkoutItem{{ProductID: missing, Quantity: 1}}, products)
	var notFound productNotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected productNotFoundError, got %v", err)
	}
	if notFound.ProductID != missing {
		t.Fatalf("expected missing product id in error, got %s", notFound.ProductID.Hex())
	}
}

func TestNewOrderNumberIsTimeDerived(t *testing.T) {
	now := time.Now()
	number := newOrderNumber(now)

	if !strings.HasPrefix(number, "ORD-") {
		t.Fatalf("expected ORD- prefix, got %q", number)
	}
	if !strings.Contains(number, "-") {
		t.Fatalf("expected delimited order number, got %q", number)
	}

	other := newOrderNumber(now)
	if number == other {
		t.Fatalf("expected random suffix to differ, got %q twice", number)
	}
}
