package handlers

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"marketplace/internal/models"
)

func TestComputeSellerAnalytics(t *testing.T) {
	buyerA := primitive.NewObjectID()
	buyerB := primitive.NewObjectID()
	p1 := primitive.NewObjectID()
	p2 := primitive.NewObjectID()
	foreign := primitive.NewObjectID()

	orders := []models.Order{
		{BuyerID: buyerA, Status: models.OrderStatusPending},
		{BuyerID: buyerA, Status: models.OrderStatusDelivered},
		{BuyerID: buyerB, Status: models.OrderStatusShipped},
	}
	payments := []models.Payment{
		{Amount: 100, Status: models.PaymentRecordSuccess},
		{Amount: 50, Status: models.PaymentRecordSuccess},
		{Amount: 999, Status: models.PaymentRecordFailed},
	}
	reviews := []models.Review{
		{ProductID: p1},
		{ProductID: p2},
		{ProductID: foreign},
	}
	productIDs := []primitive.ObjectID{p1, p2}

	analytics := computeSellerAnalytics(orders, payments, len(productIDs), reviews, productIDs)

	if analytics.TotalOrders != 3 {
		t.Fatalf("expected 3 orders, got %d", analytics.TotalOrders)
	}
	if analytics.PendingOrders != 1 || analytics.DeliveredOrders != 1 {
		t.Fatalf("expected 1 pending and 1 delivered, got %d/%d", analytics.PendingOrders, analytics.DeliveredOrders)
	}
	if analytics.Revenue != 150 {
		t.Fatalf("expected revenue 150 from successful payments only, got %v", analytics.Revenue)
	}
	if analytics.DistinctBuyers != 2 {
		t.Fatalf("expected 2 distinct buyers, got %d", analytics.DistinctBuyers)
	}
	if analytics.TotalReviews != 2 {
		t.Fatalf("expected reviews of foreign products to be excluded, got %d", analytics.TotalReviews)
	}
	if analytics.TotalProducts != 2 {
		t.Fatalf("expected 2 products, got %d", analytics.TotalProducts)
	}
}

func TestComputeSellerAnalyticsEmpty(t *testing.T) {
	analytics := computeSellerAnalytics(nil, nil, 0, nil, nil)
	if analytics.TotalOrders != 0 || analytics.Revenue != 0 || analytics.DistinctBuyers != 0 {
		t.Fatalf("expected zero analytics, got %+v", analytics)
	}
}
