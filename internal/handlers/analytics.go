package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"marketplace/internal/models"
)

// SellerAnalytics is computed per request by folding over the seller's full
// orders, payments, products and reviews. Nothing is precomputed or cached.
type SellerAnalytics struct {
	TotalOrders     int     `json:"totalOrders"`
	PendingOrders   int     `json:"pendingOrders"`
	DeliveredOrders int     `json:"deliveredOrders"`
	Revenue         float64 `json:"revenue"`
	TotalProducts   int     `json:"totalProducts"`
	DistinctBuyers  int     `json:"distinctBuyers"`
	TotalReviews    int     `json:"totalReviews"`
}

func computeSellerAnalytics(orders []models.Order, payments []models.Payment, productCount int, reviews []models.Review, productIDs []primitive.ObjectID) SellerAnalytics {
	analytics := SellerAnalytics{
		TotalOrders:   len(orders),
		TotalProducts: productCount,
	}

	buyers := map[primitive.ObjectID]struct{}{}
	for _, order := range orders {
		switch order.Status {
		case models.OrderStatusPending:
			analytics.PendingOrders++
		case models.OrderStatusDelivered:
			analytics.DeliveredOrders++
		}
		buyers[order.BuyerID] = struct{}{}
	}
	analytics.DistinctBuyers = len(buyers)

	for _, payment := range payments {
		if payment.Status == models.PaymentRecordSuccess {
			analytics.Revenue += payment.Amount
		}
	}

	owned := map[primitive.ObjectID]struct{}{}
	for _, id := range productIDs {
		owned[id] = struct{}{}
	}
	for _, review := range reviews {
		if _, ok := owned[review.ProductID]; ok {
			analytics.TotalReviews++
		}
	}

	return analytics
}

func GetSellerAnalytics(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /analytics/seller/:sellerId"
		defer handlePanic(c, route)

		sellerID, ok := requireOwnUser(c, route, "sellerId")
		if !ok {
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
		defer cancel()

		orders, err := loadAll[models.Order](ctx, db, "orders", bson.M{"sellerId": sellerID})
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		payments, err := loadAll[models.Payment](ctx, db, "payments", bson.M{"sellerId": sellerID})
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		rawIDs, err := db.Collection("products").Distinct(ctx, "_id", bson.M{"sellerId": sellerID})
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		productIDs := make([]primitive.ObjectID, 0, len(rawIDs))
		for _, v := range rawIDs {
			if id, ok := v.(primitive.ObjectID); ok {
				productIDs = append(productIDs, id)
			}
		}

		reviews := make([]models.Review, 0)
		if len(productIDs) > 0 {
			reviews, err = loadAll[models.Review](ctx, db, "reviews", bson.M{"productId": bson.M{"$in": productIDs}})
			if err != nil {
				respondWithError(c, http.StatusInternalServerError, route, "db error")
				return
			}
		}

		analytics := computeSellerAnalytics(orders, payments, len(productIDs), reviews, productIDs)
		respondOK(c, http.StatusOK, "analytics fetched", gin.H{"analytics": analytics})
	}
}

func loadAll[T any](ctx context.Context, db *mongo.Database, collection string, filter bson.M) ([]T, error) {
	cursor, err := db.Collection(collection).Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	out := make([]T, 0)
	if err := cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
