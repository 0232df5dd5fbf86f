package handlers

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"marketplace/internal/models"
)

type createPaymentRequest struct {
	OrderID       string  `json:"orderId" binding:"required"`
	Amount        float64 `json:"amount" binding:"required,gt=0"`
	Method        string  `json:"method" binding:"required"`
	TransactionID string  `json:"transactionId"`
}

type updatePaymentStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// CreatePayment records a payment against an order and flips the order's
// paymentStatus to paid. Both writes happen in one transaction so a crash
// cannot leave a paid order without its payment record.
func CreatePayment(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /payment/create"
		defer handlePanic(c, route)

		buyerIDValue, ok := c.Get("userId")
		if !ok {
			respondWithError(c, http.StatusUnauthorized, route, "unauthorized")
			return
		}
		buyerID := buyerIDValue.(primitive.ObjectID)

		var req createPaymentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		orderID, err := primitive.ObjectIDFromHex(req.OrderID)
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid orderId")
			return
		}

		method := strings.ToLower(strings.TrimSpace(req.Method))
		if !models.ValidPaymentMethod(method) {
			respondWithError(c, http.StatusBadRequest, route, "invalid payment method")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
		defer cancel()

		session, err := db.Client().StartSession()
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		defer session.EndSession(ctx)

		var payment models.Payment
		_, err = session.WithTransaction(ctx, func(sessCtx mongo.SessionContext) (interface{}, error) {
			var order models.Order
			if err := db.Collection("orders").FindOne(sessCtx, bson.M{"_id": orderID}).Decode(&order); err != nil {
				return nil, err
			}

			payment = models.Payment{
				OrderID:       orderID,
				BuyerID:       buyerID,
				SellerID:      order.SellerID,
				Amount:        req.Amount,
				Method:        method,
				Status:        models.PaymentRecordSuccess,
				TransactionID: strings.TrimSpace(req.TransactionID),
				CreatedAt:     time.Now(),
			}

			res, err := db.Collection("payments").InsertOne(sessCtx, payment)
			if err != nil {
				return nil, err
			}
			if id, ok := res.InsertedID.(primitive.ObjectID); ok {
				payment.ID = id
			}

			_, err = db.Collection("orders").UpdateByID(sessCtx, orderID, bson.M{
				"$set": bson.M{"paymentStatus": models.PaymentStatusPaid},
			})
			return nil, err
		})
		if err != nil {
			if err == mongo.ErrNoDocuments {
				respondWithError(c, http.StatusNotFound, route, "order not found")
				return
			}
			log.Println("[PAYMENT] [ERROR] payment transaction failed:", err)
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		log.Println("[PAYMENT] [INFO] payment recorded for order:", orderID.Hex())
		respondOK(c, http.StatusCreated, "payment recorded", gin.H{"payment": payment})
	}
}

func GetSellerPayments(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /payment/seller/:sellerId"
		defer handlePanic(c, route)

		sellerID, ok := requireOwnUser(c, route, "sellerId")
		if !ok {
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
		cursor, err := db.Collection("payments").Find(ctx, bson.M{"sellerId": sellerID}, opts)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		defer cursor.Close(ctx)

		payments := make([]models.Payment, 0)
		if err := cursor.All(ctx, &payments); err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "decode error")
			return
		}

		respondOK(c, http.StatusOK, "payments fetched", gin.H{"payments": payments})
	}
}

// UpdatePaymentStatus is a free-form override; the value must belong to the
// enum but any transition is allowed.
func UpdatePaymentStatus(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /payment/status/:paymentId"
		defer handlePanic(c, route)

		paymentID, err := primitive.ObjectIDFromHex(c.Param("paymentId"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid paymentId")
			return
		}

		var req updatePaymentStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		status := strings.ToLower(strings.TrimSpace(req.Status))
		if !models.ValidPaymentRecordStatus(status) {
			respondWithError(c, http.StatusBadRequest, route, "invalid status")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		res, err := db.Collection("payments").UpdateByID(ctx, paymentID, bson.M{
			"$set": bson.M{"status": status},
		})
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		if res.MatchedCount == 0 {
			respondWithError(c, http.StatusNotFound, route, "payment not found")
			return
		}

		log.Println("[PAYMENT] [INFO] status updated for payment:", paymentID.Hex())
		respondOK(c, http.StatusOK, "payment updated", nil)
	}
}
