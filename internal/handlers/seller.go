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

type sellerProfileRequest struct {
	Name    string `json:"name" binding:"required"`
	Address string `json:"address" binding:"required"`
	Mobile  string `json:"mobile" binding:"required"`
	Image   string `json:"image"`
}

func SaveSellerProfile(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /seller/sellerprofile"
		defer handlePanic(c, route)

		userIDValue, ok := c.Get("userId")
		if !ok {
			respondWithError(c, http.StatusUnauthorized, route, "unauthorized")
			return
		}
		userID := userIDValue.(primitive.ObjectID)

		var req sellerProfileRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		now := time.Now()
		update := bson.M{
			"$set": bson.M{
				"name":      strings.TrimSpace(req.Name),
				"address":   strings.TrimSpace(req.Address),
				"mobile":    strings.TrimSpace(req.Mobile),
				"image":     strings.TrimSpace(req.Image),
				"updatedAt": now,
			},
			"$setOnInsert": bson.M{
				"userId":    userID,
				"createdAt": now,
			},
		}

		opts := options.Update().SetUpsert(true)
		if _, err := db.Collection("sellers").UpdateOne(ctx, bson.M{"userId": userID}, update, opts); err != nil {
			if mongo.IsDuplicateKeyError(err) {
				respondWithError(c, http.StatusConflict, route, "mobile already in use")
				return
			}
			log.Println("[PROFILE] [ERROR] seller profile save failed:", err)
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		_, _ = db.Collection("users").UpdateByID(ctx, userID, bson.M{
			"$set": bson.M{"profileCreated": true, "updatedAt": now},
		})

		var profile models.SellerProfile
		if err := db.Collection("sellers").FindOne(ctx, bson.M{"userId": userID}).Decode(&profile); err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		log.Println("[PROFILE] [INFO] seller profile saved for:", userID.Hex())
		respondOK(c, http.StatusOK, "profile saved", gin.H{"profile": profile})
	}
}

func GetSellerProfile(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /seller/getprofile/:id"
		defer handlePanic(c, route)

		userID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid id")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var profile models.SellerProfile
		if err := db.Collection("sellers").FindOne(ctx, bson.M{"userId": userID}).Decode(&profile); err != nil {
			respondWithError(c, http.StatusNotFound, route, "profile not found")
			return
		}

		respondOK(c, http.StatusOK, "profile fetched", gin.H{"profile": profile})
	}
}

// GetSellerCustomers lists the distinct buyers that have ordered from a
// seller, joined with their buyer profiles.
func GetSellerCustomers(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /seller/customers/:sellerId"
		defer handlePanic(c, route)

		sellerID, err := primitive.ObjectIDFromHex(c.Param("sellerId"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid sellerId")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		buyerIDs, err := db.Collection("orders").Distinct(ctx, "buyerId", bson.M{"sellerId": sellerID})
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		ids := make([]primitive.ObjectID, 0, len(buyerIDs))
		for _, v := range buyerIDs {
			if id, ok := v.(primitive.ObjectID); ok {
				ids = append(ids, id)
			}
		}

		customers := make([]models.BuyerProfile, 0)
		if len(ids) > 0 {
			cursor, err := db.Collection("buyers").Find(ctx, bson.M{"userId": bson.M{"$in": ids}})
			if err != nil {
				respondWithError(c, http.StatusInternalServerError, route, "db error")
				return
			}
			defer cursor.Close(ctx)

			if err := cursor.All(ctx, &customers); err != nil {
				respondWithError(c, http.StatusInternalServerError, route, "decode error")
				return
			}
		}

		respondOK(c, http.StatusOK, "customers fetched", gin.H{
			"customers": customers,
			"count":     len(ids),
		})
	}
}
