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

type buyerProfileRequest struct {
	Name      string           `json:"name" binding:"required"`
	Mobile    string           `json:"mobile" binding:"required"`
	Image     string           `json:"image"`
	Addresses []addressRequest `json:"addresses"`
}

type addressRequest struct {
	ID        string `json:"id"`
	Title     string `json:"title" binding:"required"`
	Detail    string `json:"detail" binding:"required"`
	Note      string `json:"note"`
	IsDefault bool   `json:"isDefault"`
}

// SaveBuyerProfile creates or updates the caller's buyer profile. The
// addresses list replaces the stored one in the order it was sent.
func SaveBuyerProfile(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /customer/profile"
		defer handlePanic(c, route)

		userIDValue, ok := c.Get("userId")
		if !ok {
			respondWithError(c, http.StatusUnauthorized, route, "unauthorized")
			return
		}
		userID := userIDValue.(primitive.ObjectID)

		var req buyerProfileRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		addresses := make([]models.Address, 0, len(req.Addresses))
		for _, a := range req.Addresses {
			id := strings.TrimSpace(a.ID)
			if id == "" {
				id = primitive.NewObjectID().Hex()
			}
			addresses = append(addresses, models.Address{
				ID:        id,
				Title:     strings.TrimSpace(a.Title),
				Detail:    strings.TrimSpace(a.Detail),
				Note:      strings.TrimSpace(a.Note),
				IsDefault: a.IsDefault,
			})
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		now := time.Now()
		update := bson.M{
			"$set": bson.M{
				"name":      strings.TrimSpace(req.Name),
				"mobile":    strings.TrimSpace(req.Mobile),
				"image":     strings.TrimSpace(req.Image),
				"addresses": addresses,
				"updatedAt": now,
			},
			"$setOnInsert": bson.M{
				"userId":    userID,
				"createdAt": now,
			},
		}

		opts := options.Update().SetUpsert(true)
		if _, err := db.Collection("buyers").UpdateOne(ctx, bson.M{"userId": userID}, update, opts); err != nil {
			if mongo.IsDuplicateKeyError(err) {
				respondWithError(c, http.StatusConflict, route, "mobile already in use")
				return
			}
			log.Println("[PROFILE] [ERROR] buyer profile save failed:", err)
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		_, _ = db.Collection("users").UpdateByID(ctx, userID, bson.M{
			"$set": bson.M{"profileCreated": true, "updatedAt": now},
		})

		var profile models.BuyerProfile
		if err := db.Collection("buyers").FindOne(ctx, bson.M{"userId": userID}).Decode(&profile); err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		log.Println("[PROFILE] [INFO] buyer profile saved for:", userID.Hex())
		respondOK(c, http.StatusOK, "profile saved", gin.H{"profile": profile})
	}
}

func GetBuyerProfile(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /customer/getprofile/:id"
		defer handlePanic(c, route)

		userID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid id")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var profile models.BuyerProfile
		if err := db.Collection("buyers").FindOne(ctx, bson.M{"userId": userID}).Decode(&profile); err != nil {
			respondWithError(c, http.StatusNotFound, route, "profile not found")
			return
		}

		respondOK(c, http.StatusOK, "profile fetched", gin.H{"profile": profile})
	}
}
