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

type settingRequest struct {
	StoreName    string  `json:"storeName" binding:"required"`
	StoreEmail   string  `json:"storeEmail"`
	StorePhone   string  `json:"storePhone"`
	StoreAddress string  `json:"storeAddress"`
	Currency     string  `json:"currency"`
	Timezone     string  `json:"timezone"`
	TaxPercent   float64 `json:"taxPercent" binding:"gte=0,lte=100"`
}

func GetSetting(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /setting/:sellerId"
		defer handlePanic(c, route)

		sellerID, err := primitive.ObjectIDFromHex(c.Param("sellerId"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid sellerId")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var setting models.Setting
		err = db.Collection("settings").FindOne(ctx, bson.M{"sellerId": sellerID}).Decode(&setting)
		if err == mongo.ErrNoDocuments {
			setting = models.Setting{
				SellerID: sellerID,
				Currency: "USD",
				Timezone: "UTC",
			}
		} else if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		respondOK(c, http.StatusOK, "setting fetched", gin.H{"setting": setting})
	}
}

// SaveSetting upserts the single settings document of a seller.
func SaveSetting(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /setting/:sellerId"
		defer handlePanic(c, route)

		sellerID, ok := requireOwnUser(c, route, "sellerId")
		if !ok {
			return
		}

		var req settingRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		currency := strings.ToUpper(strings.TrimSpace(req.Currency))
		if currency == "" {
			currency = "USD"
		}
		timezone := strings.TrimSpace(req.Timezone)
		if timezone == "" {
			timezone = "UTC"
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		update := bson.M{
			"$set": bson.M{
				"storeName":    strings.TrimSpace(req.StoreName),
				"storeEmail":   strings.TrimSpace(req.StoreEmail),
				"storePhone":   strings.TrimSpace(req.StorePhone),
				"storeAddress": strings.TrimSpace(req.StoreAddress),
				"currency":     currency,
				"timezone":     timezone,
				"taxPercent":   req.TaxPercent,
				"updatedAt":    time.Now(),
			},
			"$setOnInsert": bson.M{"sellerId": sellerID},
		}

		opts := options.Update().SetUpsert(true)
		if _, err := db.Collection("settings").UpdateOne(ctx, bson.M{"sellerId": sellerID}, update, opts); err != nil {
			log.Println("[SETTING] [ERROR] save failed:", err)
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		var setting models.Setting
		if err := db.Collection("settings").FindOne(ctx, bson.M{"sellerId": sellerID}).Decode(&setting); err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		log.Println("[SETTING] [INFO] settings saved for seller:", sellerID.Hex())
		respondOK(c, http.StatusOK, "setting saved", gin.H{"setting": setting})
	}
}
