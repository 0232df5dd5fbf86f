package handlers

import (
	"context"
	"log"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"marketplace/internal/models"
)

type addProductRequest struct {
	Name        string   `json:"name" binding:"required"`
	Category    string   `json:"category" binding:"required"`
	Price       float64  `json:"price" binding:"required,gt=0"`
	Discount    float64  `json:"discount"`
	Stock       int      `json:"stock" binding:"gte=0"`
	Brand       string   `json:"brand"`
	Description string   `json:"description"`
	Images      []string `json:"images" binding:"required,min=1,max=4"`
}

type updateProductRequest struct {
	ID          string    `json:"id" binding:"required"`
	Name        *string   `json:"name"`
	Category    *string   `json:"category"`
	Price       *float64  `json:"price"`
	Discount    *float64  `json:"discount"`
	Stock       *int      `json:"stock"`
	Brand       *string   `json:"brand"`
	Description *string   `json:"description"`
	Images      *[]string `json:"images"`
}

/*
GET /product/getproducts
- all filters optional, invalid numeric bounds ignored
- no server-side pagination unless page+limit are both present
*/
func GetProducts(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /product/getproducts"
		defer handlePanic(c, route)

		log.Printf(
			"[%s] hit keyword=%s category=%s sort=%s sellerId=%s isHotOffer=%s",
			route,
			c.Query("keyword"),
			c.Query("category"),
			c.Query("sort"),
			c.Query("sellerId"),
			c.Query("isHotOffer"),
		)

		if err := ensureDBConnection(c.Request.Context(), db); err != nil {
			respondWithError(c, http.StatusServiceUnavailable, route, "database unavailable")
			return
		}

		filter := buildProductFilter(c)

		findOptions := options.Find().SetSort(productSort(c.Query("sort")))

		pageStr := c.Query("page")
		limitStr := c.Query("limit")
		if pageStr != "" && limitStr != "" {
			page, limit, err := parsePaginationParams(pageStr, limitStr)
			if err != nil {
				respondWithError(c, http.StatusBadRequest, route, "invalid pagination params")
				return
			}
			findOptions.SetSkip((page - 1) * limit).SetLimit(limit)
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		cursor, err := db.Collection("products").Find(ctx, filter, findOptions)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		defer cursor.Close(ctx)

		products, err := decodeProducts(ctx, cursor)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "decode error")
			return
		}

		log.Printf("[%s] returning %d products", route, len(products))
		respondOK(c, http.StatusOK, "products fetched", gin.H{"products": products})
	}
}

func buildProductFilter(c *gin.Context) bson.M {
	filter := bson.M{}

	if keyword := strings.TrimSpace(c.Query("keyword")); keyword != "" {
		pattern := regexp.QuoteMeta(keyword)
		filter["$or"] = []bson.M{
			{"name": bson.M{"$regex": pattern, "$options": "i"}},
			{"brand": bson.M{"$regex": pattern, "$options": "i"}},
			{"description": bson.M{"$regex": pattern, "$options": "i"}},
		}
	}

	if category := normalizeCategoryTerm(c.Query("category")); category != "" {
		filter["category"] = bson.M{"$regex": "^" + regexp.QuoteMeta(category), "$options": "i"}
	}

	if sellerID, err := primitive.ObjectIDFromHex(strings.TrimSpace(c.Query("sellerId"))); err == nil {
		filter["sellerId"] = sellerID
	}

	price := bson.M{}
	if min, err := strconv.ParseFloat(c.Query("minPrice"), 64); err == nil && min >= 0 {
		price["$gte"] = min
	}
	if max, err := strconv.ParseFloat(c.Query("maxPrice"), 64); err == nil && max > 0 {
		price["$lte"] = max
	}
	if len(price) > 0 {
		filter["price"] = price
	}

	if c.Query("isHotOffer") == "true" {
		filter["$expr"] = bson.M{"$and": []bson.M{
			{"$gt": []interface{}{"$discount", 0}},
			{"$lt": []interface{}{"$discount", "$price"}},
		}}
	}

	return filter
}

func productSort(sort string) bson.D {
	switch sort {
	case "price_asc":
		return bson.D{{Key: "price", Value: 1}}
	case "price_desc":
		return bson.D{{Key: "price", Value: -1}}
	default:
		return bson.D{{Key: "createdAt", Value: -1}}
	}
}

func GetProduct(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /product/getproduct/:id"
		defer handlePanic(c, route)

		productID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid id")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var raw bson.M
		if err := db.Collection("products").FindOne(ctx, bson.M{"_id": productID}).Decode(&raw); err != nil {
			respondWithError(c, http.StatusNotFound, route, "product not found")
			return
		}

		product, err := normalizeProductDocument(raw)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "decode error")
			return
		}

		respondOK(c, http.StatusOK, "product fetched", gin.H{"product": product})
	}
}

func AddProduct(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /product/addproduct"
		defer handlePanic(c, route)

		sellerIDValue, ok := c.Get("userId")
		if !ok {
			respondWithError(c, http.StatusUnauthorized, route, "unauthorized")
			return
		}
		sellerID := sellerIDValue.(primitive.ObjectID)

		var req addProductRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		category := strings.ToLower(strings.TrimSpace(req.Category))
		if !models.ValidCategory(category) {
			respondWithError(c, http.StatusBadRequest, route, "invalid category")
			return
		}

		if err := validatePricing(req.Price, req.Discount); err != nil {
			respondWithError(c, http.StatusBadRequest, route, err.Error())
			return
		}

		name := strings.TrimSpace(req.Name)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		count, err := db.Collection("products").CountDocuments(ctx, bson.M{
			"sellerId": sellerID,
			"name":     name,
		})
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		if count > 0 {
			respondWithError(c, http.StatusConflict, route, "product name already used")
			return
		}

		product := models.Product{
			SellerID:    sellerID,
			Name:        name,
			Category:    category,
			Price:       req.Price,
			Discount:    req.Discount,
			Stock:       req.Stock,
			Brand:       strings.TrimSpace(req.Brand),
			Description: strings.TrimSpace(req.Description),
			Images:      models.StringList(req.Images),
			CreatedAt:   time.Now(),
		}

		res, err := db.Collection("products").InsertOne(ctx, product)
		if err != nil {
			if mongo.IsDuplicateKeyError(err) {
				respondWithError(c, http.StatusConflict, route, "product name already used")
				return
			}
			log.Println("[PRODUCT] [ERROR] insert failed:", err)
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		id, _ := res.InsertedID.(primitive.ObjectID)
		log.Println("[PRODUCT] [INFO] product added:", name)
		respondOK(c, http.StatusCreated, "product added", gin.H{"productId": id.Hex()})
	}
}

func UpdateProduct(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /product/updateproduct"
		defer handlePanic(c, route)

		sellerIDValue, ok := c.Get("userId")
		if !ok {
			respondWithError(c, http.StatusUnauthorized, route, "unauthorized")
			return
		}
		sellerID := sellerIDValue.(primitive.ObjectID)

		var req updateProductRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		productID, err := primitive.ObjectIDFromHex(req.ID)
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid id")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var existing models.Product
		if err := db.Collection("products").FindOne(ctx, bson.M{"_id": productID}).Decode(&existing); err != nil {
			respondWithError(c, http.StatusNotFound, route, "product not found")
			return
		}
		if existing.SellerID != sellerID {
			respondWithError(c, http.StatusForbidden, route, "not your product")
			return
		}

		set := bson.M{}

		if req.Name != nil {
			name := strings.TrimSpace(*req.Name)
			if name == "" {
				respondWithError(c, http.StatusBadRequest, route, "name cannot be empty")
				return
			}
			set["name"] = name
		}

		if req.Category != nil {
			category := strings.ToLower(strings.TrimSpace(*req.Category))
			if !models.ValidCategory(category) {
				respondWithError(c, http.StatusBadRequest, route, "invalid category")
				return
			}
			set["category"] = category
		}

		price := existing.Price
		discount := existing.Discount
		if req.Price != nil {
			price = *req.Price
			set["price"] = price
		}
		if req.Discount != nil {
			discount = *req.Discount
			set["discount"] = discount
		}
		if req.Price != nil || req.Discount != nil {
			if err := validatePricing(price, discount); err != nil {
				respondWithError(c, http.StatusBadRequest, route, err.Error())
				return
			}
		}

		if req.Stock != nil {
			if *req.Stock < 0 {
				respondWithError(c, http.StatusBadRequest, route, "stock cannot be negative")
				return
			}
			set["stock"] = *req.Stock
		}
		if req.Brand != nil {
			set["brand"] = strings.TrimSpace(*req.Brand)
		}
		if req.Description != nil {
			set["description"] = strings.TrimSpace(*req.Description)
		}
		if req.Images != nil {
			if len(*req.Images) < 1 || len(*req.Images) > 4 {
				respondWithError(c, http.StatusBadRequest, route, "images must contain 1 to 4 entries")
				return
			}
			set["images"] = models.StringList(*req.Images)
		}

		if len(set) == 0 {
			respondWithError(c, http.StatusBadRequest, route, "nothing to update")
			return
		}

		if _, err := db.Collection("products").UpdateByID(ctx, productID, bson.M{"$set": set}); err != nil {
			if mongo.IsDuplicateKeyError(err) {
				respondWithError(c, http.StatusConflict, route, "product name already used")
				return
			}
			log.Println("[PRODUCT] [ERROR] update failed:", err)
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		respondOK(c, http.StatusOK, "product updated", nil)
	}
}

func DeleteProduct(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /product/deleteproduct/:id"
		defer handlePanic(c, route)

		sellerIDValue, ok := c.Get("userId")
		if !ok {
			respondWithError(c, http.StatusUnauthorized, route, "unauthorized")
			return
		}
		sellerID := sellerIDValue.(primitive.ObjectID)

		productID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid id")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		res, err := db.Collection("products").DeleteOne(ctx, bson.M{
			"_id":      productID,
			"sellerId": sellerID,
		})
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		if res.DeletedCount == 0 {
			respondWithError(c, http.StatusNotFound, route, "product not found")
			return
		}

		log.Println("[PRODUCT] [INFO] product deleted:", productID.Hex())
		respondOK(c, http.StatusOK, "product deleted", nil)
	}
}
