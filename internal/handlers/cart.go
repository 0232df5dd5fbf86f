package handlers

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"marketplace/internal/models"
)

type addCartItemRequest struct {
	ProductID string `json:"productId" binding:"required"`
	Quantity  int    `json:"quantity"`
}

type updateCartItemRequest struct {
	Quantity int `json:"quantity" binding:"required"`
}

// requireOwnUser checks that the :userId path param belongs to the caller.
// Admins may act on any user's cart.
func requireOwnUser(c *gin.Context, route, param string) (primitive.ObjectID, bool) {
	userID, err := primitive.ObjectIDFromHex(c.Param(param))
	if err != nil {
		respondWithError(c, http.StatusBadRequest, route, "invalid userId")
		return primitive.NilObjectID, false
	}

	callerValue, ok := c.Get("userId")
	if !ok {
		respondWithError(c, http.StatusUnauthorized, route, "unauthorized")
		return primitive.NilObjectID, false
	}
	role, _ := c.Get("role")
	if callerValue.(primitive.ObjectID) != userID && role != models.RoleAdmin {
		respondWithError(c, http.StatusForbidden, route, "forbidden")
		return primitive.NilObjectID, false
	}

	return userID, true
}

func AddCartItem(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /cart/add"
		defer handlePanic(c, route)

		callerValue, ok := c.Get("userId")
		if !ok {
			respondWithError(c, http.StatusUnauthorized, route, "unauthorized")
			return
		}
		userID := callerValue.(primitive.ObjectID)

		var req addCartItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		productID, err := primitive.ObjectIDFromHex(req.ProductID)
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid productId")
			return
		}

		quantity := clampQuantity(req.Quantity)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var product models.Product
		if err := db.Collection("products").FindOne(ctx, bson.M{"_id": productID}).Decode(&product); err != nil {
			respondWithError(c, http.StatusNotFound, route, "product not found")
			return
		}

		var cart models.Cart
		err = db.Collection("carts").FindOne(ctx, bson.M{"userId": userID}).Decode(&cart)
		if err != nil && err != mongo.ErrNoDocuments {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		existingQty := 0
		for _, item := range cart.Items {
			if item.ProductID == productID {
				existingQty = item.Quantity
				break
			}
		}

		if exceedsStock(existingQty, quantity, product.Stock) {
			log.Printf("[CART] [ERROR] stock exceeded for product %s: have %d, want %d, stock %d",
				productID.Hex(), existingQty, quantity, product.Stock)
			respondWithError(c, http.StatusBadRequest, route, "requested quantity exceeds stock")
			return
		}

		now := time.Now()
		if err == mongo.ErrNoDocuments {
			cart = models.Cart{
				UserID: userID,
				Items: []models.CartItem{{
					ProductID: productID,
					Quantity:  quantity,
					AddedAt:   now,
				}},
				CreatedAt: now,
				UpdatedAt: now,
			}
			if _, err := db.Collection("carts").InsertOne(ctx, cart); err != nil {
				log.Println("[CART] [ERROR] cart insert failed:", err)
				respondWithError(c, http.StatusInternalServerError, route, "db error")
				return
			}
		} else if existingQty > 0 {
			_, err = db.Collection("carts").UpdateOne(ctx,
				bson.M{"userId": userID, "items.productId": productID},
				bson.M{
					"$inc": bson.M{"items.$.quantity": quantity},
					"$set": bson.M{"updatedAt": now},
				})
			if err != nil {
				log.Println("[CART] [ERROR] cart update failed:", err)
				respondWithError(c, http.StatusInternalServerError, route, "db error")
				return
			}
		} else {
			_, err = db.Collection("carts").UpdateOne(ctx,
				bson.M{"userId": userID},
				bson.M{
					"$push": bson.M{"items": models.CartItem{
						ProductID: productID,
						Quantity:  quantity,
						AddedAt:   now,
					}},
					"$set": bson.M{"updatedAt": now},
				})
			if err != nil {
				log.Println("[CART] [ERROR] cart push failed:", err)
				respondWithError(c, http.StatusInternalServerError, route, "db error")
				return
			}
		}

		log.Println("[CART] [INFO] item added for user:", userID.Hex())
		respondOK(c, http.StatusOK, "item added to cart", nil)
	}
}

func GetCart(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /cart/get/:userId"
		defer handlePanic(c, route)

		userID, ok := requireOwnUser(c, route, "userId")
		if !ok {
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var cart models.Cart
		err := db.Collection("carts").FindOne(ctx, bson.M{"userId": userID}).Decode(&cart)
		if err == mongo.ErrNoDocuments {
			respondOK(c, http.StatusOK, "cart fetched", gin.H{"cart": CartView{Items: []CartLine{}}})
			return
		}
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		products, err := fetchCartProducts(ctx, db, cart.Items)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		respondOK(c, http.StatusOK, "cart fetched", gin.H{"cart": buildCartView(cart.Items, products)})
	}
}

func fetchCartProducts(ctx context.Context, db *mongo.Database, items []models.CartItem) (map[primitive.ObjectID]models.Product, error) {
	products := make(map[primitive.ObjectID]models.Product, len(items))
	if len(items) == 0 {
		return products, nil
	}

	ids := make([]primitive.ObjectID, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ProductID)
	}

	cursor, err := db.Collection("products").Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	decoded, err := decodeProducts(ctx, cursor)
	if err != nil {
		return nil, err
	}
	for _, p := range decoded {
		products[p.ID] = p
	}

	return products, nil
}

func UpdateCartItem(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /cart/update/:userId/:productId"
		defer handlePanic(c, route)

		userID, ok := requireOwnUser(c, route, "userId")
		if !ok {
			return
		}

		productID, err := primitive.ObjectIDFromHex(c.Param("productId"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid productId")
			return
		}

		var req updateCartItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		quantity := clampQuantity(req.Quantity)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		res, err := db.Collection("carts").UpdateOne(ctx,
			bson.M{"userId": userID, "items.productId": productID},
			bson.M{
				"$set": bson.M{
					"items.$.quantity": quantity,
					"updatedAt":        time.Now(),
				},
			})
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		if res.MatchedCount == 0 {
			respondWithError(c, http.StatusNotFound, route, "cart item not found")
			return
		}

		respondOK(c, http.StatusOK, "cart item updated", nil)
	}
}

func RemoveCartItem(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /cart/remove/:userId/:productId"
		defer handlePanic(c, route)

		userID, ok := requireOwnUser(c, route, "userId")
		if !ok {
			return
		}

		productID, err := primitive.ObjectIDFromHex(c.Param("productId"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid productId")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		res, err := db.Collection("carts").UpdateOne(ctx,
			bson.M{"userId": userID},
			bson.M{
				"$pull": bson.M{"items": bson.M{"productId": productID}},
				"$set":  bson.M{"updatedAt": time.Now()},
			})
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		if res.MatchedCount == 0 {
			respondWithError(c, http.StatusNotFound, route, "cart not found")
			return
		}

		respondOK(c, http.StatusOK, "cart item removed", nil)
	}
}

func ClearCart(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /cart/clear/:userId"
		defer handlePanic(c, route)

		userID, ok := requireOwnUser(c, route, "userId")
		if !ok {
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		_, err := db.Collection("carts").UpdateOne(ctx,
			bson.M{"userId": userID},
			bson.M{
				"$set": bson.M{
					"items":     []models.CartItem{},
					"updatedAt": time.Now(),
				},
			})
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		respondOK(c, http.StatusOK, "cart cleared", nil)
	}
}
