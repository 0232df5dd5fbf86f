package handlers

import (
	"context"
	"errors"
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

type createOrderItemRequest struct {
	ProductID string `json:"productId" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required"`
}

type createOrderRequest struct {
	Items           []createOrderItemRequest `json:"items" binding:"required"`
	ShippingAddress string                   `json:"shippingAddress" binding:"required"`
}

type updateOrderStatusRequest struct {
	Status        *string `json:"status"`
	PaymentStatus *string `json:"paymentStatus"`
}

// CreateOrder turns a checkout into one order per seller. All orders of the
// checkout are written inside a single transaction, so a failing seller
// group rolls back the ones already inserted.
func CreateOrder(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /order/create"
		defer handlePanic(c, route)

		if err := ensureDBConnection(c.Request.Context(), db); err != nil {
			respondWithError(c, http.StatusServiceUnavailable, route, "database unavailable")
			return
		}

		buyerIDValue, ok := c.Get("userId")
		if !ok {
			respondWithError(c, http.StatusUnauthorized, route, "unauthorized")
			return
		}
		buyerID := buyerIDValue.(primitive.ObjectID)

		var req createOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		items := make([]checkoutItem, 0, len(req.Items))
		for _, item := range req.Items {
			productID, err := primitive.ObjectIDFromHex(item.ProductID)
			if err != nil {
				respondWithError(c, http.StatusBadRequest, route, "invalid productId")
				return
			}
			items = append(items, checkoutItem{ProductID: productID, Quantity: item.Quantity})
		}
		if len(items) == 0 {
			respondWithError(c, http.StatusBadRequest, route, "at least one item is required")
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

		var created []models.Order
		_, err = session.WithTransaction(ctx, func(sessCtx mongo.SessionContext) (interface{}, error) {
			products := make(map[primitive.ObjectID]models.Product, len(items))
			for _, item := range items {
				var product models.Product
				err := db.Collection("products").FindOne(sessCtx, bson.M{"_id": item.ProductID}).Decode(&product)
				if err == mongo.ErrNoDocuments {
					return nil, productNotFoundError{ProductID: item.ProductID}
				}
				if err != nil {
					return nil, err
				}
				products[product.ID] = product
			}

			groups, err := groupItemsBySeller(items, products)
			if err != nil {
				return nil, err
			}

			now := time.Now()
			created = make([]models.Order, 0, len(groups))
			for _, group := range groups {
				order := models.Order{
					OrderNumber:     newOrderNumber(now),
					BuyerID:         buyerID,
					SellerID:        group.SellerID,
					Items:           group.Items,
					Total:           group.Total,
					Status:          models.OrderStatusPending,
					PaymentStatus:   models.PaymentStatusPending,
					ShippingAddress: strings.TrimSpace(req.ShippingAddress),
					CreatedAt:       now,
				}

				res, err := db.Collection("orders").InsertOne(sessCtx, order)
				if err != nil {
					return nil, err
				}
				if id, ok := res.InsertedID.(primitive.ObjectID); ok {
					order.ID = id
				}
				created = append(created, order)
			}

			return nil, nil
		})
		if err != nil {
			var notFoundErr productNotFoundError
			if errors.As(err, &notFoundErr) {
				respondWithError(c, http.StatusNotFound, route, notFoundErr.Error())
				return
			}
			var checkoutErr checkoutValidationError
			if errors.As(err, &checkoutErr) {
				respondWithError(c, http.StatusBadRequest, route, checkoutErr.Reason)
				return
			}
			log.Println("[ORDER] [ERROR] checkout transaction failed:", err)
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		// The cart served its purpose once the orders exist.
		_, _ = db.Collection("carts").UpdateOne(ctx,
			bson.M{"userId": buyerID},
			bson.M{"$set": bson.M{"items": []models.CartItem{}, "updatedAt": time.Now()}})

		log.Printf("[ORDER] [INFO] %d order(s) created for buyer %s", len(created), buyerID.Hex())
		respondOK(c, http.StatusCreated, "orders created", gin.H{"orders": created})
	}
}

func GetBuyerOrders(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /order/buyer/:buyerId"
		defer handlePanic(c, route)

		buyerID, ok := requireOwnUser(c, route, "buyerId")
		if !ok {
			return
		}

		orders, err := findOrders(c.Request.Context(), db, bson.M{"buyerId": buyerID})
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		respondOK(c, http.StatusOK, "orders fetched", gin.H{"orders": orders})
	}
}

func GetSellerOrders(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /order/seller/:sellerId"
		defer handlePanic(c, route)

		sellerID, ok := requireOwnUser(c, route, "sellerId")
		if !ok {
			return
		}

		orders, err := findOrders(c.Request.Context(), db, bson.M{"sellerId": sellerID})
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		respondOK(c, http.StatusOK, "orders fetched", gin.H{"orders": orders})
	}
}

func findOrders(parent context.Context, db *mongo.Database, filter bson.M) ([]models.Order, error) {
	ctx, cancel := context.WithTimeout(parent, 5*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := db.Collection("orders").Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	orders := make([]models.Order, 0)
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// UpdateOrderStatus sets whichever status fields are present. Values must
// belong to the closed enums, but any transition is accepted; there is no
// ordering guard between states.
func UpdateOrderStatus(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /order/status/:orderId"
		defer handlePanic(c, route)

		orderID, err := primitive.ObjectIDFromHex(c.Param("orderId"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid orderId")
			return
		}

		var req updateOrderStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		set := bson.M{}
		if req.Status != nil {
			if !models.ValidOrderStatus(*req.Status) {
				respondWithError(c, http.StatusBadRequest, route, "invalid status")
				return
			}
			set["status"] = *req.Status
		}
		if req.PaymentStatus != nil {
			if !models.ValidPaymentStatus(*req.PaymentStatus) {
				respondWithError(c, http.StatusBadRequest, route, "invalid paymentStatus")
				return
			}
			set["paymentStatus"] = *req.PaymentStatus
		}
		if len(set) == 0 {
			respondWithError(c, http.StatusBadRequest, route, "nothing to update")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		res, err := db.Collection("orders").UpdateByID(ctx, orderID, bson.M{"$set": set})
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		if res.MatchedCount == 0 {
			respondWithError(c, http.StatusNotFound, route, "order not found")
			return
		}

		log.Println("[ORDER] [INFO] status updated for order:", orderID.Hex())
		respondOK(c, http.StatusOK, "order updated", nil)
	}
}
