package handlers

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"marketplace/internal/models"
)

type checkoutItem struct {
	ProductID primitive.ObjectID
	Quantity  int
}

type sellerGroup struct {
	SellerID primitive.ObjectID
	Items    []models.OrderItem
	Total    float64
}

type productNotFoundError struct {
	ProductID primitive.ObjectID
}

func (e productNotFoundError) Error() string {
	return fmt.Sprintf("product not found: %s", e.ProductID.Hex())
}

type checkoutValidationError struct {
	Reason string
}

func (e checkoutValidationError) Error() string {
	return e.Reason
}

// groupItemsBySeller splits checkout items into one group per seller, freezing
// the current effective unit price and product name into each line. Groups are
// ordered by seller id so the result is deterministic.
func groupItemsBySeller(items []checkoutItem, products map[primitive.ObjectID]models.Product) ([]sellerGroup, error) {
	if len(items) == 0 {
		return nil, checkoutValidationError{Reason: "at least one item is required"}
	}

	bySeller := map[primitive.ObjectID]*sellerGroup{}
	for _, item := range items {
		if item.Quantity <= 0 {
			return nil, checkoutValidationError{Reason: "quantity must be greater than zero"}
		}

		product, ok := products[item.ProductID]
		if !ok {
			return nil, productNotFoundError{ProductID: item.ProductID}
		}

		group, ok := bySeller[product.SellerID]
		if !ok {
			group = &sellerGroup{SellerID: product.SellerID}
			bySeller[product.SellerID] = group
		}

		unit := effectiveUnitPrice(product.Price, product.Discount)
		group.Items = append(group.Items, models.OrderItem{
			ProductID: item.ProductID,
			Name:      product.Name,
			Price:     unit,
			Quantity:  item.Quantity,
		})
		group.Total += unit * float64(item.Quantity)
	}

	groups := make([]sellerGroup, 0, len(bySeller))
	for _, group := range bySeller {
		groups = append(groups, *group)
	}
	sort.Slice(groups, func(i, j int) bool {
		return groups[i].SellerID.Hex() < groups[j].SellerID.Hex()
	})

	return groups, nil
}

// newOrderNumber derives an order number from the current time with a short
// random suffix.
func newOrderNumber(now time.Time) string {
	buf := make([]byte, 2)
	_, _ = rand.Read(buf)
	return fmt.Sprintf("ORD-%d-%s", now.UnixMilli(), hex.EncodeToString(buf))
}
