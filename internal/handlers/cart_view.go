package handlers

import (
	"go.mongodb.org/mongo-driver/bson/primitive"

	"marketplace/internal/models"
)

// CartLine is one cart entry joined with live product data. Prices here are
// current catalog prices, not prices captured when the item was added.
type CartLine struct {
	ProductID  primitive.ObjectID `json:"productId"`
	Name       string             `json:"name"`
	Image      string             `json:"image,omitempty"`
	Quantity   int                `json:"quantity"`
	UnitPrice  float64            `json:"unitPrice"`
	LineTotal  float64            `json:"lineTotal"`
	Stock      int                `json:"stock"`
	IsHotOffer bool               `json:"isHotOffer"`
}

type CartView struct {
	Items     []CartLine `json:"items"`
	ItemCount int        `json:"itemCount"`
	SubTotal  float64    `json:"subTotal"`
}

// buildCartView recomputes the derived cart totals from live products.
// Lines whose product no longer exists are dropped from the view.
func buildCartView(items []models.CartItem, products map[primitive.ObjectID]models.Product) CartView {
	view := CartView{Items: make([]CartLine, 0, len(items))}

	for _, item := range items {
		product, ok := products[item.ProductID]
		if !ok {
			continue
		}

		unit := effectiveUnitPrice(product.Price, product.Discount)
		image := ""
		if len(product.Images) > 0 {
			image = product.Images[0]
		}

		line := CartLine{
			ProductID:  item.ProductID,
			Name:       product.Name,
			Image:      image,
			Quantity:   item.Quantity,
			UnitPrice:  unit,
			LineTotal:  unit * float64(item.Quantity),
			Stock:      product.Stock,
			IsHotOffer: isHotOffer(product.Price, product.Discount),
		}

		view.Items = append(view.Items, line)
		view.ItemCount += item.Quantity
		view.SubTotal += line.LineTotal
	}

	return view
}

func clampQuantity(quantity int) int {
	if quantity < 1 {
		return 1
	}
	return quantity
}

// exceedsStock gates a cart add: the line the cart would end up holding must
// not exceed the stock captured right now. Stock is never reserved.
func exceedsStock(existingQty, requestedQty, stock int) bool {
	return existingQty+requestedQty > stock
}
