package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Categories is the closed set of product categories.
var Categories = []string{
	"electronics",
	"fashion",
	"grocery",
	"home",
	"beauty",
	"sports",
	"toys",
	"books",
}

type Product struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	SellerID    primitive.ObjectID `bson:"sellerId" json:"sellerId"`
	Name        string             `bson:"name" json:"name"`
	Category    string             `bson:"category" json:"category"`
	Price       float64            `bson:"price" json:"price"`
	Discount    float64            `bson:"discount" json:"discount"`
	IsHotOffer  bool               `bson:"-" json:"isHotOffer"`
	Stock       int                `bson:"stock" json:"stock"`
	InStock     bool               `bson:"-" json:"inStock"`
	Brand       string             `bson:"brand,omitempty" json:"brand,omitempty"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	Images      StringList         `bson:"images" json:"images"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
}

func ValidCategory(category string) bool {
	for _, c := range Categories {
		if c == category {
			return true
		}
	}
	return false
}
