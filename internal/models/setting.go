package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Setting holds one seller's store configuration, upserted as a single
// document per seller.
type Setting struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	SellerID     primitive.ObjectID `bson:"sellerId" json:"sellerId"`
	StoreName    string             `bson:"storeName" json:"storeName"`
	StoreEmail   string             `bson:"storeEmail,omitempty" json:"storeEmail,omitempty"`
	StorePhone   string             `bson:"storePhone,omitempty" json:"storePhone,omitempty"`
	StoreAddress string             `bson:"storeAddress,omitempty" json:"storeAddress,omitempty"`
	Currency     string             `bson:"currency" json:"currency"`
	Timezone     string             `bson:"timezone" json:"timezone"`
	TaxPercent   float64            `bson:"taxPercent" json:"taxPercent"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
}
