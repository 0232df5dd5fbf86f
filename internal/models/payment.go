package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	PaymentMethodCOD  = "cod"
	PaymentMethodCard = "card"
	PaymentMethodUPI  = "upi"
)

const (
	PaymentRecordSuccess = "success"
	PaymentRecordPending = "pending"
	PaymentRecordFailed  = "failed"
)

type Payment struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OrderID       primitive.ObjectID `bson:"orderId" json:"orderId"`
	BuyerID       primitive.ObjectID `bson:"buyerId" json:"buyerId"`
	SellerID      primitive.ObjectID `bson:"sellerId" json:"sellerId"`
	Amount        float64            `bson:"amount" json:"amount"`
	Method        string             `bson:"method" json:"method"`
	Status        string             `bson:"status" json:"status"`
	TransactionID string             `bson:"transactionId,omitempty" json:"transactionId,omitempty"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
}

func ValidPaymentMethod(method string) bool {
	return method == PaymentMethodCOD || method == PaymentMethodCard || method == PaymentMethodUPI
}

func ValidPaymentRecordStatus(status string) bool {
	return status == PaymentRecordSuccess || status == PaymentRecordPending || status == PaymentRecordFailed
}
