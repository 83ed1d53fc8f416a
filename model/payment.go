package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Payment records one completed provider transaction. There is at most one
// document per TransactionId.
type Payment struct {
	Id            primitive.ObjectID `json:"_id" bson:"_id"`
	Amount        float64            `json:"amount" bson:"amount"`
	Currency      string             `json:"currency" bson:"currency"`
	CustomerEmail string             `json:"customerEmail" bson:"customerEmail"`
	BookingId     string             `json:"bookingId" bson:"bookingId"`
	ServiceName   string             `json:"serviceName" bson:"serviceName"`
	TransactionId string             `json:"transactionId" bson:"transactionId"`
	PaymentStatus string             `json:"paymentStatus" bson:"paymentStatus"`
	PaidAt        time.Time          `json:"paidAt" bson:"paidAt"`
	TrackingId    string             `json:"trackingId" bson:"trackingId"`
}
