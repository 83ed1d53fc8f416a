package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	BookingStatusPending = "pending"
	BookingStatusSuccess = "success"
)

type Booking struct {
	Id           primitive.ObjectID `json:"_id" bson:"_id"`
	UserEmail    string             `json:"userEmail" bson:"userEmail"`
	UserName     string             `json:"userName,omitempty" bson:"userName,omitempty"`
	ServiceId    string             `json:"serviceId" bson:"serviceId"`
	ServiceName  string             `json:"serviceName" bson:"serviceName"`
	ServicePrice float64            `json:"servicePrice" bson:"servicePrice"`
	BookingDate  string             `json:"bookingDate,omitempty" bson:"bookingDate,omitempty"`
	Location     string             `json:"location,omitempty" bson:"location,omitempty"`
	Status       string             `json:"status" bson:"status"`
	Paid         bool               `json:"paid" bson:"paid"`
	TrackingId   string             `json:"trackingId,omitempty" bson:"trackingId,omitempty"`
	CreatedAt    time.Time          `json:"createdAt" bson:"createdAt"`
}

// BookingRequest is the accepted body of POST /bookings.
type BookingRequest struct {
	UserEmail    string  `json:"userEmail" validate:"required,email"`
	UserName     string  `json:"userName" validate:"omitempty,max=120"`
	ServiceId    string  `json:"serviceId" validate:"required,len=24,hexadecimal"`
	ServiceName  string  `json:"serviceName" validate:"required,max=200"`
	ServicePrice float64 `json:"servicePrice" validate:"gt=0"`
	BookingDate  string  `json:"bookingDate" validate:"omitempty,max=64"`
	Location     string  `json:"location" validate:"omitempty,max=300"`
}

// NewBooking turns a validated request into a pending, unpaid booking.
func NewBooking(req BookingRequest, now time.Time) *Booking {
	return &Booking{
		Id:           primitive.NewObjectID(),
		UserEmail:    req.UserEmail,
		UserName:     req.UserName,
		ServiceId:    req.ServiceId,
		ServiceName:  req.ServiceName,
		ServicePrice: req.ServicePrice,
		BookingDate:  req.BookingDate,
		Location:     req.Location,
		Status:       BookingStatusPending,
		Paid:         false,
		CreatedAt:    now.UTC(),
	}
}
