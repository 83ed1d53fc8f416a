package database

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	apperrors "styledecor-server/errors"
	"styledecor-server/model"
)

func (s *Store) CreateBooking(ctx context.Context, booking *model.Booking) (*model.InsertResult, error) {
	res, err := s.bookings.InsertOne(ctx, booking)
	if err != nil {
		return nil, apperrors.Storage("insert booking", err)
	}
	return insertResult(res), nil
}

func (s *Store) ListBookingsByEmail(ctx context.Context, email string) ([]model.Booking, error) {
	cur, err := s.bookings.Find(ctx, bson.D{{Key: "userEmail", Value: email}})
	if err != nil {
		return nil, apperrors.Storage("find bookings", err)
	}

	bookings := []model.Booking{}
	if err := cur.All(ctx, &bookings); err != nil {
		return nil, apperrors.Storage("decode bookings", err)
	}
	return bookings, nil
}

// DeleteBooking reports zero deleted documents for an unknown id.
func (s *Store) DeleteBooking(ctx context.Context, id primitive.ObjectID) (*model.DeleteResult, error) {
	res, err := s.bookings.DeleteOne(ctx, bson.D{{Key: "_id", Value: id}})
	if err != nil {
		return nil, apperrors.Storage("delete booking", err)
	}
	return deleteResult(res), nil
}

// MarkBookingPaid is the single mutation a booking receives after creation.
// Only unpaid bookings match, so calling it again for the same booking is a
// no-op reporting zero matched documents.
func (s *Store) MarkBookingPaid(ctx context.Context, id primitive.ObjectID, trackingId string) (*model.UpdateResult, error) {
	filter := bson.D{
		{Key: "_id", Value: id},
		{Key: "paid", Value: bson.D{{Key: "$ne", Value: true}}},
	}
	update := bson.D{{Key: "$set", Value: bson.D{
		{Key: "status", Value: model.BookingStatusSuccess},
		{Key: "paid", Value: true},
		{Key: "trackingId", Value: trackingId},
	}}}

	res, err := s.bookings.UpdateOne(ctx, filter, update)
	if err != nil {
		return nil, apperrors.Storage("update booking", err)
	}
	if res.MatchedCount == 0 {
		s.log.Debug("booking absent or already paid", zap.String("bookingId", id.Hex()), zap.String("trackingId", trackingId))
	}
	return updateResult(res), nil
}
