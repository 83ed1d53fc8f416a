package database

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	apperrors "styledecor-server/errors"
	"styledecor-server/model"
)

// FindPaymentByTransaction returns nil without error when the transaction has
// not been recorded yet.
func (s *Store) FindPaymentByTransaction(ctx context.Context, transactionId string) (*model.Payment, error) {
	var payment model.Payment
	err := s.payments.FindOne(ctx, bson.D{{Key: "transactionId", Value: transactionId}}).Decode(&payment)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.Storage("find payment", err)
	}
	return &payment, nil
}

// InsertPayment fails with ErrDuplicateRecord when the unique index on
// transactionId (or trackingId) rejects the document.
func (s *Store) InsertPayment(ctx context.Context, payment *model.Payment) (*model.InsertResult, error) {
	res, err := s.payments.InsertOne(ctx, payment)
	if mongo.IsDuplicateKeyError(err) {
		return nil, fmt.Errorf("%w: payment for transaction %s", apperrors.ErrDuplicateRecord, payment.TransactionId)
	}
	if err != nil {
		return nil, apperrors.Storage("insert payment", err)
	}
	return insertResult(res), nil
}

// ListPayments filters by customer email; an empty email lists everything.
func (s *Store) ListPayments(ctx context.Context, email string) ([]model.Payment, error) {
	filter := bson.D{}
	if email != "" {
		filter = bson.D{{Key: "customerEmail", Value: email}}
	}

	cur, err := s.payments.Find(ctx, filter)
	if err != nil {
		return nil, apperrors.Storage("find payments", err)
	}

	payments := []model.Payment{}
	if err := cur.All(ctx, &payments); err != nil {
		return nil, apperrors.Storage("decode payments", err)
	}
	return payments, nil
}
