package handlers

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"styledecor-server/model"
)

type mockServiceStore struct {
	ListServicesFunc func(ctx context.Context, limit int64) ([]model.CatalogEntry, error)
	GetServiceFunc   func(ctx context.Context, id primitive.ObjectID) (model.CatalogEntry, error)
}

func (m *mockServiceStore) ListServices(ctx context.Context, limit int64) ([]model.CatalogEntry, error) {
	return m.ListServicesFunc(ctx, limit)
}

func (m *mockServiceStore) GetService(ctx context.Context, id primitive.ObjectID) (model.CatalogEntry, error) {
	return m.GetServiceFunc(ctx, id)
}

type mockBookingStore struct {
	CreateBookingFunc       func(ctx context.Context, booking *model.Booking) (*model.InsertResult, error)
	ListBookingsByEmailFunc func(ctx context.Context, email string) ([]model.Booking, error)
	DeleteBookingFunc       func(ctx context.Context, id primitive.ObjectID) (*model.DeleteResult, error)
}

func (m *mockBookingStore) CreateBooking(ctx context.Context, booking *model.Booking) (*model.InsertResult, error) {
	return m.CreateBookingFunc(ctx, booking)
}

func (m *mockBookingStore) ListBookingsByEmail(ctx context.Context, email string) ([]model.Booking, error) {
	return m.ListBookingsByEmailFunc(ctx, email)
}

func (m *mockBookingStore) DeleteBooking(ctx context.Context, id primitive.ObjectID) (*model.DeleteResult, error) {
	return m.DeleteBookingFunc(ctx, id)
}

type mockPaymentReader struct {
	ListPaymentsFunc func(ctx context.Context, email string) ([]model.Payment, error)
}

func (m *mockPaymentReader) ListPayments(ctx context.Context, email string) ([]model.Payment, error) {
	return m.ListPaymentsFunc(ctx, email)
}

type mockCheckout struct {
	InitiateFunc func(ctx context.Context, req model.CheckoutRequest) (string, error)
	ConfirmFunc  func(ctx context.Context, sessionId string) (*model.ConfirmResult, error)
}

func (m *mockCheckout) Initiate(ctx context.Context, req model.CheckoutRequest) (string, error) {
	return m.InitiateFunc(ctx, req)
}

func (m *mockCheckout) Confirm(ctx context.Context, sessionId string) (*model.ConfirmResult, error) {
	return m.ConfirmFunc(ctx, sessionId)
}
