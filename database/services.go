package database

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	apperrors "styledecor-server/errors"
	"styledecor-server/model"
)

// ListServices returns service documents in storage order, unchanged; limit
// <= 0 means all.
func (s *Store) ListServices(ctx context.Context, limit int64) ([]model.CatalogEntry, error) {
	findOptions := options.Find()
	if limit > 0 {
		findOptions.SetLimit(limit)
	}

	cur, err := s.services.Find(ctx, bson.D{}, findOptions)
	if err != nil {
		return nil, apperrors.Storage("find services", err)
	}

	services := []model.CatalogEntry{}
	if err := cur.All(ctx, &services); err != nil {
		return nil, apperrors.Storage("decode services", err)
	}
	return services, nil
}

// GetService returns nil without error when no service has the id.
func (s *Store) GetService(ctx context.Context, id primitive.ObjectID) (model.CatalogEntry, error) {
	var service model.CatalogEntry
	err := s.services.FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&service)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.Storage("find service", err)
	}
	return service, nil
}

// SeedServices inserts catalog entries, first emptying the collection when
// replace is set.
func (s *Store) SeedServices(ctx context.Context, services []model.Service, replace bool) (int, error) {
	if replace {
		res, err := s.services.DeleteMany(ctx, bson.D{})
		if err != nil {
			return 0, apperrors.Storage("clear services", err)
		}
		s.log.Sugar().Infof("removed %d existing services", res.DeletedCount)
	}
	if len(services) == 0 {
		return 0, nil
	}

	docs := make([]interface{}, 0, len(services))
	for _, service := range services {
		if service.Id.IsZero() {
			service.Id = primitive.NewObjectID()
		}
		docs = append(docs, service)
	}

	res, err := s.services.InsertMany(ctx, docs)
	if err != nil {
		return 0, apperrors.Storage("insert services", err)
	}
	return len(res.InsertedIDs), nil
}
