package database

import (
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"styledecor-server/model"
)

func insertResult(res *mongo.InsertOneResult) *model.InsertResult {
	return &model.InsertResult{Acknowledged: true, InsertedId: idString(res.InsertedID)}
}

func updateResult(res *mongo.UpdateResult) *model.UpdateResult {
	return &model.UpdateResult{
		Acknowledged:  true,
		MatchedCount:  res.MatchedCount,
		ModifiedCount: res.ModifiedCount,
	}
}

func deleteResult(res *mongo.DeleteResult) *model.DeleteResult {
	return &model.DeleteResult{Acknowledged: true, DeletedCount: res.DeletedCount}
}

func idString(id interface{}) string {
	if oid, ok := id.(primitive.ObjectID); ok {
		return oid.Hex()
	}
	return fmt.Sprint(id)
}
