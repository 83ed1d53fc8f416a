package model

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CatalogEntry is a service document as stored, every field included.
type CatalogEntry = bson.M

// Service is a catalog entry as written by the seed command. Keys beyond the
// known ones are kept in Extras and stored alongside them.
type Service struct {
	Id          primitive.ObjectID     `json:"_id" bson:"_id,omitempty" yaml:"-"`
	ServiceName string                 `json:"serviceName" bson:"serviceName" yaml:"serviceName"`
	Price       float64                `json:"price" bson:"price" yaml:"price"`
	Unit        string                 `json:"unit,omitempty" bson:"unit,omitempty" yaml:"unit"`
	Category    string                 `json:"category,omitempty" bson:"category,omitempty" yaml:"category"`
	Description string                 `json:"description,omitempty" bson:"description,omitempty" yaml:"description"`
	Image       string                 `json:"image,omitempty" bson:"image,omitempty" yaml:"image"`
	Rating      float64                `json:"rating,omitempty" bson:"rating,omitempty" yaml:"rating"`
	Extras      map[string]interface{} `json:"-" bson:",inline" yaml:",inline"`
}
