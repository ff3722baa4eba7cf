package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProductReview is a free-text review left by a user on a product.
type ProductReview struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	ProductID primitive.ObjectID `bson:"productId" json:"productId"`
	UserID    primitive.ObjectID `bson:"userId" json:"userId"`
	Review    string             `bson:"review" json:"review"`
	DeletedAt *time.Time         `bson:"deletedAt" json:"deletedAt,omitempty"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

// ProductRating is a numeric rating (1-5) left by a user on a product.
type ProductRating struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	ProductID primitive.ObjectID `bson:"productId" json:"productId"`
	UserID    primitive.ObjectID `bson:"userId" json:"userId"`
	Rating    int                `bson:"rating" json:"rating"`
	DeletedAt *time.Time         `bson:"deletedAt" json:"deletedAt,omitempty"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

// RatingSummary is the aggregate produced by the ratings pipeline.
type RatingSummary struct {
	ProductID     primitive.ObjectID `bson:"_id" json:"productId"`
	AverageRating float64            `bson:"averageRating" json:"averageRating"`
	TotalRatings  int                `bson:"totalRatings" json:"totalRatings"`
}
