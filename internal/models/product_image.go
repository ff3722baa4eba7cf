package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProductImage stores the path of an uploaded image for a product. One
// document per (productId, imageName); re-uploads replace the path.
type ProductImage struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	ProductID primitive.ObjectID `bson:"productId" json:"productId"`
	ImageName string             `bson:"imageName" json:"imageName"`
	ImagePath string             `bson:"imagePath" json:"imagePath"`
	DeletedAt *time.Time         `bson:"deletedAt" json:"deletedAt,omitempty"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}
