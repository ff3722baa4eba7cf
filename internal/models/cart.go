package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CartItem references one product+attribute+option triple with a quantity.
// It stores ids only, never a product snapshot.
type CartItem struct {
	ProductID   primitive.ObjectID `bson:"productId" json:"productId"`
	AttributeID primitive.ObjectID `bson:"attributeId" json:"attributeId"`
	OptionID    primitive.ObjectID `bson:"optionId" json:"optionId"`
	Quantity    int                `bson:"quantity" json:"quantity"`
}

// Cart is owned by exactly one user. A user may own several carts; cart
// identity is the document id supplied by callers of existing-cart ops.
type Cart struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	UserID    primitive.ObjectID `bson:"userId" json:"userId"`
	Items     []CartItem         `bson:"items" json:"items"`
	DeletedAt *time.Time         `bson:"deletedAt" json:"deletedAt,omitempty"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}
