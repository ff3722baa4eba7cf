package cart

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ErrCacheMiss reports that no projected view is cached for the cart.
var ErrCacheMiss = errors.New("cart cache miss")

// Cache holds projected cart views. Mutations invalidate; reads fall
// back to the store on miss or cache failure.
type Cache interface {
	Get(ctx context.Context, cartID primitive.ObjectID) ([]ProjectedItem, error)
	Set(ctx context.Context, cartID primitive.ObjectID, items []ProjectedItem) error
	Delete(ctx context.Context, cartID primitive.ObjectID) error
}
