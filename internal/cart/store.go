package cart

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"inventory-backend/internal/models"
)

// ErrStaleCart reports that a conditional cart write matched nothing
// because the cart changed between read and write. Callers re-read and
// retry.
var ErrStaleCart = errors.New("cart changed concurrently")

// ItemKey identifies a line item by its product+attribute+option triple.
type ItemKey struct {
	ProductID   primitive.ObjectID
	AttributeID primitive.ObjectID
	OptionID    primitive.ObjectID
}

// Matches reports whether the item references the same triple.
func (k ItemKey) Matches(item models.CartItem) bool {
	return item.ProductID == k.ProductID &&
		item.AttributeID == k.AttributeID &&
		item.OptionID == k.OptionID
}

// Store is the persistence surface the cart service needs. The interface
// lives with its consumer; the MongoDB implementation is in mongo_store.go.
type Store interface {
	// FindActiveProduct returns a non-deleted product or httperr.ErrProductNotFound.
	FindActiveProduct(ctx context.Context, productID primitive.ObjectID) (*models.Product, error)
	// FindActiveUser returns a non-deleted user or httperr.ErrUserNotFound.
	FindActiveUser(ctx context.Context, userID primitive.ObjectID) (*models.User, error)
	// FindCart returns the cart owned by userID or httperr.ErrCartNotFound.
	FindCart(ctx context.Context, cartID, userID primitive.ObjectID) (*models.Cart, error)
	// FindProductsByIDs loads the referenced products for projection,
	// including soft-deleted ones so stale line items still resolve.
	FindProductsByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*models.Product, error)

	InsertCart(ctx context.Context, cart *models.Cart) (primitive.ObjectID, error)
	// UpdateItemQuantity sets the quantity of the line item matching key,
	// but only if its quantity still equals oldQuantity. Returns
	// ErrStaleCart when nothing matched.
	UpdateItemQuantity(ctx context.Context, cartID, userID primitive.ObjectID, key ItemKey, oldQuantity, newQuantity int) error
	// PushItem appends a line item, but only if no item with the same
	// triple exists yet. Returns ErrStaleCart when nothing matched.
	PushItem(ctx context.Context, cartID, userID primitive.ObjectID, item models.CartItem) error
	// PullItem removes the line item matching key. Returns
	// httperr.ErrCartNotFound when the cart is gone and
	// httperr.ErrProductNotFoundInCart when no item matched.
	PullItem(ctx context.Context, cartID, userID primitive.ObjectID, key ItemKey) error

	// SoftDeleteCart sets deletedAt; httperr.ErrCartNotFound when absent.
	SoftDeleteCart(ctx context.Context, cartID primitive.ObjectID) error
	// DeleteCart removes the document; httperr.ErrDeletingCart when the
	// delete reports no match.
	DeleteCart(ctx context.Context, cartID primitive.ObjectID) error
}
