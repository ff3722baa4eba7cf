package cart

import (
	"go.mongodb.org/mongo-driver/bson/primitive"

	"inventory-backend/internal/httperr"
	"inventory-backend/internal/models"
)

// ResolveOption locates the referenced option inside the product
// aggregate. Side-effect-free; both cart entry paths use it so the
// validation logic cannot diverge.
func ResolveOption(product *models.Product, attributeID, optionID primitive.ObjectID) (*models.Option, error) {
	attribute, ok := product.FindAttribute(attributeID)
	if !ok {
		return nil, httperr.ErrAttributeNotFound
	}
	option, ok := attribute.FindOption(optionID)
	if !ok {
		return nil, httperr.ErrOptionNotFound
	}
	return option, nil
}

// ValidateQuantity asserts requested <= stock. Stock is read-checked
// only; cart operations never decrement it.
func ValidateQuantity(option *models.Option, requested int) error {
	if requested > option.Stock {
		return &httperr.OutOfStockError{Available: option.Stock, Requested: requested}
	}
	return nil
}
