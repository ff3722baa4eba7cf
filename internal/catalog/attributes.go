package catalog

import (
	"go.mongodb.org/mongo-driver/bson/primitive"

	"inventory-backend/internal/httperr"
	"inventory-backend/internal/models"
)

// OptionInput is the caller-supplied option shape. Only value and stock
// are taken; any other fields the caller sends are ignored.
type OptionInput struct {
	Value string `json:"value" binding:"required"`
	Stock int    `json:"stock" binding:"min=0"`
}

// AttributeInput is the caller-supplied attribute shape.
type AttributeInput struct {
	Name    string        `json:"name" binding:"required"`
	Options []OptionInput `json:"options" binding:"required,min=1,dive"`
}

// buildAttribute assigns sub-document ids so carts can reference the
// attribute and its options.
func buildAttribute(in AttributeInput) models.Attribute {
	attribute := models.Attribute{
		ID:      primitive.NewObjectID(),
		Name:    in.Name,
		Options: make([]models.Option, 0, len(in.Options)),
	}
	for _, opt := range in.Options {
		attribute.Options = append(attribute.Options, models.Option{
			ID:    primitive.NewObjectID(),
			Value: opt.Value,
			Stock: opt.Stock,
		})
	}
	return attribute
}

// appendAttribute adds a new attribute, enforcing name uniqueness within
// the product.
func appendAttribute(attributes []models.Attribute, in AttributeInput) ([]models.Attribute, error) {
	for _, attr := range attributes {
		if attr.Name == in.Name {
			return nil, httperr.ErrAttributeExists
		}
	}
	return append(attributes, buildAttribute(in)), nil
}

// appendOptions adds options to the attribute, enforcing value
// uniqueness. A conflict partway through aborts the whole batch; nothing
// is persisted because the caller only writes after this returns nil.
func appendOptions(attribute *models.Attribute, options []OptionInput) error {
	for _, opt := range options {
		for _, existing := range attribute.Options {
			if existing.Value == opt.Value {
				return httperr.ErrOptionExists
			}
		}
		attribute.Options = append(attribute.Options, models.Option{
			ID:    primitive.NewObjectID(),
			Value: opt.Value,
			Stock: opt.Stock,
		})
	}
	return nil
}

// removeAttribute drops the attribute with the given id.
func removeAttribute(attributes []models.Attribute, attributeID primitive.ObjectID) ([]models.Attribute, error) {
	for i, attr := range attributes {
		if attr.ID == attributeID {
			return append(attributes[:i], attributes[i+1:]...), nil
		}
	}
	return nil, httperr.ErrAttributeNotFound
}

// removeOptions drops the listed option ids, silently skipping ids that
// match nothing.
func removeOptions(attribute *models.Attribute, optionIDs []primitive.ObjectID) {
	for _, optionID := range optionIDs {
		for i, opt := range attribute.Options {
			if opt.ID == optionID {
				attribute.Options = append(attribute.Options[:i], attribute.Options[i+1:]...)
				break
			}
		}
	}
}
