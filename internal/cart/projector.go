package cart

import (
	"go.mongodb.org/mongo-driver/bson/primitive"

	"inventory-backend/internal/models"
)

// ProjectedProduct is the narrowed product view embedded in a projected
// cart item: catalog fields plus at most one attribute with exactly the
// referenced option.
type ProjectedProduct struct {
	ID          primitive.ObjectID `json:"_id"`
	ProductID   string             `json:"productId"`
	Name        string             `json:"name"`
	Description string             `json:"description"`
	Price       float64            `json:"price"`
	Category    string             `json:"category"`
	Attributes  []models.Attribute `json:"attributes"`
}

// ProjectedItem keeps the original cart item fields with the product
// reference replaced by its narrowed view.
type ProjectedItem struct {
	Product     ProjectedProduct   `json:"productId"`
	AttributeID primitive.ObjectID `json:"attributeId"`
	OptionID    primitive.ObjectID `json:"optionId"`
	Quantity    int                `json:"quantity"`
}

// ProjectItems narrows each line item's product down to the single
// attribute/option the item references. A failed attribute lookup yields
// attributes: [] instead of failing the request; the narrowed attribute
// set is display data, not authoritative.
func ProjectItems(cart *models.Cart, products map[primitive.ObjectID]*models.Product) []ProjectedItem {
	items := make([]ProjectedItem, 0, len(cart.Items))

	for _, item := range cart.Items {
		projected := ProjectedItem{
			AttributeID: item.AttributeID,
			OptionID:    item.OptionID,
			Quantity:    item.Quantity,
		}

		product, ok := products[item.ProductID]
		if !ok {
			// referenced product hard-deleted; keep the line with ids only
			projected.Product = ProjectedProduct{ID: item.ProductID, Attributes: []models.Attribute{}}
			items = append(items, projected)
			continue
		}

		projected.Product = ProjectedProduct{
			ID:          product.ID,
			ProductID:   product.ProductID,
			Name:        product.Name,
			Description: product.Description,
			Price:       product.Price,
			Category:    product.Category,
			Attributes:  []models.Attribute{},
		}

		if attribute, ok := product.FindAttribute(item.AttributeID); ok {
			narrowed := models.Attribute{
				ID:      attribute.ID,
				Name:    attribute.Name,
				Options: []models.Option{},
			}
			if option, ok := attribute.FindOption(item.OptionID); ok {
				narrowed.Options = append(narrowed.Options, *option)
			}
			projected.Product.Attributes = append(projected.Product.Attributes, narrowed)
		}

		items = append(items, projected)
	}

	return items
}
