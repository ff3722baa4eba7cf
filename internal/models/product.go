package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Option is a purchasable variant of an attribute (e.g. size "M") carrying
// its own stock count. Carts reference options by their sub-document id.
type Option struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Value     string             `bson:"value" json:"value"`
	Stock     int                `bson:"stock" json:"stock"`
	DeletedAt *time.Time         `bson:"deletedAt" json:"deletedAt,omitempty"`
}

// Attribute is a named axis of variation on a product grouping options.
type Attribute struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Name      string             `bson:"name" json:"name"`
	Options   []Option           `bson:"options" json:"options"`
	DeletedAt *time.Time         `bson:"deletedAt" json:"deletedAt,omitempty"`
}

// Product is the catalog document. Attribute names are unique within a
// product, option values unique within an attribute (enforced at add time).
type Product struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	ProductID   string             `bson:"productId" json:"productId"`
	Name        string             `bson:"name" json:"name"`
	Description string             `bson:"description" json:"description"`
	Price       float64            `bson:"price" json:"price"`
	Category    string             `bson:"category" json:"category"`
	Attributes  []Attribute        `bson:"attributes" json:"attributes"`
	DeletedAt   *time.Time         `bson:"deletedAt" json:"deletedAt,omitempty"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// FindAttribute resolves an attribute sub-document by id.
func (p *Product) FindAttribute(attributeID primitive.ObjectID) (*Attribute, bool) {
	for i := range p.Attributes {
		if p.Attributes[i].ID == attributeID {
			return &p.Attributes[i], true
		}
	}
	return nil, false
}

// FindOption resolves an option sub-document by id within the attribute.
func (a *Attribute) FindOption(optionID primitive.ObjectID) (*Option, bool) {
	for i := range a.Options {
		if a.Options[i].ID == optionID {
			return &a.Options[i], true
		}
	}
	return nil, false
}
