package graphql

import (
	"fmt"

	"github.com/graphql-go/graphql"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"inventory-backend/internal/catalog"
	"inventory-backend/internal/models"
)

func parseID(value interface{}) (primitive.ObjectID, error) {
	raw, ok := value.(string)
	if !ok {
		return primitive.NilObjectID, fmt.Errorf("id must be a string")
	}
	id, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("invalid id: %s", raw)
	}
	return id, nil
}

/* =========================
   OUTPUT TYPES
========================= */

var optionType = graphql.NewObject(graphql.ObjectConfig{
	Name: "AttributeOption",
	Fields: graphql.Fields{
		"id": &graphql.Field{
			Type: graphql.NewNonNull(graphql.ID),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return p.Source.(models.Option).ID.Hex(), nil
			},
		},
		"value": &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"stock": &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
	},
})

var attributeType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Attribute",
	Fields: graphql.Fields{
		"id": &graphql.Field{
			Type: graphql.NewNonNull(graphql.ID),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return p.Source.(models.Attribute).ID.Hex(), nil
			},
		},
		"name":    &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"options": &graphql.Field{Type: graphql.NewList(optionType)},
	},
})

var productType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Product",
	Fields: graphql.Fields{
		"id": &graphql.Field{
			Type: graphql.NewNonNull(graphql.ID),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return productSource(p).ID.Hex(), nil
			},
		},
		"productId": &graphql.Field{
			Type: graphql.NewNonNull(graphql.String),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return productSource(p).ProductID, nil
			},
		},
		"name": &graphql.Field{
			Type: graphql.NewNonNull(graphql.String),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return productSource(p).Name, nil
			},
		},
		"description": &graphql.Field{
			Type: graphql.String,
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return productSource(p).Description, nil
			},
		},
		"price": &graphql.Field{
			Type: graphql.NewNonNull(graphql.Float),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return productSource(p).Price, nil
			},
		},
		"category": &graphql.Field{
			Type: graphql.String,
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return productSource(p).Category, nil
			},
		},
		"attributes": &graphql.Field{
			Type: graphql.NewList(attributeType),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return productSource(p).Attributes, nil
			},
		},
	},
})

// productSource accepts both value and pointer sources; list queries
// yield values while single-document queries yield pointers.
func productSource(p graphql.ResolveParams) *models.Product {
	switch src := p.Source.(type) {
	case *models.Product:
		return src
	case models.Product:
		return &src
	default:
		return &models.Product{}
	}
}

var paginationType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Pagination",
	Fields: graphql.Fields{
		"page":       &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
		"pageSize":   &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
		"totalPages": &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
	},
})

type productList struct {
	Data       []models.Product    `json:"data"`
	Pagination *catalog.Pagination `json:"pagination"`
}

var productListType = graphql.NewObject(graphql.ObjectConfig{
	Name: "ProductListResponse",
	Fields: graphql.Fields{
		"data":       &graphql.Field{Type: graphql.NewList(productType)},
		"pagination": &graphql.Field{Type: paginationType},
	},
})

var reviewType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Review",
	Fields: graphql.Fields{
		"id": &graphql.Field{
			Type: graphql.NewNonNull(graphql.ID),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				switch src := p.Source.(type) {
				case catalog.ReviewWithUser:
					return src.ID.Hex(), nil
				case *models.ProductReview:
					return src.ID.Hex(), nil
				}
				return nil, nil
			},
		},
		"productId": &graphql.Field{
			Type: graphql.NewNonNull(graphql.ID),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				switch src := p.Source.(type) {
				case catalog.ReviewWithUser:
					return src.ProductID.Hex(), nil
				case *models.ProductReview:
					return src.ProductID.Hex(), nil
				}
				return nil, nil
			},
		},
		"userId": &graphql.Field{
			Type: graphql.NewNonNull(graphql.ID),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				switch src := p.Source.(type) {
				case catalog.ReviewWithUser:
					return src.UserID.Hex(), nil
				case *models.ProductReview:
					return src.UserID.Hex(), nil
				}
				return nil, nil
			},
		},
		"review": &graphql.Field{
			Type: graphql.NewNonNull(graphql.String),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				switch src := p.Source.(type) {
				case catalog.ReviewWithUser:
					return src.Review, nil
				case *models.ProductReview:
					return src.Review, nil
				}
				return nil, nil
			},
		},
		"username": &graphql.Field{Type: graphql.String},
	},
})

var ratingType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Rating",
	Fields: graphql.Fields{
		"id": &graphql.Field{
			Type: graphql.NewNonNull(graphql.ID),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return p.Source.(*models.ProductRating).ID.Hex(), nil
			},
		},
		"productId": &graphql.Field{
			Type: graphql.NewNonNull(graphql.ID),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return p.Source.(*models.ProductRating).ProductID.Hex(), nil
			},
		},
		"userId": &graphql.Field{
			Type: graphql.NewNonNull(graphql.ID),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return p.Source.(*models.ProductRating).UserID.Hex(), nil
			},
		},
		"rating": &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
	},
})

var ratingSummaryType = graphql.NewObject(graphql.ObjectConfig{
	Name: "RatingSummary",
	Fields: graphql.Fields{
		"productId": &graphql.Field{
			Type: graphql.NewNonNull(graphql.ID),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return p.Source.(*models.RatingSummary).ProductID.Hex(), nil
			},
		},
		"averageRating": &graphql.Field{Type: graphql.NewNonNull(graphql.Float)},
		"totalRatings":  &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
	},
})

var responseType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Response",
	Fields: graphql.Fields{
		"message": &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
	},
})

type message struct {
	Message string `json:"message"`
}

/* =========================
   INPUT TYPES
========================= */

var optionInputType = graphql.NewInputObject(graphql.InputObjectConfig{
	Name: "OptionInput",
	Fields: graphql.InputObjectConfigFieldMap{
		"value": &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
		"stock": &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.Int)},
	},
})

var attributeInputType = graphql.NewInputObject(graphql.InputObjectConfig{
	Name: "AttributeInput",
	Fields: graphql.InputObjectConfigFieldMap{
		"name":    &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
		"options": &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(optionInputType)))},
	},
})

func parseOptionInputs(value interface{}) ([]catalog.OptionInput, error) {
	raw, ok := value.([]interface{})
	if !ok || len(raw) == 0 {
		return nil, fmt.Errorf("options must be a non-empty list")
	}
	options := make([]catalog.OptionInput, 0, len(raw))
	for _, entry := range raw {
		fields, ok := entry.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("invalid option input")
		}
		opt := catalog.OptionInput{}
		if opt.Value, ok = fields["value"].(string); !ok || opt.Value == "" {
			return nil, fmt.Errorf("option value is required")
		}
		if opt.Stock, ok = fields["stock"].(int); !ok || opt.Stock < 0 {
			return nil, fmt.Errorf("option stock must be a non-negative integer")
		}
		options = append(options, opt)
	}
	return options, nil
}

func parseAttributeInputs(value interface{}) ([]catalog.AttributeInput, error) {
	raw, ok := value.([]interface{})
	if !ok || len(raw) == 0 {
		return nil, fmt.Errorf("attributes must be a non-empty list")
	}
	attributes := make([]catalog.AttributeInput, 0, len(raw))
	for _, entry := range raw {
		fields, ok := entry.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("invalid attribute input")
		}
		attr := catalog.AttributeInput{}
		if attr.Name, ok = fields["name"].(string); !ok || attr.Name == "" {
			return nil, fmt.Errorf("attribute name is required")
		}
		options, err := parseOptionInputs(fields["options"])
		if err != nil {
			return nil, err
		}
		attr.Options = options
		attributes = append(attributes, attr)
	}
	return attributes, nil
}

/* =========================
   SCHEMA
========================= */

// NewSchema builds the catalog schema over the given service. Queries
// and mutations mirror the REST product surface.
func NewSchema(svc *catalog.Service) (graphql.Schema, error) {
	query := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"products": &graphql.Field{
				Type: productListType,
				Args: graphql.FieldConfigArgument{
					"page":     &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 1},
					"pageSize": &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 10},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					page := int64(p.Args["page"].(int))
					pageSize := int64(p.Args["pageSize"].(int))
					if page < 1 || pageSize < 1 {
						return nil, fmt.Errorf("invalid pagination params")
					}
					products, pagination, err := svc.ListPaginated(p.Context, page, pageSize)
					if err != nil {
						return nil, err
					}
					return productList{Data: products, Pagination: pagination}, nil
				},
			},
			"product": &graphql.Field{
				Type: productType,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					id, err := parseID(p.Args["id"])
					if err != nil {
						return nil, err
					}
					return svc.Product(p.Context, id)
				},
			},
			"reviewsSummary": &graphql.Field{
				Type: graphql.NewList(reviewType),
				Args: graphql.FieldConfigArgument{
					"productId": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
					"page":      &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 1},
					"pageSize":  &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 10},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					productID, err := parseID(p.Args["productId"])
					if err != nil {
						return nil, err
					}
					page := int64(p.Args["page"].(int))
					pageSize := int64(p.Args["pageSize"].(int))
					if page < 1 || pageSize < 1 {
						return nil, fmt.Errorf("invalid pagination params")
					}
					return svc.ReviewsSummary(p.Context, productID, page, pageSize)
				},
			},
			"ratingsSummary": &graphql.Field{
				Type: ratingSummaryType,
				Args: graphql.FieldConfigArgument{
					"productId": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					productID, err := parseID(p.Args["productId"])
					if err != nil {
						return nil, err
					}
					return svc.RatingsSummary(p.Context, productID)
				},
			},
		},
	})

	mutation := graphql.NewObject(graphql.ObjectConfig{
		Name: "Mutation",
		Fields: graphql.Fields{
			"addProduct": &graphql.Field{
				Type: productType,
				Args: graphql.FieldConfigArgument{
					"name":        &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"description": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"price":       &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
					"category":    &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"attributes":  &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(attributeInputType)))},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					attributes, err := parseAttributeInputs(p.Args["attributes"])
					if err != nil {
						return nil, err
					}
					price := p.Args["price"].(float64)
					if price <= 0 {
						return nil, fmt.Errorf("price must be positive")
					}
					return svc.AddProduct(p.Context, catalog.ProductInput{
						Name:        p.Args["name"].(string),
						Description: p.Args["description"].(string),
						Price:       price,
						Category:    p.Args["category"].(string),
						Attributes:  attributes,
					})
				},
			},
			"addProductAttribute": &graphql.Field{
				Type: graphql.NewList(attributeType),
				Args: graphql.FieldConfigArgument{
					"productId": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
					"name":      &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"options":   &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(optionInputType)))},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					productID, err := parseID(p.Args["productId"])
					if err != nil {
						return nil, err
					}
					options, err := parseOptionInputs(p.Args["options"])
					if err != nil {
						return nil, err
					}
					return svc.AddAttribute(p.Context, productID, catalog.AttributeInput{
						Name:    p.Args["name"].(string),
						Options: options,
					})
				},
			},
			"addProductOptions": &graphql.Field{
				Type: graphql.NewList(optionType),
				Args: graphql.FieldConfigArgument{
					"productId":   &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
					"attributeId": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
					"options":     &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(optionInputType)))},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					productID, err := parseID(p.Args["productId"])
					if err != nil {
						return nil, err
					}
					attributeID, err := parseID(p.Args["attributeId"])
					if err != nil {
						return nil, err
					}
					options, err := parseOptionInputs(p.Args["options"])
					if err != nil {
						return nil, err
					}
					return svc.AddOptions(p.Context, productID, attributeID, options)
				},
			},
			"removeProductAttribute": &graphql.Field{
				Type: graphql.NewList(attributeType),
				Args: graphql.FieldConfigArgument{
					"productId":   &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
					"attributeId": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					productID, err := parseID(p.Args["productId"])
					if err != nil {
						return nil, err
					}
					attributeID, err := parseID(p.Args["attributeId"])
					if err != nil {
						return nil, err
					}
					return svc.RemoveAttribute(p.Context, productID, attributeID)
				},
			},
			"removeProductOptions": &graphql.Field{
				Type: graphql.NewList(optionType),
				Args: graphql.FieldConfigArgument{
					"productId":   &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
					"attributeId": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
					"optionIds":   &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(graphql.ID)))},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					productID, err := parseID(p.Args["productId"])
					if err != nil {
						return nil, err
					}
					attributeID, err := parseID(p.Args["attributeId"])
					if err != nil {
						return nil, err
					}
					rawIDs, ok := p.Args["optionIds"].([]interface{})
					if !ok || len(rawIDs) == 0 {
						return nil, fmt.Errorf("optionIds must be a non-empty list")
					}
					optionIDs := make([]primitive.ObjectID, 0, len(rawIDs))
					for _, raw := range rawIDs {
						id, err := parseID(raw)
						if err != nil {
							return nil, err
						}
						optionIDs = append(optionIDs, id)
					}
					return svc.RemoveOptions(p.Context, productID, attributeID, optionIDs)
				},
			},
			"deactivateProduct": &graphql.Field{
				Type: responseType,
				Args: graphql.FieldConfigArgument{
					"productId": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					productID, err := parseID(p.Args["productId"])
					if err != nil {
						return nil, err
					}
					if err := svc.Deactivate(p.Context, productID); err != nil {
						return nil, err
					}
					return message{Message: "product deleted (soft)"}, nil
				},
			},
			"deleteProductPermanently": &graphql.Field{
				Type: responseType,
				Args: graphql.FieldConfigArgument{
					"productId": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					productID, err := parseID(p.Args["productId"])
					if err != nil {
						return nil, err
					}
					if err := svc.DeletePermanently(p.Context, productID); err != nil {
						return nil, err
					}
					return message{Message: "product deleted (hard)"}, nil
				},
			},
			"addReview": &graphql.Field{
				Type: reviewType,
				Args: graphql.FieldConfigArgument{
					"productId": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
					"userId":    &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
					"review":    &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					productID, err := parseID(p.Args["productId"])
					if err != nil {
						return nil, err
					}
					userID, err := parseID(p.Args["userId"])
					if err != nil {
						return nil, err
					}
					review := p.Args["review"].(string)
					if review == "" {
						return nil, fmt.Errorf("review must not be empty")
					}
					return svc.AddReview(p.Context, productID, userID, review)
				},
			},
			"addRating": &graphql.Field{
				Type: ratingType,
				Args: graphql.FieldConfigArgument{
					"productId": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
					"userId":    &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
					"rating":    &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					productID, err := parseID(p.Args["productId"])
					if err != nil {
						return nil, err
					}
					userID, err := parseID(p.Args["userId"])
					if err != nil {
						return nil, err
					}
					rating := p.Args["rating"].(int)
					if rating < 1 || rating > 5 {
						return nil, fmt.Errorf("rating must be between 1 and 5")
					}
					return svc.AddRating(p.Context, productID, userID, rating)
				},
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query:    query,
		Mutation: mutation,
	})
}
