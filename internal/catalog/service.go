package catalog

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"inventory-backend/internal/httperr"
	"inventory-backend/internal/models"
)

// ErrProductExists maps the unique name/productId index violation.
var ErrProductExists = &httperr.Error{Status: http.StatusConflict, Message: "product already exists"}

// ProductInput carries the validated fields for product creation.
type ProductInput struct {
	Name        string
	Description string
	Price       float64
	Category    string
	Attributes  []AttributeInput
}

// ProductUpdate carries the optional fields of a product update; nil
// fields are left untouched.
type ProductUpdate struct {
	Name        *string
	Description *string
	Price       *float64
	Category    *string
}

// Pagination is the page/total shape shared by listing responses.
type Pagination struct {
	Page       int64 `json:"page"`
	PageSize   int64 `json:"pageSize"`
	TotalPages int64 `json:"totalPages"`
}

// Service is the catalog mutator: product CRUD plus attribute/option
// structural mutations on the product aggregate.
type Service struct {
	db *mongo.Database
}

func NewService(db *mongo.Database) *Service {
	return &Service{db: db}
}

func (s *Service) products() *mongo.Collection {
	return s.db.Collection("products")
}

// notDeleted is the single place the soft-delete filter convention is
// spelled out.
func notDeleted(filter bson.M) bson.M {
	filter["deletedAt"] = nil
	return filter
}

func (s *Service) findActive(ctx context.Context, productID primitive.ObjectID) (*models.Product, error) {
	var product models.Product
	err := s.products().FindOne(ctx, notDeleted(bson.M{"_id": productID})).Decode(&product)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, httperr.ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find product: %w", err)
	}
	return &product, nil
}

// Product returns an active product by document id.
func (s *Service) Product(ctx context.Context, productID primitive.ObjectID) (*models.Product, error) {
	return s.findActive(ctx, productID)
}

// AddProduct inserts a new catalog document with a generated
// human-readable productId and ids assigned to all sub-documents.
func (s *Service) AddProduct(ctx context.Context, in ProductInput) (*models.Product, error) {
	now := time.Now()
	product := &models.Product{
		ProductID:   GenerateProductID(),
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		Category:    in.Category,
		Attributes:  make([]models.Attribute, 0, len(in.Attributes)),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	for _, attr := range in.Attributes {
		product.Attributes = append(product.Attributes, buildAttribute(attr))
	}

	res, err := s.products().InsertOne(ctx, product)
	if mongo.IsDuplicateKeyError(err) {
		return nil, ErrProductExists
	}
	if err != nil {
		return nil, fmt.Errorf("insert product: %w", err)
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		product.ID = id
	}
	return product, nil
}

// List returns all active products.
func (s *Service) List(ctx context.Context) ([]models.Product, error) {
	cursor, err := s.products().Find(ctx, notDeleted(bson.M{}))
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer cursor.Close(ctx)

	products := make([]models.Product, 0)
	if err := cursor.All(ctx, &products); err != nil {
		return nil, fmt.Errorf("decode products: %w", err)
	}
	return products, nil
}

// ListPaginated returns a page of active products and the pagination
// block, failing on a page past the end.
func (s *Service) ListPaginated(ctx context.Context, page, pageSize int64) ([]models.Product, *Pagination, error) {
	filter := notDeleted(bson.M{})

	total, err := s.products().CountDocuments(ctx, filter)
	if err != nil {
		return nil, nil, fmt.Errorf("count products: %w", err)
	}

	totalPages := int64(math.Ceil(float64(total) / float64(pageSize)))
	if total > 0 && page > totalPages {
		return nil, nil, httperr.ErrInvalidPageNumber
	}

	opts := options.Find().
		SetSkip((page - 1) * pageSize).
		SetLimit(pageSize)

	cursor, err := s.products().Find(ctx, filter, opts)
	if err != nil {
		return nil, nil, fmt.Errorf("list products: %w", err)
	}
	defer cursor.Close(ctx)

	products := make([]models.Product, 0)
	if err := cursor.All(ctx, &products); err != nil {
		return nil, nil, fmt.Errorf("decode products: %w", err)
	}

	return products, &Pagination{Page: page, PageSize: pageSize, TotalPages: totalPages}, nil
}

// UpdateProduct applies the non-nil fields and returns the updated
// document.
func (s *Service) UpdateProduct(ctx context.Context, productID primitive.ObjectID, in ProductUpdate) (*models.Product, error) {
	set := bson.M{"updatedAt": time.Now()}
	if in.Name != nil {
		set["name"] = *in.Name
	}
	if in.Description != nil {
		set["description"] = *in.Description
	}
	if in.Price != nil {
		set["price"] = *in.Price
	}
	if in.Category != nil {
		set["category"] = *in.Category
	}

	var updated models.Product
	err := s.products().FindOneAndUpdate(ctx,
		notDeleted(bson.M{"_id": productID}),
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&updated)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, httperr.ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}
	return &updated, nil
}

// saveAttributes writes the mutated attribute list back in one $set;
// all uniqueness validation happens in memory before this single write.
func (s *Service) saveAttributes(ctx context.Context, productID primitive.ObjectID, attributes []models.Attribute) error {
	res, err := s.products().UpdateOne(ctx,
		notDeleted(bson.M{"_id": productID}),
		bson.M{"$set": bson.M{"attributes": attributes, "updatedAt": time.Now()}},
	)
	if err != nil {
		return fmt.Errorf("save attributes: %w", err)
	}
	if res.MatchedCount == 0 {
		return httperr.ErrProductNotFound
	}
	return nil
}

// AddAttribute appends a new attribute, failing on a duplicate name.
func (s *Service) AddAttribute(ctx context.Context, productID primitive.ObjectID, in AttributeInput) ([]models.Attribute, error) {
	product, err := s.findActive(ctx, productID)
	if err != nil {
		return nil, err
	}

	attributes, err := appendAttribute(product.Attributes, in)
	if err != nil {
		return nil, err
	}
	if err := s.saveAttributes(ctx, productID, attributes); err != nil {
		return nil, err
	}
	return attributes, nil
}

// AddOptions appends options to an attribute. A value conflict anywhere
// in the batch aborts before the write, so the batch is atomic at the
// persistence layer.
func (s *Service) AddOptions(ctx context.Context, productID, attributeID primitive.ObjectID, opts []OptionInput) ([]models.Option, error) {
	product, err := s.findActive(ctx, productID)
	if err != nil {
		return nil, err
	}

	attribute, ok := product.FindAttribute(attributeID)
	if !ok {
		return nil, httperr.ErrAttributeNotFound
	}
	if err := appendOptions(attribute, opts); err != nil {
		return nil, err
	}
	if err := s.saveAttributes(ctx, productID, product.Attributes); err != nil {
		return nil, err
	}
	return attribute.Options, nil
}

// RemoveAttribute drops an attribute by id.
func (s *Service) RemoveAttribute(ctx context.Context, productID, attributeID primitive.ObjectID) ([]models.Attribute, error) {
	product, err := s.findActive(ctx, productID)
	if err != nil {
		return nil, err
	}

	attributes, err := removeAttribute(product.Attributes, attributeID)
	if err != nil {
		return nil, err
	}
	if err := s.saveAttributes(ctx, productID, attributes); err != nil {
		return nil, err
	}
	return attributes, nil
}

// RemoveOptions drops options by id, silently skipping unknown ids.
func (s *Service) RemoveOptions(ctx context.Context, productID, attributeID primitive.ObjectID, optionIDs []primitive.ObjectID) ([]models.Option, error) {
	product, err := s.findActive(ctx, productID)
	if err != nil {
		return nil, err
	}

	attribute, ok := product.FindAttribute(attributeID)
	if !ok {
		return nil, httperr.ErrAttributeNotFound
	}
	removeOptions(attribute, optionIDs)

	if err := s.saveAttributes(ctx, productID, product.Attributes); err != nil {
		return nil, err
	}
	return attribute.Options, nil
}

// Deactivate soft-deletes the product.
func (s *Service) Deactivate(ctx context.Context, productID primitive.ObjectID) error {
	if _, err := s.findActive(ctx, productID); err != nil {
		return err
	}

	_, err := s.products().UpdateOne(ctx,
		bson.M{"_id": productID},
		bson.M{"$set": bson.M{"deletedAt": time.Now()}},
	)
	if err != nil {
		return fmt.Errorf("deactivate product: %w", err)
	}
	return nil
}

// DeletePermanently removes the document, soft-deleted or not.
func (s *Service) DeletePermanently(ctx context.Context, productID primitive.ObjectID) error {
	var product models.Product
	err := s.products().FindOne(ctx, bson.M{"_id": productID}).Decode(&product)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return httperr.ErrProductNotFound
	}
	if err != nil {
		return fmt.Errorf("find product: %w", err)
	}

	res, err := s.products().DeleteOne(ctx, bson.M{"_id": productID})
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if res.DeletedCount == 0 {
		return httperr.ErrDeletingProduct
	}
	return nil
}
