package cart

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"inventory-backend/internal/httperr"
	"inventory-backend/internal/models"
)

type mongoStore struct {
	db *mongo.Database
}

// NewMongoStore builds the production Store over the given database.
func NewMongoStore(db *mongo.Database) Store {
	return &mongoStore{db: db}
}

func (s *mongoStore) carts() *mongo.Collection {
	return s.db.Collection("carts")
}

func (s *mongoStore) FindActiveProduct(ctx context.Context, productID primitive.ObjectID) (*models.Product, error) {
	var product models.Product
	err := s.db.Collection("products").FindOne(ctx, bson.M{
		"_id":       productID,
		"deletedAt": nil,
	}).Decode(&product)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, httperr.ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find product: %w", err)
	}
	return &product, nil
}

func (s *mongoStore) FindActiveUser(ctx context.Context, userID primitive.ObjectID) (*models.User, error) {
	var user models.User
	err := s.db.Collection("users").FindOne(ctx, bson.M{
		"_id":       userID,
		"deletedAt": nil,
	}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, httperr.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &user, nil
}

func (s *mongoStore) FindCart(ctx context.Context, cartID, userID primitive.ObjectID) (*models.Cart, error) {
	var cart models.Cart
	err := s.carts().FindOne(ctx, bson.M{
		"_id":       cartID,
		"userId":    userID,
		"deletedAt": nil,
	}).Decode(&cart)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, httperr.ErrCartNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find cart: %w", err)
	}
	return &cart, nil
}

func (s *mongoStore) FindProductsByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*models.Product, error) {
	products := make(map[primitive.ObjectID]*models.Product, len(ids))
	if len(ids) == 0 {
		return products, nil
	}

	cursor, err := s.db.Collection("products").Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, fmt.Errorf("find products: %w", err)
	}
	defer cursor.Close(ctx)

	for cursor.Next(ctx) {
		var product models.Product
		if err := cursor.Decode(&product); err != nil {
			return nil, fmt.Errorf("decode product: %w", err)
		}
		p := product
		products[p.ID] = &p
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("iterate products: %w", err)
	}
	return products, nil
}

func (s *mongoStore) InsertCart(ctx context.Context, cart *models.Cart) (primitive.ObjectID, error) {
	res, err := s.carts().InsertOne(ctx, cart)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("insert cart: %w", err)
	}
	id, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, fmt.Errorf("insert cart: unexpected inserted id %T", res.InsertedID)
	}
	return id, nil
}

// UpdateItemQuantity is a compare-and-swap on the line item: the filter
// pins the previously read quantity, so a concurrent merge makes the
// update match nothing instead of silently losing it.
func (s *mongoStore) UpdateItemQuantity(ctx context.Context, cartID, userID primitive.ObjectID, key ItemKey, oldQuantity, newQuantity int) error {
	filter := bson.M{
		"_id":       cartID,
		"userId":    userID,
		"deletedAt": nil,
		"items": bson.M{"$elemMatch": bson.M{
			"productId":   key.ProductID,
			"attributeId": key.AttributeID,
			"optionId":    key.OptionID,
			"quantity":    oldQuantity,
		}},
	}
	update := bson.M{"$set": bson.M{
		"items.$.quantity": newQuantity,
		"updatedAt":        time.Now(),
	}}

	res, err := s.carts().UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("update item quantity: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrStaleCart
	}
	return nil
}

// PushItem only appends when the triple is still absent, so a concurrent
// first insert of the same triple degrades to a merge retry rather than
// a duplicate line.
func (s *mongoStore) PushItem(ctx context.Context, cartID, userID primitive.ObjectID, item models.CartItem) error {
	filter := bson.M{
		"_id":       cartID,
		"userId":    userID,
		"deletedAt": nil,
		"items": bson.M{"$not": bson.M{"$elemMatch": bson.M{
			"productId":   item.ProductID,
			"attributeId": item.AttributeID,
			"optionId":    item.OptionID,
		}}},
	}
	update := bson.M{
		"$push": bson.M{"items": item},
		"$set":  bson.M{"updatedAt": time.Now()},
	}

	res, err := s.carts().UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("push item: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrStaleCart
	}
	return nil
}

func (s *mongoStore) PullItem(ctx context.Context, cartID, userID primitive.ObjectID, key ItemKey) error {
	filter := bson.M{"_id": cartID, "userId": userID, "deletedAt": nil}
	update := bson.M{
		"$pull": bson.M{"items": bson.M{
			"productId":   key.ProductID,
			"attributeId": key.AttributeID,
			"optionId":    key.OptionID,
		}},
		"$set": bson.M{"updatedAt": time.Now()},
	}

	res, err := s.carts().UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("pull item: %w", err)
	}
	if res.MatchedCount == 0 {
		return httperr.ErrCartNotFound
	}
	if res.ModifiedCount == 0 {
		return httperr.ErrProductNotFoundInCart
	}
	return nil
}

func (s *mongoStore) SoftDeleteCart(ctx context.Context, cartID primitive.ObjectID) error {
	res, err := s.carts().UpdateOne(ctx,
		bson.M{"_id": cartID, "deletedAt": nil},
		bson.M{"$set": bson.M{"deletedAt": time.Now()}},
	)
	if err != nil {
		return fmt.Errorf("soft delete cart: %w", err)
	}
	if res.MatchedCount == 0 {
		return httperr.ErrCartNotFound
	}
	return nil
}

func (s *mongoStore) DeleteCart(ctx context.Context, cartID primitive.ObjectID) error {
	res, err := s.carts().DeleteOne(ctx, bson.M{"_id": cartID})
	if err != nil {
		return fmt.Errorf("delete cart: %w", err)
	}
	if res.DeletedCount == 0 {
		return httperr.ErrDeletingCart
	}
	return nil
}
