package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"inventory-backend/internal/httperr"
	"inventory-backend/internal/models"
)

// ReviewWithUser is the reviews-summary row: the review plus the
// reviewer's username.
type ReviewWithUser struct {
	models.ProductReview
	Username string `json:"username"`
}

func (s *Service) findActiveUser(ctx context.Context, userID primitive.ObjectID) (*models.User, error) {
	var user models.User
	err := s.db.Collection("users").FindOne(ctx, notDeleted(bson.M{"_id": userID})).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, httperr.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &user, nil
}

// AddReview stores a review after validating product and user.
func (s *Service) AddReview(ctx context.Context, productID, userID primitive.ObjectID, review string) (*models.ProductReview, error) {
	product, err := s.findActive(ctx, productID)
	if err != nil {
		return nil, err
	}
	user, err := s.findActiveUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	doc := &models.ProductReview{
		ProductID: product.ID,
		UserID:    user.ID,
		Review:    review,
		CreatedAt: time.Now(),
	}
	res, err := s.db.Collection("productReviews").InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert review: %w", err)
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		doc.ID = id
	}
	return doc, nil
}

// AddRating stores a rating after validating product and user.
func (s *Service) AddRating(ctx context.Context, productID, userID primitive.ObjectID, rating int) (*models.ProductRating, error) {
	product, err := s.findActive(ctx, productID)
	if err != nil {
		return nil, err
	}
	user, err := s.findActiveUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	doc := &models.ProductRating{
		ProductID: product.ID,
		UserID:    user.ID,
		Rating:    rating,
		CreatedAt: time.Now(),
	}
	res, err := s.db.Collection("productRatings").InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert rating: %w", err)
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		doc.ID = id
	}
	return doc, nil
}

// ReviewsSummary returns a page of reviews for the product with the
// reviewer usernames joined in.
func (s *Service) ReviewsSummary(ctx context.Context, productID primitive.ObjectID, page, pageSize int64) ([]ReviewWithUser, error) {
	product, err := s.findActive(ctx, productID)
	if err != nil {
		return nil, err
	}

	opts := options.Find().
		SetSkip((page - 1) * pageSize).
		SetLimit(pageSize)

	cursor, err := s.db.Collection("productReviews").Find(ctx,
		notDeleted(bson.M{"productId": product.ID}), opts)
	if err != nil {
		return nil, fmt.Errorf("find reviews: %w", err)
	}
	defer cursor.Close(ctx)

	var reviews []models.ProductReview
	if err := cursor.All(ctx, &reviews); err != nil {
		return nil, fmt.Errorf("decode reviews: %w", err)
	}
	if len(reviews) == 0 {
		return nil, httperr.ErrNoReviewsFound
	}

	userIDs := make([]primitive.ObjectID, 0, len(reviews))
	seen := make(map[primitive.ObjectID]struct{}, len(reviews))
	for _, r := range reviews {
		if _, ok := seen[r.UserID]; ok {
			continue
		}
		seen[r.UserID] = struct{}{}
		userIDs = append(userIDs, r.UserID)
	}

	userCursor, err := s.db.Collection("users").Find(ctx, bson.M{"_id": bson.M{"$in": userIDs}})
	if err != nil {
		return nil, fmt.Errorf("find reviewers: %w", err)
	}
	defer userCursor.Close(ctx)

	var users []models.User
	if err := userCursor.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("decode reviewers: %w", err)
	}
	usernames := make(map[primitive.ObjectID]string, len(users))
	for _, u := range users {
		usernames[u.ID] = u.Username
	}

	out := make([]ReviewWithUser, 0, len(reviews))
	for _, r := range reviews {
		out = append(out, ReviewWithUser{ProductReview: r, Username: usernames[r.UserID]})
	}
	return out, nil
}

// RatingsSummary aggregates average rating and total count for the
// product.
func (s *Service) RatingsSummary(ctx context.Context, productID primitive.ObjectID) (*models.RatingSummary, error) {
	product, err := s.findActive(ctx, productID)
	if err != nil {
		return nil, err
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"productId": product.ID, "deletedAt": nil}}},
		{{Key: "$group", Value: bson.M{
			"_id":           "$productId",
			"averageRating": bson.M{"$avg": "$rating"},
			"totalRatings":  bson.M{"$sum": 1},
		}}},
	}

	cursor, err := s.db.Collection("productRatings").Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("aggregate ratings: %w", err)
	}
	defer cursor.Close(ctx)

	var summaries []models.RatingSummary
	if err := cursor.All(ctx, &summaries); err != nil {
		return nil, fmt.Errorf("decode rating summary: %w", err)
	}
	if len(summaries) == 0 {
		return nil, httperr.ErrNoRatingsFound
	}
	return &summaries[0], nil
}

// DeleteReviewPermanently removes a review document.
func (s *Service) DeleteReviewPermanently(ctx context.Context, reviewID primitive.ObjectID) error {
	reviews := s.db.Collection("productReviews")

	err := reviews.FindOne(ctx, bson.M{"_id": reviewID}).Err()
	if errors.Is(err, mongo.ErrNoDocuments) {
		return httperr.ErrReviewNotFound
	}
	if err != nil {
		return fmt.Errorf("find review: %w", err)
	}

	res, err := reviews.DeleteOne(ctx, bson.M{"_id": reviewID})
	if err != nil {
		return fmt.Errorf("delete review: %w", err)
	}
	if res.DeletedCount == 0 {
		return httperr.ErrDeletingReview
	}
	return nil
}

// DeleteRatingPermanently removes a rating document.
func (s *Service) DeleteRatingPermanently(ctx context.Context, ratingID primitive.ObjectID) error {
	ratings := s.db.Collection("productRatings")

	err := ratings.FindOne(ctx, bson.M{"_id": ratingID}).Err()
	if errors.Is(err, mongo.ErrNoDocuments) {
		return httperr.ErrRatingNotFound
	}
	if err != nil {
		return fmt.Errorf("find rating: %w", err)
	}

	res, err := ratings.DeleteOne(ctx, bson.M{"_id": ratingID})
	if err != nil {
		return fmt.Errorf("delete rating: %w", err)
	}
	if res.DeletedCount == 0 {
		return httperr.ErrDeletingRating
	}
	return nil
}

// UpsertCoverImage records the uploaded cover image path for a product,
// replacing a previous one when present. The previous path is returned
// so the caller can clean the old file up.
func (s *Service) UpsertCoverImage(ctx context.Context, productID primitive.ObjectID, imagePath string) (string, error) {
	product, err := s.findActive(ctx, productID)
	if err != nil {
		return "", err
	}

	filter := bson.M{"productId": product.ID, "imageName": "coverImage"}
	update := bson.M{
		"$set": bson.M{"imagePath": imagePath},
		"$setOnInsert": bson.M{
			"productId": product.ID,
			"imageName": "coverImage",
			"createdAt": time.Now(),
		},
	}
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.Before)

	var previous models.ProductImage
	err = s.db.Collection("productImages").FindOneAndUpdate(ctx, filter, update, opts).Decode(&previous)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("upsert cover image: %w", err)
	}
	return previous.ImagePath, nil
}
