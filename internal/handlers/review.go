package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"inventory-backend/internal/catalog"
)

type addReviewRequest struct {
	ProductID string `json:"productId" binding:"required"`
	UserID    string `json:"userId" binding:"required"`
	Review    string `json:"review" binding:"required"`
}

type addRatingRequest struct {
	ProductID string `json:"productId" binding:"required"`
	UserID    string `json:"userId" binding:"required"`
	Rating    int    `json:"rating" binding:"required,min=1,max=5"`
}

// AddReview handles POST /user/product/review.
func AddReview(svc *catalog.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /user/product/review"
		defer handlePanic(c, route)

		var req addReviewRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, route, err)
			return
		}

		productID, ok := parseObjectID(c, route, "productId", req.ProductID)
		if !ok {
			return
		}
		userID, ok := parseObjectID(c, route, "userId", req.UserID)
		if !ok {
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		review, err := svc.AddReview(ctx, productID, userID, req.Review)
		if err != nil {
			respondDomainError(c, route, err)
			return
		}

		c.JSON(http.StatusOK, review)
	}
}

// AddRating handles POST /user/product/rating.
func AddRating(svc *catalog.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /user/product/rating"
		defer handlePanic(c, route)

		var req addRatingRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, route, err)
			return
		}

		productID, ok := parseObjectID(c, route, "productId", req.ProductID)
		if !ok {
			return
		}
		userID, ok := parseObjectID(c, route, "userId", req.UserID)
		if !ok {
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		rating, err := svc.AddRating(ctx, productID, userID, req.Rating)
		if err != nil {
			respondDomainError(c, route, err)
			return
		}

		c.JSON(http.StatusOK, rating)
	}
}

// DeleteReviewPermanently handles DELETE /user/product/review/:reviewId.
func DeleteReviewPermanently(svc *catalog.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /user/product/review"
		defer handlePanic(c, route)

		reviewID, ok := parseObjectID(c, route, "reviewId", c.Param("reviewId"))
		if !ok {
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		if err := svc.DeleteReviewPermanently(ctx, reviewID); err != nil {
			respondDomainError(c, route, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "review deleted (hard)"})
	}
}

// DeleteRatingPermanently handles DELETE /user/product/rating/:ratingId.
func DeleteRatingPermanently(svc *catalog.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /user/product/rating"
		defer handlePanic(c, route)

		ratingID, ok := parseObjectID(c, route, "ratingId", c.Param("ratingId"))
		if !ok {
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		if err := svc.DeleteRatingPermanently(ctx, ratingID); err != nil {
			respondDomainError(c, route, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "rating deleted (hard)"})
	}
}
