package handlers

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"inventory-backend/internal/httperr"
)

func handlePanic(c *gin.Context, route string) {
	if r := recover(); r != nil {
		log.Printf("[%s] panic recovered: %v", route, r)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

func ensureDBConnection(ctx context.Context, db *mongo.Database) error {
	checkCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	return db.Client().Ping(checkCtx, readpref.Primary())
}

func respondWithError(c *gin.Context, status int, route string, message string) {
	log.Printf("[%s] returning error %d: %s", route, status, message)
	c.AbortWithStatusJSON(status, gin.H{"error": message})
}

// respondDomainError maps typed domain failures onto the single
// {error: message} response shape; anything unrecognized is a 500.
func respondDomainError(c *gin.Context, route string, err error) {
	var stockErr *httperr.OutOfStockError
	if errors.As(err, &stockErr) {
		log.Printf("[%s] returning error %d: %s", route, stockErr.Status(), stockErr.Error())
		c.AbortWithStatusJSON(stockErr.Status(), gin.H{
			"error":     "product out of stock",
			"available": stockErr.Available,
			"requested": stockErr.Requested,
		})
		return
	}

	var domainErr *httperr.Error
	if errors.As(err, &domainErr) {
		respondWithError(c, domainErr.Status, route, domainErr.Message)
		return
	}

	log.Printf("[%s] unexpected error: %v", route, err)
	respondWithError(c, http.StatusInternalServerError, route, "db error")
}

// respondValidationError expands binding failures into per-field
// messages so clients see which field was rejected.
func respondValidationError(c *gin.Context, route string, err error) {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		details := make([]string, 0, len(validationErrors))
		for _, fieldError := range validationErrors {
			field := lowerCamel(fieldError.Field())
			switch fieldError.Tag() {
			case "required":
				details = append(details, fmt.Sprintf("%s is required", field))
			case "min":
				details = append(details, fmt.Sprintf("%s is below the minimum of %s", field, fieldError.Param()))
			case "max":
				details = append(details, fmt.Sprintf("%s is above the maximum of %s", field, fieldError.Param()))
			case "gt":
				details = append(details, fmt.Sprintf("%s must be greater than %s", field, fieldError.Param()))
			default:
				details = append(details, fmt.Sprintf("%s is invalid", field))
			}
		}
		log.Printf("[%s] validation failed: %v", route, details)
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":   "validation failed",
			"details": details,
		})
		return
	}

	respondWithError(c, http.StatusBadRequest, route, "invalid request body")
}

func lowerCamel(field string) string {
	if field == "" {
		return field
	}
	return strings.ToLower(field[:1]) + field[1:]
}

func parseObjectID(c *gin.Context, route, name, value string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(value)
	if err != nil {
		respondWithError(c, http.StatusBadRequest, route, "invalid "+name)
		return primitive.NilObjectID, false
	}
	return id, true
}
