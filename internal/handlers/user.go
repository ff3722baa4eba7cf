package handlers

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/crypto/bcrypt"

	"inventory-backend/internal/config"
	"inventory-backend/internal/httperr"
	"inventory-backend/internal/models"
)

type addUserRequest struct {
	Username string `json:"username" binding:"required,min=3"`
	Password string `json:"password" binding:"required,min=8"`
}

// userListEntry is the public projection of a user document. Password
// hashes never leave the database layer.
type userListEntry struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// AddUser handles POST /user/new.
func AddUser(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /user/new"
		defer handlePanic(c, route)

		var req addUserRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, route, err)
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), config.AppEnv.BcryptCost)
		if err != nil {
			log.Printf("[%s] hash failed: %v", route, err)
			respondWithError(c, http.StatusInternalServerError, route, "could not create user")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		if err := ensureDBConnection(ctx, db); err != nil {
			respondWithError(c, http.StatusServiceUnavailable, route, "database unavailable")
			return
		}

		now := time.Now()
		user := models.User{
			Username:     strings.TrimSpace(req.Username),
			PasswordHash: string(hash),
			CreatedAt:    now,
			UpdatedAt:    now,
		}

		res, err := db.Collection("users").InsertOne(ctx, user)
		if err != nil {
			if mongo.IsDuplicateKeyError(err) {
				respondWithError(c, http.StatusConflict, route, "user already exists")
				return
			}
			log.Printf("[%s] insert failed: %v", route, err)
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		log.Printf("[%s] user %s created", route, user.Username)
		c.JSON(http.StatusOK, gin.H{
			"id":       res.InsertedID,
			"username": user.Username,
		})
	}
}

// GetActiveUsersList handles GET /user/list with page/pageSize query
// params.
func GetActiveUsersList(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /user/list"
		defer handlePanic(c, route)

		page, pageSize, err := parsePaginationParams(c.Query("page"), c.Query("pageSize"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid pagination params")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		users := db.Collection("users")
		filter := bson.M{"deletedAt": nil}

		total, err := users.CountDocuments(ctx, filter)
		if err != nil {
			log.Printf("[%s] count failed: %v", route, err)
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		if total == 0 {
			respondDomainError(c, route, httperr.ErrNoActiveUsers)
			return
		}

		totalPages := (total + pageSize - 1) / pageSize
		if page > totalPages {
			respondDomainError(c, route, httperr.ErrInvalidPageNumber)
			return
		}

		opts := options.Find().
			SetProjection(bson.M{"_id": 1, "username": 1}).
			SetSkip((page - 1) * pageSize).
			SetLimit(pageSize)

		cursor, err := users.Find(ctx, filter, opts)
		if err != nil {
			log.Printf("[%s] find failed: %v", route, err)
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		defer cursor.Close(ctx)

		var docs []models.User
		if err := cursor.All(ctx, &docs); err != nil {
			log.Printf("[%s] decode failed: %v", route, err)
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		entries := make([]userListEntry, 0, len(docs))
		for _, u := range docs {
			entries = append(entries, userListEntry{ID: u.ID.Hex(), Username: u.Username})
		}

		c.JSON(http.StatusOK, gin.H{
			"data": entries,
			"pagination": gin.H{
				"page":       page,
				"pageSize":   pageSize,
				"totalPages": totalPages,
			},
		})
	}
}

// DeactivateUser handles PUT /user/deactivate/:userId (soft delete).
func DeactivateUser(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /user/deactivate"
		defer handlePanic(c, route)

		userID, ok := parseObjectID(c, route, "userId", c.Param("userId"))
		if !ok {
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		res, err := db.Collection("users").UpdateOne(ctx,
			bson.M{"_id": userID, "deletedAt": nil},
			bson.M{"$set": bson.M{"deletedAt": time.Now(), "updatedAt": time.Now()}},
		)
		if err != nil {
			log.Printf("[%s] update failed: %v", route, err)
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		if res.MatchedCount == 0 {
			respondDomainError(c, route, httperr.ErrUserNotFound)
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "user deleted (soft)"})
	}
}

// DeleteUserPermanently handles DELETE /user/:userId.
func DeleteUserPermanently(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /user"
		defer handlePanic(c, route)

		userID, ok := parseObjectID(c, route, "userId", c.Param("userId"))
		if !ok {
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		users := db.Collection("users")
		err := users.FindOne(ctx, bson.M{"_id": userID}).Err()
		if err == mongo.ErrNoDocuments {
			respondDomainError(c, route, httperr.ErrUserNotFound)
			return
		}
		if err != nil {
			log.Printf("[%s] find failed: %v", route, err)
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		res, err := users.DeleteOne(ctx, bson.M{"_id": userID})
		if err != nil {
			log.Printf("[%s] delete failed: %v", route, err)
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		if res.DeletedCount == 0 {
			respondDomainError(c, route, httperr.ErrDeletingUser)
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "user deleted (hard)"})
	}
}
