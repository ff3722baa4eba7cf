package handlers

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"inventory-backend/internal/catalog"
)

// UploadProductImage handles PUT /product/upload/coverimage/:productId.
// The multipart field name is productCoverImage. Re-uploading replaces
// the cover image; the previous file is removed best-effort.
func UploadProductImage(svc *catalog.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /product/upload/coverimage"
		defer handlePanic(c, route)

		productID, ok := parseObjectID(c, route, "productId", c.Param("productId"))
		if !ok {
			return
		}

		file, err := c.FormFile("productCoverImage")
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "productCoverImage file is required")
			return
		}

		imagePath, err := saveImage(file)
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, err.Error())
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		previousPath, err := svc.UpsertCoverImage(ctx, productID, imagePath)
		if err != nil {
			if removeErr := safeDeleteUpload(imagePath); removeErr != nil {
				log.Printf("[%s] orphan cleanup failed: %v", route, removeErr)
			}
			respondDomainError(c, route, err)
			return
		}

		if previousPath != "" && previousPath != imagePath {
			if removeErr := safeDeleteUpload(previousPath); removeErr != nil {
				log.Printf("[%s] old image cleanup failed: %v", route, removeErr)
			}
		}

		log.Printf("[%s] cover image stored for product %s: %s", route, productID.Hex(), imagePath)
		c.JSON(http.StatusOK, gin.H{
			"message":   "cover image uploaded",
			"imagePath": imagePath,
		})
	}
}
