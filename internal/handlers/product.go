package handlers

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"inventory-backend/internal/catalog"
)

/* =========================
   REQUEST DTOs
========================= */

type addProductRequest struct {
	Name        string                   `json:"name" binding:"required"`
	Description string                   `json:"description" binding:"required"`
	Price       float64                  `json:"price" binding:"required,gt=0"`
	Category    string                   `json:"category" binding:"required"`
	Attributes  []catalog.AttributeInput `json:"attributes" binding:"required,min=1,dive"`
}

type addAttributeRequest struct {
	Name    string                `json:"name" binding:"required"`
	Options []catalog.OptionInput `json:"options" binding:"required,min=1,dive"`
}

type addOptionsRequest struct {
	Options []catalog.OptionInput `json:"options" binding:"required,min=1,dive"`
}

type removeOptionsRequest struct {
	OptionIDs []string `json:"optionIds" binding:"required,min=1"`
}

type updateProductRequest struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"`
	Category    *string  `json:"category"`
}

/* =========================
   PRODUCT CRUD
========================= */

// AddProduct handles POST /product/new.
func AddProduct(svc *catalog.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /product/new"
		defer handlePanic(c, route)

		var req addProductRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, route, err)
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		product, err := svc.AddProduct(ctx, catalog.ProductInput{
			Name:        req.Name,
			Description: req.Description,
			Price:       req.Price,
			Category:    req.Category,
			Attributes:  req.Attributes,
		})
		if err != nil {
			respondDomainError(c, route, err)
			return
		}

		log.Printf("[%s] product %s created", route, product.ProductID)
		c.JSON(http.StatusOK, product)
	}
}

// ProductsList handles GET /product/list. Pagination is optional; without
// page+pageSize all active products are returned.
func ProductsList(svc *catalog.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /product/list"
		defer handlePanic(c, route)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		pageStr := c.Query("page")
		pageSizeStr := c.Query("pageSize")

		if pageStr == "" && pageSizeStr == "" {
			products, err := svc.List(ctx)
			if err != nil {
				respondDomainError(c, route, err)
				return
			}
			log.Printf("[%s] returning %d products", route, len(products))
			c.JSON(http.StatusOK, products)
			return
		}

		page, pageSize, err := parsePaginationParams(pageStr, pageSizeStr)
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid pagination params")
			return
		}

		products, pagination, err := svc.ListPaginated(ctx, page, pageSize)
		if err != nil {
			respondDomainError(c, route, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"data":       products,
			"pagination": pagination,
		})
	}
}

// UpdateProduct handles PATCH /product/:productId.
func UpdateProduct(svc *catalog.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PATCH /product"
		defer handlePanic(c, route)

		productID, ok := parseObjectID(c, route, "productId", c.Param("productId"))
		if !ok {
			return
		}

		var req updateProductRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, route, err)
			return
		}
		if req.Name == nil && req.Description == nil && req.Price == nil && req.Category == nil {
			respondWithError(c, http.StatusBadRequest, route, "no fields to update")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		updated, err := svc.UpdateProduct(ctx, productID, catalog.ProductUpdate{
			Name:        req.Name,
			Description: req.Description,
			Price:       req.Price,
			Category:    req.Category,
		})
		if err != nil {
			respondDomainError(c, route, err)
			return
		}

		c.JSON(http.StatusOK, updated)
	}
}

// DeactivateProduct handles PUT /product/deactivate/:productId.
func DeactivateProduct(svc *catalog.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /product/deactivate"
		defer handlePanic(c, route)

		productID, ok := parseObjectID(c, route, "productId", c.Param("productId"))
		if !ok {
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		if err := svc.Deactivate(ctx, productID); err != nil {
			respondDomainError(c, route, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "product deleted (soft)"})
	}
}

// DeleteProductPermanently handles DELETE /product/:productId.
func DeleteProductPermanently(svc *catalog.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /product"
		defer handlePanic(c, route)

		productID, ok := parseObjectID(c, route, "productId", c.Param("productId"))
		if !ok {
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		if err := svc.DeletePermanently(ctx, productID); err != nil {
			respondDomainError(c, route, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "product deleted (hard)"})
	}
}

/* =========================
   ATTRIBUTE / OPTION MUTATIONS
========================= */

// AddProductAttribute handles POST /product/attribute/:productId.
func AddProductAttribute(svc *catalog.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /product/attribute"
		defer handlePanic(c, route)

		productID, ok := parseObjectID(c, route, "productId", c.Param("productId"))
		if !ok {
			return
		}

		var req addAttributeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, route, err)
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		attributes, err := svc.AddAttribute(ctx, productID, catalog.AttributeInput{
			Name:    req.Name,
			Options: req.Options,
		})
		if err != nil {
			respondDomainError(c, route, err)
			return
		}

		c.JSON(http.StatusOK, attributes)
	}
}

// AddProductOptions handles POST /product/attribute/options/:productId/:attributeId.
func AddProductOptions(svc *catalog.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /product/attribute/options"
		defer handlePanic(c, route)

		productID, ok := parseObjectID(c, route, "productId", c.Param("productId"))
		if !ok {
			return
		}
		attributeID, ok := parseObjectID(c, route, "attributeId", c.Param("attributeId"))
		if !ok {
			return
		}

		var req addOptionsRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, route, err)
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		options, err := svc.AddOptions(ctx, productID, attributeID, req.Options)
		if err != nil {
			respondDomainError(c, route, err)
			return
		}

		c.JSON(http.StatusOK, options)
	}
}

// RemoveProductAttribute handles DELETE /product/attribute/:productId/:attributeId.
func RemoveProductAttribute(svc *catalog.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /product/attribute"
		defer handlePanic(c, route)

		productID, ok := parseObjectID(c, route, "productId", c.Param("productId"))
		if !ok {
			return
		}
		attributeID, ok := parseObjectID(c, route, "attributeId", c.Param("attributeId"))
		if !ok {
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		attributes, err := svc.RemoveAttribute(ctx, productID, attributeID)
		if err != nil {
			respondDomainError(c, route, err)
			return
		}

		c.JSON(http.StatusOK, attributes)
	}
}

// RemoveProductOptions handles DELETE /product/attribute/options/:productId/:attributeId.
// Unknown option ids are skipped silently.
func RemoveProductOptions(svc *catalog.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /product/attribute/options"
		defer handlePanic(c, route)

		productID, ok := parseObjectID(c, route, "productId", c.Param("productId"))
		if !ok {
			return
		}
		attributeID, ok := parseObjectID(c, route, "attributeId", c.Param("attributeId"))
		if !ok {
			return
		}

		var req removeOptionsRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, route, err)
			return
		}

		optionIDs := make([]primitive.ObjectID, 0, len(req.OptionIDs))
		for _, raw := range req.OptionIDs {
			id, ok := parseObjectID(c, route, "optionId", raw)
			if !ok {
				return
			}
			optionIDs = append(optionIDs, id)
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		options, err := svc.RemoveOptions(ctx, productID, attributeID, optionIDs)
		if err != nil {
			respondDomainError(c, route, err)
			return
		}

		c.JSON(http.StatusOK, options)
	}
}

/* =========================
   REVIEW / RATING SUMMARIES
========================= */

// ReviewsSummary handles GET /product/summary/reviews/:productId.
func ReviewsSummary(svc *catalog.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /product/summary/reviews"
		defer handlePanic(c, route)

		productID, ok := parseObjectID(c, route, "productId", c.Param("productId"))
		if !ok {
			return
		}
		page, pageSize, err := parsePaginationParams(c.Query("page"), c.Query("pageSize"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid pagination params")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		reviews, err := svc.ReviewsSummary(ctx, productID, page, pageSize)
		if err != nil {
			respondDomainError(c, route, err)
			return
		}

		c.JSON(http.StatusOK, reviews)
	}
}

// RatingsSummary handles GET /product/summary/ratings/:productId.
func RatingsSummary(svc *catalog.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /product/summary/ratings"
		defer handlePanic(c, route)

		productID, ok := parseObjectID(c, route, "productId", c.Param("productId"))
		if !ok {
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		summary, err := svc.RatingsSummary(ctx, productID)
		if err != nil {
			respondDomainError(c, route, err)
			return
		}

		c.JSON(http.StatusOK, summary)
	}
}
