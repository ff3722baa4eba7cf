package handlers

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"inventory-backend/internal/cart"
)

/* =========================
   REQUEST DTOs
========================= */

type addItemToNewCartRequest struct {
	UserID      string `json:"userId" binding:"required"`
	ProductID   string `json:"productId" binding:"required"`
	AttributeID string `json:"attributeId" binding:"required"`
	OptionID    string `json:"optionId" binding:"required"`
	Quantity    int    `json:"quantity" binding:"required,min=1"`
}

type addItemToExistingCartRequest struct {
	CartID      string `json:"cartId" binding:"required"`
	UserID      string `json:"userId" binding:"required"`
	ProductID   string `json:"productId" binding:"required"`
	AttributeID string `json:"attributeId" binding:"required"`
	OptionID    string `json:"optionId" binding:"required"`
	Quantity    int    `json:"quantity" binding:"required,min=1"`
}

type removeItemFromCartRequest struct {
	CartID      string `json:"cartId" binding:"required"`
	UserID      string `json:"userId" binding:"required"`
	ProductID   string `json:"productId" binding:"required"`
	AttributeID string `json:"attributeId" binding:"required"`
	OptionID    string `json:"optionId" binding:"required"`
}

func bindAddItemInput(c *gin.Context, route string, userID, productID, attributeID, optionID string, quantity int) (cart.AddItemInput, bool) {
	var in cart.AddItemInput
	var ok bool
	if in.UserID, ok = parseObjectID(c, route, "userId", userID); !ok {
		return in, false
	}
	if in.ProductID, ok = parseObjectID(c, route, "productId", productID); !ok {
		return in, false
	}
	if in.AttributeID, ok = parseObjectID(c, route, "attributeId", attributeID); !ok {
		return in, false
	}
	if in.OptionID, ok = parseObjectID(c, route, "optionId", optionID); !ok {
		return in, false
	}
	in.Quantity = quantity
	return in, true
}

/* =========================
   CART OPERATIONS
========================= */

// AddItemToNewCart handles POST /cart/new/item/add. Always creates a new
// cart, even when the user already owns one.
func AddItemToNewCart(svc *cart.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /cart/new/item/add"
		defer handlePanic(c, route)

		var req addItemToNewCartRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, route, err)
			return
		}

		in, ok := bindAddItemInput(c, route, req.UserID, req.ProductID, req.AttributeID, req.OptionID, req.Quantity)
		if !ok {
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		created, err := svc.AddItemToNewCart(ctx, in)
		if err != nil {
			respondDomainError(c, route, err)
			return
		}

		log.Printf("[%s] cart %s created for user %s", route, created.ID.Hex(), in.UserID.Hex())
		c.JSON(http.StatusOK, created)
	}
}

// AddItemToExistingCart handles PUT /cart/existing/item/add, merging into
// an existing line item when the triple matches.
func AddItemToExistingCart(svc *cart.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /cart/existing/item/add"
		defer handlePanic(c, route)

		var req addItemToExistingCartRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, route, err)
			return
		}

		cartID, ok := parseObjectID(c, route, "cartId", req.CartID)
		if !ok {
			return
		}
		in, ok := bindAddItemInput(c, route, req.UserID, req.ProductID, req.AttributeID, req.OptionID, req.Quantity)
		if !ok {
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		updated, err := svc.AddItemToExistingCart(ctx, cartID, in)
		if err != nil {
			respondDomainError(c, route, err)
			return
		}

		c.JSON(http.StatusOK, updated)
	}
}

// RemoveItemFromCart handles PUT /cart/item/remove.
func RemoveItemFromCart(svc *cart.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /cart/item/remove"
		defer handlePanic(c, route)

		var req removeItemFromCartRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, route, err)
			return
		}

		var in cart.RemoveItemInput
		var ok bool
		if in.CartID, ok = parseObjectID(c, route, "cartId", req.CartID); !ok {
			return
		}
		if in.UserID, ok = parseObjectID(c, route, "userId", req.UserID); !ok {
			return
		}
		if in.ProductID, ok = parseObjectID(c, route, "productId", req.ProductID); !ok {
			return
		}
		if in.AttributeID, ok = parseObjectID(c, route, "attributeId", req.AttributeID); !ok {
			return
		}
		if in.OptionID, ok = parseObjectID(c, route, "optionId", req.OptionID); !ok {
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		updated, err := svc.RemoveItem(ctx, in)
		if err != nil {
			respondDomainError(c, route, err)
			return
		}

		c.JSON(http.StatusOK, updated)
	}
}

// GetCartItems handles GET /cart/item/list/:cartId/:userId, returning the
// denormalized per-item product view.
func GetCartItems(svc *cart.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /cart/item/list"
		defer handlePanic(c, route)

		cartID, ok := parseObjectID(c, route, "cartId", c.Param("cartId"))
		if !ok {
			return
		}
		userID, ok := parseObjectID(c, route, "userId", c.Param("userId"))
		if !ok {
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		items, err := svc.CartItems(ctx, cartID, userID)
		if err != nil {
			respondDomainError(c, route, err)
			return
		}

		log.Printf("[%s] returning %d items for cart %s", route, len(items), cartID.Hex())
		c.JSON(http.StatusOK, items)
	}
}

// DeactivateCart handles PUT /cart/deactivate/:cartId (soft delete).
func DeactivateCart(svc *cart.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /cart/deactivate"
		defer handlePanic(c, route)

		cartID, ok := parseObjectID(c, route, "cartId", c.Param("cartId"))
		if !ok {
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		if err := svc.Deactivate(ctx, cartID); err != nil {
			respondDomainError(c, route, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "cart deleted (soft)"})
	}
}

// DeleteCartPermanently handles DELETE /cart/:cartId.
func DeleteCartPermanently(svc *cart.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /cart"
		defer handlePanic(c, route)

		cartID, ok := parseObjectID(c, route, "cartId", c.Param("cartId"))
		if !ok {
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		if err := svc.DeletePermanently(ctx, cartID); err != nil {
			respondDomainError(c, route, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "cart deleted (hard)"})
	}
}
