package cart

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"inventory-backend/internal/httperr"
	"inventory-backend/internal/models"
)

// ErrCartConflict is returned when a merge keeps losing the
// compare-and-swap race after all retries.
var ErrCartConflict = &httperr.Error{Status: http.StatusConflict, Message: "cart was modified concurrently, please retry"}

// maxMergeAttempts bounds the re-read/retry loop around the conditional
// item update.
const maxMergeAttempts = 3

// AddItemInput carries the validated fields for both cart entry paths.
type AddItemInput struct {
	UserID      primitive.ObjectID
	ProductID   primitive.ObjectID
	AttributeID primitive.ObjectID
	OptionID    primitive.ObjectID
	Quantity    int
}

// RemoveItemInput identifies the line item to drop from a cart.
type RemoveItemInput struct {
	CartID      primitive.ObjectID
	UserID      primitive.ObjectID
	ProductID   primitive.ObjectID
	AttributeID primitive.ObjectID
	OptionID    primitive.ObjectID
}

// Service is the cart mutator. Every mutating operation validates all
// entities and quantities before its single persisted write.
type Service struct {
	store Store
	cache Cache
}

// NewService builds a cart service. cache may be nil; reads then always
// go to the store.
func NewService(store Store, cache Cache) *Service {
	return &Service{store: store, cache: cache}
}

// validateSelection runs the shared validation chain: active product,
// attribute, option, active user, then the stock bound. No writes happen
// before it succeeds.
func (s *Service) validateSelection(ctx context.Context, in AddItemInput) (*models.Option, error) {
	product, err := s.store.FindActiveProduct(ctx, in.ProductID)
	if err != nil {
		return nil, err
	}
	option, err := ResolveOption(product, in.AttributeID, in.OptionID)
	if err != nil {
		return nil, err
	}
	if _, err := s.store.FindActiveUser(ctx, in.UserID); err != nil {
		return nil, err
	}
	if err := ValidateQuantity(option, in.Quantity); err != nil {
		return nil, err
	}
	return option, nil
}

// AddItemToNewCart creates a fresh cart holding one line item. It never
// reuses an existing cart, even when the user already owns one.
func (s *Service) AddItemToNewCart(ctx context.Context, in AddItemInput) (*models.Cart, error) {
	if _, err := s.validateSelection(ctx, in); err != nil {
		return nil, err
	}

	now := time.Now()
	cart := &models.Cart{
		UserID: in.UserID,
		Items: []models.CartItem{{
			ProductID:   in.ProductID,
			AttributeID: in.AttributeID,
			OptionID:    in.OptionID,
			Quantity:    in.Quantity,
		}},
		CreatedAt: now,
		UpdatedAt: now,
	}

	id, err := s.store.InsertCart(ctx, cart)
	if err != nil {
		return nil, err
	}
	cart.ID = id
	return cart, nil
}

// AddItemToExistingCart merges the requested quantity into an existing
// line item with the same triple, or appends a new line. The merge write
// is conditional on the quantity read beforehand; a lost race re-reads
// and retries instead of overwriting a concurrent update.
func (s *Service) AddItemToExistingCart(ctx context.Context, cartID primitive.ObjectID, in AddItemInput) (*models.Cart, error) {
	option, err := s.validateSelection(ctx, in)
	if err != nil {
		return nil, err
	}

	key := ItemKey{ProductID: in.ProductID, AttributeID: in.AttributeID, OptionID: in.OptionID}

	for attempt := 0; attempt < maxMergeAttempts; attempt++ {
		cart, err := s.store.FindCart(ctx, cartID, in.UserID)
		if err != nil {
			return nil, err
		}

		idx := -1
		for i, item := range cart.Items {
			if key.Matches(item) {
				idx = i
				break
			}
		}

		if idx >= 0 {
			oldQuantity := cart.Items[idx].Quantity
			newQuantity := oldQuantity + in.Quantity
			if newQuantity > option.Stock {
				return nil, &httperr.OutOfStockError{Available: option.Stock, Requested: newQuantity}
			}

			err = s.store.UpdateItemQuantity(ctx, cartID, in.UserID, key, oldQuantity, newQuantity)
			if errors.Is(err, ErrStaleCart) {
				continue
			}
			if err != nil {
				return nil, err
			}
			cart.Items[idx].Quantity = newQuantity
			s.invalidate(cartID)
			return cart, nil
		}

		item := models.CartItem{
			ProductID:   in.ProductID,
			AttributeID: in.AttributeID,
			OptionID:    in.OptionID,
			Quantity:    in.Quantity,
		}
		err = s.store.PushItem(ctx, cartID, in.UserID, item)
		if errors.Is(err, ErrStaleCart) {
			// triple appeared (or cart vanished) between read and write
			continue
		}
		if err != nil {
			return nil, err
		}
		cart.Items = append(cart.Items, item)
		s.invalidate(cartID)
		return cart, nil
	}

	return nil, ErrCartConflict
}

// RemoveItem drops the line item matching the triple. The cart's item
// list is untouched when no line matches.
func (s *Service) RemoveItem(ctx context.Context, in RemoveItemInput) (*models.Cart, error) {
	if _, err := s.store.FindActiveUser(ctx, in.UserID); err != nil {
		return nil, err
	}
	if _, err := s.store.FindActiveProduct(ctx, in.ProductID); err != nil {
		return nil, err
	}

	cart, err := s.store.FindCart(ctx, in.CartID, in.UserID)
	if err != nil {
		return nil, err
	}

	key := ItemKey{ProductID: in.ProductID, AttributeID: in.AttributeID, OptionID: in.OptionID}
	idx := -1
	for i, item := range cart.Items {
		if key.Matches(item) {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, httperr.ErrProductNotFoundInCart
	}

	if err := s.store.PullItem(ctx, in.CartID, in.UserID, key); err != nil {
		return nil, err
	}
	cart.Items = append(cart.Items[:idx], cart.Items[idx+1:]...)
	s.invalidate(in.CartID)
	return cart, nil
}

// CartItems returns the denormalized read-side view of the cart, served
// from cache when possible.
func (s *Service) CartItems(ctx context.Context, cartID, userID primitive.ObjectID) ([]ProjectedItem, error) {
	if _, err := s.store.FindActiveUser(ctx, userID); err != nil {
		return nil, err
	}

	if s.cache != nil {
		items, err := s.cache.Get(ctx, cartID)
		if err == nil {
			return items, nil
		}
		if !errors.Is(err, ErrCacheMiss) {
			log.Printf("[CART] cache get error: %v", err)
		}
	}

	cart, err := s.store.FindCart(ctx, cartID, userID)
	if err != nil {
		return nil, err
	}

	ids := make([]primitive.ObjectID, 0, len(cart.Items))
	seen := make(map[primitive.ObjectID]struct{}, len(cart.Items))
	for _, item := range cart.Items {
		if _, ok := seen[item.ProductID]; ok {
			continue
		}
		seen[item.ProductID] = struct{}{}
		ids = append(ids, item.ProductID)
	}

	products, err := s.store.FindProductsByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	items := ProjectItems(cart, products)

	if s.cache != nil {
		if err := s.cache.Set(ctx, cartID, items); err != nil {
			log.Printf("[CART] cache set error: %v", err)
		}
	}
	return items, nil
}

// Deactivate soft-deletes the cart by setting deletedAt.
func (s *Service) Deactivate(ctx context.Context, cartID primitive.ObjectID) error {
	if err := s.store.SoftDeleteCart(ctx, cartID); err != nil {
		return err
	}
	s.invalidate(cartID)
	return nil
}

// DeletePermanently removes the cart document.
func (s *Service) DeletePermanently(ctx context.Context, cartID primitive.ObjectID) error {
	if err := s.store.DeleteCart(ctx, cartID); err != nil {
		return err
	}
	s.invalidate(cartID)
	return nil
}

func (s *Service) invalidate(cartID primitive.ObjectID) {
	if s.cache == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := s.cache.Delete(ctx, cartID); err != nil {
		log.Printf("[CART] cache invalidate error: %v", err)
	}
}
