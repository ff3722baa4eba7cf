package cart

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"inventory-backend/internal/httperr"
	"inventory-backend/internal/models"
)

type mockStore struct {
	m        sync.Mutex
	products map[primitive.ObjectID]*models.Product
	users    map[primitive.ObjectID]*models.User
	cart     *models.Cart

	// staleUpdates makes the next N conditional writes lose the race:
	// the stored quantity is bumped as if another request won, and
	// ErrStaleCart is returned.
	staleUpdates int

	inserts int
	updates int
	pushes  int
	pulls   int
}

func (m *mockStore) FindActiveProduct(_ context.Context, productID primitive.ObjectID) (*models.Product, error) {
	m.m.Lock()
	defer m.m.Unlock()
	product, ok := m.products[productID]
	if !ok || product.DeletedAt != nil {
		return nil, httperr.ErrProductNotFound
	}
	return product, nil
}

func (m *mockStore) FindActiveUser(_ context.Context, userID primitive.ObjectID) (*models.User, error) {
	m.m.Lock()
	defer m.m.Unlock()
	user, ok := m.users[userID]
	if !ok || user.DeletedAt != nil {
		return nil, httperr.ErrUserNotFound
	}
	return user, nil
}

func (m *mockStore) FindCart(_ context.Context, cartID, userID primitive.ObjectID) (*models.Cart, error) {
	m.m.Lock()
	defer m.m.Unlock()
	if m.cart == nil || m.cart.ID != cartID || m.cart.UserID != userID || m.cart.DeletedAt != nil {
		return nil, httperr.ErrCartNotFound
	}
	copied := *m.cart
	copied.Items = append([]models.CartItem(nil), m.cart.Items...)
	return &copied, nil
}

func (m *mockStore) FindProductsByIDs(_ context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*models.Product, error) {
	m.m.Lock()
	defer m.m.Unlock()
	out := make(map[primitive.ObjectID]*models.Product, len(ids))
	for _, id := range ids {
		if product, ok := m.products[id]; ok {
			out[id] = product
		}
	}
	return out, nil
}

func (m *mockStore) InsertCart(_ context.Context, cart *models.Cart) (primitive.ObjectID, error) {
	m.m.Lock()
	defer m.m.Unlock()
	m.inserts++
	id := primitive.NewObjectID()
	stored := *cart
	stored.ID = id
	stored.Items = append([]models.CartItem(nil), cart.Items...)
	m.cart = &stored
	return id, nil
}

func (m *mockStore) UpdateItemQuantity(_ context.Context, cartID, userID primitive.ObjectID, key ItemKey, oldQuantity, newQuantity int) error {
	m.m.Lock()
	defer m.m.Unlock()
	if m.cart == nil || m.cart.ID != cartID || m.cart.UserID != userID {
		return ErrStaleCart
	}
	for i, item := range m.cart.Items {
		if !key.Matches(item) {
			continue
		}
		if m.staleUpdates > 0 {
			m.staleUpdates--
			m.cart.Items[i].Quantity++
			return ErrStaleCart
		}
		if item.Quantity != oldQuantity {
			return ErrStaleCart
		}
		m.cart.Items[i].Quantity = newQuantity
		m.updates++
		return nil
	}
	return ErrStaleCart
}

func (m *mockStore) PushItem(_ context.Context, cartID, userID primitive.ObjectID, item models.CartItem) error {
	m.m.Lock()
	defer m.m.Unlock()
	if m.cart == nil || m.cart.ID != cartID || m.cart.UserID != userID {
		return ErrStaleCart
	}
	key := ItemKey{ProductID: item.ProductID, AttributeID: item.AttributeID, OptionID: item.OptionID}
	for _, existing := range m.cart.Items {
		if key.Matches(existing) {
			return ErrStaleCart
		}
	}
	m.cart.Items = append(m.cart.Items, item)
	m.pushes++
	return nil
}

func (m *mockStore) PullItem(_ context.Context, cartID, userID primitive.ObjectID, key ItemKey) error {
	m.m.Lock()
	defer m.m.Unlock()
	if m.cart == nil || m.cart.ID != cartID || m.cart.UserID != userID {
		return httperr.ErrCartNotFound
	}
	for i, item := range m.cart.Items {
		if key.Matches(item) {
			m.cart.Items = append(m.cart.Items[:i], m.cart.Items[i+1:]...)
			m.pulls++
			return nil
		}
	}
	return httperr.ErrProductNotFoundInCart
}

func (m *mockStore) SoftDeleteCart(_ context.Context, cartID primitive.ObjectID) error {
	m.m.Lock()
	defer m.m.Unlock()
	if m.cart == nil || m.cart.ID != cartID || m.cart.DeletedAt != nil {
		return httperr.ErrCartNotFound
	}
	now := m.cart.UpdatedAt
	m.cart.DeletedAt = &now
	return nil
}

func (m *mockStore) DeleteCart(_ context.Context, cartID primitive.ObjectID) error {
	m.m.Lock()
	defer m.m.Unlock()
	if m.cart == nil || m.cart.ID != cartID {
		return httperr.ErrDeletingCart
	}
	m.cart = nil
	return nil
}

type fixture struct {
	store       *mockStore
	svc         *Service
	userID      primitive.ObjectID
	productID   primitive.ObjectID
	attributeID primitive.ObjectID
	optionID    primitive.ObjectID
}

// newFixture builds a store holding one active user and one product with
// a single size attribute whose option has the given stock.
func newFixture(stock int) *fixture {
	f := &fixture{
		store:       &mockStore{},
		userID:      primitive.NewObjectID(),
		productID:   primitive.NewObjectID(),
		attributeID: primitive.NewObjectID(),
		optionID:    primitive.NewObjectID(),
	}
	f.store.users = map[primitive.ObjectID]*models.User{
		f.userID: {ID: f.userID, Username: "tester"},
	}
	f.store.products = map[primitive.ObjectID]*models.Product{
		f.productID: {
			ID:        f.productID,
			ProductID: "PROD-1700000000000-1",
			Name:      "Hoodie",
			Price:     49.90,
			Attributes: []models.Attribute{{
				ID:   f.attributeID,
				Name: "size",
				Options: []models.Option{{
					ID:    f.optionID,
					Value: "M",
					Stock: stock,
				}},
			}},
		},
	}
	f.svc = NewService(f.store, nil)
	return f
}

func (f *fixture) input(quantity int) AddItemInput {
	return AddItemInput{
		UserID:      f.userID,
		ProductID:   f.productID,
		AttributeID: f.attributeID,
		OptionID:    f.optionID,
		Quantity:    quantity,
	}
}

func TestAddItemToNewCart_Success(t *testing.T) {
	f := newFixture(5)

	created, err := f.svc.AddItemToNewCart(context.Background(), f.input(3))
	require.NoError(t, err)
	require.Len(t, created.Items, 1)
	assert.Equal(t, 3, created.Items[0].Quantity)
	assert.Equal(t, f.userID, created.UserID)
	assert.False(t, created.ID.IsZero())
	assert.Equal(t, 1, f.store.inserts)
}

func TestAddItemToNewCart_AlwaysCreatesFreshCart(t *testing.T) {
	f := newFixture(10)

	first, err := f.svc.AddItemToNewCart(context.Background(), f.input(1))
	require.NoError(t, err)
	second, err := f.svc.AddItemToNewCart(context.Background(), f.input(1))
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, 2, f.store.inserts)
}

func TestAddItemToNewCart_OutOfStockWritesNothing(t *testing.T) {
	f := newFixture(2)

	_, err := f.svc.AddItemToNewCart(context.Background(), f.input(3))

	var stockErr *httperr.OutOfStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, 2, stockErr.Available)
	assert.Equal(t, 3, stockErr.Requested)
	assert.Equal(t, 0, f.store.inserts)
}

func TestAddItemToNewCart_ValidationOrder(t *testing.T) {
	f := newFixture(5)

	in := f.input(1)
	in.ProductID = primitive.NewObjectID()
	in.UserID = primitive.NewObjectID()
	// both product and user are unknown; the product check runs first
	_, err := f.svc.AddItemToNewCart(context.Background(), in)
	assert.ErrorIs(t, err, httperr.ErrProductNotFound)

	in = f.input(1)
	in.AttributeID = primitive.NewObjectID()
	_, err = f.svc.AddItemToNewCart(context.Background(), in)
	assert.ErrorIs(t, err, httperr.ErrAttributeNotFound)

	in = f.input(1)
	in.OptionID = primitive.NewObjectID()
	_, err = f.svc.AddItemToNewCart(context.Background(), in)
	assert.ErrorIs(t, err, httperr.ErrOptionNotFound)

	in = f.input(1)
	in.UserID = primitive.NewObjectID()
	_, err = f.svc.AddItemToNewCart(context.Background(), in)
	assert.ErrorIs(t, err, httperr.ErrUserNotFound)
}

func TestAddItemToExistingCart_MergesIntoSingleLine(t *testing.T) {
	f := newFixture(5)

	created, err := f.svc.AddItemToNewCart(context.Background(), f.input(3))
	require.NoError(t, err)

	updated, err := f.svc.AddItemToExistingCart(context.Background(), created.ID, f.input(2))
	require.NoError(t, err)
	require.Len(t, updated.Items, 1)
	assert.Equal(t, 5, updated.Items[0].Quantity)
	assert.Equal(t, 0, f.store.pushes)
}

func TestAddItemToExistingCart_MergeOverflowFails(t *testing.T) {
	f := newFixture(5)

	created, err := f.svc.AddItemToNewCart(context.Background(), f.input(3))
	require.NoError(t, err)
	_, err = f.svc.AddItemToExistingCart(context.Background(), created.ID, f.input(2))
	require.NoError(t, err)

	// stock 5 is exhausted; one more unit must fail without writing
	_, err = f.svc.AddItemToExistingCart(context.Background(), created.ID, f.input(1))
	var stockErr *httperr.OutOfStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, 5, stockErr.Available)
	assert.Equal(t, 6, stockErr.Requested)

	assert.Equal(t, 5, f.store.cart.Items[0].Quantity)
	assert.Equal(t, 1, f.store.updates)

	// failure is idempotent: retrying fails the same way
	_, err = f.svc.AddItemToExistingCart(context.Background(), created.ID, f.input(1))
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, 5, f.store.cart.Items[0].Quantity)
}

func TestAddItemToExistingCart_AppendsNewLineForDifferentOption(t *testing.T) {
	f := newFixture(5)

	secondOption := primitive.NewObjectID()
	product := f.store.products[f.productID]
	product.Attributes[0].Options = append(product.Attributes[0].Options, models.Option{
		ID:    secondOption,
		Value: "L",
		Stock: 4,
	})

	created, err := f.svc.AddItemToNewCart(context.Background(), f.input(2))
	require.NoError(t, err)

	in := f.input(1)
	in.OptionID = secondOption
	updated, err := f.svc.AddItemToExistingCart(context.Background(), created.ID, in)
	require.NoError(t, err)
	require.Len(t, updated.Items, 2)
	assert.Equal(t, 1, f.store.pushes)
}

func TestAddItemToExistingCart_CartNotFound(t *testing.T) {
	f := newFixture(5)

	_, err := f.svc.AddItemToExistingCart(context.Background(), primitive.NewObjectID(), f.input(1))
	assert.ErrorIs(t, err, httperr.ErrCartNotFound)
}

func TestAddItemToExistingCart_RetriesLostRace(t *testing.T) {
	f := newFixture(10)

	created, err := f.svc.AddItemToNewCart(context.Background(), f.input(2))
	require.NoError(t, err)

	// first conditional write loses to a concurrent +1; the retry must
	// merge on top of the fresher quantity instead of overwriting it
	f.store.staleUpdates = 1
	updated, err := f.svc.AddItemToExistingCart(context.Background(), created.ID, f.input(3))
	require.NoError(t, err)
	require.Len(t, updated.Items, 1)
	assert.Equal(t, 6, updated.Items[0].Quantity)
}

func TestAddItemToExistingCart_ConflictAfterExhaustedRetries(t *testing.T) {
	f := newFixture(100)

	created, err := f.svc.AddItemToNewCart(context.Background(), f.input(1))
	require.NoError(t, err)

	f.store.staleUpdates = maxMergeAttempts
	_, err = f.svc.AddItemToExistingCart(context.Background(), created.ID, f.input(1))
	assert.ErrorIs(t, err, ErrCartConflict)
}

func TestRemoveItem_Success(t *testing.T) {
	f := newFixture(5)

	created, err := f.svc.AddItemToNewCart(context.Background(), f.input(2))
	require.NoError(t, err)

	updated, err := f.svc.RemoveItem(context.Background(), RemoveItemInput{
		CartID:      created.ID,
		UserID:      f.userID,
		ProductID:   f.productID,
		AttributeID: f.attributeID,
		OptionID:    f.optionID,
	})
	require.NoError(t, err)
	assert.Empty(t, updated.Items)
	assert.Equal(t, 1, f.store.pulls)
}

func TestRemoveItem_MissingTripleLeavesCartUntouched(t *testing.T) {
	f := newFixture(5)

	created, err := f.svc.AddItemToNewCart(context.Background(), f.input(2))
	require.NoError(t, err)

	_, err = f.svc.RemoveItem(context.Background(), RemoveItemInput{
		CartID:      created.ID,
		UserID:      f.userID,
		ProductID:   f.productID,
		AttributeID: f.attributeID,
		OptionID:    primitive.NewObjectID(),
	})
	assert.ErrorIs(t, err, httperr.ErrProductNotFoundInCart)
	assert.Len(t, f.store.cart.Items, 1)
	assert.Equal(t, 0, f.store.pulls)
}

func TestCartItems_ProjectsEveryLine(t *testing.T) {
	f := newFixture(5)

	created, err := f.svc.AddItemToNewCart(context.Background(), f.input(2))
	require.NoError(t, err)

	items, err := f.svc.CartItems(context.Background(), created.ID, f.userID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Hoodie", items[0].Product.Name)
	require.Len(t, items[0].Product.Attributes, 1)
	require.Len(t, items[0].Product.Attributes[0].Options, 1)
	assert.Equal(t, "M", items[0].Product.Attributes[0].Options[0].Value)
	assert.Equal(t, 2, items[0].Quantity)
}

type mapCache struct {
	m     sync.Mutex
	items map[primitive.ObjectID][]ProjectedItem
	gets  int
	hits  int
}

func newMapCache() *mapCache {
	return &mapCache{items: make(map[primitive.ObjectID][]ProjectedItem)}
}

func (c *mapCache) Get(_ context.Context, cartID primitive.ObjectID) ([]ProjectedItem, error) {
	c.m.Lock()
	defer c.m.Unlock()
	c.gets++
	items, ok := c.items[cartID]
	if !ok {
		return nil, ErrCacheMiss
	}
	c.hits++
	return items, nil
}

func (c *mapCache) Set(_ context.Context, cartID primitive.ObjectID, items []ProjectedItem) error {
	c.m.Lock()
	defer c.m.Unlock()
	c.items[cartID] = items
	return nil
}

func (c *mapCache) Delete(_ context.Context, cartID primitive.ObjectID) error {
	c.m.Lock()
	defer c.m.Unlock()
	delete(c.items, cartID)
	return nil
}

func TestCartItems_SecondReadServedFromCache(t *testing.T) {
	f := newFixture(5)
	cache := newMapCache()
	f.svc = NewService(f.store, cache)

	created, err := f.svc.AddItemToNewCart(context.Background(), f.input(2))
	require.NoError(t, err)

	_, err = f.svc.CartItems(context.Background(), created.ID, f.userID)
	require.NoError(t, err)
	_, err = f.svc.CartItems(context.Background(), created.ID, f.userID)
	require.NoError(t, err)

	assert.Equal(t, 2, cache.gets)
	assert.Equal(t, 1, cache.hits)
}

func TestMutationsInvalidateCache(t *testing.T) {
	f := newFixture(10)
	cache := newMapCache()
	f.svc = NewService(f.store, cache)

	created, err := f.svc.AddItemToNewCart(context.Background(), f.input(2))
	require.NoError(t, err)
	_, err = f.svc.CartItems(context.Background(), created.ID, f.userID)
	require.NoError(t, err)
	require.Contains(t, cache.items, created.ID)

	_, err = f.svc.AddItemToExistingCart(context.Background(), created.ID, f.input(1))
	require.NoError(t, err)
	assert.NotContains(t, cache.items, created.ID)
}

func TestDeactivate_ThenHardDelete(t *testing.T) {
	f := newFixture(5)

	created, err := f.svc.AddItemToNewCart(context.Background(), f.input(1))
	require.NoError(t, err)

	require.NoError(t, f.svc.Deactivate(context.Background(), created.ID))
	require.NotNil(t, f.store.cart.DeletedAt)

	// soft-deleted carts are invisible to reads
	_, err = f.svc.CartItems(context.Background(), created.ID, f.userID)
	assert.ErrorIs(t, err, httperr.ErrCartNotFound)

	// the hard delete still removes the document
	require.NoError(t, f.svc.DeletePermanently(context.Background(), created.ID))
	assert.Nil(t, f.store.cart)
}

func TestDeactivate_MissingCart(t *testing.T) {
	f := newFixture(5)

	err := f.svc.Deactivate(context.Background(), primitive.NewObjectID())
	assert.ErrorIs(t, err, httperr.ErrCartNotFound)
}
