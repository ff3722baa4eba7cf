package cart

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func setupTestRedis(t *testing.T) (*RedisCache, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return NewRedisCache(client), mr
}

func sampleItems() []ProjectedItem {
	return []ProjectedItem{{
		Product: ProjectedProduct{
			ID:        primitive.NewObjectID(),
			ProductID: "PROD-1700000000000-7",
			Name:      "Socks",
			Price:     3.50,
		},
		AttributeID: primitive.NewObjectID(),
		OptionID:    primitive.NewObjectID(),
		Quantity:    2,
	}}
}

func TestRedisCache_SetThenGet(t *testing.T) {
	cache, _ := setupTestRedis(t)
	ctx := context.Background()
	cartID := primitive.NewObjectID()
	items := sampleItems()

	require.NoError(t, cache.Set(ctx, cartID, items))

	got, err := cache.Get(ctx, cartID)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, items[0].Product.ID, got[0].Product.ID)
	assert.Equal(t, "Socks", got[0].Product.Name)
	assert.Equal(t, 2, got[0].Quantity)
}

func TestRedisCache_GetMiss(t *testing.T) {
	cache, _ := setupTestRedis(t)

	got, err := cache.Get(context.Background(), primitive.NewObjectID())
	assert.ErrorIs(t, err, ErrCacheMiss)
	assert.Nil(t, got)
}

func TestRedisCache_GetCorruptPayload(t *testing.T) {
	cache, mr := setupTestRedis(t)
	cartID := primitive.NewObjectID()

	require.NoError(t, mr.Set(cacheKey(cartID), "not json"))

	_, err := cache.Get(context.Background(), cartID)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrCacheMiss)
}

func TestRedisCache_Delete(t *testing.T) {
	cache, _ := setupTestRedis(t)
	ctx := context.Background()
	cartID := primitive.NewObjectID()

	require.NoError(t, cache.Set(ctx, cartID, sampleItems()))
	require.NoError(t, cache.Delete(ctx, cartID))

	_, err := cache.Get(ctx, cartID)
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestRedisCache_DeleteMissingKeyIsNoError(t *testing.T) {
	cache, _ := setupTestRedis(t)

	assert.NoError(t, cache.Delete(context.Background(), primitive.NewObjectID()))
}

func TestRedisCache_TTLWithinJitterWindow(t *testing.T) {
	cache, mr := setupTestRedis(t)
	cartID := primitive.NewObjectID()

	require.NoError(t, cache.Set(context.Background(), cartID, sampleItems()))

	ttl := mr.TTL(cacheKey(cartID))
	assert.GreaterOrEqual(t, ttl, cache.baseTTL)
	assert.LessOrEqual(t, ttl, cache.baseTTL+4*time.Minute)
}

func TestRedisCache_PayloadShape(t *testing.T) {
	cache, mr := setupTestRedis(t)
	cartID := primitive.NewObjectID()
	items := sampleItems()

	require.NoError(t, cache.Set(context.Background(), cartID, items))

	raw, err := mr.Get(cacheKey(cartID))
	require.NoError(t, err)

	var decoded []ProjectedItem
	require.NoError(t, json.Unmarshal([]byte(raw), &decoded))
	require.Len(t, decoded, 1)
	assert.Equal(t, items[0].OptionID, decoded[0].OptionID)
}
