package graphql

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSchemaBuilds(t *testing.T) {
	schema, err := NewSchema(nil)
	require.NoError(t, err)

	assert.NotNil(t, schema.QueryType().Fields()["products"])
	assert.NotNil(t, schema.QueryType().Fields()["product"])
	assert.NotNil(t, schema.QueryType().Fields()["reviewsSummary"])
	assert.NotNil(t, schema.QueryType().Fields()["ratingsSummary"])

	mutations := schema.MutationType().Fields()
	for _, name := range []string{
		"addProduct",
		"addProductAttribute",
		"addProductOptions",
		"removeProductAttribute",
		"removeProductOptions",
		"deactivateProduct",
		"deleteProductPermanently",
		"addReview",
		"addRating",
	} {
		assert.NotNil(t, mutations[name], "missing mutation %s", name)
	}
}

func TestParseID(t *testing.T) {
	_, err := parseID("not-an-id")
	assert.Error(t, err)

	_, err = parseID(42)
	assert.Error(t, err)

	id, err := parseID("5f2a6c1e8b3d4a0001234567")
	require.NoError(t, err)
	assert.Equal(t, "5f2a6c1e8b3d4a0001234567", id.Hex())
}

func TestParseOptionInputs(t *testing.T) {
	options, err := parseOptionInputs([]interface{}{
		map[string]interface{}{"value": "S", "stock": 3},
		map[string]interface{}{"value": "M", "stock": 0},
	})
	require.NoError(t, err)
	require.Len(t, options, 2)
	assert.Equal(t, "S", options[0].Value)
	assert.Equal(t, 3, options[0].Stock)

	_, err = parseOptionInputs([]interface{}{})
	assert.Error(t, err)

	_, err = parseOptionInputs([]interface{}{
		map[string]interface{}{"value": "", "stock": 1},
	})
	assert.Error(t, err)

	_, err = parseOptionInputs([]interface{}{
		map[string]interface{}{"value": "S", "stock": -1},
	})
	assert.Error(t, err)
}

func TestParseAttributeInputs(t *testing.T) {
	attributes, err := parseAttributeInputs([]interface{}{
		map[string]interface{}{
			"name": "size",
			"options": []interface{}{
				map[string]interface{}{"value": "S", "stock": 2},
			},
		},
	})
	require.NoError(t, err)
	require.Len(t, attributes, 1)
	assert.Equal(t, "size", attributes[0].Name)
	require.Len(t, attributes[0].Options, 1)

	_, err = parseAttributeInputs([]interface{}{
		map[string]interface{}{"name": "", "options": []interface{}{}},
	})
	assert.Error(t, err)

	_, err = parseAttributeInputs(nil)
	assert.Error(t, err)
}
