package graphql

import (
	"github.com/gin-gonic/gin"
	"github.com/graphql-go/handler"

	"inventory-backend/internal/catalog"
)

// NewHandler mounts the schema behind the standard GraphQL HTTP
// handler, GraphiQL included.
func NewHandler(svc *catalog.Service) (gin.HandlerFunc, error) {
	schema, err := NewSchema(svc)
	if err != nil {
		return nil, err
	}

	h := handler.New(&handler.Config{
		Schema:   &schema,
		Pretty:   true,
		GraphiQL: true,
	})
	return gin.WrapH(h), nil
}
