package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"inventory-backend/internal/cart"
	"inventory-backend/internal/catalog"
	"inventory-backend/internal/config"
	"inventory-backend/internal/database"
	"inventory-backend/internal/graphql"
	"inventory-backend/internal/handlers"
)

func main() {
	config.Load()

	client, err := database.Connect(config.AppEnv.MongoURI)
	if err != nil {
		log.Fatal(err)
	}

	db := client.Database(config.AppEnv.DBName)

	log.Println("MongoDB connected to:", db.Name())

	if err := database.EnsureProductIndexes(db); err != nil {
		log.Printf("product index warning: %v", err)
	}
	if err := database.EnsureUserIndexes(db); err != nil {
		log.Printf("user index warning: %v", err)
	}
	if err := database.EnsureCartIndexes(db); err != nil {
		log.Printf("cart index warning: %v", err)
	}

	var cartCache cart.Cache
	if config.AppEnv.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{Addr: config.AppEnv.RedisAddr})
		cartCache = cart.NewRedisCache(redisClient)
		log.Println("Redis cart cache enabled:", config.AppEnv.RedisAddr)
	}

	cartService := cart.NewService(cart.NewMongoStore(db), cartCache)
	catalogService := catalog.NewService(db)

	graphqlHandler, err := graphql.NewHandler(catalogService)
	if err != nil {
		log.Fatal(err)
	}

	r := gin.Default()
	r.Static("/public", "./public")

	cartRoutes := r.Group("/cart")
	{
		cartRoutes.POST("/new/item/add", handlers.AddItemToNewCart(cartService))
		cartRoutes.PUT("/existing/item/add", handlers.AddItemToExistingCart(cartService))
		cartRoutes.PUT("/item/remove", handlers.RemoveItemFromCart(cartService))
		cartRoutes.GET("/item/list/:cartId/:userId", handlers.GetCartItems(cartService))
		cartRoutes.PUT("/deactivate/:cartId", handlers.DeactivateCart(cartService))
		cartRoutes.DELETE("/:cartId", handlers.DeleteCartPermanently(cartService))
	}

	productRoutes := r.Group("/product")
	{
		productRoutes.POST("/new", handlers.AddProduct(catalogService))
		productRoutes.GET("/list", handlers.ProductsList(catalogService))
		productRoutes.PATCH("/:productId", handlers.UpdateProduct(catalogService))
		productRoutes.PUT("/deactivate/:productId", handlers.DeactivateProduct(catalogService))
		productRoutes.DELETE("/:productId", handlers.DeleteProductPermanently(catalogService))

		productRoutes.POST("/attribute/:productId", handlers.AddProductAttribute(catalogService))
		productRoutes.DELETE("/attribute/:productId/:attributeId", handlers.RemoveProductAttribute(catalogService))
		productRoutes.POST("/attribute/options/:productId/:attributeId", handlers.AddProductOptions(catalogService))
		productRoutes.DELETE("/attribute/options/:productId/:attributeId", handlers.RemoveProductOptions(catalogService))

		productRoutes.PUT("/upload/coverimage/:productId", handlers.UploadProductImage(catalogService))
		productRoutes.GET("/summary/reviews/:productId", handlers.ReviewsSummary(catalogService))
		productRoutes.GET("/summary/ratings/:productId", handlers.RatingsSummary(catalogService))
	}

	userRoutes := r.Group("/user")
	{
		userRoutes.POST("/new", handlers.AddUser(db))
		userRoutes.GET("/list", handlers.GetActiveUsersList(db))
		userRoutes.PUT("/deactivate/:userId", handlers.DeactivateUser(db))
		userRoutes.DELETE("/:userId", handlers.DeleteUserPermanently(db))

		userRoutes.POST("/product/review", handlers.AddReview(catalogService))
		userRoutes.POST("/product/rating", handlers.AddRating(catalogService))
		userRoutes.DELETE("/product/review/:reviewId", handlers.DeleteReviewPermanently(catalogService))
		userRoutes.DELETE("/product/rating/:ratingId", handlers.DeleteRatingPermanently(catalogService))
	}

	r.POST("/graphql", graphqlHandler)
	r.GET("/graphql", graphqlHandler)

	r.Run(":" + config.AppEnv.Port)
}
