package http

import (
	"github.com/gin-gonic/gin"
)

// NewRouter creates and configures the HTTP router with all endpoints.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(RequestID())
	router.Use(RequestLogger(cfg.Logger))
	router.Use(gin.Recovery())

	if len(cfg.CORSOrigins) > 0 {
		router.Use(CORS(cfg.CORSOrigins))
	}

	health := NewHealthController(cfg.Health, cfg.Version)
	booksController := NewBooksController(cfg.Store)
	reviewsController := NewReviewsController(cfg.Store, cfg.Notifier)

	// Health endpoints
	router.GET("/health", health.Status)
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	// Books API endpoints
	books := router.Group("/books")
	books.POST("/", booksController.CreateBook)
	books.GET("/", booksController.ListBooks)
	books.GET("/:book_id/", booksController.GetBook)

	// Review endpoints, scoped to a book
	books.POST("/:book_id/reviews/", reviewsController.CreateReview)
	books.GET("/:book_id/reviews/", reviewsController.ListReviews)

	return router
}
