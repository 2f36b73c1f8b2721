package main

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// server holds what the handlers need for one process; nothing is global.
type server struct {
	foods  FoodStore
	orders OrderStore
	blogs  BlogStore
	auth   *Authenticator
}

func newRouter(s *server, origins []string) *gin.Engine {
	r := gin.New()
	r.Use(requestID(), requestLogger(), gin.CustomRecovery(recoveryHandler))
	if len(origins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     origins,
			AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "Chef's Domain Server")
	})

	// Token
	r.POST("/jwt", s.issueToken)
	r.POST("/jwt/logout", s.revokeToken)

	// Foods
	r.GET("/foods", s.listFoods)
	r.GET("/foods/:id", s.getFood)
	r.POST("/foods", s.createFood)
	r.PATCH("/foods/:id", s.recordFoodOrder)
	r.GET("/popular", s.topPicks)

	// Orders
	r.POST("/order", s.placeOrder)

	// Blogs
	r.GET("/blogs", s.listBlogs)
	r.GET("/blogs/:id", s.getBlog)

	// Per-user data
	auth := r.Group("/", s.auth.Middleware)
	{
		auth.GET("/food-by-chef", s.foodsByChef)
		auth.PATCH("/food-update/:id", s.updateFood)
		auth.GET("/order", s.listOrders)
		auth.DELETE("/order/:id", s.deleteOrder)
	}

	r.NoRoute(notFoundHandler)
	return r
}
