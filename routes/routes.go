package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"socialnet/handlers"
	"socialnet/middleware"
)

type Options struct {
	Logger      logrus.FieldLogger
	Registry    *prometheus.Registry
	CORSOrigins []string
	JWTSecret   string
	RateLimiter *middleware.IPRateLimiter
}

func SetupRouter(h *handlers.Handler, opts Options) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(opts.Logger))

	if opts.Registry != nil {
		router.Use(middleware.NewHTTPMetrics(opts.Registry).Instrument())
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(opts.Registry, promhttp.HandlerOpts{})))
	}

	corsConfig := cors.Config{
		AllowOrigins:     opts.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Accept"},
		ExposeHeaders:    []string{"Content-Length", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(opts.CORSOrigins) == 0 {
		corsConfig.AllowOrigins = nil
		corsConfig.AllowAllOrigins = true
		corsConfig.AllowCredentials = false
	}
	router.Use(cors.New(corsConfig))

	router.GET("/health", h.Health)

	api := router.Group("/mongo")
	if opts.RateLimiter != nil {
		api.Use(middleware.RateLimit(opts.RateLimiter))
	}

	// Writes need a bearer token only when a secret is configured.
	write := func(hs ...gin.HandlerFunc) []gin.HandlerFunc {
		if opts.JWTSecret == "" {
			return hs
		}
		return append([]gin.HandlerFunc{middleware.JWTAuth(opts.JWTSecret)}, hs...)
	}

	// Users
	api.POST("/users", h.CreateUser)
	api.GET("/users", h.FindUser)
	api.GET("/users/location", h.UsersByLocation)
	api.GET("/users/:user_id", h.GetUser)
	api.PUT("/users/:user_id", write(h.UpdateUser)...)
	api.GET("/users/:user_id/privacy", h.GetPrivacySettings)
	api.PUT("/users/:user_id/privacy", write(h.UpdatePrivacySettings)...)
	api.GET("/users/:user_id/notifications", h.GetNotificationPreferences)
	api.PUT("/users/:user_id/notifications", write(h.UpdateNotificationPreferences)...)
	api.GET("/users/:user_id/summary", h.ProfileSummary)

	// Posts
	api.POST("/posts", write(h.CreatePost)...)
	api.GET("/posts/viral", h.ViralPosts)
	api.GET("/posts/date-range", h.PostsByDateRange)
	api.GET("/posts/:post_id", h.GetPost)

	// Membership lists
	api.GET("/users/:user_id/following", h.GetFollowing)
	api.POST("/users/:user_id/following", write(h.Follow)...)
	api.DELETE("/users/:user_id/following", write(h.Unfollow)...)

	api.GET("/users/:user_id/search-history", h.GetSearchHistory)
	api.POST("/users/:user_id/search-history", write(h.AddSearch)...)

	api.GET("/users/:user_id/best-friends", h.GetBestFriends)
	api.POST("/users/:user_id/best-friends", write(h.AddBestFriend)...)
	api.DELETE("/users/:user_id/best-friends", write(h.RemoveBestFriend)...)

	api.GET("/users/:user_id/saved-posts", h.GetSavedPosts)
	api.POST("/users/:user_id/saved-posts", write(h.SavePost)...)
	api.DELETE("/users/:user_id/saved-posts", write(h.UnsavePost)...)

	router.NoRoute(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/mongo") {
			c.JSON(http.StatusNotFound, gin.H{
				"error":   "Endpoint not found",
				"path":    c.Request.URL.Path,
				"message": "Check the API documentation for available endpoints",
			})
			return
		}
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	})

	return router
}
