package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/torarnehave1/VegvisrCrossCulturalSearch/internal/config"
	"github.com/torarnehave1/VegvisrCrossCulturalSearch/internal/gateway"
	"github.com/torarnehave1/VegvisrCrossCulturalSearch/internal/handler"
	"github.com/torarnehave1/VegvisrCrossCulturalSearch/internal/llm"
	"github.com/torarnehave1/VegvisrCrossCulturalSearch/internal/middleware"
	"github.com/torarnehave1/VegvisrCrossCulturalSearch/internal/ratelimit"
)

func main() {
	// Load .env file if exists
	_ = godotenv.Load()

	cfg := config.Load()

	if cfg.APIKey == "" {
		// The server still starts: the missing credential surfaces as
		// a per-request configuration error, not a crash.
		log.Printf("Warning: GEMINI_API_KEY is not set; content requests will fail until it is configured")
	}

	client := llm.NewClient(cfg.APIKey, cfg.BaseURL, cfg.Model)
	log.Printf("Using Gemini API with model: %s", cfg.Model)

	gw := gateway.New(client, cfg.CacheTTL)

	// Rate limiting is optional and fail-open: no redis, no limits.
	var limiter *ratelimit.Limiter
	if cfg.RateLimitEnabled && cfg.RedisURL != "" {
		storage, err := ratelimit.NewRedisStorage(cfg.RedisURL)
		if err != nil {
			log.Printf("Warning: failed to connect to redis, rate limiting disabled: %v", err)
		} else {
			limiter = ratelimit.NewLimiter(storage)
			log.Printf("Rate limiting enabled via redis at %s", cfg.RedisURL)
		}
	}

	topicHandler := handler.NewTopicHandler(gw)
	searchHandler := handler.NewSearchHandler(gw)
	scriptHandler := handler.NewScriptHandler(gw)

	r := gin.Default()

	r.Use(middleware.CORS())
	r.Use(middleware.RequestID())
	r.Use(middleware.Metrics())

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	{
		api.GET("/topics/:topic/definition", middleware.RateLimit(limiter, "definition"), topicHandler.StreamDefinition)
		api.GET("/topics/:topic/art", middleware.RateLimit(limiter, "text_art"), topicHandler.GetArt)
		api.GET("/topics/:topic/concepts", middleware.RateLimit(limiter, "concepts"), topicHandler.GetConcepts)
		api.GET("/random-word", middleware.RateLimit(limiter, "random_word"), topicHandler.RandomWord)
		api.POST("/search/phonosemantic", middleware.RateLimit(limiter, "phonosemantic"), searchHandler.Phonosemantic)
		api.GET("/script", middleware.RateLimit(limiter, "script"), scriptHandler.Get)
	}

	log.Printf("API server starting on port %s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal(err)
	}
}
