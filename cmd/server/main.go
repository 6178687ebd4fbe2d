package main

import (
	"context" // context package is needed for Redis operations

	"staffadmin/internal/api"     // Custom package for HTTP handlers
	"staffadmin/internal/config"  // Custom package for configuration
	"staffadmin/internal/db"      // Custom package for database access
	"staffadmin/internal/service" // Custom package for domain operations
	"staffadmin/internal/session" // Custom package for login sessions
	"staffadmin/internal/views"   // Custom package for page templates

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logrus for structured logging
)

// Main function to set up and run the server
func main() {
	// Setup logger
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg, err := config.LoadConfig() // Load configuration
	if err != nil {
		logrus.Fatalf("failed to load config: %v", err)
	}
	if cfg.IsProd {
		logrus.SetFormatter(&logrus.JSONFormatter{}) // Machine readable logs in production
	}

	// Connect to the database
	conn, err := db.Open(cfg.DSN())
	if err != nil {
		logrus.Fatalf("failed to connect to DB: %v", err) // Fatal error if DB connection fails
	}

	// Setup Redis client
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr, // Redis server address
		Password: cfg.RedisPass, // Redis password
		DB:       cfg.RedisDB,   // Redis database number
	})

	// Test Redis connection
	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		logrus.Fatalf("failed to connect to Redis: %v", err)
	}

	// Set Mode to Release if in production
	if cfg.IsProd {
		gin.SetMode(gin.ReleaseMode)
	}

	renderer, err := views.New(!cfg.IsProd) // Re-parse templates on each render outside production
	if err != nil {
		logrus.Fatalf("failed to load templates: %v", err)
	}

	router, err := api.NewRouter(api.Dependencies{
		DB:              conn,
		Redis:           redisClient,
		Service:         service.New(conn),
		Sessions:        session.NewManager(session.NewStore(redisClient), cfg.SessionSecret, cfg.SessionTTL),
		Views:           renderer,
		SecureCookies:   cfg.IsProd,
		LoginRateLimit:  cfg.LoginRateLimit,
		LoginRateWindow: cfg.LoginRateWindow,
		TrustedProxies:  []string{"127.0.0.1"},
	})
	if err != nil {
		logrus.Fatalf("failed to set up routes: %v", err)
	}

	logrus.WithField("port", cfg.AppPort).Info("Server running") // Log server start
	if err := router.Run(":" + cfg.AppPort); err != nil {        // Start the server on port cfg.AppPort
		logrus.Fatalf("server stopped: %v", err)
	}
}
