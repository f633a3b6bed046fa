package main

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/accounthub/backend/auth"
	"github.com/accounthub/backend/database"
	"github.com/accounthub/backend/handlers"
	"github.com/accounthub/backend/natsserver"
	"github.com/accounthub/backend/services"
	"github.com/accounthub/backend/store"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/nats-io/nats.go"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Connect to database
	db, err := database.Connect()
	if err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
	defer database.Close(db)

	// Start embedded NATS server; the notification consumer dials this
	natsPort := 4233
	if p := os.Getenv("NATS_PORT"); p != "" {
		if parsed, err := strconv.Atoi(p); err == nil {
			natsPort = parsed
		}
	}
	natsServer, err := natsserver.New(natsserver.Config{
		Port: natsPort,
	})
	if err != nil {
		log.Fatalf("❌ Failed to start NATS server: %v", err)
	}
	defer natsServer.Shutdown()

	// Connect to NATS for the registration notifier
	natsConn, err := nats.Connect(natsServer.Address())
	if err != nil {
		log.Fatalf("❌ Failed to connect to NATS: %v", err)
	}
	defer natsConn.Close()

	notifier := services.NewNotifier(natsConn)

	// Notification hub for websocket clients
	hub := services.NewHub(natsConn)
	go hub.Run()

	// Credential configuration
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		jwtSecret = "default-dev-secret-change-me"
	}
	ttlMinutes := 30
	if t := os.Getenv("TOKEN_TTL_MINUTES"); t != "" {
		if parsed, err := strconv.Atoi(t); err == nil && parsed > 0 {
			ttlMinutes = parsed
		}
	}
	tokens := auth.NewTokenManager(jwtSecret, time.Duration(ttlMinutes)*time.Minute)

	h := handlers.New(store.NewUsers(db), tokens, notifier)
	ws := handlers.NewWebSocketHandler(hub)

	// Setup Gin router
	if os.Getenv("ENV") == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()

	// CORS middleware
	config := cors.DefaultConfig()
	config.AllowAllOrigins = true
	config.AllowMethods = []string{"GET", "POST", "PUT", "OPTIONS"}
	config.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	router.Use(cors.New(config))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":    "ok",
			"timestamp": time.Now().Format(time.RFC3339),
		})
	})

	// Account routes
	router.POST("/register", h.Register)
	router.POST("/login", h.Login)

	profile := router.Group("/profile")
	profile.Use(h.BearerAuth())
	{
		profile.GET("", h.GetProfile)
		profile.PUT("", h.UpdateProfile)
	}

	// WebSocket feed of registration notices
	router.GET("/ws/notifications", ws.HandleNotifications)
	router.GET("/ws/stats", ws.Stats)

	// Start server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8000"
	}

	log.Printf("🚀 Server running on http://localhost:%s", port)
	if err := router.Run(fmt.Sprintf(":%s", port)); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
