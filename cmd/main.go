package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"supperchat/backend/internal/api/handler"
	"supperchat/backend/internal/auth"
	"supperchat/backend/internal/chathub"
	"supperchat/backend/internal/config"
	"supperchat/backend/internal/models"
	"supperchat/backend/internal/storage"
)

func setupDependencies(cfg config.Config) (*gorm.DB, *redis.Client) {
	db, err := gorm.Open(postgres.Open(cfg.PostgresDSN), &gorm.Config{
		TranslateError: true, // surfaces gorm.ErrDuplicatedKey on unique violations
	})
	if err != nil {
		log.Fatalf("Failed to connect PostgreSQL: %v", err)
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       0,
	})
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Fatalf("Failed to connect Redis: %v", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.ChatRoom{},
		&models.ChatMessage{},
	)
	if err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	log.Println("Database and Redis connections established, migrations complete.")
	return db, rdb
}

func main() {
	log.Println("Starting SupperChat Backend...")

	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Error loading .env file")
	}
	cfg := config.Load()

	db, rdb := setupDependencies(cfg)
	s := storage.NewStorageService(db, rdb)
	authService := auth.NewService(cfg.JWTSecret)

	guard := chathub.Guard{BannedPublicRead: cfg.BannedPublicRead}
	hub := chathub.NewHub(s, guard, cfg.MaxMessageLength)
	hub.StartRelayListener(s.SubscribeEvents())
	go hub.Run()

	r := gin.Default()
	h := handler.NewHandler(hub, s, authService, cfg)

	api := r.Group("/api")
	{
		api.POST("/auth/register", h.Register)
		api.POST("/auth/login", h.Login)

		chats := api.Group("/chats", h.RequireAuth)
		{
			chats.POST("", h.CreateChat)
			chats.GET("", h.ListChats)
			chats.GET("/:id", h.GetChat)
			chats.POST("/:id/join", h.JoinChat)
			chats.POST("/:id/ban", h.BanFromChat)
		}
	}
	r.GET("/ws", h.ServeWebSocket)

	server := &http.Server{
		Addr:           cfg.Addr,
		Handler:        r,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	log.Fatal(server.ListenAndServe())
}
