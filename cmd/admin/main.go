package main

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"supperchat/backend/internal/config"
	"supperchat/backend/internal/storage"
)

// admin is the operator CLI: platform-wide bans and room listing.
// Bans are written both to Redis (checked at handshake time) and onto
// the user row (checked at login).
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Error loading .env file")
	}
	cfg := config.Load()

	db, err := gorm.Open(postgres.Open(cfg.PostgresDSN), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})

	storageSvc := storage.NewStorageService(db, rdb)

	if len(os.Args) < 2 {
		fmt.Println("Usage: admin <ban|unban|list-rooms> [args]")
		os.Exit(1)
	}

	switch os.Args[1] {
	case "ban":
		if len(os.Args) < 3 {
			fmt.Println("Usage: admin ban <user_id> [duration_in_hours]")
			os.Exit(1)
		}
		userID := os.Args[2]
		var duration time.Duration
		if len(os.Args) > 3 {
			hours, err := strconv.Atoi(os.Args[3])
			if err != nil {
				fmt.Println("Invalid duration. Please provide an integer.")
				os.Exit(1)
			}
			duration = time.Duration(hours) * time.Hour
		}
		if err := banUser(storageSvc, userID, duration); err != nil {
			log.Fatalf("Error banning user: %v", err)
		}
		fmt.Printf("User %s has been banned.\n", userID)

	case "unban":
		if len(os.Args) != 3 {
			fmt.Println("Usage: admin unban <user_id>")
			os.Exit(1)
		}
		userID := os.Args[2]
		if err := unbanUser(storageSvc, userID); err != nil {
			log.Fatalf("Error unbanning user: %v", err)
		}
		fmt.Printf("User %s has been unbanned.\n", userID)

	case "list-rooms":
		rooms, err := storageSvc.ListRooms("")
		if err != nil {
			log.Fatalf("Error listing rooms: %v", err)
		}
		for _, room := range rooms {
			fmt.Printf("%s  public=%t  participants=%d  %s\n",
				room.RoomID, room.IsPublic, len(room.Participants), room.Title)
		}

	default:
		fmt.Println("Unknown command")
		os.Exit(1)
	}
}

func banUser(s *storage.Service, userID string, duration time.Duration) error {
	user, err := s.GetUserByID(userID)
	if err != nil {
		return err
	}
	user.IsBlocked = true
	if err := s.UpdateUser(user); err != nil {
		return err
	}
	return s.BanUser(userID, duration)
}

func unbanUser(s *storage.Service, userID string) error {
	user, err := s.GetUserByID(userID)
	if err != nil {
		return err
	}
	user.IsBlocked = false
	if err := s.UpdateUser(user); err != nil {
		return err
	}
	return s.UnbanUser(userID)
}
