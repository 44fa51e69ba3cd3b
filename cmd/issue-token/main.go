// Command issue-token mints a bearer token for local testing, signed with
// the configured JWT secret.
//
//	go run ./cmd/issue-token -user 6f1c...
package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/phrazzld/microcase-api/internal/config"
	"github.com/phrazzld/microcase-api/internal/service/auth"
)

func main() {
	user := flag.String("user", "", "user ID to put in the token; a random one when empty")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	userID := uuid.New()
	if *user != "" {
		userID, err = uuid.Parse(*user)
		if err != nil {
			log.Fatalf("Invalid user ID %q: %v", *user, err)
		}
	}

	jwtService, err := auth.NewJWTService(cfg.Auth)
	if err != nil {
		log.Fatalf("Failed to create JWT service: %v", err)
	}

	token, err := jwtService.GenerateToken(context.Background(), userID)
	if err != nil {
		log.Fatalf("Failed to generate token: %v", err)
	}

	fmt.Printf("user:  %s\ntoken: %s\n", userID, token)
}
