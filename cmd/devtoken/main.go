package main

import (
	"flag"
	"fmt"
	"log"

	"carrental-backend/internal/config"
	"carrental-backend/internal/domain"
	"carrental-backend/internal/security"
)

// devtoken prints an access token for local testing of the HTTP API.
func main() {
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	userID := flag.Int("user", 1, "User id to embed in the token")
	role := flag.String("role", string(domain.RoleAdmin), "Role: admin, owner or renter")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	r := domain.Role(*role)
	switch r {
	case domain.RoleAdmin, domain.RoleOwner, domain.RoleRenter:
	default:
		log.Fatalf("Unknown role %q", *role)
	}

	tm := security.NewTokenManager(cfg.JWT.Secret, cfg.AccessTokenTTL())
	token, err := tm.GenerateAccessToken(int32(*userID), r)
	if err != nil {
		log.Fatalf("Failed to generate token: %v", err)
	}
	fmt.Println(token)
}
