// Command seed creates or refreshes the dashboard login accounts.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/NgigiN/lomba17/internal/auth"
	"github.com/NgigiN/lomba17/internal/config"
	"github.com/NgigiN/lomba17/internal/logger"
	"github.com/NgigiN/lomba17/internal/storage"
)

func main() {
	adminPassword := flag.String("admin-password", os.Getenv("SEED_ADMIN_PASSWORD"), "password for admin@lomba17.com")
	guestPassword := flag.String("guest-password", os.Getenv("SEED_GUEST_PASSWORD"), "password for guest@lomba17.com")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration %v\n", err)
		os.Exit(1)
	}
	log := logger.New(cfg.LogLevel, !cfg.IsProduction)

	if *adminPassword == "" || *guestPassword == "" {
		log.Fatal().Msg("both admin and guest passwords are required (flags or SEED_ADMIN_PASSWORD/SEED_GUEST_PASSWORD)")
	}

	db, err := storage.NewDatabase(cfg.DatabaseDriver, cfg.DatabaseDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize the database")
	}
	defer db.Close()

	users := []struct {
		email, name, password string
		role                  storage.Role
	}{
		{"admin@lomba17.com", "Administrator", *adminPassword, storage.RoleAdmin},
		{"guest@lomba17.com", "Tamu", *guestPassword, storage.RoleGuest},
	}

	ctx := context.Background()
	for _, u := range users {
		hash, err := auth.HashPassword(u.password)
		if err != nil {
			log.Fatal().Err(err).Str("email", u.email).Msg("failed to hash password")
		}
		user := &storage.User{Email: u.email, Name: u.name, PasswordHash: hash, Role: u.role}
		if err := db.UpsertUser(ctx, user); err != nil {
			log.Fatal().Err(err).Str("email", u.email).Msg("failed to seed user")
		}
		log.Info().Uint("id", user.ID).Str("email", user.Email).Str("role", string(user.Role)).Msg("user seeded")
	}
}
