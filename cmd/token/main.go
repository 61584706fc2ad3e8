// Command token registers a user if needed and prints a bearer token for them.
// Identity is owned by an external provider in production; this is for local use.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/tripsplit/internal/auth"
	"github.com/MrJamesThe3rd/tripsplit/internal/config"
	"github.com/MrJamesThe3rd/tripsplit/internal/database"
	"github.com/MrJamesThe3rd/tripsplit/internal/item"
	itemStore "github.com/MrJamesThe3rd/tripsplit/internal/item/store"
	"github.com/MrJamesThe3rd/tripsplit/internal/logging"
	"github.com/MrJamesThe3rd/tripsplit/internal/user"
	userStore "github.com/MrJamesThe3rd/tripsplit/internal/user/store"
)

func main() {
	email := flag.String("email", "", "email of the user to issue a token for")
	name := flag.String("name", "", "display name used when the user is created")
	flag.Parse()

	if *email == "" {
		flag.Usage()
		os.Exit(2)
	}

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logging.Setup(cfg.Log.Level, cfg.Log.Format)

	if err := cfg.Validate(); err != nil {
		slog.Error("invalid config", "error", err)
		os.Exit(1)
	}

	db, err := database.New(cfg.ConnectionString(), database.Pool{MaxOpen: 2, MaxIdle: 1, MaxLifetime: cfg.DB.MaxLifetime})
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	ctx := context.Background()
	users := user.NewService(userStore.New(db), item.NewService(itemStore.New(db)))

	u, err := users.Register(ctx, *email, *name)
	if err != nil {
		slog.Error("failed to resolve user", "email", *email, "error", err)
		os.Exit(1)
	}

	token, err := auth.NewManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL).Generate(u.ID, u.Email)
	if err != nil {
		slog.Error("failed to sign token", "error", err)
		os.Exit(1)
	}

	fmt.Println(token)
}
