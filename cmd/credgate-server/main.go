// Command credgate-server runs the credential auth HTTP service.
//
// Configuration is environment-driven (a local .env file is honored):
//
//	PORT                 listen port (default 8080)
//	STORE_BACKEND        memory | redis | postgres (default memory)
//	REDIS_ADDR           redis address, STORE_BACKEND=redis
//	DATABASE_DSN         postgres DSN, STORE_BACKEND=postgres
//	JWT_SECRET           access token signing secret (required)
//	JWT_REFRESH_SECRET   refresh token signing secret (required)
//	ACCESS_TTL           optional access token TTL override (e.g. 15m)
//	REFRESH_TTL          optional refresh token TTL override (e.g. 168h)
//	SEED_ADMIN_EMAIL     with SEED_ADMIN_PASSWORD, seeds an admin at boot
//	SEED_ADMIN_PASSWORD
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/MrEthical07/credgate"
	"github.com/MrEthical07/credgate/internal/httpapi"
	"github.com/MrEthical07/credgate/metrics/export/prometheus"
	"github.com/MrEthical07/credgate/stores/memstore"
	"github.com/MrEthical07/credgate/stores/pgstore"
	"github.com/MrEthical07/credgate/stores/redisstore"
)

func main() {
	if err := run(); err != nil {
		log.Fatal("credgate: ", err)
	}
}

func run() error {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := credgate.DefaultConfig()
	cfg.JWT.AccessSecret = []byte(os.Getenv("JWT_SECRET"))
	cfg.JWT.RefreshSecret = []byte(os.Getenv("JWT_REFRESH_SECRET"))
	cfg.JWT.Issuer = "credgate"

	if ttl, err := envDuration("ACCESS_TTL"); err != nil {
		return err
	} else if ttl > 0 {
		cfg.JWT.AccessTTL = ttl
	}
	if ttl, err := envDuration("REFRESH_TTL"); err != nil {
		return err
	} else if ttl > 0 {
		cfg.JWT.RefreshTTL = ttl
	}

	store, cleanup, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	engine, err := credgate.New().
		WithConfig(cfg).
		WithUserStore(store).
		WithAuditSink(credgate.NewJSONWriterSink(os.Stdout)).
		Build()
	if err != nil {
		return err
	}
	defer engine.Close()

	if err := seedAdmin(ctx, engine, store); err != nil {
		return err
	}

	exporter := prometheus.NewPrometheusExporter(engine)
	router := httpapi.NewRouter(engine, exporter.Handler())

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	server := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Print("credgate: listening on :", port)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return err
		}
	}

	return nil
}

func openStore(ctx context.Context) (credgate.UserStore, func(), error) {
	backend := os.Getenv("STORE_BACKEND")
	switch backend {
	case "", "memory":
		return memstore.New(), func() {}, nil

	case "redis":
		addr := os.Getenv("REDIS_ADDR")
		if addr == "" {
			addr = "localhost:6379"
		}
		client := redis.NewClient(&redis.Options{Addr: addr})
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, nil, fmt.Errorf("redis ping: %w", err)
		}
		return redisstore.New(client), func() { client.Close() }, nil

	case "postgres":
		dsn := os.Getenv("DATABASE_DSN")
		if dsn == "" {
			return nil, nil, errors.New("DATABASE_DSN required for postgres backend")
		}
		store, err := pgstore.Open(ctx, dsn)
		if err != nil {
			return nil, nil, err
		}
		if err := store.RunMigrations(ctx); err != nil {
			store.Close()
			return nil, nil, fmt.Errorf("run migrations: %w", err)
		}
		return store, func() { store.Close() }, nil

	default:
		return nil, nil, fmt.Errorf("unknown STORE_BACKEND %q", backend)
	}
}

// seedAdmin creates the bootstrap admin account when both seed variables are
// set. Registration can never assign the admin role, so the seed goes through
// the store directly; an existing account under the seed email is left as-is.
func seedAdmin(ctx context.Context, engine *credgate.Engine, store credgate.UserStore) error {
	email := os.Getenv("SEED_ADMIN_EMAIL")
	pass := os.Getenv("SEED_ADMIN_PASSWORD")
	if email == "" || pass == "" {
		return nil
	}

	_, err := store.FindByEmail(ctx, email)
	if err == nil {
		return nil
	}
	if !errors.Is(err, credgate.ErrStoreNotFound) {
		return fmt.Errorf("seed admin lookup: %w", err)
	}

	hash, err := engine.HashPassword(pass)
	if err != nil {
		return fmt.Errorf("seed admin hash: %w", err)
	}

	_, err = store.Create(ctx, credgate.CreateUserInput{
		Email:        email,
		PasswordHash: hash,
		Role:         credgate.RoleAdmin,
	})
	if err != nil && !errors.Is(err, credgate.ErrStoreDuplicateEmail) {
		return fmt.Errorf("seed admin create: %w", err)
	}

	log.Print("credgate: seeded admin account ", email)
	return nil
}

func envDuration(name string) (time.Duration, error) {
	raw := os.Getenv(name)
	if raw == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", name, err)
	}
	return d, nil
}
