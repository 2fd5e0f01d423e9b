package commands

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/auditgate/auditgate/internal/auth"
	"github.com/auditgate/auditgate/internal/logger"
	"github.com/auditgate/auditgate/internal/server"
	"github.com/auditgate/auditgate/internal/store"
	memorystore "github.com/auditgate/auditgate/internal/store/memory"
	postgresstore "github.com/auditgate/auditgate/internal/store/postgres"
)

type ServerCmd struct {
	// Server configuration
	Listen string `help:"HTTP server listen address" default:"localhost:8080" env:"AUDITGATE_LISTEN"`
	Cert   string `help:"path to TLS cert file" default:"" env:"AUDITGATE_TLS_CERT"`
	Key    string `help:"path to TLS key file" default:"" env:"AUDITGATE_TLS_KEY"`

	// CORS configuration
	CORSOrigins []string `help:"allowed CORS origins for API requests" default:"https://localhost" env:"AUDITGATE_CORS_ORIGINS"`

	// Session token verification
	JWTPublicKey string `help:"path to the identity provider's ES256 public key (PEM)" required:"" env:"AUDITGATE_JWT_PUBLIC_KEY"`

	// Store configuration
	StoreType     string             `help:"store type (memory or postgres)" default:"memory" env:"AUDITGATE_STORE_TYPE" enum:"memory,postgres"`
	PostgresStore PostgresStoreFlags `embed:"" prefix:"postgres-"`
}

type PostgresStoreFlags struct {
	// Connection Configuration
	ConnString string `help:"PostgreSQL connection string" env:"POSTGRES_CONNECTION_STRING"`

	// Connection Pool Configuration
	MaxConns         int32 `help:"maximum number of connections in pool" default:"20"`
	MinConns         int32 `help:"minimum number of connections in pool" default:"5"`
	MaxConnLifetime  int32 `help:"maximum connection lifetime in seconds" default:"3600"`
	MaxConnIdleTime  int32 `help:"maximum connection idle time in seconds" default:"1800"`
	PingRetryTimeout int32 `help:"how long to retry the startup ping in seconds" default:"30"`

	// Migration Configuration
	AutoMigrate bool `help:"run database migrations on startup" default:"false" env:"AUDITGATE_POSTGRES_AUTO_MIGRATE"`
}

func (c *ServerCmd) Run(globals *Globals) error {
	log := logger.Setup(globals.Debug)
	ctx := context.Background()

	log.Info().Str("version", globals.Version).Bool("debug", globals.Debug).Msg("Starting server")

	publicKeyPEM, err := os.ReadFile(c.JWTPublicKey)
	if err != nil {
		return fmt.Errorf("failed to read JWT public key: %w", err)
	}
	verifier, err := auth.NewVerifier(string(publicKeyPEM))
	if err != nil {
		return fmt.Errorf("failed to create token verifier: %w", err)
	}

	var stores store.Stores

	switch c.StoreType {
	case "postgres":
		if c.PostgresStore.ConnString == "" {
			return errors.New("PostgreSQL connection string is required (--postgres-conn-string or POSTGRES_CONNECTION_STRING)")
		}

		// Shared connection pool for all PostgreSQL stores
		poolCfg := &postgresstore.PoolConfig{
			ConnString:       c.PostgresStore.ConnString,
			MaxConns:         c.PostgresStore.MaxConns,
			MinConns:         c.PostgresStore.MinConns,
			MaxConnLifetime:  c.PostgresStore.MaxConnLifetime,
			MaxConnIdleTime:  c.PostgresStore.MaxConnIdleTime,
			PingRetryTimeout: c.PostgresStore.PingRetryTimeout,
		}
		pool, err := postgresstore.NewPool(ctx, poolCfg)
		if err != nil {
			return fmt.Errorf("failed to create connection pool: %w", err)
		}
		defer pool.Close()

		if c.PostgresStore.AutoMigrate {
			if err := postgresstore.Migrate(ctx, pool); err != nil {
				return fmt.Errorf("failed to run migrations: %w", err)
			}
			log.Info().Msg("Database migrations completed")
		}

		stores = postgresstore.NewStores(pool)
		log.Info().Msg("Using PostgreSQL stores with shared connection pool")

	default:
		stores = memorystore.NewStores()
		log.Info().Msg("Using in-memory stores")
	}

	handler := server.New(stores, verifier, c.CORSOrigins).Handler(log)

	log.Info().Str("listen", c.Listen).Msg("Listening for connections")

	httpServer := configureHTTPServer(c.Listen, handler)
	if c.Cert != "" && c.Key != "" {
		return httpServer.ListenAndServeTLS(c.Cert, c.Key)
	}
	return httpServer.ListenAndServe()
}
