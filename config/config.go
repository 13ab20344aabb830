// Package config loads the node configuration from the environment. A .env
// file next to the binary is honored when present.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

// Config is everything the node needs to start.
type Config struct {
	NodeName    string
	ServiceName string
	P2PAddr     string
	HTTPAddr    string
	DataDir     string

	JWTSecret string

	PublisherURL  string
	AggregatorURL string
	// StorageUnitPrice is the network's price per MiB per epoch, in the
	// payment currency's smallest denomination.
	StorageUnitPrice decimal.Decimal

	LedgerRPCURL string
	// WALTokenAddress is the payment token's contract address.
	WALTokenAddress string

	// RedisURL enables the shared authorization cache and the Redis event
	// stream when set.
	RedisURL string
}

// Load reads the environment. It fails when the node has not been set up:
// name, listen addresses and the token secret are mandatory.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		NodeName:         os.Getenv("DIRECT_NODE_NAME"),
		ServiceName:      envOr("DIRECT_SERVICE_NAME", "sui.direct"),
		P2PAddr:          envOr("DIRECT_P2P_ADDR", "127.0.0.1:4001"),
		HTTPAddr:         envOr("DIRECT_HTTP_ADDR", ":5000"),
		DataDir:          envOr("DIRECT_DATA_DIR", "data"),
		JWTSecret:        os.Getenv("JWT_SECRET"),
		PublisherURL:     envOr("DIRECT_PUBLISHER_URL", "https://publisher.walrus.space"),
		AggregatorURL:    envOr("DIRECT_AGGREGATOR_URL", "https://aggregator.walrus.space"),
		LedgerRPCURL:     os.Getenv("DIRECT_LEDGER_RPC_URL"),
		WALTokenAddress:  os.Getenv("DIRECT_WAL_TOKEN_ADDRESS"),
		RedisURL:         os.Getenv("REDIS_URL"),
		StorageUnitPrice: decimal.NewFromInt(11_000),
	}

	if raw := os.Getenv("DIRECT_STORAGE_UNIT_PRICE"); raw != "" {
		price, err := decimal.NewFromString(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid DIRECT_STORAGE_UNIT_PRICE: %w", err)
		}
		cfg.StorageUnitPrice = price
	}

	if cfg.NodeName == "" {
		return nil, fmt.Errorf("node is not set up: DIRECT_NODE_NAME is required")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("node is not set up: JWT_SECRET is required")
	}
	if cfg.LedgerRPCURL == "" {
		return nil, fmt.Errorf("node is not set up: DIRECT_LEDGER_RPC_URL is required")
	}
	return cfg, nil
}

// IdentityPath is where the persistent peer identity lives.
func (c *Config) IdentityPath() string {
	return filepath.Join(c.DataDir, "peer-id.json")
}

// AuthDBPath is the credentials-and-wallets database file.
func (c *Config) AuthDBPath() string {
	return filepath.Join(c.DataDir, "db", "auth.db")
}

// CatalogDBPath is the repository catalog database file.
func (c *Config) CatalogDBPath() string {
	return filepath.Join(c.DataDir, "db", "repositories.db")
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
