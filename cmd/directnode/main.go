package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-redisstream/pkg/redisstream"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/ethereum/go-ethereum/common"
	"github.com/redis/go-redis/v9"

	"github.com/sui-direct/node/adapters/authcache"
	"github.com/sui-direct/node/adapters/blob"
	"github.com/sui-direct/node/adapters/events"
	"github.com/sui-direct/node/adapters/ledger"
	"github.com/sui-direct/node/adapters/store"
	"github.com/sui-direct/node/adapters/tokenizer"
	"github.com/sui-direct/node/adapters/verifier"
	"github.com/sui-direct/node/config"
	"github.com/sui-direct/node/ports"
	"github.com/sui-direct/node/service"
	httptransport "github.com/sui-direct/node/transport/http"
	"github.com/sui-direct/node/transport/p2p"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Please run setup before starting the node: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	identity, err := p2p.LoadIdentity(cfg.IdentityPath())
	if err != nil {
		log.Fatalf("Failed to load peer identity: %v", err)
	}
	log.Printf("node %s (%s) starting with peer ID %s", cfg.NodeName, cfg.ServiceName, identity.ID)

	if err := os.MkdirAll(filepath.Join(cfg.DataDir, "db"), 0o700); err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}
	authStore, err := store.NewAuthStore(cfg.AuthDBPath())
	if err != nil {
		log.Fatalf("Failed to open auth store: %v", err)
	}
	catalogStore, err := store.NewCatalogStore(cfg.CatalogDBPath())
	if err != nil {
		log.Fatalf("Failed to open catalog store: %v", err)
	}

	// Redis backs the authorization cache and event stream when configured;
	// otherwise everything stays in-process.
	var (
		cache     ports.AuthCache
		publisher message.Publisher
	)
	wmLogger := watermill.NewStdLogger(false, false)
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			log.Fatalf("Failed to parse Redis URL: %v", err)
		}
		client := redis.NewClient(opts)
		cache = authcache.NewRedisCache(client, service.DefaultRetention)
		publisher, err = redisstream.NewPublisher(redisstream.PublisherConfig{Client: client}, wmLogger)
		if err != nil {
			log.Fatalf("Failed to create Redis publisher: %v", err)
		}
	} else {
		cache = authcache.NewMemoryCache(service.DefaultRetention)
		publisher = gochannel.NewGoChannel(gochannel.Config{}, wmLogger)
	}

	ledgerClient, err := ledger.Dial(ctx, cfg.LedgerRPCURL, map[string]common.Address{
		service.PaymentCurrency: common.HexToAddress(cfg.WALTokenAddress),
	})
	if err != nil {
		log.Fatalf("Failed to connect to ledger: %v", err)
	}
	defer ledgerClient.Close()

	blobClient := blob.NewClient(cfg.PublisherURL, cfg.AggregatorURL, cfg.StorageUnitPrice)
	eventPub := events.NewWatermillPublisher(publisher)

	authService := service.NewAuthService(
		authStore,
		cache,
		tokenizer.NewJWTTokenizer([]byte(cfg.JWTSecret)),
		verifier.NewPersonalVerifier(),
		eventPub,
		cfg.ServiceName,
	)
	transferService := service.NewTransferService(
		authService,
		authStore,
		catalogStore,
		blobClient,
		ledgerClient,
		eventPub,
	)

	go authService.RunCleaner(ctx)

	router := p2p.NewRouter()
	p2p.NewHandlers(authService, transferService).Register(router)
	server := p2p.NewServer(cfg.P2PAddr, identity, router)
	go func() {
		if err := server.ListenAndServe(ctx); err != nil {
			log.Fatalf("P2P server failed: %v", err)
		}
	}()

	httpRouter := httptransport.SetupRouter(identity.ID, transferService)
	log.Printf("HTTP server listening on %s", cfg.HTTPAddr)
	if err := httpRouter.Run(cfg.HTTPAddr); err != nil {
		log.Fatalf("Failed to start HTTP server: %v", err)
	}
}
