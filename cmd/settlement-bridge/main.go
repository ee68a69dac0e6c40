package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/goodslab/goods-ledger/internal/accounts"
	"github.com/goodslab/goods-ledger/internal/adapter"
	"github.com/goodslab/goods-ledger/internal/bridge"
	"github.com/goodslab/goods-ledger/internal/config"
	"github.com/goodslab/goods-ledger/internal/domain"
	"github.com/goodslab/goods-ledger/internal/effects"
	"github.com/goodslab/goods-ledger/internal/logger"
	"github.com/goodslab/goods-ledger/internal/market"
	"github.com/goodslab/goods-ledger/internal/providers/jetstream"
	"github.com/goodslab/goods-ledger/internal/store"
)

var (
	configFile = flag.String("config", "", "Path to configuration file")
	envPath    = flag.String("env", "config/", "Path to environment files")
)

func main() {
	flag.Parse()

	// Load configuration
	cfg, err := config.LoadSettlementBridgeConfig(*configFile, *envPath)
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// Initialize logger
	err = logger.Initialize(logger.Config{
		Debug:           cfg.Debug,
		SentryDSN:       cfg.SentryDSN,
		BreadcrumbLevel: zapcore.InfoLevel,
		Tags: map[string]string{
			"service": "settlement-bridge",
		},
	})
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Flush(2 * time.Second)
	logger.Info("Starting Settlement Bridge")

	// Connect to database
	db, err := gorm.Open(postgres.Open(cfg.Database.DSN()), &gorm.Config{})
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	if err := store.ConfigureConnectionPool(db, cfg.Database.MaxOpenConns, cfg.Database.MaxIdleConns, cfg.Database.ConnMaxLifetime, cfg.Database.ConnMaxIdleTime); err != nil {
		logger.Fatal("Failed to configure connection pool", zap.Error(err))
	}
	logger.Info("Connected to database")

	// Initialize store and adapters
	dataStore := store.NewPGStore(db)
	jsonAdapter := adapter.NewJSON()
	clock := adapter.NewClock()

	// Connect to NATS JetStream for outbound events and payments
	pub, err := jetstream.NewPublisher(jetstream.Config{
		URL:            cfg.NATS.URL,
		MaxReconnects:  cfg.NATS.MaxReconnects,
		ReconnectWait:  cfg.NATS.ReconnectWait,
		ConnectionName: "goods-ledger-settlement-bridge",
	}, adapter.NewNatsJetStream(), jsonAdapter)
	if err != nil {
		logger.Fatal("Failed to connect to NATS", zap.Error(err), zap.String("url", cfg.NATS.URL))
	}
	defer pub.Close()
	logger.Info("Connected to NATS", zap.String("url", cfg.NATS.URL))

	dispatcher := effects.NewDispatcher(effects.Config{
		PoolSize:       cfg.Effects.PoolSize,
		MaxElapsedTime: cfg.Effects.MaxElapsedTime,
	}, pub, pub)
	defer dispatcher.StopAndWait()

	// Wire up the marketplace the bridge settles against
	registry := accounts.NewStoreRegistry(dataStore)
	excludedPayers := make([]domain.Account, 0, len(cfg.Ledger.ExcludedPayers))
	for _, payer := range cfg.Ledger.ExcludedPayers {
		excludedPayers = append(excludedPayers, domain.Account(payer))
	}
	marketSvc := market.NewService(dataStore, registry, clock, dispatcher,
		domain.Account(cfg.Ledger.LedgerAccount), excludedPayers)

	// Create bridge
	settlementBridge, err := bridge.NewBridge(
		bridge.Config{
			URL:            cfg.NATS.URL,
			StreamName:     cfg.NATS.StreamName,
			ConsumerName:   cfg.NATS.ConsumerName,
			MaxReconnects:  cfg.NATS.MaxReconnects,
			ReconnectWait:  cfg.NATS.ReconnectWait,
			ConnectionName: cfg.NATS.ConnectionName,
			AckWaitTimeout: cfg.NATS.AckWait,
			MaxDeliver:     cfg.NATS.MaxDeliver,
			LedgerAccount:  domain.Account(cfg.Ledger.LedgerAccount),
		},
		adapter.NewNatsJetStream(),
		marketSvc,
		jsonAdapter,
	)
	if err != nil {
		logger.Fatal("Failed to create settlement bridge", zap.Error(err))
	}
	defer settlementBridge.Close()
	logger.Info("Settlement bridge created", zap.String("stream", cfg.NATS.StreamName), zap.String("consumer", cfg.NATS.ConsumerName))

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Setup signal handling
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	// Channel for bridge errors
	errCh := make(chan error, 1)

	// Start the bridge
	go func() {
		if err := settlementBridge.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			errCh <- err
		}
	}()

	// Wait for shutdown signal or error
	select {
	case sig := <-sigCh:
		logger.Info("Received shutdown signal", zap.String("signal", sig.String()))
		cancel()
	case err := <-errCh:
		logger.Error(err, zap.String("component", "bridge"))
		cancel()
	}

	// Give some time for graceful shutdown
	time.Sleep(time.Second)

	logger.Info("Settlement Bridge stopped")
}
