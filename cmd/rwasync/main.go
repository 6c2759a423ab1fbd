package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"go.uber.org/zap"
	"go.uber.org/zap/exp/zapslog"

	"github.com/panoramablock/rwasync/internal/app/port"
	"github.com/panoramablock/rwasync/internal/app/provider"
	"github.com/panoramablock/rwasync/internal/app/service"
	"github.com/panoramablock/rwasync/internal/config"
	"github.com/panoramablock/rwasync/internal/infrastructure/chainexec"
	"github.com/panoramablock/rwasync/internal/infrastructure/extbridge"
	"github.com/panoramablock/rwasync/internal/infrastructure/localstore"
	"github.com/panoramablock/rwasync/internal/infrastructure/network"
	"github.com/panoramablock/rwasync/internal/infrastructure/restapi"
	"github.com/panoramablock/rwasync/internal/pkg/logger"
)

func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config/config.yaml"
	}
	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}

	zapLogger, err := logger.New(cfg.Logging.Level)
	if err != nil {
		logrus.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zapLogger.Sync()

	// Bridge the standard slog surface onto zap so library logs land in
	// the same stream.
	slog.SetDefault(slog.New(zapslog.NewHandler(zapLogger.Core())))

	envSettings, err := config.LoadEnvSettings()
	if err != nil {
		zapLogger.Fatal("Failed to load environment settings", zap.Error(err))
	}

	store := localstore.New(cfg.Store.Dir, zapLogger)
	settingsService := service.NewSettingsService(envSettings, store, zapLogger)

	rpcTimeout := time.Duration(cfg.Rpc.RequestTimeoutMs) * time.Millisecond
	friendbot := network.NewFriendbotClient("", rpcTimeout, zapLogger)
	horizon := network.NewHorizonClient(settingsService, friendbot, rpcTimeout, cfg.Rpc.RateLimit, cfg.Rpc.BurstLimit, zapLogger)
	soroban := network.NewSorobanClient(settingsService, rpcTimeout, cfg.Rpc.RateLimit, cfg.Rpc.BurstLimit, zapLogger)

	// Without a companion agent there is no extension bridge; extension
	// connects then fail with a remediation pointing at the local keypair
	// flow.
	var bridge port.ExtensionBridge
	if cfg.Bridge.URL != "" {
		bridge = extbridge.New(cfg.Bridge.URL, rpcTimeout, zapLogger)
	}

	wallet := provider.NewWalletProvider(store, horizon, bridge, settingsService, provider.ActivationConfig{
		Timeout:      time.Duration(cfg.Rpc.ActivationTimeoutMs) * time.Millisecond,
		PollInterval: time.Duration(cfg.Rpc.ActivationPollIntervalMs) * time.Millisecond,
	}, zapLogger)

	chainData := service.NewChainDataService(horizon, soroban, store, service.CacheTTLs{
		Assets:    time.Duration(cfg.Cache.AssetsTTLSeconds) * time.Second,
		Pools:     time.Duration(cfg.Cache.PoolsTTLSeconds) * time.Second,
		Positions: time.Duration(cfg.Cache.PositionsTTLSeconds) * time.Second,
		Cleanup:   time.Duration(cfg.Cache.CleanupMinutes) * time.Minute,
	}, zapLogger)

	notifier := service.NewNotifier(zapLogger)

	var executor port.ChainExecutor = chainexec.NewMockExecutor(zapLogger)
	if cfg.Executor.Mode == "live" {
		executor = chainexec.NewLiveExecutor(settingsService, wallet, horizon, zapLogger)
	}
	mutations := service.NewMutationService(wallet, executor, notifier, chainData, store, cfg.Explorer.BaseURL, zapLogger)

	restoreCtx, cancelRestore := context.WithTimeout(context.Background(), 10*time.Second)
	if restored, err := wallet.Restore(restoreCtx); err != nil {
		zapLogger.Warn("Session restore failed", zap.Error(err))
	} else if restored {
		zapLogger.Info("Previous session restored")
	}
	cancelRestore()

	router := restapi.SetupRouter(
		restapi.NewWalletHandler(wallet, chainData),
		restapi.NewChainDataHandler(chainData),
		restapi.NewMutationHandler(mutations, notifier),
		restapi.NewSettingsHandler(settingsService),
		zapLogger,
	)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	go func() {
		zapLogger.Info("HTTP server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLogger.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zapLogger.Info("Shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		zapLogger.Error("Graceful shutdown failed", zap.Error(err))
	}
	zapLogger.Info("Server stopped")
}
