// README: Entry point; loads config, wires the agent and tools, starts the HTTP server.
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/Zburns31/AtlasTravelAssistant/internal/agent"
	"github.com/Zburns31/AtlasTravelAssistant/internal/config"
	httptransport "github.com/Zburns31/AtlasTravelAssistant/internal/http"
	"github.com/Zburns31/AtlasTravelAssistant/internal/infra"
	"github.com/Zburns31/AtlasTravelAssistant/internal/llm"
	"github.com/Zburns31/AtlasTravelAssistant/internal/logging"
	"github.com/Zburns31/AtlasTravelAssistant/internal/modules/history"
	"github.com/Zburns31/AtlasTravelAssistant/internal/modules/profile"
	"github.com/Zburns31/AtlasTravelAssistant/internal/tools"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	logger := logging.New(cfg.Debug)
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	model, err := llm.Resolve(ctx, cfg)
	if err != nil {
		logger.Fatal("resolve model", zap.Error(err))
	}
	if closer, ok := model.(interface{ Close() error }); ok {
		defer closer.Close()
	}

	registry := tools.NewRegistry()
	search, err := tools.NewDestinationSearch(cfg.MapsAPIKey)
	if err != nil {
		logger.Fatal("destination search init", zap.Error(err))
	}
	registry.Register(search.Tool())
	transit, err := tools.NewTransitEstimator(cfg.MapsAPIKey)
	if err != nil {
		logger.Fatal("transit estimator init", zap.Error(err))
	}
	registry.Register(transit.Tool())

	var historySvc *history.Service
	if cfg.DBDSN != "" {
		pool, err := infra.NewDB(ctx, cfg.DBDSN)
		if err != nil {
			logger.Fatal("postgres init", zap.Error(err))
		}
		defer pool.Close()
		store := history.NewStore(pool)
		if err := store.EnsureSchema(ctx); err != nil {
			logger.Fatal("history schema", zap.Error(err))
		}
		historySvc = history.NewService(store, logger)
	}

	var cache *redis.Client
	if cfg.RedisAddr != "" {
		cache = infra.NewRedis(cfg.RedisAddr)
		defer cache.Close()
	}
	registry.Register(tools.NewWeatherLookup(cfg.WeatherAPIKey, cache).Tool())

	profileStore, err := profile.NewStore("")
	if err != nil {
		logger.Fatal("profile store init", zap.Error(err))
	}
	profileSvc := profile.NewService(profileStore, logger)

	runner := agent.New(model, registry, cfg.MaxToolRounds, logger)

	router := httptransport.NewRouter(httptransport.ServerDeps{
		Runner:  runner,
		History: historySvc,
		Profile: profileSvc,
		Logger:  logger,
	})

	server := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		server.Shutdown(shutdownCtx)
	}()

	logger.Info("atlas api listening",
		zap.String("addr", cfg.Addr()),
		zap.String("provider", cfg.Provider),
		zap.String("model", cfg.Model))
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("server", zap.Error(err))
	}
}
