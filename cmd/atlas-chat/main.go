// README: One-shot CLI; sends a single message through the full agent loop.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/Zburns31/AtlasTravelAssistant/internal/agent"
	"github.com/Zburns31/AtlasTravelAssistant/internal/config"
	"github.com/Zburns31/AtlasTravelAssistant/internal/llm"
	"github.com/Zburns31/AtlasTravelAssistant/internal/logging"
	"github.com/Zburns31/AtlasTravelAssistant/internal/tools"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: atlas-chat <message>")
		os.Exit(2)
	}
	message := strings.Join(os.Args[1:], " ")

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	logger := logging.New(cfg.Debug)
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	model, err := llm.Resolve(ctx, cfg)
	if err != nil {
		log.Fatalf("resolve model: %v", err)
	}
	if closer, ok := model.(interface{ Close() error }); ok {
		defer closer.Close()
	}

	registry := tools.NewRegistry()
	search, err := tools.NewDestinationSearch(cfg.MapsAPIKey)
	if err != nil {
		log.Fatalf("destination search init: %v", err)
	}
	registry.Register(search.Tool())
	transit, err := tools.NewTransitEstimator(cfg.MapsAPIKey)
	if err != nil {
		log.Fatalf("transit estimator init: %v", err)
	}
	registry.Register(transit.Tool())
	registry.Register(tools.NewWeatherLookup(cfg.WeatherAPIKey, nil).Tool())

	runner := agent.New(model, registry, cfg.MaxToolRounds, logger)

	fmt.Printf("You: %s\n\n", message)
	reply, err := runner.Run(ctx, message, nil)
	if err != nil && !errors.Is(err, agent.ErrTooManyRounds) {
		log.Fatalf("chat: %v", err)
	}
	if errors.Is(err, agent.ErrTooManyRounds) {
		fmt.Fprintln(os.Stderr, "(stopped early: tool round limit reached)")
	}
	fmt.Printf("Atlas: %s\n", reply.Content)
}
