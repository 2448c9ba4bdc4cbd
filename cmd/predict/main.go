package main

import (
	"context"
	"encoding/json"
	"flag"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/clickstream-labs/intent-engine/internal/adapters/cache"
	"github.com/clickstream-labs/intent-engine/internal/application/services"
	"github.com/clickstream-labs/intent-engine/internal/domain/entities"
	"github.com/clickstream-labs/intent-engine/internal/domain/providers"
	redisclient "github.com/clickstream-labs/intent-engine/internal/infrastructure/clients/redis"
	"github.com/clickstream-labs/intent-engine/internal/infrastructure/observability"
	"github.com/clickstream-labs/intent-engine/pkg/config"
)

// predictionInput is the JSON envelope read from the input file or stdin.
type predictionInput struct {
	Session *entities.Session `json:"session"`
	Events  []entities.Event  `json:"events"`
}

func main() {
	inputPath := flag.String("input", "-", `JSON file with {"session": ..., "events": [...]}; "-" reads stdin`)
	clearCache := flag.Bool("clear-cache", false, "empty the prediction cache and exit")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Initialize structured logging
	env := os.Getenv("ENV")
	if env == "" {
		env = "production"
	}
	observability.InitLogger(cfg.OTEL.ServiceName, env)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize OpenTelemetry if enabled
	var metrics *observability.Metrics
	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err := observability.Setup(ctx, cfg.OTEL.ServiceName, cfg.OTEL.ServiceVersion, cfg.OTEL.Endpoint)
		if err != nil {
			log.Warn().Err(err).Msg("Failed to set up OpenTelemetry")
		} else {
			defer func() {
				shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer shutdownCancel()
				if err := shutdown(shutdownCtx); err != nil {
					log.Error().Err(err).Msg("Error shutting down OpenTelemetry")
				}
			}()
			if metrics, err = observability.InitMetrics(); err != nil {
				log.Warn().Err(err).Msg("Failed to initialize metrics")
			}
		}
	}

	guard := observability.NewPerformanceGuard(cfg.Engine.SlowCallThreshold(), metrics)
	predictor := services.NewPredictionService(buildCache(cfg), guard, cfg.Engine.PredictionCacheTTL)

	if *clearCache {
		if err := predictor.ClearCache(ctx); err != nil {
			log.Fatal().Err(err).Msg("Failed to clear prediction cache")
		}
		log.Info().Msg("Prediction cache cleared")
		return
	}

	input, err := readInput(*inputPath)
	if err != nil {
		log.Fatal().Err(err).Str("input", *inputPath).Msg("Failed to read prediction input")
	}

	prediction, predErr := predictor.PredictIntent(ctx, input.Session, input.Events)

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if predErr != nil {
		if err := enc.Encode(predErr); err != nil {
			log.Fatal().Err(err).Msg("Failed to encode error payload")
		}
		os.Exit(1)
	}
	if err := enc.Encode(prediction); err != nil {
		log.Fatal().Err(err).Msg("Failed to encode prediction")
	}
}

// buildCache selects the cache backend. Redis is used when configured and
// reachable; otherwise the engine falls back to the in-process cache.
func buildCache(cfg *config.Config) providers.CacheProvider {
	if cfg.Engine.CacheBackend == config.CacheBackendRedis {
		client, err := redisclient.NewClient(&cfg.Redis)
		if err != nil {
			log.Warn().Err(err).Msg("Redis unavailable, falling back to in-memory cache")
		} else {
			return cache.NewRedisAdapter(client, services.PredictionKeyNamespace)
		}
	}
	return cache.NewMemoryAdapter()
}

func readInput(path string) (*predictionInput, error) {
	var reader io.Reader = os.Stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		reader = f
	}

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, err
	}

	var input predictionInput
	if err := json.Unmarshal(data, &input); err != nil {
		return nil, err
	}
	return &input, nil
}
