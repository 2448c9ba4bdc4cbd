package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/clickstream-labs/intent-engine/internal/domain/entities"
	"github.com/clickstream-labs/intent-engine/internal/domain/providers"
	"github.com/clickstream-labs/intent-engine/internal/infrastructure/observability"
	apperrors "github.com/clickstream-labs/intent-engine/pkg/errors"
)

// ModelVersion tags every prediction and error payload produced by this
// rule table.
const ModelVersion = "v1.0.0"

// PredictionKeyNamespace prefixes every cache key the engine writes. The
// Redis adapter clears by this prefix.
const PredictionKeyNamespace = "intent:prediction:"

const (
	defaultCacheTTLSeconds  = 300
	secondaryIntentMax      = 3
	secondaryIntentMinScore = 30.0
)

// PredictionService composes feature extraction, intent scoring and factor
// explanation behind a TTL cache and a performance guard. It is the single
// entry point the transport layer calls; it never returns a Go error
// outward, only a Prediction or a PredictionError.
type PredictionService struct {
	extractor  *FeatureExtractionService
	scorer     *IntentScoringService
	explainer  *FactorExplanationService
	cache      providers.CacheProvider
	guard      *observability.PerformanceGuard
	ttlSeconds int
}

// NewPredictionService creates the engine around the given cache and guard.
// A non-positive TTL falls back to 300 seconds.
func NewPredictionService(cache providers.CacheProvider, guard *observability.PerformanceGuard, ttlSeconds int) *PredictionService {
	if ttlSeconds <= 0 {
		ttlSeconds = defaultCacheTTLSeconds
	}
	return &PredictionService{
		extractor:  NewFeatureExtractionService(),
		scorer:     NewIntentScoringService(),
		explainer:  NewFactorExplanationService(),
		cache:      cache,
		guard:      guard,
		ttlSeconds: ttlSeconds,
	}
}

// SetScoring replaces the scoring service, letting callers pin the jitter
// source for reproducible output.
func (s *PredictionService) SetScoring(scorer *IntentScoringService) {
	s.scorer = scorer
}

// SetExtraction replaces the feature extraction service, letting callers
// pin the evaluation clock.
func (s *PredictionService) SetExtraction(extractor *FeatureExtractionService) {
	s.extractor = extractor
}

// PredictIntent classifies a session from its metadata and events. Exactly
// one return is non-nil. Identical inputs within the cache TTL return the
// cached prediction, identifier included.
func (s *PredictionService) PredictIntent(ctx context.Context, session *entities.Session, events []entities.Event) (*entities.Prediction, *entities.PredictionError) {
	if session == nil {
		return nil, s.errorResult(apperrors.NewValidationError("session data is required"))
	}

	key, err := s.cacheKey(session, events)
	if err != nil {
		return nil, s.errorResult(apperrors.NewInternalError("failed to derive cache key", err))
	}

	var prediction *entities.Prediction
	err = s.guard.Observe(ctx, "predict_intent", func(ctx context.Context) error {
		if cached, err := s.cache.Get(ctx, key); err == nil {
			var p entities.Prediction
			if err := json.Unmarshal(cached, &p); err == nil {
				observability.RecordCacheHit(ctx, s.guard.Metrics(), PredictionKeyNamespace)
				prediction = &p
				return nil
			}
			// A corrupt entry is dropped and recomputed.
			_ = s.cache.Delete(ctx, key)
		}
		observability.RecordCacheMiss(ctx, s.guard.Metrics(), PredictionKeyNamespace)

		p, err := s.predict(session, events)
		if err != nil {
			return err
		}

		if data, err := json.Marshal(p); err == nil {
			if err := s.cache.Set(ctx, key, data, s.ttlSeconds); err != nil {
				log.Warn().Err(err).Msg("Failed to cache prediction")
			}
		}

		prediction = p
		return nil
	})
	if err != nil {
		// The guard already logged the failure with elapsed time.
		return nil, s.errorResult(err)
	}

	return prediction, nil
}

// ClearCache empties the prediction cache. Exposed for the bootstrap layer.
func (s *PredictionService) ClearCache(ctx context.Context) error {
	return s.cache.Clear(ctx)
}

// predict runs the uncached pipeline: extract, score, rank, explain.
func (s *PredictionService) predict(session *entities.Session, events []entities.Event) (*entities.Prediction, error) {
	features := s.extractor.Extract(session, events)
	ranked := s.scorer.Rank(s.scorer.Score(features))
	if len(ranked) == 0 {
		return nil, apperrors.NewInternalError("scoring produced no categories", nil)
	}
	primary := ranked[0]

	// Runner-up spots are the next three ranks, kept only above the
	// reporting floor.
	limit := secondaryIntentMax + 1
	if limit > len(ranked) {
		limit = len(ranked)
	}
	secondary := make([]entities.SecondaryIntent, 0, secondaryIntentMax)
	for _, cand := range ranked[1:limit] {
		if cand.Score > secondaryIntentMinScore {
			secondary = append(secondary, entities.SecondaryIntent{
				Intent:     cand.Intent,
				Confidence: roundScore(cand.Score),
			})
		}
	}

	return &entities.Prediction{
		PredictionID:     newPredictionID(),
		PrimaryIntent:    primary.Intent,
		Confidence:       roundScore(primary.Score),
		SecondaryIntents: secondary,
		Factors:          s.explainer.Explain(features, primary.Intent),
		ModelVersion:     ModelVersion,
	}, nil
}

// cacheKey hashes the full call payload. Identical inputs hit the cache;
// evaluation wall-clock time is deliberately not part of the key.
func (s *PredictionService) cacheKey(session *entities.Session, events []entities.Event) (string, error) {
	payload := struct {
		Session *entities.Session `json:"session"`
		Events  []entities.Event  `json:"events"`
	}{Session: session, Events: events}

	data, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(data)
	return PredictionKeyNamespace + hex.EncodeToString(sum[:]), nil
}

func (s *PredictionService) errorResult(err error) *entities.PredictionError {
	return &entities.PredictionError{
		Message:      fmt.Sprintf("Prediction failed: %s", userMessage(err)),
		ModelVersion: ModelVersion,
	}
}

// userMessage strips internal error detail down to the human-readable part.
func userMessage(err error) string {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return err.Error()
}

func roundScore(v float64) float64 {
	return math.Round(v*10) / 10
}

func newPredictionID() string {
	return "pred_" + strings.ReplaceAll(uuid.New().String(), "-", "")[:12]
}
