package services

import (
	"math"
	"math/rand"
	"sort"
	"time"

	"github.com/clickstream-labs/intent-engine/internal/domain/entities"
)

// Intent categories in fixed enumeration order. Ranking ties resolve in
// favor of the earlier category.
const (
	IntentInformation   = "Information"
	IntentResearch      = "Research"
	IntentPurchase      = "Purchase"
	IntentLearning      = "Learning"
	IntentEntertainment = "Entertainment"
	IntentNavigation    = "Navigation"
	IntentSupport       = "Support"
	IntentComparison    = "Comparison"
)

// IntentCategories lists every category the scorer evaluates, in tie-break
// order.
var IntentCategories = []string{
	IntentInformation,
	IntentResearch,
	IntentPurchase,
	IntentLearning,
	IntentEntertainment,
	IntentNavigation,
	IntentSupport,
	IntentComparison,
}

// intentPattern is the behavioral envelope of one category: inclusive
// session-duration, click-count and scroll-depth ranges. The keyword lists
// ship with the model data but are not consulted by scoring; they are
// reserved for a future content-signal pass.
type intentPattern struct {
	timeMin, timeMax     float64
	clickMin, clickMax   int
	scrollMin, scrollMax float64
	keywords             []string
}

var intentPatterns = map[string]intentPattern{
	IntentInformation: {
		timeMin: 10, timeMax: 120,
		clickMin: 1, clickMax: 5,
		scrollMin: 20, scrollMax: 80,
		keywords: []string{"info", "about", "what", "how", "guide"},
	},
	IntentResearch: {
		timeMin: 60, timeMax: 600,
		clickMin: 3, clickMax: 15,
		scrollMin: 40, scrollMax: 100,
		keywords: []string{"research", "study", "analysis", "compare", "review"},
	},
	IntentPurchase: {
		timeMin: 30, timeMax: 300,
		clickMin: 2, clickMax: 10,
		scrollMin: 30, scrollMax: 90,
		keywords: []string{"buy", "price", "cart", "checkout", "order"},
	},
	IntentLearning: {
		timeMin: 120, timeMax: 1800,
		clickMin: 5, clickMax: 20,
		scrollMin: 60, scrollMax: 100,
		keywords: []string{"learn", "tutorial", "course", "lesson", "education"},
	},
	IntentEntertainment: {
		timeMin: 60, timeMax: 900,
		clickMin: 3, clickMax: 12,
		scrollMin: 20, scrollMax: 70,
		keywords: []string{"fun", "game", "video", "music", "entertainment"},
	},
	IntentNavigation: {
		timeMin: 5, timeMax: 60,
		clickMin: 1, clickMax: 3,
		scrollMin: 10, scrollMax: 40,
		keywords: []string{"menu", "home", "contact", "about", "navigate"},
	},
	IntentSupport: {
		timeMin: 30, timeMax: 600,
		clickMin: 2, clickMax: 8,
		scrollMin: 30, scrollMax: 80,
		keywords: []string{"help", "support", "faq", "contact", "problem"},
	},
	IntentComparison: {
		timeMin: 90, timeMax: 480,
		clickMin: 4, clickMax: 15,
		scrollMin: 50, scrollMax: 100,
		keywords: []string{"vs", "compare", "difference", "better", "alternative"},
	},
}

// scoreJitterRange bounds the symmetric perturbation added to every raw
// score so near-identical sessions don't tie perfectly.
const scoreJitterRange = 5.0

// JitterFunc supplies the bounded random perturbation, in
// [-scoreJitterRange, scoreJitterRange]. Production seeds from the wall
// clock; tests pin it.
type JitterFunc func() float64

func defaultJitter() JitterFunc {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	return func() float64 {
		return (rng.Float64()*2 - 1) * scoreJitterRange
	}
}

// ZeroJitter disables the perturbation, making scores reproducible.
func ZeroJitter() float64 { return 0 }

// ScoredIntent pairs a category with its clamped confidence score.
type ScoredIntent struct {
	Intent string
	Score  float64
}

// IntentScoringService evaluates the static pattern table against a feature
// vector, producing a confidence score per category.
type IntentScoringService struct {
	jitter JitterFunc
}

// NewIntentScoringService creates a scorer with the production jitter source.
func NewIntentScoringService() *IntentScoringService {
	return &IntentScoringService{jitter: defaultJitter()}
}

// NewIntentScoringServiceWithJitter creates a scorer with an explicit
// perturbation source. A nil source behaves like ZeroJitter.
func NewIntentScoringServiceWithJitter(jitter JitterFunc) *IntentScoringService {
	if jitter == nil {
		jitter = ZeroJitter
	}
	return &IntentScoringService{jitter: jitter}
}

// Score accumulates, for every category, the time fit, click fit, scroll
// fit and contextual bonuses, adds the perturbation, and clamps to [0,100].
func (s *IntentScoringService) Score(f entities.FeatureVector) map[string]float64 {
	scores := make(map[string]float64, len(IntentCategories))

	for _, intent := range IntentCategories {
		p := intentPatterns[intent]
		score := 0.0

		switch {
		case f.SessionDuration >= p.timeMin && f.SessionDuration <= p.timeMax:
			score += 30
		case f.SessionDuration > p.timeMax:
			score += 20
		default:
			score += 10
		}

		switch {
		case f.ClickCount >= p.clickMin && f.ClickCount <= p.clickMax:
			score += 25
		case f.ClickCount > p.clickMax:
			score += 15
		default:
			score += 5
		}

		switch {
		case f.AvgScrollDepth >= p.scrollMin && f.AvgScrollDepth <= p.scrollMax:
			score += 25
		case f.AvgScrollDepth > p.scrollMax:
			score += 15
		default:
			score += 5
		}

		// Mobile users lean on quick lookups, desktop users on deep dives.
		switch {
		case (intent == IntentInformation || intent == IntentNavigation) && f.DeviceType > 0.5:
			score += 10
		case (intent == IntentResearch || intent == IntentLearning) && f.DeviceType == 0:
			score += 10
		}

		// Search engine traffic arrives looking for answers.
		if (intent == IntentInformation || intent == IntentResearch) && f.ReferrerType == 1.0 {
			score += 10
		}

		score += s.jitter()
		scores[intent] = math.Max(0, math.Min(100, score))
	}

	return scores
}

// Rank orders the per-category scores descending. Equal scores keep the
// IntentCategories order, so the earlier category wins the tie.
func (s *IntentScoringService) Rank(scores map[string]float64) []ScoredIntent {
	ranked := make([]ScoredIntent, 0, len(IntentCategories))
	for _, intent := range IntentCategories {
		ranked = append(ranked, ScoredIntent{Intent: intent, Score: scores[intent]})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	return ranked
}
