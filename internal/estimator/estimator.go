package estimator

// #region imports
import (
	"time"

	"github.com/Winckwu/Interview-GenAI-sub003/internal/signal"
)

// #endregion

// #region config

// Config holds the estimator's blend and fallback parameters.
type Config struct {
	// PriorHistoricalWeight is the share of the smoothed prior taken from
	// the user's recent detections; the remainder is uniform.
	PriorHistoricalWeight float64 `yaml:"prior_historical_weight"`
	// DefaultConfidence is the top-category confidence of the cold-start
	// fallback distribution when no prior exists.
	DefaultConfidence float64 `yaml:"default_confidence"`
	// EvidenceFloor is the total evidence below which a signal is treated
	// as degenerate and the prior/fallback path is taken instead.
	EvidenceFloor float64 `yaml:"evidence_floor"`
}

// DefaultConfig returns the baseline estimator parameters.
func DefaultConfig() Config {
	return Config{
		PriorHistoricalWeight: 0.8,
		DefaultConfidence:     0.4,
		EvidenceFloor:         1e-9,
	}
}

// #endregion config

// #region estimator

// Estimator maps a signal vector plus per-session rolling state to a
// PatternEstimate. It is deterministic for identical inputs; the only state
// it touches is the session history it appends to.
type Estimator struct {
	scorer Scorer
	config Config
	now    func() time.Time
}

// New creates an estimator with the given scorer and config.
func New(scorer Scorer, config Config) *Estimator {
	return &Estimator{scorer: scorer, config: config, now: time.Now}
}

// NewWithClock creates an estimator with an injected clock for tests.
func NewWithClock(scorer Scorer, config Config, now func() time.Time) *Estimator {
	return &Estimator{scorer: scorer, config: config, now: now}
}

// #endregion estimator

// #region estimate

// Estimate produces a fresh PatternEstimate and appends it to the session
// history, truncating to HistoryWindow entries. A degenerate (zero-evidence)
// signal falls back to the session prior when one is loaded, otherwise to a
// low-confidence default centered on category C.
func (e *Estimator) Estimate(v signal.Vector, st *SessionState) PatternEstimate {
	scores := e.scorer.Score(v)

	var total float64
	for _, c := range Categories {
		if scores[c] < 0 {
			scores[c] = 0
		}
		total += scores[c]
	}

	var probs map[Category]float64
	switch {
	case total > e.config.EvidenceFloor:
		probs = make(map[Category]float64, len(Categories))
		for _, c := range Categories {
			probs[c] = scores[c] / total
		}
	case st.Prior != nil:
		probs = copyDist(st.Prior)
	default:
		probs = e.defaultDistribution()
	}

	top, conf := ArgMax(probs)
	est := PatternEstimate{
		Probabilities: probs,
		TopCategory:   top,
		Confidence:    conf,
		Timestamp:     e.now(),
	}

	st.History = append(st.History, est)
	if len(st.History) > HistoryWindow {
		st.History = st.History[len(st.History)-HistoryWindow:]
	}
	st.TurnCount++

	return est
}

// defaultDistribution places DefaultConfidence on category C (the moderate
// default) and spreads the remainder evenly.
func (e *Estimator) defaultDistribution() map[Category]float64 {
	rest := (1 - e.config.DefaultConfidence) / float64(len(Categories)-1)
	probs := make(map[Category]float64, len(Categories))
	for _, c := range Categories {
		probs[c] = rest
	}
	probs[CategoryC] = e.config.DefaultConfidence
	return probs
}

// #endregion estimate

// #region prior

// BlendPrior smooths a raw historical distribution with the uniform
// distribution (PriorHistoricalWeight historical, remainder uniform) and
// normalizes. Returns nil for an empty input so callers fall through to the
// cold-start default.
func (e *Estimator) BlendPrior(historical map[Category]float64) map[Category]float64 {
	if len(historical) == 0 {
		return nil
	}
	var histTotal float64
	for _, c := range Categories {
		histTotal += historical[c]
	}
	if histTotal <= 0 {
		return nil
	}

	wh := e.config.PriorHistoricalWeight
	uniform := 1.0 / float64(len(Categories))
	probs := make(map[Category]float64, len(Categories))
	for _, c := range Categories {
		probs[c] = wh*(historical[c]/histTotal) + (1-wh)*uniform
	}
	return probs
}

func copyDist(src map[Category]float64) map[Category]float64 {
	dst := make(map[Category]float64, len(src))
	for c, p := range src {
		dst[c] = p
	}
	return dst
}

// #endregion prior
