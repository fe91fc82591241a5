package session

// #region imports
import (
	"context"
	"time"

	"github.com/Winckwu/Interview-GenAI-sub003/internal/estimator"
	"github.com/Winckwu/Interview-GenAI-sub003/internal/fatigue"
	"github.com/Winckwu/Interview-GenAI-sub003/internal/signal"
	"github.com/Winckwu/Interview-GenAI-sub003/internal/stability"
	"github.com/Winckwu/Interview-GenAI-sub003/internal/store"
	"github.com/Winckwu/Interview-GenAI-sub003/internal/transition"
)

// #endregion

// #region interfaces

// PriorSource reads a user's historical category distribution. The store
// implements it; tests inject fakes.
type PriorSource interface {
	HistoricalPrior(userID string, now time.Time) (map[estimator.Category]float64, error)
}

// Persister receives fire-and-forget writes of detections, transitions,
// and stability snapshots. Failures are logged and dropped; they never
// fail a turn.
type Persister interface {
	RecordDetection(store.Detection) error
	RecordTransition(store.TransitionRecord) error
	RecordStabilitySnapshot(store.StabilitySnapshot) error
}

// Secondary is the optional ensemble classifier. Any error means
// "unavailable"; the pipeline degrades to the primary estimate.
type Secondary interface {
	Classify(ctx context.Context, v signal.Vector) (estimator.PatternEstimate, error)
}

// #endregion interfaces

// #region turn-result

// TurnResult is everything one processed turn produces. Stability is only
// meaningful when StabilityOK is true. Decision is nil when no intervention
// was requested this turn.
type TurnResult struct {
	Estimate     estimator.PatternEstimate // fused when a secondary was available
	Primary      estimator.PatternEstimate
	Stability    stability.Metrics
	StabilityOK  bool
	Transition   *transition.Event
	Oscillating  bool
	Decision     *fatigue.Decision
	Intervention fatigue.InterventionType // set when Decision is non-nil
}

// #endregion turn-result
