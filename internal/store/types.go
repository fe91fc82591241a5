package store

// #region imports
import (
	"time"

	"github.com/Winckwu/Interview-GenAI-sub003/internal/estimator"
	"github.com/Winckwu/Interview-GenAI-sub003/internal/stability"
)

// #endregion

// #region detection

// Detection is one persisted per-turn category estimate.
type Detection struct {
	ID            string
	UserID        string
	SessionID     string
	TurnNumber    int
	Category      estimator.Category
	Confidence    float64
	Probabilities map[estimator.Category]float64
	CreatedAt     time.Time
}

// #endregion detection

// #region transition-record

// TransitionRecord is one persisted confirmed transition, keyed by
// (user, session, turn).
type TransitionRecord struct {
	ID               string
	UserID           string
	SessionID        string
	TurnNumber       int
	FromCategory     estimator.Category
	ToCategory       estimator.Category
	Type             string
	Severity         string
	TriggersJSON     string
	SessionElapsedMs int64
	CreatedAt        time.Time
}

// #endregion transition-record

// #region stability-snapshot

// StabilitySnapshot is a timestamped per-turn stability view.
type StabilitySnapshot struct {
	UserID       string
	SessionID    string
	TurnNumber   int
	Stability    float64
	StreakLength int
	Trend        stability.TrendDirection
	CreatedAt    time.Time
}

// #endregion stability-snapshot
