package estimator

// #region imports
import (
	"fmt"
	"math"
	"time"
)

// #endregion

// #region category

// Category is one of the six behavioral classifications assigned per turn.
type Category string

const (
	CategoryA Category = "A" // active critical engagement
	CategoryB Category = "B" // selective engagement
	CategoryC Category = "C" // moderate balanced use
	CategoryD Category = "D" // tool-oriented use
	CategoryE Category = "E" // exploratory learning
	CategoryF Category = "F" // passive over-reliance
)

// Categories lists all categories in tie-break precedence order.
// ArgMax resolves equal probabilities to the earliest entry.
var Categories = []Category{CategoryA, CategoryB, CategoryC, CategoryD, CategoryE, CategoryF}

// #endregion category

// #region pattern-estimate

// PatternEstimate is the per-turn probability distribution over categories.
// Immutable once created; appended to the session's rolling history.
type PatternEstimate struct {
	Probabilities map[Category]float64
	TopCategory   Category
	Confidence    float64
	Timestamp     time.Time
}

// probEpsilon is the rounding tolerance for the sums-to-one invariant.
const probEpsilon = 1e-6

// Validate checks the distribution invariant. A failure here is an internal
// defect, not a recoverable condition; tests fail loudly on it.
func (p PatternEstimate) Validate() error {
	var sum float64
	for _, c := range Categories {
		pr := p.Probabilities[c]
		if pr < 0 || pr > 1 {
			return fmt.Errorf("probability %s=%.6f out of [0,1]", c, pr)
		}
		sum += pr
	}
	if math.Abs(sum-1) > probEpsilon {
		return fmt.Errorf("probabilities sum to %.6f, want 1", sum)
	}
	return nil
}

// #endregion pattern-estimate

// #region session-state

// SessionState is the per-session rolling state the estimator reads and
// appends to. Prior, when set, is an already-smoothed distribution built
// from the user's recent detections (see BlendPrior).
type SessionState struct {
	UserID    string
	SessionID string
	Prior     map[Category]float64
	History   []PatternEstimate
	TurnCount int
}

// HistoryWindow is the number of recent estimates downstream consumers
// (stability, transition) read.
const HistoryWindow = 5

// #endregion session-state

// #region arg-max

// ArgMax returns the highest-probability category, breaking ties by the
// fixed precedence order of Categories.
func ArgMax(probs map[Category]float64) (Category, float64) {
	best := Categories[0]
	bestP := probs[best]
	for _, c := range Categories[1:] {
		if probs[c] > bestP {
			best = c
			bestP = probs[c]
		}
	}
	return best, bestP
}

// #endregion arg-max
