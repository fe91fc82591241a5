package stability

// #region imports
import (
	"github.com/Winckwu/Interview-GenAI-sub003/internal/estimator"
)

// #endregion

// #region types

// TrendDirection summarizes recent category sequence behavior.
type TrendDirection string

const (
	TrendStable      TrendDirection = "stable"
	TrendConverging  TrendDirection = "converging"
	TrendDiverging   TrendDirection = "diverging"
	TrendOscillating TrendDirection = "oscillating"
)

// Metrics is the derived stability view over a session's recent estimates.
// Recomputed on demand; never authoritative state.
type Metrics struct {
	Stability    float64 // weighted evidence share of the dominant category
	StreakLength int     // consecutive most-recent entries with one category
	Trend        TrendDirection
}

// #endregion types

// #region weights

// recencyWeights are the ascending oldest→newest weights over a full
// window. Shorter windows use the trailing sub-slice.
var recencyWeights = [estimator.HistoryWindow]float64{0.4, 0.6, 0.8, 0.9, 1.0}

// MinHistory is the smallest window the calculator accepts.
const MinHistory = 2

// #endregion weights

// #region calculate

// Calculate derives stability metrics from the most recent estimates
// (oldest first, at most HistoryWindow entries). The second return is false
// when the window holds fewer than MinHistory entries; callers must treat
// that as "undetermined", not as an error.
func Calculate(history []estimator.PatternEstimate) (Metrics, bool) {
	if len(history) > estimator.HistoryWindow {
		history = history[len(history)-estimator.HistoryWindow:]
	}
	n := len(history)
	if n < MinHistory {
		return Metrics{}, false
	}

	weights := recencyWeights[estimator.HistoryWindow-n:]

	perCategory := make(map[estimator.Category]float64)
	var total float64
	for i, est := range history {
		w := weights[i] * est.Confidence
		perCategory[est.TopCategory] += w
		total += w
	}

	var dominant float64
	for _, sum := range perCategory {
		if sum > dominant {
			dominant = sum
		}
	}
	score := 0.0
	if total > 0 {
		score = dominant / total
	}
	if score > 1 {
		score = 1
	}

	return Metrics{
		Stability:    score,
		StreakLength: streak(history),
		Trend:        trend(history),
	}, true
}

// #endregion calculate

// #region streak

// streak counts consecutive most-recent entries sharing one category.
func streak(history []estimator.PatternEstimate) int {
	last := history[len(history)-1].TopCategory
	count := 0
	for i := len(history) - 1; i >= 0; i-- {
		if history[i].TopCategory != last {
			break
		}
		count++
	}
	return count
}

// #endregion streak

// #region trend

// trend classifies the category sequence. Priority: stable (full window,
// one category), converging (last 3 share, or a short all-same window),
// diverging (3+ distinct categories), oscillating (3+ changes). The
// remaining mixed cases read as diverging.
func trend(history []estimator.PatternEstimate) TrendDirection {
	n := len(history)

	allSame := true
	for i := 1; i < n; i++ {
		if history[i].TopCategory != history[0].TopCategory {
			allSame = false
			break
		}
	}
	if allSame {
		if n == estimator.HistoryWindow {
			return TrendStable
		}
		return TrendConverging
	}

	if n >= 3 {
		last3Same := history[n-1].TopCategory == history[n-2].TopCategory &&
			history[n-2].TopCategory == history[n-3].TopCategory
		if last3Same {
			return TrendConverging
		}
	}

	distinct := make(map[estimator.Category]struct{}, n)
	changes := 0
	for i, est := range history {
		distinct[est.TopCategory] = struct{}{}
		if i > 0 && est.TopCategory != history[i-1].TopCategory {
			changes++
		}
	}
	if len(distinct) >= 3 {
		return TrendDiverging
	}
	if changes >= 3 {
		return TrendOscillating
	}
	return TrendDiverging
}

// #endregion trend
