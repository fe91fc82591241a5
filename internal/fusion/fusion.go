package fusion

// #region imports
import (
	"github.com/Winckwu/Interview-GenAI-sub003/internal/estimator"
	"github.com/Winckwu/Interview-GenAI-sub003/internal/stability"
)

// #endregion

// #region config

// Config holds the ensemble blend weights and the instability discount.
type Config struct {
	PrimaryWeight   float64 `yaml:"primary_weight"`
	SecondaryWeight float64 `yaml:"secondary_weight"`
	// InstabilityDiscount multiplies fused confidence when the trend is
	// neither stable nor converging. Must be <= 1: instability can only
	// lower confidence, never raise it.
	InstabilityDiscount float64 `yaml:"instability_discount"`
}

// DefaultConfig returns the baseline fusion parameters.
func DefaultConfig() Config {
	return Config{
		PrimaryWeight:       0.6,
		SecondaryWeight:     0.4,
		InstabilityDiscount: 0.8,
	}
}

// #endregion config

// #region fuse

// Fuse blends the primary estimate with an optional secondary one. A nil
// secondary (classifier unreachable or disabled) returns primary unchanged;
// fusion never hard-fails on the secondary being unavailable. stabilityOK
// is false when the stability window was too short; unknown stability is
// treated as unstable so a fused result stays conservative.
func Fuse(config Config, primary estimator.PatternEstimate, secondary *estimator.PatternEstimate, metrics stability.Metrics, stabilityOK bool) estimator.PatternEstimate {
	if secondary == nil {
		return primary
	}

	probs := make(map[estimator.Category]float64, len(estimator.Categories))
	var total float64
	for _, c := range estimator.Categories {
		p := primary.Probabilities[c]*config.PrimaryWeight + secondary.Probabilities[c]*config.SecondaryWeight
		probs[c] = p
		total += p
	}
	if total > 0 {
		for _, c := range estimator.Categories {
			probs[c] /= total
		}
	}

	top, conf := estimator.ArgMax(probs)
	if !stableEnough(metrics, stabilityOK) {
		conf *= config.InstabilityDiscount
	}

	return estimator.PatternEstimate{
		Probabilities: probs,
		TopCategory:   top,
		Confidence:    conf,
		Timestamp:     primary.Timestamp,
	}
}

func stableEnough(metrics stability.Metrics, ok bool) bool {
	if !ok {
		return false
	}
	return metrics.Trend == stability.TrendStable || metrics.Trend == stability.TrendConverging
}

// #endregion fuse
