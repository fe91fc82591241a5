package estimator

// #region imports
import (
	"math"

	"github.com/Winckwu/Interview-GenAI-sub003/internal/signal"
)

// #endregion

// #region scorer-interface

// Scorer turns a signal vector into non-negative per-category evidence.
// Implementations must be pure: identical inputs yield identical scores.
type Scorer interface {
	Score(v signal.Vector) map[Category]float64
}

// #endregion scorer-interface

// #region weights

// ScorerWeights holds the tunable evidence coefficients of the rule-based
// scorer. The defaults are a starting point inferred from observed behavior,
// not a calibrated truth; keep every coefficient non-negative so category
// scores stay monotone in their key signals.
type ScorerWeights struct {
	AEngagement   float64 `yaml:"a_engagement"`   // overall signal mass → A
	AEvaluation   float64 `yaml:"a_evaluation"`   // evaluation group → A
	APlanning     float64 `yaml:"a_planning"`     // planning group → A
	AVerification float64 `yaml:"a_verification"` // verification attempted → A

	BPlanning    float64 `yaml:"b_planning"`
	BMonitoring  float64 `yaml:"b_monitoring"`
	BLowTrustGap float64 `yaml:"b_low_trust_gap"` // weak regulation → B

	CBase     float64 `yaml:"c_base"`     // constant affinity for the default category
	CMidrange float64 `yaml:"c_midrange"` // bonus near mid-scale signal mass

	DMonitoring float64 `yaml:"d_monitoring"`
	DStrategy   float64 `yaml:"d_strategy"`
	DComplexity float64 `yaml:"d_complexity"`

	ERegulation float64 `yaml:"e_regulation"`
	EReflection float64 `yaml:"e_reflection"`
	EIteration  float64 `yaml:"e_iteration"`

	FDisengagement float64 `yaml:"f_disengagement"` // missing signal mass → F
	FNoEvaluation  float64 `yaml:"f_no_evaluation"`
	FReliance      float64 `yaml:"f_reliance"`
}

// DefaultScorerWeights returns the baseline evidence coefficients.
func DefaultScorerWeights() ScorerWeights {
	return ScorerWeights{
		AEngagement:   2.0,
		AEvaluation:   1.5,
		APlanning:     1.2,
		AVerification: 0.8,

		BPlanning:    1.4,
		BMonitoring:  1.0,
		BLowTrustGap: 0.8,

		CBase:     1.2,
		CMidrange: 0.6,

		DMonitoring: 1.6,
		DStrategy:   0.7,
		DComplexity: 0.5,

		ERegulation: 1.5,
		EReflection: 0.8,
		EIteration:  0.4,

		FDisengagement: 1.8,
		FNoEvaluation:  1.2,
		FReliance:      1.0,
	}
}

// #endregion weights

// #region rule-scorer

// RuleScorer is the default evidence scorer. It folds the signal vector into
// the four metacognitive group averages and maps them to category evidence
// with additive non-negative weights.
type RuleScorer struct {
	weights ScorerWeights
}

// NewRuleScorer creates a scorer with the given coefficients.
func NewRuleScorer(w ScorerWeights) *RuleScorer {
	return &RuleScorer{weights: w}
}

// Score implements Scorer.
func (s *RuleScorer) Score(v signal.Vector) map[Category]float64 {
	v = signal.Clamp(v)
	g := signal.Groups(v)
	w := s.weights

	// Normalize groups and derived terms to [0,1].
	p := g.Planning / 3
	m := g.Monitoring / 3
	e := g.Evaluation / 3
	r := g.Regulation / 3
	// Weighted total mirrors the 12-feature sum: planning carries 4
	// features, monitoring 3, evaluation 3, regulation 2.
	total := (g.Planning*4 + g.Monitoring*3 + g.Evaluation*3 + g.Regulation*2) / 36

	ver := 0.0
	if v.VerificationAttempted {
		ver = 1
	}
	strat := 0.0
	if v.StrategyMentioned {
		strat = 1
	}
	rel := float64(v.AIRelianceDegree) / 3
	refl := float64(v.ReflectionDepth) / 3
	iter := float64(v.IterationCount)
	if iter > 3 {
		iter = 3
	}
	iter /= 3
	cx := float64(v.TaskComplexity) / 3

	scores := map[Category]float64{
		CategoryA: w.AEngagement*total + w.AEvaluation*e + w.APlanning*p + w.AVerification*ver,
		CategoryB: w.BPlanning*p + w.BMonitoring*m + w.BLowTrustGap*(1-r),
		CategoryC: w.CBase + w.CMidrange*(1-math.Abs(total-0.5)*2),
		CategoryD: w.DMonitoring*m + w.DStrategy*strat + w.DComplexity*cx,
		CategoryE: w.ERegulation*r + w.EReflection*refl + w.EIteration*iter,
		CategoryF: w.FDisengagement*(1-total) + w.FNoEvaluation*(1-e) + w.FReliance*rel,
	}
	return scores
}

// #endregion rule-scorer
