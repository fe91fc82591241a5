package signal

// #region imports
import (
	"encoding/json"
	"fmt"
)

// #endregion

// #region clamp

// Clamp returns a copy of v with every scaled field forced into its
// documented range. The extractor is outside this core's control, so
// out-of-range values are corrected rather than rejected.
func Clamp(v Vector) Vector {
	v.DecompositionEvidence = clampScale(v.DecompositionEvidence)
	v.GoalClarity = clampScale(v.GoalClarity)
	v.ContextAwareness = clampScale(v.ContextAwareness)
	v.ReflectionDepth = clampScale(v.ReflectionDepth)
	v.TaskComplexity = clampScale(v.TaskComplexity)
	v.AIRelianceDegree = clampScale(v.AIRelianceDegree)
	if v.IterationCount < 0 {
		v.IterationCount = 0
	}
	switch v.TaskRiskLevel {
	case RiskLow, RiskMedium, RiskHigh, RiskCritical:
	default:
		v.TaskRiskLevel = RiskLow
	}
	return v
}

func clampScale(n int) int {
	if n < 0 {
		return 0
	}
	if n > 3 {
		return 3
	}
	return n
}

// #endregion clamp

// #region parse

// Parse decodes a JSON signal vector and clamps it. Extra fields in the
// payload are ignored; missing fields default to zero/false/low.
func Parse(data []byte) (Vector, error) {
	var v Vector
	if err := json.Unmarshal(data, &v); err != nil {
		return Vector{}, fmt.Errorf("parse signal vector: %w", err)
	}
	return Clamp(v), nil
}

// #endregion parse

// #region group-scores

// GroupScores folds the vector into the four metacognitive group averages
// (planning, monitoring, evaluation, regulation), each on the 0-3 scale.
// These are the inputs the rule-based evidence scorer works from.
type GroupScores struct {
	Planning   float64
	Monitoring float64
	Evaluation float64
	Regulation float64
}

// Groups computes the group averages from a clamped vector.
func Groups(v Vector) GroupScores {
	iter := v.IterationCount
	if iter > 3 {
		iter = 3
	}
	trust := len(v.TrustCalibrationEvidence)
	if trust > 3 {
		trust = 3
	}
	return GroupScores{
		Planning:   (float64(v.DecompositionEvidence) + float64(v.GoalClarity) + scaleBool(v.StrategyMentioned)) / 3,
		Monitoring: (scaleBool(v.VerificationAttempted) + float64(v.ContextAwareness) + float64(iter)) / 3,
		Evaluation: (scaleBool(v.OutputEvaluationPresent) + float64(v.ReflectionDepth) + scaleBool(v.CapabilityJudgmentShown)) / 3,
		Regulation: (float64(trust) + (3 - float64(v.AIRelianceDegree))) / 2,
	}
}

func scaleBool(b bool) float64 {
	if b {
		return 3
	}
	return 0
}

// #endregion group-scores
