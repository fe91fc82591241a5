package signal

import (
	"testing"
)

func TestClampForcesScaledFieldsIntoRange(t *testing.T) {
	v := Clamp(Vector{
		DecompositionEvidence: 7,
		GoalClarity:           -2,
		ContextAwareness:      4,
		ReflectionDepth:       -1,
		TaskComplexity:        9,
		AIRelianceDegree:      5,
		IterationCount:        -3,
	})
	if v.DecompositionEvidence != 3 || v.ContextAwareness != 3 || v.TaskComplexity != 3 || v.AIRelianceDegree != 3 {
		t.Fatalf("high values must clamp to 3: %+v", v)
	}
	if v.GoalClarity != 0 || v.ReflectionDepth != 0 {
		t.Fatalf("negative values must clamp to 0: %+v", v)
	}
	if v.IterationCount != 0 {
		t.Fatalf("iteration count must floor at 0, got %d", v.IterationCount)
	}
}

func TestClampDefaultsUnknownRiskToLow(t *testing.T) {
	if v := Clamp(Vector{TaskRiskLevel: "catastrophic"}); v.TaskRiskLevel != RiskLow {
		t.Fatalf("unknown risk must default to low, got %s", v.TaskRiskLevel)
	}
	if v := Clamp(Vector{TaskRiskLevel: RiskCritical}); v.TaskRiskLevel != RiskCritical {
		t.Fatalf("known risk must survive, got %s", v.TaskRiskLevel)
	}
	if v := Clamp(Vector{}); v.TaskRiskLevel != RiskLow {
		t.Fatalf("empty risk must default to low, got %s", v.TaskRiskLevel)
	}
}

func TestParseDecodesAndClamps(t *testing.T) {
	payload := []byte(`{
		"decomposition_evidence": 9,
		"goal_clarity": 2,
		"strategy_mentioned": true,
		"verification_attempted": true,
		"trust_calibration_evidence": ["checked-docs"],
		"task_risk_level": "high",
		"unknown_field": 42
	}`)

	v, err := Parse(payload)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if v.DecompositionEvidence != 3 {
		t.Fatalf("out-of-range field must clamp, got %d", v.DecompositionEvidence)
	}
	if v.GoalClarity != 2 || !v.StrategyMentioned || !v.VerificationAttempted {
		t.Fatalf("in-range fields must survive: %+v", v)
	}
	if v.TaskRiskLevel != RiskHigh {
		t.Fatalf("expected high risk, got %s", v.TaskRiskLevel)
	}
	if len(v.TrustCalibrationEvidence) != 1 {
		t.Fatalf("trust evidence must round-trip, got %v", v.TrustCalibrationEvidence)
	}
}

func TestParseRejectsMalformedJSON(t *testing.T) {
	if _, err := Parse([]byte(`{"goal_clarity":`)); err == nil {
		t.Fatal("malformed payload must error")
	}
}

func TestGroupsAverageOnScale(t *testing.T) {
	g := Groups(Vector{
		DecompositionEvidence:    3,
		GoalClarity:              3,
		StrategyMentioned:        true,
		VerificationAttempted:    true,
		ContextAwareness:         3,
		IterationCount:           3,
		OutputEvaluationPresent:  true,
		ReflectionDepth:          3,
		CapabilityJudgmentShown:  true,
		TrustCalibrationEvidence: []string{"a", "b", "c"},
		AIRelianceDegree:         0,
	})
	if g.Planning != 3 || g.Monitoring != 3 || g.Evaluation != 3 || g.Regulation != 3 {
		t.Fatalf("maxed vector must score 3 in every group: %+v", g)
	}

	if g := Groups(Vector{}); g.Planning != 0 || g.Monitoring != 0 || g.Evaluation != 0 {
		t.Fatalf("zero vector must score 0 outside regulation: %+v", g)
	}
}

func TestGroupsCapUnboundedInputs(t *testing.T) {
	g := Groups(Vector{
		IterationCount:           40,
		TrustCalibrationEvidence: []string{"a", "b", "c", "d", "e"},
		AIRelianceDegree:         3,
	})
	// Iteration contributes at most 3 to monitoring; trust evidence at most
	// 3 to regulation.
	if g.Monitoring != 1 {
		t.Fatalf("expected monitoring 1.0 from capped iterations, got %.2f", g.Monitoring)
	}
	if g.Regulation != 1.5 {
		t.Fatalf("expected regulation 1.5 from capped trust, got %.2f", g.Regulation)
	}
}
