package transition

import (
	"testing"
	"time"

	"github.com/Winckwu/Interview-GenAI-sub003/internal/estimator"
	"github.com/Winckwu/Interview-GenAI-sub003/internal/signal"
)

var testNow = time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)

func newTestDetector() *Detector {
	return NewDetectorWithClock(DefaultConfig(), func() time.Time { return testNow })
}

func history(cats ...estimator.Category) []estimator.PatternEstimate {
	out := make([]estimator.PatternEstimate, 0, len(cats))
	for i, c := range cats {
		out = append(out, estimator.PatternEstimate{
			TopCategory: c,
			Confidence:  0.8,
			Timestamp:   testNow.Add(time.Duration(i) * time.Minute),
		})
	}
	return out
}

func TestDetectInsufficientHistory(t *testing.T) {
	d := newTestDetector()

	res := d.Detect(history(estimator.CategoryA, estimator.CategoryB), Context{})
	if !res.InsufficientHistory {
		t.Fatal("two entries must report insufficient history")
	}
	if res.Event != nil {
		t.Fatal("insufficient history must not emit an event")
	}
}

func TestDetectConfirmedFlip(t *testing.T) {
	d := newTestDetector()

	res := d.Detect(history(estimator.CategoryA, estimator.CategoryA, estimator.CategoryB), Context{MessageCount: 3})
	if res.Event == nil {
		t.Fatal("stable A followed by B must confirm A→B")
	}
	ev := res.Event
	if ev.FromCategory != estimator.CategoryA || ev.ToCategory != estimator.CategoryB {
		t.Fatalf("expected A→B, got %s→%s", ev.FromCategory, ev.ToCategory)
	}
	if ev.Type != TypeRegression {
		t.Fatalf("A→B moves down the scale, got %s", ev.Type)
	}
	if ev.ID == "" {
		t.Fatal("event must carry an id")
	}
	if ev.TurnNumber != 3 {
		t.Fatalf("expected turn 3, got %d", ev.TurnNumber)
	}
	if !ev.CreatedAt.Equal(testNow) {
		t.Fatalf("expected injected clock timestamp, got %s", ev.CreatedAt)
	}
}

func TestDetectSingleFlipIsNoise(t *testing.T) {
	d := newTestDetector()

	res := d.Detect(history(estimator.CategoryA, estimator.CategoryB, estimator.CategoryA), Context{})
	if res.Event != nil {
		t.Fatalf("flip-and-return must not confirm, got %s→%s", res.Event.FromCategory, res.Event.ToCategory)
	}
}

func TestDetectNoDuplicateAfterConfirmation(t *testing.T) {
	d := newTestDetector()

	// The transition was already confirmed at [A,A,B]; once B holds,
	// the newest entry is no longer a flip.
	res := d.Detect(history(estimator.CategoryA, estimator.CategoryA, estimator.CategoryB, estimator.CategoryB), Context{})
	if res.Event != nil {
		t.Fatal("a settled transition must not re-emit")
	}
}

func TestDetectSeverityCriticalOnFullCollapse(t *testing.T) {
	d := newTestDetector()

	res := d.Detect(history(estimator.CategoryA, estimator.CategoryA, estimator.CategoryF), Context{})
	if res.Event == nil {
		t.Fatal("expected a confirmed transition")
	}
	if res.Event.Severity != SeverityCritical {
		t.Fatalf("A→F is critical, got %s", res.Event.Severity)
	}
	if !res.Event.Triggers.CriticalRegression {
		t.Fatal("critical regression trigger must be set")
	}
}

func TestDetectSeverityHighIntoPassive(t *testing.T) {
	d := newTestDetector()

	res := d.Detect(history(estimator.CategoryC, estimator.CategoryC, estimator.CategoryF), Context{})
	if res.Event == nil {
		t.Fatal("expected a confirmed transition")
	}
	if res.Event.Severity != SeverityHigh {
		t.Fatalf("any non-A descent into F is high, got %s", res.Event.Severity)
	}
	if res.Event.Triggers.CriticalRegression {
		t.Fatal("high severity must not flag critical regression")
	}
}

func TestDetectSeverityMediumFromActive(t *testing.T) {
	d := newTestDetector()

	res := d.Detect(history(estimator.CategoryA, estimator.CategoryA, estimator.CategoryD), Context{})
	if res.Event == nil {
		t.Fatal("expected a confirmed transition")
	}
	if res.Event.Severity != SeverityMedium {
		t.Fatalf("A→D is medium, got %s", res.Event.Severity)
	}
}

func TestDetectSeverityMediumOnVerificationDrop(t *testing.T) {
	d := newTestDetector()

	verified := signal.Vector{VerificationAttempted: true}
	unverified := signal.Vector{}
	ctx := Context{Signals: []signal.Vector{verified, verified, unverified, unverified}}

	res := d.Detect(history(estimator.CategoryC, estimator.CategoryC, estimator.CategoryE), ctx)
	if res.Event == nil {
		t.Fatal("expected a confirmed transition")
	}
	if res.Event.Triggers.VerificationRateDrop != 1 {
		t.Fatalf("expected full verification drop, got %.2f", res.Event.Triggers.VerificationRateDrop)
	}
	if res.Event.Severity != SeverityMedium {
		t.Fatalf("a large verification drop lifts severity to medium, got %s", res.Event.Severity)
	}
}

func TestDetectSeverityLowOtherwise(t *testing.T) {
	d := newTestDetector()

	res := d.Detect(history(estimator.CategoryC, estimator.CategoryC, estimator.CategoryB), Context{})
	if res.Event == nil {
		t.Fatal("expected a confirmed transition")
	}
	if res.Event.Type != TypeImprovement {
		t.Fatalf("C→B moves up the scale, got %s", res.Event.Type)
	}
	if res.Event.Severity != SeverityLow {
		t.Fatalf("expected low, got %s", res.Event.Severity)
	}
}

func TestDetectLateralBetweenToolAndExploratory(t *testing.T) {
	d := newTestDetector()

	res := d.Detect(history(estimator.CategoryD, estimator.CategoryD, estimator.CategoryE), Context{})
	if res.Event == nil {
		t.Fatal("expected a confirmed transition")
	}
	if res.Event.Type != TypeLateral {
		t.Fatalf("D→E is a same-tier move, got %s", res.Event.Type)
	}
}

func TestDetectOscillationFlag(t *testing.T) {
	d := newTestDetector()

	res := d.Detect(history(
		estimator.CategoryA, estimator.CategoryD, estimator.CategoryA,
		estimator.CategoryD, estimator.CategoryA), Context{})
	if !res.Oscillating {
		t.Fatal("four flips in the window must flag oscillation")
	}
	if res.Event != nil {
		t.Fatal("oscillation alone must not confirm a transition")
	}
}

func TestTriggerFactorsFromContext(t *testing.T) {
	d := newTestDetector()

	low := signal.Vector{AIRelianceDegree: 1}
	high := signal.Vector{AIRelianceDegree: 3}
	ctx := Context{
		MessageCount:   12,
		TaskComplexity: 3,
		ElapsedMs:      2 * 60 * 60 * 1000,
		InterTurnMs:    5_000,
		Signals:        []signal.Vector{low, high},
	}

	res := d.Detect(history(estimator.CategoryB, estimator.CategoryB, estimator.CategoryC), ctx)
	if res.Event == nil {
		t.Fatal("expected a confirmed transition")
	}
	tr := res.Event.Triggers
	if !tr.TaskComplexityIncrease {
		t.Fatal("complexity 3 must flag a complexity increase")
	}
	if !tr.TimePressure {
		t.Fatal("a 5s inter-turn gap must flag time pressure")
	}
	if !tr.FatigueIndicator {
		t.Fatal("a two-hour session must flag fatigue")
	}
	if !tr.AIRelianceIncrease {
		t.Fatal("rising reliance across the window must be flagged")
	}
}

func TestTriggerFactorsQuietContext(t *testing.T) {
	d := newTestDetector()

	res := d.Detect(history(estimator.CategoryB, estimator.CategoryB, estimator.CategoryC), Context{
		TaskComplexity: 1,
		ElapsedMs:      60_000,
		InterTurnMs:    45_000,
	})
	if res.Event == nil {
		t.Fatal("expected a confirmed transition")
	}
	tr := res.Event.Triggers
	if tr.TaskComplexityIncrease || tr.TimePressure || tr.FatigueIndicator || tr.AIRelianceIncrease {
		t.Fatalf("quiet context must not raise triggers: %+v", tr)
	}
	if tr.VerificationRateDrop != 0 {
		t.Fatalf("no signals means no measurable drop, got %.2f", tr.VerificationRateDrop)
	}
}
