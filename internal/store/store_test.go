package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/Winckwu/Interview-GenAI-sub003/internal/estimator"
	"github.com/Winckwu/Interview-GenAI-sub003/internal/fatigue"
	"github.com/Winckwu/Interview-GenAI-sub003/internal/stability"
)

var testNow = time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := NewStore(filepath.Join(t.TempDir(), "patterns.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return st
}

func detection(id string, cat estimator.Category, conf float64, at time.Time) Detection {
	return Detection{
		ID:         id,
		UserID:     "u1",
		SessionID:  "s1",
		TurnNumber: 1,
		Category:   cat,
		Confidence: conf,
		Probabilities: map[estimator.Category]float64{
			cat: conf,
		},
		CreatedAt: at,
	}
}

func TestHistoricalPriorWeightsByConfidenceAndRecency(t *testing.T) {
	st := newTestStore(t)

	if err := st.RecordDetection(detection("d1", estimator.CategoryA, 0.9, testNow.Add(-time.Hour))); err != nil {
		t.Fatalf("record: %v", err)
	}
	if err := st.RecordDetection(detection("d2", estimator.CategoryA, 0.9, testNow.Add(-2*time.Hour))); err != nil {
		t.Fatalf("record: %v", err)
	}
	if err := st.RecordDetection(detection("d3", estimator.CategoryF, 0.2, testNow.Add(-time.Hour))); err != nil {
		t.Fatalf("record: %v", err)
	}

	prior, err := st.HistoricalPrior("u1", testNow)
	if err != nil {
		t.Fatalf("prior: %v", err)
	}
	if prior == nil {
		t.Fatal("expected a prior")
	}
	if prior[estimator.CategoryA] <= prior[estimator.CategoryF] {
		t.Fatalf("confident A detections must outweigh one weak F: A=%.3f F=%.3f",
			prior[estimator.CategoryA], prior[estimator.CategoryF])
	}
}

func TestHistoricalPriorIgnoresOldAndForeignRows(t *testing.T) {
	st := newTestStore(t)

	stale := detection("d1", estimator.CategoryF, 0.9, testNow.Add(-PriorWindow-time.Hour))
	if err := st.RecordDetection(stale); err != nil {
		t.Fatalf("record: %v", err)
	}
	other := detection("d2", estimator.CategoryF, 0.9, testNow.Add(-time.Hour))
	other.UserID = "u2"
	if err := st.RecordDetection(other); err != nil {
		t.Fatalf("record: %v", err)
	}

	prior, err := st.HistoricalPrior("u1", testNow)
	if err != nil {
		t.Fatalf("prior: %v", err)
	}
	if prior != nil {
		t.Fatalf("stale and foreign rows must not build a prior, got %v", prior)
	}
}

func TestTransitionQueries(t *testing.T) {
	st := newTestStore(t)

	rec := TransitionRecord{
		ID:           "t1",
		UserID:       "u1",
		SessionID:    "s1",
		TurnNumber:   4,
		FromCategory: estimator.CategoryA,
		ToCategory:   estimator.CategoryF,
		Type:         "regression",
		Severity:     "critical",
		TriggersJSON: `{"critical_regression":true}`,
		CreatedAt:    testNow,
	}
	if err := st.RecordTransition(rec); err != nil {
		t.Fatalf("record: %v", err)
	}
	later := rec
	later.ID = "t2"
	later.Severity = "low"
	later.TriggersJSON = ""
	later.CreatedAt = testNow.Add(time.Minute)
	if err := st.RecordTransition(later); err != nil {
		t.Fatalf("record: %v", err)
	}

	bySev, err := st.TransitionsBySeverity("u1", "critical", 10)
	if err != nil {
		t.Fatalf("by severity: %v", err)
	}
	if len(bySev) != 1 || bySev[0].ID != "t1" {
		t.Fatalf("expected only t1 at critical, got %+v", bySev)
	}
	if bySev[0].FromCategory != estimator.CategoryA || bySev[0].ToCategory != estimator.CategoryF {
		t.Fatalf("categories must round-trip: %+v", bySev[0])
	}
	if bySev[0].TriggersJSON == "" {
		t.Fatal("triggers json must round-trip")
	}

	bySess, err := st.TransitionsBySession("u1", "s1", 10)
	if err != nil {
		t.Fatalf("by session: %v", err)
	}
	if len(bySess) != 2 || bySess[0].ID != "t2" {
		t.Fatalf("expected newest first, got %+v", bySess)
	}
	if bySess[0].TriggersJSON != "" {
		t.Fatal("empty triggers must load back empty")
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	st := newTestStore(t)

	snap := StabilitySnapshot{
		UserID:       "u1",
		SessionID:    "s1",
		TurnNumber:   5,
		Stability:    0.85,
		StreakLength: 3,
		Trend:        stability.TrendConverging,
		CreatedAt:    testNow,
	}
	if err := st.RecordStabilitySnapshot(snap); err != nil {
		t.Fatalf("record: %v", err)
	}

	got, err := st.SnapshotsBySession("u1", "s1", 10)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 snapshot, got %d", len(got))
	}
	if got[0].Trend != stability.TrendConverging || got[0].StreakLength != 3 {
		t.Fatalf("snapshot must round-trip: %+v", got[0])
	}
}

func TestInterventionHistoryUpsert(t *testing.T) {
	st := newTestStore(t)
	typ := fatigue.InterventionVerificationReminder

	first := fatigue.Entry{DismissalCount: 1, LastDismissalAt: testNow, CumulativeExposureMs: 4000}
	if err := st.SaveInterventionHistory("u1", typ, first); err != nil {
		t.Fatalf("save: %v", err)
	}
	second := fatigue.Entry{DismissalCount: 2, LastDismissalAt: testNow.Add(time.Minute), UserActedOnCount: 1, CumulativeExposureMs: 9000}
	if err := st.SaveInterventionHistory("u1", typ, second); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	history, err := st.LoadInterventionHistory("u1")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	entry := history[typ]
	if entry == nil {
		t.Fatal("expected the entry back")
	}
	if entry.DismissalCount != 2 || entry.UserActedOnCount != 1 || entry.CumulativeExposureMs != 9000 {
		t.Fatalf("upsert must replace counters: %+v", entry)
	}
	if !entry.LastDismissalAt.Equal(testNow.Add(time.Minute)) {
		t.Fatalf("dismissal time must round-trip, got %s", entry.LastDismissalAt)
	}
}

func TestSuppressionLifecycle(t *testing.T) {
	st := newTestStore(t)
	typ := fatigue.InterventionOverrelianceWarning
	expires := testNow.Add(30 * time.Minute)

	if err := st.SaveSuppression("u1", typ, expires, 72.5); err != nil {
		t.Fatalf("save: %v", err)
	}

	state, err := st.LoadSuppressions("u1")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	got, ok := state.ExpiresAt[typ]
	if !ok || !got.Equal(expires) {
		t.Fatalf("expected expiry %s back, got %s (ok=%t)", expires, got, ok)
	}
	if state.LastFatigueScore != 72.5 {
		t.Fatalf("fatigue score must round-trip, got %.1f", state.LastFatigueScore)
	}

	if err := st.ClearSuppression("u1", typ); err != nil {
		t.Fatalf("clear: %v", err)
	}
	state, err = st.LoadSuppressions("u1")
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if _, ok := state.ExpiresAt[typ]; ok {
		t.Fatal("cleared suppression must not load back")
	}
}
