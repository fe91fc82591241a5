package session

// #region imports
import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Winckwu/Interview-GenAI-sub003/internal/estimator"
	"github.com/Winckwu/Interview-GenAI-sub003/internal/fatigue"
	"github.com/Winckwu/Interview-GenAI-sub003/internal/fusion"
	"github.com/Winckwu/Interview-GenAI-sub003/internal/signal"
	"github.com/Winckwu/Interview-GenAI-sub003/internal/stability"
	"github.com/Winckwu/Interview-GenAI-sub003/internal/store"
	"github.com/Winckwu/Interview-GenAI-sub003/internal/transition"
)

// #endregion

// #region session

// Session owns one (user, session) pair's rolling state. A single mutex
// serializes turns so updates apply in arrival order; out-of-order
// application would corrupt the sliding window and the fatigue counters.
type Session struct {
	UserID    string
	SessionID string

	mu          sync.Mutex
	deps        *Deps
	state       estimator.SessionState
	signals     []signal.Vector
	history     fatigue.History
	suppression *fatigue.SuppressionState
	startedAt   time.Time
	lastTurnAt  time.Time
	priorLoaded bool
}

func newSession(userID, sessionID string, deps *Deps) *Session {
	now := deps.now()
	return &Session{
		UserID:    userID,
		SessionID: sessionID,
		deps:      deps,
		state: estimator.SessionState{
			UserID:    userID,
			SessionID: sessionID,
		},
		history:     make(fatigue.History),
		suppression: fatigue.NewSuppressionState(),
		startedAt:   now,
	}
}

// #endregion session

// #region process-turn

// ProcessTurn runs one signal vector through the full pipeline: estimate,
// stability, transition detection, optional ensemble fusion, and the
// scheduling decision for any intervention the turn raises. Persistence is
// asynchronous and never blocks or fails the decision.
func (s *Session) ProcessTurn(ctx context.Context, v signal.Vector) TurnResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	v = signal.Clamp(v)
	now := s.deps.now()

	if !s.priorLoaded {
		s.loadPrior(ctx)
		s.priorLoaded = true
	}

	primary := s.deps.Estimator.Estimate(v, &s.state)

	s.signals = append(s.signals, v)
	if len(s.signals) > estimator.HistoryWindow {
		s.signals = s.signals[len(s.signals)-estimator.HistoryWindow:]
	}

	metrics, metricsOK := stability.Calculate(s.state.History)

	interTurn := int64(0)
	if !s.lastTurnAt.IsZero() {
		interTurn = now.Sub(s.lastTurnAt).Milliseconds()
	}
	s.lastTurnAt = now

	det := s.deps.Detector.Detect(s.state.History, transition.Context{
		MessageCount:   s.state.TurnCount,
		TaskComplexity: v.TaskComplexity,
		ElapsedMs:      now.Sub(s.startedAt).Milliseconds(),
		InterTurnMs:    interTurn,
		Signals:        s.signals,
	})

	fused := primary
	if s.deps.Secondary != nil {
		if sec, err := s.deps.Secondary.Classify(ctx, v); err != nil {
			log.Printf("[SESSION] secondary classifier unavailable, using primary: %v", err)
		} else {
			fused = fusion.Fuse(s.deps.Fusion, primary, &sec, metrics, metricsOK)
		}
	}

	result := TurnResult{
		Estimate:    fused,
		Primary:     primary,
		Stability:   metrics,
		StabilityOK: metricsOK,
		Transition:  det.Event,
		Oscillating: det.Oscillating,
	}

	if det.Event != nil {
		typ, tier := interventionFor(det.Event)
		decision := s.deps.Scheduler.Schedule(typ, fused.Confidence, tier, s.history, s.suppression)
		result.Decision = &decision
		result.Intervention = typ
	}

	s.persistTurn(fused, metrics, metricsOK, det.Event, now)
	return result
}

// loadPrior reads the user's historical prior once, with a timeout,
// falling back to the cold-start default on any failure.
func (s *Session) loadPrior(ctx context.Context) {
	if s.deps.Priors == nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, s.deps.PriorTimeout)
	defer cancel()

	type priorResult struct {
		raw map[estimator.Category]float64
		err error
	}
	ch := make(chan priorResult, 1)
	go func() {
		raw, err := s.deps.Priors.HistoricalPrior(s.UserID, s.deps.now())
		ch <- priorResult{raw: raw, err: err}
	}()

	select {
	case res := <-ch:
		if res.err != nil {
			log.Printf("[SESSION] prior read failed, using default: %v", res.err)
			return
		}
		s.state.Prior = s.deps.Estimator.BlendPrior(res.raw)
	case <-ctx.Done():
		log.Printf("[SESSION] prior read timed out, using default")
	}
}

// #endregion process-turn

// #region intervention-mapping

// interventionFor maps a confirmed transition onto the intervention type
// and declared tier the scheduler evaluates.
func interventionFor(ev *transition.Event) (fatigue.InterventionType, fatigue.Tier) {
	switch ev.Severity {
	case transition.SeverityCritical:
		return fatigue.InterventionCriticalRegression, fatigue.TierHard
	case transition.SeverityHigh:
		return fatigue.InterventionOverrelianceWarning, fatigue.TierMedium
	case transition.SeverityMedium:
		return fatigue.InterventionVerificationReminder, fatigue.TierMedium
	default:
		return fatigue.InterventionReflectionPrompt, fatigue.TierSoft
	}
}

// #endregion intervention-mapping

// #region schedule-and-record

// Schedule answers whether an explicit intervention request may display
// now, using this session's fatigue state.
func (s *Session) Schedule(typ fatigue.InterventionType, confidence float64, declared fatigue.Tier) fatigue.Decision {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.deps.Scheduler.Schedule(typ, confidence, declared, s.history, s.suppression)
}

// RecordAction applies a user response to an intervention and persists the
// updated fatigue state.
func (s *Session) RecordAction(typ fatigue.InterventionType, action fatigue.Action, exposureMs int64) fatigue.ActionResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	res := s.deps.Scheduler.RecordAction(typ, action, exposureMs, s.history, s.suppression)
	s.persistFatigue(typ)
	return res
}

// OverallFatigue reports the cross-type fatigue average for this session.
func (s *Session) OverallFatigue() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.deps.Scheduler.OverallFatigue(s.history)
}

// SuppressionSummary reports this session's active suppressions.
func (s *Session) SuppressionSummary() fatigue.Summary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.deps.Scheduler.SuppressionSummary(s.suppression)
}

// #endregion schedule-and-record

// #region persistence

// persistTurn writes the turn's detection, snapshot, and any transition in
// the background. Write failures are logged and dropped.
func (s *Session) persistTurn(est estimator.PatternEstimate, metrics stability.Metrics, metricsOK bool, ev *transition.Event, now time.Time) {
	if s.deps.Persist == nil {
		return
	}
	turn := s.state.TurnCount
	userID, sessionID := s.UserID, s.SessionID
	persist := s.deps.Persist

	go func() {
		err := persist.RecordDetection(store.Detection{
			ID:            uuid.New().String(),
			UserID:        userID,
			SessionID:     sessionID,
			TurnNumber:    turn,
			Category:      est.TopCategory,
			Confidence:    est.Confidence,
			Probabilities: est.Probabilities,
			CreatedAt:     now,
		})
		if err != nil {
			log.Printf("[SESSION] detection write dropped: %v", err)
		}

		if metricsOK {
			err := persist.RecordStabilitySnapshot(store.StabilitySnapshot{
				UserID:       userID,
				SessionID:    sessionID,
				TurnNumber:   turn,
				Stability:    metrics.Stability,
				StreakLength: metrics.StreakLength,
				Trend:        metrics.Trend,
				CreatedAt:    now,
			})
			if err != nil {
				log.Printf("[SESSION] snapshot write dropped: %v", err)
			}
		}

		if ev != nil {
			triggersJSON, _ := json.Marshal(ev.Triggers)
			err := persist.RecordTransition(store.TransitionRecord{
				ID:               ev.ID,
				UserID:           userID,
				SessionID:        sessionID,
				TurnNumber:       ev.TurnNumber,
				FromCategory:     ev.FromCategory,
				ToCategory:       ev.ToCategory,
				Type:             string(ev.Type),
				Severity:         string(ev.Severity),
				TriggersJSON:     string(triggersJSON),
				SessionElapsedMs: ev.SessionElapsedMs,
				CreatedAt:        ev.CreatedAt,
			})
			if err != nil {
				log.Printf("[SESSION] transition write dropped: %v", err)
			}
		}
	}()
}

// persistFatigue saves one type's intervention history and suppression
// timer in the background.
func (s *Session) persistFatigue(typ fatigue.InterventionType) {
	if s.deps.FatigueStore == nil {
		return
	}
	var entry fatigue.Entry
	if e, ok := s.history[typ]; ok && e != nil {
		entry = *e
	}
	expiry, suppressed := s.suppression.ExpiresAt[typ]
	lastFatigue := s.suppression.LastFatigueScore
	userKey := s.UserID
	fatigueStore := s.deps.FatigueStore

	go func() {
		if err := fatigueStore.SaveInterventionHistory(userKey, typ, entry); err != nil {
			log.Printf("[SESSION] intervention history write dropped: %v", err)
		}
		if suppressed {
			if err := fatigueStore.SaveSuppression(userKey, typ, expiry, lastFatigue); err != nil {
				log.Printf("[SESSION] suppression write dropped: %v", err)
			}
		} else {
			if err := fatigueStore.ClearSuppression(userKey, typ); err != nil {
				log.Printf("[SESSION] suppression clear dropped: %v", err)
			}
		}
	}()
}

// #endregion persistence
