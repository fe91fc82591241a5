package session

// #region imports
import (
	"log"
	"sync"
	"time"

	"github.com/Winckwu/Interview-GenAI-sub003/internal/estimator"
	"github.com/Winckwu/Interview-GenAI-sub003/internal/fatigue"
	"github.com/Winckwu/Interview-GenAI-sub003/internal/fusion"
	"github.com/Winckwu/Interview-GenAI-sub003/internal/transition"
)

// #endregion

// #region fatigue-store

// FatigueStore persists intervention history and suppression timers across
// sessions for the same user. The SQLite store implements it.
type FatigueStore interface {
	SaveInterventionHistory(userKey string, typ fatigue.InterventionType, entry fatigue.Entry) error
	LoadInterventionHistory(userKey string) (fatigue.History, error)
	SaveSuppression(userKey string, typ fatigue.InterventionType, expiresAt time.Time, lastFatigue float64) error
	ClearSuppression(userKey string, typ fatigue.InterventionType) error
	LoadSuppressions(userKey string) (*fatigue.SuppressionState, error)
}

// #endregion fatigue-store

// #region deps

// Deps bundles the pipeline components a manager wires into each session.
// Secondary, Priors, Persist, and FatigueStore are optional; a nil value
// degrades that concern rather than failing turns.
type Deps struct {
	Estimator    *estimator.Estimator
	Detector     *transition.Detector
	Scheduler    *fatigue.Scheduler
	Fusion       fusion.Config
	Secondary    Secondary
	Priors       PriorSource
	Persist      Persister
	FatigueStore FatigueStore
	PriorTimeout time.Duration

	now func() time.Time
}

// DefaultPriorTimeout bounds the one historical-prior read per session.
const DefaultPriorTimeout = 2 * time.Second

// #endregion deps

// #region manager

// Manager hands out one Session per (user, session) key. Sessions are
// independent; only the session's own lock serializes its turns, so
// distinct sessions process concurrently.
type Manager struct {
	mu       sync.Mutex
	deps     Deps
	sessions map[string]*Session
}

// NewManager creates a manager around the given pipeline components.
func NewManager(deps Deps) *Manager {
	if deps.PriorTimeout <= 0 {
		deps.PriorTimeout = DefaultPriorTimeout
	}
	if deps.now == nil {
		deps.now = time.Now
	}
	return &Manager{
		deps:     deps,
		sessions: make(map[string]*Session),
	}
}

// NewManagerWithClock creates a manager with an injected clock for tests.
func NewManagerWithClock(deps Deps, now func() time.Time) *Manager {
	deps.now = now
	return NewManager(deps)
}

// #endregion manager

// #region session-lookup

// Session returns the session for (userID, sessionID), creating it on
// first use. Creation restores any persisted fatigue state for the user.
func (m *Manager) Session(userID, sessionID string) *Session {
	key := userID + "/" + sessionID

	m.mu.Lock()
	defer m.mu.Unlock()

	if s, ok := m.sessions[key]; ok {
		return s
	}

	s := newSession(userID, sessionID, &m.deps)
	if m.deps.FatigueStore != nil {
		if history, err := m.deps.FatigueStore.LoadInterventionHistory(userID); err != nil {
			log.Printf("[SESSION] fatigue history load failed, starting fresh: %v", err)
		} else if len(history) > 0 {
			s.history = history
		}
		if supp, err := m.deps.FatigueStore.LoadSuppressions(userID); err != nil {
			log.Printf("[SESSION] suppression load failed, starting fresh: %v", err)
		} else if supp != nil {
			s.suppression = supp
		}
	}
	m.sessions[key] = s
	return s
}

// End discards a session's in-memory state. Persisted rows remain in the
// external store.
func (m *Manager) End(userID, sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, userID+"/"+sessionID)
}

// #endregion session-lookup
