package transition

// #region imports
import (
	"time"

	"github.com/Winckwu/Interview-GenAI-sub003/internal/estimator"
	"github.com/Winckwu/Interview-GenAI-sub003/internal/signal"
)

// #endregion

// #region transition-type

// Type classifies a confirmed category change on the fixed ordinal scale.
type Type string

const (
	TypeImprovement Type = "improvement"
	TypeRegression  Type = "regression"
	TypeLateral     Type = "lateral"
	// TypeOscillation is analytics-only: repeated back-and-forth that never
	// confirms a stable transition. Never attached to a confirmed event.
	TypeOscillation Type = "oscillation"
)

// #endregion transition-type

// #region severity

// Severity ranks how concerning a confirmed transition is.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// #endregion severity

// #region trigger-factors

// TriggerFactors names the conditions inferred to have contributed to a
// transition. Computed independently of severity.
type TriggerFactors struct {
	VerificationRateDrop   float64 `json:"verification_rate_drop"`
	TaskComplexityIncrease bool    `json:"task_complexity_increase"`
	TimePressure           bool    `json:"time_pressure"`
	FatigueIndicator       bool    `json:"fatigue_indicator"`
	AIRelianceIncrease     bool    `json:"ai_reliance_increase"`
	CriticalRegression     bool    `json:"critical_regression"`
}

// #endregion trigger-factors

// #region event

// Event is a confirmed, sustained category transition. Immutable once
// emitted; appended to the external detection log.
type Event struct {
	ID               string
	FromCategory     estimator.Category
	ToCategory       estimator.Category
	Type             Type
	Severity         Severity
	Triggers         TriggerFactors
	TurnNumber       int
	SessionElapsedMs int64
	CreatedAt        time.Time
}

// #endregion event

// #region context

// Context carries per-turn conversational context into detection. Signals
// holds the recent signal vectors aligned with the estimate window, oldest
// first, and is what the trigger-factor heuristics read.
type Context struct {
	MessageCount   int
	TaskComplexity int
	ElapsedMs      int64
	InterTurnMs    int64
	Signals        []signal.Vector
}

// #endregion context

// #region result

// Result is the outcome of one detection pass. Event is nil unless a
// sustained transition was confirmed. InsufficientHistory reports fewer
// than MinHistory points; it is a documented condition, not an error.
type Result struct {
	Event               *Event
	Oscillating         bool
	InsufficientHistory bool
}

// #endregion result
