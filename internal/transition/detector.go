package transition

// #region imports
import (
	"time"

	"github.com/google/uuid"

	"github.com/Winckwu/Interview-GenAI-sub003/internal/estimator"
	"github.com/Winckwu/Interview-GenAI-sub003/internal/signal"
)

// #endregion

// #region config

// Config holds the detector's thresholds.
type Config struct {
	// VerificationDropThreshold is the verification-rate drop above which
	// a transition is at least medium severity.
	VerificationDropThreshold float64 `yaml:"verification_drop_threshold"`
	// TimePressureMs marks inter-turn intervals below this as time pressure.
	TimePressureMs int64 `yaml:"time_pressure_ms"`
	// FatigueSessionMs marks sessions older than this as fatigued.
	FatigueSessionMs int64 `yaml:"fatigue_session_ms"`
	// ComplexityThreshold marks task complexity at or above this as a
	// complexity increase.
	ComplexityThreshold int `yaml:"complexity_threshold"`
}

// DefaultConfig returns the baseline detection thresholds.
func DefaultConfig() Config {
	return Config{
		VerificationDropThreshold: 0.3,
		TimePressureMs:            30_000,
		FatigueSessionMs:          60 * 60 * 1000,
		ComplexityThreshold:       2,
	}
}

// MinHistory is the smallest estimate window a transition can be confirmed
// from. Below it the detector always reports insufficient history.
const MinHistory = 3

// #endregion config

// #region ranks

// categoryRank orders categories on the fixed behavioral scale, best to
// worst. D and E share a tier, so changes between them are lateral.
var categoryRank = map[estimator.Category]int{
	estimator.CategoryA: 5,
	estimator.CategoryB: 4,
	estimator.CategoryD: 3,
	estimator.CategoryE: 3,
	estimator.CategoryC: 2,
	estimator.CategoryF: 0,
}

// #endregion ranks

// #region detector

// Detector confirms sustained category transitions over the rolling
// estimate window. It emits events; whether the user is notified is the
// fatigue scheduler's decision, not the detector's.
type Detector struct {
	config Config
	now    func() time.Time
}

// NewDetector creates a detector with the given thresholds.
func NewDetector(config Config) *Detector {
	return &Detector{config: config, now: time.Now}
}

// NewDetectorWithClock creates a detector with an injected clock for tests.
func NewDetectorWithClock(config Config, now func() time.Time) *Detector {
	return &Detector{config: config, now: now}
}

// #endregion detector

// #region detect

// Detect inspects the rolling window (oldest first, newest estimate last)
// and confirms a transition only when the newest entry flips away from a
// category that held for at least the two preceding points. A single-step
// flip-and-return is oscillatory noise and confirms nothing.
func (d *Detector) Detect(history []estimator.PatternEstimate, ctx Context) Result {
	if len(history) > estimator.HistoryWindow {
		history = history[len(history)-estimator.HistoryWindow:]
	}
	n := len(history)
	if n < MinHistory {
		return Result{InsufficientHistory: true}
	}

	oscillating := changeCount(history) >= 3

	to := history[n-1].TopCategory
	from := history[n-2].TopCategory
	if to == from || history[n-3].TopCategory != from {
		// No fresh flip, or the prior category was not stable.
		return Result{Oscillating: oscillating}
	}

	triggers := d.triggerFactors(ctx)
	severity := d.severity(from, to, triggers.VerificationRateDrop)
	triggers.CriticalRegression = severity == SeverityCritical

	return Result{
		Event: &Event{
			ID:               uuid.New().String(),
			FromCategory:     from,
			ToCategory:       to,
			Type:             classify(from, to),
			Severity:         severity,
			Triggers:         triggers,
			TurnNumber:       ctx.MessageCount,
			SessionElapsedMs: ctx.ElapsedMs,
			CreatedAt:        d.now(),
		},
		Oscillating: oscillating,
	}
}

func changeCount(history []estimator.PatternEstimate) int {
	changes := 0
	for i := 1; i < len(history); i++ {
		if history[i].TopCategory != history[i-1].TopCategory {
			changes++
		}
	}
	return changes
}

// #endregion detect

// #region classify

// classify maps a confirmed change onto the ordinal scale.
func classify(from, to estimator.Category) Type {
	switch {
	case categoryRank[to] < categoryRank[from]:
		return TypeRegression
	case categoryRank[to] > categoryRank[from]:
		return TypeImprovement
	default:
		return TypeLateral
	}
}

// #endregion classify

// #region severity

func (d *Detector) severity(from, to estimator.Category, verificationDrop float64) Severity {
	switch {
	case from == estimator.CategoryA && to == estimator.CategoryF:
		return SeverityCritical
	case to == estimator.CategoryF:
		return SeverityHigh
	case from == estimator.CategoryA && (to == estimator.CategoryB || to == estimator.CategoryD):
		return SeverityMedium
	case verificationDrop > d.config.VerificationDropThreshold:
		return SeverityMedium
	default:
		return SeverityLow
	}
}

// #endregion severity

// #region trigger-factors

// triggerFactors derives the named trigger conditions from the turn
// context. CriticalRegression is filled in by the caller once severity is
// known.
func (d *Detector) triggerFactors(ctx Context) TriggerFactors {
	return TriggerFactors{
		VerificationRateDrop:   verificationDrop(ctx),
		TaskComplexityIncrease: ctx.TaskComplexity >= d.config.ComplexityThreshold,
		TimePressure:           ctx.InterTurnMs > 0 && ctx.InterTurnMs < d.config.TimePressureMs,
		FatigueIndicator:       ctx.ElapsedMs > d.config.FatigueSessionMs,
		AIRelianceIncrease:     relianceIncreasing(ctx),
	}
}

// verificationDrop compares the verification-attempt ratio of the newer
// half of the signal window against the older half, clamped to [0,1].
func verificationDrop(ctx Context) float64 {
	n := len(ctx.Signals)
	if n < 2 {
		return 0
	}
	mid := n / 2
	prior := verifyRatio(ctx.Signals[:mid])
	recent := verifyRatio(ctx.Signals[mid:])
	drop := prior - recent
	if drop < 0 {
		return 0
	}
	if drop > 1 {
		return 1
	}
	return drop
}

func verifyRatio(signals []signal.Vector) float64 {
	if len(signals) == 0 {
		return 0
	}
	attempted := 0
	for _, s := range signals {
		if s.VerificationAttempted {
			attempted++
		}
	}
	return float64(attempted) / float64(len(signals))
}

// relianceIncreasing reports whether the reliance signal trends upward
// across the window.
func relianceIncreasing(ctx Context) bool {
	n := len(ctx.Signals)
	if n < 2 {
		return false
	}
	return ctx.Signals[n-1].AIRelianceDegree > ctx.Signals[0].AIRelianceDegree
}

// #endregion trigger-factors
