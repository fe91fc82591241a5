package fatigue

// #region imports
import "time"

// #endregion

// #region intervention-type

// InterventionType identifies a class of corrective notification.
type InterventionType string

const (
	InterventionVerificationReminder InterventionType = "verification_reminder"
	InterventionOverrelianceWarning  InterventionType = "overreliance_warning"
	InterventionReflectionPrompt     InterventionType = "reflection_prompt"
	InterventionCriticalRegression   InterventionType = "critical_regression"
)

// #endregion intervention-type

// #region tier

// Tier is the urgency class of an intervention.
type Tier string

const (
	TierHard     Tier = "hard"     // blocking, requires authorization to dismiss
	TierMedium   Tier = "medium"
	TierSoft     Tier = "soft"
	TierSuppress Tier = "suppress" // not shown
)

// #endregion tier

// #region action

// Action is a user response to a displayed intervention.
type Action string

const (
	ActionDismiss  Action = "dismiss"
	ActionActed    Action = "acted"
	ActionOverride Action = "override"
)

// #endregion action

// #region history

// Entry tracks per-(session, intervention type) interaction history.
// LastDismissalAt is the zero time when no dismissal has happened yet.
type Entry struct {
	DismissalCount       int
	LastDismissalAt      time.Time
	UserActedOnCount     int
	CumulativeExposureMs int64
}

// History maps each tracked intervention type to its entry.
type History map[InterventionType]*Entry

// #endregion history

// #region suppression-state

// SuppressionState tracks per-type suppression timers. Expiry is lazy: an
// entry whose timestamp has passed is treated as absent on every read, no
// background sweep.
type SuppressionState struct {
	ExpiresAt        map[InterventionType]time.Time
	LastFatigueScore float64
}

// NewSuppressionState returns an empty suppression map.
func NewSuppressionState() *SuppressionState {
	return &SuppressionState{ExpiresAt: make(map[InterventionType]time.Time)}
}

// ActiveFor reports whether typ is suppressed at the given instant.
func (s *SuppressionState) ActiveFor(typ InterventionType, now time.Time) bool {
	exp, ok := s.ExpiresAt[typ]
	return ok && exp.After(now)
}

// #endregion suppression-state

// #region decision

// Decision is the scheduling outcome handed to the presentation layer.
type Decision struct {
	ShouldDisplay         bool
	Tier                  Tier
	RequiresAuthorization bool
}

// #endregion decision

// #region action-result

// ActionResult reports the outcome of recording a user action.
// FatigueAlert is a user-facing message, empty unless the dismissal
// threshold was crossed.
type ActionResult struct {
	FatigueScore    float64
	SuppressedUntil time.Time // zero when no suppression was set
	FatigueAlert    string
}

// #endregion action-result

// #region summary

// SummaryEntry is one active suppression reported to dashboards.
type SummaryEntry struct {
	Type             InterventionType
	MinutesRemaining float64
}

// Summary is the dashboard view of active suppressions. Expired entries
// are never reported.
type Summary struct {
	ActiveSuppressions int
	Entries            []SummaryEntry
}

// #endregion summary
