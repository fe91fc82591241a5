package fatigue

// #region imports
import (
	"fmt"
	"sort"
	"time"
)

// #endregion

// #region config

// Config holds every fatigue and scheduling threshold. Defaults are a
// tuned starting point, not calibrated law; keep overrides monotone (more
// dismissals must never score lower).
type Config struct {
	// Base points per dismissal count: 1 → BaseFirst, 2 → BaseSecond,
	// 3+ → BaseThird plus BaseStep per extra dismissal.
	BaseFirst  float64 `yaml:"base_first"`
	BaseSecond float64 `yaml:"base_second"`
	BaseThird  float64 `yaml:"base_third"`
	BaseStep   float64 `yaml:"base_step"`

	// Zero-engagement penalties: a user who dismisses and never acts.
	ZeroEngagementBonus  float64 `yaml:"zero_engagement_bonus"`  // at 2+ dismissals
	SingleDismissPenalty float64 `yaml:"single_dismiss_penalty"` // at exactly 1

	// Exposure contribution: ExposureCapPoints at most, one point per
	// ExposureMinutesPerPoint minutes of cumulative exposure.
	ExposureCapPoints       float64 `yaml:"exposure_cap_points"`
	ExposureMinutesPerPoint float64 `yaml:"exposure_minutes_per_point"`

	// Time decay relative to the last dismissal.
	DecayPartialAfter time.Duration `yaml:"decay_partial_after"`
	DecayFullAfter    time.Duration `yaml:"decay_full_after"`
	DecayPartial      float64       `yaml:"decay_partial"`
	DecayFull         float64       `yaml:"decay_full"`

	// Suppression thresholds and durations.
	SuppressDismissals     int           `yaml:"suppress_dismissals"`      // dismissal count for the long window
	SuppressFatigueFloor   float64       `yaml:"suppress_fatigue_floor"`   // fatigue needed alongside the count
	SevereFatigueThreshold float64       `yaml:"severe_fatigue_threshold"` // fatigue that suppresses on its own
	SuppressLong           time.Duration `yaml:"suppress_long"`
	SuppressSevere         time.Duration `yaml:"suppress_severe"`
	SuppressMedium         time.Duration `yaml:"suppress_medium"`
	SuppressShort          time.Duration `yaml:"suppress_short"`

	// Confidence bands per declared tier. Hard requests below HardMin are
	// suppressed outright, never downgraded.
	HardMin   float64 `yaml:"hard_min"`
	MediumMin float64 `yaml:"medium_min"`
	MediumMax float64 `yaml:"medium_max"`
	SoftMin   float64 `yaml:"soft_min"`
	SoftMax   float64 `yaml:"soft_max"`
}

// DefaultConfig returns the baseline fatigue thresholds.
func DefaultConfig() Config {
	return Config{
		BaseFirst:  10,
		BaseSecond: 20,
		BaseThird:  40,
		BaseStep:   15,

		ZeroEngagementBonus:  30,
		SingleDismissPenalty: 5,

		ExposureCapPoints:       15,
		ExposureMinutesPerPoint: 10,

		DecayPartialAfter: 15 * time.Minute,
		DecayFullAfter:    30 * time.Minute,
		DecayPartial:      0.8,
		DecayFull:         0.5,

		SuppressDismissals:     3,
		SuppressFatigueFloor:   40,
		SevereFatigueThreshold: 70,
		SuppressLong:           30 * time.Minute,
		SuppressSevere:         15 * time.Minute,
		SuppressMedium:         10 * time.Minute,
		SuppressShort:          5 * time.Minute,

		HardMin:   0.85,
		MediumMin: 0.6,
		MediumMax: 0.75,
		SoftMin:   0.4,
		SoftMax:   0.6,
	}
}

// #endregion config

// #region scheduler

// Scheduler answers whether an intervention may be shown now, at what tier,
// and how user responses feed back into the fatigue budget. All state it
// mutates (History, SuppressionState) is owned by the calling session.
type Scheduler struct {
	config Config
	now    func() time.Time
}

// NewScheduler creates a scheduler with the given thresholds.
func NewScheduler(config Config) *Scheduler {
	return &Scheduler{config: config, now: time.Now}
}

// NewSchedulerWithClock creates a scheduler with an injected clock for tests.
func NewSchedulerWithClock(config Config, now func() time.Time) *Scheduler {
	return &Scheduler{config: config, now: now}
}

// #endregion scheduler

// #region fatigue-score

// FatigueScore computes the 0-100 fatigue score for one intervention type.
// No history for the type means zero fatigue.
func (s *Scheduler) FatigueScore(typ InterventionType, history History) float64 {
	entry, ok := history[typ]
	if !ok || entry == nil {
		return 0
	}

	var score float64
	switch {
	case entry.DismissalCount <= 0:
		score = 0
	case entry.DismissalCount == 1:
		score = s.config.BaseFirst
	case entry.DismissalCount == 2:
		score = s.config.BaseSecond
	default:
		score = s.config.BaseThird + float64(entry.DismissalCount-3)*s.config.BaseStep
	}

	if entry.UserActedOnCount == 0 {
		switch {
		case entry.DismissalCount >= 2:
			score += s.config.ZeroEngagementBonus
		case entry.DismissalCount == 1:
			score += s.config.SingleDismissPenalty
		}
	}

	exposurePoints := float64(entry.CumulativeExposureMs) / 60_000 / s.config.ExposureMinutesPerPoint
	if exposurePoints > s.config.ExposureCapPoints {
		exposurePoints = s.config.ExposureCapPoints
	}
	score += exposurePoints

	if !entry.LastDismissalAt.IsZero() {
		age := s.now().Sub(entry.LastDismissalAt)
		switch {
		case age >= s.config.DecayFullAfter:
			score *= s.config.DecayFull
		case age >= s.config.DecayPartialAfter:
			score *= s.config.DecayPartial
		}
	}

	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// #endregion fatigue-score

// #region should-suppress

// ShouldSuppress decides whether typ must be withheld. A live suppression
// timer always wins; an expired one is ignored and the fatigue conditions
// are evaluated instead.
func (s *Scheduler) ShouldSuppress(fatigue float64, dismissalCount int, expiresAt time.Time) bool {
	if !expiresAt.IsZero() {
		if expiresAt.After(s.now()) {
			return true
		}
		// Expired timer: treat as no active suppression.
	}
	if dismissalCount >= s.config.SuppressDismissals && fatigue >= s.config.SuppressFatigueFloor {
		return true
	}
	if fatigue > s.config.SevereFatigueThreshold {
		return true
	}
	return false
}

// #endregion should-suppress

// #region suppression-expiry

// SuppressionDuration returns how long similar notifications stay
// suppressed after a decision. Zero means no cool-down is warranted.
func (s *Scheduler) SuppressionDuration(fatigue float64, dismissalCount int) time.Duration {
	switch {
	case dismissalCount >= s.config.SuppressDismissals:
		return s.config.SuppressLong
	case fatigue > s.config.SevereFatigueThreshold:
		return s.config.SuppressSevere
	case dismissalCount == 2:
		return s.config.SuppressMedium
	case dismissalCount == 1:
		return s.config.SuppressShort
	default:
		return 0
	}
}

// #endregion suppression-expiry

// #region schedule

// Schedule decides whether an intervention may be displayed right now. The
// confidence bands are authoritative over the caller's declared tier: a
// hard request below the hard floor is suppressed, never shown at reduced
// urgency.
func (s *Scheduler) Schedule(typ InterventionType, confidence float64, declared Tier, history History, supp *SuppressionState) Decision {
	suppress := Decision{ShouldDisplay: false, Tier: TierSuppress}

	fatigue := s.FatigueScore(typ, history)
	supp.LastFatigueScore = fatigue

	var entry Entry
	if e, ok := history[typ]; ok && e != nil {
		entry = *e
	}
	if s.ShouldSuppress(fatigue, entry.DismissalCount, supp.ExpiresAt[typ]) {
		return suppress
	}

	if confidence < s.config.SoftMin {
		return suppress
	}

	switch declared {
	case TierHard:
		if confidence >= s.config.HardMin {
			return Decision{ShouldDisplay: true, Tier: TierHard, RequiresAuthorization: true}
		}
	case TierMedium:
		if confidence >= s.config.MediumMin && confidence < s.config.MediumMax {
			return Decision{ShouldDisplay: true, Tier: TierMedium}
		}
	case TierSoft:
		if confidence >= s.config.SoftMin && confidence < s.config.SoftMax {
			return Decision{ShouldDisplay: true, Tier: TierSoft}
		}
	}
	return suppress
}

// #endregion schedule

// #region record-action

// RecordAction applies a user response to the intervention history and
// suppression state. Dismissals raise fatigue and may set a suppression
// timer plus a user-facing alert; acting on guidance clears the fatigue
// counters and any timer; an override counts as engagement only.
// exposureMs is how long the intervention was on screen.
func (s *Scheduler) RecordAction(typ InterventionType, action Action, exposureMs int64, history History, supp *SuppressionState) ActionResult {
	entry, ok := history[typ]
	if !ok || entry == nil {
		entry = &Entry{}
		history[typ] = entry
	}
	if exposureMs > 0 {
		entry.CumulativeExposureMs += exposureMs
	}

	now := s.now()
	var res ActionResult

	switch action {
	case ActionDismiss:
		entry.DismissalCount++
		entry.LastDismissalAt = now
		res.FatigueScore = s.FatigueScore(typ, history)
		supp.LastFatigueScore = res.FatigueScore

		if d := s.SuppressionDuration(res.FatigueScore, entry.DismissalCount); d > 0 {
			until := now.Add(d)
			supp.ExpiresAt[typ] = until
			res.SuppressedUntil = until
			if entry.DismissalCount >= s.config.SuppressDismissals {
				res.FatigueAlert = fmt.Sprintf(
					"You've dismissed this guidance %d times. Similar reminders are paused for %d minutes.",
					entry.DismissalCount, int(d.Minutes()))
			}
		}

	case ActionActed:
		entry.UserActedOnCount++
		entry.DismissalCount = 0
		delete(supp.ExpiresAt, typ)
		res.FatigueScore = s.FatigueScore(typ, history)
		supp.LastFatigueScore = res.FatigueScore

	case ActionOverride:
		entry.UserActedOnCount++
		res.FatigueScore = s.FatigueScore(typ, history)
		supp.LastFatigueScore = res.FatigueScore
	}

	return res
}

// #endregion record-action

// #region overall-fatigue

// OverallFatigue is the arithmetic mean of every tracked type's fatigue
// score; zero for empty history.
func (s *Scheduler) OverallFatigue(history History) float64 {
	if len(history) == 0 {
		return 0
	}
	var sum float64
	for typ := range history {
		sum += s.FatigueScore(typ, history)
	}
	return sum / float64(len(history))
}

// #endregion overall-fatigue

// #region summary

// SuppressionSummary reports genuinely active suppressions for dashboards,
// sorted by type for stable output. Expired timers are excluded.
func (s *Scheduler) SuppressionSummary(supp *SuppressionState) Summary {
	now := s.now()
	var entries []SummaryEntry
	for typ, exp := range supp.ExpiresAt {
		if !exp.After(now) {
			continue
		}
		entries = append(entries, SummaryEntry{
			Type:             typ,
			MinutesRemaining: exp.Sub(now).Minutes(),
		})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Type < entries[j].Type })
	return Summary{ActiveSuppressions: len(entries), Entries: entries}
}

// #endregion summary
