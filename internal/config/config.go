package config

// #region imports
import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Winckwu/Interview-GenAI-sub003/internal/estimator"
	"github.com/Winckwu/Interview-GenAI-sub003/internal/fatigue"
	"github.com/Winckwu/Interview-GenAI-sub003/internal/fusion"
	"github.com/Winckwu/Interview-GenAI-sub003/internal/transition"
)

// #endregion

// #region fatigue-profile

// FatigueProfile is the yaml shape of the fatigue thresholds. Durations are
// expressed in minutes so profiles stay plain numbers.
type FatigueProfile struct {
	BaseFirst  float64 `yaml:"base_first"`
	BaseSecond float64 `yaml:"base_second"`
	BaseThird  float64 `yaml:"base_third"`
	BaseStep   float64 `yaml:"base_step"`

	ZeroEngagementBonus  float64 `yaml:"zero_engagement_bonus"`
	SingleDismissPenalty float64 `yaml:"single_dismiss_penalty"`

	ExposureCapPoints       float64 `yaml:"exposure_cap_points"`
	ExposureMinutesPerPoint float64 `yaml:"exposure_minutes_per_point"`

	DecayPartialAfterMin int     `yaml:"decay_partial_after_min"`
	DecayFullAfterMin    int     `yaml:"decay_full_after_min"`
	DecayPartial         float64 `yaml:"decay_partial"`
	DecayFull            float64 `yaml:"decay_full"`

	SuppressDismissals     int     `yaml:"suppress_dismissals"`
	SuppressFatigueFloor   float64 `yaml:"suppress_fatigue_floor"`
	SevereFatigueThreshold float64 `yaml:"severe_fatigue_threshold"`
	SuppressLongMin        int     `yaml:"suppress_long_min"`
	SuppressSevereMin      int     `yaml:"suppress_severe_min"`
	SuppressMediumMin      int     `yaml:"suppress_medium_min"`
	SuppressShortMin       int     `yaml:"suppress_short_min"`

	HardMin   float64 `yaml:"hard_min"`
	MediumMin float64 `yaml:"medium_min"`
	MediumMax float64 `yaml:"medium_max"`
	SoftMin   float64 `yaml:"soft_min"`
	SoftMax   float64 `yaml:"soft_max"`
}

func fatigueProfileFrom(c fatigue.Config) FatigueProfile {
	return FatigueProfile{
		BaseFirst:  c.BaseFirst,
		BaseSecond: c.BaseSecond,
		BaseThird:  c.BaseThird,
		BaseStep:   c.BaseStep,

		ZeroEngagementBonus:  c.ZeroEngagementBonus,
		SingleDismissPenalty: c.SingleDismissPenalty,

		ExposureCapPoints:       c.ExposureCapPoints,
		ExposureMinutesPerPoint: c.ExposureMinutesPerPoint,

		DecayPartialAfterMin: int(c.DecayPartialAfter.Minutes()),
		DecayFullAfterMin:    int(c.DecayFullAfter.Minutes()),
		DecayPartial:         c.DecayPartial,
		DecayFull:            c.DecayFull,

		SuppressDismissals:     c.SuppressDismissals,
		SuppressFatigueFloor:   c.SuppressFatigueFloor,
		SevereFatigueThreshold: c.SevereFatigueThreshold,
		SuppressLongMin:        int(c.SuppressLong.Minutes()),
		SuppressSevereMin:      int(c.SuppressSevere.Minutes()),
		SuppressMediumMin:      int(c.SuppressMedium.Minutes()),
		SuppressShortMin:       int(c.SuppressShort.Minutes()),

		HardMin:   c.HardMin,
		MediumMin: c.MediumMin,
		MediumMax: c.MediumMax,
		SoftMin:   c.SoftMin,
		SoftMax:   c.SoftMax,
	}
}

// Fatigue converts the profile back into runtime thresholds.
func (p FatigueProfile) Fatigue() fatigue.Config {
	return fatigue.Config{
		BaseFirst:  p.BaseFirst,
		BaseSecond: p.BaseSecond,
		BaseThird:  p.BaseThird,
		BaseStep:   p.BaseStep,

		ZeroEngagementBonus:  p.ZeroEngagementBonus,
		SingleDismissPenalty: p.SingleDismissPenalty,

		ExposureCapPoints:       p.ExposureCapPoints,
		ExposureMinutesPerPoint: p.ExposureMinutesPerPoint,

		DecayPartialAfter: time.Duration(p.DecayPartialAfterMin) * time.Minute,
		DecayFullAfter:    time.Duration(p.DecayFullAfterMin) * time.Minute,
		DecayPartial:      p.DecayPartial,
		DecayFull:         p.DecayFull,

		SuppressDismissals:     p.SuppressDismissals,
		SuppressFatigueFloor:   p.SuppressFatigueFloor,
		SevereFatigueThreshold: p.SevereFatigueThreshold,
		SuppressLong:           time.Duration(p.SuppressLongMin) * time.Minute,
		SuppressSevere:         time.Duration(p.SuppressSevereMin) * time.Minute,
		SuppressMedium:         time.Duration(p.SuppressMediumMin) * time.Minute,
		SuppressShort:          time.Duration(p.SuppressShortMin) * time.Minute,

		HardMin:   p.HardMin,
		MediumMin: p.MediumMin,
		MediumMax: p.MediumMax,
		SoftMin:   p.SoftMin,
		SoftMax:   p.SoftMax,
	}
}

// #endregion fatigue-profile

// #region profile

// Profile bundles every tunable numeric of the pattern core in one yaml
// document. The committed defaults are a starting point inferred from
// observed behavior, not calibrated truth.
type Profile struct {
	Estimator  estimator.Config        `yaml:"estimator"`
	Scorer     estimator.ScorerWeights `yaml:"scorer"`
	Transition transition.Config       `yaml:"transition"`
	Fusion     fusion.Config           `yaml:"fusion"`
	Fatigue    FatigueProfile          `yaml:"fatigue"`
}

// DefaultProfile returns every component's default tuning.
func DefaultProfile() Profile {
	return Profile{
		Estimator:  estimator.DefaultConfig(),
		Scorer:     estimator.DefaultScorerWeights(),
		Transition: transition.DefaultConfig(),
		Fusion:     fusion.DefaultConfig(),
		Fatigue:    fatigueProfileFrom(fatigue.DefaultConfig()),
	}
}

// Load reads a yaml profile, starting from defaults. A missing file is not
// an error; the defaults apply.
func Load(path string) (Profile, error) {
	p := DefaultProfile()
	if path == "" {
		return p, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return p, nil
		}
		return p, fmt.Errorf("read profile: %w", err)
	}
	if err := yaml.Unmarshal(data, &p); err != nil {
		return p, fmt.Errorf("parse profile: %w", err)
	}
	return p, nil
}

// Save writes the profile as yaml.
func Save(p Profile, path string) error {
	data, err := yaml.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal profile: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write profile: %w", err)
	}
	return nil
}

// #endregion profile
