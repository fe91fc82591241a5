package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadMissingFileYieldsDefaults(t *testing.T) {
	p, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("missing file must not error: %v", err)
	}
	def := DefaultProfile()
	if p.Fusion.PrimaryWeight != def.Fusion.PrimaryWeight {
		t.Fatalf("expected default fusion weights, got %+v", p.Fusion)
	}
	if p.Fatigue.SuppressLongMin != def.Fatigue.SuppressLongMin {
		t.Fatalf("expected default fatigue profile, got %+v", p.Fatigue)
	}
}

func TestLoadEmptyPathYieldsDefaults(t *testing.T) {
	p, err := Load("")
	if err != nil {
		t.Fatalf("empty path must not error: %v", err)
	}
	if p.Estimator.DefaultConfidence != DefaultProfile().Estimator.DefaultConfidence {
		t.Fatalf("expected defaults, got %+v", p.Estimator)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.yaml")

	p := DefaultProfile()
	p.Fusion.PrimaryWeight = 0.7
	p.Fusion.SecondaryWeight = 0.3
	p.Fatigue.SuppressLongMin = 45
	p.Scorer.AVerification = 1.1
	if err := Save(p, path); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.Fusion.PrimaryWeight != 0.7 || got.Fusion.SecondaryWeight != 0.3 {
		t.Fatalf("fusion weights must round-trip, got %+v", got.Fusion)
	}
	if got.Fatigue.SuppressLongMin != 45 {
		t.Fatalf("fatigue minutes must round-trip, got %d", got.Fatigue.SuppressLongMin)
	}
	if got.Scorer.AVerification != 1.1 {
		t.Fatalf("scorer weights must round-trip, got %+v", got.Scorer)
	}
}

func TestLoadPartialOverlayKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	partial := []byte("fusion:\n  primary_weight: 0.9\n  secondary_weight: 0.1\n")
	if err := os.WriteFile(path, partial, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	p, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if p.Fusion.PrimaryWeight != 0.9 {
		t.Fatalf("overlay must apply, got %.2f", p.Fusion.PrimaryWeight)
	}
	if p.Fusion.InstabilityDiscount != DefaultProfile().Fusion.InstabilityDiscount {
		t.Fatalf("untouched fields keep defaults, got %.2f", p.Fusion.InstabilityDiscount)
	}
	if p.Transition.TimePressureMs != DefaultProfile().Transition.TimePressureMs {
		t.Fatalf("untouched sections keep defaults, got %d", p.Transition.TimePressureMs)
	}
}

func TestLoadMalformedYAMLErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("fusion: ["), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("malformed yaml must error")
	}
}

func TestFatigueProfileConversion(t *testing.T) {
	p := DefaultProfile().Fatigue
	c := p.Fatigue()
	if c.SuppressLong != time.Duration(p.SuppressLongMin)*time.Minute {
		t.Fatalf("minutes must convert to duration, got %s", c.SuppressLong)
	}
	if c.BaseThird != p.BaseThird || c.SevereFatigueThreshold != p.SevereFatigueThreshold {
		t.Fatalf("thresholds must pass through: %+v", c)
	}
}
