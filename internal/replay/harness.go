package replay

// #region imports
import (
	"context"
	"fmt"

	"github.com/Winckwu/Interview-GenAI-sub003/internal/config"
	"github.com/Winckwu/Interview-GenAI-sub003/internal/estimator"
	"github.com/Winckwu/Interview-GenAI-sub003/internal/fatigue"
	"github.com/Winckwu/Interview-GenAI-sub003/internal/session"
	"github.com/Winckwu/Interview-GenAI-sub003/internal/transition"
)

// #endregion

// #region outcome

// TurnOutcome is the verdict for one replayed turn.
type TurnOutcome struct {
	TurnID   string
	Pass     bool
	Failures []string
}

// Report summarizes a fixture run.
type Report struct {
	Description string
	Outcomes    []TurnOutcome
	Passed      int
	Failed      int
}

// #endregion outcome

// #region harness

// Run replays a fixture through a fresh pipeline built from the profile
// (no persistence, no secondary classifier) and diffs each turn against
// its expectations. Deterministic by construction: the estimator and
// detector are pure over the replayed inputs.
func Run(fixture Fixture, profile config.Profile) Report {
	deps := session.Deps{
		Estimator: estimator.New(estimator.NewRuleScorer(profile.Scorer), profile.Estimator),
		Detector:  transition.NewDetector(profile.Transition),
		Scheduler: fatigue.NewScheduler(profile.Fatigue.Fatigue()),
		Fusion:    profile.Fusion,
	}
	mgr := session.NewManager(deps)
	sess := mgr.Session(fixture.UserID, fixture.SessionID)

	report := Report{Description: fixture.Description}
	for i, turn := range fixture.Turns {
		result := sess.ProcessTurn(context.Background(), turn.Signal)
		outcome := checkTurn(turn, i, result)
		if outcome.Pass {
			report.Passed++
		} else {
			report.Failed++
		}
		report.Outcomes = append(report.Outcomes, outcome)
	}
	return report
}

// #endregion harness

// #region check

func checkTurn(turn FixtureTurn, index int, result session.TurnResult) TurnOutcome {
	outcome := TurnOutcome{TurnID: turn.TurnID, Pass: true}
	if outcome.TurnID == "" {
		outcome.TurnID = fmt.Sprintf("turn-%d", index+1)
	}
	exp := turn.Expected

	fail := func(format string, args ...interface{}) {
		outcome.Pass = false
		outcome.Failures = append(outcome.Failures, fmt.Sprintf(format, args...))
	}

	if exp.Category != "" && string(result.Estimate.TopCategory) != exp.Category {
		fail("category: want %s, got %s", exp.Category, result.Estimate.TopCategory)
	}
	if exp.Trend != "" {
		if !result.StabilityOK {
			fail("trend: want %s, got insufficient data", exp.Trend)
		} else if string(result.Stability.Trend) != exp.Trend {
			fail("trend: want %s, got %s", exp.Trend, result.Stability.Trend)
		}
	}
	if exp.TransitionFrom != "" || exp.TransitionTo != "" {
		if result.Transition == nil {
			fail("transition: want %s→%s, got none", exp.TransitionFrom, exp.TransitionTo)
		} else {
			if exp.TransitionFrom != "" && string(result.Transition.FromCategory) != exp.TransitionFrom {
				fail("transition from: want %s, got %s", exp.TransitionFrom, result.Transition.FromCategory)
			}
			if exp.TransitionTo != "" && string(result.Transition.ToCategory) != exp.TransitionTo {
				fail("transition to: want %s, got %s", exp.TransitionTo, result.Transition.ToCategory)
			}
			if exp.Severity != "" && string(result.Transition.Severity) != exp.Severity {
				fail("severity: want %s, got %s", exp.Severity, result.Transition.Severity)
			}
		}
	}
	if exp.Tier != "" {
		if result.Decision == nil {
			fail("tier: want %s, got no decision", exp.Tier)
		} else if string(result.Decision.Tier) != exp.Tier {
			fail("tier: want %s, got %s", exp.Tier, result.Decision.Tier)
		}
	}
	if exp.ShouldDisplay != nil {
		got := result.Decision != nil && result.Decision.ShouldDisplay
		if got != *exp.ShouldDisplay {
			fail("should_display: want %v, got %v", *exp.ShouldDisplay, got)
		}
	}
	return outcome
}

// #endregion check
