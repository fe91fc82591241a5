package replay

// #region imports
import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/Winckwu/Interview-GenAI-sub003/internal/signal"
)

// #endregion

// #region fixture-types

// Fixture is the top-level JSON structure for a replay fixture: a recorded
// sequence of signal vectors plus the decisions the pipeline is expected to
// reproduce.
type Fixture struct {
	Description string        `json:"description"`
	UserID      string        `json:"user_id"`
	SessionID   string        `json:"session_id"`
	Turns       []FixtureTurn `json:"turns"`
}

// FixtureTurn is one recorded turn.
type FixtureTurn struct {
	TurnID   string          `json:"turn_id"`
	Signal   signal.Vector   `json:"signal"`
	Expected FixtureExpected `json:"expected"`
}

// FixtureExpected captures the assertions for one turn. Empty fields are
// not checked.
type FixtureExpected struct {
	Category       string `json:"category,omitempty"`
	Trend          string `json:"trend,omitempty"`
	TransitionFrom string `json:"transition_from,omitempty"`
	TransitionTo   string `json:"transition_to,omitempty"`
	Severity       string `json:"severity,omitempty"`
	Tier           string `json:"tier,omitempty"`
	ShouldDisplay  *bool  `json:"should_display,omitempty"`
}

// #endregion fixture-types

// #region load

// LoadFixture reads and validates a fixture file.
func LoadFixture(path string) (Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Fixture{}, fmt.Errorf("read fixture: %w", err)
	}
	var f Fixture
	if err := json.Unmarshal(data, &f); err != nil {
		return Fixture{}, fmt.Errorf("parse fixture: %w", err)
	}
	if len(f.Turns) == 0 {
		return Fixture{}, fmt.Errorf("fixture has no turns")
	}
	if f.UserID == "" {
		f.UserID = "replay-user"
	}
	if f.SessionID == "" {
		f.SessionID = "replay-session"
	}
	return f, nil
}

// #endregion load
