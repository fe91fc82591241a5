package main

// #region imports
import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/Winckwu/Interview-GenAI-sub003/internal/classifier"
	"github.com/Winckwu/Interview-GenAI-sub003/internal/config"
	"github.com/Winckwu/Interview-GenAI-sub003/internal/estimator"
	"github.com/Winckwu/Interview-GenAI-sub003/internal/fatigue"
	"github.com/Winckwu/Interview-GenAI-sub003/internal/session"
	"github.com/Winckwu/Interview-GenAI-sub003/internal/signal"
	"github.com/Winckwu/Interview-GenAI-sub003/internal/store"
	"github.com/Winckwu/Interview-GenAI-sub003/internal/transition"
)

// #endregion

// #region main

func main() {
	dbPath := envOr("PATTERN_DB", "pattern_core.db")
	profilePath := envOr("PATTERN_PROFILE", "")
	userID := envOr("PATTERN_USER", "local-user")
	sessionID := envOr("PATTERN_SESSION", "local-session")

	profile, err := config.Load(profilePath)
	if err != nil {
		log.Fatalf("failed to load profile: %v", err)
	}

	st, err := store.NewStore(dbPath)
	if err != nil {
		log.Fatalf("failed to open store: %v", err)
	}
	defer st.Close()

	clsCfg := classifier.DefaultConfig()
	var secondary session.Secondary
	if clsCfg.Enabled {
		secondary = classifier.NewClient(clsCfg)
	}

	mgr := session.NewManager(session.Deps{
		Estimator:    estimator.New(estimator.NewRuleScorer(profile.Scorer), profile.Estimator),
		Detector:     transition.NewDetector(profile.Transition),
		Scheduler:    fatigue.NewScheduler(profile.Fatigue.Fatigue()),
		Fusion:       profile.Fusion,
		Secondary:    secondary,
		Priors:       st,
		Persist:      st,
		FatigueStore: st,
	})
	sess := mgr.Session(userID, sessionID)

	fmt.Println("Pattern core controller ready.")
	fmt.Printf("  DB: %s | User: %s | Session: %s\n", dbPath, userID, sessionID)
	fmt.Println("Paste one JSON signal vector per line (or 'quit' to exit):")

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "quit" || line == "exit" {
			break
		}

		v, err := signal.Parse([]byte(line))
		if err != nil {
			log.Printf("bad signal vector: %v", err)
			continue
		}

		result := sess.ProcessTurn(context.Background(), v)
		printResult(result)
	}
}

// #endregion main

// #region output

func printResult(r session.TurnResult) {
	fmt.Printf("category=%s confidence=%.3f", r.Estimate.TopCategory, r.Estimate.Confidence)
	if r.StabilityOK {
		fmt.Printf(" stability=%.3f trend=%s streak=%d",
			r.Stability.Stability, r.Stability.Trend, r.Stability.StreakLength)
	} else {
		fmt.Print(" stability=insufficient")
	}
	fmt.Println()

	if r.Transition != nil {
		fmt.Printf("transition: %s→%s type=%s severity=%s\n",
			r.Transition.FromCategory, r.Transition.ToCategory,
			r.Transition.Type, r.Transition.Severity)
	}
	if r.Decision != nil {
		fmt.Printf("intervention: type=%s display=%v tier=%s auth=%v\n",
			r.Intervention, r.Decision.ShouldDisplay, r.Decision.Tier,
			r.Decision.RequiresAuthorization)
	}
}

// #endregion output

// #region helpers

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// #endregion helpers
