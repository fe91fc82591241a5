package main

// #region imports
import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/Winckwu/Interview-GenAI-sub003/internal/fatigue"
	"github.com/Winckwu/Interview-GenAI-sub003/internal/store"
)

// #endregion

// #region main

func main() {
	dbPath := flag.String("db", "", "path to pattern_core.db")
	user := flag.String("user", "", "user ID to inspect")
	sessionID := flag.String("session", "", "filter transitions/snapshots to one session")
	severity := flag.String("severity", "", "filter transitions to one severity")
	last := flag.Int("last", 20, "show N most recent rows")
	suppressions := flag.Bool("suppressions", false, "show the active suppression summary")
	jsonOut := flag.Bool("json", false, "output as JSON instead of text")
	flag.Parse()

	if *dbPath == "" || *user == "" {
		fmt.Fprintln(os.Stderr, "usage: inspect --db path/to/pattern_core.db --user ID [--session ID] [--severity level] [--suppressions] [--last N] [--json]")
		os.Exit(2)
	}

	st, err := store.NewStore(*dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open db: %v\n", err)
		os.Exit(1)
	}
	defer st.Close()

	var runErr error
	switch {
	case *suppressions:
		runErr = runSuppressions(st, *user, *jsonOut)
	case *severity != "":
		runErr = runSeverity(st, *user, *severity, *last, *jsonOut)
	case *sessionID != "":
		runErr = runSession(st, *user, *sessionID, *last, *jsonOut)
	default:
		fmt.Fprintln(os.Stderr, "nothing to inspect: pass --session, --severity, or --suppressions")
		os.Exit(2)
	}
	if runErr != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", runErr)
		os.Exit(1)
	}
}

// #endregion main

// #region severity-view

func runSeverity(st *store.Store, user, severity string, last int, jsonOut bool) error {
	records, err := st.TransitionsBySeverity(user, severity, last)
	if err != nil {
		return err
	}
	if jsonOut {
		return json.NewEncoder(os.Stdout).Encode(records)
	}
	if len(records) == 0 {
		fmt.Println("no transitions")
		return nil
	}
	for _, r := range records {
		fmt.Printf("%s  turn=%-4d %s→%s  %-11s %-8s session=%s\n",
			r.CreatedAt.Format("2006-01-02 15:04:05"), r.TurnNumber,
			r.FromCategory, r.ToCategory, r.Type, r.Severity, r.SessionID)
	}
	return nil
}

// #endregion severity-view

// #region session-view

func runSession(st *store.Store, user, sessionID string, last int, jsonOut bool) error {
	transitions, err := st.TransitionsBySession(user, sessionID, last)
	if err != nil {
		return err
	}
	snapshots, err := st.SnapshotsBySession(user, sessionID, last)
	if err != nil {
		return err
	}

	if jsonOut {
		return json.NewEncoder(os.Stdout).Encode(map[string]interface{}{
			"transitions": transitions,
			"snapshots":   snapshots,
		})
	}

	fmt.Printf("transitions (%d):\n", len(transitions))
	for _, r := range transitions {
		fmt.Printf("  turn=%-4d %s→%s  %-11s %s\n",
			r.TurnNumber, r.FromCategory, r.ToCategory, r.Type, r.Severity)
	}
	fmt.Printf("stability snapshots (%d):\n", len(snapshots))
	for _, s := range snapshots {
		fmt.Printf("  turn=%-4d stability=%.3f streak=%d trend=%s\n",
			s.TurnNumber, s.Stability, s.StreakLength, s.Trend)
	}
	return nil
}

// #endregion session-view

// #region suppressions

func runSuppressions(st *store.Store, user string, jsonOut bool) error {
	supp, err := st.LoadSuppressions(user)
	if err != nil {
		return err
	}
	summary := fatigue.NewScheduler(fatigue.DefaultConfig()).SuppressionSummary(supp)

	if jsonOut {
		return json.NewEncoder(os.Stdout).Encode(summary)
	}
	fmt.Printf("active suppressions: %d\n", summary.ActiveSuppressions)
	for _, e := range summary.Entries {
		fmt.Printf("  %-24s %.1f minutes remaining\n", e.Type, e.MinutesRemaining)
	}
	return nil
}

// #endregion suppressions
