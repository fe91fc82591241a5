package main

// #region imports
import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/Winckwu/Interview-GenAI-sub003/internal/config"
	"github.com/Winckwu/Interview-GenAI-sub003/internal/replay"
)

// #endregion

// #region main

func main() {
	fixturePath := flag.String("fixture", "", "path to fixture JSON")
	profilePath := flag.String("profile", "", "optional tuning profile yaml")
	flag.Parse()

	if *fixturePath == "" {
		fmt.Fprintln(os.Stderr, "usage: replay --fixture path/to/fixture.json [--profile profile.yaml]")
		os.Exit(2)
	}

	fixture, err := replay.LoadFixture(*fixturePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	profile, err := config.Load(*profilePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	report := replay.Run(fixture, profile)
	printReport(report)
	if report.Failed > 0 {
		os.Exit(1)
	}
}

// #endregion main

// #region output

func printReport(report replay.Report) {
	if report.Description != "" {
		fmt.Printf("fixture: %s\n", report.Description)
	}
	for _, o := range report.Outcomes {
		status := "PASS"
		if !o.Pass {
			status = "FAIL"
		}
		fmt.Printf("  [%s] %s", status, o.TurnID)
		if len(o.Failures) > 0 {
			fmt.Printf("  %s", strings.Join(o.Failures, "; "))
		}
		fmt.Println()
	}
	fmt.Printf("%d passed, %d failed\n", report.Passed, report.Failed)
}

// #endregion output
