package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/Mutajon/aMAZEn-Politics-sub006/internal/replay"
)

// #region main

func main() {
	fixturePath := flag.String("fixture", "", "path to fixture JSON")
	flag.Parse()

	if *fixturePath == "" {
		fmt.Fprintln(os.Stderr, "usage: replay --fixture path/to/fixture.json")
		os.Exit(2)
	}

	os.Exit(runFixture(*fixturePath))
}

// #endregion main

// #region output

func runFixture(path string) int {
	fx, err := replay.LoadFixture(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load fixture: %v\n", err)
		return 2
	}

	results, err := replay.Run(fx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "replay: %v\n", err)
		return 2
	}

	printResults(results)

	mismatches := replay.Verify(fx, results)
	summary := replay.Summarize(results)
	fmt.Printf("\nSummary: %d turns, %d stage failures, final budget %d, day %d\n",
		summary.Turns, summary.StageFailures, summary.FinalBudget, summary.FinalDay)

	if len(mismatches) > 0 {
		fmt.Fprintf(os.Stderr, "\n%d expectation(s) diverged:\n", len(mismatches))
		for _, m := range mismatches {
			fmt.Fprintf(os.Stderr, "  %s\n", m)
		}
		return 1
	}
	return 0
}

func printResults(results []replay.Result) {
	fmt.Printf("%-12s| %-10s| %-6s| %-10s| %s\n", "Turn", "Budget", "Day", "Degraded", "Failed stages")
	fmt.Printf("%-12s+%-11s+%-7s+%-11s+%s\n",
		"------------", "-----------", "-------", "-----------", "--------------")
	for _, r := range results {
		failed := "-"
		if len(r.FailedStages) > 0 {
			failed = strings.Join(r.FailedStages, ",")
		}
		fmt.Printf("%-12s| %-10d| %-6d| %-10v| %s\n", r.TurnID, r.Budget, r.Day, r.Degraded, failed)
	}
}

// #endregion output
