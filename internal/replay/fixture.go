package replay

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/Mutajon/aMAZEn-Politics-sub006/internal/state"
)

// #region fixture-types

// DilemmaScript is the scripted generation result for one turn. A nil
// script in an interaction stands for a failed generation.
type DilemmaScript struct {
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Topic       string         `json:"topic"`
	Actions     []state.Action `json:"actions"`
}

// Interaction is one recorded turn: which action was confirmed, what the
// generator answered, and which stages failed.
type Interaction struct {
	TurnID string `json:"turn_id"`
	// ActionID selects an action from the dilemma on screen.
	ActionID string `json:"action_id"`
	// SupportShifts are applied before confirmation, standing in for the
	// UI-side support animations of the recorded session.
	SupportShifts map[string]int `json:"support_shifts,omitempty"`
	// NextDilemma is the scripted generation for the following day; nil
	// replays a dilemma-generation failure.
	NextDilemma *DilemmaScript `json:"next_dilemma,omitempty"`
	// FailStages lists analysis stages scripted to fail this turn
	// (mirror, news, support, compass, parameters).
	FailStages []string `json:"fail_stages,omitempty"`
}

// FixtureSettings is the JSON-serializable session setup.
type FixtureSettings struct {
	StartBudget    int            `json:"start_budget"`
	BudgetTracking bool           `json:"budget_tracking"`
	TotalDays      int            `json:"total_days"`
	Supports       map[string]int `json:"supports"`
}

// Expectation captures the expected post-turn state per interaction.
type Expectation struct {
	TurnID string `json:"turn_id"`
	Budget int    `json:"budget"`
	Day    int    `json:"day"`
}

// Fixture is the top-level JSON structure for a replay run.
type Fixture struct {
	Description  string          `json:"description"`
	Settings     FixtureSettings `json:"settings"`
	Bootstrap    DilemmaScript   `json:"bootstrap"`
	Interactions []Interaction   `json:"interactions"`
	Expected     []Expectation   `json:"expected,omitempty"`
}

// #endregion fixture-types

// #region fixture-loader

// LoadFixture reads and validates a fixture JSON file.
func LoadFixture(path string) (Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Fixture{}, fmt.Errorf("read fixture: %w", err)
	}
	var fx Fixture
	if err := json.Unmarshal(data, &fx); err != nil {
		return Fixture{}, fmt.Errorf("parse fixture: %w", err)
	}
	if fx.Settings.TotalDays <= 0 {
		return Fixture{}, fmt.Errorf("fixture %s: total_days must be positive", path)
	}
	if len(fx.Bootstrap.Actions) == 0 {
		return Fixture{}, fmt.Errorf("fixture %s: bootstrap dilemma needs actions", path)
	}
	return fx, nil
}

// Verify compares results against the fixture's expectations. Returns the
// mismatches as strings, empty when everything matched.
func Verify(fx Fixture, results []Result) []string {
	var mismatches []string
	byID := make(map[string]Result, len(results))
	for _, r := range results {
		byID[r.TurnID] = r
	}
	for _, exp := range fx.Expected {
		r, ok := byID[exp.TurnID]
		if !ok {
			mismatches = append(mismatches, fmt.Sprintf("%s: no result", exp.TurnID))
			continue
		}
		if r.Budget != exp.Budget {
			mismatches = append(mismatches, fmt.Sprintf("%s: budget %d, expected %d", exp.TurnID, r.Budget, exp.Budget))
		}
		if r.Day != exp.Day {
			mismatches = append(mismatches, fmt.Sprintf("%s: day %d, expected %d", exp.TurnID, r.Day, exp.Day))
		}
	}
	return mismatches
}

// #endregion fixture-loader
