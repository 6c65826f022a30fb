package replay

import (
	"testing"

	"github.com/Mutajon/aMAZEn-Politics-sub006/internal/state"
)

func twoTurnFixture() Fixture {
	return Fixture{
		Description: "two clean turns",
		Settings: FixtureSettings{
			StartBudget:    1000,
			BudgetTracking: true,
			TotalDays:      10,
			Supports:       map[string]int{"people": 50},
		},
		Bootstrap: DilemmaScript{
			Title: "Day One",
			Topic: "ceremony",
			Actions: []state.Action{
				{ID: "a1", Title: "Greet the crowd", Cost: -150},
			},
		},
		Interactions: []Interaction{
			{
				TurnID:   "t1",
				ActionID: "a1",
				NextDilemma: &DilemmaScript{
					Title: "Day Two",
					Topic: "budget",
					Actions: []state.Action{
						{ID: "b1", Title: "Cut spending", Cost: 200},
					},
				},
			},
			{
				TurnID:        "t2",
				ActionID:      "b1",
				SupportShifts: map[string]int{"people": 35},
				NextDilemma: &DilemmaScript{
					Title:   "Day Three",
					Topic:   "crime",
					Actions: []state.Action{{ID: "c1", Title: "Patrols", Cost: 0}},
				},
			},
		},
		Expected: []Expectation{
			{TurnID: "t1", Budget: 850, Day: 2},
			{TurnID: "t2", Budget: 1050, Day: 3},
		},
	}
}

func TestReplayReproducesBudgetAndDay(t *testing.T) {
	fx := twoTurnFixture()
	results, err := Run(fx)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if mismatches := Verify(fx, results); len(mismatches) != 0 {
		t.Fatalf("expectations not met: %v", mismatches)
	}
}

func TestReplayIsDeterministicAcrossRuns(t *testing.T) {
	fx := twoTurnFixture()

	first, err := Run(fx)
	if err != nil {
		t.Fatal(err)
	}
	second, err := Run(fx)
	if err != nil {
		t.Fatal(err)
	}
	for i := range first {
		if first[i].Budget != second[i].Budget || first[i].Day != second[i].Day {
			t.Fatalf("replay diverged at %s: %+v vs %+v", first[i].TurnID, first[i], second[i])
		}
	}
}

func TestReplayDilemmaFailureMarksDegraded(t *testing.T) {
	fx := twoTurnFixture()
	fx.Interactions = fx.Interactions[:1]
	fx.Interactions[0].NextDilemma = nil
	fx.Interactions[0].FailStages = []string{"mirror"}
	fx.Expected = nil

	results, err := Run(fx)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	r := results[0]
	if !r.Degraded {
		t.Fatal("expected degraded dilemma after scripted generation failure")
	}
	if r.Budget != 850 || r.Day != 2 {
		t.Fatalf("state consequences must still apply: %+v", r)
	}
	if len(r.FailedStages) != 2 {
		t.Fatalf("expected mirror+dilemma failures, got %v", r.FailedStages)
	}
}

func TestSummarize(t *testing.T) {
	s := Summarize([]Result{
		{TurnID: "t1", Budget: 850, Day: 2, FailedStages: []string{"news"}},
		{TurnID: "t2", Budget: 700, Day: 3},
	})
	if s.Turns != 2 || s.StageFailures != 1 || s.FinalBudget != 700 || s.FinalDay != 3 {
		t.Fatalf("unexpected summary: %+v", s)
	}
}
