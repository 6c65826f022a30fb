package turn

import (
	"testing"

	"github.com/Mutajon/aMAZEn-Politics-sub006/internal/goals"
	"github.com/Mutajon/aMAZEn-Politics-sub006/internal/state"
)

func newTestMutator(totalDays int) (*state.Game, *state.StageAccess, *Mutator, *goals.Evaluator) {
	g, turnAcc, stageAcc := state.NewGame(state.Settings{
		StartBudget:    1000,
		BudgetTracking: true,
		TotalDays:      totalDays,
		Supports:       map[string]int{"people": 50},
	})
	ev := goals.NewEvaluator(g, []goals.Goal{
		{ID: "floor", Metric: "people", Kind: goals.KindContinuous, Threshold: 20},
	})
	m := NewMutator(g, turnAcc, ev, nil)
	return g, stageAcc, m, ev
}

func TestFinalizeTurnScenario(t *testing.T) {
	// day=1, budget=1000, confirmed cost=-150 → budget=850, day=2,
	// history[0] carries the confirmed id.
	g, stage, m, _ := newTestMutator(30)
	stage.SetDilemma(state.Dilemma{Title: "The Strike", Description: "Ports closed.", Topic: "labor"})

	if err := m.FinalizeTurn(state.Action{ID: "a2", Title: "Subsidize wages", Cost: -150}); err != nil {
		t.Fatalf("finalize: %v", err)
	}

	if g.Budget() != 850 {
		t.Fatalf("expected budget 850, got %d", g.Budget())
	}
	if g.Day() != 2 {
		t.Fatalf("expected day 2, got %d", g.Day())
	}
	h := g.History()
	if len(h) != 1 {
		t.Fatalf("expected 1 history entry, got %d", len(h))
	}
	if h[0].Choice.ID != "a2" {
		t.Fatalf("expected choice a2, got %s", h[0].Choice.ID)
	}
	if h[0].Day != 1 {
		t.Fatalf("history day should be pre-advance day 1, got %d", h[0].Day)
	}
	if h[0].DilemmaTitle != "The Strike" {
		t.Fatalf("history should carry the answered dilemma, got %q", h[0].DilemmaTitle)
	}
}

func TestHistoryGrowsByOnePerConfirmation(t *testing.T) {
	g, _, m, _ := newTestMutator(30)

	for i := 0; i < 3; i++ {
		if err := m.FinalizeTurn(state.Action{ID: "a1", Cost: -10}); err != nil {
			t.Fatalf("finalize %d: %v", i, err)
		}
	}

	h := g.History()
	if len(h) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(h))
	}
	for i := 1; i < len(h); i++ {
		if h[i].Day < h[i-1].Day {
			t.Fatalf("history days must be non-decreasing: %d then %d", h[i-1].Day, h[i].Day)
		}
	}
	if g.Budget() != 970 {
		t.Fatalf("each confirmation applies its delta exactly once, budget=%d", g.Budget())
	}
}

func TestHistoryRecordsPreAdvanceSupports(t *testing.T) {
	g, _, m, _ := newTestMutator(30)

	if err := m.FinalizeTurn(state.Action{ID: "a1"}); err != nil {
		t.Fatal(err)
	}
	if got := g.History()[0].Supports["people"]; got != 50 {
		t.Fatalf("expected snapshot support 50, got %d", got)
	}
}

func TestFinalizeAfterLastDayFails(t *testing.T) {
	g, _, m, _ := newTestMutator(1)

	if err := m.FinalizeTurn(state.Action{ID: "a1"}); err != nil {
		t.Fatalf("first finalize should pass: %v", err)
	}
	if err := m.FinalizeTurn(state.Action{ID: "a2"}); err == nil {
		t.Fatal("finalize past the day bound should fail")
	}
	if g.Day() != 2 {
		t.Fatalf("day must not move on a failed finalize, got %d", g.Day())
	}
}

func TestGoalsObservePostTurnState(t *testing.T) {
	_, _, m, ev := newTestMutator(30)

	if err := m.FinalizeTurn(state.Action{ID: "a1"}); err != nil {
		t.Fatal(err)
	}
	st, ok := ev.Status("floor")
	if !ok {
		t.Fatal("goal should have been evaluated during finalize")
	}
	if !st.Met {
		t.Fatalf("floor goal should hold at minimum 50, got %+v", st)
	}
}
