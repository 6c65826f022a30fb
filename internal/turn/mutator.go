package turn

import (
	"fmt"
	"log"

	"github.com/Mutajon/aMAZEn-Politics-sub006/internal/goals"
	"github.com/Mutajon/aMAZEn-Politics-sub006/internal/state"
	"github.com/Mutajon/aMAZEn-Politics-sub006/internal/telemetry"
)

// #region mutator

// Mutator applies the synchronous, once-only consequences of a confirmed
// action. It is the sole writer of budget, day, and history, through the
// TurnAccess facet it holds.
type Mutator struct {
	game  *state.Game
	acc   *state.TurnAccess
	goals *goals.Evaluator
	sink  telemetry.Sink
}

// NewMutator wires the mutator with its write facet and the goal
// evaluator it triggers after each advance.
func NewMutator(game *state.Game, acc *state.TurnAccess, evaluator *goals.Evaluator, sink telemetry.Sink) *Mutator {
	if sink == nil {
		sink = telemetry.Nop{}
	}
	return &Mutator{game: game, acc: acc, goals: evaluator, sink: sink}
}

// FinalizeTurn applies the confirmed action. Order matters:
//
//  1. record the action as last choice,
//  2. apply the budget delta (skipped when tracking is off for the session),
//  3. refresh running minimums from the pre-advance snapshot,
//  4. append the history entry capturing the pre-advance dilemma and
//     support values,
//  5. advance the day by exactly one,
//  6. re-evaluate goals against post-turn state.
//
// Callers invoke it at most once per confirmation.
func (m *Mutator) FinalizeTurn(selected state.Action) error {
	if m.game.Day() > m.game.TotalDays() {
		return fmt.Errorf("session over: day %d exceeds bound %d", m.game.Day(), m.game.TotalDays())
	}

	snap := m.game.Snapshot()

	m.acc.SetLastChoice(selected)
	m.acc.ApplyBudgetDelta(selected.Cost)
	m.acc.RefreshMinimums(snap)
	m.acc.AppendTurn(state.Turn{
		Day:                snap.Day,
		Choice:             selected,
		Supports:           snap.Supports,
		DilemmaTitle:       snap.Dilemma.Title,
		DilemmaDescription: snap.Dilemma.Description,
		Topic:              snap.Dilemma.Topic,
	})
	m.acc.AdvanceDay()

	m.goals.Evaluate()

	log.Printf("[TURN] finalized day=%d choice=%s cost=%d budget=%d",
		snap.Day, selected.ID, selected.Cost, m.game.Budget())
	m.sink.Log("turn_finalized", selected.ID, selected.Title)
	return nil
}

// #endregion mutator
