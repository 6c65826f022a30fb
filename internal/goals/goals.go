package goals

import (
	"log"

	"github.com/Mutajon/aMAZEn-Politics-sub006/internal/state"
)

// #region types

// Kind distinguishes how a goal is judged.
type Kind string

const (
	// KindContinuous goals fail permanently once the metric's running
	// minimum dips below the threshold.
	KindContinuous Kind = "continuous"
	// KindTarget goals are met once the current metric reaches the
	// threshold.
	KindTarget Kind = "target"
)

// Goal is one registered progress condition.
type Goal struct {
	ID        string
	Label     string
	Metric    string
	Kind      Kind
	Threshold int
}

// Status is the recomputed standing of one goal.
type Status struct {
	GoalID string
	Label  string
	Met    bool
	Failed bool
	Value  int
}

// #endregion types

// #region evaluator

// Evaluator recomputes goal standings from the running-minimum trackers
// and current metrics. It runs strictly after the day advances, so it
// always observes post-turn state.
type Evaluator struct {
	game  *state.Game
	goals []Goal

	statuses map[string]Status
}

// NewEvaluator registers the session's goals against the game container.
func NewEvaluator(game *state.Game, goals []Goal) *Evaluator {
	return &Evaluator{
		game:     game,
		goals:    goals,
		statuses: make(map[string]Status, len(goals)),
	}
}

// Evaluate recomputes every goal and returns the fresh statuses.
func (e *Evaluator) Evaluate() []Status {
	out := make([]Status, 0, len(e.goals))
	for _, g := range e.goals {
		st := e.judge(g)
		e.statuses[g.ID] = st
		out = append(out, st)
	}
	return out
}

// Status returns the most recently computed standing for one goal.
func (e *Evaluator) Status(goalID string) (Status, bool) {
	st, ok := e.statuses[goalID]
	return st, ok
}

func (e *Evaluator) judge(g Goal) Status {
	st := Status{GoalID: g.ID, Label: g.Label}

	switch g.Kind {
	case KindContinuous:
		min, ok := e.game.Minimum(g.Metric)
		if !ok {
			log.Printf("[GOAL] %s references unknown metric %q", g.ID, g.Metric)
			return st
		}
		st.Value = min
		st.Met = min >= g.Threshold
		st.Failed = !st.Met
	case KindTarget:
		cur, ok := e.game.Support(g.Metric)
		if !ok {
			log.Printf("[GOAL] %s references unknown metric %q", g.ID, g.Metric)
			return st
		}
		st.Value = cur
		st.Met = cur >= g.Threshold
	default:
		log.Printf("[GOAL] %s has unknown kind %q", g.ID, g.Kind)
	}
	return st
}

// #endregion evaluator
