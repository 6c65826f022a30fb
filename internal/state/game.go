package state

import (
	"fmt"
	"sync"
)

// #region game

// Game is the single mutable container for one session. Writes go through
// the two access facets handed out at construction: TurnAccess owns budget,
// day, history, and the minimum trackers; StageAccess owns the content
// slices the analysis pipeline replaces (dilemma, parameters, narrative
// text). Reads are available on Game itself.
type Game struct {
	mu sync.Mutex

	budget         int
	budgetTracking bool
	day            int
	totalDays      int
	supports       map[string]int
	corruption     int
	minimums       map[string]int
	history        []Turn
	topicCounts    map[string]int
	lastChoice     *Action

	dilemma         Dilemma
	parameters      []Parameter
	mirror          string
	news            string
	supportAnalysis string
	compass         string
}

// Settings holds the initial values for a new session.
type Settings struct {
	StartBudget    int
	BudgetTracking bool
	TotalDays      int
	Supports       map[string]int
}

// NewGame creates a session container and its two write facets. The facets
// are created exactly once; components receive only the facet matching the
// fields they are allowed to write.
func NewGame(s Settings) (*Game, *TurnAccess, *StageAccess) {
	supports := make(map[string]int, len(s.Supports))
	minimums := make(map[string]int, len(s.Supports))
	for name, v := range s.Supports {
		supports[name] = v
		minimums[name] = v
	}
	g := &Game{
		budget:         s.StartBudget,
		budgetTracking: s.BudgetTracking,
		day:            1,
		totalDays:      s.TotalDays,
		supports:       supports,
		minimums:       minimums,
		topicCounts:    make(map[string]int),
	}
	return g, &TurnAccess{g: g}, &StageAccess{g: g}
}

// #endregion game

// #region reads

// Budget returns the current budget.
func (g *Game) Budget() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.budget
}

// BudgetTracking reports whether budget deltas apply this session.
func (g *Game) BudgetTracking() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.budgetTracking
}

// Day returns the current day counter (1-based).
func (g *Game) Day() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.day
}

// TotalDays returns the session day bound.
func (g *Game) TotalDays() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.totalDays
}

// Support returns one named support percentage.
func (g *Game) Support(name string) (int, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	v, ok := g.supports[name]
	return v, ok
}

// Supports returns a copy of all support percentages.
func (g *Game) Supports() map[string]int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return copyInts(g.supports)
}

// Minimum returns the running minimum for one metric.
func (g *Game) Minimum(name string) (int, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	v, ok := g.minimums[name]
	return v, ok
}

// Minimums returns a copy of all running minimums.
func (g *Game) Minimums() map[string]int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return copyInts(g.minimums)
}

// Corruption returns the corruption level.
func (g *Game) Corruption() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.corruption
}

// History returns the append-only turn history. The returned slice is a
// copy; entries themselves are never mutated after append.
func (g *Game) History() []Turn {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]Turn, len(g.history))
	copy(out, g.history)
	return out
}

// LastChoice returns the most recently confirmed action, or nil on the
// first turn of a session.
func (g *Game) LastChoice() *Action {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.lastChoice == nil {
		return nil
	}
	c := *g.lastChoice
	return &c
}

// Dilemma returns the currently displayed dilemma.
func (g *Game) Dilemma() Dilemma {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.dilemma
}

// Parameters returns the current dynamic-consequence list.
func (g *Game) Parameters() []Parameter {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]Parameter, len(g.parameters))
	copy(out, g.parameters)
	return out
}

// Mirror returns the current mirror-advice text.
func (g *Game) Mirror() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.mirror
}

// News returns the current news-update text.
func (g *Game) News() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.news
}

// SupportAnalysis returns the current support-impact text.
func (g *Game) SupportAnalysis() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.supportAnalysis
}

// Compass returns the current value-compass text.
func (g *Game) Compass() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.compass
}

// TopicCounts returns a copy of the topic-frequency counters.
func (g *Game) TopicCounts() map[string]int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return copyInts(g.topicCounts)
}

// RecentTopics returns the topics of the last n history entries, most
// recent first.
func (g *Game) RecentTopics(n int) []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	var out []string
	for i := len(g.history) - 1; i >= 0 && len(out) < n; i-- {
		if t := g.history[i].Topic; t != "" {
			out = append(out, t)
		}
	}
	return out
}

// Snapshot captures day, supports, and the displayed dilemma before a turn
// advances. The mutator records this into history so the entry reflects
// what was actually answered.
func (g *Game) Snapshot() Snapshot {
	g.mu.Lock()
	defer g.mu.Unlock()
	return Snapshot{
		Day:      g.day,
		Supports: copyInts(g.supports),
		Dilemma:  g.dilemma,
	}
}

// #endregion reads

// #region turn-access

// TurnAccess is the facet that owns budget, day, history, minimum
// trackers, and the last-choice record. Only the turn mutator and session
// bootstrap hold one.
type TurnAccess struct {
	g *Game
}

// SetLastChoice records the confirmed action.
func (a *TurnAccess) SetLastChoice(choice Action) {
	a.g.mu.Lock()
	defer a.g.mu.Unlock()
	c := choice
	a.g.lastChoice = &c
}

// ApplyBudgetDelta adds the action cost to the budget. No-op when budget
// tracking is disabled for the session.
func (a *TurnAccess) ApplyBudgetDelta(delta int) {
	a.g.mu.Lock()
	defer a.g.mu.Unlock()
	if !a.g.budgetTracking {
		return
	}
	a.g.budget += delta
}

// RefreshMinimums lowers each tracked metric's running minimum to the
// snapshot value where the snapshot is lower. Minimums never rise here.
func (a *TurnAccess) RefreshMinimums(snap Snapshot) {
	a.g.mu.Lock()
	defer a.g.mu.Unlock()
	for name, v := range snap.Supports {
		cur, ok := a.g.minimums[name]
		if !ok || v < cur {
			a.g.minimums[name] = v
		}
	}
}

// AppendTurn appends one finalized history entry. History is append-only;
// there is no removal path outside a full session reset.
func (a *TurnAccess) AppendTurn(t Turn) {
	a.g.mu.Lock()
	defer a.g.mu.Unlock()
	a.g.history = append(a.g.history, t)
}

// AdvanceDay increments the day counter by exactly one.
func (a *TurnAccess) AdvanceDay() {
	a.g.mu.Lock()
	defer a.g.mu.Unlock()
	a.g.day++
}

// SetSupport writes one support percentage, clamped to [0, 100].
func (a *TurnAccess) SetSupport(name string, value int) error {
	a.g.mu.Lock()
	defer a.g.mu.Unlock()
	if _, ok := a.g.supports[name]; !ok {
		return fmt.Errorf("unknown support metric %q", name)
	}
	a.g.supports[name] = clampPct(value)
	return nil
}

// AdjustCorruption shifts the corruption level, floored at zero.
func (a *TurnAccess) AdjustCorruption(delta int) {
	a.g.mu.Lock()
	defer a.g.mu.Unlock()
	a.g.corruption += delta
	if a.g.corruption < 0 {
		a.g.corruption = 0
	}
}

// #endregion turn-access

// #region stage-access

// StageAccess is the facet handed to the analysis pipeline. Each stage
// writes only its own namespaced slice of session content.
type StageAccess struct {
	g *Game
}

// SetDilemma replaces the displayed dilemma wholesale and bumps the topic
// counter for variety tracking.
func (a *StageAccess) SetDilemma(d Dilemma) {
	a.g.mu.Lock()
	defer a.g.mu.Unlock()
	d.Degraded = false
	a.g.dilemma = d
	if d.Topic != "" {
		a.g.topicCounts[d.Topic]++
	}
}

// MarkDilemmaDegraded keeps the previous dilemma on screen after a failed
// generation, flagged so the UI can show it as stale.
func (a *StageAccess) MarkDilemmaDegraded() {
	a.g.mu.Lock()
	defer a.g.mu.Unlock()
	a.g.dilemma.Degraded = true
}

// SetParameters replaces the dynamic-consequence list.
func (a *StageAccess) SetParameters(params []Parameter) {
	a.g.mu.Lock()
	defer a.g.mu.Unlock()
	a.g.parameters = params
}

// SetMirror replaces the mirror-advice text.
func (a *StageAccess) SetMirror(text string) {
	a.g.mu.Lock()
	defer a.g.mu.Unlock()
	a.g.mirror = text
}

// SetNews replaces the news-update text.
func (a *StageAccess) SetNews(text string) {
	a.g.mu.Lock()
	defer a.g.mu.Unlock()
	a.g.news = text
}

// SetSupportAnalysis replaces the support-impact text.
func (a *StageAccess) SetSupportAnalysis(text string) {
	a.g.mu.Lock()
	defer a.g.mu.Unlock()
	a.g.supportAnalysis = text
}

// SetCompass replaces the value-compass text.
func (a *StageAccess) SetCompass(text string) {
	a.g.mu.Lock()
	defer a.g.mu.Unlock()
	a.g.compass = text
}

// #endregion stage-access

// #region helpers

func copyInts(m map[string]int) map[string]int {
	out := make(map[string]int, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func clampPct(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// #endregion helpers
