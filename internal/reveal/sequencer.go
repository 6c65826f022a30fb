package reveal

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/Mutajon/aMAZEn-Politics-sub006/internal/clock"
	"github.com/Mutajon/aMAZEn-Politics-sub006/internal/narration"
	"github.com/Mutajon/aMAZEn-Politics-sub006/internal/pipeline"
)

// #region states

// State names one step of the staged disclosure.
type State string

const (
	StateHidden     State = "hidden"
	StateSupport    State = "support"
	StateNews       State = "news"
	StateParameters State = "parameters"
	StateDilemma    State = "dilemma"
	StateMirror     State = "mirror"
	StateActions    State = "actions"
	StateComplete   State = "complete"
)

// order is the fixed reveal sequence between hidden and complete. The
// visible order never depends on which stage finished first.
var order = []State{
	StateSupport,
	StateNews,
	StateParameters,
	StateDilemma,
	StateMirror,
	StateActions,
}

// gatingStage maps a reveal state to the pipeline result that must settle
// before it may be entered. The actions list ships inside the dilemma
// payload, so both gate on the dilemma stage.
func gatingStage(s State) pipeline.Stage {
	switch s {
	case StateSupport:
		return pipeline.StageSupport
	case StateNews:
		return pipeline.StageNews
	case StateParameters:
		return pipeline.StageParameters
	case StateDilemma, StateActions:
		return pipeline.StageDilemma
	case StateMirror:
		return pipeline.StageMirror
	}
	return pipeline.StageDilemma
}

// #endregion states

// #region sink

// Sink receives reveal notifications; the UI layer implements it.
type Sink interface {
	Reveal(s State)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(State)

// Reveal implements Sink.
func (f SinkFunc) Reveal(s State) { f(s) }

// #endregion sink

// #region sequencer

// Sequencer discloses pipeline results in fixed order, paced by minimum
// dwell times. A stage is entered only once its gating result has settled
// AND its dwell since the previous transition has elapsed. Narration is
// started when the dilemma stage is entered but never gates progress.
type Sequencer struct {
	clk      clock.Clock
	dwell    func(State) time.Duration
	narrator *narration.Coordinator
	sink     Sink

	mu     sync.Mutex
	state  State
	cancel context.CancelFunc
	gen    int
}

// New creates a sequencer. dwell returns the minimum dwell per state;
// a nil dwell means no pacing (useful in replay).
func New(clk clock.Clock, dwell func(State) time.Duration, narrator *narration.Coordinator, sink Sink) *Sequencer {
	if dwell == nil {
		dwell = func(State) time.Duration { return 0 }
	}
	return &Sequencer{
		clk:      clk,
		dwell:    dwell,
		narrator: narrator,
		sink:     sink,
		state:    StateHidden,
	}
}

// Current returns the sequencer's state.
func (s *Sequencer) Current() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Begin starts a new reveal run over the given result set, cancelling any
// run in progress. narrativeText supplies the dilemma text to narrate at
// the moment the dilemma stage is entered. The returned channel closes
// when the run reaches complete; a cancelled run never closes it.
func (s *Sequencer) Begin(ctx context.Context, set *pipeline.Set, narrativeText func() string) <-chan struct{} {
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.gen++
	gen := s.gen
	s.state = StateHidden
	s.mu.Unlock()

	done := make(chan struct{})
	go s.run(runCtx, gen, set, narrativeText, done)
	return done
}

// Reset cancels the run in progress, discards pending stage waits and
// timers, stops narration, and returns the state to hidden. Called when a
// new turn is confirmed before the previous reveal completed.
func (s *Sequencer) Reset() {
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.gen++
	s.state = StateHidden
	s.mu.Unlock()

	if s.narrator != nil {
		s.narrator.Stop()
	}
}

// #endregion sequencer

// #region run

func (s *Sequencer) run(ctx context.Context, gen int, set *pipeline.Set, narrativeText func() string, done chan struct{}) {
	for _, st := range order {
		// Minimum dwell since the previous transition.
		if d := s.dwell(st); d > 0 {
			select {
			case <-ctx.Done():
				return
			case <-s.clk.After(d):
			}
		}
		// Completion gate: success or failure both open it.
		select {
		case <-ctx.Done():
			return
		case <-set.Result(gatingStage(st)).Done():
		}
		if !s.enter(ctx, gen, st, narrativeText) {
			return
		}
	}
	if s.enter(ctx, gen, StateComplete, nil) {
		close(done)
	}
}

// enter transitions to st unless this run was superseded. Returns false
// when the run is stale.
func (s *Sequencer) enter(ctx context.Context, gen int, st State, narrativeText func() string) bool {
	s.mu.Lock()
	if ctx.Err() != nil || gen != s.gen {
		s.mu.Unlock()
		return false
	}
	s.state = st
	s.mu.Unlock()

	log.Printf("[SEQ] reveal %s", st)
	if s.sink != nil {
		s.sink.Reveal(st)
	}

	if st == StateDilemma && s.narrator != nil && narrativeText != nil {
		if text := narrativeText(); text != "" {
			h := s.narrator.Prepare(text)
			h.Start()
		}
	}
	return true
}

// #endregion run
