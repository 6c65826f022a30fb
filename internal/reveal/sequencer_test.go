package reveal

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Mutajon/aMAZEn-Politics-sub006/internal/clock"
	"github.com/Mutajon/aMAZEn-Politics-sub006/internal/narration"
	"github.com/Mutajon/aMAZEn-Politics-sub006/internal/pipeline"
)

const testDwell = 500 * time.Millisecond

func newTestSequencer(clk clock.Clock) (*Sequencer, chan State) {
	reveals := make(chan State, 16)
	dwell := func(State) time.Duration { return testDwell }
	seq := New(clk, dwell, nil, SinkFunc(func(s State) { reveals <- s }))
	return seq, reveals
}

// expectReveal pumps the virtual clock until the wanted state is revealed.
func expectReveal(t *testing.T, clk *clock.Virtual, reveals chan State, want State) {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case got := <-reveals:
			if got != want {
				t.Fatalf("expected reveal %s, got %s", want, got)
			}
			return
		case <-deadline:
			t.Fatalf("timed out waiting for reveal %s", want)
		default:
			clk.Advance(testDwell)
			time.Sleep(time.Millisecond)
		}
	}
}

// expectNoReveal pumps the clock and asserts nothing is revealed.
func expectNoReveal(t *testing.T, clk *clock.Virtual, reveals chan State) {
	t.Helper()
	for i := 0; i < 20; i++ {
		clk.Advance(testDwell)
		time.Sleep(time.Millisecond)
	}
	select {
	case got := <-reveals:
		t.Fatalf("unexpected reveal %s", got)
	default:
	}
}

func TestRevealOrderIsFixedRegardlessOfCompletionOrder(t *testing.T) {
	clk := clock.NewVirtual(time.Unix(0, 0))
	seq, reveals := newTestSequencer(clk)
	set, settle := pipeline.NewManualSet()

	// Settle in scrambled order, every stage already done before Begin.
	settle(pipeline.StageMirror, nil)
	settle(pipeline.StageDilemma, nil)
	settle(pipeline.StageSupport, nil)
	settle(pipeline.StageCompass, nil)
	settle(pipeline.StageParameters, nil)
	settle(pipeline.StageNews, nil)

	done := seq.Begin(context.Background(), set, nil)

	for _, want := range []State{StateSupport, StateNews, StateParameters, StateDilemma, StateMirror, StateActions, StateComplete} {
		expectReveal(t, clk, reveals, want)
	}
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("done channel should close at complete")
	}
	if seq.Current() != StateComplete {
		t.Fatalf("expected complete, got %s", seq.Current())
	}
}

func TestStageWaitsForItsGate(t *testing.T) {
	clk := clock.NewVirtual(time.Unix(0, 0))
	seq, reveals := newTestSequencer(clk)
	set, settle := pipeline.NewManualSet()

	// Later stages are done; the first gate (support) is not.
	settle(pipeline.StageNews, nil)
	settle(pipeline.StageParameters, nil)

	seq.Begin(context.Background(), set, nil)
	expectNoReveal(t, clk, reveals)
	if seq.Current() != StateHidden {
		t.Fatalf("expected hidden while gate pending, got %s", seq.Current())
	}

	settle(pipeline.StageSupport, nil)
	expectReveal(t, clk, reveals, StateSupport)
	expectReveal(t, clk, reveals, StateNews)
	expectReveal(t, clk, reveals, StateParameters)

	// Dilemma gate still pending: sequence holds at parameters.
	expectNoReveal(t, clk, reveals)
	if seq.Current() != StateParameters {
		t.Fatalf("expected parameters, got %s", seq.Current())
	}
}

func TestFailedStageStillOpensItsGate(t *testing.T) {
	clk := clock.NewVirtual(time.Unix(0, 0))
	seq, reveals := newTestSequencer(clk)
	set, settle := pipeline.NewManualSet()

	settle(pipeline.StageSupport, nil)
	settle(pipeline.StageNews, errors.New("news generation failed"))
	settle(pipeline.StageParameters, nil)
	settle(pipeline.StageDilemma, errors.New("dilemma generation failed"))
	settle(pipeline.StageMirror, nil)
	settle(pipeline.StageCompass, nil)

	done := seq.Begin(context.Background(), set, nil)
	for _, want := range []State{StateSupport, StateNews, StateParameters, StateDilemma, StateMirror, StateActions, StateComplete} {
		expectReveal(t, clk, reveals, want)
	}
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sequence must complete despite stage failures")
	}
}

func TestDwellGatesAnAlreadySettledStage(t *testing.T) {
	clk := clock.NewVirtual(time.Unix(0, 0))
	seq, reveals := newTestSequencer(clk)
	set, settle := pipeline.NewManualSet()
	settle(pipeline.StageSupport, nil)

	seq.Begin(context.Background(), set, nil)

	// Result is done but the dwell has not elapsed.
	time.Sleep(5 * time.Millisecond)
	select {
	case got := <-reveals:
		t.Fatalf("revealed %s before dwell elapsed", got)
	default:
	}

	expectReveal(t, clk, reveals, StateSupport)
}

func TestResetDiscardsPendingRun(t *testing.T) {
	clk := clock.NewVirtual(time.Unix(0, 0))
	seq, reveals := newTestSequencer(clk)
	set, settle := pipeline.NewManualSet()
	settle(pipeline.StageSupport, nil)

	seq.Begin(context.Background(), set, nil)
	expectReveal(t, clk, reveals, StateSupport)

	seq.Reset()
	if seq.Current() != StateHidden {
		t.Fatalf("expected hidden after reset, got %s", seq.Current())
	}

	// Late completions from the cancelled run must not transition.
	settle(pipeline.StageNews, nil)
	settle(pipeline.StageParameters, nil)
	settle(pipeline.StageDilemma, nil)
	settle(pipeline.StageMirror, nil)
	settle(pipeline.StageCompass, nil)
	expectNoReveal(t, clk, reveals)
	if seq.Current() != StateHidden {
		t.Fatalf("stale run transitioned the FSM to %s", seq.Current())
	}
}

func TestBeginSupersedesPreviousRun(t *testing.T) {
	clk := clock.NewVirtual(time.Unix(0, 0))
	seq, reveals := newTestSequencer(clk)

	first, settleFirst := pipeline.NewManualSet()
	seq.Begin(context.Background(), first, nil)

	second, settleSecond := pipeline.NewManualSet()
	settleSecond(pipeline.StageSupport, nil)
	seq.Begin(context.Background(), second, nil)

	// Completions on the superseded set are ignored.
	settleFirst(pipeline.StageSupport, nil)
	settleFirst(pipeline.StageNews, nil)

	expectReveal(t, clk, reveals, StateSupport)
	if seq.Current() != StateSupport {
		t.Fatalf("expected support from the new run, got %s", seq.Current())
	}
	// The new run's news gate is still closed.
	expectNoReveal(t, clk, reveals)
}

func TestEnteringDilemmaStartsNarration(t *testing.T) {
	clk := clock.NewVirtual(time.Unix(0, 0))
	reveals := make(chan State, 16)

	played := make(chan string, 1)
	player := playerFunc(func(text string, _ func()) (func(), error) {
		played <- text
		return func() {}, nil
	})
	narrator := narration.NewCoordinator(clk, player, 150)

	seq := New(clk, func(State) time.Duration { return testDwell }, narrator,
		SinkFunc(func(s State) { reveals <- s }))

	set, settle := pipeline.NewManualSet()
	for _, st := range []pipeline.Stage{
		pipeline.StageSupport, pipeline.StageNews, pipeline.StageParameters,
		pipeline.StageDilemma, pipeline.StageMirror, pipeline.StageCompass,
	} {
		settle(st, nil)
	}

	seq.Begin(context.Background(), set, func() string { return "A storm gathers over the capital." })

	for _, want := range []State{StateSupport, StateNews, StateParameters, StateDilemma} {
		expectReveal(t, clk, reveals, want)
	}

	select {
	case text := <-played:
		if text != "A storm gathers over the capital." {
			t.Fatalf("unexpected narration text %q", text)
		}
	case <-time.After(time.Second):
		t.Fatal("narration never started on dilemma entry")
	}

	// Narration is not a gate: mirror and actions still reveal.
	expectReveal(t, clk, reveals, StateMirror)
	expectReveal(t, clk, reveals, StateActions)
}

// playerFunc adapts a function to narration.Player.
type playerFunc func(string, func()) (func(), error)

func (f playerFunc) Play(text string, onEnded func()) (func(), error) {
	return f(text, onEnded)
}
