package narration

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/Mutajon/aMAZEn-Politics-sub006/internal/clock"
)

// recordingPlayer captures Play calls and lets tests fire onEnded manually.
type recordingPlayer struct {
	texts     []string
	onEnded   func()
	cancelled int
	err       error
}

func (p *recordingPlayer) Play(text string, onEnded func()) (func(), error) {
	if p.err != nil {
		return nil, p.err
	}
	p.texts = append(p.texts, text)
	p.onEnded = onEnded
	return func() { p.cancelled++ }, nil
}

func TestStopOnIdleCoordinatorIsNoOp(t *testing.T) {
	c := NewCoordinator(clock.NewVirtual(time.Unix(0, 0)), NopPlayer{}, 150)
	// Must not panic.
	c.Stop()
	c.Stop()
}

func TestPlaybackEndedClosesDone(t *testing.T) {
	player := &recordingPlayer{}
	c := NewCoordinator(clock.NewVirtual(time.Unix(0, 0)), player, 150)

	h := c.Prepare("The council convenes at dawn.")
	h.Start()

	select {
	case <-h.Done():
		t.Fatal("done before playback ended")
	default:
	}

	player.onEnded()
	select {
	case <-h.Done():
	case <-time.After(time.Second):
		t.Fatal("done not closed after playback ended")
	}
}

func TestFallbackTimerFiresWhenEndedSignalNeverArrives(t *testing.T) {
	clk := clock.NewVirtual(time.Unix(0, 0))
	c := NewCoordinator(clk, NopPlayer{}, 150)

	// 150 words at 150 wpm = 1 minute, plus the 1s buffer.
	text := strings.Repeat("word ", 150)
	h := c.Prepare(text)
	h.Start()

	// Give the fallback goroutine a moment to arm its timer.
	deadline := time.Now().Add(time.Second)
	for clk.Pending() == 0 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}

	clk.Advance(59 * time.Second)
	select {
	case <-h.Done():
		t.Fatal("fallback fired early")
	default:
	}

	clk.Advance(2 * time.Second)
	select {
	case <-h.Done():
	case <-time.After(time.Second):
		t.Fatal("fallback timer never fired")
	}
}

func TestPlaybackErrorStillCompletesViaFallback(t *testing.T) {
	clk := clock.NewVirtual(time.Unix(0, 0))
	player := &recordingPlayer{err: errors.New("decode failure")}
	c := NewCoordinator(clk, player, 150)

	h := c.Prepare("short line")
	h.Start()

	deadline := time.Now().Add(time.Second)
	for clk.Pending() == 0 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}

	clk.Advance(5 * time.Second)
	select {
	case <-h.Done():
	case <-time.After(time.Second):
		t.Fatal("handle never completed after playback error")
	}
}

func TestPrepareDisposesPreviousHandle(t *testing.T) {
	player := &recordingPlayer{}
	c := NewCoordinator(clock.NewVirtual(time.Unix(0, 0)), player, 150)

	first := c.Prepare("first")
	first.Start()
	second := c.Prepare("second")

	if !first.Disposed() {
		t.Fatal("first handle should be disposed")
	}
	if player.cancelled != 1 {
		t.Fatalf("expected 1 cancel, got %d", player.cancelled)
	}
	select {
	case <-first.Done():
	default:
		t.Fatal("disposed handle should be done")
	}
	if second.Disposed() {
		t.Fatal("second handle should be live")
	}
}

func TestDisposeIsIdempotent(t *testing.T) {
	c := NewCoordinator(clock.NewVirtual(time.Unix(0, 0)), NopPlayer{}, 150)
	h := c.Prepare("text")
	h.Dispose()
	h.Dispose()
	if !h.Disposed() {
		t.Fatal("expected disposed")
	}
}
