package narration

import (
	"log"
	"strings"
	"sync"
	"time"

	"github.com/Mutajon/aMAZEn-Politics-sub006/internal/clock"
)

// #region player

// Player is the playback backend. Play must not block; it calls onEnded
// once playback finishes and returns a cancel function that stops playback
// early. Playback backends that cannot signal completion may simply never
// call onEnded — the coordinator's fallback timer still makes progress.
type Player interface {
	Play(text string, onEnded func()) (cancel func(), err error)
}

// NopPlayer is a silent backend: it accepts playback and never signals
// completion, leaving the fallback timer to pace the sequence.
type NopPlayer struct{}

// Play implements Player.
func (NopPlayer) Play(string, func()) (func(), error) {
	return func() {}, nil
}

// #endregion player

// #region coordinator

// Coordinator synthesizes speech for newly revealed narrative text. One
// utterance at a time: preparing a new one disposes the previous.
type Coordinator struct {
	clk    clock.Clock
	player Player
	wpm    int

	mu     sync.Mutex
	active *Handle
}

// NewCoordinator creates a coordinator reading at wpm words per minute for
// the fallback estimate.
func NewCoordinator(clk clock.Clock, player Player, wpm int) *Coordinator {
	if wpm <= 0 {
		wpm = 150
	}
	return &Coordinator{clk: clk, player: player, wpm: wpm}
}

// Prepare builds a playback handle for text, disposing any active one.
func (c *Coordinator) Prepare(text string) *Handle {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.active != nil {
		c.active.Dispose()
	}
	h := &Handle{
		c:      c,
		text:   text,
		done:   make(chan struct{}),
		cancel: func() {},
	}
	c.active = h
	return h
}

// Stop disposes the active utterance. Calling Stop with nothing playing is
// a no-op.
func (c *Coordinator) Stop() {
	c.mu.Lock()
	h := c.active
	c.active = nil
	c.mu.Unlock()

	if h != nil {
		h.Dispose()
	}
}

// fallback estimates utterance length from word count, plus a buffer so a
// slightly slow voice does not get cut in half.
func (c *Coordinator) fallback(text string) time.Duration {
	words := len(strings.Fields(text))
	per := time.Duration(float64(words) / float64(c.wpm) * float64(time.Minute))
	return per + time.Second
}

// #endregion coordinator

// #region handle

// Handle is one prepared utterance. Done closes when playback ends, is
// cancelled, or the fallback timer fires — whichever happens first.
type Handle struct {
	c    *Coordinator
	text string

	mu       sync.Mutex
	started  bool
	disposed bool
	cancel   func()
	once     sync.Once
	done     chan struct{}
}

// Start begins playback and arms the fallback timer. A playback error is
// logged, not returned: the fallback timer still guarantees completion.
func (h *Handle) Start() {
	h.mu.Lock()
	if h.started || h.disposed {
		h.mu.Unlock()
		return
	}
	h.started = true
	h.mu.Unlock()

	cancel, err := h.c.player.Play(h.text, h.finish)
	if err != nil {
		log.Printf("[NARR] playback failed, falling back to timer: %v", err)
	} else if cancel != nil {
		h.mu.Lock()
		h.cancel = cancel
		h.mu.Unlock()
	}

	fallback := h.c.fallback(h.text)
	go func() {
		select {
		case <-h.c.clk.After(fallback):
			h.finish()
		case <-h.done:
		}
	}()
}

// Done closes when the utterance is finished or disposed.
func (h *Handle) Done() <-chan struct{} { return h.done }

// Dispose stops playback and marks the handle finished. Idempotent.
func (h *Handle) Dispose() {
	h.mu.Lock()
	h.disposed = true
	cancel := h.cancel
	h.mu.Unlock()

	cancel()
	h.finish()
}

// Disposed reports whether Dispose was called.
func (h *Handle) Disposed() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.disposed
}

func (h *Handle) finish() {
	h.once.Do(func() { close(h.done) })
}

// #endregion handle
