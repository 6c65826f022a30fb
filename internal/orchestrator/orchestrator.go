package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"

	"github.com/Mutajon/aMAZEn-Politics-sub006/internal/config"
	"github.com/Mutajon/aMAZEn-Politics-sub006/internal/pipeline"
	"github.com/Mutajon/aMAZEn-Politics-sub006/internal/reveal"
	"github.com/Mutajon/aMAZEn-Politics-sub006/internal/state"
	"github.com/Mutajon/aMAZEn-Politics-sub006/internal/suggest"
	"github.com/Mutajon/aMAZEn-Politics-sub006/internal/telemetry"
	"github.com/Mutajon/aMAZEn-Politics-sub006/internal/turn"
)

// #region errors

var (
	// ErrUnknownAction means the confirmed id is not on the current
	// dilemma.
	ErrUnknownAction = errors.New("unknown action for the current dilemma")
	// ErrConfirmFailed marks a failed confirmation step after an accepted
	// suggestion. Fail-closed: the submission lock is NOT released, the
	// player sees a terminal error, and recovery is external. This trades
	// availability for never double-applying budget effects.
	ErrConfirmFailed = errors.New("confirmation failed; submission flow stays locked")
)

// #endregion errors

// #region orchestrator

// Orchestrator is the turn-advancement coordinator: it validates and
// locks submissions, applies once-only state consequences, dispatches the
// analysis pipeline, and hands the results to the reveal sequencer.
type Orchestrator struct {
	cfg       config.Config
	game      *state.Game
	mutator   *turn.Mutator
	pipe      *pipeline.Pipeline
	seq       *reveal.Sequencer
	validator *suggest.Validator
	sink      telemetry.Sink
}

// New wires the orchestrator from its collaborators.
func New(cfg config.Config, game *state.Game, mutator *turn.Mutator, pipe *pipeline.Pipeline, seq *reveal.Sequencer, validator *suggest.Validator, sink telemetry.Sink) *Orchestrator {
	if sink == nil {
		sink = telemetry.Nop{}
	}
	return &Orchestrator{
		cfg:       cfg,
		game:      game,
		mutator:   mutator,
		pipe:      pipe,
		seq:       seq,
		validator: validator,
		sink:      sink,
	}
}

// Game exposes the session container for read-only UI consumption.
func (o *Orchestrator) Game() *state.Game { return o.game }

// Sequencer exposes the reveal FSM for UI state queries.
func (o *Orchestrator) Sequencer() *reveal.Sequencer { return o.seq }

// #endregion orchestrator

// #region bootstrap

// Bootstrap runs the first-turn path: no prior choice exists, so only
// dilemma generation touches the network and the remaining stages settle
// immediately. Returns the reveal-completion channel.
func (o *Orchestrator) Bootstrap(ctx context.Context) <-chan struct{} {
	log.Printf("[ORCH] bootstrap day=%d", o.game.Day())
	set := o.pipe.Run(ctx, pipeline.RunInput{FirstTurn: true})
	done := o.seq.Begin(ctx, set, o.dilemmaText)
	o.validator.Lock().Release()
	o.sink.Log("session_started", "", "")
	return done
}

// #endregion bootstrap

// #region confirm-action

// ConfirmAction finalizes one of the dilemma's canned actions and starts
// the next turn's pipeline and reveal run.
func (o *Orchestrator) ConfirmAction(ctx context.Context, actionID string) (<-chan struct{}, error) {
	var selected *state.Action
	for _, a := range o.game.Dilemma().Actions {
		if a.ID == actionID {
			sel := a
			selected = &sel
			break
		}
	}
	if selected == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownAction, actionID)
	}
	return o.confirm(ctx, *selected)
}

// #endregion confirm-action

// #region confirm-suggestion

// SuggestionResult is the outcome of a suggestion submission. On
// rejection, Reason carries the judge's wording for verbatim display and
// Done is nil. On acceptance, Done is the reveal-completion channel.
type SuggestionResult struct {
	Rejected bool
	Reason   string
	Done     <-chan struct{}
}

// ConfirmSuggestion validates a free-text action and, if accepted,
// finalizes it. The submission lock spans the whole flow: released on
// rejection or connection error inside the validator, held through
// acceptance, and deliberately left held if the confirmation step fails
// (see ErrConfirmFailed).
func (o *Orchestrator) ConfirmSuggestion(ctx context.Context, text string) (SuggestionResult, error) {
	d := o.game.Dilemma()
	outcome, err := o.validator.Validate(ctx, text,
		suggest.DilemmaContext{Title: d.Title, Description: d.Description},
		suggest.RoleContext{Era: o.cfg.Era, SettingType: o.cfg.SystemName, Year: o.cfg.Year},
	)
	if err != nil {
		// Connection error or lock contention; the validator has already
		// handled its release points.
		return SuggestionResult{}, err
	}
	if !outcome.Valid {
		o.sink.Log("suggestion_rejected", "", outcome.Reason)
		return SuggestionResult{Rejected: true, Reason: outcome.Reason}, nil
	}

	action := state.Action{
		ID:      "suggestion-" + uuid.NewString(),
		Title:   strings.TrimSpace(text),
		Summary: "player suggestion",
		Cost:    o.cfg.SuggestionCost,
	}
	done, err := o.confirm(ctx, action)
	if err != nil {
		// Non-release point: the lock stays held so a retry cannot
		// double-apply the budget delta. The "validating" indicator stays
		// on until external recovery.
		return SuggestionResult{}, err
	}
	return SuggestionResult{Done: done}, nil
}

// #endregion confirm-suggestion

// #region confirm

// confirm is the shared confirmation step: cancel any reveal in progress,
// apply state consequences exactly once, dispatch the pipeline, start the
// reveal run, and reopen the suggestion flow for the new turn.
func (o *Orchestrator) confirm(ctx context.Context, action state.Action) (<-chan struct{}, error) {
	o.seq.Reset()

	if err := o.mutator.FinalizeTurn(action); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfirmFailed, err)
	}

	// Budget and history are settled before any generation is dispatched.
	set := o.pipe.Run(ctx, pipeline.RunInput{ActionText: action.Title})
	done := o.seq.Begin(ctx, set, o.dilemmaText)

	// The new turn is open: reset the submission lock.
	o.validator.Lock().Release()
	o.sink.Log("action_confirmed", action.ID, action.Title)
	return done, nil
}

// dilemmaText supplies the narration text at the moment the dilemma
// stage is revealed, so it reads the freshly generated content.
func (o *Orchestrator) dilemmaText() string {
	return o.game.Dilemma().Description
}

// #endregion confirm
