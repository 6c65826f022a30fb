package pipeline

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/Mutajon/aMAZEn-Politics-sub006/internal/genclient"
	"github.com/Mutajon/aMAZEn-Politics-sub006/internal/state"
	"github.com/Mutajon/aMAZEn-Politics-sub006/internal/telemetry"
)

// #region profile

// Profile carries the session-constant fields the generator endpoints
// need alongside live game state.
type Profile struct {
	Role            string
	SystemName      string
	Holders         []string
	EnhancedContext string
	Debug           bool
}

// RunInput parameterizes one pipeline run.
type RunInput struct {
	// FirstTurn marks the session-bootstrap run: stages with no prior
	// choice to analyze settle immediately and only dilemma generation
	// goes to the network.
	FirstTurn bool
	// ActionText is the confirmed action's text, consumed by the stages
	// that analyze the choice itself.
	ActionText string
}

// #endregion profile

// #region pipeline

// Pipeline dispatches the turn's downstream generation requests. Stages
// are concurrent where independent and joined settle-all: a failed stage
// is logged and marked complete with an empty payload, and never aborts
// its siblings. Successful payloads land in the game container through
// the pipeline's StageAccess facet.
type Pipeline struct {
	svc     genclient.Service
	game    *state.Game
	access  *state.StageAccess
	sink    telemetry.Sink
	profile Profile

	// stageTimeout bounds each stage call; zero means no per-stage bound,
	// matching the shipped behavior where a hung call delays its stage.
	stageTimeout time.Duration
}

// New wires a pipeline.
func New(svc genclient.Service, game *state.Game, access *state.StageAccess, sink telemetry.Sink, profile Profile, stageTimeout time.Duration) *Pipeline {
	if sink == nil {
		sink = telemetry.Nop{}
	}
	return &Pipeline{
		svc:          svc,
		game:         game,
		access:       access,
		sink:         sink,
		profile:      profile,
		stageTimeout: stageTimeout,
	}
}

// Run dispatches all stages and returns immediately with the result set.
// Every stage eventually settles, so consumers can block on Result.Done
// without a liveness caveat (barring a hung remote call when no stage
// timeout is configured).
func (p *Pipeline) Run(ctx context.Context, in RunInput) *Set {
	set := newSet()

	if in.FirstTurn {
		// Nothing to analyze before the first choice: settle everything
		// except dilemma generation without a network call.
		for _, st := range []Stage{StageParameters, StageMirror, StageNews, StageSupport, StageCompass} {
			set.results[st].complete(nil)
		}
		go p.runStage(ctx, set.results[StageDilemma], p.dilemmaStage)
		return set
	}

	analysis := genclient.AnalysisRequest{
		ActionText: in.ActionText,
		Role:       p.profile.Role,
		Day:        p.game.Day(),
		Supports:   p.game.Supports(),
	}

	go p.runStage(ctx, set.results[StageParameters], p.parametersStage)
	go p.runStage(ctx, set.results[StageDilemma], p.dilemmaStage)
	go p.runStage(ctx, set.results[StageMirror], func(ctx context.Context) error {
		resp, err := p.svc.Mirror(ctx, analysis)
		if err != nil {
			return err
		}
		p.access.SetMirror(resp.Text)
		return nil
	})
	go p.runStage(ctx, set.results[StageNews], func(ctx context.Context) error {
		resp, err := p.svc.News(ctx, analysis)
		if err != nil {
			return err
		}
		p.access.SetNews(resp.Text)
		return nil
	})
	go p.runStage(ctx, set.results[StageSupport], func(ctx context.Context) error {
		resp, err := p.svc.SupportAnalysis(ctx, analysis)
		if err != nil {
			return err
		}
		p.access.SetSupportAnalysis(resp.Text)
		return nil
	})
	go p.runStage(ctx, set.results[StageCompass], func(ctx context.Context) error {
		resp, err := p.svc.Compass(ctx, analysis)
		if err != nil {
			return err
		}
		p.access.SetCompass(resp.Text)
		return nil
	})

	return set
}

// runStage executes one stage body and settles its result. Panics are
// caught and settled as failures so a bad stage can never stall the
// reveal sequence.
func (p *Pipeline) runStage(ctx context.Context, r *Result, body func(context.Context) error) {
	var err error
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("stage panic: %v", rec)
		}
		if err != nil {
			log.Printf("[PIPE] stage %s failed: %v", r.Stage, err)
			p.sink.Log("stage_failed", string(r.Stage), err.Error())
		}
		r.complete(err)
	}()

	if p.stageTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.stageTimeout)
		defer cancel()
	}
	err = body(ctx)
}

// #endregion pipeline

// #region stage-bodies

func (p *Pipeline) dilemmaStage(ctx context.Context) error {
	req := genclient.DilemmaRequest{
		Role:            p.profile.Role,
		SystemName:      p.profile.SystemName,
		Holders:         p.profile.Holders,
		Day:             p.game.Day(),
		TotalDays:       p.game.TotalDays(),
		Supports:        p.game.Supports(),
		EnhancedContext: p.profile.EnhancedContext,
		RecentTopics:    p.game.RecentTopics(5),
		TopicCounts:     p.game.TopicCounts(),
	}
	if last := p.game.LastChoice(); last != nil {
		req.LastChoice = last.Title
	}

	resp, err := p.svc.Dilemma(ctx, req)
	if err != nil {
		// Keep the previous dilemma on screen rather than leaving the
		// player without a next action.
		p.access.MarkDilemmaDegraded()
		return err
	}
	p.access.SetDilemma(state.Dilemma{
		Title:       resp.Title,
		Description: resp.Description,
		Actions:     resp.Actions,
		Topic:       resp.Topic,
	})
	return nil
}

func (p *Pipeline) parametersStage(ctx context.Context) error {
	req := genclient.ParametersRequest{
		PoliticalContext: p.profile.EnhancedContext,
		Debug:            p.profile.Debug,
	}
	if last := p.game.LastChoice(); last != nil {
		req.LastChoice = last.Title
	}

	resp, err := p.svc.DynamicParameters(ctx, req)
	if err != nil {
		return err
	}
	p.access.SetParameters(resp.Parameters)
	return nil
}

// #endregion stage-bodies
