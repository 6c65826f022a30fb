package replay

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Mutajon/aMAZEn-Politics-sub006/internal/clock"
	"github.com/Mutajon/aMAZEn-Politics-sub006/internal/config"
	"github.com/Mutajon/aMAZEn-Politics-sub006/internal/genclient"
	"github.com/Mutajon/aMAZEn-Politics-sub006/internal/goals"
	"github.com/Mutajon/aMAZEn-Politics-sub006/internal/orchestrator"
	"github.com/Mutajon/aMAZEn-Politics-sub006/internal/pipeline"
	"github.com/Mutajon/aMAZEn-Politics-sub006/internal/reveal"
	"github.com/Mutajon/aMAZEn-Politics-sub006/internal/state"
	"github.com/Mutajon/aMAZEn-Politics-sub006/internal/suggest"
	"github.com/Mutajon/aMAZEn-Politics-sub006/internal/turn"
)

// #region results

// Result captures the post-turn state after replaying one interaction.
type Result struct {
	TurnID       string
	Budget       int
	Day          int
	FailedStages []string
	Degraded     bool
}

// Summary aggregates a replay run.
type Summary struct {
	Turns         int
	StageFailures int
	FinalBudget   int
	FinalDay      int
}

// Summarize computes aggregate stats from replay results.
func Summarize(results []Result) Summary {
	s := Summary{Turns: len(results)}
	for _, r := range results {
		s.StageFailures += len(r.FailedStages)
	}
	if len(results) > 0 {
		last := results[len(results)-1]
		s.FinalBudget = last.Budget
		s.FinalDay = last.Day
	}
	return s
}

// #endregion results

// #region script-service

// scriptService replays recorded generation outcomes. The harness points
// it at the current interaction before each confirmation.
type scriptService struct {
	mu        sync.Mutex
	bootstrap DilemmaScript
	current   *Interaction
}

var errScripted = errors.New("scripted stage failure")

func (s *scriptService) setCurrent(in *Interaction) {
	s.mu.Lock()
	s.current = in
	s.mu.Unlock()
}

func (s *scriptService) fails(stage string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return false
	}
	for _, f := range s.current.FailStages {
		if f == stage {
			return true
		}
	}
	return false
}

func (s *scriptService) Dilemma(_ context.Context, _ genclient.DilemmaRequest) (genclient.DilemmaResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	script := &s.bootstrap
	if s.current != nil {
		if s.current.NextDilemma == nil {
			return genclient.DilemmaResponse{}, errScripted
		}
		script = s.current.NextDilemma
	}
	return genclient.DilemmaResponse{
		Title:       script.Title,
		Description: script.Description,
		Topic:       script.Topic,
		Actions:     script.Actions,
	}, nil
}

func (s *scriptService) DynamicParameters(_ context.Context, _ genclient.ParametersRequest) (genclient.ParametersResponse, error) {
	if s.fails("parameters") {
		return genclient.ParametersResponse{}, errScripted
	}
	return genclient.ParametersResponse{}, nil
}

func (s *scriptService) ValidateSuggestion(_ context.Context, _ genclient.ValidateRequest) (genclient.ValidateResponse, error) {
	return genclient.ValidateResponse{Valid: true}, nil
}

func (s *scriptService) analysis(stage string) (genclient.AnalysisResponse, error) {
	if s.fails(stage) {
		return genclient.AnalysisResponse{}, errScripted
	}
	return genclient.AnalysisResponse{Text: "(replayed)"}, nil
}

func (s *scriptService) Mirror(_ context.Context, _ genclient.AnalysisRequest) (genclient.AnalysisResponse, error) {
	return s.analysis("mirror")
}

func (s *scriptService) News(_ context.Context, _ genclient.AnalysisRequest) (genclient.AnalysisResponse, error) {
	return s.analysis("news")
}

func (s *scriptService) SupportAnalysis(_ context.Context, _ genclient.AnalysisRequest) (genclient.AnalysisResponse, error) {
	return s.analysis("support")
}

func (s *scriptService) Compass(_ context.Context, _ genclient.AnalysisRequest) (genclient.AnalysisResponse, error) {
	return s.analysis("compass")
}

func (s *scriptService) LogSummary(_ context.Context, _ genclient.SummaryRequest) error {
	return nil
}

var _ genclient.Service = (*scriptService)(nil)

// #endregion script-service

// #region run

// Run replays a fixture through the full orchestrator stack on a
// zero-dwell sequencer, returning one Result per interaction. Replay is
// deterministic: the scripted service answers every generation call and
// every reveal run is awaited before the next confirmation.
func Run(fx Fixture) ([]Result, error) {
	svc := &scriptService{bootstrap: fx.Bootstrap}

	game, turnAcc, stageAcc := state.NewGame(state.Settings{
		StartBudget:    fx.Settings.StartBudget,
		BudgetTracking: fx.Settings.BudgetTracking,
		TotalDays:      fx.Settings.TotalDays,
		Supports:       fx.Settings.Supports,
	})
	ev := goals.NewEvaluator(game, nil)
	mutator := turn.NewMutator(game, turnAcc, ev, nil)
	pipe := pipeline.New(svc, game, stageAcc, nil, pipeline.Profile{}, 0)
	seq := reveal.New(clock.Real{}, nil, nil, nil)
	validator := suggest.NewValidator(svc, config.Default().ValidateTimeout)
	orch := orchestrator.New(config.Default(), game, mutator, pipe, seq, validator, nil)

	ctx := context.Background()
	if err := awaitReveal(orch.Bootstrap(ctx)); err != nil {
		return nil, fmt.Errorf("bootstrap: %w", err)
	}

	results := make([]Result, 0, len(fx.Interactions))
	for i := range fx.Interactions {
		in := &fx.Interactions[i]

		// Stand-in for the recorded session's support animations.
		for name, v := range in.SupportShifts {
			if err := turnAcc.SetSupport(name, v); err != nil {
				return nil, fmt.Errorf("turn %s: %w", in.TurnID, err)
			}
		}

		svc.setCurrent(in)
		done, err := orch.ConfirmAction(ctx, in.ActionID)
		if err != nil {
			return nil, fmt.Errorf("turn %s: %w", in.TurnID, err)
		}
		if err := awaitReveal(done); err != nil {
			return nil, fmt.Errorf("turn %s: %w", in.TurnID, err)
		}

		var failed []string
		for _, f := range in.FailStages {
			failed = append(failed, f)
		}
		if in.NextDilemma == nil {
			failed = append(failed, "dilemma")
		}
		results = append(results, Result{
			TurnID:       in.TurnID,
			Budget:       game.Budget(),
			Day:          game.Day(),
			FailedStages: failed,
			Degraded:     game.Dilemma().Degraded,
		})
	}
	return results, nil
}

func awaitReveal(done <-chan struct{}) error {
	select {
	case <-done:
		return nil
	case <-time.After(30 * time.Second):
		return errors.New("reveal run never completed")
	}
}

// #endregion run
