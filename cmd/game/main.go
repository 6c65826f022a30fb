package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/Mutajon/aMAZEn-Politics-sub006/internal/clock"
	"github.com/Mutajon/aMAZEn-Politics-sub006/internal/config"
	"github.com/Mutajon/aMAZEn-Politics-sub006/internal/genclient"
	"github.com/Mutajon/aMAZEn-Politics-sub006/internal/goals"
	"github.com/Mutajon/aMAZEn-Politics-sub006/internal/narration"
	"github.com/Mutajon/aMAZEn-Politics-sub006/internal/orchestrator"
	"github.com/Mutajon/aMAZEn-Politics-sub006/internal/pipeline"
	"github.com/Mutajon/aMAZEn-Politics-sub006/internal/reveal"
	"github.com/Mutajon/aMAZEn-Politics-sub006/internal/state"
	"github.com/Mutajon/aMAZEn-Politics-sub006/internal/suggest"
	"github.com/Mutajon/aMAZEn-Politics-sub006/internal/telemetry"
	"github.com/Mutajon/aMAZEn-Politics-sub006/internal/turn"
)

// #region main
func main() {
	cfg := config.Default()
	if path := os.Getenv("POLITICS_CONFIG"); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			log.Fatalf("failed to load config %s: %v", path, err)
		}
		cfg = loaded
	}
	cfg = config.FromEnv(cfg)

	var svc genclient.Service
	if os.Getenv("POLITICS_OFFLINE") == "1" {
		log.Println("No generation service configured for this run, using canned content...")
		svc = offlineService()
	} else {
		svc = genclient.NewClient(cfg.ServiceURL)
	}

	game, turnAcc, stageAcc := state.NewGame(state.Settings{
		StartBudget:    cfg.StartBudget,
		BudgetTracking: cfg.BudgetTracking,
		TotalDays:      cfg.TotalDays,
		Supports:       cfg.Supports,
	})

	logger, err := telemetry.NewLogger(cfg.DBPath, game.Day)
	if err != nil {
		log.Fatalf("failed to open telemetry store: %v", err)
	}
	defer logger.Close()

	sessionGoals := make([]goals.Goal, 0, len(cfg.Goals))
	for _, def := range cfg.Goals {
		sessionGoals = append(sessionGoals, goals.Goal{
			ID:        def.ID,
			Label:     def.Label,
			Metric:    def.Metric,
			Kind:      goals.Kind(def.Kind),
			Threshold: def.Threshold,
		})
	}
	evaluator := goals.NewEvaluator(game, sessionGoals)

	mutator := turn.NewMutator(game, turnAcc, evaluator, logger)
	pipe := pipeline.New(svc, game, stageAcc, logger, pipeline.Profile{
		Role:       cfg.Role,
		SystemName: cfg.SystemName,
	}, cfg.StageTimeout)

	narrator := narration.NewCoordinator(clock.Real{}, narration.NopPlayer{}, cfg.NarrationWPM)
	seq := reveal.New(clock.Real{},
		func(s reveal.State) time.Duration { return cfg.Dwell(string(s)) },
		narrator,
		reveal.SinkFunc(func(s reveal.State) { printReveal(game, s) }),
	)

	validator := suggest.NewValidator(svc, cfg.ValidateTimeout)
	orch := orchestrator.New(cfg, game, mutator, pipe, seq, validator, logger)

	fmt.Printf("aMAZEn Politics — %s of the %s\n", cfg.Role, cfg.SystemName)
	fmt.Printf("  Budget: %d | Days: %d | DB: %s\n", cfg.StartBudget, cfg.TotalDays, cfg.DBPath)
	fmt.Println("Commands: <action-id>, say <text>, status, history, goals, quit")

	ctx := context.Background()
	<-orch.Bootstrap(ctx)

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "quit" || line == "exit" {
			break
		}

		switch {
		case line == "status":
			printStatus(game)
		case line == "history":
			printHistory(game)
		case line == "goals":
			printGoals(evaluator.Evaluate())
		case strings.HasPrefix(line, "say "):
			handleSuggestion(ctx, orch, strings.TrimPrefix(line, "say "))
		default:
			handleAction(ctx, orch, line)
		}

		if game.Day() > game.TotalDays() {
			fmt.Println("The term is over.")
			break
		}
	}

	logger.PostSummary(svc, game.Day(), sessionSummary(game))
}

// #endregion main

// #region commands

func handleAction(ctx context.Context, orch *orchestrator.Orchestrator, actionID string) {
	done, err := orch.ConfirmAction(ctx, actionID)
	if err != nil {
		log.Printf("confirm error: %v", err)
		return
	}
	<-done
}

func handleSuggestion(ctx context.Context, orch *orchestrator.Orchestrator, text string) {
	res, err := orch.ConfirmSuggestion(ctx, text)
	if err != nil {
		log.Printf("suggestion error: %v", err)
		return
	}
	if res.Rejected {
		fmt.Printf("Rejected: %s\n", res.Reason)
		return
	}
	<-res.Done
}

// #endregion commands

// #region output

func printReveal(game *state.Game, s reveal.State) {
	switch s {
	case reveal.StateSupport:
		if txt := game.SupportAnalysis(); txt != "" {
			fmt.Printf("\n[support] %s\n", txt)
		}
		printSupports(game)
	case reveal.StateNews:
		if txt := game.News(); txt != "" {
			fmt.Printf("[news] %s\n", txt)
		}
	case reveal.StateParameters:
		for _, p := range game.Parameters() {
			fmt.Printf("[consequence] %s %s\n", p.Icon, p.Text)
		}
	case reveal.StateDilemma:
		d := game.Dilemma()
		if d.Degraded {
			fmt.Println("(the situation has not moved on)")
		}
		fmt.Printf("\n== Day %d: %s ==\n%s\n", game.Day(), d.Title, d.Description)
	case reveal.StateMirror:
		if txt := game.Mirror(); txt != "" {
			fmt.Printf("[mirror] %s\n", txt)
		}
	case reveal.StateActions:
		for _, a := range game.Dilemma().Actions {
			fmt.Printf("  [%s] %s (cost %d)\n", a.ID, a.Title, a.Cost)
		}
	}
}

func printStatus(game *state.Game) {
	fmt.Printf("Day %d/%d | Budget %d\n", game.Day(), game.TotalDays(), game.Budget())
	printSupports(game)
}

func printSupports(game *state.Game) {
	supports := game.Supports()
	names := make([]string, 0, len(supports))
	for name := range supports {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("  %s: %d%%\n", name, supports[name])
	}
}

func printHistory(game *state.Game) {
	for _, t := range game.History() {
		fmt.Printf("Day %d: %s -> %s\n", t.Day, t.DilemmaTitle, t.Choice.Title)
	}
}

func printGoals(statuses []goals.Status) {
	for _, s := range statuses {
		mark := " "
		switch {
		case s.Failed:
			mark = "x"
		case s.Met:
			mark = "v"
		}
		fmt.Printf("[%s] %s (%d)\n", mark, s.Label, s.Value)
	}
}

func sessionSummary(game *state.Game) string {
	return fmt.Sprintf("days played: %d, final budget: %d", len(game.History()), game.Budget())
}

// #endregion output

// #region offline

// offlineService returns canned content so the loop can run without a
// generation backend.
func offlineService() genclient.Service {
	day := 0
	scripts := []genclient.DilemmaResponse{
		{
			Title:       "The Market Square Protest",
			Description: "Vendors refuse the new stall tax and block the square.",
			Topic:       "taxes",
			Actions: []state.Action{
				{ID: "a1", Title: "Repeal the stall tax", Cost: -100},
				{ID: "a2", Title: "Send inspectors to negotiate", Cost: -30},
				{ID: "a3", Title: "Clear the square by decree", Cost: 0},
			},
		},
		{
			Title:       "The Broken Aqueduct",
			Description: "The east district has been without water for two days.",
			Topic:       "infrastructure",
			Actions: []state.Action{
				{ID: "a1", Title: "Emergency repair crews", Cost: -200},
				{ID: "a2", Title: "Ration water citywide", Cost: 0},
			},
		},
	}
	return &genclient.Stub{
		DilemmaFunc: func(_ context.Context, _ genclient.DilemmaRequest) (genclient.DilemmaResponse, error) {
			resp := scripts[day%len(scripts)]
			day++
			return resp, nil
		},
		DynamicParametersFunc: func(_ context.Context, _ genclient.ParametersRequest) (genclient.ParametersResponse, error) {
			return genclient.ParametersResponse{Parameters: []state.Parameter{
				{ID: "p1", Icon: "~", Text: "The city watches your next move.", Tone: "neutral"},
			}}, nil
		},
	}
}

// #endregion offline
