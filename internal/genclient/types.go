package genclient

import (
	"context"

	"github.com/Mutajon/aMAZEn-Politics-sub006/internal/state"
)

// #region requests

// DilemmaRequest carries the full game context the generator needs to
// write the next day's scenario.
type DilemmaRequest struct {
	Role            string         `json:"role"`
	SystemName      string         `json:"systemName"`
	Holders         []string       `json:"holders"`
	CompassValues   map[string]int `json:"compassValues,omitempty"`
	Day             int            `json:"day"`
	TotalDays       int            `json:"totalDays"`
	Supports        map[string]int `json:"supports"`
	EnhancedContext string         `json:"enhancedContext,omitempty"`
	LastChoice      string         `json:"lastChoice,omitempty"`
	RecentTopics    []string       `json:"recentTopics,omitempty"`
	TopicCounts     map[string]int `json:"topicCounts,omitempty"`
}

// DilemmaResponse is the generated scenario for one turn.
type DilemmaResponse struct {
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Actions     []state.Action `json:"actions"`
	Topic       string         `json:"topic"`
}

// ParametersRequest asks for dynamic-consequence parameters after a choice.
type ParametersRequest struct {
	LastChoice       string `json:"lastChoice"`
	PoliticalContext string `json:"politicalContext,omitempty"`
	Debug            bool   `json:"debug,omitempty"`
}

// ParametersResponse lists the generated consequence parameters.
type ParametersResponse struct {
	Parameters []state.Parameter `json:"parameters"`
}

// ValidateRequest asks the judge whether a free-text suggestion is a
// plausible action for the current dilemma and setting.
type ValidateRequest struct {
	Text        string `json:"text"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Era         string `json:"era,omitempty"`
	SettingType string `json:"settingType,omitempty"`
	Year        int    `json:"year,omitempty"`
}

// ValidateResponse carries the judge's verdict. Reason is shown verbatim
// to the player on rejection.
type ValidateResponse struct {
	Valid  bool   `json:"valid"`
	Reason string `json:"reason,omitempty"`
}

// AnalysisRequest is the shared request shape for the narrative stages
// (mirror, news, support impact, value compass).
type AnalysisRequest struct {
	ActionText string         `json:"actionText,omitempty"`
	Role       string         `json:"role,omitempty"`
	Day        int            `json:"day"`
	Supports   map[string]int `json:"supports,omitempty"`
}

// AnalysisResponse carries one generated narrative text.
type AnalysisResponse struct {
	Text string `json:"text"`
}

// SummaryRequest is the fire-and-forget session telemetry payload.
type SummaryRequest struct {
	SessionID string `json:"sessionId"`
	Day       int    `json:"day"`
	Summary   string `json:"summary"`
}

// #endregion requests

// #region service

// Service is the generation backend consumed by the turn pipeline. The
// production implementation is Client; tests inject a stub.
type Service interface {
	Dilemma(ctx context.Context, req DilemmaRequest) (DilemmaResponse, error)
	DynamicParameters(ctx context.Context, req ParametersRequest) (ParametersResponse, error)
	ValidateSuggestion(ctx context.Context, req ValidateRequest) (ValidateResponse, error)
	Mirror(ctx context.Context, req AnalysisRequest) (AnalysisResponse, error)
	News(ctx context.Context, req AnalysisRequest) (AnalysisResponse, error)
	SupportAnalysis(ctx context.Context, req AnalysisRequest) (AnalysisResponse, error)
	Compass(ctx context.Context, req AnalysisRequest) (AnalysisResponse, error)
	LogSummary(ctx context.Context, req SummaryRequest) error
}

// #endregion service
