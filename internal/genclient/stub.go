package genclient

import "context"

// #region stub

// Stub is a scriptable in-memory Service for tests and offline play.
// Unset functions return zero values and no error.
type Stub struct {
	DilemmaFunc           func(ctx context.Context, req DilemmaRequest) (DilemmaResponse, error)
	DynamicParametersFunc func(ctx context.Context, req ParametersRequest) (ParametersResponse, error)
	ValidateFunc          func(ctx context.Context, req ValidateRequest) (ValidateResponse, error)
	MirrorFunc            func(ctx context.Context, req AnalysisRequest) (AnalysisResponse, error)
	NewsFunc              func(ctx context.Context, req AnalysisRequest) (AnalysisResponse, error)
	SupportAnalysisFunc   func(ctx context.Context, req AnalysisRequest) (AnalysisResponse, error)
	CompassFunc           func(ctx context.Context, req AnalysisRequest) (AnalysisResponse, error)
	LogSummaryFunc        func(ctx context.Context, req SummaryRequest) error
}

// Dilemma implements Service.
func (s *Stub) Dilemma(ctx context.Context, req DilemmaRequest) (DilemmaResponse, error) {
	if s.DilemmaFunc == nil {
		return DilemmaResponse{}, nil
	}
	return s.DilemmaFunc(ctx, req)
}

// DynamicParameters implements Service.
func (s *Stub) DynamicParameters(ctx context.Context, req ParametersRequest) (ParametersResponse, error) {
	if s.DynamicParametersFunc == nil {
		return ParametersResponse{}, nil
	}
	return s.DynamicParametersFunc(ctx, req)
}

// ValidateSuggestion implements Service.
func (s *Stub) ValidateSuggestion(ctx context.Context, req ValidateRequest) (ValidateResponse, error) {
	if s.ValidateFunc == nil {
		return ValidateResponse{Valid: true}, nil
	}
	return s.ValidateFunc(ctx, req)
}

// Mirror implements Service.
func (s *Stub) Mirror(ctx context.Context, req AnalysisRequest) (AnalysisResponse, error) {
	if s.MirrorFunc == nil {
		return AnalysisResponse{}, nil
	}
	return s.MirrorFunc(ctx, req)
}

// News implements Service.
func (s *Stub) News(ctx context.Context, req AnalysisRequest) (AnalysisResponse, error) {
	if s.NewsFunc == nil {
		return AnalysisResponse{}, nil
	}
	return s.NewsFunc(ctx, req)
}

// SupportAnalysis implements Service.
func (s *Stub) SupportAnalysis(ctx context.Context, req AnalysisRequest) (AnalysisResponse, error) {
	if s.SupportAnalysisFunc == nil {
		return AnalysisResponse{}, nil
	}
	return s.SupportAnalysisFunc(ctx, req)
}

// Compass implements Service.
func (s *Stub) Compass(ctx context.Context, req AnalysisRequest) (AnalysisResponse, error) {
	if s.CompassFunc == nil {
		return AnalysisResponse{}, nil
	}
	return s.CompassFunc(ctx, req)
}

// LogSummary implements Service.
func (s *Stub) LogSummary(ctx context.Context, req SummaryRequest) error {
	if s.LogSummaryFunc == nil {
		return nil
	}
	return s.LogSummaryFunc(ctx, req)
}

var _ Service = (*Stub)(nil)

// #endregion stub
