package genclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// #region client-struct

// Client talks JSON over HTTP(S) to the generation service.
type Client struct {
	baseURL string
	http    *http.Client
}

// #endregion client-struct

// #region constructor

// NewClient creates a client for the generation service at baseURL.
// Per-call deadlines come from the caller's context; the transport itself
// carries no timeout.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{},
	}
}

// NewClientWithHTTP creates a client with an injected http.Client.
// Used for testing with httptest servers.
func NewClientWithHTTP(baseURL string, hc *http.Client) *Client {
	return &Client{baseURL: baseURL, http: hc}
}

// #endregion constructor

// #region post

// post marshals req, POSTs it to path, and decodes the response into out.
// A non-2xx status is an error; out may be nil for fire-and-forget calls.
func (c *Client) post(ctx context.Context, path string, req, out any) error {
	body, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", path, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build %s: %w", path, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return fmt.Errorf("post %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return fmt.Errorf("post %s: status %d: %s", path, resp.StatusCode, snippet)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

// #endregion post

// #region endpoints

// Dilemma requests the next day's scenario.
func (c *Client) Dilemma(ctx context.Context, req DilemmaRequest) (DilemmaResponse, error) {
	var out DilemmaResponse
	if err := c.post(ctx, "/dilemma", req, &out); err != nil {
		return DilemmaResponse{}, err
	}
	return out, nil
}

// DynamicParameters requests consequence parameters for the last choice.
func (c *Client) DynamicParameters(ctx context.Context, req ParametersRequest) (ParametersResponse, error) {
	var out ParametersResponse
	if err := c.post(ctx, "/dynamic-parameters", req, &out); err != nil {
		return ParametersResponse{}, err
	}
	return out, nil
}

// ValidateSuggestion asks the judge service to vet a free-text action.
func (c *Client) ValidateSuggestion(ctx context.Context, req ValidateRequest) (ValidateResponse, error) {
	var out ValidateResponse
	if err := c.post(ctx, "/validate-suggestion", req, &out); err != nil {
		return ValidateResponse{}, err
	}
	return out, nil
}

// Mirror requests the narrative mirror advice.
func (c *Client) Mirror(ctx context.Context, req AnalysisRequest) (AnalysisResponse, error) {
	var out AnalysisResponse
	if err := c.post(ctx, "/mirror", req, &out); err != nil {
		return AnalysisResponse{}, err
	}
	return out, nil
}

// News requests the news update.
func (c *Client) News(ctx context.Context, req AnalysisRequest) (AnalysisResponse, error) {
	var out AnalysisResponse
	if err := c.post(ctx, "/news", req, &out); err != nil {
		return AnalysisResponse{}, err
	}
	return out, nil
}

// SupportAnalysis requests the support-impact analysis.
func (c *Client) SupportAnalysis(ctx context.Context, req AnalysisRequest) (AnalysisResponse, error) {
	var out AnalysisResponse
	if err := c.post(ctx, "/support-analysis", req, &out); err != nil {
		return AnalysisResponse{}, err
	}
	return out, nil
}

// Compass requests the value-compass analysis.
func (c *Client) Compass(ctx context.Context, req AnalysisRequest) (AnalysisResponse, error) {
	var out AnalysisResponse
	if err := c.post(ctx, "/compass", req, &out); err != nil {
		return AnalysisResponse{}, err
	}
	return out, nil
}

// LogSummary posts session telemetry. Callers treat it as fire-and-forget;
// an error only means the summary was lost.
func (c *Client) LogSummary(ctx context.Context, req SummaryRequest) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return c.post(ctx, "/log/summary", req, nil)
}

// #endregion endpoints

var _ Service = (*Client)(nil)
