package genclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDilemmaPostsContextAndDecodesResponse(t *testing.T) {
	var gotPath string
	var gotReq DilemmaRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		json.NewEncoder(w).Encode(DilemmaResponse{
			Title:       "The Dockworkers Strike",
			Description: "The port has gone silent.",
			Topic:       "labor",
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	resp, err := c.Dilemma(context.Background(), DilemmaRequest{
		Role:      "mayor",
		Day:       3,
		TotalDays: 30,
		Supports:  map[string]int{"people": 40},
	})
	require.NoError(t, err)

	assert.Equal(t, "/dilemma", gotPath)
	assert.Equal(t, "mayor", gotReq.Role)
	assert.Equal(t, 3, gotReq.Day)
	assert.Equal(t, "The Dockworkers Strike", resp.Title)
	assert.Equal(t, "labor", resp.Topic)
}

func TestValidateSuggestionCarriesVerdict(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/validate-suggestion", r.URL.Path)
		json.NewEncoder(w).Encode(ValidateResponse{Valid: false, Reason: "anachronistic for the era"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	resp, err := c.ValidateSuggestion(context.Background(), ValidateRequest{Text: "deploy drones"})
	require.NoError(t, err)
	assert.False(t, resp.Valid)
	assert.Equal(t, "anachronistic for the era", resp.Reason)
}

func TestNonSuccessStatusIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	_, err := c.Mirror(context.Background(), AnalysisRequest{Day: 1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 503")
}

func TestContextCancellationSurfacesAsError(t *testing.T) {
	block := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-block
	}))
	defer srv.Close()
	defer close(block)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := NewClient(srv.URL)
	_, err := c.News(ctx, AnalysisRequest{})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLogSummaryIgnoresResponseBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/log/summary", r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	require.NoError(t, c.LogSummary(context.Background(), SummaryRequest{SessionID: "s1", Day: 5}))
}

func TestStubDefaultsAcceptSuggestions(t *testing.T) {
	s := &Stub{}
	resp, err := s.ValidateSuggestion(context.Background(), ValidateRequest{Text: "hold a festival"})
	require.NoError(t, err)
	assert.True(t, resp.Valid)
}
