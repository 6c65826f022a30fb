package suggest

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/Mutajon/aMAZEn-Politics-sub006/internal/genclient"
)

// #region errors

var (
	// ErrConnection marks a transport failure or timeout reaching the
	// judge service. Retryable; the player sees a distinct message.
	ErrConnection = errors.New("could not reach the validation service")
	// ErrLockHeld means another suggestion is mid-flight. The caller gets
	// an immediate rejection with zero network calls.
	ErrLockHeld = errors.New("a suggestion is already being processed")
)

// #endregion errors

// #region types

// DilemmaContext carries the scenario fields the judge needs.
type DilemmaContext struct {
	Title       string
	Description string
}

// RoleContext carries the setting fields the judge needs.
type RoleContext struct {
	Era         string
	SettingType string
	Year        int
}

// Outcome is the judge's verdict on a free-text suggestion. Reason is the
// judge's own wording and is shown verbatim on rejection.
type Outcome struct {
	Valid  bool
	Reason string
}

const minSuggestionLen = 4

// #endregion types

// #region validator

// Validator vets free-text player suggestions against the remote judge,
// guarding the flow with a submission lock.
type Validator struct {
	svc     genclient.Service
	lock    *Lock
	timeout time.Duration
}

// NewValidator creates a validator with the given remote-call bound
// (spec'd at 15 seconds in production config).
func NewValidator(svc genclient.Service, timeout time.Duration) *Validator {
	return &Validator{
		svc:     svc,
		lock:    &Lock{},
		timeout: timeout,
	}
}

// Lock exposes the submission lock so the orchestrator can reset it at
// turn boundaries and hold it through confirmation.
func (v *Validator) Lock() *Lock { return v.lock }

// Validate runs one submission through the judge.
//
// On rejection the lock is released and the reason is returned for verbatim
// display. On connection error the lock is released and ErrConnection is
// returned. On acceptance the lock stays held: the confirmation step that
// follows must finish (or fail closed) before anything else may submit.
func (v *Validator) Validate(ctx context.Context, text string, dctx DilemmaContext, rctx RoleContext) (Outcome, error) {
	trimmed := strings.TrimSpace(text)
	if len(trimmed) < minSuggestionLen {
		return Outcome{Valid: false, Reason: "Please write a little more about what you want to do."}, nil
	}

	if !v.lock.TryAcquire() {
		return Outcome{}, ErrLockHeld
	}

	callCtx, cancel := context.WithTimeout(ctx, v.timeout)
	defer cancel()

	resp, err := v.svc.ValidateSuggestion(callCtx, genclient.ValidateRequest{
		Text:        trimmed,
		Title:       dctx.Title,
		Description: dctx.Description,
		Era:         rctx.Era,
		SettingType: rctx.SettingType,
		Year:        rctx.Year,
	})
	if err != nil {
		// Release point: connection error. Resubmitting issues a fresh call.
		v.lock.Release()
		log.Printf("[VALID] judge unreachable: %v", err)
		return Outcome{}, fmt.Errorf("%w: %v", ErrConnection, err)
	}

	if !resp.Valid {
		// Release point: content rejection. The player edits and retries.
		v.lock.Release()
		return Outcome{Valid: false, Reason: resp.Reason}, nil
	}

	// Accepted: lock stays held until confirmation completes.
	return Outcome{Valid: true}, nil
}

// #endregion validator
