package browser

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// State names a position in the data-readiness machine:
// Loading -> {Ready | ChallengePending} -> Redirected -> Ready,
// or Loading -> TimedOut.
type State string

const (
	StateLoading          State = "loading"
	StateReady            State = "ready"
	StateChallengePending State = "challenge_pending"
	StateRedirected       State = "redirected"
	StateTimedOut         State = "timed_out"
)

// Page is the slice of the live page the recovery loop reads. Satisfied by
// playwright.Page and by fakes in tests.
type Page interface {
	URL() string
	Title() (string, error)
	Content() (string, error)
	Evaluate(expression string, arg ...interface{}) (interface{}, error)
}

// WaitConfig carries the loop's independent timeouts.
type WaitConfig struct {
	PollInterval  time.Duration
	TotalBudget   time.Duration
	ChallengeWait time.Duration
	SettleDelay   time.Duration
}

// DefaultWaitConfig returns the production timings.
func DefaultWaitConfig() WaitConfig {
	return WaitConfig{
		PollInterval:  500 * time.Millisecond,
		TotalBudget:   90 * time.Second,
		ChallengeWait: 45 * time.Second,
		SettleDelay:   2 * time.Second,
	}
}

// challengePathMarker appears in the URL while the anti-bot interstitial is
// up; the page has truly moved on once the URL is a venue URL without it.
const challengePathMarker = "/challenge"

var challengeSignatures = []string{
	"just a moment",
	"checking your browser",
	"verifying you are human",
	"attention required",
}

// WaitForData polls page until readyExpr evaluates truthy, the budget
// elapses, or ctx is cancelled. A detected challenge page is waited out at
// most once per session. The returned state is StateReady on success and
// StateTimedOut otherwise; TimedOut is a degraded-quality signal, not an
// error, and extraction proceeds on whatever page state exists.
func WaitForData(ctx context.Context, page Page, readyExpr string, cfg WaitConfig) State {
	started := time.Now()
	deadline := started.Add(cfg.TotalBudget)
	state := StateLoading
	challengeHandled := false

	log := slog.With("component", "recovery")
	log.Debug("state transition", "state", state)

	ticker := backoff.NewTicker(backoff.WithContext(
		backoff.NewConstantBackOff(cfg.PollInterval), ctx))
	defer ticker.Stop()

	for {
		if _, ok := <-ticker.C; !ok {
			// Context cancelled; degrade like a timeout.
			return transition(log, state, StateTimedOut, started)
		}
		if time.Now().After(deadline) {
			return transition(log, state, StateTimedOut, started)
		}

		if dataReady(page, readyExpr) {
			return transition(log, state, StateReady, started)
		}

		if !challengeHandled && challengeDetected(page) {
			challengeHandled = true
			state = transition(log, state, StateChallengePending, started)
			if waitForRedirect(ctx, page, cfg) {
				state = transition(log, state, StateRedirected, started)
				// Let the venue page's scripts initialize before probing.
				sleepCtx(ctx, cfg.SettleDelay)
			}
			state = transition(log, state, StateLoading, started)
		}
	}
}

func transition(log *slog.Logger, from, to State, started time.Time) State {
	log.Info("state transition", "from", from, "to", to,
		"elapsed", time.Since(started).Round(time.Millisecond))
	return to
}

func dataReady(page Page, readyExpr string) bool {
	result, err := page.Evaluate(readyExpr)
	if err != nil {
		return false
	}
	ready, ok := result.(bool)
	return ok && ready
}

// challengeDetected matches the interstitial by URL path, title, or body.
func challengeDetected(page Page) bool {
	if strings.Contains(page.URL(), challengePathMarker) {
		return true
	}
	if title, err := page.Title(); err == nil && matchesSignature(title) {
		return true
	}
	if content, err := page.Content(); err == nil && matchesSignature(content) {
		return true
	}
	return false
}

func matchesSignature(text string) bool {
	lower := strings.ToLower(text)
	for _, sig := range challengeSignatures {
		if strings.Contains(lower, sig) {
			return true
		}
	}
	return false
}

// waitForRedirect waits, bounded by ChallengeWait, for the page to navigate
// back to a venue URL that no longer contains the challenge path.
func waitForRedirect(ctx context.Context, page Page, cfg WaitConfig) bool {
	deadline := time.Now().Add(cfg.ChallengeWait)
	for time.Now().Before(deadline) {
		if ctx.Err() != nil {
			return false
		}
		url := page.URL()
		if url != "" && !strings.Contains(url, challengePathMarker) && !challengeDetected(page) {
			return true
		}
		sleepCtx(ctx, cfg.PollInterval)
	}
	return false
}

func sleepCtx(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
