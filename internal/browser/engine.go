package browser

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/playwright-community/playwright-go"
)

// ErrEngineUnavailable marks an environment defect: the automation engine is
// missing and could not be installed. Unlike upstream absence of data, this
// propagates to callers as an error.
var ErrEngineUnavailable = errors.New("automation engine unavailable")

// Engine manages the Playwright driver. The driver itself is started lazily
// and shared; browser sessions created from it are not.
type Engine struct {
	mu           sync.Mutex
	pw           *playwright.Playwright
	installTried bool
	headless     bool
	slowMo       time.Duration
}

// NewEngine creates an engine. Nothing is launched until the first session.
func NewEngine(headless bool, slowMo time.Duration) *Engine {
	return &Engine{headless: headless, slowMo: slowMo}
}

// start runs the Playwright driver. On the first failure it attempts exactly
// one install remediation and retries once; any further failure is
// ErrEngineUnavailable.
func (e *Engine) start() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.pw != nil {
		return nil
	}

	pw, err := playwright.Run()
	if err != nil {
		if e.installTried {
			return fmt.Errorf("%w: %v", ErrEngineUnavailable, err)
		}
		e.installTried = true
		slog.Warn("automation engine missing, installing", "error", err)
		if ierr := playwright.Install(&playwright.RunOptions{Browsers: []string{"chromium"}}); ierr != nil {
			return fmt.Errorf("%w: install failed: %v", ErrEngineUnavailable, ierr)
		}
		if pw, err = playwright.Run(); err != nil {
			return fmt.Errorf("%w: %v", ErrEngineUnavailable, err)
		}
	}

	e.pw = pw
	return nil
}

// Stop shuts the driver down. Safe to call without a prior start.
func (e *Engine) Stop() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.pw == nil {
		return nil
	}
	err := e.pw.Stop()
	e.pw = nil
	return err
}

// Session is one browser, context, and page created for a single request.
// Close releases all three; a context cancellation closes the session early
// so in-flight navigation and evaluation abort promptly.
type Session struct {
	ID   string
	page playwright.Page

	browser   playwright.Browser
	bctx      playwright.BrowserContext
	closeOnce sync.Once
	unwatch   context.CancelFunc
}

// NewSession launches a fresh browser for one request.
func (e *Engine) NewSession(ctx context.Context) (*Session, error) {
	if err := e.start(); err != nil {
		return nil, err
	}

	e.mu.Lock()
	pw := e.pw
	e.mu.Unlock()

	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(e.headless),
		SlowMo:   playwright.Float(float64(e.slowMo.Milliseconds())),
	})
	if err != nil {
		return nil, fmt.Errorf("launching browser: %w", err)
	}

	bctx, err := browser.NewContext()
	if err != nil {
		browser.Close()
		return nil, fmt.Errorf("creating browser context: %w", err)
	}

	page, err := bctx.NewPage()
	if err != nil {
		bctx.Close()
		browser.Close()
		return nil, fmt.Errorf("creating page: %w", err)
	}

	s := &Session{
		ID:      uuid.NewString(),
		page:    page,
		browser: browser,
		bctx:    bctx,
	}

	watchCtx, unwatch := context.WithCancel(ctx)
	s.unwatch = unwatch
	go func() {
		<-watchCtx.Done()
		if ctx.Err() != nil {
			s.Close()
		}
	}()

	return s, nil
}

// Close releases the page, context, and browser. Idempotent.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		if s.unwatch != nil {
			s.unwatch()
		}
		s.page.Close()
		s.bctx.Close()
		s.browser.Close()
	})
}

// Page exposes the live page to the recovery loop.
func (s *Session) Page() Page { return s.page }

// Goto navigates the session's page.
func (s *Session) Goto(url string) error {
	_, err := s.page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
	})
	if err != nil {
		return fmt.Errorf("navigating to %s: %w", url, err)
	}
	return nil
}

// EvaluateString evaluates expr in the page and returns its string result.
func (s *Session) EvaluateString(expr string) (string, bool) {
	result, err := s.page.Evaluate(expr)
	if err != nil {
		slog.Debug("page evaluation failed", "session", s.ID, "error", err)
		return "", false
	}
	str, ok := result.(string)
	return str, ok && str != ""
}

// Content returns the rendered page HTML.
func (s *Session) Content() (string, bool) {
	html, err := s.page.Content()
	if err != nil {
		return "", false
	}
	return html, true
}

// ClickText clicks the first element whose text matches label.
func (s *Session) ClickText(label string) bool {
	if err := s.page.GetByText(label).First().Click(); err != nil {
		slog.Debug("label click failed", "session", s.ID, "label", label, "error", err)
		return false
	}
	return true
}
