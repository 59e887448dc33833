package court

import (
	"context"
	"log/slog"
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/pfrederiksen/courtwatch/internal/browser"
	"github.com/pfrederiksen/courtwatch/internal/cache"
	"github.com/pfrederiksen/courtwatch/internal/config"
	"github.com/pfrederiksen/courtwatch/internal/schedule"
	"github.com/pfrederiksen/courtwatch/internal/venue"
)

// In-page probes for the dynamic schedule state.
const (
	readyExpr = "typeof " + pickupVar + " !== 'undefined' || typeof " + calendarVar + " !== 'undefined'"

	pickupJSONExpr   = "typeof " + pickupVar + " !== 'undefined' ? JSON.stringify(" + pickupVar + ") : ''"
	calendarJSONExpr = "typeof " + calendarVar + " !== 'undefined' ? JSON.stringify(" + calendarVar + ") : ''"
	infoJSONExpr     = "typeof VenuesInfoJson !== 'undefined' && VenuesInfoJson.Info ? JSON.stringify(VenuesInfoJson.Info) : ''"
)

// BrowserProvider reads availability from the live, script-rendered page.
// Each availability lookup launches a fresh browser session so the upstream
// cannot correlate sequential requests by fingerprint; the lighter venue-info
// lookup reuses one lazily created session behind a lock.
type BrowserProvider struct {
	baseURL string
	engine  *browser.Engine
	wait    browser.WaitConfig
	avail   *cache.Cache[*schedule.Availability]
	venues  *cache.Cache[*venue.Venue]
	ttl     time.Duration
	group   singleflight.Group

	infoMu      sync.Mutex
	infoSession *browser.Session
}

// NewBrowser creates a browser provider. The engine is not started until the
// first lookup needs it.
func NewBrowser(baseURL string, cfg config.Config) *BrowserProvider {
	wait := browser.DefaultWaitConfig()
	wait.TotalBudget = cfg.WaitBudget
	return &BrowserProvider{
		baseURL: strings.TrimRight(baseURL, "/"),
		engine:  browser.NewEngine(cfg.Headless, cfg.SlowMo),
		wait:    wait,
		avail:   cache.New[*schedule.Availability](),
		venues:  cache.New[*venue.Venue](),
		ttl:     cfg.CacheTTL,
	}
}

// Close releases the shared venue-info session and stops the engine.
func (p *BrowserProvider) Close() error {
	p.infoMu.Lock()
	if p.infoSession != nil {
		p.infoSession.Close()
		p.infoSession = nil
	}
	p.infoMu.Unlock()
	return p.engine.Stop()
}

func (p *BrowserProvider) venuePageURL(id string) string {
	return p.baseURL + "/venues/?K=" + url.QueryEscape(id) + "#Schedule"
}

// ListCourts returns no venues; listings come from the open-data provider.
func (p *BrowserProvider) ListCourts(ctx context.Context) ([]venue.Venue, error) {
	return []venue.Venue{}, nil
}

// GetAvailability drives a fresh browser session through navigation, the
// anti-bot recovery loop, extraction, and the per-court fallback. Only an
// unusable engine is an error; every other failure degrades to an empty or
// partial result.
func (p *BrowserProvider) GetAvailability(ctx context.Context, id string, date time.Time) (*schedule.Availability, error) {
	key := availKey(id, date)
	if avail, ok := p.avail.Get(key); ok {
		return avail, nil
	}

	result, err, _ := p.group.Do(key, func() (any, error) {
		avail, err := p.collect(ctx, id, date)
		if err != nil {
			return nil, err
		}
		p.avail.Set(key, avail, p.ttl)
		return avail, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(*schedule.Availability), nil
}

func (p *BrowserProvider) collect(ctx context.Context, id string, date time.Time) (*schedule.Availability, error) {
	avail := schedule.NewAvailability(id, date)

	session, err := p.engine.NewSession(ctx)
	if err != nil {
		return nil, err
	}
	defer session.Close()

	log := slog.With("session", session.ID, "venue", id, "date", avail.Date)

	if err := session.Goto(p.venuePageURL(id)); err != nil {
		log.Warn("navigation failed", "error", err)
		return avail, nil
	}

	state := browser.WaitForData(ctx, session.Page(), readyExpr, p.wait)
	if state != browser.StateReady {
		// Best-effort extraction continues on whatever state exists.
		avail.Partial = true
		log.Warn("schedule data not ready, extracting best-effort", "state", state)
	}

	slots, hours := p.extractSlots(session, date)

	if len(slots) == 0 || allUnlabeled(slots) {
		slots = p.collectByLabel(ctx, session, date, slots)
	}

	slots = schedule.Clamp(slots, hours)
	schedule.Sort(slots)
	avail.Slots = slots
	return avail, nil
}

// labelSession is the slice of session behavior the extraction and per-court
// collection steps need, satisfied by *browser.Session.
type labelSession interface {
	Content() (string, bool)
	ClickText(label string) bool
	EvaluateString(expr string) (string, bool)
}

// extractSlots evaluates the page's schedule globals, preferring the pickup
// form for its opening hours and per-court nesting.
func (p *BrowserProvider) extractSlots(session labelSession, date time.Time) ([]schedule.TimeSlot, schedule.OpeningHours) {
	if obj, ok := session.EvaluateString(pickupJSONExpr); ok {
		if slots, ok := schedule.ParsePickup(obj, date); ok {
			return slots, schedule.PickupHours(obj)
		}
	}
	if obj, ok := session.EvaluateString(calendarJSONExpr); ok {
		if slots, ok := schedule.ParseCalendar(obj, date); ok {
			return slots, schedule.OpeningHours{}
		}
	}
	return nil, schedule.OpeningHours{}
}

// collectByLabel re-collects the schedule per discovered court tab when the
// day-level response was unsegmented. Labeled groups win over any leftover
// unlabeled aggregate.
func (p *BrowserProvider) collectByLabel(ctx context.Context, session labelSession, date time.Time, dayLevel []schedule.TimeSlot) []schedule.TimeSlot {
	html, ok := session.Content()
	if !ok {
		return dayLevel
	}
	labels := browser.DiscoverLabels(html)
	if len(labels) == 0 {
		return dayLevel
	}

	combined := append([]schedule.TimeSlot(nil), dayLevel...)
	for _, label := range labels {
		if ctx.Err() != nil {
			break
		}
		if !session.ClickText(label) {
			continue
		}
		settle(ctx, p.wait.SettleDelay)

		slots, _ := p.extractSlots(session, date)
		for i := range slots {
			slots[i].Label = label
		}
		combined = append(combined, slots...)
	}

	return schedule.PreferLabeled(combined)
}

// GetVenueInfo reads venue metadata through the shared long-lived session.
func (p *BrowserProvider) GetVenueInfo(ctx context.Context, id string) (*venue.Venue, bool) {
	if v, ok := p.venues.Get(id); ok {
		return v, true
	}

	p.infoMu.Lock()
	defer p.infoMu.Unlock()

	if p.infoSession == nil {
		// Detached from the request context: the session outlives this
		// call. A failed creation stays retryable on the next call.
		session, err := p.engine.NewSession(context.WithoutCancel(ctx))
		if err != nil {
			slog.Warn("venue info session unavailable", "error", err)
			return nil, false
		}
		p.infoSession = session
	}

	if err := p.infoSession.Goto(p.venuePageURL(id)); err != nil {
		return nil, false
	}
	settle(ctx, p.wait.SettleDelay)

	obj, ok := p.infoSession.EvaluateString(infoJSONExpr)
	if !ok {
		return nil, false
	}
	info, ok := schedule.DecodeObjectFields(obj)
	if !ok {
		return nil, false
	}

	v := &venue.Venue{
		ID:       id,
		Name:     info.First("Name", "VenueName"),
		Address:  info.First("Address", "Addr"),
		District: info.First("Area", "District"),
	}
	if v.Name == "" {
		return nil, false
	}
	p.venues.Set(id, v, p.ttl)
	return v, true
}

func settle(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
