package court

import (
	"context"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/sync/singleflight"

	"github.com/pfrederiksen/courtwatch/internal/cache"
	"github.com/pfrederiksen/courtwatch/internal/config"
	"github.com/pfrederiksen/courtwatch/internal/fetch"
	"github.com/pfrederiksen/courtwatch/internal/jsobj"
	"github.com/pfrederiksen/courtwatch/internal/schedule"
	"github.com/pfrederiksen/courtwatch/internal/venue"
)

// Upstream dynamic state variable names.
const (
	pickupVar   = "mmDataPickup"
	calendarVar = "VenuesCalendarJson"
	infoVar     = "VenuesInfoJson.Info"

	// scriptMarker identifies the secondary schedule script on the venue
	// page; it must be fetched with the venue page as Referer.
	scriptMarker = "datapickupv5.php"
)

// HTTPProvider scrapes availability with plain HTTP requests. It sees only
// what the server embeds in the page and script bodies, so a challenge page
// or a fully client-rendered schedule yields an empty result; the browser
// provider exists for those.
type HTTPProvider struct {
	baseURL string
	fetcher *fetch.Fetcher
	avail   *cache.Cache[*schedule.Availability]
	venues  *cache.Cache[*venue.Venue]
	ttl     time.Duration
	group   singleflight.Group
}

// NewHTTP creates an HTTP provider for the site at baseURL.
func NewHTTP(baseURL string, cfg config.Config) *HTTPProvider {
	return &HTTPProvider{
		baseURL: strings.TrimRight(baseURL, "/"),
		fetcher: fetch.New(cache.New[string](), cfg.CacheTTL),
		avail:   cache.New[*schedule.Availability](),
		venues:  cache.New[*venue.Venue](),
		ttl:     cfg.CacheTTL,
	}
}

func (p *HTTPProvider) venuePageURL(id string) string {
	return p.baseURL + "/venues/?K=" + url.QueryEscape(id) + "#Schedule"
}

// ListCourts returns no venues: the reservation site offers no listing page
// the HTTP path can reach. The open-data provider supplies listings.
func (p *HTTPProvider) ListCourts(ctx context.Context) ([]venue.Venue, error) {
	return []venue.Venue{}, nil
}

// GetAvailability fetches, extracts, parses, and clamps the slots for id on
// date. Concurrent identical lookups are collapsed to one upstream fetch.
func (p *HTTPProvider) GetAvailability(ctx context.Context, id string, date time.Time) (*schedule.Availability, error) {
	key := availKey(id, date)
	if avail, ok := p.avail.Get(key); ok {
		return avail, nil
	}

	result, _, _ := p.group.Do(key, func() (any, error) {
		avail := p.collect(ctx, id, date)
		p.avail.Set(key, avail, p.ttl)
		return avail, nil
	})
	return result.(*schedule.Availability), nil
}

func (p *HTTPProvider) collect(ctx context.Context, id string, date time.Time) *schedule.Availability {
	avail := schedule.NewAvailability(id, date)
	pageURL := p.venuePageURL(id)

	page, ok := p.fetcher.Text(ctx, pageURL, "")
	if !ok {
		return avail
	}

	// The schedule data may live in the secondary script or inline in the
	// page itself; try the script first since that is where the current
	// site puts it.
	sources := []string{page}
	if scriptURL, ok := p.scheduleScriptURL(page, pageURL); ok {
		if script, ok := p.fetcher.Text(ctx, scriptURL, pageURL); ok {
			sources = append([]string{script}, sources...)
		}
	}

	for _, src := range sources {
		if slots, ok := parseScheduleSource(src, date); ok {
			avail.Slots = slots
			return avail
		}
	}

	slog.Debug("no schedule data extracted", "venue", id, "date", avail.Date)
	return avail
}

// parseScheduleSource tries both schema variants against one text source.
// The pickup form wins when both are present; it carries the _C opening
// hours and per-court nesting.
func parseScheduleSource(src string, date time.Time) ([]schedule.TimeSlot, bool) {
	if obj, ok := jsobj.Extract(src, pickupVar); ok {
		if slots, ok := schedule.ParsePickup(obj, date); ok {
			return schedule.Clamp(slots, schedule.PickupHours(obj)), true
		}
	}
	if obj, ok := jsobj.Extract(src, calendarVar); ok {
		if slots, ok := schedule.ParseCalendar(obj, date); ok {
			return slots, true
		}
	}
	return nil, false
}

// scheduleScriptURL finds the secondary schedule script reference in the
// venue page and resolves it against the page URL.
func (p *HTTPProvider) scheduleScriptURL(page, pageURL string) (string, bool) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	if err != nil {
		return "", false
	}

	var src string
	doc.Find("script[src]").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		candidate, _ := sel.Attr("src")
		if strings.Contains(candidate, scriptMarker) {
			src = candidate
			return false
		}
		return true
	})
	if src == "" {
		return "", false
	}

	base, err := url.Parse(pageURL)
	if err != nil {
		return "", false
	}
	ref, err := url.Parse(src)
	if err != nil {
		return "", false
	}
	return base.ResolveReference(ref).String(), true
}

// GetVenueInfo extracts venue metadata from the page's VenuesInfoJson state.
func (p *HTTPProvider) GetVenueInfo(ctx context.Context, id string) (*venue.Venue, bool) {
	if v, ok := p.venues.Get(id); ok {
		return v, true
	}

	page, ok := p.fetcher.Text(ctx, p.venuePageURL(id), "")
	if !ok {
		return nil, false
	}

	v, ok := parseVenueInfo(page, id)
	if !ok {
		return nil, false
	}
	p.venues.Set(id, v, p.ttl)
	return v, true
}

func parseVenueInfo(page, id string) (*venue.Venue, bool) {
	obj, ok := jsobj.Extract(page, infoVar)
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
	return v, true
}
