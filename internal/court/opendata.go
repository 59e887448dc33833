package court

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/pfrederiksen/courtwatch/internal/cache"
	"github.com/pfrederiksen/courtwatch/internal/config"
	"github.com/pfrederiksen/courtwatch/internal/fetch"
	"github.com/pfrederiksen/courtwatch/internal/schedule"
	"github.com/pfrederiksen/courtwatch/internal/venue"
)

// OpenDataProvider lists venues from a municipal open-data JSON endpoint.
// It is a plain fetch-filter-map source: no extraction problem, no slot data.
type OpenDataProvider struct {
	url     string
	fetcher *fetch.Fetcher
	venues  *cache.Cache[[]venue.Venue]
	ttl     time.Duration
}

// openDataRecord mirrors one facility record in the open-data feed.
type openDataRecord struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Address  string `json:"address"`
	District string `json:"district"`
	Category string `json:"category"`
}

// NewOpenData creates a provider reading the facility feed at feedURL.
func NewOpenData(feedURL string, cfg config.Config) *OpenDataProvider {
	return &OpenDataProvider{
		url:     feedURL,
		fetcher: fetch.New(cache.New[string](), cfg.CacheTTL),
		venues:  cache.New[[]venue.Venue](),
		ttl:     cfg.CacheTTL,
	}
}

// ListCourts returns the tennis-court facilities in the feed.
func (p *OpenDataProvider) ListCourts(ctx context.Context) ([]venue.Venue, error) {
	if venues, ok := p.venues.Get("all"); ok {
		return venues, nil
	}

	body, ok := p.fetcher.Text(ctx, p.url, "")
	if !ok {
		return []venue.Venue{}, nil
	}

	var records []openDataRecord
	if err := json.Unmarshal([]byte(body), &records); err != nil {
		return []venue.Venue{}, nil
	}

	venues := make([]venue.Venue, 0, len(records))
	for _, rec := range records {
		if rec.ID == "" || rec.Name == "" {
			continue
		}
		category := strings.ToLower(rec.Category)
		if !strings.Contains(category, "tennis") && !strings.Contains(category, "court") {
			continue
		}
		venues = append(venues, venue.Venue{
			ID:       rec.ID,
			Name:     rec.Name,
			Address:  rec.Address,
			District: rec.District,
		})
	}

	p.venues.Set("all", venues, p.ttl)
	return venues, nil
}

// GetAvailability always returns an empty slot list: the open-data feed
// carries facility metadata, not schedules.
func (p *OpenDataProvider) GetAvailability(ctx context.Context, id string, date time.Time) (*schedule.Availability, error) {
	return schedule.NewAvailability(id, date), nil
}

func (p *OpenDataProvider) GetVenueInfo(ctx context.Context, id string) (*venue.Venue, bool) {
	venues, err := p.ListCourts(ctx)
	if err != nil {
		return nil, false
	}
	for i := range venues {
		if venues[i].ID == id {
			return &venues[i], true
		}
	}
	return nil, false
}
