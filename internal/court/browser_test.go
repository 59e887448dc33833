package court

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/pfrederiksen/courtwatch/internal/config"
	"github.com/pfrederiksen/courtwatch/internal/schedule"
)

// fakeLabelSession simulates a rendered venue page with per-court tabs. Each
// click switches which pickup object the next evaluation returns.
type fakeLabelSession struct {
	html     string
	dayLevel string
	perCourt map[string]string
	active   string
	clicks   []string
}

func (s *fakeLabelSession) Content() (string, bool) {
	return s.html, s.html != ""
}

func (s *fakeLabelSession) ClickText(label string) bool {
	if _, ok := s.perCourt[label]; !ok {
		return false
	}
	s.active = label
	s.clicks = append(s.clicks, label)
	return true
}

func (s *fakeLabelSession) EvaluateString(expr string) (string, bool) {
	if !strings.Contains(expr, pickupVar) {
		return "", false
	}
	obj := s.dayLevel
	if s.active != "" {
		obj = s.perCourt[s.active]
	}
	return obj, obj != ""
}

func newLabelTestProvider() *BrowserProvider {
	p := NewBrowser("https://reserve.example.net", config.Default())
	p.wait.SettleDelay = time.Millisecond
	return p
}

func pickupDay(slotTime, endTime, d string) string {
	return `{"Data":{"202510":{"1":{"0600":{"S":"` + slotTime + `","E":"` + endTime + `","D":"` + d + `"}}}}}`
}

func TestCollectByLabelTagsAndPrefersLabeled(t *testing.T) {
	session := &fakeLabelSession{
		html: `<ul><li>Court A</li><li>Court B</li></ul>`,
		perCourt: map[string]string{
			"Court A": pickupDay("06:00", "07:00", "0"),
			"Court B": pickupDay("07:00", "08:00", "1"),
		},
	}
	p := newLabelTestProvider()
	date := time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC)

	dayLevel := []schedule.TimeSlot{
		{Start: 6 * 60, End: 7 * 60, Available: true},
	}
	got := p.collectByLabel(context.Background(), session, date, dayLevel)

	if len(got) != 2 {
		t.Fatalf("got %d slots, expected 2 labeled slots: %+v", len(got), got)
	}
	for _, s := range got {
		if s.Label == "" {
			t.Errorf("unlabeled aggregate slot survived: %+v", s)
		}
	}

	byLabel := map[string]schedule.TimeSlot{}
	for _, s := range got {
		byLabel[s.Label] = s
	}
	if s, ok := byLabel["Court A"]; !ok || !s.Available || s.Start != 6*60 {
		t.Errorf("Court A slot wrong: %+v", byLabel["Court A"])
	}
	if s, ok := byLabel["Court B"]; !ok || s.Available || s.Start != 7*60 {
		t.Errorf("Court B slot wrong: %+v", byLabel["Court B"])
	}

	if len(session.clicks) != 2 || session.clicks[0] != "Court A" || session.clicks[1] != "Court B" {
		t.Errorf("clicks = %v, expected each discovered court once in document order", session.clicks)
	}
}

func TestCollectByLabelNoLabelsKeepsDayLevel(t *testing.T) {
	session := &fakeLabelSession{
		html: `<p>Opening hours and directions, nothing clickable.</p>`,
	}
	p := newLabelTestProvider()
	date := time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC)

	dayLevel := []schedule.TimeSlot{
		{Start: 6 * 60, End: 7 * 60, Available: true},
	}
	got := p.collectByLabel(context.Background(), session, date, dayLevel)

	if len(got) != 1 || got[0].Label != "" {
		t.Errorf("expected the day-level slots unchanged, got %+v", got)
	}
}

func TestCollectByLabelFailedClickSkipped(t *testing.T) {
	session := &fakeLabelSession{
		html: `<ul><li>Court A</li><li>Court B</li></ul>`,
		perCourt: map[string]string{
			"Court B": pickupDay("07:00", "08:00", "0"),
		},
	}
	p := newLabelTestProvider()
	date := time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC)

	got := p.collectByLabel(context.Background(), session, date, nil)

	if len(got) != 1 || got[0].Label != "Court B" {
		t.Fatalf("expected only the clickable court's slot, got %+v", got)
	}
}

func TestCollectByLabelCancelledContext(t *testing.T) {
	session := &fakeLabelSession{
		html: `<ul><li>Court A</li></ul>`,
		perCourt: map[string]string{
			"Court A": pickupDay("06:00", "07:00", "0"),
		},
	}
	p := newLabelTestProvider()
	date := time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	dayLevel := []schedule.TimeSlot{
		{Start: 6 * 60, End: 7 * 60, Available: true},
	}
	got := p.collectByLabel(ctx, session, date, dayLevel)

	if len(session.clicks) != 0 {
		t.Errorf("clicked %v after cancellation", session.clicks)
	}
	if len(got) != 1 {
		t.Errorf("expected the day-level slots back, got %+v", got)
	}
}

func TestAllUnlabeled(t *testing.T) {
	unlabeled := []schedule.TimeSlot{{Start: 6 * 60, End: 7 * 60}}
	mixed := []schedule.TimeSlot{{Start: 6 * 60, End: 7 * 60}, {Start: 7 * 60, End: 8 * 60, Label: "Court A"}}

	if !allUnlabeled(unlabeled) {
		t.Error("expected allUnlabeled to trigger the per-court fallback for an unsegmented day")
	}
	if allUnlabeled(mixed) {
		t.Error("expected a labeled slot to suppress the per-court fallback")
	}
}
