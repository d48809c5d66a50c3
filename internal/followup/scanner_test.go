package followup

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"cleardoor_backend/internal/events"
	leadsrepo "cleardoor_backend/internal/leads/repository"
	"cleardoor_backend/platform/logger"

	"github.com/google/uuid"
)

type fakeLeadSource struct {
	due      []leadsrepo.DueFollowUp
	err      error
	askedFor time.Time
}

func (f *fakeLeadSource) ListFollowUpsDueOn(_ context.Context, date time.Time) ([]leadsrepo.DueFollowUp, error) {
	f.askedFor = date
	return f.due, f.err
}

type fakeBus struct {
	mu        sync.Mutex
	published []events.Event
	syncErr   error
}

func (b *fakeBus) Publish(_ context.Context, event events.Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.published = append(b.published, event)
}

func (b *fakeBus) PublishSync(_ context.Context, event events.Event) error {
	if b.syncErr != nil {
		return b.syncErr
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.published = append(b.published, event)
	return nil
}

func (b *fakeBus) Subscribe(string, events.Handler) {}

func newScannerAt(leads *fakeLeadSource, bus *fakeBus, now time.Time) *Scanner {
	s := NewScanner(leads, bus, logger.New("test"))
	s.now = func() time.Time { return now }
	return s
}

func TestScanPublishesReminderPerDueLead(t *testing.T) {
	now := time.Date(2026, 8, 31, 15, 30, 0, 0, time.Local)
	leads := &fakeLeadSource{
		due: []leadsrepo.DueFollowUp{
			{
				LeadID:        uuid.New(),
				LeadNumber:    "CL-2026-00007-42",
				CustomerLabel: "Harbor Offices",
				CreatedBy:     uuid.New(),
				FollowUpDate:  time.Date(2026, 9, 1, 0, 0, 0, 0, time.Local),
			},
			{
				LeadID:        uuid.New(),
				LeadNumber:    "CL-2026-00008-03",
				CustomerLabel: "Jane Carter",
				CreatedBy:     uuid.New(),
				FollowUpDate:  time.Date(2026, 9, 1, 0, 0, 0, 0, time.Local),
			},
		},
	}
	bus := &fakeBus{}

	count, err := newScannerAt(leads, bus, now).Scan(context.Background())
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if count != 2 {
		t.Errorf("expected 2 due leads, got %d", count)
	}

	wantDate := time.Date(2026, 9, 1, 0, 0, 0, 0, time.Local)
	if !leads.askedFor.Equal(wantDate) {
		t.Errorf("scan must look one calendar day ahead, asked for %v", leads.askedFor)
	}

	if len(bus.published) != 2 {
		t.Fatalf("expected 2 events, got %d", len(bus.published))
	}
	first, ok := bus.published[0].(events.FollowUpDue)
	if !ok {
		t.Fatalf("expected FollowUpDue event, got %T", bus.published[0])
	}
	if first.ScheduledDate != "2026-09-01" {
		t.Errorf("expected scheduled date 2026-09-01, got %q", first.ScheduledDate)
	}
	if first.CustomerName != "Harbor Offices" {
		t.Errorf("expected customer label carried through, got %q", first.CustomerName)
	}
}

func TestScanCrossesMonthBoundary(t *testing.T) {
	now := time.Date(2026, 1, 31, 23, 0, 0, 0, time.Local)
	leads := &fakeLeadSource{}
	bus := &fakeBus{}

	if _, err := newScannerAt(leads, bus, now).Scan(context.Background()); err != nil {
		t.Fatalf("Scan: %v", err)
	}

	wantDate := time.Date(2026, 2, 1, 0, 0, 0, 0, time.Local)
	if !leads.askedFor.Equal(wantDate) {
		t.Errorf("expected scan date %v, got %v", wantDate, leads.askedFor)
	}
}

func TestScanPropagatesListError(t *testing.T) {
	leads := &fakeLeadSource{err: errors.New("db down")}
	bus := &fakeBus{}

	_, err := newScannerAt(leads, bus, time.Now()).Scan(context.Background())
	if err == nil {
		t.Fatal("expected error from lead source")
	}
	if len(bus.published) != 0 {
		t.Error("no events may be published when the listing fails")
	}
}

func TestScanPropagatesPublishError(t *testing.T) {
	leads := &fakeLeadSource{
		due: []leadsrepo.DueFollowUp{{
			LeadID:       uuid.New(),
			LeadNumber:   "CL-2026-00009-11",
			FollowUpDate: time.Now().AddDate(0, 0, 1),
		}},
	}
	bus := &fakeBus{syncErr: errors.New("handler failed")}

	_, err := newScannerAt(leads, bus, time.Now()).Scan(context.Background())
	if err == nil {
		t.Fatal("expected publish error to surface so the job can retry")
	}
}
