package service

import (
	"context"
	"testing"

	"cleardoor_backend/internal/events"
	"cleardoor_backend/internal/leads/domain"
	"cleardoor_backend/platform/apperr"

	"github.com/google/uuid"
)

func submitRoamingLead(t *testing.T, svc *Service) uuid.UUID {
	t.Helper()
	result, err := svc.Submit(context.Background(), availableForm(), Actor{ID: uuid.New(), Role: "engineer"}, nil)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	return result.LeadID
}

func TestApproveRoamingLead(t *testing.T) {
	store := newFakeStore()
	bus := &fakeBus{}
	svc := newTestService(store, bus, 0)
	leadID := submitRoamingLead(t, svc)
	admin := Actor{ID: uuid.New(), Role: "admin"}

	updated, err := svc.Approve(context.Background(), leadID, admin)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Status != domain.StatusMaster {
		t.Fatalf("expected Master, got %s", updated.Status)
	}

	names := bus.names()
	if names[len(names)-1] != events.EventLeadApproved {
		t.Fatalf("expected approved event, got %v", names)
	}
}

func TestApproveRejectedWhenClientUnavailable(t *testing.T) {
	store := newFakeStore()
	bus := &fakeBus{}
	svc := newTestService(store, bus, 0)
	leadID := submitRoamingLead(t, svc)

	// Force the availability signal off while leaving the status Roaming.
	lead := store.leads[leadID]
	lead.ClientAvailable = false
	store.leads[leadID] = lead

	_, err := svc.Approve(context.Background(), leadID, Actor{ID: uuid.New(), Role: "admin"})
	if !apperr.Is(err, apperr.KindPrecondition) {
		t.Fatalf("expected precondition error, got %v", err)
	}
	if store.leads[leadID].Status != domain.StatusRoaming {
		t.Fatal("failed approval must not mutate the lead")
	}
}

func TestApproveTerminalLeadIsNoOp(t *testing.T) {
	store := newFakeStore()
	bus := &fakeBus{}
	svc := newTestService(store, bus, 0)
	leadID := submitRoamingLead(t, svc)
	admin := Actor{ID: uuid.New(), Role: "admin"}

	if _, err := svc.Approve(context.Background(), leadID, admin); err != nil {
		t.Fatalf("first approve: %v", err)
	}
	eventsBefore := len(bus.names())

	_, err := svc.Approve(context.Background(), leadID, admin)
	if !apperr.Is(err, apperr.KindPrecondition) {
		t.Fatalf("expected precondition error on second approve, got %v", err)
	}
	if store.leads[leadID].Status != domain.StatusMaster {
		t.Fatal("lead must remain Master")
	}
	if len(bus.names()) != eventsBefore {
		t.Fatal("failed approve must not emit an event")
	}
}

func TestRejectWithBlankReason(t *testing.T) {
	store := newFakeStore()
	bus := &fakeBus{}
	svc := newTestService(store, bus, 0)
	leadID := submitRoamingLead(t, svc)
	versionBefore := store.leads[leadID].Version
	eventsBefore := len(bus.names())

	_, err := svc.Reject(context.Background(), leadID, Actor{ID: uuid.New(), Role: "admin"}, "   ")
	if !apperr.Is(err, apperr.KindPrecondition) {
		t.Fatalf("expected precondition error, got %v", err)
	}
	if store.leads[leadID].Version != versionBefore {
		t.Fatal("failed reject must not mutate the lead")
	}
	if len(bus.names()) != eventsBefore {
		t.Fatal("failed reject must not emit an event")
	}
}

func TestRejectCarriesReason(t *testing.T) {
	store := newFakeStore()
	bus := &fakeBus{}
	svc := newTestService(store, bus, 0)
	leadID := submitRoamingLead(t, svc)

	updated, err := svc.Reject(context.Background(), leadID, Actor{ID: uuid.New(), Role: "admin"}, "budget not sanctioned")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Status != domain.StatusTemporarilyClosed {
		t.Fatalf("expected TemporarilyClosed, got %s", updated.Status)
	}
	if updated.StatusReason == nil || *updated.StatusReason != "budget not sanctioned" {
		t.Fatalf("expected reason to be stored verbatim, got %v", updated.StatusReason)
	}

	var rejected *events.LeadRejected
	for _, event := range bus.published {
		if e, ok := event.(events.LeadRejected); ok {
			rejected = &e
		}
	}
	if rejected == nil || rejected.Reason != "budget not sanctioned" {
		t.Fatalf("expected rejected event carrying the reason, got %+v", rejected)
	}
}

func TestClosePermanently(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store, &fakeBus{}, 0)
	leadID := submitRoamingLead(t, svc)
	admin := Actor{ID: uuid.New(), Role: "admin"}

	if _, err := svc.ClosePermanently(context.Background(), leadID, admin, ""); !apperr.Is(err, apperr.KindPrecondition) {
		t.Fatal("expected precondition error for blank reason")
	}

	updated, err := svc.ClosePermanently(context.Background(), leadID, admin, "duplicate entry")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Status != domain.StatusClosedPermanently {
		t.Fatalf("expected ClosedPermanently, got %s", updated.Status)
	}

	// Closed leads disappear from active listings.
	summaries, err := svc.ListActive(context.Background(), "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, summary := range summaries {
		if summary.ID == leadID {
			t.Fatal("permanently closed lead must not appear in active views")
		}
	}
}

func TestCloseTemporarilyClosedLead(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store, &fakeBus{}, 0)

	result, err := svc.Submit(context.Background(), unavailableForm(), Actor{ID: uuid.New(), Role: "engineer"}, nil)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	updated, err := svc.ClosePermanently(context.Background(), result.LeadID, Actor{ID: uuid.New(), Role: "admin"}, "site abandoned")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Status != domain.StatusClosedPermanently {
		t.Fatalf("expected ClosedPermanently, got %s", updated.Status)
	}
}

func TestListActiveRejectsUnknownFilter(t *testing.T) {
	svc := newTestService(newFakeStore(), &fakeBus{}, 0)

	if _, err := svc.ListActive(context.Background(), "Bogus"); !apperr.Is(err, apperr.KindBadRequest) {
		t.Fatalf("expected bad request, got %v", err)
	}
	if _, err := svc.ListActive(context.Background(), "ClosedPermanently"); !apperr.Is(err, apperr.KindBadRequest) {
		t.Fatalf("closed-permanently filter must be rejected, got %v", err)
	}
}
