package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"cleardoor_backend/internal/events"
	"cleardoor_backend/internal/leads/domain"
	"cleardoor_backend/internal/leads/repository"
	"cleardoor_backend/platform/apperr"
	"cleardoor_backend/platform/logger"

	"github.com/google/uuid"
)

// fakeStore is an in-memory Store. Transactions are a plain callback;
// the rollback behavior of the real repository is not simulated.
type fakeStore struct {
	leads        map[uuid.UUID]repository.Lead
	customers    map[uuid.UUID]repository.CustomerDetails
	projects     map[uuid.UUID]repository.ProjectInformation
	stakeholders map[uuid.UUID]repository.StakeholderDetails
	payments     map[uuid.UUID]repository.PaymentDetails
	visits       []repository.SiteVisit
	doors        map[uuid.UUID][]repository.DoorSpecification
	assignments  []repository.Assignment

	txDelay time.Duration
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		leads:        make(map[uuid.UUID]repository.Lead),
		customers:    make(map[uuid.UUID]repository.CustomerDetails),
		projects:     make(map[uuid.UUID]repository.ProjectInformation),
		stakeholders: make(map[uuid.UUID]repository.StakeholderDetails),
		payments:     make(map[uuid.UUID]repository.PaymentDetails),
		doors:        make(map[uuid.UUID][]repository.DoorSpecification),
	}
}

func (f *fakeStore) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if f.txDelay > 0 {
		select {
		case <-time.After(f.txDelay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return fn(ctx)
}

func (f *fakeStore) CreateLead(_ context.Context, leadNumber string, status domain.LeadStatus, statusReason *string, clientAvailable bool, actorID uuid.UUID) (repository.Lead, error) {
	for _, lead := range f.leads {
		if lead.LeadNumber == leadNumber {
			return repository.Lead{}, apperr.Conflict("lead number already exists")
		}
	}
	lead := repository.Lead{
		ID:              uuid.New(),
		LeadNumber:      leadNumber,
		Status:          status,
		StatusReason:    statusReason,
		ClientAvailable: clientAvailable,
		Version:         1,
		CreatedBy:       actorID,
		UpdatedBy:       actorID,
		CreatedAt:       time.Now(),
		UpdatedAt:       time.Now(),
	}
	f.leads[lead.ID] = lead
	return lead, nil
}

func (f *fakeStore) GetLeadForUpdate(ctx context.Context, leadID uuid.UUID) (repository.Lead, error) {
	return f.GetLeadByID(ctx, leadID)
}

func (f *fakeStore) GetLeadByID(_ context.Context, leadID uuid.UUID) (repository.Lead, error) {
	lead, ok := f.leads[leadID]
	if !ok {
		return repository.Lead{}, apperr.NotFound("lead not found")
	}
	return lead, nil
}

func (f *fakeStore) UpdateLeadSubmission(_ context.Context, leadID uuid.UUID, status domain.LeadStatus, statusReason *string, clientAvailable bool, actorID uuid.UUID) (repository.Lead, error) {
	lead, ok := f.leads[leadID]
	if !ok {
		return repository.Lead{}, apperr.NotFound("lead not found")
	}
	lead.Status = status
	lead.StatusReason = statusReason
	lead.ClientAvailable = clientAvailable
	lead.UpdatedBy = actorID
	lead.Version++
	lead.UpdatedAt = time.Now()
	f.leads[leadID] = lead
	return lead, nil
}

func (f *fakeStore) UpdateLeadDecision(_ context.Context, leadID uuid.UUID, status domain.LeadStatus, statusReason *string, actorID uuid.UUID) (repository.Lead, error) {
	lead, ok := f.leads[leadID]
	if !ok {
		return repository.Lead{}, apperr.NotFound("lead not found")
	}
	lead.Status = status
	lead.StatusReason = statusReason
	lead.UpdatedBy = actorID
	lead.Version++
	f.leads[leadID] = lead
	return lead, nil
}

func (f *fakeStore) UpsertCustomerDetails(_ context.Context, details repository.CustomerDetails) error {
	f.customers[details.LeadID] = details
	return nil
}

func (f *fakeStore) UpsertProjectInformation(_ context.Context, info repository.ProjectInformation) error {
	f.projects[info.LeadID] = info
	return nil
}

func (f *fakeStore) UpsertStakeholderDetails(_ context.Context, details repository.StakeholderDetails) error {
	f.stakeholders[details.LeadID] = details
	return nil
}

func (f *fakeStore) UpsertPaymentDetails(_ context.Context, details repository.PaymentDetails) error {
	f.payments[details.LeadID] = details
	return nil
}

func (f *fakeStore) GetLatestSiteVisit(_ context.Context, leadID uuid.UUID) (repository.SiteVisit, error) {
	for i := len(f.visits) - 1; i >= 0; i-- {
		if f.visits[i].LeadID == leadID {
			return f.visits[i], nil
		}
	}
	return repository.SiteVisit{}, apperr.NotFound("site visit not found")
}

func (f *fakeStore) InsertSiteVisit(_ context.Context, visit repository.SiteVisit) (repository.SiteVisit, error) {
	visit.ID = uuid.New()
	visit.CreatedAt = time.Now()
	f.visits = append(f.visits, visit)
	return visit, nil
}

func (f *fakeStore) UpdateSiteVisit(_ context.Context, visit repository.SiteVisit) (repository.SiteVisit, error) {
	for i := range f.visits {
		if f.visits[i].ID == visit.ID {
			visit.LeadID = f.visits[i].LeadID
			visit.CreatedAt = f.visits[i].CreatedAt
			f.visits[i] = visit
			return visit, nil
		}
	}
	return repository.SiteVisit{}, apperr.NotFound("site visit not found")
}

func (f *fakeStore) ReplaceDoorSpecifications(_ context.Context, leadID, siteVisitID uuid.UUID, doors []repository.DoorSpecification) error {
	f.doors[leadID] = doors
	return nil
}

func (f *fakeStore) HasAssignment(_ context.Context, leadID uuid.UUID) (bool, error) {
	for _, a := range f.assignments {
		if a.LeadID == leadID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeStore) CreateAssignment(_ context.Context, leadID, userID uuid.UUID) error {
	for i := range f.assignments {
		if f.assignments[i].LeadID == leadID {
			f.assignments[i].IsCurrent = false
		}
	}
	f.assignments = append(f.assignments, repository.Assignment{
		ID: uuid.New(), LeadID: leadID, UserID: userID, IsCurrent: true, AssignedAt: time.Now(),
	})
	return nil
}

func (f *fakeStore) ListActiveLeads(_ context.Context, status *domain.LeadStatus) ([]repository.LeadSummary, error) {
	var out []repository.LeadSummary
	for _, lead := range f.leads {
		if lead.Status == domain.StatusClosedPermanently {
			continue
		}
		if status != nil && lead.Status != *status {
			continue
		}
		out = append(out, repository.LeadSummary{ID: lead.ID, LeadNumber: lead.LeadNumber, Status: lead.Status})
	}
	return out, nil
}

func (f *fakeStore) GetLeadDetail(ctx context.Context, leadID uuid.UUID) (repository.LeadDetail, error) {
	lead, err := f.GetLeadByID(ctx, leadID)
	if err != nil {
		return repository.LeadDetail{}, err
	}
	return repository.LeadDetail{Lead: lead, Doors: f.doors[leadID]}, nil
}

func (f *fakeStore) ListFollowUpsDueOn(_ context.Context, day time.Time) ([]repository.DueFollowUp, error) {
	var due []repository.DueFollowUp
	for id, customer := range f.customers {
		if customer.FollowUpDate == nil || !customer.FollowUpDate.Equal(day) {
			continue
		}
		lead := f.leads[id]
		due = append(due, repository.DueFollowUp{LeadID: id, LeadNumber: lead.LeadNumber, CreatedBy: lead.CreatedBy})
	}
	return due, nil
}

// fakeBus records published events synchronously.
type fakeBus struct {
	mu        sync.Mutex
	published []events.Event
}

func (b *fakeBus) Publish(_ context.Context, event events.Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.published = append(b.published, event)
}

func (b *fakeBus) PublishSync(ctx context.Context, event events.Event) error {
	b.Publish(ctx, event)
	return nil
}

func (b *fakeBus) Subscribe(string, events.Handler) {}

func (b *fakeBus) names() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]string, 0, len(b.published))
	for _, event := range b.published {
		out = append(out, event.EventName())
	}
	return out
}

type submitConfig struct {
	timeout time.Duration
}

func (c submitConfig) GetSubmitTimeout() time.Duration {
	if c.timeout > 0 {
		return c.timeout
	}
	return 5 * time.Second
}

func newTestService(store *fakeStore, bus *fakeBus, timeout time.Duration) *Service {
	return New(store, bus, submitConfig{timeout: timeout}, logger.New("test"))
}

func availableForm() domain.FormState {
	return domain.FormState{
		Customer: domain.CustomerSection{
			IsClientAvailable: "yes",
			Name:              "Sharma Constructions",
			Mobile:            "9876543210",
			Address:           "12 Main St",
		},
		Project: domain.ProjectSection{
			ProjectName:             "Lakeview Apartments",
			BuildingType:            "Residential",
			ConstructionStage:       "Framing",
			DoorRequirementTimeline: "3 months",
			EstimatedTotalDoorCount: "40",
		},
		Stakeholders: domain.StakeholderSection{
			ArchitectName:    "R. Mehta",
			ArchitectMobile:  "9876500001",
			ContractorName:   "K. Patil",
			ContractorMobile: "9876500002",
		},
		Doors: []domain.DoorEntry{
			{DoorType: "Main", Material: "Teak", Quantity: 2},
			{DoorType: "Bedroom", Material: "Flush", Quantity: 8},
		},
		Payment: domain.PaymentSection{
			PaymentResponsibilities: []string{"owner"},
			LeadSource:              "site-visit",
			ProjectPriority:         "high",
		},
	}
}

func unavailableForm() domain.FormState {
	tomorrow := time.Now().AddDate(0, 0, 1).Format("2006-01-02")
	return domain.FormState{
		Customer: domain.CustomerSection{
			IsClientAvailable:  "no",
			SiteName:           "Lakeview site",
			Address:            "12 Main St",
			FollowUpDate:       tomorrow,
			EstimatedDoorCount: "10",
		},
	}
}

func TestSubmitUnavailableClient(t *testing.T) {
	store := newFakeStore()
	bus := &fakeBus{}
	svc := newTestService(store, bus, 0)
	actor := Actor{ID: uuid.New(), Role: "engineer"}

	result, err := svc.Submit(context.Background(), unavailableForm(), actor, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Status != domain.StatusTemporarilyClosed {
		t.Fatalf("expected TemporarilyClosed, got %s", result.Status)
	}

	lead := store.leads[result.LeadID]
	if lead.ClientAvailable {
		t.Fatal("expected client_available=false")
	}
	if lead.StatusReason == nil {
		t.Fatal("expected a status reason for a temporarily closed lead")
	}

	project := store.projects[result.LeadID]
	if project.ProjectName != nil {
		t.Fatalf("project name must stay null on the unavailable branch, got %q", *project.ProjectName)
	}

	customer := store.customers[result.LeadID]
	if customer.FollowUpDate == nil || customer.EstimatedDoorCount == nil {
		t.Fatal("expected follow-up date and estimated door count to be persisted")
	}
	if *customer.EstimatedDoorCount != 10 {
		t.Fatalf("expected estimated door count 10, got %d", *customer.EstimatedDoorCount)
	}

	if len(store.doors[result.LeadID]) != 0 {
		t.Fatalf("expected zero door rows, got %d", len(store.doors[result.LeadID]))
	}
}

func TestSubmitAvailableClient(t *testing.T) {
	store := newFakeStore()
	bus := &fakeBus{}
	svc := newTestService(store, bus, 0)
	actor := Actor{ID: uuid.New(), Role: "engineer"}

	result, err := svc.Submit(context.Background(), availableForm(), actor, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Status != domain.StatusRoaming {
		t.Fatalf("expected Roaming, got %s", result.Status)
	}
	if !domain.ValidLeadNumber(result.LeadNumber) {
		t.Fatalf("generated lead number %q is malformed", result.LeadNumber)
	}

	if len(store.doors[result.LeadID]) != 2 {
		t.Fatalf("expected 2 door rows, got %d", len(store.doors[result.LeadID]))
	}

	if len(store.assignments) != 1 || store.assignments[0].UserID != actor.ID || !store.assignments[0].IsCurrent {
		t.Fatalf("expected one current assignment for the surveyor, got %+v", store.assignments)
	}

	names := bus.names()
	if len(names) != 1 || names[0] != events.EventLeadSubmitted {
		t.Fatalf("expected a single submitted event, got %v", names)
	}
}

func TestSubmitAdminGetsNoAssignment(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store, &fakeBus{}, 0)

	_, err := svc.Submit(context.Background(), availableForm(), Actor{ID: uuid.New(), Role: "admin"}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(store.assignments) != 0 {
		t.Fatalf("admin submissions must not create assignments, got %+v", store.assignments)
	}
}

func TestEngineerClaimsAdminCreatedLead(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store, &fakeBus{}, 0)
	engineer := Actor{ID: uuid.New(), Role: "engineer"}

	result, err := svc.Submit(context.Background(), availableForm(), Actor{ID: uuid.New(), Role: "admin"}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(store.assignments) != 0 {
		t.Fatalf("admin submission must leave the lead unassigned, got %+v", store.assignments)
	}

	if _, err := svc.Submit(context.Background(), availableForm(), engineer, &result.LeadID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(store.assignments) != 1 || store.assignments[0].UserID != engineer.ID || !store.assignments[0].IsCurrent {
		t.Fatalf("first field submission must claim the lead, got %+v", store.assignments)
	}
}

func TestStoredMobilesAreE164(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store, &fakeBus{}, 0)

	result, err := svc.Submit(context.Background(), availableForm(), Actor{ID: uuid.New(), Role: "engineer"}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	customer := store.customers[result.LeadID]
	if customer.Mobile == nil || *customer.Mobile != "+919876543210" {
		t.Fatalf("expected customer mobile stored as E.164, got %v", customer.Mobile)
	}

	stakeholders := store.stakeholders[result.LeadID]
	if stakeholders.ArchitectMobile == nil || *stakeholders.ArchitectMobile != "+919876500001" {
		t.Fatalf("expected architect mobile stored as E.164, got %v", stakeholders.ArchitectMobile)
	}
	if stakeholders.ContractorMobile == nil || *stakeholders.ContractorMobile != "+919876500002" {
		t.Fatalf("expected contractor mobile stored as E.164, got %v", stakeholders.ContractorMobile)
	}
}

func TestSubmitKeepsProvidedLeadNumber(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store, &fakeBus{}, 0)

	form := availableForm()
	form.LeadNumber = "CL-2026-12345-33"
	result, err := svc.Submit(context.Background(), form, Actor{ID: uuid.New(), Role: "engineer"}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.LeadNumber != "CL-2026-12345-33" {
		t.Fatalf("expected form lead number to be kept, got %q", result.LeadNumber)
	}
}

func TestSubmitValidationFailure(t *testing.T) {
	svc := newTestService(newFakeStore(), &fakeBus{}, 0)

	form := availableForm()
	form.Customer.Mobile = "123"
	_, err := svc.Submit(context.Background(), form, Actor{ID: uuid.New(), Role: "engineer"}, nil)
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestResubmissionIsIdempotent(t *testing.T) {
	store := newFakeStore()
	bus := &fakeBus{}
	svc := newTestService(store, bus, 0)
	actor := Actor{ID: uuid.New(), Role: "engineer"}

	form := availableForm()
	first, err := svc.Submit(context.Background(), form, actor, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	second, err := svc.Submit(context.Background(), form, actor, &first.LeadID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if second.LeadID != first.LeadID || second.LeadNumber != first.LeadNumber {
		t.Fatal("resubmission must not create a new lead or renumber it")
	}

	if len(store.leads) != 1 {
		t.Fatalf("expected one lead row, got %d", len(store.leads))
	}
	if len(store.doors[first.LeadID]) != 2 {
		t.Fatalf("expected the same 2 door rows, got %d", len(store.doors[first.LeadID]))
	}

	visitCount := 0
	for _, visit := range store.visits {
		if visit.LeadID == first.LeadID {
			visitCount++
		}
	}
	if visitCount != 1 {
		t.Fatalf("resubmission must reuse the current visit row, got %d rows", visitCount)
	}

	if len(store.assignments) != 1 {
		t.Fatalf("resubmission must not alter assignment, got %d rows", len(store.assignments))
	}

	names := bus.names()
	if len(names) != 2 || names[1] != events.EventLeadResubmitted {
		t.Fatalf("expected submitted then resubmitted events, got %v", names)
	}
}

func TestResubmissionReplacesDoorSet(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store, &fakeBus{}, 0)
	actor := Actor{ID: uuid.New(), Role: "engineer"}

	first, err := svc.Submit(context.Background(), availableForm(), actor, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	form := availableForm()
	form.Doors = []domain.DoorEntry{{DoorType: "Balcony", Material: "UPVC", Quantity: 4}}
	if _, err := svc.Submit(context.Background(), form, actor, &first.LeadID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	doors := store.doors[first.LeadID]
	if len(doors) != 1 || doors[0].DoorType != "Balcony" || doors[0].Quantity != 4 {
		t.Fatalf("expected exactly the new door set, got %+v", doors)
	}
}

func TestResubmissionReevaluatesAvailability(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store, &fakeBus{}, 0)
	actor := Actor{ID: uuid.New(), Role: "engineer"}

	first, err := svc.Submit(context.Background(), unavailableForm(), actor, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first.Status != domain.StatusTemporarilyClosed {
		t.Fatalf("expected TemporarilyClosed, got %s", first.Status)
	}

	second, err := svc.Submit(context.Background(), availableForm(), actor, &first.LeadID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if second.Status != domain.StatusRoaming {
		t.Fatalf("expected Roaming after availability flip, got %s", second.Status)
	}

	lead := store.leads[first.LeadID]
	if !lead.ClientAvailable || lead.StatusReason != nil {
		t.Fatalf("expected availability true and no reason, got %+v", lead)
	}
	if len(store.doors[first.LeadID]) != 2 {
		t.Fatal("unavailable-to-available resubmission must write door rows")
	}
}

func TestResubmissionOfTerminalLeadFails(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store, &fakeBus{}, 0)
	actor := Actor{ID: uuid.New(), Role: "engineer"}

	first, err := svc.Submit(context.Background(), availableForm(), actor, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	lead := store.leads[first.LeadID]
	lead.Status = domain.StatusMaster
	store.leads[first.LeadID] = lead

	_, err = svc.Submit(context.Background(), availableForm(), actor, &first.LeadID)
	if !apperr.Is(err, apperr.KindPrecondition) {
		t.Fatalf("expected precondition error, got %v", err)
	}
}

func TestSubmitUnknownLeadID(t *testing.T) {
	svc := newTestService(newFakeStore(), &fakeBus{}, 0)
	missing := uuid.New()

	_, err := svc.Submit(context.Background(), availableForm(), Actor{ID: uuid.New(), Role: "engineer"}, &missing)
	if !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestSubmitTimeout(t *testing.T) {
	store := newFakeStore()
	store.txDelay = 200 * time.Millisecond
	svc := newTestService(store, &fakeBus{}, 10*time.Millisecond)

	_, err := svc.Submit(context.Background(), availableForm(), Actor{ID: uuid.New(), Role: "engineer"}, nil)
	if !apperr.Is(err, apperr.KindTimeout) {
		t.Fatalf("expected timeout error, got %v", err)
	}
}

func TestVisitLocationPrecedence(t *testing.T) {
	lat, lon := 18.52, 73.85
	photoLat, photoLon := 19.07, 72.87

	form := availableForm()
	form.Visit.Latitude = &lat
	form.Visit.Longitude = &lon
	form.Doors[0].PhotoLatitude = &photoLat
	form.Doors[0].PhotoLongitude = &photoLon

	gotLat, gotLon := visitLocation(form)
	if gotLat == nil || *gotLat != lat || *gotLon != lon {
		t.Fatal("explicit GPS fix must win over the photo geotag")
	}

	form.Visit.Latitude = nil
	form.Visit.Longitude = nil
	gotLat, gotLon = visitLocation(form)
	if gotLat == nil || *gotLat != photoLat || *gotLon != photoLon {
		t.Fatal("photo geotag must be the fallback")
	}

	form.Doors[0].PhotoLatitude = nil
	form.Doors[0].PhotoLongitude = nil
	gotLat, gotLon = visitLocation(form)
	if gotLat != nil || gotLon != nil {
		t.Fatal("expected no location when neither source is present")
	}
}
