package service

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"cleardoor_backend/internal/events"
	"cleardoor_backend/internal/leads/domain"
	"cleardoor_backend/internal/leads/repository"
	"cleardoor_backend/platform/apperr"
	"cleardoor_backend/platform/config"
	"cleardoor_backend/platform/logger"
	"cleardoor_backend/platform/phone"

	"github.com/google/uuid"
)

const unavailableStatusReason = "client was not available during the site visit"

// Actor identifies who is performing an operation.
type Actor struct {
	ID   uuid.UUID
	Role string
}

// IsAdmin reports whether the actor holds the admin role.
func (a Actor) IsAdmin() bool { return a.Role == "admin" }

// SubmitResult is returned on successful submission.
type SubmitResult struct {
	LeadID     uuid.UUID
	LeadNumber string
	Status     domain.LeadStatus
}

// Service orchestrates the lead lifecycle: form submission, admin
// decisions, queries, and door photo uploads.
type Service struct {
	store   Store
	bus     events.Bus
	storage Storage
	bucket  string
	cfg     config.SubmissionConfig
	log     *logger.Logger
	now     func() time.Time
}

func New(store Store, bus events.Bus, cfg config.SubmissionConfig, log *logger.Logger) *Service {
	return &Service{
		store: store,
		bus:   bus,
		cfg:   cfg,
		log:   log,
		now:   time.Now,
	}
}

// SetStorage wires the object store used for door photo uploads.
func (s *Service) SetStorage(storage Storage, bucket string) {
	s.storage = storage
	s.bucket = bucket
}

// Submit persists a validated capture form: the lead row, all child
// records, the current site visit, and door specifications, in one
// transaction. A nil existingLeadID creates a new lead; otherwise the
// existing lead is resubmitted in place. Calling Submit twice with the
// same existingLeadID and unchanged form leaves persisted state
// identical; calling it twice without always creates two leads.
func (s *Service) Submit(ctx context.Context, form domain.FormState, actor Actor, existingLeadID *uuid.UUID) (SubmitResult, error) {
	if failures := domain.ValidateForSubmit(form); len(failures) > 0 {
		return SubmitResult{}, apperr.Validation("form validation failed").WithDetails(failures)
	}

	ctx, cancel := context.WithTimeout(ctx, s.cfg.GetSubmitTimeout())
	defer cancel()

	available := form.ClientAvailable()
	status := domain.InitialStatus(available)
	var statusReason *string
	if !available {
		reason := unavailableStatusReason
		statusReason = &reason
	}

	var (
		lead  repository.Lead
		isNew bool
	)

	err := s.store.WithinTx(ctx, func(ctx context.Context) error {
		var err error

		if existingLeadID == nil {
			isNew = true
			leadNumber := strings.TrimSpace(form.LeadNumber)
			if !domain.ValidLeadNumber(leadNumber) {
				leadNumber = domain.NewLeadNumber(s.now())
			}
			lead, err = s.store.CreateLead(ctx, leadNumber, status, statusReason, available, actor.ID)
			if err != nil {
				return err
			}
		} else {
			current, err := s.store.GetLeadForUpdate(ctx, *existingLeadID)
			if err != nil {
				return err
			}
			if err := domain.CanResubmit(current.Status); err != nil {
				return err
			}
			lead, err = s.store.UpdateLeadSubmission(ctx, current.ID, status, statusReason, available, actor.ID)
			if err != nil {
				return err
			}
		}

		if err := s.writeChildren(ctx, lead.ID, form, available); err != nil {
			return err
		}

		visit, err := s.writeSiteVisit(ctx, lead.ID, form, available, isNew)
		if err != nil {
			return err
		}

		// Door rows are written only on the available branch; the
		// unavailable branch collects no door data.
		if available {
			if err := s.store.ReplaceDoorSpecifications(ctx, lead.ID, visit.ID, buildDoorSpecs(lead.ID, visit.ID, form)); err != nil {
				return err
			}
		}

		// The first submission by a field actor claims the lead. Admin
		// submissions never assign, and later field submissions leave
		// the existing assignment alone.
		if !actor.IsAdmin() {
			assigned, err := s.store.HasAssignment(ctx, lead.ID)
			if err != nil {
				return err
			}
			if !assigned {
				if err := s.store.CreateAssignment(ctx, lead.ID, actor.ID); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return SubmitResult{}, apperr.Timeout("lead submission timed out")
		}
		return SubmitResult{}, err
	}

	s.publishSubmission(ctx, lead, form, actor, isNew)

	return SubmitResult{LeadID: lead.ID, LeadNumber: lead.LeadNumber, Status: lead.Status}, nil
}

func (s *Service) writeChildren(ctx context.Context, leadID uuid.UUID, form domain.FormState, available bool) error {
	customer := repository.CustomerDetails{
		LeadID:   leadID,
		Address:  strings.TrimSpace(form.Customer.Address),
		SiteName: optText(form.Customer.SiteName),
	}
	if available {
		customer.Name = optText(form.Customer.Name)
		customer.Mobile = optText(phone.NormalizeE164(form.Customer.Mobile))
		customer.Email = optText(form.Customer.Email)
	} else {
		customer.FollowUpDate = optDate(form.Customer.FollowUpDate)
		customer.EstimatedDoorCount = optCount(form.Customer.EstimatedDoorCount)
	}
	if err := s.store.UpsertCustomerDetails(ctx, customer); err != nil {
		return err
	}

	// The unavailable branch collects none of the remaining sections;
	// their fields stay null rather than carrying placeholder text.
	project := repository.ProjectInformation{LeadID: leadID}
	stakeholders := repository.StakeholderDetails{LeadID: leadID}
	payment := repository.PaymentDetails{LeadID: leadID}
	if available {
		project.ProjectName = optText(form.Project.ProjectName)
		project.BuildingType = optText(form.Project.BuildingType)
		project.ConstructionStage = optText(form.Project.ConstructionStage)
		project.DoorRequirementTimeline = optText(form.Project.DoorRequirementTimeline)
		project.EstimatedTotalDoorCount = optCount(form.Project.EstimatedTotalDoorCount)

		stakeholders.ArchitectName = optText(form.Stakeholders.ArchitectName)
		stakeholders.ArchitectMobile = optText(phone.NormalizeE164(form.Stakeholders.ArchitectMobile))
		stakeholders.ContractorName = optText(form.Stakeholders.ContractorName)
		stakeholders.ContractorMobile = optText(phone.NormalizeE164(form.Stakeholders.ContractorMobile))

		payment.PaymentResponsibilities = form.Payment.PaymentResponsibilities
		payment.LeadSource = optText(form.Payment.LeadSource)
		payment.ProjectPriority = optText(form.Payment.ProjectPriority)
	}

	if err := s.store.UpsertProjectInformation(ctx, project); err != nil {
		return err
	}
	if err := s.store.UpsertStakeholderDetails(ctx, stakeholders); err != nil {
		return err
	}
	return s.store.UpsertPaymentDetails(ctx, payment)
}

func (s *Service) writeSiteVisit(ctx context.Context, leadID uuid.UUID, form domain.FormState, available, isNew bool) (repository.SiteVisit, error) {
	lat, lon := visitLocation(form)

	visit := repository.SiteVisit{
		LeadID:          leadID,
		Latitude:        lat,
		Longitude:       lon,
		VillageName:     optText(form.Visit.VillageName),
		PlaceDetails:    optText(form.Visit.PlaceDetails),
		ClientAvailable: available,
		Notes:           optText(form.Visit.Notes),
	}

	if !isNew {
		latest, err := s.store.GetLatestSiteVisit(ctx, leadID)
		if err == nil {
			visit.ID = latest.ID
			return s.store.UpdateSiteVisit(ctx, visit)
		}
		if !apperr.Is(err, apperr.KindNotFound) {
			return repository.SiteVisit{}, err
		}
	}
	return s.store.InsertSiteVisit(ctx, visit)
}

// visitLocation resolves the visit coordinates: the surveyor's explicit
// GPS fix wins, else the first door photo geotag, else none.
func visitLocation(form domain.FormState) (*float64, *float64) {
	if form.Visit.Latitude != nil && form.Visit.Longitude != nil {
		return form.Visit.Latitude, form.Visit.Longitude
	}
	for _, door := range form.Doors {
		if door.PhotoLatitude != nil && door.PhotoLongitude != nil {
			return door.PhotoLatitude, door.PhotoLongitude
		}
	}
	return nil, nil
}

func buildDoorSpecs(leadID, visitID uuid.UUID, form domain.FormState) []repository.DoorSpecification {
	var specs []repository.DoorSpecification
	for _, door := range form.Doors {
		if door.Quantity <= 0 {
			continue
		}
		specs = append(specs, repository.DoorSpecification{
			LeadID:         leadID,
			SiteVisitID:    visitID,
			DoorType:       door.DoorType,
			Material:       door.Material,
			Quantity:       door.Quantity,
			PhotoReference: optText(door.PhotoReference),
		})
	}
	return specs
}

func (s *Service) publishSubmission(ctx context.Context, lead repository.Lead, form domain.FormState, actor Actor, isNew bool) {
	if s.bus == nil {
		return
	}

	customerName := strings.TrimSpace(form.Customer.Name)
	if customerName == "" {
		customerName = strings.TrimSpace(form.Customer.SiteName)
	}

	if isNew {
		s.bus.Publish(ctx, events.LeadSubmitted{
			BaseEvent:    events.NewBaseEvent(),
			LeadID:       lead.ID,
			LeadNumber:   lead.LeadNumber,
			CustomerName: customerName,
			SubmittedBy:  actor.ID,
		})
		return
	}
	s.bus.Publish(ctx, events.LeadResubmitted{
		BaseEvent:    events.NewBaseEvent(),
		LeadID:       lead.ID,
		LeadNumber:   lead.LeadNumber,
		CustomerName: customerName,
		SubmittedBy:  actor.ID,
	})
}

func optText(value string) *string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func optCount(value string) *int {
	count, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || count <= 0 {
		return nil
	}
	return &count
}

func optDate(value string) *time.Time {
	parsed, err := time.ParseInLocation("2006-01-02", strings.TrimSpace(value), time.Local)
	if err != nil {
		return nil
	}
	return &parsed
}
