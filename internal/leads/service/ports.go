package service

import (
	"context"
	"io"
	"time"

	"cleardoor_backend/internal/leads/domain"
	"cleardoor_backend/internal/leads/repository"

	"github.com/google/uuid"
)

// Store is the persistence surface the lead service needs. The concrete
// implementation is the pgx-backed repository; tests provide a fake.
// Methods called with the ctx handed to a WithinTx callback run inside
// that transaction.
type Store interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error

	CreateLead(ctx context.Context, leadNumber string, status domain.LeadStatus, statusReason *string, clientAvailable bool, actorID uuid.UUID) (repository.Lead, error)
	GetLeadForUpdate(ctx context.Context, leadID uuid.UUID) (repository.Lead, error)
	GetLeadByID(ctx context.Context, leadID uuid.UUID) (repository.Lead, error)
	UpdateLeadSubmission(ctx context.Context, leadID uuid.UUID, status domain.LeadStatus, statusReason *string, clientAvailable bool, actorID uuid.UUID) (repository.Lead, error)
	UpdateLeadDecision(ctx context.Context, leadID uuid.UUID, status domain.LeadStatus, statusReason *string, actorID uuid.UUID) (repository.Lead, error)

	UpsertCustomerDetails(ctx context.Context, details repository.CustomerDetails) error
	UpsertProjectInformation(ctx context.Context, info repository.ProjectInformation) error
	UpsertStakeholderDetails(ctx context.Context, details repository.StakeholderDetails) error
	UpsertPaymentDetails(ctx context.Context, details repository.PaymentDetails) error

	GetLatestSiteVisit(ctx context.Context, leadID uuid.UUID) (repository.SiteVisit, error)
	InsertSiteVisit(ctx context.Context, visit repository.SiteVisit) (repository.SiteVisit, error)
	UpdateSiteVisit(ctx context.Context, visit repository.SiteVisit) (repository.SiteVisit, error)

	ReplaceDoorSpecifications(ctx context.Context, leadID, siteVisitID uuid.UUID, doors []repository.DoorSpecification) error

	HasAssignment(ctx context.Context, leadID uuid.UUID) (bool, error)
	CreateAssignment(ctx context.Context, leadID, userID uuid.UUID) error

	ListActiveLeads(ctx context.Context, status *domain.LeadStatus) ([]repository.LeadSummary, error)
	GetLeadDetail(ctx context.Context, leadID uuid.UUID) (repository.LeadDetail, error)
	ListFollowUpsDueOn(ctx context.Context, day time.Time) ([]repository.DueFollowUp, error)
}

// Storage is the object-store surface used for door photos.
type Storage interface {
	UploadFile(ctx context.Context, bucket, folder, fileName, contentType string, reader io.Reader, size int64) (string, error)
}
