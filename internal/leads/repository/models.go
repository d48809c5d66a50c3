package repository

import (
	"time"

	"cleardoor_backend/internal/leads/domain"

	"github.com/google/uuid"
)

// Lead is the aggregate root row. ClientAvailable is the single
// authoritative availability signal, re-derived on every submission;
// status transitions consult it rather than parsing reason text.
type Lead struct {
	ID              uuid.UUID
	LeadNumber      string
	Status          domain.LeadStatus
	StatusReason    *string
	ClientAvailable bool
	Version         int
	CreatedBy       uuid.UUID
	UpdatedBy       uuid.UUID
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// CustomerDetails is the 1:1 customer child. Fields that the unavailable
// branch never collects stay null instead of carrying placeholder text.
type CustomerDetails struct {
	LeadID             uuid.UUID
	Name               *string
	Mobile             *string
	Email              *string
	Address            string
	SiteName           *string
	FollowUpDate       *time.Time
	EstimatedDoorCount *int
}

type ProjectInformation struct {
	LeadID                  uuid.UUID
	ProjectName             *string
	BuildingType            *string
	ConstructionStage       *string
	DoorRequirementTimeline *string
	EstimatedTotalDoorCount *int
}

type StakeholderDetails struct {
	LeadID           uuid.UUID
	ArchitectName    *string
	ArchitectMobile  *string
	ContractorName   *string
	ContractorMobile *string
}

type PaymentDetails struct {
	LeadID                  uuid.UUID
	PaymentResponsibilities []string
	LeadSource              *string
	ProjectPriority         *string
}

// SiteVisit is a 1:N child; the most recent row is the current visit log
// and is mutated in place on resubmission.
type SiteVisit struct {
	ID              uuid.UUID
	LeadID          uuid.UUID
	Latitude        *float64
	Longitude       *float64
	VillageName     *string
	PlaceDetails    *string
	ClientAvailable bool
	Notes           *string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

type DoorSpecification struct {
	ID             uuid.UUID
	LeadID         uuid.UUID
	SiteVisitID    uuid.UUID
	DoorType       string
	Material       string
	Quantity       int
	PhotoReference *string
}

type Assignment struct {
	ID         uuid.UUID
	LeadID     uuid.UUID
	UserID     uuid.UUID
	IsCurrent  bool
	AssignedAt time.Time
}

// LeadSummary is a list-view projection joining the customer label.
type LeadSummary struct {
	ID            uuid.UUID
	LeadNumber    string
	Status        domain.LeadStatus
	StatusReason  *string
	CustomerLabel *string
	CreatedBy     uuid.UUID
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// LeadDetail aggregates the lead with all child records.
type LeadDetail struct {
	Lead         Lead
	Customer     *CustomerDetails
	Project      *ProjectInformation
	Stakeholders *StakeholderDetails
	Payment      *PaymentDetails
	CurrentVisit *SiteVisit
	Doors        []DoorSpecification
}

// DueFollowUp is a follow-up scan projection.
type DueFollowUp struct {
	LeadID        uuid.UUID
	LeadNumber    string
	CustomerLabel string
	CreatedBy     uuid.UUID
	FollowUpDate  time.Time
}
