// Package transport defines request and response DTOs for the leads module.
package transport

import (
	"time"

	"cleardoor_backend/internal/leads/domain"
	"cleardoor_backend/internal/leads/repository"
)

type SubmitLeadRequest struct {
	LeadNumber   string             `json:"leadNumber"`
	Customer     CustomerPayload    `json:"customer"`
	Project      ProjectPayload     `json:"project"`
	Stakeholders StakeholderPayload `json:"stakeholders"`
	Doors        []DoorPayload      `json:"doors"`
	Payment      PaymentPayload     `json:"payment"`
	Visit        VisitPayload       `json:"visit"`
}

type CustomerPayload struct {
	IsClientAvailable  string `json:"isClientAvailable" validate:"required"`
	Name               string `json:"name"`
	Mobile             string `json:"mobile"`
	Email              string `json:"email"`
	Address            string `json:"address"`
	SiteName           string `json:"siteName"`
	FollowUpDate       string `json:"followUpDate"`
	EstimatedDoorCount string `json:"estimatedDoorCount"`
}

type ProjectPayload struct {
	ProjectName             string `json:"projectName"`
	BuildingType            string `json:"buildingType"`
	ConstructionStage       string `json:"constructionStage"`
	DoorRequirementTimeline string `json:"doorRequirementTimeline"`
	EstimatedTotalDoorCount string `json:"estimatedTotalDoorCount"`
}

type StakeholderPayload struct {
	ArchitectName    string `json:"architectName"`
	ArchitectMobile  string `json:"architectMobile"`
	ContractorName   string `json:"contractorName"`
	ContractorMobile string `json:"contractorMobile"`
}

type DoorPayload struct {
	DoorType       string   `json:"doorType"`
	Material       string   `json:"material"`
	Quantity       int      `json:"quantity"`
	PhotoReference string   `json:"photoReference"`
	PhotoLatitude  *float64 `json:"photoLatitude"`
	PhotoLongitude *float64 `json:"photoLongitude"`
}

type PaymentPayload struct {
	PaymentResponsibilities []string `json:"paymentResponsibilities"`
	LeadSource              string   `json:"leadSource"`
	ProjectPriority         string   `json:"projectPriority"`
}

type VisitPayload struct {
	Latitude     *float64 `json:"latitude"`
	Longitude    *float64 `json:"longitude"`
	VillageName  string   `json:"villageName"`
	PlaceDetails string   `json:"placeDetails"`
	Notes        string   `json:"notes"`
}

// ToFormState converts the wire payload into the domain form.
func (r SubmitLeadRequest) ToFormState() domain.FormState {
	doors := make([]domain.DoorEntry, 0, len(r.Doors))
	for _, door := range r.Doors {
		doors = append(doors, domain.DoorEntry{
			DoorType:       door.DoorType,
			Material:       door.Material,
			Quantity:       door.Quantity,
			PhotoReference: door.PhotoReference,
			PhotoLatitude:  door.PhotoLatitude,
			PhotoLongitude: door.PhotoLongitude,
		})
	}

	return domain.FormState{
		LeadNumber: r.LeadNumber,
		Customer: domain.CustomerSection{
			IsClientAvailable:  r.Customer.IsClientAvailable,
			Name:               r.Customer.Name,
			Mobile:             r.Customer.Mobile,
			Email:              r.Customer.Email,
			Address:            r.Customer.Address,
			SiteName:           r.Customer.SiteName,
			FollowUpDate:       r.Customer.FollowUpDate,
			EstimatedDoorCount: r.Customer.EstimatedDoorCount,
		},
		Project: domain.ProjectSection{
			ProjectName:             r.Project.ProjectName,
			BuildingType:            r.Project.BuildingType,
			ConstructionStage:       r.Project.ConstructionStage,
			DoorRequirementTimeline: r.Project.DoorRequirementTimeline,
			EstimatedTotalDoorCount: r.Project.EstimatedTotalDoorCount,
		},
		Stakeholders: domain.StakeholderSection{
			ArchitectName:    r.Stakeholders.ArchitectName,
			ArchitectMobile:  r.Stakeholders.ArchitectMobile,
			ContractorName:   r.Stakeholders.ContractorName,
			ContractorMobile: r.Stakeholders.ContractorMobile,
		},
		Doors: doors,
		Payment: domain.PaymentSection{
			PaymentResponsibilities: r.Payment.PaymentResponsibilities,
			LeadSource:              r.Payment.LeadSource,
			ProjectPriority:         r.Payment.ProjectPriority,
		},
		Visit: domain.VisitSection{
			Latitude:     r.Visit.Latitude,
			Longitude:    r.Visit.Longitude,
			VillageName:  r.Visit.VillageName,
			PlaceDetails: r.Visit.PlaceDetails,
			Notes:        r.Visit.Notes,
		},
	}
}

type SubmitLeadResponse struct {
	LeadID     string `json:"leadId"`
	LeadNumber string `json:"leadNumber"`
	Status     string `json:"status"`
}

type DecisionRequest struct {
	Reason string `json:"reason"`
}

type LeadSummaryResponse struct {
	ID            string    `json:"id"`
	LeadNumber    string    `json:"leadNumber"`
	Status        string    `json:"status"`
	StatusReason  *string   `json:"statusReason,omitempty"`
	CustomerLabel *string   `json:"customerLabel,omitempty"`
	CreatedBy     string    `json:"createdBy"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

func NewLeadSummaryResponse(summary repository.LeadSummary) LeadSummaryResponse {
	return LeadSummaryResponse{
		ID:            summary.ID.String(),
		LeadNumber:    summary.LeadNumber,
		Status:        string(summary.Status),
		StatusReason:  summary.StatusReason,
		CustomerLabel: summary.CustomerLabel,
		CreatedBy:     summary.CreatedBy.String(),
		CreatedAt:     summary.CreatedAt,
		UpdatedAt:     summary.UpdatedAt,
	}
}

type LeadResponse struct {
	ID              string    `json:"id"`
	LeadNumber      string    `json:"leadNumber"`
	Status          string    `json:"status"`
	StatusReason    *string   `json:"statusReason,omitempty"`
	ClientAvailable bool      `json:"clientAvailable"`
	Version         int       `json:"version"`
	CreatedBy       string    `json:"createdBy"`
	UpdatedBy       string    `json:"updatedBy"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

func NewLeadResponse(lead repository.Lead) LeadResponse {
	return LeadResponse{
		ID:              lead.ID.String(),
		LeadNumber:      lead.LeadNumber,
		Status:          string(lead.Status),
		StatusReason:    lead.StatusReason,
		ClientAvailable: lead.ClientAvailable,
		Version:         lead.Version,
		CreatedBy:       lead.CreatedBy.String(),
		UpdatedBy:       lead.UpdatedBy.String(),
		CreatedAt:       lead.CreatedAt,
		UpdatedAt:       lead.UpdatedAt,
	}
}

type CustomerDetailsResponse struct {
	Name               *string    `json:"name,omitempty"`
	Mobile             *string    `json:"mobile,omitempty"`
	Email              *string    `json:"email,omitempty"`
	Address            string     `json:"address"`
	SiteName           *string    `json:"siteName,omitempty"`
	FollowUpDate       *time.Time `json:"followUpDate,omitempty"`
	EstimatedDoorCount *int       `json:"estimatedDoorCount,omitempty"`
}

type ProjectInformationResponse struct {
	ProjectName             *string `json:"projectName,omitempty"`
	BuildingType            *string `json:"buildingType,omitempty"`
	ConstructionStage       *string `json:"constructionStage,omitempty"`
	DoorRequirementTimeline *string `json:"doorRequirementTimeline,omitempty"`
	EstimatedTotalDoorCount *int    `json:"estimatedTotalDoorCount,omitempty"`
}

type StakeholderDetailsResponse struct {
	ArchitectName    *string `json:"architectName,omitempty"`
	ArchitectMobile  *string `json:"architectMobile,omitempty"`
	ContractorName   *string `json:"contractorName,omitempty"`
	ContractorMobile *string `json:"contractorMobile,omitempty"`
}

type PaymentDetailsResponse struct {
	PaymentResponsibilities []string `json:"paymentResponsibilities,omitempty"`
	LeadSource              *string  `json:"leadSource,omitempty"`
	ProjectPriority         *string  `json:"projectPriority,omitempty"`
}

type SiteVisitResponse struct {
	ID              string    `json:"id"`
	Latitude        *float64  `json:"latitude,omitempty"`
	Longitude       *float64  `json:"longitude,omitempty"`
	VillageName     *string   `json:"villageName,omitempty"`
	PlaceDetails    *string   `json:"placeDetails,omitempty"`
	ClientAvailable bool      `json:"clientAvailable"`
	Notes           *string   `json:"notes,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

type DoorSpecificationResponse struct {
	ID             string  `json:"id"`
	DoorType       string  `json:"doorType"`
	Material       string  `json:"material"`
	Quantity       int     `json:"quantity"`
	PhotoReference *string `json:"photoReference,omitempty"`
}

type LeadDetailResponse struct {
	Lead         LeadResponse                `json:"lead"`
	Customer     *CustomerDetailsResponse    `json:"customer,omitempty"`
	Project      *ProjectInformationResponse `json:"project,omitempty"`
	Stakeholders *StakeholderDetailsResponse `json:"stakeholders,omitempty"`
	Payment      *PaymentDetailsResponse     `json:"payment,omitempty"`
	CurrentVisit *SiteVisitResponse          `json:"currentVisit,omitempty"`
	Doors        []DoorSpecificationResponse `json:"doors"`
}

func NewLeadDetailResponse(detail repository.LeadDetail) LeadDetailResponse {
	resp := LeadDetailResponse{
		Lead:  NewLeadResponse(detail.Lead),
		Doors: make([]DoorSpecificationResponse, 0, len(detail.Doors)),
	}

	if detail.Customer != nil {
		resp.Customer = &CustomerDetailsResponse{
			Name:               detail.Customer.Name,
			Mobile:             detail.Customer.Mobile,
			Email:              detail.Customer.Email,
			Address:            detail.Customer.Address,
			SiteName:           detail.Customer.SiteName,
			FollowUpDate:       detail.Customer.FollowUpDate,
			EstimatedDoorCount: detail.Customer.EstimatedDoorCount,
		}
	}
	if detail.Project != nil {
		resp.Project = &ProjectInformationResponse{
			ProjectName:             detail.Project.ProjectName,
			BuildingType:            detail.Project.BuildingType,
			ConstructionStage:       detail.Project.ConstructionStage,
			DoorRequirementTimeline: detail.Project.DoorRequirementTimeline,
			EstimatedTotalDoorCount: detail.Project.EstimatedTotalDoorCount,
		}
	}
	if detail.Stakeholders != nil {
		resp.Stakeholders = &StakeholderDetailsResponse{
			ArchitectName:    detail.Stakeholders.ArchitectName,
			ArchitectMobile:  detail.Stakeholders.ArchitectMobile,
			ContractorName:   detail.Stakeholders.ContractorName,
			ContractorMobile: detail.Stakeholders.ContractorMobile,
		}
	}
	if detail.Payment != nil {
		resp.Payment = &PaymentDetailsResponse{
			PaymentResponsibilities: detail.Payment.PaymentResponsibilities,
			LeadSource:              detail.Payment.LeadSource,
			ProjectPriority:         detail.Payment.ProjectPriority,
		}
	}
	if detail.CurrentVisit != nil {
		resp.CurrentVisit = &SiteVisitResponse{
			ID:              detail.CurrentVisit.ID.String(),
			Latitude:        detail.CurrentVisit.Latitude,
			Longitude:       detail.CurrentVisit.Longitude,
			VillageName:     detail.CurrentVisit.VillageName,
			PlaceDetails:    detail.CurrentVisit.PlaceDetails,
			ClientAvailable: detail.CurrentVisit.ClientAvailable,
			Notes:           detail.CurrentVisit.Notes,
			CreatedAt:       detail.CurrentVisit.CreatedAt,
			UpdatedAt:       detail.CurrentVisit.UpdatedAt,
		}
	}
	for _, door := range detail.Doors {
		resp.Doors = append(resp.Doors, DoorSpecificationResponse{
			ID:             door.ID.String(),
			DoorType:       door.DoorType,
			Material:       door.Material,
			Quantity:       door.Quantity,
			PhotoReference: door.PhotoReference,
		})
	}
	return resp
}

type PhotoUploadResponse struct {
	PhotoReference string   `json:"photoReference"`
	Latitude       *float64 `json:"latitude,omitempty"`
	Longitude      *float64 `json:"longitude,omitempty"`
}
