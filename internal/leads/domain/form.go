package domain

import (
	"strconv"
	"strings"
	"time"

	"cleardoor_backend/platform/phone"
)

// Form sections. Section ids double as keys in validation error maps.
const (
	SectionCustomer     = "customer"
	SectionProject      = "project"
	SectionStakeholders = "stakeholders"
	SectionDoors        = "doors"
	SectionPayment      = "payment"
)

// Step is a position in the capture flow.
type Step int

const (
	StepCustomer Step = iota + 1
	StepProject
	StepStakeholders
	StepDoors
	StepPayment
	StepReview
)

// FieldErrors maps field names to a human-readable validation message.
type FieldErrors map[string]string

// FormState holds the in-progress multi-section survey answers.
// Values arrive as entered on the device, so numeric fields are strings
// until validated. Validation never mutates the form.
type FormState struct {
	LeadNumber   string
	Customer     CustomerSection
	Project      ProjectSection
	Stakeholders StakeholderSection
	Doors        []DoorEntry
	Payment      PaymentSection
	Visit        VisitSection
}

type CustomerSection struct {
	IsClientAvailable  string
	Name               string
	Mobile             string
	Email              string
	Address            string
	SiteName           string
	FollowUpDate       string
	EstimatedDoorCount string
}

type ProjectSection struct {
	ProjectName             string
	BuildingType            string
	ConstructionStage       string
	DoorRequirementTimeline string
	EstimatedTotalDoorCount string
}

type StakeholderSection struct {
	ArchitectName    string
	ArchitectMobile  string
	ContractorName   string
	ContractorMobile string
}

// DoorEntry is one door type line. PhotoLatitude/PhotoLongitude carry
// the geotag extracted from the uploaded door photo, if any; they feed
// the site visit location fallback when the surveyor entered no GPS fix.
type DoorEntry struct {
	DoorType       string
	Material       string
	Quantity       int
	PhotoReference string
	PhotoLatitude  *float64
	PhotoLongitude *float64
}

type PaymentSection struct {
	PaymentResponsibilities []string
	LeadSource              string
	ProjectPriority         string
}

// VisitSection carries the surveyor's site observations: geolocation and
// free-text notes. Coordinates are optional; when absent the orchestrator
// falls back to the first door photo's embedded geotag.
type VisitSection struct {
	Latitude    *float64
	Longitude   *float64
	VillageName string
	PlaceDetails string
	Notes       string
}

// ClientAvailable reports the availability branch of the form. The whole
// downstream data shape depends on this one answer: an unavailable client
// skips the project, stakeholder, door, and payment sections entirely.
func (f FormState) ClientAvailable() bool {
	return !strings.EqualFold(strings.TrimSpace(f.Customer.IsClientAvailable), "no")
}

// NextStep computes the step following current. Advancing from the
// customer step with an unavailable client skips straight to review.
func (f FormState) NextStep(current Step) Step {
	if current == StepCustomer && !f.ClientAvailable() {
		return StepReview
	}
	if current >= StepReview {
		return StepReview
	}
	return current + 1
}

// ValidateSection checks one section's rules against the form.
// It returns the per-field error map; the section is valid when the map
// is empty. The caller decides whether to advance.
func ValidateSection(section string, form FormState) FieldErrors {
	switch section {
	case SectionCustomer:
		return validateCustomer(form)
	case SectionProject:
		return validateProject(form)
	case SectionStakeholders:
		return validateStakeholders(form)
	case SectionDoors:
		return validateDoors(form)
	case SectionPayment:
		return validatePayment(form)
	}
	return FieldErrors{"section": "unknown section: " + section}
}

// ValidateForSubmit runs every section required by the form's
// availability branch. An unavailable client only needs a valid customer
// section; the rest are skipped.
func ValidateForSubmit(form FormState) map[string]FieldErrors {
	failures := make(map[string]FieldErrors)

	sections := []string{SectionCustomer}
	if form.ClientAvailable() {
		sections = append(sections, SectionProject, SectionStakeholders, SectionDoors, SectionPayment)
	}

	for _, section := range sections {
		if errs := ValidateSection(section, form); len(errs) > 0 {
			failures[section] = errs
		}
	}
	return failures
}

func validateCustomer(form FormState) FieldErrors {
	errs := FieldErrors{}
	c := form.Customer

	if strings.TrimSpace(c.Address) == "" {
		errs["address"] = "address is required"
	}

	if !form.ClientAvailable() {
		if strings.TrimSpace(c.SiteName) == "" {
			errs["siteName"] = "site name is required"
		}
		validateFutureDate(errs, "followUpDate", c.FollowUpDate)
		validatePositiveCount(errs, "estimatedDoorCount", c.EstimatedDoorCount)
		return errs
	}

	if strings.TrimSpace(c.Name) == "" {
		errs["name"] = "customer name is required"
	}
	if !phone.IsValidMobile(c.Mobile) {
		errs["mobile"] = "a valid 10-digit mobile number is required"
	}
	return errs
}

func validateProject(form FormState) FieldErrors {
	errs := FieldErrors{}
	p := form.Project

	requireText(errs, "projectName", p.ProjectName, "project name is required")
	requireText(errs, "buildingType", p.BuildingType, "building type is required")
	requireText(errs, "constructionStage", p.ConstructionStage, "construction stage is required")
	requireText(errs, "doorRequirementTimeline", p.DoorRequirementTimeline, "door requirement timeline is required")
	validatePositiveCount(errs, "estimatedTotalDoorCount", p.EstimatedTotalDoorCount)
	return errs
}

func validateStakeholders(form FormState) FieldErrors {
	errs := FieldErrors{}
	s := form.Stakeholders

	requireText(errs, "architectName", s.ArchitectName, "architect name is required")
	requireText(errs, "contractorName", s.ContractorName, "contractor name is required")
	if !phone.IsValidMobile(s.ArchitectMobile) {
		errs["architectMobile"] = "a valid 10-digit mobile number is required"
	}
	if !phone.IsValidMobile(s.ContractorMobile) {
		errs["contractorMobile"] = "a valid 10-digit mobile number is required"
	}
	return errs
}

func validateDoors(form FormState) FieldErrors {
	errs := FieldErrors{}

	usable := 0
	for i, door := range form.Doors {
		hasMaterial := strings.TrimSpace(door.Material) != ""
		if door.Quantity > 0 && !hasMaterial {
			errs["doors["+strconv.Itoa(i)+"].material"] = "material is required"
			continue
		}
		if door.Quantity > 0 && hasMaterial {
			usable++
		}
	}
	if usable == 0 {
		errs["doors"] = "at least one door type with material and a positive quantity is required"
	}
	return errs
}

func validatePayment(form FormState) FieldErrors {
	errs := FieldErrors{}
	p := form.Payment

	if len(p.PaymentResponsibilities) == 0 {
		errs["paymentResponsibilities"] = "at least one payment responsibility is required"
	}
	requireText(errs, "leadSource", p.LeadSource, "lead source is required")
	requireText(errs, "projectPriority", p.ProjectPriority, "project priority is required")
	return errs
}

func requireText(errs FieldErrors, field, value, message string) {
	if strings.TrimSpace(value) == "" {
		errs[field] = message
	}
}

func validatePositiveCount(errs FieldErrors, field, value string) {
	raw := strings.TrimSpace(value)
	if raw == "" {
		errs[field] = "a door count is required"
		return
	}
	count, err := strconv.Atoi(raw)
	if err != nil || count <= 0 {
		errs[field] = "door count must be a positive number"
	}
}

func validateFutureDate(errs FieldErrors, field, value string) {
	raw := strings.TrimSpace(value)
	if raw == "" {
		errs[field] = "a follow-up date is required"
		return
	}
	parsed, err := time.ParseInLocation("2006-01-02", raw, time.Local)
	if err != nil {
		errs[field] = "date must be in YYYY-MM-DD format"
		return
	}
	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.Local)
	if parsed.Before(today) {
		errs[field] = "date must be today or later"
	}
}
