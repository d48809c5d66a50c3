package domain

import (
	"testing"
	"time"
)

func availableForm() FormState {
	return FormState{
		Customer: CustomerSection{
			IsClientAvailable: "yes",
			Name:              "Sharma Constructions",
			Mobile:            "9876543210",
			Address:           "12 Main St",
		},
		Project: ProjectSection{
			ProjectName:             "Lakeview Apartments",
			BuildingType:            "Residential",
			ConstructionStage:       "Framing",
			DoorRequirementTimeline: "3 months",
			EstimatedTotalDoorCount: "40",
		},
		Stakeholders: StakeholderSection{
			ArchitectName:    "R. Mehta",
			ArchitectMobile:  "9876500001",
			ContractorName:   "K. Patil",
			ContractorMobile: "9876500002",
		},
		Doors: []DoorEntry{
			{DoorType: "Main", Material: "Teak", Quantity: 2},
			{DoorType: "Bedroom", Material: "Flush", Quantity: 8},
		},
		Payment: PaymentSection{
			PaymentResponsibilities: []string{"owner"},
			LeadSource:              "site-visit",
			ProjectPriority:         "high",
		},
	}
}

func unavailableForm() FormState {
	tomorrow := time.Now().AddDate(0, 0, 1).Format("2006-01-02")
	return FormState{
		Customer: CustomerSection{
			IsClientAvailable:  "no",
			SiteName:           "Lakeview site",
			Address:            "12 Main St",
			FollowUpDate:       tomorrow,
			EstimatedDoorCount: "10",
		},
	}
}

func TestClientAvailableBranch(t *testing.T) {
	cases := []struct {
		answer    string
		available bool
	}{
		{"yes", true},
		{"no", false},
		{"No", false},
		{" no ", false},
		{"", true},
		{"maybe", true},
	}

	for _, tc := range cases {
		form := FormState{Customer: CustomerSection{IsClientAvailable: tc.answer}}
		if got := form.ClientAvailable(); got != tc.available {
			t.Errorf("answer %q: expected available=%v, got %v", tc.answer, tc.available, got)
		}
	}
}

func TestNextStepSkipsToReviewWhenUnavailable(t *testing.T) {
	form := unavailableForm()
	if got := form.NextStep(StepCustomer); got != StepReview {
		t.Fatalf("expected skip to review, got step %d", got)
	}

	form = availableForm()
	if got := form.NextStep(StepCustomer); got != StepProject {
		t.Fatalf("expected project step, got step %d", got)
	}
	if got := form.NextStep(StepReview); got != StepReview {
		t.Fatalf("review must not advance, got step %d", got)
	}
}

func TestValidateCustomerAvailable(t *testing.T) {
	form := availableForm()
	if errs := ValidateSection(SectionCustomer, form); len(errs) != 0 {
		t.Fatalf("expected valid customer section, got %v", errs)
	}

	form.Customer.Mobile = "12345"
	errs := ValidateSection(SectionCustomer, form)
	if _, ok := errs["mobile"]; !ok {
		t.Fatalf("expected mobile error, got %v", errs)
	}

	form.Customer.Mobile = "98-765-43210"
	if errs := ValidateSection(SectionCustomer, form); len(errs) != 0 {
		t.Fatalf("formatted 10-digit mobile should pass, got %v", errs)
	}

	form.Customer.Name = ""
	errs = ValidateSection(SectionCustomer, form)
	if _, ok := errs["name"]; !ok {
		t.Fatalf("expected name error, got %v", errs)
	}
}

func TestValidateCustomerUnavailable(t *testing.T) {
	form := unavailableForm()
	if errs := ValidateSection(SectionCustomer, form); len(errs) != 0 {
		t.Fatalf("expected valid section, got %v", errs)
	}

	form.Customer.FollowUpDate = "2020-01-01"
	errs := ValidateSection(SectionCustomer, form)
	if _, ok := errs["followUpDate"]; !ok {
		t.Fatalf("expected past-date error, got %v", errs)
	}

	form = unavailableForm()
	form.Customer.EstimatedDoorCount = "0"
	errs = ValidateSection(SectionCustomer, form)
	if _, ok := errs["estimatedDoorCount"]; !ok {
		t.Fatalf("expected door count error, got %v", errs)
	}

	form = unavailableForm()
	form.Customer.EstimatedDoorCount = "ten"
	errs = ValidateSection(SectionCustomer, form)
	if _, ok := errs["estimatedDoorCount"]; !ok {
		t.Fatalf("expected non-numeric door count error, got %v", errs)
	}

	// Name and mobile are not required on the unavailable branch.
	form = unavailableForm()
	form.Customer.Name = ""
	form.Customer.Mobile = ""
	if errs := ValidateSection(SectionCustomer, form); len(errs) != 0 {
		t.Fatalf("name/mobile must not be required when unavailable, got %v", errs)
	}
}

func TestFollowUpDateToday(t *testing.T) {
	form := unavailableForm()
	form.Customer.FollowUpDate = time.Now().Format("2006-01-02")
	if errs := ValidateSection(SectionCustomer, form); len(errs) != 0 {
		t.Fatalf("today must be a legal follow-up date, got %v", errs)
	}
}

func TestValidateDoors(t *testing.T) {
	form := availableForm()
	if errs := ValidateSection(SectionDoors, form); len(errs) != 0 {
		t.Fatalf("expected valid doors, got %v", errs)
	}

	form.Doors = nil
	errs := ValidateSection(SectionDoors, form)
	if _, ok := errs["doors"]; !ok {
		t.Fatalf("expected missing-doors error, got %v", errs)
	}

	form.Doors = []DoorEntry{{DoorType: "Main", Quantity: 2}}
	errs = ValidateSection(SectionDoors, form)
	if _, ok := errs["doors[0].material"]; !ok {
		t.Fatalf("expected material error, got %v", errs)
	}

	form.Doors = []DoorEntry{{DoorType: "Main", Material: "Teak", Quantity: 0}}
	errs = ValidateSection(SectionDoors, form)
	if _, ok := errs["doors"]; !ok {
		t.Fatalf("zero quantity rows must not count, got %v", errs)
	}
}

func TestValidatePayment(t *testing.T) {
	form := availableForm()
	if errs := ValidateSection(SectionPayment, form); len(errs) != 0 {
		t.Fatalf("expected valid payment, got %v", errs)
	}

	form.Payment.PaymentResponsibilities = nil
	form.Payment.LeadSource = ""
	errs := ValidateSection(SectionPayment, form)
	if len(errs) != 2 {
		t.Fatalf("expected two errors, got %v", errs)
	}
}

func TestValidateForSubmitSkipsSectionsWhenUnavailable(t *testing.T) {
	form := unavailableForm()
	if failures := ValidateForSubmit(form); len(failures) != 0 {
		t.Fatalf("unavailable branch must only validate customer, got %v", failures)
	}

	form = availableForm()
	form.Stakeholders.ContractorMobile = "bad"
	failures := ValidateForSubmit(form)
	if _, ok := failures[SectionStakeholders]; !ok {
		t.Fatalf("expected stakeholder failure, got %v", failures)
	}
}
