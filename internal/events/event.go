package events

import (
	"github.com/google/uuid"
)

// Event names. Subscribers register on these.
const (
	EventLeadSubmitted   = "lead.submitted"
	EventLeadResubmitted = "lead.resubmitted"
	EventLeadApproved    = "lead.approved"
	EventLeadRejected    = "lead.rejected"
	EventLeadClosed      = "lead.closed"
	EventFollowUpDue     = "lead.followup_due"
)

// LeadSubmitted fires when a completed capture form is submitted for the
// first time and a new lead record is created.
type LeadSubmitted struct {
	BaseEvent
	LeadID       uuid.UUID
	LeadNumber   string
	CustomerName string
	SubmittedBy  uuid.UUID
}

func (e LeadSubmitted) EventName() string { return EventLeadSubmitted }

// LeadResubmitted fires when an existing lead is updated through the
// capture form.
type LeadResubmitted struct {
	BaseEvent
	LeadID       uuid.UUID
	LeadNumber   string
	CustomerName string
	SubmittedBy  uuid.UUID
}

func (e LeadResubmitted) EventName() string { return EventLeadResubmitted }

// LeadApproved fires when an admin approves a lead.
type LeadApproved struct {
	BaseEvent
	LeadID     uuid.UUID
	LeadNumber string
	ApprovedBy uuid.UUID
}

func (e LeadApproved) EventName() string { return EventLeadApproved }

// LeadRejected fires when an admin rejects a lead. Reason carries the
// admin's verbatim rejection note.
type LeadRejected struct {
	BaseEvent
	LeadID     uuid.UUID
	LeadNumber string
	RejectedBy uuid.UUID
	Reason     string
}

func (e LeadRejected) EventName() string { return EventLeadRejected }

// LeadClosed fires when an admin permanently closes a lead.
type LeadClosed struct {
	BaseEvent
	LeadID     uuid.UUID
	LeadNumber string
	ClosedBy   uuid.UUID
	Reason     string
}

func (e LeadClosed) EventName() string { return EventLeadClosed }

// FollowUpDue fires when the follow-up scanner finds a visit scheduled
// for the next calendar day.
type FollowUpDue struct {
	BaseEvent
	LeadID        uuid.UUID
	LeadNumber    string
	CustomerName  string
	ScheduledDate string
}

func (e FollowUpDue) EventName() string { return EventFollowUpDue }
