// Package domain holds the lead lifecycle rules: statuses, legal
// transitions, lead number format, and the capture form validation.
package domain

import (
	"strings"

	"cleardoor_backend/platform/apperr"
)

// LeadStatus is the lifecycle state of a lead.
type LeadStatus string

const (
	// StatusRoaming is the initial state for a lead whose client was
	// available at the site visit. Admins decide on roaming leads.
	StatusRoaming LeadStatus = "Roaming"
	// StatusTemporarilyClosed marks a lead that needs follow-up, either
	// because the client was unavailable or because an admin rejected it.
	StatusTemporarilyClosed LeadStatus = "TemporarilyClosed"
	// StatusMaster is the terminal "won" state.
	StatusMaster LeadStatus = "Master"
	// StatusClosedPermanently is the terminal "lost" state. Leads in this
	// state are filtered out of active views, never deleted.
	StatusClosedPermanently LeadStatus = "ClosedPermanently"
)

// IsValid reports whether the value is a known status.
func (s LeadStatus) IsValid() bool {
	switch s {
	case StatusRoaming, StatusTemporarilyClosed, StatusMaster, StatusClosedPermanently:
		return true
	}
	return false
}

// IsTerminal reports whether the status permits no further transitions.
func (s LeadStatus) IsTerminal() bool {
	return s == StatusMaster || s == StatusClosedPermanently
}

// InitialStatus derives the status a freshly submitted lead starts in.
func InitialStatus(clientAvailable bool) LeadStatus {
	if clientAvailable {
		return StatusRoaming
	}
	return StatusTemporarilyClosed
}

// CanResubmit reports whether the lead can be edited and resubmitted by
// the survey person. Terminal leads cannot.
func CanResubmit(current LeadStatus) error {
	if current.IsTerminal() {
		return apperr.Precondition("lead is closed and cannot be resubmitted")
	}
	return nil
}

// CanApprove validates the approve transition. Approval is only legal
// from Roaming, and only when the lead's client availability holds.
// clientAvailable is the lead's stored availability signal, re-derived
// on every submission; it is the single authoritative source.
func CanApprove(current LeadStatus, clientAvailable bool) error {
	if current.IsTerminal() {
		return apperr.Precondition("lead is already closed")
	}
	if current != StatusRoaming {
		return apperr.Precondition("only roaming leads can be approved")
	}
	if !clientAvailable {
		return apperr.Precondition("client is not available for this lead")
	}
	return nil
}

// CanReject validates the reject transition. Rejection moves a roaming
// lead back to temporarily closed and requires a reason.
func CanReject(current LeadStatus, reason string) error {
	if strings.TrimSpace(reason) == "" {
		return apperr.Precondition("rejection reason is required")
	}
	if current.IsTerminal() {
		return apperr.Precondition("lead is already closed")
	}
	if current != StatusRoaming {
		return apperr.Precondition("only roaming leads can be rejected")
	}
	return nil
}

// CanClosePermanently validates the close transition. Closing is legal
// from Roaming and TemporarilyClosed and requires a reason.
func CanClosePermanently(current LeadStatus, reason string) error {
	if strings.TrimSpace(reason) == "" {
		return apperr.Precondition("closure reason is required")
	}
	if current.IsTerminal() {
		return apperr.Precondition("lead is already closed")
	}
	return nil
}
