package service

import (
	"context"
	"strings"

	"cleardoor_backend/internal/events"
	"cleardoor_backend/internal/leads/domain"
	"cleardoor_backend/internal/leads/repository"

	"github.com/google/uuid"
)

// Approve moves a roaming lead to Master. The availability precondition
// is re-checked server-side against the lead's stored signal; the UI is
// not trusted.
func (s *Service) Approve(ctx context.Context, leadID uuid.UUID, admin Actor) (repository.Lead, error) {
	var updated repository.Lead

	err := s.store.WithinTx(ctx, func(ctx context.Context) error {
		lead, err := s.store.GetLeadForUpdate(ctx, leadID)
		if err != nil {
			return err
		}
		if err := domain.CanApprove(lead.Status, lead.ClientAvailable); err != nil {
			return err
		}
		updated, err = s.store.UpdateLeadDecision(ctx, leadID, domain.StatusMaster, nil, admin.ID)
		return err
	})
	if err != nil {
		return repository.Lead{}, err
	}

	if s.bus != nil {
		s.bus.Publish(ctx, events.LeadApproved{
			BaseEvent:  events.NewBaseEvent(),
			LeadID:     updated.ID,
			LeadNumber: updated.LeadNumber,
			ApprovedBy: admin.ID,
		})
	}
	return updated, nil
}

// Reject moves a roaming lead back to TemporarilyClosed with the admin's
// reason. A blank reason fails before any mutation.
func (s *Service) Reject(ctx context.Context, leadID uuid.UUID, admin Actor, reason string) (repository.Lead, error) {
	reason = strings.TrimSpace(reason)
	var updated repository.Lead

	err := s.store.WithinTx(ctx, func(ctx context.Context) error {
		lead, err := s.store.GetLeadForUpdate(ctx, leadID)
		if err != nil {
			return err
		}
		if err := domain.CanReject(lead.Status, reason); err != nil {
			return err
		}
		updated, err = s.store.UpdateLeadDecision(ctx, leadID, domain.StatusTemporarilyClosed, &reason, admin.ID)
		return err
	})
	if err != nil {
		return repository.Lead{}, err
	}

	if s.bus != nil {
		s.bus.Publish(ctx, events.LeadRejected{
			BaseEvent:  events.NewBaseEvent(),
			LeadID:     updated.ID,
			LeadNumber: updated.LeadNumber,
			RejectedBy: admin.ID,
			Reason:     reason,
		})
	}
	return updated, nil
}

// ClosePermanently archives a lead with the admin's reason. Closed leads
// disappear from active views but are never deleted.
func (s *Service) ClosePermanently(ctx context.Context, leadID uuid.UUID, admin Actor, reason string) (repository.Lead, error) {
	reason = strings.TrimSpace(reason)
	var updated repository.Lead

	err := s.store.WithinTx(ctx, func(ctx context.Context) error {
		lead, err := s.store.GetLeadForUpdate(ctx, leadID)
		if err != nil {
			return err
		}
		if err := domain.CanClosePermanently(lead.Status, reason); err != nil {
			return err
		}
		updated, err = s.store.UpdateLeadDecision(ctx, leadID, domain.StatusClosedPermanently, &reason, admin.ID)
		return err
	})
	if err != nil {
		return repository.Lead{}, err
	}

	if s.bus != nil {
		s.bus.Publish(ctx, events.LeadClosed{
			BaseEvent:  events.NewBaseEvent(),
			LeadID:     updated.ID,
			LeadNumber: updated.LeadNumber,
			ClosedBy:   admin.ID,
			Reason:     reason,
		})
	}
	return updated, nil
}
