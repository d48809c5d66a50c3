package service

import (
	"context"

	"cleardoor_backend/internal/leads/domain"
	"cleardoor_backend/internal/leads/repository"
	"cleardoor_backend/platform/apperr"

	"github.com/google/uuid"
)

// ListActive returns active leads, optionally narrowed to one status.
// Permanently closed leads are filtered out at read time.
func (s *Service) ListActive(ctx context.Context, statusFilter string) ([]repository.LeadSummary, error) {
	var status *domain.LeadStatus
	if statusFilter != "" {
		candidate := domain.LeadStatus(statusFilter)
		if !candidate.IsValid() || candidate == domain.StatusClosedPermanently {
			return nil, apperr.BadRequest("unknown status filter")
		}
		status = &candidate
	}
	return s.store.ListActiveLeads(ctx, status)
}

// Detail loads a lead with all its child records.
func (s *Service) Detail(ctx context.Context, leadID uuid.UUID) (repository.LeadDetail, error) {
	return s.store.GetLeadDetail(ctx, leadID)
}
