package repository

import (
	"context"
	"errors"
	"time"

	"cleardoor_backend/internal/leads/domain"
	"cleardoor_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ListActiveLeads returns all leads except permanently closed ones,
// newest activity first. An optional status narrows the result.
func (r *Repository) ListActiveLeads(ctx context.Context, status *domain.LeadStatus) ([]LeadSummary, error) {
	query := `
		SELECT l.id, l.lead_number, l.status, l.status_reason,
		       COALESCE(cd.name, cd.site_name) AS customer_label,
		       l.created_by, l.created_at, l.updated_at
		FROM leads l
		LEFT JOIN customer_details cd ON cd.lead_id = l.id
		WHERE l.status <> $1`
	args := []any{domain.StatusClosedPermanently}

	if status != nil {
		query += ` AND l.status = $2`
		args = append(args, *status)
	}
	query += ` ORDER BY l.updated_at DESC`

	rows, err := r.q(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "failed to list leads", err)
	}
	defer rows.Close()

	var summaries []LeadSummary
	for rows.Next() {
		var s LeadSummary
		if err := rows.Scan(&s.ID, &s.LeadNumber, &s.Status, &s.StatusReason,
			&s.CustomerLabel, &s.CreatedBy, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, apperr.Wrap(apperr.KindInternal, "failed to scan lead summary", err)
		}
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}

// GetLeadDetail loads a lead together with all child records.
func (r *Repository) GetLeadDetail(ctx context.Context, leadID uuid.UUID) (LeadDetail, error) {
	lead, err := r.GetLeadByID(ctx, leadID)
	if err != nil {
		return LeadDetail{}, err
	}

	detail := LeadDetail{Lead: lead}
	q := r.q(ctx)

	var customer CustomerDetails
	err = q.QueryRow(ctx, `
		SELECT lead_id, name, mobile, email, address, site_name, follow_up_date, estimated_door_count
		FROM customer_details WHERE lead_id = $1
	`, leadID).Scan(&customer.LeadID, &customer.Name, &customer.Mobile, &customer.Email,
		&customer.Address, &customer.SiteName, &customer.FollowUpDate, &customer.EstimatedDoorCount)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return LeadDetail{}, apperr.Wrap(apperr.KindInternal, "failed to load customer details", err)
	}
	if err == nil {
		detail.Customer = &customer
	}

	var project ProjectInformation
	err = q.QueryRow(ctx, `
		SELECT lead_id, project_name, building_type, construction_stage, door_requirement_timeline, estimated_total_door_count
		FROM project_information WHERE lead_id = $1
	`, leadID).Scan(&project.LeadID, &project.ProjectName, &project.BuildingType,
		&project.ConstructionStage, &project.DoorRequirementTimeline, &project.EstimatedTotalDoorCount)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return LeadDetail{}, apperr.Wrap(apperr.KindInternal, "failed to load project information", err)
	}
	if err == nil {
		detail.Project = &project
	}

	var stakeholders StakeholderDetails
	err = q.QueryRow(ctx, `
		SELECT lead_id, architect_name, architect_mobile, contractor_name, contractor_mobile
		FROM stakeholder_details WHERE lead_id = $1
	`, leadID).Scan(&stakeholders.LeadID, &stakeholders.ArchitectName, &stakeholders.ArchitectMobile,
		&stakeholders.ContractorName, &stakeholders.ContractorMobile)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return LeadDetail{}, apperr.Wrap(apperr.KindInternal, "failed to load stakeholder details", err)
	}
	if err == nil {
		detail.Stakeholders = &stakeholders
	}

	var payment PaymentDetails
	err = q.QueryRow(ctx, `
		SELECT lead_id, payment_responsibilities, lead_source, project_priority
		FROM payment_details WHERE lead_id = $1
	`, leadID).Scan(&payment.LeadID, &payment.PaymentResponsibilities, &payment.LeadSource, &payment.ProjectPriority)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return LeadDetail{}, apperr.Wrap(apperr.KindInternal, "failed to load payment details", err)
	}
	if err == nil {
		detail.Payment = &payment
	}

	visit, err := r.GetLatestSiteVisit(ctx, leadID)
	if err != nil && !apperr.Is(err, apperr.KindNotFound) {
		return LeadDetail{}, err
	}
	if err == nil {
		detail.CurrentVisit = &visit
	}

	doors, err := r.ListDoorSpecifications(ctx, leadID)
	if err != nil {
		return LeadDetail{}, err
	}
	detail.Doors = doors

	return detail, nil
}

// ListFollowUpsDueOn returns leads whose customer follow-up date falls on
// the given calendar day. Permanently closed leads never come up.
func (r *Repository) ListFollowUpsDueOn(ctx context.Context, day time.Time) ([]DueFollowUp, error) {
	rows, err := r.q(ctx).Query(ctx, `
		SELECT l.id, l.lead_number,
		       COALESCE(cd.name, cd.site_name, '') AS customer_label,
		       l.created_by, cd.follow_up_date
		FROM leads l
		JOIN customer_details cd ON cd.lead_id = l.id
		WHERE cd.follow_up_date = $1
		  AND l.status <> $2
	`, day, domain.StatusClosedPermanently)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "failed to query due follow-ups", err)
	}
	defer rows.Close()

	var due []DueFollowUp
	for rows.Next() {
		var d DueFollowUp
		if err := rows.Scan(&d.LeadID, &d.LeadNumber, &d.CustomerLabel, &d.CreatedBy, &d.FollowUpDate); err != nil {
			return nil, apperr.Wrap(apperr.KindInternal, "failed to scan due follow-up", err)
		}
		due = append(due, d)
	}
	return due, rows.Err()
}

// CreatorAndAssignee returns the lead's creator and its current assignee
// (nil when unassigned) for notification fan-out.
func (r *Repository) CreatorAndAssignee(ctx context.Context, leadID uuid.UUID) (uuid.UUID, *uuid.UUID, error) {
	lead, err := r.GetLeadByID(ctx, leadID)
	if err != nil {
		return uuid.Nil, nil, err
	}
	assignee, err := r.CurrentAssignee(ctx, leadID)
	if err != nil {
		return uuid.Nil, nil, err
	}
	return lead.CreatedBy, assignee, nil
}
