package repository

import (
	"context"
	"errors"

	"cleardoor_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// UpsertCustomerDetails writes the 1:1 customer child, updating in place
// on resubmission so exactly one row exists per lead.
func (r *Repository) UpsertCustomerDetails(ctx context.Context, details CustomerDetails) error {
	_, err := r.q(ctx).Exec(ctx, `
		INSERT INTO customer_details (lead_id, name, mobile, email, address, site_name, follow_up_date, estimated_door_count)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (lead_id) DO UPDATE SET
			name = EXCLUDED.name,
			mobile = EXCLUDED.mobile,
			email = EXCLUDED.email,
			address = EXCLUDED.address,
			site_name = EXCLUDED.site_name,
			follow_up_date = EXCLUDED.follow_up_date,
			estimated_door_count = EXCLUDED.estimated_door_count,
			updated_at = now()
	`, details.LeadID, details.Name, details.Mobile, details.Email, details.Address,
		details.SiteName, details.FollowUpDate, details.EstimatedDoorCount)
	if err != nil {
		return apperr.Wrap(apperr.KindInternal, "failed to upsert customer details", err)
	}
	return nil
}

func (r *Repository) UpsertProjectInformation(ctx context.Context, info ProjectInformation) error {
	_, err := r.q(ctx).Exec(ctx, `
		INSERT INTO project_information (lead_id, project_name, building_type, construction_stage, door_requirement_timeline, estimated_total_door_count)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (lead_id) DO UPDATE SET
			project_name = EXCLUDED.project_name,
			building_type = EXCLUDED.building_type,
			construction_stage = EXCLUDED.construction_stage,
			door_requirement_timeline = EXCLUDED.door_requirement_timeline,
			estimated_total_door_count = EXCLUDED.estimated_total_door_count,
			updated_at = now()
	`, info.LeadID, info.ProjectName, info.BuildingType, info.ConstructionStage,
		info.DoorRequirementTimeline, info.EstimatedTotalDoorCount)
	if err != nil {
		return apperr.Wrap(apperr.KindInternal, "failed to upsert project information", err)
	}
	return nil
}

func (r *Repository) UpsertStakeholderDetails(ctx context.Context, details StakeholderDetails) error {
	_, err := r.q(ctx).Exec(ctx, `
		INSERT INTO stakeholder_details (lead_id, architect_name, architect_mobile, contractor_name, contractor_mobile)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (lead_id) DO UPDATE SET
			architect_name = EXCLUDED.architect_name,
			architect_mobile = EXCLUDED.architect_mobile,
			contractor_name = EXCLUDED.contractor_name,
			contractor_mobile = EXCLUDED.contractor_mobile,
			updated_at = now()
	`, details.LeadID, details.ArchitectName, details.ArchitectMobile,
		details.ContractorName, details.ContractorMobile)
	if err != nil {
		return apperr.Wrap(apperr.KindInternal, "failed to upsert stakeholder details", err)
	}
	return nil
}

func (r *Repository) UpsertPaymentDetails(ctx context.Context, details PaymentDetails) error {
	_, err := r.q(ctx).Exec(ctx, `
		INSERT INTO payment_details (lead_id, payment_responsibilities, lead_source, project_priority)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (lead_id) DO UPDATE SET
			payment_responsibilities = EXCLUDED.payment_responsibilities,
			lead_source = EXCLUDED.lead_source,
			project_priority = EXCLUDED.project_priority,
			updated_at = now()
	`, details.LeadID, details.PaymentResponsibilities, details.LeadSource, details.ProjectPriority)
	if err != nil {
		return apperr.Wrap(apperr.KindInternal, "failed to upsert payment details", err)
	}
	return nil
}

const siteVisitColumns = `id, lead_id, latitude, longitude, village_name, place_details, client_available, notes, created_at, updated_at`

func scanSiteVisit(row pgx.Row) (SiteVisit, error) {
	var visit SiteVisit
	err := row.Scan(
		&visit.ID,
		&visit.LeadID,
		&visit.Latitude,
		&visit.Longitude,
		&visit.VillageName,
		&visit.PlaceDetails,
		&visit.ClientAvailable,
		&visit.Notes,
		&visit.CreatedAt,
		&visit.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return SiteVisit{}, apperr.NotFound("site visit not found")
	}
	if err != nil {
		return SiteVisit{}, apperr.Wrap(apperr.KindInternal, "failed to scan site visit", err)
	}
	return visit, nil
}

// GetLatestSiteVisit returns the current (most recent) visit log for a lead.
func (r *Repository) GetLatestSiteVisit(ctx context.Context, leadID uuid.UUID) (SiteVisit, error) {
	return scanSiteVisit(r.q(ctx).QueryRow(ctx, `
		SELECT `+siteVisitColumns+`
		FROM site_visits
		WHERE lead_id = $1
		ORDER BY created_at DESC
		LIMIT 1
	`, leadID))
}

func (r *Repository) InsertSiteVisit(ctx context.Context, visit SiteVisit) (SiteVisit, error) {
	return scanSiteVisit(r.q(ctx).QueryRow(ctx, `
		INSERT INTO site_visits (lead_id, latitude, longitude, village_name, place_details, client_available, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+siteVisitColumns+`
	`, visit.LeadID, visit.Latitude, visit.Longitude, visit.VillageName,
		visit.PlaceDetails, visit.ClientAvailable, visit.Notes))
}

// UpdateSiteVisit mutates an existing visit row in place.
func (r *Repository) UpdateSiteVisit(ctx context.Context, visit SiteVisit) (SiteVisit, error) {
	return scanSiteVisit(r.q(ctx).QueryRow(ctx, `
		UPDATE site_visits
		SET latitude = $2,
		    longitude = $3,
		    village_name = $4,
		    place_details = $5,
		    client_available = $6,
		    notes = $7,
		    updated_at = now()
		WHERE id = $1
		RETURNING `+siteVisitColumns+`
	`, visit.ID, visit.Latitude, visit.Longitude, visit.VillageName,
		visit.PlaceDetails, visit.ClientAvailable, visit.Notes))
}

// ReplaceDoorSpecifications deletes every door row for the lead and
// inserts the new set. Full-replace semantics, not merge.
func (r *Repository) ReplaceDoorSpecifications(ctx context.Context, leadID, siteVisitID uuid.UUID, doors []DoorSpecification) error {
	q := r.q(ctx)

	if _, err := q.Exec(ctx, `DELETE FROM door_specifications WHERE lead_id = $1`, leadID); err != nil {
		return apperr.Wrap(apperr.KindInternal, "failed to clear door specifications", err)
	}

	for _, door := range doors {
		if _, err := q.Exec(ctx, `
			INSERT INTO door_specifications (lead_id, site_visit_id, door_type, material, quantity, photo_reference)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, leadID, siteVisitID, door.DoorType, door.Material, door.Quantity, door.PhotoReference); err != nil {
			return apperr.Wrap(apperr.KindInternal, "failed to insert door specification", err)
		}
	}
	return nil
}

// ListDoorSpecifications returns all door rows for a lead.
func (r *Repository) ListDoorSpecifications(ctx context.Context, leadID uuid.UUID) ([]DoorSpecification, error) {
	rows, err := r.q(ctx).Query(ctx, `
		SELECT id, lead_id, site_visit_id, door_type, material, quantity, photo_reference
		FROM door_specifications
		WHERE lead_id = $1
		ORDER BY door_type
	`, leadID)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "failed to list door specifications", err)
	}
	defer rows.Close()

	var doors []DoorSpecification
	for rows.Next() {
		var door DoorSpecification
		if err := rows.Scan(&door.ID, &door.LeadID, &door.SiteVisitID, &door.DoorType,
			&door.Material, &door.Quantity, &door.PhotoReference); err != nil {
			return nil, apperr.Wrap(apperr.KindInternal, "failed to scan door specification", err)
		}
		doors = append(doors, door)
	}
	return doors, rows.Err()
}

// HasAssignment reports whether any assignment exists for the lead.
func (r *Repository) HasAssignment(ctx context.Context, leadID uuid.UUID) (bool, error) {
	var exists bool
	err := r.q(ctx).QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM assignments WHERE lead_id = $1)
	`, leadID).Scan(&exists)
	if err != nil {
		return false, apperr.Wrap(apperr.KindInternal, "failed to check assignment", err)
	}
	return exists, nil
}

// CreateAssignment makes userID the current owner of the lead, flipping
// any previous current row first so at most one row stays current.
func (r *Repository) CreateAssignment(ctx context.Context, leadID, userID uuid.UUID) error {
	q := r.q(ctx)

	if _, err := q.Exec(ctx, `
		UPDATE assignments SET is_current = false WHERE lead_id = $1 AND is_current
	`, leadID); err != nil {
		return apperr.Wrap(apperr.KindInternal, "failed to clear current assignment", err)
	}

	if _, err := q.Exec(ctx, `
		INSERT INTO assignments (lead_id, user_id, is_current)
		VALUES ($1, $2, true)
	`, leadID, userID); err != nil {
		return apperr.Wrap(apperr.KindInternal, "failed to create assignment", err)
	}
	return nil
}

// CurrentAssignee returns the user currently assigned to the lead, or
// nil when no assignment exists.
func (r *Repository) CurrentAssignee(ctx context.Context, leadID uuid.UUID) (*uuid.UUID, error) {
	var userID uuid.UUID
	err := r.q(ctx).QueryRow(ctx, `
		SELECT user_id FROM assignments WHERE lead_id = $1 AND is_current
	`, leadID).Scan(&userID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "failed to load current assignee", err)
	}
	return &userID, nil
}
