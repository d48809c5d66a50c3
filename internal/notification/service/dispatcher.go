// Package service fans lead lifecycle events out into per-recipient
// notifications and optional email delivery.
package service

import (
	"context"
	"fmt"
	"time"

	"cleardoor_backend/internal/email"
	"cleardoor_backend/internal/events"
	"cleardoor_backend/internal/notification/repository"
	"cleardoor_backend/platform/logger"

	"github.com/google/uuid"
)

// Recipient is a notification target resolved from the user directory.
type Recipient struct {
	ID       uuid.UUID
	FullName string
	Email    *string
}

// Store persists notifications.
type Store interface {
	Insert(ctx context.Context, n *repository.Notification) error
	InsertReminder(ctx context.Context, n *repository.Notification) (bool, error)
	ListByRecipient(ctx context.Context, recipientID uuid.UUID, limit int) ([]repository.Notification, error)
	UnreadCount(ctx context.Context, recipientID uuid.UUID) (int, error)
	MarkRead(ctx context.Context, id, recipientID uuid.UUID) error
	MarkAllRead(ctx context.Context, recipientID uuid.UUID) error
}

// UserDirectory resolves notification recipients.
type UserDirectory interface {
	ActiveAdmins(ctx context.Context) ([]Recipient, error)
	UserByID(ctx context.Context, id uuid.UUID) (Recipient, error)
}

// LeadDirectory resolves who worked on a lead.
type LeadDirectory interface {
	CreatorAndAssignee(ctx context.Context, leadID uuid.UUID) (uuid.UUID, *uuid.UUID, error)
}

// Dispatcher subscribes to lead events and writes notifications.
type Dispatcher struct {
	store  Store
	users  UserDirectory
	leads  LeadDirectory
	sender email.Sender
	log    *logger.Logger
}

func NewDispatcher(store Store, users UserDirectory, leads LeadDirectory, sender email.Sender, log *logger.Logger) *Dispatcher {
	return &Dispatcher{store: store, users: users, leads: leads, sender: sender, log: log}
}

// RegisterHandlers subscribes the dispatcher to every lead event.
func (d *Dispatcher) RegisterHandlers(bus events.Bus) {
	bus.Subscribe(events.EventLeadSubmitted, events.HandlerFunc(d.handleSubmitted))
	bus.Subscribe(events.EventLeadResubmitted, events.HandlerFunc(d.handleResubmitted))
	bus.Subscribe(events.EventLeadApproved, events.HandlerFunc(d.handleApproved))
	bus.Subscribe(events.EventLeadRejected, events.HandlerFunc(d.handleRejected))
	bus.Subscribe(events.EventLeadClosed, events.HandlerFunc(d.handleClosed))
	bus.Subscribe(events.EventFollowUpDue, events.HandlerFunc(d.handleFollowUpDue))
}

// Queries, delegated to the store for the HTTP handler.

func (d *Dispatcher) List(ctx context.Context, recipientID uuid.UUID, limit int) ([]repository.Notification, error) {
	return d.store.ListByRecipient(ctx, recipientID, limit)
}

func (d *Dispatcher) UnreadCount(ctx context.Context, recipientID uuid.UUID) (int, error) {
	return d.store.UnreadCount(ctx, recipientID)
}

func (d *Dispatcher) MarkRead(ctx context.Context, id, recipientID uuid.UUID) error {
	return d.store.MarkRead(ctx, id, recipientID)
}

func (d *Dispatcher) MarkAllRead(ctx context.Context, recipientID uuid.UUID) error {
	return d.store.MarkAllRead(ctx, recipientID)
}

func (d *Dispatcher) handleSubmitted(ctx context.Context, event events.Event) error {
	e, ok := event.(events.LeadSubmitted)
	if !ok {
		return fmt.Errorf("unexpected event type %T", event)
	}
	message := fmt.Sprintf("Lead %s for %s was submitted and is awaiting review", e.LeadNumber, e.CustomerName)
	return d.notifyAdmins(ctx, e.LeadID, repository.TypeAssignment, message)
}

func (d *Dispatcher) handleResubmitted(ctx context.Context, event events.Event) error {
	e, ok := event.(events.LeadResubmitted)
	if !ok {
		return fmt.Errorf("unexpected event type %T", event)
	}
	message := fmt.Sprintf("Lead %s for %s was resubmitted with updated details", e.LeadNumber, e.CustomerName)
	return d.notifyAdmins(ctx, e.LeadID, repository.TypeAssignment, message)
}

func (d *Dispatcher) handleApproved(ctx context.Context, event events.Event) error {
	e, ok := event.(events.LeadApproved)
	if !ok {
		return fmt.Errorf("unexpected event type %T", event)
	}
	message := fmt.Sprintf("Lead %s was approved and promoted to Master", e.LeadNumber)
	return d.notifyLeadOwners(ctx, e.LeadID, repository.TypeCompletion, message)
}

func (d *Dispatcher) handleRejected(ctx context.Context, event events.Event) error {
	e, ok := event.(events.LeadRejected)
	if !ok {
		return fmt.Errorf("unexpected event type %T", event)
	}
	message := fmt.Sprintf("Lead %s was rejected: %s", e.LeadNumber, e.Reason)
	return d.notifyLeadOwners(ctx, e.LeadID, repository.TypeRejection, message)
}

func (d *Dispatcher) handleClosed(ctx context.Context, event events.Event) error {
	e, ok := event.(events.LeadClosed)
	if !ok {
		return fmt.Errorf("unexpected event type %T", event)
	}
	message := fmt.Sprintf("Lead %s was permanently closed: %s", e.LeadNumber, e.Reason)
	return d.notifyLeadOwners(ctx, e.LeadID, repository.TypeSystem, message)
}

func (d *Dispatcher) handleFollowUpDue(ctx context.Context, event events.Event) error {
	e, ok := event.(events.FollowUpDue)
	if !ok {
		return fmt.Errorf("unexpected event type %T", event)
	}

	scheduled, err := time.ParseInLocation("2006-01-02", e.ScheduledDate, time.Local)
	if err != nil {
		return fmt.Errorf("invalid follow-up date %q: %w", e.ScheduledDate, err)
	}
	message := fmt.Sprintf("Follow-up visit for lead %s (%s) is scheduled for %s", e.LeadNumber, e.CustomerName, e.ScheduledDate)

	recipients, err := d.reminderRecipients(ctx, e.LeadID)
	if err != nil {
		return err
	}
	for _, rcpt := range recipients {
		leadID := e.LeadID
		n := &repository.Notification{
			RecipientID:   rcpt.ID,
			LeadID:        &leadID,
			Type:          repository.TypeReminder,
			Message:       message,
			ScheduledDate: &scheduled,
		}
		inserted, err := d.store.InsertReminder(ctx, n)
		if err != nil {
			return err
		}
		if inserted {
			d.sendEmail(ctx, rcpt, "Follow-up visit reminder", message)
		}
	}
	return nil
}

// notifyAdmins writes one notification per active admin.
func (d *Dispatcher) notifyAdmins(ctx context.Context, leadID uuid.UUID, notifType, message string) error {
	admins, err := d.users.ActiveAdmins(ctx)
	if err != nil {
		return err
	}
	return d.notify(ctx, admins, leadID, notifType, message)
}

// notifyLeadOwners writes a notification for the lead's creator and its
// current assignee, deduplicated when they are the same user.
func (d *Dispatcher) notifyLeadOwners(ctx context.Context, leadID uuid.UUID, notifType, message string) error {
	creatorID, assigneeID, err := d.leads.CreatorAndAssignee(ctx, leadID)
	if err != nil {
		return err
	}

	ids := []uuid.UUID{creatorID}
	if assigneeID != nil && *assigneeID != creatorID {
		ids = append(ids, *assigneeID)
	}

	var recipients []Recipient
	for _, id := range ids {
		rcpt, err := d.users.UserByID(ctx, id)
		if err != nil {
			d.log.Warn("notification recipient lookup failed", "user_id", id, "error", err)
			continue
		}
		recipients = append(recipients, rcpt)
	}
	return d.notify(ctx, recipients, leadID, notifType, message)
}

// reminderRecipients is the lead creator plus every active admin.
func (d *Dispatcher) reminderRecipients(ctx context.Context, leadID uuid.UUID) ([]Recipient, error) {
	creatorID, _, err := d.leads.CreatorAndAssignee(ctx, leadID)
	if err != nil {
		return nil, err
	}
	admins, err := d.users.ActiveAdmins(ctx)
	if err != nil {
		return nil, err
	}

	recipients := make([]Recipient, 0, len(admins)+1)
	seen := map[uuid.UUID]bool{}
	creator, err := d.users.UserByID(ctx, creatorID)
	if err == nil {
		recipients = append(recipients, creator)
		seen[creator.ID] = true
	} else {
		d.log.Warn("notification recipient lookup failed", "user_id", creatorID, "error", err)
	}
	for _, admin := range admins {
		if seen[admin.ID] {
			continue
		}
		recipients = append(recipients, admin)
		seen[admin.ID] = true
	}
	return recipients, nil
}

func (d *Dispatcher) notify(ctx context.Context, recipients []Recipient, leadID uuid.UUID, notifType, message string) error {
	subject := subjectFor(notifType)
	for _, rcpt := range recipients {
		id := leadID
		n := &repository.Notification{
			RecipientID: rcpt.ID,
			LeadID:      &id,
			Type:        notifType,
			Message:     message,
		}
		if err := d.store.Insert(ctx, n); err != nil {
			return err
		}
		d.sendEmail(ctx, rcpt, subject, message)
	}
	return nil
}

// sendEmail is best effort. Delivery failures are logged and never fail
// the notification write.
func (d *Dispatcher) sendEmail(ctx context.Context, rcpt Recipient, subject, message string) {
	if d.sender == nil || rcpt.Email == nil || *rcpt.Email == "" {
		return
	}
	if err := d.sender.SendNotificationEmail(ctx, *rcpt.Email, subject, message); err != nil {
		d.log.Warn("notification email delivery failed", "recipient_id", rcpt.ID, "error", err)
	}
}

func subjectFor(notifType string) string {
	switch notifType {
	case repository.TypeAssignment:
		return "New lead awaiting review"
	case repository.TypeCompletion:
		return "Lead approved"
	case repository.TypeRejection:
		return "Lead rejected"
	case repository.TypeReminder:
		return "Follow-up visit reminder"
	default:
		return "Lead update"
	}
}
