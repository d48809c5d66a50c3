// Package followup scans for site visits scheduled for the next
// calendar day and raises reminder events for them.
package followup

import (
	"context"
	"time"

	"cleardoor_backend/internal/events"
	leadsrepo "cleardoor_backend/internal/leads/repository"
	"cleardoor_backend/platform/logger"
)

// LeadSource lists leads whose follow-up visit falls on a given date.
type LeadSource interface {
	ListFollowUpsDueOn(ctx context.Context, date time.Time) ([]leadsrepo.DueFollowUp, error)
}

// Scanner finds follow-up visits due tomorrow and publishes a reminder
// event per lead. Deduplication lives in the notification store, so
// concurrent or repeated scans for the same day are safe.
type Scanner struct {
	leads LeadSource
	bus   events.Bus
	log   *logger.Logger
	now   func() time.Time
}

func NewScanner(leads LeadSource, bus events.Bus, log *logger.Logger) *Scanner {
	return &Scanner{leads: leads, bus: bus, log: log, now: time.Now}
}

// Scan publishes a FollowUpDue event for every lead with a follow-up
// visit scheduled tomorrow in local calendar time. It returns the
// number of leads found.
func (s *Scanner) Scan(ctx context.Context) (int, error) {
	tomorrow := s.tomorrow()

	due, err := s.leads.ListFollowUpsDueOn(ctx, tomorrow)
	if err != nil {
		return 0, err
	}

	for _, fu := range due {
		event := events.FollowUpDue{
			BaseEvent:     events.NewBaseEvent(),
			LeadID:        fu.LeadID,
			LeadNumber:    fu.LeadNumber,
			CustomerName:  fu.CustomerLabel,
			ScheduledDate: fu.FollowUpDate.Format("2006-01-02"),
		}
		if err := s.bus.PublishSync(ctx, event); err != nil {
			return 0, err
		}
	}

	s.log.Info("follow-up scan completed", "date", tomorrow.Format("2006-01-02"), "due", len(due))
	return len(due), nil
}

func (s *Scanner) tomorrow() time.Time {
	now := s.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.Local)
	return today.AddDate(0, 0, 1)
}
