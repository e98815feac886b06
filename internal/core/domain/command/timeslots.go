package command

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"dentistimo/internal/core/domain"
	"dentistimo/internal/core/port"
	"dentistimo/internal/core/service"

	"github.com/rs/zerolog/log"
)

// TimeSlots publishes the free half-hour slots of one office on one date,
// computed against the booked reservations of that day.
type TimeSlots struct {
	repo      port.OfficeRepository
	publisher port.Publisher
	method    string
	policy    service.SkipPolicy
}

type daySlots struct {
	ID        int      `json:"id"`
	TimeSlots []string `json:"timeSlots"`
}

func NewTimeSlots(repo port.OfficeRepository, publisher port.Publisher,
	method string, policy service.SkipPolicy) *TimeSlots {
	return &TimeSlots{repo: repo, publisher: publisher, method: method, policy: policy}
}

func (t *TimeSlots) GetMethod() string {
	return t.method
}

func (t *TimeSlots) Respond(ctx context.Context, query *domain.Query) error {
	l := log.With().Str("method", t.method).Int("id", query.ID).Str("date", query.Date).Logger()

	offices, err := t.repo.FindByID(ctx, query.ID)
	if err != nil {
		err = fmt.Errorf("failed to find dentist office %d: %w", query.ID, err)
		reportError(ctx, t.publisher, t.method, err)
		return err
	}

	if len(offices) == 0 {
		err = fmt.Errorf("office %d: %w", query.ID, domain.ErrOfficeNotFound)
		reportError(ctx, t.publisher, t.method, err)
		return err
	}
	office := offices[0]

	date, err := time.Parse("2006-01-02", query.Date)
	if err != nil {
		err = fmt.Errorf("date %q: %w", query.Date, domain.ErrInvalidDate)
		reportError(ctx, t.publisher, t.method, err)
		return err
	}

	candidates, err := t.candidatesFor(office, date)
	if err != nil {
		reportError(ctx, t.publisher, t.method, err)
		return err
	}

	reservations, err := t.repo.FindReservations(ctx, query.ID)
	if err != nil {
		err = fmt.Errorf("failed to find reservations for office %d: %w", query.ID, err)
		reportError(ctx, t.publisher, t.method, err)
		return err
	}

	available := service.AvailableSlots(candidates, reservations, office.Dentists, query.Date)

	payload, err := json.Marshal(daySlots{ID: query.ID, TimeSlots: available})
	if err != nil {
		err = fmt.Errorf("failed to encode time slots: %w", err)
		reportError(ctx, t.publisher, t.method, err)
		return err
	}

	if err := t.publisher.Publish(ctx, domain.TopicTimeslots, payload, domain.QoSExactlyOnce); err != nil {
		err = fmt.Errorf("failed to publish time slots: %w", err)
		reportError(ctx, t.publisher, t.method, err)
		return err
	}

	l.Debug().Int("slots", len(available)).Msg("published available time slots")

	return nil
}

// candidatesFor expands the office's opening interval for the weekday of
// the queried date. Days without opening hours yield no slots.
func (t *TimeSlots) candidatesFor(office domain.Office, date time.Time) ([]string, error) {
	weekday := strings.ToLower(date.Weekday().String())

	interval, open := office.OpeningHours[weekday]
	if !open {
		return []string{}, nil
	}

	candidates, err := service.CandidateSlots(interval, t.policy)
	if err != nil {
		return nil, fmt.Errorf("office %d %s: %w", office.ID, weekday, err)
	}

	return candidates, nil
}
