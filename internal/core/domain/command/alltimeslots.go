package command

import (
	"context"
	"encoding/json"
	"fmt"

	"dentistimo/internal/core/domain"
	"dentistimo/internal/core/port"
	"dentistimo/internal/core/service"

	"github.com/rs/zerolog/log"
)

// AllTimeslots publishes the theoretical weekly slot catalog for every
// office. Reservations are deliberately not consulted; this is a catalog
// of what each office could host, not live availability.
type AllTimeslots struct {
	repo      port.OfficeRepository
	publisher port.Publisher
	method    string
	policy    service.SkipPolicy
}

type weekCatalogEntry struct {
	ID        int                 `json:"id"`
	Name      string              `json:"name"`
	Timeslots map[string][]string `json:"timeslots"`
}

func NewAllTimeslots(repo port.OfficeRepository, publisher port.Publisher,
	method string, policy service.SkipPolicy) *AllTimeslots {
	return &AllTimeslots{repo: repo, publisher: publisher, method: method, policy: policy}
}

func (a *AllTimeslots) GetMethod() string {
	return a.method
}

func (a *AllTimeslots) Respond(ctx context.Context, _ *domain.Query) error {
	offices, err := a.repo.FindAll(ctx)
	if err != nil {
		err = fmt.Errorf("failed to find dentist offices: %w", err)
		reportError(ctx, a.publisher, a.method, err)
		return err
	}

	catalog := make([]weekCatalogEntry, 0, len(offices))

	for _, office := range offices {
		entry := weekCatalogEntry{
			ID:        office.ID,
			Name:      office.Name,
			Timeslots: make(map[string][]string, len(domain.Weekdays)),
		}

		for _, weekday := range domain.Weekdays {
			slots, err := service.CandidateSlots(office.OpeningHours[weekday], a.policy)
			if err != nil {
				log.Debug().Err(err).Str("method", a.method).Int("id", office.ID).
					Str("weekday", weekday).Msg("skipping unparseable opening interval")
				slots = []string{}
			}

			entry.Timeslots[weekday] = slots
		}

		catalog = append(catalog, entry)
	}

	payload, err := json.Marshal(catalog)
	if err != nil {
		err = fmt.Errorf("failed to encode weekly slot catalog: %w", err)
		reportError(ctx, a.publisher, a.method, err)
		return err
	}

	if err := a.publisher.Publish(ctx, domain.TopicTimeslots, payload, domain.QoSExactlyOnce); err != nil {
		err = fmt.Errorf("failed to publish weekly slot catalog: %w", err)
		reportError(ctx, a.publisher, a.method, err)
		return err
	}

	return nil
}
