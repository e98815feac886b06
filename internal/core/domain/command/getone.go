package command

import (
	"context"
	"encoding/json"
	"fmt"

	"dentistimo/internal/core/domain"
	"dentistimo/internal/core/port"

	"github.com/rs/zerolog/log"
)

// GetOne publishes a single office looked up by id. An unknown id is not
// a failure; the published array is simply empty.
type GetOne struct {
	repo      port.OfficeRepository
	publisher port.Publisher
	method    string
}

func NewGetOne(repo port.OfficeRepository, publisher port.Publisher, method string) *GetOne {
	return &GetOne{repo: repo, publisher: publisher, method: method}
}

func (g *GetOne) GetMethod() string {
	return g.method
}

func (g *GetOne) Respond(ctx context.Context, query *domain.Query) error {
	offices, err := g.repo.FindByID(ctx, query.ID)
	if err != nil {
		err = fmt.Errorf("failed to find dentist office %d: %w", query.ID, err)
		reportError(ctx, g.publisher, g.method, err)
		return err
	}

	if offices == nil {
		offices = []domain.Office{}
	}

	if len(offices) == 0 {
		log.Debug().Str("method", g.method).Int("id", query.ID).Msg("dentist office does not exist")
	}

	payload, err := json.Marshal(offices)
	if err != nil {
		err = fmt.Errorf("failed to encode dentist office: %w", err)
		reportError(ctx, g.publisher, g.method, err)
		return err
	}

	if err := g.publisher.Publish(ctx, domain.TopicOffice, payload, domain.QoSExactlyOnce); err != nil {
		err = fmt.Errorf("failed to publish dentist office: %w", err)
		reportError(ctx, g.publisher, g.method, err)
		return err
	}

	return nil
}
