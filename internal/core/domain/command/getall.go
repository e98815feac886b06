package command

import (
	"context"
	"encoding/json"
	"fmt"

	"dentistimo/internal/core/domain"
	"dentistimo/internal/core/port"

	"github.com/rs/zerolog/log"
)

// GetAll publishes the whole office directory.
type GetAll struct {
	repo      port.OfficeRepository
	publisher port.Publisher
	method    string
}

func NewGetAll(repo port.OfficeRepository, publisher port.Publisher, method string) *GetAll {
	return &GetAll{repo: repo, publisher: publisher, method: method}
}

func (g *GetAll) GetMethod() string {
	return g.method
}

func (g *GetAll) Respond(ctx context.Context, _ *domain.Query) error {
	offices, err := g.repo.FindAll(ctx)
	if err != nil {
		err = fmt.Errorf("failed to find dentist offices: %w", err)
		reportError(ctx, g.publisher, g.method, err)
		return err
	}

	if offices == nil {
		offices = []domain.Office{}
	}

	payload, err := json.Marshal(offices)
	if err != nil {
		err = fmt.Errorf("failed to encode dentist offices: %w", err)
		reportError(ctx, g.publisher, g.method, err)
		return err
	}

	if err := g.publisher.Publish(ctx, domain.TopicOffices, payload, domain.QoSExactlyOnce); err != nil {
		err = fmt.Errorf("failed to publish dentist offices: %w", err)
		reportError(ctx, g.publisher, g.method, err)
		return err
	}

	log.Debug().Str("method", g.method).Int("offices", len(offices)).Msg("published office directory")

	return nil
}
