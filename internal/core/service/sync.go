package service

import (
	"context"
	"encoding/json"
	"fmt"

	"dentistimo/internal/core/domain"
	"dentistimo/internal/core/port"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// RegistrySync refreshes the local office directory from the external
// dentist registry. One persistent breaker guards every tick; a failed
// fetch or store write leaves the previous directory contents untouched.
type RegistrySync struct {
	fetcher   port.RegistryFetcher
	repo      port.OfficeRepository
	publisher port.Publisher
	breaker   *Breaker

	l *zerolog.Logger
}

func NewRegistrySync(fetcher port.RegistryFetcher, repo port.OfficeRepository,
	publisher port.Publisher, breaker *Breaker) *RegistrySync {
	logger := log.With().Str("job", "registrySync").Logger()

	return &RegistrySync{
		fetcher:   fetcher,
		repo:      repo,
		publisher: publisher,
		breaker:   breaker,
		l:         &logger,
	}
}

// Run performs one sync tick under the breaker.
func (s *RegistrySync) Run(ctx context.Context) {
	result := s.breaker.Execute(ctx, s.refresh)
	if result.Degraded {
		s.l.Warn().Err(result.Err).Str("notice", result.Fallback).Msg("registry sync degraded")
	}
}

// refresh fetches the registry and replaces the directory wholesale. The
// directory is only cleared inside ReplaceAll, after the fetch succeeded,
// so a briefly unreachable registry never empties the cache.
func (s *RegistrySync) refresh(ctx context.Context) error {
	offices, err := s.fetcher.FetchOffices(ctx)
	if err != nil {
		err = fmt.Errorf("failed to fetch dentist registry: %w", err)
		s.reportError(ctx, err)
		return err
	}

	if err := s.repo.ReplaceAll(ctx, offices); err != nil {
		err = fmt.Errorf("failed to replace office directory: %w", err)
		s.reportError(ctx, err)
		return err
	}

	s.l.Info().Int("offices", len(offices)).Msg("dentist office collection updated")

	return nil
}

func (s *RegistrySync) reportError(ctx context.Context, err error) {
	s.l.Error().Err(err).Msg("registry sync failed")

	payload, merr := json.Marshal(domain.NewErrorLogEntry("registrySync", err))
	if merr != nil {
		s.l.Error().Err(merr).Msg("failed to encode error log entry")
		return
	}

	if perr := s.publisher.Publish(ctx, domain.TopicErrorLog, payload, domain.QoSExactlyOnce); perr != nil {
		s.l.Error().Err(perr).Msg("failed to publish error log entry")
	}
}
