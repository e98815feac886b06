package port

import (
	"context"

	"dentistimo/internal/core/domain"
)

type RegistryFetcher interface {
	// FetchOffices retrieves the authoritative office records from the
	// external dentist registry.
	FetchOffices(ctx context.Context) ([]domain.Office, error)
}
