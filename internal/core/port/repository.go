package port

import (
	"context"

	"dentistimo/internal/core/domain"
)

type OfficeRepository interface {
	// FindAll returns every office in the directory.
	FindAll(ctx context.Context) ([]domain.Office, error)
	// FindByID returns the offices matching the id. An unknown id yields an
	// empty slice, not an error.
	FindByID(ctx context.Context, id int) ([]domain.Office, error)
	// FindReservations returns the booked appointments for one office.
	FindReservations(ctx context.Context, officeID int) ([]domain.Reservation, error)
	// ReplaceAll clears the office directory and upserts the given records
	// keyed by id. Callers must only invoke it with a complete registry
	// snapshot; a failed fetch must never reach this method.
	ReplaceAll(ctx context.Context, offices []domain.Office) error
}
