package port

import (
	"context"

	"dentistimo/internal/core/domain"
)

type Command interface {
	// Respond executes the query and publishes the result to the handler's
	// result topic. A returned error means the store, the computation or the
	// publish failed; the caller's circuit breaker accounts for it.
	Respond(ctx context.Context, query *domain.Query) error
	// GetMethod retrieves the method identifier this handler answers.
	GetMethod() string
}

type CommandRegistry interface {
	// Register adds a new command handler to the registry.
	Register(handler Command)
	// Get retrieves a registered Command based on its method identifier or returns an error if not found.
	Get(method string) (Command, error)
	// ListMethods returns the method identifiers currently registered.
	ListMethods() []string
}
