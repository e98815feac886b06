package command

import (
	"errors"

	"dentistimo/internal/core/port"

	"github.com/rs/zerolog/log"
)

type Registry struct {
	handlers map[string]port.Command
}

func (r *Registry) Register(handler port.Command) {
	if r.handlers == nil {
		r.handlers = make(map[string]port.Command)
	}

	log.Info().Str("method", handler.GetMethod()).Msg("adding command handler to registry")
	r.handlers[handler.GetMethod()] = handler
}

func (r *Registry) Get(method string) (port.Command, error) {
	log.Debug().Str("method", method).Msg("fetching command handler from registry")

	if r.handlers == nil {
		err := errors.New("can't fetch command, registry not initialized")
		return nil, err
	}

	handler, ok := r.handlers[method]
	if !ok {
		return nil, errors.New("method not found")
	}

	return handler, nil
}

func (r *Registry) ListMethods() []string {
	keys := make([]string, len(r.handlers))

	i := 0
	for k := range r.handlers {
		keys[i] = k
		i++
	}

	return keys
}
