package command

import (
	"context"
	"encoding/json"

	"dentistimo/internal/core/domain"
	"dentistimo/internal/core/port"

	"github.com/rs/zerolog/log"
)

// reportError publishes a handler failure to the error log topic. The
// primary result topic stays silent on failure; this is the only outbound
// trace of the error besides the rejected handler call itself.
func reportError(ctx context.Context, publisher port.Publisher, method string, err error) {
	log.Error().Err(err).Str("method", method).Msg("command handler failed")

	payload, merr := json.Marshal(domain.NewErrorLogEntry(method, err))
	if merr != nil {
		log.Error().Err(merr).Str("method", method).Msg("failed to encode error log entry")
		return
	}

	if perr := publisher.Publish(ctx, domain.TopicErrorLog, payload, domain.QoSExactlyOnce); perr != nil {
		log.Error().Err(perr).Str("method", method).Msg("failed to publish error log entry")
	}
}
