package sender

import (
	"context"
	"fmt"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog/log"
)

// Client is the slice of the paho client the publisher needs.
type Client interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token
}

// MQTT publishes payloads to the broker, prefixing every topic with the
// configured root.
type MQTT struct {
	client Client
	root   string
}

func NewMQTT(client Client, rootTopic string) *MQTT {
	return &MQTT{client: client, root: rootTopic}
}

func (m *MQTT) Publish(ctx context.Context, topic string, payload []byte, qos byte) error {
	full := m.root + topic

	token := m.client.Publish(full, qos, false, payload)

	select {
	case <-token.Done():
		if err := token.Error(); err != nil {
			return fmt.Errorf("failed to publish to %s: %w", full, err)
		}
	case <-ctx.Done():
		return fmt.Errorf("publish to %s abandoned: %w", full, ctx.Err())
	}

	log.Debug().Str("topic", full).Int("bytes", len(payload)).Msg("published message")

	return nil
}
