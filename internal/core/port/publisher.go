package port

import "context"

type Publisher interface {
	// Publish delivers a payload to a topic at the given QoS level. The topic
	// is relative; transport adapters prepend the configured root topic.
	Publish(ctx context.Context, topic string, payload []byte, qos byte) error
}
