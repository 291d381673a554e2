package publish

import (
	"time"

	"github.com/fako1024/potlight/pkg/scale"
)

// WithClientID sets the MQTT client ID
func WithClientID(clientID string) func(*Publisher) {
	return func(p *Publisher) {
		p.clientID = clientID
	}
}

// WithQoS sets the MQTT quality of service level
func WithQoS(qos byte) func(*Publisher) {
	return func(p *Publisher) {
		p.qos = qos
	}
}

// WithRetained sets if messages are retained by the broker
func WithRetained(retained bool) func(*Publisher) {
	return func(p *Publisher) {
		p.retained = retained
	}
}

// WithTimeout sets the maximum time to wait for the broker
func WithTimeout(timeout time.Duration) func(*Publisher) {
	return func(p *Publisher) {
		p.timeout = timeout
	}
}

// WithLogger sets a logger
func WithLogger(logger scale.Logger) func(*Publisher) {
	return func(p *Publisher) {
		p.logger = logger
	}
}
