package preview

import (
	"time"

	"github.com/fako1024/potlight/pkg/scale"
)

// WithWriteTimeout sets the maximum time to deliver a frame to a client
func WithWriteTimeout(timeout time.Duration) func(*Hub) {
	return func(h *Hub) {
		h.writeTimeout = timeout
	}
}

// WithLogger sets a logger
func WithLogger(logger scale.Logger) func(*Hub) {
	return func(h *Hub) {
		h.logger = logger
	}
}
