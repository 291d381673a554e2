package api

import "github.com/fako1024/potlight/pkg/scale"

// WithLogger sets a logger
func WithLogger(logger scale.Logger) func(*API) {
	return func(api *API) {
		api.logger = logger
	}
}
