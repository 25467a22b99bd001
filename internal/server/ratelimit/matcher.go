package ratelimit

import "strings"

// unlimited marks requests that never consume tokens.
var unlimited = &EndpointConfig{}

// MatchEndpoint returns the configuration for method and path, or nil when the
// default limit applies. Health checks and CORS preflights are unlimited.
func MatchEndpoint(path, method string, configs []EndpointConfig) *EndpointConfig {
	if method == "OPTIONS" || (method == "GET" && path == "/health") {
		return unlimited
	}

	for i := range configs {
		if configs[i].Method == method && configs[i].Path == path {
			return &configs[i]
		}
	}

	for i := range configs {
		c := &configs[i]
		if c.Method == method && strings.HasSuffix(c.Path, "/") && strings.HasPrefix(path, c.Path) {
			return c
		}
	}

	return nil
}
