package ratelimit

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// EndpointConfig is the limit for one method and path.
type EndpointConfig struct {
	Path   string        // Exact path, or a prefix when it ends with "/"
	Method string        // HTTP method
	Limit  int           // Requests per window
	Window time.Duration // Refill window
	Burst  int           // Bucket capacity (defaults to Limit if 0)
}

// Config holds rate limiting configuration.
type Config struct {
	Enabled         bool
	DefaultLimit    int
	DefaultWindow   time.Duration
	CleanupInterval time.Duration
	IdleTTL         time.Duration // Buckets unused this long are dropped
	Whitelist       map[string]bool
	Blacklist       map[string]bool
	EndpointConfigs []EndpointConfig
}

// LoadConfig builds the configuration from environment variables, limiting each
// admin endpoint to adminPerMinute requests per client.
func LoadConfig(adminPerMinute int) *Config {
	if !getEnvBool("RATE_LIMIT_ENABLED", true) {
		return &Config{Enabled: false}
	}

	return &Config{
		Enabled:         true,
		DefaultLimit:    getEnvInt("RATE_LIMIT_DEFAULT_LIMIT", 300),
		DefaultWindow:   getEnvDuration("RATE_LIMIT_DEFAULT_WINDOW", time.Minute),
		CleanupInterval: getEnvDuration("RATE_LIMIT_CLEANUP_INTERVAL", 5*time.Minute),
		IdleTTL:         time.Hour,
		Whitelist:       parseIPList(os.Getenv("RATE_LIMIT_WHITELIST")),
		Blacklist:       parseIPList(os.Getenv("RATE_LIMIT_BLACKLIST")),
		EndpointConfigs: AdminEndpoints(adminPerMinute),
	}
}

// AdminEndpoints returns the limits for the admin API. Writes commit to the
// repository and get a small burst; preview and extract are cheaper.
func AdminEndpoints(perMinute int) []EndpointConfig {
	if perMinute <= 0 {
		perMinute = 30
	}
	writeBurst := max(perMinute/6, 1)
	return []EndpointConfig{
		{Path: "/api/save", Method: "POST", Limit: perMinute, Window: time.Minute, Burst: writeBurst},
		{Path: "/api/upload-image", Method: "POST", Limit: perMinute, Window: time.Minute, Burst: writeBurst},
		{Path: "/api/preview", Method: "POST", Limit: perMinute * 2, Window: time.Minute},
		{Path: "/api/extract", Method: "POST", Limit: perMinute * 2, Window: time.Minute},
	}
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// parseIPList parses a comma-separated list of IP addresses into a set.
func parseIPList(list string) map[string]bool {
	result := make(map[string]bool)
	for _, ip := range strings.Split(list, ",") {
		if ip = strings.TrimSpace(ip); ip != "" {
			result[ip] = true
		}
	}
	return result
}
