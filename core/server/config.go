package server

import (
	"fmt"
	"strconv"
	"strings"
)

// Config holds configuration for the HTTP server.
type Config struct {
	// Port is the port where the server will listen.
	Port string `mapstructure:"port" default:"8080"`
	// ApiKey is the secret key that grants system access to the API.
	ApiKey string `mapstructure:"api_key" default:""`
	// AllowOrigins is the comma separated CORS origin list for the authoring front end.
	AllowOrigins string `mapstructure:"allow_origins" default:"*"`
	// BodyLimitMB caps request bodies (course imports can be large).
	BodyLimitMB int `mapstructure:"body_limit_mb" default:"4"`
}

// Addr returns the listen address.
func (c Config) Addr() string {
	return ":" + c.Port
}

// Origins returns the trimmed, non-empty CORS origins.
func (c Config) Origins() []string {
	var out []string
	for _, o := range strings.Split(c.AllowOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

// BodyLimit returns the body limit in bytes, falling back to 4MB.
func (c Config) BodyLimit() int {
	if c.BodyLimitMB <= 0 {
		return 4 * 1024 * 1024
	}
	return c.BodyLimitMB * 1024 * 1024
}

// Validate checks that the port is a usable TCP port.
func (c Config) Validate() error {
	p, err := strconv.Atoi(c.Port)
	if err != nil || p <= 0 || p > 65535 {
		return fmt.Errorf("invalid server port %q", c.Port)
	}
	return nil
}
