package api

import "time"

// ServerConfig represents the serve subcommand's API configuration.
type ServerConfig struct {
	Addr           string        `help:"API server listen address" default:"127.0.0.1:3243" env:"MICROPAD_API_ADDR"`
	RequestTimeout time.Duration `help:"Upper bound for a single API request, including device I/O" default:"5s" env:"MICROPAD_API_REQUEST_TIMEOUT"`
}
