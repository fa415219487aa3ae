// Package config provides functionality for managing configuration options
// for the application using command-line flags and environment variables.
package config

import (
	"encoding/json"
	"flag"
	"log"
	"os"
	"strings"
)

// Options holds the configuration values for the application.
type Options struct {
	// Port defines the server's listening address (ip:port).
	Port string

	// DatabaseDSN holds the database connection string for the built-in
	// identity backend.
	DatabaseDSN string

	// IdentityURL is the base URL of the external identity service. When
	// empty, the server uses the built-in Postgres-backed backend.
	IdentityURL string

	// TicketSecret signs session tickets issued by the built-in backend.
	TicketSecret string

	// ProtectedPrefixes lists the path prefixes gated by the route guard,
	// comma-separated on the command line.
	ProtectedPrefixes string

	// Config is the path to the Config file.
	Config string
}

// options holds the current configuration values.
var options = &Options{}

// init initializes command-line flags and sets default values.
func init() {
	flag.StringVar(&options.Port, "a", "localhost:8080", "run on ip:port server")
	flag.StringVar(&options.DatabaseDSN, "d", "", "db address")
	flag.StringVar(&options.IdentityURL, "i", "", "external identity service base URL")
	flag.StringVar(&options.TicketSecret, "s", "", "session ticket signing secret")
	flag.StringVar(&options.ProtectedPrefixes, "p", "/home,/closet,/prologue,/board", "comma-separated protected path prefixes")
	flag.StringVar(&options.Config, "config", "config.json", "path to config file")
	flag.StringVar(&options.Config, "c", "config.json", "path to config file (shorthand)")
}

// Parse parses the command-line flags and environment variables to set
// configuration values. It returns a pointer to the Options struct containing
// the parsed configuration values.
func Parse() *Options {
	flag.Parse()

	// Override flags with environment variables if set
	if configPath := os.Getenv("CONFIG"); configPath != "" {
		options.Config = configPath
	}

	if options.Config != "" {
		if _, err := os.Stat(options.Config); err == nil {
			data, err := os.ReadFile(options.Config)
			if err != nil {
				log.Fatalf("error while reading config file: %v", err)
			}
			if err := json.Unmarshal(data, options); err != nil {
				log.Fatalf("error while parsing config file: %v", err)
			}
		}
	}

	if serverAddress := os.Getenv("SERVER_ADDRESS"); serverAddress != "" {
		options.Port = serverAddress
	}
	if identityURL := os.Getenv("IDENTITY_URL"); identityURL != "" {
		options.IdentityURL = identityURL
	}
	if secret := os.Getenv("TICKET_SECRET"); secret != "" {
		options.TicketSecret = secret
	}

	return options
}

// Prefixes splits ProtectedPrefixes into the list consumed by the route guard.
func (o *Options) Prefixes() []string {
	parts := strings.Split(o.ProtectedPrefixes, ",")
	prefixes := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			prefixes = append(prefixes, p)
		}
	}
	return prefixes
}
