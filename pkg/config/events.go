package config

import (
	"fmt"
	"strings"
	"time"
)

// EventsConfig controls publishing of product lifecycle events to NATS JetStream.
type EventsConfig struct {
	Enabled bool       `koanf:"enabled"`
	Stream  string     `koanf:"stream"`
	Nats    NATSConfig `koanf:"nats"`
}

// String returns a string representation of the events configuration.
func (c *EventsConfig) String() string {
	var b strings.Builder
	b.WriteString("\n--- Events ---\n")
	b.WriteString(fmt.Sprintf("  enabled: %t\n", c.Enabled))
	b.WriteString(fmt.Sprintf("  stream: %s\n", c.Stream))
	b.WriteString(c.Nats.String())
	return b.String()
}

func (c *EventsConfig) Validate() error {
	if !c.Enabled {
		return nil
	}
	if c.Stream == "" {
		return fmt.Errorf("events stream is not configured")
	}
	return c.Nats.Validate()
}

type NATSConfig struct {
	Url     string        `koanf:"url"`
	Timeout time.Duration `koanf:"timeout"`
}

// String returns a string representation of the NATS configuration.
func (c *NATSConfig) String() string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("  nats.url: %s\n", c.Url))
	b.WriteString(fmt.Sprintf("  nats.timeout: %s\n", c.Timeout))
	return b.String()
}

func (c *NATSConfig) Validate() error {
	if c.Url == "" {
		return fmt.Errorf("NATS URL is not configured")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("nats dial timeout is not configured")
	}
	return nil
}
