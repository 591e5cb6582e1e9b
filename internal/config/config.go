// Package config holds the configuration of the CRM processes.
package config

import (
	"strings"

	"github.com/abgdnv/gocrm/pkg/config"
	"github.com/abgdnv/gocrm/pkg/config/configloader"
)

var (
	_ configloader.Validator = (*Config)(nil)
	_ configloader.Validator = (*SchedulerConfig)(nil)
	_ configloader.Validator = (*SeedConfig)(nil)
)

// Config is the configuration of the API server.
type Config struct {
	HTTPServer config.HTTPConfig          `koanf:"server"`
	Database   config.DatabaseConfig      `koanf:"database"`
	Log        config.LogConfig           `koanf:"log"`
	PProf      config.PProfConfig         `koanf:"pprof"`
	Nats       config.NATSConfig          `koanf:"nats"`
	Telemetry  config.TelemetryConfig     `koanf:"telemetry"`
	GraphQL    config.GraphQLServerConfig `koanf:"graphql"`
	Shutdown   config.ShutdownConfig      `koanf:"shutdown"`
}

func (c *Config) String() string {
	var b strings.Builder
	b.WriteString(c.HTTPServer.String())
	b.WriteString(c.Database.String())
	b.WriteString(c.GraphQL.String())
	b.WriteString(c.Nats.String())
	b.WriteString(c.Telemetry.String())
	b.WriteString(c.Log.String())
	b.WriteString(c.PProf.String())
	b.WriteString(c.Shutdown.String())
	return b.String()
}

// Validate checks if the configuration values are valid
func (c *Config) Validate() error {
	return validateAll(&c.HTTPServer, &c.Database, &c.Log, &c.PProf, &c.Nats, &c.Telemetry, &c.GraphQL, &c.Shutdown)
}

// SchedulerConfig is the configuration of the job scheduler.
type SchedulerConfig struct {
	Log        config.LogConfig           `koanf:"log"`
	Client     config.GraphQLClientConfig `koanf:"client"`
	Resilience config.ResilienceConfig    `koanf:"resilience"`
	Jobs       config.JobsConfig          `koanf:"jobs"`
	Probes     config.ProbesConfig        `koanf:"probes"`
}

func (c *SchedulerConfig) String() string {
	var b strings.Builder
	b.WriteString(c.Client.String())
	b.WriteString(c.Resilience.String())
	b.WriteString(c.Jobs.String())
	b.WriteString(c.Probes.String())
	b.WriteString(c.Log.String())
	return b.String()
}

func (c *SchedulerConfig) Validate() error {
	return validateAll(&c.Log, &c.Client, &c.Resilience, &c.Jobs, &c.Probes)
}

// SeedConfig is the configuration of the seeding command.
type SeedConfig struct {
	Database config.DatabaseConfig `koanf:"database"`
	Log      config.LogConfig      `koanf:"log"`
}

func (c *SeedConfig) String() string {
	return c.Database.String() + c.Log.String()
}

func (c *SeedConfig) Validate() error {
	return validateAll(&c.Database, &c.Log)
}

func validateAll(sections ...configloader.Validator) error {
	for _, s := range sections {
		if err := s.Validate(); err != nil {
			return err
		}
	}
	return nil
}
