package config

import (
	"fmt"
	"strings"
	"time"
)

// GraphQLServerConfig configures the GraphQL endpoint of the API server.
type GraphQLServerConfig struct {
	Path     string `koanf:"path"`
	GraphiQL bool   `koanf:"graphiql"`
}

// String returns a string representation of the GraphQL server configuration.
func (c *GraphQLServerConfig) String() string {
	var b strings.Builder
	b.WriteString("\n--- GraphQL ---\n")
	b.WriteString(fmt.Sprintf("  path: %s\n", c.Path))
	b.WriteString(fmt.Sprintf("  graphiql: %t\n", c.GraphiQL))
	return b.String()
}

func (c *GraphQLServerConfig) Validate() error {
	if c.Path == "" {
		c.Path = "/graphql"
	}
	if !strings.HasPrefix(c.Path, "/") {
		return fmt.Errorf("graphql path must start with '/': %s", c.Path)
	}
	return nil
}

// GraphQLClientConfig configures a client of a remote GraphQL endpoint.
type GraphQLClientConfig struct {
	Endpoint string        `koanf:"endpoint"`
	Timeout  time.Duration `koanf:"timeout"`
}

// String returns a string representation of the GraphQL client configuration.
func (c *GraphQLClientConfig) String() string {
	var b strings.Builder
	b.WriteString("\n--- GraphQL Client ---\n")
	b.WriteString(fmt.Sprintf("  endpoint: %s\n", c.Endpoint))
	b.WriteString(fmt.Sprintf("  timeout: %s\n", c.Timeout))
	return b.String()
}

func (c *GraphQLClientConfig) Validate() error {
	if c.Endpoint == "" {
		return fmt.Errorf("graphql endpoint is not configured")
	}
	if !strings.HasPrefix(c.Endpoint, "http://") && !strings.HasPrefix(c.Endpoint, "https://") {
		return fmt.Errorf("graphql endpoint must be an http(s) URL: %s", c.Endpoint)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("graphql client timeout is not configured")
	}
	return nil
}
