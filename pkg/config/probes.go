package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"
)

// ProbesConfig configures the file probes of the scheduler, which has no HTTP listener.
// Kubernetes exec probes test for the readiness file and the freshness of the liveness file.
type ProbesConfig struct {
	ReadinessFileName string        `koanf:"readinessfilename"`
	LivenessFileName  string        `koanf:"livenessfilename"`
	LivenessInterval  time.Duration `koanf:"livenessinterval"`
}

const (
	defaultReadinessFileName = "/tmp/crm_scheduler_ready"
	defaultLivenessFileName  = "/tmp/crm_scheduler_live"
	defaultLivenessInterval  = 20 * time.Second
	minLivenessInterval      = time.Second
)

func (c *ProbesConfig) String() string {
	return fmt.Sprintf("\n--- Probes ---\n  ready: %s\n  live: %s (every %s)\n",
		c.ReadinessFileName, c.LivenessFileName, c.LivenessInterval)
}

func (c *ProbesConfig) Validate() error {
	c.ReadinessFileName = orDefault(c.ReadinessFileName, defaultReadinessFileName)
	c.LivenessFileName = orDefault(c.LivenessFileName, defaultLivenessFileName)
	if c.LivenessInterval == 0 {
		c.LivenessInterval = defaultLivenessInterval
	}
	if c.LivenessInterval < minLivenessInterval {
		return fmt.Errorf("probes livenessinterval %s is below %s", c.LivenessInterval, minLivenessInterval)
	}
	if filepath.Clean(c.ReadinessFileName) == filepath.Clean(c.LivenessFileName) {
		return errors.New("probes readiness and liveness files must differ")
	}
	return nil
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
