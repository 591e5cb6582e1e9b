package config

import (
	"fmt"
	"strings"

	"github.com/robfig/cron/v3"
)

// JobConfig configures one scheduled job.
type JobConfig struct {
	Schedule string `koanf:"schedule"`
	LogFile  string `koanf:"logfile"`
}

// JobsConfig configures the scheduled jobs of the CRM scheduler.
type JobsConfig struct {
	Heartbeat JobConfig `koanf:"heartbeat"`
	Restock   JobConfig `koanf:"restock"`
	Reminders JobConfig `koanf:"reminders"`
	Report    JobConfig `koanf:"report"`
}

var defaultJobs = JobsConfig{
	Heartbeat: JobConfig{Schedule: "*/5 * * * *", LogFile: "/tmp/crm_heartbeat_log.txt"},
	Restock:   JobConfig{Schedule: "0 */12 * * *", LogFile: "/tmp/low_stock_updates_log.txt"},
	Reminders: JobConfig{Schedule: "0 8 * * *", LogFile: "/tmp/order_reminders_log.txt"},
	Report:    JobConfig{Schedule: "0 6 * * 1", LogFile: "/tmp/crm_report_log.txt"},
}

// String returns a string representation of the JobsConfig.
func (c *JobsConfig) String() string {
	var b strings.Builder
	b.WriteString("\n--- Jobs ---\n")
	for _, j := range c.named() {
		b.WriteString(fmt.Sprintf("  %s.schedule: %s\n", j.name, j.cfg.Schedule))
		b.WriteString(fmt.Sprintf("  %s.logfile: %s\n", j.name, j.cfg.LogFile))
	}
	return b.String()
}

// Validate fills in defaults and checks every schedule is a standard cron expression.
func (c *JobsConfig) Validate() error {
	defaults := defaultJobs.named()
	for i, j := range c.named() {
		if j.cfg.Schedule == "" {
			j.cfg.Schedule = defaults[i].cfg.Schedule
		}
		if j.cfg.LogFile == "" {
			j.cfg.LogFile = defaults[i].cfg.LogFile
		}
		if _, err := cron.ParseStandard(j.cfg.Schedule); err != nil {
			return fmt.Errorf("invalid schedule for job %s: %w", j.name, err)
		}
	}
	return nil
}

type namedJob struct {
	name string
	cfg  *JobConfig
}

func (c *JobsConfig) named() []namedJob {
	return []namedJob{
		{"heartbeat", &c.Heartbeat},
		{"restock", &c.Restock},
		{"reminders", &c.Reminders},
		{"report", &c.Report},
	}
}
