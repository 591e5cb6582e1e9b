// Package jobs implements the periodic CRM jobs and the scheduler running them.
package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/abgdnv/gocrm/pkg/config"
)

const (
	heartbeatLayout = "02/01/2006-15:04:05"
	logLayout       = "2006-01-02 15:04:05"

	reminderWindow = 7 * 24 * time.Hour
)

// Runner executes the CRM jobs against a Client and appends their output to the configured log files.
type Runner struct {
	client Client
	cfg    config.JobsConfig
	logger *slog.Logger
	now    func() time.Time
}

func NewRunner(client Client, cfg config.JobsConfig, logger *slog.Logger) *Runner {
	return &Runner{
		client: client,
		cfg:    cfg,
		logger: logger.With("component", "jobs"),
		now:    time.Now,
	}
}

// Jobs returns the jobs with their configured schedules.
func (r *Runner) Jobs() []Job {
	return []Job{
		{Name: "heartbeat", Schedule: r.cfg.Heartbeat.Schedule, Run: r.Heartbeat},
		{Name: "restock", Schedule: r.cfg.Restock.Schedule, Run: r.RestockLowStock},
		{Name: "reminders", Schedule: r.cfg.Reminders.Schedule, Run: r.SendOrderReminders},
		{Name: "report", Schedule: r.cfg.Report.Schedule, Run: r.GenerateReport},
	}
}

// Heartbeat records that the scheduler is alive, then checks whether the API answers.
// An unreachable API is logged but does not fail the job.
func (r *Runner) Heartbeat(ctx context.Context) error {
	line := r.now().Format(heartbeatLayout) + " CRM is alive"
	if err := appendLines(r.cfg.Heartbeat.LogFile, line); err != nil {
		return err
	}
	hello, err := r.client.Hello(ctx)
	if err != nil {
		r.logger.WarnContext(ctx, "GraphQL endpoint is not responding", "error", err)
		return nil
	}
	r.logger.InfoContext(ctx, "GraphQL endpoint is responsive", "hello", hello)
	return nil
}

// RestockLowStock asks the API to restock low-stock products and logs every updated product.
func (r *Runner) RestockLowStock(ctx context.Context) error {
	report, err := r.client.UpdateLowStockProducts(ctx)
	if err != nil {
		return err
	}
	ts := r.now().Format(logLayout)
	if !report.Success {
		return fmt.Errorf("restock was not successful: %s", report.Message)
	}
	if len(report.Products) == 0 {
		return appendLines(r.cfg.Restock.LogFile, ts+" - No low-stock products to update.")
	}
	lines := make([]string, 0, len(report.Products))
	for _, p := range report.Products {
		lines = append(lines, fmt.Sprintf("%s - Updated product: %s, New stock: %d", ts, p.Name, p.Stock))
	}
	r.logger.InfoContext(ctx, "Low-stock products restocked", "count", len(report.Products))
	return appendLines(r.cfg.Restock.LogFile, lines...)
}

// SendOrderReminders logs a reminder for every order placed during the last seven days.
func (r *Runner) SendOrderReminders(ctx context.Context) error {
	now := r.now()
	orders, err := r.client.RecentOrders(ctx, now.Add(-reminderWindow))
	ts := now.Format(logLayout)
	if err != nil {
		_ = appendLines(r.cfg.Reminders.LogFile, fmt.Sprintf("%s: Error fetching order reminders: %v", ts, err))
		return err
	}
	if len(orders) == 0 {
		return appendLines(r.cfg.Reminders.LogFile, ts+": No recent orders found.")
	}
	lines := make([]string, 0, len(orders)+1)
	lines = append(lines, fmt.Sprintf("%s: Found %d recent orders. Sending reminders...", ts, len(orders)))
	for _, o := range orders {
		lines = append(lines, fmt.Sprintf("%s: Order ID: %s, Customer: %s", ts, o.ID, o.Customer.Email))
	}
	r.logger.InfoContext(ctx, "Order reminders processed", "count", len(orders))
	return appendLines(r.cfg.Reminders.LogFile, lines...)
}

// GenerateReport logs the CRM totals. A failed query is recorded in the report log too.
func (r *Runner) GenerateReport(ctx context.Context) error {
	report, err := r.client.Report(ctx)
	ts := r.now().Format(logLayout)
	if err != nil {
		_ = appendLines(r.cfg.Report.LogFile, fmt.Sprintf("%s - ERROR: %v", ts, err))
		return err
	}
	line := fmt.Sprintf("%s - Report: %d customers, %d orders, %s revenue.",
		ts, report.TotalCustomers, report.TotalOrders, report.TotalRevenue)
	r.logger.InfoContext(ctx, "CRM report generated")
	return appendLines(r.cfg.Report.LogFile, line)
}

func appendLines(path string, lines ...string) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open job log %s: %w", path, err)
	}
	_, err = f.WriteString(strings.Join(lines, "\n") + "\n")
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return fmt.Errorf("failed to write job log %s: %w", path, err)
	}
	return nil
}
