package jobs

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/abgdnv/gocrm/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClient is a canned implementation of the Client interface
type fakeClient struct {
	hello     string
	restock   *RestockReport
	orders    []OrderReminder
	report    *Report
	since     time.Time
	error     error
	helloFail bool
}

func (f *fakeClient) Hello(_ context.Context) (string, error) {
	if f.helloFail {
		return "", errors.New("connection refused")
	}
	return f.hello, nil
}

func (f *fakeClient) UpdateLowStockProducts(_ context.Context) (*RestockReport, error) {
	if f.error != nil {
		return nil, f.error
	}
	return f.restock, nil
}

func (f *fakeClient) RecentOrders(_ context.Context, since time.Time) ([]OrderReminder, error) {
	f.since = since
	if f.error != nil {
		return nil, f.error
	}
	return f.orders, nil
}

func (f *fakeClient) Report(_ context.Context) (*Report, error) {
	if f.error != nil {
		return nil, f.error
	}
	return f.report, nil
}

var fixedNow = time.Date(2025, 3, 14, 9, 26, 53, 0, time.Local)

func newTestRunner(t *testing.T, client Client) *Runner {
	t.Helper()
	dir := t.TempDir()
	cfg := config.JobsConfig{
		Heartbeat: config.JobConfig{Schedule: "*/5 * * * *", LogFile: filepath.Join(dir, "heartbeat.txt")},
		Restock:   config.JobConfig{Schedule: "0 */12 * * *", LogFile: filepath.Join(dir, "restock.txt")},
		Reminders: config.JobConfig{Schedule: "0 8 * * *", LogFile: filepath.Join(dir, "reminders.txt")},
		Report:    config.JobConfig{Schedule: "0 6 * * 1", LogFile: filepath.Join(dir, "report.txt")},
	}
	r := NewRunner(client, cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	r.now = func() time.Time { return fixedNow }
	return r
}

func readLines(t *testing.T, path string) []string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
}

func Test_Runner_Heartbeat(t *testing.T) {
	testCases := []struct {
		name   string
		client *fakeClient
	}{
		{name: "API answers", client: &fakeClient{hello: "Hello, GraphQL!"}},
		{name: "API down is not a failure", client: &fakeClient{helloFail: true}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			r := newTestRunner(t, tc.client)

			// when
			require.NoError(t, r.Heartbeat(context.Background()))
			require.NoError(t, r.Heartbeat(context.Background()))

			// then
			lines := readLines(t, r.cfg.Heartbeat.LogFile)
			assert.Equal(t, []string{"14/03/2025-09:26:53 CRM is alive", "14/03/2025-09:26:53 CRM is alive"}, lines)
		})
	}
}

func Test_Runner_RestockLowStock(t *testing.T) {
	t.Run("Success - products updated", func(t *testing.T) {
		// given
		r := newTestRunner(t, &fakeClient{restock: &RestockReport{
			Success:  true,
			Products: []RestockedProduct{{Name: "Laptop Pro", Stock: 13}, {Name: "Mouse", Stock: 10}},
		}})

		// when
		err := r.RestockLowStock(context.Background())

		// then
		require.NoError(t, err)
		assert.Equal(t, []string{
			"2025-03-14 09:26:53 - Updated product: Laptop Pro, New stock: 13",
			"2025-03-14 09:26:53 - Updated product: Mouse, New stock: 10",
		}, readLines(t, r.cfg.Restock.LogFile))
	})

	t.Run("Success - nothing to update", func(t *testing.T) {
		r := newTestRunner(t, &fakeClient{restock: &RestockReport{Success: true}})

		require.NoError(t, r.RestockLowStock(context.Background()))
		assert.Equal(t, []string{"2025-03-14 09:26:53 - No low-stock products to update."}, readLines(t, r.cfg.Restock.LogFile))
	})

	t.Run("Error - client error", func(t *testing.T) {
		r := newTestRunner(t, &fakeClient{error: errors.New("boom")})

		err := r.RestockLowStock(context.Background())

		require.Error(t, err)
		assert.NoFileExists(t, r.cfg.Restock.LogFile)
	})
}

func Test_Runner_SendOrderReminders(t *testing.T) {
	t.Run("Success - reminders logged", func(t *testing.T) {
		// given
		client := &fakeClient{orders: []OrderReminder{{ID: "o-1"}, {ID: "o-2"}}}
		client.orders[0].Customer.Email = "john@example.com"
		client.orders[1].Customer.Email = "jane@example.com"
		r := newTestRunner(t, client)

		// when
		err := r.SendOrderReminders(context.Background())

		// then
		require.NoError(t, err)
		assert.Equal(t, fixedNow.Add(-7*24*time.Hour), client.since)
		assert.Equal(t, []string{
			"2025-03-14 09:26:53: Found 2 recent orders. Sending reminders...",
			"2025-03-14 09:26:53: Order ID: o-1, Customer: john@example.com",
			"2025-03-14 09:26:53: Order ID: o-2, Customer: jane@example.com",
		}, readLines(t, r.cfg.Reminders.LogFile))
	})

	t.Run("Success - no orders", func(t *testing.T) {
		r := newTestRunner(t, &fakeClient{})

		require.NoError(t, r.SendOrderReminders(context.Background()))
		assert.Equal(t, []string{"2025-03-14 09:26:53: No recent orders found."}, readLines(t, r.cfg.Reminders.LogFile))
	})

	t.Run("Error - client error is logged", func(t *testing.T) {
		r := newTestRunner(t, &fakeClient{error: errors.New("timeout")})

		require.Error(t, r.SendOrderReminders(context.Background()))
		assert.Equal(t, []string{"2025-03-14 09:26:53: Error fetching order reminders: timeout"}, readLines(t, r.cfg.Reminders.LogFile))
	})
}

func Test_Runner_GenerateReport(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		r := newTestRunner(t, &fakeClient{report: &Report{TotalCustomers: 2, TotalOrders: 1, TotalRevenue: "1225.50"}})

		require.NoError(t, r.GenerateReport(context.Background()))
		assert.Equal(t, []string{"2025-03-14 09:26:53 - Report: 2 customers, 1 orders, 1225.50 revenue."}, readLines(t, r.cfg.Report.LogFile))
	})

	t.Run("Error - failure recorded", func(t *testing.T) {
		r := newTestRunner(t, &fakeClient{error: errors.New("service unavailable")})

		require.Error(t, r.GenerateReport(context.Background()))
		assert.Equal(t, []string{"2025-03-14 09:26:53 - ERROR: service unavailable"}, readLines(t, r.cfg.Report.LogFile))
	})
}

func Test_Runner_Jobs(t *testing.T) {
	r := newTestRunner(t, &fakeClient{})

	jobs := r.Jobs()

	require.Len(t, jobs, 4)
	names := make([]string, 0, len(jobs))
	for _, j := range jobs {
		names = append(names, j.Name)
		assert.NotNil(t, j.Run)
	}
	assert.Equal(t, []string{"heartbeat", "restock", "reminders", "report"}, names)
	assert.Equal(t, "0 6 * * 1", jobs[3].Schedule)
}
