// Package probes implements file based readiness and liveness probes.
// A kubelet exec probe (`test -f <file>` or a freshness check) reads them.
package probes

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"
)

// MarkReady creates the readiness file.
func MarkReady(path string) error {
	if err := touch(path); err != nil {
		return fmt.Errorf("failed to create readiness file: %w", err)
	}
	return nil
}

// Clear removes a probe file. A missing file is not an error.
func Clear(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove probe file %s: %w", path, err)
	}
	return nil
}

// RunLiveness refreshes the liveness file every interval until ctx is done, then removes it.
func RunLiveness(ctx context.Context, path string, interval time.Duration, logger *slog.Logger) error {
	if err := touch(path); err != nil {
		return fmt.Errorf("failed to create liveness file: %w", err)
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			if err := Clear(path); err != nil {
				logger.Warn("failed to remove liveness file", "error", err)
			}
			return ctx.Err()
		case <-ticker.C:
			if err := touch(path); err != nil {
				logger.Error("failed to refresh liveness file", "path", path, "error", err)
			}
		}
	}
}

func touch(path string) error {
	now := time.Now()
	if err := os.Chtimes(path, now, now); err == nil {
		return nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	return f.Close()
}
