// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package server

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

const sweepTimeout = time.Minute

// Sweeper deletes expired recovery codes.
type Sweeper interface {
	SweepExpired(ctx context.Context) (int64, error)
}

// startSweeper schedules the expired code sweep. An empty schedule
// disables it and returns a nil scheduler.
func startSweeper(schedule string, s Sweeper) (*cron.Cron, error) {
	if schedule == "" {
		slog.Info("recovery code sweep disabled")
		return nil, nil
	}

	c := cron.New()
	if _, err := c.AddFunc(schedule, func() { sweep(s) }); err != nil {
		return nil, fmt.Errorf("invalid recovery sweep schedule %q: %w", schedule, err)
	}
	c.Start()
	slog.Info("recovery code sweep scheduled", "schedule", schedule)
	return c, nil
}

// stopSweeper waits for a running sweep to finish.
func stopSweeper(c *cron.Cron) {
	if c == nil {
		return
	}
	<-c.Stop().Done()
}

func sweep(s Sweeper) {
	ctx, cancel := context.WithTimeout(context.Background(), sweepTimeout)
	defer cancel()

	n, err := s.SweepExpired(ctx)
	if err != nil {
		slog.Error("recovery_sweep_failed", "error", err)
		return
	}
	if n > 0 {
		slog.Info("recovery_sweep", "deleted", n)
	}
}
