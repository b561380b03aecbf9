// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package server

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingSweeper struct {
	calls atomic.Int32
	n     int64
	err   error
}

func (s *countingSweeper) SweepExpired(context.Context) (int64, error) {
	s.calls.Add(1)
	return s.n, s.err
}

func TestStartSweeper_EmptySchedule(t *testing.T) {
	c, err := startSweeper("", &countingSweeper{})

	require.NoError(t, err)
	assert.Nil(t, c)
	stopSweeper(c)
}

func TestStartSweeper_InvalidSchedule(t *testing.T) {
	_, err := startSweeper("every now and then", &countingSweeper{})

	assert.ErrorContains(t, err, "invalid recovery sweep schedule")
}

func TestStartSweeper_Scheduled(t *testing.T) {
	c, err := startSweeper("@every 1h", &countingSweeper{})

	require.NoError(t, err)
	require.NotNil(t, c)
	assert.Len(t, c.Entries(), 1)
	stopSweeper(c)
}

func TestSweep(t *testing.T) {
	tests := []struct {
		name    string
		sweeper *countingSweeper
		wantLog string
	}{
		{"deleted", &countingSweeper{n: 3}, "recovery_sweep"},
		{"nothing", &countingSweeper{}, ""},
		{"failed", &countingSweeper{err: errors.New("db gone")}, "recovery_sweep_failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			prev := slog.Default()
			slog.SetDefault(newLogger(&buf, "info", "json"))
			t.Cleanup(func() { slog.SetDefault(prev) })

			sweep(tt.sweeper)

			assert.Equal(t, int32(1), tt.sweeper.calls.Load())
			if tt.wantLog == "" {
				assert.Empty(t, buf.String())
			} else {
				assert.Contains(t, buf.String(), `"msg":"`+tt.wantLog+`"`)
			}
		})
	}
}
