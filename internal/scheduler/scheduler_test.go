package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSweeper struct {
	calls     atomic.Int32
	retention atomic.Int64
}

func (f *fakeSweeper) Sweep(_ context.Context, retention time.Duration) (int64, error) {
	f.calls.Add(1)
	f.retention.Store(int64(retention))
	return 3, nil
}

type fakeRefresher struct {
	calls atomic.Int32
	err   error
}

func (f *fakeRefresher) Refresh(context.Context) error {
	f.calls.Add(1)
	return f.err
}

func TestScheduleValidation(t *testing.T) {
	s := NewScheduler(nil)

	require.NoError(t, s.ScheduleRetentionSweep("0 3 * * *", &fakeSweeper{}, 0))
	assert.Equal(t, 0, s.JobCount(), "zero retention schedules nothing")

	assert.Error(t, s.ScheduleCalendarRefresh("not a cron", &fakeRefresher{}))
	assert.Error(t, s.Start(), "start without jobs")
}

func TestStartStop(t *testing.T) {
	s := NewScheduler(nil)
	require.NoError(t, s.ScheduleRetentionSweep("0 3 * * *", &fakeSweeper{}, 24*time.Hour))
	require.NoError(t, s.ScheduleCalendarRefresh("*/30 * * * *", &fakeRefresher{}))
	assert.Equal(t, 2, s.JobCount())
	assert.True(t, s.GetNextRun().IsZero())

	require.NoError(t, s.Start())
	assert.True(t, s.IsRunning())
	assert.Error(t, s.Start())
	assert.Error(t, s.ScheduleCalendarRefresh("@hourly", &fakeRefresher{}))
	assert.True(t, s.GetNextRun().After(time.Now()))

	s.Stop()
	assert.False(t, s.IsRunning())
	s.Stop()
}

func TestJobsRun(t *testing.T) {
	sweeper := &fakeSweeper{}
	refresher := &fakeRefresher{err: errors.New("feed down")}

	s := NewScheduler(nil)
	require.NoError(t, s.ScheduleRetentionSweep("@every 1s", sweeper, 48*time.Hour))
	require.NoError(t, s.ScheduleCalendarRefresh("@every 1s", refresher))
	require.NoError(t, s.Start())
	defer s.Stop()

	assert.Eventually(t, func() bool {
		return sweeper.calls.Load() > 0 && refresher.calls.Load() > 0
	}, 5*time.Second, 50*time.Millisecond)
	assert.Equal(t, int64(48*time.Hour), sweeper.retention.Load())
}
