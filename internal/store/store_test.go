package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relabs-tech/grip_rig/internal/metrics"
	"github.com/relabs-tech/grip_rig/internal/reading"
	"github.com/relabs-tech/grip_rig/internal/report"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleTrial(id string, at time.Time) Trial {
	peak := 10.0
	cv := 7.44
	return Trial{
		ID:         id,
		ArchivedAt: at,
		Report: &report.Report{
			Source: id + ".csv",
			Grip:   &report.GripMetrics{Peak: peak, PeakTime: 2, PlateauCV: &cv},
		},
	}
}

func TestPutGet(t *testing.T) {
	s := openTestStore(t)

	at := time.Date(2026, 3, 12, 14, 15, 0, 0, time.UTC)
	require.NoError(t, s.Put(sampleTrial("t1", at), nil))

	got, err := s.Get("t1")
	require.NoError(t, err)
	assert.Equal(t, "t1", got.ID)
	require.NotNil(t, got.Report.Grip)
	assert.Equal(t, 10.0, got.Report.Grip.Peak)
	require.NotNil(t, got.Report.Grip.PlateauCV)
	assert.Equal(t, 7.44, *got.Report.Grip.PlateauCV)
}

func TestGetMissing(t *testing.T) {
	s := openTestStore(t)
	_, err := s.Get("absent")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListNewestFirst(t *testing.T) {
	s := openTestStore(t)

	base := time.Date(2026, 3, 12, 14, 0, 0, 0, time.UTC)
	require.NoError(t, s.Put(sampleTrial("old", base), nil))
	require.NoError(t, s.Put(sampleTrial("new", base.Add(time.Hour)), nil))

	trials, err := s.List()
	require.NoError(t, err)
	require.Len(t, trials, 2)
	assert.Equal(t, "new", trials[0].ID)
	assert.Equal(t, "old", trials[1].ID)
}

func TestSamplesRoundTrip(t *testing.T) {
	s := openTestStore(t)

	trace := metrics.Series{
		{Time: 0, Value: 1.5},
		{Time: 0.5, Value: 23.4},
		{Time: 1, Value: 20.1},
	}
	trial := sampleTrial("t2", time.Now())
	require.NoError(t, s.Put(trial, map[reading.Channel]metrics.Series{
		reading.ChannelWeight: trace,
	}))

	got, err := s.Samples("t2", reading.ChannelWeight)
	require.NoError(t, err)
	assert.Equal(t, trace, got)

	_, err = s.Samples("t2", reading.ChannelFSR)
	assert.ErrorIs(t, err, ErrNotFound)
}
