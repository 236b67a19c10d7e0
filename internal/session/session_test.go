package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relabs-tech/grip_rig/internal/reading"
)

func TestAddLatchesStart(t *testing.T) {
	s := New()
	base := time.Date(2026, 3, 12, 14, 15, 0, 0, time.UTC)

	s.Add(reading.Reading{Value: 1, Channel: reading.ChannelWeight, At: base})
	s.Add(reading.Reading{Value: 2, Channel: reading.ChannelFSR, At: base.Add(500 * time.Millisecond)})
	s.Add(reading.Reading{Value: 3, Channel: reading.ChannelWeight, At: base.Add(time.Second)})

	weight := s.Trace(reading.ChannelWeight)
	require.Len(t, weight, 2)
	assert.Equal(t, 0.0, weight[0].Time)
	assert.Equal(t, 1.0, weight[1].Time)

	// both channels share the trial's t=0
	fsr := s.Trace(reading.ChannelFSR)
	require.Len(t, fsr, 1)
	assert.Equal(t, 0.5, fsr[0].Time)
}

func TestConsume(t *testing.T) {
	s := New()
	in := make(chan reading.Reading)
	done := make(chan struct{})
	go func() {
		s.Consume(in)
		close(done)
	}()

	base := time.Now()
	for i := 0; i < 100; i++ {
		in <- reading.Reading{
			Value:   float64(i),
			Channel: reading.ChannelWeight,
			At:      base.Add(time.Duration(i) * 10 * time.Millisecond),
		}
	}
	close(in)
	<-done

	assert.Equal(t, 100, s.Len(reading.ChannelWeight))
	last, ok := s.Latest(reading.ChannelWeight)
	require.True(t, ok)
	assert.Equal(t, 99.0, last.Value)
}

func TestTraceReturnsCopy(t *testing.T) {
	s := New()
	base := time.Now()
	s.Add(reading.Reading{Value: 5, Channel: reading.ChannelWeight, At: base})

	snap := s.Trace(reading.ChannelWeight)
	snap[0].Value = -1

	again := s.Trace(reading.ChannelWeight)
	assert.Equal(t, 5.0, again[0].Value)
}

func TestLatestEmpty(t *testing.T) {
	_, ok := New().Latest(reading.ChannelFSR)
	assert.False(t, ok)
}
