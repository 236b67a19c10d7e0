package report

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relabs-tech/grip_rig/internal/metrics"
)

var decaySeries = metrics.Series{
	{Time: 0, Value: 1},
	{Time: 1, Value: 5},
	{Time: 2, Value: 10},
	{Time: 3, Value: 9},
	{Time: 4, Value: 8},
	{Time: 5, Value: 4},
	{Time: 6, Value: 2},
}

func TestAnalyzeGrip(t *testing.T) {
	g, err := AnalyzeGrip(decaySeries)
	require.NoError(t, err)
	assert.Equal(t, 10.0, g.Peak)
	assert.Equal(t, 2.0, g.PeakTime)
	require.NotNil(t, g.PlateauCV)
	assert.InDelta(t, 7.443, *g.PlateauCV, 0.01)
	require.Len(t, g.Decay, 4)
	assert.Equal(t, 25, g.Decay[0].Fraction)
	assert.Equal(t, 80, g.Decay[3].Fraction)
}

func TestAnalyzeStiffness(t *testing.T) {
	m, err := AnalyzeStiffness(decaySeries)
	require.NoError(t, err)
	assert.InDelta(t, 37.5, m.Impulse, 1e-9)
	require.NotNil(t, m.RelaxationRate)
	assert.InDelta(t, -2.0, *m.RelaxationRate, 1e-9)
	// one-second sampling leaves nothing inside the 100 ms onset window
	assert.Nil(t, m.RFD)
}

func writeSession(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "trial.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestAnalyzeFullFile(t *testing.T) {
	path := writeSession(t, `Timestamp,Value,Sensor
2026-03-12 14:15:00,1,Weight
2026-03-12 14:15:00,100,FSR
2026-03-12 14:15:01,5,Weight
2026-03-12 14:15:01,300,FSR
2026-03-12 14:15:02,10,Weight
2026-03-12 14:15:02,250,FSR
2026-03-12 14:15:03,9,Weight
2026-03-12 14:15:04,8,Weight
2026-03-12 14:15:05,4,Weight
2026-03-12 14:15:06,2,Weight
`)

	r := Analyze(path)
	require.NotNil(t, r.Grip)
	require.NotNil(t, r.Stiffness)
	assert.Empty(t, r.GripError)
	assert.Empty(t, r.StiffnessError)
	assert.Equal(t, 10.0, r.Grip.Peak)

	var out strings.Builder
	r.Render(&out)
	text := out.String()
	assert.Contains(t, text, "Grip Strength Analysis:")
	assert.Contains(t, text, "Peak Grip Strength: 10.00 kg at 2.00 seconds")
	assert.Contains(t, text, "Time to reach 50% of max grip strength: 3.00 seconds")
	assert.Contains(t, text, "Joint Stiffness Analysis:")
	assert.Contains(t, text, "Force-Time Integral (Impulse):")
}

func TestAnalyzeMissingChannelKeepsOtherSection(t *testing.T) {
	path := writeSession(t, `Timestamp,Value,Sensor
2026-03-12 14:15:00,1,Weight
2026-03-12 14:15:01,5,Weight
2026-03-12 14:15:02,3,Weight
`)

	r := Analyze(path)
	require.NotNil(t, r.Grip)
	assert.Nil(t, r.Stiffness)
	assert.NotEmpty(t, r.StiffnessError)

	var out strings.Builder
	r.Render(&out)
	assert.Contains(t, out.String(), "Peak Grip Strength: 5.00 kg at 1.00 seconds")
}

func TestRenderSentinels(t *testing.T) {
	// monotonically increasing trace: nothing descends, nothing in the onset window
	s := metrics.Series{{Time: 0, Value: 1}, {Time: 1, Value: 2}, {Time: 2, Value: 5}}
	m, err := AnalyzeStiffness(s)
	require.NoError(t, err)

	r := &Report{Source: "x.csv", Stiffness: m, GripError: "no Weight samples"}
	var out strings.Builder
	r.Render(&out)
	text := out.String()
	assert.Contains(t, text, "Force Relaxation Rate: Not calculated (insufficient descending data)")
	assert.Contains(t, text, "Rate of Force Development (RFD): Not calculated (insufficient data in initial phase)")
	assert.Contains(t, text, "Grip Strength Analysis: no Weight samples")
}
