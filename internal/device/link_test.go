package device

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relabs-tech/grip_rig/internal/reading"
)

// fakePort replays canned device output and records written commands.
type fakePort struct {
	io.Reader
	written bytes.Buffer
	closed  bool
}

func (f *fakePort) Write(p []byte) (int, error) { return f.written.Write(p) }
func (f *fakePort) Close() error                { f.closed = true; return nil }

func newFakeLink(output string) (*Link, *fakePort) {
	p := &fakePort{Reader: strings.NewReader(output)}
	return NewLink(p), p
}

func TestWaitReadySkipsBootNoise(t *testing.T) {
	l, _ := newFakeLink("\xff\xfegarbage\nbooting...\nARDUINO READY\n23.4,Weight\n")
	require.NoError(t, l.WaitReady())

	rd, err := l.Next()
	require.NoError(t, err)
	assert.Equal(t, 23.4, rd.Value)
	assert.Equal(t, reading.ChannelWeight, rd.Channel)
}

func TestWaitReadyEOF(t *testing.T) {
	l, _ := newFakeLink("no handshake here\n")
	assert.Error(t, l.WaitReady())
}

func TestNextDropsMalformedLines(t *testing.T) {
	l, _ := newFakeLink("not-a-number,Weight\n\n512,FSR\n")
	rd, err := l.Next()
	require.NoError(t, err)
	assert.Equal(t, 512.0, rd.Value)
	assert.Equal(t, reading.ChannelFSR, rd.Channel)
}

func TestNextUnknownTagDropped(t *testing.T) {
	l, _ := newFakeLink("1.0,Humidity\n2.0,Weight\n")
	rd, err := l.Next()
	require.NoError(t, err)
	assert.Equal(t, 2.0, rd.Value)
}

func TestNextEOF(t *testing.T) {
	l, _ := newFakeLink("")
	_, err := l.Next()
	assert.Error(t, err)
}

func TestSendCommand(t *testing.T) {
	l, p := newFakeLink("")
	require.NoError(t, l.SendCommand(CmdGripStrength))
	require.NoError(t, l.SendCommand(CmdStop))
	assert.Equal(t, "13", p.written.String())
}

func TestParseCommand(t *testing.T) {
	c, err := ParseCommand("2")
	require.NoError(t, err)
	assert.Equal(t, CmdJointStiffness, c)

	_, err = ParseCommand("9")
	assert.Error(t, err)
}

func TestClose(t *testing.T) {
	l, p := newFakeLink("")
	require.NoError(t, l.Close())
	assert.True(t, p.closed)
}
