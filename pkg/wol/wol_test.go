package wol

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/asnowfix/wololo/pkg/mac"
	"github.com/go-logr/logr/testr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendDeliversMagicPacket(t *testing.T) {
	l, err := net.ListenPacket("udp4", "127.0.0.1:0")
	require.NoError(t, err)
	defer l.Close()

	addr, err := mac.Parse("00:11:22:33:44:55")
	require.NoError(t, err)

	s := NewSender(testr.New(t), l.LocalAddr().String())
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, s.Send(ctx, addr))

	buf := make([]byte, 512)
	require.NoError(t, l.SetReadDeadline(time.Now().Add(2*time.Second)))
	n, _, err := l.ReadFrom(buf)
	require.NoError(t, err)
	assert.Equal(t, addr.MagicPacket(), buf[:n])
}

func TestSendFailsOnBadDestination(t *testing.T) {
	s := NewSender(testr.New(t), "not-an-address")
	err := s.Send(context.Background(), mac.Address{})
	assert.ErrorIs(t, err, ErrSendFailed)
}

func TestDefaultBroadcast(t *testing.T) {
	s := NewSender(testr.New(t), "")
	assert.Equal(t, "255.255.255.255:9", s.broadcast)
}
