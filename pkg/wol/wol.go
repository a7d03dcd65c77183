package wol

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/asnowfix/wololo/pkg/mac"
	"github.com/go-logr/logr"
)

// DefaultPort is the standard Wake-on-LAN UDP port
const DefaultPort = 9

var DefaultBroadcast = fmt.Sprintf("255.255.255.255:%d", DefaultPort)

var ErrSendFailed = errors.New("failed to send magic packet")

// Sender broadcasts magic packets. There is no acknowledgement in the protocol: a successful
// Send only means the datagram left the socket.
type Sender struct {
	log       logr.Logger
	broadcast string
}

func NewSender(log logr.Logger, broadcast string) *Sender {
	if broadcast == "" {
		broadcast = DefaultBroadcast
	}
	return &Sender{
		log:       log.WithName("wol.Sender"),
		broadcast: broadcast,
	}
}

func (s *Sender) Send(ctx context.Context, addr mac.Address) error {
	dst, err := net.ResolveUDPAddr("udp4", s.broadcast)
	if err != nil {
		return fmt.Errorf("%w: resolving %s: %w", ErrSendFailed, s.broadcast, err)
	}

	lc := net.ListenConfig{Control: enableBroadcast}
	conn, err := lc.ListenPacket(ctx, "udp4", ":0")
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSendFailed, err)
	}
	defer conn.Close()

	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetWriteDeadline(deadline)
	}

	n, err := conn.WriteTo(addr.MagicPacket(), dst)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSendFailed, err)
	}
	s.log.V(1).Info("Sent magic packet", "mac", addr, "to", dst, "bytes", n)
	return nil
}
