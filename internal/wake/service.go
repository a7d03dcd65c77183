package wake

import (
	"context"
	"errors"
	"strings"

	"github.com/asnowfix/wololo/internal/metrics"
	"github.com/asnowfix/wololo/pkg/mac"

	"github.com/go-logr/logr"
)

var ErrInvalidRequest = errors.New("invalid request")

// Request names the machine to wake. MacAddress takes priority over Machine.
type Request struct {
	Machine    string `schema:"machine" json:"machine,omitempty"`
	MacAddress string `schema:"mac_address" json:"mac_address,omitempty"`
}

// RequestFor reads target as a hardware address when it contains ':' and as a machine name
// otherwise, so that a mistyped address is reported as such.
func RequestFor(target string) Request {
	if strings.Contains(target, ":") {
		return Request{MacAddress: target}
	}
	return Request{Machine: target}
}

type Resolver interface {
	GetMacAddress(ctx context.Context, name string) (mac.Address, error)
}

type Sender interface {
	Send(ctx context.Context, addr mac.Address) error
}

type Service struct {
	log      logr.Logger
	resolver Resolver
	sender   Sender
}

func NewService(log logr.Logger, resolver Resolver, sender Sender) *Service {
	return &Service{
		log:      log.WithName("wake.Service"),
		resolver: resolver,
		sender:   sender,
	}
}

// Wake resolves the request to a hardware address and broadcasts one magic packet to it
func (s *Service) Wake(ctx context.Context, req Request) (mac.Address, error) {
	addr, err := s.resolve(ctx, req)
	if err != nil {
		metrics.Wakes.WithLabelValues("rejected").Inc()
		return addr, err
	}

	if err := s.sender.Send(ctx, addr); err != nil {
		metrics.Wakes.WithLabelValues("failed").Inc()
		s.log.Error(err, "Failed to wake", "mac", addr, "machine", req.Machine)
		return addr, err
	}

	metrics.Wakes.WithLabelValues("ok").Inc()
	s.log.Info("Sent magic packet", "mac", addr, "machine", req.Machine)
	return addr, nil
}

func (s *Service) resolve(ctx context.Context, req Request) (mac.Address, error) {
	if req.MacAddress != "" {
		return mac.Parse(req.MacAddress)
	}
	if req.Machine != "" {
		return s.resolver.GetMacAddress(ctx, req.Machine)
	}
	return mac.Address{}, ErrInvalidRequest
}
