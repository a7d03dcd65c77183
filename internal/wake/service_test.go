package wake

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/asnowfix/wololo/internal/providers"
	"github.com/asnowfix/wololo/pkg/mac"
	"github.com/asnowfix/wololo/pkg/wol"

	"github.com/go-logr/logr/testr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSender struct {
	sent []mac.Address
	err  error
}

func (r *recordingSender) Send(ctx context.Context, addr mac.Address) error {
	if r.err != nil {
		return r.err
	}
	r.sent = append(r.sent, addr)
	return nil
}

func newService(t *testing.T, sender Sender) *Service {
	t.Helper()
	static, err := providers.NewStatic([]string{"desktop=00:11:22:33:44:55"})
	require.NoError(t, err)
	return NewService(testr.New(t), providers.NewSet(testr.New(t), static), sender)
}

func TestWakeByMachine(t *testing.T) {
	sender := &recordingSender{}
	s := newService(t, sender)

	addr, err := s.Wake(context.Background(), Request{Machine: "desktop"})
	require.NoError(t, err)
	assert.Equal(t, "00:11:22:33:44:55", addr.String())
	assert.Equal(t, []mac.Address{addr}, sender.sent)
}

func TestWakeByAddress(t *testing.T) {
	sender := &recordingSender{}
	s := newService(t, sender)

	addr, err := s.Wake(context.Background(), Request{MacAddress: "aa:bb:cc:dd:ee:ff"})
	require.NoError(t, err)
	assert.Equal(t, "aa:bb:cc:dd:ee:ff", addr.String())
	assert.Len(t, sender.sent, 1)
}

func TestAddressTakesPriority(t *testing.T) {
	sender := &recordingSender{}
	s := newService(t, sender)

	addr, err := s.Wake(context.Background(), Request{Machine: "desktop", MacAddress: "aa:bb:cc:dd:ee:ff"})
	require.NoError(t, err)
	assert.Equal(t, "aa:bb:cc:dd:ee:ff", addr.String())

	// an invalid address is not rescued by a valid machine name
	_, err = s.Wake(context.Background(), Request{Machine: "desktop", MacAddress: "AA:BB:CC:DD:EE:FF"})
	assert.ErrorIs(t, err, mac.ErrInvalidAddress)
	assert.Len(t, sender.sent, 1)
}

func TestWakeErrors(t *testing.T) {
	sender := &recordingSender{}
	s := newService(t, sender)
	ctx := context.Background()

	_, err := s.Wake(ctx, Request{})
	assert.ErrorIs(t, err, ErrInvalidRequest)

	_, err = s.Wake(ctx, Request{Machine: "missing"})
	assert.ErrorIs(t, err, providers.ErrUnknownMachine)

	_, err = s.Wake(ctx, Request{MacAddress: "00:11:22"})
	assert.ErrorIs(t, err, mac.ErrInvalidAddress)

	assert.Empty(t, sender.sent)
}

func TestWakeSendFailure(t *testing.T) {
	sender := &recordingSender{err: fmt.Errorf("%w: %w", wol.ErrSendFailed, errors.New("network is unreachable"))}
	s := newService(t, sender)

	_, err := s.Wake(context.Background(), Request{Machine: "desktop"})
	assert.ErrorIs(t, err, wol.ErrSendFailed)
}

func TestRequestFor(t *testing.T) {
	assert.Equal(t, Request{Machine: "desktop"}, RequestFor("desktop"))
	assert.Equal(t, Request{MacAddress: "aa:bb:cc:dd:ee:ff"}, RequestFor("aa:bb:cc:dd:ee:ff"))

	sender := &recordingSender{}
	s := newService(t, sender)
	_, err := s.Wake(context.Background(), RequestFor("AA:BB:CC:DD:EE:FF"))
	assert.ErrorIs(t, err, mac.ErrInvalidAddress)
	assert.NotErrorIs(t, err, providers.ErrUnknownMachine)
	assert.Empty(t, sender.sent)
}
