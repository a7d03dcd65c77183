package mynet

import (
	"errors"
	"net"
	"testing"

	"github.com/go-logr/logr/testr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cidr(t *testing.T, s string) net.Addr {
	ip, nw, err := net.ParseCIDR(s)
	require.NoError(t, err)
	return &net.IPNet{IP: ip, Mask: nw.Mask}
}

func TestInterfaceContaining(t *testing.T) {
	up := net.FlagUp | net.FlagMulticast
	ifaces := []net.Interface{
		{Index: 1, Name: "lo", Flags: net.FlagUp | net.FlagLoopback},
		{Index: 2, Name: "docker0", Flags: up},
		{Index: 3, Name: "broken", Flags: up},
		{Index: 4, Name: "eth0", Flags: up},
		{Index: 5, Name: "eth1", Flags: net.FlagMulticast},
	}
	addrs := map[string][]net.Addr{
		"lo":      {cidr(t, "127.0.0.1/8")},
		"docker0": {cidr(t, "172.17.0.1/16")},
		"eth0":    {cidr(t, "fe80::1/64"), cidr(t, "192.168.178.20/24")},
		"eth1":    {cidr(t, "192.168.178.21/24")},
	}
	lookup := func(i net.Interface) ([]net.Addr, error) {
		if i.Name == "broken" {
			return nil, errors.New("boom")
		}
		return addrs[i.Name], nil
	}

	i, err := interfaceContaining(testr.New(t), ifaces, net.ParseIP("192.168.178.1"), lookup)
	require.NoError(t, err)
	assert.Equal(t, "eth0", i.Name)

	_, err = interfaceContaining(testr.New(t), ifaces, net.ParseIP("10.0.0.1"), lookup)
	assert.Error(t, err)
}
