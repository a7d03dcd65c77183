package mynet

import (
	"fmt"
	"net"

	"github.com/go-logr/logr"
	"github.com/jackpal/gateway"
)

// GatewayInterface returns the interface whose network contains the default gateway
func GatewayInterface(log logr.Logger) (*net.Interface, error) {
	gw, err := gateway.DiscoverGateway()
	if err != nil {
		return nil, fmt.Errorf("finding network gateway: %w", err)
	}
	log.V(1).Info("Found gateway", "ip", gw)

	ifaces, err := net.Interfaces()
	if err != nil {
		return nil, fmt.Errorf("listing interfaces: %w", err)
	}
	return interfaceContaining(log, ifaces, gw, addrsOf)
}

func addrsOf(i net.Interface) ([]net.Addr, error) {
	return i.Addrs()
}

func interfaceContaining(log logr.Logger, ifaces []net.Interface, ip net.IP, addrs func(net.Interface) ([]net.Addr, error)) (*net.Interface, error) {
	for _, i := range ifaces {
		if i.Flags&net.FlagUp == 0 || i.Flags&net.FlagMulticast == 0 {
			continue
		}
		as, err := addrs(i)
		if err != nil {
			log.V(1).Info("Skipping interface", "name", i.Name, "error", err)
			continue
		}
		for _, a := range as {
			_, nw, err := net.ParseCIDR(a.String())
			if err != nil {
				continue
			}
			if nw.Contains(ip) {
				log.V(1).Info("Selected interface", "name", i.Name, "network", nw)
				return &i, nil
			}
		}
	}
	return nil, fmt.Errorf("no interface on the same network as %v", ip)
}
