package mdns

import (
	"context"
	"fmt"
	"net"

	"github.com/asnowfix/wololo/internal/mynet"

	"github.com/go-logr/logr"
	"github.com/grandcat/zeroconf"
)

const (
	Service = "_http._tcp"
	Domain  = "local."
)

// Publish announces the web UI on the local network until ctx is done. It is published on the
// interface facing the default gateway, or on every multicast interface when there is none.
func Publish(ctx context.Context, log logr.Logger, instance string, port int, version string) error {
	var ifaces []net.Interface
	if i, err := mynet.GatewayInterface(log); err == nil {
		ifaces = []net.Interface{*i}
	} else {
		log.V(1).Info("Publishing on all interfaces", "reason", err.Error())
	}

	txt := []string{"path=/", "version=" + version}
	srv, err := zeroconf.Register(instance, Service, Domain, port, txt, ifaces)
	if err != nil {
		return fmt.Errorf("mdns register %s.%s%s: %w", instance, Service, Domain, err)
	}
	log.Info("Published mDNS service", "instance", instance, "service", Service, "port", port)

	go func() {
		<-ctx.Done()
		srv.Shutdown()
		log.V(1).Info("Unpublished mDNS service", "instance", instance)
	}()
	return nil
}
