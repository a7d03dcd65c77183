package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/asnowfix/wololo/hlog"
	"github.com/asnowfix/wololo/internal/config"
	"github.com/asnowfix/wololo/internal/global"
	"github.com/asnowfix/wololo/internal/mdns"
	"github.com/asnowfix/wololo/internal/providers"
	"github.com/asnowfix/wololo/internal/providers/fritzbox"
	"github.com/asnowfix/wololo/internal/ui"
	"github.com/asnowfix/wololo/internal/wake"
	pkgfritzbox "github.com/asnowfix/wololo/pkg/fritzbox"
	"github.com/asnowfix/wololo/pkg/wol"

	"github.com/go-logr/logr"
)

type App struct {
	log       logr.Logger
	config    *config.Config
	Providers *providers.Set
	Wake      *wake.Service
}

// New builds the providers in priority order (static table first, then the router) and the
// wake service. A malformed static entry is fatal.
func New(log logr.Logger, c *config.Config) (*App, error) {
	ps := make([]providers.Provider, 0, 2)

	if len(c.Machines) > 0 {
		static, err := providers.NewStatic(c.Machines)
		if err != nil {
			return nil, err
		}
		log.Info("Loaded static machines", "provider", static)
		ps = append(ps, static)
	}

	if c.FritzBox.Enabled {
		fb, err := newFritzBox(log, c.FritzBox)
		if err != nil {
			return nil, err
		}
		ps = append(ps, fb)
	}

	if len(ps) == 0 {
		log.Info("No machine provider configured: only raw addresses can be woken")
	}

	set := providers.NewSet(log, ps...)
	return &App{
		log:       log,
		config:    c,
		Providers: set,
		Wake:      wake.NewService(log, set, wol.NewSender(log, c.Wol.Broadcast)),
	}, nil
}

func newFritzBox(log logr.Logger, c config.FritzBox) (*fritzbox.Provider, error) {
	url := c.URL
	if url == "" {
		var err error
		url, err = pkgfritzbox.DefaultURL()
		if err != nil {
			return nil, err
		}
	}
	client, err := pkgfritzbox.NewClient(log, url, c.Username, c.Password)
	if err != nil {
		return nil, err
	}
	log.Info("Using FRITZ!Box inventory", "url", url, "refresh", c.Refresh)
	return fritzbox.NewProvider(log, client, fritzbox.Options{
		RefreshInterval: c.Refresh,
		Timeout:         c.Timeout,
		Concurrency:     c.Concurrency,
	}), nil
}

// Serve runs the web UI until ctx is done
func (a *App) Serve(ctx context.Context) error {
	handler := ui.Handler(a.log.WithName("ui"), a.Providers, a.Wake, ui.Options{Metrics: a.config.Metrics.Enabled})
	done, err := ui.Start(ctx, a.log.WithName("ui"), a.config.Addr(), handler)
	if err != nil {
		return err
	}

	if a.config.Mdns.Enabled {
		err := mdns.Publish(ctx, a.log.WithName("mdns"), a.config.Mdns.Instance, a.config.Port, global.Version(ctx))
		if err != nil {
			hlog.ErrorIfNotCanceled(a.log, err, "Failed to publish mDNS service")
		}
	}

	a.log.Info("Running", "addr", a.config.Addr())
	select {
	case err, ok := <-done:
		if ok && err != nil {
			return fmt.Errorf("ui server: %w", err)
		}
		if ctx.Err() != nil {
			a.log.Info("Shutting down")
			return nil
		}
		return errors.New("ui server stopped unexpectedly")
	case <-ctx.Done():
		<-done
		a.log.Info("Shutting down")
		return nil
	}
}
