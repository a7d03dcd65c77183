package main

import (
	"context"
	"sync"

	"github.com/asnowfix/wololo/hlog"
	"github.com/asnowfix/wololo/internal/app"
	"github.com/asnowfix/wololo/internal/options"

	"github.com/go-logr/logr"
	"github.com/kardianos/service"
	"github.com/spf13/cobra"
)

func init() {
	Cmd.AddCommand(serviceCmd)
	serviceCmd.AddCommand(installCmd)
	serviceCmd.AddCommand(uninstallCmd)
	serviceCmd.AddCommand(runCmd)
}

// program adapts the web UI to the kardianos/service lifecycle
type program struct {
	ctx    context.Context
	log    logr.Logger
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func (p *program) Start(s service.Service) error {
	c, err := loadConfig()
	if err != nil {
		return err
	}
	a, err := app.New(p.log, c)
	if err != nil {
		return err
	}

	var ctx context.Context
	ctx, p.cancel = context.WithCancel(p.ctx)
	p.wg.Add(1)
	// Start must not block
	go func() {
		defer p.wg.Done()
		if err := a.Serve(ctx); err != nil {
			p.log.Error(err, "Web UI stopped")
			if !service.Interactive() {
				_ = s.Stop()
			}
		}
	}()
	return nil
}

func (p *program) Stop(s service.Service) error {
	if p.cancel != nil {
		p.cancel()
	}
	p.wg.Wait()
	return nil
}

func load(ctx context.Context) (service.Service, service.Logger, error) {
	log := logr.FromContextOrDiscard(ctx)

	args := []string{"service", "run"}
	if options.Flags.ConfigFile != "" {
		args = append(args, "--config", options.Flags.ConfigFile)
	}
	config := service.Config{
		Name:        "wololo",
		DisplayName: "WoLolo",
		Description: "Wake-on-LAN web UI",
		Arguments:   args,
	}

	s, err := service.New(&program{ctx: ctx, log: log}, &config)
	if err != nil {
		log.Error(err, "Failed to create (background) service")
		return nil, nil, err
	}
	logger, err := s.Logger(nil)
	if err != nil {
		log.Error(err, "Failed to create (background) service logger")
		return nil, nil, err
	}
	return s, logger, nil
}

var serviceCmd = &cobra.Command{
	Use:   "service",
	Short: "Manage WoLolo as a " + service.Platform() + " service",
	Args:  cobra.NoArgs,
}

var installCmd = &cobra.Command{
	Use:   "install",
	Short: "Install WoLolo as a " + service.Platform() + " service",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, l, err := load(cmd.Context())
		if err != nil {
			return err
		}
		_ = l.Info("Installing service")
		return s.Install()
	},
}

var uninstallCmd = &cobra.Command{
	Use:   "uninstall",
	Short: "Uninstall the WoLolo " + service.Platform() + " service",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, l, err := load(cmd.Context())
		if err != nil {
			return err
		}
		_ = l.Info("Uninstalling service")
		return s.Uninstall()
	},
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run under the service manager",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		hlog.InitForDaemon(options.Flags.Verbose, options.Flags.Debug)
		ctx := logr.NewContext(cmd.Context(), hlog.Logger)
		s, _, err := load(ctx)
		if err != nil {
			return err
		}
		return s.Run()
	},
}
