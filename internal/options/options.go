package options

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/asnowfix/wololo/internal/global"

	"github.com/go-logr/logr"
	"gopkg.in/yaml.v2"
)

const COMMAND_DEFAULT_TIMEOUT time.Duration = 0 // No timeout by default (wait indefinitely)

var Flags struct {
	Verbose        bool
	Debug          bool
	Json           bool
	ConfigFile     string
	CommandTimeout time.Duration // the value taken by --command-timeout / -C
}

// CommandLineContext carries the logger, the version and a cancel function, and is
// cancelled on SIGINT/SIGTERM or after timeout when positive.
func CommandLineContext(ctx context.Context, log logr.Logger, timeout time.Duration, version string) context.Context {
	var cancel context.CancelFunc
	if timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, timeout)
	} else {
		ctx, cancel = context.WithCancel(ctx)
	}
	ctx = context.WithValue(ctx, global.CancelKey, cancel)
	ctx = context.WithValue(ctx, global.VersionKey, version)
	ctx = logr.NewContext(ctx, log)

	go func() {
		signals := make(chan os.Signal, 1)
		signal.Notify(signals, os.Interrupt, syscall.SIGTERM)
		defer signal.Stop(signals)
		select {
		case sig := <-signals:
			log.Info("Received signal", "signal", sig.String())
			cancel()
		case <-ctx.Done():
		}
	}()
	return ctx
}

// PrintResult writes out as JSON with --json, YAML otherwise
func PrintResult(w io.Writer, out any) error {
	if Flags.Json {
		s, err := json.Marshal(out)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(s))
		return err
	}
	s, err := yaml.Marshal(out)
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(w, string(s))
	return err
}
