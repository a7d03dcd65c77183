package hlog

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/go-logr/logr/funcr"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestParseLogLevel(t *testing.T) {
	t.Setenv("WOLOLO_LOG_LEVEL", "")
	t.Setenv("DELVE_DEBUGGER", "")

	assert.Equal(t, zerolog.ErrorLevel, parseLogLevel(false, false, zerolog.ErrorLevel))
	assert.Equal(t, zerolog.InfoLevel, parseLogLevel(false, false, zerolog.InfoLevel))
	assert.Equal(t, zerolog.InfoLevel, parseLogLevel(true, false, zerolog.ErrorLevel))
	assert.Equal(t, zerolog.DebugLevel, parseLogLevel(true, true, zerolog.ErrorLevel))

	t.Setenv("WOLOLO_LOG_LEVEL", "warn")
	assert.Equal(t, zerolog.WarnLevel, parseLogLevel(true, true, zerolog.ErrorLevel))

	t.Setenv("WOLOLO_LOG_LEVEL", "chatty")
	assert.Equal(t, zerolog.ErrorLevel, parseLogLevel(false, false, zerolog.ErrorLevel))
}

func TestColorTerminal(t *testing.T) {
	t.Setenv("TERM", "dumb")
	assert.False(t, isColorTerminal())

	t.Setenv("TERM", "xterm-256color")
	t.Setenv("NO_COLOR", "1")
	assert.False(t, isColorTerminal())
}

func TestErrorIfNotCanceled(t *testing.T) {
	var logged []string
	log := funcr.New(func(prefix, args string) {
		logged = append(logged, args)
	}, funcr.Options{})

	ErrorIfNotCanceled(log, nil, "nil")
	ErrorIfNotCanceled(log, context.Canceled, "canceled")
	ErrorIfNotCanceled(log, fmt.Errorf("refresh: %w", context.DeadlineExceeded), "deadline")
	ErrorIfNotCanceled(log, errors.New("boom"), "real")

	assert.Len(t, logged, 1)
	assert.Contains(t, logged[0], `"msg"="real"`)
}
