package global

import (
	"context"
)

type ContextKey uint

const (
	CancelKey ContextKey = iota
	VersionKey
)

func Version(ctx context.Context) string {
	if v, ok := ctx.Value(VersionKey).(string); ok {
		return v
	}
	return "unknown"
}

// Cancel returns the cancel function of the command-line context, or a no-op
func Cancel(ctx context.Context) context.CancelFunc {
	if cancel, ok := ctx.Value(CancelKey).(context.CancelFunc); ok {
		return cancel
	}
	return func() {}
}
