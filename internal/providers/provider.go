package providers

import (
	"context"
	"errors"
	"fmt"

	"github.com/asnowfix/wololo/pkg/mac"
)

var (
	ErrUnknownMachine = errors.New("unknown machine")
	ErrEmptyName      = errors.New("empty machine name")
	ErrDuplicateName  = errors.New("duplicate machine name")
)

// Provider maps machine names to hardware addresses
type Provider interface {
	// ListNames enumerates the currently known machine names, for display only
	ListNames(ctx context.Context) ([]string, error)
	// GetMacAddress fails with ErrUnknownMachine when name is not in this provider's view
	GetMacAddress(ctx context.Context, name string) (mac.Address, error)
}

// ConfigParseError reports a malformed name=address machine mapping
type ConfigParseError struct {
	Entry string
	Err   error
}

func (e *ConfigParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("failed to parse machine mapping %q: %v", e.Entry, e.Err)
	}
	return fmt.Sprintf("failed to parse machine mapping %q", e.Entry)
}

func (e *ConfigParseError) Unwrap() error {
	return e.Err
}
