package providers

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/asnowfix/wololo/pkg/mac"
)

// Static is a fixed table built once from name=address entries
type Static struct {
	names    []string
	machines map[string]mac.Address
}

// NewStatic fails on the first malformed entry: a misconfigured machine aborts startup
// instead of silently disappearing.
func NewStatic(entries []string) (*Static, error) {
	machines := make(map[string]mac.Address, len(entries))
	for _, entry := range entries {
		name, text, ok := strings.Cut(entry, "=")
		if !ok {
			return nil, &ConfigParseError{Entry: entry}
		}
		if name == "" {
			return nil, &ConfigParseError{Entry: entry, Err: ErrEmptyName}
		}
		if _, exists := machines[name]; exists {
			return nil, &ConfigParseError{Entry: entry, Err: ErrDuplicateName}
		}
		addr, err := mac.Parse(text)
		if err != nil {
			return nil, &ConfigParseError{Entry: entry, Err: err}
		}
		machines[name] = addr
	}

	names := make([]string, 0, len(machines))
	for name := range machines {
		names = append(names, name)
	}
	sort.Strings(names)

	return &Static{
		names:    names,
		machines: machines,
	}, nil
}

func (s *Static) ListNames(ctx context.Context) ([]string, error) {
	return append([]string(nil), s.names...), nil
}

func (s *Static) GetMacAddress(ctx context.Context, name string) (mac.Address, error) {
	addr, ok := s.machines[name]
	if !ok {
		return mac.Address{}, fmt.Errorf("%w: %q", ErrUnknownMachine, name)
	}
	return addr, nil
}

func (s *Static) String() string {
	return fmt.Sprintf("static(%d machines)", len(s.names))
}
