package providers

import (
	"context"
	"fmt"

	"github.com/asnowfix/wololo/pkg/mac"
	"github.com/go-logr/logr"
)

// Machine is a resolved name/address pair, as listed by the UI
type Machine struct {
	Name string      `json:"name" yaml:"name"`
	Mac  mac.Address `json:"mac" yaml:"mac"`
}

// Set queries its providers in registration order; the first one to answer wins.
// Conflicting definitions of the same name are not detected.
type Set struct {
	log       logr.Logger
	providers []Provider
}

func NewSet(log logr.Logger, providers ...Provider) *Set {
	return &Set{
		log:       log.WithName("providers.Set"),
		providers: providers,
	}
}

func (s *Set) Len() int {
	return len(s.providers)
}

func (s *Set) GetMacAddress(ctx context.Context, name string) (mac.Address, error) {
	for _, p := range s.providers {
		addr, err := p.GetMacAddress(ctx, name)
		if err == nil {
			return addr, nil
		}
		s.log.V(1).Info("Provider did not resolve machine", "provider", p, "name", name, "error", err.Error())
	}
	return mac.Address{}, fmt.Errorf("%w: %q", ErrUnknownMachine, name)
}

// ListNames concatenates the names of every provider, keeping the first occurrence of a
// name. Providers failing to list are skipped.
func (s *Set) ListNames(ctx context.Context) ([]string, error) {
	seen := make(map[string]struct{})
	names := make([]string, 0)
	for _, p := range s.providers {
		pn, err := p.ListNames(ctx)
		if err != nil {
			s.log.Error(err, "Failed to list names", "provider", p)
			continue
		}
		for _, name := range pn {
			if _, ok := seen[name]; ok {
				continue
			}
			seen[name] = struct{}{}
			names = append(names, name)
		}
	}
	return names, nil
}

// Machines resolves every listed name through the set, so each address is the one a wake
// request for that name would use.
func (s *Set) Machines(ctx context.Context) ([]Machine, error) {
	names, err := s.ListNames(ctx)
	if err != nil {
		return nil, err
	}
	machines := make([]Machine, 0, len(names))
	for _, name := range names {
		addr, err := s.GetMacAddress(ctx, name)
		if err != nil {
			// vanished between listing and lookup
			continue
		}
		machines = append(machines, Machine{Name: name, Mac: addr})
	}
	return machines, nil
}
