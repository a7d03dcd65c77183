package fritzbox

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/asnowfix/wololo/internal/metrics"
	"github.com/asnowfix/wololo/internal/providers"
	"github.com/asnowfix/wololo/pkg/mac"
	pkgfritzbox "github.com/asnowfix/wololo/pkg/fritzbox"

	"github.com/go-logr/logr"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultRefreshInterval = 60 * time.Second
	DefaultTimeout         = 5 * time.Second
	DefaultConcurrency     = 16

	// MaxHosts bounds the host count a box may report
	MaxHosts = 1024
)

// ErrFetch marks a failed inventory refresh. It never leaves this package: callers keep
// being served the previous snapshot.
var ErrFetch = errors.New("failed to fetch router inventory")

// HostLister is the part of the TR-064 Hosts service the provider needs
type HostLister interface {
	HostNumberOfEntries(ctx context.Context) (int, error)
	GenericHostEntry(ctx context.Context, index int) (*pkgfritzbox.HostEntry, error)
}

type Options struct {
	RefreshInterval time.Duration
	Timeout         time.Duration
	Concurrency     int
}

// snapshot is immutable once published
type snapshot struct {
	fetchedAt time.Time
	machines  map[string]mac.Address
}

// Provider resolves machines from the router's host table, refreshed lazily at most once per
// refresh interval.
type Provider struct {
	log     logr.Logger
	client  HostLister
	options Options
	now     func() time.Time

	mutex    sync.RWMutex
	snapshot *snapshot
}

func NewProvider(log logr.Logger, client HostLister, options Options) *Provider {
	if options.RefreshInterval <= 0 {
		options.RefreshInterval = DefaultRefreshInterval
	}
	if options.Timeout <= 0 {
		options.Timeout = DefaultTimeout
	}
	if options.Concurrency <= 0 {
		options.Concurrency = DefaultConcurrency
	}
	return &Provider{
		log:     log.WithName("fritzbox.Provider"),
		client:  client,
		options: options,
		now:     time.Now,
		// zero fetchedAt: the first use refreshes
		snapshot: &snapshot{machines: map[string]mac.Address{}},
	}
}

func (p *Provider) String() string {
	return fmt.Sprintf("fritzbox(%v)", p.client)
}

func (p *Provider) ListNames(ctx context.Context) ([]string, error) {
	s := p.current(ctx)
	names := make([]string, 0, len(s.machines))
	for name := range s.machines {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func (p *Provider) GetMacAddress(ctx context.Context, name string) (mac.Address, error) {
	s := p.current(ctx)
	addr, ok := s.machines[name]
	if !ok {
		return mac.Address{}, fmt.Errorf("%w: %q", providers.ErrUnknownMachine, name)
	}
	return addr, nil
}

// current returns the snapshot to serve, refreshing it first when stale. Two callers seeing
// the same stale snapshot may both refresh; the last swap wins.
func (p *Provider) current(ctx context.Context) *snapshot {
	p.mutex.RLock()
	s := p.snapshot
	p.mutex.RUnlock()

	if p.now().Sub(s.fetchedAt) < p.options.RefreshInterval {
		return s
	}

	fresh, err := p.refresh(ctx)
	if err != nil {
		p.log.Error(err, "Keeping previous inventory", "fetched_at", s.fetchedAt, "machines", len(s.machines))
		return s
	}

	p.mutex.Lock()
	p.snapshot = fresh
	p.mutex.Unlock()
	return fresh
}

func (p *Provider) refresh(ctx context.Context) (*snapshot, error) {
	// a client hanging up must not abort a refresh other requests will use
	ctx = context.WithoutCancel(ctx)
	start := p.now()
	defer func() {
		metrics.InventoryRefreshDuration.Observe(p.now().Sub(start).Seconds())
	}()

	count, err := p.hostCount(ctx)
	if err != nil {
		metrics.InventoryRefreshes.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("%w: %w", ErrFetch, err)
	}

	entries := make([]*pkgfritzbox.HostEntry, count)
	var g errgroup.Group
	g.SetLimit(p.options.Concurrency)
	for i := 0; i < count; i++ {
		g.Go(func() error {
			entry, err := p.hostEntry(ctx, i)
			if err != nil {
				metrics.InventoryHostErrors.Inc()
				p.log.V(1).Info("Dropping host entry", "index", i, "error", err.Error())
				return nil
			}
			entries[i] = entry
			return nil
		})
	}
	_ = g.Wait()

	machines := make(map[string]mac.Address, count)
	for i, entry := range entries {
		if entry == nil || entry.HostName == "" {
			continue
		}
		if _, exists := machines[entry.HostName]; exists {
			continue
		}
		// the box reports upper-case addresses
		addr, err := mac.Parse(strings.ToLower(entry.MACAddress))
		if err != nil {
			metrics.InventoryHostErrors.Inc()
			p.log.V(1).Info("Dropping host entry", "index", i, "name", entry.HostName, "error", err.Error())
			continue
		}
		// inactive hosts are kept: they are the ones worth waking
		machines[entry.HostName] = addr
	}

	metrics.InventoryRefreshes.WithLabelValues("ok").Inc()
	metrics.InventoryHosts.Set(float64(len(machines)))
	p.log.Info("Refreshed inventory", "hosts", count, "machines", len(machines))

	return &snapshot{
		fetchedAt: p.now(),
		machines:  machines,
	}, nil
}

func (p *Provider) hostCount(ctx context.Context) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, p.options.Timeout)
	defer cancel()
	count, err := p.client.HostNumberOfEntries(ctx)
	if err != nil {
		return 0, err
	}
	if count < 0 || count > MaxHosts {
		return 0, fmt.Errorf("host count %d out of range [0, %d]", count, MaxHosts)
	}
	return count, nil
}

func (p *Provider) hostEntry(ctx context.Context, index int) (*pkgfritzbox.HostEntry, error) {
	ctx, cancel := context.WithTimeout(ctx, p.options.Timeout)
	defer cancel()
	return p.client.GenericHostEntry(ctx, index)
}
