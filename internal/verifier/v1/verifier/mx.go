// Package verifier implements the email classification engine.

package verifier

import (
	"context"
	"net"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// Resolver resolves MX hosts for a domain, best preference first.
type Resolver interface {
	LookupMX(ctx context.Context, domain string) ([]string, error)
}

type netResolver struct {
	resolver *net.Resolver
	timeout  time.Duration
}

func newNetResolver(timeout time.Duration) *netResolver {
	return &netResolver{resolver: net.DefaultResolver, timeout: timeout}
}

// LookupMX resolves MX records sorted by preference with trailing dots removed.
func (r *netResolver) LookupMX(ctx context.Context, domain string) ([]string, error) {
	ctxMX, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	records, err := r.resolver.LookupMX(ctxMX, domain)
	if err != nil {
		return nil, err
	}

	sort.Slice(records, func(i, j int) bool { return records[i].Pref < records[j].Pref })
	hosts := make([]string, 0, len(records))
	for _, record := range records {
		host := strings.TrimSuffix(record.Host, ".")
		if host == "" {
			continue
		}
		hosts = append(hosts, host)
	}
	return hosts, nil
}

// resolveMXBulk resolves MX hosts for every unique domain on a bounded pool.
// Resolution failures yield empty host lists, never an error.
func (v *Verifier) resolveMXBulk(ctx context.Context, domains []string, workers int) map[string][]string {
	v.log.Debug().Msg("calling `resolveMXBulk` method")
	if workers < 1 {
		workers = 1
	}

	var mu sync.Mutex
	hostsByDomain := make(map[string][]string, len(domains))

	g := &errgroup.Group{}
	g.SetLimit(workers)
	for _, domain := range domains {
		domain := domain
		g.Go(func() error {
			hosts, err := v.resolver.LookupMX(ctx, domain)
			if err != nil {
				hosts = nil
			}
			mu.Lock()
			hostsByDomain[domain] = hosts
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	return hostsByDomain
}
