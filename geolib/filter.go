package geolib

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/netip"
	"strings"
	"time"
)

// FilterOpts defines dependencies of a Filter. Policy, Provider, Cache
// and Logger are mandatory. If Stats is nil, filter creates its own
// instance.
type FilterOpts struct {
	Policy   *Policy
	Provider Provider
	Cache    *LookupCache
	Logger   Logger
	Stats    *Stats
}

// Filter decides if request has to be blocked based on a country of
// its IP address. It is safe for concurrent use.
//
// Resolution errors never propagate: a failed lookup means unknown
// country and a policy decides what to do with it. Results, including
// unknown ones, are cached.
type Filter struct {
	policy   *Policy
	provider Provider
	cache    *LookupCache
	logger   Logger
	stats    *Stats
	now      func() time.Time
}

// Evaluate resolves a country of the IP address and applies a policy
// to it. Blocked verdicts are reported to logger.
func (f *Filter) Evaluate(ctx context.Context, ip netip.Addr) Verdict {
	ip = CanonicalIP(ip)
	rv := Verdict{IP: ip}

	if ip.IsValid() {
		rv.Country = f.resolve(ctx, ip)
	}

	rv.Blocked = f.policy.ShouldBlock(rv.Country)

	f.stats.Evaluated(rv.Blocked)

	if rv.Blocked {
		f.logger.Blocked(AuditRecord{
			IP:           ip,
			Country:      rv.Country,
			Mode:         f.policy.Mode(),
			AllowUnknown: f.policy.AllowUnknown(),
		})
	}

	return rv
}

// EvaluateRemoteAddr is a version of Evaluate which accepts remote
// address in a form of ip:port or bare ip. Unparseable address is
// evaluated as unknown country.
func (f *Filter) EvaluateRemoteAddr(ctx context.Context, remoteAddr string) Verdict {
	ip, _ := ParseRemoteAddr(remoteAddr)

	return f.Evaluate(ctx, ip)
}

// Middleware wraps a handler with the filter. Blocked requests get 403
// without any body.
func (f *Filter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if f.EvaluateRemoteAddr(req.Context(), req.RemoteAddr).Blocked {
			w.WriteHeader(http.StatusForbidden)

			return
		}

		next.ServeHTTP(w, req)
	})
}

func (f *Filter) Policy() *Policy {
	return f.policy
}

func (f *Filter) Stats() *Stats {
	return f.stats
}

// Close releases a provider if it holds any resources.
func (f *Filter) Close() error {
	if closer, ok := f.provider.(io.Closer); ok {
		return closer.Close()
	}

	return nil
}

func (f *Filter) resolve(ctx context.Context, ip netip.Addr) CountryCode {
	now := f.now()

	if country, ok := f.cache.Get(ip, now); ok {
		f.stats.CacheHit()

		return country
	}

	f.stats.CacheMiss()

	country, err := f.provider.Lookup(ctx, net.IP(ip.AsSlice()))
	if err != nil {
		f.stats.LookupFailed()
		f.logger.LookupError(ip, f.provider.Name(), err)

		country = ""
	}

	country = NormalizeCountryCode(string(country))

	if f.cache.Put(ip, country, now) {
		f.stats.CacheEvicted()
	}

	return country
}

// CanonicalIP converts IPv4-mapped IPv6 addresses into IPv4 ones and
// drops zones.
func CanonicalIP(ip netip.Addr) netip.Addr {
	return ip.Unmap().WithZone("")
}

// ParseRemoteAddr extracts IP address from ip:port or ip string. The
// result is canonicalized.
func ParseRemoteAddr(remoteAddr string) (netip.Addr, error) {
	remoteAddr = strings.TrimSpace(remoteAddr)

	if addrPort, err := netip.ParseAddrPort(remoteAddr); err == nil {
		return CanonicalIP(addrPort.Addr()), nil
	}

	ip, err := netip.ParseAddr(strings.Trim(remoteAddr, "[]"))
	if err != nil {
		return netip.Addr{}, err
	}

	return CanonicalIP(ip), nil
}

// NewFilter creates a new filter.
func NewFilter(opts FilterOpts) (*Filter, error) {
	switch {
	case opts.Policy == nil:
		return nil, fmt.Errorf("%w: policy", ErrFilterOptionRequired)
	case opts.Provider == nil:
		return nil, fmt.Errorf("%w: provider", ErrFilterOptionRequired)
	case opts.Cache == nil:
		return nil, fmt.Errorf("%w: cache", ErrFilterOptionRequired)
	case opts.Logger == nil:
		return nil, fmt.Errorf("%w: logger", ErrFilterOptionRequired)
	}

	stats := opts.Stats
	if stats == nil {
		stats = &Stats{}
	}

	return &Filter{
		policy:   opts.Policy,
		provider: opts.Provider,
		cache:    opts.Cache,
		logger:   opts.Logger,
		stats:    stats,
		now:      time.Now,
	}, nil
}
