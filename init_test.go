package main

import (
	"context"
	"net"
	"net/netip"
	"sync/atomic"
	"time"

	"github.com/9seconds/geoipfilter/geolib"
)

type stubProvider struct {
	countries map[string]geolib.CountryCode
	calls     atomic.Int64
	closed    atomic.Bool
}

func (s *stubProvider) Name() string {
	return "stub"
}

func (s *stubProvider) Lookup(_ context.Context, ip net.IP) (geolib.CountryCode, error) {
	s.calls.Add(1)

	return s.countries[ip.String()], nil
}

func (s *stubProvider) Close() error {
	s.closed.Store(true)

	return nil
}

type discardLogger struct{}

func (discardLogger) LookupError(_ netip.Addr, _ string, _ error) {}
func (discardLogger) Blocked(_ geolib.AuditRecord)                {}

func makeStubFilter(provider geolib.Provider, mode geolib.Mode, countries ...geolib.CountryCode) *geolib.Filter {
	policy, err := geolib.NewPolicy(mode, countries, false)
	if err != nil {
		panic(err)
	}

	cache, err := geolib.NewLookupCache(100, time.Minute)
	if err != nil {
		panic(err)
	}

	filter, err := geolib.NewFilter(geolib.FilterOpts{
		Policy:   policy,
		Provider: provider,
		Cache:    cache,
		Logger:   discardLogger{},
	})
	if err != nil {
		panic(err)
	}

	return filter
}
