package geolib

import (
	"context"
	"net"
	"net/http"
	"net/netip"
)

// Provider resolves an IP address to a country code. An empty
// CountryCode with nil error means that the address is not mapped to
// any country.
type Provider interface {
	Name() string
	Lookup(context.Context, net.IP) (CountryCode, error)
}

// Logger receives events a filter wants to report. Implementations
// must not block: Blocked is called on a request path.
type Logger interface {
	LookupError(ip netip.Addr, name string, err error)
	Blocked(AuditRecord)
}

// HTTPClient is a minimal interface of http.Client which is used by
// remote providers.
type HTTPClient interface {
	Do(*http.Request) (*http.Response, error)
}
