package geolib

import "errors"

var (
	// ErrInvalidMode is returned if a policy mode is neither whitelist
	// nor blacklist.
	ErrInvalidMode = errors.New("invalid GeoIP mode")

	// ErrInvalidCountryCode is returned for anything which is not a
	// 2-letter alpha code.
	ErrInvalidCountryCode = errors.New("invalid country code")

	// ErrNoCountries is returned if a policy is built without any
	// country code.
	ErrNoCountries = errors.New("countries must contain at least one country code")

	ErrInvalidCacheSize = errors.New("cache size must be at least 1")
	ErrInvalidCacheTTL  = errors.New("cache ttl must be at least 1 second")

	// ErrLookupTimeout is returned by a blocking provider if a lookup
	// has not finished in time.
	ErrLookupTimeout = errors.New("lookup has timed out")

	ErrCircuitBreakerOpened = errors.New("circuit breaker is opened")
	ErrCircuitBreakerIgnore = errors.New("this error is ignored by circuit breaker")

	ErrFilterOptionRequired = errors.New("filter option is required")
)
