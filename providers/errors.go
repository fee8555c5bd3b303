package providers

import "errors"

var (
	// ErrDatabaseIsClosed returns if you are trying to access a local
	// database after it was closed.
	ErrDatabaseIsClosed = errors.New("database is closed")

	// ErrNoCountryCode is returned if remote API has responded with a
	// JSON which has no country code.
	ErrNoCountryCode = errors.New("response has no country code")

	// ErrBaseURLIsRequired is returned if remote API provider is
	// initialized without an URL.
	ErrBaseURLIsRequired = errors.New("base url is required")
)
