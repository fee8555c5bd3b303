package providers

const (
	// Identifier for a local MaxMind DB file.
	NameMMDB = "mmdb"

	// Identifier for remote HTTP geolocation API.
	NameHTTPAPI = "http_api"
)
