// Geoipfilter decides if IP address is allowed to access something
// based on a country this address belongs to.
//
// A policy is either a whitelist (only listed countries are allowed) or
// a blacklist (listed countries are denied). Addresses which cannot be
// mapped to any country are governed by allow_unknown option.
//
// Tool itself is organized into 3 logical parts:
//
// Geolib
//
// geolib is a main package of the application which contains Filter
// and its building blocks: policy, lookup cache, blocking bridge for
// remote providers, HTTP client with rate limiter and circuit breaker.
// Filter can be used as net/http middleware.
//
// Providers
//
// This package has 2 provider implementations: local MaxMind database
// and remote HTTP API which responds with JSON with country_code field.
//
// Config
//
// Configuration loader. It supports HJSON (and so JSON), TOML and YAML.
//
// A main package itself is an example of how to wire everything
// together. It has 2 commands: check evaluates given addresses, stream
// reads addresses from stdin and reloads configuration on change.
package main
