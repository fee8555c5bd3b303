// This package provides a set of structs and functions which are used
// to decide if IP address has to be blocked based on its country.
//
// geolib is core of the geoipfilter project. You can treat the rest of
// the application as an _example_ on how to use this library: how to
// load configuration, how to implement providers, how to reload a
// filter without downtime.
//
// Filter is a main entity of geolib. It glues together a Provider,
// which resolves addresses into countries, a LookupCache, which keeps
// results for a configured time, and a Policy, which makes a decision.
// Filter never fails: if provider cannot resolve an address, country is
// treated as unknown and policy decides what to do with unknowns.
//
// Remote providers do network I/O so they should be wrapped with
// NewBlockingProvider: lookups are executed by a dedicated worker pool
// and caller waits no longer than a given timeout.
package geolib
