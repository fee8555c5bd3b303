package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/9seconds/geoipfilter/config"
	"github.com/9seconds/geoipfilter/geolib"
	"github.com/9seconds/geoipfilter/providers"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/afero"
)

func makeRootContext() (context.Context, context.CancelFunc) {
	rootCtx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)

	go func() {
		for range sigChan {
			cancel()
		}
	}()

	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	return rootCtx, cancel
}

func loadFilter(fs afero.Fs, path string, log geolib.Logger, stats *geolib.Stats) (*geolib.Filter, error) {
	conf, err := config.Load(fs, path)
	if err != nil {
		return nil, fmt.Errorf("cannot load config %s: %w", path, err)
	}

	return makeFilter(conf, log, stats)
}

func makeFilter(conf *config.Config, log geolib.Logger, stats *geolib.Stats) (*geolib.Filter, error) {
	policy, err := geolib.NewPolicy(conf.Mode, conf.Countries, conf.AllowUnknown)
	if err != nil {
		return nil, fmt.Errorf("cannot create a policy: %w", err)
	}

	cache, err := geolib.NewLookupCache(conf.GetCacheSize(), conf.GetCacheTTL())
	if err != nil {
		return nil, fmt.Errorf("cannot create a cache: %w", err)
	}

	provider, err := makeProvider(conf)
	if err != nil {
		return nil, err
	}

	return geolib.NewFilter(geolib.FilterOpts{
		Policy:   policy,
		Provider: provider,
		Cache:    cache,
		Logger:   log,
		Stats:    stats,
	})
}

func makeProvider(conf *config.Config) (geolib.Provider, error) {
	if conf.UseLocalDatabase() {
		prov, err := providers.NewMMDB(conf.DBPath)
		if err != nil {
			return nil, fmt.Errorf("cannot create mmdb provider: %w", err)
		}

		return prov, nil
	}

	prov, err := providers.NewHTTPAPI(makeNewHTTPClient(conf), conf.APIURL)
	if err != nil {
		return nil, fmt.Errorf("cannot create http api provider: %w", err)
	}

	return geolib.NewBlockingProvider(prov, conf.GetAPIWorkers(), conf.GetAPITimeout())
}

func makeNewHTTPClient(conf *config.Config) geolib.HTTPClient {
	httpClient := &http.Client{
		Timeout: conf.GetAPITimeout(),
	}

	return geolib.NewHTTPClient(httpClient,
		conf.GetAPIUserAgent(),
		conf.GetAPIRateLimitInterval(),
		conf.GetAPIRateLimitBurst(),
		geolib.DefaultCircuitBreakerOpenThreshold,
		geolib.DefaultCircuitBreakerHalfOpen,
		geolib.DefaultCircuitBreakerResetFailures)
}

func writeMetrics(path string, stats *geolib.Stats) error {
	registry := prometheus.NewRegistry()

	if err := registry.Register(stats); err != nil {
		return fmt.Errorf("cannot register stats: %w", err)
	}

	if err := prometheus.WriteToTextfile(path, registry); err != nil {
		return fmt.Errorf("cannot write metrics: %w", err)
	}

	return nil
}
