package geolib

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "geoipfilter"

var (
	statsDescCacheHits = prometheus.NewDesc(
		prometheus.BuildFQName(metricsNamespace, "cache", "hits_total"),
		"A number of lookups served from cache.", nil, nil)
	statsDescCacheMisses = prometheus.NewDesc(
		prometheus.BuildFQName(metricsNamespace, "cache", "misses_total"),
		"A number of lookups which went to a provider.", nil, nil)
	statsDescCacheEvictions = prometheus.NewDesc(
		prometheus.BuildFQName(metricsNamespace, "cache", "evictions_total"),
		"A number of entries evicted from a full cache.", nil, nil)
	statsDescLookupFailures = prometheus.NewDesc(
		prometheus.BuildFQName(metricsNamespace, "provider", "failures_total"),
		"A number of failed provider lookups.", nil, nil)
	statsDescRequests = prometheus.NewDesc(
		prometheus.BuildFQName(metricsNamespace, "", "requests_total"),
		"A number of evaluated requests.", []string{"verdict"}, nil)
	statsDescLastEvaluated = prometheus.NewDesc(
		prometheus.BuildFQName(metricsNamespace, "", "last_evaluated_timestamp_seconds"),
		"Timestamp of the last evaluation.", nil, nil)
)

// Stats collects counters of a filter. It can be shared between
// several filters, for example between configuration generations.
//
// Stats implements prometheus.Collector so it can be registered as is.
type Stats struct {
	mutex          sync.Mutex
	lastEvaluated  time.Time
	cacheHits      uint64
	cacheMisses    uint64
	cacheEvictions uint64
	lookupFailures uint64
	allowed        uint64
	blocked        uint64
}

func (s *Stats) CacheHit() {
	s.mutex.Lock()
	s.cacheHits++
	s.mutex.Unlock()
}

func (s *Stats) CacheMiss() {
	s.mutex.Lock()
	s.cacheMisses++
	s.mutex.Unlock()
}

func (s *Stats) CacheEvicted() {
	s.mutex.Lock()
	s.cacheEvictions++
	s.mutex.Unlock()
}

func (s *Stats) LookupFailed() {
	s.mutex.Lock()
	s.lookupFailures++
	s.mutex.Unlock()
}

// Evaluated registers a verdict.
func (s *Stats) Evaluated(blocked bool) {
	now := time.Now()

	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.lastEvaluated = now

	if blocked {
		s.blocked++
	} else {
		s.allowed++
	}
}

func (s *Stats) Describe(ch chan<- *prometheus.Desc) {
	ch <- statsDescCacheHits
	ch <- statsDescCacheMisses
	ch <- statsDescCacheEvictions
	ch <- statsDescLookupFailures
	ch <- statsDescRequests
	ch <- statsDescLastEvaluated
}

func (s *Stats) Collect(ch chan<- prometheus.Metric) {
	snap := s.snapshot()

	ch <- prometheus.MustNewConstMetric(statsDescCacheHits, prometheus.CounterValue, float64(snap.CacheHits))
	ch <- prometheus.MustNewConstMetric(statsDescCacheMisses, prometheus.CounterValue, float64(snap.CacheMisses))
	ch <- prometheus.MustNewConstMetric(statsDescCacheEvictions, prometheus.CounterValue, float64(snap.CacheEvictions))
	ch <- prometheus.MustNewConstMetric(statsDescLookupFailures, prometheus.CounterValue, float64(snap.LookupFailures))
	ch <- prometheus.MustNewConstMetric(statsDescRequests, prometheus.CounterValue, float64(snap.Allowed), "allow")
	ch <- prometheus.MustNewConstMetric(statsDescRequests, prometheus.CounterValue, float64(snap.Blocked), "block")
	ch <- prometheus.MustNewConstMetric(statsDescLastEvaluated, prometheus.GaugeValue, float64(snap.LastEvaluated))
}

func (s *Stats) MarshalJSON() ([]byte, error) {
	snap := s.snapshot()

	return json.Marshal(&snap)
}

type statsSnapshot struct {
	LastEvaluated  int64  `json:"last_evaluated"`
	CacheHits      uint64 `json:"cache_hits"`
	CacheMisses    uint64 `json:"cache_misses"`
	CacheEvictions uint64 `json:"cache_evictions"`
	LookupFailures uint64 `json:"lookup_failures"`
	Allowed        uint64 `json:"allowed"`
	Blocked        uint64 `json:"blocked"`
}

func (s *Stats) snapshot() statsSnapshot {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	rv := statsSnapshot{
		CacheHits:      s.cacheHits,
		CacheMisses:    s.cacheMisses,
		CacheEvictions: s.cacheEvictions,
		LookupFailures: s.lookupFailures,
		Allowed:        s.allowed,
		Blocked:        s.blocked,
	}

	if !s.lastEvaluated.IsZero() {
		rv.LastEvaluated = s.lastEvaluated.Unix()
	}

	return rv
}
