package metrics

import (
	"sync/atomic"
	"time"
)

type Collector struct {
	totalRequests   uint64
	errorRequests   uint64
	rateLimited     uint64
	totalDurationMs uint64
	backendCalls    uint64
	backendFailures uint64
	backendRetries  uint64
	backendDuration uint64
	cacheHits       uint64
	cacheMisses     uint64
	sessionsExpired uint64
}

func New() *Collector {
	return &Collector{}
}

func (c *Collector) Record(status int, duration time.Duration) {
	if c == nil {
		return
	}
	atomic.AddUint64(&c.totalRequests, 1)
	if status >= 500 {
		atomic.AddUint64(&c.errorRequests, 1)
	}
	if status == 429 {
		atomic.AddUint64(&c.rateLimited, 1)
	}
	atomic.AddUint64(&c.totalDurationMs, uint64(duration.Milliseconds()))
}

// RecordBackend counts one attempt against the HR backend.
func (c *Collector) RecordBackend(status int, duration time.Duration, retry bool) {
	if c == nil {
		return
	}
	atomic.AddUint64(&c.backendCalls, 1)
	if status == 0 || status >= 500 {
		atomic.AddUint64(&c.backendFailures, 1)
	}
	if retry {
		atomic.AddUint64(&c.backendRetries, 1)
	}
	atomic.AddUint64(&c.backendDuration, uint64(duration.Milliseconds()))
}

func (c *Collector) RecordCache(hit bool) {
	if c == nil {
		return
	}
	if hit {
		atomic.AddUint64(&c.cacheHits, 1)
		return
	}
	atomic.AddUint64(&c.cacheMisses, 1)
}

func (c *Collector) RecordSessionExpired() {
	if c == nil {
		return
	}
	atomic.AddUint64(&c.sessionsExpired, 1)
}

func (c *Collector) Snapshot() map[string]any {
	total := atomic.LoadUint64(&c.totalRequests)
	totalMs := atomic.LoadUint64(&c.totalDurationMs)
	avg := float64(0)
	if total > 0 {
		avg = float64(totalMs) / float64(total)
	}
	calls := atomic.LoadUint64(&c.backendCalls)
	backendMs := atomic.LoadUint64(&c.backendDuration)
	backendAvg := float64(0)
	if calls > 0 {
		backendAvg = float64(backendMs) / float64(calls)
	}
	return map[string]any{
		"requestsTotal":        total,
		"errorsTotal":          atomic.LoadUint64(&c.errorRequests),
		"rateLimitedTotal":     atomic.LoadUint64(&c.rateLimited),
		"avgDurationMs":        avg,
		"totalDurationMs":      totalMs,
		"backendCallsTotal":    calls,
		"backendFailuresTotal": atomic.LoadUint64(&c.backendFailures),
		"backendRetriesTotal":  atomic.LoadUint64(&c.backendRetries),
		"backendAvgDurationMs": backendAvg,
		"cacheHitsTotal":       atomic.LoadUint64(&c.cacheHits),
		"cacheMissesTotal":     atomic.LoadUint64(&c.cacheMisses),
		"sessionsExpiredTotal": atomic.LoadUint64(&c.sessionsExpired),
	}
}
