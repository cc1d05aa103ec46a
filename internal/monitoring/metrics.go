package monitoring

import (
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

// Metrics holds process-wide request and pipeline counters. All counters
// are safe for concurrent use.
type Metrics struct {
	RequestCount    int64
	ErrorCount      int64
	AssessmentCount int64
	InferenceErrors int64
	CacheHits       int64
	CacheMisses     int64
	RateLimitBlocks int64
	StartTime       time.Time

	// Last 1000 response times, for percentile reporting.
	responseTimes []time.Duration
	responseMu    sync.RWMutex
}

// NewMetrics creates a metrics instance anchored at the current time.
func NewMetrics() *Metrics {
	return &Metrics{
		StartTime:     time.Now(),
		responseTimes: make([]time.Duration, 0, 1000),
	}
}

// IncrementRequest counts one HTTP request.
func (m *Metrics) IncrementRequest() { atomic.AddInt64(&m.RequestCount, 1) }

// IncrementError counts one failed request (status >= 400).
func (m *Metrics) IncrementError() { atomic.AddInt64(&m.ErrorCount, 1) }

// IncrementAssessment counts one completed risk assessment.
func (m *Metrics) IncrementAssessment() { atomic.AddInt64(&m.AssessmentCount, 1) }

// IncrementInferenceError counts one recoverable scoring/explanation failure.
func (m *Metrics) IncrementInferenceError() { atomic.AddInt64(&m.InferenceErrors, 1) }

// IncrementCacheHit counts one response served from cache.
func (m *Metrics) IncrementCacheHit() { atomic.AddInt64(&m.CacheHits, 1) }

// IncrementCacheMiss counts one cache miss.
func (m *Metrics) IncrementCacheMiss() { atomic.AddInt64(&m.CacheMisses, 1) }

// IncrementRateLimitBlock counts one throttled request.
func (m *Metrics) IncrementRateLimitBlock() { atomic.AddInt64(&m.RateLimitBlocks, 1) }

// RecordResponseTime keeps the last 1000 response times for percentiles.
func (m *Metrics) RecordResponseTime(duration time.Duration) {
	m.responseMu.Lock()
	m.responseTimes = append(m.responseTimes, duration)
	if len(m.responseTimes) > 1000 {
		m.responseTimes = m.responseTimes[1:]
	}
	m.responseMu.Unlock()
}

// PercentileResponseTime returns the given response-time percentile over
// the retained samples.
func (m *Metrics) PercentileResponseTime(percentile float64) time.Duration {
	m.responseMu.RLock()
	defer m.responseMu.RUnlock()

	if len(m.responseTimes) == 0 {
		return 0
	}
	times := make([]time.Duration, len(m.responseTimes))
	copy(times, m.responseTimes)
	sort.Slice(times, func(i, j int) bool { return times[i] < times[j] })

	index := int(float64(len(times)-1) * percentile / 100.0)
	return times[index]
}

// Stats returns a snapshot for the health endpoint.
func (m *Metrics) Stats() map[string]interface{} {
	return map[string]interface{}{
		"uptime_seconds":    int64(time.Since(m.StartTime).Seconds()),
		"requests":          atomic.LoadInt64(&m.RequestCount),
		"errors":            atomic.LoadInt64(&m.ErrorCount),
		"assessments":       atomic.LoadInt64(&m.AssessmentCount),
		"inference_errors":  atomic.LoadInt64(&m.InferenceErrors),
		"cache_hits":        atomic.LoadInt64(&m.CacheHits),
		"cache_misses":      atomic.LoadInt64(&m.CacheMisses),
		"rate_limit_blocks": atomic.LoadInt64(&m.RateLimitBlocks),
		"p50_ms":            m.PercentileResponseTime(50).Milliseconds(),
		"p95_ms":            m.PercentileResponseTime(95).Milliseconds(),
	}
}
