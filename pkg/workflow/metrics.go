/*
 * Copyright 2025 BranchFleet Networks, Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package workflow

import (
	"net/http"
	"sync"
	"time"

	"github.com/branchfleet/netrefresh/pkg/dashboard"
	"github.com/branchfleet/netrefresh/pkg/logger"
)

// Metrics collects workflow and control-plane call statistics.
type Metrics interface {
	// Phase metrics
	RecordPhaseAttempt(phase string)
	RecordPhaseSuccess(phase string, affected int, duration time.Duration)
	RecordPhaseFailure(phase string, errorCount int, duration time.Duration)

	// Control-plane API metrics
	RecordAPICall(endpoint string)
	RecordAPISuccess(endpoint string, duration time.Duration)
	RecordAPIFailure(endpoint string, statusCode int, duration time.Duration)

	// Export metrics for reporting
	GetMetrics() map[string]interface{}
}

// NoOpMetrics provides a no-op implementation of the Metrics interface
type NoOpMetrics struct{}

func (n *NoOpMetrics) RecordPhaseAttempt(phase string)                                      {}
func (n *NoOpMetrics) RecordPhaseSuccess(phase string, affected int, duration time.Duration) {}
func (n *NoOpMetrics) RecordPhaseFailure(phase string, errorCount int, duration time.Duration) {
}
func (n *NoOpMetrics) RecordAPICall(endpoint string)                                  {}
func (n *NoOpMetrics) RecordAPISuccess(endpoint string, duration time.Duration)       {}
func (n *NoOpMetrics) RecordAPIFailure(endpoint string, statusCode int, duration time.Duration) {
}
func (n *NoOpMetrics) GetMetrics() map[string]interface{} { return map[string]interface{}{} }

// InMemoryMetrics provides an in-memory implementation of the Metrics interface
type InMemoryMetrics struct {
	mu     sync.RWMutex
	logger logger.Logger

	// Phase metrics
	phaseAttempts map[string]int
	phaseSuccess  map[string]int
	phaseFailures map[string]int
	phaseDuration map[string]time.Duration
	phaseAffected map[string]int

	// API metrics
	apiCalls    map[string]int
	apiSuccess  map[string]int
	apiFailures map[string]int
	apiDuration map[string]time.Duration

	lastUpdated time.Time
}

// NewInMemoryMetrics creates a new in-memory metrics collector
func NewInMemoryMetrics(log logger.Logger) *InMemoryMetrics {
	return &InMemoryMetrics{
		logger:        log,
		phaseAttempts: make(map[string]int),
		phaseSuccess:  make(map[string]int),
		phaseFailures: make(map[string]int),
		phaseDuration: make(map[string]time.Duration),
		phaseAffected: make(map[string]int),
		apiCalls:      make(map[string]int),
		apiSuccess:    make(map[string]int),
		apiFailures:   make(map[string]int),
		apiDuration:   make(map[string]time.Duration),
		lastUpdated:   time.Now(),
	}
}

func (m *InMemoryMetrics) RecordPhaseAttempt(phase string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.phaseAttempts[phase]++
	m.lastUpdated = time.Now()
}

func (m *InMemoryMetrics) RecordPhaseSuccess(phase string, affected int, duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.phaseSuccess[phase]++
	m.phaseDuration[phase] = duration
	m.phaseAffected[phase] = affected
	m.lastUpdated = time.Now()

	m.logger.Info().
		Str("phase", phase).
		Int("affected", affected).
		Dur("duration", duration).
		Msg("Phase completed successfully")
}

func (m *InMemoryMetrics) RecordPhaseFailure(phase string, errorCount int, duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.phaseFailures[phase]++
	m.phaseDuration[phase] = duration
	m.lastUpdated = time.Now()

	m.logger.Warn().
		Str("phase", phase).
		Int("error_count", errorCount).
		Dur("duration", duration).
		Msg("Phase completed with errors")
}

func (m *InMemoryMetrics) RecordAPICall(endpoint string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.apiCalls[endpoint]++
	m.lastUpdated = time.Now()
}

func (m *InMemoryMetrics) RecordAPISuccess(endpoint string, duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.apiSuccess[endpoint]++
	m.apiDuration[endpoint] = duration
	m.lastUpdated = time.Now()
}

func (m *InMemoryMetrics) RecordAPIFailure(endpoint string, statusCode int, duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.apiFailures[endpoint]++
	m.apiDuration[endpoint] = duration
	m.lastUpdated = time.Now()

	m.logger.Warn().
		Str("endpoint", endpoint).
		Int("status_code", statusCode).
		Dur("duration", duration).
		Msg("Control-plane call failed")
}

func (m *InMemoryMetrics) GetMetrics() map[string]interface{} {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return map[string]interface{}{
		"phases": map[string]interface{}{
			"attempts":  m.phaseAttempts,
			"successes": m.phaseSuccess,
			"failures":  m.phaseFailures,
			"durations": m.phaseDuration,
			"affected":  m.phaseAffected,
		},
		"api": map[string]interface{}{
			"calls":     m.apiCalls,
			"successes": m.apiSuccess,
			"failures":  m.apiFailures,
			"durations": m.apiDuration,
		},
		"last_updated": m.lastUpdated,
	}
}

// MetricsHTTPClient wraps an HTTP client to collect control-plane call metrics
type MetricsHTTPClient struct {
	client  dashboard.HTTPClient
	metrics Metrics
}

// NewMetricsHTTPClient creates a new HTTP client wrapper that collects metrics
func NewMetricsHTTPClient(client dashboard.HTTPClient, metrics Metrics) *MetricsHTTPClient {
	return &MetricsHTTPClient{
		client:  client,
		metrics: metrics,
	}
}

// Do executes an HTTP request and records metrics
func (m *MetricsHTTPClient) Do(req *http.Request) (*http.Response, error) {
	endpoint := req.URL.Path
	if endpoint == "" {
		endpoint = req.URL.String()
	}

	start := time.Now()
	m.metrics.RecordAPICall(endpoint)

	resp, err := m.client.Do(req)
	duration := time.Since(start)

	if err != nil {
		m.metrics.RecordAPIFailure(endpoint, 0, duration)
		return resp, err
	}

	if resp.StatusCode >= 400 {
		m.metrics.RecordAPIFailure(endpoint, resp.StatusCode, duration)
	} else {
		m.metrics.RecordAPISuccess(endpoint, duration)
	}

	return resp, err
}
