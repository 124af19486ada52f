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

// Package workflow runs the phased site workflows: the device refresh
// and the template migration. Phases execute strictly in order, one
// control-plane call at a time; per-item failures accumulate in the
// result and the run continues. Only the template unbind and bind calls
// are fatal.
package workflow

import (
	"context"
	"errors"
	"time"

	"github.com/branchfleet/netrefresh/pkg/classify"
	"github.com/branchfleet/netrefresh/pkg/dashboard"
	"github.com/branchfleet/netrefresh/pkg/logger"
	"github.com/branchfleet/netrefresh/pkg/models"
	"github.com/branchfleet/netrefresh/pkg/preserve"
	"github.com/branchfleet/netrefresh/pkg/switchmap"
)

const (
	defaultLongSettle  = 10 * time.Second
	defaultShortSettle = 5 * time.Second
	defaultBindSettle  = 20 * time.Second

	// managementVlan is the VLAN carrying device fixed IP assignments.
	managementVlan = 1

	wanPort2 = "wan2"
)

var (
	errControlPlaneRequired = errors.New("control plane client is required")
	errLoggerRequired       = errors.New("logger is required")
	errPlanRequired         = errors.New("refresh plan is required")
	errSiteRequired         = errors.New("site network is required")
)

func defaultMigrationVlans() []int {
	return []int{1, 2, 3, 4, 5, 7, 999}
}

// Config tunes the workflow engine. Settle delays absorb the control
// plane's eventual consistency between mutating phases.
type Config struct {
	LongSettle     models.Duration `json:"long_settle"`
	ShortSettle    models.Duration `json:"short_settle"`
	BindSettle     models.Duration `json:"bind_settle"`
	MigrationVlans []int           `json:"migration_vlans,omitempty"`
}

// Validate implements config.Validator, filling defaults.
func (c *Config) Validate() error {
	if c.LongSettle == 0 {
		c.LongSettle = models.Duration(defaultLongSettle)
	}

	if c.ShortSettle == 0 {
		c.ShortSettle = models.Duration(defaultShortSettle)
	}

	if c.BindSettle == 0 {
		c.BindSettle = models.Duration(defaultBindSettle)
	}

	if len(c.MigrationVlans) == 0 {
		c.MigrationVlans = defaultMigrationVlans()
	}

	return nil
}

// PhaseResult records one phase's outcome. Errors are per-item; the
// phase itself does not abort the run.
type PhaseResult struct {
	Name     string
	Affected int
	Skipped  bool
	Items    []string
	Errors   []string
}

// AddedDevice is a device claimed into the site during this run. Model
// is filled once the device shows up in a later device listing.
type AddedDevice struct {
	Serial string
	Name   string
	Model  string
}

// Result is the outcome of one workflow run: per-phase results plus the
// flat accumulated error list.
type Result struct {
	Site       string
	NetworkID  string
	StartedAt  time.Time
	FinishedAt time.Time
	Phases     []PhaseResult
	Added      []AddedDevice
	Snapshot   *models.WanSnapshot
	ReplayedTo string
	Errors     []string
}

// RunContext threads per-run state through the phases. It lives for one
// run only and is never engine state, so partially failed runs can be
// retried against the live network.
type RunContext struct {
	NetworkID string
	Plan      *models.RefreshPlan
	Added     map[string]struct{}
	Snapshot  *models.WanSnapshot
	Result    *Result
}

// Engine executes workflows against one control plane.
type Engine struct {
	config     *Config
	plane      dashboard.ControlPlane
	classifier *classify.Classifier
	preserver  *preserve.Preserver
	mapper     *switchmap.Mapper
	settler    Settler
	confirm    Confirmer
	metrics    Metrics
	logger     logger.Logger
}

// NewEngine wires an engine. Classifier and mapper fall back to their
// defaults when nil; a nil settler sleeps for real.
func NewEngine(
	config *Config,
	plane dashboard.ControlPlane,
	classifier *classify.Classifier,
	mapper *switchmap.Mapper,
	settler Settler,
	confirm Confirmer,
	metrics Metrics,
	log logger.Logger,
) (*Engine, error) {
	if plane == nil {
		return nil, errControlPlaneRequired
	}

	if log == nil {
		return nil, errLoggerRequired
	}

	if config == nil {
		config = &Config{}
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	if classifier == nil {
		classifier = classify.New(nil, log)
	}

	if mapper == nil {
		mapper = switchmap.NewMapper(nil)
	}

	if settler == nil {
		settler = SleepSettler{}
	}

	if metrics == nil {
		metrics = &NoOpMetrics{}
	}

	return &Engine{
		config:     config,
		plane:      plane,
		classifier: classifier,
		preserver:  preserve.NewPreserver(plane, log),
		mapper:     mapper,
		settler:    settler,
		confirm:    confirm,
		metrics:    metrics,
		logger:     log,
	}, nil
}

// phase is one step of a workflow: a name, the settle delay applied
// after it mutates state, and the work itself.
type phase struct {
	name   string
	settle time.Duration
	run    func(ctx context.Context, rc *RunContext) PhaseResult
}

func (e *Engine) runPhase(ctx context.Context, rc *RunContext, ph phase) {
	start := time.Now()

	e.metrics.RecordPhaseAttempt(ph.name)
	e.logger.Info().Str("phase", ph.name).Msg("Running phase")

	res := ph.run(ctx, rc)
	res.Name = ph.name

	e.recordPhase(rc, res, start)

	if res.Skipped || ph.settle <= 0 {
		return
	}

	if err := e.settler.Settle(ctx, ph.settle); err != nil {
		// cancellation surfaces at the next phase boundary
		e.logger.Debug().Err(err).Str("phase", ph.name).Msg("Settle interrupted")
	}
}

func (e *Engine) recordPhase(rc *RunContext, res PhaseResult, start time.Time) {
	duration := time.Since(start)

	if len(res.Errors) > 0 {
		e.metrics.RecordPhaseFailure(res.Name, len(res.Errors), duration)
	} else {
		e.metrics.RecordPhaseSuccess(res.Name, res.Affected, duration)
	}

	rc.Result.Phases = append(rc.Result.Phases, res)
	rc.Result.Errors = append(rc.Result.Errors, res.Errors...)
}

func deviceLabel(device *models.Device) string {
	if device.Name != "" {
		return device.Name
	}

	return device.Serial
}

func copyAssignments(src map[string]models.FixedAssignment) map[string]models.FixedAssignment {
	dst := make(map[string]models.FixedAssignment, len(src))
	for mac, assignment := range src {
		dst[mac] = assignment
	}

	return dst
}
