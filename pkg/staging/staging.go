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

// Package staging distributes batches of replacement gateways across a
// fixed set of staging networks so they can pull firmware and base
// configuration before a site refresh. Each staging network holds a
// small number of devices at a time; the distributor checks aggregate
// capacity before claiming anything.
package staging

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/branchfleet/netrefresh/pkg/dashboard"
	"github.com/branchfleet/netrefresh/pkg/logger"
	"github.com/branchfleet/netrefresh/pkg/models"
)

const (
	// MaxBatchSize bounds how many devices one distribution run accepts.
	MaxBatchSize = 20

	defaultCapacity          = 2
	defaultStagedModelPrefix = "MX67"

	networkIDPrefix = "N_"
)

var (
	// ErrBatchTooLarge means the batch exceeds MaxBatchSize.
	ErrBatchTooLarge = errors.New("batch exceeds staging limit")
	// ErrInsufficientCapacity means the batch does not fit in the
	// aggregate free slots; nothing was claimed.
	ErrInsufficientCapacity = errors.New("insufficient staging capacity")
	// ErrDeclined means the operator answered no at a confirmation gate.
	ErrDeclined = errors.New("operation declined")
	// ErrUnknownNetwork means the given name is not a configured staging
	// network and does not look like a raw network id.
	ErrUnknownNetwork = errors.New("unknown staging network")

	errNoStagingNetworks = errors.New("no staging networks configured")
)

// Network is one configured staging destination. Order in the config
// file is the tie-break order during distribution.
type Network struct {
	Name string `json:"name"`
	ID   string `json:"id"`
}

// Config holds the staging pool definition.
type Config struct {
	Networks          []Network `json:"networks"`
	Capacity          int       `json:"capacity"`
	StagedModelPrefix string    `json:"staged_model_prefix"`
}

// Validate fills defaults. An empty network list is allowed here so
// refresh-only configurations load; staging operations fail at call
// time instead.
func (c *Config) Validate() error {
	if c.Capacity <= 0 {
		c.Capacity = defaultCapacity
	}

	if c.StagedModelPrefix == "" {
		c.StagedModelPrefix = defaultStagedModelPrefix
	}

	c.StagedModelPrefix = strings.ToUpper(c.StagedModelPrefix)

	return nil
}

// BucketStatus is the observed state of one staging network.
type BucketStatus struct {
	Name      string
	NetworkID string
	Capacity  int
	Used      int
	Slack     int
	Staged    []models.Device
	Err       error
}

// DistributionResult reports where each serial landed.
type DistributionResult struct {
	// Assignments maps staging network name to the serials claimed into it.
	Assignments map[string][]string
	// Failed lists serials whose claim call failed.
	Failed []string
	// Unassigned lists serials never attempted (capacity rejection or
	// cancelled run).
	Unassigned []string
	// Buckets is the capacity view the run was based on.
	Buckets []BucketStatus
	// RemovalCommands are the follow-up commands that take the claimed
	// devices back out once firmware sync completes.
	RemovalCommands []string
}

// RemovalResult reports a batch removal from one network.
type RemovalResult struct {
	Removed []string
	Failed  []string
}

// ClearResult aggregates removals across every staging network.
type ClearResult struct {
	Removed  int
	Failed   int
	Networks map[string]*RemovalResult
}

// Manager runs staging operations against the control plane.
type Manager struct {
	Config  *Config
	Plane   dashboard.ControlPlane
	Confirm Confirmer
	Logger  logger.Logger
}

// NewManager validates the config and returns a ready Manager.
func NewManager(config *Config, plane dashboard.ControlPlane, confirm Confirmer, log logger.Logger) (*Manager, error) {
	if config == nil {
		config = &Config{}
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &Manager{
		Config:  config,
		Plane:   plane,
		Confirm: confirm,
		Logger:  log,
	}, nil
}

// Capacity reads every staging network and reports used and free slots.
// A network that cannot be read counts as full and carries the error.
func (m *Manager) Capacity(ctx context.Context) ([]BucketStatus, error) {
	if len(m.Config.Networks) == 0 {
		return nil, errNoStagingNetworks
	}

	statuses := make([]BucketStatus, 0, len(m.Config.Networks))

	for _, network := range m.Config.Networks {
		status := BucketStatus{
			Name:      network.Name,
			NetworkID: network.ID,
			Capacity:  m.Config.Capacity,
		}

		devices, err := m.Plane.Devices(ctx, network.ID)
		if err != nil {
			status.Err = err

			m.Logger.Warn().
				Err(err).
				Str("network", network.Name).
				Msg("Failed to read staging network, treating as full")

			statuses = append(statuses, status)

			continue
		}

		for _, device := range devices {
			if m.isStagedModel(device.Model) {
				status.Staged = append(status.Staged, device)
			}
		}

		status.Used = len(status.Staged)

		if status.Used < status.Capacity {
			status.Slack = status.Capacity - status.Used
		}

		statuses = append(statuses, status)
	}

	return statuses, nil
}

// Distribute claims the batch into staging networks, most free slots
// first. The whole batch is rejected before any claim when it cannot
// fit; pre-existing staged devices require operator confirmation.
func (m *Manager) Distribute(ctx context.Context, serials []string) (*DistributionResult, error) {
	if len(serials) > MaxBatchSize {
		return nil, fmt.Errorf("%w: %d serials, maximum %d", ErrBatchTooLarge, len(serials), MaxBatchSize)
	}

	statuses, err := m.Capacity(ctx)
	if err != nil {
		return nil, err
	}

	result := &DistributionResult{
		Assignments: make(map[string][]string),
		Buckets:     statuses,
	}

	if occupied := occupiedBuckets(statuses); len(occupied) > 0 {
		ok, err := m.Confirm.Confirm(ctx, occupiedPrompt(occupied))
		if err != nil {
			return nil, fmt.Errorf("confirmation failed: %w", err)
		}

		if !ok {
			result.Unassigned = append(result.Unassigned, serials...)
			return result, ErrDeclined
		}
	}

	total := 0
	for _, status := range statuses {
		total += status.Slack
	}

	if len(serials) > total {
		result.Unassigned = append(result.Unassigned, serials...)

		return result, fmt.Errorf("%w: %d serials, %d free slots (short %d)",
			ErrInsufficientCapacity, len(serials), total, len(serials)-total)
	}

	slacks := make([]int, len(statuses))
	for i, status := range statuses {
		slacks[i] = status.Slack
	}

	for i, serial := range serials {
		if err := ctx.Err(); err != nil {
			result.Unassigned = append(result.Unassigned, serials[i:]...)
			return result, err
		}

		bucket := mostSlack(slacks)
		if bucket < 0 {
			// failed claims keep their slack, so this cannot happen
			// after the feasibility gate; guard anyway
			result.Unassigned = append(result.Unassigned, serials[i:]...)
			break
		}

		network := m.Config.Networks[bucket]

		if err := m.Plane.ClaimDevices(ctx, network.ID, []string{serial}); err != nil {
			result.Failed = append(result.Failed, serial)

			m.Logger.Warn().
				Err(err).
				Str("serial", serial).
				Str("network", network.Name).
				Msg("Failed to claim device into staging network")

			continue
		}

		result.Assignments[network.Name] = append(result.Assignments[network.Name], serial)
		slacks[bucket]--

		m.Logger.Info().
			Str("serial", serial).
			Str("network", network.Name).
			Msg("Claimed device into staging network")
	}

	result.RemovalCommands = m.removalCommands(result.Assignments)

	return result, nil
}

// Remove takes the given serials out of one staging network. The
// network is referenced by configured name or raw network id.
func (m *Manager) Remove(ctx context.Context, networkRef string, serials []string) (*RemovalResult, error) {
	network, err := m.resolveNetwork(networkRef)
	if err != nil {
		return nil, err
	}

	return m.removeBatch(ctx, network, serials), nil
}

// Clear removes every staged device from every staging network, gated
// on operator confirmation.
func (m *Manager) Clear(ctx context.Context) (*ClearResult, error) {
	statuses, err := m.Capacity(ctx)
	if err != nil {
		return nil, err
	}

	occupied := occupiedBuckets(statuses)

	result := &ClearResult{Networks: make(map[string]*RemovalResult)}

	if len(occupied) == 0 {
		m.Logger.Info().Msg("No staged devices found in any staging network")
		return result, nil
	}

	total := 0
	for _, status := range occupied {
		total += status.Used
	}

	prompt := fmt.Sprintf("Remove ALL %d staged devices from %d staging networks?", total, len(occupied))

	ok, err := m.Confirm.Confirm(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("confirmation failed: %w", err)
	}

	if !ok {
		return nil, ErrDeclined
	}

	for _, status := range occupied {
		serials := make([]string, 0, len(status.Staged))
		for _, device := range status.Staged {
			serials = append(serials, device.Serial)
		}

		removal := m.removeBatch(ctx, Network{Name: status.Name, ID: status.NetworkID}, serials)

		result.Networks[status.Name] = removal
		result.Removed += len(removal.Removed)
		result.Failed += len(removal.Failed)
	}

	return result, nil
}

func (m *Manager) removeBatch(ctx context.Context, network Network, serials []string) *RemovalResult {
	result := &RemovalResult{}

	for _, serial := range serials {
		if err := m.Plane.RemoveDevice(ctx, network.ID, serial); err != nil {
			result.Failed = append(result.Failed, serial)

			m.Logger.Warn().
				Err(err).
				Str("serial", serial).
				Str("network", network.Name).
				Msg("Failed to remove device from staging network")

			continue
		}

		result.Removed = append(result.Removed, serial)

		m.Logger.Info().
			Str("serial", serial).
			Str("network", network.Name).
			Msg("Removed device from staging network")
	}

	return result
}

func (m *Manager) resolveNetwork(ref string) (Network, error) {
	for _, network := range m.Config.Networks {
		if network.Name == ref {
			return network, nil
		}
	}

	if strings.HasPrefix(ref, networkIDPrefix) {
		return Network{Name: ref, ID: ref}, nil
	}

	return Network{}, fmt.Errorf("%w: %s", ErrUnknownNetwork, ref)
}

func (m *Manager) removalCommands(assignments map[string][]string) []string {
	if len(assignments) == 0 {
		return nil
	}

	commands := make([]string, 0, len(assignments))

	for _, network := range m.Config.Networks {
		serials, ok := assignments[network.Name]
		if !ok {
			continue
		}

		commands = append(commands, fmt.Sprintf("netrefresh staging remove -network %q -serials %s",
			network.Name, strings.Join(serials, ",")))
	}

	return commands
}

func (m *Manager) isStagedModel(model string) bool {
	return strings.HasPrefix(strings.ToUpper(model), m.Config.StagedModelPrefix)
}

// mostSlack returns the index of the bucket with the most free slots,
// preferring the earlier bucket on ties. Returns -1 when none remain.
func mostSlack(slacks []int) int {
	best := -1

	for i, slack := range slacks {
		if slack <= 0 {
			continue
		}

		if best < 0 || slack > slacks[best] {
			best = i
		}
	}

	return best
}

func occupiedBuckets(statuses []BucketStatus) []BucketStatus {
	occupied := make([]BucketStatus, 0, len(statuses))

	for _, status := range statuses {
		if status.Err == nil && status.Used > 0 {
			occupied = append(occupied, status)
		}
	}

	return occupied
}

func occupiedPrompt(occupied []BucketStatus) string {
	var sb strings.Builder

	sb.WriteString("Staging networks already hold staged devices:\n")

	for _, status := range occupied {
		fmt.Fprintf(&sb, "  %s: %d/%d slots used", status.Name, status.Used, status.Capacity)

		names := make([]string, 0, len(status.Staged))
		for _, device := range status.Staged {
			label := device.Serial
			if device.Name != "" {
				label = fmt.Sprintf("%s (%s)", device.Serial, device.Name)
			}

			names = append(names, label)
		}

		sort.Strings(names)
		fmt.Fprintf(&sb, " [%s]\n", strings.Join(names, ", "))
	}

	sb.WriteString("Existing devices should be removed first. Continue anyway?")

	return sb.String()
}
