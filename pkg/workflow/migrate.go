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
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/branchfleet/netrefresh/pkg/dashboard"
	"github.com/branchfleet/netrefresh/pkg/models"
	"github.com/branchfleet/netrefresh/pkg/subnet"
)

var (
	// ErrDeclined means the operator answered no at the rebind gate.
	ErrDeclined = errors.New("migration declined")
	// ErrUnbindFailed aborts the migration before the bind; the partial
	// result accompanies it.
	ErrUnbindFailed = errors.New("template unbind failed")
	// ErrBindFailed aborts the migration after the unbind; the site is
	// left unbound and the partial result accompanies it.
	ErrBindFailed = errors.New("template bind failed")

	errConfirmerRequired = errors.New("confirmer is required for template migration")
)

// RunTemplateMigration rebinds a site to a new configuration template
// while preserving its VLAN addressing. The unbind and bind calls are
// the only fatal operations in the system; everything else is
// item-scoped.
func (e *Engine) RunTemplateMigration(ctx context.Context, site *models.Network, templateID string) (*Result, error) {
	if site == nil {
		return nil, errSiteRequired
	}

	if e.confirm == nil {
		return nil, errConfirmerRequired
	}

	prompt := fmt.Sprintf("Move network %q (%s) to template %s?", site.Name, site.ID, templateID)

	ok, err := e.confirm.Confirm(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("confirmation failed: %w", err)
	}

	if !ok {
		return nil, ErrDeclined
	}

	result := &Result{
		Site:      site.Name,
		NetworkID: site.ID,
		StartedAt: time.Now(),
	}

	rc := &RunContext{NetworkID: site.ID, Result: result}

	e.logger.Info().
		Str("site", site.Name).
		Str("template_id", templateID).
		Msg("Starting template migration")

	snapshot := e.snapshotVlans(ctx, rc)

	if err := e.unbind(ctx, rc); err != nil {
		result.FinishedAt = time.Now()
		return result, err
	}

	plan := e.planSubnets(ctx, rc, snapshot, templateID)

	if err := e.bind(ctx, rc, templateID); err != nil {
		result.FinishedAt = time.Now()
		return result, err
	}

	e.restoreVlans(ctx, rc, plan)

	result.FinishedAt = time.Now()

	e.logger.Info().
		Str("site", site.Name).
		Int("errors", len(result.Errors)).
		Msg("Template migration complete")

	return result, nil
}

// snapshotVlans captures the migration VLAN set before the unbind wipes
// the site's own configuration. VLANs the site does not define are
// skipped silently.
func (e *Engine) snapshotVlans(ctx context.Context, rc *RunContext) map[int]*models.Vlan {
	start := time.Now()
	res := PhaseResult{Name: "snapshot-vlans"}

	e.metrics.RecordPhaseAttempt(res.Name)

	snapshot := make(map[int]*models.Vlan)

	for _, vid := range e.config.MigrationVlans {
		vlan, err := e.plane.Vlan(ctx, rc.NetworkID, vid)
		if err != nil {
			if errors.Is(err, dashboard.ErrNotFound) {
				e.logger.Debug().Int("vlan", vid).Msg("VLAN not defined on site, skipping")
				continue
			}

			res.Errors = append(res.Errors, fmt.Sprintf("snapshot VLAN %d: %v", vid, err))

			continue
		}

		snapshot[vid] = vlan
		res.Affected++
		res.Items = append(res.Items, fmt.Sprintf("VLAN %d: %s", vid, vlan.Subnet))
	}

	e.recordPhase(rc, res, start)

	return snapshot
}

func (e *Engine) unbind(ctx context.Context, rc *RunContext) error {
	start := time.Now()
	res := PhaseResult{Name: "unbind-template"}

	e.metrics.RecordPhaseAttempt(res.Name)

	if err := e.plane.UnbindTemplate(ctx, rc.NetworkID, true); err != nil {
		res.Errors = append(res.Errors, fmt.Sprintf("unbind: %v", err))
		e.recordPhase(rc, res, start)

		return fmt.Errorf("%w: %v", ErrUnbindFailed, err)
	}

	res.Affected = 1
	e.recordPhase(rc, res, start)

	if err := e.settler.Settle(ctx, time.Duration(e.config.BindSettle)); err != nil {
		e.logger.Debug().Err(err).Msg("Settle interrupted")
	}

	return nil
}

// planSubnets probes the template's VLAN layout and computes the
// restore plan. A non-determinable topology is an error in the result,
// not a fatal condition; the remaining VLANs still restore.
func (e *Engine) planSubnets(ctx context.Context, rc *RunContext, snapshot map[int]*models.Vlan, templateID string) *subnet.RestorePlan {
	start := time.Now()
	res := PhaseResult{Name: "plan-subnets"}

	e.metrics.RecordPhaseAttempt(res.Name)

	hasV1 := e.templateHasVlan(ctx, templateID, 1, &res)
	hasV4 := e.templateHasVlan(ctx, templateID, 4, &res)

	plan, err := subnet.PlanRestore(snapshot, hasV1, hasV4)
	if err != nil {
		if errors.Is(err, subnet.ErrTopologyNotDeterminable) {
			res.Errors = append(res.Errors, fmt.Sprintf("VLAN %d subnet restoration skipped: %v", managementVlan, err))
		} else {
			res.Errors = append(res.Errors, fmt.Sprintf("plan subnet restore: %v", err))
		}
	}

	if plan != nil {
		res.Affected = len(plan.Vlans)
		res.Items = append(res.Items, fmt.Sprintf("decision: %s", plan.Decision))
	}

	e.recordPhase(rc, res, start)

	return plan
}

func (e *Engine) templateHasVlan(ctx context.Context, templateID string, vlanID int, res *PhaseResult) bool {
	_, err := e.plane.Vlan(ctx, templateID, vlanID)
	if err == nil {
		return true
	}

	if !errors.Is(err, dashboard.ErrNotFound) {
		res.Errors = append(res.Errors, fmt.Sprintf("probe template VLAN %d: %v", vlanID, err))
	}

	return false
}

func (e *Engine) bind(ctx context.Context, rc *RunContext, templateID string) error {
	start := time.Now()
	res := PhaseResult{Name: "bind-template"}

	e.metrics.RecordPhaseAttempt(res.Name)

	if err := e.plane.BindTemplate(ctx, rc.NetworkID, templateID); err != nil {
		res.Errors = append(res.Errors, fmt.Sprintf("bind to %s: %v", templateID, err))
		e.recordPhase(rc, res, start)

		return fmt.Errorf("%w: %v", ErrBindFailed, err)
	}

	res.Affected = 1
	res.Items = append(res.Items, templateID)
	e.recordPhase(rc, res, start)

	if err := e.settler.Settle(ctx, time.Duration(e.config.BindSettle)); err != nil {
		e.logger.Debug().Err(err).Msg("Settle interrupted")
	}

	return nil
}

// restoreVlans writes the planned VLANs back onto the freshly bound
// site. Fixed IP assignments ride along for the management VLAN only.
func (e *Engine) restoreVlans(ctx context.Context, rc *RunContext, plan *subnet.RestorePlan) {
	start := time.Now()
	res := PhaseResult{Name: "restore-vlans"}

	e.metrics.RecordPhaseAttempt(res.Name)

	if plan == nil || len(plan.Vlans) == 0 {
		e.logger.Debug().Msg("No VLANs to restore")
		e.recordPhase(rc, res, start)

		return
	}

	for _, vr := range plan.Vlans {
		name := vr.Name
		sub := vr.Subnet
		applianceIP := vr.ApplianceIP

		update := &models.VlanUpdate{
			Name:        &name,
			Subnet:      &sub,
			ApplianceIP: &applianceIP,
		}

		if vr.GroupPolicyID != "" {
			groupPolicyID := vr.GroupPolicyID
			update.GroupPolicyID = &groupPolicyID
		}

		if vr.VlanID == managementVlan && len(vr.FixedAssignments) > 0 {
			assignments := vr.FixedAssignments
			update.FixedAssignments = &assignments
		}

		if err := e.plane.UpdateVlan(ctx, rc.NetworkID, vr.VlanID, update); err != nil {
			res.Errors = append(res.Errors, fmt.Sprintf("restore VLAN %d: %v", vr.VlanID, err))
			continue
		}

		res.Affected++
		res.Items = append(res.Items, fmt.Sprintf("VLAN %d: %s", vr.VlanID, vr.Subnet))
	}

	e.recordPhase(rc, res, start)
}
