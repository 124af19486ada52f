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
	"fmt"
	"strings"
	"time"

	"github.com/branchfleet/netrefresh/pkg/classify"
	"github.com/branchfleet/netrefresh/pkg/models"
	"github.com/branchfleet/netrefresh/pkg/preserve"
	"github.com/branchfleet/netrefresh/pkg/switchmap"
)

const ibootComment = "iboot"

// RunRefresh executes the device refresh for one site. Every phase is
// item-scoped: failures land in the result and the run continues, so a
// partially failed run can simply be re-run.
func (e *Engine) RunRefresh(ctx context.Context, site *models.Network, plan *models.RefreshPlan) (*Result, error) {
	if site == nil {
		return nil, errSiteRequired
	}

	if plan == nil {
		return nil, errPlanRequired
	}

	if err := plan.Validate(); err != nil {
		return nil, err
	}

	result := &Result{
		Site:      plan.Site,
		NetworkID: site.ID,
		StartedAt: time.Now(),
	}

	if result.Site == "" {
		result.Site = site.Name
	}

	rc := &RunContext{
		NetworkID: site.ID,
		Plan:      plan,
		Added:     make(map[string]struct{}),
		Result:    result,
	}

	// Planned serials join the added set before any phase runs. The
	// retirement guard must hold even when a planned device was already
	// claimed by an earlier, partially failed run.
	for _, planned := range plan.Add {
		rc.Added[planned.Serial] = struct{}{}
	}

	e.logger.Info().
		Str("site", result.Site).
		Str("network_id", site.ID).
		Msg("Starting network refresh")

	long := time.Duration(e.config.LongSettle)
	short := time.Duration(e.config.ShortSettle)

	phases := []phase{
		{name: "clear-assignments", settle: long, run: e.clearAssignments},
		{name: "remove-iboot-ranges", settle: long, run: e.removeIbootRanges},
		{name: "capture-wan", run: e.captureWAN},
		{name: "retire-devices", settle: long, run: e.retireDevices},
		{name: "add-devices", settle: long, run: e.addDevices},
		{name: "enable-wan2", settle: long, run: e.enableWan2},
		{name: "replay-wan", settle: long, run: e.replayWAN},
		{name: "rename-sensors", settle: short, run: e.renameSensors},
		{name: "update-addresses", settle: long, run: e.updateAddresses},
		{name: "switch-assignments", settle: short, run: e.switchAssignments},
		{name: "ap-assignments", settle: long, run: e.apAssignments},
	}

	for _, ph := range phases {
		if err := ctx.Err(); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("%s: run cancelled: %v", ph.name, err))
			result.FinishedAt = time.Now()

			return result, err
		}

		e.runPhase(ctx, rc, ph)
	}

	result.FinishedAt = time.Now()

	e.logger.Info().
		Str("site", result.Site).
		Int("errors", len(result.Errors)).
		Msg("Network refresh complete")

	return result, nil
}

// clearAssignments drops the management VLAN's fixed IP assignments
// that belong to neither a preserved device nor a legacy preserved
// name. The filtered map is written back only when it differs.
func (e *Engine) clearAssignments(ctx context.Context, rc *RunContext) PhaseResult {
	var res PhaseResult

	devices, err := e.plane.Devices(ctx, rc.NetworkID)
	if err != nil {
		res.Errors = append(res.Errors, fmt.Sprintf("list devices: %v", err))
		return res
	}

	preserved := make(map[string]struct{})

	for i := range devices {
		if e.classifier.Classify(&devices[i], rc.Added) == classify.Preserved {
			preserved[models.NormalizeMAC(devices[i].MAC)] = struct{}{}
		}
	}

	vlan, err := e.plane.Vlan(ctx, rc.NetworkID, managementVlan)
	if err != nil {
		res.Errors = append(res.Errors, fmt.Sprintf("read VLAN %d: %v", managementVlan, err))
		return res
	}

	kept, removed := preserve.FilterAssignments(vlan.FixedAssignments, preserved, e.classifier.IsLegacyPreservedName)
	if removed == 0 {
		e.logger.Debug().Msg("No non-preserved assignments to clear")
		return res
	}

	update := &models.VlanUpdate{FixedAssignments: &kept}
	if err := e.plane.UpdateVlan(ctx, rc.NetworkID, managementVlan, update); err != nil {
		res.Errors = append(res.Errors, fmt.Sprintf("clear VLAN %d assignments: %v", managementVlan, err))
		return res
	}

	res.Affected = removed

	return res
}

// removeIbootRanges deletes reserved DHCP ranges whose comment marks
// them as power-controller ranges.
func (e *Engine) removeIbootRanges(ctx context.Context, rc *RunContext) PhaseResult {
	var res PhaseResult

	vlan, err := e.plane.Vlan(ctx, rc.NetworkID, managementVlan)
	if err != nil {
		res.Errors = append(res.Errors, fmt.Sprintf("read VLAN %d: %v", managementVlan, err))
		return res
	}

	kept := make([]models.ReservedRange, 0, len(vlan.ReservedRanges))

	for _, r := range vlan.ReservedRanges {
		if strings.EqualFold(r.Comment, ibootComment) {
			res.Items = append(res.Items, fmt.Sprintf("%s - %s", r.Start, r.End))
			continue
		}

		kept = append(kept, r)
	}

	removed := len(vlan.ReservedRanges) - len(kept)
	if removed == 0 {
		e.logger.Debug().Msg("No iBoot reserved ranges found")
		return res
	}

	update := &models.VlanUpdate{ReservedRanges: &kept}
	if err := e.plane.UpdateVlan(ctx, rc.NetworkID, managementVlan, update); err != nil {
		res.Errors = append(res.Errors, fmt.Sprintf("remove reserved ranges: %v", err))
		return res
	}

	res.Affected = removed

	return res
}

// captureWAN snapshots static WAN addressing from the retiring gateways
// before they are removed. At most one snapshot per run.
func (e *Engine) captureWAN(ctx context.Context, rc *RunContext) PhaseResult {
	var res PhaseResult

	devices, err := e.plane.Devices(ctx, rc.NetworkID)
	if err != nil {
		res.Errors = append(res.Errors, fmt.Sprintf("list devices: %v", err))
		return res
	}

	retiring := make([]models.Device, 0, len(devices))

	for i := range devices {
		device := devices[i]
		if e.classifier.Classify(&device, rc.Added) == classify.Retirable && classify.IsGateway(device.Model) {
			retiring = append(retiring, device)
		}
	}

	snapshot, err := e.preserver.CaptureWAN(ctx, retiring)
	if err != nil {
		res.Errors = append(res.Errors, fmt.Sprintf("capture WAN settings: %v", err))
		return res
	}

	rc.Snapshot = snapshot
	rc.Result.Snapshot = snapshot

	if snapshot != nil {
		res.Affected = 1
		res.Items = append(res.Items, fmt.Sprintf("%s (%s): %s", snapshot.SourceModel, snapshot.SourceSerial, snapshot.StaticIP))
	}

	return res
}

// retireDevices removes every retirable device from the site. Devices
// claimed earlier in this run are never retired.
func (e *Engine) retireDevices(ctx context.Context, rc *RunContext) PhaseResult {
	var res PhaseResult

	devices, err := e.plane.Devices(ctx, rc.NetworkID)
	if err != nil {
		res.Errors = append(res.Errors, fmt.Sprintf("list devices: %v", err))
		return res
	}

	for i := range devices {
		device := devices[i]
		if e.classifier.Classify(&device, rc.Added) != classify.Retirable {
			continue
		}

		label := deviceLabel(&device)

		if err := e.plane.RemoveDevice(ctx, rc.NetworkID, device.Serial); err != nil {
			msg := fmt.Sprintf("remove %s (%s): %v", label, device.Serial, err)
			if strings.Contains(strings.ToLower(err.Error()), "firmware") {
				msg += "; device is syncing firmware, remove it manually once the sync completes"
			}

			res.Errors = append(res.Errors, msg)

			continue
		}

		res.Affected++
		res.Items = append(res.Items, fmt.Sprintf("%s - %s (%s)", device.Model, label, device.Serial))

		e.logger.Info().
			Str("serial", device.Serial).
			Str("model", device.Model).
			Msg("Removed retiring device")
	}

	return res
}

// addDevices claims the planned serials into the site and names them.
// Serials already present in the site are left alone so re-runs are
// safe.
func (e *Engine) addDevices(ctx context.Context, rc *RunContext) PhaseResult {
	var res PhaseResult

	if len(rc.Plan.Add) == 0 {
		e.logger.Debug().Msg("No devices planned for addition")
		res.Skipped = true

		return res
	}

	devices, err := e.plane.Devices(ctx, rc.NetworkID)
	if err != nil {
		res.Errors = append(res.Errors, fmt.Sprintf("list devices: %v", err))
		return res
	}

	current := make(map[string]struct{}, len(devices))
	for i := range devices {
		current[devices[i].Serial] = struct{}{}
	}

	for _, planned := range rc.Plan.Add {
		if _, claimed := current[planned.Serial]; claimed {
			e.logger.Debug().Str("serial", planned.Serial).Msg("Device already claimed, skipping")
			continue
		}

		if err := e.plane.ClaimDevices(ctx, rc.NetworkID, []string{planned.Serial}); err != nil {
			res.Errors = append(res.Errors, fmt.Sprintf("claim %s: %v", planned.Serial, err))
			continue
		}

		res.Affected++
		res.Items = append(res.Items, planned.Serial)

		e.logger.Info().Str("serial", planned.Serial).Msg("Claimed device")
	}

	for _, planned := range rc.Plan.Add {
		if planned.Name == "" {
			continue
		}

		name := planned.Name
		if err := e.plane.UpdateDevice(ctx, planned.Serial, &models.DeviceUpdate{Name: &name}); err != nil {
			res.Errors = append(res.Errors, fmt.Sprintf("name %s: %v", planned.Serial, err))
		}
	}

	for _, planned := range rc.Plan.Add {
		rc.Result.Added = append(rc.Result.Added, AddedDevice{Serial: planned.Serial, Name: planned.Name})
	}

	return res
}

// enableWan2 converts the secondary port to a WAN uplink on the
// gateways claimed during this run. Already enabled ports are skipped.
func (e *Engine) enableWan2(ctx context.Context, rc *RunContext) PhaseResult {
	var res PhaseResult

	if len(rc.Added) == 0 {
		e.logger.Debug().Msg("No devices were added, skipping WAN port conversion")
		res.Skipped = true

		return res
	}

	devices, err := e.plane.Devices(ctx, rc.NetworkID)
	if err != nil {
		res.Errors = append(res.Errors, fmt.Sprintf("list devices: %v", err))
		return res
	}

	gateways := make([]models.Device, 0, len(devices))

	for i := range devices {
		device := devices[i]
		if _, added := rc.Added[device.Serial]; !added {
			continue
		}

		e.fillAddedModel(rc, &device)

		if classify.IsGateway(device.Model) {
			gateways = append(gateways, device)
		}
	}

	if len(gateways) == 0 {
		e.logger.Debug().Msg("No newly added gateways found")
		res.Skipped = true

		return res
	}

	for i := range gateways {
		gateway := gateways[i]
		label := deviceLabel(&gateway)

		enabled, err := e.plane.WanPortEnabled(ctx, gateway.Serial, wanPort2)
		if err != nil {
			res.Errors = append(res.Errors, fmt.Sprintf("read management interface for %s (%s): %v", label, gateway.Serial, err))
			continue
		}

		if enabled {
			e.logger.Debug().Str("serial", gateway.Serial).Msg("Secondary port already a WAN uplink, skipping")
			continue
		}

		if err := e.plane.EnableWanPort(ctx, gateway.Serial, wanPort2); err != nil {
			res.Errors = append(res.Errors, fmt.Sprintf("enable WAN port on %s (%s): %v", label, gateway.Serial, err))
			continue
		}

		res.Affected++
		res.Items = append(res.Items, fmt.Sprintf("%s (%s)", label, gateway.Serial))
	}

	return res
}

// replayWAN re-applies the captured static WAN addressing to the first
// gateway claimed during this run, field for field.
func (e *Engine) replayWAN(ctx context.Context, rc *RunContext) PhaseResult {
	var res PhaseResult

	if rc.Snapshot == nil {
		e.logger.Debug().Msg("No captured WAN settings to replay")
		res.Skipped = true

		return res
	}

	devices, err := e.plane.Devices(ctx, rc.NetworkID)
	if err != nil {
		res.Errors = append(res.Errors, fmt.Sprintf("list devices: %v", err))
		return res
	}

	added := make([]models.Device, 0, len(devices))

	for i := range devices {
		if _, ok := rc.Added[devices[i].Serial]; ok {
			added = append(added, devices[i])
		}
	}

	serial, err := e.preserver.ReplayWAN(ctx, rc.Snapshot, added)
	if err != nil {
		res.Errors = append(res.Errors, fmt.Sprintf("replay WAN settings: %v", err))
		return res
	}

	if serial != "" {
		res.Affected = 1
		res.Items = append(res.Items, fmt.Sprintf("%s <- %s", serial, rc.Snapshot.StaticIP))
		rc.Result.ReplayedTo = serial
	}

	return res
}

// renameSensors applies the planned sensor name to the site's sensor
// devices. A single sensor takes the name as is; multiples are numbered.
func (e *Engine) renameSensors(ctx context.Context, rc *RunContext) PhaseResult {
	var res PhaseResult

	if rc.Plan.SensorName == "" {
		e.logger.Debug().Msg("No sensor name planned")
		res.Skipped = true

		return res
	}

	devices, err := e.plane.Devices(ctx, rc.NetworkID)
	if err != nil {
		res.Errors = append(res.Errors, fmt.Sprintf("list devices: %v", err))
		return res
	}

	sensors := make([]models.Device, 0, len(devices))

	for i := range devices {
		if classify.IsSensor(devices[i].Model) {
			sensors = append(sensors, devices[i])
		}
	}

	if len(sensors) == 0 {
		e.logger.Debug().Msg("No sensor devices found")
		return res
	}

	for i := range sensors {
		name := rc.Plan.SensorName
		if len(sensors) > 1 {
			name = fmt.Sprintf("%s-%d", rc.Plan.SensorName, i+1)
		}

		if err := e.plane.UpdateDevice(ctx, sensors[i].Serial, &models.DeviceUpdate{Name: &name}); err != nil {
			res.Errors = append(res.Errors, fmt.Sprintf("rename sensor %s: %v", sensors[i].Serial, err))
			continue
		}

		res.Affected++
		res.Items = append(res.Items, fmt.Sprintf("%s (%s)", name, sensors[i].Serial))
	}

	return res
}

// updateAddresses sets the planned site address on every device.
func (e *Engine) updateAddresses(ctx context.Context, rc *RunContext) PhaseResult {
	var res PhaseResult

	if rc.Plan.Address == "" {
		e.logger.Debug().Msg("No site address planned")
		res.Skipped = true

		return res
	}

	devices, err := e.plane.Devices(ctx, rc.NetworkID)
	if err != nil {
		res.Errors = append(res.Errors, fmt.Sprintf("list devices: %v", err))
		return res
	}

	for i := range devices {
		device := devices[i]
		label := deviceLabel(&device)
		address := rc.Plan.Address

		if err := e.plane.UpdateDevice(ctx, device.Serial, &models.DeviceUpdate{Address: &address}); err != nil {
			res.Errors = append(res.Errors, fmt.Sprintf("update address for %s (%s): %v", label, device.Serial, err))
			continue
		}

		res.Affected++
		res.Items = append(res.Items, fmt.Sprintf("%s (%s)", label, device.Serial))
	}

	return res
}

// switchAssignments pins the preserved switches to their role IPs on
// the management VLAN and renames them per plan. Runs on every refresh
// so sites that lost their assignments heal on re-run.
func (e *Engine) switchAssignments(ctx context.Context, rc *RunContext) PhaseResult {
	var res PhaseResult

	devices, err := e.plane.Devices(ctx, rc.NetworkID)
	if err != nil {
		res.Errors = append(res.Errors, fmt.Sprintf("list devices: %v", err))
		return res
	}

	switches := make([]models.Device, 0, len(devices))

	for i := range devices {
		device := devices[i]
		if e.classifier.Classify(&device, rc.Added) == classify.Preserved && classify.IsSwitch(device.Model) {
			switches = append(switches, device)
		}
	}

	if len(switches) == 0 {
		e.logger.Debug().Msg("No preserved switches found")
		return res
	}

	vlan, err := e.plane.Vlan(ctx, rc.NetworkID, managementVlan)
	if err != nil {
		res.Errors = append(res.Errors, fmt.Sprintf("read VLAN %d: %v", managementVlan, err))
		return res
	}

	base, err := switchmap.SubnetBase(vlan)
	if err != nil {
		res.Errors = append(res.Errors, fmt.Sprintf("skip switch assignments: %v", err))
		return res
	}

	names := rc.Plan.SwitchNames
	if len(names) == 0 {
		names = make(map[string]string)
		for _, role := range e.mapper.Roles() {
			names[role] = role
		}
	}

	plans, missing := e.mapper.Plans(names, switches, base)
	for _, m := range missing {
		res.Errors = append(res.Errors, fmt.Sprintf("switch mapping: %s", m))
	}

	if len(plans) == 0 {
		return res
	}

	assignments := copyAssignments(vlan.FixedAssignments)

	for _, p := range plans {
		mac := models.NormalizeMAC(p.MAC)
		if mac == "" {
			res.Errors = append(res.Errors, fmt.Sprintf("switch %s (%s) has no MAC address", p.TargetName, p.Serial))
			continue
		}

		assignments[mac] = models.FixedAssignment{IP: p.FixedIP, Name: p.TargetName}

		name := p.TargetName
		if err := e.plane.UpdateDevice(ctx, p.Serial, &models.DeviceUpdate{Name: &name}); err != nil {
			res.Errors = append(res.Errors, fmt.Sprintf("rename switch %s: %v", p.Serial, err))
		}

		res.Affected++
		res.Items = append(res.Items, fmt.Sprintf("%s -> %s (MAC: %s)", p.TargetName, p.FixedIP, mac))
	}

	if res.Affected == 0 {
		return res
	}

	update := &models.VlanUpdate{FixedAssignments: &assignments}
	if err := e.plane.UpdateVlan(ctx, rc.NetworkID, managementVlan, update); err != nil {
		res.Errors = append(res.Errors, fmt.Sprintf("write switch assignments: %v", err))
	}

	return res
}

// apAssignments creates fixed IP assignments for the planned access
// points, resolving each device's MAC by serial.
func (e *Engine) apAssignments(ctx context.Context, rc *RunContext) PhaseResult {
	var res PhaseResult

	if len(rc.Plan.AccessPoints) == 0 {
		e.logger.Debug().Msg("No access point assignments planned")
		res.Skipped = true

		return res
	}

	vlan, err := e.plane.Vlan(ctx, rc.NetworkID, managementVlan)
	if err != nil {
		res.Errors = append(res.Errors, fmt.Sprintf("read VLAN %d: %v", managementVlan, err))
		return res
	}

	assignments := copyAssignments(vlan.FixedAssignments)

	for i, planned := range rc.Plan.AccessPoints {
		device, err := e.plane.Device(ctx, planned.Serial)
		if err != nil {
			res.Errors = append(res.Errors, fmt.Sprintf("fetch device %s: %v", planned.Serial, err))
			continue
		}

		mac := models.NormalizeMAC(device.MAC)
		if mac == "" {
			res.Errors = append(res.Errors, fmt.Sprintf("access point %s has no MAC address", planned.Serial))
			continue
		}

		name := planned.Name
		if name == "" {
			name = fmt.Sprintf("AP%d", i+1)
		}

		assignments[mac] = models.FixedAssignment{IP: planned.IP, Name: name}

		res.Affected++
		res.Items = append(res.Items, fmt.Sprintf("%s -> %s (MAC: %s)", name, planned.IP, mac))
	}

	if res.Affected == 0 {
		return res
	}

	update := &models.VlanUpdate{FixedAssignments: &assignments}
	if err := e.plane.UpdateVlan(ctx, rc.NetworkID, managementVlan, update); err != nil {
		res.Errors = append(res.Errors, fmt.Sprintf("write access point assignments: %v", err))
	}

	return res
}

// fillAddedModel backfills the model of an added device once it is
// visible in a device listing.
func (e *Engine) fillAddedModel(rc *RunContext, device *models.Device) {
	for i := range rc.Result.Added {
		if rc.Result.Added[i].Serial == device.Serial && rc.Result.Added[i].Model == "" {
			rc.Result.Added[i].Model = device.Model
		}
	}
}
