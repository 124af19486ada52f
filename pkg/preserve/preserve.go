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

// Package preserve captures static WAN configuration from retiring
// devices and replays it onto their replacements, and filters VLAN
// fixed assignments down to the preserved set.
package preserve

import (
	"context"

	"github.com/branchfleet/netrefresh/pkg/classify"
	"github.com/branchfleet/netrefresh/pkg/dashboard"
	"github.com/branchfleet/netrefresh/pkg/logger"
	"github.com/branchfleet/netrefresh/pkg/models"
)

// Preserver reads and writes uplink configuration through the control
// plane. It holds no run state; captured snapshots live with the caller.
type Preserver struct {
	Plane  dashboard.ControlPlane
	Logger logger.Logger
}

func NewPreserver(plane dashboard.ControlPlane, log logger.Logger) *Preserver {
	return &Preserver{Plane: plane, Logger: log}
}

// CaptureWAN walks retiring devices in enumeration order and snapshots
// the first static WAN1 configuration it finds, recorded verbatim. A nil
// snapshot with nil error means no retiring device used static WAN
// addressing, which is a normal outcome.
func (p *Preserver) CaptureWAN(ctx context.Context, retiring []models.Device) (*models.WanSnapshot, error) {
	for i := range retiring {
		device := &retiring[i]

		if err := ctx.Err(); err != nil {
			return nil, err
		}

		settings, err := p.Plane.UplinkSettings(ctx, device.Serial)
		if err != nil {
			p.Logger.Warn().
				Err(err).
				Str("serial", device.Serial).
				Msg("Could not read uplink settings, skipping device")

			continue
		}

		if settings == nil || settings.WAN1 == nil || !settings.WAN1.UsingStaticIP {
			continue
		}

		wan := settings.WAN1

		p.Logger.Info().
			Str("serial", device.Serial).
			Str("model", device.Model).
			Str("static_ip", wan.StaticIP).
			Msg("Captured static WAN config from retiring device")

		return &models.WanSnapshot{
			SourceSerial:     device.Serial,
			SourceModel:      device.Model,
			StaticIP:         wan.StaticIP,
			StaticSubnetMask: wan.StaticSubnetMask,
			StaticGatewayIP:  wan.StaticGatewayIP,
			StaticDNS:        wan.StaticDNS,
			VLAN:             wan.VLAN,
		}, nil
	}

	return nil, nil
}

// ReplayWAN applies a captured snapshot to the first added device of the
// gateway family, field for field. It returns the serial the snapshot
// was applied to, or "" when there was nothing to do.
func (p *Preserver) ReplayWAN(ctx context.Context, snapshot *models.WanSnapshot, added []models.Device) (string, error) {
	if snapshot == nil {
		p.Logger.Info().Msg("No captured WAN config to replay")
		return "", nil
	}

	for i := range added {
		device := &added[i]

		if !classify.IsGateway(device.Model) {
			continue
		}

		settings := &models.UplinkSettings{WAN1: snapshot.Interface()}

		if err := p.Plane.UpdateUplinkSettings(ctx, device.Serial, settings); err != nil {
			return "", err
		}

		p.Logger.Info().
			Str("serial", device.Serial).
			Str("from", snapshot.SourceSerial).
			Str("static_ip", snapshot.StaticIP).
			Msg("Replayed static WAN config onto replacement device")

		return device.Serial, nil
	}

	p.Logger.Info().Msg("No gateway-family device among additions, WAN config not replayed")

	return "", nil
}

// FilterAssignments returns the fixed assignments kept by the
// preservation rule: an entry survives when its MAC belongs to a
// preserved device or its name is in the legacy preserved set. The
// second return is the number of entries dropped.
func FilterAssignments(
	assignments map[string]models.FixedAssignment,
	preservedMACs map[string]struct{},
	isLegacyName func(string) bool,
) (map[string]models.FixedAssignment, int) {
	kept := make(map[string]models.FixedAssignment, len(assignments))

	for mac, assignment := range assignments {
		if _, ok := preservedMACs[models.NormalizeMAC(mac)]; ok {
			kept[mac] = assignment
			continue
		}

		if isLegacyName != nil && isLegacyName(assignment.Name) {
			kept[mac] = assignment
		}
	}

	return kept, len(assignments) - len(kept)
}
