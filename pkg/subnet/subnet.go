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

// Package subnet decides how a site's VLAN subnets carry over when the
// site is re-bound to a configuration template with a different VLAN
// layout.
package subnet

import (
	"encoding/binary"
	"errors"
	"fmt"
	"net"
	"sort"

	"github.com/branchfleet/netrefresh/pkg/models"
)

var (
	// ErrTopologyNotDeterminable indicates the template defines neither
	// of the VLANs the decision rests on, so the VLAN1 subnet cannot be
	// restored safely.
	ErrTopologyNotDeterminable = errors.New("topology not determinable from template")

	errNotIPv4 = errors.New("subnet is not IPv4")
)

// Decision says what happens to the VLAN1/VLAN4 pair on restore.
type Decision int

const (
	// DecisionPreserve restores both VLANs with their original subnets.
	DecisionPreserve Decision = iota
	// DecisionMerge folds the VLAN4 space into VLAN1.
	DecisionMerge
	// DecisionIndeterminate leaves VLAN1 alone; the template gives no
	// safe target layout.
	DecisionIndeterminate
)

func (d Decision) String() string {
	switch d {
	case DecisionPreserve:
		return "preserve"
	case DecisionMerge:
		return "merge"
	default:
		return "indeterminate"
	}
}

// VlanRestore is one VLAN's post-bind restore payload.
type VlanRestore struct {
	VlanID           int
	Name             string
	Subnet           string
	ApplianceIP      string
	GroupPolicyID    string
	FixedAssignments map[string]models.FixedAssignment
}

// RestorePlan is the ordered set of VLAN restores for one site.
type RestorePlan struct {
	Decision Decision
	Vlans    []VlanRestore
}

// PlanRestore computes the restore set from the pre-unbind snapshot and
// the template's VLAN layout. When the template defines neither VLAN1
// nor VLAN4 the returned plan still carries the remaining VLANs and the
// error is ErrTopologyNotDeterminable; the caller decides whether to
// continue. Fixed assignments ride along for VLAN1 only.
func PlanRestore(snapshot map[int]*models.Vlan, templateHasV1, templateHasV4 bool) (*RestorePlan, error) {
	switch {
	case templateHasV1 && templateHasV4:
		return &RestorePlan{Decision: DecisionPreserve, Vlans: restores(snapshot, nil)}, nil

	case templateHasV1:
		plan := &RestorePlan{Decision: DecisionMerge, Vlans: restores(snapshot, map[int]bool{4: true})}

		v1, v4 := snapshot[1], snapshot[4]
		if v1 == nil || v4 == nil {
			// nothing to fold together; VLAN1 restores as captured
			return plan, nil
		}

		merged, err := mergePair(v1.Subnet, v4.Subnet)
		if err != nil {
			return nil, fmt.Errorf("merging VLAN1 %q with VLAN4 %q: %w", v1.Subnet, v4.Subnet, err)
		}

		for i := range plan.Vlans {
			if plan.Vlans[i].VlanID == 1 {
				plan.Vlans[i].Subnet = merged
			}
		}

		return plan, nil

	default:
		skip := map[int]bool{1: true}
		if !templateHasV4 {
			skip[4] = true
		}

		return &RestorePlan{Decision: DecisionIndeterminate, Vlans: restores(snapshot, skip)},
			ErrTopologyNotDeterminable
	}
}

// restores converts the snapshot into restore payloads sorted by VLAN
// id, leaving out the skipped ids.
func restores(snapshot map[int]*models.Vlan, skip map[int]bool) []VlanRestore {
	ids := make([]int, 0, len(snapshot))

	for id := range snapshot {
		if snapshot[id] == nil || skip[id] {
			continue
		}

		ids = append(ids, id)
	}

	sort.Ints(ids)

	out := make([]VlanRestore, 0, len(ids))

	for _, id := range ids {
		vlan := snapshot[id]

		restore := VlanRestore{
			VlanID:        id,
			Name:          vlan.Name,
			Subnet:        vlan.Subnet,
			ApplianceIP:   vlan.ApplianceIP,
			GroupPolicyID: vlan.GroupPolicyID,
		}

		if id == 1 {
			restore.FixedAssignments = vlan.FixedAssignments
		}

		out = append(out, restore)
	}

	return out
}

// mergePair folds two adjacent subnets into one: the numerically lower
// network address keeps, the prefix widens one bit, and the result is
// re-masked onto the wider boundary. This is exactly the one-bit rule
// (/27 + /27 -> /26), not a general CIDR aggregator.
func mergePair(subnetA, subnetB string) (string, error) {
	ipA, netA, err := parseIPv4CIDR(subnetA)
	if err != nil {
		return "", err
	}

	ipB, netB, err := parseIPv4CIDR(subnetB)
	if err != nil {
		return "", err
	}

	lowerIP, lowerNet := ipA, netA
	if ipB < ipA {
		lowerIP, lowerNet = ipB, netB
	}

	bits, _ := lowerNet.Mask.Size()
	if bits <= 0 {
		return "", errNotIPv4
	}

	widened := net.CIDRMask(bits-1, 32)
	network := lowerIP & binary.BigEndian.Uint32(widened)

	addr := make(net.IP, net.IPv4len)
	binary.BigEndian.PutUint32(addr, network)

	return fmt.Sprintf("%s/%d", addr.String(), bits-1), nil
}

func parseIPv4CIDR(subnet string) (uint32, *net.IPNet, error) {
	_, network, err := net.ParseCIDR(subnet)
	if err != nil {
		return 0, nil, fmt.Errorf("invalid subnet %q: %w", subnet, err)
	}

	v4 := network.IP.To4()
	if v4 == nil {
		return 0, nil, fmt.Errorf("%w: %s", errNotIPv4, subnet)
	}

	return binary.BigEndian.Uint32(v4), network, nil
}
