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

package models

// FixedAssignment is one DHCP fixed IP assignment, keyed by MAC in the
// owning VLAN's assignment map.
type FixedAssignment struct {
	IP   string `json:"ip"`
	Name string `json:"name"`
}

// ReservedRange is a reserved DHCP address range on a VLAN.
type ReservedRange struct {
	Start   string `json:"start"`
	End     string `json:"end"`
	Comment string `json:"comment"`
}

// Vlan is a site VLAN as returned by the control plane. FixedAssignments
// is keyed by normalized device MAC.
type Vlan struct {
	ID               int                        `json:"id"`
	Name             string                     `json:"name"`
	Subnet           string                     `json:"subnet"`
	ApplianceIP      string                     `json:"applianceIp"`
	GroupPolicyID    string                     `json:"groupPolicyId,omitempty"`
	FixedAssignments map[string]FixedAssignment `json:"fixedIpAssignments,omitempty"`
	ReservedRanges   []ReservedRange            `json:"reservedIpRanges,omitempty"`
}

// VlanUpdate carries the mutable VLAN attributes for a single update
// call. Nil fields are left untouched.
type VlanUpdate struct {
	Name             *string                     `json:"name,omitempty"`
	Subnet           *string                     `json:"subnet,omitempty"`
	ApplianceIP      *string                     `json:"applianceIp,omitempty"`
	GroupPolicyID    *string                     `json:"groupPolicyId,omitempty"`
	FixedAssignments *map[string]FixedAssignment `json:"fixedIpAssignments,omitempty"`
	ReservedRanges   *[]ReservedRange            `json:"reservedIpRanges,omitempty"`
}
