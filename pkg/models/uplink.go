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

// WanInterface is the uplink configuration of a single WAN port.
type WanInterface struct {
	UsingStaticIP    bool     `json:"usingStaticIp"`
	StaticIP         string   `json:"staticIp,omitempty"`
	StaticSubnetMask string   `json:"staticSubnetMask,omitempty"`
	StaticGatewayIP  string   `json:"staticGatewayIp,omitempty"`
	StaticDNS        []string `json:"staticDns,omitempty"`
	VLAN             *int     `json:"vlan,omitempty"`
}

// UplinkSettings is the per-device uplink configuration. Interfaces the
// device does not have are nil.
type UplinkSettings struct {
	WAN1 *WanInterface `json:"wan1,omitempty"`
	WAN2 *WanInterface `json:"wan2,omitempty"`
}

// WanSnapshot is a static WAN1 configuration captured from a device
// scheduled for removal, recorded verbatim so it can be replayed onto a
// replacement device.
type WanSnapshot struct {
	SourceSerial     string   `json:"sourceSerial"`
	SourceModel      string   `json:"sourceModel"`
	StaticIP         string   `json:"staticIp"`
	StaticSubnetMask string   `json:"staticSubnetMask"`
	StaticGatewayIP  string   `json:"staticGatewayIp"`
	StaticDNS        []string `json:"staticDns,omitempty"`
	VLAN             *int     `json:"vlan,omitempty"`
}

// Interface returns the snapshot as a WAN interface configuration with
// static addressing enabled, exactly as captured.
func (s *WanSnapshot) Interface() *WanInterface {
	return &WanInterface{
		UsingStaticIP:    true,
		StaticIP:         s.StaticIP,
		StaticSubnetMask: s.StaticSubnetMask,
		StaticGatewayIP:  s.StaticGatewayIP,
		StaticDNS:        s.StaticDNS,
		VLAN:             s.VLAN,
	}
}
