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

import "strings"

// Device is a network device as reported by the control plane.
type Device struct {
	Serial    string   `json:"serial"`
	Name      string   `json:"name"`
	Model     string   `json:"model"`
	MAC       string   `json:"mac"`
	NetworkID string   `json:"networkId"`
	Address   string   `json:"address,omitempty"`
	Tags      []string `json:"tags,omitempty"`
	LANIP     string   `json:"lanIp,omitempty"`
}

// DeviceUpdate carries the mutable device attributes. Nil fields are
// left untouched by the control plane.
type DeviceUpdate struct {
	Name    *string `json:"name,omitempty"`
	Address *string `json:"address,omitempty"`
}

// NormalizeMAC lowers a MAC address and reinserts colon separators so
// addresses compare equal regardless of the formatting a given endpoint
// returns.
func NormalizeMAC(mac string) string {
	cleaned := strings.ToLower(strings.NewReplacer(":", "", "-", "", ".", "").Replace(mac))
	if len(cleaned) != 12 {
		return strings.ToLower(mac)
	}

	parts := make([]string, 0, 6)
	for i := 0; i < len(cleaned); i += 2 {
		parts = append(parts, cleaned[i:i+2])
	}

	return strings.Join(parts, ":")
}

// Network is a managed site network.
type Network struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	OrganizationID string   `json:"organizationId"`
	Tags           []string `json:"tags,omitempty"`
	TemplateID     string   `json:"configTemplateId,omitempty"`
}

// Template is an organization configuration template.
type Template struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
