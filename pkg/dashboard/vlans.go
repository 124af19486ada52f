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

package dashboard

import (
	"context"
	"fmt"
	"net/http"

	"github.com/branchfleet/netrefresh/pkg/models"
)

// Vlan fetches one VLAN definition. Returns ErrNotFound when the network
// does not define the VLAN, which probing callers treat as a normal
// outcome. Assignment keys are normalized to lowercase colon MACs.
func (c *Client) Vlan(ctx context.Context, networkID string, vlanID int) (*models.Vlan, error) {
	var vlan models.Vlan

	path := fmt.Sprintf("/networks/%s/appliance/vlans/%d", networkID, vlanID)
	if err := c.do(ctx, http.MethodGet, path, nil, &vlan); err != nil {
		return nil, err
	}

	if len(vlan.FixedAssignments) > 0 {
		normalized := make(map[string]models.FixedAssignment, len(vlan.FixedAssignments))
		for mac, assignment := range vlan.FixedAssignments {
			normalized[models.NormalizeMAC(mac)] = assignment
		}

		vlan.FixedAssignments = normalized
	}

	return &vlan, nil
}

// UpdateVlan applies a partial VLAN update.
func (c *Client) UpdateVlan(ctx context.Context, networkID string, vlanID int, update *models.VlanUpdate) error {
	path := fmt.Sprintf("/networks/%s/appliance/vlans/%d", networkID, vlanID)

	return c.do(ctx, http.MethodPut, path, update, nil)
}
