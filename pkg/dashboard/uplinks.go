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
	"net/http"

	"github.com/branchfleet/netrefresh/pkg/models"
)

const wanEnabled = "enabled"

// UplinkSettings fetches a device's WAN uplink configuration.
func (c *Client) UplinkSettings(ctx context.Context, serial string) (*models.UplinkSettings, error) {
	var settings uplinkSettingsResponse

	path := "/devices/" + serial + "/appliance/uplinks/settings"
	if err := c.do(ctx, http.MethodGet, path, nil, &settings); err != nil {
		return nil, err
	}

	return settings.Interfaces, nil
}

// UpdateUplinkSettings replaces a device's WAN uplink configuration.
func (c *Client) UpdateUplinkSettings(ctx context.Context, serial string, settings *models.UplinkSettings) error {
	body := uplinkSettingsResponse{Interfaces: settings}

	return c.do(ctx, http.MethodPut, "/devices/"+serial+"/appliance/uplinks/settings", &body, nil)
}

// WanPortEnabled reports whether the named WAN port ("wan1" or "wan2")
// is enabled on the device's management interface.
func (c *Client) WanPortEnabled(ctx context.Context, serial, port string) (bool, error) {
	var mgmt managementInterface

	if err := c.do(ctx, http.MethodGet, "/devices/"+serial+"/managementInterface", nil, &mgmt); err != nil {
		return false, err
	}

	wan := mgmt.port(port)
	if wan == nil {
		return false, nil
	}

	return wan.WanEnabled == wanEnabled, nil
}

// EnableWanPort converts the named port to an enabled WAN uplink.
func (c *Client) EnableWanPort(ctx context.Context, serial, port string) error {
	mgmt := managementInterface{}
	mgmt.setPort(port, &managementWan{WanEnabled: wanEnabled})

	return c.do(ctx, http.MethodPut, "/devices/"+serial+"/managementInterface", &mgmt, nil)
}
