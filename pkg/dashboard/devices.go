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

// Devices lists the devices claimed into a network. MACs are normalized
// before the list is returned.
func (c *Client) Devices(ctx context.Context, networkID string) ([]models.Device, error) {
	var devices []models.Device

	path := fmt.Sprintf("/networks/%s/devices", networkID)
	if err := c.do(ctx, http.MethodGet, path, nil, &devices); err != nil {
		return nil, err
	}

	for i := range devices {
		devices[i].MAC = models.NormalizeMAC(devices[i].MAC)
	}

	return devices, nil
}

// Device fetches a single device by serial.
func (c *Client) Device(ctx context.Context, serial string) (*models.Device, error) {
	var device models.Device

	if err := c.do(ctx, http.MethodGet, "/devices/"+serial, nil, &device); err != nil {
		return nil, err
	}

	device.MAC = models.NormalizeMAC(device.MAC)

	return &device, nil
}

// UpdateDevice applies name and address changes to a device. Nil update
// fields are left untouched by the control plane.
func (c *Client) UpdateDevice(ctx context.Context, serial string, update *models.DeviceUpdate) error {
	return c.do(ctx, http.MethodPut, "/devices/"+serial, update, nil)
}

// ClaimDevices claims serials into a network.
func (c *Client) ClaimDevices(ctx context.Context, networkID string, serials []string) error {
	body := claimRequest{Serials: serials}

	return c.do(ctx, http.MethodPost, fmt.Sprintf("/networks/%s/devices/claim", networkID), &body, nil)
}

// RemoveDevice removes a device from a network.
func (c *Client) RemoveDevice(ctx context.Context, networkID, serial string) error {
	body := removeRequest{Serial: serial}

	return c.do(ctx, http.MethodPost, fmt.Sprintf("/networks/%s/devices/remove", networkID), &body, nil)
}
