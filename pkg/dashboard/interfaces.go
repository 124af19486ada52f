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

//go:generate mockgen -destination=mock_dashboard.go -package=dashboard github.com/branchfleet/netrefresh/pkg/dashboard HTTPClient,ControlPlane

// HTTPClient defines the interface for making HTTP requests.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// ControlPlane is the surface of the managed-network control plane the
// orchestrator drives. Implementations must be safe for sequential reuse
// across phases; calls carry per-request contexts.
type ControlPlane interface {
	// Networks lists the organization's site networks.
	Networks(ctx context.Context) ([]models.Network, error)

	// NetworkByName resolves a site network by exact name.
	NetworkByName(ctx context.Context, name string) (*models.Network, error)

	// Templates lists the organization's configuration templates.
	Templates(ctx context.Context) ([]models.Template, error)

	// Devices lists the devices claimed into a network.
	Devices(ctx context.Context, networkID string) ([]models.Device, error)

	// Device fetches a single device by serial.
	Device(ctx context.Context, serial string) (*models.Device, error)

	// UpdateDevice applies name and address changes to a device.
	UpdateDevice(ctx context.Context, serial string, update *models.DeviceUpdate) error

	// ClaimDevices claims serials into a network.
	ClaimDevices(ctx context.Context, networkID string, serials []string) error

	// RemoveDevice removes a device from a network.
	RemoveDevice(ctx context.Context, networkID, serial string) error

	// Vlan fetches one VLAN; ErrNotFound when the network does not
	// define it.
	Vlan(ctx context.Context, networkID string, vlanID int) (*models.Vlan, error)

	// UpdateVlan applies a partial VLAN update.
	UpdateVlan(ctx context.Context, networkID string, vlanID int, update *models.VlanUpdate) error

	// UplinkSettings fetches a device's WAN uplink configuration.
	UplinkSettings(ctx context.Context, serial string) (*models.UplinkSettings, error)

	// UpdateUplinkSettings replaces a device's WAN uplink configuration.
	UpdateUplinkSettings(ctx context.Context, serial string, settings *models.UplinkSettings) error

	// WanPortEnabled reports whether the named WAN port is enabled.
	WanPortEnabled(ctx context.Context, serial, port string) (bool, error)

	// EnableWanPort converts the named port to an enabled WAN uplink.
	EnableWanPort(ctx context.Context, serial, port string) error

	// BindTemplate binds a network to a configuration template.
	BindTemplate(ctx context.Context, networkID, templateID string) error

	// UnbindTemplate unbinds a network from its template.
	UnbindTemplate(ctx context.Context, networkID string, retainConfigs bool) error
}
