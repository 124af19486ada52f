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
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/branchfleet/netrefresh/pkg/logger"
	"github.com/branchfleet/netrefresh/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var errConnectionRefused = errors.New("connection refused")

func newTestClient(t *testing.T) (*Client, *MockHTTPClient) {
	t.Helper()

	ctrl := gomock.NewController(t)
	mockHTTP := NewMockHTTPClient(ctrl)

	client, err := NewClient(&Config{
		Endpoint: "https://dashboard.example.com/api/v1",
		OrgID:    "901234",
	}, "test-api-key", logger.NewTestLogger())
	require.NoError(t, err)

	client.HTTPClient = mockHTTP

	return client, mockHTTP
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Header:     http.Header{},
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

func TestNewClientValidation(t *testing.T) {
	tests := []struct {
		name     string
		config   *Config
		apiKey   string
		expected error
	}{
		{
			name:     "missing endpoint",
			config:   &Config{OrgID: "901234"},
			apiKey:   "k",
			expected: errEndpointRequired,
		},
		{
			name:     "missing org",
			config:   &Config{Endpoint: "https://dashboard.example.com"},
			apiKey:   "k",
			expected: errOrgIDRequired,
		},
		{
			name:     "missing api key",
			config:   &Config{Endpoint: "https://dashboard.example.com", OrgID: "901234"},
			expected: errAPIKeyRequired,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewClient(tt.config, tt.apiKey, logger.NewTestLogger())
			require.ErrorIs(t, err, tt.expected)
		})
	}
}

func TestConfigDefaults(t *testing.T) {
	cfg := &Config{Endpoint: "https://dashboard.example.com", OrgID: "901234"}

	require.NoError(t, cfg.Validate())
	assert.Equal(t, defaultAPIKeyEnv, cfg.APIKeyEnv)
	assert.Equal(t, defaultTimeout, cfg.Timeout.AsDuration())
}

func TestDevices(t *testing.T) {
	client, mockHTTP := newTestClient(t)

	mockHTTP.EXPECT().Do(gomock.Any()).DoAndReturn(func(req *http.Request) (*http.Response, error) {
		assert.Equal(t, http.MethodGet, req.Method)
		assert.Equal(t, "https://dashboard.example.com/api/v1/networks/N_100/devices", req.URL.String())
		assert.Equal(t, "Bearer test-api-key", req.Header.Get("Authorization"))

		return jsonResponse(http.StatusOK, `[
			{"serial": "Q2KN-0001-0001", "name": "MX64-A", "model": "MX64", "mac": "AA:BB:CC:00:11:22"},
			{"serial": "Q2HP-0002-0002", "name": "MS120-A", "model": "MS120-8", "mac": "aabbcc334455"}
		]`), nil
	})

	devices, err := client.Devices(context.Background(), "N_100")

	require.NoError(t, err)
	require.Len(t, devices, 2)
	assert.Equal(t, "aa:bb:cc:00:11:22", devices[0].MAC)
	assert.Equal(t, "aa:bb:cc:33:44:55", devices[1].MAC)
}

func TestAuthHeaderOverride(t *testing.T) {
	client, err := NewClient(&Config{
		Endpoint:   "https://dashboard.example.com/api/v1",
		OrgID:      "901234",
		AuthHeader: "X-BranchFleet-API-Key",
	}, "test-api-key", logger.NewTestLogger())
	require.NoError(t, err)

	ctrl := gomock.NewController(t)
	mockHTTP := NewMockHTTPClient(ctrl)
	client.HTTPClient = mockHTTP

	mockHTTP.EXPECT().Do(gomock.Any()).DoAndReturn(func(req *http.Request) (*http.Response, error) {
		assert.Equal(t, "test-api-key", req.Header.Get("X-BranchFleet-API-Key"))
		assert.Empty(t, req.Header.Get("Authorization"))

		return jsonResponse(http.StatusOK, `[]`), nil
	})

	_, err = client.Devices(context.Background(), "N_100")
	require.NoError(t, err)
}

func TestDevicesHTTPError(t *testing.T) {
	client, mockHTTP := newTestClient(t)

	mockHTTP.EXPECT().Do(gomock.Any()).Return(nil, errConnectionRefused)

	_, err := client.Devices(context.Background(), "N_100")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestDevicesUnexpectedStatus(t *testing.T) {
	client, mockHTTP := newTestClient(t)

	mockHTTP.EXPECT().Do(gomock.Any()).
		Return(jsonResponse(http.StatusInternalServerError, `{"errors": ["boom"]}`), nil)

	_, err := client.Devices(context.Background(), "N_100")

	require.ErrorIs(t, err, errUnexpectedStatusCode)
	assert.Contains(t, err.Error(), "500")
	assert.Contains(t, err.Error(), "boom")
}

func TestVlanNotFound(t *testing.T) {
	client, mockHTTP := newTestClient(t)

	mockHTTP.EXPECT().Do(gomock.Any()).
		Return(jsonResponse(http.StatusNotFound, `{"errors": ["VLAN not found"]}`), nil)

	_, err := client.Vlan(context.Background(), "N_100", 4)

	require.ErrorIs(t, err, ErrNotFound)
}

func TestVlanNormalizesAssignmentKeys(t *testing.T) {
	client, mockHTTP := newTestClient(t)

	mockHTTP.EXPECT().Do(gomock.Any()).DoAndReturn(func(req *http.Request) (*http.Response, error) {
		assert.Equal(t, "https://dashboard.example.com/api/v1/networks/N_100/appliance/vlans/1", req.URL.String())

		return jsonResponse(http.StatusOK, `{
			"id": 1,
			"name": "Data",
			"subnet": "10.8.4.0/27",
			"applianceIp": "10.8.4.1",
			"fixedIpAssignments": {"AA:BB:CC:00:11:22": {"ip": "10.8.4.93", "name": "MS130-A"}}
		}`), nil
	})

	vlan, err := client.Vlan(context.Background(), "N_100", 1)

	require.NoError(t, err)
	require.Contains(t, vlan.FixedAssignments, "aa:bb:cc:00:11:22")
	assert.Equal(t, "10.8.4.93", vlan.FixedAssignments["aa:bb:cc:00:11:22"].IP)
}

func TestRateLimitRetriesOnce(t *testing.T) {
	client, mockHTTP := newTestClient(t)

	limited := jsonResponse(http.StatusTooManyRequests, `{}`)
	limited.Header.Set("Retry-After", "0")

	gomock.InOrder(
		mockHTTP.EXPECT().Do(gomock.Any()).Return(limited, nil),
		mockHTTP.EXPECT().Do(gomock.Any()).Return(jsonResponse(http.StatusOK, `[]`), nil),
	)

	devices, err := client.Devices(context.Background(), "N_100")

	require.NoError(t, err)
	assert.Empty(t, devices)
}

func TestClaimDevicesBody(t *testing.T) {
	client, mockHTTP := newTestClient(t)

	mockHTTP.EXPECT().Do(gomock.Any()).DoAndReturn(func(req *http.Request) (*http.Response, error) {
		assert.Equal(t, http.MethodPost, req.Method)
		assert.Equal(t, "https://dashboard.example.com/api/v1/networks/N_100/devices/claim", req.URL.String())
		assert.Equal(t, "application/json", req.Header.Get("Content-Type"))

		var body claimRequest
		require.NoError(t, json.NewDecoder(req.Body).Decode(&body))
		assert.Equal(t, []string{"Q2KN-0001-0001", "Q2KN-0002-0002"}, body.Serials)

		return jsonResponse(http.StatusOK, `{}`), nil
	})

	err := client.ClaimDevices(context.Background(), "N_100", []string{"Q2KN-0001-0001", "Q2KN-0002-0002"})
	require.NoError(t, err)
}

func TestRemoveDeviceBody(t *testing.T) {
	client, mockHTTP := newTestClient(t)

	mockHTTP.EXPECT().Do(gomock.Any()).DoAndReturn(func(req *http.Request) (*http.Response, error) {
		assert.Equal(t, "https://dashboard.example.com/api/v1/networks/N_100/devices/remove", req.URL.String())

		var body removeRequest
		require.NoError(t, json.NewDecoder(req.Body).Decode(&body))
		assert.Equal(t, "Q2KN-0001-0001", body.Serial)

		return jsonResponse(http.StatusNoContent, ``), nil
	})

	err := client.RemoveDevice(context.Background(), "N_100", "Q2KN-0001-0001")
	require.NoError(t, err)
}

func TestNetworkByName(t *testing.T) {
	tests := []struct {
		name        string
		lookup      string
		expectedID  string
		expectedErr error
	}{
		{
			name:       "match",
			lookup:     "store-0412",
			expectedID: "N_200",
		},
		{
			name:        "no match",
			lookup:      "store-9999",
			expectedErr: ErrNetworkNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, mockHTTP := newTestClient(t)

			mockHTTP.EXPECT().Do(gomock.Any()).DoAndReturn(func(req *http.Request) (*http.Response, error) {
				assert.Equal(t, "https://dashboard.example.com/api/v1/organizations/901234/networks", req.URL.String())

				return jsonResponse(http.StatusOK, `[
					{"id": "N_100", "name": "store-0100"},
					{"id": "N_200", "name": "store-0412"}
				]`), nil
			})

			network, err := client.NetworkByName(context.Background(), tt.lookup)

			if tt.expectedErr != nil {
				require.ErrorIs(t, err, tt.expectedErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.expectedID, network.ID)
		})
	}
}

func TestBindTemplate(t *testing.T) {
	client, mockHTTP := newTestClient(t)

	mockHTTP.EXPECT().Do(gomock.Any()).DoAndReturn(func(req *http.Request) (*http.Response, error) {
		assert.Equal(t, "https://dashboard.example.com/api/v1/networks/N_100/bind", req.URL.String())

		var body bindRequest
		require.NoError(t, json.NewDecoder(req.Body).Decode(&body))
		assert.Equal(t, "T_77", body.ConfigTemplateID)
		assert.False(t, body.AutoBind)

		return jsonResponse(http.StatusOK, `{}`), nil
	})

	require.NoError(t, client.BindTemplate(context.Background(), "N_100", "T_77"))
}

func TestUnbindTemplateRetainsConfigs(t *testing.T) {
	client, mockHTTP := newTestClient(t)

	mockHTTP.EXPECT().Do(gomock.Any()).DoAndReturn(func(req *http.Request) (*http.Response, error) {
		assert.Equal(t, "https://dashboard.example.com/api/v1/networks/N_100/unbind", req.URL.String())

		var body unbindRequest
		require.NoError(t, json.NewDecoder(req.Body).Decode(&body))
		assert.True(t, body.RetainConfigs)

		return jsonResponse(http.StatusOK, `{}`), nil
	})

	require.NoError(t, client.UnbindTemplate(context.Background(), "N_100", true))
}

func TestWanPortEnabled(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		port     string
		expected bool
	}{
		{
			name:     "wan2 enabled",
			body:     `{"wan1": {"wanEnabled": "enabled"}, "wan2": {"wanEnabled": "enabled"}}`,
			port:     "wan2",
			expected: true,
		},
		{
			name:     "wan2 not configured",
			body:     `{"wan1": {"wanEnabled": "enabled"}}`,
			port:     "wan2",
			expected: false,
		},
		{
			name:     "wan2 disabled",
			body:     `{"wan2": {"wanEnabled": "disabled"}}`,
			port:     "wan2",
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, mockHTTP := newTestClient(t)

			mockHTTP.EXPECT().Do(gomock.Any()).Return(jsonResponse(http.StatusOK, tt.body), nil)

			enabled, err := client.WanPortEnabled(context.Background(), "Q2KN-0001-0001", tt.port)

			require.NoError(t, err)
			assert.Equal(t, tt.expected, enabled)
		})
	}
}

func TestEnableWanPort(t *testing.T) {
	client, mockHTTP := newTestClient(t)

	mockHTTP.EXPECT().Do(gomock.Any()).DoAndReturn(func(req *http.Request) (*http.Response, error) {
		assert.Equal(t, http.MethodPut, req.Method)
		assert.Equal(t, "https://dashboard.example.com/api/v1/devices/Q2KN-0001-0001/managementInterface", req.URL.String())

		var body managementInterface
		require.NoError(t, json.NewDecoder(req.Body).Decode(&body))
		require.NotNil(t, body.WAN2)
		assert.Equal(t, "enabled", body.WAN2.WanEnabled)
		assert.Nil(t, body.WAN1)

		return jsonResponse(http.StatusOK, `{}`), nil
	})

	require.NoError(t, client.EnableWanPort(context.Background(), "Q2KN-0001-0001", "wan2"))
}

func TestUpdateUplinkSettings(t *testing.T) {
	client, mockHTTP := newTestClient(t)

	vlan := 10

	mockHTTP.EXPECT().Do(gomock.Any()).DoAndReturn(func(req *http.Request) (*http.Response, error) {
		assert.Equal(t, http.MethodPut, req.Method)
		assert.Equal(t, "https://dashboard.example.com/api/v1/devices/Q2KN-0001-0001/appliance/uplinks/settings", req.URL.String())

		var body uplinkSettingsResponse
		require.NoError(t, json.NewDecoder(req.Body).Decode(&body))
		require.NotNil(t, body.Interfaces)
		require.NotNil(t, body.Interfaces.WAN1)
		assert.True(t, body.Interfaces.WAN1.UsingStaticIP)
		assert.Equal(t, "203.0.113.10", body.Interfaces.WAN1.StaticIP)

		return jsonResponse(http.StatusOK, `{}`), nil
	})

	settings := &models.UplinkSettings{
		WAN1: &models.WanInterface{
			UsingStaticIP:    true,
			StaticIP:         "203.0.113.10",
			StaticSubnetMask: "255.255.255.248",
			StaticGatewayIP:  "203.0.113.9",
			VLAN:             &vlan,
		},
	}

	require.NoError(t, client.UpdateUplinkSettings(context.Background(), "Q2KN-0001-0001", settings))
}
