package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeMAC(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "uppercase with colons",
			input:    "AA:BB:CC:00:11:22",
			expected: "aa:bb:cc:00:11:22",
		},
		{
			name:     "bare hex",
			input:    "aabbcc001122",
			expected: "aa:bb:cc:00:11:22",
		},
		{
			name:     "dash separated",
			input:    "AA-BB-CC-00-11-22",
			expected: "aa:bb:cc:00:11:22",
		},
		{
			name:     "dot separated",
			input:    "aabb.cc00.1122",
			expected: "aa:bb:cc:00:11:22",
		},
		{
			name:     "malformed passes through lowered",
			input:    "NOT-A-MAC",
			expected: "not-a-mac",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeMAC(tt.input))
		})
	}
}

func TestDurationUnmarshalJSON(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected time.Duration
		wantErr  bool
	}{
		{
			name:     "duration string",
			input:    `"20s"`,
			expected: 20 * time.Second,
		},
		{
			name:     "numeric nanoseconds",
			input:    `5000000000`,
			expected: 5 * time.Second,
		},
		{
			name:    "garbage string",
			input:   `"not-a-duration"`,
			wantErr: true,
		},
		{
			name:    "wrong type",
			input:   `{"d": 1}`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d Duration

			err := json.Unmarshal([]byte(tt.input), &d)
			if tt.wantErr {
				require.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.expected, d.AsDuration())
		})
	}
}

func TestRefreshPlanValidate(t *testing.T) {
	tests := []struct {
		name    string
		plan    RefreshPlan
		wantErr bool
	}{
		{
			name: "site only is valid",
			plan: RefreshPlan{Site: "store-0412"},
		},
		{
			name:    "missing site",
			plan:    RefreshPlan{Address: "1 Main St"},
			wantErr: true,
		},
		{
			name: "add entry without serial",
			plan: RefreshPlan{
				Site: "store-0412",
				Add:  []PlannedDevice{{Name: "MX67-A"}},
			},
			wantErr: true,
		},
		{
			name: "access point without ip",
			plan: RefreshPlan{
				Site:         "store-0412",
				AccessPoints: []APAssignment{{Serial: "Q2LD-0001-0001"}},
			},
			wantErr: true,
		},
		{
			name: "full plan",
			plan: RefreshPlan{
				Site:    "store-0412",
				Address: "1 Main St, Springfield, IL",
				Add:     []PlannedDevice{{Serial: "Q2KN-0001-0001", Name: "MX67-A"}},
				SwitchNames: map[string]string{
					"SW1": "MS130-A",
					"SW2": "MS130-B",
				},
				AccessPoints: []APAssignment{{Serial: "Q2LD-0001-0001", IP: "10.8.4.40"}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.plan.Validate()
			if tt.wantErr {
				require.Error(t, err)
				return
			}

			require.NoError(t, err)
		})
	}
}

func TestWanSnapshotInterface(t *testing.T) {
	vlan := 10
	snap := &WanSnapshot{
		SourceSerial:     "Q2KN-0001-0001",
		SourceModel:      "MX64",
		StaticIP:         "203.0.113.10",
		StaticSubnetMask: "255.255.255.248",
		StaticGatewayIP:  "203.0.113.9",
		StaticDNS:        []string{"8.8.8.8", "8.8.4.4"},
		VLAN:             &vlan,
	}

	iface := snap.Interface()

	require.NotNil(t, iface)
	assert.True(t, iface.UsingStaticIP)
	assert.Equal(t, snap.StaticIP, iface.StaticIP)
	assert.Equal(t, snap.StaticSubnetMask, iface.StaticSubnetMask)
	assert.Equal(t, snap.StaticGatewayIP, iface.StaticGatewayIP)
	assert.Equal(t, snap.StaticDNS, iface.StaticDNS)
	assert.Equal(t, &vlan, iface.VLAN)
}
