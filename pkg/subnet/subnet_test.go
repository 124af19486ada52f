package subnet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/branchfleet/netrefresh/pkg/models"
)

func sampleSnapshot() map[int]*models.Vlan {
	return map[int]*models.Vlan{
		1: {
			ID:          1,
			Name:        "Data",
			Subnet:      "10.10.20.32/27",
			ApplianceIP: "10.10.20.33",
			FixedAssignments: map[string]models.FixedAssignment{
				"aa:bb:cc:dd:ee:11": {IP: "10.10.20.40", Name: "SW1"},
			},
		},
		4: {
			ID:          4,
			Name:        "Voice",
			Subnet:      "10.10.20.0/27",
			ApplianceIP: "10.10.20.1",
		},
		5: {
			ID:            5,
			Name:          "Guest",
			Subnet:        "192.168.50.0/24",
			ApplianceIP:   "192.168.50.1",
			GroupPolicyID: "101",
		},
	}
}

func TestPlanRestorePreserve(t *testing.T) {
	plan, err := PlanRestore(sampleSnapshot(), true, true)
	require.NoError(t, err)

	assert.Equal(t, DecisionPreserve, plan.Decision)
	require.Len(t, plan.Vlans, 3)

	assert.Equal(t, []int{1, 4, 5}, restoreIDs(plan))
	assert.Equal(t, "10.10.20.32/27", plan.Vlans[0].Subnet)
	assert.Equal(t, "10.10.20.0/27", plan.Vlans[1].Subnet)
	assert.Equal(t, "101", plan.Vlans[2].GroupPolicyID)

	assert.NotEmpty(t, plan.Vlans[0].FixedAssignments, "VLAN1 keeps its reservations")
	assert.Empty(t, plan.Vlans[1].FixedAssignments, "reservations only ride on VLAN1")
}

func TestPlanRestoreMerge(t *testing.T) {
	plan, err := PlanRestore(sampleSnapshot(), true, false)
	require.NoError(t, err)

	assert.Equal(t, DecisionMerge, plan.Decision)
	assert.Equal(t, []int{1, 5}, restoreIDs(plan), "VLAN4 folds away")

	v1 := plan.Vlans[0]
	assert.Equal(t, "10.10.20.0/26", v1.Subnet, "lower base, one bit wider")
	assert.Equal(t, "10.10.20.33", v1.ApplianceIP, "appliance IP stays with VLAN1")
	assert.Equal(t, "Data", v1.Name)
}

func TestPlanRestoreMergeVlan1Lower(t *testing.T) {
	snapshot := sampleSnapshot()
	snapshot[1].Subnet = "10.10.20.0/27"
	snapshot[4].Subnet = "10.10.20.32/27"

	plan, err := PlanRestore(snapshot, true, false)
	require.NoError(t, err)

	assert.Equal(t, "10.10.20.0/26", plan.Vlans[0].Subnet)
}

func TestPlanRestoreMergeWithoutVoiceVlan(t *testing.T) {
	snapshot := sampleSnapshot()
	delete(snapshot, 4)

	plan, err := PlanRestore(snapshot, true, false)
	require.NoError(t, err)

	assert.Equal(t, DecisionMerge, plan.Decision)
	assert.Equal(t, "10.10.20.32/27", plan.Vlans[0].Subnet, "nothing to merge, restore as captured")
}

func TestPlanRestoreMergeInvalidSubnet(t *testing.T) {
	snapshot := sampleSnapshot()
	snapshot[4].Subnet = "not-a-subnet"

	plan, err := PlanRestore(snapshot, true, false)
	require.Error(t, err)
	assert.Nil(t, plan)
}

func TestPlanRestoreIndeterminate(t *testing.T) {
	plan, err := PlanRestore(sampleSnapshot(), false, false)
	require.ErrorIs(t, err, ErrTopologyNotDeterminable)

	require.NotNil(t, plan, "remaining VLANs still restore")
	assert.Equal(t, DecisionIndeterminate, plan.Decision)
	assert.Equal(t, []int{5}, restoreIDs(plan))
}

func TestPlanRestoreIndeterminateKeepsVoiceWhenTemplateHasIt(t *testing.T) {
	plan, err := PlanRestore(sampleSnapshot(), false, true)
	require.ErrorIs(t, err, ErrTopologyNotDeterminable)

	assert.Equal(t, []int{4, 5}, restoreIDs(plan))
}

func TestPlanRestoreSkipsNilEntries(t *testing.T) {
	snapshot := sampleSnapshot()
	snapshot[999] = nil

	plan, err := PlanRestore(snapshot, true, true)
	require.NoError(t, err)

	assert.Equal(t, []int{1, 4, 5}, restoreIDs(plan))
}

func TestMergePair(t *testing.T) {
	tests := []struct {
		name     string
		a        string
		b        string
		expected string
		wantErr  bool
	}{
		{
			name:     "adjacent slash 27s",
			a:        "10.10.20.32/27",
			b:        "10.10.20.0/27",
			expected: "10.10.20.0/26",
		},
		{
			name:     "order does not matter",
			a:        "10.10.20.0/27",
			b:        "10.10.20.32/27",
			expected: "10.10.20.0/26",
		},
		{
			name:     "result re-masked onto wider boundary",
			a:        "172.16.1.64/26",
			b:        "172.16.1.128/26",
			expected: "172.16.1.0/25",
		},
		{
			name:    "invalid cidr",
			a:       "bogus",
			b:       "10.10.20.0/27",
			wantErr: true,
		},
		{
			name:    "ipv6 rejected",
			a:       "2001:db8::/64",
			b:       "10.10.20.0/27",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			merged, err := mergePair(tt.a, tt.b)
			if tt.wantErr {
				require.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.expected, merged)
		})
	}
}

func TestDecisionString(t *testing.T) {
	assert.Equal(t, "preserve", DecisionPreserve.String())
	assert.Equal(t, "merge", DecisionMerge.String())
	assert.Equal(t, "indeterminate", DecisionIndeterminate.String())
}

func restoreIDs(plan *RestorePlan) []int {
	ids := make([]int, 0, len(plan.Vlans))
	for _, v := range plan.Vlans {
		ids = append(ids, v.VlanID)
	}

	return ids
}
