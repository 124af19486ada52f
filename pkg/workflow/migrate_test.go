package workflow

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/branchfleet/netrefresh/pkg/dashboard"
	"github.com/branchfleet/netrefresh/pkg/logger"
	"github.com/branchfleet/netrefresh/pkg/models"
)

const testTemplateID = "T_600"

func setupMigration(t *testing.T, settler Settler) (*Engine, *dashboard.MockControlPlane, *MockConfirmer) {
	t.Helper()

	ctrl := gomock.NewController(t)
	plane := dashboard.NewMockControlPlane(ctrl)
	confirm := NewMockConfirmer(ctrl)

	if settler == nil {
		settler = NoopSettler{}
	}

	engine, err := NewEngine(nil, plane, nil, nil, settler, confirm, nil, logger.NewTestLogger())
	require.NoError(t, err)

	return engine, plane, confirm
}

// expectVlanSnapshot wires the migration VLAN sweep: defined VLANs come
// back, the rest 404.
func expectVlanSnapshot(plane *dashboard.MockControlPlane, networkID string, defined map[int]*models.Vlan) {
	for _, vid := range defaultMigrationVlans() {
		if vlan, ok := defined[vid]; ok {
			plane.EXPECT().Vlan(gomock.Any(), networkID, vid).Return(vlan, nil)
		} else {
			plane.EXPECT().Vlan(gomock.Any(), networkID, vid).Return(nil, dashboard.ErrNotFound)
		}
	}
}

func phaseNames(result *Result) []string {
	names := make([]string, 0, len(result.Phases))
	for _, ph := range result.Phases {
		names = append(names, ph.Name)
	}

	return names
}

func TestTemplateMigrationMergeFlow(t *testing.T) {
	ctrl := gomock.NewController(t)
	plane := dashboard.NewMockControlPlane(ctrl)
	confirm := NewMockConfirmer(ctrl)
	settler := NewMockSettler(ctrl)

	engine, err := NewEngine(nil, plane, nil, nil, settler, confirm, nil, logger.NewTestLogger())
	require.NoError(t, err)

	var prompt string

	confirm.EXPECT().Confirm(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, p string) (bool, error) {
			prompt = p
			return true, nil
		})

	expectVlanSnapshot(plane, testNetworkID, map[int]*models.Vlan{
		1: {
			ID:          1,
			Name:        "Data",
			Subnet:      "10.8.4.32/27",
			ApplianceIP: "10.8.4.33",
			FixedAssignments: map[string]models.FixedAssignment{
				"aa:aa:aa:aa:aa:03": {IP: "10.8.4.93", Name: "MS130-A"},
			},
		},
		4: {ID: 4, Name: "Voice", Subnet: "10.8.4.0/27", ApplianceIP: "10.8.4.1"},
		5: {ID: 5, Name: "Guest", Subnet: "192.168.50.0/24", ApplianceIP: "192.168.50.1", GroupPolicyID: "101"},
	})

	plane.EXPECT().UnbindTemplate(gomock.Any(), testNetworkID, true).Return(nil)
	settler.EXPECT().Settle(gomock.Any(), 20*time.Second).Return(nil).Times(2)

	// template defines the management VLAN but not the voice VLAN
	plane.EXPECT().Vlan(gomock.Any(), testTemplateID, 1).Return(&models.Vlan{ID: 1}, nil)
	plane.EXPECT().Vlan(gomock.Any(), testTemplateID, 4).Return(nil, dashboard.ErrNotFound)

	plane.EXPECT().BindTemplate(gomock.Any(), testNetworkID, testTemplateID).Return(nil)

	restored := make(map[int]*models.VlanUpdate)

	plane.EXPECT().UpdateVlan(gomock.Any(), testNetworkID, gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, _ string, vlanID int, update *models.VlanUpdate) error {
			restored[vlanID] = update
			return nil
		}).Times(2)

	result, err := engine.RunTemplateMigration(context.Background(), testSite(), testTemplateID)
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.Contains(t, prompt, "store-0412")
	assert.Contains(t, prompt, testTemplateID)

	assert.Equal(t, []string{
		"snapshot-vlans",
		"unbind-template",
		"plan-subnets",
		"bind-template",
		"restore-vlans",
	}, phaseNames(result))

	assert.Empty(t, result.Errors)
	assert.Equal(t, 3, phaseNamed(t, result, "snapshot-vlans").Affected)
	assert.Contains(t, phaseNamed(t, result, "plan-subnets").Items, "decision: merge")
	assert.Equal(t, 2, phaseNamed(t, result, "restore-vlans").Affected)

	require.Contains(t, restored, 1)
	require.Contains(t, restored, 5)
	assert.NotContains(t, restored, 4, "the voice VLAN folds into the management VLAN")

	assert.Equal(t, "10.8.4.0/26", *restored[1].Subnet)
	assert.Equal(t, "10.8.4.33", *restored[1].ApplianceIP)
	require.NotNil(t, restored[1].FixedAssignments)
	assert.Contains(t, *restored[1].FixedAssignments, "aa:aa:aa:aa:aa:03")

	assert.Equal(t, "192.168.50.0/24", *restored[5].Subnet)
	require.NotNil(t, restored[5].GroupPolicyID)
	assert.Equal(t, "101", *restored[5].GroupPolicyID)
	assert.Nil(t, restored[5].FixedAssignments, "assignments ride along for the management VLAN only")
}

func TestTemplateMigrationPreserveFlow(t *testing.T) {
	engine, plane, confirm := setupMigration(t, nil)

	confirm.EXPECT().Confirm(gomock.Any(), gomock.Any()).Return(true, nil)

	expectVlanSnapshot(plane, testNetworkID, map[int]*models.Vlan{
		1: {ID: 1, Name: "Data", Subnet: "10.8.4.32/27", ApplianceIP: "10.8.4.33"},
		4: {ID: 4, Name: "Voice", Subnet: "10.8.4.0/27", ApplianceIP: "10.8.4.1"},
	})

	plane.EXPECT().UnbindTemplate(gomock.Any(), testNetworkID, true).Return(nil)
	plane.EXPECT().Vlan(gomock.Any(), testTemplateID, 1).Return(&models.Vlan{ID: 1}, nil)
	plane.EXPECT().Vlan(gomock.Any(), testTemplateID, 4).Return(&models.Vlan{ID: 4}, nil)
	plane.EXPECT().BindTemplate(gomock.Any(), testNetworkID, testTemplateID).Return(nil)

	restored := make(map[int]*models.VlanUpdate)

	plane.EXPECT().UpdateVlan(gomock.Any(), testNetworkID, gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, _ string, vlanID int, update *models.VlanUpdate) error {
			restored[vlanID] = update
			return nil
		}).Times(2)

	result, err := engine.RunTemplateMigration(context.Background(), testSite(), testTemplateID)
	require.NoError(t, err)

	assert.Empty(t, result.Errors)
	assert.Contains(t, phaseNamed(t, result, "plan-subnets").Items, "decision: preserve")

	require.Contains(t, restored, 1)
	require.Contains(t, restored, 4)
	assert.Equal(t, "10.8.4.32/27", *restored[1].Subnet)
	assert.Equal(t, "10.8.4.0/27", *restored[4].Subnet)
}

func TestTemplateMigrationIndeterminateTopology(t *testing.T) {
	engine, plane, confirm := setupMigration(t, nil)

	confirm.EXPECT().Confirm(gomock.Any(), gomock.Any()).Return(true, nil)

	expectVlanSnapshot(plane, testNetworkID, map[int]*models.Vlan{
		1: {ID: 1, Name: "Data", Subnet: "10.8.4.32/27", ApplianceIP: "10.8.4.33"},
		5: {ID: 5, Name: "Guest", Subnet: "192.168.50.0/24", ApplianceIP: "192.168.50.1"},
	})

	plane.EXPECT().UnbindTemplate(gomock.Any(), testNetworkID, true).Return(nil)
	plane.EXPECT().Vlan(gomock.Any(), testTemplateID, 1).Return(nil, dashboard.ErrNotFound)
	plane.EXPECT().Vlan(gomock.Any(), testTemplateID, 4).Return(nil, dashboard.ErrNotFound)
	plane.EXPECT().BindTemplate(gomock.Any(), testNetworkID, testTemplateID).Return(nil)

	restored := make(map[int]*models.VlanUpdate)

	plane.EXPECT().UpdateVlan(gomock.Any(), testNetworkID, gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, _ string, vlanID int, update *models.VlanUpdate) error {
			restored[vlanID] = update
			return nil
		})

	result, err := engine.RunTemplateMigration(context.Background(), testSite(), testTemplateID)
	require.NoError(t, err, "indeterminate topology never aborts the migration")

	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "VLAN 1 subnet restoration skipped")
	assert.Contains(t, phaseNamed(t, result, "plan-subnets").Items, "decision: indeterminate")

	assert.NotContains(t, restored, 1)
	assert.Contains(t, restored, 5)
}

func TestTemplateMigrationDeclined(t *testing.T) {
	engine, _, confirm := setupMigration(t, nil)

	confirm.EXPECT().Confirm(gomock.Any(), gomock.Any()).Return(false, nil)

	result, err := engine.RunTemplateMigration(context.Background(), testSite(), testTemplateID)
	require.ErrorIs(t, err, ErrDeclined)
	assert.Nil(t, result)
}

func TestTemplateMigrationConfirmError(t *testing.T) {
	engine, _, confirm := setupMigration(t, nil)

	confirm.EXPECT().Confirm(gomock.Any(), gomock.Any()).Return(false, errors.New("stdin closed"))

	_, err := engine.RunTemplateMigration(context.Background(), testSite(), testTemplateID)
	require.ErrorContains(t, err, "confirmation failed")
}

func TestTemplateMigrationUnbindFatal(t *testing.T) {
	engine, plane, confirm := setupMigration(t, nil)

	confirm.EXPECT().Confirm(gomock.Any(), gomock.Any()).Return(true, nil)
	expectVlanSnapshot(plane, testNetworkID, nil)
	plane.EXPECT().UnbindTemplate(gomock.Any(), testNetworkID, true).Return(errors.New("api status 500"))

	result, err := engine.RunTemplateMigration(context.Background(), testSite(), testTemplateID)
	require.ErrorIs(t, err, ErrUnbindFailed)

	require.NotNil(t, result, "the partial result accompanies a fatal error")
	assert.Equal(t, []string{"snapshot-vlans", "unbind-template"}, phaseNames(result))
	require.NotEmpty(t, result.Errors)
	assert.Contains(t, result.Errors[0], "unbind")
}

func TestTemplateMigrationBindFatal(t *testing.T) {
	engine, plane, confirm := setupMigration(t, nil)

	confirm.EXPECT().Confirm(gomock.Any(), gomock.Any()).Return(true, nil)
	expectVlanSnapshot(plane, testNetworkID, nil)
	plane.EXPECT().UnbindTemplate(gomock.Any(), testNetworkID, true).Return(nil)
	plane.EXPECT().Vlan(gomock.Any(), testTemplateID, 1).Return(nil, dashboard.ErrNotFound)
	plane.EXPECT().Vlan(gomock.Any(), testTemplateID, 4).Return(nil, dashboard.ErrNotFound)
	plane.EXPECT().BindTemplate(gomock.Any(), testNetworkID, testTemplateID).Return(errors.New("template not found"))

	result, err := engine.RunTemplateMigration(context.Background(), testSite(), testTemplateID)
	require.ErrorIs(t, err, ErrBindFailed)

	require.NotNil(t, result)
	assert.Equal(t, []string{"snapshot-vlans", "unbind-template", "plan-subnets", "bind-template"}, phaseNames(result))
}

func TestTemplateMigrationValidation(t *testing.T) {
	engine, _, _ := setupMigration(t, nil)

	_, err := engine.RunTemplateMigration(context.Background(), nil, testTemplateID)
	require.ErrorIs(t, err, errSiteRequired)

	noConfirm, _ := setupEngine(t, nil, nil)

	_, err = noConfirm.RunTemplateMigration(context.Background(), testSite(), testTemplateID)
	require.ErrorIs(t, err, errConfirmerRequired)
}
