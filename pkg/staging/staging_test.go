package staging

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/branchfleet/netrefresh/pkg/dashboard"
	"github.com/branchfleet/netrefresh/pkg/logger"
	"github.com/branchfleet/netrefresh/pkg/models"
)

func setupManager(t *testing.T, config *Config) (*Manager, *dashboard.MockControlPlane, *MockConfirmer) {
	t.Helper()

	ctrl := gomock.NewController(t)
	plane := dashboard.NewMockControlPlane(ctrl)
	confirm := NewMockConfirmer(ctrl)

	mgr, err := NewManager(config, plane, confirm, logger.NewTestLogger())
	require.NoError(t, err)

	return mgr, plane, confirm
}

func threeStagingNetworks() *Config {
	return &Config{
		Networks: []Network{
			{Name: "stage-a", ID: "N_100"},
			{Name: "stage-b", ID: "N_200"},
			{Name: "stage-c", ID: "N_300"},
		},
	}
}

func stagedGateway(serial, name string) models.Device {
	return models.Device{Serial: serial, Model: "MX67C-NA", Name: name}
}

func TestConfigValidateDefaults(t *testing.T) {
	config := &Config{StagedModelPrefix: "mx68"}
	require.NoError(t, config.Validate())

	assert.Equal(t, 2, config.Capacity)
	assert.Equal(t, "MX68", config.StagedModelPrefix)
}

func TestCapacity(t *testing.T) {
	mgr, plane, _ := setupManager(t, &Config{
		Networks: []Network{
			{Name: "stage-a", ID: "N_100"},
			{Name: "stage-b", ID: "N_200"},
		},
	})

	plane.EXPECT().Devices(gomock.Any(), "N_100").Return([]models.Device{
		stagedGateway("Q2XX-0001", "spare-1"),
		{Serial: "Q2SW-9999", Model: "MS120-8"},
	}, nil)

	readErr := errors.New("read failed")
	plane.EXPECT().Devices(gomock.Any(), "N_200").Return(nil, readErr)

	statuses, err := mgr.Capacity(context.Background())
	require.NoError(t, err)
	require.Len(t, statuses, 2)

	assert.Equal(t, 1, statuses[0].Used, "only staged-class models count")
	assert.Equal(t, 1, statuses[0].Slack)
	require.Len(t, statuses[0].Staged, 1)
	assert.Equal(t, "Q2XX-0001", statuses[0].Staged[0].Serial)

	assert.Equal(t, 0, statuses[1].Slack, "unreadable network counts as full")
	assert.ErrorIs(t, statuses[1].Err, readErr)
}

func TestCapacityNoNetworksConfigured(t *testing.T) {
	mgr, _, _ := setupManager(t, &Config{})

	_, err := mgr.Capacity(context.Background())
	require.Error(t, err)
}

func TestDistributeBatchTooLarge(t *testing.T) {
	mgr, _, _ := setupManager(t, threeStagingNetworks())

	serials := make([]string, MaxBatchSize+1)
	for i := range serials {
		serials[i] = "Q2XX-0000"
	}

	_, err := mgr.Distribute(context.Background(), serials)
	require.ErrorIs(t, err, ErrBatchTooLarge)
}

func TestDistributeInsufficientCapacity(t *testing.T) {
	mgr, plane, confirm := setupManager(t, threeStagingNetworks())

	plane.EXPECT().Devices(gomock.Any(), "N_100").Return(nil, nil)
	plane.EXPECT().Devices(gomock.Any(), "N_200").Return(nil, nil)
	plane.EXPECT().Devices(gomock.Any(), "N_300").Return([]models.Device{
		stagedGateway("Q2XX-0098", ""),
		stagedGateway("Q2XX-0099", ""),
	}, nil)

	confirm.EXPECT().Confirm(gomock.Any(), gomock.Any()).Return(true, nil)

	serials := []string{"S1", "S2", "S3", "S4", "S5"}

	result, err := mgr.Distribute(context.Background(), serials)
	require.ErrorIs(t, err, ErrInsufficientCapacity)
	assert.Contains(t, err.Error(), "short 1")

	require.NotNil(t, result)
	assert.Empty(t, result.Assignments, "no claims before the feasibility gate passes")
	assert.Equal(t, serials, result.Unassigned)
}

func TestDistributeGreedy(t *testing.T) {
	mgr, plane, confirm := setupManager(t, threeStagingNetworks())

	gomock.InOrder(
		plane.EXPECT().Devices(gomock.Any(), "N_100").Return(nil, nil),
		plane.EXPECT().Devices(gomock.Any(), "N_200").Return([]models.Device{
			stagedGateway("Q2XX-0050", "leftover"),
		}, nil),
		plane.EXPECT().Devices(gomock.Any(), "N_300").Return([]models.Device{
			stagedGateway("Q2XX-0098", ""),
			stagedGateway("Q2XX-0099", ""),
		}, nil),
		confirm.EXPECT().Confirm(gomock.Any(), gomock.Any()).Return(true, nil),
		plane.EXPECT().ClaimDevices(gomock.Any(), "N_100", []string{"S1"}).Return(nil),
		plane.EXPECT().ClaimDevices(gomock.Any(), "N_100", []string{"S2"}).Return(nil),
		plane.EXPECT().ClaimDevices(gomock.Any(), "N_200", []string{"S3"}).Return(nil),
	)

	result, err := mgr.Distribute(context.Background(), []string{"S1", "S2", "S3"})
	require.NoError(t, err)

	assert.Equal(t, map[string][]string{
		"stage-a": {"S1", "S2"},
		"stage-b": {"S3"},
	}, result.Assignments)
	assert.Empty(t, result.Failed)
	assert.Empty(t, result.Unassigned)

	assert.Equal(t, []string{
		`netrefresh staging remove -network "stage-a" -serials S1,S2`,
		`netrefresh staging remove -network "stage-b" -serials S3`,
	}, result.RemovalCommands)
}

func TestDistributeFailedClaimKeepsSlack(t *testing.T) {
	mgr, plane, _ := setupManager(t, &Config{
		Networks: []Network{
			{Name: "stage-a", ID: "N_100"},
			{Name: "stage-b", ID: "N_200"},
		},
	})

	gomock.InOrder(
		plane.EXPECT().Devices(gomock.Any(), "N_100").Return(nil, nil),
		plane.EXPECT().Devices(gomock.Any(), "N_200").Return(nil, nil),
		plane.EXPECT().ClaimDevices(gomock.Any(), "N_100", []string{"S1"}).Return(errors.New("claim failed")),
		// slack did not move, so the tie still resolves to stage-a
		plane.EXPECT().ClaimDevices(gomock.Any(), "N_100", []string{"S2"}).Return(nil),
		plane.EXPECT().ClaimDevices(gomock.Any(), "N_200", []string{"S3"}).Return(nil),
	)

	result, err := mgr.Distribute(context.Background(), []string{"S1", "S2", "S3"})
	require.NoError(t, err)

	assert.Equal(t, []string{"S1"}, result.Failed)
	assert.Equal(t, []string{"S2"}, result.Assignments["stage-a"])
	assert.Equal(t, []string{"S3"}, result.Assignments["stage-b"])
}

func TestDistributeDeclined(t *testing.T) {
	mgr, plane, confirm := setupManager(t, &Config{
		Networks: []Network{{Name: "stage-a", ID: "N_100"}},
	})

	plane.EXPECT().Devices(gomock.Any(), "N_100").Return([]models.Device{
		stagedGateway("Q2XX-0001", ""),
	}, nil)

	confirm.EXPECT().Confirm(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, prompt string) (bool, error) {
			assert.Contains(t, prompt, "stage-a: 1/2 slots used")
			return false, nil
		})

	result, err := mgr.Distribute(context.Background(), []string{"S1"})
	require.ErrorIs(t, err, ErrDeclined)

	assert.Empty(t, result.Assignments)
	assert.Equal(t, []string{"S1"}, result.Unassigned)
}

func TestRemove(t *testing.T) {
	mgr, plane, _ := setupManager(t, threeStagingNetworks())

	plane.EXPECT().RemoveDevice(gomock.Any(), "N_200", "S1").Return(nil)
	plane.EXPECT().RemoveDevice(gomock.Any(), "N_200", "S2").Return(errors.New("remove failed"))

	result, err := mgr.Remove(context.Background(), "stage-b", []string{"S1", "S2"})
	require.NoError(t, err)

	assert.Equal(t, []string{"S1"}, result.Removed)
	assert.Equal(t, []string{"S2"}, result.Failed)
}

func TestRemoveByRawNetworkID(t *testing.T) {
	mgr, plane, _ := setupManager(t, threeStagingNetworks())

	plane.EXPECT().RemoveDevice(gomock.Any(), "N_999", "S1").Return(nil)

	result, err := mgr.Remove(context.Background(), "N_999", []string{"S1"})
	require.NoError(t, err)
	assert.Equal(t, []string{"S1"}, result.Removed)
}

func TestRemoveUnknownNetwork(t *testing.T) {
	mgr, _, _ := setupManager(t, threeStagingNetworks())

	_, err := mgr.Remove(context.Background(), "nonsense", []string{"S1"})
	require.ErrorIs(t, err, ErrUnknownNetwork)
}

func TestClear(t *testing.T) {
	mgr, plane, confirm := setupManager(t, threeStagingNetworks())

	plane.EXPECT().Devices(gomock.Any(), "N_100").Return([]models.Device{
		stagedGateway("X1", ""),
		stagedGateway("X2", ""),
	}, nil)
	plane.EXPECT().Devices(gomock.Any(), "N_200").Return(nil, nil)
	plane.EXPECT().Devices(gomock.Any(), "N_300").Return([]models.Device{
		stagedGateway("X3", ""),
	}, nil)

	confirm.EXPECT().Confirm(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, prompt string) (bool, error) {
			assert.Contains(t, prompt, "ALL 3 staged devices")
			return true, nil
		})

	plane.EXPECT().RemoveDevice(gomock.Any(), "N_100", "X1").Return(nil)
	plane.EXPECT().RemoveDevice(gomock.Any(), "N_100", "X2").Return(nil)
	plane.EXPECT().RemoveDevice(gomock.Any(), "N_300", "X3").Return(errors.New("remove failed"))

	result, err := mgr.Clear(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, result.Removed)
	assert.Equal(t, 1, result.Failed)
	assert.Len(t, result.Networks, 2)
	assert.Equal(t, []string{"X3"}, result.Networks["stage-c"].Failed)
}

func TestClearNothingStaged(t *testing.T) {
	mgr, plane, _ := setupManager(t, threeStagingNetworks())

	plane.EXPECT().Devices(gomock.Any(), gomock.Any()).Return(nil, nil).Times(3)

	result, err := mgr.Clear(context.Background())
	require.NoError(t, err)

	assert.Zero(t, result.Removed)
	assert.Zero(t, result.Failed)
}

func TestClearDeclined(t *testing.T) {
	mgr, plane, confirm := setupManager(t, threeStagingNetworks())

	plane.EXPECT().Devices(gomock.Any(), "N_100").Return([]models.Device{
		stagedGateway("X1", ""),
	}, nil)
	plane.EXPECT().Devices(gomock.Any(), "N_200").Return(nil, nil)
	plane.EXPECT().Devices(gomock.Any(), "N_300").Return(nil, nil)

	confirm.EXPECT().Confirm(gomock.Any(), gomock.Any()).Return(false, nil)

	_, err := mgr.Clear(context.Background())
	require.ErrorIs(t, err, ErrDeclined)
}

func TestConfirmerFunc(t *testing.T) {
	called := false

	fn := ConfirmerFunc(func(_ context.Context, _ string) (bool, error) {
		called = true
		return true, nil
	})

	ok, err := fn.Confirm(context.Background(), "proceed?")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, called)
}
