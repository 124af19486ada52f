package dashboard

import "github.com/branchfleet/netrefresh/pkg/models"

// Wire payloads for control-plane requests.

type claimRequest struct {
	Serials []string `json:"serials"`
}

type removeRequest struct {
	Serial string `json:"serial"`
}

type bindRequest struct {
	ConfigTemplateID string `json:"configTemplateId"`
	AutoBind         bool   `json:"autoBind"`
}

type unbindRequest struct {
	RetainConfigs bool `json:"retainConfigs"`
}

// uplinkSettingsResponse wraps the uplink interfaces object the control
// plane nests under "interfaces".
type uplinkSettingsResponse struct {
	Interfaces *models.UplinkSettings `json:"interfaces"`
}

type managementWan struct {
	WanEnabled string `json:"wanEnabled,omitempty"`
}

type managementInterface struct {
	WAN1 *managementWan `json:"wan1,omitempty"`
	WAN2 *managementWan `json:"wan2,omitempty"`
}

func (m *managementInterface) port(name string) *managementWan {
	switch name {
	case "wan1":
		return m.WAN1
	case "wan2":
		return m.WAN2
	default:
		return nil
	}
}

func (m *managementInterface) setPort(name string, wan *managementWan) {
	switch name {
	case "wan1":
		m.WAN1 = wan
	case "wan2":
		m.WAN2 = wan
	}
}
