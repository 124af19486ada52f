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

// Package switchmap plans switch identities for a site: target names
// and fixed IP addresses derived from role tokens and the site's
// subnet base.
package switchmap

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/branchfleet/netrefresh/pkg/models"
)

// ErrNoSubnetBase indicates the site's VLAN1 state carries neither a
// subnet nor any fixed assignment to derive the address base from.
var ErrNoSubnetBase = errors.New("cannot determine subnet base")

// Config carries the role-token to host-suffix rules. Defaults map SW1
// to .93 and SW2 to .89.
type Config struct {
	RoleSuffixes map[string]string `json:"role_suffixes,omitempty"`
}

// Validate implements config.Validator, filling defaults.
func (c *Config) Validate() error {
	if len(c.RoleSuffixes) == 0 {
		c.RoleSuffixes = map[string]string{
			"SW1": ".93",
			"SW2": ".89",
		}
	}

	return nil
}

// Plan is one switch's planned identity: the device it lands on and the
// name and fixed IP it should carry.
type Plan struct {
	Role       string
	Serial     string
	MAC        string
	TargetName string
	FixedIP    string
}

// Mapper computes switch plans from configured role rules.
type Mapper struct {
	suffixes map[string]string
	order    []string
}

func NewMapper(config *Config) *Mapper {
	if config == nil {
		config = &Config{}
	}

	_ = config.Validate()

	order := make([]string, 0, len(config.RoleSuffixes))
	for role := range config.RoleSuffixes {
		order = append(order, role)
	}

	sort.Strings(order)

	return &Mapper{suffixes: config.RoleSuffixes, order: order}
}

// Roles returns the configured role tokens in assignment order.
func (m *Mapper) Roles() []string {
	return append([]string(nil), m.order...)
}

// SubnetBase derives the "a.b.c" address base from VLAN1 state. The
// subnet field wins; with no subnet the lexicographically first fixed
// assignment's IP is used so the choice is deterministic.
func SubnetBase(vlan *models.Vlan) (string, error) {
	if vlan != nil && vlan.Subnet != "" {
		if base, ok := baseOfAddress(strings.Split(vlan.Subnet, "/")[0]); ok {
			return base, nil
		}
	}

	if vlan != nil && len(vlan.FixedAssignments) > 0 {
		macs := make([]string, 0, len(vlan.FixedAssignments))
		for mac := range vlan.FixedAssignments {
			macs = append(macs, mac)
		}

		sort.Strings(macs)

		for _, mac := range macs {
			if base, ok := baseOfAddress(vlan.FixedAssignments[mac].IP); ok {
				return base, nil
			}
		}
	}

	return "", ErrNoSubnetBase
}

// Plans matches preserved switches to role tokens in ordinal order: the
// first preserved switch takes the first role, the second the next.
// Roles with no matching device come back in the second return and are
// the caller's to report.
func (m *Mapper) Plans(switchNames map[string]string, switches []models.Device, base string) ([]Plan, []string) {
	var (
		plans   []Plan
		missing []string
	)

	for idx, role := range m.order {
		targetName, wanted := switchNames[role]
		if !wanted {
			continue
		}

		if idx >= len(switches) {
			missing = append(missing, fmt.Sprintf("%s (%s): no preserved switch at position %d", role, targetName, idx+1))
			continue
		}

		device := switches[idx]

		plans = append(plans, Plan{
			Role:       role,
			Serial:     device.Serial,
			MAC:        device.MAC,
			TargetName: targetName,
			FixedIP:    base + m.suffixes[role],
		})
	}

	for role, targetName := range switchNames {
		if _, known := m.suffixes[role]; !known {
			missing = append(missing, fmt.Sprintf("%s (%s): unknown role token", role, targetName))
		}
	}

	sort.Strings(missing)

	return plans, missing
}

// baseOfAddress returns the first three octets of a dotted-quad
// address.
func baseOfAddress(addr string) (string, bool) {
	parts := strings.Split(addr, ".")
	if len(parts) != 4 {
		return "", false
	}

	return strings.Join(parts[:3], "."), true
}
