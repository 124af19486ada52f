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

package models

import (
	"errors"
	"fmt"
)

var (
	errPlanSiteRequired   = errors.New("refresh plan: site is required")
	errPlanSerialRequired = errors.New("refresh plan: serial is required")
	errPlanAPIPRequired   = errors.New("refresh plan: access point ip is required")
)

// PlannedDevice is one device to claim into the site during a refresh.
type PlannedDevice struct {
	Serial string `json:"serial"`
	Name   string `json:"name,omitempty"`
}

// APAssignment is a planned fixed IP assignment for an access point.
// The device MAC is resolved from the serial at run time.
type APAssignment struct {
	Serial string `json:"serial"`
	IP     string `json:"ip"`
	Name   string `json:"name,omitempty"`
}

// RefreshPlan is the per-site input to a refresh run. Site is the only
// required field; phases with no matching plan data are skipped.
type RefreshPlan struct {
	Site         string            `json:"site"`
	Address      string            `json:"address,omitempty"`
	Add          []PlannedDevice   `json:"add,omitempty"`
	SwitchNames  map[string]string `json:"switchNames,omitempty"`
	SensorName   string            `json:"sensorName,omitempty"`
	AccessPoints []APAssignment    `json:"accessPoints,omitempty"`
}

// Validate implements config.Validator.
func (p *RefreshPlan) Validate() error {
	if p.Site == "" {
		return errPlanSiteRequired
	}

	for i, d := range p.Add {
		if d.Serial == "" {
			return fmt.Errorf("%w: add[%d]", errPlanSerialRequired, i)
		}
	}

	for i, ap := range p.AccessPoints {
		if ap.Serial == "" {
			return fmt.Errorf("%w: accessPoints[%d]", errPlanSerialRequired, i)
		}

		if ap.IP == "" {
			return fmt.Errorf("%w: accessPoints[%d]", errPlanAPIPRequired, i)
		}
	}

	return nil
}
