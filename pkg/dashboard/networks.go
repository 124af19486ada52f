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

// Networks lists the organization's site networks.
func (c *Client) Networks(ctx context.Context) ([]models.Network, error) {
	var networks []models.Network

	path := fmt.Sprintf("/organizations/%s/networks", c.Config.OrgID)
	if err := c.do(ctx, http.MethodGet, path, nil, &networks); err != nil {
		return nil, err
	}

	return networks, nil
}

// NetworkByName resolves a site network by exact name match.
func (c *Client) NetworkByName(ctx context.Context, name string) (*models.Network, error) {
	networks, err := c.Networks(ctx)
	if err != nil {
		return nil, err
	}

	for i := range networks {
		if networks[i].Name == name {
			return &networks[i], nil
		}
	}

	return nil, fmt.Errorf("%w: %s", ErrNetworkNotFound, name)
}

// Templates lists the organization's configuration templates.
func (c *Client) Templates(ctx context.Context) ([]models.Template, error) {
	var templates []models.Template

	path := fmt.Sprintf("/organizations/%s/configTemplates", c.Config.OrgID)
	if err := c.do(ctx, http.MethodGet, path, nil, &templates); err != nil {
		return nil, err
	}

	return templates, nil
}

// TemplateByName resolves a configuration template by exact name match.
func (c *Client) TemplateByName(ctx context.Context, name string) (*models.Template, error) {
	templates, err := c.Templates(ctx)
	if err != nil {
		return nil, err
	}

	for i := range templates {
		if templates[i].Name == name {
			return &templates[i], nil
		}
	}

	return nil, fmt.Errorf("%w: %s", ErrTemplateNotFound, name)
}

// BindTemplate binds a network to a configuration template without
// auto-binding switch profiles.
func (c *Client) BindTemplate(ctx context.Context, networkID, templateID string) error {
	body := bindRequest{ConfigTemplateID: templateID, AutoBind: false}

	return c.do(ctx, http.MethodPost, fmt.Sprintf("/networks/%s/bind", networkID), &body, nil)
}

// UnbindTemplate unbinds a network from its configuration template.
func (c *Client) UnbindTemplate(ctx context.Context, networkID string, retainConfigs bool) error {
	body := unbindRequest{RetainConfigs: retainConfigs}

	return c.do(ctx, http.MethodPost, fmt.Sprintf("/networks/%s/unbind", networkID), &body, nil)
}
