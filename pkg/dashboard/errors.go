package dashboard

import "errors"

var (
	// ErrNotFound indicates the control plane has no such resource.
	ErrNotFound = errors.New("resource not found")

	// ErrNetworkNotFound indicates no network matched the requested name.
	ErrNetworkNotFound = errors.New("network not found")

	// ErrTemplateNotFound indicates no template matched the requested name.
	ErrTemplateNotFound = errors.New("template not found")

	errUnexpectedStatusCode = errors.New("unexpected status code")
	errEndpointRequired     = errors.New("dashboard endpoint is required")
	errOrgIDRequired        = errors.New("dashboard org_id is required")
	errAPIKeyRequired       = errors.New("dashboard api key is required")
)
