package cli

import "errors"

var (
	errUnknownCommand       = errors.New("unknown command")
	errUnknownStagingAction = errors.New("unknown staging action")
	errStagingActionNeeded  = errors.New("staging requires an action: capacity, add, remove or clear")
	errSiteRequired         = errors.New("-site is required")
	errPlanFileRequired     = errors.New("-plan or -site is required")
	errTemplateRequired     = errors.New("-template is required")
	errSerialsRequired      = errors.New("-serials is required")
	errNetworkRequired      = errors.New("-network is required")
	errTemplateNotFound     = errors.New("template not found")
	errPlanReadFailed       = errors.New("failed to read plan file")
	errPlanParseFailed      = errors.New("failed to parse plan file")
)
