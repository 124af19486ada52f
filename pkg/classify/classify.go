// Package classify sorts site devices into refresh categories by model
// prefix.
package classify

import (
	"strings"

	"github.com/branchfleet/netrefresh/pkg/logger"
	"github.com/branchfleet/netrefresh/pkg/models"
)

// Category is a device's disposition relative to a refresh run.
type Category int

const (
	// Unclassified devices are left alone.
	Unclassified Category = iota
	// Preserved devices survive the refresh and keep their assignments.
	Preserved
	// Retirable devices belong to the outgoing generation and are removed.
	Retirable
)

func (c Category) String() string {
	switch c {
	case Preserved:
		return "preserved"
	case Retirable:
		return "retirable"
	default:
		return "unclassified"
	}
}

// Config holds the classification rule set. Empty fields fall back to
// the compiled-in defaults.
type Config struct {
	PreservedModelPrefixes []string `json:"preserved_model_prefixes,omitempty"`
	RetirableModelPrefixes []string `json:"retirable_model_prefixes,omitempty"`
	LegacyPreservedNames   []string `json:"legacy_preserved_names,omitempty"`
}

// Validate implements config.Validator, filling defaults.
func (c *Config) Validate() error {
	if len(c.PreservedModelPrefixes) == 0 {
		c.PreservedModelPrefixes = []string{"MS120", "MS130"}
	}

	if len(c.RetirableModelPrefixes) == 0 {
		c.RetirableModelPrefixes = []string{"MX64", "MR33", "MR36", "CW9162"}
	}

	if len(c.LegacyPreservedNames) == 0 {
		c.LegacyPreservedNames = []string{"MS120-A", "MS120-B", "MS130-A", "MS130-B"}
	}

	return nil
}

// Classifier applies the configured model-prefix rules. Matching is
// case-insensitive; preserved wins when the rule lists overlap.
type Classifier struct {
	preserved   []string
	retirable   []string
	legacyNames map[string]struct{}
}

// New builds a Classifier from config. Overlapping prefix lists are a
// configuration mistake and produce a single warning.
func New(config *Config, log logger.Logger) *Classifier {
	if config == nil {
		config = &Config{}
	}

	_ = config.Validate()

	c := &Classifier{
		preserved:   upperAll(config.PreservedModelPrefixes),
		retirable:   upperAll(config.RetirableModelPrefixes),
		legacyNames: make(map[string]struct{}, len(config.LegacyPreservedNames)),
	}

	for _, name := range config.LegacyPreservedNames {
		c.legacyNames[strings.ToUpper(name)] = struct{}{}
	}

	for _, p := range c.preserved {
		for _, r := range c.retirable {
			if p == r {
				log.Warn().
					Str("prefix", p).
					Msg("Model prefix listed as both preserved and retirable, treating as preserved")
			}
		}
	}

	return c
}

// Classify categorizes a device. Serials present in added were claimed
// during the current run and are never Retirable, whatever their model.
func (c *Classifier) Classify(device *models.Device, added map[string]struct{}) Category {
	model := strings.ToUpper(device.Model)

	if matchesAny(model, c.preserved) {
		return Preserved
	}

	if matchesAny(model, c.retirable) {
		if _, justAdded := added[device.Serial]; justAdded {
			return Unclassified
		}

		return Retirable
	}

	return Unclassified
}

// IsLegacyPreservedName reports whether an assignment name belongs to
// the legacy preserved set, which keeps orphaned assignments alive
// during filtering.
func (c *Classifier) IsLegacyPreservedName(name string) bool {
	_, ok := c.legacyNames[strings.ToUpper(name)]
	return ok
}

// LegacyPreservedNames returns the configured legacy name set.
func (c *Classifier) LegacyPreservedNames() []string {
	names := make([]string, 0, len(c.legacyNames))
	for name := range c.legacyNames {
		names = append(names, name)
	}

	return names
}

// Product-family helpers. The model prefix encodes the family: MX
// security gateways, MR/CW access points, MS switches, MT sensors.

func IsGateway(model string) bool {
	return strings.HasPrefix(strings.ToUpper(model), "MX")
}

func IsAccessPoint(model string) bool {
	upper := strings.ToUpper(model)
	return strings.HasPrefix(upper, "MR") || strings.HasPrefix(upper, "CW")
}

func IsSwitch(model string) bool {
	return strings.HasPrefix(strings.ToUpper(model), "MS")
}

func IsSensor(model string) bool {
	return strings.HasPrefix(strings.ToUpper(model), "MT")
}

func matchesAny(model string, prefixes []string) bool {
	for _, prefix := range prefixes {
		if strings.HasPrefix(model, prefix) {
			return true
		}
	}

	return false
}

func upperAll(values []string) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = strings.ToUpper(v)
	}

	return out
}
