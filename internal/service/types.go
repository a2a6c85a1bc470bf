// Package service contains business logic for the plat-legend service.
package service

import "github.com/joeblew999/plat-legend/internal/legend"

// LayerConfig is a stored map layer. The embedded legend.Layer carries what
// the legend builder reads; Huma reads the tags for OpenAPI + validation.
type LayerConfig struct {
	ID           string `json:"id,omitempty" yaml:"id,omitempty" doc:"Unique layer identifier" example:"light_units"`
	Name         string `json:"name" yaml:"name" required:"true" minLength:"1" maxLength:"100" doc:"Display name" example:"Light Units"`
	legend.Layer `yaml:",inline"`
}

// LegendInfo is the resolved legend request for a layer.
type LegendInfo struct {
	LayerID string `json:"layerId,omitempty" doc:"Layer identifier"`
	URL     string `json:"url" doc:"GetLegendGraphic request URL"`
}
