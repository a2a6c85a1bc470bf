package legend

import (
	"sort"
	"strings"
)

// Kind selects which service a layer is served by.
type Kind string

const (
	KindWMS Kind = "wms"
	KindVT  Kind = "vt"
	KindWFS Kind = "wfs"
)

// Valid reports whether k is one of the known layer kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindWMS, KindVT, KindWFS:
		return true
	}
	return false
}

// Source describes where a WMS or vector tile layer is served from.
// Tiled sources list several URLs, single image sources have one URL.
type Source struct {
	URLs   []string          `json:"urls,omitempty" yaml:"urls,omitempty" doc:"Candidate service URLs, the first one is used"`
	URL    string            `json:"url,omitempty" yaml:"url,omitempty" doc:"Single service URL, used when urls is empty"`
	Params map[string]string `json:"params,omitempty" yaml:"params,omitempty" doc:"WMS request parameters, e.g. LAYERS"`
}

// BaseURL returns the first of URLs, or URL when there is no list.
func (s Source) BaseURL() string {
	if len(s.URLs) > 0 {
		return s.URLs[0]
	}
	return s.URL
}

// Param returns the request parameter with the given name, ignoring case.
// An exact match wins; among other case variants the first key in sorted
// order is used.
func (s Source) Param(name string) string {
	if v, ok := s.Params[name]; ok {
		return v
	}
	keys := make([]string, 0, len(s.Params))
	for k := range s.Params {
		if strings.EqualFold(k, name) {
			keys = append(keys, k)
		}
	}
	if len(keys) == 0 {
		return ""
	}
	sort.Strings(keys)
	return s.Params[keys[0]]
}

// Layer is a map layer as seen by the legend builder.
//
// WMS and VT layers are resolved through Source; WFS layers use URL and
// FeatureType directly. ActivatedStyle holds the WMS style for WMS layers
// and the SLD file name for VT and WFS layers.
type Layer struct {
	Kind           Kind   `json:"kind" yaml:"kind" enum:"wms,vt,wfs" doc:"Layer service kind" example:"wms"`
	Source         Source `json:"source,omitempty" yaml:"source,omitempty" doc:"WMS or vector tile source"`
	URL            string `json:"url,omitempty" yaml:"url,omitempty" doc:"WFS service URL"`
	FeatureType    string `json:"featureType,omitempty" yaml:"featureType,omitempty" doc:"WFS feature type" example:"LightUnit"`
	ActivatedStyle string `json:"activatedStyle,omitempty" yaml:"activatedStyle,omitempty" doc:"Active style or SLD file name" example:"LightUnit_Unit_Type.xml"`
}
