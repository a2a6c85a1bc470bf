// Package legend builds WMS GetLegendGraphic request URLs for map layers and
// maps between WMS STYLE/LAYERS values and SLD file names.
//
// SLD files follow the convention LAYERS_STYLE.xml, where blanks in STYLE are
// written as underscores, e.g. LightUnit_Unit_Type.xml for layers "LightUnit"
// and style "Unit Type". A layer name containing an underscore cannot be told
// apart from the style words.
//
// All functions are pure and safe for concurrent use.
package legend

import (
	"net/url"
	"strings"
)

// legendParams are the fixed GetLegendGraphic parameters. MapServer serves
// WMS and WFS from the same configuration, so WFS layers use them as well.
const legendParams = "SERVICE=WMS&VERSION=1.3.0&REQUEST=GetLegendGraphic&" +
	"FORMAT=image%2Fpng&TRANSPARENT=TRUE&SLD_VERSION=1.1.0"

// GetLegendGraphicURL returns the GetLegendGraphic request URL for layer.
// It reports false when the layer kind is unknown or a required value
// (base URL, layers, feature type) is missing.
func GetLegendGraphicURL(layer Layer) (string, bool) {
	var base, layers, style string

	switch layer.Kind {
	case KindWMS, KindVT:
		base = layer.Source.BaseURL()
		style = layer.ActivatedStyle

		if layer.Kind == KindVT {
			base, layers = splitTileURL(base)
			if style != "" {
				style = StyleFromSLDFile(style)
			}
		} else {
			layers = layer.Source.Param("LAYERS")
		}

		if base == "" || layers == "" {
			return "", false
		}

		// Labels add the same layer twice, but LAYER takes a single layer.
		layers = UniqueLayersParam(layers)

	case KindWFS:
		base = layer.URL
		layers = layer.FeatureType
		if base == "" || layers == "" {
			return "", false
		}
		if layer.ActivatedStyle != "" {
			style = StyleFromSLDFile(layer.ActivatedStyle)
		}

	default:
		return "", false
	}

	var b strings.Builder
	b.WriteString(base)
	if !strings.HasSuffix(base, "?") && !strings.HasSuffix(base, "&") {
		b.WriteByte('?')
	}
	b.WriteString(legendParams)
	b.WriteString("&LAYER=")
	b.WriteString(layers)
	if style != "" {
		b.WriteString("&STYLE=")
		b.WriteString(style)
	}
	return b.String(), true
}

// splitTileURL lowercases a vector tile URL and splits it into the part
// before the query string and the value of its layers parameter. Repeated
// layers parameters are joined with commas.
func splitTileURL(raw string) (base, layers string) {
	base, query, _ := strings.Cut(strings.ToLower(raw), "?")

	// split on & only; url.ParseQuery would drop pairs containing ';'
	var values []string
	for _, pair := range strings.Split(query, "&") {
		key, value, _ := strings.Cut(pair, "=")
		if unescape(key) != "layers" {
			continue
		}
		if v := unescape(value); v != "" {
			values = append(values, v)
		}
	}
	return base, strings.Join(values, ",")
}

// unescape percent-decodes s, keeping it as is when the escape is malformed.
func unescape(s string) string {
	if u, err := url.PathUnescape(s); err == nil {
		return u
	}
	return s
}

// StyleFromSLDFile derives the WMS STYLE value from an SLD file name:
// LightUnit_Unit_Type.xml => "Unit Type".
func StyleFromSLDFile(fileName string) string {
	parts := strings.Split(strings.Replace(fileName, ".xml", "", 1), "_")
	// first segment is the LAYERS name
	return strings.Join(parts[1:], " ")
}

// SLDFileFromStyle derives the SLD file name from WMS STYLE and LAYERS values:
// "Unit Type", "LightUnit" => LightUnit_Unit_Type.xml.
//
// Only the first blank of style is replaced. Underscores are not escaped, so
// a style or layers name containing one does not survive a round trip through
// StyleFromSLDFile: "Unit Type", "Light_Unit" comes back as "Unit Unit Type".
func SLDFileFromStyle(style, layers string) string {
	return layers + "_" + strings.Replace(style, " ", "_", 1) + ".xml"
}

// UniqueLayers joins layer names with commas, dropping repeated names while
// keeping the order of first occurrence.
func UniqueLayers(layers []string) string {
	seen := make(map[string]struct{}, len(layers))
	unique := make([]string, 0, len(layers))
	for _, l := range layers {
		if _, ok := seen[l]; ok {
			continue
		}
		seen[l] = struct{}{}
		unique = append(unique, l)
	}
	return strings.Join(unique, ",")
}

// UniqueLayersParam removes duplicate names from a WMS LAYERS value such as
// "layer1,layer2,layer1".
func UniqueLayersParam(layers string) string {
	return UniqueLayers(strings.Split(layers, ","))
}
