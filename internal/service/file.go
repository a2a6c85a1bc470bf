package service

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LayerFile is the YAML layout read by the CLI:
//
//	layers:
//	  - name: Light Units
//	    kind: wfs
//	    url: http://host/mapserver
//	    featureType: LightUnit
//	    activatedStyle: LightUnit_Unit_Type.xml
type LayerFile struct {
	Layers []LayerConfig `yaml:"layers"`
}

// LoadLayerFile reads layer descriptors from a YAML file.
func LoadLayerFile(path string) ([]LayerConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read layer file: %w", err)
	}
	return ParseLayerFile(data)
}

// ParseLayerFile decodes layer descriptors from YAML.
func ParseLayerFile(data []byte) ([]LayerConfig, error) {
	var f LayerFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse layer file: %w", err)
	}
	for i, l := range f.Layers {
		if err := Validate(l); err != nil {
			return nil, fmt.Errorf("layer %d (%s): %w", i, l.Name, err)
		}
	}
	return f.Layers, nil
}
