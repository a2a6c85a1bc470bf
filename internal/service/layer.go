package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/joeblew999/plat-legend/internal/legend"
)

var (
	ErrLayerNotFound = errors.New("layer not found")
	ErrLayerExists   = errors.New("layer already exists")
	ErrInvalidLayer  = errors.New("invalid layer")
	ErrNoLegend      = errors.New("layer has no legend")
)

// LayerService manages layer configurations.
type LayerService struct {
	dataDir string
	logger  *slog.Logger
	layers  map[string]LayerConfig
	mu      sync.RWMutex
}

// NewLayerService creates a new layer service backed by dataDir/layers.json.
func NewLayerService(dataDir string, logger *slog.Logger) *LayerService {
	s := &LayerService{
		dataDir: dataDir,
		logger:  logger,
		layers:  make(map[string]LayerConfig),
	}
	s.loadFromDisk()
	return s
}

// List returns all layer configurations.
func (s *LayerService) List() map[string]LayerConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make(map[string]LayerConfig, len(s.layers))
	for k, v := range s.layers {
		result[k] = v
	}
	return result
}

// Get returns a layer by ID.
func (s *LayerService) Get(id string) (LayerConfig, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	layer, ok := s.layers[id]
	return layer, ok
}

// Create adds a new layer configuration.
func (s *LayerService) Create(layer LayerConfig) (LayerConfig, error) {
	if err := Validate(layer); err != nil {
		return LayerConfig{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Generate ID from name if not provided
	if layer.ID == "" {
		layer.ID = generateID(layer.Name)
	}
	if layer.ID == "" {
		return LayerConfig{}, fmt.Errorf("%w: name %q yields an empty id", ErrInvalidLayer, layer.Name)
	}

	if _, exists := s.layers[layer.ID]; exists {
		return LayerConfig{}, fmt.Errorf("%w: %q", ErrLayerExists, layer.ID)
	}

	s.layers[layer.ID] = layer
	if err := s.saveToDisk(); err != nil {
		delete(s.layers, layer.ID)
		return LayerConfig{}, err
	}

	s.logger.Info("layer created", "id", layer.ID, "kind", layer.Kind)
	return layer, nil
}

// Update replaces a layer configuration by ID.
func (s *LayerService) Update(id string, layer LayerConfig) (LayerConfig, error) {
	if err := Validate(layer); err != nil {
		return LayerConfig{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	prev, exists := s.layers[id]
	if !exists {
		return LayerConfig{}, fmt.Errorf("%w: %q", ErrLayerNotFound, id)
	}

	layer.ID = id
	s.layers[id] = layer
	if err := s.saveToDisk(); err != nil {
		s.layers[id] = prev
		return LayerConfig{}, err
	}

	s.logger.Info("layer updated", "id", id, "kind", layer.Kind)
	return layer, nil
}

// Delete removes a layer by ID.
func (s *LayerService) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, exists := s.layers[id]
	if !exists {
		return fmt.Errorf("%w: %q", ErrLayerNotFound, id)
	}

	delete(s.layers, id)
	if err := s.saveToDisk(); err != nil {
		s.layers[id] = prev
		return err
	}

	s.logger.Info("layer deleted", "id", id)
	return nil
}

// LegendURL returns the GetLegendGraphic request URL of a stored layer.
func (s *LayerService) LegendURL(id string) (LegendInfo, error) {
	layer, ok := s.Get(id)
	if !ok {
		return LegendInfo{}, fmt.Errorf("%w: %q", ErrLayerNotFound, id)
	}

	u, ok := legend.GetLegendGraphicURL(layer.Layer)
	if !ok {
		s.logger.Debug("no legend for layer", "id", id, "kind", layer.Kind)
		return LegendInfo{}, fmt.Errorf("%w: %q", ErrNoLegend, id)
	}
	return LegendInfo{LayerID: id, URL: u}, nil
}

// Validate checks that a layer has a known kind and the fields that kind
// needs to be addressed at all. Missing LAYERS or styles are not errors; such
// layers simply have no legend.
func Validate(layer LayerConfig) error {
	if strings.TrimSpace(layer.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidLayer)
	}
	if !layer.Kind.Valid() {
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidLayer, layer.Kind)
	}
	if layer.Kind == legend.KindWFS && layer.URL == "" {
		return fmt.Errorf("%w: wfs layer needs a url", ErrInvalidLayer)
	}
	return nil
}

// configFile returns the path to the layers config file.
func (s *LayerService) configFile() string {
	return filepath.Join(s.dataDir, "layers.json")
}

// loadFromDisk loads layer configurations from disk.
func (s *LayerService) loadFromDisk() {
	data, err := os.ReadFile(s.configFile())
	if err != nil {
		return // File doesn't exist yet, start empty
	}

	var layers map[string]LayerConfig
	if err := json.Unmarshal(data, &layers); err != nil {
		s.logger.Warn("ignoring unreadable layer store", "path", s.configFile(), "error", err)
		return
	}
	if layers != nil {
		s.layers = layers
	}
}

// saveToDisk persists layer configurations to disk.
func (s *LayerService) saveToDisk() error {
	if err := os.MkdirAll(s.dataDir, 0755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	data, err := json.MarshalIndent(s.layers, "", "  ")
	if err != nil {
		return err
	}

	if err := os.WriteFile(s.configFile(), data, 0644); err != nil {
		return fmt.Errorf("write layer store: %w", err)
	}
	return nil
}

// generateID creates a URL-safe ID from a name.
func generateID(name string) string {
	id := strings.ToLower(name)
	id = strings.ReplaceAll(id, " ", "_")
	var result strings.Builder
	for _, r := range id {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' {
			result.WriteRune(r)
		}
	}
	return result.String()
}
