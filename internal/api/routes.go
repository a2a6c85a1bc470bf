// Package api defines the Huma API routes and handlers.
package api

import (
	"context"
	"errors"
	"log/slog"

	"github.com/danielgtaylor/huma/v2"

	"github.com/joeblew999/plat-legend/internal/legend"
	"github.com/joeblew999/plat-legend/internal/service"
)

// Version is reported by the health and info endpoints.
const Version = "0.1.0"

// Services holds the service dependencies for API handlers.
type Services struct {
	Layer   *service.LayerService
	DataDir string
}

// Types

type IDInput struct {
	ID string `path:"id" doc:"Layer ID" example:"light_units"`
}

type LayerOutput struct {
	Body service.LayerConfig
}

type LayersOutput struct {
	Body map[string]service.LayerConfig
}

type LegendOutput struct {
	Body service.LegendInfo
}

type MessageBody struct {
	Message string `json:"message" doc:"Result message"`
}

type CreatedLayerBody struct {
	ID      string              `json:"id" doc:"Generated layer ID"`
	Layer   service.LayerConfig `json:"layer" doc:"Created layer configuration"`
	Message string              `json:"message" doc:"Result message"`
}

type HealthBody struct {
	Status  string `json:"status" doc:"Health status" example:"ok"`
	Version string `json:"version" doc:"API version" example:"0.1.0"`
}

type InfoBody struct {
	Name     string   `json:"name" doc:"Service name"`
	Version  string   `json:"version" doc:"Service version"`
	DataDir  string   `json:"data_dir" doc:"Data directory path"`
	Layers   int      `json:"layers" doc:"Number of stored layers"`
	Features []string `json:"features" doc:"Available features"`
}

type StyleInput struct {
	File string `query:"file" required:"true" doc:"SLD file name" example:"LightUnit_Unit_Type.xml"`
}

type StyleBody struct {
	File  string `json:"file" doc:"SLD file name"`
	Style string `json:"style" doc:"WMS STYLE value" example:"Unit Type"`
}

type SLDFileInput struct {
	Style  string `query:"style" required:"true" doc:"WMS STYLE value" example:"Unit Type"`
	Layers string `query:"layers" required:"true" doc:"WMS LAYERS value" example:"LightUnit"`
}

type SLDFileBody struct {
	File string `json:"file" doc:"SLD file name" example:"LightUnit_Unit_Type.xml"`
}

// APIHandler holds all REST API handlers. Methods named Register* are
// auto-discovered by huma.AutoRegister.
type APIHandler struct {
	svc    *Services
	logger *slog.Logger
}

func NewAPIHandler(svc *Services, logger *slog.Logger) *APIHandler {
	return &APIHandler{svc: svc, logger: logger}
}

// RegisterRoutes registers every API route on api.
func RegisterRoutes(api huma.API, svc *Services, logger *slog.Logger) {
	huma.AutoRegister(api, NewAPIHandler(svc, logger))
}

// RegisterHealth registers health and info routes.
func (h *APIHandler) RegisterHealth(api huma.API) {
	huma.Get(api, "/health", h.GetHealth, huma.OperationTags("health"))
	huma.Get(api, "/api/v1/info", h.GetInfo, huma.OperationTags("health"))
}

// RegisterLayers registers layer CRUD routes.
func (h *APIHandler) RegisterLayers(api huma.API) {
	huma.Get(api, "/api/v1/layers", h.GetLayers, huma.OperationTags("layers"))
	huma.Post(api, "/api/v1/layers", h.CreateLayer, huma.OperationTags("layers"))
	huma.Get(api, "/api/v1/layers/{id}", h.GetLayer, huma.OperationTags("layers"))
	huma.Put(api, "/api/v1/layers/{id}", h.PutLayer, huma.OperationTags("layers"))
	huma.Delete(api, "/api/v1/layers/{id}", h.DeleteLayer, huma.OperationTags("layers"))
}

// RegisterLegend registers GetLegendGraphic and SLD naming routes.
func (h *APIHandler) RegisterLegend(api huma.API) {
	huma.Get(api, "/api/v1/layers/{id}/legend", h.GetLayerLegend, huma.OperationTags("legend"))
	huma.Post(api, "/api/v1/legend", h.BuildLegend, huma.OperationTags("legend"))
	huma.Get(api, "/api/v1/sld/style", h.GetStyle, huma.OperationTags("sld"))
	huma.Get(api, "/api/v1/sld/file", h.GetSLDFile, huma.OperationTags("sld"))
}

// Handlers

func (h *APIHandler) GetHealth(ctx context.Context, input *struct{}) (*struct{ Body HealthBody }, error) {
	return &struct{ Body HealthBody }{Body: HealthBody{Status: "ok", Version: Version}}, nil
}

func (h *APIHandler) GetInfo(ctx context.Context, input *struct{}) (*struct{ Body InfoBody }, error) {
	body := InfoBody{
		Name:     "plat-legend",
		Version:  Version,
		Features: []string{"wms", "vt", "wfs", "sld"},
	}
	if h.svc != nil {
		body.DataDir = h.svc.DataDir
		if h.svc.Layer != nil {
			body.Layers = len(h.svc.Layer.List())
		}
	}
	return &struct{ Body InfoBody }{Body: body}, nil
}

func (h *APIHandler) GetLayers(ctx context.Context, input *struct{}) (*LayersOutput, error) {
	if h.svc == nil || h.svc.Layer == nil {
		return &LayersOutput{Body: map[string]service.LayerConfig{}}, nil
	}
	return &LayersOutput{Body: h.svc.Layer.List()}, nil
}

func (h *APIHandler) CreateLayer(ctx context.Context, input *struct{ Body service.LayerConfig }) (*struct{ Body CreatedLayerBody }, error) {
	if h.svc == nil || h.svc.Layer == nil {
		return nil, huma.Error503ServiceUnavailable("service not available")
	}
	created, err := h.svc.Layer.Create(input.Body)
	if err != nil {
		return nil, h.toHumaError(err)
	}
	return &struct{ Body CreatedLayerBody }{Body: CreatedLayerBody{
		ID: created.ID, Layer: created, Message: "Layer created",
	}}, nil
}

func (h *APIHandler) GetLayer(ctx context.Context, input *IDInput) (*LayerOutput, error) {
	if h.svc == nil || h.svc.Layer == nil {
		return nil, huma.Error503ServiceUnavailable("service not available")
	}
	layer, ok := h.svc.Layer.Get(input.ID)
	if !ok {
		return nil, huma.Error404NotFound("layer not found")
	}
	return &LayerOutput{Body: layer}, nil
}

func (h *APIHandler) PutLayer(ctx context.Context, input *struct {
	IDInput
	Body service.LayerConfig
}) (*LayerOutput, error) {
	if h.svc == nil || h.svc.Layer == nil {
		return nil, huma.Error503ServiceUnavailable("service not available")
	}
	updated, err := h.svc.Layer.Update(input.ID, input.Body)
	if err != nil {
		return nil, h.toHumaError(err)
	}
	return &LayerOutput{Body: updated}, nil
}

func (h *APIHandler) DeleteLayer(ctx context.Context, input *IDInput) (*struct{ Body MessageBody }, error) {
	if h.svc == nil || h.svc.Layer == nil {
		return nil, huma.Error503ServiceUnavailable("service not available")
	}
	if err := h.svc.Layer.Delete(input.ID); err != nil {
		return nil, h.toHumaError(err)
	}
	return &struct{ Body MessageBody }{Body: MessageBody{Message: "Layer deleted"}}, nil
}

func (h *APIHandler) GetLayerLegend(ctx context.Context, input *IDInput) (*LegendOutput, error) {
	if h.svc == nil || h.svc.Layer == nil {
		return nil, huma.Error503ServiceUnavailable("service not available")
	}
	info, err := h.svc.Layer.LegendURL(input.ID)
	if err != nil {
		return nil, h.toHumaError(err)
	}
	return &LegendOutput{Body: info}, nil
}

// BuildLegend builds a legend URL for a layer that is not stored.
func (h *APIHandler) BuildLegend(ctx context.Context, input *struct{ Body legend.Layer }) (*LegendOutput, error) {
	u, ok := legend.GetLegendGraphicURL(input.Body)
	if !ok {
		h.logger.Debug("no legend for ad-hoc layer", "kind", input.Body.Kind)
		return nil, huma.Error422UnprocessableEntity("layer has no legend: url, layers or feature type missing")
	}
	return &LegendOutput{Body: service.LegendInfo{URL: u}}, nil
}

func (h *APIHandler) GetStyle(ctx context.Context, input *StyleInput) (*struct{ Body StyleBody }, error) {
	return &struct{ Body StyleBody }{Body: StyleBody{
		File:  input.File,
		Style: legend.StyleFromSLDFile(input.File),
	}}, nil
}

func (h *APIHandler) GetSLDFile(ctx context.Context, input *SLDFileInput) (*struct{ Body SLDFileBody }, error) {
	return &struct{ Body SLDFileBody }{Body: SLDFileBody{
		File: legend.SLDFileFromStyle(input.Style, input.Layers),
	}}, nil
}

// toHumaError maps service errors to HTTP errors.
func (h *APIHandler) toHumaError(err error) error {
	switch {
	case errors.Is(err, service.ErrLayerNotFound), errors.Is(err, service.ErrNoLegend):
		return huma.Error404NotFound(err.Error())
	case errors.Is(err, service.ErrLayerExists):
		return huma.Error409Conflict(err.Error())
	case errors.Is(err, service.ErrInvalidLayer):
		return huma.Error422UnprocessableEntity(err.Error())
	}
	h.logger.Error("layer operation failed", "error", err)
	return huma.Error500InternalServerError("layer operation failed", err)
}
