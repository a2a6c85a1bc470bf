package api

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joeblew999/plat-legend/internal/logging"
	"github.com/joeblew999/plat-legend/internal/service"
)

const fixedParams = "SERVICE=WMS&VERSION=1.3.0&REQUEST=GetLegendGraphic&FORMAT=image%2Fpng&TRANSPARENT=TRUE&SLD_VERSION=1.1.0"

func newTestAPI(t *testing.T) humatest.TestAPI {
	t.Helper()

	cfg := huma.DefaultConfig("plat-legend test", Version)
	cfg.Transformers = append(cfg.Transformers, LinkTransformer())
	_, api := humatest.New(t, cfg)

	logger := logging.Discard()
	dir := t.TempDir()
	RegisterRoutes(api, &Services{
		Layer:   service.NewLayerService(dir, logger),
		DataDir: dir,
	}, logger)
	return api
}

func decode(t *testing.T, body []byte, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(body, v))
}

func TestHealth(t *testing.T) {
	t.Parallel()
	api := newTestAPI(t)

	resp := api.Get("/health")
	require.Equal(t, http.StatusOK, resp.Code)

	var body HealthBody
	decode(t, resp.Body.Bytes(), &body)
	assert.Equal(t, "ok", body.Status)
	assert.Equal(t, Version, body.Version)
	assert.Contains(t, resp.Header().Values("Link"), `</api/v1/layers>; rel="layers"`)
}

func TestInfo(t *testing.T) {
	t.Parallel()
	api := newTestAPI(t)

	resp := api.Get("/api/v1/info")
	require.Equal(t, http.StatusOK, resp.Code)

	var body InfoBody
	decode(t, resp.Body.Bytes(), &body)
	assert.Equal(t, "plat-legend", body.Name)
	assert.Equal(t, 0, body.Layers)
	assert.NotEmpty(t, body.DataDir)
}

func TestLayerLifecycle(t *testing.T) {
	t.Parallel()
	api := newTestAPI(t)

	resp := api.Post("/api/v1/layers", map[string]any{
		"name": "Roads",
		"kind": "wms",
		"source": map[string]any{
			"url":    "http://host/geoserver/wms",
			"params": map[string]string{"LAYERS": "a,b,a"},
		},
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var created CreatedLayerBody
	decode(t, resp.Body.Bytes(), &created)
	assert.Equal(t, "roads", created.ID)

	resp = api.Get("/api/v1/layers/roads")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Header().Values("Link"), `</api/v1/layers/roads>; rel="self"`)
	assert.Contains(t, resp.Header().Values("Link"), `</api/v1/layers/roads/legend>; rel="legend"`)

	resp = api.Get("/api/v1/layers/roads/legend")
	require.Equal(t, http.StatusOK, resp.Code)
	var info service.LegendInfo
	decode(t, resp.Body.Bytes(), &info)
	assert.Equal(t, "roads", info.LayerID)
	assert.Equal(t, "http://host/geoserver/wms?"+fixedParams+"&LAYER=a,b", info.URL)

	resp = api.Post("/api/v1/layers", map[string]any{"name": "Roads", "kind": "wms"})
	assert.Equal(t, http.StatusConflict, resp.Code)

	resp = api.Put("/api/v1/layers/roads", map[string]any{
		"name":        "Roads",
		"kind":        "wfs",
		"url":         "http://host/mapserver",
		"featureType": "Roads",
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	resp = api.Get("/api/v1/layers")
	require.Equal(t, http.StatusOK, resp.Code)
	var layers map[string]service.LayerConfig
	decode(t, resp.Body.Bytes(), &layers)
	require.Contains(t, layers, "roads")
	assert.Equal(t, "Roads", layers["roads"].FeatureType)

	resp = api.Delete("/api/v1/layers/roads")
	require.Equal(t, http.StatusOK, resp.Code)

	resp = api.Get("/api/v1/layers/roads")
	assert.Equal(t, http.StatusNotFound, resp.Code)
	resp = api.Get("/api/v1/layers/roads/legend")
	assert.Equal(t, http.StatusNotFound, resp.Code)
	resp = api.Delete("/api/v1/layers/roads")
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestCreateLayer_Invalid(t *testing.T) {
	t.Parallel()
	api := newTestAPI(t)

	resp := api.Post("/api/v1/layers", map[string]any{"name": "Units", "kind": "wfs"})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)

	resp = api.Post("/api/v1/layers", map[string]any{"name": "Units", "kind": "tms"})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
}

func TestLayerLegend_NoLegend(t *testing.T) {
	t.Parallel()
	api := newTestAPI(t)

	resp := api.Post("/api/v1/layers", map[string]any{
		"name":   "Bare",
		"kind":   "wms",
		"source": map[string]any{"url": "http://host/wms"},
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	resp = api.Get("/api/v1/layers/bare/legend")
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestBuildLegend(t *testing.T) {
	t.Parallel()
	api := newTestAPI(t)

	resp := api.Post("/api/v1/legend", map[string]any{
		"kind":           "wfs",
		"url":            "http://host/mapserver?",
		"featureType":    "LightUnit",
		"activatedStyle": "LightUnit_Unit_Type.xml",
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var info service.LegendInfo
	decode(t, resp.Body.Bytes(), &info)
	assert.Equal(t, "http://host/mapserver?"+fixedParams+"&LAYER=LightUnit&STYLE=Unit Type", info.URL)
	assert.Empty(t, info.LayerID)

	resp = api.Post("/api/v1/legend", map[string]any{
		"kind": "wfs",
		"url":  "http://host/mapserver",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
}

func TestSLDNaming(t *testing.T) {
	t.Parallel()
	api := newTestAPI(t)

	resp := api.Get("/api/v1/sld/style?file=LightUnit_Unit_Type.xml")
	require.Equal(t, http.StatusOK, resp.Code)
	var style StyleBody
	decode(t, resp.Body.Bytes(), &style)
	assert.Equal(t, "Unit Type", style.Style)

	resp = api.Get("/api/v1/sld/file?style=Unit%20Type&layers=LightUnit")
	require.Equal(t, http.StatusOK, resp.Code)
	var file SLDFileBody
	decode(t, resp.Body.Bytes(), &file)
	assert.Equal(t, "LightUnit_Unit_Type.xml", file.File)

	resp = api.Get("/api/v1/sld/file?style=Unit%20Type")
	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
}

func TestLinks_OnlyAdvertiseReadableTargets(t *testing.T) {
	t.Parallel()
	api := newTestAPI(t)

	resp := api.Get("/api/v1/layers")
	require.Equal(t, http.StatusOK, resp.Code)
	for _, link := range resp.Header().Values("Link") {
		assert.NotContains(t, link, "</api/v1/legend>")
	}

	// every advertised target answers GET
	for _, link := range resp.Header().Values("Link") {
		target := link[1:strings.Index(link, ">")]
		assert.Equal(t, http.StatusOK, api.Get(target).Code, target)
	}
}
