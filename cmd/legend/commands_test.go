package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const layersYAML = `
layers:
  - name: Roads
    kind: wms
    source:
      url: http://host/geoserver/wms
      params:
        LAYERS: a,b,a
  - name: Bare
    kind: wms
    source:
      url: http://host/geoserver/wms
`

func run(t *testing.T, cmd *cobra.Command, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func writeLayers(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "layers.yaml")
	require.NoError(t, os.WriteFile(path, []byte(layersYAML), 0644))
	return path
}

func TestURLCmd(t *testing.T) {
	t.Parallel()
	path := writeLayers(t)

	out, errOut, err := run(t, newURLCmd(), "-f", path)
	require.NoError(t, err)
	assert.Equal(t,
		"Roads\thttp://host/geoserver/wms?SERVICE=WMS&VERSION=1.3.0&REQUEST=GetLegendGraphic&FORMAT=image%2Fpng&TRANSPARENT=TRUE&SLD_VERSION=1.1.0&LAYER=a,b\n",
		out)
	assert.Equal(t, "Bare: no legend\n", errOut)
}

func TestURLCmd_Name(t *testing.T) {
	t.Parallel()
	path := writeLayers(t)

	out, _, err := run(t, newURLCmd(), "-f", path, "-n", "Roads")
	require.NoError(t, err)
	assert.Equal(t,
		"http://host/geoserver/wms?SERVICE=WMS&VERSION=1.3.0&REQUEST=GetLegendGraphic&FORMAT=image%2Fpng&TRANSPARENT=TRUE&SLD_VERSION=1.1.0&LAYER=a,b\n",
		out)

	_, _, err = run(t, newURLCmd(), "-f", path, "-n", "Missing")
	assert.Error(t, err)
}

func TestURLCmd_MissingFile(t *testing.T) {
	t.Parallel()

	_, _, err := run(t, newURLCmd(), "-f", filepath.Join(t.TempDir(), "none.yaml"))
	assert.Error(t, err)
}

func TestStyleCmd(t *testing.T) {
	t.Parallel()

	out, _, err := run(t, newStyleCmd(), "LightUnit_Unit_Type.xml")
	require.NoError(t, err)
	assert.Equal(t, "Unit Type\n", out)

	_, _, err = run(t, newStyleCmd())
	assert.Error(t, err)
}

func TestSLDFileCmd(t *testing.T) {
	t.Parallel()

	out, _, err := run(t, newSLDFileCmd(), "Unit Type", "LightUnit")
	require.NoError(t, err)
	assert.Equal(t, "LightUnit_Unit_Type.xml\n", out)
}
