package config

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultState(t *testing.T) {
	c := Default()

	assert.Equal(t, 3.2, c.Camera.Radius)
	assert.Equal(t, 15.0, c.Camera.HeightDeg)
	assert.Equal(t, 600.0, c.Camera.FOV)
	assert.Equal(t, "torus", c.Geometry.Topology)
	assert.Equal(t, 4096, c.Geometry.N)
	assert.Equal(t, 64, c.Geometry.Lat)
	assert.Equal(t, "#00C8FF", c.Appearance.Color)
	assert.Equal(t, "uniform", c.Appearance.Palette)
	assert.Equal(t, "direct", c.Distribution.Sampler)
	assert.Equal(t, "none", c.Mask.Mode)
	assert.Equal(t, 50000, c.System.NMax)
	assert.True(t, c.System.DepthSort)
}

func TestMergePartialSection(t *testing.T) {
	c := Default()

	rebuild, err := c.Merge([]byte(`{"camera":{"camRadius":5.0}}`))
	require.NoError(t, err)
	assert.False(t, rebuild, "camera changes should not force a rebuild")

	assert.Equal(t, 5.0, c.Camera.Radius)
	// untouched keys in the same section keep their values
	assert.Equal(t, 15.0, c.Camera.HeightDeg)
	assert.Equal(t, 600.0, c.Camera.FOV)
}

func TestMergeRebuildSections(t *testing.T) {
	cases := []struct {
		patch   string
		rebuild bool
	}{
		{`{"geometry":{"topology":"uv_sphere"}}`, true},
		{`{"distribution":{"densityMode":"centered"}}`, true},
		{`{"system":{"seed":7}}`, true},
		{`{"appearance":{"px":4}}`, false},
		{`{"dynamics":{"rotY":0.5}}`, false},
		{`{"mask":{"mode":"cone"}}`, false},
	}
	for _, tc := range cases {
		c := Default()
		rebuild, err := c.Merge([]byte(tc.patch))
		require.NoError(t, err, tc.patch)
		assert.Equal(t, tc.rebuild, rebuild, tc.patch)
	}
}

func TestMergeIgnoresUnknownSection(t *testing.T) {
	c := Default()
	rebuild, err := c.Merge([]byte(`{"audio":{"gain":0.5}}`))
	require.NoError(t, err)
	assert.False(t, rebuild)
	assert.Equal(t, Default(), c)
}

func TestMergeRejectsMalformedPatch(t *testing.T) {
	c := Default()
	_, err := c.Merge([]byte(`{"camera":`))
	require.Error(t, err)
}

func TestProfileRoundTrip(t *testing.T) {
	c := Default()
	c.Geometry.Topology = "torus_knot"
	c.Geometry.TorusKnotP = 5
	c.Appearance.Colors = "#FF0000@0,#0000FF@1"
	c.System.Seed = 42

	path := filepath.Join(t.TempDir(), "profile.json")
	require.NoError(t, c.SaveFile(path))

	loaded := Default()
	rebuild, err := loaded.MergeFile(path)
	require.NoError(t, err)
	assert.True(t, rebuild)
	assert.Equal(t, c, loaded)
}

func TestJSONKeysMatchWireNames(t *testing.T) {
	c := Default()
	data, err := json.Marshal(&c)
	require.NoError(t, err)

	var m map[string]map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &m))

	assert.Contains(t, m["camera"], "omegaDegPerSec")
	assert.Contains(t, m["geometry"], "R_major")
	assert.Contains(t, m["geometry"], "torus_knot_p")
	assert.Contains(t, m["appearance"], "blendMode")
	assert.Contains(t, m["distribution"], "dmin_px")
	assert.Contains(t, m["system"], "Nmax")
}
