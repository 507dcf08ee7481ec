// Package config defines the nested parameter record driving the whole
// visualizer. The record is split into the same sections the controls expose
// (camera, geometry, appearance, dynamics, distribution, mask, system);
// partial updates arrive as JSON and are shallow-merged section by section,
// and any update touching geometry-relevant sections invalidates the cached
// base point set.
package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// Camera holds the orbiting-camera parameters.
type Camera struct {
	Radius      float64 `json:"camRadius"`
	HeightDeg   float64 `json:"camHeightDeg"`
	TiltDeg     float64 `json:"camTiltDeg"`
	OmegaDegSec float64 `json:"omegaDegPerSec"`
	FOV         float64 `json:"fov"`
}

// Geometry selects a topology and carries the union of all per-topology
// parameters. Only the fields relevant to the selected topology are read;
// the rest stay inert.
type Geometry struct {
	Topology string  `json:"topology"`
	R        float64 `json:"R"`
	Lat      int     `json:"lat"`
	Lon      int     `json:"lon"`
	N        int     `json:"N"`
	PhiG     float64 `json:"phi_g"`

	RMajor  float64 `json:"R_major"`
	RMajor2 float64 `json:"R_major2"`
	RMinor  float64 `json:"r_minor"`

	Eps1 float64 `json:"eps1"`
	Eps2 float64 `json:"eps2"`
	Ax   float64 `json:"ax"`
	Ay   float64 `json:"ay"`
	Az   float64 `json:"az"`

	GeoLevel      int     `json:"geo_level"`
	GeoGraphLevel int     `json:"geo_graph_level"`
	MobiusW       float64 `json:"mobius_w"`

	ArchA    float64 `json:"arch_a"`
	ArchB    float64 `json:"arch_b"`
	ThetaMax float64 `json:"theta_max"`
	LogA     float64 `json:"log_a"`
	LogB     float64 `json:"log_b"`
	RoseK    float64 `json:"rose_k"`

	Sf2M  float64 `json:"sf2_m"`
	Sf2A  float64 `json:"sf2_a"`
	Sf2B  float64 `json:"sf2_b"`
	Sf2N1 float64 `json:"sf2_n1"`
	Sf2N2 float64 `json:"sf2_n2"`
	Sf2N3 float64 `json:"sf2_n3"`

	DensityPDF  string  `json:"density_pdf"`
	PoissonDMin float64 `json:"poisson_dmin"`

	LissajousA     int     `json:"lissajous_a"`
	LissajousB     int     `json:"lissajous_b"`
	LissajousPhase float64 `json:"lissajous_phase"`

	VogelK     float64 `json:"vogel_k"`
	SeN1       float64 `json:"se_n1"`
	SeN2       float64 `json:"se_n2"`
	HalfHeight float64 `json:"half_height"`

	NoisyAmp   float64 `json:"noisy_amp"`
	NoisyFreq  float64 `json:"noisy_freq"`
	NoisyGain  float64 `json:"noisy_gain"`
	NoisyOmega float64 `json:"noisy_omega"`

	SphTerms  string `json:"sph_terms"`
	WeightMap string `json:"weight_map"`

	TorusKnotP int     `json:"torus_knot_p"`
	TorusKnotQ int     `json:"torus_knot_q"`
	StripW     float64 `json:"strip_w"`
	StripN     float64 `json:"strip_n"`

	BlobNoiseAmp   float64 `json:"blob_noise_amp"`
	BlobNoiseScale float64 `json:"blob_noise_scale"`

	GyroidScale     float64 `json:"gyroid_scale"`
	GyroidThickness float64 `json:"gyroid_thickness"`
	GyroidC         float64 `json:"gyroid_c"`
	SchwarzScale    float64 `json:"schwarz_scale"`
	SchwarzIso      float64 `json:"schwarz_iso"`
	HeartScale      float64 `json:"heart_scale"`

	PolyhedronData string  `json:"polyhedron_data"`
	PolyLayers     int     `json:"poly_layers"`
	PolyLinkSteps  int     `json:"poly_link_steps"`
	TruncRatio     float64 `json:"trunc_ratio"`
	StellatedScale float64 `json:"stellated_scale"`

	MetaballsCenters string  `json:"metaballs_centers"`
	MetaballsRadii   string  `json:"metaballs_radii"`
	MetaballsIso     float64 `json:"metaballs_iso"`
	DfOps            string  `json:"df_ops"`

	Sf3M1    float64 `json:"sf3_m1"`
	Sf3M2    float64 `json:"sf3_m2"`
	Sf3M3    float64 `json:"sf3_m3"`
	Sf3N1    float64 `json:"sf3_n1"`
	Sf3N2    float64 `json:"sf3_n2"`
	Sf3N3    float64 `json:"sf3_n3"`
	Sf3A     float64 `json:"sf3_a"`
	Sf3B     float64 `json:"sf3_b"`
	Sf3Scale float64 `json:"sf3_scale"`

	HelixR     float64 `json:"helix_r"`
	HelixPitch float64 `json:"helix_pitch"`
	HelixTurns float64 `json:"helix_turns"`

	Lissajous3DAx  float64 `json:"lissajous3d_Ax"`
	Lissajous3DAy  float64 `json:"lissajous3d_Ay"`
	Lissajous3DAz  float64 `json:"lissajous3d_Az"`
	Lissajous3DWx  int     `json:"lissajous3d_wx"`
	Lissajous3DWy  int     `json:"lissajous3d_wy"`
	Lissajous3DWz  int     `json:"lissajous3d_wz"`
	Lissajous3DPhi float64 `json:"lissajous3d_phi"`

	VivianiA float64 `json:"viviani_a"`

	LicN     int `json:"lic_N"`
	LicSteps int `json:"lic_steps"`

	StreamN     int `json:"stream_N"`
	StreamSteps int `json:"stream_steps"`

	RggNodes  int     `json:"rgg_nodes"`
	RggRadius float64 `json:"rgg_radius"`

	RingsCount int `json:"rings_count"`
	RingPoints int `json:"ring_points"`

	HexStep float64 `json:"hex_step"`
	HexNx   int     `json:"hex_nx"`
	HexNy   int     `json:"hex_ny"`

	VoronoiN    int    `json:"voronoi_N"`
	VoronoiBBox string `json:"voronoi_bbox"`
}

// Appearance controls color, opacity, point size and blending.
type Appearance struct {
	Color     string  `json:"color"`
	Colors    string  `json:"colors"`
	Opacity   float64 `json:"opacity"`
	Px        float64 `json:"px"`
	Palette   string  `json:"palette"`
	PaletteK  int     `json:"paletteK"`
	H0        float64 `json:"h0"`
	Dh        float64 `json:"dh"`
	Wh        float64 `json:"wh"`
	BlendMode string  `json:"blendMode"`
	Shape     string  `json:"shape"`

	AlphaDepth float64 `json:"alphaDepth"`

	NoiseScale float64 `json:"noiseScale"`
	NoiseSpeed float64 `json:"noiseSpeed"`

	PxModMode     string  `json:"pxModMode"`
	PxModAmp      float64 `json:"pxModAmp"`
	PxModFreq     float64 `json:"pxModFreq"`
	PxModPhaseDeg float64 `json:"pxModPhaseDeg"`
}

// Dynamics drives per-point rotation, pulsation and phase assignment.
type Dynamics struct {
	RotX float64 `json:"rotX"`
	RotY float64 `json:"rotY"`
	RotZ float64 `json:"rotZ"`

	OrientXDeg float64 `json:"orientXDeg"`
	OrientYDeg float64 `json:"orientYDeg"`
	OrientZDeg float64 `json:"orientZDeg"`

	PulseA        float64 `json:"pulseA"`
	PulseW        float64 `json:"pulseW"`
	PulsePhaseDeg float64 `json:"pulsePhaseDeg"`

	RotPhaseMode string  `json:"rotPhaseMode"`
	RotPhaseDeg  float64 `json:"rotPhaseDeg"`
}

// Distribution configures density weighting, sampling strategy and the
// per-frame spatial perturbations.
type Distribution struct {
	DensityMode string  `json:"densityMode"`
	Sampler     string  `json:"sampler"`
	DMin        float64 `json:"dmin"`
	DMinPx      float64 `json:"dmin_px"`

	ClusterCount  int     `json:"clusterCount"`
	ClusterSpread float64 `json:"clusterSpread"`

	NoiseDistortion float64 `json:"noiseDistortion"`
	NoiseWarp       float64 `json:"noiseWarp"`
	FieldFlow       float64 `json:"fieldFlow"`
	RepelForce      float64 `json:"repelForce"`
	DensityPulse    float64 `json:"densityPulse"`
}

// Mask carries the angular visibility mask parameters.
type Mask struct {
	Enabled       bool    `json:"enabled"`
	Mode          string  `json:"mode"`
	AngleDeg      float64 `json:"angleDeg"`
	BandHalfDeg   float64 `json:"bandHalfDeg"`
	LonCenterDeg  float64 `json:"lonCenterDeg"`
	LonWidthDeg   float64 `json:"lonWidthDeg"`
	SoftDeg       float64 `json:"softDeg"`
	Invert        bool    `json:"invert"`
	AnimateDegSec float64 `json:"animate"`
}

// System holds global limits and render toggles.
type System struct {
	NMax        int     `json:"Nmax"`
	DprClamp    float64 `json:"dprClamp"`
	DepthSort   bool    `json:"depthSort"`
	Transparent bool    `json:"transparent"`
	Seed        int64   `json:"seed"`
}

// Config is the complete parameter record. The engine owns exactly one
// instance; nothing else mutates the live record.
type Config struct {
	Camera       Camera       `json:"camera"`
	Geometry     Geometry     `json:"geometry"`
	Appearance   Appearance   `json:"appearance"`
	Dynamics     Dynamics     `json:"dynamics"`
	Distribution Distribution `json:"distribution"`
	Mask         Mask         `json:"mask"`
	System       System       `json:"system"`
}

// Default returns the full default state.
func Default() Config {
	return Config{
		Camera: Camera{
			Radius:      3.2,
			HeightDeg:   15,
			TiltDeg:     0,
			OmegaDegSec: 20,
			FOV:         600,
		},
		Geometry: Geometry{
			Topology: "torus",
			R:        1.0,
			Lat:      64,
			Lon:      64,
			N:        4096,
			PhiG:     3.883222,

			RMajor:  1.2,
			RMajor2: 0.8,
			RMinor:  0.45,

			Eps1: 1.0, Eps2: 1.0,
			Ax: 1.0, Ay: 1.0, Az: 1.0,

			GeoLevel:      1,
			GeoGraphLevel: 2,
			MobiusW:       0.4,

			ArchA: 0.0, ArchB: 0.6,
			ThetaMax: 6.28318,
			LogA:     0.2, LogB: 0.15,
			RoseK: 4.0,

			Sf2M: 6.0, Sf2A: 1.0, Sf2B: 1.0,
			Sf2N1: 0.5, Sf2N2: 0.5, Sf2N3: 0.5,

			DensityPDF:  "1",
			PoissonDMin: 0.05,

			LissajousA: 3, LissajousB: 2, LissajousPhase: 0.0,

			VogelK: 2.3999632,
			SeN1:   1.0, SeN2: 1.0,
			HalfHeight: 1.0,

			NoisyAmp: 0.1, NoisyFreq: 3.0, NoisyGain: 1.0, NoisyOmega: 0.0,

			SphTerms:  "2,0,0.4;3,2,0.2",
			WeightMap: "1",

			TorusKnotP: 3, TorusKnotQ: 2,
			StripW: 0.4, StripN: 2,

			BlobNoiseAmp: 0.25, BlobNoiseScale: 2.0,

			GyroidScale: 1.0, GyroidThickness: 0.05, GyroidC: 0.0,
			SchwarzScale: 1.0, SchwarzIso: 0.0,
			HeartScale: 1.0,

			PolyLayers:     1,
			PolyLinkSteps:  0,
			TruncRatio:     0.333,
			StellatedScale: 1.4,

			MetaballsCenters: "0,0,0",
			MetaballsRadii:   "0.6",
			MetaballsIso:     1.0,
			DfOps:            "sphere(1.0)",

			Sf3M1: 3.0, Sf3M2: 3.0, Sf3M3: 3.0,
			Sf3N1: 0.5, Sf3N2: 0.5, Sf3N3: 0.5,
			Sf3A: 1.0, Sf3B: 1.0, Sf3Scale: 1.0,

			HelixR: 0.4, HelixPitch: 0.3, HelixTurns: 3.0,

			Lissajous3DAx: 1.0, Lissajous3DAy: 1.0, Lissajous3DAz: 1.0,
			Lissajous3DWx: 3, Lissajous3DWy: 2, Lissajous3DWz: 5,
			Lissajous3DPhi: 0.0,

			VivianiA: 1.0,

			LicN: 12, LicSteps: 180,
			StreamN: 12, StreamSteps: 220,

			RggNodes: 400, RggRadius: 0.2,

			RingsCount: 5, RingPoints: 96,

			HexStep: 0.2, HexNx: 12, HexNy: 12,

			VoronoiN: 50, VoronoiBBox: "-1,1,-1,1",
		},
		Appearance: Appearance{
			Color:     "#00C8FF",
			Colors:    "#00C8FF@0,#FFFFFF@1",
			Opacity:   1.0,
			Px:        2.0,
			Palette:   "uniform",
			PaletteK:  2,
			H0:        200,
			Dh:        0,
			Wh:        0,
			BlendMode: "source-over",
			Shape:     "circle",

			NoiseScale: 1.0,

			PxModMode: "none",
		},
		Dynamics: Dynamics{
			PulseW:       1,
			RotPhaseMode: "none",
		},
		Distribution: Distribution{
			DensityMode:  "uniform",
			Sampler:      "direct",
			ClusterCount: 1,
		},
		Mask: Mask{
			Mode:         "none",
			AngleDeg:     30,
			BandHalfDeg:  20,
			LonCenterDeg: 0,
			LonWidthDeg:  30,
			SoftDeg:      10,
		},
		System: System{
			NMax:        50000,
			DprClamp:    2.0,
			DepthSort:   true,
			Transparent: true,
			Seed:        1,
		},
	}
}

// rebuildSections are the top-level sections whose modification invalidates
// the cached base point set.
var rebuildSections = map[string]bool{
	"geometry":     true,
	"distribution": true,
	"system":       true,
}

// Merge applies a partial JSON document over the live record. Each section
// present in the patch is shallow-merged: keys present overwrite, keys absent
// keep their current value. It reports whether the patch touched a section
// that requires a point set rebuild.
func (c *Config) Merge(patch []byte) (rebuild bool, err error) {
	var sections map[string]json.RawMessage
	if err := json.Unmarshal(patch, &sections); err != nil {
		return false, fmt.Errorf("parse config patch: %w", err)
	}
	for name, raw := range sections {
		var dst any
		switch name {
		case "camera":
			dst = &c.Camera
		case "geometry":
			dst = &c.Geometry
		case "appearance":
			dst = &c.Appearance
		case "dynamics":
			dst = &c.Dynamics
		case "distribution":
			dst = &c.Distribution
		case "mask":
			dst = &c.Mask
		case "system":
			dst = &c.System
		default:
			// unknown sections are ignored rather than rejected
			continue
		}
		if err := json.Unmarshal(raw, dst); err != nil {
			return rebuild, fmt.Errorf("merge section %q: %w", name, err)
		}
		if rebuildSections[name] {
			rebuild = true
		}
	}
	return rebuild, nil
}

// SaveFile writes the full record as an indented JSON profile.
func (c *Config) SaveFile(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}

// MergeFile merges a JSON profile from disk into the live record.
func (c *Config) MergeFile(path string) (rebuild bool, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return false, err
	}
	return c.Merge(data)
}
