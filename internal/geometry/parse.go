package geometry

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// parseNumberList extracts finite floats from free-form text, treating
// whitespace, newlines and semicolons as separators. Unparsable tokens are
// skipped rather than reported.
func parseNumberList(text string) []float64 {
	if text == "" {
		return nil
	}
	cleaned := strings.NewReplacer("\n", " ", "\r", " ", ";", " ", ",", " ").Replace(text)
	var out []float64
	for _, tok := range strings.Fields(cleaned) {
		v, err := strconv.ParseFloat(tok, 64)
		if err != nil {
			continue
		}
		if !math.IsInf(v, 0) && !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	return out
}

// parseVectorList reads semicolon-separated vectors, each a comma or space
// separated coordinate triple. Short vectors are zero-padded to 3 components.
func parseVectorList(text string) []vec3 {
	if text == "" {
		return nil
	}
	tokens := strings.Split(strings.ReplaceAll(text, "\r", ""), ";")
	nonEmpty := false
	for _, tok := range tokens {
		if strings.TrimSpace(tok) != "" {
			nonEmpty = true
			break
		}
	}
	if !nonEmpty {
		if flat := parseNumberList(text); len(flat) >= 3 {
			return []vec3{{X: flat[0], Y: flat[1], Z: flat[2]}}
		}
		return nil
	}
	var out []vec3
	for _, tok := range tokens {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		var values []float64
		for _, part := range strings.Fields(strings.ReplaceAll(tok, ",", " ")) {
			v, err := strconv.ParseFloat(part, 64)
			if err != nil {
				continue
			}
			values = append(values, v)
		}
		if len(values) == 0 {
			continue
		}
		for len(values) < 3 {
			values = append(values, 0)
		}
		out = append(out, vec3{X: values[0], Y: values[1], Z: values[2]})
	}
	return out
}

// parseBBox reads "xmin xmax zmin zmax"; anything short falls back to the
// unit square.
func parseBBox(text string) (xmin, xmax, zmin, zmax float64) {
	values := parseNumberList(text)
	if len(values) >= 4 {
		return values[0], values[1], values[2], values[3]
	}
	return -1, 1, -1, 1
}

// sphericalTerm is one (l, m, amplitude) harmonic term.
type sphericalTerm struct {
	L   int
	M   int
	Amp float64
}

// parseSphericalTerms reads "l,m,amp;l,m,amp;..." term lists. Malformed
// terms are skipped; l is clamped to be non-negative.
func parseSphericalTerms(text string) []sphericalTerm {
	if text == "" {
		return nil
	}
	var terms []sphericalTerm
	for _, tok := range strings.Split(strings.ReplaceAll(text, "\r", ""), ";") {
		if strings.TrimSpace(tok) == "" {
			continue
		}
		parts := strings.Fields(strings.ReplaceAll(tok, ",", " "))
		if len(parts) < 3 {
			continue
		}
		lf, err1 := strconv.ParseFloat(parts[0], 64)
		mf, err2 := strconv.ParseFloat(parts[1], 64)
		amp, err3 := strconv.ParseFloat(parts[2], 64)
		if err1 != nil || err2 != nil || err3 != nil {
			continue
		}
		l := int(lf)
		if l < 0 {
			l = 0
		}
		terms = append(terms, sphericalTerm{L: l, M: int(mf), Amp: amp})
	}
	return terms
}

// parsePolyhedronJSON reads a {"vertices": [[x,y,z],...], "faces":
// [[i,j,k],...]} document. Malformed entries are dropped; a malformed
// document yields empty results.
func parsePolyhedronJSON(text string) (vertices []vec3, faces [][]int) {
	if text == "" {
		return nil, nil
	}
	var payload struct {
		Vertices [][]float64 `json:"vertices"`
		Faces    [][]int     `json:"faces"`
	}
	if err := json.Unmarshal([]byte(text), &payload); err != nil {
		return nil, nil
	}
	for _, entry := range payload.Vertices {
		if len(entry) >= 3 {
			vertices = append(vertices, vec3{X: entry[0], Y: entry[1], Z: entry[2]})
		}
	}
	for _, face := range payload.Faces {
		if len(face) >= 3 {
			faces = append(faces, face)
		}
	}
	return vertices, faces
}
