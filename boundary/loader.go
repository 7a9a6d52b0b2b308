// Package boundary loads region boundary polygons from GeoJSON files.
package boundary

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

var (
	// ErrNotFound means the boundary file does not exist.
	ErrNotFound = errors.New("boundary: file not found")
	// ErrFormat means the boundary file is not valid json.
	ErrFormat = errors.New("boundary: invalid json")
	// ErrMalformed means the json is valid but the geometry structure is not.
	ErrMalformed = errors.New("boundary: malformed geometry")
)

// Load reads a GeoJSON feature collection from disk and returns one
// polygon per Polygon feature and one per MultiPolygon member, each built
// from its first ring. Features with any other geometry type are skipped.
func Load(path string) ([]orb.Polygon, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, err
	}
	return Parse(data)
}

// Parse extracts boundary polygons from raw GeoJSON bytes.
func Parse(data []byte) ([]orb.Polygon, error) {
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		var syntaxErr *json.SyntaxError
		if errors.As(err, &syntaxErr) {
			return nil, fmt.Errorf("%w: %v", ErrFormat, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	var polys []orb.Polygon
	for i, feature := range fc.Features {
		if feature.Geometry == nil {
			return nil, fmt.Errorf("%w: feature %d has no geometry", ErrMalformed, i)
		}

		switch g := feature.Geometry.(type) {
		case orb.Polygon:
			ring, err := firstRing(g, i)
			if err != nil {
				return nil, err
			}
			polys = append(polys, orb.Polygon{ring})
		case orb.MultiPolygon:
			for _, p := range g {
				ring, err := firstRing(p, i)
				if err != nil {
					return nil, err
				}
				polys = append(polys, orb.Polygon{ring})
			}
		}
	}
	return polys, nil
}

func firstRing(p orb.Polygon, feature int) (orb.Ring, error) {
	if len(p) == 0 || len(p[0]) == 0 {
		return nil, fmt.Errorf("%w: feature %d has no rings", ErrMalformed, feature)
	}
	return p[0], nil
}
