package predexp

import (
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// GeoJSONValueOf pushes a GeoJSON constant built from an orb geometry.
//
// Example:
//
//	region := orb.Polygon{{{-122.5, 37.7}, {-122.3, 37.7}, {-122.3, 37.9}, {-122.5, 37.9}, {-122.5, 37.7}}}
//	node, err := predexp.GeoJSONValueOf(region)
func GeoJSONValueOf(g orb.Geometry) (Node, error) {
	if g == nil {
		return Node{}, fmt.Errorf("%w: nil geometry", ErrInvalidNode)
	}
	data, err := geojson.NewGeometry(g).MarshalJSON()
	if err != nil {
		return Node{}, fmt.Errorf("%w: failed to marshal GeoJSON: %v", ErrInvalidNode, err)
	}
	return GeoJSONValue(string(data)), nil
}
