package eval

import (
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/encoding/wkb"
)

// NewGeometryField creates a binary Arrow field that FilterRecord reads as a
// GeoJSON bin. Values are WKB, see EncodeGeometry.
func NewGeometryField(name string, nullable bool) arrow.Field {
	return arrow.Field{
		Name:     name,
		Type:     arrow.BinaryTypes.Binary,
		Nullable: nullable,
		Metadata: arrow.MetadataFrom(map[string]string{
			"ARROW:extension:name":     geometryExtension,
			"ARROW:extension:metadata": `{"encoding":"WKB"}`,
		}),
	}
}

// EncodeGeometry converts a geometry to WKB for a geometry column.
// Bounds are stored as their polygon.
func EncodeGeometry(geom orb.Geometry) ([]byte, error) {
	switch g := geom.(type) {
	case nil:
		return nil, fmt.Errorf("cannot encode nil geometry")
	case orb.Bound:
		return wkb.Marshal(g.ToPolygon())
	default:
		return wkb.Marshal(g)
	}
}
