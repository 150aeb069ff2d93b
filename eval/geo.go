package eval

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/orb/planar"
)

// circle is the AeroCircle extension: a center and a radius in meters.
type circle struct {
	center orb.Point
	radius float64
}

// shape is a parsed GeoJSON value: a standard geometry or an AeroCircle.
type shape struct {
	geom   orb.Geometry
	circle *circle
}

// parseShape parses GeoJSON text. Besides the standard geometry types it
// accepts {"type":"AeroCircle","coordinates":[[lng,lat],radius]}.
func parseShape(text string) (*shape, error) {
	var probe struct {
		Type        string          `json:"type"`
		Coordinates json.RawMessage `json:"coordinates"`
	}
	if err := json.Unmarshal([]byte(text), &probe); err != nil {
		return nil, fmt.Errorf("invalid GeoJSON: %w", err)
	}

	if probe.Type == "AeroCircle" {
		var coords [2]json.RawMessage
		if err := json.Unmarshal(probe.Coordinates, &coords); err != nil {
			return nil, fmt.Errorf("invalid AeroCircle: %w", err)
		}
		var c circle
		if err := json.Unmarshal(coords[0], &c.center); err != nil {
			return nil, fmt.Errorf("invalid AeroCircle center: %w", err)
		}
		if err := json.Unmarshal(coords[1], &c.radius); err != nil {
			return nil, fmt.Errorf("invalid AeroCircle radius: %w", err)
		}
		return &shape{circle: &c}, nil
	}

	g, err := geojson.UnmarshalGeometry([]byte(text))
	if err != nil {
		return nil, fmt.Errorf("invalid GeoJSON: %w", err)
	}
	geom := g.Geometry()
	if geom == nil {
		return nil, fmt.Errorf("invalid GeoJSON: no coordinates")
	}
	return &shape{geom: geom}, nil
}

// region returns the non-empty polygons of the shape, or nil when it is not
// a region.
func (s *shape) region() orb.MultiPolygon {
	var polys orb.MultiPolygon
	switch g := s.geom.(type) {
	case orb.Polygon:
		polys = orb.MultiPolygon{g}
	case orb.MultiPolygon:
		polys = g
	case orb.Bound:
		return orb.MultiPolygon{g.ToPolygon()}
	default:
		return nil
	}
	var out orb.MultiPolygon
	for _, poly := range polys {
		if len(poly) > 0 && len(poly[0]) > 0 {
			out = append(out, poly)
		}
	}
	return out
}

// vertices returns the points of a standard geometry. Polygons contribute
// their exterior rings.
func (s *shape) vertices() []orb.Point {
	var out []orb.Point
	for _, line := range s.lines() {
		out = append(out, line...)
	}
	return out
}

// lines returns the vertex chains of a standard geometry. A point is a chain
// of one vertex.
func (s *shape) lines() [][]orb.Point {
	switch g := s.geom.(type) {
	case orb.Point:
		return [][]orb.Point{{g}}
	case orb.MultiPoint:
		out := make([][]orb.Point, len(g))
		for i, p := range g {
			out[i] = []orb.Point{p}
		}
		return out
	case orb.LineString:
		return [][]orb.Point{g}
	case orb.MultiLineString:
		out := make([][]orb.Point, len(g))
		for i, ls := range g {
			out[i] = ls
		}
		return out
	case orb.Polygon, orb.MultiPolygon, orb.Bound:
		var out [][]orb.Point
		for _, poly := range s.region() {
			out = append(out, poly[0])
		}
		return out
	default:
		return nil
	}
}

// within reports whether inner lies entirely in the outer region.
// Points and lines are not regions and contain nothing.
func within(inner, outer *shape) bool {
	if outer.circle != nil {
		return withinCircle(inner, outer.circle)
	}
	region := outer.region()
	if region == nil {
		return false
	}
	if inner.circle != nil {
		return circleWithinRegion(inner.circle, region)
	}

	lines := inner.lines()
	if len(lines) == 0 {
		return false
	}
	for _, line := range lines {
		for i, p := range line {
			if !planar.MultiPolygonContains(region, p) {
				return false
			}
			if i == 0 {
				continue
			}
			a := line[i-1]
			if !planar.MultiPolygonContains(region, orb.Point{(a[0] + p[0]) / 2, (a[1] + p[1]) / 2}) {
				return false
			}
			if crossesBoundary(a, p, region) {
				return false
			}
		}
	}

	// A polygon must not enclose a hole of the region.
	if enclosed := inner.region(); enclosed != nil {
		for _, poly := range region {
			for _, hole := range poly[1:] {
				for _, p := range hole {
					if planar.MultiPolygonContains(enclosed, p) && !onBoundary(p, enclosed) {
						return false
					}
				}
			}
		}
	}
	return true
}

// withinCircle reports whether inner lies in c. Polygon vertices suffice
// since a circle is convex.
func withinCircle(inner *shape, c *circle) bool {
	if inner.circle != nil {
		return geo.Distance(c.center, inner.circle.center)+inner.circle.radius <= c.radius
	}
	pts := inner.vertices()
	if len(pts) == 0 {
		return false
	}
	for _, p := range pts {
		if geo.Distance(c.center, p) > c.radius {
			return false
		}
	}
	return true
}

// circleWithinRegion reports whether c lies in one polygon of region: the
// center is inside and no ring edge is closer than the radius.
func circleWithinRegion(c *circle, region orb.MultiPolygon) bool {
	for _, poly := range region {
		if !planar.PolygonContains(poly, c.center) {
			continue
		}
		return boundaryDistance(c.center, poly) >= c.radius
	}
	return false
}

// boundaryDistance is the distance in meters from center to the nearest
// ring edge of poly, measured on a local equirectangular projection.
func boundaryDistance(center orb.Point, poly orb.Polygon) float64 {
	const metersPerDegree = orb.EarthRadius * math.Pi / 180
	scale := math.Cos(center[1] * math.Pi / 180)
	project := func(p orb.Point) orb.Point {
		return orb.Point{(p[0] - center[0]) * metersPerDegree * scale, (p[1] - center[1]) * metersPerDegree}
	}

	nearest := math.Inf(1)
	for _, ring := range poly {
		for i := 1; i < len(ring); i++ {
			d := planar.DistanceFromSegment(project(ring[i-1]), project(ring[i]), orb.Point{})
			nearest = math.Min(nearest, d)
		}
	}
	return nearest
}

// crossesBoundary reports whether segment ab properly crosses a ring edge.
func crossesBoundary(a, b orb.Point, region orb.MultiPolygon) bool {
	for _, poly := range region {
		for _, ring := range poly {
			for i := 1; i < len(ring); i++ {
				if segmentsCross(a, b, ring[i-1], ring[i]) {
					return true
				}
			}
		}
	}
	return false
}

// segmentsCross reports whether ab and cd intersect at a single point
// interior to both. Touching and collinear overlap do not count.
func segmentsCross(a, b, c, d orb.Point) bool {
	d1 := orientation(c, d, a)
	d2 := orientation(c, d, b)
	d3 := orientation(a, b, c)
	d4 := orientation(a, b, d)
	return d1*d2 < 0 && d3*d4 < 0
}

func orientation(a, b, p orb.Point) float64 {
	v := (b[0]-a[0])*(p[1]-a[1]) - (b[1]-a[1])*(p[0]-a[0])
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}

func onBoundary(p orb.Point, region orb.MultiPolygon) bool {
	for _, poly := range region {
		for _, ring := range poly {
			for i := 1; i < len(ring); i++ {
				if planar.DistanceFromSegment(ring[i-1], ring[i], p) == 0 {
					return true
				}
			}
		}
	}
	return false
}
