package roadnet

import (
	"fmt"

	"github.com/indlayout/engine/pkg/geom"
	"github.com/indlayout/engine/pkg/rng"
)

// RoadClass distinguishes main arterials from internal access roads
// (spec.md §3).
type RoadClass int

const (
	RoadInternal RoadClass = iota
	RoadMain
)

func (c RoadClass) String() string {
	if c == RoadMain {
		return "main"
	}
	return "internal"
}

// RoadSegment is a polyline centreline plus a width; Footprint is the
// centreline buffered by width/2 (spec.md §3).
type RoadSegment struct {
	Centerline []geom.Point
	Width      float64
	Class      RoadClass
	Footprint  geom.Polygon
}

// Network is the set of road segments produced by a Stage 1 generator.
type Network struct {
	Segments []RoadSegment
}

// TotalLength returns the sum of all segment centreline lengths, used
// as a deterministic summary metric (spec.md §8 scenario 3).
func (n Network) TotalLength() float64 {
	total := 0.0
	for _, s := range n.Segments {
		total += geom.PolylineLength(s.Centerline)
	}
	return total
}

// Result is the output of a Stage 1 generator: a road network and the
// candidate blocks it carves from the site.
type Result struct {
	Roads  Network
	Blocks []geom.Polygon
}

// Config holds Stage 1 parameters common to both generators (spec.md §6).
type Config struct {
	SpacingMin, SpacingMax   float64
	AngleMin, AngleMax       float64
	RoadMainWidth            float64
	RoadInternalWidth        float64
	VoronoiSeedCount         int
	VoronoiLloydIterations   int
	VoronoiMainRoads         [][2]geom.Point // optional user-supplied straight main roads
	VoronoiMainRoadWidth     float64
	MinBlockArea             float64
}

// DefaultConfig returns sensible defaults matching spec.md §6/§8.
func DefaultConfig() Config {
	return Config{
		SpacingMin:             20,
		SpacingMax:             100,
		AngleMin:               0,
		AngleMax:               90,
		RoadMainWidth:          12,
		RoadInternalWidth:      8,
		VoronoiSeedCount:       15,
		VoronoiLloydIterations: 20,
		VoronoiMainRoadWidth:   12,
		MinBlockArea:           1000,
	}
}

// Validate checks config bounds (spec.md §6).
func (c Config) Validate() error {
	if c.SpacingMin <= 0 || c.SpacingMax < c.SpacingMin {
		return fmt.Errorf("roadnet: invalid spacing bounds [%v, %v]", c.SpacingMin, c.SpacingMax)
	}
	if c.AngleMin < 0 || c.AngleMax > 90 || c.AngleMax < c.AngleMin {
		return fmt.Errorf("roadnet: invalid angle bounds [%v, %v]", c.AngleMin, c.AngleMax)
	}
	if c.RoadMainWidth <= 0 || c.RoadInternalWidth <= 0 {
		return fmt.Errorf("roadnet: road widths must be > 0")
	}
	if c.VoronoiSeedCount < 0 {
		return fmt.Errorf("roadnet: VoronoiSeedCount must be >= 0")
	}
	return nil
}

// Generator produces a Stage 1 road network and block set from a site.
// Implementations must be deterministic: given the same site, Config,
// and RNG state, they must produce an identical Result.
type Generator interface {
	Generate(site geom.Site, params []float64, r *rng.RNG, cfg Config) (*Result, error)
	Name() string
}

var registry = make(map[string]Generator)

// Register adds a Generator to the registry under name. Panics on a
// nil generator or duplicate registration.
func Register(name string, g Generator) {
	if g == nil {
		panic(fmt.Sprintf("roadnet: Register generator for %s is nil", name))
	}
	if _, exists := registry[name]; exists {
		panic(fmt.Sprintf("roadnet: Register called twice for %s", name))
	}
	registry[name] = g
}

// Get retrieves a registered Generator by name.
func Get(name string) (Generator, error) {
	g, exists := registry[name]
	if !exists {
		return nil, fmt.Errorf("roadnet: generator %q not registered", name)
	}
	return g, nil
}

// List returns the names of all registered generators.
func List() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	return names
}

func init() {
	Register("grid", &GridGenerator{})
	Register("voronoi", &VoronoiGenerator{})
}
