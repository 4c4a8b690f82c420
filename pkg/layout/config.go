package layout

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/indlayout/engine/pkg/layouterr"
)

// Method selects which Stage 1 road generator the orchestrator runs
// (spec.md §4.3, §4.4, §4.13).
type Method string

const (
	// MethodAuto lets the orchestrator pick grid vs voronoi per
	// spec.md §4.13's decision rule.
	MethodAuto Method = "auto"
	// MethodGrid forces the grid/NSGA-II pipeline (C3+C5).
	MethodGrid Method = "grid"
	// MethodVoronoi forces the Voronoi/CVT pipeline (C4).
	MethodVoronoi Method = "voronoi"
)

// Config holds every tunable parameter named in spec.md §6. It carries
// YAML tags so a run can be described by a config file, and a Hash so
// each pipeline stage can derive an independent, reproducible RNG
// stream from (seed, stage, config).
type Config struct {
	// Seed is the master seed for deterministic generation. Use 0 to
	// auto-generate from current time.
	Seed uint64 `yaml:"seed" json:"seed"`

	// LayoutMethod selects grid, voronoi, or auto (spec.md §4.13).
	LayoutMethod Method `yaml:"layout_method" json:"layout_method"`

	// SpacingMin/SpacingMax bound the grid generator's tile spacing genes (m).
	SpacingMin float64 `yaml:"spacing_min" json:"spacing_min"`
	SpacingMax float64 `yaml:"spacing_max" json:"spacing_max"`

	// AngleMin/AngleMax bound the grid generator's rotation gene (degrees).
	AngleMin float64 `yaml:"angle_min" json:"angle_min"`
	AngleMax float64 `yaml:"angle_max" json:"angle_max"`

	// PopulationSize/Generations/CrossoverProb/MutationProb configure
	// the NSGA-II search (C5).
	PopulationSize int     `yaml:"population_size" json:"population_size"`
	Generations    int     `yaml:"generations" json:"generations"`
	CrossoverProb  float64 `yaml:"crossover_prob" json:"crossover_prob"`
	MutationProb   float64 `yaml:"mutation_prob" json:"mutation_prob"`

	// TargetLotWidth/MinLotWidth/MaxLotWidth and SetbackDistance
	// configure the subdivision solver (C7/C8).
	TargetLotWidth   float64 `yaml:"target_lot_width" json:"target_lot_width"`
	MinLotWidth      float64 `yaml:"min_lot_width" json:"min_lot_width"`
	MaxLotWidth      float64 `yaml:"max_lot_width" json:"max_lot_width"`
	SetbackDistance  float64 `yaml:"setback_distance" json:"setback_distance"`

	// RoadMainWidth/RoadInternalWidth configure road footprints (C3/C4).
	RoadMainWidth     float64 `yaml:"road_main_width" json:"road_main_width"`
	RoadInternalWidth float64 `yaml:"road_internal_width" json:"road_internal_width"`

	// SolverTimeLimitSec bounds C7's per-block search (seconds).
	SolverTimeLimitSec float64 `yaml:"solver_time_limit_sec" json:"solver_time_limit_sec"`

	// LoopRedundancyRatio is C10's target fraction of extra ring edges.
	LoopRedundancyRatio float64 `yaml:"loop_redundancy_ratio" json:"loop_redundancy_ratio"`

	// TransformerCapacityKVA and LotsPerTransformer configure C11.
	TransformerCapacityKVA float64 `yaml:"transformer_capacity_kva" json:"transformer_capacity_kva"`
	LotsPerTransformer     float64 `yaml:"lots_per_transformer" json:"lots_per_transformer"`
}

// DefaultConfig returns the defaults named across spec.md §6.
func DefaultConfig() Config {
	return Config{
		Seed:                   0,
		LayoutMethod:           MethodAuto,
		SpacingMin:             20,
		SpacingMax:             100,
		AngleMin:               0,
		AngleMax:               90,
		PopulationSize:         50,
		Generations:            100,
		CrossoverProb:          0.9,
		MutationProb:           0.2,
		TargetLotWidth:         15,
		MinLotWidth:            10,
		MaxLotWidth:            25,
		SetbackDistance:        6,
		RoadMainWidth:          12,
		RoadInternalWidth:      8,
		SolverTimeLimitSec:     5,
		LoopRedundancyRatio:    0.15,
		TransformerCapacityKVA: 1000,
		LotsPerTransformer:     20,
	}
}

// LoadConfig reads and validates a YAML configuration file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("layout: reading config file: %w", err)
	}
	return LoadConfigFromBytes(data)
}

// LoadConfigFromBytes parses YAML configuration from a byte slice,
// layered on top of DefaultConfig so an incomplete YAML document still
// yields sane values.
func LoadConfigFromBytes(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("layout: parsing YAML: %w", err)
	}
	if cfg.Seed == 0 {
		cfg.Seed = generateSeed()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks every bound named in spec.md §6, accumulating every
// violation found rather than stopping at the first, via
// layouterr.InvalidConfigError.
func (c Config) Validate() error {
	var violations []string

	switch c.LayoutMethod {
	case MethodAuto, MethodGrid, MethodVoronoi:
	default:
		violations = append(violations, fmt.Sprintf("layout_method: unknown value %q", c.LayoutMethod))
	}

	if c.SpacingMin <= 0 || c.SpacingMax < c.SpacingMin {
		violations = append(violations, "spacing_min/spacing_max: must have 0 < spacing_min <= spacing_max")
	}
	if c.AngleMin < 0 || c.AngleMax > 90 || c.AngleMax < c.AngleMin {
		violations = append(violations, "angle_min/angle_max: must satisfy 0 <= angle_min <= angle_max <= 90")
	}
	if c.PopulationSize < 2 {
		violations = append(violations, "population_size: must be >= 2")
	}
	if c.Generations < 1 {
		violations = append(violations, "generations: must be >= 1")
	}
	if c.CrossoverProb < 0 || c.CrossoverProb > 1 {
		violations = append(violations, "crossover_prob: must be in [0, 1]")
	}
	if c.MutationProb < 0 || c.MutationProb > 1 {
		violations = append(violations, "mutation_prob: must be in [0, 1]")
	}
	if c.MinLotWidth <= 0 || c.MaxLotWidth < c.MinLotWidth {
		violations = append(violations, "min_lot_width/max_lot_width: must have 0 < min_lot_width <= max_lot_width")
	}
	if c.TargetLotWidth < c.MinLotWidth || c.TargetLotWidth > c.MaxLotWidth {
		violations = append(violations, "target_lot_width: must be within [min_lot_width, max_lot_width]")
	}
	if c.SetbackDistance < 0 {
		violations = append(violations, "setback_distance: must be >= 0")
	}
	if c.RoadMainWidth <= 0 || c.RoadInternalWidth <= 0 {
		violations = append(violations, "road_main_width/road_internal_width: must be > 0")
	}
	if c.SolverTimeLimitSec <= 0 {
		violations = append(violations, "solver_time_limit_sec: must be > 0")
	}
	if c.LoopRedundancyRatio < 0 || c.LoopRedundancyRatio > 1 {
		violations = append(violations, "loop_redundancy_ratio: must be in [0, 1]")
	}
	if c.TransformerCapacityKVA <= 0 {
		violations = append(violations, "transformer_capacity_kva: must be > 0")
	}
	if c.LotsPerTransformer <= 0 {
		violations = append(violations, "lots_per_transformer: must be > 0")
	}

	if len(violations) > 0 {
		return fmt.Errorf("layout: %w", &layouterr.InvalidConfigError{Violations: violations})
	}
	return nil
}

// ToYAML serializes the config to YAML bytes.
func (c Config) ToYAML() ([]byte, error) {
	return yaml.Marshal(c)
}

// Hash computes SHA-256(YAML bytes), used to derive per-stage RNGs
// (spec.md §5: H(master_seed, stage_name, config_hash)).
func (c Config) Hash() []byte {
	data, err := c.ToYAML()
	if err != nil {
		h := sha256.New()
		var buf [8]byte
		binary.LittleEndian.PutUint64(buf[:], c.Seed)
		h.Write(buf[:])
		return h.Sum(nil)
	}
	h := sha256.New()
	h.Write(data)
	return h.Sum(nil)
}

func generateSeed() uint64 {
	now := time.Now().UnixNano()
	if now < 0 {
		now = -now
	}
	seed := uint64(now)
	if seed == 0 {
		seed = 1
	}
	return seed
}
