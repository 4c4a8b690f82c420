package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/indlayout/engine/pkg/export"
	"github.com/indlayout/engine/pkg/geom"
	"github.com/indlayout/engine/pkg/layout"
)

const version = "1.0.0"

var (
	configPath = flag.String("config", "", "Path to YAML configuration file (required)")
	sitePath   = flag.String("site", "", "Path to a JSON site file: {\"outer\": [[x,y], ...], \"holes\": [[[x,y], ...]]} (required)")
	outputDir  = flag.String("output", ".", "Output directory for generated files")
	format     = flag.String("format", "json", "Export format: json, svg, or all")
	seedFlag   = flag.Uint64("seed", 0, "Override the seed from config (0 = use config seed)")
	verbose    = flag.Bool("verbose", false, "Enable verbose output")
	versionF   = flag.Bool("version", false, "Print version and exit")
	help       = flag.Bool("help", false, "Show help message")
)

func main() {
	flag.Parse()

	if *versionF {
		fmt.Printf("layoutgen version %s\n", version)
		os.Exit(0)
	}

	if *help {
		printHelp()
		os.Exit(0)
	}

	if *configPath == "" || *sitePath == "" {
		fmt.Fprintln(os.Stderr, "Error: -config and -site flags are required")
		printUsage()
		os.Exit(1)
	}

	validFormats := map[string]bool{"json": true, "svg": true, "all": true}
	if !validFormats[*format] {
		fmt.Fprintf(os.Stderr, "Error: invalid format %q, must be one of: json, svg, all\n", *format)
		os.Exit(1)
	}

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// nolint:gocyclo // Complexity acceptable: CLI argument handling and output formatting
func run() error {
	ctx := context.Background()

	if *verbose {
		fmt.Printf("Loading configuration from %s\n", *configPath)
	}
	cfg, err := layout.LoadConfig(*configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if *seedFlag != 0 {
		if *verbose {
			fmt.Printf("Overriding seed from %d to %d\n", cfg.Seed, *seedFlag)
		}
		cfg.Seed = *seedFlag
	}

	if *verbose {
		fmt.Printf("Loading site from %s\n", *sitePath)
	}
	site, err := loadSite(*sitePath)
	if err != nil {
		return fmt.Errorf("failed to load site: %w", err)
	}

	if *verbose {
		fmt.Printf("Using seed: %d\n", cfg.Seed)
		fmt.Printf("Layout method: %s\n", methodName(cfg.LayoutMethod))
		fmt.Printf("Site area: %.1f m^2\n", site.Area())
	}

	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	gen := layout.NewGenerator()

	start := time.Now()
	if *verbose {
		fmt.Println("Generating layout...")
	}

	result, err := gen.Generate(ctx, cfg, site)
	if err != nil {
		return fmt.Errorf("generation failed: %w", err)
	}

	elapsed := time.Since(start)
	if *verbose {
		fmt.Printf("Generation completed in %v\n", elapsed)
		printStats(result)
	}

	baseName := fmt.Sprintf("layout_%d", cfg.Seed)

	if *format == "json" || *format == "all" {
		if err := exportJSON(result, baseName); err != nil {
			return err
		}
	}
	if *format == "svg" || *format == "all" {
		if err := exportSVG(result, baseName, cfg.Seed); err != nil {
			return err
		}
	}

	fmt.Printf("Successfully generated layout (seed=%d, status=%s) in %v\n", cfg.Seed, result.Status, elapsed)
	return nil
}

// siteFile is the on-disk JSON shape accepted by -site: an outer ring
// and optional holes, both lists of [x, y] pairs in site-local metres
// (spec.md §6's "core consumes already-parsed polygons").
type siteFile struct {
	Outer [][2]float64   `json:"outer"`
	Holes [][][2]float64 `json:"holes,omitempty"`
}

func loadSite(path string) (geom.Site, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return geom.Site{}, err
	}
	var sf siteFile
	if err := json.Unmarshal(data, &sf); err != nil {
		return geom.Site{}, fmt.Errorf("invalid site file: %w", err)
	}
	if len(sf.Outer) < 3 {
		return geom.Site{}, fmt.Errorf("site outer ring needs at least 3 points, got %d", len(sf.Outer))
	}

	outer := make(geom.Ring, len(sf.Outer))
	for i, pt := range sf.Outer {
		outer[i] = geom.Point{X: pt[0], Y: pt[1]}
	}
	holes := make([]geom.Ring, len(sf.Holes))
	for i, h := range sf.Holes {
		r := make(geom.Ring, len(h))
		for j, pt := range h {
			r[j] = geom.Point{X: pt[0], Y: pt[1]}
		}
		holes[i] = r
	}

	return geom.NewSite(geom.NewPolygon(outer, holes...))
}

func methodName(m layout.Method) string {
	switch m {
	case layout.MethodGrid:
		return "grid"
	case layout.MethodVoronoi:
		return "voronoi"
	default:
		return "auto"
	}
}

func exportJSON(result *layout.Layout, baseName string) error {
	filename := filepath.Join(*outputDir, baseName+".json")
	if *verbose {
		fmt.Printf("Exporting JSON to %s\n", filename)
	}
	if err := export.SaveJSONToFile(result, filename); err != nil {
		return fmt.Errorf("failed to export JSON: %w", err)
	}
	if *verbose {
		info, _ := os.Stat(filename)
		fmt.Printf("  Wrote %d bytes\n", info.Size())
	}
	return nil
}

func exportSVG(result *layout.Layout, baseName string, seed uint64) error {
	filename := filepath.Join(*outputDir, baseName+".svg")
	if *verbose {
		fmt.Printf("Exporting SVG to %s\n", filename)
	}
	opts := export.DefaultSVGOptions()
	opts.Title = fmt.Sprintf("Estate Layout (seed=%d)", seed)
	if err := export.SaveSVGToFile(result, filename, opts); err != nil {
		return fmt.Errorf("failed to export SVG: %w", err)
	}
	if *verbose {
		info, _ := os.Stat(filename)
		fmt.Printf("  Wrote %d bytes\n", info.Size())
	}
	return nil
}

func printStats(result *layout.Layout) {
	fmt.Println("\nLayout Statistics:")
	fmt.Printf("  Blocks: %d\n", len(result.Blocks))
	fmt.Printf("  Lots: %d\n", len(result.Lots))
	fmt.Printf("  MST edges: %d\n", len(result.MSTEdges))
	fmt.Printf("  Redundancy edges: %d\n", len(result.RedundancyEdges))
	fmt.Printf("  Transformers: %d\n", len(result.Transformers))

	if result.Metrics != nil {
		fmt.Println("\nMetrics:")
		fmt.Printf("  TotalCommercialArea: %.1f\n", result.Metrics.TotalCommercialArea)
		fmt.Printf("  TotalGreenArea: %.1f\n", result.Metrics.TotalGreenArea)
		fmt.Printf("  UtilizationRatio: %.3f\n", result.Metrics.UtilizationRatio)
		fmt.Printf("  MSTLength: %.1f\n", result.Metrics.MSTLength)
		fmt.Printf("  AverageLotArea: %.1f\n", result.Metrics.AverageLotArea)
		fmt.Printf("  DiscardedBlocks: %d\n", result.Metrics.DiscardedBlockCount)
	}

	fmt.Printf("\nStatus: %s\n", validationStatus(result.Status))
	if len(result.Warnings) > 0 {
		fmt.Printf("  Warnings: %d\n", len(result.Warnings))
		for _, w := range result.Warnings {
			fmt.Printf("    - %s\n", w)
		}
	}
}

func validationStatus(s layout.Status) string {
	switch s {
	case layout.StatusOK:
		return "OK"
	case layout.StatusPartial:
		return "PARTIAL"
	default:
		return "FAILED"
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "\nUsage: layoutgen -config <config.yaml> -site <site.json> [options]")
	fmt.Fprintln(os.Stderr, "\nRun 'layoutgen -help' for detailed help")
}

func printHelp() {
	fmt.Printf("layoutgen version %s\n\n", version)
	fmt.Println("A command-line tool for generating industrial-estate layouts.")
	fmt.Println("\nUsage:")
	fmt.Println("  layoutgen -config <config.yaml> -site <site.json> [options]")
	fmt.Println("\nRequired Flags:")
	fmt.Println("  -config string")
	fmt.Println("        Path to YAML configuration file")
	fmt.Println("  -site string")
	fmt.Println("        Path to a JSON site file (outer ring + optional holes)")
	fmt.Println("\nOptional Flags:")
	fmt.Println("  -output string")
	fmt.Println("        Output directory for generated files (default: current directory)")
	fmt.Println("  -format string")
	fmt.Println("        Export format: json, svg, or all (default: json)")
	fmt.Println("  -seed uint")
	fmt.Println("        Override the seed from config (0 = use config seed) (default: 0)")
	fmt.Println("  -verbose")
	fmt.Println("        Enable verbose output")
	fmt.Println("  -version")
	fmt.Println("        Print version and exit")
	fmt.Println("  -help")
	fmt.Println("        Show this help message")
	fmt.Println("\nExamples:")
	fmt.Println("  # Generate a layout with default JSON export")
	fmt.Println("  layoutgen -config estate.yaml -site plot.json")
	fmt.Println("\n  # Generate with a custom seed and all export formats")
	fmt.Println("  layoutgen -config estate.yaml -site plot.json -seed 12345 -format all -output ./out")
	fmt.Println("\n  # Generate an SVG visualization with verbose output")
	fmt.Println("  layoutgen -config estate.yaml -site plot.json -format svg -verbose")
	fmt.Println("\nConfiguration File:")
	fmt.Println("  The YAML configuration file specifies layout parameters including:")
	fmt.Println("  - Seed (for deterministic generation)")
	fmt.Println("  - layout_method (auto, grid, voronoi)")
	fmt.Println("  - Grid spacing/angle bounds and NSGA-II population/generations")
	fmt.Println("  - Lot width/depth/setback targets")
	fmt.Println("  - Road widths and infrastructure capacities")
	fmt.Println("\n  See SPEC_FULL.md for the complete configuration schema.")
}
