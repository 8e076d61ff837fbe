package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ashfall-game/mapgen/pkg/engine"
	"github.com/ashfall-game/mapgen/pkg/export"
	"github.com/ashfall-game/mapgen/pkg/submap"
)

const version = "1.0.0"

var (
	configPath = flag.String("config", "", "Path to YAML configuration file (required)")
	outputDir  = flag.String("output", ".", "Output directory for generated files")
	format     = flag.String("format", "json", "Export format: json, tmj, svg, or all")
	seedFlag   = flag.Uint64("seed", 0, "Override the seed from config (0 = use config seed)")
	verbose    = flag.Bool("verbose", false, "Enable verbose output")
	versionF   = flag.Bool("version", false, "Print version and exit")
	help       = flag.Bool("help", false, "Show help message")
)

func main() {
	flag.Parse()

	if *versionF {
		fmt.Printf("mapgen version %s\n", version)
		os.Exit(0)
	}
	if *help {
		printHelp()
		os.Exit(0)
	}
	if *configPath == "" {
		fmt.Fprintln(os.Stderr, "Error: -config flag is required")
		printUsage()
		os.Exit(1)
	}

	validFormats := map[string]bool{"json": true, "tmj": true, "svg": true, "all": true}
	if !validFormats[*format] {
		fmt.Fprintf(os.Stderr, "Error: invalid format %q, must be one of: json, tmj, svg, all\n", *format)
		os.Exit(1)
	}

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	if *verbose {
		fmt.Printf("Loading configuration from %s\n", *configPath)
	}
	cfg, err := engine.LoadConfig(*configPath)
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
		fmt.Printf("Using seed: %d\n", cfg.Seed)
		fmt.Printf("Overmap origin: (%d, %d)\n", cfg.Overmap.X, cfg.Overmap.Y)
		fmt.Printf("Game-map origin: (%d, %d, %d)\n", cfg.World.OriginX, cfg.World.OriginY, cfg.World.OriginZ)
	}

	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	start := time.Now()
	if *verbose {
		fmt.Println("Generating world...")
	}
	result, err := engine.Generate(ctx, *cfg)
	if err != nil {
		return fmt.Errorf("generation failed: %w", err)
	}
	elapsed := time.Since(start)

	if *verbose {
		fmt.Printf("Generation completed in %v\n", elapsed)
		printStats(result)
	}

	baseName := fmt.Sprintf("world_%d", cfg.Seed)
	submaps := result.GameMap.AllSubmaps()

	if *format == "json" || *format == "all" {
		if err := exportJSON(submaps, baseName); err != nil {
			return err
		}
	}
	if *format == "tmj" || *format == "all" {
		if err := exportTMJ(submaps, baseName); err != nil {
			return err
		}
	}
	if *format == "svg" || *format == "all" {
		if err := exportSVG(submaps, result, baseName); err != nil {
			return err
		}
	}

	fmt.Printf("Successfully generated world (seed=%d) with %d populated submaps in %v\n", cfg.Seed, len(submaps), elapsed)
	return nil
}

func exportJSON(submaps []*submap.Submap, baseName string) error {
	for i, sm := range submaps {
		filename := filepath.Join(*outputDir, fmt.Sprintf("%s_%03d.json", baseName, i))
		if *verbose {
			fmt.Printf("Exporting JSON to %s\n", filename)
		}
		if err := export.SaveJSONToFile(sm, filename); err != nil {
			return fmt.Errorf("failed to export JSON for submap %d: %w", i, err)
		}
	}
	return nil
}

func exportTMJ(submaps []*submap.Submap, baseName string) error {
	for i, sm := range submaps {
		filename := filepath.Join(*outputDir, fmt.Sprintf("%s_%03d.tmj", baseName, i))
		if *verbose {
			fmt.Printf("Exporting TMJ to %s\n", filename)
		}
		if err := export.SaveSubmapToTMJFile(sm, filename, true); err != nil {
			return fmt.Errorf("failed to export TMJ for submap %d: %w", i, err)
		}
	}
	return nil
}

func exportSVG(submaps []*submap.Submap, result *engine.Result, baseName string) error {
	opts := export.DefaultSVGOptions()
	for i, sm := range submaps {
		filename := filepath.Join(*outputDir, fmt.Sprintf("%s_%03d.svg", baseName, i))
		opts.Title = fmt.Sprintf("Submap %d", i)
		if *verbose {
			fmt.Printf("Exporting SVG to %s\n", filename)
		}
		if err := export.SaveSVGToFile(sm, result.Stores.Terrain, filename, opts); err != nil {
			return fmt.Errorf("failed to export SVG for submap %d: %w", i, err)
		}
	}
	return nil
}

func printStats(result *engine.Result) {
	fmt.Println("\nWorld Statistics:")
	fmt.Printf("  Cities: %d\n", len(result.Overmap.Cities))
	fmt.Printf("  Populated submaps: %d\n", result.GameMap.Count())
	fmt.Printf("  Diagnostics recorded: %d\n", result.Log.Len())

	fmt.Printf("\nOvermap validation: %s\n", validationStatus(result.OvermapReport.Passed))
	if len(result.OvermapReport.Warnings) > 0 {
		fmt.Printf("  Warnings: %d\n", len(result.OvermapReport.Warnings))
	}
	if len(result.OvermapReport.Errors) > 0 {
		fmt.Printf("  Errors: %d\n", len(result.OvermapReport.Errors))
	}

	fmt.Printf("\nSubmap validation: %s\n", validationStatus(result.SubmapReport.Passed))
	fmt.Printf("  Expanded ratio: %.3f\n", result.SubmapReport.Metrics.ExpandedRatio)
}

func validationStatus(passed bool) string {
	if passed {
		return "PASSED"
	}
	return "FAILED"
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "\nUsage: mapgen -config <config.yaml> [options]")
	fmt.Fprintln(os.Stderr, "\nRun 'mapgen -help' for detailed help")
}

func printHelp() {
	fmt.Printf("mapgen version %s\n\n", version)
	fmt.Println("A command-line tool for generating a procedural post-apocalyptic world.")
	fmt.Println("\nUsage:")
	fmt.Println("  mapgen -config <config.yaml> [options]")
	fmt.Println("\nRequired Flags:")
	fmt.Println("  -config string")
	fmt.Println("        Path to YAML configuration file")
	fmt.Println("\nOptional Flags:")
	fmt.Println("  -output string")
	fmt.Println("        Output directory for generated files (default: current directory)")
	fmt.Println("  -format string")
	fmt.Println("        Export format: json, tmj, svg, or all (default: json)")
	fmt.Println("  -seed uint")
	fmt.Println("        Override the seed from config (0 = use config seed) (default: 0)")
	fmt.Println("  -verbose")
	fmt.Println("        Enable verbose output")
	fmt.Println("  -version")
	fmt.Println("        Print version and exit")
	fmt.Println("  -help")
	fmt.Println("        Show this help message")
	fmt.Println("\nExamples:")
	fmt.Println("  # Generate a world with default JSON export")
	fmt.Println("  mapgen -config world.yaml")
	fmt.Println("\n  # Generate with a custom seed and every export format")
	fmt.Println("  mapgen -config world.yaml -seed 12345 -format all -output ./out")
	fmt.Println("\nConfiguration File:")
	fmt.Println("  The YAML configuration file specifies world generation parameters:")
	fmt.Println("  - seed (for deterministic generation)")
	fmt.Println("  - contentDir (directory holding pack.yaml and its JSON records)")
	fmt.Println("  - overmap (origin, terrain ids, city placement, pacing curve)")
	fmt.Println("  - world (game-map window origin)")
}
