package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"image"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/df07/go-sphere-raytracer/pkg/config"
	"github.com/df07/go-sphere-raytracer/pkg/core"
	"github.com/df07/go-sphere-raytracer/pkg/output"
	"github.com/df07/go-sphere-raytracer/pkg/renderer"
	"github.com/df07/go-sphere-raytracer/pkg/scene"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run parses flags, renders the selected scene and writes the results
func run(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("raytracer", flag.ContinueOnError)
	defaults := config.Default()

	sceneName := fs.String("scene", defaults.Scene, "Built-in scene: "+strings.Join(scene.Names(), ", "))
	sceneFile := fs.String("scene-file", "", "Load the scene from a JSON file instead of a built-in scene")
	width := fs.Int("width", defaults.Width, "Image width in pixels; height follows the camera aspect ratio")
	samples := fs.Int("samples", defaults.Samples, "Samples per pixel")
	depth := fs.Int("depth", defaults.MaxDepth, "Maximum ray bounce depth")
	workers := fs.Int("workers", defaults.Workers, "Parallel row workers")
	seed := fs.Int64("seed", defaults.Seed, "Base random seed")
	format := fs.String("format", defaults.Format, "Output format: png, ppm, ppm-ascii, bmp, tiff")
	outDir := fs.String("out", defaults.OutputDir, "Output directory")
	thumbnail := fs.Int("thumbnail", defaults.ThumbnailWidth, "Also write a thumbnail of this width (0 disables)")
	passes := fs.Int("passes", 1, "Progressive passes; each pass refines the previous one")
	upload := fs.Bool("upload", false, "Upload the render to the configured S3 bucket")
	envFile := fs.String("env", ".env", "Optional dotenv file with RT_* and S3_* settings")
	help := fs.Bool("help", false, "Show help information")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	if *help {
		printHelp(fs)
		return nil
	}

	cfg, err := config.Load(*envFile)
	if err != nil {
		return err
	}

	// Flags given on the command line win over the environment
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "scene":
			cfg.Scene = *sceneName
		case "width":
			cfg.Width = *width
			cfg.Set |= config.FieldWidth
		case "samples":
			cfg.Samples = *samples
			cfg.Set |= config.FieldSamples
		case "depth":
			cfg.MaxDepth = *depth
			cfg.Set |= config.FieldMaxDepth
		case "workers":
			cfg.Workers = *workers
			cfg.Set |= config.FieldWorkers
		case "seed":
			cfg.Seed = *seed
			cfg.Set |= config.FieldSeed
		case "format":
			cfg.Format = *format
		case "out":
			cfg.OutputDir = *outDir
		case "thumbnail":
			cfg.ThumbnailWidth = *thumbnail
		}
	})

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if *upload && !cfg.S3.Enabled() {
		return fmt.Errorf("-upload requires %s to be set", config.EnvS3Bucket)
	}
	outputFormat, err := cfg.OutputFormat()
	if err != nil {
		return err
	}

	fmt.Println("Starting Sphere Raytracer...")

	selectedScene, err := createScene(cfg.Scene, *sceneFile)
	if err != nil {
		return err
	}
	// A scene file keeps its own sampling block unless a setting was given explicitly
	fields := config.AllSampling
	if *sceneFile != "" {
		fields = cfg.Set
	}
	applyConfig(selectedScene, cfg, fields)

	logger := renderer.NewDefaultLogger()
	img, stats, err := renderScene(ctx, selectedScene, *passes, logger)
	if err != nil {
		return err
	}

	files, err := writeOutputs(img, selectedScene.Name, outputFormat, cfg)
	if err != nil {
		return err
	}

	fmt.Printf("Samples per pixel: %.1f (%d passes)\n", stats.AverageSamples, stats.Passes)
	for _, f := range files {
		fmt.Printf("Render saved as %s\n", f.path)
	}

	if *upload {
		uploader, err := output.NewS3Uploader(output.S3Options(cfg.S3), logger)
		if err != nil {
			return err
		}
		for _, f := range files {
			key := selectedScene.Name + "/" + filepath.Base(f.path)
			if _, err := uploader.Upload(ctx, key, f.data, outputFormat.ContentType()); err != nil {
				return err
			}
		}
	}

	return nil
}

func printHelp(fs *flag.FlagSet) {
	fmt.Println("Sphere Raytracer")
	fmt.Println("Usage: raytracer [options]")
	fmt.Println()
	fmt.Println("Options:")
	fs.SetOutput(os.Stdout)
	fs.PrintDefaults()
	fmt.Println()
	fmt.Println("Available scenes:")
	fmt.Println("  default - Three metal spheres of increasing roughness on a diffuse ground")
	fmt.Println("  diffuse - A single matte sphere on a diffuse ground")
	fmt.Println("  mixed   - A matte sphere between a polished and a brushed metal sphere")
	fmt.Println()
	fmt.Println("Settings can also come from RT_* and S3_* environment variables or a .env file.")
	fmt.Println("Output will be saved to output/<scene>/render_<timestamp>.<ext>")
}

// createScene loads sceneFile when given, otherwise the named built-in scene
func createScene(name, sceneFile string) (*scene.Scene, error) {
	if sceneFile != "" {
		fmt.Printf("Loading scene from %s...\n", sceneFile)
		return scene.Load(sceneFile)
	}
	s, err := scene.New(name)
	if err != nil {
		return nil, fmt.Errorf("%w (available: %s)", err, strings.Join(scene.Names(), ", "))
	}
	fmt.Printf("Using %s scene...\n", name)
	return s, nil
}

// applyConfig copies the selected render settings onto the scene
func applyConfig(s *scene.Scene, cfg config.Config, fields config.Field) {
	if fields&config.FieldWidth != 0 {
		s.SetWidth(cfg.Width)
	}
	if fields&config.FieldSamples != 0 {
		s.SamplingConfig.SamplesPerPixel = cfg.Samples
	}
	if fields&config.FieldMaxDepth != 0 {
		s.SamplingConfig.MaxDepth = cfg.MaxDepth
	}
	if fields&config.FieldWorkers != 0 {
		s.SamplingConfig.Workers = cfg.Workers
	}
	if fields&config.FieldSeed != 0 {
		s.SamplingConfig.Seed = cfg.Seed
	}
}

// renderScene renders the scene in the requested number of progressive passes
func renderScene(ctx context.Context, s *scene.Scene, passes int, logger core.Logger) (*image.RGBA, renderer.RenderStats, error) {
	rt := s.NewRaytracer(logger)
	sc := s.SamplingConfig
	logger.Printf("Rendering %dx%d, %d samples per pixel, max depth %d\n", sc.Width, sc.Height, sc.SamplesPerPixel, sc.MaxDepth)

	startTime := time.Now()
	progressive := renderer.ProgressiveConfig{InitialSamples: 1, MaxPasses: max(passes, 1)}
	img, stats, err := rt.RenderProgressive(ctx, progressive, nil)
	if err != nil {
		return nil, renderer.RenderStats{}, err
	}
	logger.Printf("Render completed in %v\n", time.Since(startTime))
	return img, stats, nil
}

type namedImage struct {
	path string
	img  image.Image
}

type writtenFile struct {
	path string
	data []byte
}

// writeOutputs encodes the render, and the thumbnail when enabled, into the output directory
func writeOutputs(img image.Image, sceneName string, format output.Format, cfg config.Config) ([]writtenFile, error) {
	filename := output.Filename(cfg.OutputDir, sceneName, format, time.Now())
	if err := os.MkdirAll(filepath.Dir(filename), 0755); err != nil {
		return nil, fmt.Errorf("error creating output directory: %w", err)
	}

	images := []namedImage{{filename, img}}
	if cfg.ThumbnailWidth > 0 {
		ext := filepath.Ext(filename)
		thumbPath := strings.TrimSuffix(filename, ext) + "_thumb" + ext
		images = append(images, namedImage{thumbPath, output.Thumbnail(img, cfg.ThumbnailWidth)})
	}

	var files []writtenFile
	for _, entry := range images {
		var buf bytes.Buffer
		if err := output.Encode(&buf, entry.img, format); err != nil {
			return nil, fmt.Errorf("error encoding %s: %w", entry.path, err)
		}
		if err := os.WriteFile(entry.path, buf.Bytes(), 0644); err != nil {
			return nil, fmt.Errorf("error saving %s: %w", entry.path, err)
		}
		files = append(files, writtenFile{path: entry.path, data: buf.Bytes()})
	}
	return files, nil
}
