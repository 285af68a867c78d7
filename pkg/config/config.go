package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"runtime"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/shirou/gopsutil/v3/cpu"

	"github.com/df07/go-sphere-raytracer/pkg/output"
)

// Environment keys read by FromEnv
const (
	EnvScene          = "RT_SCENE"
	EnvWidth          = "RT_WIDTH"
	EnvSamples        = "RT_SAMPLES"
	EnvMaxDepth       = "RT_MAX_DEPTH"
	EnvWorkers        = "RT_WORKERS"
	EnvSeed           = "RT_SEED"
	EnvOutputDir      = "RT_OUTPUT_DIR"
	EnvFormat         = "RT_FORMAT"
	EnvThumbnailWidth = "RT_THUMBNAIL_WIDTH"
	EnvS3Bucket       = "S3_BUCKET"
	EnvS3Region       = "S3_REGION"
	EnvS3Endpoint     = "S3_ENDPOINT"
	EnvS3AccessKey    = "S3_ACCESS_KEY"
	EnvS3SecretKey    = "S3_SECRET_KEY"
	EnvS3Prefix       = "S3_PREFIX"
)

// Field identifies a sampling setting that was given explicitly
type Field uint

const (
	FieldWidth Field = 1 << iota
	FieldSamples
	FieldMaxDepth
	FieldWorkers
	FieldSeed

	AllSampling = FieldWidth | FieldSamples | FieldMaxDepth | FieldWorkers | FieldSeed
)

// Config holds render settings shared by the CLI and the web server
type Config struct {
	Scene          string
	Width          int
	Samples        int
	MaxDepth       int
	Workers        int
	Seed           int64
	OutputDir      string
	Format         string
	ThumbnailWidth int // 0 disables thumbnails
	S3             S3Config
	Set            Field // Sampling settings taken from the environment or flags rather than defaults
}

// IsSet reports whether every field in f was given explicitly
func (c Config) IsSet(f Field) bool {
	return c.Set&f == f
}

// OutputFormat parses Format
func (c Config) OutputFormat() (output.Format, error) {
	return output.ParseFormat(c.Format)
}

// S3Config holds the optional upload target for finished renders
type S3Config struct {
	Bucket    string
	Region    string
	Endpoint  string // Non-empty for S3-compatible stores
	AccessKey string
	SecretKey string
	Prefix    string // Key prefix inside the bucket
}

// Enabled reports whether uploads are configured
func (c S3Config) Enabled() bool {
	return c.Bucket != ""
}

// Default returns the settings used when nothing is configured
func Default() Config {
	return Config{
		Scene:     "default",
		Width:     400,
		Samples:   100,
		MaxDepth:  50,
		Workers:   DefaultWorkers(),
		Seed:      42,
		OutputDir: "output",
		Format:    string(output.FormatPNG),
	}
}

// DefaultWorkers returns the number of logical CPUs
func DefaultWorkers() int {
	if n, err := cpu.Counts(true); err == nil && n > 0 {
		return n
	}
	return runtime.NumCPU()
}

// Load reads an optional .env file into the process environment and then
// builds the config from it. A missing file is not an error.
func Load(envFile string) (Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", envFile, err)
		}
	}
	return FromEnv()
}

// FromEnv builds the config from environment variables over the defaults
func FromEnv() (Config, error) {
	cfg := Default()
	var errs []error

	cfg.Scene = getEnv(EnvScene, cfg.Scene)
	cfg.OutputDir = getEnv(EnvOutputDir, cfg.OutputDir)
	cfg.Format = getEnv(EnvFormat, cfg.Format)

	intVars := []struct {
		key   string
		dst   *int
		field Field
	}{
		{EnvWidth, &cfg.Width, FieldWidth},
		{EnvSamples, &cfg.Samples, FieldSamples},
		{EnvMaxDepth, &cfg.MaxDepth, FieldMaxDepth},
		{EnvWorkers, &cfg.Workers, FieldWorkers},
		{EnvThumbnailWidth, &cfg.ThumbnailWidth, 0},
	}
	for _, v := range intVars {
		set, err := getEnvInt(v.key, v.dst)
		if err != nil {
			errs = append(errs, err)
		} else if set {
			cfg.Set |= v.field
		}
	}

	if value, ok := os.LookupEnv(EnvSeed); ok {
		seed, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", EnvSeed, err))
		} else {
			cfg.Seed = seed
			cfg.Set |= FieldSeed
		}
	}

	cfg.S3 = S3Config{
		Bucket:    os.Getenv(EnvS3Bucket),
		Region:    os.Getenv(EnvS3Region),
		Endpoint:  os.Getenv(EnvS3Endpoint),
		AccessKey: os.Getenv(EnvS3AccessKey),
		SecretKey: os.Getenv(EnvS3SecretKey),
		Prefix:    os.Getenv(EnvS3Prefix),
	}

	if err := errors.Join(errs...); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports settings that cannot produce a render
func (c Config) Validate() error {
	var errs []error
	if c.Scene == "" {
		errs = append(errs, errors.New("scene must not be empty"))
	}
	if c.Width < 1 {
		errs = append(errs, fmt.Errorf("width must be at least 1, got %d", c.Width))
	}
	if c.Samples < 1 {
		errs = append(errs, fmt.Errorf("samples must be at least 1, got %d", c.Samples))
	}
	if c.MaxDepth < 0 {
		errs = append(errs, fmt.Errorf("max depth must not be negative, got %d", c.MaxDepth))
	}
	if c.Workers < 0 {
		errs = append(errs, fmt.Errorf("workers must not be negative, got %d", c.Workers))
	}
	if c.ThumbnailWidth < 0 {
		errs = append(errs, fmt.Errorf("thumbnail width must not be negative, got %d", c.ThumbnailWidth))
	}
	if _, err := c.OutputFormat(); err != nil {
		errs = append(errs, err)
	}
	if c.S3.Enabled() && c.S3.Region == "" {
		errs = append(errs, fmt.Errorf("%s is required when %s is set", EnvS3Region, EnvS3Bucket))
	}
	return errors.Join(errs...)
}

// getEnv returns the variable's value or the fallback when unset
func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

// getEnvInt overwrites dst when the variable is set and reports whether it was
func getEnvInt(key string, dst *int) (bool, error) {
	value, ok := os.LookupEnv(key)
	if !ok {
		return false, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return false, fmt.Errorf("%s: %w", key, err)
	}
	*dst = n
	return true, nil
}
