// Package config assembles the editor configuration from defaults, an
// optional yaml file, a .env file, the environment and command-line flags,
// in that order of precedence (later wins).
package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DefaultPath    = "votemap.yaml"
	DefaultEnvFile = ".env"
)

type Zoom struct {
	Min       float64 `yaml:"min"`
	Max       float64 `yaml:"max"`
	Step      float64 `yaml:"step"`
	TopMargin float64 `yaml:"top_margin"`
}

type Config struct {
	Server        string        `yaml:"server"`
	Timeout       time.Duration `yaml:"timeout"`
	Title         string        `yaml:"title"`
	StrokeWidth   float64       `yaml:"stroke_width"`
	Zoom          Zoom          `yaml:"zoom"`
	Mode          string        `yaml:"mode"`
	PaletteScript string        `yaml:"palette_script"`
	Journal       string        `yaml:"journal"`
	WatchInputs   bool          `yaml:"watch_inputs"`
	SVG           string        `yaml:"svg"`
	CSV           string        `yaml:"csv"`

	// History lists that many journal entries and exits when > 0.
	History int `yaml:"-"`
}

func Default() Config {
	return Config{
		Server:      "http://127.0.0.1:5000",
		Timeout:     60 * time.Second,
		Title:       "选情地图",
		StrokeWidth: 1.0,
		Zoom: Zoom{
			Min:       0.2,
			Max:       10.0,
			Step:      0.1,
			TopMargin: 20,
		},
		Mode:    "result",
		Journal: "votemap-journal.db",
	}
}

// Load reads a yaml file over the defaults. A missing file is an error only
// when required is set.
func Load(path string, required bool) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !required {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

// Parse builds the configuration for a command line.
func Parse(args []string) (Config, error) {
	return parse(args, DefaultEnvFile)
}

func parse(args []string, envFile string) (Config, error) {
	var flags Config
	var configPath string

	fs := flag.NewFlagSet("votemap", flag.ContinueOnError)
	fs.StringVar(&configPath, "config", DefaultPath, "Path to the yaml config file")
	fs.StringVar(&flags.Server, "server", "", "Map server base URL")
	fs.StringVar(&flags.SVG, "svg", "", "Boundary SVG file to render on start")
	fs.StringVar(&flags.CSV, "csv", "", "Vote CSV file to render on start")
	fs.StringVar(&flags.Title, "title", "", "Map title")
	fs.StringVar(&flags.Mode, "m", "", "Initial view mode (result or seats)")
	fs.StringVar(&flags.Journal, "journal", "", "Edit journal database path")
	fs.BoolVar(&flags.WatchInputs, "watch", false, "Re-upload input files when they change on disk")
	fs.IntVar(&flags.History, "history", 0, "Print the last N journal entries and exit")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	set := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })

	cfg, err := Load(configPath, set["config"])
	if err != nil {
		return Config{}, err
	}

	env, err := readEnv(envFile)
	if err != nil {
		return Config{}, err
	}
	if v := env("VOTEMAP_SERVER"); v != "" {
		cfg.Server = v
	}
	if v := env("VOTEMAP_JOURNAL"); v != "" {
		cfg.Journal = v
	}

	if set["server"] {
		cfg.Server = flags.Server
	}
	if set["svg"] {
		cfg.SVG = flags.SVG
	}
	if set["csv"] {
		cfg.CSV = flags.CSV
	}
	if set["title"] {
		cfg.Title = flags.Title
	}
	if set["m"] {
		cfg.Mode = flags.Mode
	}
	if set["journal"] {
		cfg.Journal = flags.Journal
	}
	if set["watch"] {
		cfg.WatchInputs = flags.WatchInputs
	}
	cfg.History = flags.History

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// readEnv returns a lookup where the process environment wins over the
// .env file. A missing .env file is fine.
func readEnv(path string) (func(string) string, error) {
	file := map[string]string{}
	if path != "" {
		m, err := godotenv.Read(path)
		switch {
		case err == nil:
			file = m
		case errors.Is(err, os.ErrNotExist):
		default:
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
	}
	return func(key string) string {
		if v, ok := os.LookupEnv(key); ok {
			return v
		}
		return file[key]
	}, nil
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.Server) == "" {
		return errors.New("server URL required (use -server or VOTEMAP_SERVER)")
	}
	if !strings.HasPrefix(c.Server, "http://") && !strings.HasPrefix(c.Server, "https://") {
		return fmt.Errorf("server URL %q must start with http:// or https://", c.Server)
	}
	if c.Zoom.Min <= 0 || c.Zoom.Max < c.Zoom.Min {
		return fmt.Errorf("invalid zoom bounds [%v, %v]", c.Zoom.Min, c.Zoom.Max)
	}
	if c.Zoom.Step <= 0 {
		return fmt.Errorf("zoom step must be positive, got %v", c.Zoom.Step)
	}
	if c.StrokeWidth <= 0 {
		return fmt.Errorf("stroke width must be positive, got %v", c.StrokeWidth)
	}
	switch c.Mode {
	case "", "result", "seats":
	default:
		return fmt.Errorf("unknown view mode %q", c.Mode)
	}
	return nil
}
