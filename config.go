package mozaik

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bytedance/sonic"
	"github.com/mitchellh/go-homedir"
)

// Config collects the user-tunable settings shared by both frontends.
// It lives as JSON under the user's config directory; command line
// flags override individual fields.
type Config struct {
	Rows        int     `json:"rows"`
	Cols        int     `json:"cols"`
	WidthFrac   float64 `json:"width_frac"`
	HeightFrac  float64 `json:"height_frac"`
	Outlines    bool    `json:"outlines"`
	DragMode    string  `json:"drag_mode"`
	Mute        bool    `json:"mute"`
	ClickSample string  `json:"click_sample"`
	LogLevel    string  `json:"log_level"`
}

func DefaultConfig() Config {
	return Config{
		Rows:       DefaultRows,
		Cols:       DefaultCols,
		WidthFrac:  DefaultWidthFrac,
		HeightFrac: DefaultHeightFrac,
		DragMode:   DragRelative.String(),
		LogLevel:   "info",
	}
}

// DefaultConfigPath returns ~/.config/mozaik/config.json.
func DefaultConfigPath() (string, error) {
	home, err := homedir.Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "mozaik", "config.json"), nil
}

// LoadConfig reads and validates the config file at path. Fields absent
// from the file keep their defaults.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	cfg := DefaultConfig()
	if err := sonic.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("cannot parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// LoadDefaultConfig reads the config from the default path. A missing
// file is not an error: the defaults apply.
func LoadDefaultConfig() (Config, error) {
	path, err := DefaultConfigPath()
	if err != nil {
		logger().Debug("no home directory, using built-in defaults", "error", err)
		return DefaultConfig(), nil
	}
	cfg, err := LoadConfig(path)
	if errors.Is(err, os.ErrNotExist) {
		return DefaultConfig(), nil
	}
	if err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.Rows < 1 || c.Cols < 1 {
		return fmt.Errorf("grid must be at least 1x1, got %dx%d", c.Rows, c.Cols)
	}
	if c.WidthFrac <= 0 || c.WidthFrac > 1 {
		return fmt.Errorf("width_frac must be in (0,1], got %v", c.WidthFrac)
	}
	if c.HeightFrac <= 0 || c.HeightFrac > 1 {
		return fmt.Errorf("height_frac must be in (0,1], got %v", c.HeightFrac)
	}
	if _, err := ParseDragMode(c.DragMode); err != nil {
		return err
	}
	if _, err := ResolveLogLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// Params returns the layout parameters described by the config.
func (c Config) Params() Params {
	return Params{
		Rows:       c.Rows,
		Cols:       c.Cols,
		WidthFrac:  c.WidthFrac,
		HeightFrac: c.HeightFrac,
	}
}

// RegisterFlags defines the config-overriding command line flags on fs,
// with defaults matching DefaultConfig. Both frontends share this set;
// ApplyFlags reads the values back.
func RegisterFlags(fs *flag.FlagSet) {
	def := DefaultConfig()
	fs.Int("rows", def.Rows, "grid rows")
	fs.Int("cols", def.Cols, "grid columns")
	fs.Bool("outlines", def.Outlines, "draw tile outlines")
	fs.String("drag", def.DragMode, "drag mode: relative or center")
	fs.Bool("mute", def.Mute, "disable click sounds")
	fs.String("click", def.ClickSample, "wav or mp3 sample for the clicks")
	fs.String("log-level", def.LogLevel, "log level: debug, info, warn or error")
}

// ApplyFlags overlays the flags from RegisterFlags that were set
// explicitly on the command line. Flags left at their defaults do not
// override values loaded from the config file.
func (c *Config) ApplyFlags(fs *flag.FlagSet) {
	fs.Visit(func(f *flag.Flag) {
		g, ok := f.Value.(flag.Getter)
		if !ok {
			return
		}
		switch f.Name {
		case "rows":
			c.Rows = g.Get().(int)
		case "cols":
			c.Cols = g.Get().(int)
		case "outlines":
			c.Outlines = g.Get().(bool)
		case "drag":
			c.DragMode = g.Get().(string)
		case "mute":
			c.Mute = g.Get().(bool)
		case "click":
			c.ClickSample = g.Get().(string)
		case "log-level":
			c.LogLevel = g.Get().(string)
		}
	})
}
