// internal/config/config.go
//
// Game rules configuration, loaded from an optional YAML file.
// Responsibilities:
//   - Default rule set matching the physical game (10×8 board, lightening
//     white pieces, reflection cap of 4*(w+h)).
//   - Validation of operator-supplied overrides.

package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/orapamine/go-server/internal/mixer"
)

// Config is the server's rule set. Field values of zero (or nil) fall back
// to the defaults during Load.
type Config struct {
	BoardWidth  int `yaml:"board_width"`
	BoardHeight int `yaml:"board_height"`

	// MaxReflections caps a single wave trace. Zero means 4*(w+h).
	MaxReflections int `yaml:"max_reflections"`

	// WhiteLighten selects the revised white-piece rule (pastels). Unset
	// defaults to true; false selects the legacy pass-through rule.
	WhiteLighten *bool `yaml:"white_lighten"`

	// MaxPlayers is the session cap, director included.
	MaxPlayers int `yaml:"max_players"`

	// MinPieces / MaxPieces bound the difficulty setting (the number of
	// pieces the director hides).
	MinPieces int `yaml:"min_pieces"`
	MaxPieces int `yaml:"max_pieces"`
}

// Default returns the rule set of the physical game.
func Default() Config {
	lighten := true
	return Config{
		BoardWidth:   10,
		BoardHeight:  8,
		WhiteLighten: &lighten,
		MaxPlayers:   5,
		MinPieces:    1,
		MaxPieces:    7,
	}
}

// Load reads the YAML rules file at path. A missing file is not an error:
// the defaults apply. Unset fields also fall back to the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read rules file: %w", err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("parse rules file %s: %w", path, err)
	}
	applyDefaults(&cfg)
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("rules file %s: %w", path, err)
	}
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	def := Default()
	if cfg.BoardWidth == 0 {
		cfg.BoardWidth = def.BoardWidth
	}
	if cfg.BoardHeight == 0 {
		cfg.BoardHeight = def.BoardHeight
	}
	if cfg.WhiteLighten == nil {
		cfg.WhiteLighten = def.WhiteLighten
	}
	if cfg.MaxPlayers == 0 {
		cfg.MaxPlayers = def.MaxPlayers
	}
	if cfg.MinPieces == 0 {
		cfg.MinPieces = def.MinPieces
	}
	if cfg.MaxPieces == 0 {
		cfg.MaxPieces = def.MaxPieces
	}
}

// Validate checks the rule set for internal consistency. The border label
// scheme letters the bottom and right edges, so width+height is capped at
// the alphabet.
func (c Config) Validate() error {
	if c.BoardWidth < 1 || c.BoardHeight < 1 {
		return fmt.Errorf("board %dx%d: dimensions must be positive", c.BoardWidth, c.BoardHeight)
	}
	if c.BoardWidth+c.BoardHeight > 26 {
		return fmt.Errorf("board %dx%d: width+height may not exceed 26", c.BoardWidth, c.BoardHeight)
	}
	if c.MaxReflections < 0 {
		return fmt.Errorf("max_reflections %d: may not be negative", c.MaxReflections)
	}
	if c.MaxPlayers < 2 {
		return fmt.Errorf("max_players %d: need a director and at least one explorer", c.MaxPlayers)
	}
	if c.MinPieces < 1 || c.MaxPieces < c.MinPieces {
		return fmt.Errorf("piece bounds [%d,%d] invalid", c.MinPieces, c.MaxPieces)
	}
	return nil
}

// MixRule maps the white-piece setting onto the mixer's rule.
func (c Config) MixRule() mixer.Rule {
	if c.WhiteLighten != nil && !*c.WhiteLighten {
		return mixer.RulePassThrough
	}
	return mixer.RuleLighten
}

// ReflectionCap resolves the configured cap, defaulting to 4*(w+h).
func (c Config) ReflectionCap() int {
	if c.MaxReflections > 0 {
		return c.MaxReflections
	}
	return 4 * (c.BoardWidth + c.BoardHeight)
}
