package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/orapamine/go-server/internal/mixer"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.BoardWidth != 10 || cfg.BoardHeight != 8 {
		t.Fatalf("defaults: got %dx%d", cfg.BoardWidth, cfg.BoardHeight)
	}
	if cfg.MixRule() != mixer.RuleLighten {
		t.Fatal("default mix rule must lighten")
	}
	if cfg.ReflectionCap() != 72 {
		t.Fatalf("default cap: got %d, want 72", cfg.ReflectionCap())
	}
}

func TestLoadOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	body := "board_width: 6\nboard_height: 6\nmax_reflections: 10\nwhite_lighten: false\nmax_players: 3\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.BoardWidth != 6 || cfg.BoardHeight != 6 || cfg.MaxPlayers != 3 {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
	if cfg.ReflectionCap() != 10 {
		t.Fatalf("cap: got %d, want 10", cfg.ReflectionCap())
	}
	if cfg.MixRule() != mixer.RulePassThrough {
		t.Fatal("white_lighten: false must select the legacy rule")
	}
	// Unset fields keep their defaults.
	if cfg.MinPieces != 1 || cfg.MaxPieces != 7 {
		t.Fatalf("piece bounds: %+v", cfg)
	}
}

func TestLoadRejectsOversizedBoard(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	if err := os.WriteFile(path, []byte("board_width: 20\nboard_height: 10\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("want error: 20+10 exceeds the label alphabet")
	}
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	if err := os.WriteFile(path, []byte("board_width: [oops\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("want parse error")
	}
}

func TestValidate(t *testing.T) {
	bad := []Config{
		{BoardWidth: 0, BoardHeight: 8, MaxPlayers: 5, MinPieces: 1, MaxPieces: 7},
		{BoardWidth: 10, BoardHeight: 8, MaxPlayers: 1, MinPieces: 1, MaxPieces: 7},
		{BoardWidth: 10, BoardHeight: 8, MaxPlayers: 5, MinPieces: 3, MaxPieces: 2},
		{BoardWidth: 10, BoardHeight: 8, MaxPlayers: 5, MinPieces: 1, MaxPieces: 7, MaxReflections: -1},
	}
	for i, cfg := range bad {
		if err := cfg.Validate(); err == nil {
			t.Fatalf("case %d: want validation error for %+v", i, cfg)
		}
	}
	if err := Default().Validate(); err != nil {
		t.Fatalf("defaults must validate: %v", err)
	}
}
