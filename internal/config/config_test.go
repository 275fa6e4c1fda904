package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// isolate points every config location at an empty temp tree
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv(EnvConfigPath, "")
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "xdg"))
	t.Setenv("HOME", filepath.Join(dir, "home"))

	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Chdir(wd) })
	return dir
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Server.Addr != ":3000" {
		t.Errorf("Server.Addr = %q, want :3000", cfg.Server.Addr)
	}
	if cfg.Database.Path != "./logicsim.db" {
		t.Errorf("Database.Path = %q, want ./logicsim.db", cfg.Database.Path)
	}
	if cfg.Watch.Path != "" {
		t.Errorf("Watch.Path = %q, want empty", cfg.Watch.Path)
	}
	if cfg.Watch.Debounce.Duration() != 500*time.Millisecond {
		t.Errorf("Watch.Debounce = %s, want 500ms", cfg.Watch.Debounce.Duration())
	}
	if cfg.Log.Level != "info" || cfg.Log.Development {
		t.Errorf("Log = %+v, want info/production", cfg.Log)
	}
}

func TestLoadFromPath(t *testing.T) {
	dir := t.TempDir()

	t.Run("partial file keeps defaults", func(t *testing.T) {
		path := filepath.Join(dir, "partial.yaml")
		writeFile(t, path, "server:\n  addr: \":8080\"\nwatch:\n  path: ./circuit.json\n  debounce: 2s\n")

		cfg, got, err := LoadFromPath(path)
		if err != nil {
			t.Fatalf("LoadFromPath: %v", err)
		}
		if got != path {
			t.Errorf("path = %q, want %q", got, path)
		}
		if cfg.Server.Addr != ":8080" {
			t.Errorf("Server.Addr = %q", cfg.Server.Addr)
		}
		if cfg.Database.Path != DefaultDBPath {
			t.Errorf("Database.Path = %q", cfg.Database.Path)
		}
		if cfg.Watch.Path != "./circuit.json" || cfg.Watch.Debounce.Duration() != 2*time.Second {
			t.Errorf("Watch = %+v", cfg.Watch)
		}
	})

	t.Run("invalid duration", func(t *testing.T) {
		path := filepath.Join(dir, "bad-duration.yaml")
		writeFile(t, path, "watch:\n  debounce: soon\n")
		if _, _, err := LoadFromPath(path); err == nil {
			t.Error("expected error for invalid duration")
		}
	})

	t.Run("invalid log level", func(t *testing.T) {
		path := filepath.Join(dir, "bad-level.yaml")
		writeFile(t, path, "log:\n  level: loud\n")
		if _, _, err := LoadFromPath(path); err == nil {
			t.Error("expected error for invalid log level")
		}
	})

	t.Run("missing file", func(t *testing.T) {
		if _, _, err := LoadFromPath(filepath.Join(dir, "missing.yaml")); err == nil {
			t.Error("expected error for missing file")
		}
	})
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := DefaultConfig()
	cfg.Log.Development = true
	cfg.Watch.Debounce = Duration(time.Second)
	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, _, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath: %v", err)
	}
	if *loaded != *cfg {
		t.Errorf("loaded %+v, want %+v", *loaded, *cfg)
	}
}

func TestFindConfigPath(t *testing.T) {
	t.Run("none found", func(t *testing.T) {
		isolate(t)
		if got := FindConfigPath(); got != "" && got != "/etc/logicsim/config.yaml" {
			t.Errorf("FindConfigPath() = %q, want empty", got)
		}
	})

	t.Run("xdg before home", func(t *testing.T) {
		dir := isolate(t)
		xdg := filepath.Join(dir, "xdg", "logicsim", "config.yaml")
		writeFile(t, xdg, "version: 1\n")
		writeFile(t, filepath.Join(dir, "home", ".config", "logicsim", "config.yaml"), "version: 1\n")

		if got := FindConfigPath(); got != xdg {
			t.Errorf("FindConfigPath() = %q, want %q", got, xdg)
		}
	})

	t.Run("working directory before xdg", func(t *testing.T) {
		dir := isolate(t)
		writeFile(t, filepath.Join(dir, "xdg", "logicsim", "config.yaml"), "version: 1\n")
		writeFile(t, filepath.Join(dir, ConfigFileName), "version: 1\n")

		got := FindConfigPath()
		if filepath.Base(got) != ConfigFileName {
			t.Errorf("FindConfigPath() = %q, want ./%s", got, ConfigFileName)
		}
	})

	t.Run("environment wins", func(t *testing.T) {
		dir := isolate(t)
		explicit := filepath.Join(dir, "elsewhere.yaml")
		writeFile(t, explicit, "version: 1\n")
		writeFile(t, filepath.Join(dir, ConfigFileName), "version: 1\n")
		t.Setenv(EnvConfigPath, explicit)

		if got := FindConfigPath(); got != explicit {
			t.Errorf("FindConfigPath() = %q, want %q", got, explicit)
		}
	})
}

func TestNewLogger(t *testing.T) {
	for _, dev := range []bool{false, true} {
		logger, err := LogConfig{Level: "debug", Development: dev}.NewLogger()
		if err != nil {
			t.Fatalf("NewLogger(dev=%v): %v", dev, err)
		}
		if !logger.Core().Enabled(-1) {
			t.Errorf("NewLogger(dev=%v) does not enable debug", dev)
		}
	}

	if _, err := (LogConfig{Level: "chatty"}).NewLogger(); err == nil {
		t.Error("expected error for unknown level")
	}
}
