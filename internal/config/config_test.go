package config

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	configFile := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configFile, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	return configFile
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if cfg.OCR.EngineMode != 1 {
		t.Errorf("expected LSTM-only engine mode, got %d", cfg.OCR.EngineMode)
	}
	if cfg.Edit.GroupSeparator != " " {
		t.Errorf("expected single space separator, got %q", cfg.Edit.GroupSeparator)
	}
}

func TestDefaultEntries(t *testing.T) {
	entries := DefaultEntries()
	seen := make(map[string]bool)
	for _, e := range entries {
		if err := ValidateKey(e.Key); err != nil {
			t.Errorf("entry %q: %v", e.Key, err)
		}
		if e.Description == "" {
			t.Errorf("entry %q has no description", e.Key)
		}
		if seen[e.Key] {
			t.Errorf("duplicate entry %q", e.Key)
		}
		seen[e.Key] = true
	}

	t.Run("existing_key", func(t *testing.T) {
		e := GetDefault("ocr.language")
		if e == nil || e.Value != "eng" {
			t.Errorf("unexpected default %+v", e)
		}
	})

	t.Run("non_existent_key", func(t *testing.T) {
		if e := GetDefault("ocr.nope"); e != nil {
			t.Errorf("expected nil, got %+v", e)
		}
	})
}

func TestValidateKey(t *testing.T) {
	tests := []struct {
		key string
		ok  bool
	}{
		{"ocr.language", true},
		{"view.zoom_min", true},
		{"", false},
		{".ocr", false},
		{"ocr.", false},
		{"ocr language", false},
		{"ocr/language", false},
	}
	for _, tt := range tests {
		err := ValidateKey(tt.key)
		if tt.ok && err != nil {
			t.Errorf("ValidateKey(%q) = %v", tt.key, err)
		}
		if !tt.ok && !errors.Is(err, ErrInvalidKey) {
			t.Errorf("ValidateKey(%q) expected ErrInvalidKey, got %v", tt.key, err)
		}
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"engine mode", func(c *Config) { c.OCR.EngineMode = 4 }},
		{"contrast", func(c *Config) { c.OCR.Contrast = 0 }},
		{"workers", func(c *Config) { c.Extraction.Workers = 0 }},
		{"queue", func(c *Config) { c.Extraction.QueueSize = 0 }},
		{"history", func(c *Config) { c.History.Limit = -1 }},
		{"zoom bounds", func(c *Config) { c.View.ZoomMin, c.View.ZoomMax = 2, 1 }},
		{"zoom step", func(c *Config) { c.View.ZoomStep = 1 }},
		{"level", func(c *Config) { c.OCR.Level = "paragraph" }},
		{"log level", func(c *Config) { c.Log.Level = "loud" }},
		{"pdf page", func(c *Config) { c.Loader.PDFPage = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestLogConfig_SlogLevel(t *testing.T) {
	level, err := LogConfig{Level: "debug"}.SlogLevel()
	if err != nil || level != slog.LevelDebug {
		t.Errorf("SlogLevel() = %v, %v", level, err)
	}
}

func TestResolveEnvVars(t *testing.T) {
	t.Run("resolves environment variable", func(t *testing.T) {
		t.Setenv("TEST_TESSDATA", "/opt/tessdata")

		result := ResolveEnvVars("${TEST_TESSDATA}/best")
		if result != "/opt/tessdata/best" {
			t.Errorf("expected /opt/tessdata/best, got %s", result)
		}
	})

	t.Run("returns empty for missing env var", func(t *testing.T) {
		result := ResolveEnvVars("${DEFINITELY_NOT_SET_12345}")
		if result != "" {
			t.Errorf("expected empty string, got %s", result)
		}
	})

	t.Run("leaves literal values unchanged", func(t *testing.T) {
		result := ResolveEnvVars("/usr/share/tessdata")
		if result != "/usr/share/tessdata" {
			t.Errorf("expected literal value, got %s", result)
		}
	})
}

func TestNewManager(t *testing.T) {
	t.Run("empty file yields defaults", func(t *testing.T) {
		mgr, err := NewManager(writeConfig(t, ""))
		if err != nil {
			t.Fatalf("failed to create manager: %v", err)
		}
		if got := mgr.Get(); !reflect.DeepEqual(got, DefaultConfig()) {
			t.Errorf("expected defaults, got %+v", got)
		}
	})

	t.Run("loads from config file", func(t *testing.T) {
		mgr, err := NewManager(writeConfig(t, `
ocr:
  language: deu
  contrast: 1.5
history:
  limit: 50
`))
		if err != nil {
			t.Fatalf("failed to create manager: %v", err)
		}

		cfg := mgr.Get()
		if cfg.OCR.Language != "deu" || cfg.OCR.Contrast != 1.5 || cfg.History.Limit != 50 {
			t.Errorf("file values not applied: %+v", cfg)
		}
		if cfg.OCR.Level != "line" {
			t.Errorf("expected unset keys to keep defaults, got level %q", cfg.OCR.Level)
		}
	})

	t.Run("environment overrides file", func(t *testing.T) {
		t.Setenv("SCANEDIT_OCR_LANGUAGE", "fra")
		t.Setenv("SCANEDIT_EXTRACTION_WORKERS", "3")

		mgr, err := NewManager(writeConfig(t, "ocr:\n  language: deu\n"))
		if err != nil {
			t.Fatalf("failed to create manager: %v", err)
		}
		cfg := mgr.Get()
		if cfg.OCR.Language != "fra" || cfg.Extraction.Workers != 3 {
			t.Errorf("env not applied: %+v", cfg)
		}
	})

	t.Run("invalid values are rejected", func(t *testing.T) {
		_, err := NewManager(writeConfig(t, "ocr:\n  contrast: -1\n"))
		if err == nil {
			t.Fatal("expected error for negative contrast")
		}
	})

	t.Run("search dirs", func(t *testing.T) {
		path := writeConfig(t, "edit:\n  paste_offset: 4\n")
		mgr, err := NewManager("", filepath.Dir(path))
		if err != nil {
			t.Fatalf("failed to create manager: %v", err)
		}
		if mgr.Get().Edit.PasteOffset != 4 {
			t.Errorf("expected paste offset 4, got %d", mgr.Get().Edit.PasteOffset)
		}
	})
}

func TestManager_Lookup(t *testing.T) {
	mgr, err := NewManager(writeConfig(t, "view:\n  zoom_max: 4\n"))
	if err != nil {
		t.Fatalf("failed to create manager: %v", err)
	}

	v, err := mgr.Lookup("view.zoom_max")
	if err != nil {
		t.Fatalf("Lookup() error = %v", err)
	}
	if v != 4 {
		t.Errorf("expected 4, got %v (%T)", v, v)
	}

	if _, err := mgr.Lookup("view.nothing"); !errors.Is(err, ErrNoDefault) {
		t.Errorf("expected ErrNoDefault, got %v", err)
	}
	if _, err := mgr.Lookup("bad key"); !errors.Is(err, ErrInvalidKey) {
		t.Errorf("expected ErrInvalidKey, got %v", err)
	}
}

func TestManager_OnChange_Multiple(t *testing.T) {
	mgr, err := NewManager(writeConfig(t, ""))
	if err != nil {
		t.Fatalf("failed to create manager: %v", err)
	}

	mgr.OnChange(func(cfg *Config) {})
	mgr.OnChange(func(cfg *Config) {})
	mgr.OnChange(func(cfg *Config) {})

	mgr.mu.RLock()
	if len(mgr.callbacks) != 3 {
		t.Errorf("expected 3 callbacks, got %d", len(mgr.callbacks))
	}
	mgr.mu.RUnlock()
}

func TestManager_Get_ThreadSafe(t *testing.T) {
	mgr, err := NewManager(writeConfig(t, ""))
	if err != nil {
		t.Fatalf("failed to create manager: %v", err)
	}

	done := make(chan struct{})
	for i := 0; i < 10; i++ {
		go func() {
			for j := 0; j < 100; j++ {
				_ = mgr.Get().OCR.Language
			}
			done <- struct{}{}
		}()
	}
	for i := 0; i < 10; i++ {
		<-done
	}
}

func TestManager_WatchConfig(t *testing.T) {
	configFile := writeConfig(t, "ocr:\n  contrast: 2.0\n")

	mgr, err := NewManager(configFile)
	if err != nil {
		t.Fatalf("failed to create manager: %v", err)
	}

	var callbackCount atomic.Int32
	var lastValue atomic.Value

	mgr.OnChange(func(cfg *Config) {
		callbackCount.Add(1)
		lastValue.Store(cfg.OCR.Contrast)
	})

	mgr.WatchConfig()

	// Give fsnotify time to set up the watcher
	time.Sleep(100 * time.Millisecond)

	if err := os.WriteFile(configFile, []byte("ocr:\n  contrast: 3.5\n"), 0644); err != nil {
		t.Fatalf("failed to write updated config file: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if callbackCount.Load() > 0 {
			break
		}
		time.Sleep(50 * time.Millisecond)
	}

	if callbackCount.Load() == 0 {
		t.Fatal("callback was not invoked after config file change")
	}
	if got := mgr.Get().OCR.Contrast; got != 3.5 {
		t.Errorf("config not updated: expected 3.5, got %v", got)
	}
	if v := lastValue.Load(); v != 3.5 {
		t.Errorf("callback received wrong value: expected 3.5, got %v", v)
	}
}

func TestWriteDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	if err := WriteDefault(path); err != nil {
		t.Fatalf("WriteDefault() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read written config: %v", err)
	}
	if !strings.HasPrefix(string(data), "# scanedit configuration") {
		t.Error("missing header")
	}

	mgr, err := NewManager(path)
	if err != nil {
		t.Fatalf("written config does not load: %v", err)
	}
	if !reflect.DeepEqual(mgr.Get(), DefaultConfig()) {
		t.Errorf("round trip mismatch: %+v", mgr.Get())
	}
}
