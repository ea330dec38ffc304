package tesseract

import "testing"

func TestConfigDefaults(t *testing.T) {
	cfg := Config{}.withDefaults()
	if cfg.Language != "eng" {
		t.Errorf("expected eng, got %s", cfg.Language)
	}
	if cfg.PageSegMode != PageSegModeAuto {
		t.Errorf("expected automatic page segmentation, got %d", cfg.PageSegMode)
	}
	if cfg.Level != LevelLine {
		t.Errorf("expected line level, got %s", cfg.Level)
	}
	if cfg.InitAttempts != DefaultInitAttempts || cfg.Logger == nil {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
}

func TestConfigFileContents(t *testing.T) {
	if got := ConfigFileContents(EngineModeLSTM); got != "tessedit_ocr_engine_mode 1\n" {
		t.Errorf("unexpected contents %q", got)
	}
	if got := ConfigFileContents(42); got != "tessedit_ocr_engine_mode 3\n" {
		t.Errorf("expected out-of-range mode to fall back to default, got %q", got)
	}
}
