package config

import (
	"fmt"
	"log/slog"
	"strings"
)

// Config holds scanedit configuration.
// Stored at: {home}/config.yaml
type Config struct {
	OCR        OCRConfig        `mapstructure:"ocr" yaml:"ocr"`
	Extraction ExtractionConfig `mapstructure:"extraction" yaml:"extraction"`
	History    HistoryConfig    `mapstructure:"history" yaml:"history"`
	Edit       EditConfig       `mapstructure:"edit" yaml:"edit"`
	View       ViewConfig       `mapstructure:"view" yaml:"view"`
	Loader     LoaderConfig     `mapstructure:"loader" yaml:"loader"`
	Log        LogConfig        `mapstructure:"log" yaml:"log"`
}

// OCRConfig configures the tesseract engine and preprocessing.
type OCRConfig struct {
	Language       string  `mapstructure:"language" yaml:"language"`
	EngineMode     int     `mapstructure:"engine_mode" yaml:"engine_mode"`     // 1 = LSTM only
	PageSegMode    int     `mapstructure:"page_seg_mode" yaml:"page_seg_mode"` // 3 = fully automatic
	Level          string  `mapstructure:"level" yaml:"level"`                 // word, line or block
	Contrast       float64 `mapstructure:"contrast" yaml:"contrast"`
	InitAttempts   int     `mapstructure:"init_attempts" yaml:"init_attempts"`
	InitDelayMS    int     `mapstructure:"init_delay_ms" yaml:"init_delay_ms"`
	TessdataPrefix string  `mapstructure:"tessdata_prefix" yaml:"tessdata_prefix"` // supports ${ENV_VAR} syntax
}

// ExtractionConfig sizes the extraction worker pool.
type ExtractionConfig struct {
	Workers   int `mapstructure:"workers" yaml:"workers"`
	QueueSize int `mapstructure:"queue_size" yaml:"queue_size"`
}

// HistoryConfig bounds the undo stack. Zero keeps every entry.
type HistoryConfig struct {
	Limit int `mapstructure:"limit" yaml:"limit"`
}

// EditConfig tunes edit operations.
type EditConfig struct {
	GroupSeparator string `mapstructure:"group_separator" yaml:"group_separator"`
	PasteOffset    int    `mapstructure:"paste_offset" yaml:"paste_offset"`
}

// ViewConfig bounds the viewport zoom.
type ViewConfig struct {
	ZoomMin  float64 `mapstructure:"zoom_min" yaml:"zoom_min"`
	ZoomMax  float64 `mapstructure:"zoom_max" yaml:"zoom_max"`
	ZoomStep float64 `mapstructure:"zoom_step" yaml:"zoom_step"`
}

// LoaderConfig configures image loading.
type LoaderConfig struct {
	PDFPage int `mapstructure:"pdf_page" yaml:"pdf_page"` // 1-based
}

// LogConfig configures logging.
type LogConfig struct {
	Level string `mapstructure:"level" yaml:"level"` // debug, info, warn, error
}

// DefaultConfig returns configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		OCR: OCRConfig{
			Language:     "eng",
			EngineMode:   1,
			PageSegMode:  3,
			Level:        "line",
			Contrast:     2.0,
			InitAttempts: 3,
			InitDelayMS:  250,
		},
		Extraction: ExtractionConfig{
			Workers:   1,
			QueueSize: 4,
		},
		Edit: EditConfig{
			GroupSeparator: " ",
			PasteOffset:    10,
		},
		View: ViewConfig{
			ZoomMin:  0.1,
			ZoomMax:  10.0,
			ZoomStep: 1.25,
		},
		Loader: LoaderConfig{PDFPage: 1},
		Log:    LogConfig{Level: "info"},
	}
}

// Validate reports the first setting that cannot be used.
func (c *Config) Validate() error {
	switch {
	case c.OCR.EngineMode < 0 || c.OCR.EngineMode > 3:
		return fmt.Errorf("ocr.engine_mode must be 0-3, got %d", c.OCR.EngineMode)
	case c.OCR.Contrast <= 0:
		return fmt.Errorf("ocr.contrast must be positive, got %g", c.OCR.Contrast)
	case c.OCR.InitAttempts < 1:
		return fmt.Errorf("ocr.init_attempts must be at least 1, got %d", c.OCR.InitAttempts)
	case c.Extraction.Workers < 1:
		return fmt.Errorf("extraction.workers must be at least 1, got %d", c.Extraction.Workers)
	case c.Extraction.QueueSize < 1:
		return fmt.Errorf("extraction.queue_size must be at least 1, got %d", c.Extraction.QueueSize)
	case c.History.Limit < 0:
		return fmt.Errorf("history.limit must not be negative, got %d", c.History.Limit)
	case c.View.ZoomMin <= 0 || c.View.ZoomMax < c.View.ZoomMin:
		return fmt.Errorf("view zoom bounds invalid: min %g, max %g", c.View.ZoomMin, c.View.ZoomMax)
	case c.View.ZoomStep <= 1:
		return fmt.Errorf("view.zoom_step must be greater than 1, got %g", c.View.ZoomStep)
	case c.Loader.PDFPage < 1:
		return fmt.Errorf("loader.pdf_page must be at least 1, got %d", c.Loader.PDFPage)
	}
	switch strings.ToLower(c.OCR.Level) {
	case "word", "line", "block":
	default:
		return fmt.Errorf("ocr.level must be word, line or block, got %q", c.OCR.Level)
	}
	if _, err := c.Log.SlogLevel(); err != nil {
		return err
	}
	return nil
}

// ResolvedTessdataPrefix returns the tessdata prefix with ${ENV_VAR} references resolved.
func (c *OCRConfig) ResolvedTessdataPrefix() string {
	return ResolveEnvVars(c.TessdataPrefix)
}

// SlogLevel parses the configured level.
func (c LogConfig) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Level)); err != nil {
		return slog.LevelInfo, fmt.Errorf("log.level: %w", err)
	}
	return level, nil
}
