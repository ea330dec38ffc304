// Package tesseract provides the Tesseract OCR engine for the extraction
// pipeline, backed by gosseract.
//
// The engine needs the Tesseract headers and libraries at build time and is
// only compiled with the "ocr" build tag:
//
//	go build -tags ocr ./...
//
// On macOS install Tesseract with `brew install tesseract`; on Ubuntu/Debian
// with `apt-get install tesseract-ocr libtesseract-dev`. Without the tag a
// stub engine is built whose Recognize always fails with
// extract.ErrEngineUnavailable.
package tesseract

import (
	"log/slog"
	"strconv"
	"time"
)

// Level selects the iterator granularity that becomes one span.
type Level string

const (
	LevelWord  Level = "word"
	LevelLine  Level = "line"
	LevelBlock Level = "block"
)

// Engine modes, matching tesseract's --oem values.
const (
	EngineModeLegacy     = 0
	EngineModeLSTM       = 1
	EngineModeLegacyLSTM = 2
	EngineModeDefault    = 3
)

// PageSegModeAuto is fully automatic page segmentation without OSD.
const PageSegModeAuto = 3

const (
	DefaultLanguage       = "eng"
	DefaultInitAttempts   = 3
	DefaultInitRetryDelay = 250 * time.Millisecond
)

// Config configures the engine.
type Config struct {
	Language    string // Default "eng"
	PageSegMode int    // Default PageSegModeAuto
	Level       Level  // Default LevelLine

	// ConfigFile is a tesseract config file read at engine initialization.
	// Init-only parameters such as tessedit_ocr_engine_mode must be set here.
	ConfigFile string

	// TessdataPrefix overrides the trained data location.
	TessdataPrefix string

	InitAttempts   uint          // Default DefaultInitAttempts
	InitRetryDelay time.Duration // Default DefaultInitRetryDelay

	Logger *slog.Logger
}

func (c Config) withDefaults() Config {
	if c.Language == "" {
		c.Language = DefaultLanguage
	}
	if c.PageSegMode <= 0 {
		c.PageSegMode = PageSegModeAuto
	}
	if c.Level == "" {
		c.Level = LevelLine
	}
	if c.InitAttempts == 0 {
		c.InitAttempts = DefaultInitAttempts
	}
	if c.InitRetryDelay <= 0 {
		c.InitRetryDelay = DefaultInitRetryDelay
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	return c
}

// ConfigFileContents returns the tesseract config file body that selects
// engineMode.
func ConfigFileContents(engineMode int) string {
	if engineMode < EngineModeLegacy || engineMode > EngineModeDefault {
		engineMode = EngineModeDefault
	}
	return "tessedit_ocr_engine_mode " + strconv.Itoa(engineMode) + "\n"
}
