package config

import (
	"errors"
	"fmt"
	"unicode"
)

var (
	// ErrNoDefault is returned when no default value exists for a config key.
	ErrNoDefault = errors.New("no default exists")

	// ErrInvalidKey is returned when a config key contains invalid characters.
	ErrInvalidKey = errors.New("invalid config key")
)

// Entry describes one configuration key and its default.
type Entry struct {
	Key         string `json:"key" yaml:"key"`
	Value       any    `json:"value" yaml:"value"`
	Description string `json:"description" yaml:"description"`
}

// DefaultEntries returns every known key with its default value. The manager
// registers each one with viper so environment overrides apply to all of them.
func DefaultEntries() []Entry {
	d := DefaultConfig()
	return []Entry{
		// OCR
		{Key: "ocr.language", Value: d.OCR.Language, Description: "Tesseract language code(s), e.g. eng or eng+deu"},
		{Key: "ocr.engine_mode", Value: d.OCR.EngineMode, Description: "Tesseract OCR engine mode (1 = LSTM only)"},
		{Key: "ocr.page_seg_mode", Value: d.OCR.PageSegMode, Description: "Tesseract page segmentation mode"},
		{Key: "ocr.level", Value: d.OCR.Level, Description: "Result granularity: word, line or block"},
		{Key: "ocr.contrast", Value: d.OCR.Contrast, Description: "Contrast factor applied before recognition"},
		{Key: "ocr.init_attempts", Value: d.OCR.InitAttempts, Description: "Attempts to initialise the engine before failing"},
		{Key: "ocr.init_delay_ms", Value: d.OCR.InitDelayMS, Description: "Delay between engine init attempts in milliseconds"},
		{Key: "ocr.tessdata_prefix", Value: d.OCR.TessdataPrefix, Description: "Tessdata directory (supports ${ENV_VAR}); empty uses the system default"},

		// Extraction
		{Key: "extraction.workers", Value: d.Extraction.Workers, Description: "Extraction worker goroutines"},
		{Key: "extraction.queue_size", Value: d.Extraction.QueueSize, Description: "Pending extraction requests before submit fails"},

		// Editing
		{Key: "history.limit", Value: d.History.Limit, Description: "Maximum undo entries (0 = unbounded)"},
		{Key: "edit.group_separator", Value: d.Edit.GroupSeparator, Description: "Text inserted between grouped regions"},
		{Key: "edit.paste_offset", Value: d.Edit.PasteOffset, Description: "Pixel shift applied to pasted regions"},

		// View
		{Key: "view.zoom_min", Value: d.View.ZoomMin, Description: "Smallest zoom factor"},
		{Key: "view.zoom_max", Value: d.View.ZoomMax, Description: "Largest zoom factor"},
		{Key: "view.zoom_step", Value: d.View.ZoomStep, Description: "Multiplier per zoom in/out step"},

		{Key: "loader.pdf_page", Value: d.Loader.PDFPage, Description: "Page rasterised when opening a PDF (1-based)"},
		{Key: "log.level", Value: d.Log.Level, Description: "Log level: debug, info, warn or error"},
	}
}

// GetDefault returns the default entry for a key, or nil.
func GetDefault(key string) *Entry {
	for _, e := range DefaultEntries() {
		if e.Key == key {
			return &e
		}
	}
	return nil
}

// ValidateKey checks if a config key contains only allowed characters.
// Valid keys contain: letters, digits, dots and underscores.
func ValidateKey(key string) error {
	if key == "" {
		return fmt.Errorf("%w: key cannot be empty", ErrInvalidKey)
	}
	for i, r := range key {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '.' && r != '_' {
			return fmt.Errorf("%w: invalid character %q at position %d", ErrInvalidKey, r, i)
		}
	}
	if key[0] == '.' || key[len(key)-1] == '.' {
		return fmt.Errorf("%w: key cannot start or end with a dot", ErrInvalidKey)
	}
	return nil
}
