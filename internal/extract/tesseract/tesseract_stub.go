//go:build !ocr

package tesseract

import (
	"context"
	"fmt"
	"image"

	"github.com/jackzampolin/scanedit/internal/extract"
)

// Engine is the stand-in used when the "ocr" build tag is not set.
type Engine struct {
	cfg Config
}

// New returns the stub engine.
func New(cfg Config) *Engine {
	return &Engine{cfg: cfg.withDefaults()}
}

func (e *Engine) Name() string { return "tesseract" }

// Recognize always fails with extract.ErrEngineUnavailable.
func (e *Engine) Recognize(ctx context.Context, img image.Image) ([]extract.Span, error) {
	return nil, fmt.Errorf("%w: OCR support not enabled; rebuild with -tags ocr", extract.ErrEngineUnavailable)
}

// Available reports false: no Tesseract is linked into this build.
func Available() (string, bool) {
	return "", false
}

var _ extract.Engine = (*Engine)(nil)
