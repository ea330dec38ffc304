package extract

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"math"
	"strings"
	"sync/atomic"

	"github.com/jackzampolin/scanedit/internal/document"
)

// Pipeline runs the contrast pre-step and the OCR engine over one image.
type Pipeline struct {
	engine   Engine
	contrast atomic.Uint64 // float64 bits, swapped on config reload
	logger   *slog.Logger
}

// PipelineConfig configures a Pipeline.
type PipelineConfig struct {
	Engine   Engine
	Contrast float64 // Default DefaultContrast
	Logger   *slog.Logger
}

// NewPipeline creates a pipeline around an engine.
func NewPipeline(cfg PipelineConfig) *Pipeline {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	p := &Pipeline{
		engine: cfg.Engine,
		logger: logger,
	}
	p.SetContrast(cfg.Contrast)
	return p
}

// SetContrast changes the pre-step factor for subsequent runs. Non-positive
// values restore DefaultContrast.
func (p *Pipeline) SetContrast(factor float64) {
	if factor <= 0 {
		factor = DefaultContrast
	}
	p.contrast.Store(math.Float64bits(factor))
}

// Contrast returns the current pre-step factor.
func (p *Pipeline) Contrast() float64 {
	return math.Float64frombits(p.contrast.Load())
}

// EngineName returns the name of the wrapped engine.
func (p *Pipeline) EngineName() string {
	if p.engine == nil {
		return ""
	}
	return p.engine.Name()
}

// Run extracts spans from img. The returned spans are clipped to the image
// bounds; spans with blank text or no area left after clipping are dropped.
func (p *Pipeline) Run(ctx context.Context, img image.Image, progress ProgressFunc) ([]Span, error) {
	if progress == nil {
		progress = func(Progress) {}
	}
	if img == nil || img.Bounds().Empty() {
		return nil, ErrInvalidImage
	}
	if p.engine == nil {
		return nil, fmt.Errorf("%w: no engine configured", ErrEngineUnavailable)
	}

	progress(Progress{Stage: StagePreprocess, Fraction: 0})
	prepared := Preprocess(img, p.Contrast())

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	progress(Progress{Stage: StageRecognize, Fraction: 0.2})
	raw, err := p.engine.Recognize(ctx, prepared)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrEngineUnavailable, p.engine.Name(), err)
	}

	progress(Progress{Stage: StageCollect, Fraction: 0.9})
	// Preprocess rebases to the origin; spans come back relative to it.
	offset := img.Bounds().Min
	spans := make([]Span, 0, len(raw))
	for _, s := range raw {
		text := strings.TrimSpace(s.Text)
		if text == "" {
			continue
		}
		box, ok := document.Clip(s.Box.Add(offset), img.Bounds())
		if !ok {
			p.logger.Debug("dropping span outside image", "box", s.Box, "text", text)
			continue
		}
		spans = append(spans, Span{Text: text, Box: box, Confidence: s.Confidence})
	}

	progress(Progress{Stage: StageDone, Fraction: 1})
	p.logger.Debug("extraction finished", "engine", p.engine.Name(), "raw", len(raw), "kept", len(spans))
	return spans, nil
}
