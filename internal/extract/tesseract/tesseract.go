//go:build ocr

package tesseract

import (
	"bytes"
	"context"
	"fmt"
	"image"

	"github.com/avast/retry-go/v4"
	"github.com/disintegration/imaging"
	"github.com/otiai10/gosseract/v2"

	"github.com/jackzampolin/scanedit/internal/extract"
)

// Engine implements extract.Engine on top of a gosseract client. A fresh
// client is created per call; gosseract clients are not safe for concurrent
// use and the pool may run several workers.
type Engine struct {
	cfg           Config
	clientFactory func() *gosseract.Client
}

// New creates a Tesseract-backed engine.
func New(cfg Config) *Engine {
	return &Engine{cfg: cfg.withDefaults(), clientFactory: gosseract.NewClient}
}

func (e *Engine) Name() string { return "tesseract" }

// Recognize runs OCR on img and returns one span per iterator element at the
// configured level. Client initialization is retried; a client that still
// cannot be brought up yields extract.ErrEngineUnavailable.
func (e *Engine) Recognize(ctx context.Context, img image.Image) ([]extract.Span, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, fmt.Errorf("encode image: %w", err)
	}
	data := buf.Bytes()

	var boxes []gosseract.BoundingBox
	attempt := 0
	err := retry.Do(
		func() error {
			attempt++
			c := e.clientFactory()
			defer c.Close()
			if err := e.configure(c, data); err != nil {
				return err
			}
			b, err := c.GetBoundingBoxes(e.iteratorLevel())
			if err != nil {
				return fmt.Errorf("recognize: %w", err)
			}
			boxes = b
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(e.cfg.InitAttempts),
		retry.Delay(e.cfg.InitRetryDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			e.cfg.Logger.Warn("tesseract attempt failed", "attempt", n+1, "error", err)
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: tesseract after %d attempts: %v", extract.ErrEngineUnavailable, attempt, err)
	}

	spans := make([]extract.Span, 0, len(boxes))
	for _, b := range boxes {
		if b.Word == "" {
			continue
		}
		spans = append(spans, extract.Span{
			Text:       b.Word,
			Box:        b.Box,
			Confidence: b.Confidence / 100.0,
		})
	}
	return spans, nil
}

func (e *Engine) configure(c *gosseract.Client, data []byte) error {
	if e.cfg.TessdataPrefix != "" {
		if err := c.SetTessdataPrefix(e.cfg.TessdataPrefix); err != nil {
			return fmt.Errorf("set tessdata prefix: %w", err)
		}
	}
	if e.cfg.ConfigFile != "" {
		if err := c.SetConfigFile(e.cfg.ConfigFile); err != nil {
			return fmt.Errorf("set config file: %w", err)
		}
	}
	if err := c.SetLanguage(e.cfg.Language); err != nil {
		return fmt.Errorf("set language: %w", err)
	}
	if err := c.SetPageSegMode(gosseract.PageSegMode(e.cfg.PageSegMode)); err != nil {
		return fmt.Errorf("set page segmentation mode: %w", err)
	}
	if err := c.SetImageFromBytes(data); err != nil {
		return fmt.Errorf("set image: %w", err)
	}
	return nil
}

func (e *Engine) iteratorLevel() gosseract.PageIteratorLevel {
	switch e.cfg.Level {
	case LevelWord:
		return gosseract.RIL_WORD
	case LevelBlock:
		return gosseract.RIL_BLOCK
	default:
		return gosseract.RIL_TEXTLINE
	}
}

// Available reports the linked Tesseract version.
func Available() (string, bool) {
	return gosseract.Version(), true
}

var _ extract.Engine = (*Engine)(nil)
