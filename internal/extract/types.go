// Package extract turns a raster image into located text spans. A Pipeline
// applies the contrast pre-step and calls an OCR Engine; a Pool runs
// pipelines on background workers and hands results back as values over a
// reply channel, so workers never touch document state.
package extract

import (
	"context"
	"errors"
	"image"
)

var (
	// ErrInvalidImage is returned for a nil or zero-sized image.
	ErrInvalidImage = errors.New("invalid image")

	// ErrEngineUnavailable is returned when the OCR engine cannot be
	// initialized or fails to run.
	ErrEngineUnavailable = errors.New("ocr engine unavailable")

	// ErrQueueFull is returned by Pool.Submit when no queue slot is free.
	ErrQueueFull = errors.New("extraction queue full")
)

// Span is one piece of recognized text with its box in image coordinates.
type Span struct {
	Text       string
	Box        image.Rectangle
	Confidence float64
}

// Engine is the OCR contract: one image in, text spans out.
type Engine interface {
	Name() string
	Recognize(ctx context.Context, img image.Image) ([]Span, error)
}

// Stage names a step of the pipeline for progress reporting.
type Stage string

const (
	StagePreprocess Stage = "preprocess"
	StageRecognize  Stage = "recognize"
	StageCollect    Stage = "collect"
	StageDone       Stage = "done"
)

// Progress reports how far a run has got. Fraction is in [0, 1].
type Progress struct {
	Stage    Stage
	Fraction float64
}

// ProgressFunc receives progress updates. It is called on the worker
// goroutine and must not block.
type ProgressFunc func(Progress)
