package main

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/jackzampolin/scanedit/internal/config"
	"github.com/jackzampolin/scanedit/internal/controller"
	"github.com/jackzampolin/scanedit/internal/extract"
	"github.com/jackzampolin/scanedit/internal/extract/tesseract"
	"github.com/jackzampolin/scanedit/internal/home"
	"github.com/jackzampolin/scanedit/internal/imageload"
	"github.com/jackzampolin/scanedit/internal/output"
	"github.com/jackzampolin/scanedit/internal/viewport"
)

// session wires one document controller to its extraction pool.
type session struct {
	logger   *slog.Logger
	pipeline *extract.Pipeline
	pool     *extract.Pool
	ctrl     *controller.Controller
	zoom     *viewport.Zoom
}

// loadEnvironment resolves the home directory, config and logger from the
// root flags.
func loadEnvironment() (*home.Dir, *config.Manager, *slog.Logger, error) {
	h, err := home.New(homeDir)
	if err != nil {
		return nil, nil, nil, err
	}
	if err := h.EnsureExists(); err != nil {
		return nil, nil, nil, err
	}

	mgr, err := config.NewManager(cfgFile, h.Path())
	if err != nil {
		return nil, nil, nil, err
	}

	logger, err := newLogger(mgr.Get().Log)
	if err != nil {
		return nil, nil, nil, err
	}
	return h, mgr, logger, nil
}

func newLogger(cfg config.LogConfig) (*slog.Logger, error) {
	if logLevel != "" {
		cfg.Level = logLevel
	}
	level, err := cfg.SlogLevel()
	if err != nil {
		return nil, err
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})), nil
}

// newEngine builds the tesseract engine described by cfg.
func newEngine(h *home.Dir, cfg *config.Config, logger *slog.Logger) (extract.Engine, error) {
	configFile, err := h.EnsureTesseractConfig(cfg.OCR.EngineMode)
	if err != nil {
		return nil, err
	}
	return tesseract.New(tesseract.Config{
		Language:       cfg.OCR.Language,
		PageSegMode:    cfg.OCR.PageSegMode,
		Level:          tesseract.Level(strings.ToLower(cfg.OCR.Level)),
		ConfigFile:     configFile,
		TessdataPrefix: cfg.OCR.ResolvedTessdataPrefix(),
		InitAttempts:   uint(cfg.OCR.InitAttempts),
		InitRetryDelay: time.Duration(cfg.OCR.InitDelayMS) * time.Millisecond,
		Logger:         logger.With("engine", "tesseract"),
	}), nil
}

func newSession(cfg *config.Config, engine extract.Engine, loader imageload.Loader, logger *slog.Logger) (*session, error) {
	pipeline := extract.NewPipeline(extract.PipelineConfig{
		Engine:   engine,
		Contrast: cfg.OCR.Contrast,
		Logger:   logger,
	})
	pool := extract.NewPool(extract.PoolConfig{
		Logger:      logger,
		Pipeline:    pipeline,
		WorkerCount: cfg.Extraction.Workers,
		QueueSize:   cfg.Extraction.QueueSize,
	})

	offset := cfg.Edit.PasteOffset
	ctrl, err := controller.New(controller.Config{
		Logger:         logger,
		Loader:         loader,
		Dispatcher:     pool,
		HistoryLimit:   cfg.History.Limit,
		GroupSeparator: cfg.Edit.GroupSeparator,
		PasteOffset:    image.Pt(offset, offset),
	})
	if err != nil {
		return nil, err
	}

	zoom, err := viewport.NewZoom(cfg.View.ZoomMin, cfg.View.ZoomMax, cfg.View.ZoomStep)
	if err != nil {
		return nil, err
	}

	return &session{
		logger:   logger,
		pipeline: pipeline,
		pool:     pool,
		ctrl:     ctrl,
		zoom:     zoom,
	}, nil
}

// openSession builds a session for the current flags with the tesseract
// engine and the file loader.
func openSession() (*session, *config.Manager, *home.Dir, error) {
	h, mgr, logger, err := loadEnvironment()
	if err != nil {
		return nil, nil, nil, err
	}
	cfg := mgr.Get()
	engine, err := newEngine(h, cfg, logger)
	if err != nil {
		return nil, nil, nil, err
	}
	s, err := newSession(cfg, engine, &imageload.FileLoader{PDFPage: cfg.Loader.PDFPage}, logger)
	if err != nil {
		return nil, nil, nil, err
	}
	return s, mgr, h, nil
}

// applyConfig updates the settings that can change while a document is
// open. Engine settings take effect on the next session. It must run on the
// control goroutine.
func (s *session) applyConfig(cfg *config.Config) {
	s.pipeline.SetContrast(cfg.OCR.Contrast)
	s.ctrl.SetHistoryLimit(cfg.History.Limit)
	s.ctrl.SetGroupSeparator(cfg.Edit.GroupSeparator)
	s.ctrl.SetPasteOffset(image.Pt(cfg.Edit.PasteOffset, cfg.Edit.PasteOffset))
	if err := s.zoom.SetBounds(cfg.View.ZoomMin, cfg.View.ZoomMax, cfg.View.ZoomStep); err != nil {
		s.logger.Warn("keeping zoom bounds", "error", err)
	}
	s.logger.Info("configuration reloaded")
}

// view returns the current document view.
func (s *session) view() output.DocumentView {
	return output.NewDocumentView(s.ctrl.Snapshot(), output.State{
		ID:         s.ctrl.ID(),
		Path:       s.ctrl.Path(),
		Processing: s.ctrl.Processing(),
		UndoDepth:  s.ctrl.UndoDepth(),
		RedoDepth:  s.ctrl.RedoDepth(),
		Zoom:       s.zoom.Scale(),
	})
}

// extractOnce loads path and handles completions on the calling goroutine
// until the extraction finishes.
func (s *session) extractOnce(ctx context.Context, path string) error {
	var failure error
	unsubscribe := s.ctrl.Subscribe(func(ev controller.Event) {
		switch ev.Kind {
		case controller.ExtractionFailed:
			failure = ev.Err
		case controller.ExtractionProgress:
			s.logger.Debug("extraction progress", "stage", ev.Progress.Stage, "fraction", ev.Progress.Fraction)
		}
	})
	defer unsubscribe()

	if err := s.ctrl.LoadImage(path); err != nil {
		return err
	}
	for s.ctrl.Processing() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case r := <-s.ctrl.Completions():
			s.ctrl.HandleCompletion(r)
		}
	}
	if failure != nil {
		return fmt.Errorf("extract %s: %w", path, failure)
	}
	return nil
}
