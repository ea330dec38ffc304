package extract

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"testing"
	"time"
)

// fakeEngine returns canned spans or an error.
type fakeEngine struct {
	spans []Span
	err   error
	seen  image.Image
	delay time.Duration
}

func (f *fakeEngine) Name() string { return "fake" }

func (f *fakeEngine) Recognize(ctx context.Context, img image.Image) ([]Span, error) {
	f.seen = img
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	return f.spans, f.err
}

func grayImage(w, h int, v uint8) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = v
	}
	return img
}

func TestPreprocess(t *testing.T) {
	t.Run("doubles and clamps intensities", func(t *testing.T) {
		src := image.NewNRGBA(image.Rect(0, 0, 2, 1))
		src.SetNRGBA(0, 0, color.NRGBA{R: 100, G: 50, B: 0, A: 200})
		src.SetNRGBA(1, 0, color.NRGBA{R: 200, G: 128, B: 255, A: 255})

		out := Preprocess(src, 2)
		if got := out.NRGBAAt(0, 0); got != (color.NRGBA{R: 200, G: 100, B: 0, A: 200}) {
			t.Errorf("unexpected pixel %v", got)
		}
		if got := out.NRGBAAt(1, 0); got != (color.NRGBA{R: 255, G: 255, B: 255, A: 255}) {
			t.Errorf("expected clamped pixel, got %v", got)
		}
		if src.NRGBAAt(0, 0).R != 100 {
			t.Error("input image was modified")
		}
	})

	t.Run("is deterministic", func(t *testing.T) {
		src := grayImage(16, 16, 77)
		once := Preprocess(src, 2)
		twice := Preprocess(once, 2)
		again := Preprocess(Preprocess(src, 2), 2)
		if !bytes.Equal(twice.Pix, again.Pix) {
			t.Error("same input produced different output")
		}
	})

	t.Run("non-positive factor uses default", func(t *testing.T) {
		out := Preprocess(grayImage(1, 1, 10), 0)
		if got := out.NRGBAAt(0, 0).R; got != 20 {
			t.Errorf("expected default factor 2, got %d", got)
		}
	})
}

func TestPipelineRun(t *testing.T) {
	t.Run("rejects empty image", func(t *testing.T) {
		p := NewPipeline(PipelineConfig{Engine: &fakeEngine{}})
		if _, err := p.Run(context.Background(), image.NewGray(image.Rectangle{}), nil); !errors.Is(err, ErrInvalidImage) {
			t.Errorf("expected ErrInvalidImage, got %v", err)
		}
		if _, err := p.Run(context.Background(), nil, nil); !errors.Is(err, ErrInvalidImage) {
			t.Errorf("expected ErrInvalidImage for nil image, got %v", err)
		}
	})

	t.Run("wraps engine failures", func(t *testing.T) {
		p := NewPipeline(PipelineConfig{Engine: &fakeEngine{err: errors.New("no tessdata")}})
		_, err := p.Run(context.Background(), grayImage(10, 10, 0), nil)
		if !errors.Is(err, ErrEngineUnavailable) {
			t.Errorf("expected ErrEngineUnavailable, got %v", err)
		}
	})

	t.Run("clips and filters spans", func(t *testing.T) {
		engine := &fakeEngine{spans: []Span{
			{Text: " keep ", Box: image.Rect(1, 1, 5, 5)},
			{Text: "clip", Box: image.Rect(8, 8, 20, 20)},
			{Text: "outside", Box: image.Rect(30, 30, 40, 40)},
			{Text: "  ", Box: image.Rect(0, 0, 2, 2)},
		}}
		p := NewPipeline(PipelineConfig{Engine: engine})

		var stages []Stage
		spans, err := p.Run(context.Background(), grayImage(10, 10, 0), func(pr Progress) {
			stages = append(stages, pr.Stage)
		})
		if err != nil {
			t.Fatalf("Run() error = %v", err)
		}
		if len(spans) != 2 {
			t.Fatalf("expected 2 spans, got %+v", spans)
		}
		if spans[0].Text != "keep" {
			t.Errorf("expected trimmed text, got %q", spans[0].Text)
		}
		if spans[1].Box != image.Rect(8, 8, 10, 10) {
			t.Errorf("expected clipped box, got %v", spans[1].Box)
		}
		if _, ok := engine.seen.(*image.NRGBA); !ok {
			t.Error("engine should receive the preprocessed image")
		}
		if len(stages) == 0 || stages[len(stages)-1] != StageDone {
			t.Errorf("unexpected progress stages %v", stages)
		}
	})

	t.Run("maps spans back to offset images", func(t *testing.T) {
		engine := &fakeEngine{spans: []Span{{Text: "x", Box: image.Rect(0, 0, 4, 4)}}}
		p := NewPipeline(PipelineConfig{Engine: engine})
		img := image.NewGray(image.Rect(10, 20, 30, 40))
		spans, err := p.Run(context.Background(), img, nil)
		if err != nil {
			t.Fatalf("Run() error = %v", err)
		}
		if len(spans) != 1 || spans[0].Box != image.Rect(10, 20, 14, 24) {
			t.Errorf("unexpected spans %+v", spans)
		}
	})

	t.Run("contrast can be swapped", func(t *testing.T) {
		p := NewPipeline(PipelineConfig{Engine: &fakeEngine{}, Contrast: 1.5})
		if p.Contrast() != 1.5 {
			t.Errorf("expected 1.5, got %v", p.Contrast())
		}
		p.SetContrast(-1)
		if p.Contrast() != DefaultContrast {
			t.Errorf("expected default contrast, got %v", p.Contrast())
		}
	})
}

func TestPool(t *testing.T) {
	engine := &fakeEngine{spans: []Span{{Text: "hi", Box: image.Rect(0, 0, 2, 2)}}}
	pool := NewPool(PoolConfig{
		Pipeline:  NewPipeline(PipelineConfig{Engine: engine}),
		QueueSize: 1,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go pool.Start(ctx)

	reply := make(chan Result, 16)
	if err := pool.Submit(&Request{ID: "a", Generation: 3, Image: grayImage(4, 4, 0), Reply: reply}); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	timeout := time.After(2 * time.Second)
	for {
		select {
		case r := <-reply:
			if r.RequestID != "a" || r.Generation != 3 {
				t.Fatalf("unexpected result routing: %+v", r)
			}
			if !r.Final() {
				continue
			}
			if r.Err != nil {
				t.Fatalf("unexpected error: %v", r.Err)
			}
			if len(r.Spans) != 1 || r.Spans[0].Text != "hi" {
				t.Fatalf("unexpected spans %+v", r.Spans)
			}
			return
		case <-timeout:
			t.Fatal("timed out waiting for result")
		}
	}
}

func TestPoolSubmit(t *testing.T) {
	pool := NewPool(PoolConfig{QueueSize: 1})

	if err := pool.Submit(&Request{ID: "no-reply"}); err == nil {
		t.Error("expected error for request without reply channel")
	}

	reply := make(chan Result, 1)
	if err := pool.Submit(&Request{ID: "a", Reply: reply}); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	// Not started, so the single slot stays occupied.
	if err := pool.Submit(&Request{ID: "b", Reply: reply}); !errors.Is(err, ErrQueueFull) {
		t.Errorf("expected ErrQueueFull, got %v", err)
	}
	if st := pool.Status(); st.QueueDepth != 1 || st.Workers != 1 {
		t.Errorf("unexpected status %+v", st)
	}
}
