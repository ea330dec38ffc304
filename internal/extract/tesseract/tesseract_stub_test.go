//go:build !ocr

package tesseract

import (
	"context"
	"errors"
	"image"
	"testing"

	"github.com/jackzampolin/scanedit/internal/extract"
)

func TestStubReportsUnavailable(t *testing.T) {
	_, err := New(Config{}).Recognize(context.Background(), image.NewGray(image.Rect(0, 0, 4, 4)))
	if !errors.Is(err, extract.ErrEngineUnavailable) {
		t.Errorf("expected ErrEngineUnavailable, got %v", err)
	}
	if _, ok := Available(); ok {
		t.Error("stub build should not report tesseract as available")
	}
}
