//go:build ocr

package tesseract

import (
	"context"
	"image"
	"image/color"
	"image/draw"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// ensureTesseractAvailable checks that the tesseract binary is reachable.
func ensureTesseractAvailable(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("tesseract"); err != nil {
		t.Skip("tesseract not installed in PATH")
	}
}

func renderText(text string) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, 240, 80))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: color.White}, image.Point{}, draw.Src)
	d := &font.Drawer{
		Dst:  img,
		Src:  image.Black,
		Face: basicfont.Face7x13,
		Dot:  fixed.P(10, 45),
	}
	d.DrawString(text)
	return img
}

func TestEngineRecognize(t *testing.T) {
	ensureTesseractAvailable(t)

	cfgFile := filepath.Join(t.TempDir(), "scanedit.cfg")
	if err := os.WriteFile(cfgFile, []byte(ConfigFileContents(EngineModeLSTM)), 0o644); err != nil {
		t.Fatalf("write config file: %v", err)
	}

	engine := New(Config{ConfigFile: cfgFile, Level: LevelLine})
	spans, err := engine.Recognize(context.Background(), renderText("Hello Region"))
	if err != nil {
		t.Fatalf("Recognize() error = %v", err)
	}
	if len(spans) == 0 {
		t.Fatal("expected at least one span")
	}
	got := strings.ToLower(spans[0].Text)
	if !strings.Contains(got, "hello") {
		t.Errorf("unexpected OCR output: %q", spans[0].Text)
	}
	if spans[0].Box.Empty() {
		t.Error("expected a located span")
	}
}
