// Package imageload reads raster images from disk for the document
// controller. Common formats are decoded with imaging (PNG, JPEG, GIF, TIFF,
// BMP) plus WebP; scanned PDFs yield the largest image embedded on one page.
package imageload

import (
	"errors"
	"fmt"
	"image"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"
)

var (
	// ErrFileNotFound is returned when the path does not exist.
	ErrFileNotFound = errors.New("file not found")

	// ErrDecode is returned when the file cannot be decoded into an image.
	ErrDecode = errors.New("decode error")
)

// Loader loads a raster image from a path.
type Loader interface {
	Load(path string) (image.Image, error)
}

// FileLoader loads images from the local filesystem.
type FileLoader struct {
	// PDFPage is the 1-indexed page whose image is used for PDF input.
	// Zero means the first page.
	PDFPage int

	// KeepOrientation disables EXIF auto-orientation for JPEG/TIFF input.
	KeepOrientation bool
}

// Load reads and decodes path.
func (l FileLoader) Load(path string) (image.Image, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", ErrDecode, path)
	}

	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		page := l.PDFPage
		if page <= 0 {
			page = 1
		}
		return loadPDFPage(path, page)
	}

	img, err := imaging.Open(path, imaging.AutoOrientation(!l.KeepOrientation))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrDecode, path, err)
	}
	return img, nil
}

var _ Loader = FileLoader{}
