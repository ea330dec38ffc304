package imageload

import (
	"fmt"
	"image"
	"os"
	"slices"
	"strconv"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// loadPDFPage returns the largest image embedded on page of a scanned PDF.
// Scanners store each page as a single full-page image, so the largest one
// is the page.
func loadPDFPage(path string, page int) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	pageCount, err := api.PageCount(f, conf)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrDecode, path, err)
	}
	if page > pageCount {
		return nil, fmt.Errorf("%w: %s has %d pages, page %d requested", ErrDecode, path, pageCount, page)
	}
	if _, err := f.Seek(0, 0); err != nil {
		return nil, fmt.Errorf("rewind %s: %w", path, err)
	}

	pages, err := api.ExtractImagesRaw(f, []string{strconv.Itoa(page)}, conf)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: extract images: %v", ErrDecode, path, err)
	}

	var best image.Image
	for _, images := range pages {
		objNrs := make([]int, 0, len(images))
		for nr := range images {
			objNrs = append(objNrs, nr)
		}
		slices.Sort(objNrs)
		for _, nr := range objNrs {
			img, _, err := image.Decode(images[nr])
			if err != nil {
				continue
			}
			if best == nil || area(img.Bounds()) > area(best.Bounds()) {
				best = img
			}
		}
	}
	if best == nil {
		return nil, fmt.Errorf("%w: %s: no decodable image on page %d", ErrDecode, path, page)
	}
	return best, nil
}

func area(r image.Rectangle) int {
	return r.Dx() * r.Dy()
}
