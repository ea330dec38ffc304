package viewport

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"

	"github.com/jackzampolin/scanedit/internal/document"
)

// Colors used when rendering region overlays.
var (
	OutlineColor   = color.NRGBA{R: 0, G: 120, B: 215, A: 255}
	SelectedColor  = color.NRGBA{R: 230, G: 60, B: 30, A: 255}
	HighlightColor = color.NRGBA{R: 255, G: 220, B: 0, A: 255}
)

const highlightOpacity = 0.35

// Render draws s at the zoom's scale: the image resized, highlighted regions
// tinted and every region outlined, selected ones in SelectedColor.
func Render(s document.Snapshot, z *Zoom) *image.NRGBA {
	img := s.Image()
	if img == nil || s.Bounds().Empty() {
		return imaging.New(0, 0, color.Transparent)
	}
	origin := s.Bounds().Min

	w := max(1, int(float64(s.Bounds().Dx())*z.Scale()+0.5))
	h := max(1, int(float64(s.Bounds().Dy())*z.Scale()+0.5))
	dst := imaging.Resize(img, w, h, imaging.Lanczos)

	sel := s.Selection()
	for _, r := range s.Regions() {
		box := viewBox(z, r.Box.Sub(origin), dst.Bounds())
		if box.Empty() {
			continue
		}
		if r.Highlight {
			tint := imaging.New(box.Dx(), box.Dy(), HighlightColor)
			dst = imaging.Overlay(dst, tint, box.Min, highlightOpacity)
		}
		c := OutlineColor
		if sel.Contains(r.ID) {
			c = SelectedColor
		}
		dst = outline(dst, box, c)
	}
	return dst
}

func viewBox(z *Zoom, r image.Rectangle, frame image.Rectangle) image.Rectangle {
	return image.Rectangle{Min: z.scaleUp(r.Min), Max: z.scaleUp(r.Max)}.Intersect(frame)
}

func outline(dst *image.NRGBA, box image.Rectangle, c color.NRGBA) *image.NRGBA {
	horizontal := imaging.New(box.Dx(), 1, c)
	vertical := imaging.New(1, box.Dy(), c)
	dst = imaging.Paste(dst, horizontal, box.Min)
	dst = imaging.Paste(dst, horizontal, image.Pt(box.Min.X, box.Max.Y-1))
	dst = imaging.Paste(dst, vertical, box.Min)
	return imaging.Paste(dst, vertical, image.Pt(box.Max.X-1, box.Min.Y))
}
