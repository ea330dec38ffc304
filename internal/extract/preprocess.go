package extract

import (
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"
)

// DefaultContrast is the factor applied to pixel intensities before OCR.
const DefaultContrast = 2.0

// Preprocess multiplies every colour channel by factor and clamps to the
// valid range; alpha is preserved. The input is never modified and the same
// input always yields the same output bytes.
func Preprocess(img image.Image, factor float64) *image.NRGBA {
	if factor <= 0 {
		factor = DefaultContrast
	}
	return imaging.AdjustFunc(img, func(c color.NRGBA) color.NRGBA {
		return color.NRGBA{
			R: scaleChannel(c.R, factor),
			G: scaleChannel(c.G, factor),
			B: scaleChannel(c.B, factor),
			A: c.A,
		}
	})
}

func scaleChannel(v uint8, factor float64) uint8 {
	return uint8(math.Min(255, math.Round(float64(v)*factor)))
}
