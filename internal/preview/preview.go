// Package preview renders noise through a baked color lookup buffer into an
// image, the same mapping the shader performs per fragment.
package preview

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/MeKo-Tech/noiselut/internal/lut"
	"github.com/MeKo-Tech/noiselut/internal/noise"
	"github.com/dgravesa/go-parallel/parallel"
	"github.com/disintegration/gift"
)

// Options controls a preview render.
type Options struct {
	Source noise.Source
	Color  *lut.EncodedBuffer
	Width  int
	Height int
	// Scale is the noise-space extent covered by the image width.
	Scale float64
	// Time is the animation time passed to the source.
	Time float64
	// Blur is an optional Gaussian blur sigma applied after coloring.
	Blur float32
	// Contrast is an optional contrast adjustment in percent (-100..100).
	Contrast float32
}

// Render draws one frame.
func Render(opts Options) (*image.NRGBA, error) {
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, fmt.Errorf("preview size must be positive, got %dx%d", opts.Width, opts.Height)
	}
	if opts.Source == nil {
		return nil, fmt.Errorf("preview needs a noise source")
	}
	if opts.Color.Width() == 0 {
		return nil, fmt.Errorf("preview needs a baked color buffer")
	}
	if opts.Scale <= 0 {
		opts.Scale = 4
	}

	img := image.NewNRGBA(image.Rect(0, 0, opts.Width, opts.Height))
	aspect := float64(opts.Height) / float64(opts.Width)

	// Rows are independent; each writes only its own pixels.
	parallel.For(opts.Height, func(y, _ int) {
		v := float64(y) / float64(opts.Height) * opts.Scale * aspect
		for x := 0; x < opts.Width; x++ {
			u := float64(x) / float64(opts.Width) * opts.Scale
			n := opts.Source.Eval(u, v, opts.Time)
			img.SetNRGBA(x, y, toNRGBA(opts.Color.Sample(float32(Normalize(n)))))
		}
	})

	var filters []gift.Filter
	if opts.Blur > 0 {
		filters = append(filters, gift.GaussianBlur(opts.Blur))
	}
	if opts.Contrast != 0 {
		filters = append(filters, gift.Contrast(opts.Contrast))
	}
	if len(filters) == 0 {
		return img, nil
	}

	g := gift.New(filters...)
	dst := image.NewNRGBA(g.Bounds(img.Bounds()))
	g.Draw(dst, img)
	return dst, nil
}

// Normalize maps a noise value from [-1,1] to a lookup coordinate in [0,1].
func Normalize(n float64) float64 {
	u := (n + 1) * 0.5
	if u < 0 {
		return 0
	}
	if u > 1 {
		return 1
	}
	return u
}

func toNRGBA(c [4]float32) color.NRGBA {
	q := func(v float32) uint8 {
		if v < 0 {
			v = 0
		}
		if v > 1 {
			v = 1
		}
		return uint8(math.Round(float64(v) * 255))
	}
	return color.NRGBA{R: q(c[0]), G: q(c[1]), B: q(c[2]), A: q(c[3])}
}
