package filters

import (
	"image"
	"image/color"

	"github.com/fogleman/gg"

	"github.com/imamik/photofx/internal/convolution"
	"github.com/imamik/photofx/internal/pixbuf"
)

const (
	cartoonLevels    = 8
	cartoonEdge      = 50
	comicLevels      = 8
	watercolorLevels = 12
	watercolorSmooth = 50
	freezeContrast   = 120
)

// OilPainting replaces every interior pixel with the mean colour of the most
// common intensity in its (2r+1)^2 neighbourhood. Pixels closer than radius
// to an edge are copied unchanged.
func OilPainting(b *pixbuf.Buffer, radius int) *pixbuf.Buffer {
	if radius < 1 {
		return b
	}
	dst := b.Clone()
	var (
		hist             [256]int
		sumR, sumG, sumB [256]int
	)
	for y := radius; y < b.Height-radius; y++ {
		for x := radius; x < b.Width-radius; x++ {
			hist, sumR, sumG, sumB = [256]int{}, [256]int{}, [256]int{}, [256]int{}
			for dy := -radius; dy <= radius; dy++ {
				for dx := -radius; dx <= radius; dx++ {
					i := b.Offset(x+dx, y+dy)
					r, g, bl := int(b.Pix[i]), int(b.Pix[i+1]), int(b.Pix[i+2])
					lvl := (r + g + bl) / 3
					hist[lvl]++
					sumR[lvl] += r
					sumG[lvl] += g
					sumB[lvl] += bl
				}
			}
			best := 0
			for lvl := 1; lvl < 256; lvl++ {
				if hist[lvl] > hist[best] {
					best = lvl
				}
			}
			n := hist[best]
			i := dst.Offset(x, y)
			dst.Pix[i] = uint8(sumR[best] / n)
			dst.Pix[i+1] = uint8(sumG[best] / n)
			dst.Pix[i+2] = uint8(sumB[best] / n)
		}
	}
	return dst
}

// Cartoon posterises to eight levels and paints black wherever the Laplacian
// of the unposterised image has a red response above 50.
func Cartoon(b *pixbuf.Buffer, intensity int) (*pixbuf.Buffer, error) {
	if intensity <= 0 {
		return b, nil
	}
	edges, err := convolution.Convolve(b, convolution.Laplacian)
	if err != nil {
		return nil, err
	}
	out := Posterize(b, cartoonLevels)
	for i := 0; i < len(out.Pix); i += 4 {
		if edges.Pix[i] > cartoonEdge {
			out.Pix[i], out.Pix[i+1], out.Pix[i+2] = 0, 0, 0
		}
	}
	return out, nil
}

// Comic posterises to eight levels.
func Comic(b *pixbuf.Buffer, intensity int) *pixbuf.Buffer {
	if intensity <= 0 {
		return b
	}
	return Posterize(b, comicLevels)
}

// Watercolor smooths then posterises to twelve levels.
func Watercolor(b *pixbuf.Buffer, intensity int) (*pixbuf.Buffer, error) {
	if intensity <= 0 {
		return b, nil
	}
	smooth, err := NoiseReduction(b, watercolorSmooth)
	if err != nil {
		return nil, err
	}
	return Posterize(smooth, watercolorLevels), nil
}

// FreezeFrame desaturates and boosts contrast.
func FreezeFrame(b *pixbuf.Buffer, intensity int) *pixbuf.Buffer {
	if intensity <= 0 {
		return b
	}
	return Contrast(Grayscale(b), freezeContrast)
}

// Glow draws a copy blurred by intensity pixels over the image at opacity
// intensity/100 (capped at 1), using source-over compositing.
func Glow(b *pixbuf.Buffer, intensity int, blur BlurFunc) (*pixbuf.Buffer, error) {
	if intensity <= 0 {
		return b, nil
	}
	if blur == nil {
		blur = GaussianBlur
	}
	over, err := fromNRGBA(blur(b.NRGBA(), float64(intensity)), b.Width, b.Height)
	if err != nil {
		return nil, err
	}
	opacity := min(float64(intensity)/100, 1)

	dst := b.NewLike()
	for i := 0; i < len(b.Pix); i += 4 {
		sa := float64(over.Pix[i+3]) / 255 * opacity
		da := float64(b.Pix[i+3]) / 255
		oa := sa + da*(1-sa)
		if oa == 0 {
			continue
		}
		for ch := 0; ch < 3; ch++ {
			c := (float64(over.Pix[i+ch])*sa + float64(b.Pix[i+ch])*da*(1-sa)) / oa
			dst.Pix[i+ch] = pixbuf.Clamp(c)
		}
		dst.Pix[i+3] = pixbuf.Clamp(oa * 255)
	}
	return dst, nil
}

// Vignette darkens towards the corners with a radial gradient from fully
// transparent at width/4 to black at opacity amount/100 at width/1.2.
func Vignette(b *pixbuf.Buffer, amount float64) *pixbuf.Buffer {
	if amount <= 0 {
		return b
	}
	w, h := float64(b.Width), float64(b.Height)
	cx, cy := w/2, h/2

	grad := gg.NewRadialGradient(cx, cy, w/4, cx, cy, w/1.2)
	grad.AddColorStop(0, color.NRGBA{0, 0, 0, 0})
	grad.AddColorStop(1, color.NRGBA{0, 0, 0, pixbuf.Clamp(amount / 100 * 255)})

	dc := gg.NewContext(b.Width, b.Height)
	dc.SetFillStyle(grad)
	dc.DrawRectangle(0, 0, w, h)
	dc.Fill()
	mask, ok := dc.Image().(*image.RGBA)
	if !ok {
		return b
	}

	for y := 0; y < b.Height; y++ {
		for x := 0; x < b.Width; x++ {
			shade := 1 - float64(mask.RGBAAt(x, y).A)/255
			i := b.Offset(x, y)
			for ch := 0; ch < 3; ch++ {
				b.Pix[i+ch] = pixbuf.Clamp(float64(b.Pix[i+ch]) * shade)
			}
		}
	}
	return b
}
