package pipeline

import (
	"github.com/sirupsen/logrus"

	"github.com/imamik/photofx/internal/filters"
	"github.com/imamik/photofx/internal/params"
	"github.com/imamik/photofx/internal/pixbuf"
)

// Step is one named effect at a fixed position in the pipeline.
type Step struct {
	Name string
	// Keys are the parameters the step reads.
	Keys []string

	active func(p params.Set) bool
	apply  func(r *Runner, b *pixbuf.Buffer, p params.Set) (*pixbuf.Buffer, error)
}

// Active reports whether the step does any work for p.
func (s Step) Active(p params.Set) bool {
	return s.active(p)
}

// Steps returns the pipeline in application order.
func Steps() []Step {
	out := make([]Step, len(steps))
	copy(out, steps)
	return out
}

func changed(keys ...string) func(params.Set) bool {
	return func(p params.Set) bool {
		for _, k := range keys {
			if !p.IsDefault(k) {
				return true
			}
		}
		return false
	}
}

func positive(key string) func(params.Set) bool {
	return func(p params.Set) bool { return p.Float(key) > 0 }
}

func positiveInt(key string) func(params.Set) bool {
	return func(p params.Set) bool { return p.Int(key) > 0 }
}

// tonal adapts an in-place float-valued effect.
func tonal(key string, fn func(*pixbuf.Buffer, float64) *pixbuf.Buffer) Step {
	return Step{
		Name:   key,
		Keys:   []string{key},
		active: changed(key),
		apply: func(_ *Runner, b *pixbuf.Buffer, p params.Set) (*pixbuf.Buffer, error) {
			return fn(b, p.Float(key)), nil
		},
	}
}

// fun adapts an integer-valued effect that runs only for positive values.
func fun(key string, fn func(*pixbuf.Buffer, int) *pixbuf.Buffer) Step {
	return Step{
		Name:   key,
		Keys:   []string{key},
		active: positiveInt(key),
		apply: func(_ *Runner, b *pixbuf.Buffer, p params.Set) (*pixbuf.Buffer, error) {
			return fn(b, p.Int(key)), nil
		},
	}
}

func funErr(key string, fn func(*pixbuf.Buffer, int) (*pixbuf.Buffer, error)) Step {
	return Step{
		Name:   key,
		Keys:   []string{key},
		active: positiveInt(key),
		apply: func(_ *Runner, b *pixbuf.Buffer, p params.Set) (*pixbuf.Buffer, error) {
			return fn(b, p.Int(key))
		},
	}
}

func convolved(key string, fn func(*pixbuf.Buffer, float64) (*pixbuf.Buffer, error)) Step {
	return Step{
		Name:   key,
		Keys:   []string{key},
		active: positive(key),
		apply: func(_ *Runner, b *pixbuf.Buffer, p params.Set) (*pixbuf.Buffer, error) {
			return fn(b, p.Float(key))
		},
	}
}

func intRGB(p params.Set, r, g, b string) filters.RGB {
	return filters.RGB{float64(p.Int(r)), float64(p.Int(g)), float64(p.Int(b))}
}

var (
	colorBalanceKeys = []string{params.ColorBalanceRed, params.ColorBalanceGreen, params.ColorBalanceBlue}
	splitToningKeys  = []string{
		params.SplitToningShadowR, params.SplitToningShadowG, params.SplitToningShadowB,
		params.SplitToningHighlightR, params.SplitToningHighlightG, params.SplitToningHighlightB,
	}
	channelMixerKeys = []string{
		params.ChannelMixerR0, params.ChannelMixerR1, params.ChannelMixerR2,
		params.ChannelMixerG0, params.ChannelMixerG1, params.ChannelMixerG2,
		params.ChannelMixerB0, params.ChannelMixerB1, params.ChannelMixerB2,
	}
)

var steps = []Step{
	tonal(params.Exposure, filters.Exposure),
	tonal(params.Gamma, filters.Gamma),
	tonal(params.Temperature, filters.Temperature),
	tonal(params.Clarity, filters.Clarity),
	convolved(params.NoiseReduction, filters.NoiseReduction),
	tonal(params.Highlights, filters.Highlights),
	tonal(params.Shadows, filters.Shadows),
	{
		Name:   params.Posterize,
		Keys:   []string{params.Posterize},
		active: changed(params.Posterize),
		apply: func(r *Runner, b *pixbuf.Buffer, p params.Set) (*pixbuf.Buffer, error) {
			levels := p.Float(params.Posterize)
			if !(levels >= 2) {
				r.logger().WithFields(logrus.Fields{
					"function": "Runner.Run",
					"step":     params.Posterize,
					"levels":   levels,
				}).Warn("Posterize needs at least 2 levels, skipping")
				return b, nil
			}
			return filters.Posterize(b, levels), nil
		},
	},
	convolved(params.Emboss, filters.Emboss),
	{
		Name:   params.Duotone,
		Keys:   []string{params.Duotone},
		active: positive(params.Duotone),
		apply: func(_ *Runner, b *pixbuf.Buffer, p params.Set) (*pixbuf.Buffer, error) {
			return filters.Duotone(b, p.Float(params.Duotone)), nil
		},
	},
	{
		Name:   "colorBalance",
		Keys:   colorBalanceKeys,
		active: changed(colorBalanceKeys...),
		apply: func(_ *Runner, b *pixbuf.Buffer, p params.Set) (*pixbuf.Buffer, error) {
			offset := intRGB(p, params.ColorBalanceRed, params.ColorBalanceGreen, params.ColorBalanceBlue)
			return filters.ColorBalance(b, offset), nil
		},
	},
	{
		Name:   "splitToning",
		Keys:   splitToningKeys,
		active: changed(splitToningKeys...),
		apply: func(_ *Runner, b *pixbuf.Buffer, p params.Set) (*pixbuf.Buffer, error) {
			shadow := intRGB(p, params.SplitToningShadowR, params.SplitToningShadowG, params.SplitToningShadowB)
			highlight := intRGB(p, params.SplitToningHighlightR, params.SplitToningHighlightG, params.SplitToningHighlightB)
			return filters.SplitToning(b, shadow, highlight), nil
		},
	},
	{
		Name:   "channelMixer",
		Keys:   channelMixerKeys,
		active: changed(channelMixerKeys...),
		apply: func(_ *Runner, b *pixbuf.Buffer, p params.Set) (*pixbuf.Buffer, error) {
			var m filters.Matrix
			for i, k := range channelMixerKeys {
				m[i/3][i%3] = p.Float(k)
			}
			return filters.ChannelMixer(b, m), nil
		},
	},
	{
		Name:   params.ToneCurve,
		Keys:   []string{params.ToneCurve},
		active: func(p params.Set) bool { return p.Int(params.ToneCurve) != 100 },
		apply: func(_ *Runner, b *pixbuf.Buffer, p params.Set) (*pixbuf.Buffer, error) {
			return filters.ToneCurve(b, p.Int(params.ToneCurve)), nil
		},
	},
	{
		Name:   params.Fisheye,
		Keys:   []string{params.Fisheye},
		active: func(p params.Set) bool { return p.Int(params.Fisheye) != 0 },
		apply: func(_ *Runner, b *pixbuf.Buffer, p params.Set) (*pixbuf.Buffer, error) {
			return filters.Fisheye(b, p.Int(params.Fisheye)), nil
		},
	},
	fun(params.OilPainting, filters.OilPainting),
	{
		Name:   params.Vignette,
		Keys:   []string{params.Vignette},
		active: positive(params.Vignette),
		apply: func(_ *Runner, b *pixbuf.Buffer, p params.Set) (*pixbuf.Buffer, error) {
			return filters.Vignette(b, p.Float(params.Vignette)), nil
		},
	},
	convolved(params.Sharpness, filters.Sharpness),
	{
		Name:   params.Pixelate,
		Keys:   []string{params.Pixelate},
		active: positiveInt(params.Pixelate),
		apply: func(r *Runner, b *pixbuf.Buffer, p params.Set) (*pixbuf.Buffer, error) {
			return filters.Pixelate(b, p.Int(params.Pixelate), r.Resample)
		},
	},
	fun(params.Comic, filters.Comic),
	funErr(params.Sketch, filters.Sketch),
	funErr(params.Watercolor, filters.Watercolor),
	{
		Name:   params.Glow,
		Keys:   []string{params.Glow},
		active: positiveInt(params.Glow),
		apply: func(r *Runner, b *pixbuf.Buffer, p params.Set) (*pixbuf.Buffer, error) {
			return filters.Glow(b, p.Int(params.Glow), r.Blur)
		},
	},
	{
		Name:   params.Mirror,
		Keys:   []string{params.Mirror},
		active: func(p params.Set) bool { return p.Bool(params.Mirror) },
		apply: func(_ *Runner, b *pixbuf.Buffer, p params.Set) (*pixbuf.Buffer, error) {
			return filters.Mirror(b, true), nil
		},
	},
	fun(params.Swirl, filters.Swirl),
	fun(params.Kaleidoscope, filters.Kaleidoscope),
	fun(params.Mosaic, filters.Mosaic),
	fun(params.Solarize, filters.Solarize),
	fun(params.Retro, filters.Retro),
	funErr(params.Cartoon, filters.Cartoon),
	fun(params.Crystallize, filters.Crystallize),
	fun(params.FreezeFrame, filters.FreezeFrame),
}
