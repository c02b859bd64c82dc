package filters

import (
	"testing"

	"github.com/imamik/photofx/internal/pixbuf"
)

func TestColorMapping(t *testing.T) {
	tests := []struct {
		name  string
		in    px
		apply func(b *pixbuf.Buffer) *pixbuf.Buffer
		want  px
	}{
		{"solarize 128", px{200, 100, 50, 255}, func(b *pixbuf.Buffer) *pixbuf.Buffer { return Solarize(b, 128) }, px{55, 100, 50, 255}},
		{"duotone full", px{30, 60, 90, 200}, func(b *pixbuf.Buffer) *pixbuf.Buffer { return Duotone(b, 100) }, px{0, 0, 255, 200}},
		{"duotone partial", px{30, 60, 90, 200}, func(b *pixbuf.Buffer) *pixbuf.Buffer { return Duotone(b, 20) }, px{48, 48, 99, 200}},
		{"retro grey", px{100, 100, 100, 7}, func(b *pixbuf.Buffer) *pixbuf.Buffer { return Retro(b, 1) }, px{135, 120, 94, 7}},
		{"retro white clamps", px{255, 255, 255, 7}, func(b *pixbuf.Buffer) *pixbuf.Buffer { return Retro(b, 50) }, px{255, 255, 239, 7}},
		{"color balance", px{100, 100, 100, 8}, func(b *pixbuf.Buffer) *pixbuf.Buffer { return ColorBalance(b, RGB{10, -20, 300}) }, px{110, 80, 255, 8}},
		{"split toning shadow", px{10, 20, 30, 9}, func(b *pixbuf.Buffer) *pixbuf.Buffer { return SplitToning(b, RGB{5, 0, -5}, RGB{-10, 0, 10}) }, px{15, 20, 25, 9}},
		{"split toning highlight", px{200, 200, 200, 9}, func(b *pixbuf.Buffer) *pixbuf.Buffer { return SplitToning(b, RGB{5, 0, -5}, RGB{-10, 0, 10}) }, px{190, 200, 210, 9}},
		{"channel mixer swap", px{10, 20, 30, 1}, func(b *pixbuf.Buffer) *pixbuf.Buffer {
			return ChannelMixer(b, Matrix{{0, 0, 1}, {0, 1, 0}, {1, 0, 0}})
		}, px{30, 20, 10, 1}},
		{"tone curve square", px{0, 128, 255, 2}, func(b *pixbuf.Buffer) *pixbuf.Buffer { return ToneCurve(b, 200) }, px{0, 64, 255, 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := pixelAt(tt.apply(newBuffer(t, 1, 1, tt.in)), 0, 0)
			if got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSolarizeThresholdIsExclusive(t *testing.T) {
	b := newBuffer(t, 1, 1, px{128, 129, 0, 255})
	if got := pixelAt(Solarize(b, 128), 0, 0); got != (px{128, 126, 0, 255}) {
		t.Errorf("Solarize(128) = %v", got)
	}
}

func TestColorMappingPreservesAlpha(t *testing.T) {
	apply := map[string]func(*pixbuf.Buffer) *pixbuf.Buffer{
		"duotone":      func(b *pixbuf.Buffer) *pixbuf.Buffer { return Duotone(b, 60) },
		"solarize":     func(b *pixbuf.Buffer) *pixbuf.Buffer { return Solarize(b, 90) },
		"retro":        func(b *pixbuf.Buffer) *pixbuf.Buffer { return Retro(b, 10) },
		"balance":      func(b *pixbuf.Buffer) *pixbuf.Buffer { return ColorBalance(b, RGB{-40, 40, 5}) },
		"split toning": func(b *pixbuf.Buffer) *pixbuf.Buffer { return SplitToning(b, RGB{20, 0, 0}, RGB{0, 0, 20}) },
		"mixer":        func(b *pixbuf.Buffer) *pixbuf.Buffer { return ChannelMixer(b, Matrix{{0.5, 0.5, 0}, {0, 2, 0}, {-1, 0, 1}}) },
		"tone curve":   func(b *pixbuf.Buffer) *pixbuf.Buffer { return ToneCurve(b, 60) },
	}
	for name, fn := range apply {
		src := gradientBuffer(t, 10, 6)
		assertAlphaPreserved(t, name, fn(src.Clone()), src)
	}
}
