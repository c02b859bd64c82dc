// Package params defines the named effect parameters, their defaults, and
// how they are read from flags and KEY=VALUE files.
package params

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// ErrInvalidValue is returned when a parameter value cannot be parsed.
var ErrInvalidValue = errors.New("invalid parameter value")

// Pipeline parameters.
const (
	Exposure       = "exposure"
	Gamma          = "gamma"
	Temperature    = "temperature"
	Clarity        = "clarity"
	NoiseReduction = "noiseReduction"
	Highlights     = "highlights"
	Shadows        = "shadows"
	Posterize      = "posterize"
	Emboss         = "emboss"
	Duotone        = "duotone"

	ColorBalanceRed   = "colorBalanceRed"
	ColorBalanceGreen = "colorBalanceGreen"
	ColorBalanceBlue  = "colorBalanceBlue"

	SplitToningShadowR    = "splitToningShadowR"
	SplitToningShadowG    = "splitToningShadowG"
	SplitToningShadowB    = "splitToningShadowB"
	SplitToningHighlightR = "splitToningHighlightR"
	SplitToningHighlightG = "splitToningHighlightG"
	SplitToningHighlightB = "splitToningHighlightB"

	ChannelMixerR0 = "channelMixerR0"
	ChannelMixerR1 = "channelMixerR1"
	ChannelMixerR2 = "channelMixerR2"
	ChannelMixerG0 = "channelMixerG0"
	ChannelMixerG1 = "channelMixerG1"
	ChannelMixerG2 = "channelMixerG2"
	ChannelMixerB0 = "channelMixerB0"
	ChannelMixerB1 = "channelMixerB1"
	ChannelMixerB2 = "channelMixerB2"

	ToneCurve    = "toneCurve"
	Fisheye      = "fisheye"
	OilPainting  = "oilPainting"
	Vignette     = "vignette"
	Sharpness    = "sharpness"
	Pixelate     = "pixelate"
	Comic        = "comic"
	Sketch       = "sketch"
	Watercolor   = "watercolor"
	Glow         = "glow"
	Mirror       = "mirror"
	Swirl        = "swirl"
	Kaleidoscope = "kaleidoscope"
	Mosaic       = "mosaic"
	Solarize     = "solarize"
	Retro        = "retro"
	Cartoon      = "cartoon"
	Crystallize  = "crystallize"
	FreezeFrame  = "freezeFrame"
)

// Canvas pre-stage parameters.
const (
	Brightness = "brightness"
	Contrast   = "contrast"
	Saturation = "saturation"
	Hue        = "hue"
	Grayscale  = "grayscale"
	Sepia      = "sepia"
	Invert     = "invert"
	Blur       = "blur"
	Rotate     = "rotate"
)

// Defaults maps every known key to the value used when it is absent.
// Booleans are stored as 0 or 1.
var Defaults = map[string]float64{
	Exposure:       100,
	Gamma:          100,
	Temperature:    100,
	Clarity:        0,
	NoiseReduction: 0,
	Highlights:     0,
	Shadows:        0,
	Posterize:      256,
	Emboss:         0,
	Duotone:        0,

	ColorBalanceRed:   0,
	ColorBalanceGreen: 0,
	ColorBalanceBlue:  0,

	SplitToningShadowR:    0,
	SplitToningShadowG:    0,
	SplitToningShadowB:    0,
	SplitToningHighlightR: 0,
	SplitToningHighlightG: 0,
	SplitToningHighlightB: 0,

	ChannelMixerR0: 1,
	ChannelMixerR1: 0,
	ChannelMixerR2: 0,
	ChannelMixerG0: 0,
	ChannelMixerG1: 1,
	ChannelMixerG2: 0,
	ChannelMixerB0: 0,
	ChannelMixerB1: 0,
	ChannelMixerB2: 1,

	ToneCurve:    100,
	Fisheye:      0,
	OilPainting:  0,
	Vignette:     0,
	Sharpness:    0,
	Pixelate:     0,
	Comic:        0,
	Sketch:       0,
	Watercolor:   0,
	Glow:         0,
	Mirror:       0,
	Swirl:        0,
	Kaleidoscope: 0,
	Mosaic:       0,
	Solarize:     0,
	Retro:        0,
	Cartoon:      0,
	Crystallize:  0,
	FreezeFrame:  0,

	Brightness: 100,
	Contrast:   100,
	Saturation: 100,
	Hue:        0,
	Grayscale:  0,
	Sepia:      0,
	Invert:     0,
	Blur:       0,
	Rotate:     0,
}

// Set is a parameter snapshot. Absent keys read as their default; unknown
// keys are kept but never consulted.
type Set map[string]float64

// Known reports whether key has a default.
func Known(key string) bool {
	_, ok := Defaults[key]
	return ok
}

// Keys returns all known keys in sorted order.
func Keys() []string {
	keys := make([]string, 0, len(Defaults))
	for k := range Defaults {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Float returns the value for key, falling back to its default.
func (s Set) Float(key string) float64 {
	if v, ok := s[key]; ok {
		return v
	}
	return Defaults[key]
}

// Int returns the value truncated toward zero, for controls that are
// integer-typed.
func (s Set) Int(key string) int {
	v := s.Float(key)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return int(v)
}

// Bool reports whether the value is non-zero.
func (s Set) Bool(key string) bool {
	return s.Float(key) != 0
}

// IsDefault reports whether key currently reads as its default.
func (s Set) IsDefault(key string) bool {
	return s.Float(key) == Defaults[key]
}

// Clone returns an independent copy.
func (s Set) Clone() Set {
	c := make(Set, len(s))
	for k, v := range s {
		c[k] = v
	}
	return c
}

// Merge copies every entry of other into s, overwriting.
func (s Set) Merge(other Set) {
	for k, v := range other {
		s[k] = v
	}
}

// ParseValue accepts numbers and the booleans true/false/on/off.
func ParseValue(raw string) (float64, error) {
	raw = strings.TrimSpace(raw)
	switch strings.ToLower(raw) {
	case "true", "on", "yes":
		return 1, nil
	case "false", "off", "no":
		return 0, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidValue, raw)
	}
	return v, nil
}

// FromStrings converts a string map (for example an env file) to a Set.
func FromStrings(m map[string]string) (Set, error) {
	s := make(Set, len(m))
	for k, raw := range m {
		v, err := ParseValue(raw)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", k, err)
		}
		s[k] = v
	}
	return s, nil
}

// ParseAssignments parses "key=value" pairs as given on the command line.
func ParseAssignments(pairs []string) (Set, error) {
	m := make(map[string]string, len(pairs))
	for _, p := range pairs {
		k, v, ok := strings.Cut(p, "=")
		if !ok || strings.TrimSpace(k) == "" {
			return nil, fmt.Errorf("%w: expected key=value, got %q", ErrInvalidValue, p)
		}
		m[strings.TrimSpace(k)] = v
	}
	return FromStrings(m)
}

// ReadFile loads a KEY=VALUE parameter file.
func ReadFile(path string) (Set, error) {
	m, err := godotenv.Read(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read parameter file: %w", err)
	}
	return FromStrings(m)
}

// Unknown returns the keys of s that have no default, sorted.
func (s Set) Unknown() []string {
	var out []string
	for k := range s {
		if !Known(k) {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}
