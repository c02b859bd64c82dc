package pipeline

import (
	"fmt"
	"image"
	"os"

	"github.com/disintegration/imaging"

	"github.com/imamik/photofx/internal/canvas"
	"github.com/imamik/photofx/internal/params"
)

// Processor runs one image file through the canvas stage and the effect
// pipeline.
type Processor struct {
	inputPath string
	image     image.Image
	runner    *Runner
}

// Options configures Process. A nil Runner uses NewRunner.
type Options struct {
	Params params.Set
	Runner *Runner
}

func New(inputPath string) *Processor {
	return &Processor{
		inputPath: inputPath,
		runner:    NewRunner(),
	}
}

func (p *Processor) SetRunner(r *Runner) {
	if r != nil {
		p.runner = r
	}
}

func (p *Processor) Load() error {
	if _, err := os.Stat(p.inputPath); os.IsNotExist(err) {
		return fmt.Errorf("input file not found: %s", p.inputPath)
	}

	img, err := imaging.Open(p.inputPath, imaging.AutoOrientation(true))
	if err != nil {
		return fmt.Errorf("failed to load image: %w", err)
	}

	p.image = img
	return nil
}

// Prepare applies the canvas adjustments.
func (p *Processor) Prepare(ps params.Set) error {
	if p.image == nil {
		return fmt.Errorf("no image loaded")
	}
	p.image = canvas.Apply(p.image, ps)
	return nil
}

// ApplyEffects runs the effect pipeline. The loaded image is kept on error.
func (p *Processor) ApplyEffects(ps params.Set) error {
	if p.image == nil {
		return fmt.Errorf("no image loaded")
	}

	out, err := p.runner.RunImage(p.image, ps)
	if err != nil {
		return err
	}
	p.image = out
	return nil
}

func (p *Processor) Save(outputPath string) error {
	if p.image == nil {
		return fmt.Errorf("no image to save")
	}

	err := imaging.Save(p.image, outputPath)
	if err != nil {
		return fmt.Errorf("failed to save image: %w", err)
	}

	return nil
}

func (p *Processor) Image() image.Image {
	return p.image
}

// Process loads inputPath, applies opts.Params and writes outputPath. The
// output format follows the output extension.
func Process(inputPath, outputPath string, opts Options) error {
	proc := New(inputPath)
	proc.SetRunner(opts.Runner)

	if err := proc.Load(); err != nil {
		return fmt.Errorf("load: %w", err)
	}

	if err := proc.Prepare(opts.Params); err != nil {
		return fmt.Errorf("prepare: %w", err)
	}

	if err := proc.ApplyEffects(opts.Params); err != nil {
		return fmt.Errorf("filter: %w", err)
	}

	if err := proc.Save(outputPath); err != nil {
		return fmt.Errorf("save: %w", err)
	}

	return nil
}
