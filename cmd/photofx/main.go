package main

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"sync/atomic"
	"text/tabwriter"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/imamik/photofx/internal/canvas"
	"github.com/imamik/photofx/internal/params"
	"github.com/imamik/photofx/internal/pipeline"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "photofx",
	Short: "Apply photo effects to images",
	Long: `photofx runs images through a fixed chain of photo effects.

Tonal and colour adjustments, convolution filters, geometric warps and
stylised effects are each controlled by a named parameter. Parameters are
given with --set key=value or read from a KEY=VALUE file with --params.`,
	Version:           fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
	PersistentPreRunE: setupLogging,
	SilenceUsage:      true,
}

var processCmd = &cobra.Command{
	Use:   "process",
	Short: "Process a single image",
	Long:  `Process a single image with the configured effects.`,
	RunE:  runProcess,
}

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Process multiple images in a directory",
	Long:  `Process all images in a directory with the configured effects, in parallel.`,
	RunE:  runBatch,
}

var effectsCmd = &cobra.Command{
	Use:   "effects",
	Short: "List effect parameters in pipeline order",
	RunE:  runEffects,
}

var (
	inputPath  string
	outputPath string
	setFlags   []string
	paramsFile string
	workers    int
	logLevel   string
)

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error (env PHOTOFX_LOG_LEVEL)")

	for _, c := range []*cobra.Command{processCmd, batchCmd, editCmd} {
		c.Flags().StringArrayVarP(&setFlags, "set", "s", nil, "Effect parameter as key=value (repeatable)")
		c.Flags().StringVarP(&paramsFile, "params", "p", "", "File of KEY=VALUE effect parameters")
	}

	processCmd.Flags().StringVarP(&inputPath, "input", "i", "", "Input image file (required)")
	processCmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output image file (required)")
	processCmd.MarkFlagRequired("input")
	processCmd.MarkFlagRequired("output")

	batchCmd.Flags().StringVarP(&inputPath, "input", "i", "", "Input directory (required)")
	batchCmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output directory (required)")
	batchCmd.Flags().IntVarP(&workers, "workers", "w", 0, "Parallel workers (env PHOTOFX_WORKERS, default: number of CPUs)")
	batchCmd.MarkFlagRequired("input")
	batchCmd.MarkFlagRequired("output")

	editCmd.Flags().StringVarP(&inputPath, "input", "i", "", "Input image file (required)")
	editCmd.MarkFlagRequired("input")

	rootCmd.AddCommand(processCmd)
	rootCmd.AddCommand(batchCmd)
	rootCmd.AddCommand(effectsCmd)
	rootCmd.AddCommand(editCmd)
}

func main() {
	if err := godotenv.Load(); err != nil {
		logrus.Debug("No .env file found")
	}
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func setupLogging(cmd *cobra.Command, args []string) error {
	level := logLevel
	if level == "" {
		level = os.Getenv("PHOTOFX_LOG_LEVEL")
	}
	if level == "" {
		level = "info"
	}
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return err
	}
	logrus.SetLevel(lvl)
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	return nil
}

// loadParams merges the --params file and then the --set flags.
func loadParams() (params.Set, error) {
	set := params.Set{}
	if paramsFile != "" {
		fromFile, err := params.ReadFile(paramsFile)
		if err != nil {
			return nil, err
		}
		set.Merge(fromFile)
	}
	fromFlags, err := params.ParseAssignments(setFlags)
	if err != nil {
		return nil, err
	}
	set.Merge(fromFlags)

	for _, k := range set.Unknown() {
		logrus.WithFields(logrus.Fields{
			"function": "loadParams",
			"key":      k,
		}).Warn("Ignoring unknown parameter")
	}
	return set, nil
}

func workerCount() (int, error) {
	if workers > 0 {
		return workers, nil
	}
	if env := os.Getenv("PHOTOFX_WORKERS"); env != "" {
		n, err := strconv.Atoi(env)
		if err != nil || n <= 0 {
			return 0, fmt.Errorf("invalid PHOTOFX_WORKERS: %q", env)
		}
		return n, nil
	}
	return runtime.NumCPU(), nil
}

func runProcess(cmd *cobra.Command, args []string) error {
	set, err := loadParams()
	if err != nil {
		return err
	}

	start := time.Now()
	logrus.WithFields(logrus.Fields{"input": inputPath}).Info("Processing")

	if err := pipeline.Process(inputPath, outputPath, pipeline.Options{Params: set}); err != nil {
		return fmt.Errorf("processing failed: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"output":      outputPath,
		"duration_ms": time.Since(start).Milliseconds(),
	}).Info("Done")
	return nil
}

func isImage(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".jpg", ".jpeg", ".png", ".gif", ".bmp", ".tif", ".tiff":
		return true
	}
	return false
}

func runBatch(cmd *cobra.Command, args []string) error {
	set, err := loadParams()
	if err != nil {
		return err
	}
	n, err := workerCount()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(outputPath, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	files, err := os.ReadDir(inputPath)
	if err != nil {
		return fmt.Errorf("failed to read input directory: %w", err)
	}

	opts := pipeline.Options{Params: set}
	var processed, failed atomic.Int32
	g := new(errgroup.Group)
	g.SetLimit(n)

	for _, f := range files {
		f := f
		if f.IsDir() || !isImage(f.Name()) {
			continue
		}

		ext := filepath.Ext(f.Name())
		inPath := filepath.Join(inputPath, f.Name())
		outPath := filepath.Join(outputPath, strings.TrimSuffix(f.Name(), ext)+"_fx"+ext)

		g.Go(func() error {
			start := time.Now()
			if err := pipeline.Process(inPath, outPath, opts); err != nil {
				failed.Add(1)
				logrus.WithFields(logrus.Fields{
					"file":  f.Name(),
					"error": err.Error(),
				}).Error("Processing failed")
				return nil
			}
			processed.Add(1)
			logrus.WithFields(logrus.Fields{
				"file":        f.Name(),
				"duration_ms": time.Since(start).Milliseconds(),
			}).Info("Processed")
			return nil
		})
	}
	_ = g.Wait()

	logrus.WithFields(logrus.Fields{
		"processed": processed.Load(),
		"failed":    failed.Load(),
		"workers":   n,
	}).Info("Batch complete")
	return nil
}

func runEffects(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "STAGE\tSTEP\tPARAMETER\tDEFAULT")
	for _, k := range canvas.Keys {
		fmt.Fprintf(w, "canvas\t%s\t%s\t%g\n", k, k, params.Defaults[k])
	}
	for _, s := range pipeline.Steps() {
		for _, k := range s.Keys {
			fmt.Fprintf(w, "pipeline\t%s\t%s\t%g\n", s.Name, k, params.Defaults[k])
		}
	}
	return w.Flush()
}
