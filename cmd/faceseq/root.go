package main

import (
	"fmt"
	"os"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/dudu/faceseq/internal/config"
	"github.com/dudu/faceseq/internal/detector"
	"github.com/dudu/faceseq/internal/export"
	"github.com/dudu/faceseq/internal/pipeline"
	"github.com/dudu/faceseq/internal/source"
	"github.com/dudu/faceseq/internal/store"
	"github.com/dudu/faceseq/internal/ui"
)

// Version is the application version.
const Version = "0.1.0"

// Options holds the flags that accompany the MODEL and SOURCE arguments.
type Options struct {
	Scale         float64
	Preview       bool
	Width         int
	Height        int
	LandmarkModel string
	Output        string
	DBPath        string
}

var opts Options

var rootCmd = &cobra.Command{
	Use:     "faceseq MODEL SOURCE",
	Short:   "Extract an ordered face-landmark sequence from a video",
	Version: Version,
	Long: `faceseq runs a face/landmark detector over every frame of a video
file or a live capture device and exports the complete detection
history as an ordered JSON sequence (1-based pixel coordinates).

MODEL is the path to the SCRFD detection model. SOURCE is either a
video file path (dataset mode) or a numeric device id (live mode).
Live mode always shows the preview window; any key stops the run and
exports whatever was accumulated so far.`,
	Args:          cobra.ExactArgs(2),
	SilenceErrors: true,
	SilenceUsage:  true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(args[0], args[1])
	},
}

// Execute runs the command tree.
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().Float64VarP(&opts.Scale, "scale", "s", 1.0, "Detection scale applied to each frame")
	rootCmd.Flags().BoolVarP(&opts.Preview, "preview", "p", true, "Show the annotated preview window (dataset mode only)")
	rootCmd.Flags().IntVar(&opts.Width, "width", 0, "Requested capture width (live mode, 0 = device default)")
	rootCmd.Flags().IntVar(&opts.Height, "height", 0, "Requested capture height (live mode, 0 = device default)")
	rootCmd.Flags().StringVarP(&opts.LandmarkModel, "landmarks", "l", "", "Optional 106-point landmark refinement model")
	rootCmd.Flags().StringVarP(&opts.Output, "output", "o", "", "Write the exported sequence to this file (default stdout)")
	rootCmd.Flags().StringVar(&opts.DBPath, "db", "", "Also persist the run to this SQLite database")
}

func run(modelPath, sourceArg string) error {
	// Shape validation happens before any resource is opened.
	spec, err := source.Resolve(sourceArg, source.Options{
		Scale:   opts.Scale,
		Preview: opts.Preview,
		Width:   opts.Width,
		Height:  opts.Height,
	})
	if err != nil {
		return err
	}

	cfg := config.Load()

	fmt.Fprintln(os.Stderr, "Loading detection model...")
	seq, err := detector.NewSequence(detector.Config{
		ModelPath:         modelPath,
		LandmarkModelPath: opts.LandmarkModel,
		Scale:             spec.Scale,
		DetectionSize:     cfg.DetectionSize,
		ConfThreshold:     float32(cfg.ConfThreshold),
		NMSThreshold:      float32(cfg.NMSThreshold),
		RuntimeLibrary:    cfg.RuntimeLibrary,
	})
	if err != nil {
		return fmt.Errorf("failed to load detection model: %w", err)
	}
	defer seq.Close()

	fmt.Fprintf(os.Stderr, "Opening video source %s...\n", spec)
	src, err := source.Open(spec)
	if err != nil {
		return fmt.Errorf("failed to open video source: %w", err)
	}
	defer src.Close()

	var display pipeline.Renderer
	if spec.Preview {
		display = ui.NewDisplay(cfg.WindowTitle)
	}

	runner := pipeline.New(src, seq, display, spec.Preview)

	// Headless dataset runs get a progress bar instead of a window.
	if !spec.Preview {
		if file, ok := src.(*source.File); ok {
			if total := file.TotalFrames(); total > 0 {
				bar := progressbar.Default(int64(total), "scanning")
				runner.OnAccept = func() { _ = bar.Add(1) }
			}
		}
	}

	if err := runner.Run(); err != nil {
		// The partially built sequence stays inside the detector, but
		// the CLI reports only the failure and writes no output.
		return fmt.Errorf("run aborted: %w", err)
	}

	frames := export.Sequence(seq.Frames())

	if err := writeOutput(frames); err != nil {
		return err
	}

	if opts.DBPath != "" {
		db, err := store.Open(opts.DBPath)
		if err != nil {
			return fmt.Errorf("failed to open run store: %w", err)
		}
		defer db.Close()

		runID, err := db.SaveRun(spec.String(), frames)
		if err != nil {
			return fmt.Errorf("failed to persist run: %w", err)
		}
		fmt.Fprintf(os.Stderr, "Run %s saved (%d frames)\n", runID, len(frames))
	}

	return nil
}

func writeOutput(frames []export.Frame) error {
	if opts.Output == "" {
		return export.Write(os.Stdout, frames)
	}

	f, err := os.Create(opts.Output)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer f.Close()

	if err := export.Write(f, frames); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
