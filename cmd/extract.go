package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/Grumbel/gesichtool/internal/detect"
	"github.com/Grumbel/gesichtool/internal/facebox"
	"github.com/Grumbel/gesichtool/internal/thumb"
	"github.com/Grumbel/gesichtool/internal/types"
	"github.com/Grumbel/gesichtool/internal/utils"
	"github.com/Grumbel/gesichtool/internal/worker"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

var extractOpts Options

var extractCmd = &cobra.Command{
	Use:   "extract <image>...",
	Short: "Detect faces in images and write cropped thumbnails",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true
		return runExtract(cmd.Context(), args, extractOpts)
	},
}

func init() {
	extractCmd.Flags().StringVarP(&extractOpts.OutDir, "out", "o", "faces", "Output directory for face thumbnails")
	extractCmd.Flags().IntVarP(&extractOpts.Size, "size", "s", 512, "Edge length of the square output thumbnails")
	extractCmd.Flags().IntVar(&extractOpts.MinSize, "min-size", 256, "Minimum face size in pixels")
	extractCmd.Flags().IntVar(&extractOpts.MaxSize, "max-size", 0, "Maximum face size in pixels (0 = unbounded)")
	extractCmd.Flags().IntVar(&extractOpts.MinNeighbors, "min-neighbors", 3, "Haar minimum-neighbor threshold (haar detector only)")
	extractCmd.Flags().Float64Var(&extractOpts.ScaleFactor, "scale-factor", 1.1, "Detection pyramid scale factor")
	extractCmd.Flags().Float64Var(&extractOpts.Padding, "padding", 0, "Expand each face box by this fraction of its size")
	extractCmd.Flags().Float64Var(&extractOpts.Quality, "quality", 5.0, "Detection quality threshold (pigo detector only)")
	extractCmd.Flags().StringVarP(&extractOpts.Detector, "detector", "d", detect.ModePigo, "Face detector backend: pigo or haar")
	extractCmd.Flags().StringVar(&extractOpts.CascadePath, "cascade", "", "Detector model (pigo facefinder binary or OpenCV haarcascade XML)")
	extractCmd.Flags().IntVarP(&extractOpts.Workers, "workers", "w", runtime.NumCPU(), "Number of images to process concurrently")
	rootCmd.AddCommand(extractCmd)
}

// imageResult wraps the output of one image task for the aggregator.
type imageResult struct {
	task  types.ImageTask
	faces []types.FaceRecord
	err   error
}

// runExtract orchestrates the batch: flag validation, detector setup,
// slot-limited dispatch, aggregation, and the final summary.
func runExtract(ctx context.Context, inputs []string, opts Options) error {
	if err := validateExtractFlags(&opts); err != nil {
		return err
	}
	if err := os.MkdirAll(opts.OutDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	det, err := detect.New(detect.Config{
		Mode:         opts.Detector,
		CascadePath:  opts.CascadePath,
		MinSize:      opts.MinSize,
		MaxSize:      opts.MaxSize,
		MinNeighbors: opts.MinNeighbors,
		ScaleFactor:  opts.ScaleFactor,
		Quality:      opts.Quality,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize %s detector: %w", opts.Detector, err)
	}
	defer det.Close()

	fmt.Fprintf(os.Stderr, "🖼  Processing %d images with %d workers (%s detector)\n", len(inputs), opts.Workers, det.Name())

	bar := progressbar.NewOptions(len(inputs),
		progressbar.OptionSetDescription("✂️  Extracting faces"),
		progressbar.OptionSetWriter(os.Stderr), // Write bar to Stderr
		progressbar.OptionShowCount(),
	)

	limiter := worker.NewLimiter(opts.Workers)
	results := make(chan imageResult, opts.Workers)
	var wg sync.WaitGroup

	// Aggregator (Consumer)
	// Must run concurrently to prevent deadlock on results
	var faceTotal, failed int
	aggDone := make(chan struct{})
	go func() {
		defer close(aggDone)
		for res := range results {
			bar.Add(1)
			if res.err != nil {
				failed++
				fmt.Fprintf(os.Stderr, "\n⚠️  %s: %v\n", res.task.Path, res.err)
				continue
			}
			faceTotal += len(res.faces)
			slog.Debug("image done", "path", res.task.Path, "faces", len(res.faces))

			if DB != nil {
				if err := indexResult(context.Background(), res, det.Name()); err != nil {
					fmt.Fprintf(os.Stderr, "\n⚠️  failed to index %s: %v\n", res.task.Path, err)
				}
			}
		}
	}()

	// Dispatch: one goroutine per image, admission bounded by the limiter
	for i, path := range inputs {
		task := types.ImageTask{Index: i, Path: path}
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := limiter.Acquire(ctx); err != nil {
				results <- imageResult{task: task, err: err}
				return
			}
			defer limiter.Release()

			faces, err := processImage(ctx, det, task, opts)
			results <- imageResult{task: task, faces: faces, err: err}
		}()
	}

	wg.Wait()
	close(results)
	<-aggDone
	bar.Finish()

	fmt.Fprintf(os.Stderr, "\n🏁 Done. %d faces from %d images (%d failed).\n", faceTotal, len(inputs)-failed, failed)
	if failed == len(inputs) {
		return fmt.Errorf("all %d inputs failed", failed)
	}
	return nil
}

// processImage runs detection on a single source image and writes one
// thumbnail per face.
func processImage(ctx context.Context, det detect.Detector, task types.ImageTask, opts Options) ([]types.FaceRecord, error) {
	img, err := thumb.Load(task.Path)
	if err != nil {
		return nil, err
	}

	rects, err := det.Detect(ctx, img)
	if err != nil {
		return nil, err
	}
	slog.Debug("detection finished", "path", task.Path, "candidates", len(rects))

	var faces []types.FaceRecord
	for i, r := range rects {
		box, ok := facebox.Adjust(r, img.Bounds(), opts.Padding)
		if !ok {
			slog.Debug("discarding degenerate face box", "path", task.Path, "box", r)
			continue
		}

		out := filepath.Join(opts.OutDir, utils.OutputName(task.Path, i))
		if err := thumb.Save(thumb.Make(img, box, opts.Size), out); err != nil {
			return faces, fmt.Errorf("failed to save %s: %w", out, err)
		}
		faces = append(faces, types.FaceRecord{FaceIndex: i, Box: box, ThumbPath: out})
	}
	return faces, nil
}

// indexResult persists one image's crops to the optional face index.
func indexResult(ctx context.Context, res imageResult, detector string) error {
	id, err := utils.ImageID(res.task.Path)
	if err != nil {
		return err
	}
	if err := DB.EnsureSourceImage(ctx, id, res.task.Path); err != nil {
		return err
	}
	return DB.InsertFaces(ctx, id, detector, res.faces)
}

// validateExtractFlags ensures all CLI arguments are valid before any heavy work starts.
func validateExtractFlags(opts *Options) error {
	switch opts.Detector {
	case detect.ModePigo:
		if opts.CascadePath == "" {
			opts.CascadePath = "facefinder"
		}
	case detect.ModeHaar:
		if opts.CascadePath == "" {
			opts.CascadePath = "haarcascade_frontalface_default.xml"
		}
	default:
		return fmt.Errorf("unknown detector %q (expected %s or %s)", opts.Detector, detect.ModePigo, detect.ModeHaar)
	}
	if _, err := os.Stat(opts.CascadePath); err != nil {
		return fmt.Errorf("detector model not found: %w", err)
	}
	if opts.Size < 1 {
		return fmt.Errorf("thumbnail size must be >= 1, got %d", opts.Size)
	}
	if opts.MinSize < 0 || opts.MaxSize < 0 {
		return fmt.Errorf("face size bounds must not be negative")
	}
	if opts.MaxSize > 0 && opts.MaxSize < opts.MinSize {
		return fmt.Errorf("max-size %d is smaller than min-size %d", opts.MaxSize, opts.MinSize)
	}
	if opts.ScaleFactor <= 1 {
		return fmt.Errorf("scale factor must be greater than 1, got %g", opts.ScaleFactor)
	}
	if opts.MinNeighbors < 0 {
		return fmt.Errorf("min-neighbors must not be negative, got %d", opts.MinNeighbors)
	}
	if opts.Padding < 0 {
		opts.Padding = 0
	}
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	if info, err := os.Stat(opts.OutDir); err == nil && !info.IsDir() {
		return fmt.Errorf("output path %s exists and is not a directory", opts.OutDir)
	}
	return nil
}
