package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"scatterview/internal/config"
	"scatterview/internal/dataset"
	"scatterview/internal/geom"
	"scatterview/internal/plot"
	"scatterview/internal/render"
	"scatterview/internal/render/raster"
)

func NewSnapshotCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapshot <file>",
		Short: "Render a file to PNG",
		Long:  `Render the point records of a file headlessly and write the image as PNG.`,
		Args:  cobra.ExactArgs(1),
		RunE:  runSnapshot,
	}

	cmd.Flags().StringP("out", "o", "snapshot.png", "Output PNG path")
	cmd.Flags().Int("width", 0, "Image width in logical pixels (default from config)")
	cmd.Flags().Int("height", 0, "Image height in logical pixels (default from config)")
	cmd.Flags().Float64("pixel-ratio", 0, "Device pixel ratio, capped by max_pixel_ratio (default from config)")
	cmd.Flags().String("attr", "", "Attribute to color by (overrides config)")
	cmd.Flags().IntSlice("select", nil, "Record ids to highlight")
	return cmd
}

type snapshotOptions struct {
	width, height int
	pixelRatio    float64
	selected      []int
}

func runSnapshot(cmd *cobra.Command, args []string) error {
	cfg, done, err := setup(cmd)
	if err != nil {
		return err
	}
	defer done()

	opts := snapshotOptions{}
	opts.width, _ = cmd.Flags().GetInt("width")
	opts.height, _ = cmd.Flags().GetInt("height")
	opts.pixelRatio, _ = cmd.Flags().GetFloat64("pixel-ratio")
	opts.selected, _ = cmd.Flags().GetIntSlice("select")
	out, _ := cmd.Flags().GetString("out")

	records, err := dataset.Load(args[0])
	if err != nil {
		return err
	}
	img, p, err := renderSnapshot(cmd.Context(), cfg, records, opts)
	if err != nil {
		return err
	}
	if err := img.SavePNG(out); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%dx%d, %d points, color by %s)\n",
		out, img.Context().Width(), img.Context().Height(), len(records), p.Attribute())
	return nil
}

// renderSnapshot drives the render controller synchronously against a raster
// surface: data first, then the surface, then the optional selection.
func renderSnapshot(ctx context.Context, cfg *config.Config, records []geom.Record, opts snapshotOptions) (*raster.Image, *plot.Plotter, error) {
	if opts.width <= 0 {
		opts.width = cfg.Snapshot.Width
	}
	if opts.height <= 0 {
		opts.height = cfg.Snapshot.Height
	}
	if opts.pixelRatio <= 0 {
		opts.pixelRatio = cfg.Snapshot.PixelRatio
	}

	canvas := raster.NewCanvas(opts.width, opts.height)
	surf := &raster.Surface{
		Background:  cfg.Snapshot.Background,
		PointRadius: cfg.Snapshot.PointRadius,
		Highlight:   cfg.Highlight,
	}
	var initErr error
	ctrl := render.New(surf, canvas, canvas,
		render.WithPixelRatio(opts.pixelRatio),
		render.WithMaxPixelRatio(cfg.MaxPixelRatio),
		render.WithOnError(func(err error) { initErr = err }),
	)
	p := plot.New(ctrl,
		plot.WithAttribute(cfg.DefaultAttribute),
		plot.WithExcluded(cfg.ExcludedAttributes...),
	)
	if err := p.SetData(records, dataset.Infer(records, cfg.Palette, cfg.Gradient)); err != nil {
		return nil, nil, err
	}

	initFn := ctrl.SurfaceAvailable()
	if initFn == nil {
		return nil, nil, errors.New("snapshot: nothing to draw")
	}
	res := initFn(ctx)
	ctrl.InitDone(res)
	if initErr != nil {
		return nil, nil, initErr
	}
	if len(opts.selected) > 0 {
		ctrl.Select(opts.selected)
	}
	return res.Handle.(*raster.Image), p, nil
}
