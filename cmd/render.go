package cmd

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"

	"github.com/df07/go-octree-pathtracer/pkg/loaders"
	"github.com/df07/go-octree-pathtracer/pkg/renderer"
)

// RenderFrame renders a still frame and writes it to disk.
func RenderFrame(ctx *cli.Context) error {
	setupLogging(ctx)

	setup, name, err := loadSetup(ctx)
	if err != nil {
		return err
	}

	config, err := buildConfig(ctx, setup)
	if err != nil {
		return err
	}

	width, height := setup.Width, setup.Height
	if ctx.IsSet("width") {
		width = ctx.Int("width")
	}
	if ctx.IsSet("height") {
		height = ctx.Int("height")
	}
	if width <= 0 || height <= 0 {
		return fmt.Errorf("invalid frame size %dx%d", width, height)
	}

	out := ctx.String("out")
	if out == "" {
		timestamp := time.Now().Format("20060102_150405")
		out = filepath.Join("output", name, fmt.Sprintf("render_%s.png", timestamp))
	}
	if err := os.MkdirAll(filepath.Dir(out), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	logger.Noticef("rendering %q at %dx%d with %d spp", name, width, height, config.RayTrace.SamplesPerPixel)
	camera := renderer.NewCameraLookAt(setup.Eye, setup.LookAt)
	canvas := renderer.NewCanvas(width, height, 3)
	stats := renderer.New(config).Render(canvas, camera, setup.Scene)

	if err := loaders.SaveImage(out, canvas.Image()); err != nil {
		return err
	}

	displayRenderStats(stats, renderer.CalculateAverageLuminance(canvas.Image()))
	logger.Noticef("wrote frame to %s", out)
	return nil
}

func displayRenderStats(stats renderer.RenderStats, luminance float64) {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Pixels", "Samples", "Dropped", "Avg bounces", "Samples/s", "Threads", "Luminance", "Render time"})
	table.Append([]string{
		fmt.Sprintf("%d", stats.TotalPixels),
		fmt.Sprintf("%d", stats.TotalSamples),
		fmt.Sprintf("%d", stats.DroppedSamples),
		fmt.Sprintf("%.2f", stats.AverageBounces()),
		fmt.Sprintf("%.0f", stats.SamplesPerSecond()),
		fmt.Sprintf("%d", stats.Threads),
		fmt.Sprintf("%.3f", luminance),
		stats.Duration.Round(time.Millisecond).String(),
	})

	table.Render()
	logger.Noticef("frame statistics\n%s", buf.String())
}
