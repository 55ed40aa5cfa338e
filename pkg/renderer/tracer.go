package renderer

import (
	"fmt"
	"time"

	"github.com/df07/go-octree-pathtracer/pkg/log"
	"github.com/df07/go-octree-pathtracer/pkg/scene"
)

var logger = log.New("renderer")

// Tracer renders scenes with a Monte Carlo path tracer
type Tracer struct {
	config Config
}

// New creates a tracer with the given settings
func New(config Config) *Tracer {
	return &Tracer{config: config}
}

// Config returns the tracer settings
func (t *Tracer) Config() Config {
	return t.config
}

// Render fills a three channel canvas with the scene as seen by camera. The
// scene is built first if needed. Render blocks until every pixel is written.
func (t *Tracer) Render(canvas *Canvas, camera Camera, sc *scene.Scene) RenderStats {
	if canvas.Channels() != 3 {
		panic(fmt.Sprintf("renderer: canvas must have 3 channels, got %d", canvas.Channels()))
	}
	if !sc.IsBuilt() {
		sc.Build()
	}

	job := &renderJob{
		canvas:   canvas,
		viewport: camera.Viewport(t.config.Lens, canvas.Width(), canvas.Height()),
		scene:    sc,
		total:    uint64(canvas.Width()) * uint64(canvas.Height()),
	}

	threads := max(1, t.config.System.Threads)
	logger.Infof("rendering %dx%d, %d spp on %d threads", canvas.Width(), canvas.Height(), t.config.RayTrace.SamplesPerPixel, threads)

	start := time.Now()
	done := make(chan struct{})
	reporterDone := make(chan struct{})
	go func() {
		defer close(reporterDone)
		reportProgress(job, start, t.config.System.ProgressInterval, done)
	}()

	stats := NewWorkerPool(t, threads).Run(job)
	close(done)
	<-reporterDone

	stats.Duration = time.Since(start)
	if stats.DroppedSamples > 0 {
		logger.Warningf("dropped %d NaN samples", stats.DroppedSamples)
	}
	logger.Infof("render finished in %v", stats.Duration.Round(time.Millisecond))
	return stats
}

// reportProgress logs completed pixels and the estimated remaining time on
// every tick until done is closed. A non-positive interval disables it.
func reportProgress(job *renderJob, start time.Time, interval time.Duration, done <-chan struct{}) {
	if interval <= 0 {
		<-done
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			completed := job.completed.Load()
			if completed == 0 {
				continue
			}
			elapsed := time.Since(start)
			remaining := time.Duration(float64(job.total-completed) / float64(completed) * float64(elapsed))
			logger.Noticef("%d out of %d pixels completed (%.2f%%); estimated time remaining: %s",
				completed, job.total, float64(completed)/float64(job.total)*100, formatDuration(remaining))
		}
	}
}

// formatDuration renders d as hh:mm:ss
func formatDuration(d time.Duration) string {
	seconds := int64(d.Round(time.Second) / time.Second)
	return fmt.Sprintf("%02d:%02d:%02d", seconds/3600, seconds/60%60, seconds%60)
}
