package renderer

import (
	"sync"
	"sync/atomic"

	"github.com/df07/go-octree-pathtracer/pkg/core"
	"github.com/df07/go-octree-pathtracer/pkg/scene"
)

// renderJob is the state shared by every worker of one render
type renderJob struct {
	canvas   *Canvas
	viewport Viewport
	scene    *scene.Scene

	total     uint64
	next      atomic.Uint64 // Next unclaimed pixel index
	completed atomic.Uint64 // Pixels written so far
}

// claim returns the next pixel index, false once every pixel is taken
func (j *renderJob) claim() (uint64, bool) {
	p := j.next.Add(1) - 1
	return p, p < j.total
}

// WorkerPool runs a fixed number of workers over one render job
type WorkerPool struct {
	workers []*Worker
	wg      sync.WaitGroup
}

// Worker renders the pixels it claims with its own sampler
type Worker struct {
	ID      int
	tracer  *Tracer
	sampler *core.RandomSampler
	stats   RenderStats
}

// NewWorkerPool creates numWorkers workers for the tracer
func NewWorkerPool(tracer *Tracer, numWorkers int) *WorkerPool {
	wp := &WorkerPool{}
	for i := 0; i < numWorkers; i++ {
		wp.workers = append(wp.workers, &Worker{
			ID:      i,
			tracer:  tracer,
			sampler: core.NewRandomSampler(tracer.config.RayTrace.Seed, 0),
		})
	}
	return wp
}

// Run starts every worker on the job, waits for all of them, and returns their merged stats
func (wp *WorkerPool) Run(job *renderJob) RenderStats {
	for _, worker := range wp.workers {
		worker.stats = RenderStats{}
		wp.wg.Add(1)
		go worker.run(job, &wp.wg)
	}
	wp.wg.Wait()

	stats := RenderStats{Threads: len(wp.workers)}
	for _, worker := range wp.workers {
		stats.merge(worker.stats)
	}
	return stats
}

// GetNumWorkers returns the number of workers in the pool
func (wp *WorkerPool) GetNumWorkers() int {
	return len(wp.workers)
}

// run is the main worker loop
func (w *Worker) run(job *renderJob, wg *sync.WaitGroup) {
	defer wg.Done()

	for {
		p, ok := job.claim()
		if !ok {
			return
		}
		w.renderPixel(job, p)
		job.completed.Add(1)
	}
}

// renderPixel averages the configured number of paths through pixel p.
// The sampler is reseeded from the pixel index so results do not depend on
// which worker claimed the pixel.
func (w *Worker) renderPixel(job *renderJob, p uint64) {
	cfg := w.tracer.config.RayTrace
	width := uint64(job.canvas.Width())
	x, y := int(p%width), int(p/width)

	w.sampler.Reseed(cfg.Seed, p)

	var pixel PixelStats
	for s := 0; s < cfg.SamplesPerPixel; s++ {
		offset := core.NewVec2(0.5, 0.5)
		if cfg.Jitter {
			offset = w.sampler.Get2D()
		}
		ndc := PixelNDC(x, y, job.canvas.Width(), job.canvas.Height(), offset)
		ray := job.viewport.GetRay(ndc, w.sampler.Get2D())

		result := w.tracer.castRay(job.scene, ray.Origin, ray.Direction, w.sampler)
		pixel.AddSample(result.radiance)
		w.stats.TotalBounces += result.bounces
	}

	color := pixel.GetColor()
	job.canvas.Store(x, y, 0, color.X)
	job.canvas.Store(x, y, 1, color.Y)
	job.canvas.Store(x, y, 2, color.Z)

	w.stats.TotalPixels++
	w.stats.TotalSamples += pixel.SampleCount
	w.stats.DroppedSamples += pixel.Dropped
}
