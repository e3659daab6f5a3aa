package app

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/midgard-terrain/internal/engine/terrain"
	"github.com/Faultbox/midgard-terrain/internal/logger"
)

// Report aggregates the selections of a simulated flight.
type Report struct {
	Frames        int
	MinTriangles  int
	PeakTriangles int
	MeanTriangles float64
	MaxStitched   int
	Final         terrain.Stats
	Took          time.Duration
}

// reportEvery is how many frames pass between progress lines.
const reportEvery = 60

// Simulate flies path over root for frames frames, updating the LOD each
// frame. A cancelled context stops the flight and returns the partial report
// with the context error.
func Simulate(ctx context.Context, root *terrain.Root, path OrbitPath, frames int) (Report, error) {
	log := logger.Named("simulate")
	start := time.Now()

	var r Report
	var total int
	for frame := range frames {
		if err := ctx.Err(); err != nil {
			r.finish(total, start)
			return r, err
		}

		viewer := path.At(frame)
		root.UpdateLod(viewer)
		stats := root.Stats()

		if r.Frames == 0 || stats.Triangles < r.MinTriangles {
			r.MinTriangles = stats.Triangles
		}
		r.PeakTriangles = max(r.PeakTriangles, stats.Triangles)
		r.MaxStitched = max(r.MaxStitched, stats.Stitched)
		r.Final = stats
		r.Frames++
		total += stats.Triangles

		if r.Frames%reportEvery == 0 {
			log.Info("frame",
				zap.Int("frame", r.Frames),
				zap.Int("triangles", stats.Triangles),
				zap.Int("stitched", stats.Stitched),
				zap.Ints("levels", stats.Levels),
			)
		}
	}

	r.finish(total, start)
	return r, nil
}

func (r *Report) finish(total int, start time.Time) {
	r.Took = time.Since(start)
	if r.Frames > 0 {
		r.MeanTriangles = float64(total) / float64(r.Frames)
	}
}
