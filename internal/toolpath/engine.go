package toolpath

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"github.com/mvp-joe/gerber2nc/internal/geometry"
	"golang.org/x/sync/errgroup"
)

// Options configures an Engine.
type Options struct {
	// Tolerance bounds how far simplified paths may stray from the true
	// offset curve. Zero keeps every vertex; a negative value means
	// geometry.DefaultTolerance.
	Tolerance float64
	// Workers caps concurrent passes. Zero means GOMAXPROCS.
	Workers int
	// Progress receives callbacks. Nil disables reporting.
	Progress ProgressReporter
}

// Engine computes offset passes for a region.
type Engine struct {
	opts Options
}

// NewEngine creates an engine, filling unset options with defaults.
func NewEngine(opts Options) *Engine {
	if !(opts.Tolerance >= 0) {
		opts.Tolerance = geometry.DefaultTolerance
	}
	if opts.Workers <= 0 {
		opts.Workers = runtime.GOMAXPROCS(0)
	}
	if opts.Progress == nil {
		opts.Progress = &NoOpProgressReporter{}
	}
	return &Engine{opts: opts}
}

// Compute cuts params.Passes offset passes around region. Each pass inflates
// the original region by its own offset, so merged islands come out as a
// single envelope. Passes run concurrently and are returned in
// ascending offset order. ctx is checked before every pass.
//
// An empty region yields an empty Set.
func (e *Engine) Compute(ctx context.Context, region *geometry.Region, params Params) (*Set, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	offsets := params.Offsets()
	if region.Empty() || len(offsets) == 0 {
		return &Set{}, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("failed to compute toolpaths: %w", err)
	}

	e.opts.Progress.OnCopperMerged(region.Len(), region.Islands())
	e.opts.Progress.OnPassesStart(len(offsets))

	passes := make([]Pass, len(offsets))
	ordered := newOrderedReporter(e.opts.Progress, passes)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.opts.Workers)
	for i, offset := range offsets {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			passes[i] = Pass{
				Index:  i,
				Offset: offset,
				Paths:  region.Inflate(offset).Boundary(e.opts.Tolerance),
			}
			ordered.done(i)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to compute toolpaths: %w", err)
	}

	set := &Set{Passes: passes}
	e.opts.Progress.OnComplete(set)
	return set, nil
}

// orderedReporter forwards finished passes to the reporter in index order,
// holding back any pass that completes before its predecessors.
type orderedReporter struct {
	mu       sync.Mutex
	reporter ProgressReporter
	passes   []Pass
	finished []bool
	next     int
}

func newOrderedReporter(r ProgressReporter, passes []Pass) *orderedReporter {
	return &orderedReporter{reporter: r, passes: passes, finished: make([]bool, len(passes))}
}

func (o *orderedReporter) done(i int) {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.finished[i] = true
	for o.next < len(o.passes) && o.finished[o.next] {
		o.reporter.OnPassComplete(o.passes[o.next])
		o.next++
	}
}
