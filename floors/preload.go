package floors

import (
	"context"
	"image"
	"path/filepath"

	"golang.org/x/sync/errgroup"
)

// Entry is one cached floor image. It is only read and written on the UI
// goroutine; loads complete through Preloader.Poll.
type Entry struct {
	Floor Floor

	img     image.Image
	err     error
	loaded  bool
	gen     int
	waiters []func(*Entry)
}

// Loaded reports whether the most recent load of this entry has completed,
// successfully or not.
func (e *Entry) Loaded() bool { return e.loaded }

func (e *Entry) Image() image.Image { return e.img }

func (e *Entry) Err() error { return e.err }

// OnLoad calls fn when the pending load completes, or right away if the
// entry is already loaded. Each callback runs once.
func (e *Entry) OnLoad(fn func(*Entry)) {
	if fn == nil {
		return
	}
	if e.loaded {
		fn(e)
		return
	}
	e.waiters = append(e.waiters, fn)
}

func (e *Entry) complete(img image.Image, err error) {
	if err == nil || e.img == nil {
		e.img = img
	}
	e.err = err
	e.loaded = true
	waiters := e.waiters
	e.waiters = nil
	for _, fn := range waiters {
		fn(e)
	}
}

type loadJob struct {
	id   string
	gen  int
	path string
}

type loadResult struct {
	id  string
	gen int
	img image.Image
	err error
}

// Preloader decodes floor images in the background and hands them to the UI
// goroutine through Poll.
type Preloader struct {
	dir     string
	load    LoadFunc
	workers int

	ctx      context.Context
	entries  map[string]*Entry
	results  chan loadResult
	inflight int
}

// NewPreloader creates a preloader reading assets relative to dir. A nil load
// uses DecodeFile.
func NewPreloader(dir string, load LoadFunc, workers int) *Preloader {
	if load == nil {
		load = DecodeFile
	}
	if workers <= 0 {
		workers = 2
	}
	return &Preloader{
		dir:     dir,
		load:    load,
		workers: workers,
		ctx:     context.Background(),
		entries: make(map[string]*Entry),
		results: make(chan loadResult, 16),
	}
}

// AssetPath returns the on-disk path of a floor's asset inside dir. Absolute
// asset paths are kept as they are.
func AssetPath(dir string, f Floor) string {
	if filepath.IsAbs(f.File) || dir == "" {
		return f.File
	}
	return filepath.Join(dir, f.File)
}

// Path returns the on-disk path of a floor's asset.
func (p *Preloader) Path(f Floor) string {
	return AssetPath(p.dir, f)
}

// Start registers every floor in the cache and begins loading them.
func (p *Preloader) Start(ctx context.Context, floors []Floor) {
	p.ctx = ctx
	jobs := make([]loadJob, 0, len(floors))
	for _, f := range floors {
		e, ok := p.entries[f.ID]
		if !ok {
			e = &Entry{Floor: f}
			p.entries[f.ID] = e
		}
		jobs = append(jobs, p.begin(e))
	}
	go p.run(ctx, jobs)
}

// Reload starts a fresh load of a cached floor. The entry reports not loaded
// until the new image arrives; the previous image stays available meanwhile.
func (p *Preloader) Reload(id string) (*Entry, bool) {
	e, ok := p.entries[id]
	if !ok {
		return nil, false
	}
	ctx := p.ctx
	if ctx == nil {
		ctx = context.Background()
	}
	go p.run(ctx, []loadJob{p.begin(e)})
	return e, true
}

func (p *Preloader) begin(e *Entry) loadJob {
	e.gen++
	e.loaded = false
	p.inflight++
	return loadJob{id: e.Floor.ID, gen: e.gen, path: p.Path(e.Floor)}
}

func (p *Preloader) Get(id string) (*Entry, bool) {
	e, ok := p.entries[id]
	return e, ok
}

// LoadNow loads a floor synchronously without caching it.
func (p *Preloader) LoadNow(f Floor) (image.Image, error) {
	return p.load(p.Path(f))
}

// InFlight returns the number of loads not yet delivered by Poll.
func (p *Preloader) InFlight() int {
	return p.inflight
}

// Poll delivers completed loads without blocking and returns how many were
// processed. Call it from the UI loop.
func (p *Preloader) Poll() int {
	n := 0
	for {
		select {
		case r := <-p.results:
			p.deliver(r)
			n++
		default:
			return n
		}
	}
}

// Wait blocks until every started load has been delivered or ctx is done.
func (p *Preloader) Wait(ctx context.Context) error {
	for p.inflight > 0 {
		select {
		case r := <-p.results:
			p.deliver(r)
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

func (p *Preloader) deliver(r loadResult) {
	p.inflight--
	e, ok := p.entries[r.id]
	if !ok || r.gen != e.gen {
		return
	}
	e.complete(r.img, r.err)
}

func (p *Preloader) run(ctx context.Context, jobs []loadJob) {
	var g errgroup.Group
	g.SetLimit(p.workers)
	for _, job := range jobs {
		g.Go(func() error {
			r := loadResult{id: job.id, gen: job.gen}
			if err := ctx.Err(); err != nil {
				r.err = err
			} else {
				r.img, r.err = p.load(job.path)
			}
			select {
			case p.results <- r:
			case <-ctx.Done():
			}
			return nil
		})
	}
	_ = g.Wait()
}
