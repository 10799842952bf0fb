package floors

import (
	"fmt"
	"image"
	"log"
	"time"
)

// DefaultSettleDelay is how long the loading indicator stays up after the new
// image has been swapped in.
const DefaultSettleDelay = 100 * time.Millisecond

// Resetter returns the map view to its home position.
type Resetter interface {
	Reset()
}

// Target displays a floor's map. img is nil and err set when the image could
// not be loaded.
type Target interface {
	ShowMap(f Floor, img image.Image, err error)
}

// Indicator shows or hides the loading state while a floor is swapped in.
type Indicator interface {
	SetLoading(loading bool)
}

// Selector switches the displayed floor. Exactly one floor is active at a
// time; selecting it again repeats the full reset and swap.
type Selector struct {
	table     *Table
	cache     *Preloader
	viewer    Resetter
	target    Target
	indicator Indicator

	settle time.Duration
	now    func() time.Time

	active    string
	seq       int
	loading   bool
	hideAt    time.Time
	listeners []func(Floor)
}

// NewSelector wires a selector. cache may be nil, in which case every floor
// is loaded directly when selected.
func NewSelector(table *Table, cache *Preloader, viewer Resetter, target Target) *Selector {
	return &Selector{
		table:  table,
		cache:  cache,
		viewer: viewer,
		target: target,
		settle: DefaultSettleDelay,
		now:    time.Now,
	}
}

func (s *Selector) SetIndicator(i Indicator) {
	s.indicator = i
}

func (s *Selector) SetSettleDelay(d time.Duration) {
	s.settle = d
}

func (s *Selector) SetClock(now func() time.Time) {
	if now == nil {
		now = time.Now
	}
	s.now = now
}

// OnChange registers fn to run whenever a floor becomes active.
func (s *Selector) OnChange(fn func(Floor)) {
	if fn == nil {
		return
	}
	s.listeners = append(s.listeners, fn)
}

func (s *Selector) Active() (Floor, bool) {
	if s.active == "" {
		return Floor{}, false
	}
	return s.table.Resolve(s.active)
}

func (s *Selector) Loading() bool {
	return s.loading
}

// Select makes id the active floor. The view is reset before the swap so the
// new floor always starts at the home position.
func (s *Selector) Select(id string) error {
	f, ok := s.table.Resolve(id)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownFloor, id)
	}

	s.active = f.ID
	s.seq++
	seq := s.seq
	for _, fn := range s.listeners {
		fn(f)
	}

	if s.viewer != nil {
		s.viewer.Reset()
	}

	var entry *Entry
	if s.cache != nil {
		entry, ok = s.cache.Get(f.ID)
	}
	if entry == nil || !ok {
		s.swapDirect(f)
		return nil
	}

	s.hideAt = time.Time{}
	s.setLoading(true)
	entry.OnLoad(func(e *Entry) {
		if seq != s.seq {
			return
		}
		s.swap(f, e.Image(), e.Err())
	})
	return nil
}

// Refresh reloads a floor's asset from disk. If it is the active floor the
// new image replaces the old one without resetting the view.
func (s *Selector) Refresh(id string) bool {
	if s.cache == nil {
		return false
	}
	entry, ok := s.cache.Reload(id)
	if !ok {
		return false
	}
	entry.OnLoad(func(e *Entry) {
		if s.active != e.Floor.ID {
			return
		}
		if e.Err() != nil {
			log.Printf("floors: reload %s: %v", e.Floor.File, e.Err())
			return
		}
		s.target.ShowMap(e.Floor, e.Image(), nil)
	})
	return true
}

// Update delivers finished loads and hides the indicator once the settle
// delay has passed. Call it once per tick.
func (s *Selector) Update() {
	if s.cache != nil {
		s.cache.Poll()
	}
	if s.loading && !s.hideAt.IsZero() && !s.now().Before(s.hideAt) {
		s.hideAt = time.Time{}
		s.setLoading(false)
	}
}

func (s *Selector) swap(f Floor, img image.Image, err error) {
	if err != nil {
		log.Printf("floors: load %s: %v", f.File, err)
	}
	s.target.ShowMap(f, img, err)
	if s.settle <= 0 {
		s.setLoading(false)
		return
	}
	s.hideAt = s.now().Add(s.settle)
}

func (s *Selector) swapDirect(f Floor) {
	s.hideAt = time.Time{}
	s.setLoading(false)

	var (
		img image.Image
		err error
	)
	if s.cache != nil {
		img, err = s.cache.LoadNow(f)
	} else {
		img, err = DecodeFile(f.File)
	}
	if err != nil {
		log.Printf("floors: load %s: %v", f.File, err)
	}
	s.target.ShowMap(f, img, err)
}

func (s *Selector) setLoading(loading bool) {
	s.loading = loading
	if s.indicator != nil {
		s.indicator.SetLoading(loading)
	}
}
