package geos

import (
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/golang/glog"
	geom "github.com/twpayne/go-geom"
)

// handle addresses a record in an arena. gen distinguishes reuses of the
// same slot so a stale handle never reaches a newer record.
type handle struct {
	idx uint32
	gen uint32
}

func (h handle) isZero() bool { return h == handle{} }

// record is one geometry slot. Owning records hold their geometry in t.
// View records hold no geometry; they name their owner and the ring index
// (0 is the exterior ring) they read through.
type record struct {
	t     geom.T
	srid  int
	gen   uint32
	live  bool
	owner handle
	part  int
	views int
}

func (r *record) isView() bool { return !r.owner.isZero() }

// arena stores every geometry of a Context. It is guarded by a mutex because
// finalizers release records from their own goroutine.
type arena struct {
	mu   sync.Mutex
	recs []record
	free []uint32
	live int
}

func newArena() *arena {
	// Slot 0 is never handed out so the zero handle is always invalid.
	return &arena{recs: make([]record, 1)}
}

// lookup returns the live record for h, or nil. a.mu must be held.
func (a *arena) lookup(h handle) *record {
	if h.idx == 0 || int(h.idx) >= len(a.recs) {
		return nil
	}
	r := &a.recs[h.idx]
	if !r.live || r.gen != h.gen {
		return nil
	}
	return r
}

// slot takes a free slot, growing the arena if necessary. a.mu must be held.
func (a *arena) slot() uint32 {
	if n := len(a.free); n > 0 {
		idx := a.free[n-1]
		a.free = a.free[:n-1]
		return idx
	}
	a.recs = append(a.recs, record{})
	return uint32(len(a.recs) - 1)
}

func (a *arena) alloc(t geom.T, srid int) handle {
	a.mu.Lock()
	defer a.mu.Unlock()

	idx := a.slot()
	r := &a.recs[idx]
	*r = record{t: t, srid: srid, gen: r.gen + 1, live: true}
	a.live++
	if glog.V(3) {
		glog.Infof("geos: alloc handle %d/%d (%T)", idx, r.gen, t)
	}
	return handle{idx: idx, gen: r.gen}
}

// allocView creates a view of ring part of owner. The view reports the
// owner's SRID.
func (a *arena) allocView(owner handle, part int) (handle, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if o := a.lookup(owner); o == nil {
		return handle{}, errors.AssertionFailedf("geos: view of released handle %d", owner.idx)
	} else if o.isView() {
		return handle{}, errors.AssertionFailedf("geos: view of view handle %d", owner.idx)
	}

	idx := a.slot()
	// Re-resolve the owner: slot may have grown the backing slice.
	o := a.lookup(owner)
	o.views++
	r := &a.recs[idx]
	*r = record{gen: r.gen + 1, live: true, owner: owner, part: part}
	a.live++
	if glog.V(3) {
		glog.Infof("geos: alloc view %d/%d of %d ring %d", idx, r.gen, owner.idx, part)
	}
	return handle{idx: idx, gen: r.gen}, nil
}

// resolve returns the geometry and SRID behind h. Views are resolved
// through their owner on every call, SRID included.
func (a *arena) resolve(h handle) (geom.T, int, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	r := a.lookup(h)
	if r == nil {
		return nil, 0, false
	}
	if !r.isView() {
		return r.t, r.srid, true
	}
	o := a.lookup(r.owner)
	if o == nil {
		return nil, 0, false
	}
	return ringOf(o.t, r.part), o.srid, true
}

// replace swaps the geometry behind an owning handle.
func (a *arena) replace(h handle, t geom.T) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	r := a.lookup(h)
	if r == nil {
		return errors.AssertionFailedf("geos: replace on released handle %d", h.idx)
	}
	if r.isView() {
		return ErrReadOnlyView
	}
	if r.views > 0 {
		return errors.Wrapf(ErrHandleInUse, "replace with %d live views", r.views)
	}
	r.t = t
	return nil
}

// setSRID tags an owning record. Views take their SRID from the owner and
// cannot be retagged.
func (a *arena) setSRID(h handle, srid int) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	r := a.lookup(h)
	if r == nil {
		return errors.AssertionFailedf("geos: use of released geometry handle %d", h.idx)
	}
	if r.isView() {
		return ErrReadOnlyView
	}
	r.srid = srid
	return nil
}

func (a *arena) isView(h handle) bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	r := a.lookup(h)
	return r != nil && r.isView()
}

// release frees the record behind h. Releasing an already released handle
// is a no-op. An owner with live views is refused.
func (a *arena) release(h handle) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	r := a.lookup(h)
	if r == nil {
		return nil
	}
	if r.views > 0 {
		return errors.Wrapf(ErrHandleInUse, "handle %d has %d live views", h.idx, r.views)
	}
	if r.isView() {
		if o := a.lookup(r.owner); o != nil {
			o.views--
		}
	}
	r.t = nil
	r.live = false
	r.owner = handle{}
	r.views = 0
	a.free = append(a.free, h.idx)
	a.live--
	if glog.V(3) {
		glog.Infof("geos: released handle %d/%d", h.idx, h.gen)
	}
	return nil
}

func (a *arena) liveCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.live
}

// ringOf returns ring part of a polygon, sharing the polygon's coordinates.
// A missing ring (an empty polygon's exterior) resolves to an empty ring.
func ringOf(t geom.T, part int) *geom.LinearRing {
	p, ok := t.(*geom.Polygon)
	if !ok || part < 0 || part >= p.NumLinearRings() {
		return geom.NewLinearRingFlat(layoutOf(t), nil)
	}
	return p.LinearRing(part)
}
