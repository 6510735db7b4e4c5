package clock

import (
	"sync"
	"sync/atomic"
	"time"
)

// Tag orders the operations recorded against a replica.
type Tag int64

// Less reports whether t strictly precedes other.
func (t Tag) Less(other Tag) bool {
	return t < other
}

// Compare returns -1, 0 or 1.
func (t Tag) Compare(other Tag) int {
	switch {
	case t < other:
		return -1
	case t > other:
		return 1
	}
	return 0
}

// Max returns the later of two tags.
func Max(a, b Tag) Tag {
	if a.Less(b) {
		return b
	}
	return a
}

// Clock hands out tags. Successive calls on one clock return strictly increasing tags.
type Clock interface {
	Now() Tag
}

// Observer is a clock that can be moved past tags seen on other replicas.
type Observer interface {
	Observe(remote Tag)
}

// Func adapts a plain function into a Clock.
type Func func() Tag

// Now calls f.
func (f Func) Now() Tag { return f() }

// Counter is a logical clock.
type Counter struct {
	last atomic.Int64
}

// NewCounter starts at zero; its first tag is 1.
func NewCounter() *Counter {
	return &Counter{}
}

func (c *Counter) Now() Tag {
	return Tag(c.last.Add(1))
}

func (c *Counter) Observe(remote Tag) {
	for {
		cur := c.last.Load()
		if int64(remote) <= cur || c.last.CompareAndSwap(cur, int64(remote)) {
			return
		}
	}
}

const (
	logicalBits = 16
	logicalMask = 1<<logicalBits - 1
)

// Hybrid is a hybrid logical clock. A tag packs unix milliseconds in the
// high 48 bits and a logical counter in the low 16 bits.
type Hybrid struct {
	mu     sync.Mutex
	latest int64
	now    func() time.Time
}

// NewHybrid reads the wall clock for its physical part.
func NewHybrid() *Hybrid {
	return &Hybrid{now: time.Now}
}

func (h *Hybrid) Now() Tag {
	h.mu.Lock()
	defer h.mu.Unlock()

	phys := h.now().UnixMilli()
	oldPhys, oldLogical := h.latest>>logicalBits, h.latest&logicalMask

	if phys > oldPhys {
		h.latest = pack(phys, 0)
	} else {
		h.latest = pack(oldPhys, oldLogical+1)
	}
	return Tag(h.latest)
}

// Update moves the clock past a tag received from another replica.
func (h *Hybrid) Update(remote Tag) {
	h.mu.Lock()
	defer h.mu.Unlock()

	phys := h.now().UnixMilli()
	remotePhys, remoteLogical := int64(remote)>>logicalBits, int64(remote)&logicalMask
	oldPhys, oldLogical := h.latest>>logicalBits, h.latest&logicalMask

	newPhys := max(oldPhys, remotePhys, phys)
	var newLogical int64
	switch {
	case newPhys == oldPhys && newPhys == remotePhys:
		newLogical = max(oldLogical, remoteLogical) + 1
	case newPhys == oldPhys:
		newLogical = oldLogical + 1
	case newPhys == remotePhys:
		newLogical = remoteLogical + 1
	}
	h.latest = pack(newPhys, newLogical)
}

func (h *Hybrid) Observe(remote Tag) {
	h.Update(remote)
}

// overflowing the logical counter borrows a millisecond
func pack(phys, logical int64) int64 {
	if logical > logicalMask {
		phys++
		logical = 0
	}
	return phys<<logicalBits | logical
}

// Physical returns the millisecond part of a hybrid tag.
func Physical(t Tag) int64 {
	return int64(t) >> logicalBits
}

// Logical returns the counter part of a hybrid tag.
func Logical(t Tag) int64 {
	return int64(t) & logicalMask
}
