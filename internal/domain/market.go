package domain

import (
	"fmt"
	"math/rand"
)

// Buyer is anything that can be asked whether it affords a price.
type Buyer interface {
	CanAfford(cost int) bool
}

// Market is the circle of patches around the neutral token. The cursor marks
// the patch right after the token; only the cursor and the next two entries
// can be bought.
type Market struct {
	ring   []Patch
	cursor int
}

// NewMarket copies the given patches in order. Call Shuffle before the first draw.
func NewMarket(patches []Patch) *Market {
	return &Market{ring: append([]Patch(nil), patches...)}
}

// Shuffle randomizes the ring and resets the cursor.
func (m *Market) Shuffle(rng *rand.Rand) {
	rng.Shuffle(len(m.ring), func(i, j int) { m.ring[i], m.ring[j] = m.ring[j], m.ring[i] })
	m.cursor = 0
}

// IsEmpty reports whether every patch has been bought.
func (m *Market) IsEmpty() bool {
	return len(m.ring) == 0
}

// Len returns the number of patches left.
func (m *Market) Len() int {
	return len(m.ring)
}

// WindowOfThree returns the cursor entry and the two following it, circularly.
// Fewer are returned only when fewer remain.
func (m *Market) WindowOfThree() []Patch {
	n := min(MarketWindow, len(m.ring))
	out := make([]Patch, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, m.ring[(m.cursor+i)%len(m.ring)])
	}
	return out
}

// IsWithinWindow reports whether the patch id is currently offered.
func (m *Market) IsWithinWindow(patchID int) bool {
	_, ok := m.windowIndex(patchID)
	return ok
}

// IsPurchasable reports whether the patch is offered and the buyer can pay for it.
func (m *Market) IsPurchasable(patchID int, buyer Buyer) bool {
	idx, ok := m.windowIndex(patchID)
	return ok && buyer.CanAfford(m.ring[idx].Cost)
}

// Peek returns the offered patch with the given id without taking it.
func (m *Market) Peek(patchID int) (Patch, error) {
	idx, ok := m.windowIndex(patchID)
	if !ok {
		return Patch{}, fmt.Errorf("%w: patch %d", ErrInvalidSelection, patchID)
	}
	return m.ring[idx], nil
}

// Take removes a purchasable patch and moves the neutral token onto the gap,
// so the cursor designates the patch that followed the taken one.
func (m *Market) Take(patchID int, buyer Buyer) (Patch, error) {
	idx, ok := m.windowIndex(patchID)
	if !ok {
		return Patch{}, fmt.Errorf("%w: patch %d", ErrInvalidSelection, patchID)
	}
	p := m.ring[idx]
	if !buyer.CanAfford(p.Cost) {
		return Patch{}, fmt.Errorf("%w: %w: patch %d costs %d", ErrInvalidSelection, ErrInsufficientFunds, patchID, p.Cost)
	}

	m.ring = append(m.ring[:idx], m.ring[idx+1:]...)
	if len(m.ring) == 0 {
		m.cursor = 0
	} else {
		m.cursor = idx % len(m.ring)
	}
	return p, nil
}

// Patches lists the remaining patches starting at the cursor.
func (m *Market) Patches() []Patch {
	out := make([]Patch, 0, len(m.ring))
	for i := range m.ring {
		out = append(out, m.ring[(m.cursor+i)%len(m.ring)])
	}
	return out
}

func (m *Market) windowIndex(patchID int) (int, bool) {
	n := min(MarketWindow, len(m.ring))
	for i := 0; i < n; i++ {
		idx := (m.cursor + i) % len(m.ring)
		if m.ring[idx].ID == patchID {
			return idx, true
		}
	}
	return 0, false
}
