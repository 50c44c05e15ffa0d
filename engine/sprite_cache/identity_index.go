package sprite_cache

import "slices"

// noSprite marks a slot whose id was removed and whose hole has not been closed yet.
const noSprite SpriteID = -1

// identityIndex maps live sprite ids to their packed slot, and slots back to ids.
//
// Insert and remove follow the store: shiftFrom opens or closes slots in order, then assign
// fills an opened slot. Shifting touches only the slots at or above the threshold.
type identityIndex struct {
	slots map[SpriteID]int
	order []SpriteID
}

func newIdentityIndex(capacity int) *identityIndex {
	return &identityIndex{
		slots: make(map[SpriteID]int, capacity),
		order: make([]SpriteID, 0, capacity),
	}
}

// assign binds id to slot. slot is either an opened hole or one past the last slot.
func (x *identityIndex) assign(id SpriteID, slot int) {
	if slot == len(x.order) {
		x.order = append(x.order, id)
	} else {
		x.order[slot] = id
	}
	x.slots[id] = slot
}

func (x *identityIndex) slotOf(id SpriteID) (int, bool) {
	slot, ok := x.slots[id]
	return slot, ok
}

// shiftFrom moves every slot >= threshold by delta. A positive delta opens delta holes at
// threshold; a negative delta closes the holes in [threshold+delta, threshold).
func (x *identityIndex) shiftFrom(threshold, delta int) {
	switch {
	case delta > 0:
		x.order = slices.Insert(x.order, threshold, slices.Repeat([]SpriteID{noSprite}, delta)...)
		threshold += delta
	case delta < 0:
		threshold += delta
		x.order = slices.Delete(x.order, threshold, threshold-delta)
	default:
		return
	}
	for slot := threshold; slot < len(x.order); slot++ {
		if id := x.order[slot]; id != noSprite {
			x.slots[id] = slot
		}
	}
}

// remove forgets id. Its slot becomes a hole for shiftFrom to close, unless it was the last.
func (x *identityIndex) remove(id SpriteID) {
	slot, ok := x.slots[id]
	if !ok {
		return
	}
	delete(x.slots, id)
	if slot == len(x.order)-1 {
		x.order = x.order[:slot]
		return
	}
	x.order[slot] = noSprite
}

func (x *identityIndex) len() int {
	return len(x.slots)
}

func (x *identityIndex) reset() {
	clear(x.slots)
	x.order = x.order[:0]
}

// ids returns a copy of the live ids in slot order.
func (x *identityIndex) ids() []SpriteID {
	return slices.Clone(x.order)
}
