package kiroku

import "unsafe"

// Archetype represents a unique combination of component types.
// Entities with the same set of components are stored in the same archetype,
// column-wise: one data column per component type plus two parallel flag
// columns ("added" and "mutated"), all index-aligned so that the same row
// addresses the same entity across every array.
//
// The archetype exclusively owns its flag arrays. They grow and shrink in
// lockstep with row insertion and removal and are cleared only by
// World.ClearTrackers; query-side reads never modify them.
type Archetype struct {
	mask          maskType               // The component mask for this archetype.
	componentData [][]byte               // Byte slices of component data, one per slot.
	added         [][]bool               // Per-slot "newly attached" flags, one bool per row.
	mutated       [][]bool               // Per-slot "written through a mutable accessor" flags.
	componentIDs  []ComponentID          // A sorted list of component IDs in this archetype.
	entities      []Entity               // The list of entities in this archetype.
	borrows       []atomicBorrow         // Per-slot runtime borrow counters for data access.
	slots         [maxComponentTypes]int // Slot lookup for component IDs; -1 if not present.
}

// newArchetype builds an empty archetype for the given mask, with one slot
// per component ID currently registered under the mask.
func newArchetype(mask maskType) *Archetype {
	a := &Archetype{mask: mask}
	for i := range a.slots {
		a.slots[i] = -1
	}
	for id := ComponentID(0); id < nextComponentID; id++ {
		if !mask.has(id) {
			continue
		}
		a.slots[id] = len(a.componentIDs)
		a.componentIDs = append(a.componentIDs, id)
	}
	n := len(a.componentIDs)
	a.componentData = make([][]byte, n)
	a.added = make([][]bool, n)
	a.mutated = make([][]bool, n)
	a.borrows = make([]atomicBorrow, n)
	return a
}

// getSlot finds the index of a component ID in the archetype's componentID
// list. It uses a lookup array for constant time access.
func (self *Archetype) getSlot(id ComponentID) int {
	return self.slots[id]
}

// has reports whether the archetype contains a column for the component ID.
func (self *Archetype) has(id ComponentID) bool {
	return self.slots[id] >= 0
}

// getState resolves the opaque column state for a component ID. The state
// is only meaningful for this archetype; ok is false when the component is
// absent, which signals the caller to skip this archetype entirely.
func (self *Archetype) getState(id ComponentID) (int, bool) {
	slot := self.slots[id]
	return slot, slot >= 0
}

// rowCount returns the number of entities currently stored.
func (self *Archetype) rowCount() int {
	return len(self.entities)
}

// dataBase returns the base pointer of the data column for a resolved
// state. Zero-size components have empty data columns even when rows exist;
// they share a single static location.
func (self *Archetype) dataBase(state int) unsafe.Pointer {
	col := self.componentData[state]
	if len(col) == 0 {
		return unsafe.Pointer(&zeroSized)
	}
	return unsafe.Pointer(&col[0])
}

// addedBase returns the base pointer of the "added" flag column for a
// resolved state, or nil if the archetype has no rows.
func (self *Archetype) addedBase(state int) unsafe.Pointer {
	col := self.added[state]
	if len(col) == 0 {
		return nil
	}
	return unsafe.Pointer(&col[0])
}

// mutatedBase returns the base pointer of the "mutated" flag column for a
// resolved state, or nil if the archetype has no rows.
func (self *Archetype) mutatedBase(state int) unsafe.Pointer {
	col := self.mutated[state]
	if len(col) == 0 {
		return nil
	}
	return unsafe.Pointer(&col[0])
}

// appendRow adds one row for e, extending every data column by its component
// size (zeroed) and every flag column by one false entry. Returns the new
// row index.
func (self *Archetype) appendRow(e Entity) int {
	row := len(self.entities)
	self.entities = append(self.entities, e)
	for i, id := range self.componentIDs {
		self.componentData[i] = extendByteSlice(self.componentData[i], int(componentSizes[id]))
		self.added[i] = append(self.added[i], false)
		self.mutated[i] = append(self.mutated[i], false)
	}
	return row
}

// swapRemoveRow removes the row at idx by swapping the last row into its
// place, keeping data columns and flag columns in lockstep. It returns the
// entity that was moved into idx and whether a move happened.
func (self *Archetype) swapRemoveRow(idx int) (Entity, bool) {
	last := len(self.entities) - 1
	var moved Entity
	movedAny := false
	if idx < last {
		moved = self.entities[last]
		self.entities[idx] = moved
		for i, id := range self.componentIDs {
			size := int(componentSizes[id])
			col := self.componentData[i]
			copy(col[idx*size:(idx+1)*size], col[last*size:(last+1)*size])
			self.added[i][idx] = self.added[i][last]
			self.mutated[i][idx] = self.mutated[i][last]
		}
		movedAny = true
	}
	self.entities = self.entities[:last]
	for i, id := range self.componentIDs {
		size := int(componentSizes[id])
		self.componentData[i] = self.componentData[i][:last*size]
		self.added[i] = self.added[i][:last]
		self.mutated[i] = self.mutated[i][:last]
	}
	return moved, movedAny
}

// setAdded marks the component at (state, row) as newly attached.
func (self *Archetype) setAdded(state, row int) {
	self.added[state][row] = true
}

// setMutated marks the component at (state, row) as written through a
// mutable accessor.
func (self *Archetype) setMutated(state, row int) {
	self.mutated[state][row] = true
}

// clearTrackers resets every added and mutated flag in this archetype.
func (self *Archetype) clearTrackers() {
	for i := range self.componentIDs {
		clear(self.added[i])
		clear(self.mutated[i])
	}
}
