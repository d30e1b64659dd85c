package kiroku

// copyOp describes one column copy performed when an entity moves between
// archetypes: data bytes and flag values travel together.
type copyOp struct {
	from int // slot in the source archetype
	to   int // slot in the target archetype
	size int // component size in bytes
}

// transition caches the target archetype and the column copies for one
// add/remove mask applied to one source archetype.
type transition struct {
	target *Archetype
	copies []copyOp
}

// World owns all archetypes and entities. It is the coordinator that hands
// out entity IDs, moves rows between archetypes and exposes the tracker
// reset operation.
type World struct {
	entitiesSlice     []entityMeta
	freeIDs           []uint32
	archetypesList    []*Archetype
	maskToArch        map[maskType]*Archetype
	addTransitions    map[*Archetype]map[maskType]transition
	removeTransitions map[*Archetype]map[maskType]transition
	nextEntityVer     uint32
}

// NewWorld preallocates pools for up to capacity entities. The world grows
// automatically when the capacity is exceeded.
func NewWorld(capacity int) *World {
	w := &World{
		entitiesSlice:     make([]entityMeta, capacity),
		freeIDs:           make([]uint32, capacity),
		maskToArch:        make(map[maskType]*Archetype),
		addTransitions:    make(map[*Archetype]map[maskType]transition),
		removeTransitions: make(map[*Archetype]map[maskType]transition),
		nextEntityVer:     1,
	}
	for i := 0; i < capacity; i++ {
		// fill freeIDs with [capacity-1 .. 0]
		w.freeIDs[i] = uint32(capacity - 1 - i)
	}
	// Pre-create the empty archetype.
	w.getOrCreateArchetype(maskType{})
	return w
}

// getOrCreateArchetype returns the archetype for the given mask, building
// it from the global registry if missing.
func (w *World) getOrCreateArchetype(mask maskType) *Archetype {
	if a, ok := w.maskToArch[mask]; ok {
		return a
	}
	a := newArchetype(mask)
	w.archetypesList = append(w.archetypesList, a)
	w.maskToArch[mask] = a
	return a
}

// expand grows the entity pools when the free list runs dry.
func (w *World) expand() {
	oldCap := len(w.entitiesSlice)
	newCap := max(2*oldCap, oldCap+1)
	w.entitiesSlice = extendSlice(w.entitiesSlice, newCap-oldCap)
	for id := newCap - 1; id >= oldCap; id-- {
		w.freeIDs = append(w.freeIDs, uint32(id))
	}
}

// createEntity places a fresh entity into the given archetype.
func (w *World) createEntity(a *Archetype) Entity {
	if len(w.freeIDs) == 0 {
		w.expand()
	}
	last := len(w.freeIDs) - 1
	id := w.freeIDs[last]
	w.freeIDs = w.freeIDs[:last]
	ent := Entity{ID: id, Version: w.nextEntityVer}
	idx := a.appendRow(ent)
	w.entitiesSlice[id] = entityMeta{Archetype: a, Index: idx, Version: ent.Version}
	w.nextEntityVer++
	return ent
}

// CreateEntity creates a new entity with no components.
func (w *World) CreateEntity() Entity {
	return w.createEntity(w.maskToArch[maskType{}])
}

// CreateEntities creates count entities with no components and returns them.
func (w *World) CreateEntities(count int) []Entity {
	if count == 0 {
		return nil
	}
	empty := w.maskToArch[maskType{}]
	ents := make([]Entity, count)
	for i := range ents {
		ents[i] = w.createEntity(empty)
	}
	return ents
}

// IsValid checks if the entity is still alive in the world.
func (w *World) IsValid(e Entity) bool {
	if int(e.ID) >= len(w.entitiesSlice) {
		return false
	}
	meta := w.entitiesSlice[e.ID]
	return meta.Version != 0 && meta.Version == e.Version
}

// RemoveEntity deletes e from its archetype, swapping the last row into its
// place, and recycles the entity ID.
func (w *World) RemoveEntity(e Entity) {
	if !w.IsValid(e) {
		return
	}
	meta := w.entitiesSlice[e.ID]
	w.removeEntityFromArchetype(meta.Archetype, meta.Index)
	w.entitiesSlice[e.ID] = entityMeta{Archetype: nil, Index: -1, Version: 0}
	w.freeIDs = append(w.freeIDs, e.ID)
}

// removeEntityFromArchetype drops the row at idx and patches the metadata of
// the entity swapped into its place, if any.
func (w *World) removeEntityFromArchetype(a *Archetype, idx int) {
	if moved, ok := a.swapRemoveRow(idx); ok {
		w.entitiesSlice[moved.ID].Index = idx
	}
}

// ClearTrackers resets every "added" and "mutated" flag in every column of
// every archetype. Until it is called, flags accumulate: the world never
// clears them implicitly. Call it at the start of a frame or any other
// moment that should begin a new tracking interval.
func (w *World) ClearTrackers() {
	for _, a := range w.archetypesList {
		a.clearTrackers()
	}
}

// addTransition returns the cached transition for adding addMask to
// oldArch's component set, computing and caching it on first use.
func (w *World) addTransition(oldArch *Archetype, addMask maskType) transition {
	if tr, ok := w.addTransitions[oldArch][addMask]; ok {
		return tr
	}
	newArch := w.getOrCreateArchetype(orMask(oldArch.mask, addMask))
	copies := make([]copyOp, 0, len(oldArch.componentIDs))
	for from, id := range oldArch.componentIDs {
		to := newArch.getSlot(id)
		if to >= 0 {
			copies = append(copies, copyOp{from: from, to: to, size: int(componentSizes[id])})
		}
	}
	tr := transition{target: newArch, copies: copies}
	if _, ok := w.addTransitions[oldArch]; !ok {
		w.addTransitions[oldArch] = make(map[maskType]transition)
	}
	w.addTransitions[oldArch][addMask] = tr
	return tr
}

// removeTransition returns the cached transition for removing removeMask
// from oldArch's component set, computing and caching it on first use.
func (w *World) removeTransition(oldArch *Archetype, removeMask maskType) transition {
	if tr, ok := w.removeTransitions[oldArch][removeMask]; ok {
		return tr
	}
	newArch := w.getOrCreateArchetype(andNotMask(oldArch.mask, removeMask))
	copies := make([]copyOp, 0, len(oldArch.componentIDs))
	for from, id := range oldArch.componentIDs {
		if removeMask.has(id) {
			continue
		}
		to := newArch.getSlot(id)
		if to >= 0 {
			copies = append(copies, copyOp{from: from, to: to, size: int(componentSizes[id])})
		}
	}
	tr := transition{target: newArch, copies: copies}
	if _, ok := w.removeTransitions[oldArch]; !ok {
		w.removeTransitions[oldArch] = make(map[maskType]transition)
	}
	w.removeTransitions[oldArch][removeMask] = tr
	return tr
}

// moveEntityBetweenArchetypes appends a row for e in newArch and copies the
// carried component data together with its added/mutated flags. Columns new
// to the target archetype stay zeroed with both flags false; the caller is
// responsible for initializing them. Returns the new row index.
func moveEntityBetweenArchetypes(e Entity, oldIndex int, oldArch, newArch *Archetype, copies []copyOp) int {
	newIndex := newArch.appendRow(e)
	for _, cp := range copies {
		src := oldArch.componentData[cp.from][oldIndex*cp.size : (oldIndex+1)*cp.size]
		dst := newArch.componentData[cp.to][newIndex*cp.size : (newIndex+1)*cp.size]
		copy(dst, src)
		newArch.added[cp.to][newIndex] = oldArch.added[cp.from][oldIndex]
		newArch.mutated[cp.to][newIndex] = oldArch.mutated[cp.from][oldIndex]
	}
	return newIndex
}
