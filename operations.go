package kiroku

import (
	"unsafe"
)

// AddComponent adds a component of type T to an entity.
// It returns a pointer to the newly added component and a boolean indicating
// success. The new component's "added" flag is set; writing the initial
// value through the returned pointer does not count as a mutation.
// If the entity already has the component, it returns a pointer to the
// existing component; since that pointer is write-capable, the component is
// marked mutated.
func AddComponent[T any](w *World, e Entity) (*T, bool) {
	if int(e.ID) >= len(w.entitiesSlice) {
		return nil, false
	}
	meta := w.entitiesSlice[e.ID]
	if meta.Version == 0 || meta.Version != e.Version {
		return nil, false
	}

	compID, ok := TryGetID[T]()
	if !ok {
		return nil, false
	}
	size := int(componentSizes[compID])

	oldArch := meta.Archetype
	addMask := makeMask1(compID)
	if includesAll(oldArch.mask, addMask) {
		slot := oldArch.getSlot(compID)
		oldArch.setMutated(slot, meta.Index)
		if size == 0 {
			return (*T)(unsafe.Pointer(&zeroSized)), true
		}
		bytes := oldArch.componentData[slot]
		return (*T)(unsafe.Pointer(&bytes[meta.Index*size])), true
	}

	tr := w.addTransition(oldArch, addMask)
	newArch := tr.target

	oldIndex := meta.Index
	newIndex := moveEntityBetweenArchetypes(e, oldIndex, oldArch, newArch, tr.copies)

	slot := newArch.getSlot(compID)
	newArch.setAdded(slot, newIndex)

	w.entitiesSlice[e.ID] = entityMeta{Archetype: newArch, Index: newIndex, Version: e.Version}
	w.removeEntityFromArchetype(oldArch, oldIndex)

	bytes := newArch.componentData[slot]
	if size == 0 {
		return (*T)(unsafe.Pointer(&zeroSized)), true
	}
	return (*T)(unsafe.Pointer(&bytes[newIndex*size])), true
}

// zeroSized backs pointers handed out for zero-size component types.
var zeroSized struct{}

// SetComponent sets the component data for an entity.
// If the entity does not have the component, it is added and marked "added";
// otherwise the existing value is overwritten and marked "mutated".
// It returns a boolean indicating success.
func SetComponent[T any](w *World, e Entity, comp T) bool {
	if int(e.ID) >= len(w.entitiesSlice) {
		return false
	}
	meta := w.entitiesSlice[e.ID]
	if meta.Version == 0 || meta.Version != e.Version {
		return false
	}

	compID, ok := TryGetID[T]()
	if !ok {
		return false
	}
	size := int(componentSizes[compID])
	src := unsafe.Slice((*byte)(unsafe.Pointer(&comp)), size)

	oldArch := meta.Archetype
	addMask := makeMask1(compID)
	if includesAll(oldArch.mask, addMask) {
		slot := oldArch.getSlot(compID)
		bytes := oldArch.componentData[slot]
		copy(bytes[meta.Index*size:(meta.Index+1)*size], src)
		oldArch.setMutated(slot, meta.Index)
		return true
	}

	tr := w.addTransition(oldArch, addMask)
	newArch := tr.target

	oldIndex := meta.Index
	newIndex := moveEntityBetweenArchetypes(e, oldIndex, oldArch, newArch, tr.copies)

	slot := newArch.getSlot(compID)
	bytes := newArch.componentData[slot]
	copy(bytes[newIndex*size:(newIndex+1)*size], src)
	newArch.setAdded(slot, newIndex)

	w.entitiesSlice[e.ID] = entityMeta{Archetype: newArch, Index: newIndex, Version: e.Version}
	w.removeEntityFromArchetype(oldArch, oldIndex)
	return true
}

// RemoveComponent removes a component of type T from an entity.
// It returns a boolean indicating whether the operation succeeded.
// If the entity does not have the component, it returns true.
func RemoveComponent[T any](w *World, e Entity) bool {
	if int(e.ID) >= len(w.entitiesSlice) {
		return false
	}
	meta := w.entitiesSlice[e.ID]
	if meta.Version == 0 || meta.Version != e.Version {
		return false
	}

	compID, ok := TryGetID[T]()
	if !ok {
		return false
	}

	oldArch := meta.Archetype
	removeMask := makeMask1(compID)
	if !intersects(oldArch.mask, removeMask) {
		return true
	}

	tr := w.removeTransition(oldArch, removeMask)
	newArch := tr.target

	oldIndex := meta.Index
	newIndex := moveEntityBetweenArchetypes(e, oldIndex, oldArch, newArch, tr.copies)

	w.entitiesSlice[e.ID] = entityMeta{Archetype: newArch, Index: newIndex, Version: e.Version}
	w.removeEntityFromArchetype(oldArch, oldIndex)
	return true
}

// GetComponent retrieves a read-only pointer to the component of type T for
// the given entity. It returns the pointer and a boolean indicating whether
// the component was found. The returned value must not be written through:
// reads never set tracking flags, so writes through it would bypass
// mutation tracking. Use GetComponentMut for writes.
func GetComponent[T any](w *World, e Entity) (*T, bool) {
	p, _, _, ok := resolveComponent[T](w, e)
	return p, ok
}

// GetComponentMut retrieves a write-capable pointer to the component of
// type T for the given entity and marks the component mutated, regardless
// of whether the caller ends up changing the value.
func GetComponentMut[T any](w *World, e Entity) (*T, bool) {
	p, arch, row, ok := resolveComponent[T](w, e)
	if !ok {
		return nil, false
	}
	slot := arch.getSlot(GetID[T]())
	arch.setMutated(slot, row)
	return p, true
}

// resolveComponent locates the component of type T for e, returning the
// value pointer plus the archetype and row for flag updates.
func resolveComponent[T any](w *World, e Entity) (*T, *Archetype, int, bool) {
	if int(e.ID) >= len(w.entitiesSlice) {
		return nil, nil, 0, false
	}
	meta := w.entitiesSlice[e.ID]
	if meta.Version == 0 || meta.Version != e.Version {
		return nil, nil, 0, false
	}

	compID, ok := TryGetID[T]()
	if !ok {
		return nil, nil, 0, false
	}
	size := int(componentSizes[compID])

	arch := meta.Archetype
	slot := arch.getSlot(compID)
	if slot == -1 {
		return nil, nil, 0, false
	}
	if size == 0 {
		return (*T)(unsafe.Pointer(&zeroSized)), arch, meta.Index, true
	}
	bytes := arch.componentData[slot]
	return (*T)(unsafe.Pointer(&bytes[meta.Index*size])), arch, meta.Index, true
}
