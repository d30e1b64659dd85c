package kiroku

import "unsafe"

// fetchValue binds read-only to one archetype's data column.
type fetchValue struct {
	base   unsafe.Pointer
	stride uintptr
	id     ComponentID
}

func (f *fetchValue) Access(a *Archetype) Access {
	if a.has(f.id) {
		return AccessRead
	}
	return AccessNone
}

func (f *fetchValue) Prepare(a *Archetype) (int, bool) { return a.getState(f.id) }

func (f *fetchValue) Borrow(a *Archetype, state int) {
	a.borrows[state].borrow()
}

func (f *fetchValue) Bind(a *Archetype, state int) {
	f.base = a.dataBase(state)
}

func (f *fetchValue) Release(a *Archetype, state int) {
	a.borrows[state].release()
}

func (f *fetchValue) ForEachBorrow(fn func(id ComponentID, exclusive bool)) {
	fn(f.id, false)
}

// ptr returns the value pointer at row. No bounds check.
func (f *fetchValue) ptr(row int) unsafe.Pointer {
	return unsafe.Add(f.base, uintptr(row)*f.stride)
}

// fetchMut binds exclusively to one archetype's data column together with
// its "mutated" flag column, so obtaining a value pointer can mark the row.
type fetchMut struct {
	base    unsafe.Pointer
	mutBase unsafe.Pointer
	stride  uintptr
	id      ComponentID
}

func (f *fetchMut) Access(a *Archetype) Access {
	if a.has(f.id) {
		return AccessWrite
	}
	return AccessNone
}

func (f *fetchMut) Prepare(a *Archetype) (int, bool) { return a.getState(f.id) }

func (f *fetchMut) Borrow(a *Archetype, state int) {
	a.borrows[state].borrowMut()
}

func (f *fetchMut) Bind(a *Archetype, state int) {
	f.base = a.dataBase(state)
	f.mutBase = a.mutatedBase(state)
}

func (f *fetchMut) Release(a *Archetype, state int) {
	a.borrows[state].releaseMut()
}

func (f *fetchMut) ForEachBorrow(fn func(id ComponentID, exclusive bool)) {
	fn(f.id, true)
}

// ptr marks the row mutated and returns the value pointer. The flag is set
// because a write-capable reference is handed out, not because the value is
// known to change.
func (f *fetchMut) ptr(row int) unsafe.Pointer {
	*(*bool)(unsafe.Add(f.mutBase, row)) = true
	return unsafe.Add(f.base, uintptr(row)*f.stride)
}

// Filter is a read-only iterator over entities that have component T.
// Reads never set tracking flags.
type Filter[T any] struct {
	cur  cursor
	data fetchValue
}

// NewFilter creates a read-only filter over w for component type T.
// It panics if T has not been registered.
func NewFilter[T any](w *World) *Filter[T] {
	id := GetID[T]()
	f := &Filter[T]{
		data: fetchValue{id: id, stride: componentSizes[id]},
	}
	f.cur = newCursor(w, &f.data)
	return f
}

// Next advances to the next entity. Returns false if no more entities.
func (f *Filter[T]) Next() bool {
	return f.cur.next()
}

// Reset rewinds the filter for reuse, dropping any borrows still held by a
// partially consumed iteration.
func (f *Filter[T]) Reset() {
	f.cur.reset()
}

// Entity returns the current entity.
func (f *Filter[T]) Entity() Entity {
	return f.cur.entity()
}

// Get returns a read-only pointer to the component for the current entity.
// It must not be written through; writes through it bypass mutation
// tracking.
func (f *Filter[T]) Get() *T {
	return (*T)(f.data.ptr(f.cur.row))
}

// FilterMut is a write iterator over entities that have component T. It
// holds an exclusive runtime borrow on each archetype's T column while
// iterating it, and Get marks the current row mutated.
type FilterMut[T any] struct {
	cur  cursor
	data fetchMut
}

// NewFilterMut creates a write filter over w for component type T.
// It panics if T has not been registered.
func NewFilterMut[T any](w *World) *FilterMut[T] {
	id := GetID[T]()
	f := &FilterMut[T]{
		data: fetchMut{id: id, stride: componentSizes[id]},
	}
	f.cur = newCursor(w, &f.data)
	return f
}

// Next advances to the next entity. Returns false if no more entities.
func (f *FilterMut[T]) Next() bool {
	return f.cur.next()
}

// Reset rewinds the filter for reuse, dropping any borrows still held by a
// partially consumed iteration.
func (f *FilterMut[T]) Reset() {
	f.cur.reset()
}

// Entity returns the current entity.
func (f *FilterMut[T]) Entity() Entity {
	return f.cur.entity()
}

// Get returns a mutable pointer to the component for the current entity and
// marks it mutated, regardless of whether the caller changes the value.
func (f *FilterMut[T]) Get() *T {
	return (*T)(f.data.ptr(f.cur.row))
}

// Filter2 is a read-only iterator over entities that have both T1 and T2.
type Filter2[T1 any, T2 any] struct {
	cur   cursor
	data1 fetchValue
	data2 fetchValue
}

// NewFilter2 creates a read-only filter over w for entities having both T1
// and T2. It panics if either type has not been registered.
func NewFilter2[T1 any, T2 any](w *World) *Filter2[T1, T2] {
	id1 := GetID[T1]()
	id2 := GetID[T2]()
	f := &Filter2[T1, T2]{
		data1: fetchValue{id: id1, stride: componentSizes[id1]},
		data2: fetchValue{id: id2, stride: componentSizes[id2]},
	}
	f.cur = newCursor(w, &f.data1, &f.data2)
	return f
}

// Next advances to the next entity. Returns false if no more entities.
func (f *Filter2[T1, T2]) Next() bool {
	return f.cur.next()
}

// Reset rewinds the filter for reuse.
func (f *Filter2[T1, T2]) Reset() {
	f.cur.reset()
}

// Entity returns the current entity.
func (f *Filter2[T1, T2]) Entity() Entity {
	return f.cur.entity()
}

// Get returns read-only pointers to both components for the current entity.
func (f *Filter2[T1, T2]) Get() (*T1, *T2) {
	return (*T1)(f.data1.ptr(f.cur.row)), (*T2)(f.data2.ptr(f.cur.row))
}

// FilterMut2 iterates entities that have both T1 and T2, with exclusive
// access to T1 and read access to T2. Composing it with T1 == T2 is a
// conflicting access and panics at construction.
type FilterMut2[T1 any, T2 any] struct {
	cur   cursor
	data1 fetchMut
	data2 fetchValue
}

// NewFilterMut2 creates a filter over w with write access to T1 and read
// access to T2. It panics if either type has not been registered, or if the
// two terms conflict.
func NewFilterMut2[T1 any, T2 any](w *World) *FilterMut2[T1, T2] {
	id1 := GetID[T1]()
	id2 := GetID[T2]()
	f := &FilterMut2[T1, T2]{
		data1: fetchMut{id: id1, stride: componentSizes[id1]},
		data2: fetchValue{id: id2, stride: componentSizes[id2]},
	}
	f.cur = newCursor(w, &f.data1, &f.data2)
	return f
}

// Next advances to the next entity. Returns false if no more entities.
func (f *FilterMut2[T1, T2]) Next() bool {
	return f.cur.next()
}

// Reset rewinds the filter for reuse.
func (f *FilterMut2[T1, T2]) Reset() {
	f.cur.reset()
}

// Entity returns the current entity.
func (f *FilterMut2[T1, T2]) Entity() Entity {
	return f.cur.entity()
}

// Get returns a mutable pointer to T1 (marking it mutated) and a read-only
// pointer to T2 for the current entity.
func (f *FilterMut2[T1, T2]) Get() (*T1, *T2) {
	return (*T1)(f.data1.ptr(f.cur.row)), (*T2)(f.data2.ptr(f.cur.row))
}
