package kiroku

import "unsafe"

// Tracking queries report, per entity and per component type, whether the
// component was newly attached ("added"), written through a write-capable
// accessor ("mutated"), or either ("changed") since the last
// World.ClearTrackers call. They read the archetype's flag columns directly,
// without copying and without ever modifying them. It is the caller's
// responsibility to clear trackers with World.ClearTrackers at the start of
// the frame (or any other suitable moment); flags accumulate until then.

// fetchAdded binds to one archetype's "added" flag column.
type fetchAdded struct {
	base unsafe.Pointer // nil until bound; the unbound value is never read
	id   ComponentID
}

func (f *fetchAdded) Access(a *Archetype) Access {
	if a.has(f.id) {
		return AccessRead
	}
	return AccessNone
}

func (f *fetchAdded) Prepare(a *Archetype) (int, bool) { return a.getState(f.id) }
func (f *fetchAdded) Borrow(_ *Archetype, _ int)       {}
func (f *fetchAdded) Bind(a *Archetype, state int)     { f.base = a.addedBase(state) }
func (f *fetchAdded) Release(_ *Archetype, _ int)      {}

func (f *fetchAdded) ForEachBorrow(fn func(id ComponentID, exclusive bool)) {
	fn(f.id, false)
}

// get reads one row's flag. No bounds check: the row must be within the
// bound archetype's row count.
func (f *fetchAdded) get(row int) bool {
	return *(*bool)(unsafe.Add(f.base, row))
}

// fetchMutated binds to one archetype's "mutated" flag column.
type fetchMutated struct {
	base unsafe.Pointer
	id   ComponentID
}

func (f *fetchMutated) Access(a *Archetype) Access {
	if a.has(f.id) {
		return AccessRead
	}
	return AccessNone
}

func (f *fetchMutated) Prepare(a *Archetype) (int, bool) { return a.getState(f.id) }
func (f *fetchMutated) Borrow(_ *Archetype, _ int)       {}
func (f *fetchMutated) Bind(a *Archetype, state int)     { f.base = a.mutatedBase(state) }
func (f *fetchMutated) Release(_ *Archetype, _ int)      {}

func (f *fetchMutated) ForEachBorrow(fn func(id ComponentID, exclusive bool)) {
	fn(f.id, false)
}

func (f *fetchMutated) get(row int) bool {
	return *(*bool)(unsafe.Add(f.base, row))
}

// fetchChanged binds to both flag columns and combines them per row.
type fetchChanged struct {
	mutated unsafe.Pointer
	added   unsafe.Pointer
	id      ComponentID
}

func (f *fetchChanged) Access(a *Archetype) Access {
	if a.has(f.id) {
		return AccessRead
	}
	return AccessNone
}

func (f *fetchChanged) Prepare(a *Archetype) (int, bool) { return a.getState(f.id) }
func (f *fetchChanged) Borrow(_ *Archetype, _ int)       {}

func (f *fetchChanged) Bind(a *Archetype, state int) {
	f.mutated = a.mutatedBase(state)
	f.added = a.addedBase(state)
}

func (f *fetchChanged) Release(_ *Archetype, _ int) {}

func (f *fetchChanged) ForEachBorrow(fn func(id ComponentID, exclusive bool)) {
	fn(f.id, false)
}

func (f *fetchChanged) get(row int) bool {
	return *(*bool)(unsafe.Add(f.mutated, row)) || *(*bool)(unsafe.Add(f.added, row))
}

// Added is a query over entities having component T, reporting per entity
// whether the component was newly attached since the last
// World.ClearTrackers call. Components that were only written to do not
// count as added. Archetypes lacking T are skipped entirely: entities
// without the component never appear in the results.
type Added[T any] struct {
	cur   cursor
	flags fetchAdded
	value fetchValue
}

// NewAdded creates an Added query over w for component type T.
// It panics if T has not been registered.
func NewAdded[T any](w *World) *Added[T] {
	id := GetID[T]()
	q := &Added[T]{
		flags: fetchAdded{id: id},
		value: fetchValue{id: id, stride: componentSizes[id]},
	}
	q.cur = newCursor(w, &q.flags, &q.value)
	return q
}

// Next advances to the next entity. Returns false if no more entities.
func (q *Added[T]) Next() bool {
	return q.cur.next()
}

// Reset rewinds the query for reuse, dropping any borrows still held by a
// partially consumed iteration.
func (q *Added[T]) Reset() {
	q.cur.reset()
}

// Entity returns the current entity.
func (q *Added[T]) Entity() Entity {
	return q.cur.entity()
}

// Get reports the "added" flag for the current entity.
func (q *Added[T]) Get() bool {
	return q.flags.get(q.cur.row)
}

// Value returns a read-only view of the component for the current entity.
// It must not be written through; writes through it bypass mutation
// tracking.
func (q *Added[T]) Value() *T {
	return (*T)(q.value.ptr(q.cur.row))
}

// Mutated is a query over entities having component T, reporting per entity
// whether the component was written through a write-capable accessor since
// the last World.ClearTrackers call, regardless of whether the value
// actually differs. Added components do not count as mutated.
type Mutated[T any] struct {
	cur   cursor
	flags fetchMutated
	value fetchValue
}

// NewMutated creates a Mutated query over w for component type T.
// It panics if T has not been registered.
func NewMutated[T any](w *World) *Mutated[T] {
	id := GetID[T]()
	q := &Mutated[T]{
		flags: fetchMutated{id: id},
		value: fetchValue{id: id, stride: componentSizes[id]},
	}
	q.cur = newCursor(w, &q.flags, &q.value)
	return q
}

// Next advances to the next entity. Returns false if no more entities.
func (q *Mutated[T]) Next() bool {
	return q.cur.next()
}

// Reset rewinds the query for reuse, dropping any borrows still held by a
// partially consumed iteration.
func (q *Mutated[T]) Reset() {
	q.cur.reset()
}

// Entity returns the current entity.
func (q *Mutated[T]) Entity() Entity {
	return q.cur.entity()
}

// Get reports the "mutated" flag for the current entity.
func (q *Mutated[T]) Get() bool {
	return q.flags.get(q.cur.row)
}

// Value returns a read-only view of the component for the current entity.
// It must not be written through; writes through it bypass mutation
// tracking.
func (q *Mutated[T]) Value() *T {
	return (*T)(q.value.ptr(q.cur.row))
}

// Changed is a query over entities having component T, reporting per entity
// whether the component was either newly attached or mutated since the last
// World.ClearTrackers call. The two underlying signals are not separately
// observable through this query: an added component reads true even if it
// was never separately written.
type Changed[T any] struct {
	cur   cursor
	flags fetchChanged
	value fetchValue
}

// NewChanged creates a Changed query over w for component type T.
// It panics if T has not been registered.
func NewChanged[T any](w *World) *Changed[T] {
	id := GetID[T]()
	q := &Changed[T]{
		flags: fetchChanged{id: id},
		value: fetchValue{id: id, stride: componentSizes[id]},
	}
	q.cur = newCursor(w, &q.flags, &q.value)
	return q
}

// Next advances to the next entity. Returns false if no more entities.
func (q *Changed[T]) Next() bool {
	return q.cur.next()
}

// Reset rewinds the query for reuse, dropping any borrows still held by a
// partially consumed iteration.
func (q *Changed[T]) Reset() {
	q.cur.reset()
}

// Entity returns the current entity.
func (q *Changed[T]) Entity() Entity {
	return q.cur.entity()
}

// Get reports whether the component was added or mutated for the current
// entity.
func (q *Changed[T]) Get() bool {
	return q.flags.get(q.cur.row)
}

// Value returns a read-only view of the component for the current entity.
// It must not be written through; writes through it bypass mutation
// tracking.
func (q *Changed[T]) Value() *T {
	return (*T)(q.value.ptr(q.cur.row))
}
