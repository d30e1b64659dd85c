package kiroku

import "fmt"

// cursor drives the Fetch protocol for one composed query over every
// matching archetype of a world. An archetype matches when every term
// reports an access other than AccessNone for it.
type cursor struct {
	world   *World
	terms   []Fetch
	states  []int
	arch    *Archetype
	archIdx int
	row     int
	size    int
}

// newCursor validates the composed terms and returns a cursor positioned
// before the first row. Combining two terms that touch the same component
// where at least one needs exclusive access is rejected here, before any
// archetype is iterated.
func newCursor(w *World, terms ...Fetch) cursor {
	validateTerms(terms)
	return cursor{
		world:  w,
		terms:  terms,
		states: make([]int, len(terms)),
	}
}

// validateTerms panics if the composed terms declare conflicting access to
// the same component.
func validateTerms(terms []Fetch) {
	type decl struct {
		id        ComponentID
		exclusive bool
	}
	var decls []decl
	for _, t := range terms {
		t.ForEachBorrow(func(id ComponentID, exclusive bool) {
			for _, d := range decls {
				if d.id == id && (d.exclusive || exclusive) {
					panic(fmt.Sprintf("kiroku: conflicting access to component %s within one query", idToType[id]))
				}
			}
			decls = append(decls, decl{id: id, exclusive: exclusive})
		})
	}
}

// next advances to the next matching row, binding terms when iteration
// enters a new archetype and releasing them when it leaves.
func (c *cursor) next() bool {
	if c.arch != nil {
		c.row++
		if c.row < c.size {
			return true
		}
		c.releaseTerms()
	}
	for c.archIdx < len(c.world.archetypesList) {
		a := c.world.archetypesList[c.archIdx]
		c.archIdx++
		if a.rowCount() == 0 || !c.matches(a) {
			continue
		}
		c.bindTerms(a)
		c.arch = a
		c.size = a.rowCount()
		c.row = 0
		return true
	}
	return false
}

// matches reports whether every term has its component in a.
func (c *cursor) matches(a *Archetype) bool {
	for _, t := range c.terms {
		if t.Access(a) == AccessNone {
			return false
		}
	}
	return true
}

// bindTerms resolves, borrows and binds every term against a.
func (c *cursor) bindTerms(a *Archetype) {
	for i, t := range c.terms {
		state, ok := t.Prepare(a)
		if !ok {
			panic("kiroku: missing component in matching archetype")
		}
		c.states[i] = state
		t.Borrow(a, state)
		t.Bind(a, state)
	}
}

// releaseTerms drops the borrows held on the current archetype.
func (c *cursor) releaseTerms() {
	for i, t := range c.terms {
		t.Release(c.arch, c.states[i])
	}
	c.arch = nil
}

// reset rewinds the cursor, dropping any borrows still held by a partially
// consumed iteration.
func (c *cursor) reset() {
	if c.arch != nil {
		c.releaseTerms()
	}
	c.archIdx = 0
	c.row = 0
	c.size = 0
}

// entity returns the entity at the current row.
func (c *cursor) entity() Entity {
	return c.arch.entities[c.row]
}
