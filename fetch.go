package kiroku

// Access describes the conflict-relevant access a query term needs on a
// component column. Tracker terms only ever need AccessRead: flag arrays
// are a separate resource and reading them never requires exclusive access
// to the component data, even though the mutated flag exists because some
// other accessor took exclusive access.
type Access uint8

const (
	// AccessNone means the component is absent from the archetype under
	// consideration; the term is excluded from conflict checks and the
	// archetype is skipped.
	AccessNone Access = iota
	// AccessRead is shared access: any number of readers may overlap.
	AccessRead
	// AccessWrite is exclusive access: no other term may touch the column.
	AccessWrite
)

// Fetch is the per-archetype binding protocol shared by every query term.
// The iteration engine drives it in this order, once per matching
// archetype: Access (the archetype is skipped on AccessNone), Prepare,
// Borrow, Bind, per-row reads on the concrete term, then Release when
// iteration leaves the archetype.
//
// A zero-value term is the unbound placeholder: it is safe to hold and
// pass around but must never be read from before Bind. Bind must only be
// given a state obtained from Prepare on the same archetype; using a state
// resolved against a different archetype is undefined. Row reads are not
// bounds-checked: the engine guarantees the row is within the bound
// archetype's current row count.
type Fetch interface {
	// Access reports the access this term needs on a, or AccessNone when
	// its component is absent and the archetype must be skipped.
	Access(a *Archetype) Access
	// Prepare resolves the opaque column state for a. ok is false when the
	// component is absent; absence is a normal outcome, not an error.
	Prepare(a *Archetype) (state int, ok bool)
	// Borrow acquires the term's runtime borrow on the column. Tracker
	// terms are no-ops: they perform no locking of their own and trust the
	// composition-time checks to have excluded conflicting writers.
	Borrow(a *Archetype, state int)
	// Bind captures raw column references for one iteration pass over a.
	Bind(a *Archetype, state int)
	// Release drops the borrow taken by Borrow.
	Release(a *Archetype, state int)
	// ForEachBorrow reports the component/exclusivity pairs this term
	// touches, independent of any archetype. The composition engine uses
	// it to reject conflicting term combinations before iteration.
	ForEachBorrow(f func(id ComponentID, exclusive bool))
}
