package kiroku

import "sync/atomic"

// writerState marks a column held by an exclusive borrower.
const writerState = -1

// atomicBorrow tracks runtime shared/exclusive access to one component
// column. A positive count is the number of shared borrowers; writerState
// means one exclusive borrower. Tracker reads never touch the counter:
// flag arrays are a distinct resource and reading them requires no access
// to the component data itself.
type atomicBorrow struct {
	n atomic.Int32
}

// borrow acquires a shared borrow. It panics if the column is currently
// borrowed exclusively.
func (b *atomicBorrow) borrow() {
	for {
		n := b.n.Load()
		if n == writerState {
			panic("kiroku: component column already borrowed exclusively")
		}
		if b.n.CompareAndSwap(n, n+1) {
			return
		}
	}
}

// release drops a shared borrow taken with borrow.
func (b *atomicBorrow) release() {
	b.n.Add(-1)
}

// borrowMut acquires an exclusive borrow. It panics if the column has any
// borrower, shared or exclusive.
func (b *atomicBorrow) borrowMut() {
	if !b.n.CompareAndSwap(0, writerState) {
		panic("kiroku: component column already borrowed")
	}
}

// releaseMut drops the exclusive borrow taken with borrowMut.
func (b *atomicBorrow) releaseMut() {
	b.n.Store(0)
}
