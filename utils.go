package kiroku

// extendSlice extends a slice by n elements, reallocating if necessary.
func extendSlice[T any](s []T, n int) []T {
	newLen := len(s) + n
	if cap(s) >= newLen {
		ns := s[:newLen]
		clear(ns[len(s):])
		return ns
	}
	newCap := max(2*cap(s), newLen)
	ns := make([]T, newLen, newCap)
	copy(ns, s)
	return ns
}

// extendByteSlice extends a byte slice by n bytes, reallocating if necessary.
// The new bytes are always zeroed, even when capacity is reused.
func extendByteSlice(s []byte, n int) []byte {
	newLen := len(s) + n
	if cap(s) >= newLen {
		ns := s[:newLen]
		clear(ns[len(s):])
		return ns
	}
	newCap := max(2*cap(s), newLen)
	ns := make([]byte, newLen, newCap)
	copy(ns, s)
	return ns
}
