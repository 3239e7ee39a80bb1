// Package rendercontext tracks which GPU resource holders were used in
// the current frame so that holders skipped for a whole sweep interval
// can release their GPU data.
package rendercontext

// Store keeps two generations of holders. Use marks a holder as used in
// the current generation. Swap releases every holder left over from the
// previous generation and starts a new one.
type Store[T comparable] struct {
	release func(T)

	used    map[T]struct{}
	notUsed map[T]struct{}
}

func New[T comparable](release func(T)) *Store[T] {
	return &Store[T]{
		release: release,
		used:    make(map[T]struct{}),
		notUsed: make(map[T]struct{}),
	}
}

func (s *Store[T]) Use(h T) {
	delete(s.notUsed, h)
	s.used[h] = struct{}{}
}

// Forget drops h from both generations without releasing it.
func (s *Store[T]) Forget(h T) {
	delete(s.used, h)
	delete(s.notUsed, h)
}

// Swap releases holders not used since the previous Swap and returns
// how many were released.
func (s *Store[T]) Swap() int {
	n := len(s.notUsed)
	for h := range s.notUsed {
		s.release(h)
	}
	s.notUsed = s.used
	s.used = make(map[T]struct{})
	return n
}

// Len returns the number of holders tracked across both generations.
func (s *Store[T]) Len() int {
	return len(s.used) + len(s.notUsed)
}
