package engine

import "sync"

// Suppressor tracks user actions in flight. While any guard is held,
// background refreshes are skipped. Every Begin also advances an epoch so a
// background refresh that started before the action can detect it and drop
// its result.
type Suppressor struct {
	mu     sync.Mutex
	active int
	epoch  uint64
}

// Guard is a held suppression window.
type Guard struct {
	s    *Suppressor
	once sync.Once
}

// Begin opens a suppression window. The caller must Release the guard,
// normally with defer.
func (s *Suppressor) Begin() *Guard {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active++
	s.epoch++
	return &Guard{s: s}
}

// Release closes the window. Extra calls are no-ops.
func (g *Guard) Release() {
	if g == nil {
		return
	}
	g.once.Do(func() {
		g.s.mu.Lock()
		defer g.s.mu.Unlock()
		g.s.active--
	})
}

// Active reports whether any guard is held.
func (s *Suppressor) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active > 0
}

// Window returns the current epoch and whether no guard is held.
func (s *Suppressor) Window() (uint64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.epoch, s.active == 0
}

// RunIfQuiet runs fn only if no guard is held and none was begun since
// epoch was read. fn runs under the suppressor lock so Begin cannot
// interleave with it.
func (s *Suppressor) RunIfQuiet(epoch uint64, fn func()) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active > 0 || s.epoch != epoch {
		return false
	}
	fn()
	return true
}
