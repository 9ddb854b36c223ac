package query

import "sync"

// Store holds the current search criteria for one query surface and notifies
// subscribers when it changes. A mutation that is structurally equal to the
// current value is dropped without notifying anyone.
type Store struct {
	mu      sync.Mutex
	current Criteria
	subs    map[int]func(prev, next Criteria)
	nextID  int
}

// NewStore creates a store holding the given initial criteria.
func NewStore(initial Criteria) *Store {
	return &Store{
		current: initial,
		subs:    make(map[int]func(prev, next Criteria)),
	}
}

// Current returns the criteria as of the last accepted mutation.
func (s *Store) Current() Criteria {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Subscribe registers fn to run on every accepted mutation. The returned
// function unsubscribes.
func (s *Store) Subscribe(fn func(prev, next Criteria)) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// Set replaces the current criteria. It reports whether the mutation was
// accepted (i.e. the value actually changed). Subscribers run synchronously,
// outside the store's lock.
func (s *Store) Set(next Criteria) bool {
	s.mu.Lock()
	prev := s.current
	if prev.Equal(next) {
		s.mu.Unlock()
		return false
	}
	s.current = next
	subs := make([]func(prev, next Criteria), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	for _, fn := range subs {
		fn(prev, next)
	}
	return true
}

// SetFreeText mutates the free-text query, resetting the page.
func (s *Store) SetFreeText(text string) bool {
	return s.Set(s.Current().WithFreeText(text))
}

// SetCategory mutates the category filter, resetting the page.
func (s *Store) SetCategory(id string) bool {
	return s.Set(s.Current().WithCategory(id))
}

// SetCity mutates the city filter, resetting the page.
func (s *Store) SetCity(id string) bool {
	return s.Set(s.Current().WithCity(id))
}

// SetSort mutates the sort order, resetting the page.
func (s *Store) SetSort(key SortKey) bool {
	return s.Set(s.Current().WithSort(key))
}

// SetPage mutates the page number only.
func (s *Store) SetPage(page int) bool {
	return s.Set(s.Current().WithPage(page))
}
