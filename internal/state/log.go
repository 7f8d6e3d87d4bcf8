package state

import "github.com/google/uuid"

// IDFunc generates record ids.
type IDFunc func() string

const idAttempts = 3

// upsert replaces the record whose key matches rec's key, or appends rec.
func upsert[T any, K comparable](items []T, key func(T) K, rec T) []T {
	k := key(rec)
	for i := range items {
		if key(items[i]) == k {
			items[i] = rec
			return items
		}
	}
	return append(items, rec)
}

// removeBy drops every record with the given key and reports whether any were
// present.
func removeBy[T any, K comparable](items []T, key func(T) K, k K) ([]T, bool) {
	out := items[:0]
	found := false
	for _, it := range items {
		if key(it) == k {
			found = true
			continue
		}
		out = append(out, it)
	}
	return out, found
}

// firstDuplicate returns the first key that appears more than once.
func firstDuplicate[T any, K comparable](items []T, key func(T) K) (K, bool) {
	seen := make(map[K]bool, len(items))
	for _, it := range items {
		k := key(it)
		if seen[k] {
			return k, true
		}
		seen[k] = true
	}
	var zero K
	return zero, false
}

func findBy[T any, K comparable](items []T, key func(T) K, k K) (T, bool) {
	for _, it := range items {
		if key(it) == k {
			return it, true
		}
	}
	var zero T
	return zero, false
}

// nextID returns an id not already used by items.
func (s *Snapshot) nextID(taken func(string) bool) (string, error) {
	gen := s.NewID
	if gen == nil {
		gen = uuid.NewString
	}
	for range idAttempts {
		id := gen()
		if id != "" && !taken(id) {
			return id, nil
		}
	}
	return "", ErrIDCollision
}

func cycleKey(c Cycle) string                 { return c.ID }
func weekKey(w WeekRecord) int                { return w.WeekNumber }
func dailyKey(d DailyLog) string              { return d.Date }
func reflectionKey(r ReflectionEntry) string  { return r.ID }
func visibilityKey(v VisibilityAction) string { return v.ID }
func essayKey(e Essay) string                 { return e.ID }
