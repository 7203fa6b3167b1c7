package index

import "cmp"

// Entry maps a primary key to the 1-based slot of its record.
type Entry[K cmp.Ordered] struct {
	Key  K
	Slot int
}

// Location is the result of Locate. When Found is true Pos is the position of
// the matching entry, otherwise it is where the key would have to be inserted
// to keep the entries sorted.
type Location struct {
	Found bool
	Pos   int
}

// Locate binary-searches entries, which must be sorted ascending by key and
// free of duplicates.
func Locate[K cmp.Ordered](entries []Entry[K], key K) Location {
	n := len(entries)
	if n == 0 || key < entries[0].Key {
		return Location{Pos: 0}
	}
	if key == entries[0].Key {
		return Location{Found: true, Pos: 0}
	}
	if key > entries[n-1].Key {
		return Location{Pos: n}
	}
	if key == entries[n-1].Key {
		return Location{Found: true, Pos: n - 1}
	}

	// entries[left].Key < key < entries[right].Key holds on every iteration.
	left, right := 0, n-1
	for right-left > 1 {
		mid := left + (right-left)/2
		switch {
		case entries[mid].Key == key:
			return Location{Found: true, Pos: mid}
		case entries[mid].Key < key:
			left = mid
		default:
			right = mid
		}
	}
	return Location{Pos: right}
}
