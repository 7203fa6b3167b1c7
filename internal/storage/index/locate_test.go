package index

import (
	"math/rand"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func entriesOf(keys ...int) []Entry[int] {
	out := make([]Entry[int], len(keys))
	for i, k := range keys {
		out[i] = Entry[int]{Key: k, Slot: i + 1}
	}
	return out
}

func TestLocate(t *testing.T) {
	entries := entriesOf(10, 20, 30, 40, 50)

	tests := []struct {
		name string
		key  int
		want Location
	}{
		{name: "below min", key: 5, want: Location{Pos: 0}},
		{name: "min", key: 10, want: Location{Found: true, Pos: 0}},
		{name: "max", key: 50, want: Location{Found: true, Pos: 4}},
		{name: "above max", key: 60, want: Location{Pos: 5}},
		{name: "middle hit", key: 30, want: Location{Found: true, Pos: 2}},
		{name: "inner hit", key: 40, want: Location{Found: true, Pos: 3}},
		{name: "gap", key: 35, want: Location{Pos: 3}},
		{name: "first gap", key: 11, want: Location{Pos: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Locate(entries, tt.key))
		})
	}
}

func TestLocate_Empty(t *testing.T) {
	assert.Equal(t, Location{Pos: 0}, Locate[string](nil, "a"))
}

func TestLocate_SingleEntry(t *testing.T) {
	entries := entriesOf(7)
	assert.Equal(t, Location{Found: true, Pos: 0}, Locate(entries, 7))
	assert.Equal(t, Location{Pos: 0}, Locate(entries, 6))
	assert.Equal(t, Location{Pos: 1}, Locate(entries, 8))
}

func TestLocate_MatchesLinearSearch(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for round := 0; round < 200; round++ {
		seen := map[int]bool{}
		var keys []int
		for i := rng.Intn(40); i > 0; i-- {
			k := rng.Intn(100)
			if !seen[k] {
				seen[k] = true
				keys = append(keys, k)
			}
		}
		slices.Sort(keys)
		entries := entriesOf(keys...)

		for probe := -1; probe <= 101; probe++ {
			pos, found := slices.BinarySearch(keys, probe)
			require.Equal(t, Location{Found: found, Pos: pos}, Locate(entries, probe), "keys=%v probe=%d", keys, probe)
		}
	}
}
