package table

import (
	"path/filepath"
	"testing"

	"github.com/dmitrijs2005/dealerledger/internal/common"
	"github.com/dmitrijs2005/dealerledger/internal/storage/codec"
	"github.com/dmitrijs2005/dealerledger/internal/storage/index"
	"github.com/dmitrijs2005/dealerledger/internal/storage/slotfile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCarsTable(t *testing.T) *Table[string] {
	t.Helper()
	dir := t.TempDir()
	return New(
		slotfile.Open(filepath.Join(dir, "cars.txt"), 64),
		index.Open(filepath.Join(dir, "cars_index.txt"), index.StringKeys),
		index.StringKeys,
		0,
	)
}

func TestCreate_IsCreateIfAbsent(t *testing.T) {
	tb := newCarsTable(t)

	slot, created, err := tb.Create("V1", []string{"V1", "available"})
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, 1, slot)

	_, created, err = tb.Create("V1", []string{"V1", "sold"})
	require.NoError(t, err)
	assert.False(t, created)

	fields, _, found, err := tb.Read("V1")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, []string{"V1", "available"}, fields)
}

func TestLookupSlot_MissingFilesAreAbsent(t *testing.T) {
	tb := newCarsTable(t)

	_, found, err := tb.LookupSlot("nope")
	require.NoError(t, err)
	assert.False(t, found)

	_, _, found, err = tb.Read("nope")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestUpdate_RewritesInPlace(t *testing.T) {
	tb := newCarsTable(t)
	_, _, err := tb.Create("V1", []string{"V1", "available"})
	require.NoError(t, err)
	_, _, err = tb.Create("V2", []string{"V2", "available"})
	require.NoError(t, err)

	updated, found, err := tb.Update("V2", func(f []string) error { f[1] = "sold"; return nil })
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, []string{"V2", "sold"}, updated)

	fields, slot, _, err := tb.Read("V2")
	require.NoError(t, err)
	assert.Equal(t, 2, slot)
	assert.Equal(t, []string{"V2", "sold"}, fields)

	_, _, err = tb.Update("V2", func(f []string) error { f[0] = "V9"; return nil })
	require.ErrorIs(t, err, common.ErrorValidation)

	_, found, err = tb.Update("V404", func([]string) error { return nil })
	require.NoError(t, err)
	assert.False(t, found)
}

func TestRenameKey_KeepsSlot(t *testing.T) {
	tb := newCarsTable(t)
	_, _, err := tb.Create("B", []string{"B", "available"})
	require.NoError(t, err)
	_, _, err = tb.Create("A", []string{"A", "sold"})
	require.NoError(t, err)

	fields, found, err := tb.RenameKey("B", "C")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, []string{"C", "available"}, fields)

	_, found, err = tb.LookupSlot("B")
	require.NoError(t, err)
	assert.False(t, found)

	slot, found, err := tb.LookupSlot("C")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, 1, slot)
}

func TestRenameKey_RejectsTakenKeyWithoutChanges(t *testing.T) {
	tb := newCarsTable(t)
	_, _, err := tb.Create("A", []string{"A", "available"})
	require.NoError(t, err)
	_, _, err = tb.Create("B", []string{"B", "available"})
	require.NoError(t, err)

	_, found, err := tb.RenameKey("A", "B")
	require.ErrorIs(t, err, common.ErrorDuplicateKey)
	assert.True(t, found)

	fields, err := tb.ReadSlot(1)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "available"}, fields)
}

func TestRenameKey_Missing(t *testing.T) {
	tb := newCarsTable(t)
	_, found, err := tb.RenameKey("A", "B")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestUnindexReindex(t *testing.T) {
	tb := newCarsTable(t)
	slot, _, err := tb.Create("A", []string{"A", "x"})
	require.NoError(t, err)

	require.NoError(t, tb.Unindex("A"))
	_, found, err := tb.LookupSlot("A")
	require.NoError(t, err)
	assert.False(t, found)

	var scanned int
	require.NoError(t, tb.Scan(func(int, []string) error { scanned++; return nil }))
	assert.Equal(t, 1, scanned, "unindexed record stays visible to scans")

	require.NoError(t, tb.Reindex("A", slot))
	got, found, err := tb.LookupSlot("A")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, slot, got)
}

func TestCreate_RejectsUnindexableKeyBeforeAppend(t *testing.T) {
	tb := newCarsTable(t)

	for _, key := range []string{"", " V1", "V1 ", "V;1"} {
		_, created, err := tb.Create(key, []string{key, "available"})
		require.ErrorIs(t, err, codec.ErrInvalidField, "key %q", key)
		assert.False(t, created)
	}

	scanned := 0
	require.NoError(t, tb.Scan(func(int, []string) error {
		scanned++
		return nil
	}))
	assert.Zero(t, scanned, "no record reaches the store")
}

func TestRenameKey_RejectsUnindexableKey(t *testing.T) {
	tb := newCarsTable(t)
	_, _, err := tb.Create("V1", []string{"V1", "available"})
	require.NoError(t, err)

	_, _, err = tb.RenameKey("V1", " V2")
	require.ErrorIs(t, err, codec.ErrInvalidField)

	fields, _, found, err := tb.Read("V1")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, []string{"V1", "available"}, fields)
}
