// Package table composes a slot file and its sorted index into a keyed table:
// records are reached by primary key through the index, or scanned in slot
// order directly from the record store.
package table

import (
	"cmp"
	"errors"
	"fmt"
	"io/fs"
	"slices"

	"github.com/dmitrijs2005/dealerledger/internal/common"
	"github.com/dmitrijs2005/dealerledger/internal/storage/codec"
	"github.com/dmitrijs2005/dealerledger/internal/storage/index"
	"github.com/dmitrijs2005/dealerledger/internal/storage/slotfile"
)

// Table is a record store plus the index over its key field.
type Table[K cmp.Ordered] struct {
	store    *slotfile.Store
	index    *index.File[K]
	keys     index.KeyCodec[K]
	keyField int
}

// New builds a table. keyField is the position of the primary key among the
// record fields.
func New[K cmp.Ordered](store *slotfile.Store, idx *index.File[K], keys index.KeyCodec[K], keyField int) *Table[K] {
	return &Table[K]{store: store, index: idx, keys: keys, keyField: keyField}
}

// Create appends the record and indexes it. created is false, with no error,
// when key already exists. Keys the index cannot hold are rejected before
// anything is written.
func (t *Table[K]) Create(key K, fields []string) (slot int, created bool, err error) {
	if err := t.index.CheckKey(key); err != nil {
		return 0, false, err
	}
	_, found, err := t.LookupSlot(key)
	if err != nil {
		return 0, false, err
	}
	if found {
		return 0, false, nil
	}

	slot, err = t.store.Append(fields)
	if err != nil {
		return 0, false, fmt.Errorf("append record: %w", err)
	}

	if err := t.index.Insert(key, slot); err != nil {
		if errors.Is(err, common.ErrorDuplicateKey) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("index record: %w", err)
	}
	return slot, true, nil
}

// LookupSlot resolves key through the index. Absent keys and missing files
// are reported through found, never as errors.
func (t *Table[K]) LookupSlot(key K) (slot int, found bool, err error) {
	slot, err = t.index.Find(key)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) || errors.Is(err, fs.ErrNotExist) {
			return 0, false, nil
		}
		return 0, false, err
	}
	return slot, true, nil
}

// Read returns the record stored under key together with its slot.
func (t *Table[K]) Read(key K) (fields []string, slot int, found bool, err error) {
	slot, found, err = t.LookupSlot(key)
	if err != nil || !found {
		return nil, 0, found, err
	}

	fields, err = t.store.ReadSlot(slot)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, 0, false, nil
		}
		return nil, 0, false, err
	}
	return fields, slot, true, nil
}

// ReadSlot reads a record by slot number, bypassing the index.
func (t *Table[K]) ReadSlot(slot int) ([]string, error) {
	return t.store.ReadSlot(slot)
}

// Overwrite rewrites a record in place. The index is not touched, so fields
// must keep the same key.
func (t *Table[K]) Overwrite(slot int, fields []string) error {
	return t.store.OverwriteSlot(slot, fields)
}

// Update reads the record under key, applies mutate to a copy of its fields
// and writes it back to the same slot.
func (t *Table[K]) Update(key K, mutate func(fields []string) error) (updated []string, found bool, err error) {
	fields, slot, found, err := t.Read(key)
	if err != nil || !found {
		return nil, found, err
	}

	if t.keyField >= len(fields) {
		return nil, true, fmt.Errorf("slot %d has %d fields: %w", slot, len(fields), codec.ErrCorruptedRecord)
	}
	updated = slices.Clone(fields)
	if err := mutate(updated); err != nil {
		return nil, true, err
	}
	if t.keys.Format(key) != updated[t.keyField] {
		return nil, true, fmt.Errorf("update must not change the key field: %w", common.ErrorValidation)
	}
	if err := t.store.OverwriteSlot(slot, updated); err != nil {
		return nil, true, err
	}
	return updated, true, nil
}

// RenameKey moves the record stored under oldKey to newKey without moving it
// between slots. The record is rewritten first and the index second; the two
// writes are not atomic with respect to each other.
func (t *Table[K]) RenameKey(oldKey, newKey K) (fields []string, found bool, err error) {
	fields, slot, found, err := t.Read(oldKey)
	if err != nil || !found {
		return nil, found, err
	}
	if oldKey == newKey {
		return fields, true, nil
	}
	if err := t.index.CheckKey(newKey); err != nil {
		return nil, true, err
	}

	_, taken, err := t.LookupSlot(newKey)
	if err != nil {
		return nil, true, err
	}
	if taken {
		return nil, true, fmt.Errorf("rename to %q: %w", t.keys.Format(newKey), common.ErrorDuplicateKey)
	}

	if t.keyField >= len(fields) {
		return nil, true, fmt.Errorf("slot %d has %d fields: %w", slot, len(fields), codec.ErrCorruptedRecord)
	}
	renamed := slices.Clone(fields)
	renamed[t.keyField] = t.keys.Format(newKey)
	if err := t.store.OverwriteSlot(slot, renamed); err != nil {
		return nil, true, fmt.Errorf("rewrite key field: %w", err)
	}

	if err := t.index.Delete(oldKey); err != nil {
		return nil, true, fmt.Errorf("drop old index entry: %w", err)
	}
	if err := t.index.Insert(newKey, slot); err != nil {
		return nil, true, fmt.Errorf("insert new index entry: %w", err)
	}
	return renamed, true, nil
}

// Unindex removes key from the index while leaving its record in place.
func (t *Table[K]) Unindex(key K) error {
	return t.index.Delete(key)
}

// Reindex points key at slot again.
func (t *Table[K]) Reindex(key K, slot int) error {
	return t.index.Insert(key, slot)
}

// Scan visits every record of the store in slot order, including records that
// are no longer indexed.
func (t *Table[K]) Scan(fn func(slot int, fields []string) error) error {
	return t.store.Scan(fn)
}
