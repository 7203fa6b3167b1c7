// Package index maintains the sorted key→slot files that give every record
// store logarithmic point lookups.
//
// An index file holds one "key;slot" line per live record, sorted ascending
// by key with no duplicates. Every mutation rewrites the whole file through a
// temporary file and a rename.
package index

import (
	"bufio"
	"bytes"
	"cmp"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/dealerledger/internal/common"
	"github.com/dmitrijs2005/dealerledger/internal/storage/codec"
)

// KeyCodec converts keys to and from their textual form in the index file.
type KeyCodec[K cmp.Ordered] struct {
	Parse  func(string) (K, error)
	Format func(K) string
}

var (
	IntKeys = KeyCodec[int]{Parse: strconv.Atoi, Format: strconv.Itoa}

	StringKeys = KeyCodec[string]{
		Parse:  func(s string) (string, error) { return s, nil },
		Format: func(s string) string { return s },
	}
)

// File is a sorted index persisted at a single path.
type File[K cmp.Ordered] struct {
	path string
	keys KeyCodec[K]
}

// Open returns an index bound to path. The file is not touched until the
// first operation; a missing file is an empty index.
func Open[K cmp.Ordered](path string, keys KeyCodec[K]) *File[K] {
	return &File[K]{path: path, keys: keys}
}

// Path returns the location of the index file.
func (f *File[K]) Path() string {
	return f.path
}

// Entries loads the whole index in key order.
func (f *File[K]) Entries() ([]Entry[K], error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read index %s: %w", f.path, err)
	}

	var entries []Entry[K]
	sc := bufio.NewScanner(bytes.NewReader(data))
	for line := 1; sc.Scan(); line++ {
		text := strings.TrimRight(sc.Text(), "\r\n")
		if text == "" {
			continue
		}
		rawKey, rawSlot, ok := strings.Cut(text, codec.Delimiter)
		if !ok {
			return nil, fmt.Errorf("index %s line %d: %w", f.path, line, codec.ErrCorruptedRecord)
		}
		key, err := f.keys.Parse(rawKey)
		if err != nil {
			return nil, fmt.Errorf("index %s line %d key: %w", f.path, line, err)
		}
		slot, err := strconv.Atoi(rawSlot)
		if err != nil {
			return nil, fmt.Errorf("index %s line %d slot: %w", f.path, line, err)
		}
		entries = append(entries, Entry[K]{Key: key, Slot: slot})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("scan index %s: %w", f.path, err)
	}
	return entries, nil
}

// Find returns the slot stored for key or common.ErrorNotFound.
func (f *File[K]) Find(key K) (int, error) {
	entries, err := f.Entries()
	if err != nil {
		return 0, err
	}
	loc := Locate(entries, key)
	if !loc.Found {
		return 0, common.ErrorNotFound
	}
	return entries[loc.Pos].Slot, nil
}

// InsertionPoint returns the position key would take in the index, or
// common.ErrorDuplicateKey when it is already present.
func (f *File[K]) InsertionPoint(key K) (int, error) {
	entries, err := f.Entries()
	if err != nil {
		return 0, err
	}
	loc := Locate(entries, key)
	if loc.Found {
		return 0, common.ErrorDuplicateKey
	}
	return loc.Pos, nil
}

// CheckKey reports codec.ErrInvalidField for keys the index file cannot hold
// verbatim: empty keys, keys containing the delimiter or a line break, and
// keys with leading or trailing whitespace.
func (f *File[K]) CheckKey(key K) error {
	formatted := f.keys.Format(key)
	if formatted == "" ||
		strings.ContainsAny(formatted, codec.Delimiter+"\r\n") ||
		strings.TrimSpace(formatted) != formatted {
		return fmt.Errorf("index key %q: %w", formatted, codec.ErrInvalidField)
	}
	return nil
}

// Insert adds key→slot keeping the file sorted. The file is left unchanged
// when key already exists.
func (f *File[K]) Insert(key K, slot int) error {
	if err := f.CheckKey(key); err != nil {
		return err
	}
	formatted := f.keys.Format(key)

	entries, err := f.Entries()
	if err != nil {
		return err
	}
	loc := Locate(entries, key)
	if loc.Found {
		return fmt.Errorf("index key %q: %w", formatted, common.ErrorDuplicateKey)
	}

	entries = slices.Insert(entries, loc.Pos, Entry[K]{Key: key, Slot: slot})
	return f.write(entries)
}

// Delete removes key from the index. The file is left unchanged when key is
// absent.
func (f *File[K]) Delete(key K) error {
	entries, err := f.Entries()
	if err != nil {
		return err
	}
	loc := Locate(entries, key)
	if !loc.Found {
		return fmt.Errorf("index key %q: %w", f.keys.Format(key), common.ErrorNotFound)
	}

	entries = slices.Delete(entries, loc.Pos, loc.Pos+1)
	return f.write(entries)
}

func (f *File[K]) write(entries []Entry[K]) error {
	tmp, err := os.CreateTemp(filepath.Dir(f.path), filepath.Base(f.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp index: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)
	defer tmp.Close()

	w := bufio.NewWriter(tmp)
	for _, e := range entries {
		if _, err := fmt.Fprintf(w, "%s%s%d\n", f.keys.Format(e.Key), codec.Delimiter, e.Slot); err != nil {
			return fmt.Errorf("write temp index: %w", err)
		}
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("flush temp index: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("sync temp index: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp index: %w", err)
	}

	if err := os.Rename(tmpName, f.path); err != nil {
		return fmt.Errorf("replace index %s: %w", f.path, err)
	}
	return nil
}
