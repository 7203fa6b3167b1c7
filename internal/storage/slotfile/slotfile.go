// Package slotfile stores records in fixed-width slots addressed by 1-based
// slot numbers. A slot number never changes once assigned: records are
// appended at the end and later rewritten in place at the same offset.
package slotfile

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/dmitrijs2005/dealerledger/internal/storage/codec"
)

var ErrSlotOutOfRange = errors.New("slot out of range")

// Store is a slot file. Every operation opens and closes its own handle.
type Store struct {
	path  string
	width int
}

// Open returns a store bound to path with the given slot width.
func Open(path string, width int) *Store {
	return &Store{path: path, width: width}
}

func (s *Store) Path() string { return s.path }

func (s *Store) Width() int { return s.width }

func (s *Store) offset(slot int) int64 {
	return int64(slot-1) * int64(s.width)
}

// Append writes fields into a new slot at the end of the file and returns its
// number.
func (s *Store) Append(fields []string) (int, error) {
	buf, err := codec.Encode(fields, s.width)
	if err != nil {
		return 0, err
	}

	file, err := os.OpenFile(s.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return 0, fmt.Errorf("open %s: %w", s.path, err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return 0, fmt.Errorf("stat %s: %w", s.path, err)
	}
	if info.Size()%int64(s.width) != 0 {
		return 0, fmt.Errorf("%s size %d is not a multiple of %d: %w", s.path, info.Size(), s.width, codec.ErrCorruptedRecord)
	}

	if _, err := file.Write(buf); err != nil {
		return 0, fmt.Errorf("append to %s: %w", s.path, err)
	}

	info, err = file.Stat()
	if err != nil {
		return 0, fmt.Errorf("stat %s: %w", s.path, err)
	}
	return int(info.Size() / int64(s.width)), nil
}

// ReadSlot returns the decoded fields stored in slot.
func (s *Store) ReadSlot(slot int) ([]string, error) {
	if slot < 1 {
		return nil, fmt.Errorf("slot %d: %w", slot, ErrSlotOutOfRange)
	}

	file, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", s.path, err)
	}
	defer file.Close()

	buf := make([]byte, s.width)
	n, err := file.ReadAt(buf, s.offset(slot))
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("read slot %d of %s: %w", slot, s.path, err)
	}
	if n != s.width {
		return nil, fmt.Errorf("slot %d of %s: %w", slot, s.path, ErrSlotOutOfRange)
	}

	fields, err := codec.Decode(buf, 0)
	if err != nil {
		return nil, fmt.Errorf("slot %d of %s: %w", slot, s.path, err)
	}
	return fields, nil
}

// OverwriteSlot rewrites an existing slot in place.
func (s *Store) OverwriteSlot(slot int, fields []string) error {
	if slot < 1 {
		return fmt.Errorf("slot %d: %w", slot, ErrSlotOutOfRange)
	}

	buf, err := codec.Encode(fields, s.width)
	if err != nil {
		return err
	}

	file, err := os.OpenFile(s.path, os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open %s: %w", s.path, err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return fmt.Errorf("stat %s: %w", s.path, err)
	}
	if s.offset(slot)+int64(s.width) > info.Size() {
		return fmt.Errorf("slot %d of %s: %w", slot, s.path, ErrSlotOutOfRange)
	}

	if _, err := file.WriteAt(buf, s.offset(slot)); err != nil {
		return fmt.Errorf("overwrite slot %d of %s: %w", slot, s.path, err)
	}
	return nil
}

// Scan calls fn for every slot in file order. A missing file has no slots.
// Iteration stops at the first error returned by fn.
func (s *Store) Scan(fn func(slot int, fields []string) error) error {
	file, err := os.Open(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("open %s: %w", s.path, err)
	}
	defer file.Close()

	r := bufio.NewReaderSize(file, s.width*16)
	buf := make([]byte, s.width)
	for slot := 1; ; slot++ {
		if _, err := io.ReadFull(r, buf); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			if errors.Is(err, io.ErrUnexpectedEOF) {
				return fmt.Errorf("trailing partial slot %d in %s: %w", slot, s.path, codec.ErrCorruptedRecord)
			}
			return fmt.Errorf("scan %s: %w", s.path, err)
		}

		fields, err := codec.Decode(buf, 0)
		if err != nil {
			return fmt.Errorf("slot %d of %s: %w", slot, s.path, err)
		}
		if err := fn(slot, fields); err != nil {
			return err
		}
	}
}
