// Package codec encodes ledger records into fixed-width textual slots.
//
// A slot holds the record fields joined by Delimiter, right-padded with spaces
// to width-1 bytes and terminated by a newline, so every record of a file
// occupies exactly width bytes.
package codec

import (
	"errors"
	"fmt"
	"strings"
)

const (
	Delimiter        = ";"
	DefaultSlotWidth = 500
)

var (
	ErrRecordTooLarge  = errors.New("record exceeds slot width")
	ErrInvalidField    = errors.New("field contains a reserved character")
	ErrCorruptedRecord = errors.New("corrupted record")
)

// MaxContent returns how many content bytes fit into a slot of width bytes.
func MaxContent(width int) int {
	return width - 1
}

// Encode serializes fields into exactly width bytes. The last field may not
// end in whitespace, which Decode could not tell apart from padding.
func Encode(fields []string, width int) ([]byte, error) {
	if width < 2 {
		return nil, fmt.Errorf("invalid slot width %d", width)
	}
	for i, f := range fields {
		if strings.ContainsAny(f, Delimiter+"\r\n") {
			return nil, fmt.Errorf("field %d %q: %w", i, f, ErrInvalidField)
		}
	}
	if n := len(fields); n > 0 {
		last := fields[n-1]
		if strings.TrimRight(last, " \x00") != last {
			return nil, fmt.Errorf("field %d %q has trailing whitespace: %w", n-1, last, ErrInvalidField)
		}
	}

	content := strings.Join(fields, Delimiter)
	if len(content) > MaxContent(width) {
		return nil, fmt.Errorf("%d bytes, limit %d: %w", len(content), MaxContent(width), ErrRecordTooLarge)
	}

	buf := make([]byte, width)
	n := copy(buf, content)
	for i := n; i < width-1; i++ {
		buf[i] = ' '
	}
	buf[width-1] = '\n'
	return buf, nil
}

// Decode strips padding from a raw slot and splits it into fields. When want
// is positive the field count must match it.
func Decode(raw []byte, want int) ([]string, error) {
	content := strings.TrimRight(string(raw), " \r\n\x00")
	if content == "" {
		return nil, fmt.Errorf("empty slot: %w", ErrCorruptedRecord)
	}

	fields := strings.Split(content, Delimiter)
	if want > 0 && len(fields) != want {
		return nil, fmt.Errorf("expected %d fields, got %d: %w", want, len(fields), ErrCorruptedRecord)
	}
	return fields, nil
}
