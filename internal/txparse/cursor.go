// Package txparse parses the output section of a hex-encoded raw Bitcoin
// transaction. All offsets and lengths are counted in hex characters, twice
// the byte count, matching the wire the signing host hands over.
package txparse

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
)

// ErrShortInput reports a read past the end of the transaction hex.
var ErrShortInput = errors.New("transaction hex too short")

// ErrHexFormat reports a field that is not valid hexadecimal.
var ErrHexFormat = errors.New("invalid transaction hex")

// Cursor walks a transaction hex string with bounds-checked reads. Every
// primitive fails with ErrShortInput rather than reading past the end.
type Cursor struct {
	s   string
	off int
}

// NewCursor returns a cursor at the start of s.
func NewCursor(s string) *Cursor {
	return &Cursor{s: s}
}

// Offset returns the current position in hex characters.
func (c *Cursor) Offset() int {
	return c.off
}

// Remaining returns the number of unread hex characters.
func (c *Cursor) Remaining() int {
	return len(c.s) - c.off
}

// Skip advances n hex characters.
func (c *Cursor) Skip(n int) error {
	if n < 0 || c.Remaining() < n {
		return fmt.Errorf("%w: need %d chars at offset %d", ErrShortInput, n, c.off)
	}
	c.off += n
	return nil
}

// ReadHex consumes and returns the next n hex characters.
func (c *Cursor) ReadHex(n int) (string, error) {
	if n < 0 || c.Remaining() < n {
		return "", fmt.Errorf("%w: need %d chars at offset %d", ErrShortInput, n, c.off)
	}
	s := c.s[c.off : c.off+n]
	c.off += n
	return s, nil
}

// ReadVarint decodes a Bitcoin variable-length integer in hex form: a
// 2-char value below 0xFD stands alone; prefixes fd, fe, and ff announce
// 4, 8, and 16 further chars holding the value in little-endian byte order.
func (c *Cursor) ReadVarint() (uint64, error) {
	prefix, err := c.ReadHex(2)
	if err != nil {
		return 0, err
	}
	first, err := strconv.ParseUint(prefix, 16, 8)
	if err != nil {
		return 0, fmt.Errorf("%w: varint prefix %q", ErrHexFormat, prefix)
	}

	var width int
	switch first {
	case 0xFD:
		width = 4
	case 0xFE:
		width = 8
	case 0xFF:
		width = 16
	default:
		return first, nil
	}

	body, err := c.ReadHex(width)
	if err != nil {
		return 0, err
	}
	return parseLittleEndianHex(body)
}

// ReadValue decodes the 8-byte little-endian output value field.
func (c *Cursor) ReadValue() (uint64, error) {
	body, err := c.ReadHex(16)
	if err != nil {
		return 0, err
	}
	return parseLittleEndianHex(body)
}

// parseLittleEndianHex interprets a hex string as a little-endian integer
// by reversing its byte pairs.
func parseLittleEndianHex(s string) (uint64, error) {
	if _, err := hex.DecodeString(s); err != nil {
		return 0, fmt.Errorf("%w: %q", ErrHexFormat, s)
	}
	buf := make([]byte, len(s))
	for i := 0; i < len(s); i += 2 {
		j := len(s) - 2 - i
		buf[j] = s[i]
		buf[j+1] = s[i+1]
	}
	v, err := strconv.ParseUint(string(buf), 16, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrHexFormat, s)
	}
	return v, nil
}
