package txparse

import "fmt"

// Field widths in hex characters.
const (
	versionChars     = 8
	prevOutHashChars = 64
	prevOutIdxChars  = 8
	sequenceChars    = 8
	valueChars       = 16
)

// Output is one parsed transaction output: its value in satoshis and its
// script, lower-case hex as sliced from the wire.
type Output struct {
	Value  uint64
	Script string
}

// OutputSection skips the version and entire input section of a raw
// transaction and returns the encoded output section verbatim, from the
// output count varint through the last script. The caller walks it with
// ParseOutputs as a second pass.
func OutputSection(tx string) (string, error) {
	c := NewCursor(tx)
	if err := c.Skip(versionChars); err != nil {
		return "", err
	}

	inCount, err := c.ReadVarint()
	if err != nil {
		return "", err
	}
	for j := uint64(0); j < inCount; j++ {
		if err := c.Skip(prevOutHashChars + prevOutIdxChars); err != nil {
			return "", err
		}
		scriptLen, err := c.ReadVarint()
		if err != nil {
			return "", err
		}
		if err := skipScript(c, scriptLen); err != nil {
			return "", err
		}
		if err := c.Skip(sequenceChars); err != nil {
			return "", err
		}
	}

	start := c.Offset()
	outCount, err := c.ReadVarint()
	if err != nil {
		return "", err
	}
	for j := uint64(0); j < outCount; j++ {
		if err := c.Skip(valueChars); err != nil {
			return "", err
		}
		scriptLen, err := c.ReadVarint()
		if err != nil {
			return "", err
		}
		if err := skipScript(c, scriptLen); err != nil {
			return "", err
		}
	}

	return tx[start:c.Offset()], nil
}

// ParseOutputs walks an encoded output section and decodes each output's
// value and script.
func ParseOutputs(section string) ([]Output, error) {
	c := NewCursor(section)
	count, err := c.ReadVarint()
	if err != nil {
		return nil, err
	}

	outputs := make([]Output, 0, capHint(count))
	for j := uint64(0); j < count; j++ {
		value, err := c.ReadValue()
		if err != nil {
			return nil, err
		}
		scriptLen, err := c.ReadVarint()
		if err != nil {
			return nil, err
		}
		script, err := readScript(c, scriptLen)
		if err != nil {
			return nil, err
		}
		outputs = append(outputs, Output{Value: value, Script: script})
	}
	return outputs, nil
}

// skipScript advances over a script of scriptLen bytes (2*scriptLen chars),
// guarding the multiplication against overflow.
func skipScript(c *Cursor, scriptLen uint64) error {
	chars, err := scriptChars(c, scriptLen)
	if err != nil {
		return err
	}
	return c.Skip(chars)
}

func readScript(c *Cursor, scriptLen uint64) (string, error) {
	chars, err := scriptChars(c, scriptLen)
	if err != nil {
		return "", err
	}
	return c.ReadHex(chars)
}

func scriptChars(c *Cursor, scriptLen uint64) (int, error) {
	if scriptLen > uint64(c.Remaining())/2 {
		return 0, fmt.Errorf("%w: script of %d bytes at offset %d", ErrShortInput, scriptLen, c.Offset())
	}
	return int(scriptLen) * 2, nil
}

// capHint bounds the initial allocation for a claimed output count.
func capHint(count uint64) int {
	const max = 64
	if count > max {
		return max
	}
	return int(count)
}
